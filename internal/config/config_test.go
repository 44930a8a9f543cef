package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jgivc/filecatalog/internal/common"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("missing.yml")
	require.NoError(t, err)

	require.Equal(t, ":8080", cfg.Listen)
	require.Equal(t, LogLevelInfo, cfg.LogLevel)
	require.Equal(t, "uploads", cfg.CatalogConfig.UploadDir)
	require.Equal(t, 10, cfg.CatalogConfig.PageSize)
	require.Equal(t, os.FileMode(0o755), cfg.CatalogConfig.DirMode)
	require.Equal(t, CounterDriverSQLite, cfg.CounterConfig.Driver)
	require.Equal(t, "downloads.sqlite", cfg.CounterConfig.SQLitePath)
	require.Equal(t, 1024*1024, cfg.HandlerConfig.ChunkSize)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	cfgFile := filepath.Join(dir, "config.yml")
	err := os.WriteFile(cfgFile, []byte(`
listen: "127.0.0.1:9000"
log_level: debug
shutdown_timeout: 3s
catalog:
  upload_dir: /srv/files
  page_size: 25
  description_file: desc.md
counter:
  driver: redis
  redis_url: redis://cache:6379/1
`), 0o644)
	require.NoError(t, err)

	cfg, err := Load(cfgFile)
	require.NoError(t, err)

	require.Equal(t, "127.0.0.1:9000", cfg.Listen)
	require.Equal(t, LogLevelDebug, cfg.LogLevel)
	require.Equal(t, "3s", cfg.ShutdownTimeout.String())
	require.Equal(t, "/srv/files", cfg.CatalogConfig.UploadDir)
	require.Equal(t, 25, cfg.CatalogConfig.PageSize)
	require.Equal(t, "desc.md", cfg.CatalogConfig.DescFileName)
	require.Equal(t, CounterDriverRedis, cfg.CounterConfig.Driver)
	require.Equal(t, "redis://cache:6379/1", cfg.CounterConfig.RedisURL)
	// Untouched keys keep their defaults.
	require.Equal(t, "downloads.db", cfg.CounterConfig.BoltPath)
}

func TestLoadEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	err := os.WriteFile(filepath.Join(dir, ".env"), []byte("FILECATALOG_COUNTER_DRIVER=bolt\n"), 0o644)
	require.NoError(t, err)

	// godotenv writes straight into the process environment.
	t.Cleanup(func() { os.Unsetenv("FILECATALOG_COUNTER_DRIVER") })
	t.Setenv("FILECATALOG_UPLOAD_DIR", "/data/uploads")
	t.Setenv("FILECATALOG_LOG_LEVEL", "warn")

	cfg, err := Load("config.yml")
	require.NoError(t, err)

	require.Equal(t, "/data/uploads", cfg.CatalogConfig.UploadDir)
	require.Equal(t, LogLevelWarn, cfg.LogLevel)
	require.Equal(t, CounterDriverBolt, cfg.CounterConfig.Driver)
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name        string
		modify      func(c *Config)
		expectValid bool
		expectErr   error
	}{
		{
			name:        "defaults",
			modify:      func(c *Config) {},
			expectValid: true,
		},
		{
			name:   "unknown log level",
			modify: func(c *Config) { c.LogLevel = "trace" },
		},
		{
			name:      "unknown driver",
			modify:    func(c *Config) { c.CounterConfig.Driver = "mysql" },
			expectErr: common.ErrUnknownCounterDriverError,
		},
		{
			name:   "empty upload dir",
			modify: func(c *Config) { c.CatalogConfig.UploadDir = "" },
		},
		{
			name:   "zero page size",
			modify: func(c *Config) { c.CatalogConfig.PageSize = 0 },
		},
		{
			name:   "zero chunk size",
			modify: func(c *Config) { c.HandlerConfig.ChunkSize = 0 },
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &Config{}
			cfg.SetDefaults()
			tc.modify(cfg)

			err := cfg.Validate()
			if tc.expectValid {
				require.NoError(t, err)

				return
			}

			require.Error(t, err)
			if tc.expectErr != nil {
				require.True(t, errors.Is(err, tc.expectErr))
			}
		})
	}
}
