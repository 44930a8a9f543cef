package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jgivc/filecatalog/internal/common"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"

	CounterDriverSQLite = "sqlite"
	CounterDriverRedis  = "redis"
	CounterDriverBolt   = "bolt"

	EnvPrefix = "FILECATALOG_"

	defaultListen         = ":8080"
	defaultUploadDir      = "uploads"
	defaultDirMode        = 0o755
	defaultPageSize       = 10
	defaultChunkSize      = 1024 * 1024
	defaultSQLitePath     = "downloads.sqlite"
	defaultBoltPath       = "downloads.db"
	defaultRedisURL       = "redis://localhost:6379/0"
	defaultDumpFileName   = "counters.yml"
	defaultTitle          = "Available Files"
	defaultShutdownTimout = 5 * time.Second
)

type CatalogConfig struct {
	UploadDir        string      `yaml:"upload_dir"`
	DirMode          os.FileMode `yaml:"dir_mode"`
	PageSize         int         `yaml:"page_size"`
	Title            string      `yaml:"title"`
	DescFileName     string      `yaml:"description_file"`
	TemplateFileName string      `yaml:"template_file"`
}

type CounterConfig struct {
	Driver       string `yaml:"driver"`
	SQLitePath   string `yaml:"sqlite_path"`
	BoltPath     string `yaml:"bolt_path"`
	RedisURL     string `yaml:"redis_url"`
	DumpFileName string `yaml:"dump_file"`
}

type HandlerConfig struct {
	ChunkSize int `yaml:"chunk_size"`
}

type Config struct {
	Listen          string        `yaml:"listen"`
	LogLevel        string        `yaml:"log_level"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	CatalogConfig   CatalogConfig `yaml:"catalog"`
	CounterConfig   CounterConfig `yaml:"counter"`
	HandlerConfig   HandlerConfig `yaml:"handler"`
}

func (c *Config) SetDefaults() {
	c.Listen = defaultListen
	c.LogLevel = LogLevelInfo
	c.ShutdownTimeout = defaultShutdownTimout

	c.CatalogConfig.UploadDir = defaultUploadDir
	c.CatalogConfig.DirMode = defaultDirMode
	c.CatalogConfig.PageSize = defaultPageSize
	c.CatalogConfig.Title = defaultTitle

	c.CounterConfig.Driver = CounterDriverSQLite
	c.CounterConfig.SQLitePath = defaultSQLitePath
	c.CounterConfig.BoltPath = defaultBoltPath
	c.CounterConfig.RedisURL = defaultRedisURL
	c.CounterConfig.DumpFileName = defaultDumpFileName

	c.HandlerConfig.ChunkSize = defaultChunkSize
}

func (c *Config) Validate() error {
	switch c.LogLevel {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
	default:
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}

	switch c.CounterConfig.Driver {
	case CounterDriverSQLite, CounterDriverRedis, CounterDriverBolt:
	default:
		return fmt.Errorf("%w: %q", common.ErrUnknownCounterDriverError, c.CounterConfig.Driver)
	}

	if c.CatalogConfig.UploadDir == "" {
		return fmt.Errorf("catalog.upload_dir is required")
	}

	if c.CatalogConfig.PageSize < 1 {
		return fmt.Errorf("catalog.page_size must be greater than 0")
	}

	if c.HandlerConfig.ChunkSize < 1 {
		return fmt.Errorf("handler.chunk_size must be greater than 0")
	}

	return nil
}

/*
Load builds the configuration in three layers:
 1. defaults,
 2. the YAML file, if it exists,
 3. FILECATALOG_* environment variables, optionally read from a .env file.
*/
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.SetDefaults()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("cannot parse config file %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("cannot read config file %s: %w", path, err)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("cannot load .env file: %w", err)
	}

	cfg.applyEnv(os.LookupEnv)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}

	return cfg
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	vars := map[string]*string{
		"LISTEN":           &c.Listen,
		"LOG_LEVEL":        &c.LogLevel,
		"UPLOAD_DIR":       &c.CatalogConfig.UploadDir,
		"DESCRIPTION_FILE": &c.CatalogConfig.DescFileName,
		"COUNTER_DRIVER":   &c.CounterConfig.Driver,
		"SQLITE_PATH":      &c.CounterConfig.SQLitePath,
		"BOLT_PATH":        &c.CounterConfig.BoltPath,
		"REDIS_URL":        &c.CounterConfig.RedisURL,
		"DUMP_FILE":        &c.CounterConfig.DumpFileName,
	}

	for name, dst := range vars {
		if val, ok := lookup(EnvPrefix + name); ok {
			*dst = strings.TrimSpace(val)
		}
	}
}
