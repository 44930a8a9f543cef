package counter

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/jgivc/filecatalog/internal/common"
	"github.com/jgivc/filecatalog/internal/config"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func discardLog() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

type repoFactory func(t *testing.T) Repository

func repoFactories() map[string]repoFactory {
	return map[string]repoFactory{
		config.CounterDriverSQLite: func(t *testing.T) Repository {
			repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "downloads.sqlite"), discardLog())
			require.NoError(t, err)

			return repo
		},
		config.CounterDriverBolt: func(t *testing.T) Repository {
			repo, err := NewBoltRepository(filepath.Join(t.TempDir(), "downloads.db"), discardLog())
			require.NoError(t, err)

			return repo
		},
		config.CounterDriverRedis: func(t *testing.T) Repository {
			mr := miniredis.RunT(t)

			return NewRedisRepository(redis.NewClient(&redis.Options{Addr: mr.Addr()}), discardLog())
		},
	}
}

func TestRepositories(t *testing.T) {
	for driver, factory := range repoFactories() {
		t.Run(driver, func(t *testing.T) {
			ctx := context.Background()
			repo := factory(t)
			t.Cleanup(func() { repo.Close() })

			require.NoError(t, repo.Init(ctx))
			// Init is idempotent.
			require.NoError(t, repo.Init(ctx))

			t.Run("empty", func(t *testing.T) {
				counters, err := repo.LoadAll(ctx)
				require.NoError(t, err)
				require.Empty(t, counters)
			})

			t.Run("unseen file starts at one", func(t *testing.T) {
				c, err := repo.Increment(ctx, "report.pdf")
				require.NoError(t, err)
				require.Equal(t, int64(1), c)
			})

			t.Run("increment twice adds two", func(t *testing.T) {
				counters, err := repo.LoadAll(ctx)
				require.NoError(t, err)
				initial := counters["report.pdf"]

				_, err = repo.Increment(ctx, "report.pdf")
				require.NoError(t, err)
				c, err := repo.Increment(ctx, "report.pdf")
				require.NoError(t, err)
				require.Equal(t, initial+2, c)
			})

			t.Run("load all", func(t *testing.T) {
				_, err := repo.Increment(ctx, "image.png")
				require.NoError(t, err)

				counters, err := repo.LoadAll(ctx)
				require.NoError(t, err)
				require.Equal(t, map[string]int64{"report.pdf": 3, "image.png": 1}, counters)
			})

			t.Run("html in name", func(t *testing.T) {
				c, err := repo.Increment(ctx, `<script>"x".txt`)
				require.NoError(t, err)
				require.Equal(t, int64(1), c)
			})
		})
	}
}

func TestRepositoriesConcurrentIncrement(t *testing.T) {
	const workers = 32

	for driver, factory := range repoFactories() {
		t.Run(driver, func(t *testing.T) {
			ctx := context.Background()
			repo := factory(t)
			t.Cleanup(func() { repo.Close() })
			require.NoError(t, repo.Init(ctx))

			var wg sync.WaitGroup
			errs := make(chan error, workers)
			wg.Add(workers)
			for n := 0; n < workers; n++ {
				go func() {
					defer wg.Done()
					if _, err := repo.Increment(ctx, "hot.bin"); err != nil {
						errs <- err
					}
				}()
			}
			wg.Wait()
			close(errs)

			for err := range errs {
				require.NoError(t, err)
			}

			counters, err := repo.LoadAll(ctx)
			require.NoError(t, err)
			require.Equal(t, int64(workers), counters["hot.bin"])
		})
	}
}

func TestRedisRepositorySkipsBrokenValues(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	mr.HSet(KeyDownloads, "ok.txt", "4")
	mr.HSet(KeyDownloads, "broken.txt", "four")

	repo := NewRedisRepository(redis.NewClient(&redis.Options{Addr: mr.Addr()}), discardLog())
	t.Cleanup(func() { repo.Close() })

	counters, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	require.Equal(t, map[string]int64{"ok.txt": 4}, counters)
}

func TestRedisRepositoryUnavailable(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	repo := NewRedisRepository(redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1}), discardLog())
	t.Cleanup(func() { repo.Close() })

	mr.Close()

	require.Error(t, repo.Init(ctx))
	_, err := repo.Increment(ctx, "a.txt")
	require.Error(t, err)
}

func TestNewRepository(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	t.Run("sqlite", func(t *testing.T) {
		repo, err := NewRepository(ctx, &config.CounterConfig{
			Driver:     config.CounterDriverSQLite,
			SQLitePath: filepath.Join(dir, "c.sqlite"),
		}, discardLog())
		require.NoError(t, err)
		require.NoError(t, repo.Close())
	})

	t.Run("bolt", func(t *testing.T) {
		repo, err := NewRepository(ctx, &config.CounterConfig{
			Driver:   config.CounterDriverBolt,
			BoltPath: filepath.Join(dir, "c.db"),
		}, discardLog())
		require.NoError(t, err)
		require.NoError(t, repo.Close())
	})

	t.Run("redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		repo, err := NewRepository(ctx, &config.CounterConfig{
			Driver:   config.CounterDriverRedis,
			RedisURL: "redis://" + mr.Addr() + "/0",
		}, discardLog())
		require.NoError(t, err)
		require.NoError(t, repo.Close())
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, err := NewRepository(ctx, &config.CounterConfig{Driver: "mysql"}, discardLog())
		require.ErrorIs(t, err, common.ErrUnknownCounterDriverError)
	})

	t.Run("bad redis url", func(t *testing.T) {
		_, err := NewRepository(ctx, &config.CounterConfig{
			Driver:   config.CounterDriverRedis,
			RedisURL: "not a url",
		}, discardLog())
		require.Error(t, err)
	})
}
