package counter

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jgivc/filecatalog/internal/common"
	"github.com/jgivc/filecatalog/internal/config"
	"github.com/redis/go-redis/v9"
)

const (
	// Name of the SQL table, bolt bucket and redis hash holding the counters.
	KeyDownloads = "downloads"
)

// Repository maps file names to download counters. Increment is an atomic upsert
// in every implementation.
type Repository interface {
	Init(ctx context.Context) error
	LoadAll(ctx context.Context) (map[string]int64, error)
	Increment(ctx context.Context, name string) (int64, error)
	Close() error
}

// NewRepository opens the driver selected in cfg and initializes its storage.
func NewRepository(ctx context.Context, cfg *config.CounterConfig, log *slog.Logger) (Repository, error) {
	var (
		repo Repository
		err  error
	)

	switch cfg.Driver {
	case config.CounterDriverSQLite:
		repo, err = NewSQLiteRepository(cfg.SQLitePath, log)
	case config.CounterDriverBolt:
		repo, err = NewBoltRepository(cfg.BoltPath, log)
	case config.CounterDriverRedis:
		var opt *redis.Options
		opt, err = redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("cannot parse redis url: %w", err)
		}

		repo = NewRedisRepository(redis.NewClient(opt), log)
	default:
		return nil, fmt.Errorf("%w: %s", common.ErrUnknownCounterDriverError, cfg.Driver)
	}

	if err != nil {
		return nil, fmt.Errorf("cannot open %s counter store: %w", cfg.Driver, err)
	}

	if err := repo.Init(ctx); err != nil {
		repo.Close()

		return nil, fmt.Errorf("cannot init %s counter store: %w", cfg.Driver, err)
	}

	log.Info("Counter store ready", slog.String("driver", cfg.Driver))

	return repo, nil
}
