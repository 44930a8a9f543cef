package counter

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// redisRepository keeps all counters in a single HASH. HINCRBY file 1 creates the
// field on first use, so increments need no read.
type redisRepository struct {
	cl  *redis.Client
	key string
	log *slog.Logger
}

func NewRedisRepository(cl *redis.Client, log *slog.Logger) *redisRepository {
	return &redisRepository{
		cl:  cl,
		key: KeyDownloads,
		log: log.With(slog.String("item", "RedisCounterRepository")),
	}
}

func (r *redisRepository) Init(ctx context.Context) error {
	if _, err := r.cl.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("cannot ping redis: %w", err)
	}

	return nil
}

func (r *redisRepository) LoadAll(ctx context.Context) (map[string]int64, error) {
	fields, err := r.cl.HGetAll(ctx, r.key).Result()
	if err != nil {
		return nil, fmt.Errorf("cannot get counters: %w", err)
	}

	counters := make(map[string]int64, len(fields))
	for name, val := range fields {
		c, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			r.log.Error("Cannot convert counter value", slog.String("file", name), slog.Any("error", err))

			continue
		}

		counters[name] = c
	}

	return counters, nil
}

func (r *redisRepository) Increment(ctx context.Context, name string) (int64, error) {
	counter, err := r.cl.HIncrBy(ctx, r.key, name, 1).Result()
	if err != nil {
		return 0, fmt.Errorf("cannot increment file %s counter: %w", name, err)
	}

	return counter, nil
}

func (r *redisRepository) Close() error {
	return r.cl.Close()
}
