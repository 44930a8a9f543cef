package counter

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	boltFileMode    = 0o600
	boltOpenTimeout = time.Second
)

// boltRepository stores counters as decimal strings in one bucket. bbolt runs
// Update transactions one at a time, which makes read-modify-write atomic.
type boltRepository struct {
	db     *bolt.DB
	bucket []byte
	log    *slog.Logger
}

func NewBoltRepository(path string, log *slog.Logger) (*boltRepository, error) {
	db, err := bolt.Open(path, boltFileMode, &bolt.Options{Timeout: boltOpenTimeout})
	if err != nil {
		return nil, fmt.Errorf("cannot open bolt database %s: %w", path, err)
	}

	return &boltRepository{
		db:     db,
		bucket: []byte(KeyDownloads),
		log:    log.With(slog.String("item", "BoltCounterRepository")),
	}, nil
}

func (r *boltRepository) Init(_ context.Context) error {
	return r.db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(r.bucket); err != nil {
			return fmt.Errorf("cannot create bucket: %w", err)
		}

		return nil
	})
}

func (r *boltRepository) LoadAll(_ context.Context) (map[string]int64, error) {
	counters := make(map[string]int64)

	err := r.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(r.bucket)
		if b == nil {
			return fmt.Errorf("bucket %s not found", r.bucket)
		}

		return b.ForEach(func(k, v []byte) error {
			c, err := strconv.ParseInt(string(v), 10, 64)
			if err != nil {
				r.log.Error("Cannot convert counter value", slog.String("file", string(k)), slog.Any("error", err))

				return nil
			}

			counters[string(k)] = c

			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("cannot load counters: %w", err)
	}

	return counters, nil
}

func (r *boltRepository) Increment(_ context.Context, name string) (int64, error) {
	var counter int64

	err := r.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(r.bucket)
		if b == nil {
			return fmt.Errorf("bucket %s not found", r.bucket)
		}

		if v := b.Get([]byte(name)); v != nil {
			c, err := strconv.ParseInt(string(v), 10, 64)
			if err != nil {
				return fmt.Errorf("cannot convert counter value: %w", err)
			}
			counter = c
		}

		counter++

		return b.Put([]byte(name), []byte(strconv.FormatInt(counter, 10)))
	})
	if err != nil {
		return 0, fmt.Errorf("cannot increment file %s counter: %w", name, err)
	}

	return counter, nil
}

func (r *boltRepository) Close() error {
	return r.db.Close()
}
