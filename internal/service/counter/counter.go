package counter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/jgivc/filecatalog/internal/entity"
	"gopkg.in/yaml.v2"
)

const (
	serviceName  = "counter"
	dumpFileMode = 0o644
)

type CounterRepository interface {
	LoadAll(ctx context.Context) (map[string]int64, error)
}

type counterService struct {
	repo CounterRepository
	log  *slog.Logger
}

func NewCounterService(repo CounterRepository, log *slog.Logger) *counterService {
	return &counterService{
		repo: repo,
		log:  log.With(slog.String("service", serviceName)),
	}
}

func (c *counterService) GetDownloadCounters(ctx context.Context) (map[string]int64, error) {
	counters, err := c.repo.LoadAll(ctx)
	if err != nil {
		c.log.Error("Cannot get download counters", slog.Any("error", err))

		return nil, fmt.Errorf("cannot get download counters: %w", err)
	}

	return counters, nil
}

// DumpCounters writes every counter, ordered by file name, as YAML.
func (c *counterService) DumpCounters(ctx context.Context, fileName string) error {
	counters, err := c.GetDownloadCounters(ctx)
	if err != nil {
		return err
	}

	list := make([]entity.FileCounter, 0, len(counters))
	for name, counter := range counters {
		list = append(list, entity.FileCounter{Name: name, Counter: counter})
	}

	sort.Slice(list, func(i, j int) bool {
		return list[i].Name < list[j].Name
	})

	data, err := yaml.Marshal(list)
	if err != nil {
		return fmt.Errorf("cannot marshal counters: %w", err)
	}

	if err := os.WriteFile(fileName, data, dumpFileMode); err != nil {
		return fmt.Errorf("cannot write dump file %s: %w", fileName, err)
	}

	c.log.Info("Counters dumped", slog.String("file", fileName), slog.Int("count", len(list)))

	return nil
}
