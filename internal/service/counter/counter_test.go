package counter

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/jgivc/filecatalog/internal/entity"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"
)

type mockRepo struct {
	counters map[string]int64
	err      error
}

func (m *mockRepo) LoadAll(context.Context) (map[string]int64, error) {
	return m.counters, m.err
}

func discardLog() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestDumpCounters(t *testing.T) {
	srv := NewCounterService(&mockRepo{counters: map[string]int64{
		"report.pdf": 3,
		"image.png":  1,
	}}, discardLog())

	fileName := filepath.Join(t.TempDir(), "counters.yml")
	require.NoError(t, srv.DumpCounters(context.Background(), fileName))

	data, err := os.ReadFile(fileName)
	require.NoError(t, err)

	var got []entity.FileCounter
	require.NoError(t, yaml.Unmarshal(data, &got))
	require.Equal(t, []entity.FileCounter{
		{Name: "image.png", Counter: 1},
		{Name: "report.pdf", Counter: 3},
	}, got)
}

func TestDumpCountersRepoError(t *testing.T) {
	srv := NewCounterService(&mockRepo{err: errors.New("boom")}, discardLog())

	fileName := filepath.Join(t.TempDir(), "counters.yml")
	require.Error(t, srv.DumpCounters(context.Background(), fileName))

	_, err := os.Stat(fileName)
	require.True(t, os.IsNotExist(err))
}
