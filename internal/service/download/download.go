package download

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jgivc/filecatalog/internal/common"
	"github.com/jgivc/filecatalog/internal/entity"
	"github.com/jgivc/filecatalog/internal/util"
	"github.com/spf13/afero"
)

const (
	serviceName = "download"
)

type FileStorage interface {
	Stat(name string) (*entity.DirEntry, error)
	Open(name string) (afero.File, error)
	Path(name string) string
}

type CounterRepository interface {
	Increment(ctx context.Context, name string) (int64, error)
}

type downloadService struct {
	store FileStorage
	repo  CounterRepository
	log   *slog.Logger
}

func NewDownloadService(store FileStorage, repo CounterRepository, log *slog.Logger) *downloadService {
	return &downloadService{
		store: store,
		repo:  repo,
		log:   log.With(slog.String("service", serviceName)),
	}
}

// Stat resolves an untrusted file name like Download does, without opening
// the file or touching its counter. Download.Reader is nil.
func (d *downloadService) Stat(_ context.Context, rawName string) (*entity.Download, error) {
	_, info, path, err := d.resolve(rawName)
	if err != nil {
		return nil, err
	}

	return &entity.Download{
		Name: info.Name,
		Path: path,
		Size: info.Size,
	}, nil
}

/*
Download resolves an untrusted file name against the upload directory, bumps its
counter and opens it. Counting is best effort: a counter store failure is logged
and the file is still returned. The caller owns Download.Reader.
*/
func (d *downloadService) Download(ctx context.Context, rawName string) (*entity.Download, error) {
	name, info, path, err := d.resolve(rawName)
	if err != nil {
		return nil, err
	}

	f, err := d.store.Open(name)
	if err != nil {
		d.log.Error("Cannot open file", slog.String("path", path), slog.Any("error", err))

		return nil, fmt.Errorf("cannot open file %s: %w", name, err)
	}

	counter, err := d.repo.Increment(ctx, name)
	if err != nil {
		d.log.Error("Cannot increment download counter", slog.String("file", name), slog.Any("error", err))
	}

	return &entity.Download{
		Name:    info.Name,
		Path:    path,
		Size:    info.Size,
		Counter: counter,
		Reader:  f,
	}, nil
}

func (d *downloadService) resolve(rawName string) (string, *entity.DirEntry, string, error) {
	name, ok := util.SanitizeFileName(rawName)
	if !ok {
		d.log.Warn("File not found", slog.String("requested", rawName))

		return "", nil, "", common.ErrFileNotFoundError
	}

	path := d.store.Path(name)

	info, err := d.store.Stat(name)
	if err != nil {
		if errors.Is(err, common.ErrFileNotFoundError) || errors.Is(err, common.ErrInvalidFileNameError) {
			d.log.Warn("File not found", slog.String("path", path))

			return "", nil, "", common.ErrFileNotFoundError
		}

		d.log.Error("Cannot stat file", slog.String("path", path), slog.Any("error", err))

		return "", nil, "", fmt.Errorf("cannot stat file %s: %w", name, err)
	}

	return name, info, path, nil
}
