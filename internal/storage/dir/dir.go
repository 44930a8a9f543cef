package dir

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jgivc/filecatalog/internal/common"
	"github.com/jgivc/filecatalog/internal/entity"
	"github.com/spf13/afero"
)

const (
	defaultDirMode = 0o755
)

// dirStorage reads the flat upload directory. Subdirectories and other
// non-regular entries are never listed nor served.
type dirStorage struct {
	fs      afero.Fs
	root    string
	dirMode os.FileMode
	log     *slog.Logger
}

func NewDirStorage(root string, dirMode os.FileMode, log *slog.Logger) *dirStorage {
	return NewDirStorageWithFS(afero.NewOsFs(), root, dirMode, log)
}

func NewDirStorageWithFS(fs afero.Fs, root string, dirMode os.FileMode, log *slog.Logger) *dirStorage {
	if dirMode == 0 {
		dirMode = defaultDirMode
	}

	return &dirStorage{
		fs:      fs,
		root:    filepath.Clean(root),
		dirMode: dirMode,
		log:     log.With(slog.String("item", "DirStorage")),
	}
}

// EnsureDir creates the upload directory if it is missing.
func (d *dirStorage) EnsureDir() error {
	if err := d.fs.MkdirAll(d.root, d.dirMode); err != nil {
		return fmt.Errorf("cannot create upload dir %s: %w", d.root, err)
	}

	return nil
}

// List returns the regular files of the upload directory in enumeration order,
// keeping only names that contain search case-insensitively.
func (d *dirStorage) List(ctx context.Context, search string) ([]entity.DirEntry, error) {
	if err := d.EnsureDir(); err != nil {
		return nil, err
	}

	dir, err := d.fs.Open(d.root)
	if err != nil {
		return nil, fmt.Errorf("cannot open upload dir: %w", err)
	}
	defer dir.Close()

	// Readdir(-1) keeps the order the filesystem hands entries out in.
	infos, err := dir.Readdir(-1)
	if err != nil {
		return nil, fmt.Errorf("cannot read upload dir: %w", err)
	}

	needle := strings.ToLower(search)
	entries := make([]entity.DirEntry, 0, len(infos))
	for _, info := range infos {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if !info.Mode().IsRegular() {
			continue
		}

		if needle != "" && !strings.Contains(strings.ToLower(info.Name()), needle) {
			continue
		}

		entries = append(entries, entity.DirEntry{
			Name:    info.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	return entries, nil
}

// Path joins a sanitized name to the upload directory.
func (d *dirStorage) Path(name string) string {
	return filepath.Join(d.root, name)
}

// Stat returns the entry for name if it is a regular file directly inside the
// upload directory.
func (d *dirStorage) Stat(name string) (*entity.DirEntry, error) {
	path := d.Path(name)
	if filepath.Dir(path) != d.root {
		return nil, common.ErrInvalidFileNameError
	}

	info, err := d.fs.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, common.ErrFileNotFoundError
		}

		return nil, fmt.Errorf("cannot stat %s: %w", name, err)
	}

	if !info.Mode().IsRegular() {
		return nil, common.ErrFileNotFoundError
	}

	return &entity.DirEntry{
		Name:    info.Name(),
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

func (d *dirStorage) Open(name string) (afero.File, error) {
	path := d.Path(name)
	if filepath.Dir(path) != d.root {
		return nil, common.ErrInvalidFileNameError
	}

	f, err := d.fs.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, common.ErrFileNotFoundError
		}

		return nil, fmt.Errorf("cannot open %s: %w", name, err)
	}

	return f, nil
}
