package page

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/jgivc/filecatalog/internal/entity"
	"github.com/spf13/afero"
)

const (
	serviceName = "page"
)

type DescriptionParser interface {
	Parse(src []byte) (*entity.Header, error)
}

// pageService keeps the rendered description header. Reload swaps it atomically,
// so readers never see a half-built header.
type pageService struct {
	fs       afero.Fs
	fileName string
	parser   DescriptionParser
	header   atomic.Pointer[entity.Header]
	log      *slog.Logger
}

func NewPageService(fs afero.Fs, fileName string, parser DescriptionParser, log *slog.Logger) *pageService {
	return &pageService{
		fs:       fs,
		fileName: fileName,
		parser:   parser,
		log:      log.With(slog.String("service", serviceName)),
	}
}

// Reload renders the description file again. Without a configured file the
// header stays empty. On failure the previous header is kept.
func (p *pageService) Reload() error {
	if p.fileName == "" {
		return nil
	}

	src, err := afero.ReadFile(p.fs, p.fileName)
	if err != nil {
		p.log.Error("Cannot read description", slog.String("file", p.fileName), slog.Any("error", err))

		return fmt.Errorf("cannot read description %s: %w", p.fileName, err)
	}

	header, err := p.parser.Parse(src)
	if err != nil {
		p.log.Error("Cannot parse description", slog.String("file", p.fileName), slog.Any("error", err))

		return fmt.Errorf("cannot parse description %s: %w", p.fileName, err)
	}

	p.header.Store(header)
	p.log.Info("Description loaded", slog.String("file", p.fileName))

	return nil
}

func (p *pageService) Header() *entity.Header {
	return p.header.Load()
}
