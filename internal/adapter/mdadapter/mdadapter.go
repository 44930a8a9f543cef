package mdadapter

import (
	"bytes"
	"fmt"

	"github.com/jgivc/filecatalog/internal/entity"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"go.abhg.dev/goldmark/frontmatter"
)

type Frontmatter struct {
	Title  string            `yaml:"title"`
	Author string            `yaml:"author"`
	Files  map[string]string `yaml:"files"`
}

type mdAdapter struct {
	md goldmark.Markdown
}

func NewMDAdapter() *mdAdapter {
	md := goldmark.New(
		goldmark.WithExtensions(
			&frontmatter.Extender{},
			NewFilesExtension(),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithXHTML(),
		),
	)

	return &mdAdapter{md: md}
}

// Parse converts a markdown description with optional YAML frontmatter into a
// page header. Raw HTML in the source is not passed through.
func (a *mdAdapter) Parse(src []byte) (*entity.Header, error) {
	var buf bytes.Buffer

	ctx := parser.NewContext()
	if err := a.md.Convert(src, &buf, parser.WithContext(ctx)); err != nil {
		return nil, fmt.Errorf("cannot convert markdown: %w", err)
	}

	header := &entity.Header{
		ContentHTML: buf.String(),
	}

	if data := frontmatter.Get(ctx); data != nil {
		var fm Frontmatter
		if err := data.Decode(&fm); err != nil {
			return nil, fmt.Errorf("cannot decode frontmatter: %w", err)
		}

		header.Title = fm.Title
		header.Author = fm.Author
		header.Files = fm.Files
	}

	return header, nil
}
