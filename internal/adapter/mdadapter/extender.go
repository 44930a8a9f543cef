package mdadapter

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// FilesExtension turns wiki links into catalog download links. The parser runs
// ahead of the link parser (200) so [[x]] is never read as a link reference.
type FilesExtension struct{}

func NewFilesExtension() goldmark.Extender {
	return &FilesExtension{}
}

func (e *FilesExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithInlineParsers(
			util.Prioritized(NewFileDirectiveParser(), 199),
		),
	)
	m.Renderer().AddOptions(
		renderer.WithNodeRenderers(
			util.Prioritized(NewFileDirectiveRenderer(), 500),
		),
	)
}
