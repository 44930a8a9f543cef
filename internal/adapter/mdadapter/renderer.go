package mdadapter

import (
	"fmt"
	"html"
	"net/url"

	"github.com/jgivc/filecatalog/internal/util"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	goldutil "github.com/yuin/goldmark/util"
)

const (
	downloadURLPrefix = "/?file="
)

type FileDirectiveRenderer struct{}

func NewFileDirectiveRenderer() renderer.NodeRenderer {
	return &FileDirectiveRenderer{}
}

func (r *FileDirectiveRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindFileDirective, r.renderFileDirective)
}

func (r *FileDirectiveRenderer) renderFileDirective(w goldutil.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}

	directive, ok := n.(*FileDirective)
	if !ok {
		return ast.WalkStop, fmt.Errorf("unexpected node %T, expected *FileDirective", n)
	}

	text := directive.Description
	if text == "" {
		text = directive.Filename
	}

	name, ok := util.SanitizeFileName(directive.Filename)
	if !ok {
		_, _ = w.WriteString(html.EscapeString(text))

		return ast.WalkContinue, nil
	}

	_, _ = fmt.Fprintf(w, `<a class="file-link" href="%s%s">%s</a>`,
		downloadURLPrefix, html.EscapeString(url.QueryEscape(name)), html.EscapeString(text))

	return ast.WalkContinue, nil
}
