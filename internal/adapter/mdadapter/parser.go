package mdadapter

import (
	"bytes"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

var (
	startSeq = []byte{'[', '['}
	endSeq   = []byte{']', ']'}
	descSeq  = []byte{'|'}
)

/*
 * Wiki link
 * [[filename.txt]]
 * [[filename.txt|Description]]
 */
type FileDirectiveParser struct{}

func NewFileDirectiveParser() parser.InlineParser {
	return &FileDirectiveParser{}
}

func (s *FileDirectiveParser) Trigger() []byte {
	return startSeq
}

func (s *FileDirectiveParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	b, _ := block.PeekLine()
	if !bytes.HasPrefix(b, startSeq) {
		return nil
	}

	end := bytes.Index(b, endSeq)
	if end < len(startSeq) {
		return nil
	}

	line := bytes.TrimSpace(b[len(startSeq):end])
	if len(line) == 0 {
		return nil
	}

	block.Advance(end + len(endSeq))

	if name, desc, found := bytes.Cut(line, descSeq); found {
		return &FileDirective{
			Filename:    string(bytes.TrimSpace(name)),
			Description: string(bytes.TrimSpace(desc)),
		}
	}

	return &FileDirective{
		Filename: string(line),
	}
}
