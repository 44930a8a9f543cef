package tpladapter

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	_ "embed"

	"github.com/jgivc/filecatalog/internal/entity"
)

const (
	templateNamePage = "page"
	templateNameRows = "rows"

	funcNameIcon     = "icon"
	funcNameCategory = "category"
	funcNameKiB      = "kib"
	funcNameDate     = "date"
	funcNamePageURL  = "pageURL"

	DateLayout = "January 02 2006, 15:04:05"

	CategoryDocument = "document"
	CategoryImage    = "image"
	CategoryText     = "text"
	CategoryBinary   = "binary"
)

var (
	//go:embed template.html
	defaultTemplate string

	icons = map[string]string{
		CategoryDocument: "📄",
		CategoryImage:    "🖼️",
		CategoryText:     "🗒️",
		CategoryBinary:   "📦",
	}
)

type PageContext struct {
	Title      string
	Author     string
	HeaderHTML template.HTML
	*entity.Listing
}

type tplAdapter struct {
	tpl   *template.Template
	title string
}

// NewTplAdapter parses the embedded template, or templateFileName when set. A
// custom template must define both "page" and "rows".
func NewTplAdapter(templateFileName, title string) (*tplAdapter, error) {
	tpl := template.New("").Funcs(template.FuncMap{
		funcNameIcon:     Icon,
		funcNameCategory: Category,
		funcNameKiB:      FormatKiB,
		funcNameDate:     FormatDate,
		funcNamePageURL:  PageURL,
	})

	src := defaultTemplate
	if templateFileName != "" {
		data, err := os.ReadFile(templateFileName)
		if err != nil {
			return nil, fmt.Errorf("cannot read template: %w", err)
		}

		src = string(data)
	}

	if _, err := tpl.Parse(src); err != nil {
		return nil, fmt.Errorf("cannot parse template: %w", err)
	}

	for _, name := range []string{templateNamePage, templateNameRows} {
		if tpl.Lookup(name) == nil {
			return nil, fmt.Errorf("template %s must be defined", name)
		}
	}

	return &tplAdapter{tpl: tpl, title: title}, nil
}

func (a *tplAdapter) RenderPage(w io.Writer, listing *entity.Listing) error {
	return a.render(w, templateNamePage, listing)
}

func (a *tplAdapter) RenderRows(w io.Writer, listing *entity.Listing) error {
	return a.render(w, templateNameRows, listing)
}

// render executes into a buffer first so a failing template never leaves a
// half-written response.
func (a *tplAdapter) render(w io.Writer, name string, listing *entity.Listing) error {
	pc := &PageContext{
		Title:   a.title,
		Listing: listing,
	}

	if h := listing.Header; h != nil {
		if h.Title != "" {
			pc.Title = h.Title
		}
		pc.Author = h.Author
		// Produced by goldmark with raw HTML disabled.
		pc.HeaderHTML = template.HTML(h.ContentHTML)
	}

	buf := bytes.Buffer{}
	if err := a.tpl.ExecuteTemplate(&buf, name, pc); err != nil {
		return fmt.Errorf("cannot execute template %s: %w", name, err)
	}

	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("cannot write %s: %w", name, err)
	}

	return nil
}

// Category maps an extension to a coarse file type.
func Category(ext string) string {
	switch strings.ToLower(ext) {
	case "pdf":
		return CategoryDocument
	case "jpg", "png":
		return CategoryImage
	case "txt":
		return CategoryText
	default:
		return CategoryBinary
	}
}

func Icon(ext string) string {
	return icons[Category(ext)]
}

// FormatKiB renders a size in kibibytes rounded to two decimals.
func FormatKiB(size int64) string {
	return strconv.FormatFloat(float64(size)/1024, 'f', 2, 64) + " KB"
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// PageURL links to page n of the listing, keeping search and sort.
func PageURL(listing *entity.Listing, n int) string {
	q := url.Values{}
	q.Set("page", strconv.Itoa(n))

	if listing.Search != "" {
		q.Set("search", listing.Search)
	}

	if listing.Sort != "" {
		q.Set("sort", listing.Sort)
		q.Set("order", listing.Order)
	}

	return "?" + q.Encode()
}
