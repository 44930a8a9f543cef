package httphandler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/jgivc/filecatalog/internal/common"
	"github.com/jgivc/filecatalog/internal/entity"
	"github.com/jgivc/filecatalog/internal/service/catalog"
)

const (
	paramFile   = "file"
	paramSearch = "search"
	paramPage   = "page"
	paramSort   = "sort"
	paramOrder  = "order"

	HeaderTotalPages  = "X-Total-Pages"
	HeaderCurrentPage = "X-Current-Page"

	defaultChunkSize = 1024 * 1024

	msgFileNotFound = "File not found."
)

type CatalogService interface {
	List(ctx context.Context, q catalog.Query) *entity.Listing
}

type DownloadService interface {
	Stat(ctx context.Context, rawName string) (*entity.Download, error)
	Download(ctx context.Context, rawName string) (*entity.Download, error)
}

type CounterService interface {
	GetDownloadCounters(ctx context.Context) (map[string]int64, error)
}

type Renderer interface {
	RenderPage(w io.Writer, listing *entity.Listing) error
	RenderRows(w io.Writer, listing *entity.Listing) error
}

func queryFromRequest(r *http.Request) catalog.Query {
	v := r.URL.Query()

	return catalog.Query{
		Search: v.Get(paramSearch),
		Page:   v.Get(paramPage),
		Sort:   v.Get(paramSort),
		Order:  v.Get(paramOrder),
	}
}

// NewIndexHandler serves the catalog root: a download when the file parameter
// is present, the full page otherwise.
func NewIndexHandler(catSrv CatalogService, dSrv DownloadService, renderer Renderer, chunkSize int, log *slog.Logger) http.HandlerFunc {
	log = log.With(slog.String("handler", "IndexHandler"))
	download := newDownloadHandler(dSrv, chunkSize, log)

	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Has(paramFile) {
			download(w, r)

			return
		}

		listing := catSrv.List(r.Context(), queryFromRequest(r))

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := renderer.RenderPage(w, listing); err != nil {
			log.Error("Cannot render page", slog.Any("error", err))
			http.Error(w, "Cannot render page", http.StatusInternalServerError)
		}
	}
}

// NewFilesHandler renders only the table rows. Pagination state travels in
// the X-Total-Pages and X-Current-Page headers.
func NewFilesHandler(catSrv CatalogService, renderer Renderer, log *slog.Logger) http.HandlerFunc {
	log = log.With(slog.String("handler", "FilesHandler"))

	return func(w http.ResponseWriter, r *http.Request) {
		listing := catSrv.List(r.Context(), queryFromRequest(r))

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set(HeaderTotalPages, strconv.Itoa(listing.Page.Total))
		w.Header().Set(HeaderCurrentPage, strconv.Itoa(listing.Page.Current))

		if err := renderer.RenderRows(w, listing); err != nil {
			log.Error("Cannot render rows", slog.Any("error", err))
			http.Error(w, "Cannot render rows", http.StatusInternalServerError)
		}
	}
}

func NewCounterHandler(srv CounterService, log *slog.Logger) http.HandlerFunc {
	log = log.With(slog.String("handler", "CounterHandler"))

	return func(w http.ResponseWriter, r *http.Request) {
		counters, err := srv.GetDownloadCounters(r.Context())
		if err != nil {
			http.Error(w, "Cannot get counters", http.StatusInternalServerError)

			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(counters); err != nil {
			log.Error("Cannot encode counters", slog.Any("error", err))
		}
	}
}

// newDownloadHandler streams the file. HEAD only reports the headers and does
// not count as a download.
func newDownloadHandler(srv DownloadService, chunkSize int, log *slog.Logger) http.HandlerFunc {
	if chunkSize < 1 {
		chunkSize = defaultChunkSize
	}

	return func(w http.ResponseWriter, r *http.Request) {
		rawName := r.URL.Query().Get(paramFile)

		var (
			d   *entity.Download
			err error
		)

		if r.Method == http.MethodHead {
			d, err = srv.Stat(r.Context(), rawName)
		} else {
			d, err = srv.Download(r.Context(), rawName)
		}

		if err != nil {
			switch {
			case errors.Is(err, common.ErrFileNotFoundError):
				http.Error(w, msgFileNotFound, http.StatusNotFound)
			default:
				http.Error(w, "Cannot get file", http.StatusInternalServerError)
			}

			return
		}

		setDownloadHeaders(w.Header(), d)

		if d.Reader == nil {
			return
		}
		defer d.Reader.Close()

		written, err := copyChunks(w, d.Reader, chunkSize)
		if err == nil && written != d.Size {
			err = fmt.Errorf("sent %d of %d bytes", written, d.Size)
		}

		if err != nil {
			log.Warn("Download aborted", slog.String("path", d.Path), slog.Int64("written", written), slog.Any("error", err))

			return
		}

		log.Info("Download file", slog.String("path", d.Path), slog.Int64("size", written), slog.Int64("counter", d.Counter))
	}
}

func setDownloadHeaders(h http.Header, d *entity.Download) {
	h.Set("Content-Description", "File Transfer")
	h.Set("Content-Type", "application/octet-stream")
	h.Set("Content-Disposition", `attachment; filename="`+html.EscapeString(d.Name)+`"`)
	h.Set("Expires", "0")
	h.Set("Cache-Control", "must-revalidate")
	h.Set("Pragma", "public")
	h.Set("Content-Length", strconv.FormatInt(d.Size, 10))
}

// copyChunks streams src to w one chunk at a time, flushing after every chunk.
func copyChunks(w http.ResponseWriter, src io.Reader, chunkSize int) (int64, error) {
	rc := http.NewResponseController(w)
	buf := make([]byte, chunkSize)

	var written int64
	for {
		n, rErr := src.Read(buf)
		if n > 0 {
			m, err := w.Write(buf[:n])
			written += int64(m)
			if err != nil {
				return written, err
			}

			if err := rc.Flush(); err != nil && !errors.Is(err, http.ErrNotSupported) {
				return written, err
			}
		}

		if rErr == io.EOF {
			return written, nil
		}

		if rErr != nil {
			return written, rErr
		}
	}
}
