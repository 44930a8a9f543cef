package catalog

import (
	"cmp"
	"context"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"github.com/jgivc/filecatalog/internal/entity"
	"github.com/jgivc/filecatalog/internal/util"
)

const (
	serviceName = "catalog"

	SortNone      = ""
	SortName      = "name"
	SortType      = "type"
	SortSize      = "size"
	SortDate      = "date"
	SortDownloads = "downloads"

	OrderAsc  = "asc"
	OrderDesc = "desc"
)

type DirLister interface {
	List(ctx context.Context, search string) ([]entity.DirEntry, error)
}

type CounterRepository interface {
	LoadAll(ctx context.Context) (map[string]int64, error)
}

type HeaderProvider interface {
	Header() *entity.Header
}

// Query carries raw, untrusted listing parameters.
type Query struct {
	Search string
	Page   string
	Sort   string
	Order  string
}

type catalogService struct {
	store    DirLister
	repo     CounterRepository
	header   HeaderProvider
	pageSize int
	log      *slog.Logger
}

func NewCatalogService(store DirLister, repo CounterRepository, header HeaderProvider, pageSize int, log *slog.Logger) *catalogService {
	return &catalogService{
		store:    store,
		repo:     repo,
		header:   header,
		pageSize: pageSize,
		log:      log.With(slog.String("service", serviceName)),
	}
}

/*
List builds one page of the catalog. It never fails: an unreadable directory
gives an empty listing and an unavailable counter store gives zero counters,
so the page always renders.
*/
func (c *catalogService) List(ctx context.Context, q Query) *entity.Listing {
	entries, err := c.store.List(ctx, q.Search)
	if err != nil {
		c.log.Error("Cannot list upload dir", slog.Any("error", err))
		entries = nil
	}

	counters, err := c.repo.LoadAll(ctx)
	if err != nil {
		c.log.Error("Cannot load download counters", slog.Any("error", err))
		counters = nil
	}

	var header *entity.Header
	if c.header != nil {
		header = c.header.Header()
	}

	files := make([]entity.FileEntry, 0, len(entries))
	for _, e := range entries {
		f := entity.FileEntry{
			Name:          e.Name,
			Extension:     strings.TrimPrefix(filepath.Ext(e.Name), "."),
			Size:          e.Size,
			ModifiedAt:    e.ModTime,
			DownloadCount: counters[e.Name],
		}

		if header != nil {
			f.Description = header.Files[e.Name]
		}

		files = append(files, f)
	}

	sortKey, order := NormalizeSort(q.Sort, q.Order)
	SortFiles(files, sortKey, order)

	page := util.Paginate(len(files), c.pageSize, q.Page)

	return &entity.Listing{
		Files:  util.PageSlice(files, page),
		Page:   page,
		Search: q.Search,
		Sort:   sortKey,
		Order:  order,
		Header: header,
	}
}

// NormalizeSort maps untrusted sort parameters to known values. Unknown keys
// disable sorting; anything but "desc" is ascending.
func NormalizeSort(sortKey, order string) (string, string) {
	sortKey = strings.ToLower(strings.TrimSpace(sortKey))
	switch sortKey {
	case SortName, SortType, SortSize, SortDate, SortDownloads:
	default:
		sortKey = SortNone
	}

	if strings.EqualFold(strings.TrimSpace(order), OrderDesc) {
		return sortKey, OrderDesc
	}

	return sortKey, OrderAsc
}

/*
SortFiles orders files in place by sortKey. Ties are broken by name ascending
whatever the direction, and the sort is stable. SortNone keeps directory order.
*/
func SortFiles(files []entity.FileEntry, sortKey, order string) {
	if sortKey == SortNone {
		return
	}

	byKey := func(a, b entity.FileEntry) int {
		switch sortKey {
		case SortType:
			return cmp.Compare(strings.ToLower(a.Extension), strings.ToLower(b.Extension))
		case SortSize:
			return cmp.Compare(a.Size, b.Size)
		case SortDate:
			return a.ModifiedAt.Compare(b.ModifiedAt)
		case SortDownloads:
			return cmp.Compare(a.DownloadCount, b.DownloadCount)
		}

		return 0
	}

	byName := func(a, b entity.FileEntry) int {
		if c := cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
			return c
		}

		return cmp.Compare(a.Name, b.Name)
	}

	if sortKey == SortName {
		byKey = byName
	}

	slices.SortStableFunc(files, func(a, b entity.FileEntry) int {
		c := byKey(a, b)
		if order == OrderDesc {
			c = -c
		}

		if c != 0 {
			return c
		}

		return byName(a, b)
	})
}
