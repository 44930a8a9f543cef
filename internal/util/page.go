package util

import (
	"math"
	"strconv"
	"strings"

	"github.com/jgivc/filecatalog/internal/entity"
)

const (
	DefaultPageSize = 10
	firstPage       = 1
)

// ParsePage reads a page number from untrusted input. Decimal values are
// truncated toward zero; anything that is not a finite number yields the first page.
func ParsePage(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return firstPage
	}

	if n, err := strconv.Atoi(raw); err == nil {
		return float64(n)
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return firstPage
	}

	return math.Trunc(f)
}

// Paginate clamps the requested page into [1, totalPages]. totalPages is at least 1.
func Paginate(total, pageSize int, raw string) entity.Page {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	if total < 0 {
		total = 0
	}

	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < firstPage {
		totalPages = firstPage
	}

	// Clamp as float so huge inputs never overflow int.
	requested := ParsePage(raw)
	current := int(math.Max(firstPage, math.Min(float64(totalPages), requested)))

	start := (current - 1) * pageSize
	end := min(start+pageSize, total)

	return entity.Page{
		Current: current,
		Total:   totalPages,
		Size:    pageSize,
		Start:   start,
		End:     end,
	}
}

// PageSlice returns the items of the page, never indexing out of range.
func PageSlice[T any](items []T, p entity.Page) []T {
	start := min(max(p.Start, 0), len(items))
	end := min(max(p.End, start), len(items))

	return items[start:end]
}
