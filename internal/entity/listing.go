package entity

import "io"

// Page describes the active page of a listing. Start and End are slice bounds.
type Page struct {
	Current int
	Total   int
	Size    int
	Start   int
	End     int
}

// Numbers returns 1..Total, used to draw pagination controls.
func (p Page) Numbers() []int {
	nums := make([]int, 0, p.Total)
	for n := 1; n <= p.Total; n++ {
		nums = append(nums, n)
	}

	return nums
}

type Listing struct {
	Files  []FileEntry
	Page   Page
	Search string
	Sort   string
	Order  string
	Header *Header
}

// Header is the optional content rendered above the file table.
type Header struct {
	Title       string
	Author      string
	ContentHTML string
	Files       map[string]string
}

// Download is an opened file ready to be streamed to a client.
type Download struct {
	Name    string
	Path    string
	Size    int64
	Counter int64
	Reader  io.ReadCloser
}
