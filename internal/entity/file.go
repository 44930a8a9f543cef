package entity

import "time"

// DirEntry is a single regular file found in the upload directory.
type DirEntry struct {
	Name    string
	Size    int64
	ModTime time.Time
}

// FileEntry is a listing row: a directory entry joined with its download counter.
type FileEntry struct {
	Name          string
	Extension     string // Without the leading dot, as found on disk
	Description   string // From the description frontmatter files map, if any
	Size          int64
	ModifiedAt    time.Time
	DownloadCount int64
}

type FileCounter struct {
	Name    string `yaml:"name"`
	Counter int64  `yaml:"counter"`
}
