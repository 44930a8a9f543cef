package util

import (
	"path"
	"strings"
)

const (
	windowsSeparator = "\\"
	pathSeparator    = "/"
)

/*
SanitizeFileName keeps only the final path segment of an untrusted name, so the
result always names a direct child of the upload directory. Backslashes count as
separators too. The second value is false when nothing usable is left.
*/
func SanitizeFileName(name string) (string, bool) {
	name = strings.ReplaceAll(name, windowsSeparator, pathSeparator)
	name = strings.TrimRight(name, pathSeparator)
	if name == "" {
		return "", false
	}

	base := path.Base(name)
	switch base {
	case "", ".", "..", pathSeparator:
		return "", false
	}

	if strings.ContainsRune(base, 0) {
		return "", false
	}

	return base, true
}
