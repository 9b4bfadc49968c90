// Package blob stores the binary content of association files, keyed by
// file name under the files/ prefix.
package blob

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
)

var (
	ErrNotFound    = errors.New("file not found")
	ErrInvalidName = errors.New("invalid file name")
)

type Store interface {
	Upload(ctx context.Context, name string, r io.Reader, contentType string) error
	// URL is the retrieval address recorded in the document metadata.
	URL(ctx context.Context, name string) (string, error)
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Delete(ctx context.Context, name string) error
}

const prefix = "files/"

// objectName validates name and returns its key in the store.
func objectName(name string) (string, error) {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "." || base == "/" || base == ".." || base == "" {
		return "", ErrInvalidName
	}
	return prefix + base, nil
}
