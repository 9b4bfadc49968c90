package blob

import (
	"context"
	"errors"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Local keeps files in a directory and serves them through the portal's
// raw file route.
type Local struct {
	dir     string
	baseURL string
}

func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(filepath.Join(dir, strings.TrimSuffix(prefix, "/")), 0o755); err != nil {
		return nil, err
	}
	return &Local{dir: dir, baseURL: "/files/raw/"}, nil
}

func (l *Local) path(name string) (string, error) {
	obj, err := objectName(name)
	if err != nil {
		return "", err
	}
	return filepath.Join(l.dir, filepath.FromSlash(obj)), nil
}

func (l *Local) Upload(_ context.Context, name string, r io.Reader, _ string) error {
	p, err := l.path(name)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(p), ".upload-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), p)
}

func (l *Local) URL(_ context.Context, name string) (string, error) {
	obj, err := objectName(name)
	if err != nil {
		return "", err
	}
	return l.baseURL + url.PathEscape(strings.TrimPrefix(obj, prefix)), nil
}

func (l *Local) Open(_ context.Context, name string) (io.ReadCloser, error) {
	p, err := l.path(name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	return f, err
}

func (l *Local) Delete(_ context.Context, name string) error {
	p, err := l.path(name)
	if err != nil {
		return err
	}
	err = os.Remove(p)
	if errors.Is(err, os.ErrNotExist) {
		return ErrNotFound
	}
	return err
}
