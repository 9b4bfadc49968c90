package blob

import (
	"context"
	"errors"
	"io"
	"time"

	"cloud.google.com/go/storage"
)

// GCS stores files in the Firebase Storage bucket.
type GCS struct {
	bucket    *storage.BucketHandle
	urlExpiry time.Duration
}

func NewGCS(bucket *storage.BucketHandle, urlExpiry time.Duration) *GCS {
	return &GCS{bucket: bucket, urlExpiry: urlExpiry}
}

func (g *GCS) Upload(ctx context.Context, name string, r io.Reader, contentType string) error {
	obj, err := objectName(name)
	if err != nil {
		return err
	}

	w := g.bucket.Object(obj).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func (g *GCS) URL(_ context.Context, name string) (string, error) {
	obj, err := objectName(name)
	if err != nil {
		return "", err
	}
	return g.bucket.SignedURL(obj, &storage.SignedURLOptions{
		Scheme:  storage.SigningSchemeV4,
		Method:  "GET",
		Expires: time.Now().Add(g.urlExpiry),
	})
}

func (g *GCS) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	obj, err := objectName(name)
	if err != nil {
		return nil, err
	}
	rc, err := g.bucket.Object(obj).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, ErrNotFound
	}
	return rc, err
}

func (g *GCS) Delete(ctx context.Context, name string) error {
	obj, err := objectName(name)
	if err != nil {
		return err
	}
	err = g.bucket.Object(obj).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return ErrNotFound
	}
	return err
}
