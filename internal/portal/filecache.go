package portal

import (
	"context"
	"sync"
	"time"

	"github.com/ghaggin/pelicanpoint/internal/model"
)

// fileCache holds the last document listing for ttl. Uploads, category
// edits and deletes invalidate it.
type fileCache struct {
	ttl time.Duration
	now func() time.Time

	mu       sync.Mutex
	docs     []model.Document
	loadedAt time.Time
	valid    bool
}

func newFileCache(ttl time.Duration) *fileCache {
	return &fileCache{ttl: ttl, now: time.Now}
}

func (c *fileCache) get(ctx context.Context, load func(context.Context) ([]model.Document, error)) ([]model.Document, error) {
	c.mu.Lock()
	if c.valid && c.now().Sub(c.loadedAt) < c.ttl {
		docs := c.docs
		c.mu.Unlock()
		return docs, nil
	}
	c.mu.Unlock()

	docs, err := load(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.docs = docs
	c.loadedAt = c.now()
	c.valid = true
	c.mu.Unlock()
	return docs, nil
}

func (c *fileCache) invalidate() {
	c.mu.Lock()
	c.valid = false
	c.docs = nil
	c.mu.Unlock()
}
