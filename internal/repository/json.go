package repository

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/ghaggin/pelicanpoint/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	errTableFileIsDir = errors.New("table file is dir")
)

type Data struct {
	Documents []model.Document  `json:"documents"`
	Presence  []model.Presence `json:"presence"`
}

// jsonRepo keeps everything in memory and persists it to one JSON file.
// Meant for local development.
type jsonRepo struct {
	path string
	log  *zap.Logger

	mu   sync.RWMutex
	data *Data
}

func newJSON(path string, log *zap.Logger) *jsonRepo {
	r := &jsonRepo{
		path: path,
		log:  log,
		data: &Data{},
	}

	err := r.readfile()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		// only log, data will be empty and will overwrite when
		// the service is stopped
		r.log.Warn("failed reading json repo data file", zap.Error(err))
	}

	return r
}

func (r *jsonRepo) stop(_ context.Context) error {
	return r.writefile()
}

func (r *jsonRepo) readfile() error {
	finfo, err := os.Stat(r.path)
	if err != nil {
		return err
	}

	if finfo.IsDir() {
		return errTableFileIsDir
	}

	f, err := os.Open(r.path)
	if err != nil {
		return err
	}
	defer f.Close()

	return json.NewDecoder(f).Decode(&r.data)
}

func (r *jsonRepo) writefile() error {
	r.mu.RLock()
	b, err := json.MarshalIndent(r.data, "", "  ")
	r.mu.RUnlock()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(r.path, b, 0o644)
}

func (r *jsonRepo) ListDocuments(_ context.Context) ([]model.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	docs := make([]model.Document, len(r.data.Documents))
	copy(docs, r.data.Documents)
	return docs, nil
}

func (r *jsonRepo) GetDocument(_ context.Context, id string) (*model.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, d := range r.data.Documents {
		if d.ID == id {
			return &d, nil
		}
	}
	return nil, ErrNotFound
}

func (r *jsonRepo) CreateDocument(_ context.Context, doc *model.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc.ID = uuid.NewString()
	r.data.Documents = append(r.data.Documents, *doc)
	return nil
}

func (r *jsonRepo) UpdateCategory(_ context.Context, id string, c model.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.data.Documents {
		if r.data.Documents[i].ID == id {
			r.data.Documents[i].Category = c
			return nil
		}
	}
	return ErrNotFound
}

func (r *jsonRepo) DeleteDocument(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, d := range r.data.Documents {
		if d.ID == id {
			r.data.Documents = append(r.data.Documents[:i], r.data.Documents[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (r *jsonRepo) GetPresence(_ context.Context, username string) (*model.Presence, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.data.Presence {
		if p.Username == username {
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

func (r *jsonRepo) ListPresence(_ context.Context) ([]model.Presence, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Presence, len(r.data.Presence))
	copy(out, r.data.Presence)
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (r *jsonRepo) SetPresence(_ context.Context, p model.Presence) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.data.Presence {
		if r.data.Presence[i].Username == p.Username {
			r.data.Presence[i] = p
			return nil
		}
	}
	r.data.Presence = append(r.data.Presence, p)
	return nil
}
