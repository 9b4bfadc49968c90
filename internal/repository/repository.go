package repository

import (
	"context"
	"errors"

	"github.com/ghaggin/pelicanpoint/internal/model"
)

var (
	ErrNotFound = errors.New("not found")
)

// Documents holds the metadata records of uploaded association files.
type Documents interface {
	ListDocuments(ctx context.Context) ([]model.Document, error)
	GetDocument(ctx context.Context, id string) (*model.Document, error)
	// CreateDocument assigns doc.ID.
	CreateDocument(ctx context.Context, doc *model.Document) error
	UpdateCategory(ctx context.Context, id string, c model.Category) error
	DeleteDocument(ctx context.Context, id string) error
}

// Presence holds the per-resident occupancy flags keyed by username.
type Presence interface {
	GetPresence(ctx context.Context, username string) (*model.Presence, error)
	ListPresence(ctx context.Context) ([]model.Presence, error)
	SetPresence(ctx context.Context, p model.Presence) error
}

type Repository interface {
	Documents
	Presence
}
