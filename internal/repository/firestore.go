package repository

import (
	"context"
	"errors"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/ghaggin/pelicanpoint/internal/model"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	filesCollection    = "files"
	presenceCollection = "presence"
)

type fsDocument struct {
	Name     string `firestore:"name"`
	URL      string `firestore:"url"`
	Category string `firestore:"category"`
}

type fsPresence struct {
	InResidence bool      `firestore:"inResidence"`
	LastChanged time.Time `firestore:"lastChanged"`
}

type firestoreRepo struct {
	client *firestore.Client
}

func newFirestore(client *firestore.Client) *firestoreRepo {
	return &firestoreRepo{client: client}
}

func (r *firestoreRepo) close(_ context.Context) error {
	return r.client.Close()
}

func notFound(err error) error {
	if status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	return err
}

func (r *firestoreRepo) ListDocuments(ctx context.Context) ([]model.Document, error) {
	iter := r.client.Collection(filesCollection).Documents(ctx)
	defer iter.Stop()

	var docs []model.Document
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}

		var d fsDocument
		if err := snap.DataTo(&d); err != nil {
			return nil, err
		}
		docs = append(docs, model.Document{
			ID:       snap.Ref.ID,
			Name:     d.Name,
			URL:      d.URL,
			Category: model.Category(d.Category),
		})
	}
	return docs, nil
}

func (r *firestoreRepo) GetDocument(ctx context.Context, id string) (*model.Document, error) {
	snap, err := r.client.Collection(filesCollection).Doc(id).Get(ctx)
	if err != nil {
		return nil, notFound(err)
	}

	var d fsDocument
	if err := snap.DataTo(&d); err != nil {
		return nil, err
	}
	return &model.Document{
		ID:       snap.Ref.ID,
		Name:     d.Name,
		URL:      d.URL,
		Category: model.Category(d.Category),
	}, nil
}

func (r *firestoreRepo) CreateDocument(ctx context.Context, doc *model.Document) error {
	ref, _, err := r.client.Collection(filesCollection).Add(ctx, fsDocument{
		Name:     doc.Name,
		URL:      doc.URL,
		Category: string(doc.Category),
	})
	if err != nil {
		return err
	}
	doc.ID = ref.ID
	return nil
}

func (r *firestoreRepo) UpdateCategory(ctx context.Context, id string, c model.Category) error {
	_, err := r.client.Collection(filesCollection).Doc(id).Update(ctx, []firestore.Update{
		{Path: "category", Value: string(c)},
	})
	return notFound(err)
}

func (r *firestoreRepo) DeleteDocument(ctx context.Context, id string) error {
	_, err := r.client.Collection(filesCollection).Doc(id).Delete(ctx, firestore.Exists)
	return notFound(err)
}

func (r *firestoreRepo) GetPresence(ctx context.Context, username string) (*model.Presence, error) {
	snap, err := r.client.Collection(presenceCollection).Doc(username).Get(ctx)
	if err != nil {
		return nil, notFound(err)
	}

	var p fsPresence
	if err := snap.DataTo(&p); err != nil {
		return nil, err
	}
	return &model.Presence{
		Username:    username,
		InResidence: p.InResidence,
		LastChanged: p.LastChanged,
	}, nil
}

func (r *firestoreRepo) ListPresence(ctx context.Context) ([]model.Presence, error) {
	iter := r.client.Collection(presenceCollection).OrderBy(firestore.DocumentID, firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var out []model.Presence
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}

		var p fsPresence
		if err := snap.DataTo(&p); err != nil {
			return nil, err
		}
		out = append(out, model.Presence{
			Username:    snap.Ref.ID,
			InResidence: p.InResidence,
			LastChanged: p.LastChanged,
		})
	}
	return out, nil
}

func (r *firestoreRepo) SetPresence(ctx context.Context, p model.Presence) error {
	_, err := r.client.Collection(presenceCollection).Doc(p.Username).Set(ctx, fsPresence{
		InResidence: p.InResidence,
		LastChanged: p.LastChanged,
	})
	return err
}
