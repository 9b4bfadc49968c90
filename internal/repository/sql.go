package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ghaggin/pelicanpoint/internal/model"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type documentRow struct {
	ID        string `gorm:"primaryKey;size:36"`
	Name      string `gorm:"not null"`
	URL       string
	Category  string `gorm:"index;size:16"`
	CreatedAt time.Time
}

func (documentRow) TableName() string { return "files" }

type presenceRow struct {
	Username    string `gorm:"primaryKey"`
	InResidence bool
	LastChanged time.Time
}

func (presenceRow) TableName() string { return "presence" }

type sqlRepo struct {
	db *gorm.DB
}

func openSQL(dialect, dsn string) (*gorm.DB, error) {
	var d gorm.Dialector
	switch dialect {
	case "", "sqlite":
		d = sqlite.Open(dsn)
	case "postgres":
		d = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported sql dialect %q", dialect)
	}
	return gorm.Open(d, &gorm.Config{})
}

func newSQL(db *gorm.DB) (*sqlRepo, error) {
	if err := db.AutoMigrate(&documentRow{}, &presenceRow{}); err != nil {
		return nil, err
	}
	return &sqlRepo{db: db}, nil
}

func (r *sqlRepo) close(_ context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (row documentRow) toModel() model.Document {
	return model.Document{
		ID:       row.ID,
		Name:     row.Name,
		URL:      row.URL,
		Category: model.Category(row.Category),
	}
}

func (r *sqlRepo) ListDocuments(ctx context.Context) ([]model.Document, error) {
	var rows []documentRow
	if err := r.db.WithContext(ctx).Order("created_at").Find(&rows).Error; err != nil {
		return nil, err
	}

	docs := make([]model.Document, 0, len(rows))
	for _, row := range rows {
		docs = append(docs, row.toModel())
	}
	return docs, nil
}

func (r *sqlRepo) GetDocument(ctx context.Context, id string) (*model.Document, error) {
	var row documentRow
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	d := row.toModel()
	return &d, nil
}

func (r *sqlRepo) CreateDocument(ctx context.Context, doc *model.Document) error {
	row := documentRow{
		ID:       uuid.NewString(),
		Name:     doc.Name,
		URL:      doc.URL,
		Category: string(doc.Category),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return err
	}
	doc.ID = row.ID
	return nil
}

func (r *sqlRepo) UpdateCategory(ctx context.Context, id string, c model.Category) error {
	res := r.db.WithContext(ctx).Model(&documentRow{}).Where("id = ?", id).Update("category", string(c))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *sqlRepo) DeleteDocument(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&documentRow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *sqlRepo) GetPresence(ctx context.Context, username string) (*model.Presence, error) {
	var row presenceRow
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &model.Presence{
		Username:    row.Username,
		InResidence: row.InResidence,
		LastChanged: row.LastChanged,
	}, nil
}

func (r *sqlRepo) ListPresence(ctx context.Context) ([]model.Presence, error) {
	var rows []presenceRow
	if err := r.db.WithContext(ctx).Order("username").Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]model.Presence, 0, len(rows))
	for _, row := range rows {
		out = append(out, model.Presence{
			Username:    row.Username,
			InResidence: row.InResidence,
			LastChanged: row.LastChanged,
		})
	}
	return out, nil
}

func (r *sqlRepo) SetPresence(ctx context.Context, p model.Presence) error {
	row := presenceRow{
		Username:    p.Username,
		InResidence: p.InResidence,
		LastChanged: p.LastChanged,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error
}
