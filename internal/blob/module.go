package blob

import (
	"context"
	"fmt"

	"github.com/ghaggin/pelicanpoint/internal/config"
	"github.com/ghaggin/pelicanpoint/internal/firebaseapp"
	"go.uber.org/zap"
)

// New builds the store selected by blob.driver.
func New(cfg *config.Config, fb *firebaseapp.Provider, log *zap.Logger) (Store, error) {
	switch cfg.Blob.Driver {
	case "gcs":
		app, err := fb.App(context.Background())
		if err != nil {
			return nil, err
		}
		client, err := app.Storage(context.Background())
		if err != nil {
			return nil, err
		}
		bucket, err := client.DefaultBucket()
		if err != nil {
			return nil, err
		}
		log.Info("using firebase storage for files")
		return NewGCS(bucket, cfg.Blob.URLExpiry), nil

	case "local", "":
		log.Info("using local directory for files", zap.String("dir", cfg.Blob.Dir))
		return NewLocal(cfg.Blob.Dir)
	}

	return nil, fmt.Errorf("unknown blob driver %q", cfg.Blob.Driver)
}
