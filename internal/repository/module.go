package repository

import (
	"context"
	"fmt"

	"github.com/ghaggin/pelicanpoint/internal/config"
	"github.com/ghaggin/pelicanpoint/internal/firebaseapp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	LC       fx.Lifecycle
	Config   *config.Config
	Log      *zap.Logger
	Firebase *firebaseapp.Provider
}

// New builds the repository selected by repository.driver.
func New(p Params) (Repository, error) {
	cfg := p.Config.Repository

	switch cfg.Driver {
	case "firestore":
		app, err := p.Firebase.App(context.Background())
		if err != nil {
			return nil, err
		}
		client, err := app.Firestore(context.Background())
		if err != nil {
			return nil, err
		}
		r := newFirestore(client)
		p.LC.Append(fx.Hook{OnStop: r.close})
		return r, nil

	case "sql":
		db, err := openSQL(cfg.Dialect, cfg.DSN)
		if err != nil {
			return nil, err
		}
		r, err := newSQL(db)
		if err != nil {
			return nil, err
		}
		p.LC.Append(fx.Hook{OnStop: r.close})
		return r, nil

	case "json", "":
		r := newJSON(cfg.Path, p.Log)
		p.LC.Append(fx.Hook{OnStop: r.stop})
		return r, nil
	}

	return nil, fmt.Errorf("unknown repository driver %q", cfg.Driver)
}
