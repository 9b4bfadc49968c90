// Package firebaseapp builds the Firebase app shared by the document
// repository and the file store.
package firebaseapp

import (
	"context"
	"errors"
	"sync"

	firebase "firebase.google.com/go/v4"
	"github.com/ghaggin/pelicanpoint/internal/config"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

var errNoProject = errors.New("firebase project id not configured")

// Provider initializes the app on first use so deployments that do not
// use Firebase never need credentials.
type Provider struct {
	cfg config.Firebase
	log *zap.Logger

	once sync.Once
	app  *firebase.App
	err  error
}

func New(cfg *config.Config, log *zap.Logger) *Provider {
	return &Provider{cfg: cfg.Firebase, log: log}
}

func (p *Provider) App(ctx context.Context) (*firebase.App, error) {
	p.once.Do(func() {
		if p.cfg.ProjectID == "" {
			p.err = errNoProject
			return
		}

		var opts []option.ClientOption
		if p.cfg.CredentialsFile != "" {
			opts = append(opts, option.WithCredentialsFile(p.cfg.CredentialsFile))
		}

		p.app, p.err = firebase.NewApp(ctx, &firebase.Config{
			ProjectID:     p.cfg.ProjectID,
			StorageBucket: p.cfg.Bucket,
		}, opts...)
		if p.err == nil {
			p.log.Info("firebase initialized", zap.String("project", p.cfg.ProjectID))
		}
	})
	return p.app, p.err
}
