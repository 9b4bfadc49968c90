package portal

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/ghaggin/pelicanpoint/internal/authapi"
	"github.com/ghaggin/pelicanpoint/internal/blob"
	"github.com/ghaggin/pelicanpoint/internal/config"
	"github.com/ghaggin/pelicanpoint/internal/mailer"
	"github.com/ghaggin/pelicanpoint/internal/middleware"
	"github.com/ghaggin/pelicanpoint/internal/model"
	"github.com/ghaggin/pelicanpoint/internal/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// AuthAPI is the remote authentication and user management service.
type AuthAPI interface {
	Login(ctx context.Context, username, password string) (*authapi.LoginResponse, error)
	CreateUser(ctx context.Context, token string, u model.NewUser) error
	ListUsers(ctx context.Context, token string) ([]model.UserRecord, error)
	DeleteUser(ctx context.Context, token, username string) error
}

type Mailer interface {
	Send(ctx context.Context, msg mailer.ContactMessage) error
}

type Portal struct {
	log    *zap.Logger
	server *http.Server
}

type Params struct {
	fx.In

	Log      *zap.Logger
	Config   *config.Config
	Sessions *middleware.SessionManager
	Auth     AuthAPI
	Repo     repository.Repository
	Blobs    blob.Store
	Mailer   Mailer
}

func New(p Params) (*Portal, error) {
	h := newHandlers(p)

	return &Portal{
		log: p.Log,
		server: &http.Server{
			Addr:    fmt.Sprintf("%s:%d", p.Config.Portal.Host, p.Config.Portal.Port),
			Handler: h.routes(),
		},
	}, nil
}

// RegisterHooks should be invoked by fx
func RegisterHooks(lc fx.Lifecycle, p *Portal) {
	lc.Append(fx.Hook{
		OnStart: p.Start,
		OnStop:  p.server.Shutdown,
	})
}

func (p *Portal) Start(_ context.Context) error {
	p.log.Info("starting portal", zap.String("addr", p.server.Addr))
	go func() {
		err := p.server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			p.log.Error("error running server", zap.Error(err))
		}
	}()
	return nil
}
