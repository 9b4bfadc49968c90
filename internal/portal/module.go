package portal

import (
	"github.com/ghaggin/pelicanpoint/internal/authapi"
	"github.com/ghaggin/pelicanpoint/internal/blob"
	"github.com/ghaggin/pelicanpoint/internal/firebaseapp"
	"github.com/ghaggin/pelicanpoint/internal/mailer"
	"github.com/ghaggin/pelicanpoint/internal/repository"
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(
		New,
		firebaseapp.New,
		repository.New,
		blob.New,
		fx.Annotate(authapi.New, fx.As(new(AuthAPI))),
		fx.Annotate(mailer.New, fx.As(new(Mailer))),
	),
)
