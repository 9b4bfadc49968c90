package main

import (
	"flag"

	"github.com/ghaggin/pelicanpoint/internal/config"
	"github.com/ghaggin/pelicanpoint/internal/middleware"
	"github.com/ghaggin/pelicanpoint/internal/portal"
	"github.com/ghaggin/pelicanpoint/internal/token"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func main() {
	var configPath = flag.String("config", "./config/config.yaml", "path to the yaml config file")
	var development = flag.Bool("dev", false, "development logging")
	flag.Parse()

	newConfigPath := func() config.Path {
		return config.Path(*configPath)
	}

	newLogger := func(cfg *config.Config) (*zap.Logger, error) {
		if *development || cfg.Log.Development {
			return zap.NewDevelopment()
		}
		return zap.NewProduction()
	}

	app := fx.New(
		fx.Provide(
			newConfigPath,
			config.New,
			newLogger,
			fx.Annotate(token.NewDecoder, fx.As(new(middleware.TokenDecoder))),
			middleware.NewStore,
			middleware.NewSessionManager,
		),
		portal.Module,
		fx.Invoke(portal.RegisterHooks),
	)

	app.Run()
}
