package middleware

import (
	"context"

	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"
	"github.com/ghaggin/pelicanpoint/internal/config"
	"github.com/go-redis/redis/v8"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewStore picks the session store: Redis when a URL is configured,
// otherwise process memory.
func NewStore(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (scs.Store, error) {
	if cfg.Session.RedisURL == "" {
		log.Info("using in-memory session store")
		return memstore.New(), nil
	}

	opt, err := redis.ParseURL(cfg.Session.RedisURL)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opt)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		},
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})

	log.Info("using redis session store", zap.String("addr", opt.Addr))
	return NewRedisStore(client), nil
}
