package middleware

import (
	"context"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/ghaggin/pelicanpoint/internal/config"
	"github.com/ghaggin/pelicanpoint/internal/model"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Keys of the per-browser persisted state. userRole mirrors the role claim
// of authToken and is rewritten whenever the token changes.
const (
	tokenKey = "authToken"
	roleKey  = "userRole"
	flashKey = "flash"
)

// TokenDecoder turns a raw bearer token into a session.
type TokenDecoder interface {
	Decode(raw string) (model.Session, error)
}

type SessionManager struct {
	impl    *scs.SessionManager
	decoder TokenDecoder
	log     *zap.Logger
}

type SessionParams struct {
	fx.In

	Config  *config.Config
	Decoder TokenDecoder
	Log     *zap.Logger
	Store   scs.Store `optional:"true"`
}

func NewSessionManager(p SessionParams) (*SessionManager, error) {
	sm := &SessionManager{
		impl:    scs.New(),
		decoder: p.Decoder,
		log:     p.Log,
	}

	sm.impl.Lifetime = p.Config.Session.Lifetime
	sm.impl.Cookie.Name = p.Config.Session.CookieName
	sm.impl.Cookie.Secure = p.Config.Session.Secure
	sm.impl.Cookie.SameSite = http.SameSiteLaxMode
	if p.Store != nil {
		sm.impl.Store = p.Store
	}

	return sm, nil
}

func (s *SessionManager) Wrap(next http.Handler) http.Handler {
	return s.impl.LoadAndSave(next)
}

// Restore rebuilds the session from the persisted token. A token that no
// longer decodes is discarded and the browser falls back to guest.
func (s *SessionManager) Restore(ctx context.Context) model.Session {
	raw := s.impl.GetString(ctx, tokenKey)
	if raw == "" {
		return model.Session{}
	}

	session, err := s.decoder.Decode(raw)
	if err != nil {
		s.log.Debug("discarding persisted token", zap.Error(err))
		s.impl.Remove(ctx, tokenKey)
		s.impl.Remove(ctx, roleKey)
		return model.Session{}
	}

	if s.impl.GetString(ctx, roleKey) != session.Role.String() {
		s.impl.Put(ctx, roleKey, session.Role.String())
	}
	return session
}

// Login installs raw as the current session. On a decode failure nothing
// stored is touched.
func (s *SessionManager) Login(ctx context.Context, raw string) (model.Session, error) {
	session, err := s.decoder.Decode(raw)
	if err != nil {
		s.log.Error("invalid token", zap.Error(err))
		return model.Session{}, err
	}

	if err := s.impl.RenewToken(ctx); err != nil {
		return model.Session{}, err
	}
	s.impl.Put(ctx, tokenKey, raw)
	s.impl.Put(ctx, roleKey, session.Role.String())
	return session, nil
}

func (s *SessionManager) SignOut(ctx context.Context) error {
	s.impl.Remove(ctx, tokenKey)
	s.impl.Remove(ctx, roleKey)
	return s.impl.RenewToken(ctx)
}

func (s *SessionManager) Flash(ctx context.Context, msg string) {
	s.impl.Put(ctx, flashKey, msg)
}

func (s *SessionManager) PopFlash(ctx context.Context) string {
	return s.impl.PopString(ctx, flashKey)
}

// RestoreSession runs Restore for every request and exposes the result to
// handlers through SessionFromContext.
func (s *SessionManager) RestoreSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session := s.Restore(r.Context())
		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
	})
}

type ctxKey struct{}

func WithSession(ctx context.Context, s model.Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// SessionFromContext returns the restored session, or the guest session
// when none was stored.
func SessionFromContext(ctx context.Context) model.Session {
	s, _ := ctx.Value(ctxKey{}).(model.Session)
	return s
}
