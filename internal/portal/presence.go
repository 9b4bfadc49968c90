package portal

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/ghaggin/pelicanpoint/internal/model"
	"github.com/ghaggin/pelicanpoint/internal/repository"
	"github.com/ghaggin/pelicanpoint/internal/router"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// PresenceBoard toggles presence flags optimistically. A toggle is visible
// to readers as soon as it starts; if the remote write fails the previous
// value is restored.
type PresenceBoard struct {
	repo repository.Presence
	now  func() time.Time

	mu      sync.Mutex
	pending map[string]model.Presence
}

func NewPresenceBoard(repo repository.Presence) *PresenceBoard {
	return &PresenceBoard{
		repo:    repo,
		now:     time.Now,
		pending: make(map[string]model.Presence),
	}
}

// Get returns the flag of username, including a write still in flight.
func (b *PresenceBoard) Get(ctx context.Context, username string) (model.Presence, error) {
	b.mu.Lock()
	p, ok := b.pending[username]
	b.mu.Unlock()
	if ok {
		return p, nil
	}

	stored, err := b.repo.GetPresence(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return model.Presence{Username: username}, nil
	}
	if err != nil {
		return model.Presence{}, err
	}
	return *stored, nil
}

// List returns every known flag keyed by username.
func (b *PresenceBoard) List(ctx context.Context) (map[string]model.Presence, error) {
	stored, err := b.repo.ListPresence(ctx)

	out := make(map[string]model.Presence, len(stored))
	for _, p := range stored {
		out[p.Username] = p
	}

	b.mu.Lock()
	for u, p := range b.pending {
		out[u] = p
	}
	b.mu.Unlock()

	return out, err
}

// Toggle flips the flag of username and returns the new value, or the
// restored previous value and the write error.
func (b *PresenceBoard) Toggle(ctx context.Context, username string) (model.Presence, error) {
	prev, err := b.Get(ctx, username)
	if err != nil {
		return prev, err
	}

	next := model.Presence{
		Username:    username,
		InResidence: !prev.InResidence,
		LastChanged: b.now(),
	}

	b.mu.Lock()
	b.pending[username] = next
	b.mu.Unlock()

	err = b.repo.SetPresence(ctx, next)

	b.mu.Lock()
	// a later toggle of the same user owns the entry now
	if cur, ok := b.pending[username]; ok && cur == next {
		delete(b.pending, username)
	}
	b.mu.Unlock()

	if err != nil {
		return prev, err
	}
	return next, nil
}

func (h *handlers) togglePresence(w http.ResponseWriter, r *http.Request) {
	back := router.ParseView("/" + r.FormValue("return"))
	if back != router.ResidentDirectory {
		back = router.OwnersArea
	}

	s, ok := h.gate(w, r, back, model.CapTogglePresence)
	if !ok {
		return
	}

	username := chi.URLParam(r, "username")
	if username != s.Username && !s.Role.Can(model.CapManageUsers) {
		h.renderDenied(w, r, back)
		return
	}

	p, err := h.presence.Toggle(r.Context(), username)
	if err != nil {
		h.log.Error("presence update failed", zap.String("user", username), zap.Error(err))
		h.renderFailed(w, r, back, err.Error())
		return
	}

	h.log.Info("presence changed", zap.String("user", username), zap.Bool("inResidence", p.InResidence))
	router.Navigate(w, r, back)
}
