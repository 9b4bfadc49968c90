package portal

import (
	"net/http"
	"strings"

	"github.com/ghaggin/pelicanpoint/internal/authapi"
	"github.com/ghaggin/pelicanpoint/internal/router"
	"go.uber.org/zap"
)

type loginPage struct {
	Username string
	Error    string
}

func (h *handlers) login(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")

	resp, err := h.auth.Login(r.Context(), username, password)
	if err != nil {
		h.render(w, r, http.StatusOK, router.Login, "login.html", &loginPage{
			Username: username,
			Error:    authapi.Message(err),
		})
		return
	}

	// A token that does not decode leaves the previous session in place
	// and the form on screen, without a message.
	if _, err := h.sessions.Login(r.Context(), resp.Token); err != nil {
		h.render(w, r, http.StatusOK, router.Login, "login.html", &loginPage{Username: username})
		return
	}

	h.log.Info("signed in", zap.String("user", username))
	router.Navigate(w, r, router.Home)
}

func (h *handlers) signOut(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.SignOut(r.Context()); err != nil {
		h.log.Error("sign out failed", zap.Error(err))
	}
	router.Navigate(w, r, router.Home)
}
