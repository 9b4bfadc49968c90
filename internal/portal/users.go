package portal

import (
	"net/http"
	"strings"
	"time"

	"github.com/ghaggin/pelicanpoint/internal/authapi"
	"github.com/ghaggin/pelicanpoint/internal/middleware"
	"github.com/ghaggin/pelicanpoint/internal/model"
	"github.com/ghaggin/pelicanpoint/internal/router"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type directoryEntry struct {
	Username    string
	Role        string
	InResidence bool
	LastChanged *time.Time
}

type directoryPage struct {
	Users []directoryEntry
}

func (h *handlers) directoryView(w http.ResponseWriter, r *http.Request, res router.Resolution) {
	s := middleware.SessionFromContext(r.Context())
	if res.Denied || !s.Role.Can(model.CapViewDirectory) {
		h.renderDenied(w, r, router.ResidentDirectory)
		return
	}

	users, err := h.auth.ListUsers(r.Context(), s.Token)
	if err != nil {
		h.authFailure(w, r, router.ResidentDirectory, err)
		return
	}

	presence, err := h.presence.List(r.Context())
	if err != nil {
		h.log.Error("loading presence failed", zap.Error(err))
		h.renderFailed(w, r, router.ResidentDirectory, err.Error())
		return
	}

	page := &directoryPage{}
	for _, u := range users {
		e := directoryEntry{
			Username:    u.Username,
			Role:        u.Role,
			InResidence: u.InResidence,
		}
		if u.LastChanged != nil && !u.LastChanged.IsZero() {
			changed := u.LastChanged.Time
			e.LastChanged = &changed
		}
		if p, ok := presence[u.Username]; ok {
			e.InResidence = p.InResidence
			changed := p.LastChanged
			e.LastChanged = &changed
		}
		page.Users = append(page.Users, e)
	}

	h.render(w, r, http.StatusOK, router.ResidentDirectory, "resident_directory.html", page)
}

// authFailure renders an auth API error: an expired token asks the user
// to sign in again, anything else replaces the view with a banner.
func (h *handlers) authFailure(w http.ResponseWriter, r *http.Request, v router.View, err error) {
	if authapi.IsTokenExpired(err) {
		h.renderExpired(w, r, v)
		return
	}
	h.log.Error("auth api call failed", zap.Stringer("view", v), zap.Error(err))
	h.renderFailed(w, r, v, authapi.Message(err))
}

func (h *handlers) deleteUser(w http.ResponseWriter, r *http.Request) {
	s, ok := h.gate(w, r, router.ResidentDirectory, model.CapManageUsers)
	if !ok {
		return
	}

	username := chi.URLParam(r, "username")
	if err := h.auth.DeleteUser(r.Context(), s.Token, username); err != nil {
		h.authFailure(w, r, router.ResidentDirectory, err)
		return
	}

	h.log.Info("user deleted", zap.String("user", username), zap.String("by", s.Username))
	router.Navigate(w, r, router.ResidentDirectory)
}

// msgCreateUserFailed is the auth API's generic create failure. It carries
// nothing the manager can act on, so the form stays without a banner.
const msgCreateUserFailed = "Error creating user"

type addUserPage struct {
	Username string
	Role     string
	Error    string
}

func (h *handlers) addUserView(w http.ResponseWriter, r *http.Request, res router.Resolution) {
	s := middleware.SessionFromContext(r.Context())
	if res.Denied || !s.Role.Can(model.CapManageUsers) {
		h.renderDenied(w, r, router.AddUser)
		return
	}

	h.render(w, r, http.StatusOK, router.AddUser, "add_user.html", &addUserPage{Role: model.User.String()})
}

func (h *handlers) addUser(w http.ResponseWriter, r *http.Request) {
	s, ok := h.gate(w, r, router.AddUser, model.CapManageUsers)
	if !ok {
		return
	}

	role := model.User
	if model.ParseRole(r.FormValue("role")) == model.Manager {
		role = model.Manager
	}
	u := model.NewUser{
		Username: strings.TrimSpace(r.FormValue("username")),
		Password: r.FormValue("password"),
		Role:     role.String(),
	}

	if err := h.auth.CreateUser(r.Context(), s.Token, u); err != nil {
		if authapi.IsTokenExpired(err) {
			h.renderExpired(w, r, router.AddUser)
			return
		}
		page := &addUserPage{Username: u.Username, Role: u.Role}
		if msg := authapi.Message(err); msg != msgCreateUserFailed {
			page.Error = msg
		}
		h.log.Warn("creating user failed", zap.String("user", u.Username), zap.Error(err))
		h.render(w, r, http.StatusOK, router.AddUser, "add_user.html", page)
		return
	}

	h.log.Info("user created", zap.String("user", u.Username), zap.String("role", u.Role), zap.String("by", s.Username))
	h.sessions.Flash(r.Context(), "User successfully created.")
	router.Navigate(w, r, router.AddUser)
}
