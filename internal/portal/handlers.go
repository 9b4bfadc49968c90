package portal

import (
	"net/http"

	"github.com/ghaggin/pelicanpoint/internal/blob"
	"github.com/ghaggin/pelicanpoint/internal/config"
	"github.com/ghaggin/pelicanpoint/internal/middleware"
	"github.com/ghaggin/pelicanpoint/internal/model"
	"github.com/ghaggin/pelicanpoint/internal/repository"
	"github.com/ghaggin/pelicanpoint/internal/router"
	"github.com/ghaggin/pelicanpoint/internal/template"
	"go.uber.org/zap"
)

type handlers struct {
	log      *zap.Logger
	cfg      *config.Config
	sessions *middleware.SessionManager
	auth     AuthAPI
	repo     repository.Repository
	blobs    blob.Store
	mailer   Mailer
	presence *PresenceBoard
	files    *fileCache

	// onFileUpload is called after every successful upload.
	onFileUpload func()
}

func newHandlers(p Params) *handlers {
	h := &handlers{
		log:      p.Log,
		cfg:      p.Config,
		sessions: p.Sessions,
		auth:     p.Auth,
		repo:     p.Repo,
		blobs:    p.Blobs,
		mailer:   p.Mailer,
		presence: NewPresenceBoard(p.Repo),
		files:    newFileCache(p.Config.Portal.FileCacheTTL),
	}
	h.onFileUpload = h.files.invalidate
	return h
}

var titles = map[router.View]string{
	router.Home:              "Home",
	router.Contact:           "Contact",
	router.Login:             "Login",
	router.Upload:            "Upload Files",
	router.OwnersArea:        "Owners’ Area",
	router.ResidentDirectory: "Resident Directory",
	router.AddUser:           "Add User",
}

// render writes a page of view v. Rendering errors are logged; the
// response is already committed or unusable at that point.
func (h *handlers) render(w http.ResponseWriter, r *http.Request, status int, v router.View, tmpl string, page any) {
	s := middleware.SessionFromContext(r.Context())
	td := template.NewData(titles[v], v.String(), s, page)
	td.Flash = h.sessions.PopFlash(r.Context())

	if err := template.RenderStatus(w, r, status, tmpl, td); err != nil {
		h.log.Error("render failed", zap.String("template", tmpl), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (h *handlers) renderDenied(w http.ResponseWriter, r *http.Request, v router.View) {
	h.render(w, r, http.StatusForbidden, v, "denied.html", nil)
}

type errorPage struct {
	Error string
	Back  string
}

// renderFailed replaces the view content with an error banner.
func (h *handlers) renderFailed(w http.ResponseWriter, r *http.Request, v router.View, msg string) {
	h.render(w, r, http.StatusBadGateway, v, "error.html", &errorPage{Error: msg, Back: router.Path(v)})
}

func (h *handlers) renderExpired(w http.ResponseWriter, r *http.Request, v router.View) {
	h.render(w, r, http.StatusUnauthorized, v, "expired.html", nil)
}

// gate applies the router's resolution to an action on view v. It reports
// false, after navigating, when the session may not act on v at all. A
// denied but signed-in session gets the access denied shell.
func (h *handlers) gate(w http.ResponseWriter, r *http.Request, v router.View, c model.Capability) (model.Session, bool) {
	s := middleware.SessionFromContext(r.Context())
	res := router.Resolve(v, s)

	if res.Rendered != v {
		router.Navigate(w, r, v)
		return s, false
	}
	if res.Denied || !s.Role.Can(c) {
		h.renderDenied(w, r, v)
		return s, false
	}
	return s, true
}

// serveView renders the view named by the request path.
func (h *handlers) serveView(w http.ResponseWriter, r *http.Request) {
	s := middleware.SessionFromContext(r.Context())
	res := router.Resolve(router.ParseView(r.URL.Path), s)

	switch res.Rendered {
	case router.Contact:
		h.render(w, r, http.StatusOK, router.Contact, "contact.html", &contactPage{})
	case router.Login:
		h.render(w, r, http.StatusOK, router.Login, "login.html", &loginPage{})
	case router.Upload:
		h.uploadView(w, r, res)
	case router.OwnersArea:
		h.ownersAreaView(w, r, res)
	case router.ResidentDirectory:
		h.directoryView(w, r, res)
	case router.AddUser:
		h.addUserView(w, r, res)
	default:
		h.render(w, r, http.StatusOK, router.Home, "home.html", nil)
	}
}
