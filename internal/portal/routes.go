package portal

import (
	"net/http"

	"github.com/ghaggin/pelicanpoint/internal/middleware"
	"github.com/ghaggin/pelicanpoint/internal/template"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

func (h *handlers) routes() http.Handler {
	root := chi.NewRouter()
	root.Use(chiMiddleware.RequestID)
	root.Use(chiMiddleware.RealIP)
	root.Use(middleware.WithRequestLogging(h.log))
	root.Use(chiMiddleware.Recoverer)

	root.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	})
	root.Handle("/static/*", http.StripPrefix("/static", template.Static()))

	root.Group(func(r chi.Router) {
		r.Use(h.sessions.Wrap)
		r.Use(h.sessions.RestoreSession)

		r.Get("/", h.serveView)
		r.Get("/{view}", h.serveView)

		r.Post("/login", h.login)
		r.Post("/signout", h.signOut)
		r.Post("/contact", h.contact)

		r.Post("/upload", h.upload)
		r.Post("/owners-area/download", h.downloadSelected)
		r.Post("/owners-area/{id}/category", h.updateCategory)
		r.Post("/owners-area/{id}/delete", h.deleteFile)
		r.Get("/files/raw/{name}", h.rawFile)

		r.Post("/resident-directory/{username}/delete", h.deleteUser)
		r.Post("/add-user", h.addUser)
		r.Post("/presence/{username}", h.togglePresence)
	})

	return root
}
