package template

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/ghaggin/pelicanpoint/internal/model"
)

const (
	templateDir string = "tmpl"
)

//go:embed tmpl/*.html
var templates embed.FS

//go:embed static
var static embed.FS

// Data is handed to every page. Page carries the view specific model.
type Data struct {
	PageTitle     string
	UID           string
	Role          string
	Authenticated bool
	IsManager     bool
	Current       string
	Flash         string
	Page          any
}

// NewData fills the layout fields from the session.
func NewData(title, current string, s model.Session, page any) *Data {
	return &Data{
		PageTitle:     title,
		UID:           s.Username,
		Role:          s.Role.String(),
		Authenticated: s.Authenticated(),
		IsManager:     s.Role.Can(model.CapManageUsers),
		Current:       current,
		Page:          page,
	}
}

func Render(w http.ResponseWriter, r *http.Request, tmpl string, td any) error {
	return RenderStatus(w, r, http.StatusOK, tmpl, td)
}

// RenderStatus renders tmpl inside the base layout and only writes the
// status once the page executed cleanly.
func RenderStatus(w http.ResponseWriter, _ *http.Request, status int, tmpl string, td any) error {
	t, err := template.ParseFS(templates,
		templateDir+"/"+tmpl,
		templateDir+"/"+"base.html",
	)
	if err != nil {
		return err
	}

	buf := &bytes.Buffer{}

	err = t.ExecuteTemplate(buf, "base", td)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err = buf.WriteTo(w)
	return err
}

// Static serves the embedded stylesheet and images.
func Static() http.Handler {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}
