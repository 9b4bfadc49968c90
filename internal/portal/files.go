package portal

import (
	"archive/zip"
	"errors"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"

	"github.com/ghaggin/pelicanpoint/internal/blob"
	"github.com/ghaggin/pelicanpoint/internal/middleware"
	"github.com/ghaggin/pelicanpoint/internal/model"
	"github.com/ghaggin/pelicanpoint/internal/repository"
	"github.com/ghaggin/pelicanpoint/internal/router"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type categoryTab struct {
	Category model.Category
	Active   bool
}

type ownersAreaPage struct {
	Category  model.Category
	Tabs      []categoryTab
	Files     []model.Document
	CanManage bool
	Presence  *model.Presence
}

func selectedCategory(r *http.Request, key string) model.Category {
	c, err := model.ParseCategory(r.FormValue(key))
	if err != nil {
		return model.CategoryNotices
	}
	return c
}

func ownersAreaURL(c model.Category) string {
	return router.Path(router.OwnersArea) + "?category=" + url.QueryEscape(string(c))
}

func (h *handlers) ownersAreaView(w http.ResponseWriter, r *http.Request, res router.Resolution) {
	s := middleware.SessionFromContext(r.Context())
	if res.Denied || !s.Role.Can(model.CapViewDocuments) {
		h.renderDenied(w, r, router.OwnersArea)
		return
	}

	docs, err := h.files.get(r.Context(), h.repo.ListDocuments)
	if err != nil {
		h.log.Error("listing files failed", zap.Error(err))
		h.renderFailed(w, r, router.OwnersArea, err.Error())
		return
	}

	page := &ownersAreaPage{
		Category:  selectedCategory(r, "category"),
		CanManage: s.Role.Can(model.CapManageDocuments),
	}
	for _, c := range model.Categories() {
		page.Tabs = append(page.Tabs, categoryTab{Category: c, Active: c == page.Category})
	}
	for _, d := range docs {
		if d.Category == page.Category {
			page.Files = append(page.Files, d)
		}
	}

	if s.Username != "" && s.Role.Can(model.CapTogglePresence) {
		p, err := h.presence.Get(r.Context(), s.Username)
		if err != nil {
			h.log.Error("loading presence failed", zap.String("user", s.Username), zap.Error(err))
			h.renderFailed(w, r, router.OwnersArea, err.Error())
			return
		}
		page.Presence = &p
	}

	h.render(w, r, http.StatusOK, router.OwnersArea, "owners_area.html", page)
}

func (h *handlers) updateCategory(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.gate(w, r, router.OwnersArea, model.CapManageDocuments); !ok {
		return
	}

	c, err := model.ParseCategory(r.FormValue("category"))
	if err != nil {
		http.Redirect(w, r, ownersAreaURL(selectedCategory(r, "tab")), http.StatusSeeOther)
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.repo.UpdateCategory(r.Context(), id, c); err != nil {
		h.log.Error("updating category failed", zap.String("id", id), zap.Error(err))
		h.renderFailed(w, r, router.OwnersArea, err.Error())
		return
	}
	h.files.invalidate()

	http.Redirect(w, r, ownersAreaURL(selectedCategory(r, "tab")), http.StatusSeeOther)
}

func (h *handlers) deleteFile(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.gate(w, r, router.OwnersArea, model.CapManageDocuments); !ok {
		return
	}

	id := chi.URLParam(r, "id")
	doc, err := h.repo.GetDocument(r.Context(), id)
	if err != nil {
		h.renderFailed(w, r, router.OwnersArea, err.Error())
		return
	}

	if err := h.repo.DeleteDocument(r.Context(), id); err != nil {
		h.log.Error("deleting document failed", zap.String("id", id), zap.Error(err))
		h.renderFailed(w, r, router.OwnersArea, err.Error())
		return
	}
	h.files.invalidate()

	if err := h.blobs.Delete(r.Context(), doc.Name); err != nil && !errors.Is(err, blob.ErrNotFound) {
		h.log.Error("deleting file failed", zap.String("name", doc.Name), zap.Error(err))
		h.renderFailed(w, r, router.OwnersArea, err.Error())
		return
	}

	http.Redirect(w, r, ownersAreaURL(selectedCategory(r, "tab")), http.StatusSeeOther)
}

// downloadSelected streams the selected files as one zip archive.
func (h *handlers) downloadSelected(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.gate(w, r, router.OwnersArea, model.CapViewDocuments); !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	ids := r.PostForm["ids"]
	if len(ids) == 0 {
		router.Navigate(w, r, router.OwnersArea)
		return
	}

	docs := make([]*model.Document, 0, len(ids))
	for _, id := range ids {
		doc, err := h.repo.GetDocument(r.Context(), id)
		if errors.Is(err, repository.ErrNotFound) {
			continue
		}
		if err != nil {
			h.renderFailed(w, r, router.OwnersArea, err.Error())
			return
		}
		docs = append(docs, doc)
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="documents.zip"`)

	zw := zip.NewWriter(w)
	for _, doc := range docs {
		if err := h.addToArchive(r, zw, doc); err != nil {
			// headers are gone, the truncated archive is all we can do
			h.log.Error("archiving file failed", zap.String("name", doc.Name), zap.Error(err))
			return
		}
	}
	if err := zw.Close(); err != nil {
		h.log.Error("closing archive failed", zap.Error(err))
	}
}

func (h *handlers) addToArchive(r *http.Request, zw *zip.Writer, doc *model.Document) error {
	rc, err := h.blobs.Open(r.Context(), doc.Name)
	if errors.Is(err, blob.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	defer rc.Close()

	f, err := zw.Create(path.Join(string(doc.Category), doc.Name))
	if err != nil {
		return err
	}
	_, err = io.Copy(f, rc)
	return err
}

// rawFile serves file content for stores that have no public URL.
func (h *handlers) rawFile(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.gate(w, r, router.OwnersArea, model.CapViewDocuments); !ok {
		return
	}

	name := chi.URLParam(r, "name")
	rc, err := h.blobs.Open(r.Context(), name)
	if errors.Is(err, blob.ErrNotFound) || errors.Is(err, blob.ErrInvalidName) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		h.renderFailed(w, r, router.OwnersArea, err.Error())
		return
	}
	defer rc.Close()

	if ct := mime.TypeByExtension(path.Ext(name)); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	if _, err := io.Copy(w, rc); err != nil {
		h.log.Warn("serving file interrupted", zap.String("name", name), zap.Error(err))
	}
}
