package portal

import (
	"errors"
	"net/http"
	"path"
	"strings"

	"github.com/ghaggin/pelicanpoint/internal/blob"
	"github.com/ghaggin/pelicanpoint/internal/middleware"
	"github.com/ghaggin/pelicanpoint/internal/model"
	"github.com/ghaggin/pelicanpoint/internal/router"
	"go.uber.org/zap"
)

const msgNoFile = "Please select a file before uploading."

type uploadPage struct {
	Category   model.Category
	Categories []model.Category
	Error      string
}

func (h *handlers) uploadView(w http.ResponseWriter, r *http.Request, res router.Resolution) {
	s := middleware.SessionFromContext(r.Context())
	if res.Denied || !s.Role.Can(model.CapUploadDocuments) {
		h.renderDenied(w, r, router.Upload)
		return
	}

	h.render(w, r, http.StatusOK, router.Upload, "upload.html", &uploadPage{
		Category:   model.CategoryNotices,
		Categories: model.Categories(),
	})
}

func (h *handlers) upload(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.gate(w, r, router.Upload, model.CapUploadDocuments); !ok {
		return
	}

	page := &uploadPage{
		Category:   model.CategoryNotices,
		Categories: model.Categories(),
	}
	fail := func(status int, msg string) {
		page.Error = msg
		h.render(w, r, status, router.Upload, "upload.html", page)
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.Portal.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.cfg.Portal.MaxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		fail(http.StatusBadRequest, err.Error())
		return
	}
	page.Category = selectedCategory(r, "category")

	file, header, err := r.FormFile("file")
	if err != nil {
		fail(http.StatusBadRequest, msgNoFile)
		return
	}
	defer file.Close()

	name := path.Base(strings.ReplaceAll(header.Filename, "\\", "/"))
	if err := h.blobs.Upload(r.Context(), name, file, header.Header.Get("Content-Type")); err != nil {
		if errors.Is(err, blob.ErrInvalidName) {
			fail(http.StatusBadRequest, msgNoFile)
			return
		}
		h.log.Error("uploading file failed", zap.String("name", name), zap.Error(err))
		fail(http.StatusBadGateway, err.Error())
		return
	}

	url, err := h.blobs.URL(r.Context(), name)
	if err != nil {
		fail(http.StatusBadGateway, err.Error())
		return
	}

	doc := &model.Document{Name: name, URL: url, Category: page.Category}
	if err := h.repo.CreateDocument(r.Context(), doc); err != nil {
		h.log.Error("recording file failed", zap.String("name", name), zap.Error(err))
		fail(http.StatusBadGateway, err.Error())
		return
	}

	if h.onFileUpload != nil {
		h.onFileUpload()
	}
	h.log.Info("file uploaded", zap.String("id", doc.ID), zap.String("name", name))

	h.sessions.Flash(r.Context(), "File uploaded successfully!")
	router.Navigate(w, r, router.Upload)
}
