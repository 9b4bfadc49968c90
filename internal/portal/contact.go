package portal

import (
	"errors"
	"net/http"

	"github.com/ghaggin/pelicanpoint/internal/mailer"
	"github.com/ghaggin/pelicanpoint/internal/router"
	"go.uber.org/zap"
)

type contactPage struct {
	Form  mailer.ContactMessage
	Sent  bool
	Error string
}

func (h *handlers) contact(w http.ResponseWriter, r *http.Request) {
	msg := mailer.ContactMessage{
		Name:    r.FormValue("name"),
		Email:   r.FormValue("email"),
		Message: r.FormValue("message"),
	}

	err := h.mailer.Send(r.Context(), msg)
	switch {
	case err == nil:
		h.render(w, r, http.StatusOK, router.Contact, "contact.html", &contactPage{Sent: true})
	case errors.Is(err, mailer.ErrMissingFields), errors.Is(err, mailer.ErrInvalidEmail):
		h.render(w, r, http.StatusBadRequest, router.Contact, "contact.html", &contactPage{Form: msg, Error: err.Error()})
	default:
		h.log.Error("contact message failed", zap.Error(err))
		h.render(w, r, http.StatusBadGateway, router.Contact, "contact.html", &contactPage{Form: msg, Error: "message could not be sent"})
	}
}
