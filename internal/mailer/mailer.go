// Package mailer delivers contact form messages to the management office.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/mail"
	"strings"

	"github.com/ghaggin/pelicanpoint/internal/config"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

var (
	ErrMissingFields = errors.New("name, email and message are required")
	ErrInvalidEmail  = errors.New("invalid email address")
)

type ContactMessage struct {
	Name    string
	Email   string
	Message string
}

func (m ContactMessage) Validate() error {
	if strings.TrimSpace(m.Name) == "" || strings.TrimSpace(m.Email) == "" || strings.TrimSpace(m.Message) == "" {
		return ErrMissingFields
	}
	if _, err := mail.ParseAddress(m.Email); err != nil {
		return ErrInvalidEmail
	}
	return nil
}

type sender interface {
	SendWithContext(ctx context.Context, email *sgmail.SGMailV3) (*rest.Response, error)
}

type Mailer struct {
	cfg    config.Mail
	client sender
	log    *zap.Logger
}

// New returns a mailer. Without a SendGrid key messages are only logged.
func New(cfg *config.Config, log *zap.Logger) *Mailer {
	m := &Mailer{cfg: cfg.Mail, log: log}
	if cfg.Mail.SendGridAPIKey != "" {
		m.client = sendgrid.NewSendClient(cfg.Mail.SendGridAPIKey)
	}
	return m
}

func (m *Mailer) Send(ctx context.Context, msg ContactMessage) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	if m.client == nil {
		m.log.Info("contact message (mail disabled)",
			zap.String("name", msg.Name),
			zap.String("email", msg.Email),
		)
		return nil
	}

	from := sgmail.NewEmail(m.cfg.FromName, m.cfg.FromAddress)
	to := sgmail.NewEmail("Management Office", m.cfg.OfficeAddress)
	subject := fmt.Sprintf("Website contact from %s", msg.Name)
	plain := fmt.Sprintf("From: %s <%s>\n\n%s", msg.Name, msg.Email, msg.Message)
	htmlContent := fmt.Sprintf("<p>From: %s &lt;%s&gt;</p><p>%s</p>",
		html.EscapeString(msg.Name), html.EscapeString(msg.Email), html.EscapeString(msg.Message))

	message := sgmail.NewSingleEmail(from, subject, to, plain, htmlContent)
	message.SetReplyTo(sgmail.NewEmail(msg.Name, msg.Email))

	resp, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid: status %d", resp.StatusCode)
	}
	return nil
}
