package notify

import (
	"context"
	"fmt"

	gomail "gopkg.in/mail.v2"

	"github.com/shanehull/dvwatch/internal/config"
)

// EmailSender delivers messages via SMTP.
type EmailSender struct {
	cfg config.EmailConfig
}

// NewEmailSender creates a sender with the given SMTP configuration.
func NewEmailSender(cfg config.EmailConfig) *EmailSender {
	return &EmailSender{cfg: cfg}
}

func (s *EmailSender) Name() string {
	return "email"
}

// Send delivers an email with a plain text body and an HTML alternative.
func (s *EmailSender) Send(ctx context.Context, msg *RenderedMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.FromEmail)
	m.SetHeader("To", s.cfg.ToEmail)
	m.SetHeader("Subject", msg.Subject)

	m.SetBody("text/plain", msg.Text)
	if msg.HTML != "" {
		m.AddAlternative("text/html", msg.HTML)
	}

	dialer := gomail.NewDialer(s.cfg.SMTPServer, s.cfg.SMTPPort, s.cfg.SMTPUser, s.cfg.SMTPPass)
	dialer.Timeout = s.cfg.Timeout

	if err := dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email to %s (Subject: %s): %w", s.cfg.ToEmail, msg.Subject, err)
	}
	return nil
}
