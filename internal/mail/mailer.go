package mail

import (
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"

	"github.com/spec-kit/account-service/internal/config"
)

// Mailer delivers plain-text mail to a single recipient.
type Mailer interface {
	Send(to, subject, body string) error
}

type smtpMailer struct {
	cfg config.MailConfig
}

// NewSMTPMailer returns a Mailer backed by the configured SMTP relay.
func NewSMTPMailer(cfg config.MailConfig) Mailer {
	return &smtpMailer{cfg: cfg}
}

func (m *smtpMailer) Send(to, subject, body string) error {
	e := email.NewEmail()
	e.From = m.cfg.From
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)

	addr := fmt.Sprintf("%s:%d", m.cfg.SMTPHost, m.cfg.SMTPPort)

	var auth smtp.Auth
	if m.cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", m.cfg.SMTPUsername, m.cfg.SMTPPassword, m.cfg.SMTPHost)
	}
	return e.Send(addr, auth)
}
