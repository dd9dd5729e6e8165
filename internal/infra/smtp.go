package infra

import (
	"bytes"
	"fmt"
	"net/smtp"

	"stockroom/internal/config"

	"github.com/jordan-wright/email"
)

// Attachment is an in-memory file attached to an outgoing email.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Mailer wraps SMTP configuration for sending emails with attachments.
type Mailer struct {
	host     string
	user     string
	password string
	from     string
	addr     string
}

func NewMailer(cfg *config.Config) *Mailer {
	from := cfg.SMTPFrom
	if from == "" {
		from = cfg.SMTPUser
	}
	return &Mailer{
		host:     cfg.SMTPHost,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     from,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
	}
}

// Enabled reports whether an SMTP host is configured.
func (m *Mailer) Enabled() bool { return m.host != "" }

// Send delivers a plain-text email with optional attachments.
func (m *Mailer) Send(to, subject, body string, attachments ...Attachment) error {
	if !m.Enabled() {
		return fmt.Errorf("mailer: SMTP_HOST not configured")
	}
	e := email.NewEmail()
	e.From = m.from
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)

	for _, a := range attachments {
		if _, err := e.Attach(bytes.NewReader(a.Data), a.Filename, a.ContentType); err != nil {
			return fmt.Errorf("mailer: attach %s: %w", a.Filename, err)
		}
	}

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.password, m.host)
	}
	return e.Send(m.addr, auth)
}
