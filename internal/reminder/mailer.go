package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/jmilford/taskward/internal/config"
)

// SMTPMailer delivers reminder emails over plain SMTP with optional
// AUTH PLAIN credentials.
type SMTPMailer struct {
	cfg config.MailConfig
	// sendMail is swappable in tests; defaults to smtp.SendMail.
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPMailer creates an SMTPMailer from the mail configuration.
func NewSMTPMailer(cfg config.MailConfig) *SMTPMailer {
	return &SMTPMailer{
		cfg:      cfg,
		sendMail: smtp.SendMail,
	}
}

// Ensure SMTPMailer implements Mailer
var _ Mailer = (*SMTPMailer)(nil)

// Send implements Mailer.
func (m *SMTPMailer) Send(_ context.Context, msg Message) error {
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.cfg.From)
	fmt.Fprintf(&b, "To: %s\r\n", msg.Recipient)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(msg.Body)

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	if err := m.sendMail(addr, auth, m.cfg.From, []string{msg.Recipient}, []byte(b.String())); err != nil {
		return fmt.Errorf("failed to send reminder email: %w", err)
	}
	return nil
}

// LogMailer is used when no SMTP host is configured: reminders are logged
// instead of delivered. Useful for local development.
type LogMailer struct {
	Logger *slog.Logger
}

// Ensure LogMailer implements Mailer
var _ Mailer = (*LogMailer)(nil)

// Send implements Mailer by logging the message.
func (m *LogMailer) Send(ctx context.Context, msg Message) error {
	log := m.Logger
	if log == nil {
		log = slog.Default()
	}
	log.Info("reminder email (mail disabled)",
		slog.String("recipient", msg.Recipient),
		slog.String("subject", msg.Subject))
	return nil
}
