package mailer

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/smtp"

	"github.com/pujanggalabs/puspagen/internal/config"
)

// Notifier delivers an access token to a user's mailbox.
type Notifier interface {
	SendToken(to, token string) error
}

// SMTP sends plaintext token mails through a configured SMTP relay.
type SMTP struct {
	cfg  config.SMTPConfig
	from string
}

func New(cfg config.SMTPConfig, from string) *SMTP {
	return &SMTP{cfg: cfg, from: from}
}

// SendToken sends the access token as a plaintext message. It fails when the
// SMTP configuration is incomplete or the relay rejects the send; the caller
// reports a generic failure to the user.
func (m *SMTP) SendToken(to, token string) error {
	if m.cfg.Host == "" || m.cfg.User == "" || m.cfg.Password == "" {
		return fmt.Errorf("smtp configuration is incomplete")
	}

	var msg bytes.Buffer
	msg.WriteString(fmt.Sprintf("From: %s\r\n", m.from))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", to))
	msg.WriteString("Subject: Your Access Token\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(fmt.Sprintf("Your access token: %s\r\n", token))

	auth := smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Host)
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	if err := smtp.SendMail(addr, auth, m.from, []string{to}, msg.Bytes()); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	slog.Info("Token email sent", "recipient", to)
	return nil
}
