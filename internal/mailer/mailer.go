package mailer

import (
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/legastream/legastream/internal/config"
)

// Mailer sends account emails over SMTP. With no SMTP host configured
// it logs the message instead of failing, so local development works
// without a mail server.
type Mailer struct {
	cfg    config.MailConfig
	logger *slog.Logger
}

func New(cfg config.MailConfig, logger *slog.Logger) *Mailer {
	return &Mailer{cfg: cfg, logger: logger}
}

func (m *Mailer) SendPasswordReset(to, token string) error {
	link := fmt.Sprintf("%s/reset_password?token=%s", m.cfg.BaseURL, token)
	body := fmt.Sprintf(
		"A password reset was requested for your account.\r\n\r\n"+
			"Reset your password here: %s\r\n\r\n"+
			"The link expires in 2 hours. If you did not request this, ignore this email.\r\n", link)
	return m.send(to, "Reset your password", body)
}

func (m *Mailer) SendEmailConfirmation(to, token string) error {
	link := fmt.Sprintf("%s/confirm_email?token=%s", m.cfg.BaseURL, token)
	body := fmt.Sprintf(
		"Welcome! Please confirm your email address.\r\n\r\n"+
			"Confirm here: %s\r\n", link)
	return m.send(to, "Confirm your email", body)
}

func (m *Mailer) send(to, subject, body string) error {
	if m.cfg.SMTPHost == "" {
		m.logger.Info("mail not configured, logging instead",
			"to", to, "subject", subject)
		return nil
	}

	from := m.cfg.FromEmail
	msg := strings.Join([]string{
		fmt.Sprintf("From: %s <%s>", m.cfg.FromName, from),
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		`Content-Type: text/plain; charset="utf-8"`,
		"",
		body,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", m.cfg.SMTPHost, m.cfg.SMTPPort)
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.SMTPHost)
	}

	if err := smtp.SendMail(addr, auth, from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}
