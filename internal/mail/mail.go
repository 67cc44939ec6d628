// Package mail delivers confirmation codes over SMTP.
package mail

import (
	"fmt"
	"log/slog"

	"gopkg.in/gomail.v2"
)

// Config holds SMTP settings, passed in from app config
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Sender is the outbound email collaborator of the auth flow. Delivery is
// fire-and-forget: no retries, a failed send is returned to the caller.
type Sender interface {
	SendConfirmationCode(email, username, code string) error
}

type smtpSender struct {
	cfg    Config
	logger *slog.Logger
}

func NewSender(cfg Config, logger *slog.Logger) Sender {
	return &smtpSender{cfg: cfg, logger: logger}
}

func (s *smtpSender) SendConfirmationCode(email, username, code string) error {
	body := fmt.Sprintf(`Hello %s,

Your reviewhub confirmation code is: %s

Exchange it for an access token at POST /api/v1/auth/token.
If you didn't sign up, ignore this email.
`, username, code)

	msg := gomail.NewMessage()
	msg.SetHeader("From", s.cfg.From)
	msg.SetHeader("To", email)
	msg.SetHeader("Subject", "Your reviewhub confirmation code")
	msg.SetBody("text/plain", body)

	dialer := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)
	if err := dialer.DialAndSend(msg); err != nil {
		s.logger.Warn("failed to send confirmation email", "email", email, "error", err)
		return fmt.Errorf("send confirmation email: %w", err)
	}

	s.logger.Info("confirmation email sent", "email", email)
	return nil
}
