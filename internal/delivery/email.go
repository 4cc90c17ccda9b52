package delivery

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"fixrx_backend/internal/config"
	"fixrx_backend/internal/models"
)

// EmailProvider delivers notifications over SMTP.
type EmailProvider struct {
	cfg *config.Config
}

func NewEmailProvider(cfg *config.Config) *EmailProvider {
	return &EmailProvider{cfg: cfg}
}

func (e *EmailProvider) Deliver(recipient *models.User, notification *models.Notification) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(e.cfg.Email.FromEmail, e.cfg.Email.FromName))
	m.SetHeader("To", recipient.Email)
	m.SetHeader("Subject", notification.Title)
	m.SetBody("text/html", fmt.Sprintf("<p>%s</p>", notification.Message))

	d := gomail.NewDialer(
		e.cfg.Email.SMTPHost,
		e.cfg.Email.SMTPPort,
		e.cfg.Email.SMTPUsername,
		e.cfg.Email.SMTPPassword,
	)

	return d.DialAndSend(m)
}
