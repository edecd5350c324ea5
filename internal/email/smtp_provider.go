package email

import (
	"fmt"

	"ecowork_backend/internal/config"

	"gopkg.in/gomail.v2"
)

// SMTPProvider delivers mail through the configured SMTP relay.
type SMTPProvider struct {
	dialer    *gomail.Dialer
	fromEmail string
	fromName  string
}

func NewSMTPProvider(cfg *config.Config) *SMTPProvider {
	return &SMTPProvider{
		dialer:    gomail.NewDialer(cfg.Email.SMTPHost, cfg.Email.SMTPPort, cfg.Email.SMTPUsername, cfg.Email.SMTPPassword),
		fromEmail: cfg.Email.FromEmail,
		fromName:  cfg.Email.FromName,
	}
}

func (p *SMTPProvider) Send(email *Email) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", p.fromEmail, p.fromName)
	m.SetHeader("To", email.To...)
	m.SetHeader("Subject", email.Subject)
	if email.IsHTML {
		m.SetBody("text/html", email.Body)
	} else {
		m.SetBody("text/plain", email.Body)
	}
	return p.dialer.DialAndSend(m)
}

func (p *SMTPProvider) SendWelcome(to, name string) error {
	return p.Send(&Email{
		To:      []string{to},
		Subject: "Welcome to EcoWork",
		Body:    fmt.Sprintf(welcomeTemplate, name),
		IsHTML:  true,
	})
}

func (p *SMTPProvider) SendApplicationAccepted(to, engagementTitle string) error {
	return p.Send(&Email{
		To:      []string{to},
		Subject: "Your application was accepted",
		Body:    fmt.Sprintf(applicationAcceptedTemplate, engagementTitle),
		IsHTML:  true,
	})
}

func (p *SMTPProvider) SendApplicationRejected(to, engagementTitle string) error {
	return p.Send(&Email{
		To:      []string{to},
		Subject: "Update on your application",
		Body:    fmt.Sprintf(applicationRejectedTemplate, engagementTitle),
		IsHTML:  true,
	})
}
