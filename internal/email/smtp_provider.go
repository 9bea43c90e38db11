package email

import (
	"bytes"
	"fmt"

	"gopkg.in/gomail.v2"
)

// SMTPConfig - настройки SMTP
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	BaseURL  string // базовый URL фронтенда для ссылок в письмах
}

// SMTPProvider отправляет письма через SMTP (gomail)
type SMTPProvider struct {
	config SMTPConfig
}

func NewSMTPProvider(config SMTPConfig) (*SMTPProvider, error) {
	if config.Host == "" {
		return nil, fmt.Errorf("SMTP host is required")
	}
	if config.Port <= 0 || config.Port > 65535 {
		return nil, fmt.Errorf("invalid SMTP port: %d", config.Port)
	}
	return &SMTPProvider{config: config}, nil
}

func (p *SMTPProvider) Send(to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", p.config.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(p.config.Host, p.config.Port, p.config.Username, p.config.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (p *SMTPProvider) SendVerificationEmail(to, name, token string) error {
	body, err := renderTemplate(verificationTemplate, templateData{
		Name: name,
		Link: fmt.Sprintf("%s/verify-email?token=%s", p.config.BaseURL, token),
	})
	if err != nil {
		return err
	}
	return p.Send(to, "Confirm your email", body)
}

func (p *SMTPProvider) SendPasswordResetEmail(to, name, token string) error {
	body, err := renderTemplate(passwordResetTemplate, templateData{
		Name: name,
		Link: fmt.Sprintf("%s/reset-password?token=%s", p.config.BaseURL, token),
	})
	if err != nil {
		return err
	}
	return p.Send(to, "Reset your password", body)
}

func renderTemplate(tpl templateRef, data templateData) (string, error) {
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render email template: %w", err)
	}
	return buf.String(), nil
}
