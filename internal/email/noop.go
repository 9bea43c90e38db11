package email

import "lancehub_backend/internal/logger"

// NoopProvider используется в dev-окружении без SMTP:
// письма не уходят, содержимое попадает в лог.
type NoopProvider struct{}

func NewNoopProvider() *NoopProvider {
	return &NoopProvider{}
}

func (p *NoopProvider) Send(to, subject, htmlBody string) error {
	logger.Info("email suppressed (noop provider)", "to", to, "subject", subject)
	return nil
}

func (p *NoopProvider) SendVerificationEmail(to, name, token string) error {
	logger.Info("verification email suppressed (noop provider)", "to", to, "token", token)
	return nil
}

func (p *NoopProvider) SendPasswordResetEmail(to, name, token string) error {
	logger.Info("password reset email suppressed (noop provider)", "to", to, "token", token)
	return nil
}
