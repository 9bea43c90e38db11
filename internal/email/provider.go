package email

// Provider определяет интерфейс для отправки писем
type Provider interface {
	// Send отправляет произвольное HTML-письмо
	Send(to, subject, htmlBody string) error

	// SendVerificationEmail отправляет письмо подтверждения email
	SendVerificationEmail(to, name, token string) error

	// SendPasswordResetEmail отправляет письмо сброса пароля
	SendPasswordResetEmail(to, name, token string) error
}
