package domain

// Mailer sends an email. Implementations may use SES or a no-op for
// development.
type Mailer interface {
	Send(to, subject, html, text string) error
}
