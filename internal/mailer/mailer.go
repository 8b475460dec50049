// Package mailer delivers templated transactional mail (order confirmations)
// over SMTP, with an in-memory recorder for tests and mock mode.
package mailer

// Mailer renders the named template with data and delivers it to recipient.
type Mailer interface {
	Send(recipient, templateFile string, data any) error
}
