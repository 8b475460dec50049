package mailer

import "sync"

// SentMail is one recorded delivery.
type SentMail struct {
	Recipient    string
	TemplateFile string
	Data         any
}

// MockMailer records deliveries instead of sending them. Used by tests and
// when the service runs in mock mode with no SMTP relay configured.
type MockMailer struct {
	mu   sync.Mutex
	sent []SentMail
}

func NewMockMailer() *MockMailer {
	return &MockMailer{}
}

func (m *MockMailer) Send(recipient, templateFile string, data any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sent = append(m.sent, SentMail{
		Recipient:    recipient,
		TemplateFile: templateFile,
		Data:         data,
	})

	return nil
}

// Sent returns a copy of every recorded delivery.
func (m *MockMailer) Sent() []SentMail {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]SentMail(nil), m.sent...)
}
