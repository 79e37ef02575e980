package mocks

import (
	"sync"

	"github.com/you/accountsvc/domain"
)

// SentEmail captures one delivery attempt
type SentEmail struct {
	To      string
	Subject string
	Body    string
}

// MockMailerService implements domain.MailerService for testing. It records
// every delivery so tests can assert on plaintext secrets leaving the core.
type MockMailerService struct {
	SendFunc func(to, subject, body string) error

	mu   sync.Mutex
	sent []SentEmail
}

// NewMockMailerService creates a new MockMailerService with default behaviors
func NewMockMailerService() *MockMailerService {
	return &MockMailerService{}
}

// Send delivers an email
func (m *MockMailerService) Send(to, subject, body string) error {
	if m.SendFunc != nil {
		if err := m.SendFunc(to, subject, body); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, SentEmail{To: to, Subject: subject, Body: body})
	return nil
}

// Sent returns a copy of the recorded deliveries
func (m *MockMailerService) Sent() []SentEmail {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SentEmail, len(m.sent))
	copy(out, m.sent)
	return out
}

// LastSent returns the most recent delivery, or nil
func (m *MockMailerService) LastSent() *SentEmail {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return nil
	}
	last := m.sent[len(m.sent)-1]
	return &last
}

// Compile-time interface compliance verification
var _ domain.MailerService = (*MockMailerService)(nil)
