package email

import "sync"

// MockProvider records outbound mail instead of sending it. Used in
// tests and when no SMTP host is configured.
type MockProvider struct {
	mu   sync.Mutex
	Sent []Email
}

func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

func (p *MockProvider) Send(email *Email) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Sent = append(p.Sent, *email)
	return nil
}

func (p *MockProvider) SendWelcome(to, name string) error {
	return p.Send(&Email{To: []string{to}, Subject: "Welcome to EcoWork"})
}

func (p *MockProvider) SendApplicationAccepted(to, engagementTitle string) error {
	return p.Send(&Email{To: []string{to}, Subject: "Your application was accepted"})
}

func (p *MockProvider) SendApplicationRejected(to, engagementTitle string) error {
	return p.Send(&Email{To: []string{to}, Subject: "Update on your application"})
}

func (p *MockProvider) SentCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.Sent)
}
