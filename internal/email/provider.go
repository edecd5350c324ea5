package email

// Email is one outbound message.
type Email struct {
	To      []string
	Subject string
	Body    string
	IsHTML  bool
}

// Provider sends transactional email. Implementations must be safe for
// concurrent use.
type Provider interface {
	Send(email *Email) error
	SendWelcome(to, name string) error
	SendApplicationAccepted(to, engagementTitle string) error
	SendApplicationRejected(to, engagementTitle string) error
}
