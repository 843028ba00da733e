package services

import (
	"context"
	"fmt"
	"net/smtp"
	"sync"

	"github.com/jordan-wright/email"

	"github.com/sellport/sellport-api/config"
)

// Mailer sends outbound mail to customers (query reply notifications)
type Mailer interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// SMTPMailer implements Mailer over plain SMTP
type SMTPMailer struct {
	host string
	port string
	user string
	pass string
	from string
}

var mailerInstance Mailer

// InitMailer initializes the SMTP mailer from configuration.
// Returns nil when SMTP is not configured; callers treat a nil mailer
// as "mail disabled".
func InitMailer(cfg *config.Config) Mailer {
	if !cfg.SMTPConfigured() {
		return nil
	}
	mailerInstance = &SMTPMailer{
		host: cfg.SMTPHost,
		port: cfg.SMTPPort,
		user: cfg.SMTPUsername,
		pass: cfg.SMTPPassword,
		from: cfg.SMTPFrom,
	}
	return mailerInstance
}

// GetMailer returns the initialized mailer instance (nil when disabled)
func GetMailer() Mailer {
	return mailerInstance
}

// SetMailer sets the mailer instance (primarily for testing)
func SetMailer(m Mailer) {
	mailerInstance = m
}

// SendEmail sends a plain-text email via SMTP
func (s *SMTPMailer) SendEmail(ctx context.Context, to, subject, body string) error {
	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	auth := smtp.PlainAuth("", s.user, s.pass, s.host)

	e := email.NewEmail()
	e.From = s.from
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)

	return e.Send(addr, auth)
}

// MockMailer records sent mail for test assertions
type MockMailer struct {
	mu   sync.Mutex
	Sent []MockMail
}

// MockMail is one recorded message
type MockMail struct {
	To      string
	Subject string
	Body    string
}

// NewMockMailer creates a new mock mailer
func NewMockMailer() *MockMailer {
	return &MockMailer{}
}

// SendEmail records the message instead of sending it
func (m *MockMailer) SendEmail(ctx context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, MockMail{To: to, Subject: subject, Body: body})
	return nil
}
