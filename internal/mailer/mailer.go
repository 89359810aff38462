package mailer

import (
	"errors"
	"fmt"

	"github.com/ZerkerEOD/paytypes-backend/internal/config"
	"github.com/ZerkerEOD/paytypes-backend/pkg/debug"
	"gopkg.in/gomail.v2"
)

// DefaultSMTPPort is used when SMTP_PORT is not set
const DefaultSMTPPort = 587

// ErrNotConfigured is returned when no SMTP host is configured
var ErrNotConfigured = errors.New("smtp is not configured")

// Mailer sends plain text mail through the configured SMTP provider
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

// New creates a mailer from the mail settings
func New(settings config.MailSettings) (*Mailer, error) {
	if settings.Host == "" {
		return nil, ErrNotConfigured
	}

	port := settings.Port
	if port == 0 {
		port = DefaultSMTPPort
	}

	return &Mailer{
		dialer: gomail.NewDialer(settings.Host, port, settings.Username, settings.Password),
		from:   settings.From,
	}, nil
}

// Address returns host:port of the SMTP server
func (m *Mailer) Address() string {
	return fmt.Sprintf("%s:%d", m.dialer.Host, m.dialer.Port)
}

// Verify connects and authenticates to the SMTP server, then disconnects
func (m *Mailer) Verify() error {
	debug.Info("Verifying SMTP connection to %s", m.Address())

	sender, err := m.dialer.Dial()
	if err != nil {
		return fmt.Errorf("failed to connect to smtp server %s: %w", m.Address(), err)
	}
	if err := sender.Close(); err != nil {
		return fmt.Errorf("failed to close smtp connection: %w", err)
	}

	debug.Info("SMTP connection verified")
	return nil
}

// Send delivers a plain text message to a single recipient
func (m *Mailer) Send(to, subject, body string) error {
	sender, err := m.dialer.Dial()
	if err != nil {
		return fmt.Errorf("failed to connect to smtp server %s: %w", m.Address(), err)
	}
	defer sender.Close()

	return m.deliver(sender, to, subject, body)
}

func (m *Mailer) deliver(sender gomail.Sender, to, subject, body string) error {
	if err := gomail.Send(sender, m.message(to, subject, body)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	debug.Info("Sent email %q to %s", subject, to)
	return nil
}

func (m *Mailer) message(to, subject, body string) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	return msg
}
