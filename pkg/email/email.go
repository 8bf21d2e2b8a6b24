package email

import (
	"fmt"
	"net/smtp"
)

// Mailer sends plain text email. The notification service treats it as a
// best-effort delivery channel.
type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer sends mail through a plain SMTP relay.
type SMTPMailer struct {
	host     string
	port     string
	sender   string
	password string
}

// NewSMTPMailer returns a mailer, or nil when no SMTP host is configured so
// callers can skip email delivery entirely.
func NewSMTPMailer(host, port, sender, password string) *SMTPMailer {
	if host == "" {
		return nil
	}
	return &SMTPMailer{host: host, port: port, sender: sender, password: password}
}

// Send sends a plain text email using SMTP.
func (m *SMTPMailer) Send(to, subject, body string) error {
	auth := smtp.PlainAuth("", m.sender, m.password, m.host)

	msg := []byte("To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"\r\n" + body + "\r\n")

	address := m.host + ":" + m.port

	if err := smtp.SendMail(address, auth, m.sender, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}
	return nil
}
