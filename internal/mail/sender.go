package mail

import (
	"context"
	"fmt"
	"log"
	"net/smtp"
)

// Message is a plain-text email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers a single message. Implementations must be safe for
// concurrent use.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPSender sends mail through an authenticated SMTP relay.
type SMTPSender struct {
	addr string
	from string
	auth smtp.Auth
}

// NewSMTPSender creates a sender for the given relay. from is the
// display address, e.g. "CampusRide <noreply@campusride.example>".
func NewSMTPSender(host, port, username, password, from string) *SMTPSender {
	return &SMTPSender{
		addr: fmt.Sprintf("%s:%s", host, port),
		from: from,
		auth: smtp.PlainAuth("", username, password, host),
	}
}

// Send delivers one message. net/smtp does not take a context; the
// outbox bounds each attempt with its own deadline before calling here.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		s.from, msg.To, msg.Subject, msg.Body)

	return smtp.SendMail(s.addr, s.auth, s.from, []string{msg.To}, []byte(payload))
}

// LogSender logs messages instead of delivering them. Used when SMTP is
// disabled in config (local development, tests).
type LogSender struct{}

// NewLogSender creates a LogSender.
func NewLogSender() *LogSender {
	return &LogSender{}
}

// Send logs the message.
func (s *LogSender) Send(ctx context.Context, msg Message) error {
	log.Printf("[MAIL] To=%s Subject=%q", msg.To, msg.Subject)
	return nil
}
