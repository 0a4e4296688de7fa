// Package mailer distributes rendered reports by SMTP.
package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"gopkg.in/gomail.v2"
)

// Delivery is one outgoing message with report attachments
type Delivery struct {
	Sender      string
	Recipients  []string
	Subject     string
	Attachments []string // file paths
}

// Sender delivers messages over some channel
type Sender interface {
	Send(ctx context.Context, d Delivery) error
}

// dialer is the part of gomail.Dialer the SMTP sender uses
type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPSender sends deliveries through one SMTP server
type SMTPSender struct {
	dialer dialer
	server string
}

// NewSMTPSender creates a sender for server:port. Empty credentials skip
// authentication.
func NewSMTPSender(server string, port int, username, password string) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(server, port, username, password),
		server: server,
	}
}

// Send builds the message and hands it to the server. The context is only
// checked before dialing; gomail has no cancellation.
func (s *SMTPSender) Send(ctx context.Context, d Delivery) error {
	m, err := buildMessage(d)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send report mail via %s: %w", s.server, err)
	}

	slog.Info("Sent report mail",
		"server", s.server,
		"recipients", len(d.Recipients),
		"attachments", len(d.Attachments),
	)
	return nil
}

// buildMessage assembles the message: subject, empty text body and one
// attachment per artifact
func buildMessage(d Delivery) (*gomail.Message, error) {
	if d.Sender == "" {
		return nil, fmt.Errorf("mail sender is required")
	}
	if len(d.Recipients) == 0 {
		return nil, fmt.Errorf("at least one mail recipient is required")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", d.Sender)
	m.SetHeader("To", d.Recipients...)
	m.SetHeader("Subject", d.Subject)
	m.SetBody("text/plain", "")

	for _, path := range d.Attachments {
		m.Attach(path, gomail.Rename(filepath.Base(path)))
	}

	return m, nil
}
