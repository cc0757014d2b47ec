// Package mailer sends transactional account mail. Delivery sits outside the
// engine's transactional boundary: a failed welcome mail never rolls back the
// signup that triggered it.
package mailer

import (
	"context"
	"fmt"
	"net/smtp"
)

// Mailer delivers account mail through an external relay.
type Mailer interface {
	SendWelcome(ctx context.Context, to, username string) error
}

// SMTPMailer delivers through a plain SMTP relay.
type SMTPMailer struct {
	addr string
	from string
}

var _ Mailer = (*SMTPMailer)(nil)

// NewSMTPMailer returns a mailer pointed at addr ("host:port").
func NewSMTPMailer(addr, from string) *SMTPMailer {
	return &SMTPMailer{addr: addr, from: from}
}

func (m *SMTPMailer) SendWelcome(ctx context.Context, to, username string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	subject := fmt.Sprintf("Welcome to Plume, %s", username)
	body := fmt.Sprintf(
		"Hello %s,\r\n\r\nWelcome to Plume. We are glad to have you.\r\nThank you for joining us.\r\n",
		username,
	)
	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s", m.from, to, subject, body,
	))
	if err := smtp.SendMail(m.addr, nil, m.from, []string{to}, msg); err != nil {
		return fmt.Errorf("send welcome mail to %s: %w", to, err)
	}
	return nil
}

// Nop is a Mailer that does nothing. Used when no relay is configured and in
// tests.
type Nop struct{}

var _ Mailer = Nop{}

func (Nop) SendWelcome(context.Context, string, string) error { return nil }
