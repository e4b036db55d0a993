// Package mailer delivers outgoing e-mail. Senders are interchangeable:
// LogSender for development, QueueSender to hand messages to RabbitMQ and
// SMTPSender for direct delivery (also used by the queue consumer).
package mailer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

const (
	ConfirmationSubject = "YaMDb registration confirmation"
	confirmationBody    = "Your confirmation code: %s"
)

// Message is one outgoing e-mail. It is also the queue payload.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

func (m Message) validate() error {
	if m.To == "" {
		return errors.New("message has no recipient")
	}
	return nil
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// ConfirmationNotifier turns confirmation codes into e-mails.
type ConfirmationNotifier struct {
	sender Sender
}

func NewConfirmationNotifier(sender Sender) *ConfirmationNotifier {
	return &ConfirmationNotifier{sender: sender}
}

func (n *ConfirmationNotifier) SendConfirmationCode(ctx context.Context, email, code string) error {
	msg := Message{
		To:      email,
		Subject: ConfirmationSubject,
		Body:    fmt.Sprintf(confirmationBody, code),
	}
	if err := n.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("send confirmation to %s: %w", email, err)
	}
	return nil
}

// LogSender writes messages to the log instead of delivering them.
type LogSender struct {
	log *slog.Logger
}

func NewLogSender(log *slog.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	if err := msg.validate(); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "Outgoing e-mail",
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
		slog.String("body", msg.Body),
	)
	return nil
}
