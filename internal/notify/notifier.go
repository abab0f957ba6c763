// Package notify defines the delivery capability consumed by alert dispatch.
// Voice and SMS delivery live behind the Notifier interface; this package
// ships an email-backed implementation and a logging one for development.
package notify

import (
	"context"
	"log/slog"

	pkglogger "github.com/onarrival/onarrival/pkg/logger"
)

// Payload is the content delivered to a single recipient.
type Payload struct {
	Subject string
	Body    string
}

// Notifier delivers a payload to one recipient address. Implementations
// return an error for a failed delivery; the caller aggregates outcomes
// per contact.
type Notifier interface {
	Deliver(ctx context.Context, to string, payload Payload) error
}

// LogNotifier is the development channel: deliveries are logged, not sent.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a notifier that only logs.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Deliver logs the would-be delivery and always succeeds.
func (n *LogNotifier) Deliver(ctx context.Context, to string, payload Payload) error {
	n.logger.Info("delivery (log channel)",
		slog.String("to", pkglogger.SanitizedPhone(to)),
		slog.String("subject", payload.Subject),
		slog.Int("body_len", len(payload.Body)))
	return nil
}
