package logger

import (
	"context"
	"log/slog"
	"time"
)

// AuditEvent represents a security audit event
type AuditEvent struct {
	EventType     string
	KeyName       string
	Identity      string
	Permission    string
	Success       bool
	FailureReason string
}

// AuditLogger provides audit logging functionality
type AuditLogger struct {
	logger *slog.Logger
}

// NewAuditLogger creates a new audit logger
func NewAuditLogger(logger *slog.Logger) *AuditLogger {
	return &AuditLogger{
		logger: logger,
	}
}

// LogAuthAttempt logs authentication and authorization outcomes.
// Identities and key names are logged; key values never are.
func (al *AuditLogger) LogAuthAttempt(event AuditEvent) {
	attrs := []slog.Attr{
		slog.String("audit_type", "auth"),
		slog.String("event_type", event.EventType),
		slog.Bool("success", event.Success),
		slog.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
	}

	if event.KeyName != "" {
		attrs = append(attrs, slog.String("key_name", event.KeyName))
	}
	if event.Identity != "" {
		attrs = append(attrs, slog.String("identity", event.Identity))
	}
	if event.Permission != "" {
		attrs = append(attrs, slog.String("permission", event.Permission))
	}
	if event.FailureReason != "" {
		attrs = append(attrs, slog.String("failure_reason", event.FailureReason))
	}

	if event.Success {
		al.logger.LogAttrs(context.Background(), slog.LevelInfo, "audit", attrs...)
	} else {
		al.logger.LogAttrs(context.Background(), slog.LevelWarn, "audit", attrs...)
	}
}

// LogDispatch logs an alert dispatch with per-group delivery counts.
func (al *AuditLogger) LogDispatch(alertID, kind, groupName string, delivered, failed int) {
	al.logger.LogAttrs(context.Background(), slog.LevelInfo, "audit",
		slog.String("audit_type", "dispatch"),
		slog.String("event_type", "alert_sent"),
		slog.String("alert_id", alertID),
		slog.String("kind", kind),
		slog.String("group", groupName),
		slog.Int("delivered", delivered),
		slog.Int("failed", failed),
		slog.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
	)
}
