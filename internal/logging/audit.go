package logging

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/AyushS-03/IndieMentor-AI/domain"
)

// AuditLoggerImpl implements domain.AuditLogger on top of zerolog.
type AuditLoggerImpl struct {
	logger zerolog.Logger
}

// NewAuditLogger creates a new audit logger
func NewAuditLogger(logger zerolog.Logger) domain.AuditLogger {
	return &AuditLoggerImpl{logger: logger.With().Str("component", "audit").Logger()}
}

// LogEvent implements domain.AuditLogger
func (l *AuditLoggerImpl) LogEvent(_ context.Context, event *domain.AuditEvent) error {
	evt := l.logger.Info()
	if !event.Success {
		evt = l.logger.Warn()
	}
	evt = evt.
		Str("event_type", string(event.EventType)).
		Bool("success", event.Success).
		Time("timestamp", event.Timestamp)
	if event.UserID != "" {
		evt = evt.Str("user_id", event.UserID)
	}
	if event.Email != "" {
		evt = evt.Str("email", event.Email)
	}
	if event.Mode != "" {
		evt = evt.Str("auth_mode", string(event.Mode))
	}
	if event.ErrorMsg != "" {
		evt = evt.Str("error", event.ErrorMsg)
	}
	if len(event.Metadata) > 0 {
		evt = evt.Interface("metadata", event.Metadata)
	}
	evt.Msg("audit event")
	return nil
}
