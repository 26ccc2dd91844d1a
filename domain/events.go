package domain

import (
	"context"
	"time"
)

// AuditEventType defines the type of audit event
type AuditEventType string

const (
	// Authentication events
	UserLoginEvent        AuditEventType = "USER_LOGIN"
	UserLoginFailureEvent AuditEventType = "USER_LOGIN_FAILED"
	UserRegistrationEvent AuditEventType = "USER_REGISTERED"
	UserLogoutEvent       AuditEventType = "USER_LOGOUT"

	// Session lifecycle events
	BackendFallbackEvent AuditEventType = "AUTH_BACKEND_FALLBACK"
	TokenRefreshEvent    AuditEventType = "TOKEN_REFRESHED"
	TokenRefreshFailure  AuditEventType = "TOKEN_REFRESH_FAILED"
	SessionResumedEvent  AuditEventType = "SESSION_RESUMED"
	SessionExpiredEvent  AuditEventType = "SESSION_EXPIRED"

	// Profile events
	ProfileInsertFailureEvent AuditEventType = "PROFILE_INSERT_FAILED"

	// Chat events
	ChatCompletionEvent        AuditEventType = "CHAT_COMPLETION"
	ChatCompletionFailureEvent AuditEventType = "CHAT_COMPLETION_FAILED"
)

// AuditEvent represents a business event that occurred in the system
type AuditEvent struct {
	EventType AuditEventType         `json:"event_type"`
	UserID    string                 `json:"user_id,omitempty"`
	Email     string                 `json:"email,omitempty"`
	Mode      AuthMode               `json:"auth_mode,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	ErrorMsg  string                 `json:"error_msg,omitempty"`
	Success   bool                   `json:"success"`
}

// AuditLogger defines operations for audit logging
type AuditLogger interface {
	LogEvent(ctx context.Context, event *AuditEvent) error
}

// NewAuditEvent creates a new audit event with common fields populated
func NewAuditEvent(eventType AuditEventType) *AuditEvent {
	return &AuditEvent{
		EventType: eventType,
		Timestamp: time.Now().UTC(),
		Metadata:  make(map[string]interface{}),
		Success:   true,
	}
}

// WithError sets error information on the audit event
func (e *AuditEvent) WithError(err error) *AuditEvent {
	e.Success = false
	if err != nil {
		e.ErrorMsg = err.Error()
	}
	return e
}

// WithUser sets the user identity fields
func (e *AuditEvent) WithUser(userID, email string) *AuditEvent {
	e.UserID = userID
	e.Email = email
	return e
}

// WithMode sets the auth mode the event happened under
func (e *AuditEvent) WithMode(mode AuthMode) *AuditEvent {
	e.Mode = mode
	return e
}

// WithMetadata adds metadata to the event
func (e *AuditEvent) WithMetadata(key string, value interface{}) *AuditEvent {
	e.Metadata[key] = value
	return e
}
