package mocks

import (
	"context"
	"sync"

	"github.com/AyushS-03/IndieMentor-AI/domain"
)

// MockAuditLogger implements domain.AuditLogger interface for testing. It
// records every event so tests can assert on what was emitted.
type MockAuditLogger struct {
	LogEventFunc func(ctx context.Context, event *domain.AuditEvent) error

	mu     sync.Mutex
	events []*domain.AuditEvent
}

// NewMockAuditLogger creates a new MockAuditLogger
func NewMockAuditLogger() *MockAuditLogger {
	return &MockAuditLogger{}
}

// LogEvent records an audit event
func (m *MockAuditLogger) LogEvent(ctx context.Context, event *domain.AuditEvent) error {
	m.mu.Lock()
	m.events = append(m.events, event)
	m.mu.Unlock()
	if m.LogEventFunc != nil {
		return m.LogEventFunc(ctx, event)
	}
	return nil
}

// Events returns the recorded events in emission order.
func (m *MockAuditLogger) Events() []*domain.AuditEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.AuditEvent, len(m.events))
	copy(out, m.events)
	return out
}

// EventsOfType returns the recorded events matching the given type.
func (m *MockAuditLogger) EventsOfType(t domain.AuditEventType) []*domain.AuditEvent {
	var out []*domain.AuditEvent
	for _, e := range m.Events() {
		if e.EventType == t {
			out = append(out, e)
		}
	}
	return out
}
