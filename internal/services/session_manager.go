package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AyushS-03/IndieMentor-AI/domain"
	"github.com/AyushS-03/IndieMentor-AI/internal/metrics"
)

// SessionManager hands out one SessionResolver per session key and keeps them
// alive between requests. A resolver seen for the first time runs its resume
// protocol before it is returned.
type SessionManager struct {
	backends    []domain.AuthBackend
	store       domain.SessionStore
	decoder     domain.TokenDecoder
	audit       domain.AuditLogger
	metrics     *metrics.Metrics
	refreshLead time.Duration

	mu        sync.Mutex
	resolvers map[string]*SessionResolver
}

// NewSessionManager creates a new session manager
func NewSessionManager(
	backends []domain.AuthBackend,
	store domain.SessionStore,
	decoder domain.TokenDecoder,
	audit domain.AuditLogger,
	m *metrics.Metrics,
	refreshLead time.Duration,
) *SessionManager {
	return &SessionManager{
		backends:    backends,
		store:       store,
		decoder:     decoder,
		audit:       audit,
		metrics:     m,
		refreshLead: refreshLead,
		resolvers:   make(map[string]*SessionResolver),
	}
}

// NewSessionID mints an opaque session key for a fresh client.
func (m *SessionManager) NewSessionID() string {
	return uuid.NewString()
}

// Resolver returns the resolver for the given session key, creating and
// resuming it on first sight. Resume failures beyond "no session" are
// surfaced so the caller can retry.
func (m *SessionManager) Resolver(ctx context.Context, sessionID string) (*SessionResolver, error) {
	m.mu.Lock()
	resolver, ok := m.resolvers[sessionID]
	if !ok {
		resolver = NewSessionResolver(
			sessionID, m.backends, m.store, m.decoder, m.audit, m.metrics, m.refreshLead,
		)
		m.resolvers[sessionID] = resolver
	}
	m.mu.Unlock()

	if !ok {
		if err := resolver.Resume(ctx); err != nil {
			m.Release(sessionID)
			return nil, err
		}
	}
	return resolver, nil
}

// Release drops a resolver from the registry and cancels its pending refresh.
// The durable snapshot is untouched, so the session can be resumed again.
func (m *SessionManager) Release(sessionID string) {
	m.mu.Lock()
	resolver, ok := m.resolvers[sessionID]
	delete(m.resolvers, sessionID)
	m.mu.Unlock()
	if ok {
		resolver.Close()
	}
}

// Close releases every resolver. Used on shutdown.
func (m *SessionManager) Close() {
	m.mu.Lock()
	resolvers := m.resolvers
	m.resolvers = make(map[string]*SessionResolver)
	m.mu.Unlock()
	for _, r := range resolvers {
		r.Close()
	}
}
