package mocks

import (
	"context"
	"sync"

	"github.com/AyushS-03/IndieMentor-AI/domain"
)

// MockSessionStore implements domain.SessionStore interface for testing.
// Without overrides it behaves as an in-memory store.
type MockSessionStore struct {
	SaveFunc  func(ctx context.Context, sessionID string, snap *domain.SessionSnapshot) error
	LoadFunc  func(ctx context.Context, sessionID string) (*domain.SessionSnapshot, error)
	ClearFunc func(ctx context.Context, sessionID string) error

	mu        sync.Mutex
	snapshots map[string]*domain.SessionSnapshot
}

// NewMockSessionStore creates a new MockSessionStore with in-memory defaults
func NewMockSessionStore() *MockSessionStore {
	return &MockSessionStore{snapshots: make(map[string]*domain.SessionSnapshot)}
}

// Save stores a snapshot
func (m *MockSessionStore) Save(ctx context.Context, sessionID string, snap *domain.SessionSnapshot) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, sessionID, snap)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[sessionID] = snap
	return nil
}

// Load retrieves a snapshot
func (m *MockSessionStore) Load(ctx context.Context, sessionID string) (*domain.SessionSnapshot, error) {
	if m.LoadFunc != nil {
		return m.LoadFunc(ctx, sessionID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	snap, ok := m.snapshots[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return snap, nil
}

// Clear removes a snapshot
func (m *MockSessionStore) Clear(ctx context.Context, sessionID string) error {
	if m.ClearFunc != nil {
		return m.ClearFunc(ctx, sessionID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.snapshots, sessionID)
	return nil
}

// Stored returns the snapshot currently held for the session, nil if none.
func (m *MockSessionStore) Stored(sessionID string) *domain.SessionSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshots[sessionID]
}
