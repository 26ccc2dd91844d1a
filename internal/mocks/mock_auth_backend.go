package mocks

import (
	"context"

	"github.com/AyushS-03/IndieMentor-AI/domain"
)

// MockAuthBackend implements domain.AuthBackend interface for testing
type MockAuthBackend struct {
	ModeValue    domain.AuthMode
	LoginFunc    func(ctx context.Context, creds domain.Credentials) (*domain.AuthResult, error)
	RegisterFunc func(ctx context.Context, reg domain.Registration) (*domain.AuthResult, error)
	LogoutFunc   func(ctx context.Context, token string) error
	ResumeFunc   func(ctx context.Context, snap *domain.SessionSnapshot) (*domain.AuthResult, error)
	RefreshFunc  func(ctx context.Context, token string) (*domain.AuthResult, error)

	LoginCalls   int
	LogoutCalls  int
	RefreshCalls int
}

// NewMockAuthBackend creates a new MockAuthBackend for the given mode
func NewMockAuthBackend(mode domain.AuthMode) *MockAuthBackend {
	return &MockAuthBackend{ModeValue: mode}
}

// Mode identifies the backend
func (m *MockAuthBackend) Mode() domain.AuthMode {
	return m.ModeValue
}

// Login authenticates the credentials
func (m *MockAuthBackend) Login(ctx context.Context, creds domain.Credentials) (*domain.AuthResult, error) {
	m.LoginCalls++
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, creds)
	}
	// Default behavior: reject
	return nil, domain.ErrInvalidCredentials
}

// Register creates an account
func (m *MockAuthBackend) Register(ctx context.Context, reg domain.Registration) (*domain.AuthResult, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, reg)
	}
	// Default behavior: unsupported
	return nil, domain.ErrNotSupported
}

// Logout performs the terminating operation
func (m *MockAuthBackend) Logout(ctx context.Context, token string) error {
	m.LogoutCalls++
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, token)
	}
	// Default behavior: success
	return nil
}

// Resume revalidates a stored snapshot
func (m *MockAuthBackend) Resume(ctx context.Context, snap *domain.SessionSnapshot) (*domain.AuthResult, error) {
	if m.ResumeFunc != nil {
		return m.ResumeFunc(ctx, snap)
	}
	// Default behavior: no session here
	return nil, domain.ErrSessionNotFound
}

// MockProfileUpdatingBackend is a MockAuthBackend that also writes profile
// edits through, implementing domain.ProfileUpdater.
type MockProfileUpdatingBackend struct {
	MockAuthBackend
	UpdateProfileFunc  func(ctx context.Context, userID, name, avatarURL string) (*domain.User, error)
	UpdateProfileCalls int
}

// NewMockProfileUpdatingBackend creates a backend that implements domain.ProfileUpdater
func NewMockProfileUpdatingBackend(mode domain.AuthMode) *MockProfileUpdatingBackend {
	return &MockProfileUpdatingBackend{MockAuthBackend: MockAuthBackend{ModeValue: mode}}
}

// UpdateProfile writes a profile edit through to the backend's store
func (m *MockProfileUpdatingBackend) UpdateProfile(ctx context.Context, userID, name, avatarURL string) (*domain.User, error) {
	m.UpdateProfileCalls++
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(ctx, userID, name, avatarURL)
	}
	// Default behavior: no profile row
	return nil, domain.ErrProfileNotFound
}

// MockRefreshingBackend is a MockAuthBackend that also refreshes tokens
type MockRefreshingBackend struct {
	MockAuthBackend
}

// NewMockRefreshingBackend creates a backend that implements domain.TokenRefresher
func NewMockRefreshingBackend(mode domain.AuthMode) *MockRefreshingBackend {
	return &MockRefreshingBackend{MockAuthBackend{ModeValue: mode}}
}

// Refresh exchanges the token for a fresh one
func (m *MockRefreshingBackend) Refresh(ctx context.Context, token string) (*domain.AuthResult, error) {
	m.RefreshCalls++
	if m.RefreshFunc != nil {
		return m.RefreshFunc(ctx, token)
	}
	// Default behavior: token cannot be refreshed
	return nil, domain.ErrTokenInvalid
}
