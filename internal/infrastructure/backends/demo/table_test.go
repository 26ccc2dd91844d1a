package demo

import (
	"context"
	"errors"
	"testing"

	"github.com/AyushS-03/IndieMentor-AI/domain"
	"github.com/AyushS-03/IndieMentor-AI/internal/mocks"
)

func newTestBackend(t *testing.T) *Backend {
	t.Helper()
	backend, err := New(mocks.NewMockPasswordService())
	if err != nil {
		t.Fatalf("failed to build demo backend: %v", err)
	}
	return backend
}

func TestBackend_Login(t *testing.T) {
	tests := []struct {
		name          string
		email         string
		password      string
		expectedError error
		expectedRole  string
		expectedTier  string
	}{
		{
			name:         "creator account",
			email:        "sarah@example.com",
			password:     "password123",
			expectedRole: "creator",
			expectedTier: "premium",
		},
		{
			name:         "admin account",
			email:        "admin@example.com",
			password:     "admin123",
			expectedRole: "admin",
			expectedTier: "enterprise",
		},
		{
			name:         "plain user account",
			email:        "user@example.com",
			password:     "password123",
			expectedRole: "user",
			expectedTier: "free",
		},
		{
			name:          "wrong password",
			email:         "sarah@example.com",
			password:      "wrong",
			expectedError: domain.ErrInvalidCredentials,
		},
		{
			name:          "unknown email",
			email:         "nobody@example.com",
			password:      "password123",
			expectedError: domain.ErrInvalidCredentials,
		},
		{
			name:          "email is matched exactly",
			email:         "SARAH@example.com",
			password:      "password123",
			expectedError: domain.ErrInvalidCredentials,
		},
	}

	backend := newTestBackend(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := backend.Login(context.Background(), domain.Credentials{Email: tt.email, Password: tt.password})

			if tt.expectedError != nil {
				if !errors.Is(err, tt.expectedError) {
					t.Fatalf("expected error %v, got %v", tt.expectedError, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.Mode != domain.ModeDemo {
				t.Errorf("expected demo mode, got %s", result.Mode)
			}
			if result.Token != "" {
				t.Error("demo sessions carry no token")
			}
			if result.User.Role != tt.expectedRole {
				t.Errorf("expected role %s, got %s", tt.expectedRole, result.User.Role)
			}
			if result.User.SubscriptionTier != tt.expectedTier {
				t.Errorf("expected tier %s, got %s", tt.expectedTier, result.User.SubscriptionTier)
			}
		})
	}
}

func TestBackend_LoginCopiesUser(t *testing.T) {
	backend := newTestBackend(t)

	first, err := backend.Login(context.Background(), domain.Credentials{Email: "sarah@example.com", Password: "password123"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	first.User.Name = "mutated"

	second, err := backend.Login(context.Background(), domain.Credentials{Email: "sarah@example.com", Password: "password123"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if second.User.Name != "Sarah Johnson" {
		t.Errorf("table entry was mutated through a result: %q", second.User.Name)
	}
}

func TestBackend_Register(t *testing.T) {
	backend := newTestBackend(t)
	_, err := backend.Register(context.Background(), domain.Registration{Email: "new@example.com", Password: "x"})
	if !errors.Is(err, domain.ErrNotSupported) {
		t.Fatalf("expected ErrNotSupported, got %v", err)
	}
}

func TestBackend_Resume(t *testing.T) {
	backend := newTestBackend(t)
	_, err := backend.Resume(context.Background(), &domain.SessionSnapshot{Mode: domain.ModeDemo})
	if !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestBackend_Logout(t *testing.T) {
	backend := newTestBackend(t)
	if err := backend.Logout(context.Background(), ""); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}
