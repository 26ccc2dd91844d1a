// Package demo is the last strategy of the login cascade: a fixed in-memory
// credential table used when no real backend is reachable. The account set is
// fixed, so registration returns ErrNotSupported.
package demo

import (
	"context"

	"github.com/AyushS-03/IndieMentor-AI/domain"
)

// demoAccount pairs credentials with a precomputed normalized user.
type demoAccount struct {
	email        string
	passwordHash string
	user         domain.User
}

// Backend implements domain.AuthBackend over the fixed demo table.
type Backend struct {
	accounts    []demoAccount
	passwordSvc domain.PasswordService
}

// New creates the demo backend. Seed passwords are hashed at construction so
// verification runs through the same password service as everything else.
func New(passwordSvc domain.PasswordService) (*Backend, error) {
	seeds := []struct {
		email    string
		password string
		user     domain.User
	}{
		{
			email:    "sarah@example.com",
			password: "password123",
			user: domain.User{
				ID:               "sarah@example.com",
				Email:            "sarah@example.com",
				Name:             "Sarah Johnson",
				IsCreator:        true,
				Role:             "creator",
				RoleID:           2,
				SubscriptionTier: "premium",
				Permissions:      []string{"read", "write", "create_mentor"},
			},
		},
		{
			email:    "admin@example.com",
			password: "admin123",
			user: domain.User{
				ID:               "admin@example.com",
				Email:            "admin@example.com",
				Name:             "Admin User",
				IsCreator:        false,
				Role:             "admin",
				RoleID:           1,
				SubscriptionTier: "enterprise",
				Permissions:      []string{"read", "write", "admin", "manage_users"},
			},
		},
		{
			email:    "user@example.com",
			password: "password123",
			user: domain.User{
				ID:               "user@example.com",
				Email:            "user@example.com",
				Name:             "John Doe",
				IsCreator:        false,
				Role:             "user",
				RoleID:           3,
				SubscriptionTier: "free",
				Permissions:      []string{"read"},
			},
		},
	}

	accounts := make([]demoAccount, 0, len(seeds))
	for _, s := range seeds {
		hash, err := passwordSvc.Hash(s.password)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, demoAccount{
			email:        s.email,
			passwordHash: hash,
			user:         s.user,
		})
	}

	return &Backend{accounts: accounts, passwordSvc: passwordSvc}, nil
}

// Mode implements domain.AuthBackend
func (b *Backend) Mode() domain.AuthMode { return domain.ModeDemo }

// Login implements domain.AuthBackend
func (b *Backend) Login(_ context.Context, creds domain.Credentials) (*domain.AuthResult, error) {
	for _, acc := range b.accounts {
		if acc.email == creds.Email && b.passwordSvc.Verify(acc.passwordHash, creds.Password) {
			user := acc.user
			return &domain.AuthResult{User: &user, Mode: domain.ModeDemo}, nil
		}
	}
	return nil, domain.ErrInvalidCredentials
}

// Register implements domain.AuthBackend. Demo accounts are a fixed set.
func (b *Backend) Register(context.Context, domain.Registration) (*domain.AuthResult, error) {
	return nil, domain.ErrNotSupported
}

// Logout implements domain.AuthBackend. Nothing to terminate remotely.
func (b *Backend) Logout(context.Context, string) error { return nil }

// Resume implements domain.AuthBackend. Demo sessions do not survive a
// restart; there is never an existing session here.
func (b *Backend) Resume(context.Context, *domain.SessionSnapshot) (*domain.AuthResult, error) {
	return nil, domain.ErrSessionNotFound
}
