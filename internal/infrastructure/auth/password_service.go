package auth

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/AyushS-03/IndieMentor-AI/domain"
)

// PasswordServiceImpl hashes and verifies credentials for the built-in demo
// accounts with bcrypt. The hosted and token backends never see raw
// passwords, so this is the only place hashing happens.
type PasswordServiceImpl struct {
	cost int
}

// NewPasswordService returns a bcrypt-backed password service at the default
// cost, which is plenty for a fixed demo account table.
func NewPasswordService() domain.PasswordService {
	return &PasswordServiceImpl{
		cost: bcrypt.DefaultCost,
	}
}

// Hash derives a bcrypt hash for storage in the demo account table.
func (p *PasswordServiceImpl) Hash(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// Verify reports whether password matches the stored hash.
func (p *PasswordServiceImpl) Verify(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}
