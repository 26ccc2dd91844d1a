package mocks

import (
	"github.com/AyushS-03/IndieMentor-AI/domain"
)

// MockTokenDecoder implements domain.TokenDecoder interface for testing
type MockTokenDecoder struct {
	DecodeFunc func(token string) (*domain.TokenClaims, error)
}

// NewMockTokenDecoder creates a new MockTokenDecoder
func NewMockTokenDecoder() *MockTokenDecoder {
	return &MockTokenDecoder{}
}

// Decode extracts claims from a token
func (m *MockTokenDecoder) Decode(token string) (*domain.TokenClaims, error) {
	if m.DecodeFunc != nil {
		return m.DecodeFunc(token)
	}
	// Default behavior: malformed
	return nil, domain.ErrTokenMalformed
}
