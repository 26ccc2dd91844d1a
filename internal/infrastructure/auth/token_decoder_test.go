package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/AyushS-03/IndieMentor-AI/domain"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("some-secret-this-service-never-knows"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func TestClaimDecoder_Decode(t *testing.T) {
	decoder := NewClaimDecoder()
	exp := time.Now().Add(time.Hour).Unix()
	iat := time.Now().Unix()

	token := signedToken(t, jwt.MapClaims{
		"userId":           "user-1",
		"email":            "sarah@example.com",
		"name":             "Sarah",
		"role":             "creator",
		"roleId":           float64(2),
		"subscriptionTier": "premium",
		"permissions":      []interface{}{"read", "write", "create_mentor"},
		"isActive":         true,
		"iat":              iat,
		"exp":              exp,
	})

	claims, err := decoder.Decode(token)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if claims.Subject != "user-1" || claims.Email != "sarah@example.com" {
		t.Errorf("identity claims wrong: %+v", claims)
	}
	if claims.Role != "creator" || claims.RoleID != 2 || claims.SubscriptionTier != "premium" {
		t.Errorf("role claims wrong: %+v", claims)
	}
	if len(claims.Permissions) != 3 || claims.Permissions[2] != "create_mentor" {
		t.Errorf("permissions wrong: %v", claims.Permissions)
	}
	if claims.ExpiresAt != exp || claims.IssuedAt != iat {
		t.Errorf("timestamps wrong: exp=%d iat=%d", claims.ExpiresAt, claims.IssuedAt)
	}
	if !claims.IsActive {
		t.Error("expected active")
	}
}

func TestClaimDecoder_DecodeIgnoresSignature(t *testing.T) {
	decoder := NewClaimDecoder()

	// The decoder must read claims regardless of who signed the token.
	token := signedToken(t, jwt.MapClaims{
		"userId": "user-1",
		"exp":    time.Now().Add(time.Hour).Unix(),
	})

	claims, err := decoder.Decode(token)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if claims.Subject != "user-1" {
		t.Errorf("expected subject, got %q", claims.Subject)
	}
}

func TestClaimDecoder_Decode_Errors(t *testing.T) {
	decoder := NewClaimDecoder()

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-jwt"},
		{name: "empty", token: ""},
		{name: "missing exp", token: signedToken(t, jwt.MapClaims{"userId": "user-1"})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decoder.Decode(tt.token)
			if !errors.Is(err, domain.ErrTokenMalformed) {
				t.Fatalf("expected ErrTokenMalformed, got %v", err)
			}
		})
	}
}
