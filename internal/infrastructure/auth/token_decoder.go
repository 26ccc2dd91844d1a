package auth

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/AyushS-03/IndieMentor-AI/domain"
)

// ClaimDecoder implements domain.TokenDecoder. It reads claims without
// verifying the signature; the gateway does not hold the backend's signing
// secret, and the only claim acted on locally is expiry, for refresh
// scheduling. Authoritative validation always goes through the backend's
// validate endpoint.
type ClaimDecoder struct{}

// NewClaimDecoder creates a new claim decoder
func NewClaimDecoder() domain.TokenDecoder {
	return &ClaimDecoder{}
}

// Decode implements domain.TokenDecoder
func (d *ClaimDecoder) Decode(tokenString string) (*domain.TokenClaims, error) {
	parser := jwt.NewParser()
	token, _, err := parser.ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return nil, domain.ErrTokenMalformed
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, domain.ErrTokenMalformed
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		return nil, domain.ErrTokenMalformed
	}

	tokenClaims := &domain.TokenClaims{
		ExpiresAt: int64(exp),
	}

	if iat, ok := claims["iat"].(float64); ok {
		tokenClaims.IssuedAt = int64(iat)
	}
	if sub, ok := claims["userId"].(string); ok {
		tokenClaims.Subject = sub
	}
	if email, ok := claims["email"].(string); ok {
		tokenClaims.Email = email
	}
	if name, ok := claims["name"].(string); ok {
		tokenClaims.Name = name
	}
	if role, ok := claims["role"].(string); ok {
		tokenClaims.Role = role
	}
	if roleID, ok := claims["roleId"].(float64); ok {
		tokenClaims.RoleID = int(roleID)
	}
	if tier, ok := claims["subscriptionTier"].(string); ok {
		tokenClaims.SubscriptionTier = tier
	}
	if active, ok := claims["isActive"].(bool); ok {
		tokenClaims.IsActive = active
	}
	if perms, ok := claims["permissions"].([]interface{}); ok {
		for _, p := range perms {
			if s, ok := p.(string); ok {
				tokenClaims.Permissions = append(tokenClaims.Permissions, s)
			}
		}
	}

	return tokenClaims, nil
}
