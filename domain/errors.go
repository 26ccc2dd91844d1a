package domain

import "errors"

// Authentication errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrLoginInFlight      = errors.New("a login attempt is already in progress")
	ErrBackendUnavailable = errors.New("auth backend unavailable")
	ErrNotSupported       = errors.New("operation not supported by this backend")
)

// Token errors
var (
	ErrTokenInvalid   = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenMalformed = errors.New("malformed token")
)

// Session errors
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session has expired")
)

// Data access errors. The not-found sentinels are distinguished, expected
// outcomes during first-time lookups and must not be surfaced as failures.
var (
	ErrProfileNotFound      = errors.New("profile not found")
	ErrMentorNotFound       = errors.New("mentor not found")
	ErrConversationNotFound = errors.New("conversation not found")
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrNotSubscribed        = errors.New("no active subscription for this mentor")
)

// Authorization errors
var (
	ErrUnauthorized     = errors.New("unauthorized access")
	ErrInsufficientRole = errors.New("insufficient role permissions")
)

// Chat errors
var (
	ErrCompletionFailed = errors.New("chat completion failed")
)
