package domain

import "time"

// AuthMode identifies which backend produced the current session.
type AuthMode string

const (
	ModeJWT    AuthMode = "jwt"
	ModeHosted AuthMode = "hosted"
	ModeDemo   AuthMode = "demo"
)

// Credentials represents a transient login attempt. Never persisted.
type Credentials struct {
	Email    string
	Password string
}

// Registration represents a sign-up request.
type Registration struct {
	Name      string
	Email     string
	Password  string
	IsCreator bool
}

// User is the normalized view every backend projects into. It is the single
// source of truth the rest of the application reads.
type User struct {
	ID               string
	Email            string
	Name             string
	AvatarURL        string
	IsCreator        bool
	Role             string
	RoleID           int
	SubscriptionTier string
	Permissions      []string
}

// HasPermission reports whether the user carries the given permission.
func (u *User) HasPermission(permission string) bool {
	if u == nil {
		return false
	}
	for _, p := range u.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// HasRole reports whether the user holds the given role.
func (u *User) HasRole(role string) bool {
	return u != nil && u.Role == role
}

// IsAdmin reports whether the user has admin privileges by role or permission.
func (u *User) IsAdmin() bool {
	return u.HasRole("admin") || u.HasPermission("admin")
}

// IsPremium reports whether the user is on a paid subscription tier.
func (u *User) IsPremium() bool {
	if u == nil {
		return false
	}
	return u.SubscriptionTier == "premium" || u.SubscriptionTier == "enterprise"
}

// TokenClaims are the claims embedded in a backend-issued bearer token.
type TokenClaims struct {
	Subject          string   `json:"userId"`
	Email            string   `json:"email"`
	Name             string   `json:"name"`
	Role             string   `json:"role"`
	RoleID           int      `json:"roleId"`
	SubscriptionTier string   `json:"subscriptionTier"`
	Permissions      []string `json:"permissions"`
	IsActive         bool     `json:"isActive"`
	IssuedAt         int64    `json:"iat"`
	ExpiresAt        int64    `json:"exp"`
}

// AuthResult is the outcome of a successful backend login or resume.
type AuthResult struct {
	User  *User
	Token string
	Mode  AuthMode
}

// SessionSnapshot is the single durable record of a session: the bearer token,
// the normalized user and the backend that produced them. A new snapshot
// replaces the old one wholesale on login and refresh.
type SessionSnapshot struct {
	Token string   `json:"token"`
	User  *User    `json:"user"`
	Mode  AuthMode `json:"mode"`
}

// ValidationResult is the JWT backend's answer to a token validation request.
type ValidationResult struct {
	Valid   bool
	Expired bool
	User    *User
	Message string
}

// Profile is a row in the hosted profiles table.
type Profile struct {
	ID        string
	Email     string
	Name      string
	AvatarURL string
	IsCreator bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MentorStatus is the lifecycle state of a mentor listing.
type MentorStatus string

const (
	MentorDraft  MentorStatus = "draft"
	MentorActive MentorStatus = "active"
	MentorPaused MentorStatus = "paused"
)

// Mentor is a named AI persona with fixed expertise tags and a price,
// authored by a creator user.
type Mentor struct {
	ID                 string
	CreatorID          string
	Name               string
	Title              string
	Description        string
	AvatarURL          string
	Price              int
	Expertise          []string
	Status             MentorStatus
	SubscribersCount   int
	ConversationsCount int
	Revenue            int
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// MentorPatch carries the mutable mentor fields for an update. Nil fields are
// left untouched.
type MentorPatch struct {
	Name        *string
	Title       *string
	Description *string
	AvatarURL   *string
	Price       *int
	Expertise   []string
	Status      *MentorStatus
}

// Subscription is a time-bounded grant allowing a user to converse with a
// specific mentor.
type Subscription struct {
	ID        string
	UserID    string
	MentorID  string
	Status    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// MessageSender distinguishes the two sides of a conversation.
type MessageSender string

const (
	SenderUser   MessageSender = "user"
	SenderMentor MessageSender = "mentor"
)

// ChatMessage is one entry in a conversation's append-only message log.
type ChatMessage struct {
	ID        string        `json:"id"`
	Sender    MessageSender `json:"sender"`
	Content   string        `json:"content"`
	Timestamp time.Time     `json:"timestamp"`
	Type      string        `json:"type"`
}

// Conversation holds the ordered message log for one (user, mentor) pair.
// There is at most one conversation per pair; it is created lazily on first
// chat and appended to on every exchange.
type Conversation struct {
	ID        string
	UserID    string
	MentorID  string
	Messages  []ChatMessage
	CreatedAt time.Time
	UpdatedAt time.Time
}
