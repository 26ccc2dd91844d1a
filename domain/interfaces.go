package domain

import "context"

// AuthBackend is one strategy in the ordered login cascade. Each backend is a
// pure async function over credentials; the resolver tries them in sequence
// and short-circuits on the first success.
type AuthBackend interface {
	// Mode identifies the backend in snapshots and audit events.
	Mode() AuthMode
	// Login authenticates the credentials against this backend.
	Login(ctx context.Context, creds Credentials) (*AuthResult, error)
	// Register creates an account. Backends with a fixed account set return
	// ErrNotSupported and the cascade moves on.
	Register(ctx context.Context, reg Registration) (*AuthResult, error)
	// Logout performs the backend's terminating operation for the session the
	// token belongs to. Failures are non-fatal to the caller.
	Logout(ctx context.Context, token string) error
	// Resume revalidates a stored snapshot at startup. ErrSessionNotFound
	// means "no session here, try the next backend"; ErrTokenExpired means
	// the stored token must be discarded before falling through.
	Resume(ctx context.Context, snap *SessionSnapshot) (*AuthResult, error)
}

// TokenRefresher is implemented by backends whose tokens can be refreshed
// before expiry. Only such backends participate in refresh scheduling.
type TokenRefresher interface {
	Refresh(ctx context.Context, token string) (*AuthResult, error)
}

// ProfileUpdater is implemented by backends whose identity store accepts
// profile edits. UpdateProfile writes the change through and returns the
// re-projected user; ErrProfileNotFound means there is no row to write, and
// the caller keeps its local copy.
type ProfileUpdater interface {
	UpdateProfile(ctx context.Context, userID, name, avatarURL string) (*User, error)
}

// SessionStore persists the single durable session record per session key.
type SessionStore interface {
	Save(ctx context.Context, sessionID string, snap *SessionSnapshot) error
	Load(ctx context.Context, sessionID string) (*SessionSnapshot, error)
	Clear(ctx context.Context, sessionID string) error
}

// TokenDecoder extracts claims from a bearer token without verifying its
// signature. The gateway never holds backend signing secrets; expiry is the
// only claim trusted locally, and only for refresh scheduling.
type TokenDecoder interface {
	Decode(token string) (*TokenClaims, error)
}

// PasswordService defines password hashing operations.
type PasswordService interface {
	Hash(password string) (string, error)
	Verify(hashedPassword, password string) bool
}

// ProfileRepository defines profile row access on the hosted store. Rows are
// keyed by the hosted identity id.
type ProfileRepository interface {
	Create(ctx context.Context, profile *Profile) error
	FindByID(ctx context.Context, id string) (*Profile, error)
	Update(ctx context.Context, profile *Profile) error
}

// MentorRepository defines mentor row access on the hosted store.
type MentorRepository interface {
	Create(ctx context.Context, mentor *Mentor) error
	FindByID(ctx context.Context, id string) (*Mentor, error)
	ListActive(ctx context.Context) ([]Mentor, error)
	ListByCreator(ctx context.Context, creatorID string) ([]Mentor, error)
	Update(ctx context.Context, id string, patch MentorPatch) error
	Delete(ctx context.Context, id string) error
	IncrementConversations(ctx context.Context, id string) error
}

// SubscriptionRepository defines subscription row access on the hosted store.
type SubscriptionRepository interface {
	Create(ctx context.Context, sub *Subscription) error
	FindActive(ctx context.Context, userID, mentorID string) (*Subscription, error)
	ListByUser(ctx context.Context, userID string) ([]Subscription, error)
}

// ConversationRepository defines conversation row access on the hosted store.
//
// UpdateMessages is a full read-modify-write replacement of the message list;
// the record carries no concurrency token, so callers must serialize their own
// writes per conversation. Last writer wins across processes.
type ConversationRepository interface {
	FindByUserAndMentor(ctx context.Context, userID, mentorID string) (*Conversation, error)
	Create(ctx context.Context, conv *Conversation) error
	UpdateMessages(ctx context.Context, id string, messages []ChatMessage) error
	ListByUser(ctx context.Context, userID string) ([]Conversation, error)
}

// ChatCompleter produces one assistant reply from a system prompt and an
// ordered conversation history.
type ChatCompleter interface {
	Complete(ctx context.Context, systemPrompt string, history []ChatMessage, userMessage string) (string, error)
}

// PolicyService defines authorization policy operations.
type PolicyService interface {
	AddPolicy(role, resource, action string) error
	RemovePolicy(role, resource, action string) error
	CheckPermission(role, resource, action string) (bool, error)
	GetPolicies() [][]string
}

// CasbinEnforcer is the subset of the Casbin enforcer the service layer needs.
type CasbinEnforcer interface {
	AddPolicy(params ...interface{}) (bool, error)
	RemovePolicy(params ...interface{}) (bool, error)
	Enforce(rvals ...interface{}) (bool, error)
	GetPolicy() ([][]string, error)
	SavePolicy() error
}
