package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/AyushS-03/IndieMentor-AI/domain"
	"github.com/AyushS-03/IndieMentor-AI/internal/metrics"
)

// SessionResolver owns one session's authoritative (User, AuthMode) pair and
// keeps it current. Backends are an explicit ordered list of strategies tried
// in sequence; the demo resting state (nil user, demo mode) means "logged
// out", never an error.
//
// Construct one resolver per logical session; there are no package-level
// singletons, so tests can instantiate independent instances.
type SessionResolver struct {
	sessionID   string
	backends    []domain.AuthBackend
	store       domain.SessionStore
	decoder     domain.TokenDecoder
	audit       domain.AuditLogger
	metrics     *metrics.Metrics
	refreshLead time.Duration

	mu         sync.Mutex
	user       *domain.User
	token      string
	mode       domain.AuthMode
	inFlight   bool
	refreshGen uint64
	refreshTim *time.Timer

	now       func() time.Time
	afterFunc func(time.Duration, func()) *time.Timer
}

// ResolverOption customizes a resolver, mainly for tests.
type ResolverOption func(*SessionResolver)

// WithClock overrides the wall clock used for refresh scheduling.
func WithClock(now func() time.Time) ResolverOption {
	return func(s *SessionResolver) { s.now = now }
}

// WithTimerFactory overrides timer creation so tests can capture and fire
// scheduled refreshes deterministically.
func WithTimerFactory(afterFunc func(time.Duration, func()) *time.Timer) ResolverOption {
	return func(s *SessionResolver) { s.afterFunc = afterFunc }
}

// NewSessionResolver creates a new session resolver
func NewSessionResolver(
	sessionID string,
	backends []domain.AuthBackend,
	store domain.SessionStore,
	decoder domain.TokenDecoder,
	audit domain.AuditLogger,
	m *metrics.Metrics,
	refreshLead time.Duration,
	opts ...ResolverOption,
) *SessionResolver {
	s := &SessionResolver{
		sessionID:   sessionID,
		backends:    backends,
		store:       store,
		decoder:     decoder,
		audit:       audit,
		metrics:     m,
		refreshLead: refreshLead,
		mode:        domain.ModeDemo,
		now:         time.Now,
		afterFunc:   time.AfterFunc,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Resume runs the initialization protocol once per session load: revalidate
// any stored snapshot against each backend in order, and settle on the demo
// resting state when none yields a session. Never returns an error for "no
// session"; the caller must treat the resting state as logged out.
func (s *SessionResolver) Resume(ctx context.Context) error {
	snap, err := s.store.Load(ctx, s.sessionID)
	if err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		return err
	}

	for _, backend := range s.backends {
		result, err := backend.Resume(ctx, snap)
		if err == nil && result != nil {
			s.mu.Lock()
			s.adoptLocked(ctx, result)
			s.mu.Unlock()
			s.logEvent(ctx, domain.NewAuditEvent(domain.SessionResumedEvent).
				WithUser(result.User.ID, result.User.Email).
				WithMode(result.Mode))
			return nil
		}
		if errors.Is(err, domain.ErrTokenExpired) || errors.Is(err, domain.ErrTokenInvalid) || errors.Is(err, domain.ErrSessionExpired) {
			// The stored token is dead; discard it before falling through.
			_ = s.store.Clear(ctx, s.sessionID)
			snap = nil
			s.logEvent(ctx, domain.NewAuditEvent(domain.SessionExpiredEvent).
				WithMode(backend.Mode()).WithError(err))
			continue
		}
		// ErrSessionNotFound and connectivity failures both mean "try the
		// next backend".
	}

	s.mu.Lock()
	s.clearLocked()
	s.mu.Unlock()
	return nil
}

// Login runs the cascading attempt, short-circuiting on the first backend
// that accepts the credentials. A concurrent attempt on the same resolver is
// rejected rather than raced. When every backend rejects, a single
// credential failure is surfaced and no state changes.
func (s *SessionResolver) Login(ctx context.Context, creds domain.Credentials) (*domain.User, error) {
	if err := s.beginAttempt(); err != nil {
		return nil, err
	}
	defer s.endAttempt()

	for _, backend := range s.backends {
		result, err := backend.Login(ctx, creds)
		if err == nil && result != nil {
			s.mu.Lock()
			s.adoptLocked(ctx, result)
			s.mu.Unlock()
			s.countLogin(backend.Mode(), "success")
			s.logEvent(ctx, domain.NewAuditEvent(domain.UserLoginEvent).
				WithUser(result.User.ID, result.User.Email).
				WithMode(result.Mode))
			return result.User, nil
		}
		s.countLogin(backend.Mode(), classify(err))
		s.logEvent(ctx, domain.NewAuditEvent(domain.BackendFallbackEvent).
			WithMode(backend.Mode()).WithError(err))
	}

	s.logEvent(ctx, domain.NewAuditEvent(domain.UserLoginFailureEvent).
		WithMetadata("email", creds.Email).
		WithError(domain.ErrInvalidCredentials))
	return nil, domain.ErrInvalidCredentials
}

// Register runs the registration cascade. Backends with fixed account sets
// opt out with ErrNotSupported and are skipped.
func (s *SessionResolver) Register(ctx context.Context, reg domain.Registration) (*domain.User, error) {
	if err := s.beginAttempt(); err != nil {
		return nil, err
	}
	defer s.endAttempt()

	var lastErr error
	for _, backend := range s.backends {
		result, err := backend.Register(ctx, reg)
		if err == nil && result != nil {
			s.mu.Lock()
			s.adoptLocked(ctx, result)
			s.mu.Unlock()
			s.logEvent(ctx, domain.NewAuditEvent(domain.UserRegistrationEvent).
				WithUser(result.User.ID, result.User.Email).
				WithMode(result.Mode))
			return result.User, nil
		}
		if errors.Is(err, domain.ErrNotSupported) {
			continue
		}
		if lastErr == nil || errors.Is(err, domain.ErrUserAlreadyExists) {
			lastErr = err
		}
	}

	if lastErr == nil {
		lastErr = domain.ErrBackendUnavailable
	}
	return nil, lastErr
}

// Logout calls the terminating operation for the active mode. Local state is
// always cleared and the resolver settles on the demo resting state, whether
// or not the remote call succeeds. Safe to call repeatedly.
func (s *SessionResolver) Logout(ctx context.Context) error {
	s.mu.Lock()
	mode := s.mode
	token := s.token
	user := s.user
	s.mu.Unlock()

	if user != nil {
		if backend := s.backendFor(mode); backend != nil {
			if err := backend.Logout(ctx, token); err != nil {
				s.logEvent(ctx, domain.NewAuditEvent(domain.UserLogoutEvent).
					WithUser(user.ID, user.Email).WithMode(mode).WithError(err))
			}
		}
	}

	s.mu.Lock()
	s.clearLocked()
	s.mu.Unlock()
	_ = s.store.Clear(ctx, s.sessionID)

	if user != nil {
		s.logEvent(ctx, domain.NewAuditEvent(domain.UserLogoutEvent).
			WithUser(user.ID, user.Email).WithMode(mode))
	}
	return nil
}

// Close cancels any pending refresh. The resolver is unusable afterwards.
func (s *SessionResolver) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelRefreshLocked()
}

// User returns the current normalized user, nil when logged out.
func (s *SessionResolver) User() *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Mode returns the backend that produced the current session.
func (s *SessionResolver) Mode() domain.AuthMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Token returns the current bearer token, empty for demo sessions.
func (s *SessionResolver) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// IsAuthenticated reports whether a user is signed in.
func (s *SessionResolver) IsAuthenticated() bool {
	return s.User() != nil
}

// HasPermission is a pure capability query over the current user.
func (s *SessionResolver) HasPermission(permission string) bool {
	return s.User().HasPermission(permission)
}

// HasRole is a pure capability query over the current user.
func (s *SessionResolver) HasRole(role string) bool {
	return s.User().HasRole(role)
}

// IsAdmin is a pure capability query over the current user.
func (s *SessionResolver) IsAdmin() bool {
	return s.User().IsAdmin()
}

// IsPremium is a pure capability query over the current user.
func (s *SessionResolver) IsPremium() bool {
	return s.User().IsPremium()
}

// UpdateProfile targets the update at the active mode's backend: when the
// backend keeps a profile row the edit is written through so the next resume
// re-projects it, otherwise (demo, jwt) only the local snapshot changes. The
// refreshed snapshot is persisted either way.
func (s *SessionResolver) UpdateProfile(ctx context.Context, name, avatarURL string) (*domain.User, error) {
	s.mu.Lock()
	if s.user == nil {
		s.mu.Unlock()
		return nil, domain.ErrNotAuthenticated
	}
	updated := *s.user
	mode := s.mode
	s.mu.Unlock()

	if name != "" {
		updated.Name = name
	}
	if avatarURL != "" {
		updated.AvatarURL = avatarURL
	}

	if updater, ok := s.backendFor(mode).(domain.ProfileUpdater); ok {
		result, err := updater.UpdateProfile(ctx, updated.ID, name, avatarURL)
		switch {
		case err == nil:
			updated = *result
		case errors.Is(err, domain.ErrProfileNotFound):
			// No row to write through; the local snapshot stands alone.
		default:
			return nil, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		// Logged out while the write-through was in flight.
		return nil, domain.ErrNotAuthenticated
	}
	s.user = &updated
	s.persistLocked(ctx)
	return &updated, nil
}

// beginAttempt enforces the at-most-one-in-flight-cascade invariant.
func (s *SessionResolver) beginAttempt() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight {
		return domain.ErrLoginInFlight
	}
	s.inFlight = true
	return nil
}

func (s *SessionResolver) endAttempt() {
	s.mu.Lock()
	s.inFlight = false
	s.mu.Unlock()
}

// adoptLocked installs a backend result as the active session: replaces the
// token and user wholesale, persists the snapshot and reschedules the
// refresh. Callers hold s.mu.
func (s *SessionResolver) adoptLocked(ctx context.Context, result *domain.AuthResult) {
	s.user = result.User
	s.token = result.Token
	s.mode = result.Mode
	s.persistLocked(ctx)
	s.scheduleRefreshLocked()
}

// persistLocked saves the current snapshot. Persistence failures are not
// fatal to the session; the in-memory state remains authoritative.
func (s *SessionResolver) persistLocked(ctx context.Context) {
	snap := &domain.SessionSnapshot{Token: s.token, User: s.user, Mode: s.mode}
	_ = s.store.Save(ctx, s.sessionID, snap)
}

// clearLocked drops all auth state and settles on the demo resting state.
func (s *SessionResolver) clearLocked() {
	s.cancelRefreshLocked()
	s.user = nil
	s.token = ""
	s.mode = domain.ModeDemo
}

// scheduleRefreshLocked arranges a single deferred refresh at expiry minus
// the configured lead, clamped to immediate when already past. The previous
// handle is always cancelled first, so at most one refresh is ever pending.
func (s *SessionResolver) scheduleRefreshLocked() {
	s.cancelRefreshLocked()

	refresher, ok := s.backendFor(s.mode).(domain.TokenRefresher)
	if !ok || s.token == "" {
		return
	}
	claims, err := s.decoder.Decode(s.token)
	if err != nil {
		return
	}

	delay := time.Unix(claims.ExpiresAt, 0).Sub(s.now()) - s.refreshLead
	if delay < 0 {
		delay = 0
	}

	s.refreshGen++
	gen := s.refreshGen
	token := s.token
	s.refreshTim = s.afterFunc(delay, func() {
		s.runRefresh(gen, refresher, token)
	})
}

func (s *SessionResolver) cancelRefreshLocked() {
	if s.refreshTim != nil {
		s.refreshTim.Stop()
		s.refreshTim = nil
	}
	s.refreshGen++
}

// runRefresh performs the deferred refresh. The generation check discards
// firings that lost a race with cancellation; the network call happens
// outside the lock.
func (s *SessionResolver) runRefresh(gen uint64, refresher domain.TokenRefresher, token string) {
	s.mu.Lock()
	if gen != s.refreshGen {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	result, err := refresher.Refresh(ctx, token)

	s.mu.Lock()
	if gen != s.refreshGen {
		s.mu.Unlock()
		return
	}
	if err != nil {
		// A failed refresh clears all auth state.
		s.clearLocked()
		s.mu.Unlock()
		_ = s.store.Clear(ctx, s.sessionID)
		s.countRefresh("failure")
		s.logEvent(ctx, domain.NewAuditEvent(domain.TokenRefreshFailure).WithError(err))
		return
	}
	s.adoptLocked(ctx, result)
	s.mu.Unlock()
	s.countRefresh("success")
	s.logEvent(ctx, domain.NewAuditEvent(domain.TokenRefreshEvent).
		WithUser(result.User.ID, result.User.Email).
		WithMode(result.Mode))
}

func (s *SessionResolver) backendFor(mode domain.AuthMode) domain.AuthBackend {
	for _, b := range s.backends {
		if b.Mode() == mode {
			return b
		}
	}
	return nil
}

func (s *SessionResolver) logEvent(ctx context.Context, event *domain.AuditEvent) {
	if s.audit != nil {
		_ = s.audit.LogEvent(ctx, event)
	}
}

func (s *SessionResolver) countLogin(mode domain.AuthMode, result string) {
	if s.metrics != nil {
		s.metrics.LoginAttempts.WithLabelValues(string(mode), result).Inc()
	}
}

func (s *SessionResolver) countRefresh(result string) {
	if s.metrics != nil {
		s.metrics.TokenRefreshes.WithLabelValues(result).Inc()
	}
}

func classify(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "rejected"
	case errors.Is(err, domain.ErrBackendUnavailable), errors.Is(err, context.DeadlineExceeded):
		return "unavailable"
	default:
		return "error"
	}
}
