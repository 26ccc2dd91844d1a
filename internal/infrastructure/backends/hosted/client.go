// Package hosted is the client for the hosted auth service (the second
// strategy of the login cascade). Auth operations go over the service's REST
// surface; profile rows live in the hosted store and are read through the
// profile repository.
package hosted

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/AyushS-03/IndieMentor-AI/domain"
)

// Backend implements domain.AuthBackend against the hosted auth service.
type Backend struct {
	baseURL      string
	anonKey      string
	http         *http.Client
	profiles     domain.ProfileRepository
	audit        domain.AuditLogger
	loginTimeout time.Duration
}

// New creates a new hosted auth backend
func New(baseURL, anonKey string, timeout, loginTimeout time.Duration, profiles domain.ProfileRepository, audit domain.AuditLogger) *Backend {
	return &Backend{
		baseURL:      baseURL,
		anonKey:      anonKey,
		http:         &http.Client{Timeout: timeout},
		profiles:     profiles,
		audit:        audit,
		loginTimeout: loginTimeout,
	}
}

// wireSession is the hosted service's token grant response.
type wireSession struct {
	AccessToken string       `json:"access_token"`
	User        *hostedUser  `json:"user"`
	Error       *hostedError `json:"error"`
}

type hostedUser struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Metadata struct {
		Name      string `json:"name"`
		AvatarURL string `json:"avatar_url"`
	} `json:"user_metadata"`
}

type hostedError struct {
	Message string `json:"message"`
	Msg     string `json:"msg"`
}

// Mode implements domain.AuthBackend
func (b *Backend) Mode() domain.AuthMode { return domain.ModeHosted }

// Login implements domain.AuthBackend. The network call races a client-side
// timeout; hitting it counts as a failure, never a success.
func (b *Backend) Login(ctx context.Context, creds domain.Credentials) (*domain.AuthResult, error) {
	ctx, cancel := context.WithTimeout(ctx, b.loginTimeout)
	defer cancel()

	status, data, err := b.do(ctx, http.MethodPost, "/auth/v1/token?grant_type=password", map[string]string{
		"email":    creds.Email,
		"password": creds.Password,
	}, "")
	if err != nil {
		return nil, err
	}
	if status == http.StatusBadRequest || status == http.StatusUnauthorized || status == http.StatusForbidden {
		return nil, domain.ErrInvalidCredentials
	}
	if status >= 300 {
		return nil, fmt.Errorf("hosted sign-in failed: status %d", status)
	}

	var session wireSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to decode sign-in response: %w", err)
	}
	if session.User == nil {
		return nil, fmt.Errorf("hosted sign-in returned no user")
	}

	user, err := b.normalize(ctx, session.User)
	if err != nil {
		return nil, err
	}
	return &domain.AuthResult{User: user, Token: session.AccessToken, Mode: domain.ModeHosted}, nil
}

// Register implements domain.AuthBackend. The profile-row insert after
// sign-up is best effort: a failure there must not fail the registration.
func (b *Backend) Register(ctx context.Context, reg domain.Registration) (*domain.AuthResult, error) {
	status, data, err := b.do(ctx, http.MethodPost, "/auth/v1/signup", map[string]interface{}{
		"email":    reg.Email,
		"password": reg.Password,
		"data":     map[string]string{"name": reg.Name},
	}, "")
	if err != nil {
		return nil, err
	}
	if status == http.StatusUnprocessableEntity || status == http.StatusConflict {
		return nil, domain.ErrUserAlreadyExists
	}
	if status >= 300 {
		return nil, fmt.Errorf("hosted sign-up failed: status %d", status)
	}

	var session wireSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to decode sign-up response: %w", err)
	}
	if session.User == nil {
		return nil, fmt.Errorf("hosted sign-up returned no user")
	}

	profile := &domain.Profile{
		ID:        session.User.ID,
		Email:     reg.Email,
		Name:      reg.Name,
		IsCreator: reg.IsCreator,
	}
	user := projectProfile(profile)
	if profileErr := b.profiles.Create(ctx, profile); profileErr != nil {
		// The registration itself succeeded; the missing row only downgrades
		// the projection until someone recreates it.
		b.logEvent(ctx, domain.NewAuditEvent(domain.ProfileInsertFailureEvent).
			WithUser(session.User.ID, reg.Email).
			WithMode(domain.ModeHosted).
			WithError(profileErr))
		user = synthesize(session.User)
	}
	return &domain.AuthResult{User: user, Token: session.AccessToken, Mode: domain.ModeHosted}, nil
}

// Logout implements domain.AuthBackend
func (b *Backend) Logout(ctx context.Context, token string) error {
	status, _, err := b.do(ctx, http.MethodPost, "/auth/v1/logout", nil, token)
	if err != nil {
		return err
	}
	if status >= 300 {
		return fmt.Errorf("hosted sign-out failed: status %d", status)
	}
	return nil
}

// Resume implements domain.AuthBackend. It asks the hosted service whether
// the stored access token still names a live session, then re-projects the
// profile row into the normalized user.
func (b *Backend) Resume(ctx context.Context, snap *domain.SessionSnapshot) (*domain.AuthResult, error) {
	if snap == nil || snap.Mode != domain.ModeHosted || snap.Token == "" {
		return nil, domain.ErrSessionNotFound
	}

	status, data, err := b.do(ctx, http.MethodGet, "/auth/v1/user", nil, snap.Token)
	if err != nil {
		return nil, err
	}
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return nil, domain.ErrSessionExpired
	}
	if status >= 300 {
		return nil, fmt.Errorf("hosted session check failed: status %d", status)
	}

	var hu hostedUser
	if err := json.Unmarshal(data, &hu); err != nil {
		return nil, fmt.Errorf("failed to decode session user: %w", err)
	}

	user, err := b.normalize(ctx, &hu)
	if err != nil {
		return nil, err
	}
	return &domain.AuthResult{User: user, Token: snap.Token, Mode: domain.ModeHosted}, nil
}

// UpdateProfile implements domain.ProfileUpdater. Edits land on the profiles
// row so the next session resume re-projects the new values instead of
// reverting them.
func (b *Backend) UpdateProfile(ctx context.Context, userID, name, avatarURL string) (*domain.User, error) {
	profile, err := b.profiles.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}
	if name != "" {
		profile.Name = name
	}
	if avatarURL != "" {
		profile.AvatarURL = avatarURL
	}
	if err := b.profiles.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return projectProfile(profile), nil
}

func (b *Backend) logEvent(ctx context.Context, event *domain.AuditEvent) {
	if b.audit != nil {
		_ = b.audit.LogEvent(ctx, event)
	}
}

// normalize projects the hosted identity into the unified user shape. A
// missing profile row is a distinguished, non-fatal outcome: the user is
// synthesized from session metadata with the default role and permissions.
func (b *Backend) normalize(ctx context.Context, hu *hostedUser) (*domain.User, error) {
	profile, err := b.profiles.FindByID(ctx, hu.ID)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			return synthesize(hu), nil
		}
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}
	return projectProfile(profile), nil
}

// projectProfile maps the boolean creator flag into the role/permission set.
func projectProfile(p *domain.Profile) *domain.User {
	user := &domain.User{
		ID:               p.ID,
		Email:            p.Email,
		Name:             p.Name,
		AvatarURL:        p.AvatarURL,
		IsCreator:        p.IsCreator,
		Role:             "user",
		RoleID:           3,
		SubscriptionTier: "free",
		Permissions:      []string{"read"},
	}
	if p.IsCreator {
		user.Role = "creator"
		user.RoleID = 2
		user.Permissions = []string{"read", "write", "create_mentor"}
	}
	return user
}

// synthesize builds a minimal user from session metadata, best-effort name
// from metadata or the email local-part.
func synthesize(hu *hostedUser) *domain.User {
	name := hu.Metadata.Name
	if name == "" {
		if at := strings.Index(hu.Email, "@"); at > 0 {
			name = hu.Email[:at]
		} else {
			name = "User"
		}
	}
	return &domain.User{
		ID:               hu.ID,
		Email:            hu.Email,
		Name:             name,
		AvatarURL:        hu.Metadata.AvatarURL,
		IsCreator:        false,
		Role:             "user",
		RoleID:           3,
		SubscriptionTier: "free",
		Permissions:      []string{"read"},
	}
}

func (b *Backend) do(ctx context.Context, method, path string, body interface{}, token string) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, b.baseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if b.anonKey != "" {
		req.Header.Set("apikey", b.anonKey)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := b.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response: %w", err)
	}
	return resp.StatusCode, data, nil
}
