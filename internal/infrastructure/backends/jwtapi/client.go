// Package jwtapi is the typed client for the JWT auth backend. It implements
// the first strategy of the login cascade plus token validation and refresh.
package jwtapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/AyushS-03/IndieMentor-AI/domain"
)

// Client talks to the JWT backend's /auth endpoints.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a new JWT backend client
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// wireUser is the backend's user representation.
type wireUser struct {
	ID               string   `json:"id"`
	Email            string   `json:"email"`
	Name             string   `json:"name"`
	AvatarURL        string   `json:"avatar_url"`
	Role             string   `json:"role"`
	RoleID           int      `json:"roleId"`
	SubscriptionTier string   `json:"subscriptionTier"`
	Permissions      []string `json:"permissions"`
}

type loginResponse struct {
	Message string   `json:"message"`
	Token   string   `json:"token"`
	User    wireUser `json:"user"`
}

type validateResponse struct {
	Valid   bool      `json:"valid"`
	Expired bool      `json:"expired"`
	User    *wireUser `json:"user"`
	Message string    `json:"message"`
}

// errorText extracts the backend's error text; non-2xx responses carry a JSON
// body with either a detail or a message field.
func errorText(data []byte, fallback string) string {
	var body struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &body); err == nil {
		if body.Detail != "" {
			return body.Detail
		}
		if body.Message != "" {
			return body.Message
		}
	}
	return fallback
}

// Mode implements domain.AuthBackend
func (c *Client) Mode() domain.AuthMode { return domain.ModeJWT }

// Login implements domain.AuthBackend
func (c *Client) Login(ctx context.Context, creds domain.Credentials) (*domain.AuthResult, error) {
	status, data, err := c.do(ctx, http.MethodPost, "/auth/login", map[string]string{
		"email":    creds.Email,
		"password": creds.Password,
	}, "")
	if err != nil {
		return nil, err
	}
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return nil, domain.ErrInvalidCredentials
	}
	if status >= 300 {
		return nil, fmt.Errorf("jwt backend login failed: %s", errorText(data, fmt.Sprintf("status %d", status)))
	}
	var resp loginResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode login response: %w", err)
	}
	return c.toResult(&resp), nil
}

// Register implements domain.AuthBackend
func (c *Client) Register(ctx context.Context, reg domain.Registration) (*domain.AuthResult, error) {
	status, data, err := c.do(ctx, http.MethodPost, "/auth/register", map[string]string{
		"name":     reg.Name,
		"email":    reg.Email,
		"password": reg.Password,
	}, "")
	if err != nil {
		return nil, err
	}
	if status == http.StatusConflict {
		return nil, domain.ErrUserAlreadyExists
	}
	if status >= 300 {
		return nil, fmt.Errorf("jwt backend registration failed: %s", errorText(data, fmt.Sprintf("status %d", status)))
	}
	var resp loginResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode registration response: %w", err)
	}
	return c.toResult(&resp), nil
}

// Logout implements domain.AuthBackend
func (c *Client) Logout(ctx context.Context, token string) error {
	status, data, err := c.do(ctx, http.MethodPost, "/auth/logout", struct{}{}, token)
	if err != nil {
		return err
	}
	if status >= 300 {
		return fmt.Errorf("jwt backend logout failed: %s", errorText(data, fmt.Sprintf("status %d", status)))
	}
	return nil
}

// Validate asks the backend whether a token is still good.
func (c *Client) Validate(ctx context.Context, token string) (*domain.ValidationResult, error) {
	status, data, err := c.do(ctx, http.MethodPost, "/auth/validate", map[string]string{"token": token}, "")
	if err != nil {
		return nil, err
	}
	if status >= 500 {
		return nil, fmt.Errorf("jwt backend validate failed: %s", errorText(data, fmt.Sprintf("status %d", status)))
	}
	// The validate endpoint answers invalid tokens with a decodable body.
	var resp validateResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode validate response: %w", err)
	}
	result := &domain.ValidationResult{
		Valid:   resp.Valid,
		Expired: resp.Expired,
		Message: resp.Message,
	}
	if resp.User != nil {
		result.User = toUser(*resp.User)
	}
	return result, nil
}

// Resume implements domain.AuthBackend. It revalidates a stored token at
// startup; expiry and invalidity both tell the resolver to discard the
// snapshot and fall through.
func (c *Client) Resume(ctx context.Context, snap *domain.SessionSnapshot) (*domain.AuthResult, error) {
	if snap == nil || snap.Mode != domain.ModeJWT || snap.Token == "" {
		return nil, domain.ErrSessionNotFound
	}
	validation, err := c.Validate(ctx, snap.Token)
	if err != nil {
		return nil, err
	}
	if !validation.Valid {
		if validation.Expired {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}
	user := validation.User
	if user == nil {
		user = snap.User
	}
	return &domain.AuthResult{User: user, Token: snap.Token, Mode: domain.ModeJWT}, nil
}

// Refresh implements domain.TokenRefresher
func (c *Client) Refresh(ctx context.Context, token string) (*domain.AuthResult, error) {
	status, data, err := c.do(ctx, http.MethodPost, "/auth/refresh", struct{}{}, token)
	if err != nil {
		return nil, err
	}
	if status >= 300 {
		return nil, domain.ErrTokenInvalid
	}
	var resp loginResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode refresh response: %w", err)
	}
	return c.toResult(&resp), nil
}

// DoAuthenticated performs an authenticated request against the backend. On a
// 401 it attempts exactly one refresh-and-retry before giving up; a non-nil
// AuthResult in the return tells the caller a new token was adopted and must
// be stored. The retry is single-shot, never a loop.
func (c *Client) DoAuthenticated(ctx context.Context, method, path string, body, out interface{}, token string) (*domain.AuthResult, error) {
	status, data, err := c.do(ctx, method, path, body, token)
	if err != nil {
		return nil, err
	}
	if status != http.StatusUnauthorized {
		return nil, decodeInto(status, data, out)
	}

	refreshed, err := c.Refresh(ctx, token)
	if err != nil {
		return nil, domain.ErrNotAuthenticated
	}

	status, data, err = c.do(ctx, method, path, body, refreshed.Token)
	if err != nil {
		return refreshed, err
	}
	return refreshed, decodeInto(status, data, out)
}

func decodeInto(status int, data []byte, out interface{}) error {
	if status >= 300 {
		return fmt.Errorf("jwt backend request failed: %s", errorText(data, fmt.Sprintf("status %d", status)))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) toResult(resp *loginResponse) *domain.AuthResult {
	return &domain.AuthResult{
		User:  toUser(resp.User),
		Token: resp.Token,
		Mode:  domain.ModeJWT,
	}
}

func toUser(w wireUser) *domain.User {
	return &domain.User{
		ID:               w.ID,
		Email:            w.Email,
		Name:             w.Name,
		AvatarURL:        w.AvatarURL,
		IsCreator:        w.Role == "creator" || contains(w.Permissions, "create_mentor"),
		Role:             w.Role,
		RoleID:           w.RoleID,
		SubscriptionTier: w.SubscriptionTier,
		Permissions:      w.Permissions,
	}
}

func contains(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}

// do sends one request and returns status plus raw body. Transport failures
// are classified as ErrBackendUnavailable so the cascade can fall through.
func (c *Client) do(ctx context.Context, method, path string, body interface{}, token string) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
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
