package jwtapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/AyushS-03/IndieMentor-AI/domain"
)

func loginBody(token string) map[string]interface{} {
	return map[string]interface{}{
		"message": "ok",
		"token":   token,
		"user": map[string]interface{}{
			"id":               "user-1",
			"email":            "sarah@example.com",
			"name":             "Sarah",
			"role":             "creator",
			"roleId":           2,
			"subscriptionTier": "premium",
			"permissions":      []string{"read", "write", "create_mentor"},
		},
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(server.URL, 5*time.Second)
}

func TestClient_Login(t *testing.T) {
	tests := []struct {
		name          string
		handler       http.HandlerFunc
		expectedError error
		wantToken     string
	}{
		{
			name: "successful login",
			handler: func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/auth/login" || r.Method != http.MethodPost {
					t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
				}
				var body map[string]string
				json.NewDecoder(r.Body).Decode(&body)
				if body["email"] != "sarah@example.com" {
					t.Errorf("unexpected email %q", body["email"])
				}
				json.NewEncoder(w).Encode(loginBody("jwt-token"))
			},
			wantToken: "jwt-token",
		},
		{
			name: "401 maps to invalid credentials",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"detail": "Invalid credentials"})
			},
			expectedError: domain.ErrInvalidCredentials,
		},
		{
			name: "403 maps to invalid credentials",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusForbidden)
			},
			expectedError: domain.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, tt.handler)
			result, err := client.Login(context.Background(), domain.Credentials{Email: "sarah@example.com", Password: "password123"})

			if tt.expectedError != nil {
				if !errors.Is(err, tt.expectedError) {
					t.Fatalf("expected %v, got %v", tt.expectedError, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.Token != tt.wantToken || result.Mode != domain.ModeJWT {
				t.Errorf("unexpected result %+v", result)
			}
			if !result.User.IsCreator {
				t.Error("creator role must project IsCreator")
			}
		})
	}
}

func TestClient_Login_BackendUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()
	client := New(server.URL, time.Second)

	_, err := client.Login(context.Background(), domain.Credentials{Email: "a@b.c", Password: "x"})
	if !errors.Is(err, domain.ErrBackendUnavailable) {
		t.Fatalf("expected ErrBackendUnavailable, got %v", err)
	}
}

func TestClient_Register_Conflict(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"detail": "already registered"})
	})

	_, err := client.Register(context.Background(), domain.Registration{Name: "S", Email: "s@e.c", Password: "p"})
	if !errors.Is(err, domain.ErrUserAlreadyExists) {
		t.Fatalf("expected ErrUserAlreadyExists, got %v", err)
	}
}

func TestClient_Resume(t *testing.T) {
	tests := []struct {
		name          string
		snap          *domain.SessionSnapshot
		validateBody  map[string]interface{}
		expectedError error
	}{
		{
			name: "valid token resumes",
			snap: &domain.SessionSnapshot{Token: "jwt-token", Mode: domain.ModeJWT},
			validateBody: map[string]interface{}{
				"valid": true,
				"user": map[string]interface{}{
					"id":    "user-1",
					"email": "sarah@example.com",
					"role":  "creator",
				},
			},
		},
		{
			name:          "expired token",
			snap:          &domain.SessionSnapshot{Token: "stale", Mode: domain.ModeJWT},
			validateBody:  map[string]interface{}{"valid": false, "expired": true},
			expectedError: domain.ErrTokenExpired,
		},
		{
			name:          "invalid token",
			snap:          &domain.SessionSnapshot{Token: "junk", Mode: domain.ModeJWT},
			validateBody:  map[string]interface{}{"valid": false, "expired": false},
			expectedError: domain.ErrTokenInvalid,
		},
		{
			name:          "snapshot from another backend",
			snap:          &domain.SessionSnapshot{Token: "t", Mode: domain.ModeHosted},
			expectedError: domain.ErrSessionNotFound,
		},
		{
			name:          "nil snapshot",
			snap:          nil,
			expectedError: domain.ErrSessionNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/auth/validate" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				json.NewEncoder(w).Encode(tt.validateBody)
			})

			result, err := client.Resume(context.Background(), tt.snap)
			if tt.expectedError != nil {
				if !errors.Is(err, tt.expectedError) {
					t.Fatalf("expected %v, got %v", tt.expectedError, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.Token != "jwt-token" || result.User.ID != "user-1" {
				t.Errorf("unexpected result %+v", result)
			}
		})
	}
}

func TestClient_Refresh(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/refresh" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer old-token" {
			t.Errorf("missing bearer token, got %q", r.Header.Get("Authorization"))
		}
		json.NewEncoder(w).Encode(loginBody("new-token"))
	})

	result, err := client.Refresh(context.Background(), "old-token")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Token != "new-token" {
		t.Errorf("expected rotated token, got %q", result.Token)
	}
}

func TestClient_Refresh_Rejected(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.Refresh(context.Background(), "old-token")
	if !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestClient_DoAuthenticated_SingleRetry(t *testing.T) {
	var protectedCalls, refreshCalls int
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/refresh":
			refreshCalls++
			json.NewEncoder(w).Encode(loginBody("fresh-token"))
		case "/protected":
			protectedCalls++
			if r.Header.Get("Authorization") == "Bearer fresh-token" {
				json.NewEncoder(w).Encode(map[string]string{"ok": "yes"})
				return
			}
			w.WriteHeader(http.StatusUnauthorized)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	var out map[string]string
	refreshed, err := client.DoAuthenticated(context.Background(), http.MethodGet, "/protected", nil, &out, "stale-token")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if refreshed == nil || refreshed.Token != "fresh-token" {
		t.Fatalf("expected adopted token, got %+v", refreshed)
	}
	if out["ok"] != "yes" {
		t.Errorf("response not decoded: %v", out)
	}
	if protectedCalls != 2 || refreshCalls != 1 {
		t.Errorf("expected exactly one retry, got protected=%d refresh=%d", protectedCalls, refreshCalls)
	}
}

func TestClient_DoAuthenticated_RefreshFailureStops(t *testing.T) {
	var protectedCalls int
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/refresh":
			w.WriteHeader(http.StatusUnauthorized)
		case "/protected":
			protectedCalls++
			w.WriteHeader(http.StatusUnauthorized)
		}
	})

	_, err := client.DoAuthenticated(context.Background(), http.MethodGet, "/protected", nil, nil, "stale-token")
	if !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
	// The original request ran once; no retry without a fresh token.
	if protectedCalls != 1 {
		t.Errorf("expected 1 protected call, got %d", protectedCalls)
	}
}
