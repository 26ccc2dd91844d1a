package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AyushS-03/IndieMentor-AI/domain"
	"github.com/AyushS-03/IndieMentor-AI/internal/http/middleware"
	"github.com/AyushS-03/IndieMentor-AI/internal/mocks"
	"github.com/AyushS-03/IndieMentor-AI/internal/services"
)

type authHarness struct {
	router  *gin.Engine
	backend *mocks.MockAuthBackend
	store   *mocks.MockSessionStore
}

func newAuthHarness(t *testing.T) *authHarness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	backend := mocks.NewMockAuthBackend(domain.ModeJWT)
	store := mocks.NewMockSessionStore()
	manager := services.NewSessionManager(
		[]domain.AuthBackend{backend}, store, mocks.NewMockTokenDecoder(), nil, nil, 30*time.Minute,
	)
	sessionMW := middleware.NewSessionMW(manager)
	h := NewAuthHandlers()

	router := gin.New()
	auth := router.Group("/auth", sessionMW.WithSession())
	auth.POST("/login", h.Login)
	auth.POST("/register", h.Register)
	auth.POST("/logout", h.Logout)
	auth.GET("/me", h.Me)

	return &authHarness{router: router, backend: backend, store: store}
}

func (h *authHarness) do(method, path, sessionID string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if sessionID != "" {
		req.Header.Set(middleware.SessionHeader, sessionID)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func TestAuthHandlers_Login(t *testing.T) {
	t.Run("successful login returns the normalized user", func(t *testing.T) {
		h := newAuthHarness(t)
		h.backend.LoginFunc = func(ctx context.Context, creds domain.Credentials) (*domain.AuthResult, error) {
			return &domain.AuthResult{
				User:  &domain.User{ID: "user-1", Email: creds.Email, Name: "Sarah", Role: "creator", IsCreator: true},
				Token: "token-1",
				Mode:  domain.ModeJWT,
			}, nil
		}

		w := h.do("POST", "/auth/login", "s-1", gin.H{"email": "sarah@example.com", "password": "password123"})

		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Data struct {
				User map[string]interface{} `json:"user"`
				Mode string                 `json:"mode"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "user-1", resp.Data.User["id"])
		assert.Equal(t, true, resp.Data.User["is_creator"])
		assert.Equal(t, "jwt", resp.Data.Mode)
		assert.NotNil(t, h.store.Stored("s-1"))
	})

	t.Run("rejected credentials answer 401", func(t *testing.T) {
		h := newAuthHarness(t)

		w := h.do("POST", "/auth/login", "s-1", gin.H{"email": "sarah@example.com", "password": "wrong"})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid credentials")
	})

	t.Run("malformed body answers 400", func(t *testing.T) {
		h := newAuthHarness(t)

		w := h.do("POST", "/auth/login", "s-1", gin.H{"email": "not-an-email"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAuthHandlers_Register(t *testing.T) {
	t.Run("duplicate registration answers 409", func(t *testing.T) {
		h := newAuthHarness(t)
		h.backend.RegisterFunc = func(ctx context.Context, reg domain.Registration) (*domain.AuthResult, error) {
			return nil, domain.ErrUserAlreadyExists
		}

		w := h.do("POST", "/auth/register", "s-1", gin.H{
			"name": "Sarah", "email": "sarah@example.com", "password": "password123",
		})

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("no backend accepting registrations answers 502", func(t *testing.T) {
		h := newAuthHarness(t)

		w := h.do("POST", "/auth/register", "s-1", gin.H{
			"name": "Sarah", "email": "sarah@example.com", "password": "password123",
		})

		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}

func TestAuthHandlers_SessionFlow(t *testing.T) {
	h := newAuthHarness(t)
	h.backend.LoginFunc = func(ctx context.Context, creds domain.Credentials) (*domain.AuthResult, error) {
		return &domain.AuthResult{
			User:  &domain.User{ID: "user-1", Email: creds.Email, Role: "user"},
			Token: "token-1",
			Mode:  domain.ModeJWT,
		}, nil
	}

	// Anonymous session has no identity.
	w := h.do("GET", "/auth/me", "s-flow", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = h.do("POST", "/auth/login", "s-flow", gin.H{"email": "sarah@example.com", "password": "password123"})
	require.Equal(t, http.StatusOK, w.Code)

	w = h.do("GET", "/auth/me", "s-flow", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = h.do("POST", "/auth/logout", "s-flow", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, h.store.Stored("s-flow"))

	// Logout is idempotent.
	w = h.do("POST", "/auth/logout", "s-flow", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = h.do("GET", "/auth/me", "s-flow", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
