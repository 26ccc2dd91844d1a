package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AyushS-03/IndieMentor-AI/domain"
	"github.com/AyushS-03/IndieMentor-AI/internal/http/middleware"
)

// AuthHandlers exposes the session resolver over HTTP. The resolver itself is
// attached to the request by the session middleware; handlers only translate
// between JSON and resolver calls.
type AuthHandlers struct{}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers() *AuthHandlers {
	return &AuthHandlers{}
}

// RegisterRequest represents registration request
type RegisterRequest struct {
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	IsCreator bool   `json:"is_creator"`
}

// LoginRequest represents login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ProfileUpdateRequest represents a profile update request
type ProfileUpdateRequest struct {
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

// Login handles user login through the backend cascade
func (h *AuthHandlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resolver := middleware.ResolverFrom(c)
	if resolver == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Session not initialized"})
		return
	}

	user, err := resolver.Login(c.Request.Context(), domain.Credentials{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrLoginInFlight):
			c.JSON(http.StatusConflict, gin.H{"error": "Login already in progress"})
		case errors.Is(err, domain.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		case errors.Is(err, domain.ErrUserInactive):
			c.JSON(http.StatusForbidden, gin.H{"error": "Account is inactive"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"user": userJSON(user),
			"mode": resolver.Mode(),
		},
	})
}

// Register handles user registration through the backend cascade
func (h *AuthHandlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resolver := middleware.ResolverFrom(c)
	if resolver == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Session not initialized"})
		return
	}

	user, err := resolver.Register(c.Request.Context(), domain.Registration{
		Name:      req.Name,
		Email:     req.Email,
		Password:  req.Password,
		IsCreator: req.IsCreator,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrLoginInFlight):
			c.JSON(http.StatusConflict, gin.H{"error": "Another attempt is in progress"})
		case errors.Is(err, domain.ErrUserAlreadyExists):
			c.JSON(http.StatusConflict, gin.H{"error": "User already exists"})
		case errors.Is(err, domain.ErrBackendUnavailable):
			c.JSON(http.StatusBadGateway, gin.H{"error": "Registration backends unavailable"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register user"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"data": gin.H{
			"user": userJSON(user),
			"mode": resolver.Mode(),
		},
	})
}

// Logout handles user logout. Always succeeds; the session settles on the
// logged-out resting state regardless of backend errors.
func (h *AuthHandlers) Logout(c *gin.Context) {
	resolver := middleware.ResolverFrom(c)
	if resolver == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Session not initialized"})
		return
	}

	_ = resolver.Logout(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{"message": "Logged out successfully"},
	})
}

// Me returns the current session's user and auth mode
func (h *AuthHandlers) Me(c *gin.Context) {
	resolver := middleware.ResolverFrom(c)
	if resolver == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Session not initialized"})
		return
	}

	user := resolver.User()
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"user": userJSON(user),
			"mode": resolver.Mode(),
		},
	})
}

// UpdateProfile applies name and avatar changes to the current session's user
func (h *AuthHandlers) UpdateProfile(c *gin.Context) {
	var req ProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resolver := middleware.ResolverFrom(c)
	if resolver == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Session not initialized"})
		return
	}

	user, err := resolver.UpdateProfile(c.Request.Context(), req.Name, req.AvatarURL)
	if err != nil {
		if errors.Is(err, domain.ErrNotAuthenticated) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{"user": userJSON(user)},
	})
}

func userJSON(user *domain.User) gin.H {
	return gin.H{
		"id":                user.ID,
		"email":             user.Email,
		"name":              user.Name,
		"avatar_url":        user.AvatarURL,
		"is_creator":        user.IsCreator,
		"role":              user.Role,
		"role_id":           user.RoleID,
		"subscription_tier": user.SubscriptionTier,
		"permissions":       user.Permissions,
	}
}
