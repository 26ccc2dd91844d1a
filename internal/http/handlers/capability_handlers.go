package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AyushS-03/IndieMentor-AI/internal/http/middleware"
)

// CapabilityHandlers answers capability queries about the current session so
// other services can authorize without decoding tokens themselves.
type CapabilityHandlers struct{}

// NewCapabilityHandlers creates new capability handlers
func NewCapabilityHandlers() *CapabilityHandlers {
	return &CapabilityHandlers{}
}

// CapabilityCheckRequest asks whether the session holds a permission or role
type CapabilityCheckRequest struct {
	Permission string `json:"permission"`
	Role       string `json:"role"`
}

// Check evaluates a single permission or role query against the session's
// user. Logged-out sessions answer false rather than erroring.
func (h *CapabilityHandlers) Check(c *gin.Context) {
	var req CapabilityCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resolver := middleware.ResolverFrom(c)
	if resolver == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Session not initialized"})
		return
	}

	allowed := true
	if req.Permission != "" {
		allowed = allowed && resolver.HasPermission(req.Permission)
	}
	if req.Role != "" {
		allowed = allowed && resolver.HasRole(req.Role)
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{"allowed": allowed},
	})
}

// Capabilities returns the full capability snapshot of the session
func (h *CapabilityHandlers) Capabilities(c *gin.Context) {
	resolver := middleware.ResolverFrom(c)
	if resolver == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Session not initialized"})
		return
	}

	data := gin.H{
		"is_authenticated": resolver.IsAuthenticated(),
		"is_admin":         resolver.IsAdmin(),
		"is_premium":       resolver.IsPremium(),
		"mode":             resolver.Mode(),
	}
	if user := resolver.User(); user != nil {
		data["role"] = user.Role
		data["permissions"] = user.Permissions
	}

	c.JSON(http.StatusOK, gin.H{"data": data})
}

// Health reports liveness for upstream proxies
func (h *CapabilityHandlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
