package middleware

import (
	"net/http"

	"github.com/casbin/casbin/v2"
	"github.com/gin-gonic/gin"

	"github.com/AyushS-03/IndieMentor-AI/internal/config"
)

// CasbinMiddleware defines the interface for Casbin authorization middleware
type CasbinMiddleware interface {
	Enforce() gin.HandlerFunc
}

// CasbinMW enforces role policies on parameterized routes, with optional
// ownership rules constraining a path parameter to the caller's own id.
// Roles are namespaced with a "role_" prefix in the policy store.
type CasbinMW struct {
	enforcer *casbin.Enforcer
	rules    []config.OwnershipRule
}

// NewCasbinMW creates a new CasbinMW instance
func NewCasbinMW(enforcer *casbin.Enforcer, rules []config.OwnershipRule) *CasbinMW {
	return &CasbinMW{enforcer: enforcer, rules: rules}
}

// Enforce returns the Casbin authorization middleware
func (mw *CasbinMW) Enforce() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, userExists := c.Get("user_id")
		userRole, roleExists := c.Get("user_role")
		if !userExists || !roleExists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User identity not found in context"})
			c.Abort()
			return
		}

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		method := c.Request.Method
		casbinRole := "role_" + userRole.(string)

		allowed, err := mw.enforcer.Enforce(casbinRole, path, method)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Authorization check failed"})
			c.Abort()
			return
		}
		if !allowed {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			c.Abort()
			return
		}

		if !mw.ownershipSatisfied(c, path, method, userID.(string), userRole.(string)) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied", "details": "Resource does not belong to caller"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// ownershipSatisfied checks the configured ownership rules for this route.
// Admins bypass ownership; everyone else must address their own resource.
func (mw *CasbinMW) ownershipSatisfied(c *gin.Context, path, method, userID, role string) bool {
	if role == "admin" {
		return true
	}
	for _, rule := range mw.rules {
		if rule.Method != method || rule.Path != path {
			continue
		}
		if ownedValue(c, rule) != userID {
			return false
		}
	}
	return true
}

// ownedValue extracts the identifier the rule constrains. The source names
// where the id lives in the request; path params are the default.
func ownedValue(c *gin.Context, rule config.OwnershipRule) string {
	if rule.Source == "query" {
		return c.Query(rule.ParamName)
	}
	return c.Param(rule.ParamName)
}
