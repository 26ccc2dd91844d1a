package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AyushS-03/IndieMentor-AI/internal/services"
)

// SessionHeader carries the opaque session key. A client without one gets a
// fresh key echoed back on the response.
const SessionHeader = "X-Session-ID"

// SessionMW attaches the per-session resolver to the request context. Every
// route runs behind it; RequireAuth additionally rejects the demo resting
// state.
type SessionMW struct {
	manager *services.SessionManager
}

// NewSessionMW creates session middleware over the resolver registry.
func NewSessionMW(manager *services.SessionManager) *SessionMW {
	return &SessionMW{manager: manager}
}

// WithSession resolves the session key into a live resolver, resuming a
// stored session on first sight.
func (mw *SessionMW) WithSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader(SessionHeader)
		if sessionID == "" {
			sessionID = mw.manager.NewSessionID()
		}
		c.Header(SessionHeader, sessionID)

		resolver, err := mw.manager.Resolver(c.Request.Context(), sessionID)
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Session store unavailable"})
			c.Abort()
			return
		}

		c.Set("session_id", sessionID)
		c.Set("resolver", resolver)
		c.Next()
	}
}

// RequireAuth rejects requests whose session has no signed-in user. The
// resolved identity is exposed to downstream handlers and the authorization
// layer.
func (mw *SessionMW) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		resolver := ResolverFrom(c)
		if resolver == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "No session"})
			c.Abort()
			return
		}

		user := resolver.User()
		if user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}

		c.Set("user_id", user.ID)
		c.Set("user_role", user.Role)
		c.Next()
	}
}

// ResolverFrom extracts the session resolver placed by WithSession, nil when
// the middleware did not run.
func ResolverFrom(c *gin.Context) *services.SessionResolver {
	value, exists := c.Get("resolver")
	if !exists {
		return nil
	}
	resolver, ok := value.(*services.SessionResolver)
	if !ok {
		return nil
	}
	return resolver
}
