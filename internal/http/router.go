package httpx

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AyushS-03/IndieMentor-AI/internal/http/handlers"
	"github.com/AyushS-03/IndieMentor-AI/internal/http/middleware"
)

// BuildRouter wires all routes. Every route runs behind the session
// middleware; protected groups add authentication and Casbin enforcement.
func BuildRouter(
	ah *handlers.AuthHandlers,
	mh *handlers.MentorHandlers,
	ch *handlers.ChatHandlers,
	caph *handlers.CapabilityHandlers,
	ph *handlers.PolicyHandlers,
	sessionMW *middleware.SessionMW,
	cb middleware.CasbinMiddleware,
	registry *prometheus.Registry,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })
	if registry != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	}

	// Capability endpoints for sidecar authorization checks
	authz := r.Group("/authz").Use(sessionMW.WithSession())
	authz.POST("/check", caph.Check)
	authz.GET("/capabilities", caph.Capabilities)
	r.GET("/authz/health", caph.Health)

	auth := r.Group("/auth").Use(sessionMW.WithSession())
	auth.POST("/register", ah.Register)
	auth.POST("/login", ah.Login)
	auth.POST("/logout", ah.Logout)
	auth.GET("/me", ah.Me)

	// Public catalog
	r.GET("/mentors", mh.List)
	r.GET("/mentors/:id", mh.Get)

	v := r.Group("/").Use(sessionMW.WithSession(), sessionMW.RequireAuth(), cb.Enforce())
	v.PUT("/profiles/:id", ah.UpdateProfile)
	v.POST("/mentors", mh.Create)
	v.PUT("/mentors/:id", mh.Update)
	v.DELETE("/mentors/:id", mh.Delete)
	v.GET("/creator/mentors", mh.ListMine)
	v.POST("/mentors/:id/subscribe", mh.Subscribe)
	v.GET("/subscriptions", mh.ListSubscriptions)
	v.GET("/mentors/:id/conversation", ch.GetConversation)
	v.POST("/mentors/:id/messages", ch.SendMessage)
	v.GET("/conversations", ch.ListConversations)
	v.GET("/users/:id/conversations", ch.ListConversations)

	adm := r.Group("/admin").Use(sessionMW.WithSession(), sessionMW.RequireAuth(), cb.Enforce())
	adm.GET("/policies", ph.List)
	adm.POST("/policies", ph.Add)
	adm.DELETE("/policies", ph.Remove)

	return r
}
