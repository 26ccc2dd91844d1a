package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AyushS-03/IndieMentor-AI/internal/config"
)

// createTestEnforcer builds an enforcer with the same matcher the service
// ships with.
func createTestEnforcer(t *testing.T) *casbin.Enforcer {
	t.Helper()
	modelText := `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && keyMatch(r.obj, p.obj) && regexMatch(r.act, p.act)
`
	m, err := model.NewModelFromString(modelText)
	require.NoError(t, err)
	e, err := casbin.NewEnforcer(m)
	require.NoError(t, err)
	return e
}

func TestCasbinMW_Enforce(t *testing.T) {
	gin.SetMode(gin.TestMode)

	ownershipRules := []config.OwnershipRule{
		{Method: "PUT", Path: "/profiles/:id", Source: "param", ParamName: "id"},
		{Method: "GET", Path: "/exports", Source: "query", ParamName: "userId"},
	}

	tests := []struct {
		name           string
		setupEnforcer  func(e *casbin.Enforcer)
		setupContext   func(c *gin.Context)
		method         string
		target         string
		route          string
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "missing identity",
			setupEnforcer:  func(e *casbin.Enforcer) {},
			setupContext:   func(c *gin.Context) {},
			method:         "GET",
			target:         "/subscriptions",
			route:          "/subscriptions",
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "User identity not found in context",
		},
		{
			name:          "no policy denies",
			setupEnforcer: func(e *casbin.Enforcer) {},
			setupContext: func(c *gin.Context) {
				c.Set("user_id", "user-1")
				c.Set("user_role", "user")
			},
			method:         "GET",
			target:         "/subscriptions",
			route:          "/subscriptions",
			expectedStatus: http.StatusForbidden,
			expectedBody:   "Access denied",
		},
		{
			name: "policy match allows",
			setupEnforcer: func(e *casbin.Enforcer) {
				e.AddPolicy("role_user", "/subscriptions", "GET")
			},
			setupContext: func(c *gin.Context) {
				c.Set("user_id", "user-1")
				c.Set("user_role", "user")
			},
			method:         "GET",
			target:         "/subscriptions",
			route:          "/subscriptions",
			expectedStatus: http.StatusOK,
		},
		{
			name: "wildcard policy covers admin surface",
			setupEnforcer: func(e *casbin.Enforcer) {
				e.AddPolicy("role_admin", "/admin/*", "(GET)|(POST)|(DELETE)")
			},
			setupContext: func(c *gin.Context) {
				c.Set("user_id", "admin-1")
				c.Set("user_role", "admin")
			},
			method:         "POST",
			target:         "/admin/policies",
			route:          "/admin/policies",
			expectedStatus: http.StatusOK,
		},
		{
			name: "ownership rule passes for own resource",
			setupEnforcer: func(e *casbin.Enforcer) {
				e.AddPolicy("role_user", "/profiles/:id", "PUT")
			},
			setupContext: func(c *gin.Context) {
				c.Set("user_id", "user-1")
				c.Set("user_role", "user")
			},
			method:         "PUT",
			target:         "/profiles/user-1",
			route:          "/profiles/:id",
			expectedStatus: http.StatusOK,
		},
		{
			name: "ownership rule rejects another user's resource",
			setupEnforcer: func(e *casbin.Enforcer) {
				e.AddPolicy("role_user", "/profiles/:id", "PUT")
			},
			setupContext: func(c *gin.Context) {
				c.Set("user_id", "user-1")
				c.Set("user_role", "user")
			},
			method:         "PUT",
			target:         "/profiles/user-2",
			route:          "/profiles/:id",
			expectedStatus: http.StatusForbidden,
			expectedBody:   "Resource does not belong to caller",
		},
		{
			name: "query-sourced ownership rule passes for own id",
			setupEnforcer: func(e *casbin.Enforcer) {
				e.AddPolicy("role_user", "/exports", "GET")
			},
			setupContext: func(c *gin.Context) {
				c.Set("user_id", "user-1")
				c.Set("user_role", "user")
			},
			method:         "GET",
			target:         "/exports?userId=user-1",
			route:          "/exports",
			expectedStatus: http.StatusOK,
		},
		{
			name: "query-sourced ownership rule rejects another id",
			setupEnforcer: func(e *casbin.Enforcer) {
				e.AddPolicy("role_user", "/exports", "GET")
			},
			setupContext: func(c *gin.Context) {
				c.Set("user_id", "user-1")
				c.Set("user_role", "user")
			},
			method:         "GET",
			target:         "/exports?userId=user-2",
			route:          "/exports",
			expectedStatus: http.StatusForbidden,
			expectedBody:   "Resource does not belong to caller",
		},
		{
			name: "admin bypasses ownership",
			setupEnforcer: func(e *casbin.Enforcer) {
				e.AddPolicy("role_admin", "/profiles/:id", "PUT")
			},
			setupContext: func(c *gin.Context) {
				c.Set("user_id", "admin-1")
				c.Set("user_role", "admin")
			},
			method:         "PUT",
			target:         "/profiles/user-2",
			route:          "/profiles/:id",
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enforcer := createTestEnforcer(t)
			tt.setupEnforcer(enforcer)
			mw := NewCasbinMW(enforcer, ownershipRules)

			router := gin.New()
			router.Handle(tt.method, tt.route, func(c *gin.Context) {
				tt.setupContext(c)
				c.Next()
			}, mw.Enforce(), func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"ok": true})
			})

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(tt.method, tt.target, nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedBody != "" {
				assert.Contains(t, w.Body.String(), tt.expectedBody)
			}
		})
	}
}
