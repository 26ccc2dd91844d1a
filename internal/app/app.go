package app

import (
	"context"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	"github.com/AyushS-03/IndieMentor-AI/domain"
	"github.com/AyushS-03/IndieMentor-AI/internal/config"
	httpx "github.com/AyushS-03/IndieMentor-AI/internal/http"
	"github.com/AyushS-03/IndieMentor-AI/internal/http/handlers"
	"github.com/AyushS-03/IndieMentor-AI/internal/http/middleware"
	"github.com/AyushS-03/IndieMentor-AI/internal/infrastructure/ai"
	"github.com/AyushS-03/IndieMentor-AI/internal/infrastructure/auth"
	"github.com/AyushS-03/IndieMentor-AI/internal/infrastructure/backends/demo"
	"github.com/AyushS-03/IndieMentor-AI/internal/infrastructure/backends/hosted"
	"github.com/AyushS-03/IndieMentor-AI/internal/infrastructure/backends/jwtapi"
	"github.com/AyushS-03/IndieMentor-AI/internal/infrastructure/database"
	"github.com/AyushS-03/IndieMentor-AI/internal/infrastructure/repositories"
	"github.com/AyushS-03/IndieMentor-AI/internal/logging"
	"github.com/AyushS-03/IndieMentor-AI/internal/metrics"
	"github.com/AyushS-03/IndieMentor-AI/internal/services"
)

// subscriptionTTL is how long a mentor subscription grants access.
const subscriptionTTL = 30 * 24 * time.Hour

// Run wires the whole service and blocks serving HTTP.
func Run(cfg *config.Config) error {
	logger := logging.New(cfg.Env)
	gin.SetMode(cfg.GinMode)

	gdb, err := dialPostgres(cfg.DSN, logger)
	if err != nil {
		return err
	}
	if err := database.AutoMigrate(gdb); err != nil {
		return err
	}

	rdb, err := dialRedis(cfg, logger)
	if err != nil {
		return err
	}

	cas, err := auth.NewCasbinService(gdb, cfg.CasbinModelPath)
	if err != nil {
		return err
	}

	passwordSvc := auth.NewPasswordService()
	decoder := auth.NewClaimDecoder()
	audit := logging.NewAuditLogger(logger)
	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	profileRepo := repositories.NewProfileRepository(gdb)
	mentorRepo := repositories.NewMentorRepository(gdb)
	subscriptionRepo := repositories.NewSubscriptionRepository(gdb)
	conversationRepo := repositories.NewConversationRepository(gdb)
	sessionStore := repositories.NewSessionStore(rdb.Client, cfg.SessionTTL)

	demoBackend, err := demo.New(passwordSvc)
	if err != nil {
		return err
	}
	backends := []domain.AuthBackend{
		jwtapi.New(cfg.JWTBackendURL, cfg.JWTBackendTimeout),
		hosted.New(cfg.HostedAuthURL, cfg.HostedAnonKey, cfg.HostedTimeout, cfg.LoginTimeout, profileRepo, audit),
		demoBackend,
	}

	completer := buildCompleter(cfg, logger)

	sessionManager := services.NewSessionManager(backends, sessionStore, decoder, audit, m, cfg.RefreshLead)
	defer sessionManager.Close()
	mentorSvc := services.NewMentorService(mentorRepo, subscriptionRepo, subscriptionTTL)
	chatSvc := services.NewChatService(conversationRepo, mentorRepo, completer, audit, m)
	policySvc := services.NewPolicyService(cas.E)

	authH := handlers.NewAuthHandlers()
	mentorH := handlers.NewMentorHandlers(mentorSvc)
	chatH := handlers.NewChatHandlers(chatSvc, mentorSvc)
	capH := handlers.NewCapabilityHandlers()
	polH := handlers.NewPolicyHandlers(policySvc)

	sessionMW := middleware.NewSessionMW(sessionManager)
	casbinMW := middleware.NewCasbinMW(cas.E, cfg.OwnershipRules)

	r := httpx.BuildRouter(authH, mentorH, chatH, capH, polH, sessionMW, casbinMW, registry)

	seedPolicies(cas, logger)

	addr := ":" + cfg.Port
	logger.Info().Str("addr", addr).Msg("listening")
	return http.ListenAndServe(addr, r)
}

// dialPostgres opens the hosted store, retrying with exponential backoff so a
// slow database start does not kill the service.
func dialPostgres(dsn string, logger logging.Logger) (*gorm.DB, error) {
	var gdb *gorm.DB
	op := func() error {
		var err error
		gdb, err = database.Open(dsn)
		if err != nil {
			logger.Warn().Err(err).Msg("postgres not ready, retrying")
		}
		return err
	}
	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5)
	if err := backoff.Retry(op, policy); err != nil {
		return nil, err
	}
	return gdb, nil
}

func dialRedis(cfg *config.Config, logger logging.Logger) (*database.RedisClient, error) {
	rdb := database.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	op := func() error {
		err := rdb.Ping(context.Background())
		if err != nil {
			logger.Warn().Err(err).Msg("redis not ready, retrying")
		}
		return err
	}
	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5)
	if err := backoff.Retry(op, policy); err != nil {
		return nil, err
	}
	return rdb, nil
}

// buildCompleter returns the real completion client when an API key is
// configured and the canned responder otherwise.
func buildCompleter(cfg *config.Config, logger logging.Logger) domain.ChatCompleter {
	if cfg.ChatAPIKey == "" {
		logger.Warn().Msg("no chat API key configured, using canned responses")
		return ai.NewCannedResponder()
	}
	completer, err := ai.NewGroqClient(cfg.ChatAPIKey, cfg.ChatBaseURL, cfg.ChatModel, cfg.ChatTemperature, cfg.ChatMaxTokens)
	if err != nil {
		logger.Warn().Err(err).Msg("completion client failed to initialize, using canned responses")
		return ai.NewCannedResponder()
	}
	return completer
}

// seedPolicies installs the default role policies on an empty store.
func seedPolicies(cas *auth.CasbinService, logger logging.Logger) {
	policies, _ := cas.E.GetPolicy()
	if len(policies) > 0 {
		return
	}
	cas.E.AddPolicy("role_admin", "/admin/*", "(GET|POST|PUT|DELETE)")
	cas.E.AddPolicy("role_admin", "/*", "(GET|POST|PUT|DELETE)")
	cas.E.AddPolicy("role_creator", "/mentors", "POST")
	cas.E.AddPolicy("role_creator", "/mentors/:id", "(PUT|DELETE)")
	cas.E.AddPolicy("role_creator", "/creator/mentors", "GET")
	for _, role := range []string{"role_user", "role_creator"} {
		cas.E.AddPolicy(role, "/profiles/:id", "PUT")
		cas.E.AddPolicy(role, "/mentors/:id/subscribe", "POST")
		cas.E.AddPolicy(role, "/subscriptions", "GET")
		cas.E.AddPolicy(role, "/mentors/:id/conversation", "GET")
		cas.E.AddPolicy(role, "/mentors/:id/messages", "POST")
		cas.E.AddPolicy(role, "/conversations", "GET")
		cas.E.AddPolicy(role, "/users/:id/conversations", "GET")
	}
	_ = cas.E.SavePolicy()
	logger.Info().Msg("casbin: seeded default policies")
}
