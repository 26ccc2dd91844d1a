package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the service counters. Constructed once and injected so tests
// can register against their own registry.
type Metrics struct {
	LoginAttempts   *prometheus.CounterVec
	TokenRefreshes  *prometheus.CounterVec
	ChatCompletions *prometheus.CounterVec
}

// New registers the counters against the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		LoginAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "indiementor_login_attempts_total",
			Help: "Login attempts by backend and result.",
		}, []string{"backend", "result"}),
		TokenRefreshes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "indiementor_token_refreshes_total",
			Help: "Scheduled token refreshes by result.",
		}, []string{"result"}),
		ChatCompletions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "indiementor_chat_completions_total",
			Help: "Chat completion calls by result.",
		}, []string{"result"}),
	}
}

// NewDefault registers against the default prometheus registry.
func NewDefault() *Metrics {
	return New(prometheus.DefaultRegisterer)
}
