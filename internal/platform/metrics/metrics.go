// Package metrics registers the Prometheus metrics for the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application. The TRL check
// latency histogram lives with the redis revocation store.
type Metrics struct {
	UsersCreated       prometheus.Counter
	LoginAttempts      *prometheus.CounterVec
	TokensIssued       *prometheus.CounterVec
	TokensRevoked      prometheus.Counter
	ValidationFailures prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		UsersCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "authgate_users_created_total",
			Help: "Total number of users created in the system",
		}),
		LoginAttempts: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "authgate_login_attempts_total",
			Help: "Login attempts by outcome",
		}, []string{"outcome"}),
		TokensIssued: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "authgate_tokens_issued_total",
			Help: "Tokens issued by type",
		}, []string{"type"}),
		TokensRevoked: promauto.NewCounter(prometheus.CounterOpts{
			Name: "authgate_tokens_revoked_total",
			Help: "Tokens added to the revocation list",
		}),
		ValidationFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "authgate_token_validation_failures_total",
			Help: "Access token validations that were rejected",
		}),
	}
}

// ObserveLogin records a login attempt outcome ("success" or "failure").
func (m *Metrics) ObserveLogin(outcome string) {
	m.LoginAttempts.WithLabelValues(outcome).Inc()
}

// ObserveTokenIssued records an issued token by type ("access" or "refresh").
func (m *Metrics) ObserveTokenIssued(tokenType string) {
	m.TokensIssued.WithLabelValues(tokenType).Inc()
}
