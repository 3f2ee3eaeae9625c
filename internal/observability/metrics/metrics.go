// Package metrics exposes the Prometheus collectors for the service. All
// series carry the lawhelp_ prefix so dashboards can scope to this app.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "lawhelp"

// Recorder bundles the collectors the services and HTTP layer report into.
// It is injected rather than reached for globally so tests can register
// against their own registry.
type Recorder struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	RegistrationsTotal     prometheus.Counter
	LoginsTotal            *prometheus.CounterVec
	TwoFactorChallenges    *prometheus.CounterVec
	VerificationCodeIssued *prometheus.CounterVec
}

// New registers the collectors on reg and returns the recorder. Pass
// prometheus.DefaultRegisterer in production.
func New(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)

	return &Recorder{
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests processed, by method, route and status code.",
		}, []string{"method", "route", "status"}),

		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds, by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),

		RegistrationsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_registrations_total",
			Help:      "Accounts created.",
		}),

		LoginsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_logins_total",
			Help:      "Login attempts, by outcome (success, failure, challenge).",
		}, []string{"outcome"}),

		TwoFactorChallenges: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "twofactor_challenges_total",
			Help:      "Second-factor challenge completions, by method and outcome.",
		}, []string{"method", "outcome"}),

		VerificationCodeIssued: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "verification_codes_issued_total",
			Help:      "One-time codes issued, by type.",
		}, []string{"type"}),
	}
}

// Login outcomes.
const (
	OutcomeSuccess   = "success"
	OutcomeFailure   = "failure"
	OutcomeChallenge = "challenge"
)
