package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "credential_service"

var (
	SignupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "signups_total",
			Help:      "Total number of signups",
		},
		[]string{"status"}, // success, event_failed
	)

	SigninAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "signin_attempts_total",
			Help:      "Total number of signin attempts",
		},
		[]string{"status"}, // success, invalid_credentials
	)

	TokenRenewTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "token_renew_total",
			Help:      "Total number of refresh token renewals",
		},
		[]string{"status"}, // success, reused
	)
)

// ObserveAudit counts a credential-service audit action. Unknown actions are ignored.
func ObserveAudit(action string) {
	switch action {
	case "signup":
		SignupsTotal.WithLabelValues("success").Inc()
	case "signup_event_failed":
		SignupsTotal.WithLabelValues("event_failed").Inc()
	case "signin":
		SigninAttemptsTotal.WithLabelValues("success").Inc()
	case "signin_failed":
		SigninAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
	case "refresh":
		TokenRenewTotal.WithLabelValues("success").Inc()
	case "refresh_reused":
		TokenRenewTotal.WithLabelValues("reused").Inc()
	}
}
