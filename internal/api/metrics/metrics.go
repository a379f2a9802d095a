// Package metrics defines the Prometheus collectors for the auth service.
// All collectors register with the default registry at package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "auth"

// Outcome label used for every successful operation. Failures use the error
// kind from apierror (e.g. "incorrect_password", "expired_token").
const OutcomeSuccess = "success"

// RegistrationsTotal counts registration attempts.
// Label:
//   - outcome: "success" or an error kind such as "username_in_use"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by outcome.",
	},
	[]string{"outcome"},
)

// LoginsTotal counts login attempts. Unknown user and wrong password stay
// separate here even though clients see the same response.
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by outcome.",
	},
	[]string{"outcome"},
)

// TokenResolutionsTotal counts bearer token resolutions in the middleware.
var TokenResolutionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_resolutions_total",
		Help:      "Total number of bearer token resolutions, by outcome.",
	},
	[]string{"outcome"},
)

// RejectionsTotal counts requests rejected through the error handler.
// Labels:
//   - kind: error kind
//   - class: "caller", "integrity" or "internal"
var RejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rejections_total",
		Help:      "Total number of rejected requests, by error kind and class.",
	},
	[]string{"kind", "class"},
)

// PasswordHashDuration measures hash derivation and verification time.
var PasswordHashDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "password_hash_duration_seconds",
		Help:      "Time spent deriving or verifying password hashes.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
	},
	[]string{"operation"},
)
