// Package metrics exposes service-level Prometheus counters for the
// submission path. These are operational metrics, not the dashboard's
// response analytics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Submission outcomes, used as the "outcome" label value.
const (
	OutcomeAccepted    = "accepted"
	OutcomeInvalid     = "rejected_validation"
	OutcomeRateLimited = "rate_limited"
	OutcomeForbidden   = "forbidden"
	OutcomeDuplicate   = "duplicate"
	OutcomeNotFound    = "not_found"
	OutcomeTooLarge    = "too_large"
	OutcomeBadRequest  = "bad_request"
	OutcomeError       = "error"
)

var Submissions = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "formhive",
	Name:      "submissions_total",
	Help:      "Submission attempts by outcome.",
}, []string{"outcome"})

// Handler serves the /metrics scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
