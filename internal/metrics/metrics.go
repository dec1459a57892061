// Package metrics exposes Prometheus instruments for storefront calls and account flows.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcomes recorded for storefront requests and account submissions.
const (
	OutcomeOK        = "ok"
	OutcomeTransport = "transport_error"
	OutcomeSchema    = "schema_error"
	OutcomeDomain    = "user_error"
	OutcomeInvalid   = "invalid_form"
)

// Recorder groups the module's instruments. A nil *Recorder records nothing.
type Recorder struct {
	requests    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	submissions *prometheus.CounterVec
}

// New creates the instruments and registers them with reg.
func New(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_requests_total",
			Help: "Storefront GraphQL requests by operation and transport outcome.",
		}, []string{"operation", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "storefront_request_duration_seconds",
			Help:    "Storefront GraphQL request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "account_submissions_total",
			Help: "Account form submissions by flow and interpreted outcome.",
		}, []string{"flow", "outcome"}),
	}
	if reg != nil {
		reg.MustRegister(r.requests, r.duration, r.submissions)
	}
	return r
}

// Request records one storefront round trip.
func (r *Recorder) Request(operation, outcome string, d time.Duration) {
	if r == nil {
		return
	}
	r.requests.WithLabelValues(operation, outcome).Inc()
	r.duration.WithLabelValues(operation).Observe(d.Seconds())
}

// Submission records the interpreted outcome of an account flow.
func (r *Recorder) Submission(flow, outcome string) {
	if r == nil {
		return
	}
	r.submissions.WithLabelValues(flow, outcome).Inc()
}
