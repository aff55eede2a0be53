// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmynk/splitfree/internal/allocator"
)

const namespace = "splitfree"

var (
	// RPCDuration tracks Connect handler latency by procedure and result code.
	RPCDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "rpc_duration_seconds",
		Help:      "Duration of Connect RPCs.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"procedure", "code"})

	// DraftValidations counts validation outcomes: valid, over_allocated, under_allocated.
	DraftValidations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "draft_validations_total",
		Help:      "Expense draft validations by outcome.",
	}, []string{"outcome"})

	// RemoteRequests counts calls to the remote SplitFree API by endpoint and status.
	RemoteRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "remote_requests_total",
		Help:      "Requests made to the remote SplitFree API.",
	}, []string{"endpoint", "status"})

	// RemoteBreakerOpen is 1 while the remote API circuit breaker is open.
	RemoteBreakerOpen = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "remote_breaker_open",
		Help:      "Whether the remote API circuit breaker is open.",
	})
)

// Outcome names a validation result for DraftValidations.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "valid"
	case errors.Is(err, allocator.ErrOverAllocated):
		return "over_allocated"
	case errors.Is(err, allocator.ErrUnderAllocated):
		return "under_allocated"
	default:
		return "invalid"
	}
}

// ObserveValidation records the outcome of a draft validation and returns err unchanged.
func ObserveValidation(err error) error {
	DraftValidations.WithLabelValues(Outcome(err)).Inc()
	return err
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
