// Package metrics exposes Prometheus instrumentation for the skinmatch service.
package metrics

import (
	"context"
	"math"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skinmatch_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "skinmatch_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	ProductsScored = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "skinmatch_products_scored_total",
			Help: "Total number of product match computations",
		},
	)

	RoutineSteps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skinmatch_routine_steps_total",
			Help: "Routine steps assembled, by frequency classification",
		},
		[]string{"frequency"},
	)

	CatalogFetchErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skinmatch_catalog_fetch_errors_total",
			Help: "Failed catalog loads, by source",
		},
		[]string{"source"},
	)
)

// RecordHTTPRequest records one finished request.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ProfileCounter reports how many profiles a store holds.
type ProfileCounter interface {
	Count(ctx context.Context) (int, error)
}

// NewStoredProfilesGauge returns skinmatch_stored_profiles, sampled from store
// on every scrape. A failed count reports NaN. The caller registers it.
func NewStoredProfilesGauge(store ProfileCounter) prometheus.GaugeFunc {
	return prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "skinmatch_stored_profiles",
			Help: "Number of live profiles in the profile store",
		},
		func() float64 {
			n, err := store.Count(context.Background())
			if err != nil {
				return math.NaN()
			}
			return float64(n)
		},
	)
}
