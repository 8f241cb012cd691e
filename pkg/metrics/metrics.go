// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "bonus_tma"

// Redemption outcomes used as the result label.
const (
	ResultSuccess             = "success"
	ResultServiceUnavailable  = "service_unavailable"
	ResultAlreadyPurchased    = "already_purchased"
	ResultInsufficientBalance = "insufficient_balance"
	ResultError               = "error"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "route"},
	)

	redemptions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "redemptions_total",
			Help:      "Redemption attempts by outcome.",
		},
		[]string{"result"},
	)

	pointsRedeemed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "redeemed_points_total",
			Help:      "Bonus points spent on successful redemptions.",
		},
	)

	bonusCredited = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bonus_credited_points_total",
			Help:      "Bonus points credited by admins, split by direction.",
		},
		[]string{"direction"},
	)

	authFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "failures_total",
			Help:      "Rejected init data by reason.",
		},
		[]string{"reason"},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		redemptions,
		pointsRedeemed,
		bonusCredited,
		authFailures,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RequestStarted increments the in-flight gauge and returns its matching decrement.
func RequestStarted() func() {
	httpInFlight.Inc()
	return httpInFlight.Dec
}

// ObserveHTTP records one finished request. route should be a pattern, not a raw path.
func ObserveHTTP(method, route string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordRedemption counts a redemption attempt; price is added on success.
func RecordRedemption(result string, price int64) {
	redemptions.WithLabelValues(result).Inc()
	if result == ResultSuccess && price > 0 {
		pointsRedeemed.Add(float64(price))
	}
}

// RecordCredit counts credited points; corrections are tracked separately.
func RecordCredit(amount int64) {
	switch {
	case amount > 0:
		bonusCredited.WithLabelValues("credit").Add(float64(amount))
	case amount < 0:
		bonusCredited.WithLabelValues("debit").Add(float64(-amount))
	}
}

// RecordAuthFailure counts a rejected init data payload.
func RecordAuthFailure(reason string) {
	authFailures.WithLabelValues(reason).Inc()
}
