// Package metrics exposes prometheus collectors for the tideline API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BuildInfo = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "tideline_build_info",
		Help: "Build information of the tideline binary.",
	}, []string{"version"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tideline_http_requests_total",
		Help: "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tideline_http_request_duration_seconds",
		Help:    "HTTP request latency by method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	LayoutClusters = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "tideline_layout_clusters",
		Help:    "Clusters per composed layout frame.",
		Buckets: prometheus.ExponentialBuckets(1, 2, 10),
	})

	ArchiveEntries = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tideline_archive_entries",
		Help: "Entries in the archive at the last read.",
	})

	AnthropicRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tideline_anthropic_requests_total",
		Help: "Anthropic API requests by endpoint and outcome.",
	}, []string{"endpoint", "status"})

	AnthropicRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tideline_anthropic_request_duration_seconds",
		Help:    "Anthropic API latency by endpoint.",
		Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60},
	}, []string{"endpoint"})

	AnthropicTokensTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tideline_anthropic_tokens_total",
		Help: "Anthropic tokens by direction.",
	}, []string{"direction"})
)

// Middleware records request counts and latency keyed by the chi route
// pattern, so /api/entries/{id} is one series however many IDs are hit.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// RecordAnthropicRequest counts one Anthropic call.
func RecordAnthropicRequest(endpoint string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	AnthropicRequestsTotal.WithLabelValues(endpoint, status).Inc()
	AnthropicRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordAnthropicTokens adds token usage from one response.
func RecordAnthropicTokens(input, output int64) {
	AnthropicTokensTotal.WithLabelValues("input").Add(float64(input))
	AnthropicTokensTotal.WithLabelValues("output").Add(float64(output))
}
