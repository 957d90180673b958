// Package middleware contains the Gin middleware shared by the HTTP layer.
//
// This file holds the Prometheus instrumentation. Every label is bounded:
// method, the registered route pattern ("unmatched" when none), the status
// code, the name of the error classifier, or a middleware rejection code.
package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// unmatchedPath is the route label for requests no route matched.
const unmatchedPath = "unmatched"

type httpMetrics struct {
	requests   *prometheus.CounterVec
	latency    *prometheus.HistogramVec
	inflight   prometheus.Gauge
	respSize   *prometheus.HistogramVec
	apiErrors  *prometheus.CounterVec
	rejections *prometheus.CounterVec
}

func newHTTPMetrics(reg prometheus.Registerer) *httpMetrics {
	f := promauto.With(reg)
	return &httpMetrics{
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "path", "status"}),
		latency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: []float64{.002, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"method", "path"}),
		inflight: f.NewGauge(prometheus.GaugeOpts{
			Name: "http_requests_inflight",
			Help: "HTTP requests currently being served.",
		}),
		respSize: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_response_size_bytes",
			Help:    "HTTP response body size by method and route.",
			Buckets: prometheus.ExponentialBuckets(256, 4, 8), // 256B..4MiB
		}, []string{"method", "path"}),
		apiErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "api_errors_total",
			Help: "Error responses by the classifier that produced them.",
		}, []string{"classifier"}),
		rejections: f.NewCounterVec(prometheus.CounterOpts{
			Name: "http_rejections_total",
			Help: "Requests answered by middleware before reaching a handler, by error code.",
		}, []string{"code"}),
	}
}

var defaultMetrics = newHTTPMetrics(prometheus.DefaultRegisterer)

// ObserveAPIError increments api_errors_total for the named classifier.
func ObserveAPIError(classifier string) {
	defaultMetrics.apiErrors.WithLabelValues(classifier).Inc()
}

// Metrics instruments every request on the default registry. Mount
// promhttp.Handler() next to it to expose the result.
func Metrics() gin.HandlerFunc {
	return defaultMetrics.handler()
}

func (m *httpMetrics) handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		m.inflight.Inc()
		defer m.inflight.Dec()

		c.Next()

		method, path := c.Request.Method, routeLabel(c)
		m.requests.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
		m.latency.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
		// Size is -1 when no body was written.
		if size := c.Writer.Size(); size >= 0 {
			m.respSize.WithLabelValues(method, path).Observe(float64(size))
		}
	}
}
