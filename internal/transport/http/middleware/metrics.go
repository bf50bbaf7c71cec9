package middleware

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var histogramBuckets = []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10}

type httpMetrics struct {
	requestTotal   *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
}

var (
	metricsOnce sync.Once
	metrics     httpMetrics
)

func initMetrics(registerer prometheus.Registerer) {
	metricsOnce.Do(func() {
		metrics.requestTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "excel_analytics",
			Subsystem: "api",
			Name:      "http_requests_total",
			Help:      "Count of processed HTTP requests",
		}, []string{"method", "route", "status"})

		metrics.requestLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "excel_analytics",
			Subsystem: "api",
			Name:      "http_request_duration_seconds",
			Help:      "Latency distribution of HTTP handlers",
			Buckets:   histogramBuckets,
		}, []string{"method", "route", "status"})

		if err := registerer.Register(metrics.requestTotal); err != nil {
			if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
				if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
					metrics.requestTotal = existing
				}
			}
		}
		if err := registerer.Register(metrics.requestLatency); err != nil {
			if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
				if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
					metrics.requestLatency = existing
				}
			}
		}
	})
}

// Metrics records request count and latency per route on the default registry.
func Metrics() gin.HandlerFunc {
	initMetrics(prometheus.DefaultRegisterer)
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		labels := prometheus.Labels{
			"method": c.Request.Method,
			"route":  route,
			"status": strconv.Itoa(c.Writer.Status()),
		}
		metrics.requestTotal.With(labels).Inc()
		metrics.requestLatency.With(labels).Observe(time.Since(start).Seconds())
	}
}
