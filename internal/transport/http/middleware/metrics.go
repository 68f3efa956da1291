package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	resp "storefront/internal/transport/http/response"
)

var (
	// Every response is HTTP 200, so outcomes are counted by envelope code.
	apiCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "storefront_http_requests_total", Help: "API calls by route, envelope code and caller role"},
		[]string{"path", "method", "code", "role"},
	)
	apiLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storefront_http_request_duration_seconds",
			Help:    "API call latency by route",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"path", "method"},
	)
)

func init() { prometheus.MustRegister(apiCalls, apiLatency) }

func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		code := c.Writer.Status()
		if v, ok := c.Get(resp.KeyCode); ok {
			code, _ = v.(int)
		}
		role := c.GetString(KeyRole)
		if role == "" {
			role = "anonymous"
		}
		apiCalls.WithLabelValues(path, c.Request.Method, strconv.Itoa(code), role).Inc()
		apiLatency.WithLabelValues(path, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}
