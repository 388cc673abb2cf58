package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// HTTPMetrics holds server-side HTTP instruments.
type HTTPMetrics struct {
	requests metric.Int64Counter
	duration metric.Float64Histogram
}

// NewHTTPMetrics configures the HTTP instruments.
func NewHTTPMetrics(cfg Config, provider metric.MeterProvider) (*HTTPMetrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "rentora"
	}
	meter := provider.Meter(name)

	requests, err := meter.Int64Counter("http_server_requests_total")
	if err != nil {
		return nil, err
	}
	duration, err := meter.Float64Histogram("http_server_duration_ms")
	if err != nil {
		return nil, err
	}

	return &HTTPMetrics{requests: requests, duration: duration}, nil
}

// GinMiddleware records request counts and latency per route.
func GinMiddleware(m *HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		attrs := metric.WithAttributes(
			attribute.String("http.method", c.Request.Method),
			attribute.String("http.route", route),
			attribute.String("status_code", strconv.Itoa(c.Writer.Status())),
		)

		ctx := c.Request.Context()
		m.requests.Add(ctx, 1, attrs)
		m.duration.Record(ctx, float64(time.Since(start).Milliseconds()), attrs)
	}
}
