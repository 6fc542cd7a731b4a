package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/debnit/MsmeBazaar-sub003/internal/infrastructure/monitoring/logging"
)

// RequestLogger logs one structured line per request after it completes.
func RequestLogger(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		fields := []logging.Field{
			logging.String("method", c.Request.Method),
			logging.String("path", path),
			logging.Int("status", c.Writer.Status()),
			logging.Duration("duration", time.Since(start)),
			logging.String("client_ip", c.ClientIP()),
			logging.String("request_id", c.GetString(requestIDKey)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, logging.String("errors", c.Errors.String()))
		}

		switch {
		case c.Writer.Status() >= 500:
			logger.Error("request failed", fields...)
		case c.Writer.Status() >= 400:
			logger.Warn("request rejected", fields...)
		default:
			logger.Info("request served", fields...)
		}
	}
}

// HTTPMetrics records request counts and latencies per route.
type HTTPMetrics interface {
	IncCounter(name string, labels map[string]string)
	ObserveHistogram(name string, value float64, labels map[string]string)
}

// Metrics instruments every request with a counter and a duration histogram
// labeled by route template and status class.
func Metrics(collector HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		labels := map[string]string{
			"route":  route,
			"method": c.Request.Method,
			"status": statusClass(c.Writer.Status()),
		}
		collector.IncCounter("http_requests_total", labels)
		collector.ObserveHistogram("http_request_duration_seconds", time.Since(start).Seconds(), labels)
	}
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
