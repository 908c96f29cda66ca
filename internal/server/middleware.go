package server

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/renato0307/ktopo/internal/logging"
	"github.com/renato0307/ktopo/internal/metrics"
)

// requestLogger logs every request through the ktopo logger and counts it
func requestLogger(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		code := c.Writer.Status()
		m.ObserveRequest(route, c.Request.Method, strconv.Itoa(code))

		args := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", code,
			"duration", time.Since(start).String(),
		}
		if len(c.Errors) > 0 {
			args = append(args, "errors", c.Errors.String())
		}
		switch {
		case code >= 500:
			logging.Error("request", args...)
		case code >= 400:
			logging.Warn("request", args...)
		default:
			logging.Debug("request", args...)
		}
	}
}
