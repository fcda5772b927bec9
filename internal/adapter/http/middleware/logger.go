package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const DefaultSlowRequestThreshold = 200 * time.Millisecond

// RequestLogger logs every request with its latency and warns on slow ones.
func RequestLogger(logger logrus.FieldLogger, slow time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)
		entry := logger.WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency_ms": latency.Milliseconds(),
			"client_ip":  c.ClientIP(),
		})
		if slow > 0 && latency > slow {
			entry.Warn("slow request")
			return
		}
		entry.Info("request")
	}
}
