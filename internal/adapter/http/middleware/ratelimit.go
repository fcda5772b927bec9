package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"quotation_service/pkg"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// WindowCounter counts hits on key inside a fixed window.
type WindowCounter interface {
	Hit(ctx context.Context, key string, window time.Duration) (int64, error)
}

type RateLimiter struct {
	counter WindowCounter
	limit   int64
	window  time.Duration
	log     logrus.FieldLogger
}

func NewRateLimiter(counter WindowCounter, limit int64, window time.Duration, logger logrus.FieldLogger) *RateLimiter {
	return &RateLimiter{
		counter: counter,
		limit:   limit,
		window:  window,
		log:     logger,
	}
}

// Middleware limits each client IP to limit requests per window on the routes
// it guards. Counter failures let the request through.
func (rl *RateLimiter) Middleware(scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("ratelimit:%s:%s", scope, c.ClientIP())

		count, err := rl.counter.Hit(c.Request.Context(), key, rl.window)
		if err != nil {
			rl.log.WithFields(logrus.Fields{"key": key, "error": err.Error()}).Warn("rate limiter unavailable; allowing request")
			c.Next()
			return
		}

		if count > rl.limit {
			seconds := int(rl.window.Seconds())
			c.Header("Retry-After", strconv.Itoa(seconds))
			abortWith(c, pkg.NewDomainErrorSimple(
				"RATE_LIMITED",
				fmt.Sprintf("Rate limit exceeded. Try again in %d seconds", seconds),
				http.StatusTooManyRequests,
			))
			return
		}
		c.Next()
	}
}
