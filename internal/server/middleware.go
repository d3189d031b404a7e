package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/stocksim/stocksim/models"
)

// requestLogger logs one line per request with method, path, status and
// latency.
func requestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}

// rateLimiter rejects requests above the configured per-second rate
// with 429. Burst is twice the rate to absorb short spikes.
func rateLimiter(requestsPerSec int) gin.HandlerFunc {
	if requestsPerSec <= 0 {
		requestsPerSec = 20
	}
	limiter := rate.NewLimiter(rate.Limit(requestsPerSec), requestsPerSec*2)
	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, models.Response{
				Status: models.StatusError,
				Error:  "rate limit exceeded",
			})
			return
		}
		c.Next()
	}
}
