package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"symptom-checker-server/internal/logger"
	"symptom-checker-server/internal/metrics"
	"symptom-checker-server/internal/ratelimit"
	"symptom-checker-server/internal/utils"
)

const throttledMessage = "Too many search requests. Please slow down."

// DebounceSearch rejects free-text searches that arrive faster than the
// limiter allows for the calling client. Requests without a search term
// pass straight through. If the limiter itself fails the request is let
// through rather than blocking search.
func DebounceSearch(limiter ratelimit.Limiter, m *metrics.Metrics, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.TrimSpace(c.Query("search")) == "" {
			c.Next()
			return
		}

		key := c.ClientIP()
		if key == "" {
			key = "anonymous"
		}

		allowed, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			log.Warn("Search limiter unavailable", "client", key, "error", err)
			c.Next()
			return
		}
		if !allowed {
			m.RecordSearchThrottled()
			utils.TooManyRequests(c, throttledMessage)
			c.Abort()
			return
		}
		c.Next()
	}
}
