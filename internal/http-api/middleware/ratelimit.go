package middleware

import (
	"net/http"

	"basurahub/internal/ratelimit"

	"github.com/gin-gonic/gin"
)

// LoginRateLimit throttles credential endpoints per client IP to slow down
// brute-force attempts.
func LoginRateLimit(limiter ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "too many attempts, please try again later",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
