package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/suprema-shop/auth-service/internal/dto"
	"github.com/suprema-shop/auth-service/internal/service"
)

// RateLimitMiddleware throttles per client IP. A limiter backend failure
// lets the request through rather than locking everyone out.
func RateLimitMiddleware(rateLimiter *service.RateLimiter, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, err := rateLimiter.Allow(c.Request.Context(), c.ClientIP(), limit, window)
		if err != nil {
			c.Next()
			return
		}

		if !allowed {
			c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.ErrorResponse{
				Error:   "TooManyRequests",
				Message: "Too many requests from this IP, please try again later",
			})
			return
		}

		c.Next()
	}
}
