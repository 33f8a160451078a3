package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type rateLimiter struct {
	ips   map[string]*rate.Limiter
	mu    sync.Mutex
	rate  rate.Limit
	burst int
}

func (rl *rateLimiter) limiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if l, ok := rl.ips[ip]; ok {
		return l
	}
	l := rate.NewLimiter(rl.rate, rl.burst)
	rl.ips[ip] = l
	return l
}

// RateLimit caps requests per client IP. The OTP endpoints run behind a
// tighter instance of this than the rest of the API.
func RateLimit(r rate.Limit, burst int) gin.HandlerFunc {
	rl := &rateLimiter{
		ips:   make(map[string]*rate.Limiter),
		rate:  r,
		burst: burst,
	}
	return func(c *gin.Context) {
		if !rl.limiter(c.ClientIP()).Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// DefaultRateLimit is the general API limit.
func DefaultRateLimit() gin.HandlerFunc {
	return RateLimit(rate.Every(time.Minute/300), 100)
}

// OTPRateLimit throttles the login endpoints.
func OTPRateLimit() gin.HandlerFunc {
	return RateLimit(rate.Every(time.Minute/10), 5)
}
