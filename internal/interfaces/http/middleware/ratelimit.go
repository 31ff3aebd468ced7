package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/billing/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// RateLimiter implements a fixed-window in-memory rate limiter keyed by client IP.
// It protects the credential endpoints against brute force.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*rateLimitClient
	limit   int
	window  time.Duration
}

type rateLimitClient struct {
	count     int
	lastReset time.Time
}

// NewRateLimiter creates a rate limiter allowing limit requests per window
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string]*rateLimitClient),
		limit:   limit,
		window:  window,
	}
	go rl.cleanup()
	return rl
}

// cleanup removes idle clients periodically
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(rl.window * 2)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for key, c := range rl.clients {
			if now.Sub(c.lastReset) > rl.window*2 {
				delete(rl.clients, key)
			}
		}
		rl.mu.Unlock()
	}
}

// Allow reports whether a request from the given key is within the limit
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	c, ok := rl.clients[key]
	if !ok || now.Sub(c.lastReset) >= rl.window {
		rl.clients[key] = &rateLimitClient{count: 1, lastReset: now}
		return true
	}

	if c.count >= rl.limit {
		return false
	}
	c.count++
	return true
}

// Middleware returns a gin middleware enforcing the rate limit per client IP
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				dto.NewErrorResponse("RATE_LIMITED", "Too many requests, try again later"))
			return
		}
		c.Next()
	}
}
