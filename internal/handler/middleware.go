package handler

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const limiterIdleTTL = 5 * time.Minute

// APIKeyAuth returns a Gin middleware that enforces X-API-Key header validation.
// If key is empty, the middleware is a no-op (auth disabled).
func APIKeyAuth(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key == "" {
			c.Next()
			return
		}
		provided := strings.TrimSpace(c.GetHeader("X-API-Key"))
		if provided == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing X-API-Key header"})
			return
		}
		if provided != key {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "invalid API key"})
			return
		}
		c.Next()
	}
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type clientLimiters struct {
	mu       sync.Mutex
	limiters map[string]*clientLimiter
	every    time.Duration
	burst    int
	now      func() time.Time
}

// ClientRateLimit allows perMinute requests per client IP, with a burst of
// the same size. perMinute <= 0 disables limiting.
func ClientRateLimit(perMinute int) gin.HandlerFunc {
	if perMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	cl := &clientLimiters{
		limiters: make(map[string]*clientLimiter),
		every:    time.Minute / time.Duration(perMinute),
		burst:    perMinute,
		now:      time.Now,
	}
	return cl.middleware
}

func (cl *clientLimiters) get(ip string) *rate.Limiter {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	now := cl.now()
	for key, l := range cl.limiters {
		if now.Sub(l.lastSeen) > limiterIdleTTL {
			delete(cl.limiters, key)
		}
	}
	if l, ok := cl.limiters[ip]; ok {
		l.lastSeen = now
		return l.limiter
	}
	l := &clientLimiter{limiter: rate.NewLimiter(rate.Every(cl.every), cl.burst), lastSeen: now}
	cl.limiters[ip] = l
	return l.limiter
}

func (cl *clientLimiters) middleware(c *gin.Context) {
	if !cl.get(c.ClientIP()).Allow() {
		retryAfter := max(int(cl.every/time.Second), 1)
		c.Header("Retry-After", strconv.Itoa(retryAfter))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
		return
	}
	c.Next()
}
