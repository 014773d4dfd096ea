package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/GTDGit/vendor_console/internal/utils"
)

// IPRateLimiter keeps one token bucket per client IP. Buckets not seen for
// entryTTL are evicted on the next lookup.
type IPRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	lastSeen map[string]time.Time
	limit    rate.Limit
	burst    int
	entryTTL time.Duration
	now      func() time.Time
}

func NewIPRateLimiter(limit rate.Limit, burst int, entryTTL time.Duration) *IPRateLimiter {
	return &IPRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		lastSeen: make(map[string]time.Time),
		limit:    limit,
		burst:    burst,
		entryTTL: entryTTL,
		now:      time.Now,
	}
}

func (l *IPRateLimiter) limiter(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for key, ts := range l.lastSeen {
		if now.Sub(ts) > l.entryTTL {
			delete(l.limiters, key)
			delete(l.lastSeen, key)
		}
	}

	if lim, ok := l.limiters[ip]; ok {
		l.lastSeen[ip] = now
		return lim
	}
	lim := rate.NewLimiter(l.limit, l.burst)
	l.limiters[ip] = lim
	l.lastSeen[ip] = now
	return lim
}

// Allow reports whether ip may make another request now.
func (l *IPRateLimiter) Allow(ip string) bool {
	return l.limiter(ip).Allow()
}

// Len returns the number of tracked IPs.
func (l *IPRateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

// RateLimit rejects requests over the per-IP budget with 429.
func RateLimit(l *IPRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !l.Allow(ip) {
			log.Warn().Str("ip", ip).Str("path", c.Request.URL.Path).Msg("Rate limit exceeded")
			utils.Error(c, 429, utils.ErrTooManyRequests.Error(), "Too many requests")
			c.Abort()
			return
		}
		c.Next()
	}
}

// LoginRateLimit allows perMinute login attempts per IP.
func LoginRateLimit(perMinute int) gin.HandlerFunc {
	return RateLimit(NewIPRateLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute, 10*time.Minute))
}

// MutationRateLimit allows perSecond vendor mutations per IP.
func MutationRateLimit(perSecond int) gin.HandlerFunc {
	return RateLimit(NewIPRateLimiter(rate.Limit(perSecond), perSecond, 10*time.Minute))
}
