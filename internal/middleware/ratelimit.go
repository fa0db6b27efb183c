package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/farmwise/backend/pkg/response"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter keeps one token bucket per client IP and forgets idle IPs after ttl.
type IPRateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	ttl      time.Duration
	now      func() time.Time
}

// NewIPRateLimiter allows reqPerMin requests per minute per IP with the given burst.
func NewIPRateLimiter(reqPerMin, burst int, ttl time.Duration) *IPRateLimiter {
	return &IPRateLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(float64(reqPerMin) / 60.0),
		burst:    burst,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Allow consumes a token for ip.
func (rl *IPRateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	v, ok := rl.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.visitors[ip] = v
	}
	v.lastSeen = rl.now()
	rl.mu.Unlock()
	return v.limiter.Allow()
}

// Sweep drops visitors idle longer than ttl and returns how many were removed.
func (rl *IPRateLimiter) Sweep() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	n := 0
	for ip, v := range rl.visitors {
		if rl.now().Sub(v.lastSeen) > rl.ttl {
			delete(rl.visitors, ip)
			n++
		}
	}
	return n
}

// RunSweeper calls Sweep every minute until done is closed.
func (rl *IPRateLimiter) RunSweeper(done <-chan struct{}) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			rl.Sweep()
		}
	}
}

// RateLimit rejects requests over the per-IP budget with 429.
func RateLimit(rl *IPRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.Allow(c.ClientIP()) {
			response.TooManyRequests(c, "too many requests, try again shortly")
			c.Abort()
			return
		}
		c.Next()
	}
}
