package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// limiterIdleTTL is how long an IP's bucket survives without traffic
// before the sweep drops it, keeping the map bounded.
const limiterIdleTTL = 10 * time.Minute

type ipLimiter struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

type ipLimiters struct {
	mu       sync.Mutex
	limiters map[string]*ipLimiter
	limit    rate.Limit
	burst    int
}

func newIPLimiters(rps float64, burst int) *ipLimiters {
	return &ipLimiters{
		limiters: make(map[string]*ipLimiter),
		limit:    rate.Limit(rps),
		burst:    burst,
	}
}

func (l *ipLimiters) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.limiters[ip]
	if !ok {
		e = &ipLimiter{lim: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[ip] = e
	}
	e.lastSeen = time.Now()
	return e.lim
}

func (l *ipLimiters) evictIdle(cutoff time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for ip, e := range l.limiters {
		if e.lastSeen.Before(cutoff) {
			delete(l.limiters, ip)
		}
	}
}

func (l *ipLimiters) sweep(interval time.Duration) {
	for range time.Tick(interval) {
		l.evictIdle(time.Now().Add(-interval))
	}
}

// RateLimit applies a per-IP token bucket. Buckets idle past
// limiterIdleTTL are evicted.
func RateLimit(rps float64, burst int) gin.HandlerFunc {
	limiters := newIPLimiters(rps, burst)
	go limiters.sweep(limiterIdleTTL)
	return func(c *gin.Context) {
		if !limiters.get(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}
