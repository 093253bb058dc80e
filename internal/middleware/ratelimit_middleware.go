package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/GTDGit/market_api/internal/utils"
)

// FailedLoginLimiter throttles credential guessing. Every 401 answered on the
// guarded route spends one token of the caller IP; an IP without tokens left
// gets 429 before its credentials are checked.
type FailedLoginLimiter struct {
	mu       sync.Mutex
	limiters map[string]*ipLimiter
	every    time.Duration
	burst    int
}

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewFailedLoginLimiter allows burst failed attempts per IP, refilled one per every.
func NewFailedLoginLimiter(every time.Duration, burst int) *FailedLoginLimiter {
	l := &FailedLoginLimiter{
		limiters: make(map[string]*ipLimiter),
		every:    every,
		burst:    burst,
	}
	go l.cleanup()
	return l
}

func (l *FailedLoginLimiter) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	entry, ok := l.limiters[ip]
	if !ok {
		entry = &ipLimiter{limiter: rate.NewLimiter(rate.Every(l.every), l.burst)}
		l.limiters[ip] = entry
	}
	entry.lastSeen = time.Now()
	return entry.limiter
}

// Handle returns the Gin middleware guarding a login route.
func (l *FailedLoginLimiter) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		lim := l.get(c.ClientIP())
		if lim.Tokens() < 1 {
			utils.Error(c, http.StatusTooManyRequests, "TOO_MANY_REQUESTS", "Too many failed login attempts")
			c.Abort()
			return
		}

		c.Next()

		if c.Writer.Status() == http.StatusUnauthorized {
			lim.Allow()
		}
	}
}

func (l *FailedLoginLimiter) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	for range ticker.C {
		l.mu.Lock()
		idle := l.every * time.Duration(l.burst)
		for ip, entry := range l.limiters {
			if time.Since(entry.lastSeen) > idle {
				delete(l.limiters, ip)
			}
		}
		l.mu.Unlock()
	}
}
