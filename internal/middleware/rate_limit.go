package middleware

import (
	"sync"
	"time"

	"go-vacation/internal/shared/apperror"
	"go-vacation/internal/shared/response"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const limiterIdleTTL = 10 * time.Minute

type keyedLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// KeyedRateLimiter holds one token bucket per key (ip or user id).
// Buckets idle for longer than limiterIdleTTL are dropped on the next sweep.
type KeyedRateLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*keyedLimiter
	r         rate.Limit // request per detik
	b         int        // burst
	lastSweep time.Time
	now       func() time.Time
}

func NewKeyedRateLimiter(r rate.Limit, b int) *KeyedRateLimiter {
	return &KeyedRateLimiter{
		buckets: make(map[string]*keyedLimiter),
		r:       r,
		b:       b,
		now:     time.Now,
	}
}

// Allow consumes one token from key's bucket.
func (l *KeyedRateLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if l.lastSweep.IsZero() {
		l.lastSweep = now
	}
	if now.Sub(l.lastSweep) > limiterIdleTTL {
		for k, e := range l.buckets {
			if now.Sub(e.lastSeen) > limiterIdleTTL {
				delete(l.buckets, k)
			}
		}
		l.lastSweep = now
	}

	e, ok := l.buckets[key]
	if !ok {
		e = &keyedLimiter{limiter: rate.NewLimiter(l.r, l.b)}
		l.buckets[key] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}

func (l *KeyedRateLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

func rateLimit(limiter *KeyedRateLimiter, key func(*gin.Context) string, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		k := key(c)
		if k == "" {
			c.Next()
			return
		}
		if !limiter.Allow(k) {
			response.Error(c, apperror.ErrTooManyRequests.HTTPStatus, apperror.ErrTooManyRequests.Code, message, nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

func RateLimitByIP(r rate.Limit, b int) gin.HandlerFunc {
	return rateLimit(NewKeyedRateLimiter(r, b), func(c *gin.Context) string {
		return c.ClientIP()
	}, "Too many requests from this IP")
}

// RateLimitByUser: r = request per detik, b = burst.
// Anonymous requests pass; AuthMiddleware rejects them.
func RateLimitByUser(r rate.Limit, b int) gin.HandlerFunc {
	return rateLimit(NewKeyedRateLimiter(r, b), func(c *gin.Context) string {
		return c.GetString("user_id")
	}, "Too many requests from this user")
}
