package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/cppla/folio/utils"
)

const limiterIdle = 5 * time.Minute

type visitor struct {
	limiter *rate.Limiter
	expires time.Time
}

// IPRateLimiter keeps one token bucket per client IP.
type IPRateLimiter struct {
	limit rate.Limit
	burst int

	mu       sync.Mutex
	visitors map[string]*visitor
	now      func() time.Time
}

// NewIPRateLimiter allows perMinute requests per IP with a burst of half that.
func NewIPRateLimiter(perMinute int) *IPRateLimiter {
	perMinute = max(perMinute, 1)
	return &IPRateLimiter{
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    max(perMinute/2, 1),
		visitors: map[string]*visitor{},
		now:      time.Now,
	}
}

// Allow consumes one token for key.
func (l *IPRateLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for k, v := range l.visitors {
		if now.After(v.expires) {
			delete(l.visitors, k)
		}
	}
	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[key] = v
	}
	v.expires = now.Add(limiterIdle)
	return v.limiter.AllowN(now, 1)
}

// Middleware rejects requests over the limit with 429.
func (l *IPRateLimiter) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if !l.Allow(ctx.ClientIP()) {
			utils.Error(ctx, http.StatusTooManyRequests, 42901, "rate limit exceeded")
			return
		}
		ctx.Next()
	}
}

// RateLimitMiddleware is a per-IP token bucket of perMinute requests.
func RateLimitMiddleware(perMinute int) gin.HandlerFunc {
	return NewIPRateLimiter(perMinute).Middleware()
}
