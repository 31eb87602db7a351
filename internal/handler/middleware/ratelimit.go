package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"easyrent/internal/handler/httperr"
	"easyrent/internal/pkg/config"
	"easyrent/internal/pkg/errs"

	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"
)

const maxTrackedClients = 10000

var errRateLimited = errs.New("rate limit exceeded")

// RateLimiter keeps one token bucket per client IP. Buckets of idle clients
// are evicted once maxTrackedClients is reached.
type RateLimiter struct {
	limiters *lru.Cache[string, *rate.Limiter]
	limit    rate.Limit
	burst    int
}

func NewRateLimiter(cfg config.RateLimitConfig) *RateLimiter {
	perMinute := cfg.AvailabilityPerMinute
	if perMinute <= 0 {
		perMinute = 120
	}
	burst := cfg.AvailabilityBurst
	if burst <= 0 {
		burst = 1
	}
	// lru.New only fails on a non-positive size
	cache, _ := lru.New[string, *rate.Limiter](maxTrackedClients)
	return &RateLimiter{
		limiters: cache,
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    burst,
	}
}

func (r *RateLimiter) limiter(ip string) *rate.Limiter {
	if l, ok := r.limiters.Get(ip); ok {
		return l
	}
	l := rate.NewLimiter(r.limit, r.burst)
	if prev, ok, _ := r.limiters.PeekOrAdd(ip, l); ok {
		return prev
	}
	return l
}

func (r *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !r.limiter(ip).Allow() {
			slog.Warn("Rate limit exceeded", slog.String("ip", ip), slog.String("path", c.Request.URL.Path))
			httperr.AbortWithError(c, http.StatusTooManyRequests, errRateLimited, "Too many requests", nil)
			return
		}
		c.Next()
	}
}
