package middleware

import (
	"net/http"
	"net/netip"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/tutorhub/internal/metrics"
	"github.com/xxxsen/tutorhub/internal/pkg/errcode"
	"github.com/xxxsen/tutorhub/internal/pkg/response"
)

const rateLimitCacheSize = 10000

type rateWindow struct {
	count int
	reset time.Time
}

type rateLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	trusted []netip.Prefix
	windows *expirable.LRU[string, rateWindow]
	now     func() time.Time
}

// RateLimit allows limit requests per client address and route within a
// fixed window. Forwarding headers are honoured only when the peer is one of
// trustedProxies.
func RateLimit(limit int, window time.Duration, trustedProxies []netip.Prefix) gin.HandlerFunc {
	return newRateLimiter(limit, window, trustedProxies).handle
}

func newRateLimiter(limit int, window time.Duration, trustedProxies []netip.Prefix) *rateLimiter {
	return &rateLimiter{
		limit:   limit,
		window:  window,
		trusted: trustedProxies,
		windows: expirable.NewLRU[string, rateWindow](rateLimitCacheSize, nil, window),
		now:     time.Now,
	}
}

func (l *rateLimiter) handle(c *gin.Context) {
	if l.limit <= 0 || l.window <= 0 {
		c.Next()
		return
	}
	ip := clientAddress(c, l.trusted)
	path := c.FullPath()
	if path == "" {
		path = c.Request.URL.Path
	}
	key := strings.Join([]string{ip, path}, "|")

	if !l.allow(key) {
		metrics.RateLimitedTotal.WithLabelValues(path).Inc()
		logutil.GetLogger(c.Request.Context()).Warn("rate limit hit",
			zap.String("ip", ip),
			zap.String("path", path),
		)
		response.Error(c, http.StatusTooManyRequests, errcode.ErrTooMany, "too many requests, please try again later")
		c.Abort()
		return
	}
	c.Next()
}

func (l *rateLimiter) allow(key string) bool {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()
	entry, ok := l.windows.Get(key)
	if !ok || !now.Before(entry.reset) {
		entry = rateWindow{reset: now.Add(l.window)}
	}
	if entry.count >= l.limit {
		return false
	}
	entry.count++
	l.windows.Add(key, entry)
	return true
}
