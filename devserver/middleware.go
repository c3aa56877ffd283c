package devserver

import (
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
)

// Option configures NewRouter.
type Option func(*routerOptions)

type routerOptions struct {
	logger *log.Logger
	limit  int
	window time.Duration
	now    func() time.Time
}

// WithLogger logs every request through l.
func WithLogger(l *log.Logger) Option {
	return func(o *routerOptions) { o.logger = l }
}

// WithRateLimit allows each client IP at most n requests per window.
// n <= 0 disables the limit.
func WithRateLimit(n int, window time.Duration) Option {
	return func(o *routerOptions) {
		o.limit = n
		o.window = window
	}
}

func requestLogger(l *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency", time.Since(start),
			"ip", c.ClientIP(),
		}
		switch {
		case status >= http.StatusInternalServerError:
			l.Error("request", fields...)
		case status >= http.StatusBadRequest:
			l.Warn("request", fields...)
		default:
			l.Info("request", fields...)
		}
	}
}

// ipLimiter is a sliding window of request times per client IP.
type ipLimiter struct {
	mu     sync.Mutex
	max    int
	window time.Duration
	now    func() time.Time
	seen   map[string][]time.Time
}

func newIPLimiter(n int, window time.Duration, now func() time.Time) *ipLimiter {
	return &ipLimiter{max: n, window: window, now: now, seen: make(map[string][]time.Time)}
}

func (l *ipLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)
	kept := l.seen[ip][:0]
	for _, t := range l.seen[ip] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	if len(kept) >= l.max {
		l.seen[ip] = kept
		return false
	}
	l.seen[ip] = append(kept, now)
	return true
}

func (l *ipLimiter) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.allow(c.ClientIP()) {
			abort(c, http.StatusTooManyRequests, "rate limit exceeded, try again later")
			return
		}
		c.Next()
	}
}
