package http

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"golang.org/x/time/rate"

	"github.com/mrlokans/library-catalog/internal/api"
)

const (
	// RequestIDHeader carries the request id in both directions.
	RequestIDHeader = "X-Request-ID"

	contextKeyRequestID = "request_id"
)

// RequestIDMiddleware reuses an incoming X-Request-ID or assigns a new one.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(contextKeyRequestID, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// RequestID returns the id assigned by RequestIDMiddleware, or "".
func RequestID(c *gin.Context) string {
	return c.GetString(contextKeyRequestID)
}

// AccessLogMiddleware logs one line per request.
func AccessLogMiddleware(logger hclog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		c.Next()

		status := c.Writer.Status()
		args := []any{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"latency", time.Since(start),
			"ip", c.ClientIP(),
			"request_id", RequestID(c),
		}
		switch {
		case status >= http.StatusInternalServerError:
			logger.Error("request", args...)
		case status >= http.StatusBadRequest:
			logger.Warn("request", args...)
		default:
			logger.Info("request", args...)
		}
	}
}

// TimeoutMiddleware gives every request context a deadline. Store calls
// take the request context, so a hung query is cancelled when it passes.
func TimeoutMiddleware(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if timeout <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

const (
	defaultLimiterIdleTTL   = 10 * time.Minute
	defaultLimiterSweepTick = time.Minute
)

// IPRateLimiter manages per-IP rate limiting. Limiters of IPs that have been
// quiet for idleTTL are swept in the background.
type IPRateLimiter struct {
	limiters sync.Map // ip -> *ipLimiter
	rate     rate.Limit
	burst    int
	idleTTL  time.Duration

	stopSweep chan struct{}
	stopOnce  sync.Once
}

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64 // unix nanoseconds
}

// NewIPRateLimiter creates a new IP-based rate limiter and starts its
// sweeper. Call Stop when done.
func NewIPRateLimiter(r rate.Limit, burst int) *IPRateLimiter {
	if burst < 1 {
		burst = 1
	}
	l := &IPRateLimiter{
		rate:      r,
		burst:     burst,
		idleTTL:   defaultLimiterIdleTTL,
		stopSweep: make(chan struct{}),
	}
	go l.sweepLoop(defaultLimiterSweepTick)
	return l
}

// GetLimiter returns the rate limiter for a given IP.
func (l *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	entry, ok := l.limiters.Load(ip)
	if !ok {
		entry, _ = l.limiters.LoadOrStore(ip, &ipLimiter{limiter: rate.NewLimiter(l.rate, l.burst)})
	}
	e := entry.(*ipLimiter)
	e.lastSeen.Store(time.Now().UnixNano())
	return e.limiter
}

// Stop stops the sweeper. Safe to call more than once.
func (l *IPRateLimiter) Stop() {
	l.stopOnce.Do(func() { close(l.stopSweep) })
}

func (l *IPRateLimiter) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			l.sweep(now)
		case <-l.stopSweep:
			return
		}
	}
}

// sweep drops limiters not used within idleTTL of now.
func (l *IPRateLimiter) sweep(now time.Time) {
	cutoff := now.Add(-l.idleTTL).UnixNano()
	l.limiters.Range(func(key, value any) bool {
		if value.(*ipLimiter).lastSeen.Load() < cutoff {
			l.limiters.Delete(key)
		}
		return true
	})
}

func (l *IPRateLimiter) size() int {
	n := 0
	l.limiters.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Middleware answers 429 once an IP runs out of tokens.
func (l *IPRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		reservation := l.GetLimiter(c.ClientIP()).Reserve()
		if delay := reservation.Delay(); delay > 0 {
			reservation.Cancel()
			c.Header("Retry-After", strconv.Itoa(int(delay.Seconds())+1))
			api.AbortFail(c, http.StatusTooManyRequests, api.MessageTooManyRequests)
			return
		}
		c.Next()
	}
}
