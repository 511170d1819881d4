package api

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitConfig configures the per-IP request limiter.
type RateLimitConfig struct {
	RequestsPerSecond float64       // sustained requests per IP
	Burst             int           // bucket size
	CleanupInterval   time.Duration // how often idle limiters are dropped
}

// DefaultRateLimitConfig is safe for a public arcade server.
var DefaultRateLimitConfig = RateLimitConfig{
	RequestsPerSecond: 10,
	Burst:             20,
	CleanupInterval:   5 * time.Minute,
}

type ipLimiterEntry struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64 // unix nanos
}

// IPRateLimiter keeps one token bucket per client IP.
type IPRateLimiter struct {
	limiters sync.Map // map[string]*ipLimiterEntry
	config   RateLimitConfig
	stop     chan struct{}
	stopOnce sync.Once
	metrics  *Metrics

	allowed  atomic.Uint64
	rejected atomic.Uint64
}

// NewIPRateLimiter creates a limiter and starts its cleanup goroutine.
// Call Stop to end it.
func NewIPRateLimiter(cfg RateLimitConfig) *IPRateLimiter {
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = DefaultRateLimitConfig.CleanupInterval
	}
	rl := &IPRateLimiter{
		config: cfg,
		stop:   make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

// Stop ends the cleanup goroutine.
func (rl *IPRateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

func (rl *IPRateLimiter) getLimiter(ip string) *rate.Limiter {
	now := time.Now().UnixNano()
	if v, ok := rl.limiters.Load(ip); ok {
		e := v.(*ipLimiterEntry)
		e.lastSeen.Store(now)
		return e.limiter
	}

	e := &ipLimiterEntry{
		limiter: rate.NewLimiter(rate.Limit(rl.config.RequestsPerSecond), rl.config.Burst),
	}
	e.lastSeen.Store(now)
	actual, _ := rl.limiters.LoadOrStore(ip, e)
	return actual.(*ipLimiterEntry).limiter
}

func (rl *IPRateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.cleanup(time.Now())
		}
	}
}

func (rl *IPRateLimiter) cleanup(now time.Time) {
	cutoff := now.Add(-2 * rl.config.CleanupInterval).UnixNano()
	rl.limiters.Range(func(key, value any) bool {
		if value.(*ipLimiterEntry).lastSeen.Load() < cutoff {
			rl.limiters.Delete(key)
		}
		return true
	})
}

// Allow reports whether a request from ip may proceed.
func (rl *IPRateLimiter) Allow(ip string) bool {
	if rl.getLimiter(ip).Allow() {
		rl.allowed.Add(1)
		return true
	}
	rl.rejected.Add(1)
	return false
}

// Middleware rejects requests over the limit with 429.
func (rl *IPRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow(ClientIP(r)) {
			rl.metrics.rejected("rate_limit")
			w.Header().Set("Retry-After", "1")
			writeError(w, "too many requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Stats returns allowed and rejected request counts.
func (rl *IPRateLimiter) Stats() (allowed, rejected uint64) {
	return rl.allowed.Load(), rl.rejected.Load()
}

// ClientIP extracts the client address, preferring proxy headers.
// The headers can be spoofed when the server is not behind a proxy.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if i := strings.IndexByte(xff, ','); i >= 0 {
			return strings.TrimSpace(xff[:i])
		}
		return strings.TrimSpace(xff)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// WatchLimiter caps concurrent spectator sockets per IP.
type WatchLimiter struct {
	mu       sync.Mutex
	conns    map[string]int
	maxPerIP int
	total    int
	maxTotal int
}

// NewWatchLimiter creates a limiter. Zero limits mean unlimited.
func NewWatchLimiter(maxPerIP, maxTotal int) *WatchLimiter {
	return &WatchLimiter{conns: make(map[string]int), maxPerIP: maxPerIP, maxTotal: maxTotal}
}

// Acquire reserves a slot for ip. It returns false when a limit is hit.
func (wl *WatchLimiter) Acquire(ip string) bool {
	wl.mu.Lock()
	defer wl.mu.Unlock()
	if wl.maxTotal > 0 && wl.total >= wl.maxTotal {
		return false
	}
	if wl.maxPerIP > 0 && wl.conns[ip] >= wl.maxPerIP {
		return false
	}
	wl.conns[ip]++
	wl.total++
	return true
}

// Release frees a slot taken by Acquire.
func (wl *WatchLimiter) Release(ip string) {
	wl.mu.Lock()
	defer wl.mu.Unlock()
	if wl.conns[ip] == 0 {
		return
	}
	wl.conns[ip]--
	wl.total--
	if wl.conns[ip] == 0 {
		delete(wl.conns, ip)
	}
}

// Active returns the number of open spectator sockets.
func (wl *WatchLimiter) Active() int {
	wl.mu.Lock()
	defer wl.mu.Unlock()
	return wl.total
}
