package server

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// ipWindow tracks one client's request count inside the current window.
type ipWindow struct {
	count       int
	windowStart time.Time
}

// IPLimiter is a fixed-window per-client-IP rate limiter. Fixed windows
// keep the Remaining and Reset headers exact, which a token bucket
// cannot offer.
type IPLimiter struct {
	mu      sync.Mutex
	clients map[string]*ipWindow
	limit   int
	window  time.Duration
	now     func() time.Time
}

// NewIPLimiter creates a limiter allowing limit requests per window per IP.
func NewIPLimiter(limit int, window time.Duration) *IPLimiter {
	return &IPLimiter{
		clients: make(map[string]*ipWindow),
		limit:   limit,
		window:  window,
		now:     time.Now,
	}
}

// Allow consumes one slot for ip. It returns whether the request may
// proceed, the remaining quota, and when the current window resets.
func (l *IPLimiter) Allow(ip string) (allowed bool, remaining int, reset time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.clients[ip]
	if !ok || !now.Before(w.windowStart.Add(l.window)) {
		w = &ipWindow{windowStart: now}
		l.clients[ip] = w
	}
	reset = w.windowStart.Add(l.window)

	if w.count >= l.limit {
		return false, 0, reset
	}
	w.count++
	return true, l.limit - w.count, reset
}

// sweep drops windows that ended before now. Called opportunistically
// so the map does not grow without bound.
func (l *IPLimiter) sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	for ip, w := range l.clients {
		if !now.Before(w.windowStart.Add(l.window)) {
			delete(l.clients, ip)
		}
	}
}

// clientIP extracts the caller address, honoring X-Forwarded-For from a
// fronting proxy.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		for i := 0; i < len(fwd); i++ {
			if fwd[i] == ',' {
				return fwd[:i]
			}
		}
		return fwd
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimit returns middleware enforcing the per-IP quota. Every
// response carries the X-RateLimit headers; over-quota requests get 429.
func RateLimit(l *IPLimiter) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, remaining, reset := l.Allow(clientIP(r))

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))

			if !allowed {
				l.sweep()
				http.Error(w, `{"error":"rate limit exceeded"}`, http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
