package api

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultRequestBodyLimitBytes caps exception write payloads.
	DefaultRequestBodyLimitBytes int64 = 64 << 10 // 64 KiB

	// DefaultRateLimitRequests is the default request budget per client IP and window.
	DefaultRateLimitRequests = 120

	// DefaultRateLimitWindow is the default throttle window.
	DefaultRateLimitWindow = time.Minute

	// RequestIDHeader carries the correlation id between console and services.
	RequestIDHeader = "X-Request-ID"
)

// Middleware wraps an http.Handler.
type Middleware func(http.Handler) http.Handler

// Chain applies middlewares so that the first one listed is outermost.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	if h == nil {
		h = http.NotFoundHandler()
	}
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

type window struct {
	start time.Time
	count int
}

type ipLimiter struct {
	mu      sync.Mutex
	limit   int
	period  time.Duration
	now     func() time.Time
	windows map[string]window
}

func newIPLimiter(limit int, period time.Duration, now func() time.Time) *ipLimiter {
	if limit <= 0 {
		limit = DefaultRateLimitRequests
	}
	if period <= 0 {
		period = DefaultRateLimitWindow
	}
	if now == nil {
		now = time.Now
	}
	return &ipLimiter{
		limit:   limit,
		period:  period,
		now:     now,
		windows: make(map[string]window),
	}
}

func (l *ipLimiter) allow(ip string) bool {
	now := l.now()
	if ip == "" {
		ip = "unknown"
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// expire stale windows so the map stays bounded
	for k, w := range l.windows {
		if now.Sub(w.start) >= 2*l.period {
			delete(l.windows, k)
		}
	}

	w := l.windows[ip]
	if w.start.IsZero() || now.Sub(w.start) >= l.period {
		l.windows[ip] = window{start: now, count: 1}
		return true
	}
	if w.count >= l.limit {
		return false
	}
	w.count++
	l.windows[ip] = w
	return true
}

// SecurityHeaders adds hardening headers suitable for a JSON API.
func SecurityHeaders(next http.Handler) http.Handler {
	if next == nil {
		next = http.NotFoundHandler()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Cache-Control", "no-store")
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		next.ServeHTTP(w, r)
	})
}

// CORS allows browser consoles served from the given origins. "*" allows any.
func CORS(origins ...string) Middleware {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && (allowed["*"] || allowed[origin]) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+RequestIDHeader)
				w.Header().Add("Vary", "Origin")
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// BodySizeLimit caps request body size before handler processing.
func BodySizeLimit(limitBytes int64) Middleware {
	if limitBytes <= 0 {
		limitBytes = DefaultRequestBodyLimitBytes
	}
	return func(next http.Handler) http.Handler {
		if next == nil {
			next = http.NotFoundHandler()
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, limitBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitPerIP throttles requests by client IP.
func RateLimitPerIP(limit int, period time.Duration) Middleware {
	return rateLimitWithClock(limit, period, time.Now)
}

func rateLimitWithClock(limit int, period time.Duration, now func() time.Time) Middleware {
	limiter := newIPLimiter(limit, period, now)

	return func(next http.Handler) http.Handler {
		if next == nil {
			next = http.NotFoundHandler()
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter.allow(clientIP(r)) {
				next.ServeHTTP(w, r)
				return
			}
			retry := int(limiter.period.Seconds())
			if retry <= 0 {
				retry = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(retry))
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
		})
	}
}

// RequestID echoes the caller's X-Request-ID or assigns a new one.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(RequestIDHeader))
		if id == "" {
			id = uuid.NewString()
			r.Header.Set(RequestIDHeader, id)
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// AccessLog logs one line per request.
func AccessLog(log logrus.FieldLogger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			started := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			log.WithFields(logrus.Fields{
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     rec.status,
				"duration":   time.Since(started).String(),
				"request_id": r.Header.Get(RequestIDHeader),
			}).Info("request")
		})
	}
}

func clientIP(r *http.Request) string {
	if fwd := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); fwd != "" {
		if first := strings.TrimSpace(strings.Split(fwd, ",")[0]); first != "" {
			return first
		}
	}

	addr := strings.TrimSpace(r.RemoteAddr)
	if addr == "" {
		return "unknown"
	}
	if host, _, err := net.SplitHostPort(addr); err == nil && host != "" {
		return host
	}
	return addr
}
