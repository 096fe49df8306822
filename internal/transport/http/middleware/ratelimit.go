package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"empsync/internal/transport/http/api"
)

type keyFunc func(r *http.Request) string

// fixedWindow counts requests per key in fixed windows. Expired buckets are
// swept once per window so idle clients do not accumulate.
type fixedWindow struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	key     keyFunc
	buckets map[string]*bucket
	sweepAt time.Time
}

type bucket struct {
	count int
	reset time.Time
}

type decision struct {
	allowed   bool
	remaining int
	resetIn   time.Duration
}

func newFixedWindow(limit int, window time.Duration, key keyFunc) *fixedWindow {
	return &fixedWindow{limit: limit, window: window, key: key, buckets: map[string]*bucket{}}
}

func (fw *fixedWindow) take(key string, now time.Time) decision {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if now.After(fw.sweepAt) {
		for k, b := range fw.buckets {
			if now.After(b.reset) {
				delete(fw.buckets, k)
			}
		}
		fw.sweepAt = now.Add(fw.window)
	}

	b, ok := fw.buckets[key]
	if !ok || now.After(b.reset) {
		b = &bucket{reset: now.Add(fw.window)}
		fw.buckets[key] = b
	}
	b.count++
	return decision{
		allowed:   b.count <= fw.limit,
		remaining: max(fw.limit-b.count, 0),
		resetIn:   b.reset.Sub(now),
	}
}

// enforce answers 429 and returns false once the caller's budget is spent.
func (fw *fixedWindow) enforce(w http.ResponseWriter, r *http.Request) bool {
	if fw.limit <= 0 {
		return true
	}
	key := fw.key(r)
	if key == "" {
		key = clientIP(r)
	}
	d := fw.take(key, time.Now())

	resetSec := int((d.resetIn + time.Second - 1) / time.Second)
	h := w.Header()
	h.Set("X-RateLimit-Limit", strconv.Itoa(fw.limit))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(d.remaining))
	h.Set("X-RateLimit-Reset", strconv.Itoa(resetSec))
	if d.allowed {
		return true
	}

	h.Set("Retry-After", strconv.Itoa(max(resetSec, 1)))
	slog.Warn("rate limit exceeded", "key", key, "method", r.Method, "path", r.URL.Path, "limit", fw.limit)
	api.Fail(w, http.StatusTooManyRequests, "rate_limited", "too many requests", GetRequestID(r.Context()))
	return false
}

// RateLimit applies a general budget per authenticated user, or per client IP
// for anonymous callers.
func RateLimit(limit int, window time.Duration) func(http.Handler) http.Handler {
	fw := newFixedWindow(limit, window, actorOrIPKey)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if fw.enforce(w, r) {
				next.ServeHTTP(w, r)
			}
		})
	}
}

// SensitiveMutationRateLimit adds tighter budgets on credential endpoints
// (per IP and per login name) and on bulk or approval mutations (per actor).
func SensitiveMutationRateLimit(baseLimit int, window time.Duration) func(http.Handler) http.Handler {
	authLimit := max(baseLimit/4, 1)
	authByIP := newFixedWindow(authLimit, window, clientIP)
	authByLogin := newFixedWindow(authLimit, window, loginOrIPKey)
	byActor := newFixedWindow(max(baseLimit/2, 1), window, actorOrIPKey)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch sensitiveRateScope(r) {
			case sensitiveScopeAuth:
				if !authByIP.enforce(w, r) || !authByLogin.enforce(w, r) {
					return
				}
			case sensitiveScopeActor:
				if !byActor.enforce(w, r) {
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func actorOrIPKey(r *http.Request) string {
	if user, ok := GetUser(r.Context()); ok && user.UserID != "" {
		return "user:" + user.UserID
	}
	return clientIP(r)
}

// loginOrIPKey keys credential requests on the username or email in the JSON
// body. The body is restored for the handler.
func loginOrIPKey(r *http.Request) string {
	if r.Body == nil || !strings.Contains(strings.ToLower(r.Header.Get("Content-Type")), "application/json") {
		return clientIP(r)
	}
	raw, err := io.ReadAll(io.LimitReader(r.Body, 64<<10))
	r.Body = io.NopCloser(io.MultiReader(bytes.NewReader(raw), r.Body))
	if err != nil {
		return clientIP(r)
	}
	var body struct {
		Username string `json:"username"`
		Email    string `json:"email"`
	}
	if json.Unmarshal(raw, &body) != nil {
		return clientIP(r)
	}
	for _, login := range []string{body.Username, body.Email} {
		if login = strings.TrimSpace(login); login != "" {
			return "login:" + strings.ToLower(login)
		}
	}
	return clientIP(r)
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

type sensitiveScope string

const (
	sensitiveScopeNone  sensitiveScope = ""
	sensitiveScopeAuth  sensitiveScope = "auth"
	sensitiveScopeActor sensitiveScope = "actor"
)

var authScopePaths = map[string]bool{
	"/auth/login":               true,
	"/auth/forgot-password":     true,
	"/auth/reset-password":      true,
	"/auth/resend-verification": true,
}

func sensitiveRateScope(r *http.Request) sensitiveScope {
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
	default:
		return sensitiveScopeNone
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/v1")
	switch {
	case authScopePaths[path], strings.HasPrefix(path, "/auth/register/"):
		return sensitiveScopeAuth
	case path == "/employees/bulk",
		strings.HasPrefix(path, "/performance/") && strings.HasSuffix(path, "/approve"):
		return sensitiveScopeActor
	}
	return sensitiveScopeNone
}
