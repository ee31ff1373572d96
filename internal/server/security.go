package server

import (
	"net/http"
	"slices"
	"strings"
	"time"
)

// SecurityConfig holds the HTTP hardening settings and request limits.
type SecurityConfig struct {
	EnableCORS     bool
	AllowedOrigins []string
	AllowedMethods []string

	// MaxNValue bounds the sample count of a single integration and the
	// initial sample count of a refinement loop.
	MaxNValue int
	// MaxWorkers bounds the requested worker count.
	MaxWorkers int
	// MaxIterations bounds the refinement loop.
	MaxIterations int
	// RequestTimeout bounds every integration.
	RequestTimeout time.Duration
}

// DefaultSecurityConfig returns permissive CORS for read-only access and
// limits that keep a single request under a few seconds on common hardware.
func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{
		EnableCORS:     true,
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		MaxNValue:      1_000_000_000,
		MaxWorkers:     1024,
		MaxIterations:  100_000,
		RequestTimeout: time.Minute,
	}
}

// SecurityMiddleware sets the security headers, applies CORS and answers
// preflight requests.
func SecurityMiddleware(config SecurityConfig, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-XSS-Protection", "1; mode=block")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")

		if config.EnableCORS {
			if origin, ok := allowedOrigin(config.AllowedOrigins, r.Header.Get("Origin")); ok {
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Methods", strings.Join(config.AllowedMethods, ", "))
				h.Set("Access-Control-Allow-Headers", "Content-Type")
				h.Set("Access-Control-Max-Age", "86400")
			}
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next(w, r)
	}
}

// allowedOrigin returns the value for Access-Control-Allow-Origin. A
// wildcard always matches; otherwise origin must be listed.
func allowedOrigin(allowed []string, origin string) (string, bool) {
	if slices.Contains(allowed, "*") {
		return "*", true
	}
	if origin != "" && slices.Contains(allowed, origin) {
		return origin, true
	}
	return "", false
}
