package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/onarrival/onarrival/internal/models"
	"github.com/onarrival/onarrival/internal/ratelimit"
	pkghttp "github.com/onarrival/onarrival/pkg/http"
)

// contextKey is a custom type for context keys
type contextKey string

const (
	// DecisionContextKey is the key for storing the guard decision in context
	DecisionContextKey contextKey = "auth_decision"
)

// Require returns middleware that admits a request only when the guard allows
// it for the given permission. The decision is injected into the request
// context for handlers that need the caller's key name or permission set.
func Require(guard *RequestGuard, permission models.Permission) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision := guard.Authorize(r, permission)
			if !decision.Allowed {
				writeDenial(w, decision)
				return
			}

			ctx := context.WithValue(r.Context(), DecisionContextKey, &decision)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetDecision extracts the guard decision from the request context.
func GetDecision(r *http.Request) *Decision {
	decision, ok := r.Context().Value(DecisionContextKey).(*Decision)
	if !ok {
		return nil
	}
	return decision
}

// writeDenial maps a deny reason to its transport status code. The reason
// code lands in the response body so callers can decide whether a later
// retry is worthwhile.
func writeDenial(w http.ResponseWriter, d Decision) {
	switch d.Reason {
	case DenyMissingCredential:
		pkghttp.WriteError(w, http.StatusUnauthorized, string(d.Reason),
			"API key required. Include X-API-Key header or api_key parameter.")
	case DenyInvalidCredential, DenyLockedOut:
		// Lockout is reported with the invalid-credential message so the
		// response does not confirm whether a key guess was correct, but
		// the structured reason code still distinguishes the two.
		pkghttp.WriteError(w, http.StatusUnauthorized, string(d.Reason),
			"Invalid API key or too many failed attempts. Please try again later.")
	case DenyExpiredToken:
		pkghttp.WriteError(w, http.StatusUnauthorized, string(d.Reason),
			"Session token has expired.")
	case DenyMalformedToken:
		pkghttp.WriteError(w, http.StatusUnauthorized, string(d.Reason),
			"Invalid session token.")
	case DenyInsufficientPermission:
		pkghttp.WriteError(w, http.StatusForbidden, string(d.Reason),
			"Credential does not have the required permission.")
	case DenyRateLimitExceeded:
		pkghttp.WriteError(w, http.StatusTooManyRequests, string(d.Reason),
			"Rate limit exceeded. Please try again later.")
	default:
		pkghttp.WriteUnauthorized(w, "unauthorized")
	}
}

// ClassLimit returns middleware enforcing an additional per-class quota on
// top of the credential's own limit. It keys by the authenticated key name so
// a client cannot reset the class counter by switching addresses. Must run
// after Require.
func ClassLimit(limiter *ratelimit.Limiter, class string, limit int, window time.Duration) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision := GetDecision(r)
			if decision == nil {
				pkghttp.WriteUnauthorized(w, "unauthorized")
				return
			}

			key := class + ":" + decision.KeyName
			if !limiter.Allow(key, limit, window) {
				pkghttp.WriteTooManyRequests(w, "Rate limit exceeded. Please try again later.")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
