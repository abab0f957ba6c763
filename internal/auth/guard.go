package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/onarrival/onarrival/internal/models"
	"github.com/onarrival/onarrival/internal/ratelimit"
	pkghttp "github.com/onarrival/onarrival/pkg/http"
	pkglogger "github.com/onarrival/onarrival/pkg/logger"
)

// DenyReason encodes why a request was not admitted. The HTTP layer maps
// these to status codes; the reason also tells the client whether retrying
// later is meaningful.
type DenyReason string

const (
	DenyMissingCredential      DenyReason = "missing_credential"
	DenyInvalidCredential      DenyReason = "invalid_credential"
	DenyLockedOut              DenyReason = "locked_out"
	DenyInsufficientPermission DenyReason = "insufficient_permission"
	DenyRateLimitExceeded      DenyReason = "rate_limit_exceeded"
	DenyExpiredToken           DenyReason = "expired_token"
	DenyMalformedToken         DenyReason = "malformed_token"
)

// Decision is the outcome of a single admit/deny evaluation.
type Decision struct {
	Allowed     bool
	Reason      DenyReason
	Identity    string
	KeyName     string
	Permissions []models.Permission
}

func admitted(identity, keyName string, perms []models.Permission) Decision {
	return Decision{Allowed: true, Identity: identity, KeyName: keyName, Permissions: perms}
}

func denied(reason DenyReason, identity string) Decision {
	return Decision{Allowed: false, Reason: reason, Identity: identity}
}

// GuardConfig carries the quota applied to requests that are not tied to a
// configured key record (session tokens and unauthenticated checks).
type GuardConfig struct {
	DefaultLimit    int
	RateLimitWindow time.Duration
	TrustedProxies  []string
}

// RequestGuard combines credential extraction, authentication, the permission
// check, and rate limiting into a single admit/deny decision.
type RequestGuard struct {
	manager *Manager
	limiter *ratelimit.Limiter
	cfg     GuardConfig
	ipcfg   *pkghttp.IPConfig
	logger  *slog.Logger
	audit   *pkglogger.AuditLogger
}

// NewRequestGuard creates a guard over the given manager and limiter.
func NewRequestGuard(manager *Manager, limiter *ratelimit.Limiter, cfg GuardConfig, logger *slog.Logger, audit *pkglogger.AuditLogger) *RequestGuard {
	return &RequestGuard{
		manager: manager,
		limiter: limiter,
		cfg:     cfg,
		ipcfg:   &pkghttp.IPConfig{TrustedProxies: cfg.TrustedProxies},
		logger:  logger,
		audit:   audit,
	}
}

// Authorize evaluates a request against the required permission.
//
// Credential sources, in priority order: X-API-Key header, Authorization
// bearer value, api_key query parameter. A bearer value is first tried as a
// session token and falls back to API-key validation, so that garbage bearer
// values still count as failed attempts while valid session tokens never do.
// Session tokens are accepted only via the Authorization header.
func (g *RequestGuard) Authorize(r *http.Request, required models.Permission) Decision {
	identity := pkghttp.ExtractClientIP(r, g.ipcfg)

	cred, bearer := extractCredential(r)
	if cred == "" {
		return denied(DenyMissingCredential, identity)
	}

	if bearer {
		if claims, err := g.manager.DecodeSessionToken(cred); err == nil {
			return g.admit(r, required, identity, claims.KeyName, claims.Permissions, nil)
		} else if errors.Is(err, ErrExpiredToken) {
			return denied(DenyExpiredToken, identity)
		}
		// Malformed as a token: fall through and treat the value as an
		// API key.
	}

	rec, err := g.manager.Validate(cred, identity)
	switch {
	case errors.Is(err, models.ErrLockedOut):
		return denied(DenyLockedOut, identity)
	case err != nil:
		return denied(DenyInvalidCredential, identity)
	}

	return g.admit(r, required, identity, rec.Name, rec.Permissions, rec)
}

// admit runs the permission and quota checks shared by both credential paths.
func (g *RequestGuard) admit(r *http.Request, required models.Permission, identity, keyName string, perms []models.Permission, rec *APIKeyRecord) Decision {
	if required != "" && !models.HasPermission(perms, required) {
		g.audit.LogAuthAttempt(pkglogger.AuditEvent{
			EventType:     "authorization",
			KeyName:       keyName,
			Identity:      identity,
			Permission:    string(required),
			Success:       false,
			FailureReason: "insufficient_permission",
		})
		d := denied(DenyInsufficientPermission, identity)
		d.KeyName = keyName
		return d
	}

	// Requests authenticated by a configured key draw from that key's
	// quota; session-token requests draw from the per-address default.
	rateKey := "ip:" + identity
	limit := g.cfg.DefaultLimit
	if rec != nil {
		rateKey = "api_key:" + rec.Name
		limit = rec.RateLimit
	}

	if !g.limiter.Allow(rateKey, limit, g.cfg.RateLimitWindow) {
		g.logger.Warn("rate limit exceeded",
			slog.String("rate_key", rateKey),
			slog.Int("limit", limit))
		d := denied(DenyRateLimitExceeded, identity)
		d.KeyName = keyName
		return d
	}

	return admitted(identity, keyName, perms)
}

// extractCredential pulls the credential out of the request, reporting
// whether it came from an Authorization bearer value.
func extractCredential(r *http.Request) (cred string, bearer bool) {
	if key := r.Header.Get("X-API-Key"); key != "" {
		return key, false
	}

	if auth := r.Header.Get("Authorization"); auth != "" {
		parts := strings.SplitN(auth, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") && parts[1] != "" {
			return parts[1], true
		}
	}

	if key := r.URL.Query().Get("api_key"); key != "" {
		return key, false
	}

	return "", false
}
