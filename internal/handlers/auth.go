package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/onarrival/onarrival/internal/auth"
	"github.com/onarrival/onarrival/internal/models"
	"github.com/onarrival/onarrival/internal/ratelimit"
	pkghttp "github.com/onarrival/onarrival/pkg/http"
)

// AuthHandler exchanges a valid API key for a session token.
type AuthHandler struct {
	manager     *auth.Manager
	limiter     *ratelimit.Limiter
	timing      *auth.TimingDelay
	authLimit   int
	limitWindow time.Duration
	ipConfig    *pkghttp.IPConfig
}

// NewAuthHandler creates a new AuthHandler. authLimit caps token-issuance
// attempts per client address per window, independent of any key quota.
func NewAuthHandler(manager *auth.Manager, limiter *ratelimit.Limiter, authLimit int, limitWindow time.Duration, ipConfig *pkghttp.IPConfig) *AuthHandler {
	return &AuthHandler{
		manager:     manager,
		limiter:     limiter,
		timing:      auth.NewTimingDelay(auth.TimingConfig{BaseDelayMs: 100, RandomDelayMs: 50}),
		authLimit:   authLimit,
		limitWindow: limitWindow,
		ipConfig:    ipConfig,
	}
}

// TokenResponse is returned on successful authentication.
type TokenResponse struct {
	Success     bool                `json:"success"`
	Token       string              `json:"token"`
	Permissions []models.Permission `json:"permissions"`
	ExpiresIn   int                 `json:"expires_in"` // seconds
}

// IssueToken handles POST /auth/token. The API key is taken from the
// X-API-Key header, an Authorization bearer value, or the api_key query
// parameter, in that order.
func (h *AuthHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	identity := pkghttp.ExtractClientIP(r, h.ipConfig)

	if !h.limiter.Allow("auth:"+identity, h.authLimit, h.limitWindow) {
		pkghttp.WriteTooManyRequests(w, "Too many authentication attempts. Please try again later.")
		return
	}

	apiKey := extractAPIKey(r)
	if apiKey == "" {
		pkghttp.WriteError(w, http.StatusUnauthorized, "missing_credential",
			"API key required. Include X-API-Key header or api_key parameter.")
		return
	}

	rec, err := h.manager.Validate(apiKey, identity)
	if err != nil {
		h.timing.WaitFrom(start, false)
		if errors.Is(err, models.ErrLockedOut) {
			pkghttp.WriteError(w, http.StatusUnauthorized, "locked_out",
				"Too many failed attempts. Please try again later.")
			return
		}
		pkghttp.WriteError(w, http.StatusUnauthorized, "invalid_credential", "Invalid API key.")
		return
	}

	token, expiresIn, err := h.manager.CreateSessionToken(rec)
	if err != nil {
		pkghttp.WriteInternalError(w, "failed to issue session token")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, TokenResponse{
		Success:     true,
		Token:       token,
		Permissions: rec.Permissions,
		ExpiresIn:   expiresIn,
	})
}

// extractAPIKey mirrors the guard's credential priority for the one endpoint
// that authenticates directly instead of going through the guard.
func extractAPIKey(r *http.Request) string {
	if key := r.Header.Get("X-API-Key"); key != "" {
		return key
	}
	if auth := r.Header.Get("Authorization"); auth != "" {
		parts := strings.SplitN(auth, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
	}
	return r.URL.Query().Get("api_key")
}

// decodeJSON decodes a request body into dst with a size cap shared by all
// handlers.
func decodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, 50*1024)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
