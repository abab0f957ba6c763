package auth

import (
	"log/slog"

	"github.com/onarrival/onarrival/internal/models"
	pkglogger "github.com/onarrival/onarrival/pkg/logger"
)

// Manager validates presented API keys against the credential store while
// consulting and updating the lockout tracker.
type Manager struct {
	store   *CredentialStore
	lockout *LockoutTracker
	codec   *SessionTokenCodec
	logger  *slog.Logger
	audit   *pkglogger.AuditLogger
}

// NewManager creates an authentication manager.
func NewManager(store *CredentialStore, lockout *LockoutTracker, codec *SessionTokenCodec, logger *slog.Logger, audit *pkglogger.AuditLogger) *Manager {
	return &Manager{
		store:   store,
		lockout: lockout,
		codec:   codec,
		logger:  logger,
		audit:   audit,
	}
}

// Validate checks an API key presented by the given client identity.
//
// The lockout check runs before the key lookup: a locked-out identity is
// denied even with a correct key, which caps the cost of brute forcing and
// keeps a locked identity from probing keys at all. The trade-off is that a
// legitimate client that triggered the lockout must wait out the window.
//
// On success all recorded failures for the identity are cleared; on a miss a
// failure is recorded. Returns models.ErrLockedOut or models.ErrUnauthorized.
func (m *Manager) Validate(apiKey, identity string) (*APIKeyRecord, error) {
	if m.lockout.IsLockedOut(identity) {
		m.audit.LogAuthAttempt(pkglogger.AuditEvent{
			EventType:     "api_key_auth",
			Identity:      identity,
			Success:       false,
			FailureReason: "locked_out",
		})
		return nil, models.ErrLockedOut
	}

	rec, ok := m.store.Lookup(apiKey)
	if !ok {
		m.lockout.RecordFailure(identity)
		m.audit.LogAuthAttempt(pkglogger.AuditEvent{
			EventType:     "api_key_auth",
			Identity:      identity,
			Success:       false,
			FailureReason: "invalid_key",
		})
		return nil, models.ErrUnauthorized
	}

	m.lockout.Clear(identity)
	return rec, nil
}

// HasPermission reports whether the record grants the permission.
func (m *Manager) HasPermission(rec *APIKeyRecord, perm models.Permission) bool {
	return models.HasPermission(rec.Permissions, perm)
}

// CreateSessionToken issues a session token carrying the record's name and
// permission set. The returned expiry is in seconds, for the response body.
func (m *Manager) CreateSessionToken(rec *APIKeyRecord) (token string, expiresIn int, err error) {
	token, err = m.codec.Encode(rec.Name, rec.Permissions)
	if err != nil {
		m.logger.Error("failed to issue session token",
			slog.String("key_name", rec.Name), slog.Any("error", err))
		return "", 0, err
	}

	m.audit.LogAuthAttempt(pkglogger.AuditEvent{
		EventType: "session_token_issued",
		KeyName:   rec.Name,
		Success:   true,
	})

	return token, int(m.codec.Lifetime().Seconds()), nil
}

// DecodeSessionToken validates a presented session token.
func (m *Manager) DecodeSessionToken(token string) (*SessionClaims, error) {
	return m.codec.Decode(token)
}
