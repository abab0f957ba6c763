package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/onarrival/onarrival/internal/models"
	pkglogger "github.com/onarrival/onarrival/pkg/logger"
)

const (
	envPrimaryKey   = "ONARRIVAL_API_KEY"
	envNamedKeyPrefix = "ONARRIVAL_API_KEY_"
	envDefaultKey   = "DEFAULT_API_KEY"

	primaryRateLimit = 100  // requests per window
	namedRateLimit   = 50
	devRateLimit     = 1000
)

// APIKeyRecord describes one configured API key and what it may do.
type APIKeyRecord struct {
	Key         string `json:"-"` // Never exposed
	Name        string `json:"name"`
	Permissions []models.Permission `json:"permissions"`
	RateLimit   int    `json:"rate_limit"` // requests per rate-limit window
}

// CredentialStore indexes configured API keys by their secret value.
// It is immutable after LoadCredentials returns, so reads take no lock.
type CredentialStore struct {
	keys map[string]*APIKeyRecord
}

// LoadCredentials reads API keys from the environment.
//
// ONARRIVAL_API_KEY is the primary key with full permissions. Every
// ONARRIVAL_API_KEY_<NAME> variable adds a named key limited to send_alerts.
// If nothing is configured a development key is synthesized (DEFAULT_API_KEY
// or a random value) and its issuance is logged loudly.
//
// Two configured names carrying the same key value is a configuration error,
// not a silent overwrite: lookup is by value, so the later record would
// shadow the earlier one's permissions.
func LoadCredentials(logger *slog.Logger) (*CredentialStore, error) {
	store := &CredentialStore{keys: make(map[string]*APIKeyRecord)}

	if primary := os.Getenv(envPrimaryKey); primary != "" {
		store.keys[primary] = &APIKeyRecord{
			Key:         primary,
			Name:        "main",
			Permissions: models.AllPermissions(),
			RateLimit:   primaryRateLimit,
		}
	}

	for _, kv := range os.Environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, envNamedKeyPrefix) || name == envPrimaryKey {
			continue
		}
		keyName := strings.ToLower(strings.TrimPrefix(name, envNamedKeyPrefix))
		if value == "" {
			continue
		}
		if existing, dup := store.keys[value]; dup {
			return nil, fmt.Errorf("duplicate api key value shared by %q and %q", existing.Name, keyName)
		}
		store.keys[value] = &APIKeyRecord{
			Key:         value,
			Name:        keyName,
			Permissions: []models.Permission{models.PermissionSendAlerts},
			RateLimit:   namedRateLimit,
		}
	}

	if len(store.keys) == 0 {
		devKey := os.Getenv(envDefaultKey)
		if devKey == "" {
			generated, err := generateDevKey()
			if err != nil {
				return nil, fmt.Errorf("failed to generate development key: %w", err)
			}
			devKey = generated
		}
		store.keys[devKey] = &APIKeyRecord{
			Key:         devKey,
			Name:        "development",
			Permissions: models.AllPermissions(),
			RateLimit:   devRateLimit,
		}
		logger.Warn("no API keys configured, using development key",
			slog.String("key", pkglogger.SanitizedKey(devKey)))
		logger.Warn("set ONARRIVAL_API_KEY before running in production")
	}

	return store, nil
}

// Lookup returns the record for a key value, if configured.
func (s *CredentialStore) Lookup(key string) (*APIKeyRecord, bool) {
	rec, ok := s.keys[key]
	return rec, ok
}

// Len returns the number of configured keys.
func (s *CredentialStore) Len() int {
	return len(s.keys)
}

// KeyNames returns the configured key names for startup logging.
func (s *CredentialStore) KeyNames() []string {
	names := make([]string, 0, len(s.keys))
	for _, rec := range s.keys {
		names = append(names, rec.Name)
	}
	return names
}

// generateDevKey creates a development key with 128 bits of entropy.
func generateDevKey() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return "dev-key-" + hex.EncodeToString(buf), nil
}
