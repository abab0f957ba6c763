package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server  ServerConfig
	Auth    AuthConfig
	Limits  LimitsConfig
	Notify  NotifyConfig
	Storage StorageConfig
}

type ServerConfig struct {
	Port           string
	Env            string
	LogLevel       string
	AllowedOrigins []string
}

type AuthConfig struct {
	SecretKey         string
	SecretGenerated   bool // true when no SECRET_KEY was configured and an ephemeral one was issued
	SessionTimeout    time.Duration
	LockoutWindow     time.Duration
	MaxFailedAttempts int
	TrustedProxies    []string
}

type LimitsConfig struct {
	Window        time.Duration
	AuthPerWindow int
	APIPerWindow  int
	AlertsPerWindow int
}

type NotifyConfig struct {
	Channel     string // "log" or "ses"
	AWSRegion   string
	FromAddress string
}

type StorageConfig struct {
	DataDir string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	env := getEnv("ENV", "development")

	secretKey := getEnv("SECRET_KEY", "")
	secretGenerated := false
	if secretKey == "" {
		// Session tokens signed with an ephemeral secret do not survive a
		// restart; the caller is expected to log a visible warning.
		generated, err := generateSecret()
		if err != nil {
			return nil, fmt.Errorf("failed to generate ephemeral secret: %w", err)
		}
		secretKey = generated
		secretGenerated = true
	} else if err := validateSecretKey(secretKey, env); err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			Env:            env,
			LogLevel:       getEnv("LOG_LEVEL", "info"),
			AllowedOrigins: parseAllowedOrigins(env),
		},
		Auth: AuthConfig{
			SecretKey:         secretKey,
			SecretGenerated:   secretGenerated,
			SessionTimeout:    time.Duration(getEnvAsInt("SESSION_TIMEOUT_MINUTES", 30)) * time.Minute,
			LockoutWindow:     getEnvAsDuration("LOCKOUT_WINDOW", 5*time.Minute),
			MaxFailedAttempts: getEnvAsInt("MAX_FAILED_ATTEMPTS", 5),
			TrustedProxies:    parseList(getEnv("TRUSTED_PROXIES", "")),
		},
		Limits: LimitsConfig{
			Window:          getEnvAsDuration("RATE_LIMIT_WINDOW", time.Hour),
			AuthPerWindow:   getEnvAsInt("RATE_LIMIT_AUTH", 20),
			APIPerWindow:    getEnvAsInt("RATE_LIMIT_API", 100),
			AlertsPerWindow: getEnvAsInt("RATE_LIMIT_ALERTS", 50),
		},
		Notify: NotifyConfig{
			Channel:     getEnv("NOTIFY_CHANNEL", "log"),
			AWSRegion:   getEnv("AWS_REGION", "us-east-1"),
			FromAddress: getEnv("NOTIFY_FROM_ADDRESS", ""),
		},
		Storage: StorageConfig{
			DataDir: getEnv("ONARRIVAL_DATA_DIR", "data"),
		},
	}

	if cfg.Notify.Channel == "ses" && cfg.Notify.FromAddress == "" {
		return nil, fmt.Errorf("NOTIFY_FROM_ADDRESS is required when NOTIFY_CHANNEL=ses")
	}
	if cfg.Auth.MaxFailedAttempts < 1 {
		return nil, fmt.Errorf("MAX_FAILED_ATTEMPTS must be at least 1")
	}

	return cfg, nil
}

// validateSecretKey enforces minimum strength for the token signing secret
func validateSecretKey(secret, env string) error {
	minLength := 16 // Development minimum
	if env == "production" {
		minLength = 32 // 256 bits
	}

	if len(secret) < minLength {
		return fmt.Errorf("SECRET_KEY must be at least %d characters in %s environment (got %d)",
			minLength, env, len(secret))
	}

	weakSecrets := []string{
		"secret", "test", "password", "12345", "changeme",
		"admin", "root", "default", "example",
	}

	secretLower := strings.ToLower(secret)
	for _, weak := range weakSecrets {
		if secretLower == weak {
			return fmt.Errorf("SECRET_KEY cannot be a common weak value")
		}
	}

	return nil
}

func generateSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultVal
}

func parseList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseAllowedOrigins(env string) []string {
	if env == "production" {
		originsStr := getEnv("ALLOWED_ORIGINS", "")
		if originsStr == "" {
			return []string{} // Default to no origins in production
		}
		return parseList(originsStr)
	}

	// Development: allow localhost variants
	return []string{
		"http://localhost:3000",
		"http://localhost:8080",
		"http://127.0.0.1:3000",
		"http://127.0.0.1:8080",
	}
}
