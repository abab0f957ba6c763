package logger

import (
	"strings"
)

// SanitizedKey masks an API key value for logging (e.g., "dev-***").
// Key values are secrets; only a short prefix ever reaches the logs.
func SanitizedKey(key string) string {
	if key == "" {
		return "[empty-key]"
	}
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", 4)
}

// SanitizedPhone masks a phone number for logging, keeping the last two digits.
func SanitizedPhone(phone string) string {
	if len(phone) < 4 {
		return "[invalid-phone]"
	}
	return strings.Repeat("*", len(phone)-2) + phone[len(phone)-2:]
}

// SanitizeQueryString checks if query string contains sensitive parameters
// and returns true if the entire query string should be redacted
func SanitizeQueryString(rawQuery string) bool {
	sensitiveParams := []string{
		"api_key",
		"apikey",
		"token",
		"secret",
		"auth",
		"phone",
	}

	query := strings.ToLower(rawQuery)
	for _, param := range sensitiveParams {
		if strings.Contains(query, param) {
			return true
		}
	}
	return false
}
