// Package validation normalizes and checks user-supplied alert inputs.
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	MaxMessageLength      = 1600 // SMS limit
	MaxContactNameLength  = 50
	MaxBusinessNameLength = 100
	MaxGroupNameLength    = 50
)

var (
	e164Pattern         = regexp.MustCompile(`^\+[1-9]\d{1,14}$`)
	usDigitsPattern     = regexp.MustCompile(`^1?\d{10}$`)
	namePattern         = regexp.MustCompile(`^[a-zA-Z\s\-'.]{1,50}$`)
	businessNamePattern = regexp.MustCompile(`^[a-zA-Z0-9\s\-'.&,]{1,100}$`)
	groupNamePattern    = regexp.MustCompile(`^[a-zA-Z0-9\s\-_]{1,50}$`)
	nonDialPattern      = regexp.MustCompile(`[^\d+]`)

	suspiciousPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)<script.*?>`),
		regexp.MustCompile(`(?i)javascript:`),
		regexp.MustCompile(`(?i)vbscript:`),
		regexp.MustCompile(`(?i)onload\s*=`),
		regexp.MustCompile(`(?i)onerror\s*=`),
	}
)

// Phone validates a phone number and normalizes it to E.164. US numbers
// without a country code get +1 prepended.
func Phone(phone string) (string, error) {
	cleaned := nonDialPattern.ReplaceAllString(strings.TrimSpace(phone), "")
	if cleaned == "" {
		return "", fmt.Errorf("phone number is required")
	}

	if e164Pattern.MatchString(cleaned) {
		return cleaned, nil
	}

	if strings.HasPrefix(cleaned, "+") {
		return "", fmt.Errorf("invalid international phone number format")
	}

	if usDigitsPattern.MatchString(cleaned) {
		digits := strings.TrimPrefix(cleaned, "1")
		return "+1" + digits, nil
	}

	if e164Pattern.MatchString("+" + cleaned) {
		return "+" + cleaned, nil
	}

	return "", fmt.Errorf("invalid phone number format, use +1234567890")
}

// ContactName validates a contact name and collapses inner whitespace.
func ContactName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("contact name is required")
	}
	if len(name) > MaxContactNameLength {
		return "", fmt.Errorf("contact name must be %d characters or less", MaxContactNameLength)
	}
	if !namePattern.MatchString(name) {
		return "", fmt.Errorf("contact name may only contain letters, spaces, hyphens, apostrophes, and periods")
	}
	return strings.Join(strings.Fields(name), " "), nil
}

// BusinessName validates a business name.
func BusinessName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("business name is required")
	}
	if len(name) > MaxBusinessNameLength {
		return "", fmt.Errorf("business name must be %d characters or less", MaxBusinessNameLength)
	}
	if !businessNamePattern.MatchString(name) {
		return "", fmt.Errorf("business name contains invalid characters")
	}
	return strings.Join(strings.Fields(name), " "), nil
}

// GroupName validates a group name.
func GroupName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("group name is required")
	}
	if len(name) > MaxGroupNameLength {
		return "", fmt.Errorf("group name must be %d characters or less", MaxGroupNameLength)
	}
	if !groupNamePattern.MatchString(name) {
		return "", fmt.Errorf("group name may only contain letters, numbers, spaces, hyphens, and underscores")
	}
	return strings.Join(strings.Fields(name), " "), nil
}

// Message validates alert message content and normalizes whitespace.
func Message(message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", fmt.Errorf("message is required")
	}
	if len(message) > MaxMessageLength {
		return "", fmt.Errorf("message must be %d characters or less", MaxMessageLength)
	}

	for _, pattern := range suspiciousPatterns {
		if pattern.MatchString(message) {
			return "", fmt.Errorf("message contains potentially harmful content")
		}
	}

	return strings.Join(strings.Fields(message), " "), nil
}
