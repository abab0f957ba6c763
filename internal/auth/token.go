package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/onarrival/onarrival/internal/models"
)

// Token validation outcomes. Expiry and malformedness are distinct so callers
// can tell a client whether retrying with the same token is meaningful.
var (
	ErrExpiredToken   = errors.New("session token expired")
	ErrMalformedToken = errors.New("malformed session token")
)

// SessionClaims are the claims carried by a session token. The token is
// self-contained: there is no server-side session store and no revocation
// list, expiry is the only termination mechanism.
type SessionClaims struct {
	KeyName     string              `json:"key_name"`
	Permissions []models.Permission `json:"permissions"`
	jwt.RegisteredClaims
}

// SessionTokenCodec issues and validates signed session tokens. It holds no
// mutable state; encoding and decoding are pure functions of the secret and
// the claims.
type SessionTokenCodec struct {
	secret   []byte
	lifetime time.Duration
}

// NewSessionTokenCodec creates a codec signing with the given secret.
func NewSessionTokenCodec(secret string, lifetime time.Duration) *SessionTokenCodec {
	return &SessionTokenCodec{
		secret:   []byte(secret),
		lifetime: lifetime,
	}
}

// Lifetime returns the configured token lifetime.
func (c *SessionTokenCodec) Lifetime() time.Duration {
	return c.lifetime
}

// Encode issues a signed token for the key name and permission set.
func (c *SessionTokenCodec) Encode(keyName string, permissions []models.Permission) (string, error) {
	now := time.Now()

	claims := &SessionClaims{
		KeyName:     keyName,
		Permissions: permissions,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.lifetime)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}

	return tokenString, nil
}

// Decode verifies the signature and time bounds of a token and returns its
// claims. It fails with ErrExpiredToken for a well-formed but expired token
// and ErrMalformedToken for anything else; an unverified payload is never
// trusted, not even partially.
func (c *SessionTokenCodec) Decode(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return c.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrMalformedToken
	}

	if !token.Valid {
		return nil, ErrMalformedToken
	}

	return claims, nil
}
