// Package auth provides JWT issuance/verification and the request
// authentication middleware.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MinSecretLen is the minimum length of the HMAC signing secret in bytes.
// HS256 keys shorter than the hash output are forgeable in practice, so a
// short secret is a configuration error, not a runtime one.
const MinSecretLen = 32

// DefaultTTL is the token lifetime applied when none is configured.
const DefaultTTL = 24 * time.Hour

// Errors returned by token operations.
var (
	ErrShortSecret  = errors.New("jwt secret must be at least 32 bytes")
	ErrInvalidToken = errors.New("invalid token")
)

// TokenCodec issues and verifies signed, time-bounded identity tokens.
// It is stateless and safe for concurrent use.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenCodec creates a codec with the given signing secret and token TTL.
// It fails fast when the secret is shorter than MinSecretLen. A zero or
// negative TTL is accepted and produces immediately expired tokens.
func NewTokenCodec(secret []byte, ttl time.Duration) (*TokenCodec, error) {
	if len(secret) < MinSecretLen {
		return nil, ErrShortSecret
	}
	return &TokenCodec{
		secret: secret,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Issue creates a signed token carrying subject, issue time, and expiry.
func (c *TokenCodec) Issue(subject string) (string, error) {
	now := c.now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the token's signature, structure, and expiry and returns the
// subject claim. Any failure is reported as ErrInvalidToken.
func (c *TokenCodec) Verify(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(c.now))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return claims.Subject, nil
}

// IsValid reports whether Verify would succeed for the token. Verification
// failures never propagate from here; the middleware uses this to skip
// identity establishment instead of aborting the request.
func (c *TokenCodec) IsValid(tokenString string) bool {
	_, err := c.Verify(tokenString)
	return err == nil
}
