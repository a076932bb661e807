package auth

import (
	"crypto/sha256"
	"errors"
	"time"

	"github.com/mr-tron/base58"
)

var (
	ErrInvalidToken      = errors.New("invalid token")
	ErrSigningKeyTooWeak = errors.New("signing key must be at least 32 bytes")
)

// TokenIssuer issues and inspects session tokens.
type TokenIssuer interface {
	// Issue creates a token for subject valid from issuedAt for ttl.
	Issue(subject string, issuedAt time.Time, ttl time.Duration) (token string, expiresAt time.Time, err error)

	// Inspect verifies the token signature and returns its claims.
	// Expiry is reported, not enforced; callers compare it against their own clock.
	Inspect(token string) (TokenClaims, error)
}

// TokenClaims are the claims the session store relies on.
type TokenClaims struct {
	Subject   string
	ExpiresAt time.Time
}

// Fingerprint returns a short base58 digest of the token, safe to log.
func Fingerprint(token string) string {
	if token == "" {
		return ""
	}
	hash := sha256.Sum256([]byte(token))
	return base58.Encode(hash[:])[:12]
}
