package auth

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuerName = "adminconsole"

// JWTIssuer issues session tokens as signed JWTs. The subject is the principal
// ID and the expiry travels in the exp claim, so a token read back from
// durable storage still carries its expiry.
type JWTIssuer struct {
	method    jwt.SigningMethod
	signKey   any
	verifyKey any
}

// NewHMACIssuer creates an issuer signing with HS256.
func NewHMACIssuer(key []byte) (*JWTIssuer, error) {
	if len(key) < 32 {
		return nil, ErrSigningKeyTooWeak
	}
	return &JWTIssuer{method: jwt.SigningMethodHS256, signKey: key, verifyKey: key}, nil
}

// NewECDSAIssuerFromPEM creates an issuer signing with ES256.
// signingKeyPEM is the PEM-encoded ECDSA private key.
func NewECDSAIssuerFromPEM(signingKeyPEM string) (*JWTIssuer, error) {
	if signingKeyPEM == "" {
		return nil, errors.New("JWT signing key not provided")
	}

	signingKey, err := jwt.ParseECPrivateKeyFromPEM([]byte(signingKeyPEM))
	if err != nil {
		return nil, err
	}

	return NewECDSAIssuer(signingKey), nil
}

// NewECDSAIssuer creates an issuer signing with ES256.
func NewECDSAIssuer(key *ecdsa.PrivateKey) *JWTIssuer {
	return &JWTIssuer{method: jwt.SigningMethodES256, signKey: key, verifyKey: &key.PublicKey}
}

// Issue creates a signed JWT for subject.
func (i *JWTIssuer) Issue(subject string, issuedAt time.Time, ttl time.Duration) (string, time.Time, error) {
	if subject == "" {
		return "", time.Time{}, errors.New("token subject required")
	}

	id, err := uuid.NewV7()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate token id: %w", err)
	}

	// NumericDate has second precision
	expiresAt := issuedAt.Add(ttl).UTC().Truncate(time.Second)

	claims := &jwt.RegisteredClaims{
		ID:        id.String(),
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		Issuer:    issuerName,
	}

	token, err := jwt.NewWithClaims(i.method, claims).SignedString(i.signKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return token, expiresAt, nil
}

// Inspect verifies the token and returns its subject and expiry.
func (i *JWTIssuer) Inspect(token string) (TokenClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != i.method.Alg() {
			return nil, errors.New("invalid signing method")
		}
		return i.verifyKey, nil
	}, jwt.WithoutClaimsValidation())
	if err != nil {
		return TokenClaims{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return TokenClaims{}, fmt.Errorf("%w: invalid claims", ErrInvalidToken)
	}

	if claims.Issuer != issuerName {
		return TokenClaims{}, fmt.Errorf("%w: unexpected issuer %q", ErrInvalidToken, claims.Issuer)
	}

	if claims.Subject == "" || claims.ExpiresAt == nil {
		return TokenClaims{}, fmt.Errorf("%w: missing subject or expiry", ErrInvalidToken)
	}

	return TokenClaims{
		Subject:   claims.Subject,
		ExpiresAt: claims.ExpiresAt.UTC(),
	}, nil
}
