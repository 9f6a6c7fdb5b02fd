// Package token implements the stateless bearer token codec.
//
// Tokens are self-contained HS256-signed JWTs carrying the subject (the
// user's phone number), the issue time, and the expiry. Validity depends only
// on the signature and the clock: the server holds no per-token state and no
// revocation list.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Validation errors. Every Validate failure is exactly one of these.
var (
	// ErrMalformed is returned for structurally invalid tokens.
	ErrMalformed = errors.New("token malformed")
	// ErrSignatureInvalid is returned for tampered tokens, tokens signed with
	// the wrong key, or tokens using an unexpected signing method.
	ErrSignatureInvalid = errors.New("token signature invalid")
	// ErrExpired is returned once the expiry has elapsed.
	ErrExpired = errors.New("token expired")
)

// DefaultTTL is the token lifetime used when the config leaves it unset.
const DefaultTTL = 12 * time.Hour

// Codec issues and validates signed bearer tokens.
// Both operations are pure functions of their inputs and the secret key,
// which is read-only after construction, so a Codec is safe for concurrent
// use without locking.
type Codec struct {
	secret []byte
	ttl    time.Duration
	leeway time.Duration
}

// Option is a functional option for configuring a Codec.
type Option func(*Codec)

// WithTTL sets the token lifetime. Default is DefaultTTL.
func WithTTL(ttl time.Duration) Option {
	return func(c *Codec) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithLeeway sets the clock-skew tolerance applied during validation.
// Default is zero: a token is rejected the instant its expiry passes.
func WithLeeway(leeway time.Duration) Option {
	return func(c *Codec) {
		if leeway > 0 {
			c.leeway = leeway
		}
	}
}

// NewCodec creates a Codec signing with the given secret key.
func NewCodec(secret []byte, opts ...Option) (*Codec, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("token codec requires a non-empty secret key")
	}
	c := &Codec{
		secret: secret,
		ttl:    DefaultTTL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// TTL returns the configured token lifetime.
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Issue returns a signed token for the subject, valid from now until now+TTL.
func (c *Codec) Issue(subject string, now time.Time) (string, error) {
	if subject == "" {
		return "", fmt.Errorf("token subject must not be empty")
	}
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Validate checks the token against the secret key and the given clock and
// returns the subject. Failures map to exactly one of ErrMalformed,
// ErrSignatureInvalid, or ErrExpired; a tampered token never yields a subject.
func (c *Codec) Validate(tokenString string, now time.Time) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) {
			return c.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(c.leeway),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		return "", mapParseError(err)
	}
	if claims.Subject == "" {
		return "", ErrMalformed
	}
	return claims.Subject, nil
}

// mapParseError collapses golang-jwt parse errors into the codec's taxonomy.
// Signature problems take precedence over expiry so that a tampered token is
// always reported as tampered even when its claimed expiry has also passed.
func mapParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrSignatureInvalid
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformed
	default:
		return ErrMalformed
	}
}
