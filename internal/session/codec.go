package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformed        = errors.New("session token is malformed")
	ErrInvalidSignature = errors.New("session token signature is invalid")
	ErrExpired          = errors.New("session token is expired")
	ErrIssuerMismatch   = errors.New("session token issuer mismatch")
	ErrAudienceMismatch = errors.New("session token audience mismatch")
)

// Claims is the signed session payload. Subject carries the user id.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Codec issues and verifies HS256 session tokens
type Codec struct {
	secret   []byte
	issuer   string
	audience string
	validity time.Duration
	now      func() time.Time
}

// NewCodec creates a new session codec
func NewCodec(secret, issuer, audience string, validity time.Duration) *Codec {
	return &Codec{
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
		validity: validity,
		now:      time.Now,
	}
}

// WithClock returns a copy of the codec that reads time from now
func (c *Codec) WithClock(now func() time.Time) *Codec {
	cp := *c
	cp.now = now
	return &cp
}

// Validity returns how long an issued token stays valid
func (c *Codec) Validity() time.Duration {
	return c.validity
}

// Issue signs a new session token for the user
func (c *Codec) Issue(userID, email string) (string, error) {
	now := c.now().Truncate(time.Second)

	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    c.issuer,
			Audience:  jwt.ClaimStrings{c.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.validity)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}

	return token, nil
}

// Verify checks signature, issuer, audience and expiry and returns the claims.
// The returned error always matches exactly one of the Err* kinds above.
func (c *Codec) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (interface{}, error) {
			return c.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(c.issuer),
		jwt.WithAudience(c.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return nil, classify(err)
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrMalformed)
	}

	return claims, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", ErrExpired, err)
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return fmt.Errorf("%w: %v", ErrIssuerMismatch, err)
	case errors.Is(err, jwt.ErrTokenInvalidAudience):
		return fmt.Errorf("%w: %v", ErrAudienceMismatch, err)
	default:
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
}
