// ABOUTME: Local decoding of backend-issued bearer tokens
// ABOUTME: Extracts subject, name, email and expiry without verifying the signature

package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMalformed indicates a token that cannot be decoded or lacks required claims.
var ErrMalformed = errors.New("malformed token")

// Claims is the identity carried in a session token
type Claims struct {
	Subject   string
	Name      string
	Email     string
	ExpiresAt time.Time
}

// Expired reports whether the token is expired at now. A token expiring
// exactly at now counts as expired.
func (c *Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.After(now)
}

// sessionClaims is the payload shape the backend signs
type sessionClaims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

var parser = jwt.NewParser()

// Decode reads the claims from a JWT. The client has no key, so the signature
// is not checked; the backend remains the authority on validity.
func Decode(raw string) (*Claims, error) {
	if raw == "" {
		return nil, fmt.Errorf("%w: empty token", ErrMalformed)
	}

	var claims sessionClaims
	if _, _, err := parser.ParseUnverified(raw, &claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing sub claim", ErrMalformed)
	}
	if claims.ExpiresAt == nil {
		return nil, fmt.Errorf("%w: missing exp claim", ErrMalformed)
	}

	return &Claims{
		Subject:   claims.Subject,
		Name:      claims.Name,
		Email:     claims.Email,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Sign issues an HS256 token carrying the session claims. The client never
// signs; this exists for the fake backend used in tests and local demos.
func Sign(secret []byte, subject, name, email string, expiresAt time.Time) (string, error) {
	claims := sessionClaims{
		Name:  name,
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// Verify checks an HS256 signature and expiry and returns the claims
func Verify(secret []byte, raw string) (*Claims, error) {
	var claims sessionClaims
	tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if !tok.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return &Claims{
		Subject:   claims.Subject,
		Name:      claims.Name,
		Email:     claims.Email,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
