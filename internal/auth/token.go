// ABOUTME: JWT issuance and validation for authenticating API requests
// ABOUTME: Uses HS512 signing with a configurable secret and token lifetime

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token errors
var (
	ErrInvalidToken = errors.New("invalid token")
	ErrMissingClaim = errors.New("missing required claim")
)

// TokenCodec issues and validates HS512 signed JWTs. Tokens are stateless:
// nothing is stored server-side, validity is determined entirely by the
// signature and the exp claim.
type TokenCodec struct {
	secret   []byte
	lifetime time.Duration
}

// NewTokenCodec creates a codec with the given signing secret and token lifetime.
func NewTokenCodec(secret []byte, lifetime time.Duration) *TokenCodec {
	return &TokenCodec{secret: secret, lifetime: lifetime}
}

// Issue creates a new token for the given username with the configured lifetime.
func (c *TokenCodec) Issue(username string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": username,
		"iat": now.Unix(),
		"exp": now.Add(c.lifetime).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	return token.SignedString(c.secret)
}

// Validate reports whether the token is well-formed, carries a valid HMAC
// signature, and has not expired. It is total: every malformed input class
// (empty string, garbage, wrong signature, foreign secret, expired) yields
// false rather than an error.
func (c *TokenCodec) Validate(tokenString string) bool {
	token, err := c.parse(tokenString)
	return err == nil && token.Valid
}

// Subject decodes and returns the sub claim. Callers must check Validate
// first; Subject returns an error for any token that does not validate or
// that lacks a non-empty subject.
func (c *TokenCodec) Subject(tokenString string) (string, error) {
	token, err := c.parse(tokenString)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", fmt.Errorf("%w: sub", ErrMissingClaim)
	}

	return sub, nil
}

func (c *TokenCodec) parse(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Validate the signing method is HMAC
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return c.secret, nil
	})
}
