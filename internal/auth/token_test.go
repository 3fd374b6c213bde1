// ABOUTME: Unit tests for JWT issuance and validation
// ABOUTME: Tests valid tokens, malformed inputs, expiry, and subject extraction

package auth

import (
	"errors"
	"strings"
	"testing"
	"time"
)

var tokenTestSecret = []byte("test-secret-key-for-jwt-signing")

func TestTokenCodec_IssueAndSubject(t *testing.T) {
	codec := NewTokenCodec(tokenTestSecret, time.Hour)

	token, err := codec.Issue("user@example.com")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if !codec.Validate(token) {
		t.Fatal("Validate() = false for freshly issued token")
	}

	subject, err := codec.Subject(token)
	if err != nil {
		t.Fatalf("Subject() error = %v", err)
	}
	if subject != "user@example.com" {
		t.Errorf("Subject() = %q, want %q", subject, "user@example.com")
	}
}

func TestTokenCodec_HS512Header(t *testing.T) {
	codec := NewTokenCodec(tokenTestSecret, time.Hour)

	token, err := codec.Issue("user@example.com")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	// base64url of {"alg":"HS512","typ":"JWT"}
	if !strings.HasPrefix(token, "eyJhbGciOiJIUzUxMiI") {
		t.Errorf("token does not carry an HS512 header: %s", token[:20])
	}
}

func TestTokenCodec_ValidateIsTotal(t *testing.T) {
	codec := NewTokenCodec(tokenTestSecret, time.Hour)

	tests := []struct {
		name  string
		token string
	}{
		{
			name:  "empty token",
			token: "",
		},
		{
			name:  "garbage token",
			token: "not-a-jwt-token",
		},
		{
			name:  "malformed JWT",
			token: "header.payload.signature",
		},
		{
			name: "wrong secret",
			token: func() string {
				other := NewTokenCodec([]byte("different-secret"), time.Hour)
				token, _ := other.Issue("user@example.com")
				return token
			}(),
		},
		{
			name: "expired",
			token: func() string {
				expired := NewTokenCodec(tokenTestSecret, -time.Minute)
				token, _ := expired.Issue("user@example.com")
				return token
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if codec.Validate(tt.token) {
				t.Errorf("Validate(%q) = true, want false", tt.token)
			}
		})
	}
}

func TestTokenCodec_SubjectRejectsInvalid(t *testing.T) {
	codec := NewTokenCodec(tokenTestSecret, time.Hour)

	if _, err := codec.Subject("garbage"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Subject(garbage) error = %v, want ErrInvalidToken", err)
	}

	expired := NewTokenCodec(tokenTestSecret, -time.Minute)
	token, _ := expired.Issue("user@example.com")
	if _, err := codec.Subject(token); err == nil {
		t.Error("Subject() on expired token succeeded, want error")
	}
}

func TestTokenCodec_LifetimeBoundsValidity(t *testing.T) {
	codec := NewTokenCodec(tokenTestSecret, time.Second)

	token, err := codec.Issue("user@example.com")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if !codec.Validate(token) {
		t.Fatal("Validate() = false immediately after issuance")
	}

	// jwt/v5 allows no clock skew by default, so 2s past a 1s lifetime is expired
	time.Sleep(2 * time.Second)
	if codec.Validate(token) {
		t.Error("Validate() = true after lifetime elapsed")
	}
}
