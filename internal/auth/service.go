// ABOUTME: Login and registration orchestration for studiod
// ABOUTME: Composes password verification and token issuance over the user store

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/studiod/studiod/internal/store"
)

// ErrUnauthorized is the single failure surfaced by Login. Unknown email,
// wrong password, and blank input all collapse into it so the response does
// not leak account state.
var ErrUnauthorized = errors.New("unauthorized")

// ErrEmailTaken is returned by Register when the email is already registered.
var ErrEmailTaken = errors.New("email already taken")

// UserStore is the persistence surface the auth service needs.
type UserStore interface {
	GetUserByEmail(ctx context.Context, email string) (*store.User, error)
	CreateUser(ctx context.Context, user *store.User) error
}

// LoginResult is returned to the client on successful login.
type LoginResult struct {
	Token     string `json:"token"`
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Admin     bool   `json:"admin"`
}

// RegisterRequest carries the fields needed to create an account.
type RegisterRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Password  string `json:"password"`
}

// Service implements login and registration on top of a user store and a
// token codec, both injected at construction.
type Service struct {
	users  UserStore
	codec  *TokenCodec
	logger *slog.Logger
}

// NewService creates an auth service.
func NewService(users UserStore, codec *TokenCodec) *Service {
	return &Service{
		users:  users,
		codec:  codec,
		logger: slog.Default().With("component", "auth"),
	}
}

// Login verifies the credentials and issues a token. Every failure class
// maps to ErrUnauthorized.
//
// After the credential check, the profile is looked up again to fill the
// summary fields. A lookup miss at that point still succeeds the login with
// zero-value profile fields. That permissive fallback is intentional
// compatibility with the system this replaces; see DESIGN.md before
// hardening it.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		// Burn a bcrypt comparison so unknown emails take as long as
		// wrong passwords.
		CheckPassword(password, "")
		if !errors.Is(err, store.ErrNotFound) {
			s.logger.Error("user lookup failed during login", "error", err)
		}
		return nil, ErrUnauthorized
	}

	if !CheckPassword(password, user.PasswordHash) {
		return nil, ErrUnauthorized
	}

	token, err := s.codec.Issue(user.Email)
	if err != nil {
		s.logger.Error("token issuance failed", "error", err)
		return nil, ErrUnauthorized
	}

	result := &LoginResult{
		Token:    token,
		ID:       user.ID,
		Username: user.Email,
	}

	if profile, err := s.users.GetUserByEmail(ctx, user.Email); err == nil {
		result.FirstName = profile.FirstName
		result.LastName = profile.LastName
		result.Admin = profile.Admin
	}

	s.logger.Info("login successful", "user_id", user.ID)
	return result, nil
}

// Register creates a new account with a hashed password.
// Returns ErrEmailTaken if the email is already registered.
func (s *Service) Register(ctx context.Context, req RegisterRequest) error {
	if _, err := s.users.GetUserByEmail(ctx, req.Email); err == nil {
		return ErrEmailTaken
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	user := &store.User{
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: hash,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return ErrEmailTaken
		}
		return fmt.Errorf("creating user: %w", err)
	}

	s.logger.Info("user registered", "user_id", user.ID)
	return nil
}
