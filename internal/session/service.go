// ABOUTME: Session service with CRUD and roster membership operations
// ABOUTME: Enforces join/leave invariants over the store's atomic roster primitives

package session

import (
	"context"
	"errors"
	"log/slog"

	"github.com/studiod/studiod/internal/store"
)

// Store is the persistence surface the session service needs.
type Store interface {
	CreateSession(ctx context.Context, session *store.Session) error
	GetSession(ctx context.Context, id int64) (*store.Session, error)
	ListSessions(ctx context.Context) ([]*store.Session, error)
	UpdateSession(ctx context.Context, session *store.Session) error
	DeleteSession(ctx context.Context, id int64) error
	AddParticipant(ctx context.Context, sessionID, userID int64) error
	RemoveParticipant(ctx context.Context, sessionID, userID int64) error
	GetUser(ctx context.Context, id int64) (*store.User, error)
}

// Service manages sessions and their rosters.
type Service struct {
	store  Store
	logger *slog.Logger
}

// NewService creates a session service.
func NewService(s Store) *Service {
	return &Service{
		store:  s,
		logger: slog.Default().With("component", "session"),
	}
}

// Create stores a new session.
func (s *Service) Create(ctx context.Context, sess *store.Session) error {
	return s.store.CreateSession(ctx, sess)
}

// Get returns a session by ID, roster included.
// Returns store.ErrNotFound if it doesn't exist.
func (s *Service) Get(ctx context.Context, id int64) (*store.Session, error) {
	return s.store.GetSession(ctx, id)
}

// List returns all sessions.
func (s *Service) List(ctx context.Context) ([]*store.Session, error) {
	return s.store.ListSessions(ctx)
}

// Update modifies a session's fields.
// Returns store.ErrNotFound if it doesn't exist.
func (s *Service) Update(ctx context.Context, sess *store.Session) error {
	return s.store.UpdateSession(ctx, sess)
}

// Delete removes a session.
// Returns store.ErrNotFound if it doesn't exist.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.store.DeleteSession(ctx, id)
}

// Participate adds a user to a session roster.
// Returns store.ErrNotFound if the session or user doesn't exist, and
// store.ErrAlreadyParticipating if the user is already on the roster.
func (s *Service) Participate(ctx context.Context, sessionID, userID int64) error {
	if _, err := s.store.GetUser(ctx, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.ErrNotFound
		}
		return err
	}

	if err := s.store.AddParticipant(ctx, sessionID, userID); err != nil {
		return err
	}

	s.logger.Info("user joined session", "session_id", sessionID, "user_id", userID)
	return nil
}

// NoLongerParticipate removes a user from a session roster.
// Returns store.ErrNotFound if the session doesn't exist, and
// store.ErrNotParticipating if the user is not on the roster.
func (s *Service) NoLongerParticipate(ctx context.Context, sessionID, userID int64) error {
	if err := s.store.RemoveParticipant(ctx, sessionID, userID); err != nil {
		return err
	}

	s.logger.Info("user left session", "session_id", sessionID, "user_id", userID)
	return nil
}
