// ABOUTME: Store interface and data types for studiod persistence
// ABOUTME: Defines User, Teacher, Session structs and the Store interface for database operations

package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// ErrDuplicateEmail is returned when creating a user with an email that is already registered
var ErrDuplicateEmail = errors.New("email already registered")

// ErrAlreadyParticipating is returned when adding a user to a session roster they are already on
var ErrAlreadyParticipating = errors.New("user already participates in session")

// ErrNotParticipating is returned when removing a user from a session roster they are not on
var ErrNotParticipating = errors.New("user does not participate in session")

// User represents a registered account. PasswordHash holds a bcrypt hash,
// never a plaintext password.
type User struct {
	ID           int64
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string
	Admin        bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Teacher represents a class teacher
type Teacher struct {
	ID        int64
	FirstName string
	LastName  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Session represents a bookable class session. Users holds the roster as
// user IDs in insertion order.
type Session struct {
	ID          int64
	Name        string
	Description string
	Date        time.Time
	TeacherID   int64
	Users       []int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Store defines the interface for studiod persistence
type Store interface {
	// Users
	CreateUser(ctx context.Context, user *User) error
	GetUser(ctx context.Context, id int64) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	DeleteUser(ctx context.Context, id int64) error

	// Teachers
	CreateTeacher(ctx context.Context, teacher *Teacher) error
	GetTeacher(ctx context.Context, id int64) (*Teacher, error)
	ListTeachers(ctx context.Context) ([]*Teacher, error)

	// Sessions
	CreateSession(ctx context.Context, session *Session) error
	GetSession(ctx context.Context, id int64) (*Session, error)
	ListSessions(ctx context.Context) ([]*Session, error)
	UpdateSession(ctx context.Context, session *Session) error
	DeleteSession(ctx context.Context, id int64) error

	// Roster. Both operations are atomic: the membership check and the
	// mutation happen inside a single write transaction so two concurrent
	// joins cannot both observe "not yet present".
	AddParticipant(ctx context.Context, sessionID, userID int64) error
	RemoveParticipant(ctx context.Context, sessionID, userID int64) error

	// Close releases any resources held by the store
	Close() error
}
