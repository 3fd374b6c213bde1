// ABOUTME: SQLite implementation of the Store interface using modernc.org/sqlite
// ABOUTME: Provides user/teacher/session persistence with automatic schema creation

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements the Store interface using SQLite
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore creates a new SQLite store at the given path.
// The schema is automatically created if it doesn't exist.
// Parent directories are created if needed.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	logger := slog.Default().With("component", "store")

	// _txlock=immediate makes write transactions take the write lock up
	// front, serializing concurrent roster mutations instead of letting two
	// transactions race past the membership check, and busy_timeout makes a
	// contending writer wait for the lock rather than fail with SQLITE_BUSY.
	// foreign_keys is a per-connection pragma, so it goes in the DSN to
	// cover every pooled connection.
	const params = "_txlock=immediate&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"

	dsn := path + "?" + params
	if path == ":memory:" {
		// A plain :memory: DSN hands each pooled connection its own empty
		// database; shared cache plus a single connection keeps one.
		dsn = "file::memory:?cache=shared&" + params
	} else {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	// Enable WAL mode for better concurrent performance (sticky per database)
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{
		db:     db,
		logger: logger,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Info("SQLite store initialized", "path", path)
	return s, nil
}

// createSchema creates the database tables if they don't exist
func (s *SQLiteStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			email TEXT NOT NULL,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			admin INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		);

		CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email
			ON users(email);

		CREATE TABLE IF NOT EXISTS teachers (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			description TEXT NOT NULL,
			date DATETIME NOT NULL,
			teacher_id INTEGER NOT NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS session_users (
			session_id INTEGER NOT NULL,
			user_id INTEGER NOT NULL,
			created_at DATETIME NOT NULL,
			PRIMARY KEY (session_id, user_id),
			FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE,
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
		);

		CREATE INDEX IF NOT EXISTS idx_session_users_session
			ON session_users(session_id);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("executing schema: %w", err)
	}

	return nil
}

// Close closes the underlying database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// isConstraintViolation checks if the error is a SQLite UNIQUE constraint violation
func isConstraintViolation(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "UNIQUE constraint failed") ||
		strings.Contains(errStr, "constraint failed")
}

// CreateUser inserts a new user and sets its assigned ID.
// Returns ErrDuplicateEmail if the email is already registered.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *User) error {
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = now
	}

	query := `
		INSERT INTO users (email, first_name, last_name, password_hash, admin, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	res, err := s.db.ExecContext(ctx, query,
		user.Email,
		user.FirstName,
		user.LastName,
		user.PasswordHash,
		user.Admin,
		user.CreatedAt.Format(time.RFC3339),
		user.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		if isConstraintViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("inserting user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading user id: %w", err)
	}
	user.ID = id

	s.logger.Debug("created user", "id", user.ID, "email", user.Email)
	return nil
}

// GetUser retrieves a user by ID.
// Returns ErrNotFound if the user doesn't exist.
func (s *SQLiteStore) GetUser(ctx context.Context, id int64) (*User, error) {
	query := `
		SELECT id, email, first_name, last_name, password_hash, admin, created_at, updated_at
		FROM users WHERE id = ?
	`
	return s.scanUser(s.db.QueryRowContext(ctx, query, id))
}

// GetUserByEmail retrieves a user by email.
// Returns ErrNotFound if no user is registered under the email.
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	query := `
		SELECT id, email, first_name, last_name, password_hash, admin, created_at, updated_at
		FROM users WHERE email = ?
	`
	return s.scanUser(s.db.QueryRowContext(ctx, query, email))
}

func (s *SQLiteStore) scanUser(row *sql.Row) (*User, error) {
	var u User
	var createdAt, updatedAt string

	err := row.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.PasswordHash, &u.Admin, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning user: %w", err)
	}

	if u.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if u.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}

	return &u, nil
}

// DeleteUser removes a user by ID.
// Returns ErrNotFound if the user doesn't exist.
func (s *SQLiteStore) DeleteUser(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	s.logger.Debug("deleted user", "id", id)
	return nil
}

// CreateTeacher inserts a new teacher and sets its assigned ID.
func (s *SQLiteStore) CreateTeacher(ctx context.Context, teacher *Teacher) error {
	now := time.Now().UTC()
	if teacher.CreatedAt.IsZero() {
		teacher.CreatedAt = now
	}
	if teacher.UpdatedAt.IsZero() {
		teacher.UpdatedAt = now
	}

	query := `
		INSERT INTO teachers (first_name, last_name, created_at, updated_at)
		VALUES (?, ?, ?, ?)
	`

	res, err := s.db.ExecContext(ctx, query,
		teacher.FirstName,
		teacher.LastName,
		teacher.CreatedAt.Format(time.RFC3339),
		teacher.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting teacher: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading teacher id: %w", err)
	}
	teacher.ID = id

	return nil
}

// GetTeacher retrieves a teacher by ID.
// Returns ErrNotFound if the teacher doesn't exist.
func (s *SQLiteStore) GetTeacher(ctx context.Context, id int64) (*Teacher, error) {
	query := `
		SELECT id, first_name, last_name, created_at, updated_at
		FROM teachers WHERE id = ?
	`

	var t Teacher
	var createdAt, updatedAt string

	err := s.db.QueryRowContext(ctx, query, id).Scan(&t.ID, &t.FirstName, &t.LastName, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning teacher: %w", err)
	}

	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if t.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}

	return &t, nil
}

// ListTeachers returns all teachers ordered by ID.
func (s *SQLiteStore) ListTeachers(ctx context.Context) ([]*Teacher, error) {
	query := `
		SELECT id, first_name, last_name, created_at, updated_at
		FROM teachers ORDER BY id
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing teachers: %w", err)
	}
	defer rows.Close()

	var teachers []*Teacher
	for rows.Next() {
		var t Teacher
		var createdAt, updatedAt string

		if err := rows.Scan(&t.ID, &t.FirstName, &t.LastName, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning teacher: %w", err)
		}
		if t.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		if t.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, err
		}
		teachers = append(teachers, &t)
	}

	return teachers, rows.Err()
}

// CreateSession inserts a new session and sets its assigned ID.
func (s *SQLiteStore) CreateSession(ctx context.Context, session *Session) error {
	now := time.Now().UTC()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	if session.UpdatedAt.IsZero() {
		session.UpdatedAt = now
	}

	query := `
		INSERT INTO sessions (name, description, date, teacher_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	res, err := s.db.ExecContext(ctx, query,
		session.Name,
		session.Description,
		session.Date.Format(time.RFC3339),
		session.TeacherID,
		session.CreatedAt.Format(time.RFC3339),
		session.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting session: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading session id: %w", err)
	}
	session.ID = id

	s.logger.Debug("created session", "id", session.ID, "name", session.Name)
	return nil
}

// GetSession retrieves a session by ID, including its roster in insertion order.
// Returns ErrNotFound if the session doesn't exist.
func (s *SQLiteStore) GetSession(ctx context.Context, id int64) (*Session, error) {
	query := `
		SELECT id, name, description, date, teacher_id, created_at, updated_at
		FROM sessions WHERE id = ?
	`

	sess, err := s.scanSession(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}

	if sess.Users, err = s.listParticipants(ctx, sess.ID); err != nil {
		return nil, err
	}

	return sess, nil
}

func (s *SQLiteStore) scanSession(row *sql.Row) (*Session, error) {
	var sess Session
	var date, createdAt, updatedAt string

	err := row.Scan(&sess.ID, &sess.Name, &sess.Description, &date, &sess.TeacherID, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning session: %w", err)
	}

	if sess.Date, err = parseTime(date); err != nil {
		return nil, err
	}
	if sess.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if sess.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}

	return &sess, nil
}

// listParticipants returns the roster for a session in insertion order.
func (s *SQLiteStore) listParticipants(ctx context.Context, sessionID int64) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id FROM session_users WHERE session_id = ? ORDER BY rowid`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("listing participants: %w", err)
	}
	defer rows.Close()

	var users []int64
	for rows.Next() {
		var userID int64
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("scanning participant: %w", err)
		}
		users = append(users, userID)
	}

	return users, rows.Err()
}

// ListSessions returns all sessions ordered by ID, rosters included.
func (s *SQLiteStore) ListSessions(ctx context.Context) ([]*Session, error) {
	query := `
		SELECT id, name, description, date, teacher_id, created_at, updated_at
		FROM sessions ORDER BY id
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		var sess Session
		var date, createdAt, updatedAt string

		if err := rows.Scan(&sess.ID, &sess.Name, &sess.Description, &date, &sess.TeacherID, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		if sess.Date, err = parseTime(date); err != nil {
			return nil, err
		}
		if sess.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		if sess.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, err
		}
		sessions = append(sessions, &sess)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, sess := range sessions {
		if sess.Users, err = s.listParticipants(ctx, sess.ID); err != nil {
			return nil, err
		}
	}

	return sessions, nil
}

// UpdateSession updates a session's mutable fields.
// Returns ErrNotFound if the session doesn't exist.
func (s *SQLiteStore) UpdateSession(ctx context.Context, session *Session) error {
	session.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE sessions
		SET name = ?, description = ?, date = ?, teacher_id = ?, updated_at = ?
		WHERE id = ?
	`

	res, err := s.db.ExecContext(ctx, query,
		session.Name,
		session.Description,
		session.Date.Format(time.RFC3339),
		session.TeacherID,
		session.UpdatedAt.Format(time.RFC3339),
		session.ID,
	)
	if err != nil {
		return fmt.Errorf("updating session: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update result: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	return nil
}

// DeleteSession removes a session by ID. Roster rows are removed by cascade.
// Returns ErrNotFound if the session doesn't exist.
func (s *SQLiteStore) DeleteSession(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	s.logger.Debug("deleted session", "id", id)
	return nil
}

// AddParticipant adds a user to a session roster.
// The membership check and insert run in one write transaction, with the
// composite primary key as a backstop, so the no-duplicate invariant holds
// under concurrent joins.
// Returns ErrNotFound if the session doesn't exist and ErrAlreadyParticipating
// if the user is already on the roster.
func (s *SQLiteStore) AddParticipant(ctx context.Context, sessionID, userID int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if err := sessionExists(ctx, tx, sessionID); err != nil {
		return err
	}

	var one int
	err = tx.QueryRowContext(ctx,
		`SELECT 1 FROM session_users WHERE session_id = ? AND user_id = ?`,
		sessionID, userID).Scan(&one)
	if err == nil {
		return ErrAlreadyParticipating
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("checking membership: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO session_users (session_id, user_id, created_at) VALUES (?, ?, ?)`,
		sessionID, userID, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrAlreadyParticipating
		}
		if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
			return ErrNotFound
		}
		return fmt.Errorf("inserting participant: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing participant: %w", err)
	}

	s.logger.Debug("added participant", "session_id", sessionID, "user_id", userID)
	return nil
}

// RemoveParticipant removes a user from a session roster. The delete matches
// a single row, so the remaining roster keeps its insertion order.
// Returns ErrNotFound if the session doesn't exist and ErrNotParticipating
// if the user is not on the roster.
func (s *SQLiteStore) RemoveParticipant(ctx context.Context, sessionID, userID int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if err := sessionExists(ctx, tx, sessionID); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx,
		`DELETE FROM session_users WHERE session_id = ? AND user_id = ?`,
		sessionID, userID)
	if err != nil {
		return fmt.Errorf("deleting participant: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if n == 0 {
		return ErrNotParticipating
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing participant removal: %w", err)
	}

	s.logger.Debug("removed participant", "session_id", sessionID, "user_id", userID)
	return nil
}

// sessionExists verifies the session row inside the given transaction.
func sessionExists(ctx context.Context, tx *sql.Tx, sessionID int64) error {
	var one int
	err := tx.QueryRowContext(ctx, `SELECT 1 FROM sessions WHERE id = ?`, sessionID).Scan(&one)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("checking session: %w", err)
	}
	return nil
}

// parseTime parses an RFC3339 timestamp stored by this package.
func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	return t, nil
}
