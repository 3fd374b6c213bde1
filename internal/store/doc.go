// Package store provides persistent storage for studiod using SQLite.
//
// # Architecture
//
// The Store interface covers users, teachers, sessions, and the session
// roster. SQLiteStore implements it on database/sql with the pure-Go
// modernc.org/sqlite driver; the schema is created on open and the database
// runs in WAL mode with foreign keys enabled.
//
// # Data Models
//
//   - User: registered account with a bcrypt password hash and admin flag
//   - Teacher: class teacher, read-mostly
//   - Session: bookable class session with a roster of user IDs
//
// # Roster Invariants
//
// A user appears at most once on a session roster, and can only be removed
// while present. AddParticipant and RemoveParticipant enforce this inside
// single write transactions (the store opens connections with
// _txlock=immediate so write transactions serialize), with the composite
// primary key on session_users as a second line of defense. Rosters are
// returned in insertion order; removal deletes the matching row only and
// never reorders the remainder.
package store
