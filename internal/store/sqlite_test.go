// ABOUTME: Tests for the SQLite store implementation
// ABOUTME: Covers user/teacher/session CRUD and roster invariants

package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func createTestUser(t *testing.T, s *SQLiteStore, email string) *User {
	t.Helper()
	u := &User{Email: email, FirstName: "Test", LastName: "User", PasswordHash: "hash"}
	if err := s.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	return u
}

func createTestSession(t *testing.T, s *SQLiteStore, name string) *Session {
	t.Helper()
	sess := &Session{Name: name, Description: "desc", Date: time.Now().UTC(), TeacherID: 1}
	if err := s.CreateSession(context.Background(), sess); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	return sess
}

func TestNewSQLiteStore_CreatesDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "nested", "test.db")

	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestUserCRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := createTestUser(t, s, "a@x.com")
	if u.ID == 0 {
		t.Fatal("CreateUser did not assign an ID")
	}

	got, err := s.GetUser(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if got.Email != "a@x.com" || got.FirstName != "Test" {
		t.Errorf("GetUser = %+v", got)
	}

	byEmail, err := s.GetUserByEmail(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if byEmail.ID != u.ID {
		t.Errorf("GetUserByEmail ID = %d, want %d", byEmail.ID, u.ID)
	}

	if err := s.DeleteUser(ctx, u.ID); err != nil {
		t.Fatalf("DeleteUser failed: %v", err)
	}
	if _, err := s.GetUser(ctx, u.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetUser after delete = %v, want ErrNotFound", err)
	}
	if err := s.DeleteUser(ctx, u.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second DeleteUser = %v, want ErrNotFound", err)
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	s := newTestStore(t)
	createTestUser(t, s, "a@x.com")

	dup := &User{Email: "a@x.com", PasswordHash: "other"}
	if err := s.CreateUser(context.Background(), dup); !errors.Is(err, ErrDuplicateEmail) {
		t.Errorf("CreateUser duplicate = %v, want ErrDuplicateEmail", err)
	}
}

func TestGetUser_NotFound(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.GetUser(context.Background(), 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetUser = %v, want ErrNotFound", err)
	}
	if _, err := s.GetUserByEmail(context.Background(), "nobody@x.com"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetUserByEmail = %v, want ErrNotFound", err)
	}
}

func TestTeachers(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	t1 := &Teacher{FirstName: "Margot", LastName: "DELAHAYE"}
	t2 := &Teacher{FirstName: "Helene", LastName: "THIERCELIN"}
	if err := s.CreateTeacher(ctx, t1); err != nil {
		t.Fatalf("CreateTeacher failed: %v", err)
	}
	if err := s.CreateTeacher(ctx, t2); err != nil {
		t.Fatalf("CreateTeacher failed: %v", err)
	}

	got, err := s.GetTeacher(ctx, t1.ID)
	if err != nil {
		t.Fatalf("GetTeacher failed: %v", err)
	}
	if got.LastName != "DELAHAYE" {
		t.Errorf("GetTeacher = %+v", got)
	}

	list, err := s.ListTeachers(ctx)
	if err != nil {
		t.Fatalf("ListTeachers failed: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("ListTeachers len = %d, want 2", len(list))
	}

	if _, err := s.GetTeacher(ctx, 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetTeacher missing = %v, want ErrNotFound", err)
	}
}

func TestSessionCRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	sess := createTestSession(t, s, "Morning Flow")
	if sess.ID == 0 {
		t.Fatal("CreateSession did not assign an ID")
	}

	got, err := s.GetSession(ctx, sess.ID)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if got.Name != "Morning Flow" || len(got.Users) != 0 {
		t.Errorf("GetSession = %+v", got)
	}

	got.Name = "Evening Flow"
	if err := s.UpdateSession(ctx, got); err != nil {
		t.Fatalf("UpdateSession failed: %v", err)
	}
	updated, err := s.GetSession(ctx, sess.ID)
	if err != nil {
		t.Fatalf("GetSession after update failed: %v", err)
	}
	if updated.Name != "Evening Flow" {
		t.Errorf("name after update = %q", updated.Name)
	}

	missing := &Session{ID: 999, Name: "x", Date: time.Now()}
	if err := s.UpdateSession(ctx, missing); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateSession missing = %v, want ErrNotFound", err)
	}

	list, err := s.ListSessions(ctx)
	if err != nil {
		t.Fatalf("ListSessions failed: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("ListSessions len = %d, want 1", len(list))
	}

	if err := s.DeleteSession(ctx, sess.ID); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}
	if _, err := s.GetSession(ctx, sess.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetSession after delete = %v, want ErrNotFound", err)
	}
}

func TestRoster_JoinLeaveInvariants(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	sess := createTestSession(t, s, "Morning Flow")
	user := createTestUser(t, s, "a@x.com")

	// join → roster=[user]
	if err := s.AddParticipant(ctx, sess.ID, user.ID); err != nil {
		t.Fatalf("AddParticipant failed: %v", err)
	}
	got, _ := s.GetSession(ctx, sess.ID)
	if len(got.Users) != 1 || got.Users[0] != user.ID {
		t.Fatalf("roster = %v, want [%d]", got.Users, user.ID)
	}

	// joining again conflicts, roster unchanged
	if err := s.AddParticipant(ctx, sess.ID, user.ID); !errors.Is(err, ErrAlreadyParticipating) {
		t.Errorf("second AddParticipant = %v, want ErrAlreadyParticipating", err)
	}
	got, _ = s.GetSession(ctx, sess.ID)
	if len(got.Users) != 1 {
		t.Errorf("roster after duplicate join = %v", got.Users)
	}

	// leave → roster=[]
	if err := s.RemoveParticipant(ctx, sess.ID, user.ID); err != nil {
		t.Fatalf("RemoveParticipant failed: %v", err)
	}
	got, _ = s.GetSession(ctx, sess.ID)
	if len(got.Users) != 0 {
		t.Errorf("roster after leave = %v, want empty", got.Users)
	}

	// leaving again conflicts
	if err := s.RemoveParticipant(ctx, sess.ID, user.ID); !errors.Is(err, ErrNotParticipating) {
		t.Errorf("second RemoveParticipant = %v, want ErrNotParticipating", err)
	}
}

func TestRoster_ConcurrentJoins(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	sess := createTestSession(t, s, "Morning Flow")
	user := createTestUser(t, s, "a@x.com")

	// All joins race on one (session, user) pair: exactly one must win,
	// the rest must see the conflict, and none may fail on lock contention.
	const workers = 16
	errs := make(chan error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.AddParticipant(ctx, sess.ID, user.ID)
		}()
	}
	wg.Wait()
	close(errs)

	var successes, conflicts int
	for err := range errs {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrAlreadyParticipating):
			conflicts++
		default:
			t.Errorf("AddParticipant = %v, want nil or ErrAlreadyParticipating", err)
		}
	}
	if successes != 1 {
		t.Errorf("successful joins = %d, want exactly 1", successes)
	}
	if conflicts != workers-1 {
		t.Errorf("conflicting joins = %d, want %d", conflicts, workers-1)
	}

	got, err := s.GetSession(ctx, sess.ID)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if len(got.Users) != 1 || got.Users[0] != user.ID {
		t.Errorf("roster = %v, want [%d]", got.Users, user.ID)
	}
}

func TestNewSQLiteStore_InMemory(t *testing.T) {
	s, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	u := createTestUser(t, s, "a@x.com")

	// Concurrent reads must all see the same database; a fresh pooled
	// connection landing in its own empty one would fail here.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.GetUser(ctx, u.ID); err != nil {
				t.Errorf("GetUser failed: %v", err)
			}
		}()
	}
	wg.Wait()
}

func TestRoster_SessionNotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	user := createTestUser(t, s, "a@x.com")

	if err := s.AddParticipant(ctx, 999, user.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("AddParticipant missing session = %v, want ErrNotFound", err)
	}
	if err := s.RemoveParticipant(ctx, 999, user.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("RemoveParticipant missing session = %v, want ErrNotFound", err)
	}
}

func TestRoster_OrderPreservingRemoval(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	sess := createTestSession(t, s, "Morning Flow")
	u1 := createTestUser(t, s, "a@x.com")
	u2 := createTestUser(t, s, "b@x.com")
	u3 := createTestUser(t, s, "c@x.com")

	for _, id := range []int64{u1.ID, u2.ID, u3.ID} {
		if err := s.AddParticipant(ctx, sess.ID, id); err != nil {
			t.Fatalf("AddParticipant(%d) failed: %v", id, err)
		}
	}

	// remove the middle member
	if err := s.RemoveParticipant(ctx, sess.ID, u2.ID); err != nil {
		t.Fatalf("RemoveParticipant failed: %v", err)
	}

	got, err := s.GetSession(ctx, sess.ID)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if len(got.Users) != 2 || got.Users[0] != u1.ID || got.Users[1] != u3.ID {
		t.Errorf("roster = %v, want [%d %d] in order", got.Users, u1.ID, u3.ID)
	}
}

func TestRoster_CascadeOnSessionDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	sess := createTestSession(t, s, "Morning Flow")
	user := createTestUser(t, s, "a@x.com")

	if err := s.AddParticipant(ctx, sess.ID, user.ID); err != nil {
		t.Fatalf("AddParticipant failed: %v", err)
	}
	if err := s.DeleteSession(ctx, sess.ID); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}

	// The user survives; only the roster rows go with the session
	if _, err := s.GetUser(ctx, user.ID); err != nil {
		t.Errorf("GetUser after session delete = %v", err)
	}
}
