// ABOUTME: HTTP handler plumbing for the studiod REST API
// ABOUTME: Shared JSON helpers, error-to-status mapping, and DTO types

package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/studiod/studiod/internal/auth"
	"github.com/studiod/studiod/internal/session"
	"github.com/studiod/studiod/internal/store"
)

// Handler carries the services the REST endpoints are built on.
type Handler struct {
	auth     *auth.Service
	sessions *session.Service
	store    store.Store
	logger   *slog.Logger
}

// NewHandler creates the API handler.
func NewHandler(authSvc *auth.Service, sessionSvc *session.Service, st store.Store) *Handler {
	return &Handler{
		auth:     authSvc,
		sessions: sessionSvc,
		store:    st,
		logger:   slog.Default().With("component", "api"),
	}
}

// messageResponse is the envelope for status-only responses.
type messageResponse struct {
	Message string `json:"message"`
}

// writeJSON writes v as a JSON response with the given status.
func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("writing response", "error", err)
	}
}

// writeMessage writes a status-only JSON response.
func (h *Handler) writeMessage(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, messageResponse{Message: msg})
}

// writeError maps service errors onto HTTP statuses. Roster conflicts and
// duplicate registrations answer 400, matching the behavior of the system
// this replaces.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		h.writeMessage(w, http.StatusNotFound, "Not found")
	case errors.Is(err, auth.ErrUnauthorized):
		h.writeMessage(w, http.StatusUnauthorized, "Bad credentials")
	case errors.Is(err, auth.ErrEmailTaken):
		h.writeMessage(w, http.StatusBadRequest, "Error: Email is already taken!")
	case errors.Is(err, store.ErrAlreadyParticipating),
		errors.Is(err, store.ErrNotParticipating):
		h.writeMessage(w, http.StatusBadRequest, "Bad request")
	default:
		h.logger.Error("request failed", "error", err)
		h.writeMessage(w, http.StatusInternalServerError, "Internal error")
	}
}

// pathID parses the named numeric URL parameter.
// A non-numeric value is a BadInput condition answered with 400 by callers.
func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

// sessionDTO is the wire shape for sessions. Field names follow the client
// contract of the original API (teacher_id is snake_case there).
type sessionDTO struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	TeacherID   int64     `json:"teacher_id"`
	Users       []int64   `json:"users"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toSessionDTO(s *store.Session) sessionDTO {
	users := s.Users
	if users == nil {
		users = []int64{}
	}
	return sessionDTO{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		Date:        s.Date,
		TeacherID:   s.TeacherID,
		Users:       users,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// teacherDTO is the wire shape for teachers.
type teacherDTO struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toTeacherDTO(t *store.Teacher) teacherDTO {
	return teacherDTO{
		ID:        t.ID,
		FirstName: t.FirstName,
		LastName:  t.LastName,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

// userDTO is the wire shape for users. The password hash never leaves the server.
type userDTO struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Admin     bool      `json:"admin"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toUserDTO(u *store.User) userDTO {
	return userDTO{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Admin:     u.Admin,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
