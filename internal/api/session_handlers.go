// ABOUTME: HTTP handlers for session CRUD and roster membership
// ABOUTME: Maps JSON requests onto the session service and back

package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/studiod/studiod/internal/store"
)

type sessionRequest struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	TeacherID   int64     `json:"teacher_id"`
}

func (h *Handler) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.sessions.List(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	dtos := make([]sessionDTO, 0, len(sessions))
	for _, s := range sessions {
		dtos = append(dtos, toSessionDTO(s))
	}

	h.writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeMessage(w, http.StatusBadRequest, "Invalid session id")
		return
	}

	sess, err := h.sessions.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, toSessionDTO(sess))
}

func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	sess := &store.Session{
		Name:        req.Name,
		Description: req.Description,
		Date:        req.Date,
		TeacherID:   req.TeacherID,
	}

	if err := h.sessions.Create(r.Context(), sess); err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, toSessionDTO(sess))
}

func (h *Handler) handleUpdateSession(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeMessage(w, http.StatusBadRequest, "Invalid session id")
		return
	}

	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	sess := &store.Session{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Date:        req.Date,
		TeacherID:   req.TeacherID,
	}

	if err := h.sessions.Update(r.Context(), sess); err != nil {
		h.writeError(w, err)
		return
	}

	updated, err := h.sessions.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, toSessionDTO(updated))
}

func (h *Handler) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeMessage(w, http.StatusBadRequest, "Invalid session id")
		return
	}

	if err := h.sessions.Delete(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}

	h.writeMessage(w, http.StatusOK, "Session deleted")
}

func (h *Handler) handleParticipate(w http.ResponseWriter, r *http.Request) {
	sessionID, err := pathID(r, "id")
	if err != nil {
		h.writeMessage(w, http.StatusBadRequest, "Invalid session id")
		return
	}
	userID, err := pathID(r, "userId")
	if err != nil {
		h.writeMessage(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	if err := h.sessions.Participate(r.Context(), sessionID, userID); err != nil {
		h.writeError(w, err)
		return
	}

	h.writeMessage(w, http.StatusOK, "Participation recorded")
}

func (h *Handler) handleNoLongerParticipate(w http.ResponseWriter, r *http.Request) {
	sessionID, err := pathID(r, "id")
	if err != nil {
		h.writeMessage(w, http.StatusBadRequest, "Invalid session id")
		return
	}
	userID, err := pathID(r, "userId")
	if err != nil {
		h.writeMessage(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	if err := h.sessions.NoLongerParticipate(r.Context(), sessionID, userID); err != nil {
		h.writeError(w, err)
		return
	}

	h.writeMessage(w, http.StatusOK, "Participation removed")
}
