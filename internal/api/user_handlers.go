// ABOUTME: HTTP handlers for user lookup and account deletion
// ABOUTME: Deletion is restricted to the authenticated account itself

package api

import (
	"net/http"

	"github.com/studiod/studiod/internal/auth"
)

func (h *Handler) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeMessage(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	user, err := h.store.GetUser(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, toUserDTO(user))
}

func (h *Handler) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeMessage(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	user, err := h.store.GetUser(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	// Accounts may only delete themselves
	principal := auth.MustFromContext(r.Context())
	if principal.Username != user.Email {
		h.writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.store.DeleteUser(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}

	h.writeMessage(w, http.StatusOK, "User deleted")
}
