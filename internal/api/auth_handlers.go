// ABOUTME: HTTP handlers for login and registration
// ABOUTME: Thin JSON adapters over the auth service

package api

import (
	"encoding/json"
	"net/http"

	"github.com/studiod/studiod/internal/auth"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, result)
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req auth.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		h.writeMessage(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	if err := h.auth.Register(r.Context(), req); err != nil {
		h.writeError(w, err)
		return
	}

	h.writeMessage(w, http.StatusOK, "User registered successfully!")
}
