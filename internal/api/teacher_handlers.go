// ABOUTME: HTTP handlers for the read-only teacher endpoints
// ABOUTME: Serves the teacher list and single-teacher lookups

package api

import (
	"net/http"
)

func (h *Handler) handleListTeachers(w http.ResponseWriter, r *http.Request) {
	teachers, err := h.store.ListTeachers(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	dtos := make([]teacherDTO, 0, len(teachers))
	for _, t := range teachers {
		dtos = append(dtos, toTeacherDTO(t))
	}

	h.writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) handleGetTeacher(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeMessage(w, http.StatusBadRequest, "Invalid teacher id")
		return
	}

	teacher, err := h.store.GetTeacher(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, toTeacherDTO(teacher))
}
