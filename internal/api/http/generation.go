package http

import (
	"net/http"

	"github.com/aliskhannn/japan-trivia/internal/domain/entities"
)

// POST /api/generate {"category": "...", "difficulty": "...", "count": 5}
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var req entities.GenerationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	// The service checks the count range and the enums.
	drafts, err := h.generation.Generate(r.Context(), req)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"quizzes": drafts})
}

type saveGeneratedRequest struct {
	Quizzes []entities.QuizInput `json:"quizzes" validate:"required,min=1"`
}

// POST /api/generate/save
func (h *Handler) SaveGenerated(w http.ResponseWriter, r *http.Request) {
	var req saveGeneratedRequest
	if !decodeJSON(w, r, &req) || !h.checkStruct(w, req) {
		return
	}

	res, err := h.generation.SaveAll(r.Context(), req.Quizzes)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}
