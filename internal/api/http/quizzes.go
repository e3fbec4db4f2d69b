package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aliskhannn/japan-trivia/internal/domain/entities"
)

// GET /api/quizzes?category=&difficulty=&status=&q=
func (h *Handler) ListQuizzes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := entities.QuizFilter{
		Category:     entities.Category(q.Get("category")),
		Difficulty:   entities.Difficulty(q.Get("difficulty")),
		ReviewStatus: entities.ReviewStatus(q.Get("status")),
		SearchQuery:  q.Get("q"),
	}

	quizzes, err := h.quizzes.List(r.Context(), filter)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, quizzes)
}

// POST /api/quizzes
func (h *Handler) CreateQuiz(w http.ResponseWriter, r *http.Request) {
	var in entities.QuizInput
	if !decodeJSON(w, r, &in) {
		return
	}

	quiz, err := h.quizzes.Create(r.Context(), in)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, quiz)
}

// GET /api/quizzes/{id}
func (h *Handler) GetQuiz(w http.ResponseWriter, r *http.Request) {
	quiz, err := h.quizzes.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, quiz)
}

// PUT /api/quizzes/{id} with the fields to change.
func (h *Handler) UpdateQuiz(w http.ResponseWriter, r *http.Request) {
	var patch entities.QuizPatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	quiz, err := h.quizzes.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, quiz)
}

// POST /api/quizzes/{id}/review {"status": "...", "notes": "..."}
func (h *Handler) ReviewQuiz(w http.ResponseWriter, r *http.Request) {
	var action entities.ReviewAction
	if !decodeJSON(w, r, &action) {
		return
	}

	quiz, err := h.quizzes.Review(r.Context(), chi.URLParam(r, "id"), action)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, quiz)
}

// DELETE /api/quizzes/{id}
func (h *Handler) DeleteQuiz(w http.ResponseWriter, r *http.Request) {
	if err := h.quizzes.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type similarityRequest struct {
	Question  string `json:"question" validate:"required"`
	ExcludeID string `json:"excludeId"`
}

// POST /api/quizzes/similarity
func (h *Handler) CheckSimilarity(w http.ResponseWriter, r *http.Request) {
	var req similarityRequest
	if !decodeJSON(w, r, &req) || !h.checkStruct(w, req) {
		return
	}

	match, err := h.quizzes.CheckSimilarity(r.Context(), req.Question, req.ExcludeID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, match)
}

// GET /api/export serves the approved quizzes as a download.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	quizzes, err := h.quizzes.Export(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="quizzes.json"`)
	respondJSON(w, http.StatusOK, quizzes)
}
