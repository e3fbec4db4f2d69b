package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aliskhannn/japan-trivia/internal/domain/entities"
)

// POST /api/users/{userID}/sessions
func (h *Handler) RecordSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	var res entities.SessionResult
	if !decodeJSON(w, r, &res) || !h.checkStruct(w, res) {
		return
	}

	review, err := h.sessions.RecordSession(r.Context(), userID, res)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, review)
}

// GET /api/users/{userID}/stats
func (h *Handler) Statistics(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, h.sessions.Statistics(r.Context(), userID))
}

// GET /api/users/{userID}/history?limit=
// Without a positive limit the whole history is returned.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	limit := parseIntDefault(r.URL.Query().Get("limit"), 0)
	if limit > 0 {
		respondJSON(w, http.StatusOK, h.sessions.RecentSessions(r.Context(), userID, limit))
		return
	}
	respondJSON(w, http.StatusOK, h.sessions.History(r.Context(), userID))
}

// DELETE /api/users/{userID}/history
func (h *Handler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}
	if err := h.sessions.ClearStatistics(r.Context(), userID); err != nil {
		h.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /api/users/{userID}/reviews
func (h *Handler) Reviews(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, h.sessions.Reviews(r.Context(), userID))
}

// GET /api/users/{userID}/reviews/{reviewID}
func (h *Handler) Review(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	review, err := h.sessions.ReviewByID(r.Context(), userID, chi.URLParam(r, "reviewID"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, review)
}

// DELETE /api/users/{userID}/reviews
func (h *Handler) ClearReviews(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}
	if err := h.sessions.ClearReviews(r.Context(), userID); err != nil {
		h.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /api/users/{userID}/settings
func (h *Handler) Settings(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, h.settings.Load(r.Context(), userID))
}

// PUT /api/users/{userID}/settings
func (h *Handler) SaveSettings(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	var settings entities.Settings
	if !decodeJSON(w, r, &settings) {
		return
	}
	if err := h.settings.Save(r.Context(), userID, settings); err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, settings)
}
