package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/aliskhannn/japan-trivia/internal/ai"
	"github.com/aliskhannn/japan-trivia/internal/domain/entities"
	"github.com/aliskhannn/japan-trivia/internal/service"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// respondError maps service errors onto status codes. Server side failures are logged.
func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *service.ValidationError

	switch {
	case errors.As(err, &verr):
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "validation failed", Details: verr.Errors})
	case errors.Is(err, service.ErrEmptySession), errors.Is(err, service.ErrInvalidSession):
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, entities.ErrQuizNotFound), errors.Is(err, service.ErrReviewNotFound):
		respondJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, entities.ErrVersionConflict), errors.Is(err, entities.ErrQuizExists):
		respondJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, ai.ErrMissingAPIKey):
		respondJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "quiz generation is not configured"})
	case errors.Is(err, ai.ErrEmptyResponse), errors.Is(err, ai.ErrNotAnArray):
		h.logger.Warn("unusable generator response",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err),
		)
		respondJSON(w, http.StatusBadGateway, errorResponse{Error: "generator returned an unusable response"})
	default:
		h.logger.Error("request failed",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

// decodeJSON reads the request body into dst and answers 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "bad json", Details: []string{err.Error()}})
		return false
	}
	return true
}

// checkStruct runs the validate tags of v and answers 400 on failure.
func (h *Handler) checkStruct(w http.ResponseWriter, v any) bool {
	err := h.validate.Struct(v)
	if err == nil {
		return true
	}

	var details []string
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			details = append(details, fmt.Sprintf("%s failed %q (%s)", fe.Field(), fe.Tag(), fe.Param()))
		}
	} else {
		details = []string{err.Error()}
	}

	respondJSON(w, http.StatusBadRequest, errorResponse{Error: "validation failed", Details: details})
	return false
}

func userIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid user id"})
		return 0, false
	}
	return id, true
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
