package http

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/japan-trivia/internal/auth"
)

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// POST /auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) || !h.checkStruct(w, req) {
		return
	}

	if err := h.credentials.Verify(req.Username, req.Password); err != nil {
		h.logger.Warn("failed login", zap.String("username", req.Username))
		respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid credentials"})
		return
	}

	tok, expires, err := h.auth.IssueJWT(req.Username, auth.RoleAdmin)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, loginResponse{AccessToken: tok, ExpiresAt: expires})
}
