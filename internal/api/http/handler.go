// Package http exposes the CMS and the per-user session store over HTTP.
package http

import (
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/aliskhannn/japan-trivia/internal/auth"
)

type Handler struct {
	quizzes     QuizService
	generation  GenerationService
	sessions    SessionService
	settings    SettingsService
	auth        *auth.Service
	credentials auth.Credentials
	validate    *validator.Validate
	logger      *zap.Logger
}

func NewHandler(
	quizzes QuizService,
	generation GenerationService,
	sessions SessionService,
	settings SettingsService,
	authService *auth.Service,
	credentials auth.Credentials,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		quizzes:     quizzes,
		generation:  generation,
		sessions:    sessions,
		settings:    settings,
		auth:        authService,
		credentials: credentials,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		logger:      logger,
	}
}
