package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/aliskhannn/japan-trivia/internal/domain/entities"
	"github.com/aliskhannn/japan-trivia/internal/repository"
)

// SettingsService owns the quiz preferences of each user.
type SettingsService struct {
	repository SettingsRepository
	logger     *zap.Logger
}

func NewSettingsService(repository SettingsRepository, logger *zap.Logger) *SettingsService {
	return &SettingsService{repository: repository, logger: logger}
}

// Load returns the stored settings, or the defaults when none are stored or
// they cannot be read.
func (s *SettingsService) Load(ctx context.Context, userID int64) entities.Settings {
	settings, err := s.repository.GetByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, repository.ErrSettingsNotFound) {
			s.logger.Warn("failed to load settings, using defaults",
				zap.Int64("user_id", userID),
				zap.Error(err),
			)
		}
		return entities.DefaultSettings()
	}

	if !settings.DefaultQuestionCount.Valid() {
		return entities.DefaultSettings()
	}
	return *settings
}

func (s *SettingsService) Save(ctx context.Context, userID int64, settings entities.Settings) error {
	if !settings.DefaultQuestionCount.Valid() {
		return &ValidationError{Errors: []string{
			fmt.Sprintf("invalid question count %d", settings.DefaultQuestionCount),
		}}
	}
	return s.repository.Save(ctx, userID, settings)
}

func (s *SettingsService) DefaultQuestionCount(ctx context.Context, userID int64) entities.QuestionCount {
	return s.Load(ctx, userID).DefaultQuestionCount
}

func (s *SettingsService) SetDefaultQuestionCount(ctx context.Context, userID int64, count entities.QuestionCount) error {
	settings := s.Load(ctx, userID)
	settings.DefaultQuestionCount = count
	return s.Save(ctx, userID, settings)
}
