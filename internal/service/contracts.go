package service

import (
	"context"

	"github.com/aliskhannn/japan-trivia/internal/domain/entities"
	"github.com/aliskhannn/japan-trivia/internal/repository"
)

type QuizRepository interface {
	List(ctx context.Context) ([]*entities.Quiz, error)
	GetByID(ctx context.Context, id string) (*entities.Quiz, error)
	Create(ctx context.Context, q *entities.Quiz) error
	Update(ctx context.Context, id string, fn func(q *entities.Quiz) error) (*entities.Quiz, error)
	Delete(ctx context.Context, id string) error
}

type SessionRepository interface {
	Reviews(ctx context.Context, userID int64) ([]entities.QuizReview, error)
	History(ctx context.Context, userID int64) ([]entities.HistoryEntry, error)
	UpdateLists(ctx context.Context, userID int64, fn func(l *repository.SessionLists) error) error
	SaveHistory(ctx context.Context, userID int64, history []entities.HistoryEntry) error
	DeleteReviews(ctx context.Context, userID int64) error
	UserIDs(ctx context.Context) ([]int64, error)
}

type SettingsRepository interface {
	GetByUserID(ctx context.Context, userID int64) (*entities.Settings, error)
	Save(ctx context.Context, userID int64, settings entities.Settings) error
}

// QuizSource supplies the approved quizzes users can take.
type QuizSource interface {
	Approved(ctx context.Context) ([]entities.ExportQuiz, error)
}

// Generator produces quiz drafts with an AI model.
type Generator interface {
	Generate(ctx context.Context, req entities.GenerationRequest) ([]entities.QuizInput, error)
}
