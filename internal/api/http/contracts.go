package http

import (
	"context"

	"github.com/aliskhannn/japan-trivia/internal/domain/entities"
	"github.com/aliskhannn/japan-trivia/internal/service"
	"github.com/aliskhannn/japan-trivia/internal/similarity"
)

type QuizService interface {
	List(ctx context.Context, filter entities.QuizFilter) ([]*entities.Quiz, error)
	Get(ctx context.Context, id string) (*entities.Quiz, error)
	Create(ctx context.Context, in entities.QuizInput) (*entities.Quiz, error)
	Update(ctx context.Context, id string, patch entities.QuizPatch) (*entities.Quiz, error)
	Review(ctx context.Context, id string, action entities.ReviewAction) (*entities.Quiz, error)
	Delete(ctx context.Context, id string) error
	CheckSimilarity(ctx context.Context, question, excludeID string) (similarity.Match, error)
	Export(ctx context.Context) ([]entities.ExportQuiz, error)
}

type GenerationService interface {
	Generate(ctx context.Context, req entities.GenerationRequest) ([]service.GeneratedQuiz, error)
	SaveAll(ctx context.Context, inputs []entities.QuizInput) (*service.SaveResult, error)
}

type SessionService interface {
	RecordSession(ctx context.Context, userID int64, result entities.SessionResult) (*entities.QuizReview, error)
	Reviews(ctx context.Context, userID int64) []entities.QuizReview
	ReviewByID(ctx context.Context, userID int64, id string) (*entities.QuizReview, error)
	ClearReviews(ctx context.Context, userID int64) error
	History(ctx context.Context, userID int64) []entities.HistoryEntry
	RecentSessions(ctx context.Context, userID int64, n int) []entities.HistoryEntry
	Statistics(ctx context.Context, userID int64) entities.Statistics
	ClearStatistics(ctx context.Context, userID int64) error
}

type SettingsService interface {
	Load(ctx context.Context, userID int64) entities.Settings
	Save(ctx context.Context, userID int64, settings entities.Settings) error
}
