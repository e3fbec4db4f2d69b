package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/japan-trivia/internal/domain/entities"
)

// Bot is the part of *tgbotapi.BotAPI the handler uses.
type Bot interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type QuizSelector interface {
	ByCategory(ctx context.Context, category entities.Category, count entities.QuestionCount) ([]entities.ExportQuiz, error)
	Random(ctx context.Context, count entities.QuestionCount) ([]entities.ExportQuiz, error)
	Categories(ctx context.Context) ([]entities.Category, error)
}

type SessionService interface {
	RecordSession(ctx context.Context, userID int64, result entities.SessionResult) (*entities.QuizReview, error)
	Statistics(ctx context.Context, userID int64) entities.Statistics
	RecentSessions(ctx context.Context, userID int64, n int) []entities.HistoryEntry
	ReviewByID(ctx context.Context, userID int64, id string) (*entities.QuizReview, error)
}

type SettingsService interface {
	Load(ctx context.Context, userID int64) entities.Settings
	SetDefaultQuestionCount(ctx context.Context, userID int64, count entities.QuestionCount) error
}

type QuizStorage interface {
	Store(userID int64, quiz *entities.ActiveQuiz)
	Get(userID int64) (*entities.ActiveQuiz, bool)
	Update(userID int64, fn func(q *entities.ActiveQuiz)) bool
	Delete(userID int64)
}
