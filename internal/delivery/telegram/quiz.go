package telegram

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/aliskhannn/japan-trivia/internal/domain/entities"
	"github.com/aliskhannn/japan-trivia/internal/service"
)

func (h *Handler) startCategoryHandler(userID int64, category entities.Category) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		count := h.settingsService.Load(ctx, userID).DefaultQuestionCount
		questions, err := h.selector.ByCategory(ctx, category, count)
		return h.startQuiz(chatID, userID, category, questions, err)
	}
}

func (h *Handler) startRandomHandler(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		count := h.settingsService.Load(ctx, userID).DefaultQuestionCount
		questions, err := h.selector.Random(ctx, count)
		return h.startQuiz(chatID, userID, entities.CategoryRandom, questions, err)
	}
}

// startQuiz replaces any unfinished quiz of the user and sends the first question.
func (h *Handler) startQuiz(
	chatID, userID int64, category entities.Category, questions []entities.ExportQuiz, err error,
) error {
	if errors.Is(err, service.ErrNoQuestionsAvailable) {
		h.sendText(chatID, msgNoQuestions)
		return nil
	}
	if err != nil {
		return fmt.Errorf("select questions: %w", err)
	}

	quiz := entities.NewActiveQuiz(userID, category, questions)
	h.quizStorage.Store(userID, quiz)

	h.logger.Info("quiz started",
		zap.Int64("user_id", userID),
		zap.String("category", string(category)),
		zap.Int("questions", len(questions)),
	)

	h.sendQuestion(chatID, quiz)
	return nil
}

func (h *Handler) sendQuestion(chatID int64, quiz *entities.ActiveQuiz) {
	q, ok := quiz.Current()
	if !ok {
		return
	}

	position := quiz.Position()
	msg := newMessage(chatID, formatQuestion(q, position, len(quiz.Questions)))
	msg.ReplyMarkup = buildQuestionKeyboard(q, position)
	h.send(msg)
}

// answerHandler records option (nil to skip) for the question at position.
// Buttons of earlier questions carry an old position and are ignored.
func (h *Handler) answerHandler(userID int64, position int, option *int) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		var (
			outcome entities.QuestionOutcome
			stale   bool
			done    bool
			current *entities.ActiveQuiz
		)

		active := h.quizStorage.Update(userID, func(q *entities.ActiveQuiz) {
			if q.Position() != position || q.Done() {
				stale = true
				return
			}
			if option != nil {
				if cur, _ := q.Current(); *option < 0 || *option >= len(cur.Options) {
					stale = true
					return
				}
			}
			outcome, _ = q.Answer(option)
			done = q.Done()
			current = q.Clone()
		})

		switch {
		case !active:
			h.sendText(chatID, msgNoActiveQuiz)
			return nil
		case stale:
			h.sendText(chatID, msgStaleAnswer)
			return nil
		}

		h.send(newMessage(chatID, formatOutcome(outcome)))

		if !done {
			h.sendQuestion(chatID, current)
			return nil
		}
		return h.finishQuiz(ctx, chatID, userID, current)
	}
}

func (h *Handler) finishQuiz(ctx context.Context, chatID, userID int64, quiz *entities.ActiveQuiz) error {
	h.quizStorage.Delete(userID)

	score, skipped := quiz.Tally()
	review, err := h.sessionService.RecordSession(ctx, userID, entities.SessionResult{
		Category:  quiz.Category,
		Score:     score,
		Total:     len(quiz.Questions),
		Skipped:   skipped,
		Questions: quiz.Outcomes,
	})
	if err != nil {
		return fmt.Errorf("record session: %w", err)
	}

	msg := newMessage(chatID, formatResult(review))
	msg.ReplyMarkup = buildResultKeyboard(review.ID)
	h.send(msg)
	return nil
}
