package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/japan-trivia/internal/service"
)

func (h *Handler) categoriesHandler() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		categories, err := h.selector.Categories(ctx)
		if err != nil {
			return fmt.Errorf("list categories: %w", err)
		}
		if len(categories) == 0 {
			h.sendText(chatID, msgNoQuestions)
			return nil
		}

		msg := newMessage(chatID, formatCategories(categories))
		msg.ReplyMarkup = buildCategoryKeyboard(categories)
		h.send(msg)
		return nil
	}
}

func (h *Handler) statsHandler(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		stats := h.sessionService.Statistics(ctx, userID)
		h.send(newMessage(chatID, formatStatistics(stats)))
		return nil
	}
}

func (h *Handler) historyHandler(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		entries := h.sessionService.RecentSessions(ctx, userID, historyListLength)

		msg := newMessage(chatID, formatHistory(entries))
		if kb := buildHistoryKeyboard(entries); kb != nil {
			msg.ReplyMarkup = *kb
		}
		h.send(msg)
		return nil
	}
}

func (h *Handler) reviewHandler(userID int64, args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		id := strings.TrimSpace(args)
		if id == "" {
			h.sendText(chatID, msgReviewUsage)
			return nil
		}
		return h.sendReview(ctx, chatID, userID, id)
	}
}

func (h *Handler) sendReview(ctx context.Context, chatID, userID int64, id string) error {
	review, err := h.sessionService.ReviewByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, service.ErrReviewNotFound) {
			h.sendText(chatID, msgReviewNotFound)
			return nil
		}
		return fmt.Errorf("load review %s: %w", id, err)
	}

	h.send(newMessage(chatID, formatReview(review)))
	return nil
}

func (h *Handler) settingsHandler(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		settings := h.settingsService.Load(ctx, userID)

		msg := newMessage(chatID, formatSettings(settings))
		msg.ReplyMarkup = buildSettingsKeyboard(settings.DefaultQuestionCount)
		h.send(msg)
		return nil
	}
}

// answerCallback stops the loading indicator on the pressed button.
func (h *Handler) answerCallback(cb *tgbotapi.CallbackQuery, text string) {
	if _, err := h.bot.Request(tgbotapi.NewCallback(cb.ID, text)); err != nil {
		h.logger.Warn("failed to answer callback", zap.Error(err))
	}
}
