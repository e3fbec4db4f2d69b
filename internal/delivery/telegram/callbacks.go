package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/japan-trivia/internal/domain/entities"
)

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	h.answerCallback(cb, "")

	if cb.Message == nil {
		return
	}
	chatID := cb.Message.Chat.ID
	userID := cb.From.ID
	data := decodeCallback(cb.Data)

	switch data.Action {
	case actionCategories:
		_ = h.withErrorHandling(h.categoriesHandler())(ctx, chatID)

	case actionCategory:
		if len(data.Params) != 1 || !entities.Category(data.Params[0]).Valid() {
			h.invalidCallback(chatID, data)
			return
		}
		category := entities.Category(data.Params[0])
		_ = h.withErrorHandling(h.startCategoryHandler(userID, category))(ctx, chatID)

	case actionRandom:
		_ = h.withErrorHandling(h.startRandomHandler(userID))(ctx, chatID)

	case actionAnswer:
		position, ok1 := data.intParam(0)
		option, ok2 := data.intParam(1)
		if !ok1 || !ok2 {
			h.invalidCallback(chatID, data)
			return
		}
		_ = h.withErrorHandling(h.answerHandler(userID, position, &option))(ctx, chatID)

	case actionSkip:
		position, ok := data.intParam(0)
		if !ok {
			h.invalidCallback(chatID, data)
			return
		}
		_ = h.withErrorHandling(h.answerHandler(userID, position, nil))(ctx, chatID)

	case actionCount:
		if len(data.Params) != 1 {
			h.invalidCallback(chatID, data)
			return
		}
		count, err := entities.ParseQuestionCount(data.Params[0])
		if err != nil {
			h.invalidCallback(chatID, data)
			return
		}
		_ = h.withErrorHandling(h.setCountHandler(userID, count))(ctx, chatID)

	case actionSettings:
		_ = h.withErrorHandling(h.settingsHandler(userID))(ctx, chatID)

	case actionStats:
		_ = h.withErrorHandling(h.statsHandler(userID))(ctx, chatID)

	case actionHistory:
		_ = h.withErrorHandling(h.historyHandler(userID))(ctx, chatID)

	case actionReview:
		if len(data.Params) != 1 {
			h.invalidCallback(chatID, data)
			return
		}
		_ = h.withErrorHandling(h.reviewHandler(userID, data.Params[0]))(ctx, chatID)

	default:
		h.invalidCallback(chatID, data)
	}
}

func (h *Handler) setCountHandler(userID int64, count entities.QuestionCount) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if err := h.settingsService.SetDefaultQuestionCount(ctx, userID, count); err != nil {
			return err
		}
		h.sendText(chatID, msgSettingsSaved)
		return nil
	}
}

func (h *Handler) invalidCallback(chatID int64, data callbackData) {
	h.logger.Warn("invalid callback data", zap.String("data", data.Raw))
	h.sendText(chatID, msgInvalidCallback)
}
