package telegram

import (
	"context"

	"go.uber.org/zap"
)

// HandlerFunc handles one update for a chat. Commands, callback buttons and
// quiz answers are all adapted to this shape before they run.
type HandlerFunc func(ctx context.Context, chatID int64) error

// withErrorHandling wraps fn so a failure never reaches the update loop.
// The error is logged with the chat id and the user gets a generic reply.
func (h *Handler) withErrorHandling(fn HandlerFunc) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		err := fn(ctx, chatID)
		if err == nil {
			return nil
		}

		// Cancellation during shutdown is not the user's problem.
		if ctx.Err() != nil {
			h.logger.Debug("handler interrupted", zap.Int64("chat_id", chatID), zap.Error(err))
			return nil
		}

		h.logger.Error("handler failed",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
		h.sendText(chatID, msgInternalError)
		return nil
	}
}
