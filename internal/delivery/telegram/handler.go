package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

type Handler struct {
	bot             Bot
	logger          *zap.Logger
	selector        QuizSelector
	sessionService  SessionService
	settingsService SettingsService
	quizStorage     QuizStorage
}

func NewHandler(
	bot Bot,
	logger *zap.Logger,
	selector QuizSelector,
	sessionService SessionService,
	settingsService SettingsService,
	quizStorage QuizStorage,
) *Handler {
	return &Handler{
		bot:             bot,
		logger:          logger,
		selector:        selector,
		sessionService:  sessionService,
		settingsService: settingsService,
		quizStorage:     quizStorage,
	}
}

func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			h.handleUpdate(ctx, update)
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		h.logger.Debug("callback received",
			zap.Int64("user_id", update.CallbackQuery.From.ID),
			zap.String("data", update.CallbackQuery.Data),
		)
		h.handleCallback(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil || update.Message.From == nil {
		h.logger.Debug("update without message and callback")
		return
	}

	h.logger.Debug("update received",
		zap.Int64("chat_id", update.Message.Chat.ID),
		zap.String("text", update.Message.Text),
	)

	chatID := update.Message.Chat.ID
	userID := update.Message.From.ID

	if !update.Message.IsCommand() {
		h.sendText(chatID, msgUnknownCommand)
		return
	}

	switch update.Message.Command() {
	case "start", "help":
		msg := newMessage(chatID, msgWelcome)
		msg.ReplyMarkup = buildMainKeyboard()
		h.send(msg)

	case "categories":
		_ = h.withErrorHandling(h.categoriesHandler())(ctx, chatID)

	case "random":
		_ = h.withErrorHandling(h.startRandomHandler(userID))(ctx, chatID)

	case "stats":
		_ = h.withErrorHandling(h.statsHandler(userID))(ctx, chatID)

	case "history":
		_ = h.withErrorHandling(h.historyHandler(userID))(ctx, chatID)

	case "review":
		_ = h.withErrorHandling(h.reviewHandler(userID, update.Message.CommandArguments()))(ctx, chatID)

	case "settings":
		_ = h.withErrorHandling(h.settingsHandler(userID))(ctx, chatID)

	default:
		h.sendText(chatID, msgUnknownCommand)
	}
}

func (h *Handler) sendText(chatID int64, text string) {
	h.send(newMessage(chatID, md(text)))
}

func (h *Handler) send(c tgbotapi.Chattable) {
	if _, err := h.bot.Send(c); err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
	}
}
