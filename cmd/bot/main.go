package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/japan-trivia/internal/config"
	"github.com/aliskhannn/japan-trivia/internal/delivery/telegram"
	"github.com/aliskhannn/japan-trivia/internal/infra/sqlite"
	"github.com/aliskhannn/japan-trivia/internal/logger"
	"github.com/aliskhannn/japan-trivia/internal/repository"
	"github.com/aliskhannn/japan-trivia/internal/service"
	"github.com/aliskhannn/japan-trivia/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if err := cfg.RequireBot(); err != nil {
		log.Fatal(err)
	}

	lg, err := logger.New(cfg, "bot")
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lg.Sync() }()

	bot, err := tgbotapi.NewBotAPI(cfg.Bot.TelegramAPIToken)
	if err != nil {
		lg.Fatal("failed to create bot", zap.Error(err))
	}
	bot.Debug = cfg.Env == "local"

	// Set commands.
	commands := []tgbotapi.BotCommand{
		{Command: "start", Description: "Start the bot"},
		{Command: "categories", Description: "Quiz by category"},
		{Command: "random", Description: "Quiz from every category"},
		{Command: "stats", Description: "Your statistics"},
		{Command: "history", Description: "Recent quizzes"},
		{Command: "review", Description: "Review a quiz (usage: /review <id>)"},
		{Command: "settings", Description: "Questions per quiz"},
	}
	if _, err := bot.Request(tgbotapi.NewSetMyCommands(commands...)); err != nil {
		lg.Warn("failed to set bot commands", zap.Error(err))
	}

	lg.Info("authorized", zap.String("account", bot.Self.UserName))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dataset, err := repository.NewDatasetRepository(cfg.Bot.DatasetPath)
	if err != nil {
		lg.Fatal("failed to load quiz dataset", zap.String("path", cfg.Bot.DatasetPath), zap.Error(err))
	}

	db, err := sqlite.Open(ctx, cfg.Bot.SQLitePath)
	if err != nil {
		lg.Fatal("failed to open sqlite", zap.String("path", cfg.Bot.SQLitePath), zap.Error(err))
	}
	defer db.Close()
	kv := sqlite.NewKV(db)

	sessionService := service.NewSessionService(repository.NewSessionRepository(kv), lg)
	settingsService := service.NewSettingsService(repository.NewSettingsRepository(kv), lg)

	// Repair lists left half-written by an earlier crash before serving users.
	if _, err := sessionService.Reconcile(ctx); err != nil {
		lg.Warn("failed to reconcile history", zap.Error(err))
	}

	handler := telegram.NewHandler(
		bot,
		lg,
		service.NewQuizSelector(dataset),
		sessionService,
		settingsService,
		storage.NewQuizStorage(),
	)
	if err := handler.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		lg.Error("telegram handler stopped", zap.Error(err))
	}

	bot.StopReceivingUpdates()
	lg.Info("shutdown signal received")
}
