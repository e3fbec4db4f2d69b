package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aliskhannn/japan-trivia/internal/ai"
	api "github.com/aliskhannn/japan-trivia/internal/api/http"
	"github.com/aliskhannn/japan-trivia/internal/auth"
	"github.com/aliskhannn/japan-trivia/internal/config"
	"github.com/aliskhannn/japan-trivia/internal/infra/postgres"
	pgrepository "github.com/aliskhannn/japan-trivia/internal/infra/postgres/repository"
	"github.com/aliskhannn/japan-trivia/internal/infra/sqlite"
	"github.com/aliskhannn/japan-trivia/internal/logger"
	"github.com/aliskhannn/japan-trivia/internal/repository"
	"github.com/aliskhannn/japan-trivia/internal/service"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if err := cfg.RequireCMS(); err != nil {
		log.Fatal(err)
	}

	lg, err := logger.New(cfg, "cms")
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lg.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	quizRepo, closeRepo, err := newQuizRepository(ctx, cfg)
	if err != nil {
		lg.Fatal("failed to open quiz store", zap.Error(err))
	}
	defer closeRepo()

	db, err := sqlite.Open(ctx, cfg.Storage.SQLitePath)
	if err != nil {
		lg.Fatal("failed to open sqlite", zap.String("path", cfg.Storage.SQLitePath), zap.Error(err))
	}
	defer db.Close()
	kv := sqlite.NewKV(db)

	quizService := service.NewQuizService(quizRepo, lg)
	sessionService := service.NewSessionService(repository.NewSessionRepository(kv), lg)
	settingsService := service.NewSettingsService(repository.NewSettingsRepository(kv), lg)
	gemini, err := ai.NewGeminiClient(ctx, ai.Config{
		APIKey:  cfg.AI.GeminiAPIKey,
		Model:   cfg.AI.Model,
		BaseURL: cfg.AI.BaseURL,
		Timeout: cfg.AI.Timeout,
	})
	if err != nil {
		lg.Fatal("failed to create gemini client", zap.Error(err))
	}
	generationService := service.NewGenerationService(gemini, quizService, lg)

	if cfg.AI.GeminiAPIKey == "" {
		lg.Warn("GEMINI_API_KEY is not set, quiz generation is disabled")
	}

	handler := api.NewHandler(
		quizService,
		generationService,
		sessionService,
		settingsService,
		auth.NewService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		auth.Credentials{User: cfg.Auth.AdminUser, PasswordHash: cfg.Auth.AdminPassHash},
		lg,
	)

	srv := &http.Server{
		Addr: cfg.HTTP.Addr,
		Handler: api.NewRouter(api.RouterConfig{
			CORSOrigins:    cfg.HTTP.CORSOrigins,
			RequestTimeout: cfg.HTTP.RequestTimeout,
		}, handler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	scheduler := service.NewScheduler(service.SchedulerConfig{
		ExportSpec:    cfg.Jobs.ExportCron,
		ExportPath:    cfg.Jobs.ExportPath,
		ReconcileSpec: cfg.Jobs.ReconcileCron,
	}, quizService, sessionService, lg)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		lg.Info("http server listening",
			zap.String("addr", cfg.HTTP.Addr),
			zap.String("quiz_backend", cfg.Storage.QuizBackend),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		return scheduler.Start(gctx)
	})

	if err := g.Wait(); err != nil {
		lg.Error("cms stopped with error", zap.Error(err))
		return
	}
	lg.Info("cms stopped")
}

// newQuizRepository opens the configured quiz store. The returned func releases it.
func newQuizRepository(ctx context.Context, cfg *config.Config) (service.QuizRepository, func(), error) {
	if cfg.Storage.QuizBackend != config.QuizBackendPostgres {
		return repository.NewQuizFileRepository(cfg.Storage.QuizFilePath), func() {}, nil
	}

	dsn, err := cfg.DB.DSN()
	if err != nil {
		return nil, nil, err
	}

	pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
		MaxConns:        int32(cfg.DB.MaxConnections),
		MaxConnLifetime: cfg.DB.MaxConnLifetime,
	})
	if err != nil {
		return nil, nil, err
	}

	repo := pgrepository.NewQuizRepository(pool, postgres.NewTransactor(pool))
	if err := repo.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return repo, pool.Close, nil
}
