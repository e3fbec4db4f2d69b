package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// SchedulerConfig holds the cron specs of the background jobs. An empty spec disables a job.
type SchedulerConfig struct {
	ExportSpec    string
	ExportPath    string
	ReconcileSpec string
}

// Scheduler runs the periodic export snapshot and history reconciliation.
type Scheduler struct {
	cfg      SchedulerConfig
	quizzes  *QuizService
	sessions *SessionService
	logger   *zap.Logger
}

// NewScheduler creates a new Scheduler.
func NewScheduler(cfg SchedulerConfig, quizzes *QuizService, sessions *SessionService, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cfg:      cfg,
		quizzes:  quizzes,
		sessions: sessions,
		logger:   logger,
	}
}

// Start registers the jobs and blocks until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	c := cron.New(cron.WithLocation(time.UTC))

	if s.cfg.ExportSpec != "" && s.cfg.ExportPath != "" {
		_, err := c.AddFunc(s.cfg.ExportSpec, func() {
			if err := s.ExportSnapshot(ctx); err != nil {
				s.logger.Error("failed to write export snapshot", zap.Error(err))
			}
		})
		if err != nil {
			return fmt.Errorf("add export job: %w", err)
		}
	}

	if s.cfg.ReconcileSpec != "" {
		_, err := c.AddFunc(s.cfg.ReconcileSpec, func() {
			restored, err := s.sessions.Reconcile(ctx)
			if err != nil {
				s.logger.Error("failed to reconcile history", zap.Error(err))
				return
			}
			s.logger.Info("history reconciliation finished", zap.Int("restored", restored))
		})
		if err != nil {
			return fmt.Errorf("add reconcile job: %w", err)
		}
	}

	c.Start()
	s.logger.Info("scheduler started", zap.Int("jobs", len(c.Entries())))

	<-ctx.Done()

	<-c.Stop().Done()
	s.logger.Info("scheduler stopped")
	return nil
}

// ExportSnapshot writes the approved quizzes to the configured export path.
func (s *Scheduler) ExportSnapshot(ctx context.Context) error {
	quizzes, err := s.quizzes.Export(ctx)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(quizzes, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal export: %w", err)
	}

	dir := filepath.Dir(s.cfg.ExportPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}

	tmp := s.cfg.ExportPath + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	if err := os.Rename(tmp, s.cfg.ExportPath); err != nil {
		return fmt.Errorf("replace export: %w", err)
	}

	s.logger.Info("export snapshot written",
		zap.String("path", s.cfg.ExportPath),
		zap.Int("quizzes", len(quizzes)),
	)
	return nil
}
