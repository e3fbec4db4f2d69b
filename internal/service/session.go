package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/japan-trivia/internal/domain/entities"
	"github.com/aliskhannn/japan-trivia/internal/repository"
)

// SessionService records finished quiz sessions and serves the per-user
// review and history lists derived from them.
type SessionService struct {
	repo   SessionRepository
	logger *zap.Logger

	ids   *idGenerator
	clock func() time.Time
}

// NewSessionService creates a new SessionService.
func NewSessionService(repo SessionRepository, logger *zap.Logger) *SessionService {
	clock := func() time.Time { return time.Now().UTC() }
	return &SessionService{
		repo:   repo,
		logger: logger,
		ids:    newIDGenerator(clock),
		clock:  clock,
	}
}

// RecordSession stores a finished session as a review and a history entry.
// Both lists are written together and capped at entities.MaxStoredSessions.
func (s *SessionService) RecordSession(
	ctx context.Context, userID int64, result entities.SessionResult,
) (*entities.QuizReview, error) {
	if err := checkSessionResult(result); err != nil {
		return nil, err
	}

	id, date := s.ids.next()
	review := entities.QuizReview{
		ID:         id,
		Category:   result.Category,
		Date:       date,
		Score:      result.Score,
		Total:      result.Total,
		Skipped:    result.Skipped,
		Percentage: entities.Percent(result.Score, result.Total),
		Questions:  gradeOutcomes(result.Questions),
	}

	err := s.repo.UpdateLists(ctx, userID, func(l *repository.SessionLists) error {
		if l.ReviewsErr != nil {
			s.logger.Warn("discarding corrupt reviews", zap.Int64("user_id", userID), zap.Error(l.ReviewsErr))
		}
		if l.HistoryErr != nil {
			s.logger.Warn("discarding corrupt history", zap.Int64("user_id", userID), zap.Error(l.HistoryErr))
		}
		l.SetReviews(prepend(l.Reviews, review))
		l.SetHistory(prepend(l.History, review.History()))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	s.logger.Info("session recorded",
		zap.Int64("user_id", userID),
		zap.String("session_id", id),
		zap.Int("score", review.Score),
		zap.Int("total", review.Total),
	)
	return &review, nil
}

// Reviews returns the stored reviews, most recent first.
func (s *SessionService) Reviews(ctx context.Context, userID int64) []entities.QuizReview {
	reviews, err := s.repo.Reviews(ctx, userID)
	if err != nil {
		s.logger.Warn("failed to load reviews", zap.Int64("user_id", userID), zap.Error(err))
		return []entities.QuizReview{}
	}
	return reviews
}

// ReviewByID returns one stored review.
func (s *SessionService) ReviewByID(ctx context.Context, userID int64, id string) (*entities.QuizReview, error) {
	for _, r := range s.Reviews(ctx, userID) {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, ErrReviewNotFound
}

// ClearReviews removes every stored review of the user.
func (s *SessionService) ClearReviews(ctx context.Context, userID int64) error {
	return s.repo.DeleteReviews(ctx, userID)
}

// History returns the stored history, most recent first.
func (s *SessionService) History(ctx context.Context, userID int64) []entities.HistoryEntry {
	history, err := s.repo.History(ctx, userID)
	if err != nil {
		s.logger.Warn("failed to load history", zap.Int64("user_id", userID), zap.Error(err))
		return []entities.HistoryEntry{}
	}
	return history
}

// RecentSessions returns at most n of the latest history entries.
func (s *SessionService) RecentSessions(ctx context.Context, userID int64, n int) []entities.HistoryEntry {
	history := s.History(ctx, userID)
	if n < 0 {
		n = 0
	}
	if n < len(history) {
		history = history[:n]
	}
	return history
}

// Statistics aggregates the stored history of the user.
func (s *SessionService) Statistics(ctx context.Context, userID int64) entities.Statistics {
	return ComputeStatistics(s.History(ctx, userID))
}

// ClearStatistics empties the history list. Reviews are kept.
func (s *SessionService) ClearStatistics(ctx context.Context, userID int64) error {
	return s.repo.SaveHistory(ctx, userID, []entities.HistoryEntry{})
}

// Reconcile adds history entries for reviews that have none, which happens
// when a review was written without its history entry. Only reviews newer
// than the latest history entry are considered, so a cleared history stays cleared.
// It returns the number of restored entries.
func (s *SessionService) Reconcile(ctx context.Context) (int, error) {
	userIDs, err := s.repo.UserIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("list users: %w", err)
	}

	restored := 0
	for _, userID := range userIDs {
		if err := ctx.Err(); err != nil {
			return restored, err
		}

		n, err := s.reconcileUser(ctx, userID)
		if err != nil {
			s.logger.Warn("failed to reconcile history", zap.Int64("user_id", userID), zap.Error(err))
			continue
		}
		restored += n
	}

	return restored, nil
}

func (s *SessionService) reconcileUser(ctx context.Context, userID int64) (int, error) {
	restored := 0
	err := s.repo.UpdateLists(ctx, userID, func(l *repository.SessionLists) error {
		if l.ReviewsErr != nil {
			return l.ReviewsErr
		}
		if l.HistoryErr != nil {
			return l.HistoryErr
		}
		if l.HistoryStored && len(l.History) == 0 {
			return nil
		}

		var since time.Time
		known := make(map[string]struct{}, len(l.History))
		for _, h := range l.History {
			known[h.ID] = struct{}{}
			if h.Date.After(since) {
				since = h.Date
			}
		}

		var missing []entities.HistoryEntry
		for _, r := range l.Reviews {
			if _, ok := known[r.ID]; ok || !r.Date.After(since) {
				continue
			}
			missing = append(missing, r.History())
		}
		if len(missing) == 0 {
			return nil
		}

		history := append(missing, l.History...)
		sort.SliceStable(history, func(i, j int) bool {
			return history[i].Date.After(history[j].Date)
		})
		if len(history) > entities.MaxStoredSessions {
			history = history[:entities.MaxStoredSessions]
		}
		l.SetHistory(history)
		restored = len(missing)
		return nil
	})
	if err != nil {
		return 0, err
	}

	if restored > 0 {
		s.logger.Info("history reconciled", zap.Int64("user_id", userID), zap.Int("restored", restored))
	}
	return restored, nil
}

func checkSessionResult(r entities.SessionResult) error {
	if !r.Category.Valid() && r.Category != entities.CategoryRandom {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidSession, r.Category)
	}
	if r.Total == 0 {
		return ErrEmptySession
	}
	if r.Total < 0 || r.Score < 0 || r.Skipped < 0 ||
		r.Score > r.Total || r.Skipped > r.Total || r.Score+r.Skipped > r.Total {
		return fmt.Errorf("%w: score=%d skipped=%d total=%d", ErrInvalidSession, r.Score, r.Skipped, r.Total)
	}
	if len(r.Questions) == 0 {
		return nil
	}

	if len(r.Questions) != r.Total {
		return fmt.Errorf("%w: %d questions for total=%d", ErrInvalidSession, len(r.Questions), r.Total)
	}
	score, skipped := 0, 0
	for _, o := range r.Questions {
		switch {
		case o.Skipped():
			skipped++
		case *o.UserAnswer == o.CorrectAnswer:
			score++
		}
	}
	if score != r.Score || skipped != r.Skipped {
		return fmt.Errorf("%w: questions give score=%d skipped=%d, got score=%d skipped=%d",
			ErrInvalidSession, score, skipped, r.Score, r.Skipped)
	}
	return nil
}

// gradeOutcomes copies outcomes with IsCorrect derived from the answers.
func gradeOutcomes(in []entities.QuestionOutcome) []entities.QuestionOutcome {
	out := make([]entities.QuestionOutcome, len(in))
	for i, o := range in {
		o.IsCorrect = o.UserAnswer != nil && *o.UserAnswer == o.CorrectAnswer
		out[i] = o
	}
	return out
}

// prepend puts item in front of list and drops the oldest entries beyond the cap.
func prepend[T any](list []T, item T) []T {
	out := make([]T, 0, min(len(list)+1, entities.MaxStoredSessions))
	out = append(out, item)
	for _, v := range list {
		if len(out) == entities.MaxStoredSessions {
			break
		}
		out = append(out, v)
	}
	return out
}

// idGenerator hands out strictly increasing millisecond timestamps as ids.
type idGenerator struct {
	mu    sync.Mutex
	last  int64
	clock func() time.Time
}

func newIDGenerator(clock func() time.Time) *idGenerator {
	return &idGenerator{clock: clock}
}

func (g *idGenerator) next() (string, time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.clock()
	ms := now.UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms

	return strconv.FormatInt(ms, 10), time.UnixMilli(ms).UTC()
}
