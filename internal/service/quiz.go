package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aliskhannn/japan-trivia/internal/domain/entities"
	"github.com/aliskhannn/japan-trivia/internal/similarity"
	"github.com/aliskhannn/japan-trivia/internal/validation"
)

// QuizService manages quiz records in the CMS.
type QuizService struct {
	repo    QuizRepository
	checker *similarity.Checker
	logger  *zap.Logger

	now   func() time.Time
	newID func() string
}

// NewQuizService creates a new QuizService.
func NewQuizService(repo QuizRepository, logger *zap.Logger) *QuizService {
	return &QuizService{
		repo:    repo,
		checker: similarity.NewChecker(),
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
		newID:   uuid.NewString,
	}
}

// List returns the quizzes passing filter, newest first.
func (s *QuizService) List(ctx context.Context, filter entities.QuizFilter) ([]*entities.Quiz, error) {
	quizzes, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}

	out := make([]*entities.Quiz, 0, len(quizzes))
	for _, q := range quizzes {
		if filter.Match(q) {
			out = append(out, q)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Get returns a quiz by id.
func (s *QuizService) Get(ctx context.Context, id string) (*entities.Quiz, error) {
	return s.repo.GetByID(ctx, id)
}

// Create validates in and stores it as a new draft.
func (s *QuizService) Create(ctx context.Context, in entities.QuizInput) (*entities.Quiz, error) {
	if res := validation.ValidateQuizInput(in); !res.IsValid {
		return nil, &ValidationError{Errors: res.Errors}
	}

	existing, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}

	q := entities.NewQuiz(s.newID(), in, s.now())
	hasSimilar := s.checker.IsDuplicate(in.Question, entries(existing), "")
	q.HasSimilar = &hasSimilar

	if err := s.repo.Create(ctx, q); err != nil {
		return nil, fmt.Errorf("create quiz: %w", err)
	}

	s.logger.Info("quiz created",
		zap.String("quiz_id", q.ID),
		zap.Bool("has_similar", hasSimilar),
	)
	return q, nil
}

// Update merges patch into the quiz content and re-validates the result.
// The review status is left untouched.
func (s *QuizService) Update(ctx context.Context, id string, patch entities.QuizPatch) (*entities.Quiz, error) {
	existing, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}

	return s.repo.Update(ctx, id, func(q *entities.Quiz) error {
		merged := patch.Apply(q.Input())
		if res := validation.ValidateQuizInput(merged); !res.IsValid {
			return &ValidationError{Errors: res.Errors}
		}

		hasSimilar := s.checker.IsDuplicate(merged.Question, entries(existing), id)
		q.ApplyContent(merged, s.now())
		q.HasSimilar = &hasSimilar
		return nil
	})
}

// Review applies a reviewer decision. It is the only way to change the status
// of an existing quiz.
func (s *QuizService) Review(ctx context.Context, id string, action entities.ReviewAction) (*entities.Quiz, error) {
	if !action.Status.Valid() {
		return nil, &ValidationError{Errors: []string{fmt.Sprintf("unknown review status %q", action.Status)}}
	}

	q, err := s.repo.Update(ctx, id, func(q *entities.Quiz) error {
		q.ReviewStatus = action.Status
		if action.Notes != nil {
			q.ReviewNotes = *action.Notes
		}
		q.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("quiz reviewed",
		zap.String("quiz_id", id),
		zap.String("status", string(action.Status)),
	)
	return q, nil
}

// Delete removes a quiz.
func (s *QuizService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// CheckSimilarity scores question against the stored collection.
func (s *QuizService) CheckSimilarity(ctx context.Context, question, excludeID string) (similarity.Match, error) {
	existing, err := s.repo.List(ctx)
	if err != nil {
		return similarity.Match{}, fmt.Errorf("list quizzes: %w", err)
	}
	return s.checker.ScoreAgainstAll(question, entries(existing), excludeID), nil
}

// Export returns the approved quizzes in their public shape.
func (s *QuizService) Export(ctx context.Context) ([]entities.ExportQuiz, error) {
	quizzes, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}

	out := make([]entities.ExportQuiz, 0, len(quizzes))
	for _, q := range quizzes {
		if q.ReviewStatus == entities.ReviewStatusApproved {
			out = append(out, q.Export())
		}
	}
	return out, nil
}

// Approved lets the export feed serve as a QuizSource.
func (s *QuizService) Approved(ctx context.Context) ([]entities.ExportQuiz, error) {
	return s.Export(ctx)
}

func entries(quizzes []*entities.Quiz) []similarity.Entry {
	out := make([]similarity.Entry, len(quizzes))
	for i, q := range quizzes {
		out[i] = similarity.Entry{ID: q.ID, Question: q.Question}
	}
	return out
}
