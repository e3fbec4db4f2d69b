package service

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/aliskhannn/japan-trivia/internal/domain/entities"
)

// QuizSelector picks questions for a quiz from the approved set.
type QuizSelector struct {
	source QuizSource

	mu  sync.Mutex
	rng *rand.Rand
}

// NewQuizSelector creates a new QuizSelector.
func NewQuizSelector(source QuizSource) *QuizSelector {
	return &QuizSelector{
		source: source,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ByCategory returns count shuffled questions of the category.
func (s *QuizSelector) ByCategory(
	ctx context.Context, category entities.Category, count entities.QuestionCount,
) ([]entities.ExportQuiz, error) {
	return s.pick(ctx, count, func(q entities.ExportQuiz) bool { return q.Category == category })
}

// ByDifficulty returns count shuffled questions of the difficulty.
func (s *QuizSelector) ByDifficulty(
	ctx context.Context, difficulty entities.Difficulty, count entities.QuestionCount,
) ([]entities.ExportQuiz, error) {
	return s.pick(ctx, count, func(q entities.ExportQuiz) bool { return q.Difficulty == difficulty })
}

// Random returns count shuffled questions from every category.
func (s *QuizSelector) Random(ctx context.Context, count entities.QuestionCount) ([]entities.ExportQuiz, error) {
	return s.pick(ctx, count, func(entities.ExportQuiz) bool { return true })
}

// Categories returns the categories that have at least one question,
// in the canonical category order.
func (s *QuizSelector) Categories(ctx context.Context) ([]entities.Category, error) {
	quizzes, err := s.source.Approved(ctx)
	if err != nil {
		return nil, fmt.Errorf("load quizzes: %w", err)
	}

	present := make(map[entities.Category]struct{})
	for _, q := range quizzes {
		present[q.Category] = struct{}{}
	}

	out := make([]entities.Category, 0, len(present))
	for _, c := range entities.Categories() {
		if _, ok := present[c]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *QuizSelector) pick(
	ctx context.Context, count entities.QuestionCount, keep func(entities.ExportQuiz) bool,
) ([]entities.ExportQuiz, error) {
	quizzes, err := s.source.Approved(ctx)
	if err != nil {
		return nil, fmt.Errorf("load quizzes: %w", err)
	}

	matched := make([]entities.ExportQuiz, 0, len(quizzes))
	for _, q := range quizzes {
		if keep(q) {
			matched = append(matched, q)
		}
	}
	if len(matched) == 0 {
		return nil, ErrNoQuestionsAvailable
	}

	s.mu.Lock()
	s.rng.Shuffle(len(matched), func(i, j int) {
		matched[i], matched[j] = matched[j], matched[i]
	})
	s.mu.Unlock()

	return matched[:count.Limit(len(matched))], nil
}
