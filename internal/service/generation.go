package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/aliskhannn/japan-trivia/internal/domain/entities"
	"github.com/aliskhannn/japan-trivia/internal/similarity"
	"github.com/aliskhannn/japan-trivia/internal/validation"
)

// GeneratedQuiz is an AI draft together with the checks it went through.
type GeneratedQuiz struct {
	Input      entities.QuizInput `json:"input"`
	Validation validation.Result  `json:"validation"`
	Similar    similarity.Match   `json:"similar"`
}

// SaveResult reports what SaveAll stored.
type SaveResult struct {
	Saved   []*entities.Quiz `json:"saved"`
	Skipped []SkippedQuiz    `json:"skipped"`
}

// SkippedQuiz is an item SaveAll did not store.
type SkippedQuiz struct {
	Index  int      `json:"index"`
	Errors []string `json:"errors"`
}

// GenerationService drafts quizzes with an AI generator and screens them
// before they reach the collection.
type GenerationService struct {
	generator Generator
	quizzes   *QuizService
	validate  *validator.Validate
	checker   *similarity.Checker
	logger    *zap.Logger
}

// NewGenerationService creates a new GenerationService.
func NewGenerationService(generator Generator, quizzes *QuizService, logger *zap.Logger) *GenerationService {
	return &GenerationService{
		generator: generator,
		quizzes:   quizzes,
		validate:  validator.New(),
		checker:   similarity.NewChecker(),
		logger:    logger,
	}
}

// Generate asks the generator for a batch and validates and scores every item.
// Items are compared with the stored collection and with the earlier items of the batch.
func (s *GenerationService) Generate(ctx context.Context, req entities.GenerationRequest) ([]GeneratedQuiz, error) {
	if err := s.checkRequest(req); err != nil {
		return nil, err
	}

	inputs, err := s.generator.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("generate quizzes: %w", err)
	}

	stored, err := s.quizzes.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	pool := entries(stored)

	out := make([]GeneratedQuiz, 0, len(inputs))
	for i, in := range inputs {
		out = append(out, GeneratedQuiz{
			Input:      in,
			Validation: validation.ValidateQuizInput(in),
			Similar:    s.checker.ScoreAgainstAll(in.Question, pool, ""),
		})
		pool = append(pool, similarity.Entry{ID: "batch-" + strconv.Itoa(i), Question: in.Question})
	}

	s.logger.Info("quizzes generated",
		zap.String("category", string(req.Category)),
		zap.String("difficulty", string(req.Difficulty)),
		zap.Int("requested", req.Count),
		zap.Int("received", len(out)),
	)
	return out, nil
}

// SaveAll stores every valid item in order. Invalid items are reported and skipped.
func (s *GenerationService) SaveAll(ctx context.Context, inputs []entities.QuizInput) (*SaveResult, error) {
	res := &SaveResult{
		Saved:   []*entities.Quiz{},
		Skipped: []SkippedQuiz{},
	}

	for i, in := range inputs {
		q, err := s.quizzes.Create(ctx, in)
		if err != nil {
			var verr *ValidationError
			if errors.As(err, &verr) {
				res.Skipped = append(res.Skipped, SkippedQuiz{Index: i, Errors: verr.Errors})
				continue
			}
			return res, err
		}
		res.Saved = append(res.Saved, q)
	}

	return res, nil
}

func (s *GenerationService) checkRequest(req entities.GenerationRequest) error {
	var errs []string

	if err := s.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			switch fe.Field() {
			case "Count":
				errs = append(errs, fmt.Sprintf("count must be between 1 and %d", entities.MaxGenerationCount))
			default:
				errs = append(errs, fmt.Sprintf("%s is required", fe.Field()))
			}
		}
	}
	if req.Category != "" && !req.Category.Valid() {
		errs = append(errs, fmt.Sprintf("unknown category %q", req.Category))
	}
	if req.Difficulty != "" && !req.Difficulty.Valid() {
		errs = append(errs, fmt.Sprintf("unknown difficulty %q", req.Difficulty))
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}
