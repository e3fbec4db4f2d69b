package service

import (
	"errors"
	"strings"
)

var (
	ErrEmptySession         = errors.New("session has no questions")
	ErrInvalidSession       = errors.New("invalid session result")
	ErrReviewNotFound       = errors.New("review not found")
	ErrNoQuestionsAvailable = errors.New("no questions available")
)

// ValidationError carries every problem found in user- or AI-supplied content.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Errors, "; ")
}
