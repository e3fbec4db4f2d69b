// Package validation checks author- and AI-supplied quiz content.
//
// Every check collects all violations it finds instead of stopping at the first one,
// so callers can show the full list at once.
package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"

	"github.com/aliskhannn/japan-trivia/internal/domain/entities"
)

const (
	maxQuestionLen = 200
	maxOptionLen   = 100
)

// sensitiveKeywords is a basic list of terms that must not appear in quiz content.
var sensitiveKeywords = []string{
	"racist", "racial slur",
	"religious hatred",
	"explicit sexual",
	"violence", "killing",
	"差別", "暴力", "殺",
}

// Result is the outcome of a validation pass.
type Result struct {
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors"`
}

func newResult(errs []string) Result {
	if errs == nil {
		errs = []string{}
	}
	return Result{IsValid: len(errs) == 0, Errors: errs}
}

// ValidateQuestion checks the question text.
func ValidateQuestion(question string) Result {
	var errs []string

	if strings.TrimSpace(question) == "" {
		errs = append(errs, "question is empty")
	}
	if utf8.RuneCountInString(question) > maxQuestionLen {
		errs = append(errs, fmt.Sprintf("question is too long (max %d characters)", maxQuestionLen))
	}

	return newResult(errs)
}

// ValidateOptions checks the answer options.
func ValidateOptions(options []string) Result {
	var errs []string

	if len(options) != entities.OptionCount {
		errs = append(errs, fmt.Sprintf("exactly %d options are required", entities.OptionCount))
	}

	fold := cases.Fold()
	unique := make(map[string]struct{}, len(options))
	for i, o := range options {
		if strings.TrimSpace(o) == "" {
			errs = append(errs, fmt.Sprintf("option %d is empty", i+1))
		}
		if utf8.RuneCountInString(o) > maxOptionLen {
			errs = append(errs, fmt.Sprintf("option %d is too long (max %d characters)", i+1, maxOptionLen))
		}
		unique[fold.String(strings.TrimSpace(o))] = struct{}{}
	}

	if len(unique) != len(options) {
		errs = append(errs, "options contain duplicates")
	}

	return newResult(errs)
}

// CheckSensitiveContent reports every sensitive keyword contained in text.
func CheckSensitiveContent(text string) Result {
	var errs []string

	lower := strings.ToLower(text)
	for _, kw := range sensitiveKeywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			errs = append(errs, "contains sensitive keyword: "+kw)
		}
	}

	return newResult(errs)
}

// ValidateQuizInput runs every content check over in.
func ValidateQuizInput(in entities.QuizInput) Result {
	var errs []string

	errs = append(errs, ValidateQuestion(in.Question).Errors...)
	errs = append(errs, ValidateOptions(in.Options).Errors...)

	if in.CorrectAnswer < 0 || in.CorrectAnswer >= entities.OptionCount {
		errs = append(errs, fmt.Sprintf("correct answer index must be between 0 and %d", entities.OptionCount-1))
	}
	if !in.Difficulty.Valid() {
		errs = append(errs, fmt.Sprintf("unknown difficulty %q", in.Difficulty))
	}
	if !in.Category.Valid() {
		errs = append(errs, fmt.Sprintf("unknown category %q", in.Category))
	}

	text := in.Question + " " + strings.Join(in.Options, " ") + " " + in.Explanation
	errs = append(errs, CheckSensitiveContent(text).Errors...)

	return newResult(errs)
}

// IsExactDuplicate reports whether question equals an existing question,
// ignoring surrounding whitespace and case.
func IsExactDuplicate(question string, existing []string) bool {
	q := strings.ToLower(strings.TrimSpace(question))
	for _, e := range existing {
		if strings.ToLower(strings.TrimSpace(e)) == q {
			return true
		}
	}
	return false
}
