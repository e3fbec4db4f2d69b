package entities

import (
	"math"
	"time"
)

// MaxStoredSessions caps both the review and the history list.
const MaxStoredSessions = 100

// QuestionOutcome is the result of a single question within a finished session.
type QuestionOutcome struct {
	QuestionID    string   `json:"questionId"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	UserAnswer    *int     `json:"userAnswer"` // nil when skipped
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation,omitempty"`
	IsCorrect     bool     `json:"isCorrect"`
}

// NewQuestionOutcome builds an outcome and derives IsCorrect from the answer.
func NewQuestionOutcome(q ExportQuiz, userAnswer *int) QuestionOutcome {
	return QuestionOutcome{
		QuestionID:    q.ID,
		Question:      q.Question,
		Options:       append([]string(nil), q.Options...),
		UserAnswer:    userAnswer,
		CorrectAnswer: q.CorrectAnswer,
		Explanation:   q.Explanation,
		IsCorrect:     userAnswer != nil && *userAnswer == q.CorrectAnswer,
	}
}

// Skipped reports whether the question was left unanswered.
func (o QuestionOutcome) Skipped() bool {
	return o.UserAnswer == nil
}

// QuizReview is the detailed record of one completed session.
type QuizReview struct {
	ID         string            `json:"id"`
	Category   Category          `json:"category"`
	Date       time.Time         `json:"date"`
	Score      int               `json:"score"`
	Total      int               `json:"total"`
	Skipped    int               `json:"skipped"`
	Percentage int               `json:"percentage"`
	Questions  []QuestionOutcome `json:"questions"`
}

// Incorrect returns the derived number of wrong answers.
func (r QuizReview) Incorrect() int {
	return IncorrectCount(r.Score, r.Total, r.Skipped)
}

// History converts the review into its lightweight statistics entry.
func (r QuizReview) History() HistoryEntry {
	return HistoryEntry{
		ID:         r.ID,
		Category:   r.Category,
		Score:      r.Score,
		Total:      r.Total,
		Skipped:    r.Skipped,
		Date:       r.Date,
		Percentage: r.Percentage,
	}
}

// HistoryEntry is the per-session summary used for statistics.
type HistoryEntry struct {
	ID         string    `json:"id"`
	Category   Category  `json:"category"`
	Score      int       `json:"score"`
	Total      int       `json:"total"`
	Skipped    int       `json:"skipped"`
	Date       time.Time `json:"date"`
	Percentage int       `json:"percentage"`
}

// Incorrect returns the derived number of wrong answers.
func (h HistoryEntry) Incorrect() int {
	return IncorrectCount(h.Score, h.Total, h.Skipped)
}

// IncorrectCount derives wrong answers from a session triple. It never goes below zero.
func IncorrectCount(score, total, skipped int) int {
	return max(0, total-score-skipped)
}

// Percent returns round(100*part/whole), or 0 when whole is not positive.
func Percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return int(math.Round(float64(part) * 100 / float64(whole)))
}

// CategoryStats aggregates sessions of one category.
type CategoryStats struct {
	Quizzes    int `json:"quizzes"`
	Correct    int `json:"correct"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

// Statistics is derived from the history list and never stored.
type Statistics struct {
	TotalQuizzes      int                         `json:"totalQuizzes"`
	TotalCorrect      int                         `json:"totalCorrect"`
	TotalQuestions    int                         `json:"totalQuestions"`
	AveragePercentage int                         `json:"averagePercentage"`
	ByCategory        map[Category]*CategoryStats `json:"byCategory"`
}

// ActiveQuiz tracks a quiz being taken, question by question.
type ActiveQuiz struct {
	UserID    int64
	Category  Category // CategoryRandom for random quizzes
	Questions []ExportQuiz
	Outcomes  []QuestionOutcome
	StartedAt time.Time
}

// NewActiveQuiz starts a quiz over the given questions.
func NewActiveQuiz(userID int64, category Category, questions []ExportQuiz) *ActiveQuiz {
	return &ActiveQuiz{
		UserID:    userID,
		Category:  category,
		Questions: questions,
		Outcomes:  make([]QuestionOutcome, 0, len(questions)),
		StartedAt: time.Now(),
	}
}

// Clone returns a copy that shares no slices with a.
func (a *ActiveQuiz) Clone() *ActiveQuiz {
	c := *a
	c.Questions = append([]ExportQuiz(nil), a.Questions...)
	c.Outcomes = append(make([]QuestionOutcome, 0, cap(a.Outcomes)), a.Outcomes...)
	return &c
}

// Current returns the question waiting for an answer.
func (a *ActiveQuiz) Current() (ExportQuiz, bool) {
	if a.Done() {
		return ExportQuiz{}, false
	}
	return a.Questions[len(a.Outcomes)], true
}

// Answer records an answer (nil to skip) for the current question.
func (a *ActiveQuiz) Answer(userAnswer *int) (QuestionOutcome, bool) {
	q, ok := a.Current()
	if !ok {
		return QuestionOutcome{}, false
	}
	o := NewQuestionOutcome(q, userAnswer)
	a.Outcomes = append(a.Outcomes, o)
	return o, true
}

// Done reports whether every question has an outcome.
func (a *ActiveQuiz) Done() bool {
	return len(a.Outcomes) >= len(a.Questions)
}

// Position returns the 1-based number of the current question.
func (a *ActiveQuiz) Position() int {
	return len(a.Outcomes) + 1
}

// Tally counts correct and skipped outcomes.
func (a *ActiveQuiz) Tally() (score, skipped int) {
	for _, o := range a.Outcomes {
		switch {
		case o.IsCorrect:
			score++
		case o.Skipped():
			skipped++
		}
	}
	return score, skipped
}

// SessionResult is a finished session as submitted by a quiz-taking client.
type SessionResult struct {
	Category  Category          `json:"category" validate:"required"`
	Score     int               `json:"score" validate:"min=0"`
	Total     int               `json:"total" validate:"min=0"`
	Skipped   int               `json:"skipped" validate:"min=0"`
	Questions []QuestionOutcome `json:"questions"`
}
