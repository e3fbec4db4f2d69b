package entities

import (
	"strings"
	"time"
)

// OptionCount is the fixed number of answer options per quiz.
const OptionCount = 4

// ReviewStatus is the editorial state of a quiz record.
type ReviewStatus string

const (
	ReviewStatusDraft     ReviewStatus = "draft"     // created, not yet looked at
	ReviewStatusReviewing ReviewStatus = "reviewing" // picked up by a reviewer
	ReviewStatusApproved  ReviewStatus = "approved"  // published in the export feed
	ReviewStatusRejected  ReviewStatus = "rejected"  // kept for reference, never exported
)

// Valid reports whether s is a known review status.
func (s ReviewStatus) Valid() bool {
	switch s {
	case ReviewStatusDraft, ReviewStatusReviewing, ReviewStatusApproved, ReviewStatusRejected:
		return true
	}
	return false
}

// Quiz is a persisted trivia question managed through the CMS.
type Quiz struct {
	ID            string       `json:"id"`                    // uuid
	Question      string       `json:"question"`              // question text
	Options       []string     `json:"options"`               // exactly four options
	CorrectAnswer int          `json:"correctAnswer"`         // index into Options (0-3)
	Explanation   string       `json:"explanation,omitempty"` // shown after answering
	Difficulty    Difficulty   `json:"difficulty"`
	Category      Category     `json:"category"`
	Tags          []string     `json:"tags"`
	ReviewStatus  ReviewStatus `json:"reviewStatus"`
	ReviewNotes   string       `json:"reviewNotes,omitempty"`
	HasSimilar    *bool        `json:"hasSimilar,omitempty"` // nil until similarity was checked
	Version       int64        `json:"version,omitempty"`    // optimistic lock counter (postgres)
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}

// QuizInput is the author-supplied part of a quiz. ID, status and timestamps are generated.
type QuizInput struct {
	Question      string     `json:"question"`
	Options       []string   `json:"options"`
	CorrectAnswer int        `json:"correctAnswer"`
	Explanation   string     `json:"explanation,omitempty"`
	Difficulty    Difficulty `json:"difficulty"`
	Category      Category   `json:"category"`
	Tags          []string   `json:"tags"`
}

// NewQuiz creates a draft quiz from input.
func NewQuiz(id string, in QuizInput, now time.Time) *Quiz {
	return &Quiz{
		ID:            id,
		Question:      in.Question,
		Options:       append([]string(nil), in.Options...),
		CorrectAnswer: in.CorrectAnswer,
		Explanation:   in.Explanation,
		Difficulty:    in.Difficulty,
		Category:      in.Category,
		Tags:          normalizeTags(in.Tags),
		ReviewStatus:  ReviewStatusDraft,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Input returns the content fields of the quiz.
func (q *Quiz) Input() QuizInput {
	return QuizInput{
		Question:      q.Question,
		Options:       append([]string(nil), q.Options...),
		CorrectAnswer: q.CorrectAnswer,
		Explanation:   q.Explanation,
		Difficulty:    q.Difficulty,
		Category:      q.Category,
		Tags:          append([]string(nil), q.Tags...),
	}
}

// QuizPatch names exactly the content fields an update intends to change.
// Nil fields are left untouched.
type QuizPatch struct {
	Question      *string     `json:"question,omitempty"`
	Options       *[]string   `json:"options,omitempty"`
	CorrectAnswer *int        `json:"correctAnswer,omitempty"`
	Explanation   *string     `json:"explanation,omitempty"`
	Difficulty    *Difficulty `json:"difficulty,omitempty"`
	Category      *Category   `json:"category,omitempty"`
	Tags          *[]string   `json:"tags,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p QuizPatch) Empty() bool {
	return p.Question == nil && p.Options == nil && p.CorrectAnswer == nil &&
		p.Explanation == nil && p.Difficulty == nil && p.Category == nil && p.Tags == nil
}

// Apply returns a copy of in with the patch merged on top.
func (p QuizPatch) Apply(in QuizInput) QuizInput {
	if p.Question != nil {
		in.Question = *p.Question
	}
	if p.Options != nil {
		in.Options = append([]string(nil), (*p.Options)...)
	}
	if p.CorrectAnswer != nil {
		in.CorrectAnswer = *p.CorrectAnswer
	}
	if p.Explanation != nil {
		in.Explanation = *p.Explanation
	}
	if p.Difficulty != nil {
		in.Difficulty = *p.Difficulty
	}
	if p.Category != nil {
		in.Category = *p.Category
	}
	if p.Tags != nil {
		in.Tags = append([]string(nil), (*p.Tags)...)
	}
	return in
}

// ApplyContent overwrites the content fields of q with in and bumps UpdatedAt.
func (q *Quiz) ApplyContent(in QuizInput, now time.Time) {
	q.Question = in.Question
	q.Options = append([]string(nil), in.Options...)
	q.CorrectAnswer = in.CorrectAnswer
	q.Explanation = in.Explanation
	q.Difficulty = in.Difficulty
	q.Category = in.Category
	q.Tags = normalizeTags(in.Tags)
	q.UpdatedAt = now
}

// ReviewAction is an explicit reviewer decision.
type ReviewAction struct {
	Status ReviewStatus `json:"status"`
	Notes  *string      `json:"notes,omitempty"`
}

// QuizFilter narrows a quiz listing. Zero values match everything.
type QuizFilter struct {
	Category     Category
	Difficulty   Difficulty
	ReviewStatus ReviewStatus
	SearchQuery  string
}

// Match reports whether q passes the filter.
func (f QuizFilter) Match(q *Quiz) bool {
	if f.Category != "" && q.Category != f.Category {
		return false
	}
	if f.Difficulty != "" && q.Difficulty != f.Difficulty {
		return false
	}
	if f.ReviewStatus != "" && q.ReviewStatus != f.ReviewStatus {
		return false
	}

	needle := strings.ToLower(strings.TrimSpace(f.SearchQuery))
	if needle == "" {
		return true
	}
	if strings.Contains(strings.ToLower(q.Question), needle) {
		return true
	}
	for _, o := range q.Options {
		if strings.Contains(strings.ToLower(o), needle) {
			return true
		}
	}
	for _, t := range q.Tags {
		if strings.Contains(strings.ToLower(t), needle) {
			return true
		}
	}
	return false
}

// ExportQuiz is the public projection of an approved quiz consumed by quiz-taking clients.
type ExportQuiz struct {
	ID            string     `json:"id"`
	Question      string     `json:"question"`
	Options       []string   `json:"options"`
	CorrectAnswer int        `json:"correctAnswer"`
	Explanation   string     `json:"explanation,omitempty"`
	Difficulty    Difficulty `json:"difficulty"`
	Category      Category   `json:"category"`
	Tags          []string   `json:"tags"`
}

// Export projects q for the export feed.
func (q *Quiz) Export() ExportQuiz {
	return ExportQuiz{
		ID:            q.ID,
		Question:      q.Question,
		Options:       append([]string(nil), q.Options...),
		CorrectAnswer: q.CorrectAnswer,
		Explanation:   q.Explanation,
		Difficulty:    q.Difficulty,
		Category:      q.Category,
		Tags:          append([]string(nil), q.Tags...),
	}
}

// normalizeTags trims tags and drops empty and repeated ones.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
