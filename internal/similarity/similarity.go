// Package similarity flags quiz questions that are near-duplicates of existing ones.
package similarity

import (
	"math"
	"regexp"
	"strings"
	"unicode"
)

// Threshold is the similarity at or above which two questions are considered the same.
const Threshold = 0.6

// minTokenLen is the shortest token kept after normalization. Shorter words are noise.
const minTokenLen = 4

var nonWord = regexp.MustCompile(`[^\w\s]`)

// Entry is an existing question the candidate is compared against.
type Entry struct {
	ID       string
	Question string
}

// Match describes the first existing entry a candidate was found similar to.
type Match struct {
	IsMatch     bool   `json:"isMatch"`
	MatchedID   string `json:"matchedId,omitempty"`
	MatchedText string `json:"matchedText,omitempty"`
	Percentage  int    `json:"percentage,omitempty"`
}

// Checker compares candidate questions against a collection.
type Checker struct {
	threshold float64 // similarity threshold (0.0 - 1.0)
}

// NewChecker creates a Checker with the default threshold.
func NewChecker() *Checker {
	return &Checker{threshold: Threshold}
}

// IsDuplicate reports whether candidate is similar to any entry except excludeID.
func (c *Checker) IsDuplicate(candidate string, existing []Entry, excludeID string) bool {
	return c.ScoreAgainstAll(candidate, existing, excludeID).IsMatch
}

// ScoreAgainstAll returns the first entry, in collection order, whose similarity to
// candidate reaches the threshold. It is not necessarily the most similar one.
func (c *Checker) ScoreAgainstAll(candidate string, existing []Entry, excludeID string) Match {
	words := Normalize(candidate)
	if len(words) == 0 {
		return Match{}
	}

	for _, e := range existing {
		if excludeID != "" && e.ID == excludeID {
			continue
		}

		s := score(words, Normalize(e.Question))
		if s >= c.threshold {
			return Match{
				IsMatch:     true,
				MatchedID:   e.ID,
				MatchedText: e.Question,
				Percentage:  int(math.Round(s * 100)),
			}
		}
	}

	return Match{}
}

// Similarity returns the share of a's tokens found in b, relative to the longer token list.
// The ratio is asymmetric: repeated tokens in a are each counted.
func Similarity(a, b string) float64 {
	return score(Normalize(a), Normalize(b))
}

// Normalize lower-cases s, strips everything but word characters and whitespace
// and returns the tokens longer than three characters.
func Normalize(s string) []string {
	s = strings.ToLower(s)
	// \s only knows ASCII spaces, so other separators must not be stripped as punctuation.
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return ' '
		}
		return r
	}, s)
	s = nonWord.ReplaceAllString(s, "")

	fields := strings.Fields(s)
	words := fields[:0]
	for _, w := range fields {
		if len(w) >= minTokenLen {
			words = append(words, w)
		}
	}
	return words
}

func score(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	present := make(map[string]struct{}, len(b))
	for _, w := range b {
		present[w] = struct{}{}
	}

	common := 0
	for _, w := range a {
		if _, ok := present[w]; ok {
			common++
		}
	}

	return float64(common) / float64(max(len(a), len(b)))
}
