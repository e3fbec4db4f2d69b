package entities

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// QuestionCount is the number of questions per quiz a user asked for.
// QuestionCountAll means every available question.
type QuestionCount int

const (
	QuestionCountAll    QuestionCount = 0
	QuestionCountFive   QuestionCount = 5
	QuestionCountTen    QuestionCount = 10
	QuestionCountTwenty QuestionCount = 20
)

// QuestionCounts lists the selectable counts.
func QuestionCounts() []QuestionCount {
	return []QuestionCount{QuestionCountFive, QuestionCountTen, QuestionCountTwenty, QuestionCountAll}
}

// Valid reports whether c is a selectable count.
func (c QuestionCount) Valid() bool {
	switch c {
	case QuestionCountAll, QuestionCountFive, QuestionCountTen, QuestionCountTwenty:
		return true
	}
	return false
}

// Limit returns how many of available questions to take.
func (c QuestionCount) Limit(available int) int {
	if c == QuestionCountAll || int(c) > available {
		return available
	}
	return int(c)
}

func (c QuestionCount) String() string {
	if c == QuestionCountAll {
		return "all"
	}
	return strconv.Itoa(int(c))
}

// ParseQuestionCount parses "5", "10", "20" or "all".
func ParseQuestionCount(s string) (QuestionCount, error) {
	if s == "all" {
		return QuestionCountAll, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || !QuestionCount(n).Valid() || n == 0 {
		return 0, fmt.Errorf("invalid question count %q", s)
	}
	return QuestionCount(n), nil
}

// MarshalJSON encodes the count as a number, or "all".
func (c QuestionCount) MarshalJSON() ([]byte, error) {
	if c == QuestionCountAll {
		return []byte(`"all"`), nil
	}
	return []byte(strconv.Itoa(int(c))), nil
}

// UnmarshalJSON accepts a number or "all".
func (c *QuestionCount) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		v, err := ParseQuestionCount(s)
		if err != nil {
			return err
		}
		*c = v
		return nil
	}

	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("question count: %w", err)
	}
	if n == 0 || !QuestionCount(n).Valid() {
		return fmt.Errorf("invalid question count %d", n)
	}
	*c = QuestionCount(n)
	return nil
}

// Settings stores per-user quiz preferences.
type Settings struct {
	DefaultQuestionCount QuestionCount `json:"defaultQuestionCount"`
}

// DefaultSettings returns the settings used before the user changed anything.
func DefaultSettings() Settings {
	return Settings{DefaultQuestionCount: QuestionCountTen}
}
