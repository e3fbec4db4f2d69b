package telegram

import (
	"strconv"
	"strings"

	"github.com/aliskhannn/japan-trivia/internal/domain/entities"
)

// Callback action constants.
const (
	actionCategory   = "cat"
	actionCategories = "cats"
	actionRandom     = "rnd"
	actionAnswer     = "ans"
	actionSkip       = "skip"
	actionCount      = "cnt"
	actionSettings   = "set"
	actionStats      = "stats"
	actionHistory    = "hist"
	actionReview     = "rev"
)

// callbackData represents structured callback data.
type callbackData struct {
	Action string
	Params []string
	Raw    string
}

// encode creates callback string.
func (cd callbackData) encode() string {
	if len(cd.Params) == 0 {
		return cd.Action
	}
	return cd.Action + ":" + strings.Join(cd.Params, ":")
}

// decodeCallback parses callback data string.
func decodeCallback(data string) callbackData {
	parts := strings.Split(data, ":")
	return callbackData{
		Action: parts[0],
		Params: parts[1:],
		Raw:    data,
	}
}

// intParam returns the i-th parameter as an int.
func (cd callbackData) intParam(i int) (int, bool) {
	if i >= len(cd.Params) {
		return 0, false
	}
	n, err := strconv.Atoi(cd.Params[i])
	if err != nil {
		return 0, false
	}
	return n, true
}

func buildCategoryCallback(c entities.Category) string {
	return callbackData{Action: actionCategory, Params: []string{string(c)}}.encode()
}

// buildAnswerCallback carries the question position so a stale button
// cannot answer a later question.
func buildAnswerCallback(position, option int) string {
	return callbackData{
		Action: actionAnswer,
		Params: []string{strconv.Itoa(position), strconv.Itoa(option)},
	}.encode()
}

func buildSkipCallback(position int) string {
	return callbackData{Action: actionSkip, Params: []string{strconv.Itoa(position)}}.encode()
}

func buildCountCallback(c entities.QuestionCount) string {
	return callbackData{Action: actionCount, Params: []string{c.String()}}.encode()
}

func buildReviewCallback(id string) string {
	return callbackData{Action: actionReview, Params: []string{id}}.encode()
}
