// messages.go contains message templates and formatting functions for Telegram.

package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/japan-trivia/internal/domain/entities"
)

// Error and notice messages.
const (
	msgInternalError   = "Something went wrong. Please try again later."
	msgNoQuestions     = "There are no questions for this selection yet. Try another category."
	msgNoActiveQuiz    = "This quiz is no longer active. Start a new one with /categories or /random."
	msgStaleAnswer     = "That question was already answered."
	msgReviewUsage     = "Usage: /review <session id>. Find the id with /history."
	msgReviewNotFound  = "No stored review with that id."
	msgNoHistory       = "You have not finished any quiz yet."
	msgSettingsSaved   = "Settings saved."
	msgInvalidCallback = "Unknown action."
	msgUnknownCommand  = "Unknown command. Available commands:\n\n/categories - quiz by category\n/random - quiz from every category\n/stats - your statistics\n/history - recent quizzes\n/settings - questions per quiz"
)

const (
	historyListLength   = 10
	progressBarSegments = 10
)

var msgWelcome = strings.Join([]string{
	bold("Welcome to Japan Trivia!"),
	"",
	md("Test what you know about Japanese culture, food, history and more before your trip."),
	"",
	md("/categories - pick a category"),
	md("/random - mixed questions"),
	md("/stats - your statistics"),
	md("/history - recent quizzes"),
	md("/settings - questions per quiz"),
}, "\n")

// md escapes plain text for MarkdownV2.
func md(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, s)
}

func bold(s string) string {
	return "*" + md(s) + "*"
}

// newMessage creates a message with MarkdownV2 parse mode.
func newMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	return msg
}

func categoryTitle(c entities.Category) string {
	info := c.Info()
	if info.Label == "" {
		return string(c)
	}
	return info.Emoji + " " + info.Label
}

func formatCategories(categories []entities.Category) string {
	lines := []string{bold("Choose a category"), ""}
	for _, c := range categories {
		lines = append(lines, md(fmt.Sprintf("%s - %s", categoryTitle(c), c.Info().Description)))
	}
	return strings.Join(lines, "\n")
}

func formatQuestion(q entities.ExportQuiz, position, total int) string {
	lines := []string{
		md(fmt.Sprintf("Question %d/%d", position, total)),
		"",
		bold(q.Question),
		"",
	}
	for i, o := range q.Options {
		lines = append(lines, md(fmt.Sprintf("%c. %s", 'A'+i, o)))
	}
	return strings.Join(lines, "\n")
}

func formatOutcome(o entities.QuestionOutcome) string {
	var head string
	switch {
	case o.IsCorrect:
		head = "✅ Correct!"
	case o.Skipped():
		head = "⏭ Skipped. The answer was: " + optionText(o.Options, o.CorrectAnswer)
	default:
		head = "❌ Not quite. The answer was: " + optionText(o.Options, o.CorrectAnswer)
	}

	if o.Explanation == "" {
		return md(head)
	}
	return md(head) + "\n\n" + "_" + md(o.Explanation) + "_"
}

func formatResult(r *entities.QuizReview) string {
	category := categoryTitle(r.Category)

	return strings.Join([]string{
		bold("Quiz complete!"),
		"",
		md(fmt.Sprintf("Category: %s", category)),
		md(fmt.Sprintf("Score: %d/%d (%d%%)", r.Score, r.Total, r.Percentage)),
		md(fmt.Sprintf("Correct: %d  Incorrect: %d  Skipped: %d", r.Score, r.Incorrect(), r.Skipped)),
		"",
		md(progressBar(r.Percentage)),
	}, "\n")
}

func formatStatistics(s entities.Statistics) string {
	if s.TotalQuizzes == 0 {
		return md(msgNoHistory)
	}

	lines := []string{
		bold("📊 Your statistics"),
		"",
		md(fmt.Sprintf("Quizzes taken: %d", s.TotalQuizzes)),
		md(fmt.Sprintf("Correct answers: %d/%d", s.TotalCorrect, s.TotalQuestions)),
		md(fmt.Sprintf("Average: %d%%", s.AveragePercentage)),
		md(progressBar(s.AveragePercentage)),
	}

	var perCategory []string
	for _, c := range append(entities.Categories(), entities.CategoryRandom) {
		cs, ok := s.ByCategory[c]
		if !ok {
			continue
		}
		perCategory = append(perCategory, md(fmt.Sprintf("%s: %d%% (%d quizzes)", categoryTitle(c), cs.Percentage, cs.Quizzes)))
	}
	if len(perCategory) > 0 {
		lines = append(lines, "", bold("By category"))
		lines = append(lines, perCategory...)
	}

	return strings.Join(lines, "\n")
}

func formatHistory(entries []entities.HistoryEntry) string {
	if len(entries) == 0 {
		return md(msgNoHistory)
	}

	lines := []string{bold("🕘 Recent quizzes"), ""}
	for _, e := range entries {
		category := categoryTitle(e.Category)
		lines = append(lines, md(fmt.Sprintf(
			"%s  %s  %d/%d (%d%%)  id %s",
			e.Date.Format("2006-01-02 15:04"), category, e.Score, e.Total, e.Percentage, e.ID,
		)))
	}
	return strings.Join(lines, "\n")
}

func formatReview(r *entities.QuizReview) string {
	lines := []string{formatResult(r), ""}
	for i, q := range r.Questions {
		mark := "❌"
		switch {
		case q.IsCorrect:
			mark = "✅"
		case q.Skipped():
			mark = "⏭"
		}

		lines = append(lines, md(fmt.Sprintf("%s %d. %s", mark, i+1, q.Question)))
		if q.UserAnswer != nil && !q.IsCorrect {
			lines = append(lines, md("   Your answer: "+optionText(q.Options, *q.UserAnswer)))
		}
		lines = append(lines, md("   Correct answer: "+optionText(q.Options, q.CorrectAnswer)))
	}
	return strings.Join(lines, "\n")
}

func formatSettings(s entities.Settings) string {
	return strings.Join([]string{
		bold("⚙️ Settings"),
		"",
		md(fmt.Sprintf("Questions per quiz: %s", s.DefaultQuestionCount)),
	}, "\n")
}

func optionText(options []string, i int) string {
	if i < 0 || i >= len(options) {
		return "?"
	}
	return options[i]
}

// progressBar renders percent as a bar of progressBarSegments blocks.
func progressBar(percent int) string {
	filled := min(max(percent*progressBarSegments/100, 0), progressBarSegments)
	return strings.Repeat("█", filled) + strings.Repeat("░", progressBarSegments-filled)
}
