package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/japan-trivia/internal/domain/entities"
)

// buildMainKeyboard builds the keyboard shown with the welcome message.
func buildMainKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗂 Categories", actionCategories),
			tgbotapi.NewInlineKeyboardButtonData("🎲 Random quiz", actionRandom),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 Statistics", actionStats),
			tgbotapi.NewInlineKeyboardButtonData("🕘 History", actionHistory),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⚙️ Settings", actionSettings),
		),
	)
}

// buildCategoryKeyboard builds one button per category, two per row.
func buildCategoryKeyboard(categories []entities.Category) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for i := 0; i < len(categories); i += 2 {
		row := []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData(categoryTitle(categories[i]), buildCategoryCallback(categories[i])),
		}
		if i+1 < len(categories) {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(
				categoryTitle(categories[i+1]), buildCategoryCallback(categories[i+1]),
			))
		}
		rows = append(rows, row)
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🎲 Random quiz", actionRandom),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buildQuestionKeyboard builds the option buttons of a question.
func buildQuestionKeyboard(q entities.ExportQuiz, position int) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for i := range q.Options {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("%c", 'A'+i), buildAnswerCallback(position, i)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("⏭ Skip", buildSkipCallback(position)),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buildResultKeyboard builds the keyboard under a finished quiz.
func buildResultKeyboard(reviewID string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔍 Review answers", buildReviewCallback(reviewID)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗂 Categories", actionCategories),
			tgbotapi.NewInlineKeyboardButtonData("🎲 Random quiz", actionRandom),
		),
	)
}

// buildHistoryKeyboard links every listed session to its review.
func buildHistoryKeyboard(entries []entities.HistoryEntry) *tgbotapi.InlineKeyboardMarkup {
	if len(entries) == 0 {
		return nil
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, e := range entries {
		label := fmt.Sprintf("🔍 %s %d/%d", e.Date.Format("01-02 15:04"), e.Score, e.Total)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, buildReviewCallback(e.ID)),
		))
	}

	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}

// buildSettingsKeyboard builds the question count choices.
func buildSettingsKeyboard(current entities.QuestionCount) tgbotapi.InlineKeyboardMarkup {
	var row []tgbotapi.InlineKeyboardButton
	for _, c := range entities.QuestionCounts() {
		label := c.String()
		if c == current {
			label = "✓ " + label
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, buildCountCallback(c)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(row)
}
