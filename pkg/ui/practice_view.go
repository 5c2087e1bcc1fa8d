package ui

import (
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// RenderWordPrompt asks for a synonym of word and attaches the hint and skip
// buttons for it.
func RenderWordPrompt(wordID, word, category string) (string, *models.InlineKeyboardMarkup, error) {
	hintData, err := BuildHintCallback(wordID)
	if err != nil {
		return "", nil, err
	}
	skipData, err := BuildSkipCallback(wordID)
	if err != nil {
		return "", nil, err
	}

	text := fmt.Sprintf("Give a synonym for *%s*", bot.EscapeMarkdown(word))
	if category != "" {
		text += fmt.Sprintf(" \\(%s\\)", bot.EscapeMarkdown(category))
	}

	keyboard := &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: "Hint", CallbackData: hintData},
				{Text: "Skip", CallbackData: skipData},
			},
		},
	}
	return text, keyboard, nil
}

// RenderAfterAnswer offers the next word or the session summary.
func RenderAfterAnswer(feedback string) (string, *models.InlineKeyboardMarkup, error) {
	nextData, err := BuildNextCallback()
	if err != nil {
		return "", nil, err
	}
	summaryData, err := BuildSummaryCallback()
	if err != nil {
		return "", nil, err
	}
	keyboard := &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: "Next word", CallbackData: nextData},
				{Text: "Summary", CallbackData: summaryData},
			},
		},
	}
	return feedback, keyboard, nil
}

// FormatHints numbers hints, continuing after the ones already shown.
func FormatHints(hints []string, alreadyShown int) string {
	var b strings.Builder
	b.WriteString("Hints:")
	for i, hint := range hints {
		fmt.Fprintf(&b, "\n%d. %s", alreadyShown+i+1, hint)
	}
	return b.String()
}

// FormatStats renders lifetime progress for /stats.
func FormatStats(correct, incorrect, learned, total int64) string {
	return fmt.Sprintf(
		"Your progress\n- Correct answers: %d\n- Incorrect answers: %d\n- Words learned: %d of %d",
		correct, incorrect, learned, total,
	)
}
