package handlers

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

const helpText = "Commands:\n" +
	"* /word: get a word to practise\n" +
	"* /hint: get hints for the current word\n" +
	"* /summary: summarise this practice session\n" +
	"* /quit: end this practice session with a summary\n" +
	"* /stats: show your overall progress\n" +
	"* /reset: forget your learning history\n\n" +
	"Reply to a word with a synonym to answer it."

func (h *Handlers) HandleDefault(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !validMessage(update) {
		h.log.Error("invalid update in HandleDefault")
		return
	}

	if update.Message.Document != nil {
		h.handleDocument(ctx, b, update)
		return
	}

	text := strings.TrimSpace(update.Message.Text)
	if text != "" && !strings.HasPrefix(text, "/") {
		if h.handleAnswer(ctx, b, update, text) {
			return
		}
	}
	h.send(ctx, b, update.Message.Chat.ID, helpText)
}
