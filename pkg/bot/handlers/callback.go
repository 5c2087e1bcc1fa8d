package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/samber/lo"
	"github.com/smith3v/tg-word-tutor/pkg/db"
	"github.com/smith3v/tg-word-tutor/pkg/ui"
)

func (h *Handlers) HandleCallback(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update == nil || update.CallbackQuery == nil {
		h.log.Error("invalid update in HandleCallback")
		return
	}

	callbackID := update.CallbackQuery.ID
	answerCallback := func(text string) {
		if callbackID == "" {
			return
		}
		if _, err := b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
			CallbackQueryID: callbackID,
			Text:            text,
		}); err != nil {
			h.log.Error("failed to answer callback query", "error", err)
		}
	}

	action, err := ui.ParseCallbackData(update.CallbackQuery.Data)
	if err != nil {
		answerCallback("Not active")
		return
	}

	message := update.CallbackQuery.Message
	if message.Type != models.MaybeInaccessibleMessageTypeMessage || message.Message == nil || message.Message.Chat.ID == 0 {
		answerCallback("Message missing")
		return
	}
	chatID := message.Message.Chat.ID
	userID := update.CallbackQuery.From.ID

	switch action.Kind {
	case ui.KindNext:
		answerCallback("")
		session, _, err := h.sessions.LoadOrStart(ctx, chatID, userID)
		if err != nil {
			h.log.Error("failed to load practice session", "user_id", userID, "error", err)
			return
		}
		h.sendNextWord(ctx, b, session)
	case ui.KindSummary:
		answerCallback("")
		h.sendSummary(ctx, b, chatID, userID)
	case ui.KindHint, ui.KindSkip:
		session, err := h.sessions.Load(ctx, chatID, userID)
		if err != nil {
			h.log.Error("failed to load practice session", "user_id", userID, "error", err)
			answerCallback("Not active")
			return
		}
		if session == nil || session.CurrentWordID != action.WordID {
			answerCallback("Not active")
			return
		}
		answerCallback("")
		if action.Kind == ui.KindHint {
			h.sendHints(ctx, b, session, true)
			return
		}
		h.revealSynonyms(ctx, b, session.ChatID, action.WordID)
		h.sendNextWord(ctx, b, session, action.WordID)
	}
}

func (h *Handlers) revealSynonyms(ctx context.Context, b *bot.Bot, chatID int64, wordID string) {
	word, err := h.store.GetWord(ctx, wordID)
	if err != nil {
		h.log.Error("failed to load skipped word", "word_id", wordID, "error", err)
		return
	}
	synonyms := lo.Map(word.Synonyms, func(s db.Synonym, _ int) string {
		return s.Text
	})
	h.send(ctx, b, chatID, fmt.Sprintf("Skipped. Synonyms of %s: %s.", word.Text, strings.Join(synonyms, ", ")))
}
