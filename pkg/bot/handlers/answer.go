package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/smith3v/tg-word-tutor/pkg/ui"
)

// handleAnswer checks text against the current word. It returns false when
// the sender has no word to answer.
func (h *Handlers) handleAnswer(ctx context.Context, b *bot.Bot, update *models.Update, text string) bool {
	chatID, userID := update.Message.Chat.ID, update.Message.From.ID
	session, err := h.sessions.Load(ctx, chatID, userID)
	if err != nil {
		h.log.Error("failed to load practice session", "user_id", userID, "error", err)
		return false
	}
	if session == nil || session.CurrentWordID == "" {
		return false
	}

	result, err := h.tutor.CheckAnswer(ctx, session.StudentID, session.SessionID, session.CurrentWordID, text)
	if err != nil {
		h.log.Error("failed to check answer", "user_id", userID, "word_id", session.CurrentWordID, "error", err)
		h.send(ctx, b, chatID, "Failed to check your answer. Please try again later.")
		return true
	}

	if !result.Verdict.Accepted {
		if err := h.sessions.Touch(ctx, session); err != nil {
			h.log.Error("failed to touch practice session", "session_id", session.SessionID, "error", err)
		}
		h.send(ctx, b, chatID, result.Feedback+"\nTry again. Here is a hint.")
		h.sendHints(ctx, b, session, false)
		return true
	}

	if err := h.sessions.ClearCurrentWord(ctx, session); err != nil {
		h.log.Error("failed to clear current word", "session_id", session.SessionID, "error", err)
	}
	reply, keyboard, err := ui.RenderAfterAnswer(result.Feedback)
	if err != nil {
		h.log.Error("failed to render answer reply", "error", err)
		h.send(ctx, b, chatID, result.Feedback)
		return true
	}
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        reply,
		ReplyMarkup: keyboard,
	}); err != nil {
		h.log.Error("failed to send answer reply", "chat_id", chatID, "error", err)
	}
	return true
}
