package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/smith3v/tg-word-tutor/pkg/agent"
	"github.com/smith3v/tg-word-tutor/pkg/db"
	"github.com/smith3v/tg-word-tutor/pkg/ui"
)

func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !validMessage(update) {
		h.log.Error("invalid update in HandleStart")
		return
	}
	chatID, userID := update.Message.Chat.ID, update.Message.From.ID

	session, err := h.sessions.Start(ctx, chatID, userID)
	if err != nil {
		h.log.Error("failed to start practice session", "user_id", userID, "error", err)
		h.send(ctx, b, chatID, "Failed to start practice. Please try again later.")
		return
	}
	h.send(ctx, b, chatID, "Namaste! Each word I send has synonyms. Reply with one of them.")
	h.sendNextWord(ctx, b, session)
}

func (h *Handlers) HandleWord(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !validMessage(update) {
		h.log.Error("invalid update in HandleWord")
		return
	}
	chatID, userID := update.Message.Chat.ID, update.Message.From.ID

	session, _, err := h.sessions.LoadOrStart(ctx, chatID, userID)
	if err != nil {
		h.log.Error("failed to load practice session", "user_id", userID, "error", err)
		h.send(ctx, b, chatID, "Failed to start practice. Please try again later.")
		return
	}
	h.sendNextWord(ctx, b, session)
}

// sendNextWord asks the next unlearned word and remembers it on the session.
func (h *Handlers) sendNextWord(ctx context.Context, b *bot.Bot, session *db.PracticeSession, skip ...string) {
	next, err := h.tutor.NextWord(ctx, session.StudentID, skip...)
	if err != nil {
		h.log.Error("failed to select next word", "student_id", session.StudentID, "error", err)
		h.send(ctx, b, session.ChatID, "Failed to pick a word. Please try again later.")
		return
	}

	switch next.State {
	case agent.StateNoWords:
		h.send(ctx, b, session.ChatID, "There are no words to practise yet.")
		return
	case agent.StateAllLearned:
		h.send(ctx, b, session.ChatID, "You have learned every word. Use /summary to see how it went.")
		if err := h.sessions.ClearCurrentWord(ctx, session); err != nil {
			h.log.Error("failed to clear current word", "session_id", session.SessionID, "error", err)
		}
		return
	}

	text, keyboard, err := ui.RenderWordPrompt(next.Word.ID, next.Word.Text, next.Word.Category)
	if err != nil {
		h.log.Error("failed to render word prompt", "word_id", next.Word.ID, "error", err)
		return
	}
	msg, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      session.ChatID,
		Text:        text,
		ParseMode:   models.ParseModeMarkdown,
		ReplyMarkup: keyboard,
	})
	if err != nil {
		h.log.Error("failed to send word prompt", "chat_id", session.ChatID, "error", err)
		return
	}
	if err := h.sessions.SetCurrentWord(ctx, session, next.Word.ID, msg.ID); err != nil {
		h.log.Error("failed to store current word", "session_id", session.SessionID, "error", err)
	}
}

// loadCurrent returns the live session of the sender, or nil after telling
// them to ask for a word first.
func (h *Handlers) loadCurrent(ctx context.Context, b *bot.Bot, chatID, userID int64) *db.PracticeSession {
	session, err := h.sessions.Load(ctx, chatID, userID)
	if err != nil {
		h.log.Error("failed to load practice session", "user_id", userID, "error", err)
		h.send(ctx, b, chatID, "Failed to load your practice. Please try again later.")
		return nil
	}
	if session == nil || session.CurrentWordID == "" {
		h.send(ctx, b, chatID, "There is no word to answer. Use /word to get one.")
		return nil
	}
	return session
}
