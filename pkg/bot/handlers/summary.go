package handlers

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/smith3v/tg-word-tutor/pkg/bot/practice"
	"github.com/smith3v/tg-word-tutor/pkg/ui"
)

// HandleSummary summarises the live session, or the whole history when
// there is none.
func (h *Handlers) HandleSummary(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !validMessage(update) {
		h.log.Error("invalid update in HandleSummary")
		return
	}
	h.sendSummary(ctx, b, update.Message.Chat.ID, update.Message.From.ID)
}

func (h *Handlers) sendSummary(ctx context.Context, b *bot.Bot, chatID, userID int64) {
	studentID := practice.StudentID(userID)
	sessionID := ""
	session, err := h.sessions.Load(ctx, chatID, userID)
	if err != nil {
		h.log.Error("failed to load practice session", "user_id", userID, "error", err)
	} else if session != nil {
		sessionID = session.SessionID
	}

	summary, err := h.tutor.Summarize(ctx, studentID, sessionID)
	if err != nil {
		h.log.Error("failed to summarise session", "student_id", studentID, "error", err)
		h.send(ctx, b, chatID, "Failed to build the summary. Please try again later.")
		return
	}
	if summary.Attempts() == 0 {
		h.send(ctx, b, chatID, "Nothing to summarise yet. Use /word to start.")
		return
	}
	h.send(ctx, b, chatID, h.tutor.SummaryMessage(ctx, summary))
}

// HandleQuit ends the live practice session and sends its summary.
func (h *Handlers) HandleQuit(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !validMessage(update) {
		h.log.Error("invalid update in HandleQuit")
		return
	}
	chatID, userID := update.Message.Chat.ID, update.Message.From.ID

	session, err := h.sessions.Load(ctx, chatID, userID)
	if err != nil {
		h.log.Error("failed to load practice session", "user_id", userID, "error", err)
		h.send(ctx, b, chatID, "Failed to end the practice session. Please try again later.")
		return
	}
	if session == nil {
		h.send(ctx, b, chatID, "There is no practice session to end. Use /word to start.")
		return
	}

	reply := "Practice ended."
	summary, err := h.tutor.Summarize(ctx, session.StudentID, session.SessionID)
	if err != nil {
		h.log.Error("failed to summarise session", "session_id", session.SessionID, "error", err)
	} else if summary.Attempts() > 0 {
		reply += "\n" + h.tutor.SummaryMessage(ctx, summary)
	}
	if err := h.sessions.End(ctx, chatID, userID); err != nil {
		h.log.Error("failed to end practice session", "user_id", userID, "error", err)
		h.send(ctx, b, chatID, "Failed to end the practice session. Please try again later.")
		return
	}
	h.send(ctx, b, chatID, reply)
}

func (h *Handlers) HandleStats(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !validMessage(update) {
		h.log.Error("invalid update in HandleStats")
		return
	}
	chatID := update.Message.Chat.ID
	studentID := practice.StudentID(update.Message.From.ID)

	summary, err := h.tutor.Summarize(ctx, studentID, "")
	if err != nil {
		h.log.Error("failed to load stats", "student_id", studentID, "error", err)
		h.send(ctx, b, chatID, "Failed to load your progress. Please try again later.")
		return
	}
	total, err := h.store.CountWords(ctx)
	if err != nil {
		h.log.Error("failed to count words", "error", err)
		h.send(ctx, b, chatID, "Failed to load your progress. Please try again later.")
		return
	}
	h.send(ctx, b, chatID, ui.FormatStats(summary.CorrectAnswers, summary.IncorrectAnswers, summary.TotalWordsLearned, total))
}

func (h *Handlers) HandleReset(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !validMessage(update) {
		h.log.Error("invalid update in HandleReset")
		return
	}
	chatID, userID := update.Message.Chat.ID, update.Message.From.ID

	removed, err := h.tutor.Reset(ctx, practice.StudentID(userID))
	if err != nil {
		h.log.Error("failed to reset history", "user_id", userID, "error", err)
		h.send(ctx, b, chatID, "Failed to reset your progress. Please try again later.")
		return
	}
	if err := h.sessions.End(ctx, chatID, userID); err != nil {
		h.log.Error("failed to end practice session", "user_id", userID, "error", err)
	}
	h.send(ctx, b, chatID, fmt.Sprintf("Your learning history has been cleared (%d answers removed).", removed))
}
