package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/smith3v/tg-word-tutor/pkg/bot/practice"
	"github.com/smith3v/tg-word-tutor/pkg/db"
)

// ExpiryHandler sends the summary of a session that went idle, if the
// student answered anything in it.
func (h *Handlers) ExpiryHandler(b *bot.Bot) practice.ExpiryHandler {
	return func(ctx context.Context, session db.PracticeSession) {
		summary, err := h.tutor.Summarize(ctx, session.StudentID, session.SessionID)
		if err != nil {
			h.log.Error("failed to summarise expired session", "session_id", session.SessionID, "error", err)
			return
		}
		if summary.Attempts() == 0 {
			return
		}
		h.send(ctx, b, session.ChatID, "Practice ended after inactivity.\n"+h.tutor.SummaryMessage(ctx, summary))
	}
}
