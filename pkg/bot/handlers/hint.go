package handlers

import (
	"context"
	"errors"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/samber/lo"
	"github.com/smith3v/tg-word-tutor/pkg/agent"
	"github.com/smith3v/tg-word-tutor/pkg/bot/practice"
	"github.com/smith3v/tg-word-tutor/pkg/db"
	"github.com/smith3v/tg-word-tutor/pkg/ui"
)

func (h *Handlers) HandleHint(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !validMessage(update) {
		h.log.Error("invalid update in HandleHint")
		return
	}
	session := h.loadCurrent(ctx, b, update.Message.Chat.ID, update.Message.From.ID)
	if session == nil {
		return
	}
	h.sendHints(ctx, b, session, true)
}

// sendHints sends the hints for the current word that were not shown yet.
// Unless explicit is set, having nothing new to show sends nothing.
func (h *Handlers) sendHints(ctx context.Context, b *bot.Bot, session *db.PracticeSession, explicit bool) {
	shown, err := practice.HintsShown(session)
	if err != nil {
		h.log.Error("failed to read shown hints", "session_id", session.SessionID, "error", err)
		shown = nil
	}

	hints, err := h.tutor.Hints(ctx, session.CurrentWordID)
	if errors.Is(err, agent.ErrNoSynonyms) {
		if explicit {
			h.send(ctx, b, session.ChatID, "This word has no hints.")
		}
		return
	}
	if err != nil {
		h.log.Error("failed to build hints", "word_id", session.CurrentWordID, "error", err)
		h.send(ctx, b, session.ChatID, "Failed to build hints. Please try again later.")
		return
	}

	fresh := lo.Filter(hints, func(hint string, _ int) bool {
		return !lo.Contains(shown, hint)
	})
	if len(fresh) == 0 {
		if explicit {
			h.send(ctx, b, session.ChatID, "No more hints for this word.")
		}
		return
	}
	if err := h.sessions.AddHints(ctx, session, fresh); err != nil {
		h.log.Error("failed to store hints", "session_id", session.SessionID, "error", err)
	}
	h.send(ctx, b, session.ChatID, ui.FormatHints(fresh, len(shown)))
}
