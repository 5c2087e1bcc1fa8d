package handlers

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/smith3v/tg-word-tutor/pkg/vocab"
)

func (h *Handlers) HandleExport(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !validMessage(update) {
		h.log.Error("invalid update in HandleExport")
		return
	}
	chatID, userID := update.Message.Chat.ID, update.Message.From.ID
	if !h.isAdmin(userID) {
		h.send(ctx, b, chatID, "Only administrators can export vocabulary.")
		return
	}

	words, err := h.store.ListWords(ctx)
	if err != nil {
		h.log.Error("failed to list words for export", "error", err)
		h.send(ctx, b, chatID, "Failed to export the vocabulary. Please try again later.")
		return
	}
	if len(words) == 0 {
		h.send(ctx, b, chatID, "There is no vocabulary to export.")
		return
	}

	data, err := vocab.BuildExportCSV(words)
	if err != nil {
		h.log.Error("failed to build export CSV", "error", err)
		h.send(ctx, b, chatID, "Failed to export the vocabulary. Please try again later.")
		return
	}
	_, err = b.SendDocument(ctx, &bot.SendDocumentParams{
		ChatID: chatID,
		Document: &models.InputFileUpload{
			Filename: vocab.ExportFilename(time.Now()),
			Data:     bytes.NewReader(data),
		},
		Caption: fmt.Sprintf("Vocabulary export (%d words).", len(words)),
	})
	if err != nil {
		h.log.Error("failed to send export document", "user_id", userID, "error", err)
		h.send(ctx, b, chatID, "Failed to export the vocabulary. Please try again later.")
	}
}
