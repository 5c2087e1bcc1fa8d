package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/smith3v/tg-word-tutor/pkg/vocab"
)

const maxSeedFileSize = 10 << 20

func (h *Handlers) handleDocument(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID, userID := update.Message.Chat.ID, update.Message.From.ID
	doc := update.Message.Document
	h.log.Info("uploading vocabulary file", "file_name", doc.FileName, "user_id", userID)

	if !h.isAdmin(userID) {
		h.send(ctx, b, chatID, "Only administrators can upload vocabulary.")
		return
	}

	file, err := b.GetFile(ctx, &bot.GetFileParams{FileID: doc.FileID})
	if err != nil {
		h.log.Error("failed to get file", "error", err)
		h.send(ctx, b, chatID, "Failed to download the file. Please try again.")
		return
	}

	data, err := h.download(ctx, fmt.Sprintf("%s/file/bot%s/%s", h.apiURL, h.token, file.FilePath))
	if err != nil {
		h.log.Error("failed to download file", "error", err)
		h.send(ctx, b, chatID, "Failed to download the file. Please try again.")
		return
	}

	entries, skipped, err := vocab.ParseSeedFile(doc.FileName, data)
	if err != nil {
		h.log.Error("failed to parse vocabulary file", "file_name", doc.FileName, "error", err)
		h.send(ctx, b, chatID, "Failed to read the file. Upload a .json, .csv or .xlsx file in the vocabulary format.")
		return
	}
	if len(entries) == 0 {
		h.send(ctx, b, chatID, "No valid words found to import.")
		return
	}

	result, err := h.store.Import(ctx, entries)
	if err != nil {
		h.log.Error("failed to import vocabulary", "user_id", userID, "error", err)
		h.send(ctx, b, chatID, "Failed to import the vocabulary. Please try again later.")
		return
	}
	h.send(ctx, b, chatID, fmt.Sprintf(
		"Imported %d new words (%d already known) and %d synonyms. Skipped %d rows and %d duplicate synonyms.",
		result.WordsAdded, result.WordsReused, result.SynonymsAdded, skipped, result.SynonymsSkipped,
	))
}

func (h *Handlers) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := h.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download: unexpected status %s", resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxSeedFileSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxSeedFileSize {
		return nil, fmt.Errorf("download: file is larger than %d bytes", maxSeedFileSize)
	}
	return data, nil
}
