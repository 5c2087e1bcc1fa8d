// Package handlers turns Telegram updates into tutor calls.
package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/samber/lo"
	"github.com/smith3v/tg-word-tutor/pkg/agent"
	"github.com/smith3v/tg-word-tutor/pkg/bot/practice"
	"github.com/smith3v/tg-word-tutor/pkg/logger"
	"github.com/smith3v/tg-word-tutor/pkg/vocab"
)

const (
	downloadTimeout = 30 * time.Second
	defaultAPIURL   = "https://api.telegram.org"
)

type Deps struct {
	Tutor    *agent.Tutor
	Sessions *practice.Manager
	Store    *vocab.Store
	// AdminIDs may upload and export vocabulary. Empty means everyone may.
	AdminIDs []int64
	// Token and APIURL build download links for uploaded documents.
	Token  string
	APIURL string
	// HTTPClient downloads uploaded documents.
	HTTPClient *http.Client
	Log        *slog.Logger
}

type Handlers struct {
	tutor      *agent.Tutor
	sessions   *practice.Manager
	store      *vocab.Store
	adminIDs   []int64
	token      string
	apiURL     string
	httpClient *http.Client
	log        *slog.Logger
}

func New(d Deps) *Handlers {
	h := &Handlers{
		tutor:      d.Tutor,
		sessions:   d.Sessions,
		store:      d.Store,
		adminIDs:   d.AdminIDs,
		token:      d.Token,
		apiURL:     strings.TrimRight(d.APIURL, "/"),
		httpClient: d.HTTPClient,
		log:        logger.OrDiscard(d.Log),
	}
	if h.apiURL == "" {
		h.apiURL = defaultAPIURL
	}
	if h.httpClient == nil {
		h.httpClient = &http.Client{Timeout: downloadTimeout}
	}
	return h
}

// Register wires the command and callback handlers. Plain text and
// documents reach HandleDefault, which the caller installs with
// bot.WithDefaultHandler.
func (h *Handlers) Register(b *bot.Bot) {
	b.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, h.HandleStart)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/word", bot.MatchTypeExact, h.HandleWord)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/hint", bot.MatchTypeExact, h.HandleHint)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/summary", bot.MatchTypeExact, h.HandleSummary)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/quit", bot.MatchTypeExact, h.HandleQuit)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/stats", bot.MatchTypeExact, h.HandleStats)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/reset", bot.MatchTypeExact, h.HandleReset)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/export", bot.MatchTypeExact, h.HandleExport)
	b.RegisterHandler(bot.HandlerTypeCallbackQueryData, "p:", bot.MatchTypePrefix, h.HandleCallback)
}

func (h *Handlers) isAdmin(userID int64) bool {
	return len(h.adminIDs) == 0 || lo.Contains(h.adminIDs, userID)
}

func (h *Handlers) send(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	}); err != nil {
		h.log.Error("failed to send message", "chat_id", chatID, "error", err)
	}
}

func validMessage(update *models.Update) bool {
	return update != nil && update.Message != nil && update.Message.From != nil && update.Message.Chat.ID != 0
}
