package handlers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"
	"time"

	telegram "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/smith3v/tg-word-tutor/pkg/agent"
	"github.com/smith3v/tg-word-tutor/pkg/bot/practice"
	"github.com/smith3v/tg-word-tutor/pkg/internal/testutil"
	"github.com/smith3v/tg-word-tutor/pkg/progress"
	"github.com/smith3v/tg-word-tutor/pkg/verify"
	"github.com/smith3v/tg-word-tutor/pkg/vocab"
)

type recordedRequest struct {
	path        string
	method      string
	contentType string
	body        []byte
}

type mockClient struct {
	requests []recordedRequest
	response string
}

func newMockClient() *mockClient {
	return &mockClient{
		response: `{"ok":true,"result":{}}`,
	}
}

func (m *mockClient) Do(req *http.Request) (*http.Response, error) {
	body, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	if err := req.Body.Close(); err != nil {
		return nil, fmt.Errorf("failed to close request body: %w", err)
	}
	m.requests = append(m.requests, recordedRequest{
		path:        req.URL.Path,
		method:      req.Method,
		contentType: req.Header.Get("Content-Type"),
		body:        body,
	})

	resp := &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(m.response)),
		Header:     make(http.Header),
	}
	return resp, nil
}

func (m *mockClient) lastPath(t *testing.T) string {
	t.Helper()
	if len(m.requests) == 0 {
		t.Fatalf("expected at least one recorded request")
	}
	return m.requests[len(m.requests)-1].path
}

func (m *mockClient) lastMessageText(t *testing.T) string {
	t.Helper()
	text, _ := m.lastMultipartField(t, "text")
	return text
}

// messageTexts returns the text of every sendMessage request from index
// from onwards.
func (m *mockClient) messageTexts(t *testing.T, from int) []string {
	t.Helper()
	var texts []string
	for _, req := range m.requests[from:] {
		if strings.HasSuffix(req.path, "/sendMessage") {
			text, _ := multipartField(t, req, "text")
			texts = append(texts, text)
		}
	}
	return texts
}

func (m *mockClient) lastMultipartField(t *testing.T, fieldName string) (string, string) {
	t.Helper()
	if len(m.requests) == 0 {
		t.Fatalf("expected at least one recorded request")
	}
	return multipartField(t, m.requests[len(m.requests)-1], fieldName)
}

func multipartField(t *testing.T, req recordedRequest, fieldName string) (string, string) {
	t.Helper()
	mediaType, params, err := mime.ParseMediaType(req.contentType)
	if err != nil {
		t.Fatalf("failed to parse media type: %v", err)
	}
	if !strings.HasPrefix(mediaType, "multipart/") {
		t.Fatalf("unexpected media type: %s", mediaType)
	}

	reader := multipart.NewReader(bytes.NewReader(req.body), params["boundary"])
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("failed to read multipart part: %v", err)
		}
		if part.FormName() == fieldName {
			data, err := io.ReadAll(part)
			if err != nil {
				t.Fatalf("failed to read multipart field: %v", err)
			}
			return string(data), part.FileName()
		}
	}
	t.Fatalf("field %q not found in request", fieldName)
	return "", ""
}

func newTestTelegramBot(t *testing.T, client *mockClient) *telegram.Bot {
	t.Helper()
	b, err := telegram.New("test-token",
		telegram.WithSkipGetMe(),
		telegram.WithHTTPClient(time.Second, client),
	)
	if err != nil {
		t.Fatalf("failed to create test bot: %v", err)
	}
	return b
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

type handlerFixture struct {
	h        *Handlers
	store    *vocab.Store
	sessions *practice.Manager
	client   *mockClient
	bot      *telegram.Bot
}

func newHandlerFixture(t *testing.T, configure ...func(*Deps)) handlerFixture {
	t.Helper()
	gdb := testutil.SetupTestDB(t)

	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	step := 0
	clock := func() time.Time {
		step++
		return base.Add(time.Duration(step) * time.Second)
	}

	store := vocab.NewStore(gdb, nil, vocab.WithClock(clock))
	tracker := progress.NewTracker(gdb, nil, progress.WithClock(clock))
	sessions := practice.NewManager(gdb, nil)
	deps := Deps{
		Tutor: agent.NewTutor(agent.Deps{
			Store:    store,
			Tracker:  tracker,
			Verifier: verify.New(store, nil),
		}),
		Sessions: sessions,
		Store:    store,
		Token:    "test-token",
	}
	for _, fn := range configure {
		fn(&deps)
	}

	client := newMockClient()
	return handlerFixture{
		h:        New(deps),
		store:    store,
		sessions: sessions,
		client:   client,
		bot:      newTestTelegramBot(t, client),
	}
}

func (f handlerFixture) seed(t *testing.T, word string, synonyms ...string) string {
	t.Helper()
	ctx := context.Background()
	id, err := f.store.AddWord(ctx, word, "")
	if err != nil {
		t.Fatalf("AddWord returned error: %v", err)
	}
	for _, syn := range synonyms {
		if _, err := f.store.AddSynonym(ctx, id, syn, 1); err != nil {
			t.Fatalf("AddSynonym returned error: %v", err)
		}
	}
	return id
}

func newTestUpdate(text string, userID int64) *models.Update {
	return &models.Update{
		Message: &models.Message{
			From: &models.User{
				ID: userID,
			},
			Chat: models.Chat{
				ID:   userID,
				Type: models.ChatTypePrivate,
			},
			Text: text,
		},
	}
}

func newTestDocumentUpdate(fileName, fileID string, userID int64) *models.Update {
	return &models.Update{
		Message: &models.Message{
			From: &models.User{
				ID: userID,
			},
			Chat: models.Chat{
				ID:   userID,
				Type: models.ChatTypePrivate,
			},
			Document: &models.Document{
				FileID:   fileID,
				FileName: fileName,
			},
		},
	}
}

func newTestCallbackUpdate(data string, userID, chatID int64, messageID int) *models.Update {
	return &models.Update{
		CallbackQuery: &models.CallbackQuery{
			ID:   "callback-1",
			From: models.User{ID: userID},
			Data: data,
			Message: models.MaybeInaccessibleMessage{
				Type: models.MaybeInaccessibleMessageTypeMessage,
				Message: &models.Message{
					ID: messageID,
					Chat: models.Chat{
						ID:   chatID,
						Type: models.ChatTypePrivate,
					},
				},
			},
		},
	}
}
