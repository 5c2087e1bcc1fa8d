package vocab

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/smith3v/tg-word-tutor/pkg/db"
	"github.com/smith3v/tg-word-tutor/pkg/internal/testutil"
)

func steppingClock() func() time.Time {
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	step := 0
	return func() time.Time {
		step++
		return base.Add(time.Duration(step) * time.Second)
	}
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(testutil.SetupTestDB(t), nil, WithClock(steppingClock()))
}

func TestAddWordAndSynonyms(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	wordID, err := store.AddWord(ctx, "  sundar ", "adjective")
	if err != nil {
		t.Fatalf("AddWord returned error: %v", err)
	}
	for _, syn := range []string{"khoobsurat", " manohar "} {
		if _, err := store.AddSynonym(ctx, wordID, syn, 0.9); err != nil {
			t.Fatalf("AddSynonym(%q) returned error: %v", syn, err)
		}
	}

	synonyms, err := store.GetSynonyms(ctx, wordID)
	if err != nil {
		t.Fatalf("GetSynonyms returned error: %v", err)
	}
	if len(synonyms) != 2 || synonyms[0] != "khoobsurat" || synonyms[1] != "manohar" {
		t.Fatalf("unexpected synonyms: %v", synonyms)
	}

	word, err := store.GetWord(ctx, wordID)
	if err != nil {
		t.Fatalf("GetWord returned error: %v", err)
	}
	if word.Text != "sundar" || word.Category != "adjective" {
		t.Fatalf("unexpected word: %+v", word)
	}
	if len(word.Synonyms) != 2 || word.Synonyms[0].Confidence != 0.9 {
		t.Fatalf("unexpected preloaded synonyms: %+v", word.Synonyms)
	}
}

func TestAddWordRejectsDuplicates(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.AddWord(ctx, "sundar", ""); err != nil {
		t.Fatalf("AddWord returned error: %v", err)
	}
	if _, err := store.AddWord(ctx, "sundar", ""); !errors.Is(err, db.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	if _, err := store.AddWord(ctx, "sundar", "poetry"); err != nil {
		t.Fatalf("expected a different category to be accepted, got %v", err)
	}
	if _, err := store.AddWord(ctx, "   ", ""); !errors.Is(err, ErrEmptyText) {
		t.Fatalf("expected ErrEmptyText, got %v", err)
	}

	count, err := store.CountWords(ctx)
	if err != nil {
		t.Fatalf("CountWords returned error: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 words, got %d", count)
	}
}

func TestAddSynonymUnknownWord(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.AddSynonym(context.Background(), "missing", "khoobsurat", 1); !errors.Is(err, db.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAddSynonymDuplicateAndDefaultConfidence(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	wordID, err := store.AddWord(ctx, "sundar", "")
	if err != nil {
		t.Fatalf("AddWord returned error: %v", err)
	}
	if _, err := store.AddSynonym(ctx, wordID, "khoobsurat", 0); err != nil {
		t.Fatalf("AddSynonym returned error: %v", err)
	}
	if _, err := store.AddSynonym(ctx, wordID, "khoobsurat", 1); !errors.Is(err, db.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	word, err := store.GetWord(ctx, wordID)
	if err != nil {
		t.Fatalf("GetWord returned error: %v", err)
	}
	if word.Synonyms[0].Confidence != DefaultConfidence {
		t.Fatalf("expected default confidence, got %v", word.Synonyms[0].Confidence)
	}
}

func TestGetSynonymsEmpty(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	wordID, err := store.AddWord(ctx, "sundar", "")
	if err != nil {
		t.Fatalf("AddWord returned error: %v", err)
	}
	for _, id := range []string{wordID, "unknown"} {
		synonyms, err := store.GetSynonyms(ctx, id)
		if err != nil {
			t.Fatalf("GetSynonyms(%q) returned error: %v", id, err)
		}
		if synonyms == nil || len(synonyms) != 0 {
			t.Fatalf("expected empty non-nil slice, got %#v", synonyms)
		}
	}
}

func TestUpdateWord(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first, err := store.AddWord(ctx, "sundar", "")
	if err != nil {
		t.Fatalf("AddWord returned error: %v", err)
	}
	second, err := store.AddWord(ctx, "khush", "")
	if err != nil {
		t.Fatalf("AddWord returned error: %v", err)
	}

	if err := store.UpdateWord(ctx, second, "sundar", ""); !errors.Is(err, db.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate when renaming onto an existing word, got %v", err)
	}
	if err := store.UpdateWord(ctx, "missing", "naya", ""); !errors.Is(err, db.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := store.UpdateWord(ctx, first, "sundar", "adjective"); err != nil {
		t.Fatalf("UpdateWord returned error: %v", err)
	}

	word, err := store.FindWord(ctx, "sundar", "adjective")
	if err != nil {
		t.Fatalf("FindWord returned error: %v", err)
	}
	if word.ID != first {
		t.Fatalf("expected %s, got %s", first, word.ID)
	}
}

func TestListWordsOrderedByCreation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	var ids []string
	for _, text := range []string{"teesra", "pehla", "doosra"} {
		id, err := store.AddWord(ctx, text, "")
		if err != nil {
			t.Fatalf("AddWord returned error: %v", err)
		}
		ids = append(ids, id)
	}

	words, err := store.ListWords(ctx)
	if err != nil {
		t.Fatalf("ListWords returned error: %v", err)
	}
	if len(words) != 3 {
		t.Fatalf("expected 3 words, got %d", len(words))
	}
	for i, w := range words {
		if w.ID != ids[i] {
			t.Fatalf("word %d: expected %s, got %s", i, ids[i], w.ID)
		}
	}
}

func TestLookupWordByIDOrText(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first, err := store.AddWord(ctx, "sundar", "adjective")
	if err != nil {
		t.Fatalf("AddWord returned error: %v", err)
	}
	if _, err := store.AddSynonym(ctx, first, "khoobsurat", 1); err != nil {
		t.Fatalf("AddSynonym returned error: %v", err)
	}
	if _, err := store.AddWord(ctx, "sundar", "name"); err != nil {
		t.Fatalf("AddWord returned error: %v", err)
	}

	byID, err := store.LookupWord(ctx, first)
	if err != nil || byID.ID != first {
		t.Fatalf("LookupWord by id returned %+v, %v", byID, err)
	}
	byText, err := store.LookupWord(ctx, " sundar ")
	if err != nil {
		t.Fatalf("LookupWord by text returned error: %v", err)
	}
	if byText.ID != first || len(byText.Synonyms) != 1 {
		t.Fatalf("expected the oldest word with its synonyms, got %+v", byText)
	}
	if _, err := store.LookupWord(ctx, "missing"); !errors.Is(err, db.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
