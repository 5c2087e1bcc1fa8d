package vocab

import (
	"context"
	"testing"
)

func TestImportIsRepeatable(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	entries := []SeedEntry{
		{Word: "sundar", Category: "adjective", Synonyms: []string{"khoobsurat", "manohar"}, Confidence: 1},
		{Word: "khush", Synonyms: []string{"prasann"}, Confidence: 0.8},
	}

	result, err := store.Import(ctx, entries)
	if err != nil {
		t.Fatalf("Import returned error: %v", err)
	}
	if result.WordsAdded != 2 || result.SynonymsAdded != 3 {
		t.Fatalf("unexpected first import result: %+v", result)
	}

	entries[0].Synonyms = append(entries[0].Synonyms, "roopvan")
	result, err = store.Import(ctx, entries)
	if err != nil {
		t.Fatalf("second Import returned error: %v", err)
	}
	if result.WordsAdded != 0 || result.WordsReused != 2 {
		t.Fatalf("expected words to be reused, got %+v", result)
	}
	if result.SynonymsAdded != 1 || result.SynonymsSkipped != 3 {
		t.Fatalf("expected one new synonym, got %+v", result)
	}

	word, err := store.FindWord(ctx, "sundar", "adjective")
	if err != nil {
		t.Fatalf("FindWord returned error: %v", err)
	}
	synonyms, err := store.GetSynonyms(ctx, word.ID)
	if err != nil {
		t.Fatalf("GetSynonyms returned error: %v", err)
	}
	if len(synonyms) != 3 || synonyms[2] != "roopvan" {
		t.Fatalf("unexpected synonyms after re-import: %v", synonyms)
	}
}

func TestImportHonoursCancelledContext(t *testing.T) {
	store := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := store.Import(ctx, []SeedEntry{{Word: "sundar", Synonyms: []string{"khoobsurat"}}}); err == nil {
		t.Fatal("expected an error for a cancelled context")
	}
}
