package vocab

import (
	"context"
	"errors"
	"fmt"

	"github.com/smith3v/tg-word-tutor/pkg/db"
)

type ImportResult struct {
	WordsAdded      int
	WordsReused     int
	SynonymsAdded   int
	SynonymsSkipped int
}

// Import adds the seed entries to the store. Words already present under the
// same category are reused and synonyms they already have are skipped, so
// the same file can be imported more than once.
func (s *Store) Import(ctx context.Context, entries []SeedEntry) (ImportResult, error) {
	var result ImportResult
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		wordID, added, err := s.ensureWord(ctx, entry.Word, entry.Category)
		if err != nil {
			return result, err
		}
		if added {
			result.WordsAdded++
		} else {
			result.WordsReused++
		}

		for _, synonym := range entry.Synonyms {
			_, err := s.AddSynonym(ctx, wordID, synonym, entry.Confidence)
			switch {
			case err == nil:
				result.SynonymsAdded++
			case errors.Is(err, db.ErrDuplicate), errors.Is(err, ErrEmptyText):
				result.SynonymsSkipped++
			default:
				return result, err
			}
		}
	}

	s.log.Info("seed imported",
		"words_added", result.WordsAdded,
		"words_reused", result.WordsReused,
		"synonyms_added", result.SynonymsAdded,
		"synonyms_skipped", result.SynonymsSkipped,
	)
	return result, nil
}

func (s *Store) ensureWord(ctx context.Context, text, category string) (string, bool, error) {
	existing, err := s.FindWord(ctx, text, category)
	if err == nil {
		return existing.ID, false, nil
	}
	if !errors.Is(err, db.ErrNotFound) {
		return "", false, err
	}
	id, err := s.AddWord(ctx, text, category)
	if err != nil {
		return "", false, fmt.Errorf("import: %w", err)
	}
	return id, true, nil
}
