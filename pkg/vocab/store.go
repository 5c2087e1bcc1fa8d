// Package vocab persists vocabulary words and their accepted synonyms.
package vocab

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/smith3v/tg-word-tutor/pkg/db"
	"github.com/smith3v/tg-word-tutor/pkg/logger"
	"gorm.io/gorm"
)

const DefaultConfidence = 1.0

var ErrEmptyText = errors.New("text is empty")

type Store struct {
	db  *gorm.DB
	log *slog.Logger
	now func() time.Time
}

type Option func(*Store)

// WithClock overrides the creation timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func NewStore(gdb *gorm.DB, log *slog.Logger, opts ...Option) *Store {
	s := &Store{
		db:  gdb,
		log: logger.OrDiscard(log),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddWord stores a new word. The same text may exist under different
// categories, but a repeated (text, category) pair fails with db.ErrDuplicate.
func (s *Store) AddWord(ctx context.Context, text, category string) (string, error) {
	text = strings.TrimSpace(text)
	category = strings.TrimSpace(category)
	if text == "" {
		return "", ErrEmptyText
	}

	word := db.Word{
		ID:        uuid.NewString(),
		Text:      text,
		Category:  category,
		CreatedAt: s.now().UTC(),
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&db.Word{}).
			Where("hindi_word = ? AND category = ?", text, category).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return db.ErrDuplicate
		}
		return tx.Create(&word).Error
	})
	if err != nil {
		return "", fmt.Errorf("add word %q: %w", text, db.TranslateError(err))
	}
	s.log.Debug("word added", "word_id", word.ID, "text", text, "category", category)
	return word.ID, nil
}

// AddSynonym attaches an accepted answer to wordID. A confidence outside
// (0, 1] is stored as DefaultConfidence.
func (s *Store) AddSynonym(ctx context.Context, wordID, text string, confidence float64) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyText
	}
	if confidence <= 0 || confidence > 1 {
		confidence = DefaultConfidence
	}

	synonym := db.Synonym{
		ID:         uuid.NewString(),
		WordID:     wordID,
		Text:       text,
		Confidence: confidence,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var word db.Word
		if err := tx.Where("word_id = ?", wordID).Take(&word).Error; err != nil {
			return err
		}
		var siblings int64
		if err := tx.Model(&db.Synonym{}).Where("word_id = ?", wordID).Count(&siblings).Error; err != nil {
			return err
		}
		var existing int64
		if err := tx.Model(&db.Synonym{}).
			Where("word_id = ? AND synonym = ?", wordID, text).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return db.ErrDuplicate
		}
		synonym.Position = int(siblings)
		return tx.Create(&synonym).Error
	})
	if err != nil {
		return "", fmt.Errorf("add synonym %q to word %s: %w", text, wordID, db.TranslateError(err))
	}
	return synonym.ID, nil
}

// GetSynonyms returns the synonym texts of wordID in insertion order. An
// unknown word simply has no synonyms.
func (s *Store) GetSynonyms(ctx context.Context, wordID string) ([]string, error) {
	var synonyms []string
	err := s.db.WithContext(ctx).
		Model(&db.Synonym{}).
		Where("word_id = ?", wordID).
		Order("position ASC, synonym_id ASC").
		Pluck("synonym", &synonyms).Error
	if err != nil {
		return nil, fmt.Errorf("get synonyms of %s: %w", wordID, err)
	}
	if synonyms == nil {
		synonyms = []string{}
	}
	return synonyms, nil
}

func (s *Store) CountWords(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&db.Word{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count words: %w", err)
	}
	return count, nil
}

// GetWord loads a word together with its synonyms.
func (s *Store) GetWord(ctx context.Context, wordID string) (db.Word, error) {
	var word db.Word
	err := s.db.WithContext(ctx).
		Preload("Synonyms", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("position ASC, synonym_id ASC")
		}).
		Where("word_id = ?", wordID).
		Take(&word).Error
	if err != nil {
		return db.Word{}, fmt.Errorf("get word %s: %w", wordID, db.TranslateError(err))
	}
	return word, nil
}

func (s *Store) FindWord(ctx context.Context, text, category string) (db.Word, error) {
	var word db.Word
	err := s.db.WithContext(ctx).
		Where("hindi_word = ? AND category = ?", strings.TrimSpace(text), strings.TrimSpace(category)).
		Take(&word).Error
	if err != nil {
		return db.Word{}, fmt.Errorf("find word %q: %w", text, db.TranslateError(err))
	}
	return word, nil
}

// LookupWord resolves ref as a word id and then as word text. When several
// categories share the text the oldest word wins.
func (s *Store) LookupWord(ctx context.Context, ref string) (db.Word, error) {
	ref = strings.TrimSpace(ref)
	word, err := s.GetWord(ctx, ref)
	if err == nil || !errors.Is(err, db.ErrNotFound) {
		return word, err
	}
	var byText db.Word
	err = s.db.WithContext(ctx).
		Where("hindi_word = ?", ref).
		Order("created_at ASC, word_id ASC").
		Take(&byText).Error
	if err != nil {
		return db.Word{}, fmt.Errorf("look up word %q: %w", ref, db.TranslateError(err))
	}
	return s.GetWord(ctx, byText.ID)
}

// UpdateWord is the administrative edit of a word's text and category.
func (s *Store) UpdateWord(ctx context.Context, wordID, text, category string) error {
	text = strings.TrimSpace(text)
	category = strings.TrimSpace(category)
	if text == "" {
		return ErrEmptyText
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var clash int64
		if err := tx.Model(&db.Word{}).
			Where("hindi_word = ? AND category = ? AND word_id <> ?", text, category, wordID).
			Count(&clash).Error; err != nil {
			return err
		}
		if clash > 0 {
			return db.ErrDuplicate
		}
		res := tx.Model(&db.Word{}).
			Where("word_id = ?", wordID).
			Updates(map[string]interface{}{"hindi_word": text, "category": category})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return db.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("update word %s: %w", wordID, db.TranslateError(err))
	}
	s.log.Info("word updated", "word_id", wordID, "text", text, "category", category)
	return nil
}

// ListWords returns every word with its synonyms in selection order, oldest
// first.
func (s *Store) ListWords(ctx context.Context) ([]db.Word, error) {
	var words []db.Word
	err := s.db.WithContext(ctx).
		Preload("Synonyms", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("position ASC, synonym_id ASC")
		}).
		Order("created_at ASC, word_id ASC").
		Find(&words).Error
	if err != nil {
		return nil, fmt.Errorf("list words: %w", err)
	}
	return words, nil
}
