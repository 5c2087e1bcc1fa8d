// Package progress records learning attempts and answers the questions built
// on them: which words a student has learned, what to ask next and how a
// session went.
package progress

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
	"gorm.io/gorm/clause"
)

const DefaultBatchSize = 3

var ErrEmptyStudent = errors.New("student id is empty")

type Tracker struct {
	db    *gorm.DB
	log   *slog.Logger
	batch int
	now   func() time.Time
}

type Option func(*Tracker)

// WithBatchSize sets how many unlearned words are fetched when the caller
// passes a non-positive limit.
func WithBatchSize(n int) Option {
	return func(t *Tracker) {
		if n > 0 {
			t.batch = n
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		t.now = now
	}
}

func NewTracker(gdb *gorm.DB, log *slog.Logger, opts ...Option) *Tracker {
	t := &Tracker{
		db:    gdb,
		log:   logger.OrDiscard(log),
		batch: DefaultBatchSize,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// LearnedWord is a word the student answered correctly at least once.
type LearnedWord struct {
	WordID string
	Text   string
}

type Stats struct {
	CorrectCount   int64
	IncorrectCount int64
	LearnedWords   []LearnedWord
}

// RecordAttempt appends one answer to the learning history. The student row
// is created on first use. Repeated calls store repeated rows.
func (t *Tracker) RecordAttempt(ctx context.Context, studentID, wordID, answer string, isCorrect bool, sessionID string) error {
	studentID = strings.TrimSpace(studentID)
	if studentID == "" {
		return ErrEmptyStudent
	}
	now := t.now().UTC()

	err := t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var words int64
		if err := tx.Model(&db.Word{}).Where("word_id = ?", wordID).Count(&words).Error; err != nil {
			return err
		}
		if words == 0 {
			return db.ErrNotFound
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&db.Student{ID: studentID, CreatedAt: now}).Error; err != nil {
			return err
		}
		return tx.Create(&db.LearningAttempt{
			ID:        uuid.NewString(),
			StudentID: studentID,
			WordID:    wordID,
			Answer:    answer,
			IsCorrect: isCorrect,
			SessionID: sessionID,
			CreatedAt: now,
		}).Error
	})
	if err != nil {
		return fmt.Errorf("record attempt for word %s: %w", wordID, db.TranslateError(err))
	}

	t.log.Info("attempt recorded",
		"student_id", studentID,
		"word_id", wordID,
		"correct", isCorrect,
		"session_id", sessionID,
	)
	return nil
}

func (t *Tracker) IsLearned(ctx context.Context, studentID, wordID string) (bool, error) {
	var correct int64
	err := t.db.WithContext(ctx).
		Model(&db.LearningAttempt{}).
		Where("student_id = ? AND word_id = ? AND is_correct = ?", studentID, wordID, true).
		Count(&correct).Error
	if err != nil {
		return false, fmt.Errorf("check learned word %s: %w", wordID, err)
	}
	return correct > 0, nil
}

// UnlearnedWords lists ids of words the student has not answered correctly,
// oldest first. A non-positive limit uses the tracker's batch size.
func (t *Tracker) UnlearnedWords(ctx context.Context, studentID string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = t.batch
	}
	tx := t.db.WithContext(ctx)
	learned := tx.Model(&db.LearningAttempt{}).
		Select("word_id").
		Where("student_id = ? AND is_correct = ?", studentID, true)

	ids := []string{}
	err := tx.Model(&db.Word{}).
		Where("word_id NOT IN (?)", learned).
		Order("created_at ASC, word_id ASC").
		Limit(limit).
		Pluck("word_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("list unlearned words: %w", err)
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

// SessionStats aggregates the student's attempts. An empty sessionID covers
// the whole history.
func (t *Tracker) SessionStats(ctx context.Context, studentID, sessionID string) (Stats, error) {
	scope := func(tx *gorm.DB) *gorm.DB {
		tx = tx.Where("h.student_id = ?", studentID)
		if sessionID != "" {
			tx = tx.Where("h.session_id = ?", sessionID)
		}
		return tx
	}
	tx := t.db.WithContext(ctx)

	var counts struct {
		Correct   int64
		Incorrect int64
	}
	err := tx.Table("learning_history AS h").
		Select("COALESCE(SUM(CASE WHEN h.is_correct THEN 1 ELSE 0 END), 0) AS correct, " +
			"COALESCE(SUM(CASE WHEN h.is_correct THEN 0 ELSE 1 END), 0) AS incorrect").
		Scopes(scope).
		Scan(&counts).Error
	if err != nil {
		return Stats{}, fmt.Errorf("count attempts: %w", err)
	}

	learned := []LearnedWord{}
	err = tx.Table("learning_history AS h").
		Select("h.word_id AS word_id, w.hindi_word AS text").
		Joins("JOIN words AS w ON w.word_id = h.word_id").
		Scopes(scope).
		Where("h.is_correct = ?", true).
		Group("h.word_id, w.hindi_word").
		Order("MIN(h.created_at) ASC, h.word_id ASC").
		Scan(&learned).Error
	if err != nil {
		return Stats{}, fmt.Errorf("list learned words: %w", err)
	}

	return Stats{
		CorrectCount:   counts.Correct,
		IncorrectCount: counts.Incorrect,
		LearnedWords:   learned,
	}, nil
}

// CountLearned reports how many distinct words the student has learned.
func (t *Tracker) CountLearned(ctx context.Context, studentID string) (int64, error) {
	var count int64
	err := t.db.WithContext(ctx).
		Model(&db.LearningAttempt{}).
		Where("student_id = ? AND is_correct = ?", studentID, true).
		Distinct("word_id").
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count learned words: %w", err)
	}
	return count, nil
}

// MarkLearned records a correct attempt for the word with the given text.
func (t *Tracker) MarkLearned(ctx context.Context, studentID, wordText, sessionID string) error {
	wordText = strings.TrimSpace(wordText)
	var word db.Word
	err := t.db.WithContext(ctx).
		Where("hindi_word = ?", wordText).
		Order("created_at ASC, word_id ASC").
		Take(&word).Error
	if err != nil {
		return fmt.Errorf("mark %q learned: %w", wordText, db.TranslateError(err))
	}
	return t.RecordAttempt(ctx, studentID, word.ID, wordText, true, sessionID)
}

// ResetHistory deletes every attempt of the student and returns how many
// rows were removed.
func (t *Tracker) ResetHistory(ctx context.Context, studentID string) (int64, error) {
	res := t.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Delete(&db.LearningAttempt{})
	if res.Error != nil {
		return 0, fmt.Errorf("reset history of %s: %w", studentID, res.Error)
	}
	t.log.Info("learning history reset", "student_id", studentID, "deleted", res.RowsAffected)
	return res.RowsAffected, nil
}
