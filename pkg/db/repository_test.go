package db

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/smith3v/tg-word-tutor/pkg/config"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	cfg := config.DatabaseConfig{
		Driver: "sqlite",
		Path:   "file:" + uuid.NewString() + "?mode=memory&cache=shared",
	}
	gdb, err := Open(cfg, "silent", nil)
	if err != nil {
		t.Fatalf("failed to open sqlite database: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("failed to access underlying DB: %v", err)
	}
	t.Cleanup(func() {
		if err := sqlDB.Close(); err != nil {
			t.Fatalf("failed to close database: %v", err)
		}
	})
	return gdb
}

func TestOpenCreatesSchema(t *testing.T) {
	gdb := openTestDB(t)

	for _, table := range []string{"words", "synonyms", "students", "learning_history", "practice_sessions"} {
		if !gdb.Migrator().HasTable(table) {
			t.Fatalf("expected table %s to exist", table)
		}
	}
	if !gdb.Migrator().HasColumn(&Word{}, "hindi_word") {
		t.Fatalf("expected words.hindi_word column")
	}
	if !gdb.Migrator().HasColumn(&LearningAttempt{}, "student_answer") {
		t.Fatalf("expected learning_history.student_answer column")
	}
}

func TestOpenSQLiteFileCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "tutor.db")
	gdb, err := Open(config.DatabaseConfig{Driver: "sqlite", Path: path}, "", nil)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("failed to access underlying DB: %v", err)
	}
	defer sqlDB.Close()

	if !gdb.Migrator().HasTable(&Word{}) {
		t.Fatalf("expected words table in file database")
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := Open(config.DatabaseConfig{Driver: "oracle"}, "", nil); err == nil {
		t.Fatal("expected an error for an unknown driver")
	}
}

func TestDuplicateWordTranslatesToErrDuplicate(t *testing.T) {
	gdb := openTestDB(t)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	if err := gdb.Create(&Word{ID: "w1", Text: "sundar", CreatedAt: now}).Error; err != nil {
		t.Fatalf("failed to create word: %v", err)
	}
	err := gdb.Create(&Word{ID: "w2", Text: "sundar", CreatedAt: now}).Error
	if !errors.Is(TranslateError(err), ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	// Same text under a different category is a different word.
	if err := gdb.Create(&Word{ID: "w3", Text: "sundar", Category: "adjective", CreatedAt: now}).Error; err != nil {
		t.Fatalf("expected distinct category to be accepted, got %v", err)
	}
}

func TestDeletingWordCascadesToSynonyms(t *testing.T) {
	gdb := openTestDB(t)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	word := Word{ID: "w1", Text: "sundar", CreatedAt: now}
	if err := gdb.Create(&word).Error; err != nil {
		t.Fatalf("failed to create word: %v", err)
	}
	if err := gdb.Create(&Synonym{ID: "s1", WordID: "w1", Text: "khoobsurat", Confidence: 1}).Error; err != nil {
		t.Fatalf("failed to create synonym: %v", err)
	}

	if err := gdb.Delete(&Word{}, "word_id = ?", "w1").Error; err != nil {
		t.Fatalf("failed to delete word: %v", err)
	}

	var count int64
	if err := gdb.Model(&Synonym{}).Count(&count).Error; err != nil {
		t.Fatalf("failed to count synonyms: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected synonyms to be removed with their word, got %d", count)
	}
}

func TestTranslateError(t *testing.T) {
	if TranslateError(nil) != nil {
		t.Fatal("expected nil to stay nil")
	}
	if !errors.Is(TranslateError(gorm.ErrRecordNotFound), ErrNotFound) {
		t.Fatal("expected record not found to map to ErrNotFound")
	}
	other := errors.New("boom")
	if TranslateError(other) != other {
		t.Fatal("expected unrelated errors to pass through")
	}
}

func TestSQLiteDSN(t *testing.T) {
	if got := SQLiteDSN("data/tutor.db"); got != "data/tutor.db?_foreign_keys=on" {
		t.Fatalf("unexpected dsn %q", got)
	}
	if got := SQLiteDSN("file:x?mode=memory"); got != "file:x?mode=memory&_foreign_keys=on" {
		t.Fatalf("unexpected dsn %q", got)
	}
}

func TestLearningHistoryReferencesWordsAndStudents(t *testing.T) {
	gdb := openTestDB(t)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	if err := gdb.Create(&Word{ID: "w1", Text: "sundar", CreatedAt: now}).Error; err != nil {
		t.Fatalf("failed to create word: %v", err)
	}
	if err := gdb.Create(&Student{ID: "s1", CreatedAt: now}).Error; err != nil {
		t.Fatalf("failed to create student: %v", err)
	}
	attempt := LearningAttempt{ID: "h1", StudentID: "s1", WordID: "w1", Answer: "khoobsurat", IsCorrect: true, CreatedAt: now}
	if err := gdb.Create(&attempt).Error; err != nil {
		t.Fatalf("failed to create attempt: %v", err)
	}

	orphan := LearningAttempt{ID: "h2", StudentID: "s1", WordID: "missing", CreatedAt: now}
	if err := gdb.Create(&orphan).Error; err == nil {
		t.Fatal("expected an attempt for an unknown word to be rejected")
	}
	orphan = LearningAttempt{ID: "h3", StudentID: "nobody", WordID: "w1", CreatedAt: now}
	if err := gdb.Create(&orphan).Error; err == nil {
		t.Fatal("expected an attempt for an unknown student to be rejected")
	}

	var ddl string
	if err := gdb.Raw("SELECT sql FROM sqlite_master WHERE type = 'table' AND name = ?", "words").Scan(&ddl).Error; err != nil {
		t.Fatalf("failed to read words schema: %v", err)
	}
	if strings.Contains(ddl, "learning_history") {
		t.Fatalf("words must not reference learning_history: %s", ddl)
	}

	if err := gdb.Delete(&Word{}, "word_id = ?", "w1").Error; err != nil {
		t.Fatalf("failed to delete word: %v", err)
	}
	var count int64
	if err := gdb.Model(&LearningAttempt{}).Count(&count).Error; err != nil {
		t.Fatalf("failed to count attempts: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected attempts to be removed with their word, got %d", count)
	}
}
