package db

import (
	"time"

	"gorm.io/datatypes"
)

type Word struct {
	ID        string            `gorm:"column:word_id;primaryKey;size:36"`
	Text      string            `gorm:"column:hindi_word;not null;uniqueIndex:idx_word_text_category"`
	Category  string            `gorm:"not null;default:'';uniqueIndex:idx_word_text_category"`
	CreatedAt time.Time         `gorm:"not null;index"`
	Synonyms  []Synonym         `gorm:"foreignKey:WordID;references:ID;constraint:OnDelete:CASCADE"`
	Attempts  []LearningAttempt `gorm:"foreignKey:WordID;references:ID;constraint:OnDelete:CASCADE"`
}

type Synonym struct {
	ID         string  `gorm:"column:synonym_id;primaryKey;size:36"`
	WordID     string  `gorm:"not null;size:36;index;uniqueIndex:idx_synonym_word_text"`
	Text       string  `gorm:"column:synonym;not null;uniqueIndex:idx_synonym_word_text"`
	Confidence float64 `gorm:"column:confidence_score;not null;default:1"`
	Position   int     `gorm:"not null;default:0"` // insertion order within the word
}

type Student struct {
	ID        string `gorm:"column:student_id;primaryKey;size:64"`
	CreatedAt time.Time
	Attempts  []LearningAttempt `gorm:"foreignKey:StudentID;references:ID;constraint:OnDelete:CASCADE"`
}

type LearningAttempt struct {
	ID        string    `gorm:"column:history_id;primaryKey;size:36"`
	StudentID string    `gorm:"not null;size:64;index:idx_history_student_word"`
	WordID    string    `gorm:"not null;size:36;index:idx_history_student_word"`
	Answer    string    `gorm:"column:student_answer;not null;default:''"`
	IsCorrect bool      `gorm:"not null;default:false"`
	SessionID string    `gorm:"not null;default:'';index"`
	CreatedAt time.Time `gorm:"not null"`
}

func (LearningAttempt) TableName() string {
	return "learning_history"
}

// PracticeSession is the per-chat state of the Telegram front end.
type PracticeSession struct {
	ID               uint           `gorm:"primaryKey"`
	ChatID           int64          `gorm:"index;uniqueIndex:idx_practice_session_user_chat"`
	UserID           int64          `gorm:"index;uniqueIndex:idx_practice_session_user_chat"`
	StudentID        string         `gorm:"not null;size:64"`
	SessionID        string         `gorm:"not null;size:36"`
	CurrentWordID    string         `gorm:"not null;default:''"`
	CurrentMessageID int            `gorm:"not null;default:0"`
	HintsShown       datatypes.JSON `gorm:"not null"`
	LastActivityAt   time.Time      `gorm:"not null"`
	ExpiresAt        time.Time      `gorm:"not null;index"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
