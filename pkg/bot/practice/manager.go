// Package practice keeps the per-chat state of a practice session in the
// database so that a bot restart does not lose the current word.
package practice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/smith3v/tg-word-tutor/pkg/db"
	"github.com/smith3v/tg-word-tutor/pkg/logger"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const DefaultIdleTimeout = 15 * time.Minute

type Manager struct {
	db   *gorm.DB
	log  *slog.Logger
	idle time.Duration
	now  func() time.Time
}

type Option func(*Manager)

func WithIdleTimeout(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.idle = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

func NewManager(gdb *gorm.DB, log *slog.Logger, opts ...Option) *Manager {
	m := &Manager{
		db:   gdb,
		log:  logger.OrDiscard(log),
		idle: DefaultIdleTimeout,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// StudentID maps a Telegram user to the student id used in the history.
func StudentID(userID int64) string {
	return strconv.FormatInt(userID, 10)
}

// Load returns the live session of the chat member, or nil when there is
// none or it has expired.
func (m *Manager) Load(ctx context.Context, chatID, userID int64) (*db.PracticeSession, error) {
	var session db.PracticeSession
	err := m.db.WithContext(ctx).
		Where("chat_id = ? AND user_id = ? AND expires_at > ?", chatID, userID, m.now().UTC()).
		Take(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load practice session: %w", err)
	}
	return &session, nil
}

// LoadOrStart returns the live session or starts a new one. The bool is true
// when the session was created by this call.
func (m *Manager) LoadOrStart(ctx context.Context, chatID, userID int64) (*db.PracticeSession, bool, error) {
	session, err := m.Load(ctx, chatID, userID)
	if err != nil {
		return nil, false, err
	}
	if session != nil {
		return session, false, nil
	}
	session, err = m.Start(ctx, chatID, userID)
	return session, err == nil, err
}

// Start replaces any previous state of the chat member with a fresh session.
func (m *Manager) Start(ctx context.Context, chatID, userID int64) (*db.PracticeSession, error) {
	session := &db.PracticeSession{
		ChatID:     chatID,
		UserID:     userID,
		StudentID:  StudentID(userID),
		SessionID:  uuid.NewString(),
		HintsShown: datatypes.JSON("[]"),
	}
	if err := m.save(ctx, session); err != nil {
		return nil, err
	}
	m.log.Info("practice session started",
		"chat_id", chatID,
		"user_id", userID,
		"session_id", session.SessionID,
	)
	return session, nil
}

// SetCurrentWord moves the session to a new word and clears its hints.
func (m *Manager) SetCurrentWord(ctx context.Context, session *db.PracticeSession, wordID string, messageID int) error {
	session.CurrentWordID = wordID
	session.CurrentMessageID = messageID
	session.HintsShown = datatypes.JSON("[]")
	return m.save(ctx, session)
}

// ClearCurrentWord marks the current word as answered.
func (m *Manager) ClearCurrentWord(ctx context.Context, session *db.PracticeSession) error {
	return m.SetCurrentWord(ctx, session, "", 0)
}

// AddHints appends hints that were sent for the current word.
func (m *Manager) AddHints(ctx context.Context, session *db.PracticeSession, hints []string) error {
	shown, err := HintsShown(session)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(append(shown, hints...))
	if err != nil {
		return fmt.Errorf("encode hints: %w", err)
	}
	session.HintsShown = datatypes.JSON(raw)
	return m.save(ctx, session)
}

// Touch extends the session without changing it.
func (m *Manager) Touch(ctx context.Context, session *db.PracticeSession) error {
	return m.save(ctx, session)
}

func (m *Manager) End(ctx context.Context, chatID, userID int64) error {
	err := m.db.WithContext(ctx).
		Where("chat_id = ? AND user_id = ?", chatID, userID).
		Delete(&db.PracticeSession{}).Error
	if err != nil {
		return fmt.Errorf("end practice session: %w", err)
	}
	return nil
}

// HintsShown decodes the hints stored on the session.
func HintsShown(session *db.PracticeSession) ([]string, error) {
	hints := []string{}
	if session == nil || len(session.HintsShown) == 0 {
		return hints, nil
	}
	if err := json.Unmarshal(session.HintsShown, &hints); err != nil {
		return nil, fmt.Errorf("decode hints: %w", err)
	}
	return hints, nil
}

func (m *Manager) save(ctx context.Context, session *db.PracticeSession) error {
	session.LastActivityAt = m.now().UTC()
	session.ExpiresAt = session.LastActivityAt.Add(m.idle)
	if len(session.HintsShown) == 0 {
		session.HintsShown = datatypes.JSON("[]")
	}
	// The row is matched on chat and user, never on the surrogate key.
	session.ID = 0

	err := m.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "chat_id"},
			{Name: "user_id"},
		},
		UpdateAll: true,
	}).Create(session).Error
	if err != nil {
		return fmt.Errorf("save practice session: %w", err)
	}
	return nil
}
