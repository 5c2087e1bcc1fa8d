package practice

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/smith3v/tg-word-tutor/pkg/db"
)

const SweepInterval = time.Minute

// ExpiryHandler is called for each session that went idle, before it is
// deleted.
type ExpiryHandler func(ctx context.Context, session db.PracticeSession)

// Sweep hands every expired session to onExpire and then deletes them.
func (m *Manager) Sweep(ctx context.Context, onExpire ExpiryHandler) (int64, error) {
	now := m.now().UTC()
	expired, err := db.ExpiredPracticeSessions(ctx, m.db, now)
	if err != nil {
		return 0, err
	}
	if onExpire != nil {
		for _, session := range expired {
			onExpire(ctx, session)
		}
	}
	removed, err := db.CleanupExpiredSessions(ctx, m.db, now)
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		m.log.Info("expired practice sessions removed", "count", removed)
	}
	return removed, nil
}

// StartSweeper runs Sweep every SweepInterval until ctx is done.
func (m *Manager) StartSweeper(ctx context.Context, onExpire ExpiryHandler) (*gocron.Scheduler, error) {
	s := gocron.NewScheduler(time.UTC)
	_, err := s.Every(SweepInterval).Do(func() {
		if _, err := m.Sweep(ctx, onExpire); err != nil {
			m.log.Error("practice session sweep failed", "error", err)
		}
	})
	if err != nil {
		return nil, err
	}
	s.StartAsync()

	go func() {
		<-ctx.Done()
		s.Stop()
	}()
	return s, nil
}
