package db

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// ExpiredPracticeSessions lists sessions whose expiry is at or before now.
func ExpiredPracticeSessions(ctx context.Context, gdb *gorm.DB, now time.Time) ([]PracticeSession, error) {
	var sessions []PracticeSession
	err := gdb.WithContext(ctx).
		Where("expires_at <= ?", now).
		Order("expires_at ASC").
		Find(&sessions).Error
	return sessions, err
}

// CleanupExpiredSessions deletes every practice session that expired at or
// before now and reports how many rows were removed.
func CleanupExpiredSessions(ctx context.Context, gdb *gorm.DB, now time.Time) (int64, error) {
	res := gdb.WithContext(ctx).Where("expires_at <= ?", now).Delete(&PracticeSession{})
	return res.RowsAffected, res.Error
}
