package practice

import (
	"context"
	"testing"
	"time"

	"github.com/smith3v/tg-word-tutor/pkg/db"
	"github.com/smith3v/tg-word-tutor/pkg/internal/testutil"
	"gorm.io/gorm"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func newTestManager(t *testing.T) (*Manager, *fakeClock, *gorm.DB) {
	t.Helper()
	gdb := testutil.SetupTestDB(t)
	clock := &fakeClock{now: time.Date(2025, 1, 3, 10, 0, 0, 0, time.UTC)}
	m := NewManager(gdb, nil, WithIdleTimeout(10*time.Minute), WithClock(clock.Now))
	return m, clock, gdb
}

func TestStartAndLoad(t *testing.T) {
	m, clock, _ := newTestManager(t)
	ctx := context.Background()

	started, err := m.Start(ctx, 100, 200)
	if err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	if started.StudentID != "200" || started.SessionID == "" {
		t.Fatalf("unexpected session: %+v", started)
	}
	if !started.ExpiresAt.Equal(clock.now.Add(10 * time.Minute)) {
		t.Fatalf("expected expiry after the idle timeout, got %v", started.ExpiresAt)
	}

	loaded, err := m.Load(ctx, 100, 200)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded == nil || loaded.SessionID != started.SessionID {
		t.Fatalf("expected the started session, got %+v", loaded)
	}

	missing, err := m.Load(ctx, 100, 999)
	if err != nil || missing != nil {
		t.Fatalf("expected no session for another user, got %+v, %v", missing, err)
	}
}

func TestLoadOrStartReusesLiveSession(t *testing.T) {
	m, clock, _ := newTestManager(t)
	ctx := context.Background()

	first, created, err := m.LoadOrStart(ctx, 1, 2)
	if err != nil || !created {
		t.Fatalf("expected a new session, got created=%v err=%v", created, err)
	}
	second, created, err := m.LoadOrStart(ctx, 1, 2)
	if err != nil || created {
		t.Fatalf("expected the live session, got created=%v err=%v", created, err)
	}
	if second.SessionID != first.SessionID {
		t.Fatalf("expected session %s, got %s", first.SessionID, second.SessionID)
	}

	clock.now = clock.now.Add(11 * time.Minute)
	third, created, err := m.LoadOrStart(ctx, 1, 2)
	if err != nil || !created {
		t.Fatalf("expected a new session after expiry, got created=%v err=%v", created, err)
	}
	if third.SessionID == first.SessionID {
		t.Fatal("expected a fresh session id after expiry")
	}
}

func TestCurrentWordAndHints(t *testing.T) {
	m, clock, gdb := newTestManager(t)
	ctx := context.Background()

	session, err := m.Start(ctx, 5, 6)
	if err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	clock.now = clock.now.Add(time.Minute)
	if err := m.SetCurrentWord(ctx, session, "word-1", 42); err != nil {
		t.Fatalf("SetCurrentWord returned error: %v", err)
	}
	if err := m.AddHints(ctx, session, []string{"starts with k"}); err != nil {
		t.Fatalf("AddHints returned error: %v", err)
	}
	if err := m.AddHints(ctx, session, []string{"khoobsurat"}); err != nil {
		t.Fatalf("AddHints returned error: %v", err)
	}

	loaded, err := m.Load(ctx, 5, 6)
	if err != nil || loaded == nil {
		t.Fatalf("Load returned %+v, %v", loaded, err)
	}
	if loaded.CurrentWordID != "word-1" || loaded.CurrentMessageID != 42 {
		t.Fatalf("unexpected current word: %+v", loaded)
	}
	hints, err := HintsShown(loaded)
	if err != nil {
		t.Fatalf("HintsShown returned error: %v", err)
	}
	if len(hints) != 2 || hints[0] != "starts with k" || hints[1] != "khoobsurat" {
		t.Fatalf("unexpected hints: %v", hints)
	}
	if !loaded.ExpiresAt.Equal(clock.now.Add(10 * time.Minute)) {
		t.Fatalf("expected expiry to move with activity, got %v", loaded.ExpiresAt)
	}

	if err := m.ClearCurrentWord(ctx, loaded); err != nil {
		t.Fatalf("ClearCurrentWord returned error: %v", err)
	}
	hints, err = HintsShown(loaded)
	if err != nil || len(hints) != 0 {
		t.Fatalf("expected hints to be cleared, got %v, %v", hints, err)
	}

	var rows int64
	if err := gdb.Model(&db.PracticeSession{}).Count(&rows).Error; err != nil {
		t.Fatalf("count sessions: %v", err)
	}
	if rows != 1 {
		t.Fatalf("expected a single row per chat member, got %d", rows)
	}
}

func TestEnd(t *testing.T) {
	m, _, _ := newTestManager(t)
	ctx := context.Background()

	if _, err := m.Start(ctx, 7, 8); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	if err := m.End(ctx, 7, 8); err != nil {
		t.Fatalf("End returned error: %v", err)
	}
	session, err := m.Load(ctx, 7, 8)
	if err != nil || session != nil {
		t.Fatalf("expected no session after End, got %+v, %v", session, err)
	}
}
