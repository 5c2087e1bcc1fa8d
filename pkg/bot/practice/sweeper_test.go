package practice

import (
	"context"
	"testing"
	"time"

	"github.com/smith3v/tg-word-tutor/pkg/db"
)

func TestSweepNotifiesAndRemovesExpired(t *testing.T) {
	m, clock, _ := newTestManager(t)
	ctx := context.Background()

	idle, err := m.Start(ctx, 1, 1)
	if err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	clock.now = clock.now.Add(5 * time.Minute)
	if _, err := m.Start(ctx, 2, 2); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	clock.now = clock.now.Add(6 * time.Minute)
	var notified []db.PracticeSession
	removed, err := m.Sweep(ctx, func(_ context.Context, s db.PracticeSession) {
		notified = append(notified, s)
	})
	if err != nil {
		t.Fatalf("Sweep returned error: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected one removed session, got %d", removed)
	}
	if len(notified) != 1 || notified[0].SessionID != idle.SessionID {
		t.Fatalf("expected the idle session to be reported, got %+v", notified)
	}

	live, err := m.Load(ctx, 2, 2)
	if err != nil || live == nil {
		t.Fatalf("expected the active session to survive, got %+v, %v", live, err)
	}
}

func TestSweepWithoutHandler(t *testing.T) {
	m, clock, _ := newTestManager(t)
	ctx := context.Background()

	if _, err := m.Start(ctx, 1, 1); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	clock.now = clock.now.Add(time.Hour)
	removed, err := m.Sweep(ctx, nil)
	if err != nil || removed != 1 {
		t.Fatalf("expected one removed session, got %d, %v", removed, err)
	}
}

func TestStartSweeperStopsWithContext(t *testing.T) {
	m, _, _ := newTestManager(t)
	ctx, cancel := context.WithCancel(context.Background())

	s, err := m.StartSweeper(ctx, nil)
	if err != nil {
		t.Fatalf("StartSweeper returned error: %v", err)
	}
	if !s.IsRunning() {
		t.Fatal("expected the scheduler to run")
	}
	if s.Len() != 1 {
		t.Fatalf("expected one sweep job, got %d", s.Len())
	}
	cancel()

	deadline := time.Now().Add(2 * time.Second)
	for s.IsRunning() {
		if time.Now().After(deadline) {
			t.Fatal("expected the scheduler to stop after cancel")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
