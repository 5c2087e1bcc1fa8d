package progress

import (
	"context"

	"github.com/samber/lo"
)

// UnlearnedLister is the part of Tracker the selector depends on.
type UnlearnedLister interface {
	UnlearnedWords(ctx context.Context, studentID string, limit int) ([]string, error)
}

type Selector struct {
	tracker UnlearnedLister
}

func NewSelector(tracker UnlearnedLister) *Selector {
	return &Selector{tracker: tracker}
}

// NextWord returns the oldest word the student has not learned yet. ok is
// false when there is nothing left to ask, which includes an empty store;
// callers tell the two apart with vocab.Store.CountWords.
func (s *Selector) NextWord(ctx context.Context, studentID string) (wordID string, ok bool, err error) {
	return s.NextWordExcluding(ctx, studentID, nil)
}

// NextWordExcluding prefers words outside exclude within the next batch. When
// every candidate is excluded the oldest one is returned anyway.
func (s *Selector) NextWordExcluding(ctx context.Context, studentID string, exclude []string) (string, bool, error) {
	ids, err := s.tracker.UnlearnedWords(ctx, studentID, 0)
	if err != nil {
		return "", false, err
	}
	if len(ids) == 0 {
		return "", false, nil
	}
	if id, found := lo.Find(ids, func(id string) bool {
		return !lo.Contains(exclude, id)
	}); found {
		return id, true, nil
	}
	return ids[0], true, nil
}
