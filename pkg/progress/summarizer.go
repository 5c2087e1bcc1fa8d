package progress

import (
	"context"

	"github.com/samber/lo"
)

// Summary is the outcome of a practice session, or of the whole history when
// no session is given.
type Summary struct {
	CorrectAnswers   int64
	IncorrectAnswers int64
	// WordsLearned lists the texts of words answered correctly in scope.
	WordsLearned []string
	// TotalWordsLearned counts every word the student has learned so far,
	// regardless of scope.
	TotalWordsLearned int64
}

type Summarizer struct {
	tracker *Tracker
}

func NewSummarizer(tracker *Tracker) *Summarizer {
	return &Summarizer{tracker: tracker}
}

// Summarize reads the current state of the learning history. It has no side
// effects and always reflects the latest attempts.
//
// With a sessionID, WordsLearned covers that session only while
// TotalWordsLearned is the student's lifetime count of distinct learned
// words, so it can exceed len(WordsLearned). Without one both cover the
// whole history and agree.
func (s *Summarizer) Summarize(ctx context.Context, studentID, sessionID string) (Summary, error) {
	stats, err := s.tracker.SessionStats(ctx, studentID, sessionID)
	if err != nil {
		return Summary{}, err
	}
	total := int64(len(stats.LearnedWords))
	if sessionID != "" {
		total, err = s.tracker.CountLearned(ctx, studentID)
		if err != nil {
			return Summary{}, err
		}
	}
	return Summary{
		CorrectAnswers:   stats.CorrectCount,
		IncorrectAnswers: stats.IncorrectCount,
		WordsLearned: lo.Map(stats.LearnedWords, func(w LearnedWord, _ int) string {
			return w.Text
		}),
		TotalWordsLearned: total,
	}, nil
}

// Attempts is the number of answers counted in the summary.
func (s Summary) Attempts() int64 {
	return s.CorrectAnswers + s.IncorrectAnswers
}
