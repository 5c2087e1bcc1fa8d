package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/samber/lo"
	"github.com/smith3v/tg-word-tutor/pkg/db"
	"github.com/smith3v/tg-word-tutor/pkg/logger"
	"github.com/smith3v/tg-word-tutor/pkg/progress"
	"github.com/smith3v/tg-word-tutor/pkg/verify"
	"github.com/smith3v/tg-word-tutor/pkg/vocab"
)

const DefaultHintCount = 2

var ErrNoSynonyms = errors.New("word has no synonyms")

// State tells why NextWord did or did not return a word.
type State int

const (
	StateReady State = iota
	StateNoWords
	StateAllLearned
)

type Next struct {
	State State
	Word  db.Word
}

type Result struct {
	Verdict  verify.Verdict
	Word     db.Word
	Feedback string
}

type Deps struct {
	Store    *vocab.Store
	Tracker  *progress.Tracker
	Verifier *verify.Verifier
	// Generator is optional. Without it hints, feedback and summaries use
	// fixed wording.
	Generator Generator
	HintCount int
	Log       *slog.Logger
}

// Tutor ties word selection, verification and progress together for one
// front end.
type Tutor struct {
	store      *vocab.Store
	tracker    *progress.Tracker
	selector   *progress.Selector
	summarizer *progress.Summarizer
	verifier   *verify.Verifier
	executor   *Executor
	hintCount  int
	log        *slog.Logger
}

func NewTutor(d Deps) *Tutor {
	t := &Tutor{
		store:      d.Store,
		tracker:    d.Tracker,
		selector:   progress.NewSelector(d.Tracker),
		summarizer: progress.NewSummarizer(d.Tracker),
		verifier:   d.Verifier,
		hintCount:  d.HintCount,
		log:        logger.OrDiscard(d.Log),
	}
	if t.hintCount <= 0 {
		t.hintCount = DefaultHintCount
	}
	if d.Generator != nil {
		t.executor = NewExecutor(d.Generator, t.log, t.Tools()...)
	}
	return t
}

// NextWord picks the next word for the student, avoiding the skipped ids
// when another candidate exists. When none is left it checks the store size
// to tell an empty store from a finished one.
func (t *Tutor) NextWord(ctx context.Context, studentID string, skip ...string) (Next, error) {
	wordID, ok, err := t.selector.NextWordExcluding(ctx, studentID, skip)
	if err != nil {
		return Next{}, err
	}
	if !ok {
		count, err := t.store.CountWords(ctx)
		if err != nil {
			return Next{}, err
		}
		if count == 0 {
			return Next{State: StateNoWords}, nil
		}
		return Next{State: StateAllLearned}, nil
	}
	word, err := t.store.GetWord(ctx, wordID)
	if err != nil {
		return Next{}, err
	}
	return Next{State: StateReady, Word: word}, nil
}

// CheckAnswer verifies the answer and records the attempt.
func (t *Tutor) CheckAnswer(ctx context.Context, studentID, sessionID, wordID, answer string) (Result, error) {
	verdict := t.verifier.Verify(ctx, wordID, answer)
	if verdict.Reason == verify.ReasonLookupFailed {
		return Result{Verdict: verdict}, verdict.Err
	}
	if err := t.tracker.RecordAttempt(ctx, studentID, wordID, answer, verdict.Accepted, sessionID); err != nil {
		return Result{Verdict: verdict}, err
	}

	word, err := t.store.GetWord(ctx, wordID)
	if err != nil {
		return Result{Verdict: verdict}, err
	}
	return Result{
		Verdict:  verdict,
		Word:     word,
		Feedback: t.feedback(ctx, studentID, word, strings.TrimSpace(answer), verdict),
	}, nil
}

func (t *Tutor) feedback(ctx context.Context, studentID string, word db.Word, answer string, verdict verify.Verdict) string {
	fallback := fmt.Sprintf("Not quite. %q is not a synonym of %q.", answer, word.Text)
	if verdict.Accepted {
		fallback = fmt.Sprintf("Correct! %q is a synonym of %q.", answer, word.Text)
	}
	if t.executor == nil {
		return fallback
	}
	task, err := render(feedbackPrompt, map[string]any{
		"StudentID": studentID,
		"Answer":    answer,
		"Word":      word.Text,
		"WordID":    word.ID,
		"Correct":   verdict.Accepted,
		"Synonyms":  strings.Join(synonymTexts(word), ", "),
	})
	if err != nil {
		return fallback
	}
	return t.runOr(ctx, task, fallback)
}

// Hints returns up to the configured number of hints for the word. One of
// them is always an accepted synonym.
func (t *Tutor) Hints(ctx context.Context, wordID string) ([]string, error) {
	word, err := t.store.GetWord(ctx, wordID)
	if err != nil {
		return nil, err
	}
	synonyms := synonymTexts(word)
	if len(synonyms) == 0 {
		return nil, ErrNoSynonyms
	}

	var hints []string
	if t.executor != nil {
		task, err := render(hintPrompt, map[string]any{"Count": t.hintCount, "Word": word.Text, "WordID": word.ID})
		if err == nil {
			if out, runErr := t.executor.Run(ctx, task); runErr == nil {
				hints = splitHints(out)
			} else {
				t.log.Warn("hint generation failed", "word_id", wordID, "error", runErr)
			}
		}
	}
	if len(hints) == 0 {
		hints = []string{letterHint(synonyms[0])}
	}
	return ensureSynonym(hints, synonyms, t.hintCount), nil
}

func (t *Tutor) Summarize(ctx context.Context, studentID, sessionID string) (progress.Summary, error) {
	return t.summarizer.Summarize(ctx, studentID, sessionID)
}

// SummaryMessage turns a summary into a short message for the student.
func (t *Tutor) SummaryMessage(ctx context.Context, s progress.Summary) string {
	words := strings.Join(s.WordsLearned, ", ")
	fallback := fmt.Sprintf("Correct answers: %d. Incorrect answers: %d. Words learned: %d",
		s.CorrectAnswers, s.IncorrectAnswers, len(s.WordsLearned))
	if words != "" {
		fallback += " (" + words + ")"
	}
	fallback += "."
	if t.executor == nil {
		return fallback
	}
	task, err := render(summaryPrompt, map[string]any{
		"Correct":   s.CorrectAnswers,
		"Incorrect": s.IncorrectAnswers,
		"Words":     words,
	})
	if err != nil {
		return fallback
	}
	return t.runOr(ctx, task, fallback)
}

func (t *Tutor) Reset(ctx context.Context, studentID string) (int64, error) {
	return t.tracker.ResetHistory(ctx, studentID)
}

func (t *Tutor) runOr(ctx context.Context, task, fallback string) string {
	out, err := t.executor.Run(ctx, task)
	if err != nil || strings.TrimSpace(out) == "" {
		if err != nil {
			t.log.Warn("agent run failed", "error", err)
		}
		return fallback
	}
	return out
}

// Tools lists what the agent may call while composing a reply.
func (t *Tutor) Tools() []Tool {
	return []Tool{
		{
			Name:        "word_selector",
			Description: "Select the next unlearned word. Input: the student id. Output: <word id> TAB <word>.",
			Run: func(ctx context.Context, input string) (string, error) {
				next, err := t.NextWord(ctx, strings.TrimSpace(input))
				if err != nil {
					return "", err
				}
				switch next.State {
				case StateNoWords:
					return "no words are configured", nil
				case StateAllLearned:
					return "the student has learned every word", nil
				}
				return next.Word.ID + "\t" + next.Word.Text, nil
			},
		},
		{
			Name:        "answer_checker",
			Description: "Check an answer without recording it. Input: <word id or word>|<answer>.",
			Run: func(ctx context.Context, input string) (string, error) {
				ref, answer, ok := strings.Cut(input, "|")
				if !ok {
					return "", fmt.Errorf("expected <word id>|<answer>, got %q", input)
				}
				word, err := t.store.LookupWord(ctx, ref)
				if err != nil {
					return "", err
				}
				verdict := t.verifier.Verify(ctx, word.ID, answer)
				if verdict.Accepted {
					return "correct", nil
				}
				return "incorrect", nil
			},
		},
		{
			Name:        "hint_generator",
			Description: "Give a spelling hint for a word. Input: the word id or the word.",
			Run: func(ctx context.Context, input string) (string, error) {
				word, err := t.store.LookupWord(ctx, input)
				if err != nil {
					return "", err
				}
				synonyms := synonymTexts(word)
				if len(synonyms) == 0 {
					return "", ErrNoSynonyms
				}
				return letterHint(synonyms[0]), nil
			},
		},
	}
}

func synonymTexts(word db.Word) []string {
	return lo.FilterMap(word.Synonyms, func(s db.Synonym, _ int) (string, bool) {
		text := strings.TrimSpace(s.Text)
		return text, text != ""
	})
}

func letterHint(synonym string) string {
	first, _ := utf8.DecodeRuneInString(synonym)
	return fmt.Sprintf("The synonym starts with %q and has %d letters.", string(first), utf8.RuneCountInString(synonym))
}

func splitHints(text string) []string {
	lines := strings.Split(text, "\n")
	return lo.FilterMap(lines, func(line string, _ int) (string, bool) {
		line = strings.TrimSpace(line)
		line = strings.TrimLeftFunc(line, func(r rune) bool {
			return unicode.IsDigit(r) || r == '.' || r == ')' || r == '-' || r == '*' || r == '•'
		})
		line = strings.TrimSpace(line)
		return line, line != ""
	})
}

// ensureSynonym trims hints to n entries and, when none of them is an
// accepted synonym, puts the first synonym in the last slot.
func ensureSynonym(hints, synonyms []string, n int) []string {
	if len(hints) > n {
		hints = hints[:n]
	}
	if lo.Some(hints, synonyms) {
		return hints
	}
	if len(hints) < n {
		return append(hints, synonyms[0])
	}
	hints[len(hints)-1] = synonyms[0]
	return hints
}
