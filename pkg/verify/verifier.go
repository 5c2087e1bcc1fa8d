// Package verify decides whether a free-text answer is an accepted synonym of
// a word.
package verify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/smith3v/tg-word-tutor/pkg/db"
	"github.com/smith3v/tg-word-tutor/pkg/logger"
)

const (
	DefaultThreshold = 0.8
	DefaultTimeout   = 5 * time.Second
)

var ErrExternalService = errors.New("similarity service unavailable")

type Reason string

const (
	ReasonLookupFailed   Reason = "lookup_failed"
	ReasonEmptyAnswer    Reason = "empty_answer"
	ReasonSelfAnswer     Reason = "self_answer"
	ReasonSynonymMatch   Reason = "synonym_match"
	ReasonSimilar        Reason = "similar"
	ReasonNoMatch        Reason = "no_match"
	ReasonServiceError   Reason = "service_error"
	ReasonServiceTimeout Reason = "service_timeout"
)

type Verdict struct {
	Accepted bool
	Reason   Reason
	// Matched is the synonym that decided an accepted verdict.
	Matched string
	Score   float64
	// Err is set when the answer was rejected because of a failure rather
	// than because it was wrong.
	Err error
}

// WordSource is the part of the word store the verifier reads.
type WordSource interface {
	GetWord(ctx context.Context, wordID string) (db.Word, error)
}

// Similarity scores how close a query is to a candidate, within [0,1].
type Similarity interface {
	Similarity(ctx context.Context, query, candidate string) (float64, error)
}

type Verifier struct {
	words      WordSource
	similarity Similarity
	threshold  float64
	timeout    time.Duration
	log        *slog.Logger
}

type Option func(*Verifier)

// WithSimilarity enables the fallback for answers that match no synonym.
func WithSimilarity(s Similarity) Option {
	return func(v *Verifier) {
		v.similarity = s
	}
}

func WithThreshold(threshold float64) Option {
	return func(v *Verifier) {
		if threshold > 0 && threshold <= 1 {
			v.threshold = threshold
		}
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(v *Verifier) {
		if timeout > 0 {
			v.timeout = timeout
		}
	}
}

func New(words WordSource, log *slog.Logger, opts ...Option) *Verifier {
	v := &Verifier{
		words:     words,
		threshold: DefaultThreshold,
		timeout:   DefaultTimeout,
		log:       logger.OrDiscard(log),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Verify never fails: lookup and service errors become rejections that
// carry their cause in Verdict.Err.
func (v *Verifier) Verify(ctx context.Context, wordID, answer string) Verdict {
	word, err := v.words.GetWord(ctx, wordID)
	if err != nil {
		v.log.Warn("word lookup failed during verification", "word_id", wordID, "error", err)
		return Verdict{Reason: ReasonLookupFailed, Err: err}
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		return Verdict{Reason: ReasonEmptyAnswer}
	}
	if answer == strings.TrimSpace(word.Text) {
		return Verdict{Reason: ReasonSelfAnswer}
	}

	candidates := make([]string, 0, len(word.Synonyms))
	for _, syn := range word.Synonyms {
		text := strings.TrimSpace(syn.Text)
		if text == "" {
			continue
		}
		if answer == text {
			return Verdict{Accepted: true, Reason: ReasonSynonymMatch, Matched: text, Score: 1}
		}
		candidates = append(candidates, text)
	}

	if v.similarity == nil || len(candidates) == 0 {
		return Verdict{Reason: ReasonNoMatch}
	}
	return v.fallback(ctx, wordID, answer, candidates)
}

func (v *Verifier) fallback(ctx context.Context, wordID, answer string, candidates []string) Verdict {
	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	best := Verdict{Reason: ReasonNoMatch}
	for _, candidate := range candidates {
		score, err := v.similarity.Similarity(ctx, answer, candidate)
		if err != nil {
			reason := ReasonServiceError
			if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
				reason = ReasonServiceTimeout
			}
			v.log.Warn("similarity check failed", "word_id", wordID, "reason", reason, "error", err)
			return Verdict{Reason: reason, Err: fmt.Errorf("%w: %w", ErrExternalService, err)}
		}
		if score > best.Score {
			best.Score = score
			best.Matched = candidate
		}
	}

	if best.Score > v.threshold {
		best.Accepted = true
		best.Reason = ReasonSimilar
		return best
	}
	best.Matched = ""
	return best
}
