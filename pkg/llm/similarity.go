package llm

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
)

const maxCachedEmbeddings = 4096

type Embedder interface {
	Embed(ctx context.Context, inputs []string) ([][]float64, error)
}

// EmbeddingSimilarity scores two texts by the cosine similarity of their
// embeddings, clamped to [0,1]. Vectors are cached by text.
type EmbeddingSimilarity struct {
	embedder Embedder

	mu    sync.Mutex
	cache map[string][]float64
}

func NewEmbeddingSimilarity(embedder Embedder) *EmbeddingSimilarity {
	return &EmbeddingSimilarity{
		embedder: embedder,
		cache:    make(map[string][]float64),
	}
}

func (s *EmbeddingSimilarity) Similarity(ctx context.Context, query, candidate string) (float64, error) {
	vectors, err := s.vectors(ctx, query, candidate)
	if err != nil {
		return 0, err
	}
	return Cosine(vectors[0], vectors[1])
}

func (s *EmbeddingSimilarity) vectors(ctx context.Context, texts ...string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	var missing []string
	var missingIdx []int

	s.mu.Lock()
	for i, text := range texts {
		if v, ok := s.cache[text]; ok {
			out[i] = v
			continue
		}
		missing = append(missing, text)
		missingIdx = append(missingIdx, i)
	}
	s.mu.Unlock()

	if len(missing) == 0 {
		return out, nil
	}
	embedded, err := s.embedder.Embed(ctx, missing)
	if err != nil {
		return nil, err
	}
	if len(embedded) != len(missing) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d inputs", len(embedded), len(missing))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.cache)+len(missing) > maxCachedEmbeddings {
		s.cache = make(map[string][]float64)
	}
	for j, idx := range missingIdx {
		out[idx] = embedded[j]
		s.cache[missing[j]] = embedded[j]
	}
	return out, nil
}

// Cosine returns the cosine similarity of a and b clamped to [0,1].
func Cosine(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("vector length mismatch: %d vs %d", len(a), len(b))
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0, errors.New("zero-length embedding")
	}
	score := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	return math.Max(0, math.Min(1, score)), nil
}
