package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/cognicore/wordctx/pkg/wordctx/internalerr"
	"github.com/cognicore/wordctx/pkg/wordctx/mask"
	"github.com/cognicore/wordctx/pkg/wordctx/pmi"
	"github.com/cognicore/wordctx/pkg/wordctx/store"
)

// Store is an in-memory implementation of store.Store for tests and
// throwaway sessions.
type Store struct {
	mu    sync.RWMutex
	pairs *pmi.PairTable
	calc  *pmi.Calculator
	runs  []store.Run
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		pairs: pmi.NewPairTable(),
		calc:  pmi.NewCalculator(1.0),
	}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// IncrementPair accumulates one occurrence of (a, b, distance).
func (s *Store) IncrementPair(ctx context.Context, a, b string, distance int32) error {
	if a == "" || b == "" || distance == 0 {
		return fmt.Errorf("increment pair (%q, %q, %d): %w", a, b, distance, internalerr.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pairs.Add(a, b, distance)
	return nil
}

// Count returns the accumulated count for (a, b, distance).
func (s *Store) Count(a, b string, distance int32) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pairs.Count(a, b, distance)
}

// TotalPairs returns the number of increments accumulated.
func (s *Store) TotalPairs() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pairs.TotalPairs()
}

// BestCandidate returns the vocabulary word matching placeholder that
// fits the context best, as ranked by pmi.Better.
func (s *Store) BestCandidate(ctx context.Context, leftWords []string, leftDists []int32, placeholder string, rightWords []string, rightDists []int32) (string, error) {
	if len(leftWords) != len(leftDists) || len(rightWords) != len(rightDists) {
		return "", fmt.Errorf("best candidate: word and distance lists differ in length: %w", internalerr.ErrInvalidInput)
	}
	m, err := mask.Compile(placeholder)
	if err != nil {
		return "", fmt.Errorf("best candidate: %w", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var cands []pmi.Candidate
	for _, w := range s.pairs.Vocabulary() {
		if !m.Match(w) {
			continue
		}
		fit, err := s.calc.Fit(s.pairs, w, leftWords, leftDists, rightWords, rightDists)
		if err != nil {
			return "", err
		}
		cands = append(cands, pmi.Candidate{Word: w, Freq: s.pairs.Freq(w), Fit: fit})
	}

	best, ok := pmi.Best(cands)
	if !ok {
		return "", fmt.Errorf("best candidate for %q: %w", placeholder, internalerr.ErrNoCandidate)
	}
	return best.Word, nil
}

// RecordRun implements store.RunLedger.
func (s *Store) RecordRun(ctx context.Context, r store.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs = append(s.runs, r)
	return nil
}

// Runs returns the most recent runs first.
func (s *Store) Runs(ctx context.Context, limit int) ([]store.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}
	out := make([]store.Run, len(s.runs))
	copy(out, s.runs)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartedAt.After(out[j].StartedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
