// Package storetest provides a recording store.Store for tests.
package storetest

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/cognicore/wordctx/pkg/wordctx/window"
)

// Query is one recorded BestCandidate call.
type Query struct {
	LeftWords   []string
	LeftDists   []int32
	Placeholder string
	RightWords  []string
	RightDists  []int32
}

// Recorder records every call it receives and tracks how many calls
// overlap in time.
type Recorder struct {
	// Answer produces BestCandidate results. When nil the placeholder is
	// echoed back.
	Answer func(q Query) (string, error)
	// FailPair, when set, is consulted before a pair is recorded.
	FailPair func(p window.Pair) error

	mu      sync.Mutex
	pairs   []window.Pair
	queries []Query
	closed  bool

	inFlight    atomic.Int32
	maxInFlight atomic.Int32
}

func (r *Recorder) enter() {
	n := r.inFlight.Add(1)
	for {
		seen := r.maxInFlight.Load()
		if n <= seen || r.maxInFlight.CompareAndSwap(seen, n) {
			break
		}
	}
	// widen the window in which an overlapping call would be observed
	runtime.Gosched()
}

func (r *Recorder) leave() { r.inFlight.Add(-1) }

// IncrementPair implements store.Incrementer.
func (r *Recorder) IncrementPair(ctx context.Context, a, b string, distance int32) error {
	r.enter()
	defer r.leave()

	p := window.Pair{A: a, B: b, Distance: distance}
	if r.FailPair != nil {
		if err := r.FailPair(p); err != nil {
			return err
		}
	}
	r.mu.Lock()
	r.pairs = append(r.pairs, p)
	r.mu.Unlock()
	return nil
}

// BestCandidate implements store.Scorer.
func (r *Recorder) BestCandidate(ctx context.Context, leftWords []string, leftDists []int32, placeholder string, rightWords []string, rightDists []int32) (string, error) {
	r.enter()
	defer r.leave()

	q := Query{
		LeftWords:   leftWords,
		LeftDists:   leftDists,
		Placeholder: placeholder,
		RightWords:  rightWords,
		RightDists:  rightDists,
	}
	r.mu.Lock()
	r.queries = append(r.queries, q)
	r.mu.Unlock()

	if r.Answer == nil {
		return placeholder, nil
	}
	return r.Answer(q)
}

// Close implements store.Store.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

// Pairs returns a copy of the recorded pairs in arrival order.
func (r *Recorder) Pairs() []window.Pair {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]window.Pair(nil), r.pairs...)
}

// Queries returns a copy of the recorded queries in arrival order.
func (r *Recorder) Queries() []Query {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Query(nil), r.queries...)
}

// Closed reports whether Close was called.
func (r *Recorder) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

// MaxInFlight returns the largest number of calls observed in progress at
// the same time.
func (r *Recorder) MaxInFlight() int {
	return int(r.maxInFlight.Load())
}
