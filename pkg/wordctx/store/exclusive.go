package store

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Exclusive serializes every call to a Store: at most one call is in
// flight at a time, and the lock is held only for the duration of that
// call. It optionally throttles IncrementPair.
type Exclusive struct {
	mu      sync.Mutex
	inner   Store
	limiter *rate.Limiter
}

// NewExclusive wraps s. A positive pairsPerSecond throttles IncrementPair
// to that rate; zero or negative disables throttling.
func NewExclusive(s Store, pairsPerSecond float64) *Exclusive {
	e := &Exclusive{inner: s}
	if pairsPerSecond > 0 {
		burst := int(pairsPerSecond)
		if burst < 1 {
			burst = 1
		}
		e.limiter = rate.NewLimiter(rate.Limit(pairsPerSecond), burst)
	}
	return e
}

// IncrementPair implements Incrementer.
func (e *Exclusive) IncrementPair(ctx context.Context, a, b string, distance int32) error {
	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			return err
		}
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.inner.IncrementPair(ctx, a, b, distance)
}

// BestCandidate implements Scorer.
func (e *Exclusive) BestCandidate(ctx context.Context, leftWords []string, leftDists []int32, placeholder string, rightWords []string, rightDists []int32) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.inner.BestCandidate(ctx, leftWords, leftDists, placeholder, rightWords, rightDists)
}

// Close closes the wrapped store.
func (e *Exclusive) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.inner.Close()
}

// Ledger returns the wrapped store's RunLedger, serialized through the
// same lock, or nil when the store keeps no ledger.
func (e *Exclusive) Ledger() RunLedger {
	l, ok := e.inner.(RunLedger)
	if !ok {
		return nil
	}
	return &exclusiveLedger{e: e, inner: l}
}

type exclusiveLedger struct {
	e     *Exclusive
	inner RunLedger
}

func (l *exclusiveLedger) RecordRun(ctx context.Context, r Run) error {
	l.e.mu.Lock()
	defer l.e.mu.Unlock()
	return l.inner.RecordRun(ctx, r)
}

func (l *exclusiveLedger) Runs(ctx context.Context, limit int) ([]Run, error) {
	l.e.mu.Lock()
	defer l.e.mu.Unlock()
	return l.inner.Runs(ctx, limit)
}
