package store

import (
	"context"
	"time"
)

// Incrementer accumulates one positional pair.
type Incrementer interface {
	IncrementPair(ctx context.Context, a, b string, distance int32) error
}

// Scorer picks the vocabulary word that best fits a masked placeholder
// given its left and right context.
type Scorer interface {
	BestCandidate(ctx context.Context, leftWords []string, leftDists []int32, placeholder string, rightWords []string, rightDists []int32) (string, error)
}

// Store is the aggregate store consumed by ingestion and recognition.
// Implementations need not be safe for concurrent use; callers serialize
// access through Exclusive.
type Store interface {
	Incrementer
	Scorer
	Close() error
}

// Run records one ingestion batch
type Run struct {
	ID         string
	Source     string
	Sentences  int
	Pairs      int64
	StartedAt  time.Time
	FinishedAt time.Time
	Err        string
}

// RunLedger is implemented by stores that persist ingestion history.
type RunLedger interface {
	RecordRun(ctx context.Context, r Run) error
	Runs(ctx context.Context, limit int) ([]Run, error)
}
