// Package ingest fans sentences out to the aggregate store.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/cognicore/wordctx/pkg/wordctx/normalize"
	"github.com/cognicore/wordctx/pkg/wordctx/store"
	"github.com/cognicore/wordctx/pkg/wordctx/window"
)

// Options configures an Orchestrator.
type Options struct {
	Windower window.Windower
	// Concurrency bounds how many sentence tasks run at once; zero or
	// negative means one goroutine per sentence.
	Concurrency int
	Logger      *slog.Logger
}

// Orchestrator submits the pairs of many sentences concurrently, one task
// per sentence, through a single store handle.
type Orchestrator struct {
	sink        store.Incrementer
	win         window.Windower
	concurrency int
	log         *slog.Logger
}

// Stats summarizes one batch.
type Stats struct {
	Sentences int
	Pairs     int64
	Failed    int
}

// New returns an Orchestrator writing to sink. Every call to sink must be
// mutually exclusive; pass a *store.Exclusive unless the sink already
// guarantees that.
func New(sink store.Incrementer, opts Options) *Orchestrator {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		sink:        sink,
		win:         opts.Windower,
		concurrency: opts.Concurrency,
		log:         logger,
	}
}

// Ingest submits every pair of every sentence and waits for all sentence
// tasks to finish. A failed submission aborts the remaining pairs of its
// own sentence only; the first such failure is returned once every task
// has settled.
func (o *Orchestrator) Ingest(ctx context.Context, sentences []normalize.Sentence) (Stats, error) {
	var (
		g      errgroup.Group
		pairs  atomic.Int64
		failed atomic.Int32
	)
	if o.concurrency > 0 {
		g.SetLimit(o.concurrency)
	}

	for i, words := range sentences {
		i, words := i, words
		g.Go(func() error {
			n, err := o.ingestSentence(ctx, words)
			pairs.Add(n)
			if err != nil {
				failed.Add(1)
				o.log.Warn("sentence ingestion aborted",
					"sentence", i, "submitted", n, "error", err)
				return fmt.Errorf("sentence %d: %w", i, err)
			}
			return nil
		})
	}
	err := g.Wait()

	stats := Stats{
		Sentences: len(sentences),
		Pairs:     pairs.Load(),
		Failed:    int(failed.Load()),
	}
	o.log.Debug("ingestion batch settled",
		"sentences", stats.Sentences, "pairs", stats.Pairs, "failed", stats.Failed)
	return stats, err
}

// ingestSentence submits pairs in position order, left window before
// right, stopping at the first failure. It returns how many pairs were
// accepted.
func (o *Orchestrator) ingestSentence(ctx context.Context, words normalize.Sentence) (int64, error) {
	var n int64
	for _, p := range o.win.Pairs(words) {
		if err := o.sink.IncrementPair(ctx, p.A, p.B, p.Distance); err != nil {
			return n, fmt.Errorf("increment (%q, %q, %d): %w", p.A, p.B, p.Distance, err)
		}
		n++
	}
	return n, nil
}
