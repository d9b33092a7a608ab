package wordctx

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/wordctx/pkg/wordctx/ingest"
	"github.com/cognicore/wordctx/pkg/wordctx/normalize"
	"github.com/cognicore/wordctx/pkg/wordctx/recognize"
	"github.com/cognicore/wordctx/pkg/wordctx/store"
	"github.com/cognicore/wordctx/pkg/wordctx/window"
)

// Engine is the main facade: it ingests text into the aggregate store and
// recognizes masked sentences against it.
type Engine struct {
	handle *store.Exclusive
	ledger store.RunLedger
	orch   *ingest.Orchestrator
	recog  *recognize.Recognizer
	log    *slog.Logger

	entropyMu sync.Mutex
	entropy   *ulid.MonotonicEntropy
}

// Options configures an Engine
type Options struct {
	Store store.Store
	// Range is the neighbor window radius; zero selects window.DefaultRange
	Range int
	// Concurrency bounds concurrent sentence tasks; zero is unbounded
	Concurrency int
	// PairsPerSecond throttles pair submission; zero is unlimited
	PairsPerSecond float64
	// CacheSize enables an LRU of recognition answers when positive
	CacheSize int
	Logger    *slog.Logger
}

// New creates an Engine. All store access goes through one exclusive
// handle shared by ingestion, recognition and the run ledger.
func New(opts Options) (*Engine, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	win := window.New(opts.Range)
	handle := store.NewExclusive(opts.Store, opts.PairsPerSecond)

	scorer, err := store.NewCachedScorer(handle, opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("recognition cache: %w", err)
	}

	return &Engine{
		handle: handle,
		ledger: handle.Ledger(),
		orch: ingest.New(handle, ingest.Options{
			Windower:    win,
			Concurrency: opts.Concurrency,
			Logger:      logger,
		}),
		recog:   recognize.New(scorer, win, logger),
		log:     logger,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}, nil
}

// Close cleanly shuts down the engine and its store
func (e *Engine) Close() error {
	return e.handle.Close()
}

// Report describes one ingestion run
type Report struct {
	RunID     string
	Source    string
	Sentences int
	Pairs     int64
	Failed    int
	Duration  time.Duration
}

// Ingest normalizes text into sentences and submits every context pair.
// source labels the run in the ledger. The returned error is the first
// sentence failure, reported after every sentence has settled.
func (e *Engine) Ingest(ctx context.Context, source, text string) (Report, error) {
	started := time.Now()
	runID := e.newID(started)
	sentences := normalize.Sentences(text)

	e.log.Info("ingestion started", "run", runID, "source", source, "sentences", len(sentences))
	stats, err := e.orch.Ingest(ctx, sentences)
	finished := time.Now()

	report := Report{
		RunID:     runID,
		Source:    source,
		Sentences: stats.Sentences,
		Pairs:     stats.Pairs,
		Failed:    stats.Failed,
		Duration:  finished.Sub(started),
	}

	if e.ledger != nil {
		run := store.Run{
			ID:         runID,
			Source:     source,
			Sentences:  stats.Sentences,
			Pairs:      stats.Pairs,
			StartedAt:  started,
			FinishedAt: finished,
		}
		if err != nil {
			run.Err = err.Error()
		}
		if lerr := e.ledger.RecordRun(ctx, run); lerr != nil {
			e.log.Warn("recording run failed", "run", runID, "error", lerr)
		}
	}

	if err != nil {
		e.log.Error("ingestion failed", "run", runID, "failed_sentences", stats.Failed, "error", err)
		return report, err
	}
	e.log.Info("ingestion finished", "run", runID, "pairs", stats.Pairs, "duration", report.Duration)
	return report, nil
}

// Recognize tokenizes a single literal sentence and replaces its masked
// tokens.
func (e *Engine) Recognize(ctx context.Context, sentence string) (string, error) {
	return e.recog.Recognize(ctx, normalize.Words(sentence))
}

// Runs lists recorded ingestion runs, newest first. It returns nil when
// the store keeps no ledger.
func (e *Engine) Runs(ctx context.Context, limit int) ([]store.Run, error) {
	if e.ledger == nil {
		return nil, nil
	}
	return e.ledger.Runs(ctx, limit)
}

func (e *Engine) newID(t time.Time) string {
	e.entropyMu.Lock()
	defer e.entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), e.entropy).String()
}
