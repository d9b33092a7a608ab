package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/wordctx/pkg/wordctx/internalerr"
	"github.com/cognicore/wordctx/pkg/wordctx/mask"
	"github.com/cognicore/wordctx/pkg/wordctx/pmi"
	"github.com/cognicore/wordctx/pkg/wordctx/store"
)

// timeLayout is fixed width so that text ordering matches time ordering
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store implements store.Store and store.RunLedger on SQLite
type Store struct {
	db   *sql.DB
	calc *pmi.Calculator
}

// OpenSQLite opens a SQLite database with WAL mode enabled and creates
// the schema if needed. The pool is limited to one connection: the
// aggregate store is a single serialized handle, and ":memory:" databases
// would otherwise differ per connection.
func OpenSQLite(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w: %v", path, internalerr.ErrStoreUnavailable, err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("open %s: %w: %v", path, internalerr.ErrStoreUnavailable, err)
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{
		db:   db,
		calc: pmi.NewCalculator(1.0),
	}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS pair_counts (
	a TEXT NOT NULL,
	b TEXT NOT NULL,
	distance INTEGER NOT NULL,
	count INTEGER NOT NULL,
	PRIMARY KEY(a, b, distance)
);

CREATE INDEX IF NOT EXISTS pair_counts_a ON pair_counts(a, distance);
CREATE INDEX IF NOT EXISTS pair_counts_b ON pair_counts(b, distance);
CREATE INDEX IF NOT EXISTS pair_counts_distance ON pair_counts(distance);

CREATE TABLE IF NOT EXISTS vocab (
	word TEXT PRIMARY KEY,
	freq INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS ingest_runs (
	id TEXT PRIMARY KEY,
	source TEXT,
	sentences INTEGER NOT NULL,
	pairs INTEGER NOT NULL,
	started_at TEXT NOT NULL,
	finished_at TEXT,
	error TEXT
);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// IncrementPair adds one to the count of (a, b, distance) and to the
// vocabulary frequency of both words
func (s *Store) IncrementPair(ctx context.Context, a, b string, distance int32) error {
	if a == "" || b == "" || distance == 0 {
		return fmt.Errorf("increment pair (%q, %q, %d): %w", a, b, distance, internalerr.ErrInvalidInput)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
INSERT INTO pair_counts (a, b, distance, count) VALUES (?, ?, ?, 1)
ON CONFLICT(a, b, distance) DO UPDATE SET count=count+1;
`, a, b, distance); err != nil {
		return err
	}

	for _, w := range []string{a, b} {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO vocab (word, freq) VALUES (?, 1)
ON CONFLICT(word) DO UPDATE SET freq=freq+1;
`, w); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Count returns the accumulated count for (a, b, distance)
func (s *Store) Count(ctx context.Context, a, b string, distance int32) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT count FROM pair_counts WHERE a=? AND b=? AND distance=?`, a, b, distance).Scan(&n)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return n, err
}

// BestCandidate returns the vocabulary word matching placeholder that
// fits the context best, as ranked by pmi.Better
func (s *Store) BestCandidate(ctx context.Context, leftWords []string, leftDists []int32, placeholder string, rightWords []string, rightDists []int32) (string, error) {
	if len(leftWords) != len(leftDists) || len(rightWords) != len(rightDists) {
		return "", fmt.Errorf("best candidate: word and distance lists differ in length: %w", internalerr.ErrInvalidInput)
	}
	m, err := mask.Compile(placeholder)
	if err != nil {
		return "", fmt.Errorf("best candidate: %w", err)
	}

	// LIKE is case-insensitive for ASCII; the matcher re-checks exactly
	rows, err := s.db.QueryContext(ctx, `SELECT word, freq FROM vocab WHERE word LIKE ?`, placeholder)
	if err != nil {
		return "", err
	}
	type word struct {
		text string
		freq int64
	}
	var words []word
	for rows.Next() {
		var w word
		if err := rows.Scan(&w.text, &w.freq); err != nil {
			rows.Close()
			return "", err
		}
		if m.Match(w.text) {
			words = append(words, w)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return "", err
	}

	if len(words) == 0 {
		return "", fmt.Errorf("best candidate for %q: %w", placeholder, internalerr.ErrNoCandidate)
	}

	src, err := s.observe(ctx, placeholder, leftWords, leftDists, rightWords, rightDists)
	if err != nil {
		return "", err
	}

	cands := make([]pmi.Candidate, 0, len(words))
	for _, w := range words {
		fit, err := s.calc.Fit(src, w.text, leftWords, leftDists, rightWords, rightDists)
		if err != nil {
			return "", err
		}
		cands = append(cands, pmi.Candidate{Word: w.text, Freq: w.freq, Fit: fit})
	}

	best, _ := pmi.Best(cands)
	return best.Word, nil
}

// observations is a pmi.Source over counts fetched in one query. Pairs
// absent from the map were never seen.
type observations map[pmi.PairKey]pmi.Observation

func (o observations) Observe(a, b string, distance int32) (pmi.Observation, error) {
	return o[pmi.PairKey{A: a, B: b, Distance: distance}], nil
}

// observe fetches joint counts and per-distance marginals for every
// candidate matching placeholder against every context entry, in a
// single grouped statement.
func (s *Store) observe(ctx context.Context, placeholder string, leftWords []string, leftDists []int32, rightWords []string, rightDists []int32) (observations, error) {
	obs := observations{}
	n := len(leftWords) + len(rightWords)
	if n == 0 {
		return obs, nil
	}

	rowsSQL := make([]string, 0, n)
	args := make([]any, 0, 3*n+1)
	for i, w := range leftWords {
		rowsSQL = append(rowsSQL, "(?, ?, 1)")
		args = append(args, w, leftDists[i])
	}
	for i, w := range rightWords {
		rowsSQL = append(rowsSQL, "(?, ?, 0)")
		args = append(args, w, rightDists[i])
	}
	args = append(args, placeholder)

	query := `
WITH ctx(nb, dist, is_left) AS (VALUES ` + strings.Join(rowsSQL, ", ") + `),
cand AS (SELECT word FROM vocab WHERE word LIKE ?),
probe AS (
	SELECT DISTINCT
		CASE WHEN x.is_left = 1 THEN x.nb ELSE c.word END AS pa,
		CASE WHEN x.is_left = 1 THEN c.word ELSE x.nb END AS pb,
		x.dist AS dist
	FROM cand c CROSS JOIN ctx x
),
first_m AS (
	SELECT a, distance, SUM(count) AS n FROM pair_counts
	WHERE distance IN (SELECT dist FROM ctx) AND a IN (SELECT pa FROM probe)
	GROUP BY a, distance
),
second_m AS (
	SELECT b, distance, SUM(count) AS n FROM pair_counts
	WHERE distance IN (SELECT dist FROM ctx) AND b IN (SELECT pb FROM probe)
	GROUP BY b, distance
),
total_m AS (
	SELECT distance, SUM(count) AS n FROM pair_counts
	WHERE distance IN (SELECT dist FROM ctx)
	GROUP BY distance
)
SELECT p.pa, p.pb, p.dist,
	COALESCE(j.count, 0), COALESCE(f.n, 0), COALESCE(s.n, 0), COALESCE(t.n, 0)
FROM probe p
LEFT JOIN pair_counts j ON j.a = p.pa AND j.b = p.pb AND j.distance = p.dist
LEFT JOIN first_m f ON f.a = p.pa AND f.distance = p.dist
LEFT JOIN second_m s ON s.b = p.pb AND s.distance = p.dist
LEFT JOIN total_m t ON t.distance = p.dist;
`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			key pmi.PairKey
			o   pmi.Observation
		)
		if err := rows.Scan(&key.A, &key.B, &key.Distance, &o.Joint, &o.First, &o.Second, &o.Total); err != nil {
			return nil, err
		}
		obs[key] = o
	}
	return obs, rows.Err()
}

// RecordRun inserts or replaces a run row
func (s *Store) RecordRun(ctx context.Context, r store.Run) error {
	var finished string
	if !r.FinishedAt.IsZero() {
		finished = r.FinishedAt.UTC().Format(timeLayout)
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO ingest_runs (id, source, sentences, pairs, started_at, finished_at, error)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	source=excluded.source,
	sentences=excluded.sentences,
	pairs=excluded.pairs,
	started_at=excluded.started_at,
	finished_at=excluded.finished_at,
	error=excluded.error;
`, r.ID, r.Source, r.Sentences, r.Pairs, r.StartedAt.UTC().Format(timeLayout), finished, r.Err)
	return err
}

// Runs returns the most recent runs first
func (s *Store) Runs(ctx context.Context, limit int) ([]store.Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT id, source, sentences, pairs, started_at, finished_at, error
FROM ingest_runs
ORDER BY started_at DESC
LIMIT ?;
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []store.Run
	for rows.Next() {
		var (
			r                 store.Run
			started, finished string
		)
		if err := rows.Scan(&r.ID, &r.Source, &r.Sentences, &r.Pairs, &started, &finished, &r.Err); err != nil {
			return nil, err
		}
		if parsed, perr := time.Parse(timeLayout, started); perr == nil {
			r.StartedAt = parsed
		}
		if finished != "" {
			if parsed, perr := time.Parse(timeLayout, finished); perr == nil {
				r.FinishedAt = parsed
			}
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
