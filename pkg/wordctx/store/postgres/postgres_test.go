package postgres

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/cognicore/wordctx/pkg/wordctx/internalerr"
)

// openTestStore connects to WORDCTX_TEST_PG_DSN; the test is skipped when
// it is unset. The tables are truncated before use.
func openTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("WORDCTX_TEST_PG_DSN")
	if dsn == "" {
		t.Skip("WORDCTX_TEST_PG_DSN not set")
	}
	ctx := context.Background()

	st, err := Open(ctx, dsn, Options{Bootstrap: true})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	if _, err := st.conn.Exec(ctx, "TRUNCATE pair_counts, vocab"); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	return st
}

func TestPostgresRecognitionRoundTrip(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	sentences := [][]string{
		{"the", "cat", "sat"},
		{"the", "cat", "sat"},
		{"the", "dog", "sat"},
		{"a", "dog", "ran"},
	}
	for _, words := range sentences {
		for i := range words {
			if i > 0 {
				if err := st.IncrementPair(ctx, words[i-1], words[i], 1); err != nil {
					t.Fatalf("IncrementPair: %v", err)
				}
			}
			if i+1 < len(words) {
				if err := st.IncrementPair(ctx, words[i], words[i+1], -1); err != nil {
					t.Fatalf("IncrementPair: %v", err)
				}
			}
		}
	}

	word, err := st.BestCandidate(ctx, []string{"the"}, []int32{1}, "%", []string{"sat"}, []int32{-1})
	if err != nil {
		t.Fatalf("BestCandidate: %v", err)
	}
	if word != "cat" {
		t.Errorf("BestCandidate = %q, want cat", word)
	}

	word, err = st.BestCandidate(ctx, nil, nil, "d_g", nil, nil)
	if err != nil {
		t.Fatalf("BestCandidate with empty context: %v", err)
	}
	if word != "dog" {
		t.Errorf("BestCandidate = %q, want dog", word)
	}
}

func TestPostgresNoCandidate(t *testing.T) {
	st := openTestStore(t)

	_, err := st.BestCandidate(context.Background(), nil, nil, "zz%", nil, nil)
	if !errors.Is(err, internalerr.ErrNoCandidate) {
		t.Fatalf("expected ErrNoCandidate, got %v", err)
	}
}
