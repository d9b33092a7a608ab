// Package recognize replaces masked tokens with the word the aggregate
// store finds most consistent with their context.
package recognize

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cognicore/wordctx/pkg/wordctx/mask"
	"github.com/cognicore/wordctx/pkg/wordctx/store"
	"github.com/cognicore/wordctx/pkg/wordctx/window"
)

// Recognizer substitutes masked tokens one position at a time.
type Recognizer struct {
	scorer store.Scorer
	win    window.Windower
	log    *slog.Logger
}

// New returns a Recognizer querying scorer. A nil logger selects
// slog.Default().
func New(scorer store.Scorer, win window.Windower, logger *slog.Logger) *Recognizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recognizer{scorer: scorer, win: win, log: logger}
}

// Recognize returns tokens joined by single spaces with every masked token
// replaced. Context windows are always built from the original tokens, so
// an earlier substitution never feeds into a later query. Any store error
// fails the whole call.
func (r *Recognizer) Recognize(ctx context.Context, tokens []string) (string, error) {
	out := make([]string, len(tokens))
	for i, tok := range tokens {
		if !mask.IsMasked(tok) {
			out[i] = tok
			continue
		}

		c := r.win.Context(tokens, i)
		word, err := r.scorer.BestCandidate(ctx, c.LeftWords, c.LeftDistances, tok, c.RightWords, c.RightDistances)
		if err != nil {
			return "", fmt.Errorf("recognize %q at %d: %w", tok, i, err)
		}
		r.log.Debug("masked token recognized", "position", i, "mask", tok, "word", word)
		out[i] = word
	}
	return strings.Join(out, " "), nil
}
