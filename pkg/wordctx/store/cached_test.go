package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/wordctx/pkg/wordctx/store"
	"github.com/cognicore/wordctx/pkg/wordctx/store/storetest"
)

func TestCachedScorerServesRepeats(t *testing.T) {
	rec := &storetest.Recorder{
		Answer: func(q storetest.Query) (string, error) { return "cat", nil },
	}
	scorer, err := store.NewCachedScorer(rec, 8)
	require.NoError(t, err)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		word, err := scorer.BestCandidate(ctx, []string{"the"}, []int32{1}, "%", []string{"sat"}, []int32{-1})
		require.NoError(t, err)
		assert.Equal(t, "cat", word)
	}
	assert.Len(t, rec.Queries(), 1)

	// a different distance is a different query
	_, err = scorer.BestCandidate(ctx, []string{"the"}, []int32{2}, "%", []string{"sat"}, []int32{-1})
	require.NoError(t, err)
	assert.Len(t, rec.Queries(), 2)
	assert.Equal(t, 2, scorer.(*store.CachedScorer).Len())
}

func TestCachedScorerDoesNotCacheErrors(t *testing.T) {
	calls := 0
	rec := &storetest.Recorder{
		Answer: func(q storetest.Query) (string, error) {
			calls++
			if calls == 1 {
				return "", errors.New("transient")
			}
			return "dog", nil
		},
	}
	scorer, err := store.NewCachedScorer(rec, 8)
	require.NoError(t, err)

	_, err = scorer.BestCandidate(context.Background(), nil, nil, "d_g", nil, nil)
	require.Error(t, err)

	word, err := scorer.BestCandidate(context.Background(), nil, nil, "d_g", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "dog", word)
}

func TestCachedScorerDisabled(t *testing.T) {
	rec := &storetest.Recorder{}
	scorer, err := store.NewCachedScorer(rec, 0)
	require.NoError(t, err)
	assert.Same(t, rec, scorer)
}
