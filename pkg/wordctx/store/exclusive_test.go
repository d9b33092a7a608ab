package store_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/wordctx/pkg/wordctx/store"
	"github.com/cognicore/wordctx/pkg/wordctx/store/storetest"
)

func TestExclusiveSerializesCalls(t *testing.T) {
	rec := &storetest.Recorder{}
	ex := store.NewExclusive(rec, 0)
	ctx := context.Background()

	var wg sync.WaitGroup
	for g := 0; g < 16; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				if i%10 == 0 {
					_, _ = ex.BestCandidate(ctx, nil, nil, "%", nil, nil)
					continue
				}
				_ = ex.IncrementPair(ctx, "a", "b", 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, rec.MaxInFlight(), "calls overlapped through the exclusive handle")
	assert.Len(t, rec.Pairs(), 16*45)
	assert.Len(t, rec.Queries(), 16*5)
}

func TestExclusivePassesErrorsThrough(t *testing.T) {
	boom := errors.New("boom")
	rec := &storetest.Recorder{
		Answer: func(storetest.Query) (string, error) { return "", boom },
	}
	ex := store.NewExclusive(rec, 0)

	_, err := ex.BestCandidate(context.Background(), nil, nil, "%", nil, nil)
	require.ErrorIs(t, err, boom)

	require.NoError(t, ex.Close())
	assert.True(t, rec.Closed())
}

func TestExclusiveRateLimitHonorsContext(t *testing.T) {
	rec := &storetest.Recorder{}
	ex := store.NewExclusive(rec, 1)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	require.NoError(t, ex.IncrementPair(ctx, "a", "b", 1))
	// the single token of burst is spent; the next wait exceeds the deadline
	err := ex.IncrementPair(ctx, "a", "b", 1)
	require.Error(t, err)
	assert.Len(t, rec.Pairs(), 1)
}

func TestExclusiveLedgerAbsent(t *testing.T) {
	ex := store.NewExclusive(&storetest.Recorder{}, 0)
	assert.Nil(t, ex.Ledger())
}
