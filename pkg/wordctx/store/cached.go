package store

import (
	"context"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CachedScorer memoizes BestCandidate answers for identical queries.
// Answers can go stale while ingestion continues; it is meant for
// read-mostly recognition sessions.
type CachedScorer struct {
	inner Scorer
	cache *lru.Cache[string, string]
}

// NewCachedScorer wraps inner with an LRU of the given size. A size of
// zero or less returns inner unchanged.
func NewCachedScorer(inner Scorer, size int) (Scorer, error) {
	if size <= 0 {
		return inner, nil
	}
	cache, err := lru.New[string, string](size)
	if err != nil {
		return nil, err
	}
	return &CachedScorer{inner: inner, cache: cache}, nil
}

// BestCandidate implements Scorer. Errors are never cached.
func (c *CachedScorer) BestCandidate(ctx context.Context, leftWords []string, leftDists []int32, placeholder string, rightWords []string, rightDists []int32) (string, error) {
	key := queryKey(leftWords, leftDists, placeholder, rightWords, rightDists)
	if word, ok := c.cache.Get(key); ok {
		return word, nil
	}
	word, err := c.inner.BestCandidate(ctx, leftWords, leftDists, placeholder, rightWords, rightDists)
	if err != nil {
		return "", err
	}
	c.cache.Add(key, word)
	return word, nil
}

// Len returns the number of cached answers.
func (c *CachedScorer) Len() int { return c.cache.Len() }

func queryKey(leftWords []string, leftDists []int32, placeholder string, rightWords []string, rightDists []int32) string {
	var b strings.Builder
	writeSide := func(words []string, dists []int32) {
		for i, w := range words {
			b.WriteString(strconv.Itoa(int(dists[i])))
			b.WriteByte(':')
			b.WriteString(w)
			b.WriteByte(0)
		}
	}
	writeSide(leftWords, leftDists)
	b.WriteByte(1)
	b.WriteString(placeholder)
	b.WriteByte(1)
	writeSide(rightWords, rightDists)
	return b.String()
}
