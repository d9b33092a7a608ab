package pmi

import "sort"

// PairKey identifies one positional pair: A submitted first, B second.
type PairKey struct {
	A, B     string
	Distance int32
}

type roleKey struct {
	word     string
	distance int32
}

// PairTable maintains positional co-occurrence counts and the marginals
// PMI needs. It is not safe for concurrent use.
type PairTable struct {
	pairs  map[PairKey]int64
	first  map[roleKey]int64 // count of pairs with word as A, per distance
	second map[roleKey]int64 // count of pairs with word as B, per distance
	totals map[int32]int64   // count of all pairs per distance
	freq   map[string]int64  // pair slots a word occupies
}

// NewPairTable creates an empty table
func NewPairTable() *PairTable {
	return &PairTable{
		pairs:  make(map[PairKey]int64),
		first:  make(map[roleKey]int64),
		second: make(map[roleKey]int64),
		totals: make(map[int32]int64),
		freq:   make(map[string]int64),
	}
}

// Add accumulates one occurrence of (a, b, distance)
func (t *PairTable) Add(a, b string, distance int32) {
	t.pairs[PairKey{A: a, B: b, Distance: distance}]++
	t.first[roleKey{a, distance}]++
	t.second[roleKey{b, distance}]++
	t.totals[distance]++
	t.freq[a]++
	t.freq[b]++
}

// Count returns the accumulated count for (a, b, distance)
func (t *PairTable) Count(a, b string, distance int32) int64 {
	return t.pairs[PairKey{A: a, B: b, Distance: distance}]
}

// Observe implements Source.
func (t *PairTable) Observe(a, b string, distance int32) (Observation, error) {
	return Observation{
		Joint:  t.Count(a, b, distance),
		First:  t.first[roleKey{a, distance}],
		Second: t.second[roleKey{b, distance}],
		Total:  t.totals[distance],
	}, nil
}

// Freq returns how many pair slots word occupies
func (t *PairTable) Freq(word string) int64 {
	return t.freq[word]
}

// Vocabulary returns every word seen, sorted
func (t *PairTable) Vocabulary() []string {
	words := make([]string, 0, len(t.freq))
	for w := range t.freq {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}

// TotalPairs returns the number of increments accumulated
func (t *PairTable) TotalPairs() int64 {
	var n int64
	for _, c := range t.totals {
		n += c
	}
	return n
}

// UniquePairs returns the number of distinct (a, b, distance) keys
func (t *PairTable) UniquePairs() int {
	return len(t.pairs)
}
