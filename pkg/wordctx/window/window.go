// Package window extracts fixed-radius neighbor windows around a token.
//
// Distances are signed: a neighbor to the left of the anchor carries a
// positive distance, a neighbor to the right carries a negative one. The
// aggregate store encodes direction through that sign, so the convention
// must not be normalized.
package window

// DefaultRange is the number of neighbors considered on each side.
const DefaultRange = 3

// Neighbor is a token near an anchor together with its signed distance.
type Neighbor struct {
	Word     string
	Distance int32
}

// Pair is one increment submitted to the aggregate store, in argument order.
type Pair struct {
	A        string
	B        string
	Distance int32
}

// Context is the query vector for one anchor position.
type Context struct {
	LeftWords      []string
	LeftDistances  []int32
	RightWords     []string
	RightDistances []int32
}

// Windower computes neighbor windows with a fixed radius.
type Windower struct {
	Range int
}

// New returns a Windower with the given radius. A non-positive radius
// selects DefaultRange.
func New(radius int) Windower {
	return Windower{Range: radius}
}

func (w Windower) radius() int {
	if w.Range <= 0 {
		return DefaultRange
	}
	return w.Range
}

// Left returns the neighbors before idx, farthest first, with positive
// distances.
func (w Windower) Left(tokens []string, idx int) []Neighbor {
	r := w.radius()
	return collect(tokens, idx, -r, -1)
}

// Right returns the neighbors after idx, nearest first, with negative
// distances.
func (w Windower) Right(tokens []string, idx int) []Neighbor {
	r := w.radius()
	return collect(tokens, idx, 1, r)
}

// collect emits (tokens[idx+off], -off) for every in-bounds offset in
// [from, to].
func collect(tokens []string, idx, from, to int) []Neighbor {
	var out []Neighbor
	for off := from; off <= to; off++ {
		pos := idx + off
		if pos < 0 || pos >= len(tokens) {
			continue
		}
		out = append(out, Neighbor{Word: tokens[pos], Distance: int32(-off)})
	}
	return out
}

// Pairs enumerates every pair a sentence contributes, ordered by position
// and, within a position, left window before right window. A left neighbor
// is submitted first with the anchor second; a right neighbor is submitted
// after the anchor.
func (w Windower) Pairs(tokens []string) []Pair {
	var pairs []Pair
	for i, anchor := range tokens {
		for _, nb := range w.Left(tokens, i) {
			pairs = append(pairs, Pair{A: nb.Word, B: anchor, Distance: nb.Distance})
		}
		for _, nb := range w.Right(tokens, i) {
			pairs = append(pairs, Pair{A: anchor, B: nb.Word, Distance: nb.Distance})
		}
	}
	return pairs
}

// Context splits the windows around idx into parallel word and distance
// lists.
func (w Windower) Context(tokens []string, idx int) Context {
	var c Context
	for _, nb := range w.Left(tokens, idx) {
		c.LeftWords = append(c.LeftWords, nb.Word)
		c.LeftDistances = append(c.LeftDistances, nb.Distance)
	}
	for _, nb := range w.Right(tokens, idx) {
		c.RightWords = append(c.RightWords, nb.Word)
		c.RightDistances = append(c.RightDistances, nb.Distance)
	}
	return c
}

// Left is Windower.Left with DefaultRange.
func Left(tokens []string, idx int) []Neighbor {
	return Windower{}.Left(tokens, idx)
}

// Right is Windower.Right with DefaultRange.
func Right(tokens []string, idx int) []Neighbor {
	return Windower{}.Right(tokens, idx)
}
