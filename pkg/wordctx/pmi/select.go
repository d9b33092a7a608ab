package pmi

// Candidate is a scored replacement for a masked token.
type Candidate struct {
	Word string
	Freq int64
	Fit  Fit
}

// Better reports whether a should be preferred over b: fewer misses
// first, then stronger association, then higher frequency, then the
// lexicographically smaller word.
func Better(a, b Candidate) bool {
	if a.Fit.Misses != b.Fit.Misses {
		return a.Fit.Misses < b.Fit.Misses
	}
	if a.Fit.Association != b.Fit.Association {
		return a.Fit.Association > b.Fit.Association
	}
	if a.Freq != b.Freq {
		return a.Freq > b.Freq
	}
	return a.Word < b.Word
}

// Best returns the preferred candidate, or false when cands is empty.
func Best(cands []Candidate) (Candidate, bool) {
	if len(cands) == 0 {
		return Candidate{}, false
	}
	best := cands[0]
	for _, c := range cands[1:] {
		if Better(c, best) {
			best = c
		}
	}
	return best, true
}
