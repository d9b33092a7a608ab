package pmi

import "math"

// Calculator handles PMI (Pointwise Mutual Information) calculations
type Calculator struct {
	epsilon float64 // smoothing constant
}

// NewCalculator creates a new PMI calculator with the given epsilon
func NewCalculator(epsilon float64) *Calculator {
	if epsilon <= 0 {
		epsilon = 1.0
	}
	return &Calculator{epsilon: epsilon}
}

// PMI calculates the pointwise mutual information between two tokens
//
// PMI(a,b) = log((N_ab + ε) * N / ((N_a + ε)(N_b + ε)))
//
// Where:
//   - N_ab = count of the pair (a, b) at one signed distance
//   - N_a = count of pairs with a in first position at that distance
//   - N_b = count of pairs with b in second position at that distance
//   - N = count of all pairs at that distance
//   - ε = smoothing constant (default 1.0)
func (c *Calculator) PMI(nAB, nA, nB, N int64) float64 {
	if N == 0 {
		return 0
	}

	numerator := (float64(nAB) + c.epsilon) * float64(N)
	denominator := (float64(nA) + c.epsilon) * (float64(nB) + c.epsilon)

	if denominator == 0 {
		return 0
	}

	return math.Log(numerator / denominator)
}

// Observation holds the counts PMI needs for one pair at one distance.
type Observation struct {
	Joint  int64
	First  int64
	Second int64
	Total  int64
}

// Source supplies positional pair counts.
type Source interface {
	Observe(a, b string, distance int32) (Observation, error)
}

// Fit describes how well a candidate agrees with a context.
type Fit struct {
	// Misses counts context entries never observed with the candidate.
	Misses int
	// Association is the summed PMI of the observed entries.
	Association float64
}

// Fit scores candidate against a context. Left entries (positive
// distance) are looked up as (neighbor, candidate) and right entries
// (negative distance) as (candidate, neighbor), mirroring how pairs were
// ingested.
func (c *Calculator) Fit(src Source, candidate string, leftWords []string, leftDists []int32, rightWords []string, rightDists []int32) (Fit, error) {
	var f Fit
	add := func(a, b string, d int32) error {
		obs, err := src.Observe(a, b, d)
		if err != nil {
			return err
		}
		if obs.Joint == 0 {
			f.Misses++
			return nil
		}
		f.Association += c.PMI(obs.Joint, obs.First, obs.Second, obs.Total)
		return nil
	}
	for i, nb := range leftWords {
		if err := add(nb, candidate, leftDists[i]); err != nil {
			return Fit{}, err
		}
	}
	for i, nb := range rightWords {
		if err := add(candidate, nb, rightDists[i]); err != nil {
			return Fit{}, err
		}
	}
	return f, nil
}
