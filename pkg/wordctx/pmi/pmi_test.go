package pmi

import (
	"math"
	"testing"
)

func TestPMIBasic(t *testing.T) {
	calc := NewCalculator(1.0)

	// Strong positive association: pair seen more than expected
	nAB := int64(8)
	nA := int64(10)
	nB := int64(10)
	N := int64(20)

	pmi := calc.PMI(nAB, nA, nB, N)

	if pmi <= 0 {
		t.Errorf("PMI for strong association should be positive, got %f", pmi)
	}
}

func TestPMINegative(t *testing.T) {
	calc := NewCalculator(1.0)

	// A and B rarely paired (negative association)
	pmi := calc.PMI(5, 50, 50, 100)

	if pmi >= 0 {
		t.Errorf("PMI for anti-correlated terms should be negative, got %f", pmi)
	}
}

func TestPMISmoothing(t *testing.T) {
	calc := NewCalculator(1.0)

	pmi := calc.PMI(0, 10, 10, 100)

	if math.IsInf(pmi, -1) || math.IsNaN(pmi) {
		t.Errorf("Smoothing should prevent -Inf, got %f", pmi)
	}
}

func TestPMIZeroTotal(t *testing.T) {
	calc := NewCalculator(1.0)

	if pmi := calc.PMI(0, 0, 0, 0); pmi != 0 {
		t.Errorf("PMI with no pairs should return 0, got %f", pmi)
	}
}

func TestPMIEpsilonDefault(t *testing.T) {
	// If epsilon <= 0, should default to 1.0
	calc := NewCalculator(-1.0)

	if pmi := calc.PMI(5, 10, 10, 100); math.IsNaN(pmi) {
		t.Error("PMI should not be NaN with negative epsilon (should default to 1.0)")
	}
}

func TestFitPrefersSeenContext(t *testing.T) {
	table := NewPairTable()
	ingest := func(words ...string) {
		// (left neighbor, anchor, +1) and (anchor, right neighbor, -1)
		for i := range words {
			if i > 0 {
				table.Add(words[i-1], words[i], 1)
			}
			if i+1 < len(words) {
				table.Add(words[i], words[i+1], -1)
			}
		}
	}
	ingest("the", "cat", "sat")
	ingest("the", "cat", "sat")
	ingest("the", "dog", "sat")
	ingest("a", "dog", "ran")
	ingest("a", "dog", "ran")

	calc := NewCalculator(1.0)
	left, leftD := []string{"the"}, []int32{1}
	right, rightD := []string{"sat"}, []int32{-1}

	cat, err := calc.Fit(table, "cat", left, leftD, right, rightD)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	dog, err := calc.Fit(table, "dog", left, leftD, right, rightD)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	ran, err := calc.Fit(table, "ran", left, leftD, right, rightD)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}

	if cat.Misses != 0 || dog.Misses != 0 {
		t.Errorf("cat and dog were both seen in context: %+v %+v", cat, dog)
	}
	if cat.Association <= dog.Association {
		t.Errorf("cat should associate more strongly than dog: cat=%f dog=%f", cat.Association, dog.Association)
	}
	want := 2 * math.Log(2.5)
	if math.Abs(cat.Association-want) > 1e-9 {
		t.Errorf("cat association = %f, want %f", cat.Association, want)
	}
	if ran.Misses != 2 || ran.Association != 0 {
		t.Errorf("ran never appeared in this context, got %+v", ran)
	}
}

func TestFitEmptyContext(t *testing.T) {
	calc := NewCalculator(1.0)

	fit, err := calc.Fit(NewPairTable(), "x", nil, nil, nil, nil)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if fit != (Fit{}) {
		t.Errorf("no context should give a zero fit, got %+v", fit)
	}
}
