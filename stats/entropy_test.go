package stats

import (
	"math"
	"testing"
	"testing/quick"
)

const epsilon = 1e-9

func TestEntropyOfPureSets(t *testing.T) {
	if e := Entropy(1, 0); e != 0 {
		t.Errorf("expected Entropy(1, 0) to be 0, got %v", e)
	}
	if e := Entropy(0, 1); e != 0 {
		t.Errorf("expected Entropy(0, 1) to be 0, got %v", e)
	}
}

func TestEntropyOfEvenSet(t *testing.T) {
	if e := Entropy(0.5, 0.5); math.Abs(e-1.0) > epsilon {
		t.Errorf("expected Entropy(0.5, 0.5) to be 1.0, got %v", e)
	}
}

func TestEntropyIsSymmetric(t *testing.T) {
	for _, p := range []float64{0.1, 0.25, 0.3, 0.45} {
		if a, b := Entropy(p, 1-p), Entropy(1-p, p); math.Abs(a-b) > epsilon {
			t.Errorf("expected Entropy(%v, %v) == Entropy(%v, %v), got %v and %v", p, 1-p, 1-p, p, a, b)
		}
	}
}

func TestCountEntropy(t *testing.T) {
	testCases := []struct {
		pos, neg int
		expected float64
	}{
		{0, 0, 0},
		{5, 0, 0},
		{0, 3, 0},
		{2, 2, 1},
		{3, 1, 0.8112781244591328},
	}
	for _, tc := range testCases {
		if e := CountEntropy(tc.pos, tc.neg); math.Abs(e-tc.expected) > epsilon {
			t.Errorf("CountEntropy(%d, %d): expected %v, got %v", tc.pos, tc.neg, tc.expected, e)
		}
	}
}

func TestInformationGain(t *testing.T) {
	testCases := []struct {
		name                   string
		ppos, pneg, npos, nneg int
		expected               float64
	}{
		{"empty set", 0, 0, 0, 0, 0},
		{"perfect separation", 5, 0, 0, 5, 1},
		{"empty fail branch", 3, 2, 0, 0, 0},
		{"empty pass branch", 0, 0, 4, 4, 0},
		{"no information", 1, 1, 2, 2, 0},
		{"partial separation", 3, 1, 0, 2, 0.4591479170272448},
	}
	for _, tc := range testCases {
		ig := InformationGain(tc.ppos, tc.pneg, tc.npos, tc.nneg)
		if math.Abs(ig-tc.expected) > epsilon {
			t.Errorf("%s: expected information gain %v, got %v", tc.name, tc.expected, ig)
		}
	}
}

func TestInformationGainIsNeverNegative(t *testing.T) {
	f := func(ppos, pneg, npos, nneg uint8) bool {
		return InformationGain(int(ppos), int(pneg), int(npos), int(nneg)) >= 0
	}
	if err := quick.Check(f, &quick.Config{MaxCount: 5000}); err != nil {
		t.Error(err)
	}
}

func TestInformationGainNeverExceedsEntropy(t *testing.T) {
	f := func(ppos, pneg, npos, nneg uint8) bool {
		ig := InformationGain(int(ppos), int(pneg), int(npos), int(nneg))
		return ig <= CountEntropy(int(ppos)+int(npos), int(pneg)+int(nneg))+epsilon
	}
	if err := quick.Check(f, &quick.Config{MaxCount: 5000}); err != nil {
		t.Error(err)
	}
}
