/*
Package stats provides the binary entropy and information gain
computations used to score the tests of a decision tree.
*/
package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

/*
Entropy takes the complementary probabilities p and n of the positive and
negative outcomes of a set and returns its binary entropy in bits:

	p·log2(1/p) + n·log2(1/n)

Terms with a zero probability contribute nothing. A pure set (p or n being
exactly 1) has an entropy of 0.
*/
func Entropy(p, n float64) float64 {
	if p == 1 || n == 1 {
		return 0
	}
	return stat.Entropy([]float64{p, n}) / math.Ln2
}

/*
CountEntropy takes the number of positive and negative outcomes of a set and
returns its binary entropy. An empty set has an entropy of 0, so callers
for which the entropy of an empty set is meaningless must check for it
beforehand.
*/
func CountEntropy(pos, neg int) float64 {
	total := pos + neg
	if total == 0 {
		return 0
	}
	return Entropy(float64(pos)/float64(total), float64(neg)/float64(total))
}

/*
InformationGain takes the outcome counts of the two branches of a binary
test, ppos and pneg for the branch passing the test and npos and nneg for the
one failing it, and returns the entropy of the whole set minus the
size-weighted entropy of each branch.

An empty set yields a gain of 0 and an empty branch simply contributes no
weighted term. The result is never negative.
*/
func InformationGain(ppos, pneg, npos, nneg int) float64 {
	total := ppos + pneg + npos + nneg
	if total == 0 {
		return 0
	}
	fTotal := float64(total)
	gain := CountEntropy(ppos+npos, pneg+nneg)
	if pTotal := ppos + pneg; pTotal > 0 {
		gain -= float64(pTotal) / fTotal * CountEntropy(ppos, pneg)
	}
	if nTotal := npos + nneg; nTotal > 0 {
		gain -= float64(nTotal) / fTotal * CountEntropy(npos, nneg)
	}
	// rounding can push a zero gain slightly below zero
	if gain < 0 {
		return 0
	}
	return gain
}
