// Package prover runs the branch-and-bound search over non-increasing
// coefficient sequences, pruning every subtree the Bounder shows cannot
// contain a counterexample.
package prover

import (
	"radbound/domain/proofcase"
	"radbound/domain/sequence"
)

// Epsilon absorbs floating-point round-off in probability comparisons.
const Epsilon = 0.0000000001

// TailBounder lower-bounds Pr[Y >= cutoff] for a Rademacher sum with leading
// coefficient at most a and variance in [minVar, maxVar].
// *prawitz.Bounder implements it.
type TailBounder interface {
	GetWithVar(a, cutoff, minVar, maxVar float64) float64
}

// CouldBeCounterexample reports whether some sequence within the first depth
// intervals of seq could violate
//
//	Pr[ X >= c.Threshold ] >= c.ProbCutoff.
//
// It averages, over all 2^depth signs of the fixed coefficients, a lower bound
// on the tail of the remaining sum, each term taken at its worst case.
func CouldBeCounterexample(b TailBounder, c *proofcase.Case, seq *sequence.Seq, depth int) bool {
	minVariance := seq.MinVariance()
	if minVariance > 1 {
		return false
	}
	if depth < 1 {
		return true
	}
	minRemaining := 1 - seq.MaxVariance()
	maxRemaining := 1 - minVariance
	// coefficients are non-increasing, so the rest is capped by the last fixed one
	lead := seq.Max(depth - 1)
	den := float64(seq.Denominator())

	patterns := uint64(1) << uint(depth)
	total := 0.0
	for signs := uint64(0); signs < patterns; signs++ {
		// bit set: e_i = -1, the rest must exceed threshold + a_i, worst at the top end
		// bit clear: e_i = +1, the rest must exceed threshold - a_i, worst at the bottom end
		shift := 0
		for i := 0; i < depth; i++ {
			if signs>>uint(i)&1 == 1 {
				shift += seq.Numerator(i) + 1
			} else {
				shift -= seq.Numerator(i)
			}
		}
		total += b.GetWithVar(lead, c.Threshold+float64(shift)/den, minRemaining, maxRemaining)
	}
	probLowerBound := total / float64(patterns)

	return probLowerBound < c.ProbCutoff+Epsilon
}
