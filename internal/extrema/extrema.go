// Package extrema accumulates the sequences that survive the search and
// decides the hypotheses of a case from them.
package extrema

import (
	"math"

	"radbound/domain/sequence"
)

// Extrema is the envelope of one subcase: per index, the smallest and largest
// numerator seen, plus the running minimum of each tracked weighted sum.
// It only ever widens.
type Extrema struct {
	minAs *sequence.Seq
	maxAs *sequence.Seq

	sumMin  []float64
	sumSeen []bool
	count   int
}

// NewExtrema creates an empty envelope: minimum seeded at D, maximum at 0.
func NewExtrema(den, maxDepth, numSums int) *Extrema {
	return &Extrema{
		minAs:   sequence.New(den, den, maxDepth),
		maxAs:   sequence.New(0, den, maxDepth),
		sumMin:  make([]float64, numSums),
		sumSeen: make([]bool, numSums),
	}
}

// IncludeSeq widens the envelope by seq, which has been filled to depth.
// sums lists the tracked coefficient vectors; a sum is only evaluated once
// depth covers all of its coefficients.
func (e *Extrema) IncludeSeq(seq *sequence.Seq, depth int, sums [][]float64) {
	for i := 0; i < e.minAs.Len() && i < seq.Len(); i++ {
		n := seq.Numerator(i)
		if n < e.minAs.Numerator(i) {
			e.minAs.Set(i, n)
		}
		if n > e.maxAs.Numerator(i) {
			e.maxAs.Set(i, n)
		}
	}
	for j, coefs := range sums {
		if depth < len(coefs) || len(coefs) > seq.Len() {
			continue
		}
		e.foldSum(j, worstCaseSum(seq, coefs))
	}
	e.count++
}

// Merge widens e by everything o has seen.
func (e *Extrema) Merge(o *Extrema) {
	for i := 0; i < e.minAs.Len(); i++ {
		if n := o.minAs.Numerator(i); n < e.minAs.Numerator(i) {
			e.minAs.Set(i, n)
		}
		if n := o.maxAs.Numerator(i); n > e.maxAs.Numerator(i) {
			e.maxAs.Set(i, n)
		}
	}
	for j := range e.sumMin {
		if o.sumSeen[j] {
			e.foldSum(j, o.sumMin[j])
		}
	}
	e.count += o.count
}

func (e *Extrema) foldSum(j int, v float64) {
	if !e.sumSeen[j] || v < e.sumMin[j] {
		e.sumMin[j] = v
		e.sumSeen[j] = true
	}
}

// worstCaseSum is the smallest value of sum coefs[k]*a_k over the intervals
// of seq: non-negative weights take the bottom end, negative ones the top.
func worstCaseSum(seq *sequence.Seq, coefs []float64) float64 {
	sum := 0.0
	for k, c := range coefs {
		if c >= 0 {
			sum += c * seq.Min(k)
		} else {
			sum += c * seq.Max(k)
		}
	}
	return sum
}

// IsContradiction reports whether no sequence was ever included.
func (e *Extrema) IsContradiction() bool {
	return e.minAs.Len() == 0 || e.minAs.Numerator(0) > e.maxAs.Numerator(0)
}

// Count is the number of sequences included.
func (e *Extrema) Count() int { return e.count }

// Len is the number of envelope indices.
func (e *Extrema) Len() int { return e.minAs.Len() }

// Envelope returns [min_i/D, (max_i+1)/D].
func (e *Extrema) Envelope(i int) (float64, float64) {
	return e.minAs.Min(i), e.maxAs.Max(i)
}

// MinNumerator and MaxNumerator expose the raw envelope edges.
func (e *Extrema) MinNumerator(i int) int { return e.minAs.Numerator(i) }
func (e *Extrema) MaxNumerator(i int) int { return e.maxAs.Numerator(i) }

// SumMin returns the running minimum of the j-th tracked sum, if any
// included sequence reached its length.
func (e *Extrema) SumMin(j int) (float64, bool) {
	return e.sumMin[j], e.sumSeen[j]
}

// MaxDelta is the largest, over the first depth indices, of the distance
// from the envelope to the closest of 0, target and 2*target. An empty
// envelope constrains nothing and reports 0.
func (e *Extrema) MaxDelta(target float64, depth int) float64 {
	if e.IsContradiction() {
		return 0
	}
	maxDelta := 0.0
	for i := 0; i < depth && i < e.Len(); i++ {
		lo, hi := e.Envelope(i)
		minDelta := math.Inf(1)
		for _, c := range [...]float64{0, target, 2 * target} {
			minDelta = math.Min(minDelta, math.Max(math.Abs(c-lo), math.Abs(hi-c)))
		}
		maxDelta = math.Max(maxDelta, minDelta)
	}
	return maxDelta
}
