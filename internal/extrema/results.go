package extrema

import (
	"math"

	"radbound/domain/proofcase"
	"radbound/domain/sequence"
)

// DeltaError is the slack allowed when comparing a measured delta to its bound.
const DeltaError = 0.000001

// Results holds one Extrema per declared subcase plus the default subcase
// for sequences matching none of them.
type Results struct {
	c         *proofcase.Case
	sums      [][]float64
	subcases  []*Extrema
	fallback  *Extrema
	terminals int
}

// NewResults creates empty envelopes for every subcase of c.
func NewResults(c *proofcase.Case) *Results {
	sums := c.SumCoefficientLists()
	r := &Results{
		c:        c,
		sums:     sums,
		subcases: make([]*Extrema, len(c.Subcases)),
		fallback: NewExtrema(c.Denominator, c.MaxDepth, len(sums)),
	}
	for i := range c.Subcases {
		r.subcases[i] = NewExtrema(c.Denominator, c.MaxDepth, len(sums))
	}
	return r
}

// IncludeSeq routes a terminal sequence into every subcase whose
// restrictions it may satisfy, or into the default subcase if it matches none.
func (r *Results) IncludeSeq(seq *sequence.Seq, depth int) {
	matched := false
	for i, sc := range r.c.Subcases {
		if seq.SatisfiesRestrictions(sc.Restrictions, depth) {
			r.subcases[i].IncludeSeq(seq, depth, r.sums)
			matched = true
		}
	}
	if !matched {
		r.fallback.IncludeSeq(seq, depth, r.sums)
	}
	r.terminals++
}

// Merge folds the envelopes of o, built for the same case, into r.
func (r *Results) Merge(o *Results) {
	for i := range r.subcases {
		r.subcases[i].Merge(o.subcases[i])
	}
	r.fallback.Merge(o.fallback)
	r.terminals += o.terminals
}

// Terminals is the number of distinct terminal sequences included.
func (r *Results) Terminals() int { return r.terminals }

// Subcase returns the envelope of the i-th declared subcase.
func (r *Results) Subcase(i int) *Extrema { return r.subcases[i] }

// Default returns the envelope of the default subcase.
func (r *Results) Default() *Extrema { return r.fallback }

func (r *Results) all() []*Extrema {
	return append(append([]*Extrema(nil), r.subcases...), r.fallback)
}

// MaxDelta is the largest MaxDelta over every subcase, the default included.
func (r *Results) MaxDelta(target float64) float64 {
	maxDelta := 0.0
	for _, e := range r.all() {
		maxDelta = math.Max(maxDelta, e.MaxDelta(target, r.c.MaxDepth))
	}
	return maxDelta
}

// SumLowerBound returns the smallest value the weighted sum takes over every
// surviving sequence. ok is false when no sequence reached its length.
func (r *Results) SumLowerBound(coefs []float64) (float64, bool) {
	j := proofcase.IndexOfList(r.sums, coefs)
	if j < 0 {
		return 0, false
	}
	best, ok := 0.0, false
	for _, e := range r.all() {
		if v, seen := e.SumMin(j); seen && (!ok || v < best) {
			best, ok = v, true
		}
	}
	return best, ok
}

// IsContradiction reports whether every subcase, the default included, is empty.
func (r *Results) IsContradiction() bool {
	for _, e := range r.all() {
		if !e.IsContradiction() {
			return false
		}
	}
	return true
}
