// Package proofcase describes one problem instance: the inequality
//
//	Pr[ X >= Threshold ] >= ProbCutoff
//
// over normalized Rademacher sums X = a_0 e_0 + a_1 e_1 + ... with
// a_0 >= a_1 >= ... and sum a_i^2 = 1, together with the hypotheses the
// search result is expected to establish.
package proofcase

import (
	"fmt"
	"math"
	"strings"

	"radbound/domain/core"
	"radbound/domain/restriction"
)

// Hypothesis is a claim verified against the search result. The set of
// variants is closed.
type Hypothesis interface {
	String() string
	isHypothesis()
}

// DeltaBound claims every surviving coefficient lies within Delta of one of
// 0, Target or 2*Target.
type DeltaBound struct {
	Target float64
	Delta  float64
}

// SumLowerBound claims sum Coefficients[i]*a_i >= Bound for every surviving
// sequence.
type SumLowerBound struct {
	Coefficients []float64
	Bound        float64
}

// Contradiction claims no sequence survives the search.
type Contradiction struct{}

func (DeltaBound) isHypothesis()    {}
func (SumLowerBound) isHypothesis() {}
func (Contradiction) isHypothesis() {}

func (h DeltaBound) String() string {
	return fmt.Sprintf("ProvesBound(%g, %g)", h.Target, h.Delta)
}

func (h SumLowerBound) String() string {
	coefs := make([]string, len(h.Coefficients))
	for i, c := range h.Coefficients {
		coefs[i] = fmt.Sprintf("%g", c)
	}
	return fmt.Sprintf("ProvesSum((%s), %g)", strings.Join(coefs, ", "), h.Bound)
}

func (Contradiction) String() string { return "Contradiction" }

// Subcase is a named restriction list used to partition terminal sequences.
type Subcase struct {
	Label        string
	Restrictions []restriction.Restriction
}

// Case is one problem instance. It is read-only once built.
type Case struct {
	Name         core.CaseName
	Threshold    float64
	ProbCutoff   float64
	MaxDepth     int
	Denominator  int
	Bounds       []restriction.Interval
	Restrictions []restriction.Restriction
	Subcases     []Subcase
	Hypotheses   []Hypothesis
}

// Validate checks the structural invariants the search relies on.
func (c *Case) Validate() error {
	if c.MaxDepth < 1 {
		return fmt.Errorf("%w: max_depth must be positive, got %d", core.ErrInvalidCase, c.MaxDepth)
	}
	if c.MaxDepth > 62 {
		return fmt.Errorf("%w: max_depth %d exceeds the sign enumeration limit", core.ErrInvalidCase, c.MaxDepth)
	}
	if c.Denominator < 1 {
		return fmt.Errorf("%w: denominator must be positive, got %d", core.ErrInvalidCase, c.Denominator)
	}
	if math.IsNaN(c.Threshold) || math.IsNaN(c.ProbCutoff) {
		return fmt.Errorf("%w: threshold and cutoff must be numbers", core.ErrInvalidCase)
	}
	return nil
}

// Interval returns the declared bounds of a_depth, or Unit if none were given.
func (c *Case) Interval(depth int) restriction.Interval {
	if depth < len(c.Bounds) {
		return c.Bounds[depth]
	}
	return restriction.Unit
}

// LowerNumerator is the smallest numerator explored at depth.
func (c *Case) LowerNumerator(depth int) int {
	if depth >= len(c.Bounds) {
		return 0
	}
	return max(0, int(math.Floor(c.Bounds[depth].LB*float64(c.Denominator))))
}

// UpperNumerator is the largest numerator explored at depth. It is capped at
// Denominator-1: the cell [(D-1)/D, 1] already contains a_i = 1.
func (c *Case) UpperNumerator(depth int) int {
	top := c.Denominator - 1
	if depth >= len(c.Bounds) {
		return top
	}
	return min(top, int(math.Floor(c.Bounds[depth].UB*float64(c.Denominator))))
}

// SumCoefficientLists returns the distinct coefficient lists referenced by
// SumLowerBound hypotheses, in declaration order.
func (c *Case) SumCoefficientLists() [][]float64 {
	var lists [][]float64
	for _, h := range c.Hypotheses {
		sum, ok := h.(SumLowerBound)
		if !ok {
			continue
		}
		if indexOfList(lists, sum.Coefficients) < 0 {
			lists = append(lists, sum.Coefficients)
		}
	}
	return lists
}

// SubcaseLabel names the i-th subcase A, B, C, ...; beyond Z it falls back
// to a numeric label.
func SubcaseLabel(i int) string {
	if i < 26 {
		return string(rune('A' + i))
	}
	return fmt.Sprintf("S%d", i)
}

// IndexOfList finds coefs in lists by value.
func IndexOfList(lists [][]float64, coefs []float64) int {
	return indexOfList(lists, coefs)
}

func indexOfList(lists [][]float64, coefs []float64) int {
	for i, l := range lists {
		if equalFloats(l, coefs) {
			return i
		}
	}
	return -1
}

func equalFloats(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
