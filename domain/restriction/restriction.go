// Package restriction models the linear constraints a case places on a
// non-increasing coefficient sequence a_0 >= a_1 >= ... in [0, 1].
//
// Sequences are evaluated through their numerators: numerator n at index i
// stands for the interval [n/D, (n+1)/D]. Every predicate answers "could a
// sequence inside these intervals still satisfy the constraint", so a false
// result is a proof that the constraint is violated.
package restriction

import (
	"fmt"

	"radbound/domain/core"
)

// Restriction is one constraint on a partial coefficient sequence.
// The set of variants is closed.
type Restriction interface {
	// Holds reports whether some sequence within the intervals given by
	// nums[:depth] over denominator den can satisfy the constraint.
	// Indices >= depth are unknown and never cause a failure.
	Holds(nums []int, den int, depth int) bool
	String() string
	isRestriction()
}

// InitialSumUpperBound requires a_0 + ... + a_{Depth-1} <= Bound.
type InitialSumUpperBound struct {
	Depth int
	Bound float64
}

// InitialSumLowerBound requires a_0 + ... + a_{Depth-1} >= Bound.
type InitialSumLowerBound struct {
	Depth int
	Bound float64
}

// MidSumUpperBound requires a_Start + ... + a_{End-1} <= Bound.
type MidSumUpperBound struct {
	Start int
	End   int
	Bound float64
}

// Bounds requires a_Index to lie in Interval.
type Bounds struct {
	Index    int
	Interval Interval
}

func (InitialSumUpperBound) isRestriction() {}
func (InitialSumLowerBound) isRestriction() {}
func (MidSumUpperBound) isRestriction()     {}
func (Bounds) isRestriction()               {}

func (r InitialSumUpperBound) Holds(nums []int, den int, depth int) bool {
	sum := sumRange(nums, 0, min(depth, r.Depth))
	return float64(sum)/float64(den) <= r.Bound
}

// Holds only decides once the whole prefix is fixed.
func (r InitialSumLowerBound) Holds(nums []int, den int, depth int) bool {
	if depth < r.Depth {
		return true
	}
	sum := sumRange(nums, 0, r.Depth)
	return float64(sum+r.Depth)/float64(den) >= r.Bound
}

func (r MidSumUpperBound) Holds(nums []int, den int, depth int) bool {
	sum := sumRange(nums, r.Start, min(depth, r.End))
	return float64(sum)/float64(den) <= r.Bound
}

func (r Bounds) Holds(nums []int, den int, depth int) bool {
	if r.Index >= depth || r.Index >= len(nums) {
		return true
	}
	lo := float64(nums[r.Index]) / float64(den)
	hi := float64(nums[r.Index]+1) / float64(den)
	return r.Interval.Overlaps(lo, hi)
}

func (r InitialSumUpperBound) String() string {
	return fmt.Sprintf("InitialSumUpperBound(%d, %s)", r.Depth, formatFloat(r.Bound))
}

func (r InitialSumLowerBound) String() string {
	return fmt.Sprintf("InitialSumLowerBound(%d, %s)", r.Depth, formatFloat(r.Bound))
}

func (r MidSumUpperBound) String() string {
	return fmt.Sprintf("MidSumUpperBound(%d, %d, %s)", r.Start, r.End, formatFloat(r.Bound))
}

func (r Bounds) String() string {
	return fmt.Sprintf("Bounds(%d, %s, %s)", r.Index, formatFloat(r.Interval.LB), formatFloat(r.Interval.UB))
}

// HoldsAll is the conjunction of rs at the given depth.
func HoldsAll(rs []Restriction, nums []int, den int, depth int) bool {
	for _, r := range rs {
		if !r.Holds(nums, den, depth) {
			return false
		}
	}
	return true
}

// Parse reads one restriction in the canonical syntax produced by String.
// Keywords are case-insensitive.
func Parse(text string) (Restriction, error) {
	name, args, err := ParseFunctionLike(text)
	if err != nil {
		return nil, err
	}

	switch name {
	case "initialsumupperbound", "initialsumlowerbound":
		if err := ExpectArity(name, args, 2); err != nil {
			return nil, err
		}
		depth, err := ParseIndex(args[0])
		if err != nil {
			return nil, err
		}
		bound, err := ParseFloat(args[1])
		if err != nil {
			return nil, err
		}
		if name == "initialsumupperbound" {
			return InitialSumUpperBound{Depth: depth, Bound: bound}, nil
		}
		return InitialSumLowerBound{Depth: depth, Bound: bound}, nil

	case "midsumupperbound":
		if err := ExpectArity(name, args, 3); err != nil {
			return nil, err
		}
		start, err := ParseIndex(args[0])
		if err != nil {
			return nil, err
		}
		end, err := ParseIndex(args[1])
		if err != nil {
			return nil, err
		}
		bound, err := ParseFloat(args[2])
		if err != nil {
			return nil, err
		}
		return MidSumUpperBound{Start: start, End: end, Bound: bound}, nil

	case "bounds":
		return parseBounds(args)

	default:
		return nil, fmt.Errorf("%w: %q", core.ErrUnknownKeyword, name)
	}
}

// ParseList parses every element of a restriction list.
func ParseList(items []string) ([]Restriction, error) {
	out := make([]Restriction, 0, len(items))
	for _, item := range items {
		r, err := Parse(item)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func parseBounds(args []string) (Restriction, error) {
	if err := ExpectArity("bounds", args, 3); err != nil {
		return nil, err
	}
	index, err := ParseIndex(args[0])
	if err != nil {
		return nil, err
	}
	lb, err := ParseFloat(args[1])
	if err != nil {
		return nil, err
	}
	ub, err := ParseFloat(args[2])
	if err != nil {
		return nil, err
	}
	interval, err := NewInterval(lb, ub)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrParse, err)
	}
	return Bounds{Index: index, Interval: interval}, nil
}

func sumRange(nums []int, start, end int) int {
	end = min(end, len(nums))
	sum := 0
	for i := start; i < end; i++ {
		sum += nums[i]
	}
	return sum
}
