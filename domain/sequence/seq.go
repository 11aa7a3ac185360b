// Package sequence holds the exact-rational representation of a partial
// coefficient sequence explored by the search.
package sequence

import (
	"fmt"
	"strings"

	"radbound/domain/restriction"
)

// Seq is a sequence of intervals sharing one denominator D: entry i stands
// for [nums[i]/D, (nums[i]+1)/D]. The search mutates a Seq in place; a Seq is
// never shared between goroutines.
type Seq struct {
	nums []int
	den  int
}

// New creates a sequence of length maxDepth with every numerator set to numerator.
func New(numerator, den, maxDepth int) *Seq {
	nums := make([]int, maxDepth)
	for i := range nums {
		nums[i] = numerator
	}
	return &Seq{nums: nums, den: den}
}

// FromNumerators copies nums into a new sequence.
func FromNumerators(den int, nums ...int) *Seq {
	return &Seq{nums: append([]int(nil), nums...), den: den}
}

func (s *Seq) Len() int                 { return len(s.nums) }
func (s *Seq) Denominator() int         { return s.den }
func (s *Seq) Set(index, numerator int) { s.nums[index] = numerator }
func (s *Seq) Numerator(index int) int  { return s.nums[index] }

// Numerators returns a copy of every numerator.
func (s *Seq) Numerators() []int {
	return append([]int(nil), s.nums...)
}

// Clone returns an independent copy.
func (s *Seq) Clone() *Seq {
	return FromNumerators(s.den, s.nums...)
}

// Min is the lower end of interval index.
func (s *Seq) Min(index int) float64 {
	return float64(s.nums[index]) / float64(s.den)
}

// Max is the upper end of interval index.
func (s *Seq) Max(index int) float64 {
	return float64(s.nums[index]+1) / float64(s.den)
}

// MinVariance is sum a_i^2 with every a_i at the bottom of its interval.
func (s *Seq) MinVariance() float64 {
	sum := 0
	for _, n := range s.nums {
		sum += n * n
	}
	return float64(sum) / float64(s.den*s.den)
}

// MaxVariance is sum a_i^2 with every a_i at the top of its interval.
// Unset trailing entries count as [0, 1/D].
func (s *Seq) MaxVariance() float64 {
	sum := 0
	for _, n := range s.nums {
		sum += (n + 1) * (n + 1)
	}
	return float64(sum) / float64(s.den*s.den)
}

// SatisfiesRestrictions reports whether every restriction may still hold
// given the first depth entries.
func (s *Seq) SatisfiesRestrictions(rs []restriction.Restriction, depth int) bool {
	return restriction.HoldsAll(rs, s.nums, s.den, depth)
}

// String prints the lower ends with three decimals.
func (s *Seq) String() string {
	parts := make([]string, len(s.nums))
	for i := range s.nums {
		parts[i] = fmt.Sprintf("%.3f", s.Min(i))
	}
	return strings.Join(parts, " ")
}
