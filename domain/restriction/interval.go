package restriction

import (
	"fmt"
	"math"
)

// Interval is a closed real interval [LB, UB].
type Interval struct {
	LB float64
	UB float64
}

// Unit is the interval [0, 1], the admissible range of every coefficient.
var Unit = Interval{LB: 0, UB: 1}

// NewInterval builds an interval, rejecting reversed or non-finite bounds.
func NewInterval(lb, ub float64) (Interval, error) {
	if math.IsNaN(lb) || math.IsNaN(ub) || math.IsInf(lb, 0) || math.IsInf(ub, 0) {
		return Interval{}, fmt.Errorf("interval bounds must be finite, got [%v, %v]", lb, ub)
	}
	if lb > ub {
		return Interval{}, fmt.Errorf("interval lower bound %v exceeds upper bound %v", lb, ub)
	}
	return Interval{LB: lb, UB: ub}, nil
}

// Intersect returns the intersection of two intervals. The result may be empty.
func (i Interval) Intersect(o Interval) Interval {
	return Interval{LB: math.Max(i.LB, o.LB), UB: math.Min(i.UB, o.UB)}
}

// Tighten intersects o into i in place.
func (i *Interval) Tighten(o Interval) {
	*i = i.Intersect(o)
}

// IsEmpty reports whether the interval contains no point.
func (i Interval) IsEmpty() bool {
	return i.LB > i.UB
}

// Overlaps reports whether i and [lb, ub] share at least one point.
func (i Interval) Overlaps(lb, ub float64) bool {
	return !(ub < i.LB || lb > i.UB)
}

func (i Interval) String() string {
	return fmt.Sprintf("[%s, %s]", formatFloat(i.LB), formatFloat(i.UB))
}
