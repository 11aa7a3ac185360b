package extrema

import (
	"fmt"

	"radbound/domain/proofcase"
)

// Verdict is the outcome of checking one hypothesis.
type Verdict struct {
	Hypothesis proofcase.Hypothesis
	Proved     bool
	// Value is the measured quantity (max delta or min sum); HasValue is false
	// when nothing was measured.
	Value    float64
	HasValue bool
	Message  string
}

// Verify checks every hypothesis of the case against the accumulated results.
func (r *Results) Verify() []Verdict {
	verdicts := make([]Verdict, 0, len(r.c.Hypotheses))
	for _, h := range r.c.Hypotheses {
		verdicts = append(verdicts, r.verify(h))
	}
	return verdicts
}

// AllProved reports whether every verdict is positive.
func AllProved(verdicts []Verdict) bool {
	for _, v := range verdicts {
		if !v.Proved {
			return false
		}
	}
	return true
}

func (r *Results) verify(h proofcase.Hypothesis) Verdict {
	switch h := h.(type) {
	case proofcase.DeltaBound:
		delta := r.MaxDelta(h.Target)
		v := Verdict{Hypothesis: h, Value: delta, HasValue: true}
		if delta+DeltaError <= h.Delta {
			v.Proved = true
			v.Message = fmt.Sprintf("We prove that delta <= %g. Actual max delta: %g", h.Delta, delta)
		} else {
			v.Message = fmt.Sprintf("delta not below bound: actual max delta = %g > %g", delta, h.Delta)
		}
		return v

	case proofcase.SumLowerBound:
		sum, ok := r.SumLowerBound(h.Coefficients)
		v := Verdict{Hypothesis: h, Value: sum, HasValue: ok}
		switch {
		case ok && sum >= h.Bound:
			v.Proved = true
			v.Message = fmt.Sprintf("We prove for coefs %v, sum >= %g. Min sum = %g", h.Coefficients, h.Bound, sum)
		case ok:
			v.Message = fmt.Sprintf("sum %v not above bound: actual min sum = %g < %g", h.Coefficients, sum, h.Bound)
		default:
			v.Message = fmt.Sprintf("sum %v not above bound: no sequence reached depth %d", h.Coefficients, len(h.Coefficients))
		}
		return v

	case proofcase.Contradiction:
		if r.IsContradiction() {
			return Verdict{Hypothesis: h, Proved: true, Message: "There is a contradiction, as required."}
		}
		return Verdict{Hypothesis: h, Message: "There is no contradiction."}

	default:
		return Verdict{Hypothesis: h, Message: fmt.Sprintf("unsupported hypothesis %v", h)}
	}
}
