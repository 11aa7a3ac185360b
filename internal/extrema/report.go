package extrema

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"radbound/domain/proofcase"
	"radbound/domain/restriction"
)

const resolvedLine = "Case resolved: no sequence can satisfy given conditions!"

// WriteMachine prints each subcase as a case-file fragment that the case
// loader accepts again: label lines are comments, then the header, the
// restrictions and the tightened bounds.
func (r *Results) WriteMachine(w io.Writer) {
	for i, sc := range r.c.Subcases {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "# Subcase %s: %s:\n", labelOf(sc, i), formatList(sc.Restrictions))
		r.writeMachineExtrema(w, r.subcases[i], sc.Restrictions)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "# Default subcase (subcase %s):\n", proofcase.SubcaseLabel(len(r.c.Subcases)))
	r.writeMachineExtrema(w, r.fallback, nil)
}

func (r *Results) writeMachineExtrema(w io.Writer, e *Extrema, subcase []restriction.Restriction) {
	if e.IsContradiction() {
		fmt.Fprintf(w, "# %s\n", resolvedLine)
		return
	}
	c := r.c
	fmt.Fprintf(w, "%s, %s, %d, %d\n", formatFloat(c.Threshold), formatFloat(c.ProbCutoff), c.MaxDepth, c.Denominator)
	for _, rs := range c.Restrictions {
		fmt.Fprintln(w, rs.String())
	}
	for _, rs := range subcase {
		fmt.Fprintln(w, rs.String())
	}
	for i := 0; i < e.Len(); i++ {
		lb, ub := r.clamped(e, i)
		fmt.Fprintln(w, restriction.Bounds{Index: i, Interval: restriction.Interval{LB: lb, UB: ub}}.String())
	}
}

// WriteHuman prints the envelope of every subcase as lb <= a_i <= ub lines.
func (r *Results) WriteHuman(w io.Writer) {
	for i, sc := range r.c.Subcases {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Subcase %s: %s:\n", labelOf(sc, i), formatList(sc.Restrictions))
		r.writeHumanExtrema(w, r.subcases[i])
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Default subcase (subcase %s):\n", proofcase.SubcaseLabel(len(r.c.Subcases)))
	r.writeHumanExtrema(w, r.fallback)
}

func (r *Results) writeHumanExtrema(w io.Writer, e *Extrema) {
	if e.IsContradiction() {
		fmt.Fprintln(w, resolvedLine)
		return
	}
	for i := 0; i < e.Len(); i++ {
		lb, ub := r.clamped(e, i)
		fmt.Fprintf(w, "%s <= a_%d <= %s\n", formatFloat(lb), i, formatFloat(ub))
	}
}

// WriteVerdicts prints one line per hypothesis and an overall line.
func WriteVerdicts(w io.Writer, verdicts []Verdict) {
	if len(verdicts) == 0 {
		return
	}
	fmt.Fprintln(w)
	for _, v := range verdicts {
		fmt.Fprintln(w, v.Message)
	}
	fmt.Fprintln(w)
	if AllProved(verdicts) {
		fmt.Fprintln(w, "All hypotheses proved!")
	} else {
		fmt.Fprintln(w, "FAILED to prove all hypotheses!")
	}
}

// clamped intersects the envelope at i with the declared bounds of the case.
func (r *Results) clamped(e *Extrema, i int) (float64, float64) {
	lo, hi := e.Envelope(i)
	declared := r.c.Interval(i)
	return math.Max(lo, declared.LB), math.Min(hi, declared.UB)
}

func labelOf(sc proofcase.Subcase, i int) string {
	if sc.Label != "" {
		return sc.Label
	}
	return proofcase.SubcaseLabel(i)
}

func formatList(rs []restriction.Restriction) string {
	parts := make([]string, len(rs))
	for i, r := range rs {
		parts[i] = r.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
