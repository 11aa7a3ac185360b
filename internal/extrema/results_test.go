package extrema

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"radbound/domain/proofcase"
	"radbound/domain/restriction"
	"radbound/domain/sequence"
)

func routingCase() *proofcase.Case {
	return &proofcase.Case{
		Threshold:   1,
		ProbCutoff:  0.1,
		MaxDepth:    2,
		Denominator: 4,
		Bounds:      []restriction.Interval{{LB: 0.25, UB: 1}},
		Subcases: []proofcase.Subcase{
			{Restrictions: []restriction.Restriction{
				restriction.Bounds{Index: 0, Interval: restriction.Interval{LB: 0.6, UB: 1}},
			}},
			{Restrictions: []restriction.Restriction{
				restriction.InitialSumUpperBound{Depth: 2, Bound: 0.9},
			}},
		},
		Hypotheses: []proofcase.Hypothesis{
			proofcase.DeltaBound{Target: 0.5, Delta: 1},
			proofcase.SumLowerBound{Coefficients: []float64{1, 1}, Bound: 0.5},
			proofcase.SumLowerBound{Coefficients: []float64{1, 1, 1}, Bound: 0},
			proofcase.Contradiction{},
		},
	}
}

func TestRoutingIntoSubcases(t *testing.T) {
	r := NewResults(routingCase())

	// matches both subcases
	r.IncludeSeq(sequence.FromNumerators(4, 2, 1), 2)
	// matches only the first: minimum sum 6/4 > 0.9
	r.IncludeSeq(sequence.FromNumerators(4, 3, 3), 2)
	// matches only the second: a_0 <= 1/2 < 0.6
	r.IncludeSeq(sequence.FromNumerators(4, 1, 1), 2)

	assert.Equal(t, 2, r.Subcase(0).Count())
	assert.Equal(t, 2, r.Subcase(1).Count())
	assert.Equal(t, 0, r.Default().Count())
	assert.Equal(t, 3, r.Terminals())

	// a_0 in [1/4, 1/2] fails subcase A, and sum 1 fails subcase B
	r.IncludeSeq(sequence.FromNumerators(4, 1, 3), 2)
	assert.Equal(t, 1, r.Default().Count())
}

func TestVerifyTrivialDeltaAndAbsentSum(t *testing.T) {
	r := NewResults(routingCase())
	r.IncludeSeq(sequence.FromNumerators(4, 3, 0), 2)
	r.IncludeSeq(sequence.FromNumerators(4, 1, 1), 2)

	verdicts := r.Verify()
	require.Len(t, verdicts, 4)

	assert.True(t, verdicts[0].Proved, "distance 1/2 to one of 0, 1/2, 1 is always achievable")
	assert.LessOrEqual(t, verdicts[0].Value, 0.5)

	// min over (3,0) and (1,1) of a_0 + a_1 at the bottom ends
	assert.True(t, verdicts[1].HasValue)
	assert.Equal(t, 0.5, verdicts[1].Value)
	assert.True(t, verdicts[1].Proved)

	assert.False(t, verdicts[2].Proved)
	assert.False(t, verdicts[2].HasValue, "absent, not zero")
	assert.Equal(t, 0.0, verdicts[2].Value)

	assert.False(t, verdicts[3].Proved)
	assert.False(t, AllProved(verdicts))
}

func TestContradictionOnEmptyResults(t *testing.T) {
	c := routingCase()
	c.Hypotheses = []proofcase.Hypothesis{proofcase.Contradiction{}, proofcase.DeltaBound{Target: 0.5, Delta: 1}}
	r := NewResults(c)

	verdicts := r.Verify()
	assert.True(t, verdicts[0].Proved)
	assert.True(t, verdicts[1].Proved)
	assert.True(t, AllProved(verdicts))
	assert.Equal(t, 0, r.Terminals())
}

func TestResultsMerge(t *testing.T) {
	c := routingCase()
	whole, left, right := NewResults(c), NewResults(c), NewResults(c)
	seqs := []*sequence.Seq{
		sequence.FromNumerators(4, 2, 1),
		sequence.FromNumerators(4, 3, 3),
		sequence.FromNumerators(4, 1, 3),
	}
	for i, s := range seqs {
		whole.IncludeSeq(s, 2)
		if i == 0 {
			left.IncludeSeq(s, 2)
		} else {
			right.IncludeSeq(s, 2)
		}
	}
	left.Merge(right)

	assert.Equal(t, whole.Terminals(), left.Terminals())
	for i := 0; i < 2; i++ {
		assert.Equal(t, snapshot(whole.Subcase(i)), snapshot(left.Subcase(i)))
	}
	assert.Equal(t, snapshot(whole.Default()), snapshot(left.Default()))
	ws, _ := whole.SumLowerBound([]float64{1, 1})
	ls, _ := left.SumLowerBound([]float64{1, 1})
	assert.Equal(t, ws, ls)
}

func TestReports(t *testing.T) {
	r := NewResults(routingCase())
	r.IncludeSeq(sequence.FromNumerators(4, 3, 1), 2)

	var human bytes.Buffer
	r.WriteHuman(&human)
	out := human.String()
	assert.Contains(t, out, "Subcase A: [Bounds(0, 0.6, 1)]:")
	assert.Contains(t, out, "0.75 <= a_0 <= 1")
	assert.Contains(t, out, "0.25 <= a_1 <= 0.5")
	assert.Contains(t, out, "Default subcase (subcase C):")
	assert.Contains(t, out, resolvedLine)

	var machine bytes.Buffer
	r.WriteMachine(&machine)
	assert.Contains(t, machine.String(), "1, 0.1, 2, 4\nBounds(0, 0.6, 1)\nBounds(0, 0.75, 1)\nBounds(1, 0.25, 0.5)\n")
	assert.Contains(t, machine.String(), "# Default subcase (subcase C):\n# "+resolvedLine)

	var verdicts bytes.Buffer
	WriteVerdicts(&verdicts, r.Verify())
	assert.Contains(t, verdicts.String(), "FAILED to prove all hypotheses!")
}
