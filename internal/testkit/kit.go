// Package testkit provides fixtures shared by package tests: stub oracles and
// bounders, small prebuilt tables, and case files on disk.
package testkit

import (
	"os"
	"path/filepath"
	"testing"

	"radbound/domain/proofcase"
	"radbound/domain/restriction"
	"radbound/internal"
	"radbound/internal/prawitz"
)

// QuietLogger only reports errors.
var QuietLogger = internal.NewLogger(internal.LogLevelError)

// FlatBounder answers every tail query with the same value.
type FlatBounder float64

func (f FlatBounder) GetWithVar(a, cutoff, minVar, maxVar float64) float64 { return float64(f) }

// StepOracle is a cheap stand-in for the analytic bound: 1/2 for
// non-positive thresholds, then linearly decaying to 0 at x = 1/2.
type StepOracle struct{}

func (StepOracle) Bound(aNum, aDen, xNum, xDen int) float64 {
	x := float64(xNum) / float64(xDen)
	if x <= 0 {
		return 0.5
	}
	return max(0, 0.5-x)
}

// SmallParams is an 8x16 table refined by two sweeps.
func SmallParams() prawitz.BuildParams {
	return prawitz.BuildParams{
		CoefGran:       8,
		ThreshGran:     4,
		MaxBound:       8,
		Iterations:     2,
		Workers:        2,
		CoefRounding:   1,
		ThreshRounding: 1,
	}
}

// SmallTable builds a table from StepOracle with SmallParams.
func SmallTable(t testing.TB) *prawitz.Bounder {
	t.Helper()
	b, err := prawitz.Build(StepOracle{}, SmallParams(), QuietLogger)
	if err != nil {
		t.Fatalf("build small table: %v", err)
	}
	return b
}

// UnitCase is a case over depth coefficients, each bounded by Unit, with
// threshold 0.
func UnitCase(depth, den int, cutoff float64, hyps ...proofcase.Hypothesis) *proofcase.Case {
	bounds := make([]restriction.Interval, depth)
	for i := range bounds {
		bounds[i] = restriction.Unit
	}
	return &proofcase.Case{
		Name:        "unit",
		ProbCutoff:  cutoff,
		MaxDepth:    depth,
		Denominator: den,
		Bounds:      bounds,
		Hypotheses:  hyps,
	}
}

// WriteCase stores text as <dir>/<name>.txt.
func WriteCase(t testing.TB, dir, name, text string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create cases dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name+".txt"), []byte(text), 0o644); err != nil {
		t.Fatalf("write case %s: %v", name, err)
	}
}
