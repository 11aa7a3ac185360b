package app

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"radbound/adapters/casefile"
	"radbound/adapters/ledger"
	"radbound/adapters/tablestore"
	"radbound/domain/core"
	"radbound/internal/errors"
	"radbound/internal/testkit"
)

type fixture struct {
	dir     string
	service *ProofService
	ledger  *ledger.Ledger
}

func newFixture(t *testing.T, reportDir string) *fixture {
	t.Helper()
	dir := t.TempDir()
	casesDir := filepath.Join(dir, "cases")
	testkit.WriteCase(t, casesDir, "contra", "0, -1, 2, 4\nBounds(0, 0.25, 1)\nContradiction\n")
	testkit.WriteCase(t, casesDir, "survive", "0, 2, 1, 4\nContradiction\n")
	testkit.WriteCase(t, casesDir, "broken", "0, 2, 1, 4\nProvesBound(0.5, 0.1)\nContradiction\n")

	l, err := ledger.Open(context.Background(), ledger.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })

	return &fixture{
		dir:    dir,
		ledger: l,
		service: NewProofService(Options{
			Cases:     casefile.NewStore(casesDir),
			Tables:    tablestore.NewFileStore(filepath.Join(dir, "bounder.csv")),
			Ledger:    l,
			Oracle:    testkit.StepOracle{},
			Params:    testkit.SmallParams(),
			Workers:   2,
			ReportDir: reportDir,
			Logger:    testkit.QuietLogger,
		}),
	}
}

func TestRun_RequiresTable(t *testing.T) {
	f := newFixture(t, "")
	var out bytes.Buffer

	_, err := f.service.Run(context.Background(), "contra", &out)
	require.Error(t, err)
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
	assert.Contains(t, err.Error(), "run generate first")
}

func TestRun_ProvesContradiction(t *testing.T) {
	f := newFixture(t, "")
	var out bytes.Buffer
	ctx := context.Background()

	_, err := f.service.Generate(&out)
	require.NoError(t, err)

	out.Reset()
	outcome, err := f.service.Run(ctx, "contra", &out)
	require.NoError(t, err)
	assert.True(t, outcome.Proved())
	assert.Zero(t, outcome.Results.Terminals())

	text := out.String()
	assert.Contains(t, text, "MACHINE-READABLE RESULTS:")
	assert.Contains(t, text, "HUMAN-READABLE RESULTS:")
	assert.Contains(t, text, "Case resolved: no sequence can satisfy given conditions!")
	assert.Contains(t, text, "There is a contradiction, as required.")
	assert.Contains(t, text, "All hypotheses proved!")
	assert.Contains(t, text, "Simulation complete!")

	runs, err := f.ledger.ListRuns(ctx, "contra", 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, outcome.ID, runs[0].ID)
	assert.True(t, runs[0].Proved)
}

func TestRun_ReportsFailure(t *testing.T) {
	f := newFixture(t, "")
	var out bytes.Buffer
	ctx := context.Background()
	_, err := f.service.Generate(&out)
	require.NoError(t, err)

	out.Reset()
	outcome, err := f.service.Run(ctx, "survive", &out)
	require.NoError(t, err)
	assert.False(t, outcome.Proved())
	assert.Equal(t, 4, outcome.Results.Terminals())
	assert.Contains(t, out.String(), "FAILED to prove all hypotheses!")

	runs, err := f.ledger.ListRuns(ctx, "survive", 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, []string{"Contradiction"}, runs[0].FailedHypotheses())
}

func TestRun_CaseErrors(t *testing.T) {
	f := newFixture(t, "")
	var out bytes.Buffer

	_, err := f.service.Run(context.Background(), "nope", &out)
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
	assert.Contains(t, err.Error(), "Unknown case!")

	_, err = f.service.Run(context.Background(), "broken", &out)
	assert.Equal(t, errors.CodeParseError, errors.GetCode(err))
	assert.ErrorIs(t, err, core.ErrDuplicateHypothesis)

	_, err = f.service.Run(context.Background(), "../etc", &out)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestRun_WritesReport(t *testing.T) {
	reports := filepath.Join(t.TempDir(), "reports")
	f := newFixture(t, reports)
	var out bytes.Buffer
	_, err := f.service.Generate(&out)
	require.NoError(t, err)

	outcome, err := f.service.Run(context.Background(), "survive", &out)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(reports, "survive-"+outcome.ID.String()+".md"), outcome.ReportPath)
	assert.FileExists(t, outcome.ReportPath)
}

func TestQuery(t *testing.T) {
	f := newFixture(t, "")
	var out bytes.Buffer
	_, err := f.service.Generate(&out)
	require.NoError(t, err)

	out.Reset()
	l, err := f.service.Query(0.5, -1, &out)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, l.Value, 0.5)
	assert.Contains(t, out.String(), "D(0.5, -1) ~ bounds[")
	assert.Contains(t, out.String(), "Gaussian tail Pr[Z >= -1] = 0.84")

	_, err = f.service.Query(0, 1, &out)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
	_, err = f.service.Query(1.5, 1, &out)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestBounder_LoadsPersistedTableOnce(t *testing.T) {
	f := newFixture(t, "")
	var out bytes.Buffer
	built, err := f.service.Generate(&out)
	require.NoError(t, err)

	fresh := NewProofService(Options{
		Cases:  casefile.NewStore(filepath.Join(f.dir, "cases")),
		Tables: tablestore.NewFileStore(filepath.Join(f.dir, "bounder.csv")),
		Logger: testkit.QuietLogger,
	})
	out.Reset()
	loaded, err := fresh.Bounder(&out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Running first time setup of Bounder object!")
	for a := 0; a < built.CoefGran(); a++ {
		assert.Equal(t, built.Row(a), loaded.Row(a))
	}

	out.Reset()
	again, err := fresh.Bounder(&out)
	require.NoError(t, err)
	assert.Same(t, loaded, again)
	assert.Empty(t, out.String())
}

func TestCases(t *testing.T) {
	f := newFixture(t, "")
	names, err := f.service.Cases()
	require.NoError(t, err)
	assert.Equal(t, []core.CaseName{"broken", "contra", "survive"}, names)
}
