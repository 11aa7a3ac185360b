package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"radbound/adapters/casefile"
	"radbound/adapters/ledger"
	"radbound/adapters/tablestore"
	"radbound/app"
	"radbound/domain/proofcase"
	"radbound/internal/extrema"
	"radbound/internal/testkit"
)

func newTestShell(t *testing.T) *shell {
	t.Helper()
	dir := t.TempDir()
	testkit.WriteCase(t, filepath.Join(dir, "cases"), "contra", "0, -1, 1, 4\nContradiction\n")
	return newShell(app.NewProofService(app.Options{
		Cases:   casefile.NewStore(filepath.Join(dir, "cases")),
		Tables:  tablestore.NewFileStore(filepath.Join(dir, "bounder.csv")),
		Oracle:  testkit.StepOracle{},
		Params:  testkit.SmallParams(),
		Workers: 2,
		Logger:  testkit.QuietLogger,
	}))
}

func runShell(t *testing.T, s *shell, input string) string {
	t.Helper()
	var out bytes.Buffer
	require.NoError(t, s.Run(context.Background(), strings.NewReader(input), &out))
	return out.String()
}

func TestShell_Session(t *testing.T) {
	out := runShell(t, newTestShell(t), strings.Join([]string{
		"run(contra)",
		"Generate",
		"run(missing)",
		"run(contra)",
		"D(0.5, -1)",
		"d 0.5 x",
		"frobnicate",
		"quit",
		"run(contra)",
	}, "\n"))

	assert.Contains(t, out, "no table found, run generate first")
	assert.Contains(t, out, "Precomputation complete.")
	assert.Contains(t, out, "Unknown case!")
	assert.Equal(t, 1, strings.Count(out, "All hypotheses proved!"), "quit stops the loop")
	assert.Contains(t, out, "D(0.5, -1) ~ bounds[")
	assert.Contains(t, out, "Failed to parse arguments! Expected format: D(a,x)")
	assert.Contains(t, out, unknownCommand)
}

func TestShell_ArityAndSyntax(t *testing.T) {
	out := runShell(t, newTestShell(t), "run(a, b)\nd(1)\nrun(contra\n\n")

	assert.Contains(t, out, "Expected format: run(case)")
	assert.Contains(t, out, "Expected format: D(a,x)")
	assert.Contains(t, out, "missing closing ')'")
	assert.True(t, strings.HasSuffix(out, "Enter instruction: \n"))
}

func TestParseInstruction(t *testing.T) {
	name, args, err := parseInstruction("RUN(alpha)")
	require.NoError(t, err)
	assert.Equal(t, "run", name)
	assert.Equal(t, []string{"alpha"}, args)

	name, args, err = parseInstruction("d 0.5 1")
	require.NoError(t, err)
	assert.Equal(t, "d", name)
	assert.Equal(t, []string{"0.5", "1"}, args)

	name, args, err = parseInstruction("generate()")
	require.NoError(t, err)
	assert.Equal(t, "generate", name)
	assert.Empty(t, args)
}

func TestListRuns(t *testing.T) {
	ctx := context.Background()
	l, err := ledger.Open(ctx, ledger.DriverSQLite, ":memory:")
	require.NoError(t, err)
	defer l.Close()

	var out bytes.Buffer
	require.NoError(t, listRuns(ctx, l, "", 10, &out))
	assert.Equal(t, "No runs recorded.\n", out.String())

	verdicts := []extrema.Verdict{{Hypothesis: proofcase.Contradiction{}, Message: "There is no contradiction."}}
	run, err := ledger.NewRun("r1", "unit", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), 2*time.Second, 4, 5, verdicts)
	require.NoError(t, err)
	require.NoError(t, l.RecordRun(ctx, run))

	out.Reset()
	require.NoError(t, listRuns(ctx, l, "unit", 10, &out))
	assert.Contains(t, out.String(), "RUN")
	assert.Contains(t, out.String(), "r1")
	assert.Contains(t, out.String(), "2026-03-01T00:00:00Z")
	assert.Contains(t, out.String(), "failed: Contradiction")
}
