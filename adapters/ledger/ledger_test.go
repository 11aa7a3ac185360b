package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"radbound/domain/core"
	"radbound/domain/proofcase"
	"radbound/internal/extrema"
)

func openMemory(t *testing.T) *Ledger {
	t.Helper()
	l, err := Open(context.Background(), DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	return l
}

func sampleVerdicts() []extrema.Verdict {
	return []extrema.Verdict{
		{Hypothesis: proofcase.DeltaBound{Target: 0.5, Delta: 0.1}, Proved: true, Value: 0.05, HasValue: true, Message: "ok"},
		{Hypothesis: proofcase.SumLowerBound{Coefficients: []float64{1, 1}, Bound: 1}, Proved: false, Message: "never reached"},
	}
}

func TestOpen_RejectsUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "mysql", "x")
	assert.Error(t, err)
}

func TestRecordAndGetRun(t *testing.T) {
	l := openMemory(t)
	ctx := context.Background()
	started := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	run, err := NewRun("run-1", "alpha", started, 1500*time.Millisecond, 7, 40, sampleVerdicts())
	require.NoError(t, err)
	assert.False(t, run.Proved)
	require.NoError(t, l.RecordRun(ctx, run))

	got, err := l.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, core.CaseName("alpha"), got.CaseName)
	assert.Equal(t, int64(1500), got.DurationMS)
	assert.Equal(t, int64(7), got.Terminals)
	assert.Equal(t, int64(40), got.Nodes)
	assert.False(t, got.Proved)
	assert.True(t, started.Equal(got.StartedAt))
	assert.Equal(t, []string{"ProvesSum((1, 1), 1)"}, got.FailedHypotheses())

	_, err = l.GetRun(ctx, "missing")
	assert.True(t, core.IsNotFoundError(err))
}

func TestRecordRun_DuplicateID(t *testing.T) {
	l := openMemory(t)
	ctx := context.Background()
	run, err := NewRun("dup", "alpha", time.Now(), time.Second, 0, 1, nil)
	require.NoError(t, err)
	require.NoError(t, l.RecordRun(ctx, run))
	assert.Error(t, l.RecordRun(ctx, run))
}

func TestListRuns(t *testing.T) {
	l := openMemory(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	for i, name := range []core.CaseName{"alpha", "beta", "alpha"} {
		run, err := NewRun(core.RunID(string(rune('a'+i))), name, base.Add(time.Duration(i)*time.Hour), time.Second, i, i, nil)
		require.NoError(t, err)
		require.NoError(t, l.RecordRun(ctx, run))
	}

	all, err := l.ListRuns(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, core.RunID("c"), all[0].ID)
	assert.True(t, all[0].Proved, "no hypotheses means nothing failed")

	alpha, err := l.ListRuns(ctx, "alpha", 1)
	require.NoError(t, err)
	require.Len(t, alpha, 1)
	assert.Equal(t, core.RunID("c"), alpha[0].ID)

	none, err := l.ListRuns(ctx, "gamma", 5)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestNewRun_EncodesVerdicts(t *testing.T) {
	run, err := NewRun(core.NewRunID(), "alpha", time.Now(), 0, 0, 0, sampleVerdicts())
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"hypothesis":"ProvesBound(0.5, 0.1)","status":"proved","value":0.05,"message":"ok"},
		{"hypothesis":"ProvesSum((1, 1), 1)","status":"failed","message":"never reached"}
	]`, run.Verdicts)
}
