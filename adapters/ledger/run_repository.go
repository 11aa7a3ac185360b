package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/tidwall/gjson"

	"radbound/domain/core"
	"radbound/internal/extrema"
)

const (
	StatusProved = "proved"
	StatusFailed = "failed"
)

// VerdictRecord is the stored form of one hypothesis verdict.
type VerdictRecord struct {
	Hypothesis string   `json:"hypothesis"`
	Status     string   `json:"status"`
	Value      *float64 `json:"value,omitempty"`
	Message    string   `json:"message"`
}

// Run is one completed search.
type Run struct {
	ID         core.RunID    `db:"id"`
	CaseName   core.CaseName `db:"case_name"`
	StartedAt  time.Time     `db:"started_at"`
	DurationMS int64         `db:"duration_ms"`
	Terminals  int64         `db:"terminals"`
	Nodes      int64         `db:"nodes"`
	Proved     bool          `db:"proved"`
	Verdicts   string        `db:"verdicts"`
}

// NewRun builds a ledger entry from verdicts.
func NewRun(id core.RunID, name core.CaseName, started time.Time, elapsed time.Duration, terminals, nodes int, verdicts []extrema.Verdict) (*Run, error) {
	records := make([]VerdictRecord, 0, len(verdicts))
	for _, v := range verdicts {
		rec := VerdictRecord{Hypothesis: v.Hypothesis.String(), Status: StatusFailed, Message: v.Message}
		if v.Proved {
			rec.Status = StatusProved
		}
		if v.HasValue {
			value := v.Value
			rec.Value = &value
		}
		records = append(records, rec)
	}
	encoded, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("encode verdicts: %w", err)
	}
	return &Run{
		ID:         id,
		CaseName:   name,
		StartedAt:  started.UTC(),
		DurationMS: elapsed.Milliseconds(),
		Terminals:  int64(terminals),
		Nodes:      int64(nodes),
		Proved:     extrema.AllProved(verdicts),
		Verdicts:   string(encoded),
	}, nil
}

// FailedHypotheses lists the hypotheses of r that were not proved.
func (r *Run) FailedHypotheses() []string {
	var out []string
	for _, h := range gjson.Get(r.Verdicts, `#(status=="`+StatusFailed+`")#.hypothesis`).Array() {
		out = append(out, h.String())
	}
	return out
}

// RecordRun stores a completed run.
func (l *Ledger) RecordRun(ctx context.Context, run *Run) error {
	_, err := l.db.NamedExecContext(ctx, `
		INSERT INTO runs (id, case_name, started_at, duration_ms, terminals, nodes, proved, verdicts)
		VALUES (:id, :case_name, :started_at, :duration_ms, :terminals, :nodes, :proved, :verdicts)
	`, run)
	if err != nil {
		return fmt.Errorf("record run %s: %w", run.ID, err)
	}
	return nil
}

// GetRun retrieves a run by id.
func (l *Ledger) GetRun(ctx context.Context, id core.RunID) (*Run, error) {
	var run Run
	err := l.db.GetContext(ctx, &run, l.db.Rebind(`
		SELECT id, case_name, started_at, duration_ms, terminals, nodes, proved, verdicts
		FROM runs
		WHERE id = ?
	`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.NewNotFoundError("run", id.String())
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// ListRuns returns the most recent runs, newest first. An empty name lists
// every case.
func (l *Ledger) ListRuns(ctx context.Context, name core.CaseName, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 20
	}
	runs := []*Run{}
	var err error
	if name == "" {
		err = l.db.SelectContext(ctx, &runs, l.db.Rebind(`
			SELECT id, case_name, started_at, duration_ms, terminals, nodes, proved, verdicts
			FROM runs
			ORDER BY started_at DESC, id DESC
			LIMIT ?
		`), limit)
	} else {
		err = l.db.SelectContext(ctx, &runs, l.db.Rebind(`
			SELECT id, case_name, started_at, duration_ms, terminals, nodes, proved, verdicts
			FROM runs
			WHERE case_name = ?
			ORDER BY started_at DESC, id DESC
			LIMIT ?
		`), name, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}
