// Package ledger records completed search runs in a SQL database.
// SQLite (modernc.org/sqlite, driver "sqlite") is the default; PostgreSQL is
// supported through lib/pq (driver "postgres").
package ledger

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	case_name   TEXT NOT NULL,
	started_at  TIMESTAMP NOT NULL,
	duration_ms BIGINT NOT NULL,
	terminals   BIGINT NOT NULL,
	nodes       BIGINT NOT NULL,
	proved      BOOLEAN NOT NULL,
	verdicts    TEXT NOT NULL
)`

const caseIndex = `CREATE INDEX IF NOT EXISTS runs_case_name ON runs (case_name, started_at)`

// Ledger is a run store backed by sqlx.
type Ledger struct {
	db *sqlx.DB
}

// Open connects to the database and creates the schema if needed.
func Open(ctx context.Context, driver, dsn string) (*Ledger, error) {
	switch driver {
	case DriverSQLite, DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported ledger driver %q", driver)
	}
	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect %s ledger: %w", driver, err)
	}
	if driver == DriverSQLite {
		// one connection keeps :memory: databases alive and serializes writers
		db.SetMaxOpenConns(1)
	}
	l := New(db)
	if err := l.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return l, nil
}

// New wraps an existing connection.
func New(db *sqlx.DB) *Ledger {
	return &Ledger{db: db}
}

// Migrate creates the runs table.
func (l *Ledger) Migrate(ctx context.Context) error {
	for _, stmt := range []string{schema, caseIndex} {
		if _, err := l.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate ledger: %w", err)
		}
	}
	return nil
}

// Close releases the connection.
func (l *Ledger) Close() error {
	return l.db.Close()
}
