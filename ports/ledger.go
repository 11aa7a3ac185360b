package ports

import (
	"context"

	"radbound/adapters/ledger"
	"radbound/domain/core"
)

// LedgerWriterPort provides append-only write access to completed runs
type LedgerWriterPort interface {
	RecordRun(ctx context.Context, run *ledger.Run) error
}

// LedgerReaderPort provides read-only access to recorded runs
type LedgerReaderPort interface {
	GetRun(ctx context.Context, id core.RunID) (*ledger.Run, error)
	ListRuns(ctx context.Context, name core.CaseName, limit int) ([]*ledger.Run, error)
}

// LedgerPort combines reader and writer access
type LedgerPort interface {
	LedgerWriterPort
	LedgerReaderPort
	Close() error
}
