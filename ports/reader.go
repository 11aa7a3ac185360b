package ports

import (
	"radbound/domain/core"
	"radbound/domain/proofcase"
	"radbound/internal/prawitz"
)

// CaseReaderPort loads proof cases by name
type CaseReaderPort interface {
	Load(name core.CaseName) (*proofcase.Case, error)
	List() ([]core.CaseName, error)
}

// TableStorePort persists the refined tail table
type TableStorePort interface {
	Load() (*prawitz.Bounder, error)
	Save(b *prawitz.Bounder) error
	Path() string
}
