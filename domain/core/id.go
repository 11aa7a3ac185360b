package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	RunID    ID
	CaseName ID
)

func (id RunID) String() string    { return ID(id).String() }
func (id CaseName) String() string { return ID(id).String() }

// NewRunID creates a time-ordered identifier for one search run.
func NewRunID() RunID {
	return RunID(NewID())
}

// ParseCaseName validates a case name as typed on the command surface.
// Names map to files, so path separators are rejected.
func ParseCaseName(s string) (CaseName, error) {
	name := strings.TrimSpace(s)
	if name == "" {
		return "", fmt.Errorf("%w: case name cannot be empty", ErrInvalidArgument)
	}
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return "", fmt.Errorf("%w: case name %q must not contain path elements", ErrInvalidArgument, name)
	}
	return CaseName(name), nil
}
