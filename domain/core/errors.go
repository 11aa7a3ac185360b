package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound     = errors.New("resource not found")
	ErrCaseNotFound = fmt.Errorf("%w: case", ErrNotFound)

	// Parse errors
	ErrParse               = errors.New("parse error")
	ErrUnknownKeyword      = fmt.Errorf("%w: unknown keyword", ErrParse)
	ErrArity               = fmt.Errorf("%w: wrong number of arguments", ErrParse)
	ErrDuplicateHypothesis = fmt.Errorf("%w: exclusive hypothesis declared twice", ErrParse)
	ErrMalformedTable      = fmt.Errorf("%w: malformed table", ErrParse)

	// Argument errors
	ErrInvalidArgument = errors.New("invalid argument")
	ErrInvalidCase     = errors.New("invalid case")
)

// Error constructors with context
func NewParseError(line int, text string, err error) error {
	return fmt.Errorf("line %d %q: %w", line, text, err)
}

func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s %s", ErrNotFound, resource, id)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsParseError(err error) bool {
	return errors.Is(err, ErrParse)
}
