package registry

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownCandidate matches *UnknownCandidateError
	ErrUnknownCandidate = errors.New("unknown candidate")
	// ErrUnknownSet is returned for a builtin set name that does not exist
	ErrUnknownSet = errors.New("unknown candidate set")
	// ErrUnsupportedTable is returned for candidate files with an unknown extension
	ErrUnsupportedTable = errors.New("unsupported candidate table format")
	// ErrInvalidSweep is returned for a sweep with a bad block size or code
	ErrInvalidSweep = errors.New("invalid sweep")
)

// UnknownCandidateError names a candidate that is not in the registry
type UnknownCandidateError struct {
	Name string
}

func (e *UnknownCandidateError) Error() string {
	return fmt.Sprintf("unknown candidate %q", e.Name)
}

func (e *UnknownCandidateError) Is(target error) bool {
	return target == ErrUnknownCandidate
}
