package codec

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedDescriptor matches every *MalformedDescriptorError via errors.Is
	ErrMalformedDescriptor = errors.New("malformed descriptor")
	// ErrWindowSize is returned when a window does not match the record size
	ErrWindowSize = errors.New("window size does not match record size")
	// ErrValueCount is returned by Encode when the value count differs from the arity
	ErrValueCount = errors.New("value count does not match field count")
)

// MalformedDescriptorError names a rejected descriptor and the violated invariant
type MalformedDescriptorError struct {
	Descriptor string
	Reason     string
}

func (e *MalformedDescriptorError) Error() string {
	return fmt.Sprintf("malformed descriptor %q: %s", e.Descriptor, e.Reason)
}

// Is makes errors.Is(err, ErrMalformedDescriptor) succeed
func (e *MalformedDescriptorError) Is(target error) bool {
	return target == ErrMalformedDescriptor
}

func malformed(name, reason string) error {
	return &MalformedDescriptorError{Descriptor: name, Reason: reason}
}

// Malformed builds a *MalformedDescriptorError for callers that validate
// descriptor sources (format strings, candidate tables) outside this package.
func Malformed(name, format string, args ...any) error {
	return malformed(name, fmt.Sprintf(format, args...))
}
