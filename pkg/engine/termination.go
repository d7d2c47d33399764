package engine

import "fmt"

// Termination explains why decoding of one candidate stopped. It is an
// outcome, not an error.
type Termination uint8

const (
	// ZeroRecords means not even one full record could be decoded
	ZeroRecords Termination = iota
	// TruncatedTail means at least one record decoded and fewer than a
	// record's worth of bytes were left, or unpacking stopped early
	TruncatedTail
	// EndOfBuffer means the buffer ended exactly on a record boundary
	EndOfBuffer
	// ReachedBudget means the record budget was used up before the buffer
	ReachedBudget
)

var terminationNames = [...]string{
	ZeroRecords:   "ZeroRecords",
	TruncatedTail: "TruncatedTail",
	EndOfBuffer:   "EndOfBuffer",
	ReachedBudget: "ReachedBudget",
}

func (t Termination) String() string {
	if int(t) < len(terminationNames) {
		return terminationNames[t]
	}
	return fmt.Sprintf("Termination(%d)", t)
}

// MarshalText implements encoding.TextMarshaler
func (t Termination) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (t *Termination) UnmarshalText(text []byte) error {
	for i, name := range terminationNames {
		if name == string(text) {
			*t = Termination(i)
			return nil
		}
	}
	return fmt.Errorf("unknown termination %q", text)
}
