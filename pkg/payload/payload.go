// Package payload reads the byte range handed to the decode engine
package payload

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrOffsetPastEnd is returned when the requested offset is beyond the input
var ErrOffsetPastEnd = errors.New("offset past end of input")

// Range selects part of an input: skip Offset bytes, then keep at most Length
// bytes. Length 0 keeps everything after Offset.
type Range struct {
	Offset int64
	Length int
}

// Validate checks the range for negative values
func (r Range) Validate() error {
	if r.Offset < 0 {
		return fmt.Errorf("offset must not be negative: %d", r.Offset)
	}
	if r.Length < 0 {
		return fmt.Errorf("length must not be negative: %d", r.Length)
	}
	return nil
}

// ReadFile loads the selected range of the file at path
func ReadFile(path string, r Range) ([]byte, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat input: %w", err)
	}
	if r.Offset > info.Size() {
		return nil, fmt.Errorf("%w: offset %d, size %d", ErrOffsetPastEnd, r.Offset, info.Size())
	}
	if _, err := f.Seek(r.Offset, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to seek input: %w", err)
	}

	var src io.Reader = f
	if r.Length > 0 {
		src = io.LimitReader(f, int64(r.Length))
	}
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return data, nil
}

// Slice applies r to an in-memory buffer without copying
func Slice(buf []byte, r Range) ([]byte, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if r.Offset > int64(len(buf)) {
		return nil, fmt.Errorf("%w: offset %d, size %d", ErrOffsetPastEnd, r.Offset, len(buf))
	}
	out := buf[r.Offset:]
	if r.Length > 0 && r.Length < len(out) {
		out = out[:r.Length]
	}
	return out, nil
}
