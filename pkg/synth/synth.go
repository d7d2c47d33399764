// Package synth writes synthetic record streams for a candidate layout. The
// output is a known-good input for trying candidates and for demos.
package synth

import (
	"fmt"

	"github.com/ssargent/recprobe/pkg/codec"
)

// Options controls the generated stream
type Options struct {
	Records int
	// Start and Step define field 0, the timestamp: Start + i*Step
	Start uint64
	Step  uint64
	// Trailing appends this many 0xFF bytes after the last record
	Trailing int
}

// DefaultOptions returns 1000 records with timestamps 1700000000000 + 100*i
func DefaultOptions() Options {
	return Options{Records: 1000, Start: 1_700_000_000_000, Step: 100}
}

// Row returns the values of record i. Field 0 is the timestamp and field j
// holds i*j, plus j/4 for float kinds.
func Row(desc codec.RecordDescriptor, opts Options, i int) []codec.Value {
	row := make([]codec.Value, desc.NumFields())
	for j := range row {
		f := desc.Field(j)
		if j == 0 {
			row[j] = codec.Uint(opts.Start + uint64(i)*opts.Step)
			continue
		}
		switch f.Kind {
		case codec.KindFloat, codec.KindHalfFloat:
			row[j] = codec.Float(float64(i*j) + float64(j)/4)
		default:
			row[j] = codec.Int(int64(i * j))
		}
	}
	return row
}

// Generate encodes opts.Records rows of desc
func Generate(desc codec.RecordDescriptor, opts Options) ([]byte, error) {
	if opts.Records < 0 || opts.Trailing < 0 {
		return nil, fmt.Errorf("records and trailing must not be negative")
	}

	rc := codec.NewRecordCodec(desc)
	buf := make([]byte, 0, opts.Records*desc.Size()+opts.Trailing)
	var err error
	for i := 0; i < opts.Records; i++ {
		buf, err = rc.AppendEncode(buf, Row(desc, opts, i)...)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
	}
	for i := 0; i < opts.Trailing; i++ {
		buf = append(buf, 0xFF)
	}
	return buf, nil
}
