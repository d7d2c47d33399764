// Package engine decodes raw byte buffers against candidate record layouts.
//
// Decode is a pure function of (buffer, descriptor, budget): it never mutates
// the buffer, keeps no state between calls and never fails. A wrong layout
// shows up as implausible values or an early ZeroRecords/TruncatedTail
// outcome, which is for a human to judge.
package engine

import (
	"github.com/ssargent/recprobe/pkg/codec"
)

// Result is the outcome of decoding one buffer against one descriptor
type Result struct {
	Descriptor  codec.RecordDescriptor
	Records     []codec.Record
	Termination Termination

	// BytesConsumed is the number of bytes covered by decoded records
	BytesConsumed int
	// TrailingBytes is the number of bytes left after the last decoded record
	TrailingBytes int
}

// RecordCount returns the number of decoded records
func (r Result) RecordCount() int {
	return len(r.Records)
}

// Column returns the i-th value of every record, in record order
func (r Result) Column(i int) []codec.Value {
	out := make([]codec.Value, len(r.Records))
	for n, rec := range r.Records {
		out[n] = rec[i]
	}
	return out
}

// Decode partitions buffer into consecutive windows of the descriptor's record
// size, starting at offset 0, and unpacks at most budget of them.
//
// After each record the checks run in this order: buffer exactly exhausted
// (EndOfBuffer), budget used up (ReachedBudget), fewer than a record's bytes
// left (TruncatedTail). A descriptor of size 0 or larger than the buffer, or a
// non-positive budget, yields ZeroRecords. If a window fails to unpack,
// decoding stops and the records decoded so far are kept with TruncatedTail.
func Decode(buffer []byte, desc codec.RecordDescriptor, budget int) Result {
	res := Result{
		Descriptor:    desc,
		Termination:   ZeroRecords,
		TrailingBytes: len(buffer),
	}

	size := desc.Size()
	if size == 0 || size > len(buffer) || budget <= 0 {
		return res
	}

	capacity := len(buffer) / size
	if capacity > budget {
		capacity = budget
	}
	res.Records = make([]codec.Record, 0, capacity)

	rc := codec.NewRecordCodec(desc)
	cursor := 0
	for {
		record, err := rc.Decode(buffer[cursor : cursor+size])
		if err != nil {
			res.Termination = TruncatedTail
			break
		}
		res.Records = append(res.Records, record)
		cursor += size

		if cursor == len(buffer) {
			res.Termination = EndOfBuffer
			break
		}
		if len(res.Records) == budget {
			res.Termination = ReachedBudget
			break
		}
		if len(buffer)-cursor < size {
			res.Termination = TruncatedTail
			break
		}
	}

	if len(res.Records) == 0 {
		res.Termination = ZeroRecords
	}
	res.BytesConsumed = cursor
	res.TrailingBytes = len(buffer) - cursor
	return res
}
