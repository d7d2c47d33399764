package registry

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ssargent/recprobe/pkg/codec"
)

const (
	// DefaultSweepCodes are the primitive types tried at every offset of a
	// block: int16, uint16, int32, uint32, float32 and float16
	DefaultSweepCodes = "hHiIfe"

	// MaxSweepBlock bounds the block size of a sweep
	MaxSweepBlock = 4096

	sweepPrefix = "sweep-"
)

var sweepOrders = []struct {
	label string
	order codec.ByteOrder
}{
	{"le", codec.LittleEndian},
	{"be", codec.BigEndian},
}

// Sweep returns one candidate per (code, byte order, offset) for a block of
// blockSize bytes. Each candidate decodes a single field named "value" at its
// offset and pads the rest of the block, so decoding a file with it yields one
// value per block. Candidates are ordered by code, then little before big
// endian, then offset, and named sweep_<code>_<le|be>_<offset>.
//
// An empty codes string means DefaultSweepCodes. Pad and unknown codes are
// rejected, and a code wider than the block yields no candidates.
func Sweep(blockSize int, codes string) ([]CandidateSpec, error) {
	if blockSize <= 0 || blockSize > MaxSweepBlock {
		return nil, fmt.Errorf("%w: block size must be between 1 and %d, got %d", ErrInvalidSweep, MaxSweepBlock, blockSize)
	}
	if codes == "" {
		codes = DefaultSweepCodes
	}

	var specs []CandidateSpec
	seen := make(map[rune]bool, len(codes))
	for _, r := range codes {
		code, ok := formatCodes[r]
		if !ok || code.kind == codec.KindPad {
			return nil, fmt.Errorf("%w: unsupported code %q", ErrInvalidSweep, r)
		}
		if seen[r] {
			continue
		}
		seen[r] = true

		for _, o := range sweepOrders {
			for offset := 0; offset+code.width <= blockSize; offset++ {
				specs = append(specs, sweepSpec(r, code.kind, code.width, o.label, o.order, offset, blockSize))
			}
		}
	}
	return specs, nil
}

func sweepSpec(r rune, kind codec.FieldKind, width int, label string, order codec.ByteOrder, offset, blockSize int) CandidateSpec {
	spec := CandidateSpec{
		Name:      fmt.Sprintf("sweep_%c_%s_%d", r, label, offset),
		ByteOrder: order.String(),
	}
	if offset > 0 {
		spec.Fields = append(spec.Fields, FieldEntry{Kind: codec.KindPad.String(), Width: offset})
	}
	spec.Fields = append(spec.Fields, FieldEntry{Name: "value", Kind: kind.String(), Width: width})
	if tail := blockSize - offset - width; tail > 0 {
		spec.Fields = append(spec.Fields, FieldEntry{Kind: codec.KindPad.String(), Width: tail})
	}
	return spec
}

// LoadSweep loads the candidates of Sweep into a registry
func LoadSweep(blockSize int, codes string) (*Registry, error) {
	specs, err := Sweep(blockSize, codes)
	if err != nil {
		return nil, err
	}
	return Load(specs)
}

// SweepSetName returns the candidate set name that resolves to a sweep, for
// example "sweep-33" or "sweep-33-fe"
func SweepSetName(blockSize int, codes string) string {
	if codes == "" || codes == DefaultSweepCodes {
		return sweepPrefix + strconv.Itoa(blockSize)
	}
	return sweepPrefix + strconv.Itoa(blockSize) + "-" + codes
}

// ParseSweepSet is the inverse of SweepSetName. ok is false when name is not
// a sweep set name at all.
func ParseSweepSet(name string) (blockSize int, codes string, ok bool) {
	rest, found := strings.CutPrefix(name, sweepPrefix)
	if !found {
		return 0, "", false
	}
	size, codes, _ := strings.Cut(rest, "-")
	blockSize, err := strconv.Atoi(size)
	if err != nil {
		return 0, "", false
	}
	return blockSize, codes, true
}
