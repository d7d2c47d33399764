package registry

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/ssargent/recprobe/pkg/codec"
)

// formatCodes maps struct-format codes to kind and width. Sizes are the
// standard (unpadded) sizes.
var formatCodes = map[rune]struct {
	kind  codec.FieldKind
	width int
}{
	'b': {codec.KindSigned, 1},
	'B': {codec.KindUnsigned, 1},
	'h': {codec.KindSigned, 2},
	'H': {codec.KindUnsigned, 2},
	'i': {codec.KindSigned, 4},
	'I': {codec.KindUnsigned, 4},
	'l': {codec.KindSigned, 4},
	'L': {codec.KindUnsigned, 4},
	'q': {codec.KindSigned, 8},
	'Q': {codec.KindUnsigned, 8},
	'e': {codec.KindHalfFloat, 2},
	'f': {codec.KindFloat, 4},
	'd': {codec.KindFloat, 8},
	'x': {codec.KindPad, 1},
}

// ParseFormat builds a descriptor from a struct-style format string such as
// "<QiiiH" or ">Q3f". Whitespace is ignored; a leading '<' or '=' selects little
// endian, '>' or '!' big endian, and no prefix means little endian. Columns name
// the fields in order; when empty, fields are named field_0, field_1, ...
//
// The pad code 'x' skips one filler byte, "4x" skips four. Padding takes no
// column name and is not counted as a field.
//
// Every problem is reported as *codec.MalformedDescriptorError for name.
func ParseFormat(name, format string, columns []string) (codec.RecordDescriptor, error) {
	return parseFormat(name, format, columns, codec.LittleEndian)
}

func parseFormat(name, format string, columns []string, defaultOrder codec.ByteOrder) (codec.RecordDescriptor, error) {
	spec := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, format)
	if spec == "" {
		return codec.RecordDescriptor{}, codec.Malformed(name, "empty format string")
	}

	order := defaultOrder
	switch spec[0] {
	case '<', '=':
		order = codec.LittleEndian
		spec = spec[1:]
	case '>', '!':
		order = codec.BigEndian
		spec = spec[1:]
	case '@':
		return codec.RecordDescriptor{}, codec.Malformed(name,
			"native alignment '@' is not supported, use '<' or '>'")
	}

	var kinds []codec.FieldSpec
	count := -1
	for pos, r := range spec {
		if r >= '0' && r <= '9' {
			if count < 0 {
				count = 0
			}
			count = count*10 + int(r-'0')
			if count > 4096 {
				return codec.RecordDescriptor{}, codec.Malformed(name, "repeat count too large at offset %d", pos)
			}
			continue
		}
		code, ok := formatCodes[r]
		if !ok {
			return codec.RecordDescriptor{}, codec.Malformed(name, "unsupported format code %q at offset %d", r, pos)
		}
		n := 1
		if count >= 0 {
			n = count
		}
		count = -1
		if code.kind == codec.KindPad {
			if n > 0 {
				kinds = append(kinds, codec.FieldSpec{Kind: codec.KindPad, Width: n})
			}
			continue
		}
		for i := 0; i < n; i++ {
			kinds = append(kinds, codec.FieldSpec{Kind: code.kind, Width: code.width})
		}
	}
	if count >= 0 {
		return codec.RecordDescriptor{}, codec.Malformed(name, "format %q ends with a dangling repeat count", format)
	}
	var values []int
	for i, k := range kinds {
		if k.Kind != codec.KindPad {
			values = append(values, i)
		}
	}
	if len(values) == 0 {
		return codec.RecordDescriptor{}, codec.Malformed(name, "record size must be positive: format %q has no fields", format)
	}

	if len(columns) == 0 {
		for n, i := range values {
			kinds[i].Name = fmt.Sprintf("field_%d", n)
		}
	} else {
		if len(columns) != len(values) {
			return codec.RecordDescriptor{}, codec.Malformed(name,
				"format %q has %d fields but %d column names", format, len(values), len(columns))
		}
		for n, i := range values {
			kinds[i].Name = strings.TrimSpace(columns[n])
		}
	}

	return codec.NewRecordDescriptor(name, order, kinds...)
}
