package codec

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
)

// FieldKind is the primitive interpretation of a field's bytes
type FieldKind uint8

const (
	KindInvalid FieldKind = iota
	KindSigned
	KindUnsigned
	KindFloat
	KindHalfFloat
	// KindPad is filler: its bytes are skipped and it yields no value
	KindPad
)

// String returns the canonical name of the kind
func (k FieldKind) String() string {
	switch k {
	case KindSigned:
		return "int"
	case KindUnsigned:
		return "uint"
	case KindFloat:
		return "float"
	case KindHalfFloat:
		return "half"
	case KindPad:
		return "pad"
	default:
		return "invalid"
	}
}

// ValidWidth reports whether a field of this kind may be width bytes wide
func (k FieldKind) ValidWidth(width int) bool {
	switch k {
	case KindSigned, KindUnsigned:
		return width == 1 || width == 2 || width == 4 || width == 8
	case KindFloat:
		return width == 4 || width == 8
	case KindHalfFloat:
		return width == 2
	case KindPad:
		return width > 0
	default:
		return false
	}
}

// MarshalText implements encoding.TextMarshaler
func (k FieldKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (k *FieldKind) UnmarshalText(text []byte) error {
	parsed, err := ParseFieldKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseFieldKind accepts the canonical names plus a few common spellings
func ParseFieldKind(s string) (FieldKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "int", "signed", "signed-int", "sint", "i":
		return KindSigned, nil
	case "uint", "unsigned", "unsigned-int", "u":
		return KindUnsigned, nil
	case "float", "f", "ieee754":
		return KindFloat, nil
	case "half", "half-float", "float16", "f16":
		return KindHalfFloat, nil
	case "pad", "padding", "x":
		return KindPad, nil
	default:
		return KindInvalid, fmt.Errorf("unknown field kind %q", s)
	}
}

// ByteOrder is the record-level byte order
type ByteOrder uint8

const (
	LittleEndian ByteOrder = iota
	BigEndian
)

// String returns "little" or "big"
func (o ByteOrder) String() string {
	if o == BigEndian {
		return "big"
	}
	return "little"
}

// MarshalText implements encoding.TextMarshaler
func (o ByteOrder) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (o *ByteOrder) UnmarshalText(text []byte) error {
	parsed, err := ParseByteOrder(string(text))
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

func (o ByteOrder) binary() binary.ByteOrder {
	if o == BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// ParseByteOrder accepts "little", "big" and their usual abbreviations.
// An empty string means little endian.
func ParseByteOrder(s string) (ByteOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "little", "le", "little-endian", "<":
		return LittleEndian, nil
	case "big", "be", "big-endian", ">", "network":
		return BigEndian, nil
	default:
		return LittleEndian, fmt.Errorf("unknown byte order %q", s)
	}
}

// FieldSpec is one field within a record. A KindPad field may be unnamed.
type FieldSpec struct {
	Name  string    `json:"name" yaml:"name" toml:"name"`
	Kind  FieldKind `json:"kind" yaml:"kind" toml:"kind"`
	Width int       `json:"width" yaml:"width" toml:"width"`
}

// Code returns the struct-format code for the field, or "?" when the
// kind/width pair has no code.
func (f FieldSpec) Code() string {
	switch f.Kind {
	case KindSigned:
		switch f.Width {
		case 1:
			return "b"
		case 2:
			return "h"
		case 4:
			return "i"
		case 8:
			return "q"
		}
	case KindUnsigned:
		switch f.Width {
		case 1:
			return "B"
		case 2:
			return "H"
		case 4:
			return "I"
		case 8:
			return "Q"
		}
	case KindFloat:
		switch f.Width {
		case 4:
			return "f"
		case 8:
			return "d"
		}
	case KindHalfFloat:
		if f.Width == 2 {
			return "e"
		}
	case KindPad:
		if f.Width == 1 {
			return "x"
		}
		return strconv.Itoa(f.Width) + "x"
	}
	return "?"
}

// RecordDescriptor is a validated, immutable record layout.
// The zero value describes an empty record of size 0.
//
// Padding takes up space in the layout but is not a field: Fields, Field and
// NumFields only see value fields, while Slots lists everything in byte order.
type RecordDescriptor struct {
	name    string
	order   ByteOrder
	slots   []FieldSpec
	fields  []FieldSpec
	offsets []int
	size    int
}

// NewRecordDescriptor validates the layout and returns a descriptor.
// Validation failures are reported as *MalformedDescriptorError.
func NewRecordDescriptor(name string, order ByteOrder, fields ...FieldSpec) (RecordDescriptor, error) {
	if strings.TrimSpace(name) == "" {
		return RecordDescriptor{}, malformed(name, "descriptor name must not be empty")
	}
	if order != LittleEndian && order != BigEndian {
		return RecordDescriptor{}, malformed(name, fmt.Sprintf("unsupported byte order %d", order))
	}
	if len(fields) == 0 {
		return RecordDescriptor{}, malformed(name, "record size must be positive: no fields")
	}

	seen := make(map[string]int, len(fields))
	size := 0
	var values []FieldSpec
	var offsets []int
	for i, f := range fields {
		if f.Kind == KindPad {
			if f.Width <= 0 {
				return RecordDescriptor{}, malformed(name,
					fmt.Sprintf("padding at slot %d has non-positive width %d", i, f.Width))
			}
			size += f.Width
			continue
		}
		if f.Name == "" {
			return RecordDescriptor{}, malformed(name, fmt.Sprintf("field %d has no name", i))
		}
		if prev, dup := seen[f.Name]; dup {
			return RecordDescriptor{}, malformed(name,
				fmt.Sprintf("duplicate field name %q (fields %d and %d)", f.Name, prev, i))
		}
		seen[f.Name] = i
		if f.Width <= 0 {
			return RecordDescriptor{}, malformed(name,
				fmt.Sprintf("field %q has non-positive width %d", f.Name, f.Width))
		}
		if !f.Kind.ValidWidth(f.Width) {
			return RecordDescriptor{}, malformed(name,
				fmt.Sprintf("field %q: width %d is not valid for kind %s", f.Name, f.Width, f.Kind))
		}
		values = append(values, f)
		offsets = append(offsets, size)
		size += f.Width
	}
	if len(values) == 0 {
		return RecordDescriptor{}, malformed(name, "record has only padding, no value fields")
	}

	return RecordDescriptor{
		name:    name,
		order:   order,
		slots:   append([]FieldSpec(nil), fields...),
		fields:  values,
		offsets: offsets,
		size:    size,
	}, nil
}

// Name returns the stable identifying name
func (d RecordDescriptor) Name() string { return d.name }

// Order returns the record byte order
func (d RecordDescriptor) Order() ByteOrder { return d.order }

// Size returns the record size in bytes
func (d RecordDescriptor) Size() int { return d.size }

// NumFields returns the record arity
func (d RecordDescriptor) NumFields() int { return len(d.fields) }

// Field returns the i-th field
func (d RecordDescriptor) Field(i int) FieldSpec { return d.fields[i] }

// Fields returns a copy of the field list
func (d RecordDescriptor) Fields() []FieldSpec {
	return append([]FieldSpec(nil), d.fields...)
}

// Offset returns the byte offset of the i-th field within a record
func (d RecordDescriptor) Offset(i int) int { return d.offsets[i] }

// Slots returns a copy of the full layout, padding included
func (d RecordDescriptor) Slots() []FieldSpec {
	return append([]FieldSpec(nil), d.slots...)
}

// FieldNames returns the column names in field order
func (d RecordDescriptor) FieldNames() []string {
	names := make([]string, len(d.fields))
	for i, f := range d.fields {
		names[i] = f.Name
	}
	return names
}

// FieldIndex returns the position of the named field, or -1
func (d RecordDescriptor) FieldIndex(name string) int {
	for i, f := range d.fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// Layout renders the descriptor in struct-format notation, e.g. "<QiiiH"
func (d RecordDescriptor) Layout() string {
	var b strings.Builder
	if d.order == BigEndian {
		b.WriteByte('>')
	} else {
		b.WriteByte('<')
	}
	for _, f := range d.slots {
		b.WriteString(f.Code())
	}
	return b.String()
}

// String implements fmt.Stringer
func (d RecordDescriptor) String() string {
	return fmt.Sprintf("%s(%s, %d bytes)", d.name, d.Layout(), d.size)
}
