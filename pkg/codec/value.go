package codec

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Value is one decoded field. Integers keep their full 64-bit range; floats are
// widened to float64 but remember their source width for formatting.
type Value struct {
	kind  FieldKind
	width uint8
	bits  uint64
}

// Int builds a signed value
func Int(v int64) Value {
	return Value{kind: KindSigned, width: 8, bits: uint64(v)}
}

// Uint builds an unsigned value
func Uint(v uint64) Value {
	return Value{kind: KindUnsigned, width: 8, bits: v}
}

// Float builds a 64-bit float value
func Float(v float64) Value {
	return Value{kind: KindFloat, width: 8, bits: math.Float64bits(v)}
}

// Float32 builds a 32-bit float value
func Float32(v float32) Value {
	return Value{kind: KindFloat, width: 4, bits: math.Float64bits(float64(v))}
}

// Half builds a half-precision value from its float32 expansion
func Half(v float32) Value {
	return Value{kind: KindHalfFloat, width: 2, bits: math.Float64bits(float64(v))}
}

// Kind returns the kind the value was decoded as
func (v Value) Kind() FieldKind { return v.kind }

// IsFloat reports whether the value came from a float or half field
func (v Value) IsFloat() bool {
	return v.kind == KindFloat || v.kind == KindHalfFloat
}

// Int64 returns the value as int64. Floats are truncated toward zero and
// unsigned values above MaxInt64 wrap.
func (v Value) Int64() int64 {
	switch v.kind {
	case KindFloat, KindHalfFloat:
		return int64(math.Float64frombits(v.bits))
	default:
		return int64(v.bits)
	}
}

// Uint64 returns the value as uint64. Negative values wrap.
func (v Value) Uint64() uint64 {
	switch v.kind {
	case KindFloat, KindHalfFloat:
		return uint64(math.Float64frombits(v.bits))
	default:
		return v.bits
	}
}

// Float64 returns the value as float64
func (v Value) Float64() float64 {
	switch v.kind {
	case KindSigned:
		return float64(int64(v.bits))
	case KindUnsigned:
		return float64(v.bits)
	case KindFloat, KindHalfFloat:
		return math.Float64frombits(v.bits)
	default:
		return 0
	}
}

// IsFinite is false for NaN and infinities
func (v Value) IsFinite() bool {
	if !v.IsFloat() {
		return true
	}
	f := math.Float64frombits(v.bits)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// String renders the shortest representation that round-trips at the
// value's source width.
func (v Value) String() string {
	switch v.kind {
	case KindSigned:
		return strconv.FormatInt(int64(v.bits), 10)
	case KindUnsigned:
		return strconv.FormatUint(v.bits, 10)
	case KindFloat, KindHalfFloat:
		f := math.Float64frombits(v.bits)
		bitSize := 64
		if v.width <= 4 {
			bitSize = 32
		}
		return strconv.FormatFloat(f, 'g', -1, bitSize)
	default:
		return ""
	}
}

// MarshalJSON writes integers and finite floats as JSON numbers. NaN and the
// infinities have no JSON number form and are written as strings.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.IsFinite() {
		return []byte(strconv.Quote(v.String())), nil
	}
	if v.kind == KindInvalid {
		return []byte("null"), nil
	}
	return []byte(v.String()), nil
}

// UnmarshalJSON reads the forms written by MarshalJSON. The source kind is
// not stored, so numbers come back as Int, Uint or Float by their syntax.
func (v *Value) UnmarshalJSON(data []byte) error {
	text := string(data)
	switch {
	case text == "null":
		*v = Value{}
		return nil
	case strings.HasPrefix(text, `"`):
		unq, err := strconv.Unquote(text)
		if err != nil {
			return err
		}
		text = unq
	case !strings.ContainsAny(text, ".eE"):
		if strings.HasPrefix(text, "-") {
			if i, err := strconv.ParseInt(text, 10, 64); err == nil {
				*v = Int(i)
				return nil
			}
		} else if u, err := strconv.ParseUint(text, 10, 64); err == nil {
			*v = Uint(u)
			return nil
		}
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return fmt.Errorf("invalid value %q: %w", data, err)
	}
	*v = Float(f)
	return nil
}

// Record is one decoded record, one value per descriptor field in field order
type Record []Value

// Strings renders every value with Value.String
func (r Record) Strings() []string {
	out := make([]string, len(r))
	for i, v := range r {
		out[i] = v.String()
	}
	return out
}

// Equal reports whether both records hold identical values
func (r Record) Equal(other Record) bool {
	if len(r) != len(other) {
		return false
	}
	for i := range r {
		if r[i] != other[i] {
			return false
		}
	}
	return true
}
