package codec

import (
	"fmt"
	"math"

	"github.com/x448/float16"
)

// RecordCodec unpacks and packs windows of exactly one record
type RecordCodec struct {
	desc RecordDescriptor
}

// NewRecordCodec creates a codec for the given descriptor
func NewRecordCodec(desc RecordDescriptor) *RecordCodec {
	return &RecordCodec{desc: desc}
}

// Descriptor returns the layout the codec works with
func (c *RecordCodec) Descriptor() RecordDescriptor {
	return c.desc
}

// Decode unpacks one window. The window must be exactly Size() bytes; fields
// are read in descriptor order and padding is skipped.
func (c *RecordCodec) Decode(window []byte) (Record, error) {
	if len(window) != c.desc.size {
		return nil, fmt.Errorf("%w: %d != %d", ErrWindowSize, len(window), c.desc.size)
	}

	record := make(Record, len(c.desc.fields))
	for i, f := range c.desc.fields {
		offset := c.desc.offsets[i]
		v, err := unpackField(c.desc.order, f, window[offset:offset+f.Width])
		if err != nil {
			return nil, fmt.Errorf("field %q at offset %d: %w", f.Name, offset, err)
		}
		record[i] = v
	}
	return record, nil
}

// Encode packs one value per field into a new window. Values are converted to
// the field's kind, so Int(3) encodes fine into a float field.
func (c *RecordCodec) Encode(values ...Value) ([]byte, error) {
	return c.AppendEncode(make([]byte, 0, c.desc.size), values...)
}

// AppendEncode is Encode appending to dst. Padding is written as zero bytes.
func (c *RecordCodec) AppendEncode(dst []byte, values ...Value) ([]byte, error) {
	if len(values) != len(c.desc.fields) {
		return nil, fmt.Errorf("%w: %d != %d", ErrValueCount, len(values), len(c.desc.fields))
	}

	start := len(dst)
	dst = append(dst, make([]byte, c.desc.size)...)
	window := dst[start:]
	for i, f := range c.desc.fields {
		offset := c.desc.offsets[i]
		if err := packField(c.desc.order, f, window[offset:offset+f.Width], values[i]); err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}
	}
	return dst, nil
}

func unpackField(order ByteOrder, f FieldSpec, b []byte) (Value, error) {
	bo := order.binary()
	switch f.Kind {
	case KindSigned:
		switch f.Width {
		case 1:
			return Int(int64(int8(b[0]))), nil
		case 2:
			return Int(int64(int16(bo.Uint16(b)))), nil
		case 4:
			return Int(int64(int32(bo.Uint32(b)))), nil
		case 8:
			return Int(int64(bo.Uint64(b))), nil
		}
	case KindUnsigned:
		switch f.Width {
		case 1:
			return Uint(uint64(b[0])), nil
		case 2:
			return Uint(uint64(bo.Uint16(b))), nil
		case 4:
			return Uint(uint64(bo.Uint32(b))), nil
		case 8:
			return Uint(bo.Uint64(b)), nil
		}
	case KindFloat:
		switch f.Width {
		case 4:
			return Float32(math.Float32frombits(bo.Uint32(b))), nil
		case 8:
			return Float(math.Float64frombits(bo.Uint64(b))), nil
		}
	case KindHalfFloat:
		if f.Width == 2 {
			return Half(float16.Frombits(bo.Uint16(b)).Float32()), nil
		}
	}
	return Value{}, fmt.Errorf("cannot unpack %s of width %d", f.Kind, f.Width)
}

func packField(order ByteOrder, f FieldSpec, b []byte, v Value) error {
	bo := order.binary()
	switch f.Kind {
	case KindSigned, KindUnsigned:
		var u uint64
		if f.Kind == KindSigned {
			u = uint64(v.Int64())
		} else {
			u = v.Uint64()
		}
		switch f.Width {
		case 1:
			b[0] = byte(u)
			return nil
		case 2:
			bo.PutUint16(b, uint16(u))
			return nil
		case 4:
			bo.PutUint32(b, uint32(u))
			return nil
		case 8:
			bo.PutUint64(b, u)
			return nil
		}
	case KindFloat:
		switch f.Width {
		case 4:
			bo.PutUint32(b, math.Float32bits(float32(v.Float64())))
			return nil
		case 8:
			bo.PutUint64(b, math.Float64bits(v.Float64()))
			return nil
		}
	case KindHalfFloat:
		if f.Width == 2 {
			bo.PutUint16(b, float16.Fromfloat32(float32(v.Float64())).Bits())
			return nil
		}
	}
	return fmt.Errorf("cannot pack %s of width %d", f.Kind, f.Width)
}
