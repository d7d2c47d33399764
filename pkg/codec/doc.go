// Package codec describes and unpacks fixed-size binary records.
//
// A RecordDescriptor is a hypothesis about how an unknown file is laid out: a
// byte order plus an ordered list of primitive fields. Descriptors are validated
// once, when they are built, so decoding a window of bytes against one can never
// fail on account of the layout itself.
//
// # Field Kinds
//
// Four primitive kinds are supported, each with a fixed set of widths:
//
//	signed     1, 2, 4, 8 bytes   two's complement
//	unsigned   1, 2, 4, 8 bytes
//	float      4, 8 bytes         IEEE 754 binary32 / binary64
//	half       2 bytes            IEEE 754 binary16
//
// A fifth kind, pad, marks filler bytes of any width. Padding counts towards
// the record size and shows in the layout string but is skipped on decode,
// so it never appears in a decoded record.
//
// The byte order belongs to the record, not to the field. Every multi-byte field
// in a descriptor is read with the same order.
//
// # Layout Strings
//
// Descriptors render themselves in the struct-module notation that is commonly
// used when poking at binary dumps, for example:
//
//	<QiiiH   little endian: uint64, 3 x int32, uint16   (22 bytes)
//	>Qffff   big endian:    uint64, 4 x float32         (24 bytes)
//	<3xhx    little endian: 3 pad, int16, 1 pad         (6 bytes)
//
// The registry package parses the same notation back into descriptors.
//
// # Usage
//
//	desc, err := codec.NewRecordDescriptor("A_Qiii", codec.LittleEndian,
//	    codec.FieldSpec{Name: "timestamp", Kind: codec.KindUnsigned, Width: 8},
//	    codec.FieldSpec{Name: "x", Kind: codec.KindSigned, Width: 4},
//	)
//	if err != nil {
//	    return err // *MalformedDescriptorError
//	}
//
//	rc := codec.NewRecordCodec(desc)
//	record, err := rc.Decode(window) // len(window) == desc.Size()
//
// # Values
//
// Decoded values are kept in a tagged Value so that 64-bit integers survive
// without being squeezed through a float64. Value renders in the shortest form
// that round-trips, which is what ends up in CSV exports.
//
// # Thread Safety
//
// Descriptors, codecs and decoded records are immutable after creation and safe
// to share between goroutines.
package codec
