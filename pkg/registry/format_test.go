package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/recprobe/pkg/codec"
)

func TestParseFormat(t *testing.T) {
	testCases := []struct {
		format string
		order  codec.ByteOrder
		layout string
		size   int
	}{
		{"<Qiii", codec.LittleEndian, "<Qiii", 20},
		{"<QiiiH", codec.LittleEndian, "<QiiiH", 22},
		{">Qffff", codec.BigEndian, ">Qffff", 24},
		{"<Qddd f", codec.LittleEndian, "<Qdddf", 36},
		{"!Hh", codec.BigEndian, ">Hh", 4},
		{"=bB", codec.LittleEndian, "<bB", 2},
		{"Q3f", codec.LittleEndian, "<Qfff", 20},
		{"<2e l L", codec.LittleEndian, "<eeiI", 12},
		{"<Q0fI", codec.LittleEndian, "<QI", 12},
		{"<xh", codec.LittleEndian, "<xh", 3},
		{">3xI2x", codec.BigEndian, ">3xI2x", 9},
		{"<e xx", codec.LittleEndian, "<exx", 4},
		{"<0xf", codec.LittleEndian, "<f", 4},
	}

	for _, tc := range testCases {
		t.Run(tc.format, func(t *testing.T) {
			desc, err := ParseFormat("cand", tc.format, nil)
			require.NoError(t, err)
			assert.Equal(t, tc.order, desc.Order())
			assert.Equal(t, tc.layout, desc.Layout())
			assert.Equal(t, tc.size, desc.Size())
			assert.Equal(t, "field_0", desc.Field(0).Name)
		})
	}
}

func TestParseFormat_Columns(t *testing.T) {
	desc, err := ParseFormat("B_QiiiH", "<QiiiH", []string{"timestamp", "x", "y", "z", "quality"})
	require.NoError(t, err)
	assert.Equal(t, []string{"timestamp", "x", "y", "z", "quality"}, desc.FieldNames())
	assert.Equal(t, codec.KindUnsigned, desc.Field(0).Kind)
	assert.Equal(t, codec.KindSigned, desc.Field(1).Kind)
	assert.Equal(t, 2, desc.Field(4).Width)
}

func TestParseFormat_Malformed(t *testing.T) {
	testCases := []struct {
		name    string
		format  string
		columns []string
		reason  string
	}{
		{"empty", "  ", nil, "empty format string"},
		{"native alignment", "@Qi", nil, "native alignment"},
		{"unknown code", "<Qz", nil, "unsupported format code"},
		{"only padding", "<4x", nil, "has no fields"},
		{"dangling count", "<Q3", nil, "dangling repeat count"},
		{"prefix only", ">", nil, "has no fields"},
		{"column mismatch", "<Qi", []string{"timestamp"}, "2 fields but 1 column names"},
		{"duplicate columns", "<ii", []string{"x", "x"}, "duplicate field name"},
		{"huge count", "<99999i", nil, "repeat count too large"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseFormat("bad_"+tc.name, tc.format, tc.columns)
			require.Error(t, err)
			assert.ErrorIs(t, err, codec.ErrMalformedDescriptor)
			assert.Contains(t, err.Error(), "bad_"+tc.name)
			assert.Contains(t, err.Error(), tc.reason)
		})
	}
}

func TestParseFormat_Padding(t *testing.T) {
	desc, err := ParseFormat("padded", "<2xHx4xf", []string{"seq", "value"})
	require.NoError(t, err)
	assert.Equal(t, 13, desc.Size())
	assert.Equal(t, 2, desc.NumFields())
	assert.Equal(t, []string{"seq", "value"}, desc.FieldNames())
	assert.Equal(t, 2, desc.Offset(0))
	assert.Equal(t, 9, desc.Offset(1))
	assert.Equal(t, "<2xHx4xf", desc.Layout())

	window := []byte{0xff, 0xff, 0x2a, 0x00, 0xee, 0xee, 0xee, 0xee, 0xee, 0x00, 0x00, 0xc0, 0x3f}
	rec, err := codec.NewRecordCodec(desc).Decode(window)
	require.NoError(t, err)
	require.Len(t, rec, 2)
	assert.Equal(t, "42", rec[0].String())
	assert.Equal(t, 1.5, rec[1].Float64())

	_, err = ParseFormat("padded", "<xHx", []string{"seq", "pad"})
	assert.ErrorContains(t, err, "1 fields but 2 column names")
}
