package synth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/recprobe/pkg/engine"
	"github.com/ssargent/recprobe/pkg/registry"
)

func TestGenerate_DecodesBack(t *testing.T) {
	reg, err := registry.LoadBuiltin("nav-v2")
	require.NoError(t, err)

	for _, desc := range reg.ListCandidates() {
		t.Run(desc.Name(), func(t *testing.T) {
			opts := Options{Records: 50, Start: 1000, Step: 10, Trailing: 3}
			buf, err := Generate(desc, opts)
			require.NoError(t, err)
			require.Len(t, buf, 50*desc.Size()+3)

			res := engine.Decode(buf, desc, 100)
			assert.Equal(t, engine.TruncatedTail, res.Termination)
			require.Equal(t, 50, res.RecordCount())

			ts := res.Column(0)
			assert.Equal(t, 1000.0, ts[0].Float64())
			assert.Equal(t, 1490.0, ts[49].Float64())
			want := 98.0
			if res.Records[49][2].IsFloat() {
				want = 98.5
			}
			assert.Equal(t, want, res.Records[49][2].Float64())
		})
	}
}

func TestGenerate_Integers(t *testing.T) {
	desc, err := registry.ParseFormat("D_QhhhH", "<QhhhH", nil)
	require.NoError(t, err)

	buf, err := Generate(desc, Options{Records: 3, Start: 5, Step: 1})
	require.NoError(t, err)

	res := engine.Decode(buf, desc, 10)
	assert.Equal(t, engine.EndOfBuffer, res.Termination)
	assert.Equal(t, []string{"7", "2", "4", "6", "8"}, res.Records[2].Strings())
}

func TestGenerate_Invalid(t *testing.T) {
	desc, err := registry.ParseFormat("A", "<Q", nil)
	require.NoError(t, err)
	_, err = Generate(desc, Options{Records: -1})
	assert.Error(t, err)
}
