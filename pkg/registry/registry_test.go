package registry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/recprobe/pkg/codec"
)

func TestLoad_IsolatesMalformedCandidates(t *testing.T) {
	specs := []CandidateSpec{
		{Name: "good_first", Format: "<Qiii", Columns: []string{"timestamp", "x", "y", "z"}},
		{Name: "dup_x", Format: "<ii", Columns: []string{"x", "x"}},
		{Name: "good_second", Format: ">Qff", Columns: []string{"timestamp", "a", "b"}},
	}

	reg, err := Load(specs)
	require.NotNil(t, reg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, codec.ErrMalformedDescriptor))

	var mde *codec.MalformedDescriptorError
	require.True(t, errors.As(err, &mde))
	assert.Equal(t, "dup_x", mde.Descriptor)
	assert.Contains(t, mde.Reason, `duplicate field name "x"`)

	candidates := reg.ListCandidates()
	require.Len(t, candidates, 2)
	assert.Equal(t, "good_first", candidates[0].Name())
	assert.Equal(t, "good_second", candidates[1].Name())

	failures := reg.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, "dup_x", failures[0].Name)

	entries := reg.Entries()
	require.Len(t, entries, 3)
	assert.True(t, entries[0].OK())
	assert.False(t, entries[1].OK())
	assert.True(t, entries[2].OK())
}

func TestLoad_AllValid(t *testing.T) {
	reg, err := Load([]CandidateSpec{
		{Name: "a", Format: "<Q"},
		{Name: "b", Fields: []FieldEntry{{Name: "h", Kind: "half", Width: 2}}, ByteOrder: "big"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, reg.Len())
	assert.Empty(t, reg.Failures())

	b, ok := reg.Lookup("b")
	require.True(t, ok)
	assert.Equal(t, codec.BigEndian, b.Order())
	assert.Equal(t, ">e", b.Layout())
}

func TestLoad_OrderIsStable(t *testing.T) {
	specs, err := BuiltinSet("nav-v2")
	require.NoError(t, err)

	first, err := Load(specs)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := Load(specs)
		require.NoError(t, err)
		assert.Equal(t, names(first.ListCandidates()), names(again.ListCandidates()))
	}
}

func TestLoad_DuplicateCandidateName(t *testing.T) {
	reg, err := Load([]CandidateSpec{
		{Name: "same", Format: "<I"},
		{Name: "same", Format: "<H"},
	})
	require.Error(t, err)
	assert.Equal(t, 1, reg.Len())

	got, ok := reg.Lookup("same")
	require.True(t, ok)
	assert.Equal(t, 4, got.Size(), "first definition wins")
	assert.Contains(t, reg.Failures()[0].Err.Error(), "duplicate candidate name")
}

func TestCandidateSpec_Build(t *testing.T) {
	testCases := []struct {
		name    string
		spec    CandidateSpec
		layout  string
		wantErr string
	}{
		{
			name:   "format",
			spec:   CandidateSpec{Name: "f", Format: "<QiiiH"},
			layout: "<QiiiH",
		},
		{
			name:   "format inherits byte order",
			spec:   CandidateSpec{Name: "f", Format: "Qf", ByteOrder: "big"},
			layout: ">Qf",
		},
		{
			name: "explicit fields",
			spec: CandidateSpec{Name: "e", Fields: []FieldEntry{
				{Name: "ts", Kind: "uint", Width: 8},
				{Name: "v", Kind: "float", Width: 4},
			}},
			layout: "<Qf",
		},
		{
			name:    "both forms",
			spec:    CandidateSpec{Name: "both", Format: "<I", Fields: []FieldEntry{{Name: "a", Kind: "int", Width: 4}}},
			wantErr: "both format and fields",
		},
		{
			name:    "unknown kind",
			spec:    CandidateSpec{Name: "k", Fields: []FieldEntry{{Name: "a", Kind: "decimal", Width: 4}}},
			wantErr: "unknown field kind",
		},
		{
			name:    "unknown byte order",
			spec:    CandidateSpec{Name: "o", Format: "I", ByteOrder: "pdp"},
			wantErr: "unknown byte order",
		},
		{
			name:    "no layout",
			spec:    CandidateSpec{Name: "none"},
			wantErr: "record size must be positive",
		},
		{
			name:    "kind width mismatch",
			spec:    CandidateSpec{Name: "w", Fields: []FieldEntry{{Name: "h", Kind: "half", Width: 4}}},
			wantErr: "not valid for kind half",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			desc, err := tc.spec.Build()
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.ErrorIs(t, err, codec.ErrMalformedDescriptor)
				assert.Contains(t, err.Error(), tc.wantErr)
				assert.Contains(t, err.Error(), tc.spec.Name)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.layout, desc.Layout())
		})
	}
}

func TestSpecFromDescriptor(t *testing.T) {
	desc, err := ParseFormat("rt", ">Qhe", []string{"ts", "a", "b"})
	require.NoError(t, err)

	rebuilt, err := SpecFromDescriptor(desc).Build()
	require.NoError(t, err)
	assert.Equal(t, desc.Layout(), rebuilt.Layout())
	assert.Equal(t, desc.FieldNames(), rebuilt.FieldNames())
}

func TestSelect(t *testing.T) {
	reg, err := LoadBuiltin("nav-v1")
	require.NoError(t, err)

	sub, err := reg.Select("E_Qfff", "A_Qiii")
	require.NoError(t, err)
	assert.Equal(t, []string{"A_Qiii", "E_Qfff"}, names(sub.ListCandidates()), "registry order is kept")

	_, err = reg.Select("nope")
	assert.ErrorIs(t, err, ErrUnknownCandidate)

	same, err := reg.Select()
	require.NoError(t, err)
	assert.Equal(t, reg.Len(), same.Len())
}

func TestBuiltinSets(t *testing.T) {
	for _, name := range BuiltinSetNames() {
		t.Run(name, func(t *testing.T) {
			reg, err := LoadBuiltin(name)
			require.NoError(t, err)
			assert.NotZero(t, reg.Len())
		})
	}

	v1, err := LoadBuiltin("nav-v1")
	require.NoError(t, err)
	a, ok := v1.Lookup("A_Qiii")
	require.True(t, ok)
	assert.Equal(t, 20, a.Size())

	_, err = LoadBuiltin("nav-v9")
	assert.ErrorIs(t, err, ErrUnknownSet)
}

func TestNew(t *testing.T) {
	a, err := ParseFormat("a", "<I", nil)
	require.NoError(t, err)
	b, err := ParseFormat("b", ">I", nil)
	require.NoError(t, err)

	reg, err := New(a, b)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names(reg.ListCandidates()))

	_, err = New(a, a)
	assert.ErrorIs(t, err, codec.ErrMalformedDescriptor)
}

func names(descs []codec.RecordDescriptor) []string {
	out := make([]string, len(descs))
	for i, d := range descs {
		out[i] = d.Name()
	}
	return out
}
