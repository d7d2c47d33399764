package summary

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/recprobe/pkg/codec"
	"github.com/ssargent/recprobe/pkg/engine"
)

func decodeRows(t *testing.T, rows ...[]codec.Value) engine.Result {
	t.Helper()
	desc, err := codec.NewRecordDescriptor("E_Qfff", codec.LittleEndian,
		codec.FieldSpec{Name: "timestamp", Kind: codec.KindUnsigned, Width: 8},
		codec.FieldSpec{Name: "x", Kind: codec.KindFloat, Width: 4},
		codec.FieldSpec{Name: "y", Kind: codec.KindFloat, Width: 4},
	)
	require.NoError(t, err)

	rc := codec.NewRecordCodec(desc)
	var buf []byte
	for _, row := range rows {
		buf, err = rc.AppendEncode(buf, row...)
		require.NoError(t, err)
	}
	return engine.Decode(buf, desc, 1000)
}

func TestSummarize(t *testing.T) {
	res := decodeRows(t,
		[]codec.Value{codec.Uint(100), codec.Float(1), codec.Float(math.NaN())},
		[]codec.Value{codec.Uint(150), codec.Float(2), codec.Float(5)},
		[]codec.Value{codec.Uint(150), codec.Float(3), codec.Float(math.Inf(1))},
		[]codec.Value{codec.Uint(120), codec.Float(4), codec.Float(5)},
	)

	s := Summarize(res, DefaultOptions())

	assert.Equal(t, "E_Qfff", s.Candidate)
	assert.Equal(t, "<Qff", s.Layout)
	assert.Equal(t, 16, s.RecordSize)
	assert.Equal(t, 4, s.Records)
	assert.Equal(t, engine.EndOfBuffer, s.Termination)
	assert.Equal(t, "100", s.Sample[0].String())

	require.Len(t, s.Fields, 3)
	x := s.Fields[1]
	assert.Equal(t, "x", x.Name)
	assert.Equal(t, "float", x.Kind)
	assert.Equal(t, 4, x.Finite)
	assert.Equal(t, Number(1), x.Min)
	assert.Equal(t, Number(4), x.Max)
	assert.InDelta(t, 2.5, float64(x.Mean), 1e-9)
	assert.InDelta(t, math.Sqrt(1.25), float64(x.StdDev), 1e-9)
	require.NotNil(t, x.Histogram)
	assert.Len(t, x.Histogram.Counts, DefaultHistogramBins)

	y := s.Fields[2]
	assert.Equal(t, 2, y.Finite)
	assert.Equal(t, 2, y.NonFinite)
	assert.Equal(t, Number(5), y.Min)
	assert.Equal(t, Number(5), y.Max)

	require.NotNil(t, s.Deltas)
	d := s.Deltas
	assert.Equal(t, "timestamp", d.Field)
	assert.Equal(t, 3, d.Count)
	assert.Equal(t, []Number{50, 0, -30}, d.Sample)
	assert.Equal(t, Number(-30), d.Min)
	assert.Equal(t, Number(50), d.Max)
	assert.Equal(t, Number(0), d.Median)
	assert.Equal(t, 1, d.Negative)
	assert.Equal(t, 1, d.Zero)
}

func TestSummarize_Options(t *testing.T) {
	res := decodeRows(t,
		[]codec.Value{codec.Uint(1), codec.Float(1), codec.Float(10)},
		[]codec.Value{codec.Uint(2), codec.Float(2), codec.Float(20)},
		[]codec.Value{codec.Uint(4), codec.Float(3), codec.Float(40)},
	)

	s := Summarize(res, Options{HistogramBins: 4, TimestampField: 2, DeltaSample: 1})
	require.NotNil(t, s.Deltas)
	assert.Equal(t, "y", s.Deltas.Field)
	assert.Equal(t, []Number{10}, s.Deltas.Sample)
	assert.Len(t, s.Fields[0].Histogram.Counts, 4)

	s = Summarize(res, Options{TimestampField: -1})
	assert.Nil(t, s.Deltas)
}

func TestSummarize_ZeroRecords(t *testing.T) {
	res := decodeRows(t)
	s := Summarize(res, DefaultOptions())

	assert.Equal(t, engine.ZeroRecords, s.Termination)
	assert.Nil(t, s.Deltas)
	assert.Nil(t, s.Sample)
	for _, f := range s.Fields {
		assert.Equal(t, 0, f.Count)
		assert.Nil(t, f.Histogram)
	}
}

func TestNumber_JSON(t *testing.T) {
	testCases := []struct {
		n    Number
		json string
	}{
		{1.5, `1.5`},
		{-30, `-30`},
		{Number(math.NaN()), `"NaN"`},
		{Number(math.Inf(1)), `"+Inf"`},
		{Number(math.Inf(-1)), `"-Inf"`},
	}
	for _, tc := range testCases {
		data, err := json.Marshal(tc.n)
		require.NoError(t, err)
		assert.Equal(t, tc.json, string(data))

		var back Number
		require.NoError(t, json.Unmarshal(data, &back))
		if math.IsNaN(float64(tc.n)) {
			assert.True(t, math.IsNaN(float64(back)))
		} else {
			assert.Equal(t, tc.n, back)
		}
	}
}

func TestFieldStats_OverflowStillMarshals(t *testing.T) {
	f := codec.FieldSpec{Name: "lat", Kind: codec.KindFloat, Width: 8}
	st := fieldStats(f, []codec.Value{codec.Float(math.MaxFloat64), codec.Float(math.MaxFloat64)}, 10)

	assert.True(t, math.IsInf(float64(st.Mean), 1))
	data, err := json.Marshal(st)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"mean":"+Inf"`)
}

func TestPercentile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 5}

	testCases := []struct {
		p    float64
		want float64
	}{
		{0, 1},
		{25, 2},
		{50, 3},
		{62.5, 3.5},
		{100, 5},
	}
	for _, tc := range testCases {
		if got := Percentile(sorted, tc.p); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("Percentile(%v) = %v, want %v", tc.p, got, tc.want)
		}
	}
	assert.Equal(t, 7.0, Percentile([]float64{7}, 99.9))
}

func TestNewHistogram(t *testing.T) {
	h := NewHistogram([]float64{-100, 0, 2.5, 5, 7.5, 10, 1e300}, 0, 10, 4)
	assert.Equal(t, []int{2, 1, 1, 3}, h.Counts)

	flat := NewHistogram([]float64{3, 3, 3}, 3, 3, 10)
	assert.Equal(t, 3, flat.Counts[0])
}

func TestDeltaStats_IntegerTimestamps(t *testing.T) {
	const base = uint64(1_757_257_707e9)

	tests := []struct {
		name     string
		column   []codec.Value
		sample   []Number
		zero     int
		negative int
	}{
		{
			name:     "nanosecond epoch",
			column:   []codec.Value{codec.Uint(base), codec.Uint(base + 100), codec.Uint(base + 200), codec.Uint(base + 150)},
			sample:   []Number{100, 100, -50},
			zero:     0,
			negative: 1,
		},
		{
			name:     "signed near the limits",
			column:   []codec.Value{codec.Int(math.MaxInt64 - 10), codec.Int(math.MaxInt64), codec.Int(math.MaxInt64 - 3)},
			sample:   []Number{10, -3},
			zero:     0,
			negative: 1,
		},
		{
			name:     "unsigned wrap to zero",
			column:   []codec.Value{codec.Uint(math.MaxUint64), codec.Uint(0)},
			sample:   []Number{Number(-float64(uint64(math.MaxUint64)))},
			zero:     0,
			negative: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := deltaStats("timestamp", tt.column, 10)
			assert.Equal(t, tt.sample, d.Sample)
			assert.Equal(t, tt.zero, d.Zero)
			assert.Equal(t, tt.negative, d.Negative)
		})
	}
}

func TestDelta_SignedOverflowFallsBackToFloat(t *testing.T) {
	got := delta(codec.Int(math.MinInt64), codec.Int(math.MaxInt64))
	assert.InDelta(t, math.Pow(2, 64), got, 1e4)
	assert.Equal(t, 2.5, delta(codec.Float(1), codec.Float(3.5)))
}

func TestPercentile_ExtremeRange(t *testing.T) {
	sorted := []float64{-1.7e308, 1.7e308}

	for _, p := range []float64{robustLow, 50, robustHigh} {
		got := Percentile(sorted, p)
		assert.False(t, math.IsInf(got, 0), "p=%v", p)
		assert.False(t, math.IsNaN(got), "p=%v", p)
	}

	f := codec.FieldSpec{Name: "lat", Kind: codec.KindFloat, Width: 8}
	st := fieldStats(f, []codec.Value{codec.Float(-1.7e308), codec.Float(1.7e308)}, 10)
	assert.False(t, math.IsInf(float64(st.RobustLow), 0))
	assert.False(t, math.IsInf(float64(st.RobustHi), 0))
	assert.Less(t, float64(st.RobustLow), float64(st.RobustHi))
	require.NotNil(t, st.Histogram)
	assert.Equal(t, []int{1, 0, 0, 0, 0, 0, 0, 0, 0, 1}, st.Histogram.Counts)
}

func TestNewHistogram_NonFinite(t *testing.T) {
	h := NewHistogram([]float64{math.NaN(), 0.5, math.Inf(1), 2}, 0, 2, 2)
	assert.Equal(t, []int{1, 1}, h.Counts)

	h = NewHistogram([]float64{1, 2}, 0, math.Inf(1), 2)
	assert.Equal(t, []int{0, 0}, h.Counts)
}
