// Package summary computes the diagnostic statistics a human uses to judge
// whether a decoded candidate is plausible: per-field distributions, robust
// ranges and histograms, and successive-record timestamp deltas.
package summary

import (
	"math"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/ssargent/recprobe/pkg/codec"
	"github.com/ssargent/recprobe/pkg/engine"
)

const (
	DefaultHistogramBins = 100
	DefaultDeltaSample   = 2000

	robustLow  = 0.1
	robustHigh = 99.9
)

// Number is a float64 whose JSON form keeps NaN and the infinities as
// strings, since wrong layouts routinely produce them
type Number float64

// MarshalJSON implements json.Marshaler
func (n Number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte(strconv.Quote(strconv.FormatFloat(f, 'g', -1, 64))), nil
	}
	return strconv.AppendFloat(nil, f, 'g', -1, 64), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (n *Number) UnmarshalJSON(data []byte) error {
	text := string(data)
	if unq, err := strconv.Unquote(text); err == nil {
		text = unq
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return err
	}
	*n = Number(f)
	return nil
}

// Options controls what Summarize computes
type Options struct {
	HistogramBins  int
	TimestampField int
	DeltaSample    int
}

// DefaultOptions returns histogram bins 100, timestamps on field 0 and a
// delta sample of 2000
func DefaultOptions() Options {
	return Options{
		HistogramBins:  DefaultHistogramBins,
		TimestampField: 0,
		DeltaSample:    DefaultDeltaSample,
	}
}

// Histogram has len(Counts) equal-width bins over [Min, Max]
type Histogram struct {
	Min    Number `json:"min"`
	Max    Number `json:"max"`
	Counts []int  `json:"counts"`
}

// FieldStats describes the distribution of one field across all records.
// Min through Histogram only consider finite values.
type FieldStats struct {
	Name      string     `json:"name"`
	Kind      string     `json:"kind"`
	Count     int        `json:"count"`
	Finite    int        `json:"finite"`
	NonFinite int        `json:"non_finite"`
	Min       Number     `json:"min"`
	Max       Number     `json:"max"`
	Mean      Number     `json:"mean"`
	StdDev    Number     `json:"stddev"`
	RobustLow Number     `json:"robust_low"`
	RobustHi  Number     `json:"robust_high"`
	Histogram *Histogram `json:"histogram,omitempty"`
}

// DeltaStats summarises differences between successive values of the
// timestamp field
type DeltaStats struct {
	Field    string   `json:"field"`
	Count    int      `json:"count"`
	Min      Number   `json:"min"`
	Max      Number   `json:"max"`
	Mean     Number   `json:"mean"`
	Median   Number   `json:"median"`
	Negative int      `json:"negative"`
	Zero     int      `json:"zero"`
	Sample   []Number `json:"sample"`
}

// Summary is the statistical view of one decode result
type Summary struct {
	Candidate   string             `json:"candidate"`
	Layout      string             `json:"layout"`
	RecordSize  int                `json:"record_size"`
	Records     int                `json:"records"`
	Termination engine.Termination `json:"termination"`
	Fields      []FieldStats       `json:"fields"`
	Deltas      *DeltaStats        `json:"deltas,omitempty"`
	Sample      codec.Record       `json:"sample,omitempty"`
}

// Summarize builds the summary of res. Zero-valued options fall back to the
// defaults; a timestamp field out of range disables delta analysis.
func Summarize(res engine.Result, opts Options) Summary {
	if opts.HistogramBins <= 0 {
		opts.HistogramBins = DefaultHistogramBins
	}
	if opts.DeltaSample <= 0 {
		opts.DeltaSample = DefaultDeltaSample
	}

	desc := res.Descriptor
	s := Summary{
		Candidate:   desc.Name(),
		Layout:      desc.Layout(),
		RecordSize:  desc.Size(),
		Records:     res.RecordCount(),
		Termination: res.Termination,
		Fields:      make([]FieldStats, desc.NumFields()),
	}
	if len(res.Records) > 0 {
		s.Sample = res.Records[0]
	}

	for i := 0; i < desc.NumFields(); i++ {
		f := desc.Field(i)
		s.Fields[i] = fieldStats(f, res.Column(i), opts.HistogramBins)
	}

	if ts := opts.TimestampField; ts >= 0 && ts < desc.NumFields() && len(res.Records) > 1 {
		s.Deltas = deltaStats(desc.Field(ts).Name, res.Column(ts), opts.DeltaSample)
	}
	return s
}

func fieldStats(f codec.FieldSpec, column []codec.Value, bins int) FieldStats {
	st := FieldStats{Name: f.Name, Kind: f.Kind.String(), Count: len(column)}

	finite := make([]float64, 0, len(column))
	for _, v := range column {
		if v.IsFinite() {
			finite = append(finite, v.Float64())
		}
	}
	st.Finite = len(finite)
	st.NonFinite = st.Count - st.Finite
	if len(finite) == 0 {
		return st
	}

	mean, std := stat.PopMeanStdDev(finite, nil)
	st.Mean, st.StdDev = Number(mean), Number(std)

	sorted := append([]float64(nil), finite...)
	sort.Float64s(sorted)
	lo := Percentile(sorted, robustLow)
	hi := Percentile(sorted, robustHigh)
	st.Min = Number(floats.Min(finite))
	st.Max = Number(floats.Max(finite))
	st.RobustLow, st.RobustHi = Number(lo), Number(hi)
	st.Histogram = NewHistogram(finite, lo, hi, bins)
	return st
}

func deltaStats(name string, column []codec.Value, sample int) *DeltaStats {
	deltas := make([]float64, 0, len(column)-1)
	for i := 1; i < len(column); i++ {
		deltas = append(deltas, delta(column[i-1], column[i]))
	}

	d := &DeltaStats{Field: name, Count: len(deltas)}
	finite := make([]float64, 0, len(deltas))
	for _, v := range deltas {
		switch {
		case v < 0:
			d.Negative++
		case v == 0:
			d.Zero++
		}
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			finite = append(finite, v)
		}
	}

	if len(finite) > 0 {
		d.Mean = Number(stat.Mean(finite, nil))
		sort.Float64s(finite)
		d.Min = Number(finite[0])
		d.Max = Number(finite[len(finite)-1])
		d.Median = Number(Percentile(finite, 50))
	}

	if sample > len(deltas) {
		sample = len(deltas)
	}
	d.Sample = make([]Number, sample)
	for i := range d.Sample {
		d.Sample[i] = Number(deltas[i])
	}
	return d
}

// delta returns cur-prev. Integer pairs are subtracted exactly before the
// conversion to float64, so nanosecond epochs keep their small differences.
func delta(prev, cur codec.Value) float64 {
	pk, ck := prev.Kind(), cur.Kind()
	switch {
	case pk == codec.KindUnsigned && ck == codec.KindUnsigned:
		a, b := prev.Uint64(), cur.Uint64()
		if b >= a {
			return float64(b - a)
		}
		return -float64(a - b)
	case pk == codec.KindSigned && ck == codec.KindSigned:
		a, b := prev.Int64(), cur.Int64()
		d := b - a
		if (b^a)&(b^d) < 0 {
			// overflowed int64
			return cur.Float64() - prev.Float64()
		}
		return float64(d)
	}
	return cur.Float64() - prev.Float64()
}

// Percentile returns the p-th percentile (0..100) of sorted using linear
// interpolation between closest ranks. sorted must be ascending and non-empty.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo < 0 {
		return sorted[0]
	}
	if hi >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	frac := rank - float64(lo)
	// weighted form stays finite when sorted[hi]-sorted[lo] would overflow
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// NewHistogram counts values into bins equal-width bins over [lo, hi]. Values
// outside the range are clipped into the first or last bin; NaNs, infinities
// and non-finite bounds leave the counts empty.
func NewHistogram(values []float64, lo, hi float64, bins int) *Histogram {
	if bins < 1 {
		bins = 1
	}
	h := &Histogram{Min: Number(lo), Max: Number(hi), Counts: make([]int, bins)}

	if math.IsInf(lo, 0) || math.IsInf(hi, 0) || math.IsNaN(lo) || math.IsNaN(hi) {
		return h
	}

	clipped := make([]float64, 0, len(values))
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		clipped = append(clipped, math.Min(math.Max(v, lo), hi))
	}
	if len(clipped) == 0 {
		return h
	}
	if !(hi > lo) {
		h.Counts[0] = len(clipped)
		return h
	}
	sort.Float64s(clipped)

	counts := stat.Histogram(nil, dividers(lo, hi, bins), clipped, nil)
	for i, c := range counts {
		h.Counts[i] = int(c)
	}
	return h
}

// dividers returns bins+1 ascending bin edges over [lo, hi]. The outer edges
// are infinite so that clipped values at lo and hi land in the end bins.
func dividers(lo, hi float64, bins int) []float64 {
	d := make([]float64, bins+1)
	d[0], d[bins] = math.Inf(-1), math.Inf(1)
	for k := 1; k < bins; k++ {
		t := float64(k) / float64(bins)
		// convex combination, finite for ranges spanning the float64 limits
		d[k] = lo*(1-t) + hi*t
	}
	// rounding may leave neighbouring edges out of order by an ulp
	for k := 2; k < bins; k++ {
		d[k] = math.Max(d[k], d[k-1])
	}
	return d
}
