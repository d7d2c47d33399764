// Package report turns a multi-candidate evaluation into a run report: one
// row per candidate, rejected ones included, with its statistical summary.
package report

import (
	"strings"
	"time"

	"github.com/ssargent/recprobe/pkg/engine"
	"github.com/ssargent/recprobe/pkg/summary"
)

// sampleWidth is how many values of the first record go into the sample text
const sampleWidth = 6

// Source describes where the decoded bytes came from
type Source struct {
	Name   string `json:"name"`
	Offset int64  `json:"offset"`
	Length int    `json:"length"`
}

// CandidateReport is one row of a run report
type CandidateReport struct {
	Candidate   string             `json:"candidate"`
	Layout      string             `json:"layout,omitempty"`
	RecordSize  int                `json:"record_size,omitempty"`
	Records     int                `json:"records"`
	Termination engine.Termination `json:"termination"`
	Sample      string             `json:"sample,omitempty"`
	Error       string             `json:"error,omitempty"`
	ElapsedMS   float64            `json:"elapsed_ms"`
	File        string             `json:"file,omitempty"`
	Summary     *summary.Summary   `json:"summary,omitempty"`
}

// Rejected reports whether the candidate failed validation
func (c CandidateReport) Rejected() bool { return c.Error != "" }

// Report is the result of one run
type Report struct {
	ID         string            `json:"id,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
	Source     Source            `json:"source"`
	Set        string            `json:"set,omitempty"`
	Budget     int               `json:"budget"`
	Candidates []CandidateReport `json:"candidates"`
}

// Count returns the number of decoded and rejected candidates
func (r Report) Count() (decoded, rejected int) {
	for _, c := range r.Candidates {
		if c.Rejected() {
			rejected++
		} else {
			decoded++
		}
	}
	return decoded, rejected
}

// Build assembles a report from evaluations in their given order
func Build(src Source, set string, budget int, evals []engine.Evaluation, opts summary.Options) Report {
	r := Report{
		CreatedAt:  time.Now().UTC(),
		Source:     src,
		Set:        set,
		Budget:     budget,
		Candidates: make([]CandidateReport, 0, len(evals)),
	}

	for _, ev := range evals {
		row := CandidateReport{
			Candidate: ev.Candidate,
			ElapsedMS: float64(ev.Elapsed.Microseconds()) / 1000,
		}
		if !ev.OK() {
			row.Error = ev.Err.Error()
			row.Termination = engine.ZeroRecords
			r.Candidates = append(r.Candidates, row)
			continue
		}

		sum := summary.Summarize(ev.Result, opts)
		row.Layout = sum.Layout
		row.RecordSize = sum.RecordSize
		row.Records = sum.Records
		row.Termination = sum.Termination
		row.Sample = SampleText(ev.Result)
		row.Summary = &sum
		r.Candidates = append(r.Candidates, row)
	}
	return r
}

// SampleText renders the leading values of the first record as name=value
// pairs
func SampleText(res engine.Result) string {
	if len(res.Records) == 0 {
		return ""
	}
	first := res.Records[0]
	n := len(first)
	if n > sampleWidth {
		n = sampleWidth
	}

	parts := make([]string, 0, n+1)
	for i := 0; i < n; i++ {
		parts = append(parts, res.Descriptor.Field(i).Name+"="+first[i].String())
	}
	if len(first) > n {
		parts = append(parts, "...")
	}
	return strings.Join(parts, " ")
}
