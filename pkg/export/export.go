// Package export writes decoded candidates and run reports to disk: one CSV
// per candidate, a summary.csv index and a JSON report.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ssargent/recprobe/pkg/engine"
	"github.com/ssargent/recprobe/pkg/report"
)

const (
	// DefaultMaxRows caps the rows written per candidate CSV
	DefaultMaxRows = 5000

	SummaryFile = "summary.csv"
	ReportFile  = "report.json"
)

var summaryHeader = []string{"Method", "Format", "Records", "Termination", "Sample", "File"}

// CandidateFile returns the CSV file name for a candidate
func CandidateFile(candidate string) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		default:
			return '_'
		}
	}, candidate)
	return "decoded_" + clean + ".csv"
}

// WriteCSV writes the decoded records of res with the field names as header.
// maxRows <= 0 writes every record.
func WriteCSV(w io.Writer, res engine.Result, maxRows int) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(res.Descriptor.FieldNames()); err != nil {
		return err
	}

	rows := res.Records
	if maxRows > 0 && len(rows) > maxRows {
		rows = rows[:maxRows]
	}
	for _, rec := range rows {
		if err := cw.Write(rec.Strings()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSummaryCSV writes one line per candidate of r
func WriteSummaryCSV(w io.Writer, r report.Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(summaryHeader); err != nil {
		return err
	}
	for _, c := range r.Candidates {
		row := []string{c.Candidate, c.Layout, strconv.Itoa(c.Records), c.Termination.String(), c.Sample, c.File}
		if c.Rejected() {
			row[3] = "Rejected"
			row[4] = c.Error
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes r as indented JSON
func WriteJSON(w io.Writer, r report.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// Exporter writes a whole run into a directory
type Exporter struct {
	Dir     string
	MaxRows int
}

// WriteRun writes a CSV per decoded candidate plus the summary and JSON
// report. The File field of each exported candidate in r is filled in. It
// returns the paths written.
func (e Exporter) WriteRun(r *report.Report, evals []engine.Evaluation) ([]string, error) {
	if err := os.MkdirAll(e.Dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	byName := make(map[string]engine.Result, len(evals))
	for _, ev := range evals {
		if ev.OK() {
			byName[ev.Candidate] = ev.Result
		}
	}

	var written []string
	used := make(map[string]bool, len(r.Candidates))
	for i := range r.Candidates {
		c := &r.Candidates[i]
		res, ok := byName[c.Candidate]
		if !ok || res.RecordCount() == 0 {
			continue
		}
		name := uniqueFile(c.Candidate, i, used)
		path := filepath.Join(e.Dir, name)
		if err := writeFile(path, func(w io.Writer) error { return WriteCSV(w, res, e.MaxRows) }); err != nil {
			return written, err
		}
		c.File = name
		written = append(written, path)
	}

	summaryPath := filepath.Join(e.Dir, SummaryFile)
	if err := writeFile(summaryPath, func(w io.Writer) error { return WriteSummaryCSV(w, *r) }); err != nil {
		return written, err
	}
	written = append(written, summaryPath)

	reportPath := filepath.Join(e.Dir, ReportFile)
	if err := writeFile(reportPath, func(w io.Writer) error { return WriteJSON(w, *r) }); err != nil {
		return written, err
	}
	return append(written, reportPath), nil
}

// uniqueFile returns CandidateFile(candidate) unless another candidate of the
// run already took that name, ignoring case, in which case the candidate
// index is appended
func uniqueFile(candidate string, index int, used map[string]bool) string {
	name := CandidateFile(candidate)
	for n := 0; used[strings.ToLower(name)]; n++ {
		suffix := strconv.Itoa(index)
		if n > 0 {
			suffix += "_" + strconv.Itoa(n)
		}
		name = CandidateFile(candidate + "_" + suffix)
	}
	used[strings.ToLower(name)] = true
	return name
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
