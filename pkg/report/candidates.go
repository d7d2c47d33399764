package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/ssargent/recprobe/pkg/registry"
)

var candidateColumns = []string{"Candidate", "Layout", "Size", "Fields"}

func candidateRows(entries []registry.Entry) [][]string {
	out := make([][]string, 0, len(entries))
	for _, e := range entries {
		if !e.OK() {
			out = append(out, []string{e.Name, "-", "-", e.Err.Error()})
			continue
		}
		d := e.Descriptor
		out = append(out, []string{d.Name(), d.Layout(), strconv.Itoa(d.Size()), strings.Join(d.FieldNames(), ",")})
	}
	return out
}

// RenderCandidates lists the entries of one candidate set, styled when w is
// a terminal
func RenderCandidates(w io.Writer, set string, entries []registry.Entry) error {
	rows := candidateRows(entries)
	heading := fmt.Sprintf("%s: %d candidates", set, len(entries))

	if !IsTerminal(w) {
		return writePlain(w, heading, candidateColumns, rows)
	}

	t := styledTable(candidateColumns, rows, func(row, col int) lipgloss.Style {
		if row == table.HeaderRow {
			return headerStyle
		}
		if row >= 0 && row < len(entries) && !entries[row].OK() {
			return errorStyle
		}
		return cellStyle
	})
	_, err := fmt.Fprintf(w, "%s\n%s\n", titleStyle.Render(heading), t.Render())
	return err
}
