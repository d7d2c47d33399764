package report

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/term"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#87CEEB")).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)

	goodStyle = cellStyle.
			Foreground(lipgloss.Color("#90EE90"))

	warnStyle = cellStyle.
			Foreground(lipgloss.Color("#FFD866"))

	errorStyle = cellStyle.
			Foreground(lipgloss.Color("#FF6B6B"))

	borderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	plainStyle = lipgloss.NewStyle().PaddingRight(2)
)

var columns = []string{"Candidate", "Layout", "Size", "Records", "Termination", "Sample"}

// IsTerminal reports whether w is a terminal
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Render writes r to w, styled when w is a terminal and as aligned plain
// text otherwise
func Render(w io.Writer, r Report) error {
	if IsTerminal(w) {
		return RenderStyled(w, r)
	}
	return RenderPlain(w, r)
}

func rows(r Report) [][]string {
	out := make([][]string, 0, len(r.Candidates))
	for _, c := range r.Candidates {
		if c.Rejected() {
			out = append(out, []string{c.Candidate, "-", "-", "-", "Rejected", c.Error})
			continue
		}
		out = append(out, []string{
			c.Candidate,
			c.Layout,
			strconv.Itoa(c.RecordSize),
			strconv.Itoa(c.Records),
			c.Termination.String(),
			c.Sample,
		})
	}
	return out
}

func title(r Report) string {
	decoded, rejected := r.Count()
	return fmt.Sprintf("%s (%d bytes, budget %d): %d decoded, %d rejected",
		r.Source.Name, r.Source.Length, r.Budget, decoded, rejected)
}

// RenderStyled writes r as a lipgloss table
func RenderStyled(w io.Writer, r Report) error {
	data := rows(r)
	t := styledTable(columns, data, func(row, col int) lipgloss.Style {
		if row == table.HeaderRow {
			return headerStyle
		}
		if col != 4 || row < 0 || row >= len(data) {
			return cellStyle
		}
		switch data[row][4] {
		case "EndOfBuffer", "ReachedBudget":
			return goodStyle
		case "TruncatedTail":
			return warnStyle
		default:
			return errorStyle
		}
	})

	_, err := fmt.Fprintf(w, "%s\n%s\n", titleStyle.Render(title(r)), t.Render())
	return err
}

// RenderPlain writes r as an unstyled, borderless table
func RenderPlain(w io.Writer, r Report) error {
	return writePlain(w, title(r), columns, rows(r))
}

// RenderTable writes a generic table under heading, styled when w is a
// terminal
func RenderTable(w io.Writer, heading string, headers []string, data [][]string) error {
	if !IsTerminal(w) {
		return writePlain(w, heading, headers, data)
	}
	t := styledTable(headers, data, func(row, col int) lipgloss.Style {
		if row == table.HeaderRow {
			return headerStyle
		}
		return cellStyle
	})
	_, err := fmt.Fprintf(w, "%s\n%s\n", titleStyle.Render(heading), t.Render())
	return err
}

func styledTable(headers []string, data [][]string, style table.StyleFunc) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(data...).
		StyleFunc(style)
}

// plainTable has no borders and no colours, one line per row, so the output
// stays friendly to grep and awk
func plainTable(headers []string, data [][]string) *table.Table {
	return table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		Headers(headers...).
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style { return plainStyle })
}

func writePlain(w io.Writer, heading string, headers []string, data [][]string) error {
	_, err := fmt.Fprintf(w, "%s\n%s\n", heading, plainTable(headers, data).Render())
	return err
}
