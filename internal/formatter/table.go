// Package formatter renders aligned text tables for console reports.
package formatter

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// minColumnWidth keeps separator cells at least "---" wide.
const minColumnWidth = 3

// Table is a markdown-style table whose columns are padded to the display
// width of their widest cell.
type Table struct {
	header []string
	rows   [][]string
	right  map[int]bool
}

// NewTable creates a table with the given header cells.
func NewTable(header ...string) *Table {
	return &Table{header: header, right: make(map[int]bool)}
}

// AlignRight right-aligns the given column indices.
func (t *Table) AlignRight(cols ...int) {
	for _, c := range cols {
		t.right[c] = true
	}
}

// AddRow appends a row. Missing cells render empty; extra cells widen the table.
func (t *Table) AddRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

// Lines renders the header, the separator and every row.
func (t *Table) Lines() []string {
	colCount := len(t.header)
	for _, row := range t.rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}

	// Calculate max widths (using display width)
	colWidths := make([]int, colCount)

	for _, row := range append([][]string{t.header}, t.rows...) {
		for i := 0; i < len(row); i++ {
			if width := runewidth.StringWidth(row[i]); width > colWidths[i] {
				colWidths[i] = width
			}
		}
	}

	for i := range colWidths {
		if colWidths[i] < minColumnWidth {
			colWidths[i] = minColumnWidth
		}
	}

	result := make([]string, 0, len(t.rows)+2)
	result = append(result, t.renderRow(t.header, colWidths))
	result = append(result, t.renderSeparator(colWidths))

	for _, row := range t.rows {
		result = append(result, t.renderRow(row, colWidths))
	}

	return result
}

// String renders the table followed by a newline.
func (t *Table) String() string {
	return strings.Join(t.Lines(), "\n") + "\n"
}

func (t *Table) renderRow(row []string, colWidths []int) string {
	var sb strings.Builder

	sb.WriteString("|")

	for j, width := range colWidths {
		sb.WriteString(" ")

		content := ""
		if j < len(row) {
			content = row[j]
		}

		// Pad with spaces based on display width
		padding := strings.Repeat(" ", width-runewidth.StringWidth(content))

		if t.right[j] {
			sb.WriteString(padding + content)
		} else {
			sb.WriteString(content + padding)
		}

		sb.WriteString(" |")
	}

	return sb.String()
}

func (t *Table) renderSeparator(colWidths []int) string {
	var sb strings.Builder

	sb.WriteString("|")

	for j, width := range colWidths {
		sb.WriteString(" ")

		if t.right[j] {
			sb.WriteString(strings.Repeat("-", width-1) + ":")
		} else {
			sb.WriteString(strings.Repeat("-", width))
		}

		sb.WriteString(" |")
	}

	return sb.String()
}
