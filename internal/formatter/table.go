// Package formatter renders validation reports as aligned markdown tables.
package formatter

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"roomcheck/pkg/utils"
)

// maxCellWidth caps the display width of a single cell.
const maxCellWidth = 72

// Table renders header and rows as a markdown table whose columns are padded
// to equal display width. Wide (CJK) and combining runes are measured with
// their terminal width, so Vietnamese text lines up.
func Table(header []string, rows [][]string) []string {
	colCount := len(header)
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}

	table := make([][]string, 0, len(rows)+1)
	table = append(table, cleanRow(header))

	for _, row := range rows {
		table = append(table, cleanRow(row))
	}

	// Calculate max widths (using display width)
	colWidths := make([]int, colCount)

	for _, row := range table {
		for i := 0; i < len(row); i++ {
			if w := runewidth.StringWidth(row[i]); w > colWidths[i] {
				colWidths[i] = w
			}
		}
	}

	// Ensure min width for separator (usually 3 dashes "---")
	for i := range colWidths {
		if colWidths[i] < 3 {
			colWidths[i] = 3
		}
	}

	result := make([]string, 0, len(table)+1)
	result = append(result, renderRow(table[0], colWidths))

	sep := make([]string, colCount)
	for i, w := range colWidths {
		sep[i] = strings.Repeat("-", w)
	}

	result = append(result, renderRow(sep, colWidths))

	for _, row := range table[1:] {
		result = append(result, renderRow(row, colWidths))
	}

	return result
}

func cleanRow(row []string) []string {
	out := make([]string, len(row))

	for i, cell := range row {
		cell = utils.NormalizeWhitespace(cell)
		cell = strings.ReplaceAll(cell, "|", `\|`)
		out[i] = runewidth.Truncate(cell, maxCellWidth, "...")
	}

	return out
}

func renderRow(row []string, widths []int) string {
	var sb strings.Builder

	sb.WriteString("|")

	for j, w := range widths {
		sb.WriteString(" ")

		content := ""
		if j < len(row) {
			content = row[j]
		}

		sb.WriteString(content)

		// Pad with spaces based on display width
		if padding := w - runewidth.StringWidth(content); padding > 0 {
			sb.WriteString(strings.Repeat(" ", padding))
		}

		sb.WriteString(" |")
	}

	return sb.String()
}
