// Package formatter renders offers as display-width aligned tables.
package formatter

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const minColumnWidth = 3

// RenderTable lays out header and rows as a pipe table, padding every cell to
// its column's display width. Short rows are padded with empty cells.
func RenderTable(header []string, rows [][]string) []string {
	colCount := len(header)
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}

	if colCount == 0 {
		return nil
	}

	table := make([][]string, 0, len(rows)+1)
	table = append(table, trimCells(header))

	for _, row := range rows {
		table = append(table, trimCells(row))
	}

	colWidths := make([]int, colCount)
	for i := range colWidths {
		colWidths[i] = minColumnWidth
	}

	for _, row := range table {
		for i, cell := range row {
			if width := runewidth.StringWidth(cell); width > colWidths[i] {
				colWidths[i] = width
			}
		}
	}

	result := make([]string, 0, len(table)+1)
	result = append(result, renderRow(table[0], colWidths))
	result = append(result, separator(colWidths))

	for _, row := range table[1:] {
		result = append(result, renderRow(row, colWidths))
	}

	return result
}

func trimCells(row []string) []string {
	cells := make([]string, len(row))
	for i, cell := range row {
		// Pipes inside a cell would split it.
		cells[i] = strings.ReplaceAll(strings.TrimSpace(cell), "|", "/")
	}

	return cells
}

func renderRow(row []string, colWidths []int) string {
	var sb strings.Builder

	sb.WriteString("|")

	for j, width := range colWidths {
		content := ""
		if j < len(row) {
			content = row[j]
		}

		sb.WriteString(" ")
		sb.WriteString(content)

		if padding := width - runewidth.StringWidth(content); padding > 0 {
			sb.WriteString(strings.Repeat(" ", padding))
		}

		sb.WriteString(" |")
	}

	return sb.String()
}

func separator(colWidths []int) string {
	var sb strings.Builder

	sb.WriteString("|")

	for _, width := range colWidths {
		sb.WriteString(" ")
		sb.WriteString(strings.Repeat("-", width))
		sb.WriteString(" |")
	}

	return sb.String()
}
