package formatter

import (
	"strings"
	"testing"
)

func TestRenderTable(t *testing.T) {
	tests := []struct {
		name     string
		header   []string
		rows     [][]string
		expected string
	}{
		{
			name:   "Basic table",
			header: []string{"Header 1", "Header 2"},
			rows:   [][]string{{"val 1", "val 2"}},
			expected: `| Header 1 | Header 2 |
| -------- | -------- |
| val 1    | val 2    |`,
		},
		{
			name:   "Minimum column width",
			header: []string{"A", "B"},
			rows:   [][]string{{"1", "2"}},
			expected: `| A   | B   |
| --- | --- |
| 1   | 2   |`,
		},
		{
			name:   "Trim spaces in cells",
			header: []string{"  Col A  ", "Col B"},
			rows:   [][]string{{"  val A  ", "  val B"}},
			expected: `| Col A | Col B |
| ----- | ----- |
| val A | val B |`,
		},
		{
			name:   "Short rows are padded",
			header: []string{"name", "price", "gpu"},
			rows:   [][]string{{"a100"}},
			expected: `| name | price | gpu |
| ---- | ----- | --- |
| a100 |       |     |`,
		},
		{
			name:   "Wide characters",
			header: []string{"Name", "Location"},
			rows:   [][]string{{"RTX 4090", "東京"}},
			expected: `| Name     | Location |
| -------- | -------- |
| RTX 4090 | 東京     |`,
		},
		{
			name:   "Pipes in cells",
			header: []string{"gpu"},
			rows:   [][]string{{"A|B"}},
			expected: `| gpu |
| --- |
| A/B |`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := strings.Join(RenderTable(tt.header, tt.rows), "\n")
			if got != tt.expected {
				t.Errorf("RenderTable() =\n%s\nwant\n%s", got, tt.expected)
			}
		})
	}
}

func TestRenderTable_Empty(t *testing.T) {
	if got := RenderTable(nil, nil); got != nil {
		t.Errorf("RenderTable(nil, nil) = %v, want nil", got)
	}
}
