package salesrank

import "strings"

// Record is a single row of raw cell text, aligned with the table columns.
// Cells hold the input text verbatim; the empty string is the null marker
// (JSON null, absent keys, padded CSV cells).
type Record []string

// Table represents one batch of parsed input as an ordered set of named
// columns and an ordered sequence of rows. It is created once per invocation
// by Detect and never mutated afterward.
type Table struct {
	// columns holds normalized column names in input order.
	columns []string
	// rows holds one Record per input row, each padded to len(columns).
	rows []Record
}

// newTable creates a new table. Rows must already be aligned to columns.
func newTable(columns []string, rows []Record) *Table {
	return &Table{
		columns: columns,
		rows:    rows,
	}
}

// Columns returns the normalized column names in input order.
func (t *Table) Columns() []string {
	return t.columns
}

// Rows returns the table rows.
func (t *Table) Rows() []Record {
	return t.rows
}

// NumRows returns the number of data rows.
func (t *Table) NumRows() int {
	return len(t.rows)
}

// NumColumns returns the number of columns.
func (t *Table) NumColumns() int {
	return len(t.columns)
}

// columnIndex returns the index of the first column with the given normalized
// name, or -1 when absent.
func (t *Table) columnIndex(name string) int {
	for i, col := range t.columns {
		if col == name {
			return i
		}
	}
	return -1
}

// cell returns the row value at the given column index, or the null marker
// when the index is out of range.
func (t *Table) cell(row Record, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// normalizeCSVColumn normalizes a CSV header name: trimmed and lowercased.
func normalizeCSVColumn(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// normalizeJSONColumn normalizes a JSON object key: lowercased only.
// JSON keys keep surrounding whitespace; only CSV headers are trimmed.
func normalizeJSONColumn(name string) string {
	return strings.ToLower(name)
}
