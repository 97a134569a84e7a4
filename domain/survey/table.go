package survey

import (
	"fmt"

	"smmh/domain/core"
)

// Table is a header plus string rows, the persisted form of a dataset
type Table struct {
	Header []string
	Rows   [][]string
}

// ColumnIndex returns the position of a column or -1
func (t Table) ColumnIndex(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// Has reports whether the table carries a column
func (t Table) Has(name string) bool { return t.ColumnIndex(name) >= 0 }

// Column returns every cell of one column
func (t Table) Column(name string) ([]string, error) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", core.ErrColumnNotFound, name)
	}
	out := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		if idx < len(row) {
			out[i] = row[idx]
		}
	}
	return out, nil
}

// Cell returns the value at row i of a column, empty when out of range
func (t Table) Cell(i int, name string) string {
	idx := t.ColumnIndex(name)
	if idx < 0 || i < 0 || i >= len(t.Rows) || idx >= len(t.Rows[i]) {
		return ""
	}
	return t.Rows[i][idx]
}
