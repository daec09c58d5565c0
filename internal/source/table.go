// Package source loads the four tabular inputs into header-addressed tables.
package source

import "strings"

// Table is a header-addressed, row-ordered view of one source file.
// Row order is preserved exactly as read; forward-fill depends on it.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]string
	index   map[string]int
}

// NewTable cleans header names and pads short rows to the header width.
func NewTable(name string, header []string, rows [][]string) *Table {
	cols := make([]string, len(header))
	idx := make(map[string]int, len(header))
	for i, h := range header {
		cols[i] = CleanHeader(h)
		if _, dup := idx[cols[i]]; !dup {
			idx[cols[i]] = i
		}
	}
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		if len(r) < len(cols) {
			padded := make([]string, len(cols))
			copy(padded, r)
			r = padded
		}
		out = append(out, r)
	}
	return &Table{Name: name, Columns: cols, Rows: out, index: idx}
}

// CleanHeader trims a header and collapses internal whitespace, so
// "Malfunction\n(1201)" becomes "Malfunction (1201)".
func CleanHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	return strings.Join(strings.Fields(h), " ")
}

func (t *Table) Has(col string) bool {
	_, ok := t.index[col]
	return ok
}

// Index returns the position of col or -1.
func (t *Table) Index(col string) int {
	if i, ok := t.index[col]; ok {
		return i
	}
	return -1
}

// Value returns the trimmed cell, or "" when the column is absent.
func (t *Table) Value(row int, col string) string {
	i := t.Index(col)
	if i < 0 || row < 0 || row >= len(t.Rows) {
		return ""
	}
	return strings.TrimSpace(t.Rows[row][i])
}

// FindColumn returns the first column whose name contains fragment.
func (t *Table) FindColumn(fragment string) (string, bool) {
	for _, c := range t.Columns {
		if strings.Contains(c, fragment) {
			return c, true
		}
	}
	return "", false
}

func (t *Table) Len() int { return len(t.Rows) }
