package preprocess

import (
	"strings"

	"dtrecon/internal/source"
)

// ForwardFill returns a copy of t where blank cells in cols take the last
// non-blank value seen above them. Rows are scanned strictly in source order;
// a blank before any value stays blank. Columns absent from t are ignored.
func ForwardFill(t *source.Table, cols []string) *source.Table {
	idx := make([]int, 0, len(cols))
	for _, c := range cols {
		if i := t.Index(c); i >= 0 {
			idx = append(idx, i)
		}
	}
	last := make([]string, len(idx))
	rows := make([][]string, len(t.Rows))
	for r, row := range t.Rows {
		cp := make([]string, len(row))
		copy(cp, row)
		for k, i := range idx {
			if strings.TrimSpace(cp[i]) == "" {
				cp[i] = last[k]
				continue
			}
			last[k] = cp[i]
		}
		rows[r] = cp
	}
	return source.NewTable(t.Name, t.Columns, rows)
}
