// Package table holds the in-memory tabular representation handed to the
// analysis core by the data-loading adapters. A Table preserves the column
// order supplied by its loader; cells are scalars (string, float64, bool)
// or nil for missing values.
package table

// Row maps a column name to a scalar cell value.
type Row map[string]any

// Table is an ordered sequence of rows with a stable column order.
type Table struct {
	Columns []string
	Rows    []Row
}

// New creates an empty table with the given column order.
func New(columns []string) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{Columns: cols}
}

// Append adds a row to the table.
func (t *Table) Append(row Row) {
	t.Rows = append(t.Rows, row)
}

// RowCount returns the number of data rows.
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// HasColumn reports whether the table carries the named column.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Column returns the cell values for one column in row order.
// Rows without the column yield nil entries.
func (t *Table) Column(name string) []any {
	values := make([]any, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = row[name]
	}
	return values
}

// NumericColumn returns the parseable numeric values of a column in row
// order, dropping cells that are missing or not numeric.
func (t *Table) NumericColumn(name string) []float64 {
	var values []float64
	for _, row := range t.Rows {
		if f, ok := ParseFloat(row[name]); ok {
			values = append(values, f)
		}
	}
	return values
}
