package table

import (
	"fmt"
	"math"

	"github.com/databroom/databroom/pkg/errors"
)

// Value is a single cell. Valid dynamic types are nil, string, int64,
// float64 and bool.
type Value = any

// Table is an ordered set of labeled columns and rows.
type Table struct {
	columns []string
	rows    [][]Value
}

// New builds a table from column labels and rows. Both slices are copied.
// Every row must have exactly len(columns) cells.
func New(columns []string, rows [][]Value) (*Table, error) {
	t := &Table{
		columns: append([]string(nil), columns...),
		rows:    make([][]Value, len(rows)),
	}
	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, errors.New(errors.ErrCodeInvalidTable,
				"row %d has %d cells, want %d", i, len(row), len(columns))
		}
		for _, v := range row {
			if !validValue(v) {
				return nil, errors.New(errors.ErrCodeInvalidTable,
					"row %d holds unsupported cell type %T", i, v)
			}
		}
		t.rows[i] = append([]Value(nil), row...)
	}
	return t, nil
}

// MustNew is like New but panics on error. Intended for tests and literals.
func MustNew(columns []string, rows [][]Value) *Table {
	t, err := New(columns, rows)
	if err != nil {
		panic(err)
	}
	return t
}

func validValue(v Value) bool {
	switch v.(type) {
	case nil, string, int64, float64, bool:
		return true
	}
	return false
}

// Columns returns a copy of the column labels.
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int { return len(t.rows) }

// NumCols returns the number of columns.
func (t *Table) NumCols() int { return len(t.columns) }

// Row returns a copy of row i.
func (t *Table) Row(i int) []Value {
	return append([]Value(nil), t.rows[i]...)
}

// At returns the cell at row r, column c.
func (t *Table) At(r, c int) Value {
	return t.rows[r][c]
}

// Set overwrites the cell at row r, column c.
func (t *Table) Set(r, c int, v Value) {
	t.rows[r][c] = v
}

// SetColumn renames column i.
func (t *Table) SetColumn(i int, name string) {
	t.columns[i] = name
}

// ColumnIndex returns the position of the first column labeled name.
func (t *Table) ColumnIndex(name string) (int, bool) {
	for i, c := range t.columns {
		if c == name {
			return i, true
		}
	}
	return -1, false
}

// Clone returns a deep copy of t. Cells are immutable scalars, so copying
// the row slices is enough to isolate the copy.
func (t *Table) Clone() *Table {
	out := &Table{
		columns: append([]string(nil), t.columns...),
		rows:    make([][]Value, len(t.rows)),
	}
	for i, row := range t.rows {
		out.rows[i] = append([]Value(nil), row...)
	}
	return out
}

// Select returns a new table holding only the given columns, in order.
func (t *Table) Select(cols []int) *Table {
	out := &Table{
		columns: make([]string, len(cols)),
		rows:    make([][]Value, len(t.rows)),
	}
	for j, c := range cols {
		out.columns[j] = t.columns[c]
	}
	for i, row := range t.rows {
		nr := make([]Value, len(cols))
		for j, c := range cols {
			nr[j] = row[c]
		}
		out.rows[i] = nr
	}
	return out
}

// Filter returns a new table with the rows for which keep returns true.
// keep receives the live row and must not retain or modify it.
func (t *Table) Filter(keep func(row []Value) bool) *Table {
	out := &Table{columns: append([]string(nil), t.columns...)}
	for _, row := range t.rows {
		if keep(row) {
			out.rows = append(out.rows, append([]Value(nil), row...))
		}
	}
	if out.rows == nil {
		out.rows = [][]Value{}
	}
	return out
}

// Map returns a new table with fn applied to every cell.
func (t *Table) Map(fn func(v Value) Value) *Table {
	out := t.Clone()
	for _, row := range out.rows {
		for j, v := range row {
			row[j] = fn(v)
		}
	}
	return out
}

// NullCount returns the number of null cells in column c.
func (t *Table) NullCount(c int) int {
	n := 0
	for _, row := range t.rows {
		if IsNull(row[c]) {
			n++
		}
	}
	return n
}

// Equal reports whether t and o have the same labels and cell values.
// NaN cells compare equal to each other.
func (t *Table) Equal(o *Table) bool {
	if t == nil || o == nil {
		return t == o
	}
	if len(t.columns) != len(o.columns) || len(t.rows) != len(o.rows) {
		return false
	}
	for i := range t.columns {
		if t.columns[i] != o.columns[i] {
			return false
		}
	}
	for i := range t.rows {
		for j := range t.rows[i] {
			if !ValuesEqual(t.rows[i][j], o.rows[i][j]) {
				return false
			}
		}
	}
	return true
}

// String returns a short description such as "table(3x2)".
func (t *Table) String() string {
	return fmt.Sprintf("table(%dx%d)", len(t.rows), len(t.columns))
}

// IsNull reports whether v counts as a missing value.
func IsNull(v Value) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case float64:
		return math.IsNaN(x)
	}
	return false
}

// ValuesEqual compares two cells by value. NaN equals NaN.
func ValuesEqual(a, b Value) bool {
	fa, aok := a.(float64)
	fb, bok := b.(float64)
	if aok && bok && math.IsNaN(fa) && math.IsNaN(fb) {
		return true
	}
	return a == b
}
