package table

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/databroom/databroom/pkg/errors"
)

func sample() *Table {
	return MustNew(
		[]string{"Name ", "age"},
		[][]Value{
			{"Bob", int64(25)},
			{nil, nil},
			{"Ana", float64(31.5)},
		},
	)
}

func TestNewRejectsRaggedRows(t *testing.T) {
	_, err := New([]string{"a", "b"}, [][]Value{{"x"}})
	if !errors.Is(err, errors.ErrCodeInvalidTable) {
		t.Fatalf("New() error = %v, want %s", err, errors.ErrCodeInvalidTable)
	}
}

func TestNewRejectsUnsupportedCells(t *testing.T) {
	_, err := New([]string{"a"}, [][]Value{{42}})
	if !errors.Is(err, errors.ErrCodeInvalidTable) {
		t.Fatalf("New() error = %v, want %s", err, errors.ErrCodeInvalidTable)
	}
}

func TestNewCopiesInput(t *testing.T) {
	cols := []string{"a"}
	rows := [][]Value{{"x"}}
	tbl := MustNew(cols, rows)

	cols[0] = "changed"
	rows[0][0] = "changed"

	if tbl.Columns()[0] != "a" || tbl.At(0, 0) != "x" {
		t.Error("New should copy its inputs")
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	tbl := sample()

	cols := tbl.Columns()
	cols[0] = "mutated"
	row := tbl.Row(0)
	row[0] = "mutated"

	if tbl.Columns()[0] != "Name " {
		t.Error("Columns() must return a copy")
	}
	if tbl.At(0, 0) != "Bob" {
		t.Error("Row() must return a copy")
	}
}

func TestCloneIsolation(t *testing.T) {
	tbl := sample()
	snap := tbl.Clone()

	tbl.Set(0, 0, "Alice")
	tbl.SetColumn(1, "years")

	if snap.At(0, 0) != "Bob" {
		t.Errorf("snapshot cell = %v, want Bob", snap.At(0, 0))
	}
	if snap.Columns()[1] != "age" {
		t.Errorf("snapshot column = %q, want age", snap.Columns()[1])
	}
	if tbl.Equal(snap) {
		t.Error("mutated table should differ from its clone")
	}
}

func TestEqual(t *testing.T) {
	a := MustNew([]string{"x"}, [][]Value{{math.NaN()}})
	b := MustNew([]string{"x"}, [][]Value{{math.NaN()}})
	if !a.Equal(b) {
		t.Error("NaN cells should compare equal")
	}

	c := MustNew([]string{"x"}, [][]Value{{int64(1)}})
	d := MustNew([]string{"x"}, [][]Value{{float64(1)}})
	if c.Equal(d) {
		t.Error("int64(1) and float64(1) are different cells")
	}

	if !sample().Equal(sample()) {
		t.Error("identical tables should be equal")
	}
}

func TestSelectAndFilter(t *testing.T) {
	tbl := sample()

	sel := tbl.Select([]int{1})
	if diff := cmp.Diff([]string{"age"}, sel.Columns()); diff != "" {
		t.Errorf("Select columns mismatch (-want +got):\n%s", diff)
	}
	if sel.NumRows() != 3 {
		t.Errorf("Select rows = %d, want 3", sel.NumRows())
	}

	nonEmpty := tbl.Filter(func(row []Value) bool { return !IsNull(row[0]) })
	if nonEmpty.NumRows() != 2 {
		t.Errorf("Filter rows = %d, want 2", nonEmpty.NumRows())
	}

	none := tbl.Filter(func([]Value) bool { return false })
	if none.NumRows() != 0 || none.NumCols() != 2 {
		t.Errorf("empty filter = %s, want table(0x2)", none)
	}
}

func TestMap(t *testing.T) {
	tbl := sample()
	out := tbl.Map(func(v Value) Value {
		if s, ok := v.(string); ok {
			return s + "!"
		}
		return v
	})
	if out.At(0, 0) != "Bob!" {
		t.Errorf("Map cell = %v, want Bob!", out.At(0, 0))
	}
	if tbl.At(0, 0) != "Bob" {
		t.Error("Map must not modify the source table")
	}
}

func TestIsNull(t *testing.T) {
	tests := []struct {
		v    Value
		want bool
	}{
		{nil, true},
		{"", true},
		{math.NaN(), true},
		{" ", false},
		{"x", false},
		{int64(0), false},
		{false, false},
	}
	for _, tt := range tests {
		if got := IsNull(tt.v); got != tt.want {
			t.Errorf("IsNull(%#v) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestNullCountAndIndex(t *testing.T) {
	tbl := sample()
	if n := tbl.NullCount(0); n != 1 {
		t.Errorf("NullCount(0) = %d, want 1", n)
	}
	if i, ok := tbl.ColumnIndex("age"); !ok || i != 1 {
		t.Errorf("ColumnIndex(age) = %d, %v", i, ok)
	}
	if _, ok := tbl.ColumnIndex("missing"); ok {
		t.Error("ColumnIndex(missing) should not be found")
	}
}
