package ops

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/databroom/databroom/pkg/errors"
	"github.com/databroom/databroom/pkg/history"
	"github.com/databroom/databroom/pkg/table"
)

func run(t *testing.T, name string, in *table.Table, args history.Args) *table.Table {
	t.Helper()
	op, ok := Default().Lookup(name)
	if !ok {
		t.Fatalf("operation %s not registered", name)
	}
	out, _, err := op.Invoke(in, args)
	if err != nil {
		t.Fatalf("%s: %v", name, err)
	}
	return out
}

func messy() *table.Table {
	return table.MustNew(
		[]string{" Nombre Completo ", "Año", "Notes"},
		[][]table.Value{
			{"  José Pérez ", int64(1990), nil},
			{nil, nil, nil},
			{"Ana María", int64(1985), ""},
			{"  José Pérez ", int64(1990), nil},
		},
	)
}

func TestNormalizeColumnNames(t *testing.T) {
	in := table.MustNew([]string{"Name ", "age"}, [][]table.Value{{"Bob", int64(25)}})
	out := run(t, "normalize_column_names", in, history.Args{})

	if diff := cmp.Diff([]string{"name", "age"}, out.Columns()); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
	if in.Columns()[0] != "Name " {
		t.Error("operation must not modify its input")
	}
}

func TestStandardizeColumnNames(t *testing.T) {
	out := run(t, "standardize_column_names", messy(), history.Args{})
	want := []string{"nombre_completo", "año", "notes"}
	if diff := cmp.Diff(want, out.Columns()); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
}

func TestRemoveEmptyRows(t *testing.T) {
	out := run(t, "remove_empty_rows", messy(), history.Args{})
	if out.NumRows() != 3 {
		t.Errorf("rows = %d, want 3", out.NumRows())
	}
}

func TestRemoveEmptyCols(t *testing.T) {
	tests := []struct {
		name      string
		args      history.Args
		wantCols  int
		wantError bool
	}{
		{"default threshold", history.Args{}, 2, false},
		{"positional threshold", history.Args{Positional: []any{0.2}}, 0, false},
		{"keyword int threshold", history.Kw(map[string]any{"threshold": int64(1)}), 2, false},
		{"string threshold", history.Kw(map[string]any{"threshold": "0.9"}), 2, false},
		{"out of range", history.Kw(map[string]any{"threshold": 2.0}), 0, true},
		{"nan threshold", history.Kw(map[string]any{"threshold": math.NaN()}), 0, true},
		{"nan string threshold", history.Kw(map[string]any{"threshold": "nan"}), 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op, _ := Default().Lookup("remove_empty_cols")
			out, _, err := op.Invoke(messy(), tt.args)
			if tt.wantError {
				if !errors.Is(err, errors.ErrCodeInvalidArgument) {
					t.Fatalf("error = %v, want %s", err, errors.ErrCodeInvalidArgument)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if out.NumCols() != tt.wantCols {
				t.Errorf("cols = %d (%v), want %d", out.NumCols(), out.Columns(), tt.wantCols)
			}
		})
	}
}

func TestNormalizeAndStandardizeValues(t *testing.T) {
	norm := run(t, "normalize_values", messy(), history.Args{})
	if got := norm.At(0, 0); got != "jose perez" {
		t.Errorf("normalize_values = %q, want %q", got, "jose perez")
	}
	if got := norm.At(0, 1); got != int64(1990) {
		t.Errorf("numeric cell changed to %v", got)
	}

	std := run(t, "standardize_values", messy(), history.Args{})
	if got := std.At(2, 0); got != "ana_maria" {
		t.Errorf("standardize_values = %q, want %q", got, "ana_maria")
	}
}

func TestCleanColumnsFlags(t *testing.T) {
	out := run(t, "clean_columns", messy(), history.Kw(map[string]any{
		"snakecase": false,
	}))
	want := []string{"nombre completo", "ano"}
	if diff := cmp.Diff(want, out.Columns()); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}

	keep := run(t, "clean_columns", messy(), history.Kw(map[string]any{
		"remove_empty":   false,
		"remove_accents": false,
	}))
	if diff := cmp.Diff([]string{"nombre_completo", "año", "notes"}, keep.Columns()); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
}

func TestCleanRows(t *testing.T) {
	out := run(t, "clean_rows", messy(), history.Args{})
	if out.NumRows() != 3 {
		t.Fatalf("rows = %d, want 3", out.NumRows())
	}
	if got := out.At(0, 0); got != "jose_perez" {
		t.Errorf("value = %q, want jose_perez", got)
	}
}

func TestCleanAll(t *testing.T) {
	out := run(t, "clean_all", messy(), history.Args{})
	if diff := cmp.Diff([]string{"nombre_completo", "ano"}, out.Columns()); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
	if out.NumRows() != 3 {
		t.Errorf("rows = %d, want 3", out.NumRows())
	}
	if got := out.At(1, 0); got != "ana_maria" {
		t.Errorf("value = %q, want ana_maria", got)
	}
}

func TestDropDuplicates(t *testing.T) {
	out := run(t, "drop_duplicates", messy(), history.Args{})
	if out.NumRows() != 3 {
		t.Errorf("rows = %d, want 3", out.NumRows())
	}

	typed := table.MustNew([]string{"v"}, [][]table.Value{{"1"}, {int64(1)}})
	if n := run(t, "drop_duplicates", typed, history.Args{}).NumRows(); n != 2 {
		t.Errorf("string and int cells must not collide, rows = %d", n)
	}
}

func TestPromoteHeaders(t *testing.T) {
	in := table.MustNew([]string{"c0", "c1", "c2"}, [][]table.Value{
		{"junk", nil, nil},
		{"id", "city", nil},
		{int64(1), "Paris", float64(2)},
	})

	out := run(t, "promote_headers", in, history.Kw(map[string]any{"row_index": 1}))
	if diff := cmp.Diff([]string{"id", "city", "unnamed_2"}, out.Columns()); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
	if out.NumRows() != 2 {
		t.Errorf("rows = %d, want 2", out.NumRows())
	}

	kept := run(t, "promote_headers", in, history.Args{Positional: []any{2, false}})
	if diff := cmp.Diff([]string{"1", "Paris", "2"}, kept.Columns()); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
	if kept.NumRows() != 3 {
		t.Errorf("rows = %d, want 3", kept.NumRows())
	}

	op, _ := Default().Lookup("promote_headers")
	if _, _, err := op.Invoke(in, history.Args{Positional: []any{9}}); !errors.Is(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("out of range row_index error = %v", err)
	}
}

func TestRenameColumn(t *testing.T) {
	in := table.MustNew([]string{"a", "b"}, [][]table.Value{{int64(1), int64(2)}})
	out := run(t, "rename_column", in, history.Args{Positional: []any{"b", "beta"}})
	if diff := cmp.Diff([]string{"a", "beta"}, out.Columns()); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}

	op, _ := Default().Lookup("rename_column")
	tests := []history.Args{
		{Positional: []any{"missing", "x"}},
		{Positional: []any{"a", "  "}},
		{Positional: []any{"a"}},
	}
	for _, args := range tests {
		if _, _, err := op.Invoke(in, args); !errors.Is(err, errors.ErrCodeInvalidArgument) {
			t.Errorf("Invoke(%v) error = %v, want %s", args, err, errors.ErrCodeInvalidArgument)
		}
	}
}

func TestStripAccents(t *testing.T) {
	tests := map[string]string{
		"José":     "Jose",
		"Ñandú":    "Nandu",
		"façade":   "facade",
		"plain":    "plain",
		"Ärger ü":  "Arger u",
		"":         "",
		"crème—x":  "creme—x",
		"São Tomé": "Sao Tome",
	}
	for in, want := range tests {
		if got := stripAccents(in); got != want {
			t.Errorf("stripAccents(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSnakeCase(t *testing.T) {
	tests := map[string]string{
		"first name":     "first_name",
		"  a--b  ":       "a_b",
		"__x__":          "x",
		"Total (USD) $":  "Total_USD",
		"already_snake":  "already_snake",
		"año de ingreso": "año_de_ingreso",
	}
	for in, want := range tests {
		if got := snakeCase(in); got != want {
			t.Errorf("snakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}
