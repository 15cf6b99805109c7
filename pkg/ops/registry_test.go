package ops

import (
	"strings"
	"testing"

	"github.com/databroom/databroom/pkg/errors"
	"github.com/databroom/databroom/pkg/history"
	"github.com/databroom/databroom/pkg/table"
)

func TestDefaultRegistryNames(t *testing.T) {
	r := Default()
	for _, name := range []string{
		"remove_empty_cols", "remove_empty_rows", "standardize_column_names",
		"normalize_column_names", "normalize_values", "standardize_values",
		"clean_columns", "clean_rows", "clean_all", "promote_headers",
		"rename_column", "drop_duplicates",
	} {
		if !r.Has(name) {
			t.Errorf("default registry is missing %s", name)
		}
	}
	if len(r.Names()) != len(r.All()) {
		t.Error("Names and All disagree")
	}
	if _, ok := r.Resolve("not_a_real_op"); ok {
		t.Error("Resolve should fail for unknown names")
	}
}

func TestNewRegistryRejectsDuplicates(t *testing.T) {
	op := &Operation{Name: "x", Fn: removeEmptyRows}
	if _, err := NewRegistry(op, op); err == nil {
		t.Error("duplicate names should be rejected")
	}
	if _, err := NewRegistry(&Operation{Name: "y"}); err == nil {
		t.Error("operations without a function should be rejected")
	}
}

func TestDescribe(t *testing.T) {
	for _, d := range Default().Describe() {
		if d.Summary == "" {
			t.Errorf("%s has no summary", d.Name)
		}
		if d.Flag != strings.ReplaceAll(d.Name, "_", "-") {
			t.Errorf("%s has flag %q", d.Name, d.Flag)
		}
		for _, p := range d.Params {
			if p.Required && p.Default != nil {
				t.Errorf("%s.%s is required but has a default", d.Name, p.Name)
			}
		}
	}

	op, _ := Default().Lookup("remove_empty_cols")
	if op.Flag() != "remove-empty-cols" {
		t.Errorf("Flag() = %q, want remove-empty-cols", op.Flag())
	}
	cc, _ := Default().Lookup("clean_columns")
	p, _ := cc.Param("empty_threshold")
	if p.Flag() != "empty-threshold" {
		t.Errorf("Param.Flag() = %q, want empty-threshold", p.Flag())
	}
}

func TestBindErrors(t *testing.T) {
	op, _ := Default().Lookup("promote_headers")

	tests := []struct {
		name string
		args history.Args
	}{
		{"too many positionals", history.Args{Positional: []any{0, true, "extra"}}},
		{"unknown keyword", history.Kw(map[string]any{"bogus": 1})},
		{"duplicate value", history.Args{Positional: []any{0}, Keyword: map[string]any{"row_index": 1}}},
		{"wrong kind", history.Kw(map[string]any{"drop_promoted_row": "maybe"})},
		{"fractional int", history.Kw(map[string]any{"row_index": 1.5})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := op.Bind(tt.args)
			if !errors.Is(err, errors.ErrCodeInvalidArgument) {
				t.Errorf("Bind() error = %v, want %s", err, errors.ErrCodeInvalidArgument)
			}
		})
	}
}

func TestBindDefaultsAndCoercion(t *testing.T) {
	op, _ := Default().Lookup("clean_all")
	p, err := op.Bind(history.Kw(map[string]any{
		"empty_threshold": int64(1),
		"snakecase_vals":  "false",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if p.Float("empty_threshold") != 1.0 {
		t.Errorf("empty_threshold = %v, want 1", p.Float("empty_threshold"))
	}
	if p.Bool("snakecase_vals") {
		t.Error("snakecase_vals should be false")
	}
	if !p.Bool("lowercase_cols") {
		t.Error("lowercase_cols should default to true")
	}
}

func TestInvokeRecordsSuppliedArgs(t *testing.T) {
	op, _ := Default().Lookup("remove_empty_cols")
	in := table.MustNew([]string{"a"}, [][]table.Value{{"x"}})

	_, rec, err := op.Invoke(in, history.Kw(map[string]any{"threshold": 0.5}))
	if err != nil {
		t.Fatal(err)
	}
	if rec.Name != "remove_empty_cols" {
		t.Errorf("record name = %q", rec.Name)
	}
	if len(rec.Args) != 0 || rec.Kwargs["threshold"] != 0.5 {
		t.Errorf("record = %+v", rec)
	}
}
