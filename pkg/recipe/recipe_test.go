package recipe

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/databroom/databroom/pkg/errors"
	"github.com/databroom/databroom/pkg/history"
	pkgio "github.com/databroom/databroom/pkg/io"
	"github.com/databroom/databroom/pkg/ops"
	"github.com/databroom/databroom/pkg/pipeline"
	"github.com/databroom/databroom/pkg/table"
)

func messy() *table.Table {
	return table.MustNew(
		[]string{"Nombre ", "Ciudad", "vacía"},
		[][]table.Value{
			{"José Luis", "Málaga", nil},
			{nil, nil, nil},
			{"Ana", "Sevilla", nil},
		},
	)
}

func applySteps(t *testing.T, in *table.Table, steps []Step) *pipeline.Pipeline {
	t.Helper()
	p := pipeline.New(in, ops.Default())
	for _, s := range steps {
		if _, err := p.Execute(s.Operation, s.Args()); err != nil {
			t.Fatalf("%s: %v", s.Operation, err)
		}
	}
	return p
}

func TestSaveLoadReplay(t *testing.T) {
	p := pipeline.New(messy(), ops.Default())
	calls := []struct {
		name string
		args history.Args
	}{
		{"clean_columns", history.Kw(map[string]any{"empty_threshold": 0.5, "snakecase": false})},
		{"remove_empty_rows", history.Args{}},
		{"rename_column", history.Args{Positional: []any{"ciudad", "city"}}},
		{"standardize_values", history.Args{}},
	}
	for _, c := range calls {
		if _, err := p.Execute(c.name, c.args); err != nil {
			t.Fatalf("%s: %v", c.name, err)
		}
	}

	for _, name := range []string{"steps.toml", "steps.yaml", "steps.yml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			if err := Save(path, FromHistory(p.History())); err != nil {
				t.Fatal(err)
			}
			r, err := Load(path)
			if err != nil {
				t.Fatal(err)
			}
			if err := r.Validate(ops.Default()); err != nil {
				t.Fatal(err)
			}
			if len(r.Steps) != len(calls) {
				t.Fatalf("steps = %d, want %d", len(r.Steps), len(calls))
			}

			replayed := applySteps(t, messy(), r.Steps)
			if !replayed.Current().Equal(p.Current()) {
				t.Errorf("replay = %v %v, want %v %v",
					replayed.Current().Columns(), replayed.Current().Row(0),
					p.Current().Columns(), p.Current().Row(0))
			}
		})
	}
}

func TestDecodeTOML(t *testing.T) {
	src := `
[[steps]]
operation = "remove_empty_cols"
args = [0.5]

[[steps]]
operation = "promote_headers"

[steps.params]
row_index = 1
drop_promoted_row = false
`
	r, err := Decode(strings.NewReader(src), FormatTOML)
	if err != nil {
		t.Fatal(err)
	}
	if r.Version != CurrentVersion {
		t.Errorf("version = %d, want %d", r.Version, CurrentVersion)
	}
	if len(r.Steps) != 2 {
		t.Fatalf("steps = %d, want 2", len(r.Steps))
	}
	args := r.Steps[1].Args()
	if args.Keyword["row_index"] != int64(1) || args.Keyword["drop_promoted_row"] != false {
		t.Errorf("params = %v", args.Keyword)
	}
	if err := r.Validate(ops.Default()); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		src    string
		code   errors.Code
	}{
		{"toml syntax", FormatTOML, "steps = [", errors.ErrCodeInvalidRecipe},
		{"toml unknown key", FormatTOML, "[[steps]]\noperation = \"x\"\ncolour = 1\n", errors.ErrCodeInvalidRecipe},
		{"yaml unknown key", FormatYAML, "steps:\n  - operation: x\n    colour: 1\n", errors.ErrCodeInvalidRecipe},
		{"missing operation", FormatYAML, "steps:\n  - params: {a: 1}\n", errors.ErrCodeInvalidRecipe},
		{"bad format", Format("ini"), "", errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.src), tt.format)
			if !errors.Is(err, tt.code) {
				t.Errorf("Decode() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		r    Recipe
		code errors.Code
	}{
		{"unknown op", Recipe{Steps: []Step{{Operation: "vacuum"}}}, errors.ErrCodeUnknownOperation},
		{"bad params", Recipe{Steps: []Step{{Operation: "remove_empty_rows", Params: map[string]any{"x": 1}}}}, errors.ErrCodeInvalidArgument},
		{"future version", Recipe{Version: CurrentVersion + 1}, errors.ErrCodeInvalidRecipe},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.r.Validate(ops.Default()); !errors.Is(err, tt.code) {
				t.Errorf("Validate() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestEncodeYAML(t *testing.T) {
	r := FromHistory([]history.Record{
		history.NewRecord("remove_empty_rows", history.Args{}),
		history.NewRecord("rename_column", history.Args{Positional: []any{"a", "b"}}),
	})
	var buf bytes.Buffer
	if err := Encode(&buf, FormatYAML, r); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"version: 1", "operation: remove_empty_rows", "operation: rename_column"} {
		if !strings.Contains(out, want) {
			t.Errorf("Encode() output misses %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "params") {
		t.Errorf("empty params should be omitted:\n%s", out)
	}

	back, err := Decode(&buf, FormatYAML)
	if err != nil {
		t.Fatal(err)
	}
	if got := back.Steps[1].Args().Positional; len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("args = %v, want [a b]", got)
	}
}

func TestDetectFormat(t *testing.T) {
	if f, _ := DetectFormat("a.YML"); f != FormatYAML {
		t.Errorf("DetectFormat(a.YML) = %q", f)
	}
	if _, err := DetectFormat("a.json"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("DetectFormat(a.json) error = %v", err)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "none.toml")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) error = %v", err)
	}
}

func TestExampleRecipe(t *testing.T) {
	rec, err := Load(filepath.Join("..", "..", "examples", "recipes", "customers.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if err := rec.Validate(ops.Default()); err != nil {
		t.Fatal(err)
	}
	in, err := pkgio.Read(filepath.Join("..", "..", "examples", "data", rec.Source), pkgio.ReadOptions{})
	if err != nil {
		t.Fatal(err)
	}

	out := applySteps(t, in, rec.Steps).Current()
	want := []string{"customer_id", "name", "ciudad", "email", "fecha_alta"}
	if diff := cmp.Diff(want, out.Columns()); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
	if out.NumRows() != 4 {
		t.Errorf("rows = %d, want 4", out.NumRows())
	}
	if got := out.At(0, 1); got != "jose perez" {
		t.Errorf("name = %q, want %q", got, "jose perez")
	}
}
