package pipeline

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/databroom/databroom/pkg/errors"
	"github.com/databroom/databroom/pkg/history"
	"github.com/databroom/databroom/pkg/ops"
	"github.com/databroom/databroom/pkg/table"
)

func people() *table.Table {
	return table.MustNew(
		[]string{"Name ", "age"},
		[][]table.Value{{"Bob", int64(25)}},
	)
}

func messy() *table.Table {
	return table.MustNew(
		[]string{" First Name", "Ciudad", "empty"},
		[][]table.Value{
			{"José", "Málaga", nil},
			{nil, nil, nil},
			{"Ana", "Sevilla", nil},
			{"José", "Málaga", nil},
		},
	)
}

func checkInvariant(t *testing.T, p *Pipeline) {
	t.Helper()
	if p.SnapshotCount() != p.OperationCount()+1 {
		t.Fatalf("snapshots = %d, operations = %d", p.SnapshotCount(), p.OperationCount())
	}
	if p.CanStepBack() != (p.OperationCount() > 0) {
		t.Fatalf("CanStepBack = %v with %d operations", p.CanStepBack(), p.OperationCount())
	}
}

func TestNewPipeline(t *testing.T) {
	p := New(people(), ops.Default())
	checkInvariant(t, p)

	if p.OperationCount() != 0 || p.SnapshotCount() != 1 {
		t.Errorf("fresh pipeline has %d ops, %d snapshots", p.OperationCount(), p.SnapshotCount())
	}
	if !p.Current().Equal(people()) || !p.Original().Equal(people()) {
		t.Error("current and original should equal the input")
	}
	if len(p.History()) != 0 {
		t.Errorf("history = %v, want empty", p.History())
	}
}

func TestExecuteAndStepBack(t *testing.T) {
	p := New(people(), ops.Default())

	out, err := p.Execute("normalize_column_names", history.Args{})
	if err != nil {
		t.Fatal(err)
	}
	checkInvariant(t, p)
	if diff := cmp.Diff([]string{"name", "age"}, out.Columns()); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
	want := []history.Record{{Name: "normalize_column_names", Args: []any{}, Kwargs: map[string]any{}}}
	if diff := cmp.Diff(want, p.History()); diff != "" {
		t.Errorf("history mismatch (-want +got):\n%s", diff)
	}

	back, err := p.StepBack()
	if err != nil {
		t.Fatal(err)
	}
	checkInvariant(t, p)
	if diff := cmp.Diff([]string{"Name ", "age"}, back.Columns()); diff != "" {
		t.Errorf("columns after step back (-want +got):\n%s", diff)
	}
	if len(p.History()) != 0 {
		t.Errorf("history = %v, want empty", p.History())
	}
}

func TestStepBackRestoresEveryState(t *testing.T) {
	p := New(messy(), ops.Default())
	steps := []Step{
		{Operation: "remove_empty_cols"},
		{Operation: "remove_empty_rows"},
		{Operation: "standardize_column_names"},
		{Operation: "drop_duplicates"},
		{Operation: "rename_column", Args: history.Args{Positional: []any{"ciudad", "city"}}},
	}

	states := []*table.Table{p.Current().Clone()}
	for _, s := range steps {
		out, err := p.Execute(s.Operation, s.Args)
		if err != nil {
			t.Fatalf("%s: %v", s.Operation, err)
		}
		checkInvariant(t, p)
		states = append(states, out.Clone())
	}
	if diff := cmp.Diff([]string{"first_name", "city"}, p.Current().Columns()); diff != "" {
		t.Errorf("final columns (-want +got):\n%s", diff)
	}
	if p.Current().NumRows() != 2 {
		t.Errorf("final rows = %d, want 2", p.Current().NumRows())
	}

	for i := len(steps) - 1; i >= 0; i-- {
		back, err := p.StepBack()
		if err != nil {
			t.Fatal(err)
		}
		checkInvariant(t, p)
		if !back.Equal(states[i]) {
			t.Errorf("step back to state %d: got %v", i, back)
		}
		if p.OperationCount() != i {
			t.Errorf("operations = %d, want %d", p.OperationCount(), i)
		}
	}

	if !p.Current().Equal(p.Original()) {
		t.Error("stepping back every operation should restore the original")
	}
	if _, err := p.StepBack(); !errors.Is(err, errors.ErrCodeNoPreviousState) {
		t.Errorf("extra step back error = %v", err)
	}
}

func TestStepBackOnFreshPipeline(t *testing.T) {
	p := New(people(), ops.Default())
	if _, err := p.StepBack(); !errors.Is(err, errors.ErrCodeNoPreviousState) {
		t.Fatalf("StepBack() error = %v, want %s", err, errors.ErrCodeNoPreviousState)
	}
	checkInvariant(t, p)
	if !p.Current().Equal(people()) {
		t.Error("failed step back changed the current table")
	}
}

func TestExecuteFailuresLeaveStateUnchanged(t *testing.T) {
	tests := []struct {
		name string
		op   string
		args history.Args
		code errors.Code
	}{
		{"unknown operation", "sweep_floor", history.Args{}, errors.ErrCodeUnknownOperation},
		{"missing column", "rename_column", history.Args{Positional: []any{"nope", "x"}}, errors.ErrCodeInvalidArgument},
		{"bad argument", "remove_empty_cols", history.Kw(map[string]any{"threshold": 3.0}), errors.ErrCodeInvalidArgument},
		{"unknown keyword", "remove_empty_rows", history.Kw(map[string]any{"how": "all"}), errors.ErrCodeInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(people(), ops.Default())
			if _, err := p.Execute("normalize_column_names", history.Args{}); err != nil {
				t.Fatal(err)
			}
			before := p.Current().Clone()

			_, err := p.Execute(tt.op, tt.args)
			if !errors.Is(err, tt.code) {
				t.Fatalf("Execute() error = %v, want %s", err, tt.code)
			}
			checkInvariant(t, p)
			if p.OperationCount() != 1 {
				t.Errorf("operations = %d, want 1", p.OperationCount())
			}
			if !p.Current().Equal(before) {
				t.Error("failed operation changed the current table")
			}
		})
	}
}

func TestSnapshotsAreIsolated(t *testing.T) {
	in := people()
	p := New(in, ops.Default())

	in.Set(0, 0, "Mallory")
	if p.Original().At(0, 0) != "Bob" {
		t.Error("mutating the input changed the original")
	}
	p.Original().Set(0, 0, "Eve")
	if p.Original().At(0, 0) != "Bob" {
		t.Error("Original() must return a copy")
	}

	if _, err := p.Execute("normalize_values", history.Args{}); err != nil {
		t.Fatal(err)
	}
	p.Current().Set(0, 0, "tampered")
	if _, err := p.Execute("remove_empty_rows", history.Args{}); err != nil {
		t.Fatal(err)
	}

	back, err := p.StepBack()
	if err != nil {
		t.Fatal(err)
	}
	if back.At(0, 0) != "bob" {
		t.Errorf("snapshot = %v, mutating Current() must not alter stored snapshots", back.At(0, 0))
	}
}

func TestHistoryIsACopy(t *testing.T) {
	p := New(people(), ops.Default())
	if _, err := p.Execute("remove_empty_cols", history.Kw(map[string]any{"threshold": 0.5})); err != nil {
		t.Fatal(err)
	}

	h := p.History()
	h[0].Kwargs["threshold"] = 0.1
	h[0].Name = "changed"

	got := p.History()[0]
	if got.Name != "remove_empty_cols" || got.Kwargs["threshold"] != 0.5 {
		t.Errorf("history was modified through a copy: %+v", got)
	}
}

func TestHooksReceiveEvents(t *testing.T) {
	rec := &recordingHooks{}
	p := New(people(), ops.Default(), WithHooks(rec))

	if _, err := p.Execute("normalize_column_names", history.Args{}); err != nil {
		t.Fatal(err)
	}
	if _, err := p.Execute("rename_column", history.Args{Positional: []any{"nope", "x"}}); err == nil {
		t.Fatal("expected rename failure")
	}
	if _, err := p.StepBack(); err != nil {
		t.Fatal(err)
	}

	want := []string{
		"start normalize_column_names",
		"complete normalize_column_names ok",
		"start rename_column",
		"complete rename_column error",
		"back normalize_column_names 0",
	}
	if diff := cmp.Diff(want, rec.events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

type recordingHooks struct {
	events []string
}

func (h *recordingHooks) OnOperationStart(name string, _, _ int) {
	h.events = append(h.events, "start "+name)
}

func (h *recordingHooks) OnOperationComplete(name string, _, _ int, _ time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	h.events = append(h.events, "complete "+name+" "+status)
}

func (h *recordingHooks) OnStepBack(name string, remaining int) {
	h.events = append(h.events, "back "+name+" "+string(rune('0'+remaining)))
}
