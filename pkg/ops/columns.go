package ops

import (
	"fmt"

	"github.com/databroom/databroom/pkg/errors"
	"github.com/databroom/databroom/pkg/table"
)

func removeEmptyCols(t *table.Table, p Params) (*table.Table, error) {
	return dropSparseColumns(t, p.Float("threshold"))
}

// dropSparseColumns keeps the columns whose null ratio is below threshold.
// A table without rows keeps every column.
func dropSparseColumns(t *table.Table, threshold float64) (*table.Table, error) {
	if !(threshold >= 0 && threshold <= 1) {
		return nil, errors.New(errors.ErrCodeInvalidArgument,
			"threshold must be between 0 and 1, got %v", threshold)
	}
	if t.NumRows() == 0 {
		return t.Clone(), nil
	}
	keep := make([]int, 0, t.NumCols())
	for c := range t.NumCols() {
		ratio := float64(t.NullCount(c)) / float64(t.NumRows())
		if ratio < threshold {
			keep = append(keep, c)
		}
	}
	return t.Select(keep), nil
}

func standardizeColumnNames(t *table.Table, _ Params) (*table.Table, error) {
	return renameAll(t, textOptions{lowercase: true, snakecase: true}), nil
}

func normalizeColumnNames(t *table.Table, _ Params) (*table.Table, error) {
	return renameAll(t, textOptions{lowercase: true, removeAccents: true}), nil
}

func renameAll(t *table.Table, o textOptions) *table.Table {
	out := t.Clone()
	for i, name := range out.Columns() {
		out.SetColumn(i, cleanText(name, o))
	}
	return out
}

func cleanColumns(t *table.Table, p Params) (*table.Table, error) {
	out := t
	if p.Bool("remove_empty") {
		var err error
		if out, err = dropSparseColumns(out, p.Float("empty_threshold")); err != nil {
			return nil, err
		}
	}
	return renameAll(out, textOptions{
		lowercase:     p.Bool("lowercase"),
		removeAccents: p.Bool("remove_accents"),
		snakecase:     p.Bool("snakecase"),
	}), nil
}

func promoteHeaders(t *table.Table, p Params) (*table.Table, error) {
	idx := p.Int("row_index")
	if idx < 0 || idx >= t.NumRows() {
		return nil, errors.New(errors.ErrCodeInvalidArgument,
			"row_index %d out of range for %d rows", idx, t.NumRows())
	}

	header := t.Row(idx)
	out := t.Clone()
	for i, v := range header {
		out.SetColumn(i, headerLabel(v, i))
	}
	if !p.Bool("drop_promoted_row") {
		return out, nil
	}

	row := 0
	return out.Filter(func([]table.Value) bool {
		keep := row != idx
		row++
		return keep
	}), nil
}

// headerLabel formats a promoted cell as a column label. Null cells get a
// positional placeholder.
func headerLabel(v table.Value, i int) string {
	if table.IsNull(v) {
		return fmt.Sprintf("unnamed_%d", i)
	}
	if f, ok := v.(float64); ok && f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprint(v)
}

func renameColumn(t *table.Table, p Params) (*table.Table, error) {
	oldName, newName := p.String("old"), p.String("new")
	if err := errors.ValidateColumnName(newName); err != nil {
		return nil, err
	}
	i, ok := t.ColumnIndex(oldName)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "column %q not found", oldName)
	}
	out := t.Clone()
	out.SetColumn(i, newName)
	return out, nil
}
