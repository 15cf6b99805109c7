package ops

import (
	"fmt"
	"strings"

	"github.com/databroom/databroom/pkg/table"
)

func removeEmptyRows(t *table.Table, _ Params) (*table.Table, error) {
	return dropEmptyRows(t), nil
}

func dropEmptyRows(t *table.Table) *table.Table {
	return t.Filter(func(row []table.Value) bool {
		for _, v := range row {
			if !table.IsNull(v) {
				return true
			}
		}
		return false
	})
}

func normalizeValues(t *table.Table, _ Params) (*table.Table, error) {
	return mapText(t, textOptions{lowercase: true, removeAccents: true}), nil
}

func standardizeValues(t *table.Table, _ Params) (*table.Table, error) {
	return mapText(t, textOptions{lowercase: true, removeAccents: true, snakecase: true}), nil
}

// mapText applies cleanText to string cells. Other cells are left alone.
func mapText(t *table.Table, o textOptions) *table.Table {
	return t.Map(func(v table.Value) table.Value {
		if s, ok := v.(string); ok {
			return cleanText(s, o)
		}
		return v
	})
}

func cleanRows(t *table.Table, p Params) (*table.Table, error) {
	out := t
	if p.Bool("remove_empty") {
		out = dropEmptyRows(out)
	}
	return mapText(out, textOptions{
		lowercase:     p.Bool("lowercase"),
		removeAccents: p.Bool("remove_accents"),
		snakecase:     p.Bool("snakecase"),
	}), nil
}

func cleanAll(t *table.Table, p Params) (*table.Table, error) {
	out := t
	if p.Bool("remove_empty_cols") {
		var err error
		if out, err = dropSparseColumns(out, p.Float("empty_threshold")); err != nil {
			return nil, err
		}
	}
	out = renameAll(out, textOptions{
		lowercase:     p.Bool("lowercase_cols"),
		removeAccents: p.Bool("remove_accents_cols"),
		snakecase:     p.Bool("snakecase_cols"),
	})
	if p.Bool("remove_empty_rows") {
		out = dropEmptyRows(out)
	}
	return mapText(out, textOptions{
		lowercase:     p.Bool("lowercase_vals"),
		removeAccents: p.Bool("remove_accents_vals"),
		snakecase:     p.Bool("snakecase_vals"),
	}), nil
}

func dropDuplicates(t *table.Table, _ Params) (*table.Table, error) {
	seen := make(map[string]struct{}, t.NumRows())
	return t.Filter(func(row []table.Value) bool {
		key := rowKey(row)
		if _, dup := seen[key]; dup {
			return false
		}
		seen[key] = struct{}{}
		return true
	}), nil
}

// rowKey encodes a row with cell types so that "1" and 1 stay distinct.
func rowKey(row []table.Value) string {
	var b strings.Builder
	for _, v := range row {
		if table.IsNull(v) {
			b.WriteString("null")
		} else {
			fmt.Fprintf(&b, "%T:%v", v, v)
		}
		b.WriteByte(0x1f)
	}
	return b.String()
}
