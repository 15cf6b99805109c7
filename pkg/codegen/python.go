package codegen

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	pkgio "github.com/databroom/databroom/pkg/io"
	"github.com/databroom/databroom/pkg/ops"
)

type python struct{}

func (python) preamble() []string {
	return []string{
		"import re",
		"import unicodedata",
		"",
		"import pandas as pd",
	}
}

var pythonShared = map[string]string{
	"_nulls": `def _nulls(df):
    return df.isna() | df.isin([""])
`,
	"_clean_text": `def _clean_text(value, lowercase=True, remove_accents=True, snakecase=True):
    value = value.strip()
    if lowercase:
        value = value.lower()
    if remove_accents:
        value = unicodedata.normalize("NFD", value)
        value = "".join(c for c in value if unicodedata.category(c) != "Mn")
        value = unicodedata.normalize("NFC", value)
    if snakecase:
        value = re.sub(r"[\W_]+", "_", value).strip("_")
    return value
`,
	"_rename_columns": `def _rename_columns(df, **opts):
    df = df.copy()
    df.columns = [_clean_text(str(c), **opts) for c in df.columns]
    return df
`,
	"_map_text": `def _map_text(df, **opts):
    return df.apply(lambda col: col.map(lambda v: _clean_text(v, **opts) if isinstance(v, str) else v))
`,
	"_drop_sparse_columns": `def _drop_sparse_columns(df, threshold):
    if not 0 <= threshold <= 1:
        raise ValueError(f"threshold must be between 0 and 1, got {threshold}")
    if len(df) == 0:
        return df.copy()
    return df.loc[:, _nulls(df).mean() < threshold]
`,
	"_drop_empty_rows": `def _drop_empty_rows(df):
    return df.loc[~_nulls(df).all(axis=1)].reset_index(drop=True)
`,
	"_header_label": `def _header_label(value, i):
    if pd.isna(value) or value == "":
        return f"unnamed_{i}"
    if isinstance(value, float) and value.is_integer():
        return str(int(value))
    return str(value)
`,
}

type helperSource struct {
	deps []string
	body string
}

var pythonHelpers = map[string]helperSource{
	"promote_headers": {
		deps: []string{"_header_label"},
		body: `    if not 0 <= row_index < len(df):
        raise IndexError(f"row_index {row_index} out of range for {len(df)} rows")
    header = df.iloc[row_index]
    df = df.copy()
    df.columns = [_header_label(v, i) for i, v in enumerate(header)]
    if drop_promoted_row:
        df = df.drop(df.index[row_index]).reset_index(drop=True)
    return df
`,
	},
	"clean_all": {
		deps: []string{"_nulls", "_clean_text", "_drop_sparse_columns", "_rename_columns", "_drop_empty_rows", "_map_text"},
		body: `    if remove_empty_cols:
        df = _drop_sparse_columns(df, empty_threshold)
    df = _rename_columns(df, lowercase=lowercase_cols, remove_accents=remove_accents_cols, snakecase=snakecase_cols)
    if remove_empty_rows:
        df = _drop_empty_rows(df)
    return _map_text(df, lowercase=lowercase_vals, remove_accents=remove_accents_vals, snakecase=snakecase_vals)
`,
	},
	"clean_columns": {
		deps: []string{"_nulls", "_clean_text", "_drop_sparse_columns", "_rename_columns"},
		body: `    if remove_empty:
        df = _drop_sparse_columns(df, empty_threshold)
    return _rename_columns(df, lowercase=lowercase, remove_accents=remove_accents, snakecase=snakecase)
`,
	},
	"clean_rows": {
		deps: []string{"_nulls", "_clean_text", "_drop_empty_rows", "_map_text"},
		body: `    if remove_empty:
        df = _drop_empty_rows(df)
    return _map_text(df, lowercase=lowercase, remove_accents=remove_accents, snakecase=snakecase)
`,
	},
	"remove_empty_cols": {
		deps: []string{"_nulls", "_drop_sparse_columns"},
		body: "    return _drop_sparse_columns(df, threshold)\n",
	},
	"remove_empty_rows": {
		deps: []string{"_nulls", "_drop_empty_rows"},
		body: "    return _drop_empty_rows(df)\n",
	},
	"standardize_column_names": {
		deps: []string{"_clean_text", "_rename_columns"},
		body: "    return _rename_columns(df, lowercase=True, remove_accents=False, snakecase=True)\n",
	},
	"normalize_column_names": {
		deps: []string{"_clean_text", "_rename_columns"},
		body: "    return _rename_columns(df, lowercase=True, remove_accents=True, snakecase=False)\n",
	},
	"normalize_values": {
		deps: []string{"_clean_text", "_map_text"},
		body: "    return _map_text(df, lowercase=True, remove_accents=True, snakecase=False)\n",
	},
	"standardize_values": {
		deps: []string{"_clean_text", "_map_text"},
		body: "    return _map_text(df, lowercase=True, remove_accents=True, snakecase=True)\n",
	},
	"rename_column": {
		body: `    if old not in df.columns:
        raise KeyError(f"column {old!r} not found")
    return df.rename(columns={old: new})
`,
	},
	"drop_duplicates": {
		body: "    return df.drop_duplicates().reset_index(drop=True)\n",
	},
}

func (python) shared(name string) (string, bool) {
	src, ok := pythonShared[name]
	return src, ok
}

func (python) helper(name string) ([]string, string, bool) {
	h, ok := pythonHelpers[name]
	return h.deps, h.body, ok
}

func (python) define(op *ops.Operation, body string) (string, error) {
	params := []string{"df"}
	for _, p := range op.Params {
		if p.Required || p.Default == nil {
			params = append(params, p.Name)
			continue
		}
		lit, err := pyLiteral(p.Default)
		if err != nil {
			return "", err
		}
		params = append(params, p.Name+"="+lit)
	}
	return fmt.Sprintf("def %s(%s):\n    \"\"\"%s.\"\"\"\n%s",
		op.Name, strings.Join(params, ", "), op.Summary, body), nil
}

func (python) call(op *ops.Operation, p ops.Params) (string, error) {
	kv, err := args(op, p, pyLiteral, "=")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("df = %s(%s)", op.Name, strings.Join(append([]string{"df"}, kv...), ", ")), nil
}

func (python) read(path string, f pkgio.Format) string {
	q := strconv.Quote(path)
	switch f {
	case pkgio.FormatTSV:
		return fmt.Sprintf("df = pd.read_csv(%s, sep=\"\\t\")", q)
	case pkgio.FormatXLSX:
		return fmt.Sprintf("df = pd.read_excel(%s)", q)
	case pkgio.FormatJSON:
		return fmt.Sprintf("df = pd.read_json(%s)", q)
	}
	return fmt.Sprintf("df = pd.read_csv(%s)", q)
}

func (python) write(path string, f pkgio.Format) string {
	q := strconv.Quote(path)
	switch f {
	case pkgio.FormatTSV:
		return fmt.Sprintf("df.to_csv(%s, sep=\"\\t\", index=False)", q)
	case pkgio.FormatXLSX:
		return fmt.Sprintf("df.to_excel(%s, index=False)", q)
	case pkgio.FormatJSON:
		return fmt.Sprintf("df.to_json(%s, orient=\"records\", indent=2)", q)
	}
	return fmt.Sprintf("df.to_csv(%s, index=False)", q)
}

func pyLiteral(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "None", nil
	case bool:
		if x {
			return "True", nil
		}
		return "False", nil
	case int:
		return strconv.Itoa(x), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case float64:
		switch {
		case math.IsNaN(x):
			return `float("nan")`, nil
		case math.IsInf(x, 1):
			return `float("inf")`, nil
		case math.IsInf(x, -1):
			return `float("-inf")`, nil
		}
		return floatLiteral(x), nil
	case string:
		return strconv.Quote(x), nil
	}
	return "", fmt.Errorf("cannot render %T as a Python literal", v)
}

// floatLiteral keeps a fraction so the value stays a float in the target
// language.
func floatLiteral(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}
