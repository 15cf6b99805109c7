package ops

// Default parameter values shared by several operations.
const (
	DefaultEmptyThreshold = 0.9
)

func catalog() []*Operation {
	return []*Operation{
		{
			Name:    "promote_headers",
			Summary: "Use a data row as the column headers",
			Params: []Param{
				{Name: "row_index", Kind: KindInt, Default: 0, Help: "row to promote"},
				boolParam("drop_promoted_row", true, "remove the promoted row from the data"),
			},
			Fn: promoteHeaders,
		},
		{
			Name:    "clean_all",
			Summary: "Clean column names and values in one pass",
			Params: []Param{
				boolParam("remove_empty_cols", true, "drop mostly empty columns"),
				boolParam("remove_empty_rows", true, "drop fully empty rows"),
				floatParam("empty_threshold", DefaultEmptyThreshold, "null ratio at which a column is dropped"),
				boolParam("lowercase_cols", true, "lowercase column names"),
				boolParam("remove_accents_cols", true, "strip accents from column names"),
				boolParam("snakecase_cols", true, "snake_case column names"),
				boolParam("lowercase_vals", true, "lowercase text values"),
				boolParam("remove_accents_vals", true, "strip accents from text values"),
				boolParam("snakecase_vals", true, "snake_case text values"),
			},
			Fn: cleanAll,
		},
		{
			Name:    "clean_columns",
			Summary: "Clean column names and drop mostly empty columns",
			Params: []Param{
				boolParam("remove_empty", true, "drop mostly empty columns"),
				floatParam("empty_threshold", DefaultEmptyThreshold, "null ratio at which a column is dropped"),
				boolParam("lowercase", true, "lowercase names"),
				boolParam("remove_accents", true, "strip accents"),
				boolParam("snakecase", true, "snake_case names"),
			},
			Fn: cleanColumns,
		},
		{
			Name:    "clean_rows",
			Summary: "Clean text values and drop fully empty rows",
			Params: []Param{
				boolParam("remove_empty", true, "drop fully empty rows"),
				boolParam("lowercase", true, "lowercase values"),
				boolParam("remove_accents", true, "strip accents"),
				boolParam("snakecase", true, "snake_case values"),
			},
			Fn: cleanRows,
		},
		{
			Name:    "remove_empty_cols",
			Summary: "Remove columns whose share of missing values reaches the threshold",
			Params: []Param{
				floatParam("threshold", DefaultEmptyThreshold, "null ratio at which a column is dropped"),
			},
			Fn: removeEmptyCols,
		},
		{
			Name:    "remove_empty_rows",
			Summary: "Remove rows where every value is missing",
			Fn:      removeEmptyRows,
		},
		{
			Name:    "standardize_column_names",
			Summary: "Convert column names to trimmed lowercase snake_case",
			Fn:      standardizeColumnNames,
		},
		{
			Name:    "normalize_column_names",
			Summary: "Trim, lowercase and strip accents from column names",
			Fn:      normalizeColumnNames,
		},
		{
			Name:    "normalize_values",
			Summary: "Trim, lowercase and strip accents from text values",
			Fn:      normalizeValues,
		},
		{
			Name:    "standardize_values",
			Summary: "Convert text values to trimmed lowercase snake_case without accents",
			Fn:      standardizeValues,
		},
		{
			Name:    "rename_column",
			Summary: "Rename a single column",
			Params: []Param{
				{Name: "old", Kind: KindString, Required: true, Help: "current column name"},
				{Name: "new", Kind: KindString, Required: true, Help: "new column name"},
			},
			Fn: renameColumn,
		},
		{
			Name:    "drop_duplicates",
			Summary: "Remove repeated rows, keeping the first occurrence",
			Fn:      dropDuplicates,
		},
	}
}

func boolParam(name string, def bool, help string) Param {
	return Param{Name: name, Kind: KindBool, Default: def, Help: help}
}

func floatParam(name string, def float64, help string) Param {
	return Param{Name: name, Kind: KindFloat, Default: def, Help: help}
}
