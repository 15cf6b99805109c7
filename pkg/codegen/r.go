package codegen

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	pkgio "github.com/databroom/databroom/pkg/io"
	"github.com/databroom/databroom/pkg/ops"
)

type rlang struct{}

func (rlang) preamble() []string {
	return []string{"# Requires the stringi package; readxl, writexl and jsonlite for xlsx/json files."}
}

var rShared = map[string]string{
	".null_mask": `.null_mask <- function(df) {
  mask <- lapply(df, function(col) is.na(col) | (is.character(col) & !is.na(col) & col == ""))
  matrix(unlist(mask), nrow = nrow(df), ncol = ncol(df))
}
`,
	".clean_text": `.clean_text <- function(x, lowercase = TRUE, remove_accents = TRUE, snakecase = TRUE) {
  x <- trimws(x)
  if (lowercase) x <- tolower(x)
  if (remove_accents) x <- stringi::stri_trans_general(x, "NFD; [:Nonspacing Mark:] Remove; NFC")
  if (snakecase) x <- gsub("^_+|_+$", "", gsub("[^\\p{L}\\p{N}]+", "_", x, perl = TRUE))
  x
}
`,
	".rename_columns": `.rename_columns <- function(df, ...) {
  names(df) <- .clean_text(names(df), ...)
  df
}
`,
	".map_text": `.map_text <- function(df, ...) {
  df[] <- lapply(df, function(col) if (is.character(col)) .clean_text(col, ...) else col)
  df
}
`,
	".drop_sparse_columns": `.drop_sparse_columns <- function(df, threshold) {
  if (threshold < 0 || threshold > 1) stop(sprintf("threshold must be between 0 and 1, got %s", threshold))
  if (nrow(df) == 0) return(df)
  df[, colMeans(.null_mask(df)) < threshold, drop = FALSE]
}
`,
	".drop_empty_rows": `.drop_empty_rows <- function(df) {
  out <- df[rowSums(!.null_mask(df)) > 0, , drop = FALSE]
  rownames(out) <- NULL
  out
}
`,
	".header_label": `.header_label <- function(value, i) {
  if (is.na(value) || identical(as.character(value), "")) return(paste0("unnamed_", i))
  if (is.numeric(value) && value == round(value)) return(format(value, scientific = FALSE))
  as.character(value)
}
`,
}

var rHelpers = map[string]helperSource{
	"promote_headers": {
		deps: []string{".header_label"},
		body: `  if (row_index < 0 || row_index >= nrow(df)) stop(sprintf("row_index %d out of range for %d rows", row_index, nrow(df)))
  names(df) <- vapply(seq_along(df), function(i) .header_label(df[[i]][row_index + 1], i - 1), character(1))
  if (drop_promoted_row) {
    df <- df[-(row_index + 1), , drop = FALSE]
    rownames(df) <- NULL
  }
  df
`,
	},
	"clean_all": {
		deps: []string{".null_mask", ".clean_text", ".drop_sparse_columns", ".rename_columns", ".drop_empty_rows", ".map_text"},
		body: `  if (remove_empty_cols) df <- .drop_sparse_columns(df, empty_threshold)
  df <- .rename_columns(df, lowercase_cols, remove_accents_cols, snakecase_cols)
  if (remove_empty_rows) df <- .drop_empty_rows(df)
  .map_text(df, lowercase_vals, remove_accents_vals, snakecase_vals)
`,
	},
	"clean_columns": {
		deps: []string{".null_mask", ".clean_text", ".drop_sparse_columns", ".rename_columns"},
		body: `  if (remove_empty) df <- .drop_sparse_columns(df, empty_threshold)
  .rename_columns(df, lowercase, remove_accents, snakecase)
`,
	},
	"clean_rows": {
		deps: []string{".null_mask", ".clean_text", ".drop_empty_rows", ".map_text"},
		body: `  if (remove_empty) df <- .drop_empty_rows(df)
  .map_text(df, lowercase, remove_accents, snakecase)
`,
	},
	"remove_empty_cols": {
		deps: []string{".null_mask", ".drop_sparse_columns"},
		body: "  .drop_sparse_columns(df, threshold)\n",
	},
	"remove_empty_rows": {
		deps: []string{".null_mask", ".drop_empty_rows"},
		body: "  .drop_empty_rows(df)\n",
	},
	"standardize_column_names": {
		deps: []string{".clean_text", ".rename_columns"},
		body: "  .rename_columns(df, lowercase = TRUE, remove_accents = FALSE, snakecase = TRUE)\n",
	},
	"normalize_column_names": {
		deps: []string{".clean_text", ".rename_columns"},
		body: "  .rename_columns(df, lowercase = TRUE, remove_accents = TRUE, snakecase = FALSE)\n",
	},
	"normalize_values": {
		deps: []string{".clean_text", ".map_text"},
		body: "  .map_text(df, lowercase = TRUE, remove_accents = TRUE, snakecase = FALSE)\n",
	},
	"standardize_values": {
		deps: []string{".clean_text", ".map_text"},
		body: "  .map_text(df, lowercase = TRUE, remove_accents = TRUE, snakecase = TRUE)\n",
	},
	"rename_column": {
		body: `  i <- match(old, names(df))
  if (is.na(i)) stop(sprintf("column '%s' not found", old))
  names(df)[i] <- new
  df
`,
	},
	"drop_duplicates": {
		body: `  out <- df[!duplicated(df), , drop = FALSE]
  rownames(out) <- NULL
  out
`,
	},
}

func (rlang) shared(name string) (string, bool) {
	src, ok := rShared[name]
	return src, ok
}

func (rlang) helper(name string) ([]string, string, bool) {
	h, ok := rHelpers[name]
	return h.deps, h.body, ok
}

func (rlang) define(op *ops.Operation, body string) (string, error) {
	params := []string{"df"}
	for _, p := range op.Params {
		if p.Required || p.Default == nil {
			params = append(params, p.Name)
			continue
		}
		lit, err := rLiteral(p.Default)
		if err != nil {
			return "", err
		}
		params = append(params, p.Name+" = "+lit)
	}
	return fmt.Sprintf("# %s.\n%s <- function(%s) {\n%s}\n",
		op.Summary, op.Name, strings.Join(params, ", "), body), nil
}

func (rlang) call(op *ops.Operation, p ops.Params) (string, error) {
	kv, err := args(op, p, rLiteral, " = ")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("df <- %s(%s)", op.Name, strings.Join(append([]string{"df"}, kv...), ", ")), nil
}

func (rlang) read(path string, f pkgio.Format) string {
	q := strconv.Quote(path)
	switch f {
	case pkgio.FormatTSV:
		return fmt.Sprintf("df <- read.delim(%s, check.names = FALSE, stringsAsFactors = FALSE, na.strings = c(\"\", \"NA\"))", q)
	case pkgio.FormatXLSX:
		return fmt.Sprintf("df <- as.data.frame(readxl::read_excel(%s))", q)
	case pkgio.FormatJSON:
		return fmt.Sprintf("df <- jsonlite::fromJSON(%s)", q)
	}
	return fmt.Sprintf("df <- read.csv(%s, check.names = FALSE, stringsAsFactors = FALSE, na.strings = c(\"\", \"NA\"))", q)
}

func (rlang) write(path string, f pkgio.Format) string {
	q := strconv.Quote(path)
	switch f {
	case pkgio.FormatTSV:
		return fmt.Sprintf("write.table(df, %s, sep = \"\\t\", row.names = FALSE, quote = FALSE, na = \"\")", q)
	case pkgio.FormatXLSX:
		return fmt.Sprintf("writexl::write_xlsx(df, %s)", q)
	case pkgio.FormatJSON:
		return fmt.Sprintf("jsonlite::write_json(df, %s, dataframe = \"rows\", na = \"null\", auto_unbox = TRUE, pretty = TRUE)", q)
	}
	return fmt.Sprintf("write.csv(df, %s, row.names = FALSE, na = \"\")", q)
}

func rLiteral(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "NULL", nil
	case bool:
		if x {
			return "TRUE", nil
		}
		return "FALSE", nil
	case int:
		return strconv.Itoa(x), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case float64:
		switch {
		case math.IsNaN(x):
			return "NaN", nil
		case math.IsInf(x, 1):
			return "Inf", nil
		case math.IsInf(x, -1):
			return "-Inf", nil
		}
		return floatLiteral(x), nil
	case string:
		return strconv.Quote(x), nil
	}
	return "", fmt.Errorf("cannot render %T as an R literal", v)
}
