// Package ops provides the catalog of table cleaning operations and the
// static registry that describes them.
//
// Every operation is a pure function from a table and bound parameters to
// a new table. The input table is never modified. Operations are declared
// in a registry literal (see [Default]) that carries, for each entry, its
// name, a one-line summary, the declared parameters with types and
// defaults, and the function itself. The CLI builds its flags from this
// metadata and the pipeline resolves operations by name through it.
//
// # Catalog
//
//   - remove_empty_cols: drop columns whose null ratio reaches a threshold
//   - remove_empty_rows: drop rows where every cell is null
//   - standardize_column_names: trimmed, lowercase, snake_case labels
//   - normalize_column_names: trimmed, lowercase, accent-free labels
//   - normalize_values: trimmed, lowercase, accent-free string cells
//   - standardize_values: like normalize_values plus snake_case
//   - clean_columns / clean_rows / clean_all: configurable combinations
//   - promote_headers: use a data row as the header
//   - rename_column: rename a single column
//   - drop_duplicates: remove repeated rows
//
// # Arguments
//
// Operations accept positional and keyword arguments ([history.Args]).
// [Operation.Bind] maps positionals onto the declared parameter order,
// keywords by name, and fills the rest from defaults. Values are coerced to
// the declared kind, so integers from a TOML recipe satisfy a float
// parameter and "false" from a flag satisfies a bool.
package ops
