// Package table provides the in-memory tabular value that databroom cleans.
//
// A [Table] is a two-dimensional labeled dataset: an ordered list of column
// labels and an ordered list of rows, each row holding exactly one cell per
// column. Cells are plain Go values restricted to nil, string, int64,
// float64 and bool, which is what the readers in pkg/io produce.
//
// # Nulls
//
// A cell is null when it is nil, an empty string, or a NaN float. Cleaning
// operations such as remove_empty_rows use [IsNull] to decide emptiness.
//
// # Copies
//
// Tables are mutable, but every accessor that hands out a slice returns a
// copy, and [Table.Clone] returns a deep copy. The pipeline relies on this to
// keep snapshots isolated from later mutation of the current table:
//
//	snap := t.Clone()
//	t.Set(0, 0, "changed")
//	snap.At(0, 0) // still the old value
package table
