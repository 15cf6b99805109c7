// Package io reads and writes tables in the file formats databroom supports.
//
// # Formats
//
// The format is chosen from the file extension:
//
//   - .csv: comma-separated values, first row is the header
//   - .tsv: tab-separated values, first row is the header
//   - .xlsx: Excel workbooks, read from the first sheet unless one is named
//   - .json: an array of records, or the split form described below
//
// Legacy .xls workbooks are rejected with UNSUPPORTED. Any other extension
// is rejected with INVALID_FORMAT.
//
// # Type Inference
//
// Delimited text and spreadsheets carry no cell types, so every column is
// inferred after reading. A column whose non-missing cells all parse as
// integers becomes int64; all numeric becomes float64; all true/false
// becomes bool; anything else stays string. Empty cells and the usual
// missing markers (NA, N/A, NaN, null, None, ...) become nil.
//
// # JSON
//
// Records keep the key order of the input:
//
//	[
//	  {"name": "Ana", "age": 31},
//	  {"name": "Bob", "age": null}
//	]
//
// The split form stores labels and rows separately and is what the table
// cache stores:
//
//	{"columns": ["name", "age"], "data": [["Ana", 31], ["Bob", null]]}
//
// Integral numbers decode as int64. Floats are always written with a
// fraction or exponent so that they decode back as float64.
//
// # Usage
//
// Use [Read] and [Write] for files, or the stream functions ([ReadCSV],
// [WriteCSV], [ReadJSON], [WriteJSON], [ReadXLSX], [WriteXLSX],
// [EncodeSplit], [DecodeSplit]) for any io.Reader or io.Writer:
//
//	t, err := io.Read("survey.xlsx", io.ReadOptions{Sheet: "2024"})
//	if err != nil {
//	    return err
//	}
//	err = io.Write("survey.csv", t)
package io
