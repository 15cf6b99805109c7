package io

import (
	"encoding/csv"
	"io"

	"github.com/databroom/databroom/pkg/errors"
	"github.com/databroom/databroom/pkg/table"
)

// ReadCSV decodes delimited text from r. The first record is the header.
// Columns are typed as described in the package documentation. An empty
// input yields an empty table.
func ReadCSV(r io.Reader, comma rune) (*table.Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode delimited text")
	}
	if len(records) == 0 {
		return table.New(nil, nil)
	}
	return buildTable(records[0], records[1:])
}

// WriteCSV encodes t as delimited text with a header row. Missing values
// are written as empty cells.
func WriteCSV(w io.Writer, t *table.Table, comma rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = comma

	if err := cw.Write(t.Columns()); err != nil {
		return err
	}
	rec := make([]string, t.NumCols())
	for r := 0; r < t.NumRows(); r++ {
		for c := range rec {
			rec[c] = formatCell(t.At(r, c))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
