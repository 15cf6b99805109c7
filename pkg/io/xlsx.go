package io

import (
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/databroom/databroom/pkg/errors"
	"github.com/databroom/databroom/pkg/table"
)

// DefaultSheet is the sheet name used when writing workbooks.
const DefaultSheet = "Sheet1"

// ReadXLSX decodes one sheet of a workbook from r. An empty sheet name
// selects the first sheet. The first row is the header.
func ReadXLSX(r io.Reader, sheet string) (*table.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open workbook")
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, errors.New(errors.ErrCodeInvalidArgument,
			"sheet %q not found (available: %v)", sheet, f.GetSheetList())
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read sheet %q", sheet)
	}
	if len(rows) == 0 {
		return table.New(nil, nil)
	}
	return buildTable(rows[0], rows[1:])
}

// WriteXLSX encodes t as a single-sheet workbook. Missing values are left
// as blank cells.
func WriteXLSX(w io.Writer, t *table.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	header := make([]any, t.NumCols())
	for i, c := range t.Columns() {
		header[i] = c
	}
	if err := f.SetSheetRow(DefaultSheet, "A1", &header); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write header")
	}

	for r := 0; r < t.NumRows(); r++ {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "row %d", r)
		}
		row := make([]any, t.NumCols())
		for c := range row {
			v := t.At(r, c)
			if table.IsNull(v) {
				v = nil
			}
			row[c] = v
		}
		if err := f.SetSheetRow(DefaultSheet, cell, &row); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "write row %d", r)
		}
	}

	return f.Write(w)
}
