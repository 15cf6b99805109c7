package io

import (
	"bufio"
	"io"
	"os"

	"github.com/databroom/databroom/pkg/errors"
	"github.com/databroom/databroom/pkg/table"
)

// ReadOptions configures [Read] and [Decode].
type ReadOptions struct {
	// Sheet selects the workbook sheet for xlsx input. Empty means the first.
	Sheet string
}

// Read loads the table stored at path, choosing the decoder from the
// extension.
func Read(path string, opts ReadOptions) (*table.Table, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "input file %s does not exist", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return Decode(f, format, opts)
}

// Decode reads a table of the given format from r.
func Decode(r io.Reader, format Format, opts ReadOptions) (*table.Table, error) {
	switch format {
	case FormatCSV:
		return ReadCSV(r, ',')
	case FormatTSV:
		return ReadCSV(r, '\t')
	case FormatXLSX:
		return ReadXLSX(r, opts.Sheet)
	case FormatJSON:
		return ReadJSON(r)
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", format)
}

// Write stores t at path, choosing the encoder from the extension. The file
// is created or truncated.
func Write(path string, t *table.Table) error {
	if err := errors.ValidateOutputPath(path); err != nil {
		return err
	}
	format, err := DetectFormat(path)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", path)
	}
	bw := bufio.NewWriter(f)
	if err := Encode(bw, format, t); err != nil {
		f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Encode writes t to w in the given format.
func Encode(w io.Writer, format Format, t *table.Table) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, t, ',')
	case FormatTSV:
		return WriteCSV(w, t, '\t')
	case FormatXLSX:
		return WriteXLSX(w, t)
	case FormatJSON:
		return WriteJSON(w, t)
	}
	return errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", format)
}
