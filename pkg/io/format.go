package io

import (
	"path/filepath"
	"strings"

	"github.com/databroom/databroom/pkg/errors"
)

// Format identifies a table file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatTSV  Format = "tsv"
	FormatXLSX Format = "xlsx"
	FormatJSON Format = "json"
)

// Formats lists the supported formats in display order.
var Formats = []Format{FormatCSV, FormatTSV, FormatXLSX, FormatJSON}

// DetectFormat returns the format implied by the extension of path.
func DetectFormat(path string) (Format, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case "csv":
		return FormatCSV, nil
	case "tsv":
		return FormatTSV, nil
	case "xlsx":
		return FormatXLSX, nil
	case "json":
		return FormatJSON, nil
	case "xls":
		return "", errors.New(errors.ErrCodeUnsupported,
			"legacy .xls workbooks are not supported, save the file as .xlsx")
	case "":
		return "", errors.New(errors.ErrCodeInvalidFormat,
			"cannot detect the format of %q: missing extension", path)
	}
	return "", errors.New(errors.ErrCodeInvalidFormat,
		"unsupported file format %q (supported: csv, tsv, xlsx, json)", "."+ext)
}
