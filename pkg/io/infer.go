package io

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/databroom/databroom/pkg/table"
)

// missing holds the cell texts read as nil, compared case-sensitively.
var missing = map[string]bool{
	"": true, "NA": true, "N/A": true, "n/a": true, "#N/A": true, "<NA>": true,
	"NaN": true, "nan": true, "-NaN": true, "-nan": true,
	"null": true, "NULL": true, "None": true,
}

type columnKind int

const (
	kindInt columnKind = iota
	kindFloat
	kindBool
	kindString
)

// buildTable turns a header and raw text rows into a typed table. Short rows
// are padded; long rows extend the header with generated labels.
func buildTable(header []string, records [][]string) (*table.Table, error) {
	width := len(header)
	for _, rec := range records {
		width = max(width, len(rec))
	}

	columns := make([]string, width)
	for i := range columns {
		if i < len(header) {
			columns[i] = strings.TrimPrefix(header[i], "\ufeff")
		}
		if columns[i] == "" {
			columns[i] = fmt.Sprintf("unnamed_%d", i)
		}
	}

	kinds := make([]columnKind, width)
	for c := range kinds {
		kinds[c] = inferKind(records, c)
	}

	rows := make([][]table.Value, len(records))
	for r, rec := range records {
		row := make([]table.Value, width)
		for c := range row {
			if c < len(rec) {
				row[c] = convert(rec[c], kinds[c])
			}
		}
		rows[r] = row
	}
	return table.New(columns, rows)
}

// inferKind picks the narrowest kind that every non-missing cell of column c
// parses as.
func inferKind(records [][]string, c int) columnKind {
	allInt, allNum, allBool := true, true, true
	seen := false
	for _, rec := range records {
		if c >= len(rec) || missing[rec[c]] {
			continue
		}
		seen = true
		s := rec[c]
		if allInt {
			if _, err := strconv.ParseInt(s, 10, 64); err != nil {
				allInt = false
			}
		}
		if allNum && !allInt {
			if _, ok := parseFloat(s); !ok {
				allNum = false
			}
		}
		if allBool {
			if _, ok := parseBool(s); !ok {
				allBool = false
			}
		}
		if !allNum && !allBool {
			return kindString
		}
	}
	switch {
	case !seen:
		return kindString
	case allInt:
		return kindInt
	case allNum:
		return kindFloat
	case allBool:
		return kindBool
	}
	return kindString
}

func convert(s string, k columnKind) table.Value {
	if missing[s] {
		return nil
	}
	switch k {
	case kindInt:
		n, _ := strconv.ParseInt(s, 10, 64)
		return n
	case kindFloat:
		f, _ := parseFloat(s)
		return f
	case kindBool:
		b, _ := parseBool(s)
		return b
	}
	return s
}

func parseFloat(s string) (float64, bool) {
	if strings.ContainsAny(s, "xX_") {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f, err == nil
}

func parseBool(s string) (bool, bool) {
	switch strings.ToLower(s) {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	return false, false
}

// FormatValue renders a cell the way the text writers do. Missing values
// render as the empty string.
func FormatValue(v table.Value) string {
	return formatCell(v)
}

// formatCell renders a cell as text for delimited and spreadsheet output.
func formatCell(v table.Value) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		if table.IsNull(x) {
			return ""
		}
		return formatFloat(x)
	case bool:
		return strconv.FormatBool(x)
	}
	return fmt.Sprint(v)
}

// formatFloat always keeps a fraction or exponent so the value reads back
// as a float.
func formatFloat(f float64) string {
	format := byte('f')
	if a := math.Abs(f); a >= 1e21 || (a != 0 && a < 1e-6) {
		format = 'g'
	}
	s := strconv.FormatFloat(f, format, -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}
