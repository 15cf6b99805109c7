package io

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/databroom/databroom/pkg/errors"
	"github.com/databroom/databroom/pkg/table"
)

// split is the column/data layout used by the split form.
type split struct {
	Columns []string `json:"columns"`
	Data    [][]any  `json:"data"`
}

// ReadJSON decodes a table from r. The input is either an array of records
// or a split object. Records may omit keys; missing keys decode as nil.
// Column order follows the first appearance of each key.
func ReadJSON(r io.Reader) (*table.Table, error) {
	br := bufio.NewReader(r)
	first, err := peekNonSpace(br)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode json")
	}
	switch first {
	case '[':
		return readRecords(br)
	case '{':
		return DecodeSplit(br)
	}
	return nil, errors.New(errors.ErrCodeInvalidInput,
		"decode json: expected an array of records or a split object, got %q", first)
}

// DecodeSplit decodes a split object from r.
func DecodeSplit(r io.Reader) (*table.Table, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var s split
	if err := dec.Decode(&s); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode json")
	}
	rows := make([][]table.Value, len(s.Data))
	for i, raw := range s.Data {
		row := make([]table.Value, len(raw))
		for j, v := range raw {
			row[j] = fromJSON(v)
		}
		rows[i] = row
	}
	return table.New(s.Columns, rows)
}

func readRecords(r io.Reader) (*table.Table, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	if _, err := dec.Token(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode json")
	}

	var columns []string
	index := map[string]int{}
	var records []map[string]table.Value

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode json")
		}
		if d, ok := tok.(json.Delim); !ok || d != '{' {
			return nil, errors.New(errors.ErrCodeInvalidInput,
				"decode json: record %d is not an object", len(records))
		}
		rec := map[string]table.Value{}
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode json")
			}
			key := keyTok.(string)
			var v any
			if err := dec.Decode(&v); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode json field %q", key)
			}
			if _, seen := index[key]; !seen {
				index[key] = len(columns)
				columns = append(columns, key)
			}
			rec[key] = fromJSON(v)
		}
		if _, err := dec.Token(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode json")
		}
		records = append(records, rec)
	}
	if _, err := dec.Token(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode json")
	}

	rows := make([][]table.Value, len(records))
	for i, rec := range records {
		row := make([]table.Value, len(columns))
		for key, v := range rec {
			row[index[key]] = v
		}
		rows[i] = row
	}
	return table.New(columns, rows)
}

// fromJSON converts a decoded JSON value into a cell. Nested arrays and
// objects are kept as their JSON text.
func fromJSON(v any) table.Value {
	switch x := v.(type) {
	case nil, string, bool:
		return x
	case json.Number:
		s := x.String()
		if !strings.ContainsAny(s, ".eE") {
			if n, err := strconv.ParseInt(s, 10, 64); err == nil {
				return n
			}
		}
		f, _ := strconv.ParseFloat(s, 64)
		return f
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

// WriteJSON encodes t as an array of records, one per line, with keys in
// column order.
func WriteJSON(w io.Writer, t *table.Table) error {
	var buf bytes.Buffer
	cols := t.Columns()
	keys := make([][]byte, len(cols))
	for i, c := range cols {
		k, err := json.Marshal(c)
		if err != nil {
			return err
		}
		keys[i] = k
	}

	buf.WriteString("[")
	for r := 0; r < t.NumRows(); r++ {
		if r > 0 {
			buf.WriteString(",")
		}
		buf.WriteString("\n  {")
		for c := range cols {
			if c > 0 {
				buf.WriteString(", ")
			}
			buf.Write(keys[c])
			buf.WriteString(": ")
			if err := appendValue(&buf, t.At(r, c)); err != nil {
				return err
			}
		}
		buf.WriteString("}")
	}
	if t.NumRows() > 0 {
		buf.WriteString("\n")
	}
	buf.WriteString("]\n")

	_, err := w.Write(buf.Bytes())
	return err
}

// EncodeSplit encodes t as a split object.
func EncodeSplit(w io.Writer, t *table.Table) error {
	var buf bytes.Buffer
	cols, err := json.Marshal(t.Columns())
	if err != nil {
		return err
	}
	buf.WriteString(`{"columns":`)
	buf.Write(cols)
	buf.WriteString(`,"data":[`)
	for r := 0; r < t.NumRows(); r++ {
		if r > 0 {
			buf.WriteString(",")
		}
		buf.WriteString("[")
		for c := 0; c < t.NumCols(); c++ {
			if c > 0 {
				buf.WriteString(",")
			}
			if err := appendValue(&buf, t.At(r, c)); err != nil {
				return err
			}
		}
		buf.WriteString("]")
	}
	buf.WriteString("]}\n")

	_, err = w.Write(buf.Bytes())
	return err
}

func appendValue(buf *bytes.Buffer, v table.Value) error {
	switch x := v.(type) {
	case nil:
		buf.WriteString("null")
	case int64:
		buf.WriteString(strconv.FormatInt(x, 10))
	case float64:
		if table.IsNull(x) || x > maxJSONFloat || x < -maxJSONFloat {
			buf.WriteString("null")
			return nil
		}
		buf.WriteString(formatFloat(x))
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return err
		}
		buf.Write(b)
	}
	return nil
}

// maxJSONFloat is the largest finite float64; infinities have no JSON form.
const maxJSONFloat = 1.7976931348623157e308

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}
		return b, br.UnreadByte()
	}
}
