// Package history defines the records databroom keeps for every cleaning
// step and the contract for operations that produce them.
//
// A [Record] captures an operation name together with the positional and
// keyword arguments it was invoked with. Records are produced explicitly by
// a [Recordable] rather than appended to shared state, so callers decide
// whether and where to keep them.
package history

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/databroom/databroom/pkg/table"
)

// Args holds the arguments of an operation call.
type Args struct {
	Positional []any
	Keyword    map[string]any
}

// Kw is a shorthand for keyword-only arguments.
func Kw(kv map[string]any) Args {
	return Args{Keyword: kv}
}

// Record is one entry of the cleaning history.
type Record struct {
	Name   string         `json:"name"`
	Args   []any          `json:"args"`
	Kwargs map[string]any `json:"kwargs"`
}

// NewRecord builds a record from a call. Args and Kwargs are copied and are
// never nil, so a call without arguments yields empty collections.
func NewRecord(name string, args Args) Record {
	r := Record{
		Name:   name,
		Args:   make([]any, len(args.Positional)),
		Kwargs: make(map[string]any, len(args.Keyword)),
	}
	copy(r.Args, args.Positional)
	maps.Copy(r.Kwargs, args.Keyword)
	return r
}

// CallArgs returns the record's arguments in invocation form.
func (r Record) CallArgs() Args {
	return Args{
		Positional: slices.Clone(r.Args),
		Keyword:    maps.Clone(r.Kwargs),
	}
}

// Clone returns a copy that shares no slices or maps with r.
func (r Record) Clone() Record {
	return NewRecord(r.Name, Args{Positional: r.Args, Keyword: r.Kwargs})
}

// String renders the record like a call: name(a, b, key=value).
// Keyword arguments are sorted for stable output.
func (r Record) String() string {
	parts := make([]string, 0, len(r.Args)+len(r.Kwargs))
	for _, a := range r.Args {
		parts = append(parts, fmt.Sprintf("%v", a))
	}
	for _, k := range slices.Sorted(maps.Keys(r.Kwargs)) {
		parts = append(parts, fmt.Sprintf("%s=%v", k, r.Kwargs[k]))
	}
	return r.Name + "(" + strings.Join(parts, ", ") + ")"
}

// Recordable is an operation that can be invoked on a table and reports
// the history record describing the call.
type Recordable interface {
	Invoke(t *table.Table, args Args) (*table.Table, Record, error)
}
