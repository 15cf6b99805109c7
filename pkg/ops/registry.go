package ops

import (
	"fmt"
	"sync"

	"github.com/databroom/databroom/pkg/history"
)

// Registry maps operation names to operations, preserving catalog order.
type Registry struct {
	ops    []*Operation
	byName map[string]*Operation
}

// NewRegistry builds a registry. Names must be unique and non-empty.
func NewRegistry(ops ...*Operation) (*Registry, error) {
	r := &Registry{
		ops:    make([]*Operation, 0, len(ops)),
		byName: make(map[string]*Operation, len(ops)),
	}
	for _, op := range ops {
		if op == nil || op.Name == "" || op.Fn == nil {
			return nil, fmt.Errorf("invalid operation definition: %+v", op)
		}
		if _, exists := r.byName[op.Name]; exists {
			return nil, fmt.Errorf("operation already registered: %s", op.Name)
		}
		r.ops = append(r.ops, op)
		r.byName[op.Name] = op
	}
	return r, nil
}

var defaultRegistry = sync.OnceValue(func() *Registry {
	r, err := NewRegistry(catalog()...)
	if err != nil {
		panic(err)
	}
	return r
})

// Default returns the registry holding the built-in catalog.
func Default() *Registry {
	return defaultRegistry()
}

// Lookup returns the operation called name.
func (r *Registry) Lookup(name string) (*Operation, bool) {
	op, ok := r.byName[name]
	return op, ok
}

// Resolve returns the operation called name as a history.Recordable.
func (r *Registry) Resolve(name string) (history.Recordable, bool) {
	op, ok := r.byName[name]
	if !ok {
		return nil, false
	}
	return op, true
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.byName[name]
	return ok
}

// Names returns the operation names in catalog order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.ops))
	for i, op := range r.ops {
		names[i] = op.Name
	}
	return names
}

// All returns the operations in catalog order.
func (r *Registry) All() []*Operation {
	return append([]*Operation(nil), r.ops...)
}

// Descriptor is the view of an operation consumed by argument parsers.
type Descriptor struct {
	Name    string
	Params  []Param
	Summary string
	Flag    string
}

// Describe returns one descriptor per operation in catalog order.
func (r *Registry) Describe() []Descriptor {
	out := make([]Descriptor, len(r.ops))
	for i, op := range r.ops {
		out[i] = Descriptor{
			Name:    op.Name,
			Params:  append([]Param(nil), op.Params...),
			Summary: op.Summary,
			Flag:    op.Flag(),
		}
	}
	return out
}
