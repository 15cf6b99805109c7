package ops

import (
	"fmt"

	"github.com/databroom/databroom/pkg/errors"
	"github.com/databroom/databroom/pkg/history"
	"github.com/databroom/databroom/pkg/table"
)

// Func is the signature of a cleaning function. It must not modify t.
type Func func(t *table.Table, p Params) (*table.Table, error)

// Operation is a registered cleaning operation with its metadata.
type Operation struct {
	Name    string
	Summary string
	Params  []Param
	Fn      Func
}

// Flag returns the CLI spelling of the operation name.
func (op *Operation) Flag() string {
	return flagName(op.Name)
}

// Param returns the declared parameter called name.
func (op *Operation) Param(name string) (Param, bool) {
	for _, p := range op.Params {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

// Bind resolves args against the declared parameters.
func (op *Operation) Bind(args history.Args) (Params, error) {
	if len(args.Positional) > len(op.Params) {
		return Params{}, errors.New(errors.ErrCodeInvalidArgument,
			"%s takes %d positional arguments but %d were given",
			op.Name, len(op.Params), len(args.Positional))
	}

	values := make(map[string]any, len(op.Params))
	for i, v := range args.Positional {
		p := op.Params[i]
		cv, err := p.Coerce(v)
		if err != nil {
			return Params{}, fmt.Errorf("%s: %w", op.Name, err)
		}
		values[p.Name] = cv
	}

	for name, v := range args.Keyword {
		p, ok := op.Param(name)
		if !ok {
			return Params{}, errors.New(errors.ErrCodeInvalidArgument,
				"%s got an unexpected keyword argument %q", op.Name, name)
		}
		if _, dup := values[name]; dup {
			return Params{}, errors.New(errors.ErrCodeInvalidArgument,
				"%s got multiple values for argument %q", op.Name, name)
		}
		cv, err := p.Coerce(v)
		if err != nil {
			return Params{}, fmt.Errorf("%s: %w", op.Name, err)
		}
		values[name] = cv
	}

	for _, p := range op.Params {
		if _, ok := values[p.Name]; ok {
			continue
		}
		if p.Required {
			return Params{}, errors.New(errors.ErrCodeInvalidArgument,
				"%s missing required argument %q", op.Name, p.Name)
		}
		values[p.Name] = p.Default
	}

	return Params{values: values}, nil
}

// Invoke binds args, runs the operation on t and returns the result along
// with the history record of the call. The record keeps the arguments as
// supplied, not the bound values.
func (op *Operation) Invoke(t *table.Table, args history.Args) (*table.Table, history.Record, error) {
	p, err := op.Bind(args)
	if err != nil {
		return nil, history.Record{}, err
	}
	out, err := op.Fn(t, p)
	if err != nil {
		return nil, history.Record{}, fmt.Errorf("%s: %w", op.Name, err)
	}
	return out, history.NewRecord(op.Name, args), nil
}

var _ history.Recordable = (*Operation)(nil)
