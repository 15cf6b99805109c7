package ops

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/databroom/databroom/pkg/errors"
)

// Kind is the declared type of an operation parameter.
type Kind int

const (
	KindBool Kind = iota
	KindInt
	KindFloat
	KindString
)

// String returns the kind name used in help output.
func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Param describes one declared operation parameter. The implicit table
// argument is never listed.
type Param struct {
	Name     string
	Kind     Kind
	Default  any // nil when Required
	Required bool
	Help     string
}

// Flag returns the CLI spelling of the parameter name.
func (p Param) Flag() string {
	return flagName(p.Name)
}

func flagName(name string) string {
	return strings.ReplaceAll(name, "_", "-")
}

// Coerce converts v to the parameter's kind.
func (p Param) Coerce(v any) (any, error) {
	out, ok := coerce(p.Kind, v)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidArgument,
			"parameter %q expects %s, got %T (%v)", p.Name, p.Kind, v, v)
	}
	return out, nil
}

func coerce(k Kind, v any) (any, bool) {
	switch k {
	case KindBool:
		switch x := v.(type) {
		case bool:
			return x, true
		case string:
			b, err := strconv.ParseBool(strings.TrimSpace(x))
			return b, err == nil
		}
	case KindInt:
		switch x := v.(type) {
		case int:
			return x, true
		case int64:
			return int(x), true
		case float64:
			if x == math.Trunc(x) && !math.IsInf(x, 0) {
				return int(x), true
			}
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(x))
			return n, err == nil
		}
	case KindFloat:
		switch x := v.(type) {
		case float64:
			return x, true
		case int:
			return float64(x), true
		case int64:
			return float64(x), true
		case string:
			f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
			return f, err == nil
		}
	case KindString:
		if s, ok := v.(string); ok {
			return s, true
		}
	}
	return nil, false
}

// Params holds the bound, coerced parameter values of one call.
type Params struct {
	values map[string]any
}

// Bool returns the bound value of a bool parameter.
func (p Params) Bool(name string) bool {
	b, _ := p.values[name].(bool)
	return b
}

// Int returns the bound value of an int parameter.
func (p Params) Int(name string) int {
	n, _ := p.values[name].(int)
	return n
}

// Float returns the bound value of a float parameter.
func (p Params) Float(name string) float64 {
	f, _ := p.values[name].(float64)
	return f
}

// String returns the bound value of a string parameter.
func (p Params) String(name string) string {
	s, _ := p.values[name].(string)
	return s
}

// Value returns the raw bound value.
func (p Params) Value(name string) (any, bool) {
	v, ok := p.values[name]
	return v, ok
}
