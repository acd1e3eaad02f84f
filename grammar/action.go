package grammar

import (
	"fmt"
	"reflect"
)

// Action wraps a host-supplied semantic reducer. Its arity is discovered via
// reflection rather than through a family of Act0..ActN helpers: the host
// passes any ordinary Go function and Action.Arity reports how many
// attributes the driver must pop for it.
type Action struct {
	fn    reflect.Value
	arity int
}

// NewAction wraps fn, which must be a function value. It returns an error if
// fn is not a func.
func NewAction(fn any) (Action, error) {
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func {
		return Action{}, fmt.Errorf("action must be a function, got %T", fn)
	}
	return Action{fn: v, arity: v.Type().NumIn()}, nil
}

// IsZero reports whether the Action carries no reducer.
func (a Action) IsZero() bool {
	return !a.fn.IsValid()
}

// Arity is the number of attributes the reducer expects, left-to-right.
func (a Action) Arity() int {
	return a.arity
}

// Invoke calls the reducer with args in left-to-right order and returns its
// first result, or nil if it has none. A nil element of args is passed as
// the reducer parameter's zero value, so punctuation members with no
// attribute never need special-casing by the host.
func (a Action) Invoke(args []any) any {
	in := make([]reflect.Value, len(args))
	fnType := a.fn.Type()
	for i, arg := range args {
		if arg == nil {
			in[i] = reflect.Zero(fnType.In(i))
			continue
		}
		argVal := reflect.ValueOf(arg)
		if !argVal.Type().AssignableTo(fnType.In(i)) && argVal.Type().ConvertibleTo(fnType.In(i)) {
			argVal = argVal.Convert(fnType.In(i))
		}
		in[i] = argVal
	}
	out := a.fn.Call(in)
	if len(out) == 0 {
		return nil
	}
	return out[0].Interface()
}
