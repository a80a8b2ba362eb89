package binding

import (
	"fmt"
	"reflect"

	exprruntime "github.com/expr-lang/expr/vm/runtime"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// memberOf reads name from target. A Provider answers with its own method
// called without arguments, so "@repository.user_name" works the same on an
// Object as on a map. Other values go through expr's field lookup.
func memberOf(target any, name string) (any, error) {
	if provider, ok := target.(Provider); ok {
		fn, ok := provider.Method(name)
		if !ok {
			return nil, &UndefinedSymbolError{Name: name}
		}
		return fn(nil)
	}
	return fetchMember(target, name)
}

// sendTo calls method name of target with block and args.
func sendTo(target any, name string, block Block, args ...any) (any, error) {
	if provider, ok := target.(Provider); ok {
		fn, ok := provider.Method(name)
		if !ok {
			return nil, &UndefinedSymbolError{Name: name}
		}
		return fn(block, args...)
	}
	member, err := fetchMember(target, name)
	if err != nil {
		return nil, err
	}
	return callValue(member, block, args)
}

func fetchMember(target any, name string) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("binding: cannot read %q from %T: %v", name, target, r)
		}
	}()
	return exprruntime.Fetch(target, name), nil
}

// callValue calls a Go function value. Functions returning a trailing error
// report it; the first other result is the value.
func callValue(fn any, block Block, args []any) (result any, err error) {
	switch f := fn.(type) {
	case Function:
		return f(block, args...)
	case func(block Block, args ...any) (any, error):
		return f(block, args...)
	case Block:
		return f(args...)
	case func(args ...any) (any, error):
		return f(args...)
	}
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		return nil, fmt.Errorf("binding: %T is not callable", fn)
	}
	t := v.Type()
	fixed := t.NumIn()
	if t.IsVariadic() {
		fixed--
	}
	if len(args) < fixed || (!t.IsVariadic() && len(args) > fixed) {
		return nil, fmt.Errorf("binding: %s takes %d arguments, got %d", t, t.NumIn(), len(args))
	}
	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		param := paramType(t, i)
		if arg == nil {
			in[i] = reflect.Zero(param)
			continue
		}
		value := reflect.ValueOf(arg)
		switch {
		case value.Type().AssignableTo(param):
		case value.Type().ConvertibleTo(param):
			value = value.Convert(param)
		default:
			return nil, fmt.Errorf("binding: argument %d: cannot use %T as %s", i, arg, param)
		}
		in[i] = value
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("binding: call %s: %v", t, r)
		}
	}()
	out := v.Call(in)
	if n := len(out); n > 0 && out[n-1].Type() == errorType {
		if !out[n-1].IsNil() {
			return nil, out[n-1].Interface().(error)
		}
		out = out[:n-1]
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0].Interface(), nil
}

func paramType(t reflect.Type, i int) reflect.Type {
	if t.IsVariadic() && i >= t.NumIn()-1 {
		return t.In(t.NumIn() - 1).Elem()
	}
	return t.In(i)
}
