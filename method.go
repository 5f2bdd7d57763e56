package swizzle

import (
	"fmt"
	"reflect"
)

var (
	objectType = reflect.TypeFor[*Object]()
	errorType  = reflect.TypeFor[error]()
)

// Method describes one entry of a class's method table: the selector, its
// calling signature and the implementation the selector currently maps to.
//
// Methods returned by Class lookups are snapshots. Exchanging selectors
// afterwards does not change a Method already in hand.
type Method struct {
	name Selector
	imp  reflect.Value
}

func newMethod(sel Selector, fn any) (*Method, error) {
	if sel == "" {
		return nil, fmt.Errorf("%w: empty selector", ErrBadImplementation)
	}

	imp := reflect.ValueOf(fn)
	if imp.Kind() != reflect.Func {
		return nil, fmt.Errorf("%w: %s: not a function, kind: %v", ErrBadImplementation, sel, imp.Kind())
	}
	if imp.IsNil() {
		return nil, fmt.Errorf("%w: %s: nil function", ErrBadImplementation, sel)
	}

	t := imp.Type()
	if t.NumIn() == 0 || t.In(0) != objectType {
		return nil, fmt.Errorf("%w: %s: first parameter must be %v", ErrBadImplementation, sel, objectType)
	}

	return &Method{name: sel, imp: imp}, nil
}

// Name returns the method's selector.
func (m Method) Name() Selector {
	return m.name
}

// Signature returns the type of the implementation, including the leading
// *Object receiver parameter.
func (m Method) Signature() reflect.Type {
	if !m.imp.IsValid() {
		return nil
	}
	return m.imp.Type()
}

// NumArgs returns the number of arguments a message must carry, not
// counting the receiver. For variadic methods it's the minimum.
func (m Method) NumArgs() int {
	if !m.imp.IsValid() {
		return 0
	}
	n := m.imp.Type().NumIn() - 1
	if m.imp.Type().IsVariadic() {
		n--
	}
	return n
}

// TypeEncoding returns the signature as a string.
func (m Method) TypeEncoding() string {
	if !m.imp.IsValid() {
		return ""
	}
	return m.imp.Type().String()
}

// Implementation returns the function the selector maps to.
func (m Method) Implementation() any {
	if !m.imp.IsValid() {
		return nil
	}
	return m.imp.Interface()
}

func (m Method) String() string {
	if !m.imp.IsValid() {
		return ""
	}
	return fmt.Sprintf("%s %s", m.name, m.TypeEncoding())
}

// invoke calls the implementation with self as the receiver. A trailing
// error result is split off and returned as err.
func (m Method) invoke(self *Object, args []any) ([]any, error) {
	in, err := m.arguments(self, args)
	if err != nil {
		return nil, err
	}

	out := m.imp.Call(in)

	t := m.imp.Type()
	if n := t.NumOut(); n > 0 && t.Out(n-1) == errorType {
		last := out[n-1]
		out = out[:n-1]
		if !last.IsNil() {
			err = last.Interface().(error)
		}
	}

	results := make([]any, len(out))
	for i, v := range out {
		results[i] = v.Interface()
	}
	return results, err
}

func (m Method) arguments(self *Object, args []any) ([]reflect.Value, error) {
	t := m.imp.Type()
	params := t.NumIn() - 1

	if t.IsVariadic() {
		if len(args) < params-1 {
			return nil, fmt.Errorf("%w: %s takes at least %d arguments, got %d", ErrBadArguments, m.name, params-1, len(args))
		}
	} else if len(args) != params {
		return nil, fmt.Errorf("%w: %s takes %d arguments, got %d", ErrBadArguments, m.name, params, len(args))
	}

	in := make([]reflect.Value, 0, len(args)+1)
	in = append(in, reflect.ValueOf(self))

	for i, arg := range args {
		var pt reflect.Type
		if t.IsVariadic() && i >= params-1 {
			pt = t.In(params).Elem()
		} else {
			pt = t.In(i + 1)
		}

		v, err := argumentValue(arg, pt)
		if err != nil {
			return nil, fmt.Errorf("%w: %s argument %d: %w", ErrBadArguments, m.name, i, err)
		}
		in = append(in, v)
	}

	return in, nil
}

func argumentValue(arg any, pt reflect.Type) (reflect.Value, error) {
	if arg == nil {
		switch pt.Kind() {
		case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
			return reflect.Zero(pt), nil
		}
		return reflect.Value{}, fmt.Errorf("nil is not assignable to %v", pt)
	}

	v := reflect.ValueOf(arg)
	if !v.Type().AssignableTo(pt) {
		return reflect.Value{}, fmt.Errorf("%v is not assignable to %v", v.Type(), pt)
	}
	return v, nil
}
