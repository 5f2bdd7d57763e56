package native

import (
	"fmt"
	"reflect"

	"github.com/pboyd/swizzle/internal/sigdiff"
)

func funcValue(fn any) (reflect.Value, error) {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		return reflect.Value{}, fmt.Errorf("not a function, kind: %v", v.Kind())
	}
	if v.IsNil() {
		return reflect.Value{}, fmt.Errorf("nil function")
	}
	return v, nil
}

// funcValues checks that fn and other are functions that can stand in for
// each other.
func funcValues(fn, other any) (reflect.Value, reflect.Value, error) {
	fnv, err := funcValue(fn)
	if err != nil {
		return reflect.Value{}, reflect.Value{}, err
	}
	otherv, err := funcValue(other)
	if err != nil {
		return reflect.Value{}, reflect.Value{}, err
	}

	if diff := sigdiff.Funcs(fnv.Type(), otherv.Type()); !diff.Empty() {
		return reflect.Value{}, reflect.Value{}, fmt.Errorf("function signatures do not match: %w", diff.Err())
	}
	return fnv, otherv, nil
}
