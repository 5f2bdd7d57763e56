// Package sigdiff compares function signatures.
package sigdiff

import (
	"errors"
	"fmt"
	"reflect"
)

// Differences lists the parameter and result positions where two function
// types disagree. A nil entry means the position matches.
type Differences struct {
	In  []*Difference
	Out []*Difference
}

// Difference holds the two types found at one position. A nil type means
// the function has no parameter (or result) at that position.
type Difference struct {
	A reflect.Type
	B reflect.Type
}

// Empty reports whether the signatures are identical.
func (d *Differences) Empty() bool {
	for _, in := range d.In {
		if in != nil {
			return false
		}
	}
	for _, out := range d.Out {
		if out != nil {
			return false
		}
	}
	return true
}

// Err returns an error describing every difference, or nil when there are
// none.
func (d *Differences) Err() error {
	errs := []error{}
	for i, arg := range d.In {
		if arg != nil {
			errs = append(errs, fmt.Errorf("argument %d: %v != %v", i, arg.A, arg.B))
		}
	}
	for i, out := range d.Out {
		if out != nil {
			errs = append(errs, fmt.Errorf("output %d: %v != %v", i, out.A, out.B))
		}
	}

	return errors.Join(errs...)
}

// Funcs compares two function types. Both must be of kind reflect.Func.
func Funcs(a, b reflect.Type) *Differences {
	diff := Differences{
		In:  compare(a.NumIn(), b.NumIn(), a.In, b.In),
		Out: compare(a.NumOut(), b.NumOut(), a.Out, b.Out),
	}

	// A variadic function and a function taking a trailing slice have the
	// same In types but can't stand in for each other.
	if a.IsVariadic() != b.IsVariadic() && a.NumIn() > 0 && a.NumIn() == b.NumIn() {
		last := a.NumIn() - 1
		diff.In[last] = &Difference{A: a.In(last), B: b.In(last)}
	}

	return &diff
}

// Equal reports whether two function types can be exchanged for each other.
func Equal(a, b reflect.Type) bool {
	return Funcs(a, b).Empty()
}

func compare(na, nb int, at, bt func(int) reflect.Type) []*Difference {
	diffs := make([]*Difference, max(na, nb))

	for i := range diffs {
		switch {
		case i >= na:
			diffs[i] = &Difference{B: bt(i)}
		case i >= nb:
			diffs[i] = &Difference{A: at(i)}
		case at(i) != bt(i):
			diffs[i] = &Difference{A: at(i), B: bt(i)}
		}
	}

	return diffs
}
