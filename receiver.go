package swizzle

import (
	"fmt"
	"reflect"
)

// Receiver is anything that accepts messages: an *Object, or a *Proxy
// standing in for one.
type Receiver interface {
	Send(sel Selector, args ...any) ([]any, error)

	RespondsTo(sel Selector) bool
	MethodSignature(sel Selector) (reflect.Type, bool)
	Class() *Class
	Superclass() *Class
	IsKindOf(c *Class) bool
	IsMemberOf(c *Class) bool
	ConformsTo(p *Protocol) bool

	IsEqual(other Receiver) bool
	Hash() int
	IsProxy() bool

	fmt.Stringer
}

// ProxyType is implemented by receivers that stand in for another one.
type ProxyType interface {
	ProxyFor() Receiver
}

// Unwrap follows proxies until it reaches a receiver that isn't one. It
// returns nil if a proxy along the way has lost its target.
func Unwrap(r Receiver) Receiver {
	for r != nil {
		pt, ok := r.(ProxyType)
		if !ok {
			return r
		}
		r = pt.ProxyFor()
	}
	return nil
}

// Call sends sel to r and returns the first result as an R. Methods without
// results yield the zero value.
func Call[R any](r Receiver, sel Selector, args ...any) (R, error) {
	var zero R

	out, err := r.Send(sel, args...)
	if err != nil {
		return zero, err
	}
	if len(out) == 0 || out[0] == nil {
		return zero, nil
	}

	v, ok := out[0].(R)
	if !ok {
		return zero, fmt.Errorf("%s returned %T, not %T", sel, out[0], zero)
	}
	return v, nil
}
