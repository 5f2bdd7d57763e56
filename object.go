package swizzle

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
)

var lastObjectID atomic.Uint64

// Object is an instance of a Class. Messages sent to it are dispatched
// through its class's method table at the time of the send.
type Object struct {
	class *Class
	id    uint64

	mu    sync.RWMutex
	ivars map[string]any

	proxy atomic.Pointer[Proxy]
}

// NewObject returns a new instance of c.
func NewObject(c *Class) *Object {
	return &Object{
		class: c,
		id:    lastObjectID.Add(1),
		ivars: map[string]any{},
	}
}

// Send dispatches sel to the object with args and returns the
// implementation's results. When the implementation's last result is an
// error, it's removed from the results and returned as the error; the other
// results are still returned.
//
// If the object doesn't respond to sel, the error is a *MessageError
// wrapping ErrDoesNotRespond. If args don't fit the implementation's
// parameters, it wraps ErrBadArguments. Panics in the implementation are not
// recovered.
func (o *Object) Send(sel Selector, args ...any) ([]any, error) {
	if o == nil {
		return nil, &MessageError{Class: "nil", Selector: sel, Err: ErrDoesNotRespond}
	}

	m, ok := o.class.InstanceMethod(sel)
	if !ok {
		return nil, &MessageError{Class: o.class.Name(), Selector: sel, Err: ErrDoesNotRespond}
	}
	return m.invoke(o, args)
}

// Class returns the object's class.
func (o *Object) Class() *Class {
	return o.class
}

// Superclass returns the superclass of the object's class.
func (o *Object) Superclass() *Class {
	return o.class.Superclass()
}

// RespondsTo reports whether the object has an implementation for sel.
func (o *Object) RespondsTo(sel Selector) bool {
	return o.class.RespondsTo(sel)
}

// MethodSignature returns the signature sel would be called with.
func (o *Object) MethodSignature(sel Selector) (reflect.Type, bool) {
	m, ok := o.class.InstanceMethod(sel)
	if !ok {
		return nil, false
	}
	return m.Signature(), true
}

// IsKindOf reports whether the object is an instance of c or a subclass of
// c.
func (o *Object) IsKindOf(c *Class) bool {
	return o.class.IsSubclassOf(c)
}

// IsMemberOf reports whether the object is an instance of exactly c.
func (o *Object) IsMemberOf(c *Class) bool {
	return o.class == c
}

// ConformsTo reports whether the object's class adopted p.
func (o *Object) ConformsTo(p *Protocol) bool {
	return o.class.ConformsTo(p)
}

// IsEqual reports whether other is this object, directly or through
// proxies.
func (o *Object) IsEqual(other Receiver) bool {
	obj, ok := Unwrap(other).(*Object)
	return ok && obj == o
}

// Hash returns an identity hash for the object.
func (o *Object) Hash() int {
	return int(o.id)
}

// IsProxy always returns false for an Object.
func (o *Object) IsProxy() bool {
	return false
}

func (o *Object) String() string {
	return fmt.Sprintf("<%s: %p>", o.class.Name(), o)
}

// GoString includes the class hierarchy and instance variable names.
func (o *Object) GoString() string {
	var chain []string
	for c := o.class; c != nil; c = c.super {
		chain = append(chain, c.name)
	}

	o.mu.RLock()
	names := make([]string, 0, len(o.ivars))
	for name := range o.ivars {
		names = append(names, name)
	}
	o.mu.RUnlock()
	slices.Sort(names)

	return fmt.Sprintf("<%s: %p; ivars=%v>", strings.Join(chain, " : "), o, names)
}

// Ivar returns the named instance variable.
func (o *Object) Ivar(name string) (any, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	v, ok := o.ivars[name]
	return v, ok
}

// SetIvar sets the named instance variable.
func (o *Object) SetIvar(name string, value any) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.ivars[name] = value
}

// Proxy returns a forwarding proxy for the object. The proxy is created on
// first use and the same one is returned after that. It doesn't keep the
// object alive.
func (o *Object) Proxy() *Proxy {
	if p := o.proxy.Load(); p != nil {
		return p
	}

	p := NewProxy(o)
	if o.proxy.CompareAndSwap(nil, p) {
		return p
	}
	return o.proxy.Load()
}
