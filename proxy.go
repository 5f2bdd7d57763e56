package swizzle

import (
	"reflect"
	"weak"
)

// Proxy stands in for an Object and forwards every message and query to
// it. It holds only a weak reference, so something can keep a proxy around
// for a long time without keeping the target alive. A timer that would
// otherwise hold its owner can hold the owner's proxy instead.
//
// Once the target has been collected, or if there never was one, messages
// fail with ErrNoTarget and queries answer as if sent to nil.
type Proxy struct {
	target weak.Pointer[Object]
}

// NewProxy returns a proxy forwarding to target. target may be nil.
func NewProxy(target *Object) *Proxy {
	p := &Proxy{}
	if target != nil {
		p.target = weak.Make(target)
	}
	return p
}

// Target returns the object the proxy forwards to, or nil if it's gone.
func (p *Proxy) Target() *Object {
	if p == nil {
		return nil
	}
	return p.target.Value()
}

// ProxyFor returns the target as a Receiver, or nil.
func (p *Proxy) ProxyFor() Receiver {
	if t := p.Target(); t != nil {
		return t
	}
	return nil
}

// Send forwards sel and args to the target and returns its results
// unchanged, including a target's own ErrDoesNotRespond.
func (p *Proxy) Send(sel Selector, args ...any) ([]any, error) {
	t := p.Target()
	if t == nil {
		return nil, &MessageError{Class: "nil", Selector: sel, Err: ErrNoTarget}
	}
	return t.Send(sel, args...)
}

// RespondsTo reports whether the target responds to sel.
func (p *Proxy) RespondsTo(sel Selector) bool {
	t := p.Target()
	return t != nil && t.RespondsTo(sel)
}

// MethodSignature returns the target's signature for sel.
func (p *Proxy) MethodSignature(sel Selector) (reflect.Type, bool) {
	t := p.Target()
	if t == nil {
		return nil, false
	}
	return t.MethodSignature(sel)
}

// Class returns the target's class.
func (p *Proxy) Class() *Class {
	if t := p.Target(); t != nil {
		return t.Class()
	}
	return nil
}

// Superclass returns the superclass of the target's class.
func (p *Proxy) Superclass() *Class {
	if t := p.Target(); t != nil {
		return t.Superclass()
	}
	return nil
}

func (p *Proxy) IsKindOf(c *Class) bool {
	t := p.Target()
	return t != nil && t.IsKindOf(c)
}

func (p *Proxy) IsMemberOf(c *Class) bool {
	t := p.Target()
	return t != nil && t.IsMemberOf(c)
}

func (p *Proxy) ConformsTo(proto *Protocol) bool {
	t := p.Target()
	return t != nil && t.ConformsTo(proto)
}

// IsEqual compares the target with other.
func (p *Proxy) IsEqual(other Receiver) bool {
	t := p.Target()
	return t != nil && t.IsEqual(other)
}

// Hash returns the target's hash, or -1 without a target.
func (p *Proxy) Hash() int {
	if t := p.Target(); t != nil {
		return t.Hash()
	}
	return -1
}

// IsProxy always returns true.
func (p *Proxy) IsProxy() bool {
	return true
}

func (p *Proxy) String() string {
	if t := p.Target(); t != nil {
		return t.String()
	}
	return "nil"
}

func (p *Proxy) GoString() string {
	if t := p.Target(); t != nil {
		return t.GoString()
	}
	return "nil"
}
