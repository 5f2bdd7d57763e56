package swizzle

import (
	"fmt"
	"slices"
	"sync"
)

// Class holds a mutable method table mapping selectors to implementations.
// Selectors not defined on the class are looked up on its superclass.
//
// Every implementation is a function whose first parameter is the receiving
// *Object:
//
//	logger.AddMethod("write:", func(self *swizzle.Object, msg string) {
//		...
//	})
type Class struct {
	name  string
	super *Class

	mu        sync.RWMutex
	methods   map[Selector]*Method
	protocols []*Protocol
}

// NewClass returns an empty class. super may be nil for a root class.
func NewClass(name string, super *Class) *Class {
	return &Class{
		name:    name,
		super:   super,
		methods: map[Selector]*Method{},
	}
}

// Name returns the class name.
func (c *Class) Name() string {
	if c == nil {
		return "nil"
	}
	return c.name
}

func (c *Class) String() string {
	return c.Name()
}

// Superclass returns the parent class, or nil for a root class.
func (c *Class) Superclass() *Class {
	if c == nil {
		return nil
	}
	return c.super
}

// IsSubclassOf reports whether c is other or inherits from it.
func (c *Class) IsSubclassOf(other *Class) bool {
	for v := c; v != nil; v = v.super {
		if v == other {
			return true
		}
	}
	return false
}

// AddMethod defines sel on c. It fails if c itself already defines sel; a
// method inherited from a superclass may be overridden.
func (c *Class) AddMethod(sel Selector, fn any) error {
	m, err := newMethod(sel, fn)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.methods[sel]; exists {
		return fmt.Errorf("%w: %s on %s", ErrMethodExists, sel, c.name)
	}
	c.methods[sel] = m
	return nil
}

// ReplaceMethod sets the implementation of sel on c, adding the method if c
// doesn't define it. It returns the previous local implementation, or nil.
func (c *Class) ReplaceMethod(sel Selector, fn any) (any, error) {
	m, err := newMethod(sel, fn)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	prev, exists := c.methods[sel]
	c.methods[sel] = m
	if !exists {
		return nil, nil
	}
	return prev.Implementation(), nil
}

// LocalMethod returns the method c defines for sel, ignoring superclasses.
func (c *Class) LocalMethod(sel Selector) (Method, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	m, ok := c.methods[sel]
	if !ok {
		return Method{}, false
	}
	return *m, true
}

// InstanceMethod resolves sel the way a message send would, walking up the
// superclass chain.
func (c *Class) InstanceMethod(sel Selector) (Method, bool) {
	for v := c; v != nil; v = v.super {
		if m, ok := v.LocalMethod(sel); ok {
			return m, true
		}
	}
	return Method{}, false
}

// Methods returns the selectors c defines itself, sorted.
func (c *Class) Methods() []Selector {
	c.mu.RLock()
	defer c.mu.RUnlock()

	sels := make([]Selector, 0, len(c.methods))
	for sel := range c.methods {
		sels = append(sels, sel)
	}
	slices.Sort(sels)
	return sels
}

// RespondsTo reports whether instances of c respond to sel.
func (c *Class) RespondsTo(sel Selector) bool {
	_, ok := c.InstanceMethod(sel)
	return ok
}

// Adopt declares that c conforms to p. Every selector p requires must
// resolve on c.
func (c *Class) Adopt(p *Protocol) error {
	var missing []Selector
	for _, sel := range p.selectors {
		if !c.RespondsTo(sel) {
			missing = append(missing, sel)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s does not implement %v from %s", ErrProtocolNotSatisfied, c.name, missing, p.name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !slices.Contains(c.protocols, p) {
		c.protocols = append(c.protocols, p)
	}
	return nil
}

// ConformsTo reports whether c or one of its superclasses adopted p.
func (c *Class) ConformsTo(p *Protocol) bool {
	for v := c; v != nil; v = v.super {
		v.mu.RLock()
		ok := slices.Contains(v.protocols, p)
		v.mu.RUnlock()
		if ok {
			return true
		}
	}
	return false
}
