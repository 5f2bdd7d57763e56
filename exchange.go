package swizzle

import (
	"fmt"

	"github.com/pboyd/swizzle/internal/sigdiff"
)

// ExchangeSelector swaps the implementations of original and swizzled on c.
// Afterwards sending original to any instance of c runs what used to be
// swizzled's body, and the other way around. Calling it again with the same
// selectors restores the previous mapping.
//
// Both selectors may be inherited. An inherited method is first copied into
// c's own table so the superclass and its other subclasses are unaffected.
//
// If either selector doesn't resolve, an error matching ErrNotFound is
// returned. If the two implementations have different signatures, an error
// matching ErrSignatureMismatch is returned. In both cases the method table
// is left exactly as it was. Exchanging a selector with itself does nothing.
//
// The change is visible to every existing and future instance of c and its
// subclasses that don't override the selectors.
func (c *Class) ExchangeSelector(original, swizzled Selector) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	a, err := c.resolveLocked(original)
	if err != nil {
		return err
	}
	b, err := c.resolveLocked(swizzled)
	if err != nil {
		return err
	}

	if original == swizzled {
		return nil
	}

	if diff := sigdiff.Funcs(a.imp.Type(), b.imp.Type()); !diff.Empty() {
		return fmt.Errorf("%w: %s and %s on %s: %w", ErrSignatureMismatch, original, swizzled, c.name, diff.Err())
	}

	ma := c.localLocked(a)
	mb := c.localLocked(b)
	ma.imp, mb.imp = mb.imp, ma.imp

	return nil
}

func (c *Class) resolveLocked(sel Selector) (Method, error) {
	if m, ok := c.methods[sel]; ok {
		return *m, nil
	}
	if c.super != nil {
		if m, ok := c.super.InstanceMethod(sel); ok {
			return m, nil
		}
	}
	return Method{}, fmt.Errorf("%w: %s on %s", ErrNotFound, sel, c.name)
}

// localLocked returns c's own table entry for m's selector, copying m down
// if the method is inherited.
func (c *Class) localLocked(m Method) *Method {
	if local, ok := c.methods[m.name]; ok {
		return local
	}
	local := &Method{name: m.name, imp: m.imp}
	c.methods[m.name] = local
	return local
}
