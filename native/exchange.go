//go:build amd64 && unix

package native

import (
	"bytes"
	"fmt"
	"sync"
	"unsafe"
)

var (
	mu      sync.Mutex
	patched = map[uintptr]*patch{}
)

// Exchange swaps fn and other, which must be functions with identical
// signatures. Afterwards calling fn runs other's original code and calling
// other runs fn's. Exchanging the same pair again restores both.
//
// Exchanging a function with itself does nothing. If either function is
// already exchanged with something else, ErrAlreadyExchanged is returned.
//
// Note that inlined call sites are not affected. If possible, add a noinline
// directive to both functions:
//
//	//go:noinline
//	func myfunc() {
//		...
//	}
func Exchange(fn, other any) error {
	fnv, otherv, err := funcValues(fn, other)
	if err != nil {
		return err
	}

	a, b := fnv.Pointer(), otherv.Pointer()
	if a == b {
		return nil
	}

	mu.Lock()
	defer mu.Unlock()

	pa, pb := patched[a], patched[b]
	if pa != nil && pa.partner == b {
		return unpatch(pa, pb)
	}
	if pa != nil || pb != nil {
		return ErrAlreadyExchanged
	}

	// Clone both before patching either, the clones must hold the
	// original code.
	pa, err = newPatch(a)
	if err != nil {
		return err
	}
	pb, err = newPatch(b)
	if err != nil {
		pa.free()
		return err
	}

	if err := pa.jumpTo(pb.cloneEntry()); err != nil {
		pa.free()
		pb.free()
		return err
	}
	if err := pb.jumpTo(pa.cloneEntry()); err != nil {
		pa.restore()
		pa.free()
		pb.free()
		return err
	}

	pa.partner, pb.partner = b, a
	patched[a], patched[b] = pa, pb
	return nil
}

// Restore undoes the exchange fn is part of.
func Restore(fn any) error {
	fnv, err := funcValue(fn)
	if err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()

	p, ok := patched[fnv.Pointer()]
	if !ok {
		return ErrNotExchanged
	}
	return unpatch(p, patched[p.partner])
}

func unpatch(patches ...*patch) error {
	for _, p := range patches {
		if err := p.restore(); err != nil {
			return err
		}
	}
	for _, p := range patches {
		p.free()
		delete(patched, p.entry)
	}
	return nil
}

// patch tracks one exchanged function.
type patch struct {
	entry uintptr

	// code is the function's text, saved is what it held before the
	// jump was written.
	code  []byte
	saved []byte

	// clone is the relocated copy of saved, allocated as alloc in the
	// clone arena.
	alloc []byte
	clone []byte

	partner uintptr
}

func newPatch(entry uintptr) (*patch, error) {
	code := funcText(entry)
	if len(code) == 0 {
		return nil, fmt.Errorf("no code found for function at %#x", entry)
	}

	alloc, clone, err := clones.clone(code)
	if err != nil {
		return nil, fmt.Errorf("unable to copy function at %#x: %w", entry, err)
	}

	return &patch{
		entry: entry,
		code:  code,
		saved: bytes.Clone(code),
		alloc: alloc,
		clone: clone,
	}, nil
}

func (p *patch) cloneEntry() uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(p.clone)))
}

func (p *patch) jumpTo(dest uintptr) error {
	if err := mprotect(p.code, protRWX); err != nil {
		return err
	}
	defer mprotect(p.code, protRX)

	return insertJump(p.code, dest)
}

func (p *patch) restore() error {
	if err := mprotect(p.code, protRWX); err != nil {
		return err
	}
	copy(p.code, p.saved)
	return mprotect(p.code, protRX)
}

func (p *patch) free() {
	if p.alloc != nil {
		clones.free(p.alloc)
	}
	p.alloc = nil
	p.clone = nil
}
