//go:build amd64 && unix

package native

import (
	"errors"
	"fmt"
	"sync"

	"github.com/pboyd/malloc"
)

const arenaStartSize = 64 << 10

// arena hands out executable memory for cloned functions. The pages are only
// writable while a clone is being written or freed.
type arena struct {
	*malloc.Arena
	protect func(int) error

	mu       sync.Mutex
	initOnce sync.Once
	initErr  error
	writable bool
}

var clones = &arena{}

func (a *arena) init(size int) error {
	a.initOnce.Do(func() {
		be := malloc.MmapBackend(protRWX, mmapFlags)
		if protBE, ok := be.(malloc.ProtectedArenaBackend); ok {
			a.protect = protBE.Protect
		} else {
			a.protect = func(int) error {
				return nil
			}
		}

		a.Arena = malloc.NewArena(uint64(max(size, arenaStartSize)), malloc.Backend(be))
		if a.Arena == nil {
			a.initErr = errors.New("unable to initialize arena")
			return
		}
		a.writable = true
	})
	return a.initErr
}

func (a *arena) setWritable(writable bool) error {
	if a.protect == nil || a.writable == writable {
		return nil
	}

	prot := protRX
	if writable {
		prot = protRWX
	}

	err := a.protect(prot)
	if err == nil {
		a.writable = writable
	}
	return err
}

// clone copies code into the arena, adjusting relative addresses for the
// new location. It returns the allocation (for free) and the clone itself.
func (a *arena) clone(code []byte) ([]byte, []byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Room for padding the clone to 16 bytes.
	size := len(code) + 16

	if err := a.init(size); err != nil {
		return nil, nil, fmt.Errorf("error initializing allocator: %w", err)
	}
	if err := a.setWritable(true); err != nil {
		return nil, nil, err
	}
	defer a.setWritable(false)

	alloc, err := malloc.MallocSlice[byte](a.Arena, size)
	if err != nil {
		return nil, nil, err
	}

	cloned, err := relocate(code, alloc)
	if err != nil {
		malloc.FreeSlice(a.Arena, alloc)
		return nil, nil, err
	}
	return alloc, cloned, nil
}

func (a *arena) free(alloc []byte) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.setWritable(true)
	defer a.setWritable(false)

	malloc.FreeSlice(a.Arena, alloc)
}
