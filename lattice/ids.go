package lattice

import (
	"fmt"
	"math"
)

// idAllocator hands out fresh patch ids for patches the scheduler itself
// materializes (magic states). Each Scheduler owns one; nothing is shared
// between compilations, so concurrent runs over the same assembly allocate
// identical ids.
//
// Allocation starts above the largest declared id. When that is the top of
// the id space it wraps once to 0; declared ids are always skipped.
//
// Thread-safety: NOT thread-safe. Must be called from a single goroutine.
// Copies share the declared set, which is never written after construction.
type idAllocator struct {
	next      PatchID
	declared  map[PatchID]bool
	exhausted bool
}

func newIDAllocator(a LogicalLatticeAssembly) *idAllocator {
	declared := a.declaredIDs()
	var top PatchID
	for id := range declared {
		top = max(top, id)
	}
	alloc := &idAllocator{declared: declared}
	if len(declared) > 0 && top < math.MaxUint32 {
		alloc.next = top + 1
	}
	return alloc
}

// Next returns an id no declared patch uses and no earlier call returned.
// It fails with ErrInvalidAssembly once every id has been handed out.
func (a *idAllocator) Next() (PatchID, error) {
	for !a.exhausted {
		id := a.next
		if id == math.MaxUint32 {
			a.exhausted = true
		} else {
			a.next++
		}
		if !a.declared[id] {
			return id, nil
		}
	}
	return 0, fmt.Errorf("%w: patch id space exhausted", ErrInvalidAssembly)
}
