package mem

import (
	"fmt"
	"sync"
)

/// FramePool is the process-wide allocator of physical page numbers.
/// It tracks free ppns in [0, numPhysPages) as a linked free list, the
/// same shape as biscuit's Physmem_t, but with a single-owner invariant
/// instead of refcounting: a ppn is either free in the pool or owned by
/// exactly one valid translation entry.
type FramePool struct {
	sync.Mutex
	numPhysPages uint32
	owned        []bool // owned[ppn]: true while allocated to a caller
	freeHead     uint32 // index of first free ppn, or sentinel below
	free         []uint32
	freeCount    uint32
}

const noFree = ^uint32(0)

/// NewFramePool builds a pool over [0, numPhysPages) with every page
/// initially free.
func NewFramePool(numPhysPages uint32) *FramePool {
	fp := &FramePool{
		numPhysPages: numPhysPages,
		owned:        make([]bool, numPhysPages),
		free:         make([]uint32, numPhysPages),
	}
	for i := uint32(0); i < numPhysPages; i++ {
		if i == numPhysPages-1 {
			fp.free[i] = noFree
		} else {
			fp.free[i] = i + 1
		}
	}
	if numPhysPages == 0 {
		fp.freeHead = noFree
	} else {
		fp.freeHead = 0
	}
	fp.freeCount = numPhysPages
	return fp
}

/// NumFree reports the number of free physical pages.
func (fp *FramePool) NumFree() uint32 {
	fp.Lock()
	defer fp.Unlock()
	return fp.freeCount
}

/// NumPhysPages reports the pool's total capacity.
func (fp *FramePool) NumPhysPages() uint32 {
	return fp.numPhysPages
}

/// Alloc removes and returns a free ppn. The second return is false iff
/// the pool is exhausted; the caller (the image loader, or the TLB
/// fault handler's eviction path) is responsible for translating that
/// into defs.ENOMEM. FramePool itself never panics on exhaustion, only
/// on a double-free, which is a kernel bug rather than resource
/// pressure.
func (fp *FramePool) Alloc() (uint32, bool) {
	fp.Lock()
	defer fp.Unlock()
	if fp.freeHead == noFree {
		return 0, false
	}
	ppn := fp.freeHead
	fp.freeHead = fp.free[ppn]
	fp.freeCount--
	if fp.owned[ppn] {
		panic(fmt.Sprintf("frame pool: ppn %d already owned at alloc time", ppn))
	}
	fp.owned[ppn] = true
	return ppn, true
}

/// Release returns ppn to the pool. A ppn released twice without an
/// intervening Alloc is a kernel-fatal bug: it means two translation
/// entries believed they owned the same physical page, violating the
/// single-owner invariant, so this panics rather than corrupting the
/// free list silently.
func (fp *FramePool) Release(ppn uint32) {
	fp.Lock()
	defer fp.Unlock()
	if ppn >= fp.numPhysPages {
		panic(fmt.Sprintf("frame pool: release of out-of-range ppn %d", ppn))
	}
	if !fp.owned[ppn] {
		panic(fmt.Sprintf("frame pool: double free of ppn %d", ppn))
	}
	fp.owned[ppn] = false
	fp.free[ppn] = fp.freeHead
	fp.freeHead = ppn
	fp.freeCount++
}

/// AllocN allocates n frames atomically: either all n are returned, or
/// none are (any partial allocation is unwound), so a failed
/// loadSections leaves no frame leaked.
func (fp *FramePool) AllocN(n uint32) ([]uint32, bool) {
	fp.Lock()
	defer fp.Unlock()
	if fp.freeCount < n {
		return nil, false
	}
	ppns := make([]uint32, 0, n)
	for uint32(len(ppns)) < n {
		ppn := fp.freeHead
		fp.freeHead = fp.free[ppn]
		fp.freeCount--
		fp.owned[ppn] = true
		ppns = append(ppns, ppn)
	}
	return ppns, true
}
