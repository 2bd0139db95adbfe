package vm

import (
	"sync"

	"github.com/ImperishableMe/Nachos/defs"
	"github.com/ImperishableMe/Nachos/mem"
)

/// PageTable is the basic (non-paging) variant's per-process address
/// space: an ordered sequence of translation entries indexed by VPN,
/// owned exclusively by one process. The mutex and the
/// Lock_pmap/Unlock_pmap/Lockassert_pmap naming are kept from biscuit's
/// Vm_t (vm/as.go): the same discipline ("this critical section
/// touches the page table; assert the lock is held before touching it
/// lock-free") applies even though the underlying table shape is
/// entirely different (a flat MIPS entry array instead of an x86
/// multi-level Pmap_t).
type PageTable struct {
	sync.Mutex
	pgfltaken bool

	entries []mem.TranslationEntry
	pool    *mem.FramePool
}

/// NewPageTable builds an empty table sized for numPages; entries are
/// populated by loadSections, not here.
func NewPageTable(numPages uint32, pool *mem.FramePool) *PageTable {
	return &PageTable{
		entries: make([]mem.TranslationEntry, numPages),
		pool:    pool,
	}
}

/// Lock_pmap acquires the page table's mutex and marks a page-table
/// critical section as entered.
func (pt *PageTable) Lock_pmap() {
	pt.Lock()
	pt.pgfltaken = true
}

/// Unlock_pmap releases the mutex acquired by Lock_pmap.
func (pt *PageTable) Unlock_pmap() {
	pt.pgfltaken = false
	pt.Unlock()
}

/// Lockassert_pmap panics if the page table's mutex is not held, the
/// same "caller forgot to lock" guard biscuit's Vm_t uses.
func (pt *PageTable) Lockassert_pmap() {
	if !pt.pgfltaken {
		panic("pagetable: lock must be held")
	}
}

func (pt *PageTable) NumPages() uint32 { return uint32(len(pt.entries)) }

func (pt *PageTable) CheckValidVpn(vpn uint32) bool {
	return vpn < uint32(len(pt.entries))
}

/// TranslateVirtualPage is a pure lookup: the basic variant keeps every
/// page resident for the process's lifetime, so there is nothing to
/// fault in.
func (pt *PageTable) TranslateVirtualPage(vpn uint32) (uint32, defs.Err_t) {
	if !pt.CheckValidVpn(vpn) {
		return 0, -defs.EFAULT
	}
	e := pt.entries[vpn]
	if !e.Valid {
		return 0, -defs.EFAULT
	}
	return e.Ppn, 0
}

func (pt *PageTable) MarkAccessed(vpn uint32, dirty bool) {
	if !pt.CheckValidVpn(vpn) {
		return
	}
	pt.entries[vpn].Used = true
	if dirty {
		pt.entries[vpn].Dirty = true
	}
}

func (pt *PageTable) IsReadOnly(vpn uint32) bool {
	if !pt.CheckValidVpn(vpn) {
		return true
	}
	return pt.entries[vpn].ReadOnly
}

/// Install records an entry at vpn. Called by the image loader while
/// building the table, and never afterward.
func (pt *PageTable) Install(vpn uint32, e mem.TranslationEntry) {
	pt.entries[vpn] = e
}

/// UnloadSections returns every entry's ppn to the frame pool exactly
/// once. A double-free here is a kernel-fatal bug, which
/// FramePool.Release already panics on.
func (pt *PageTable) UnloadSections() {
	pt.Lock_pmap()
	defer pt.Unlock_pmap()
	for i := range pt.entries {
		if pt.entries[i].Valid {
			pt.pool.Release(pt.entries[i].Ppn)
			pt.entries[i].Valid = false
		}
	}
}
