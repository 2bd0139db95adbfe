// Package invpt implements the inverted page table with eviction and
// the TLB fault handler of the demand-paged address space variant. It
// is the second implementation of vm.AddressSpace, the pluggable
// address-space strategy, sharing vm.Copier with the basic variant's
// vm.PageTable.
//
// Grounded on hashtable/hashtable.go (the adapted VpnPid_t-keyed
// lock-free-read table backs Table's storage) and on vm/as.go's
// Sys_pgfault fault-in shape (look up, else allocate-and-load),
// generalized from an x86 COW fault to a from-executable reload.
package invpt

import (
	"sync"

	"github.com/ImperishableMe/Nachos/defs"
	"github.com/ImperishableMe/Nachos/hashtable"
	"github.com/ImperishableMe/Nachos/mem"
)

/// Entry is one inverted-page-table occupant: the translation entry
/// itself, plus bookkeeping the eviction policy needs that has no
/// counterpart in a plain mem.TranslationEntry.
type Entry struct {
	TE mem.TranslationEntry
	/// Anonymous is true for pages with no backing COFF section (stack,
	/// argv): when no section covers a page, it is zero-initialized.
	Anonymous bool
	/// locked marks an entry as mid-fault-in: evictPhysicalPageNumber
	/// must never choose it.
	locked bool
}

/// Table is the global `(vpn, pid) -> entry` map, plus a FIFO eviction
/// order. One Table is shared by every demand-paged process in the
/// kernel.
type Table struct {
	mu    sync.Mutex
	ht    *hashtable.Hashtable_t
	order []hashtable.VpnPid_t // insertion order, oldest first
	pool  *mem.FramePool
}

/// NewTable builds an empty inverted page table backed by pool.
func NewTable(pool *mem.FramePool) *Table {
	return &Table{ht: hashtable.MkHash(64), pool: pool}
}

func key(vpn uint32, pid defs.Pid_t) hashtable.VpnPid_t {
	return hashtable.VpnPid_t{Vpn: vpn, Pid: uint32(pid)}
}

/// Get returns the resident entry for (vpn, pid), if any.
func (t *Table) Get(vpn uint32, pid defs.Pid_t) (Entry, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	v, ok := t.ht.Get(key(vpn, pid))
	if !ok {
		return Entry{}, false
	}
	return v.(Entry), true
}

/// Put inserts or replaces the entry for (vpn, pid), pushing it to the
/// back of the eviction order.
func (t *Table) Put(vpn uint32, pid defs.Pid_t, e Entry) {
	t.mu.Lock()
	defer t.mu.Unlock()
	k := key(vpn, pid)
	if _, existed := t.ht.Get(k); existed {
		t.ht.Del(k)
		t.removeFromOrderLocked(k)
	}
	t.ht.Set(k, e)
	t.order = append(t.order, k)
}

/// Remove deletes the entry for (vpn, pid), if present. Used to back
/// out a fault-in whose page load failed; exit goes through RemoveAll.
func (t *Table) Remove(vpn uint32, pid defs.Pid_t) {
	t.mu.Lock()
	defer t.mu.Unlock()
	k := key(vpn, pid)
	if _, ok := t.ht.Get(k); ok {
		t.ht.Del(k)
		t.removeFromOrderLocked(k)
	}
}

/// RemoveAll drops every resident entry belonging to pid, returning
/// their ppns to the frame pool exactly once each: the demand-paged
/// analogue of vm.PageTable.UnloadSections.
func (t *Table) RemoveAll(pid defs.Pid_t) {
	t.mu.Lock()
	var victims []hashtable.VpnPid_t
	for _, k := range t.order {
		if k.Pid == uint32(pid) {
			victims = append(victims, k)
		}
	}
	var ppns []uint32
	for _, k := range victims {
		if v, ok := t.ht.Get(k); ok {
			ppns = append(ppns, v.(Entry).TE.Ppn)
			t.ht.Del(k)
			t.removeFromOrderLocked(k)
		}
	}
	t.mu.Unlock()
	for _, ppn := range ppns {
		t.pool.Release(ppn)
	}
}

/// Lock marks (vpn, pid) as mid-fault-in, excluding it from eviction.
func (t *Table) Lock(vpn uint32, pid defs.Pid_t) {
	t.mu.Lock()
	defer t.mu.Unlock()
	k := key(vpn, pid)
	if v, ok := t.ht.Get(k); ok {
		e := v.(Entry)
		e.locked = true
		t.ht.Del(k)
		t.ht.Set(k, e)
	}
}

/// Unlock clears the mid-fault-in mark set by Lock.
func (t *Table) Unlock(vpn uint32, pid defs.Pid_t) {
	t.mu.Lock()
	defer t.mu.Unlock()
	k := key(vpn, pid)
	if v, ok := t.ht.Get(k); ok {
		e := v.(Entry)
		e.locked = false
		t.ht.Del(k)
		t.ht.Set(k, e)
	}
}

/// UpdateBits folds a TLB victim's used/dirty bits back into the
/// inverted-table entry for (vpn, pid). The entry must exist: a valid
/// TLB entry with no corresponding inverted-table entry is a kernel
/// bug.
func (t *Table) UpdateBits(vpn uint32, pid defs.Pid_t, used, dirty bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	k := key(vpn, pid)
	v, ok := t.ht.Get(k)
	if !ok {
		panic("invpt: TLB write-back for entry with no inverted-table mapping")
	}
	e := v.(Entry)
	if used {
		e.TE.Used = true
	}
	if dirty {
		e.TE.Dirty = true
	}
	t.ht.Del(k)
	t.ht.Set(k, e)
}

func (t *Table) removeFromOrderLocked(k hashtable.VpnPid_t) {
	for i, o := range t.order {
		if o == k {
			t.order = append(t.order[:i], t.order[i+1:]...)
			return
		}
	}
}

/// EvictPhysicalPageNumber chooses a resident entry to displace under
/// demand: FIFO over insertion order, skipping entries that are locked
/// mid-fault-in or dirty and anonymous, since there is no swap file to
/// preserve their content across eviction (forbidding their eviction is
/// chosen over silently losing data). Removes the chosen entry from the
/// map and returns its ppn for reuse; ok is false if every resident
/// entry is ineligible (the caller must then fail the fault rather than
/// make progress).
func (t *Table) EvictPhysicalPageNumber() (ppn uint32, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, k := range t.order {
		v, present := t.ht.Get(k)
		if !present {
			continue
		}
		e := v.(Entry)
		if e.locked {
			continue
		}
		if e.Anonymous && e.TE.Dirty {
			continue
		}
		t.ht.Del(k)
		t.order = append(t.order[:i], t.order[i+1:]...)
		return e.TE.Ppn, true
	}
	return 0, false
}
