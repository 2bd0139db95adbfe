package invpt

import (
	"math/rand"

	"github.com/ImperishableMe/Nachos/bounds"
	"github.com/ImperishableMe/Nachos/coff"
	"github.com/ImperishableMe/Nachos/defs"
	"github.com/ImperishableMe/Nachos/machine"
	"github.com/ImperishableMe/Nachos/mem"
	"github.com/ImperishableMe/Nachos/res"
)

/// DemandPaged is the paging variant's vm.AddressSpace implementation:
/// translation consults a shared Table instead of a private page
/// table, faulting pages in from the COFF image (or zero-filling
/// them, if anonymous) on first touch.
type DemandPaged struct {
	pid          defs.Pid_t
	numPages     uint32
	firstAnonVPN uint32 // vpn >= this has no COFF section (stack, argv)

	table *Table
	pool  *mem.FramePool
	img   coff.Executable
	mem   machine.Memory
	tlb   machine.TLB
}

/// NewDemandPaged builds a demand-paged address space for pid over
/// numPages virtual pages, where every vpn >= firstAnonVPN is anonymous.
func NewDemandPaged(pid defs.Pid_t, numPages, firstAnonVPN uint32, table *Table, pool *mem.FramePool, img coff.Executable, mem machine.Memory, tlb machine.TLB) *DemandPaged {
	return &DemandPaged{
		pid: pid, numPages: numPages, firstAnonVPN: firstAnonVPN,
		table: table, pool: pool, img: img, mem: mem, tlb: tlb,
	}
}

func (ds *DemandPaged) NumPages() uint32 { return ds.numPages }

func (ds *DemandPaged) CheckValidVpn(vpn uint32) bool { return vpn < ds.numPages }

/// sectionFor walks the COFF sections to find which one covers the
/// faulting vpn, if any.
func (ds *DemandPaged) sectionFor(vpn uint32) (secIdx int, pageInSection uint32, ro bool, found bool) {
	for i := 0; i < ds.img.NumSections(); i++ {
		s := ds.img.Section(i)
		if vpn >= s.FirstVPN && vpn < s.FirstVPN+s.NumPages {
			return i, vpn - s.FirstVPN, s.ReadOnly, true
		}
	}
	return 0, 0, false, false
}

/// faultIn allocates a frame for vpn (evicting a victim if the pool is
/// exhausted) and materializes its content, either from the COFF image
/// or as a zero page. The new entry is held locked against eviction
/// until the load completes.
func (ds *DemandPaged) faultIn(vpn uint32) (ppn uint32, readOnly bool, err defs.Err_t) {
	p, ok := ds.pool.Alloc()
	if !ok {
		victim, evicted := ds.table.EvictPhysicalPageNumber()
		if !evicted {
			return 0, false, -defs.ENOMEM
		}
		p = victim
	}
	secIdx, pageInSection, ro, found := ds.sectionFor(vpn)
	te := mem.TranslationEntry{Vpn: vpn, Ppn: p, Valid: true, ReadOnly: ro}
	ds.table.Put(vpn, ds.pid, Entry{TE: te, Anonymous: !found, locked: true})
	if found {
		if e := ds.img.ReadPage(secIdx, pageInSection, ds.mem.Page(p)); e != 0 {
			ds.table.Remove(vpn, ds.pid)
			ds.pool.Release(p)
			return 0, false, e
		}
	} else {
		ds.mem.ZeroPage(p)
	}
	ds.table.Unlock(vpn, ds.pid)
	return p, ro, 0
}

/// TranslateVirtualPage resolves vpn, faulting the page in from the
/// COFF image (or zero-filling it) on first touch.
func (ds *DemandPaged) TranslateVirtualPage(vpn uint32) (uint32, defs.Err_t) {
	if !ds.CheckValidVpn(vpn) {
		return 0, -defs.EFAULT
	}
	if !res.Resadd_noblock(bounds.Bounds(bounds.B_TRANSLATE)) {
		return 0, -defs.ENOHEAP
	}
	if e, ok := ds.table.Get(vpn, ds.pid); ok {
		return e.TE.Ppn, 0
	}
	ppn, _, err := ds.faultIn(vpn)
	return ppn, err
}

func (ds *DemandPaged) MarkAccessed(vpn uint32, dirty bool) {
	if _, ok := ds.table.Get(vpn, ds.pid); ok {
		ds.table.UpdateBits(vpn, ds.pid, true, dirty)
	}
}

func (ds *DemandPaged) IsReadOnly(vpn uint32) bool {
	e, ok := ds.table.Get(vpn, ds.pid)
	if !ok {
		return false
	}
	return e.TE.ReadOnly
}

/// pickSlot scans the TLB for the first invalid slot; if every slot is
/// valid it picks uniformly at random.
func (ds *DemandPaged) pickSlot() int {
	for i := 0; i < ds.tlb.NumSlots(); i++ {
		if !ds.tlb.Read(i).Valid {
			return i
		}
	}
	return rand.Intn(ds.tlb.NumSlots())
}

/// HandleTLBMiss picks a victim slot, writes its dirty/used bits back
/// to the inverted table, then installs a translation for vpn: from
/// the inverted table on a page-table hit, or by faulting the page in
/// otherwise.
func (ds *DemandPaged) HandleTLBMiss(vaddr uint32) defs.Err_t {
	vpn := mem.VPN(vaddr)
	if !ds.CheckValidVpn(vpn) {
		return -defs.EFAULT
	}
	slot := ds.pickSlot()
	victim := ds.tlb.Read(slot)
	if victim.Valid {
		ds.table.UpdateBits(victim.Vpn, ds.pid, victim.Used, victim.Dirty)
	}
	var ppn uint32
	var ro bool
	if e, ok := ds.table.Get(vpn, ds.pid); ok {
		ppn, ro = e.TE.Ppn, e.TE.ReadOnly
	} else {
		p, r, err := ds.faultIn(vpn)
		if err != 0 {
			return err
		}
		ppn, ro = p, r
	}
	ds.tlb.Write(slot, mem.TranslationEntry{Vpn: vpn, Ppn: ppn, Valid: true, ReadOnly: ro})
	return 0
}

/// Unmap releases every frame this address space owns, via the shared
/// Table: the demand-paged analogue of vm.PageTable.UnloadSections.
func (ds *DemandPaged) Unmap() {
	ds.table.RemoveAll(ds.pid)
}

/// RestoreState invalidates the TLB. Called whenever this process's
/// thread is switched back onto the CPU, since the TLB is a per-pid
/// cache and may hold stale mappings from whatever ran in between.
func (ds *DemandPaged) RestoreState() {
	ds.tlb.Invalidate()
}
