// Package mem implements the physical frame pool and the pure address
// arithmetic used to translate between virtual and physical addresses.
//
// Grounded on biscuit's mem/mem.go: PGSHIFT/PGSIZE/PGOFFSET const
// pattern and the Physmem_t free-list allocator, simplified to a
// single-owner model (no refcounting, no per-CPU lists, no COW) since
// this kernel's Non-goals exclude copy-on-write and multi-threaded
// processes sharing a page.
package mem

/// PGSHIFT is the base-2 exponent of the page size. Nachos' original
/// simulated MIPS machine used a 128-byte page (PageSize == SectorSize
/// in the original machine description); this core keeps that value
/// rather than the 4096-byte x86 page size the teacher used, since the
/// simulated processor (an external collaborator) defines pageSize.
const PGSHIFT uint = 7

/// PGSIZE is the size of a single page in bytes: 1<<PGSHIFT.
const PGSIZE uint32 = 1 << PGSHIFT

/// PGOFFSET masks the in-page offset bits of an address.
const PGOFFSET uint32 = PGSIZE - 1

/// VPN splits a 32-bit address into its virtual page number. Address
/// arithmetic is unsigned throughout to avoid sign-extension bugs.
func VPN(addr uint32) uint32 {
	return addr / PGSIZE
}

/// Offset returns the in-page offset of addr.
func Offset(addr uint32) uint32 {
	return addr & PGOFFSET
}

/// Addr joins a vpn and an in-page offset back into a full address.
/// Addr(VPN(a), Offset(a)) == a for all a.
func Addr(vpn, off uint32) uint32 {
	return vpn*PGSIZE | off
}
