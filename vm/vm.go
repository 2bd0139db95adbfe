// Package vm implements the per-process page table and the
// user-memory copy engine, generalized over a pluggable address-space
// strategy: a single Process type switches on a Resident (this
// package) vs DemandPaged (package invpt) address-space strategy rather
// than using inheritance, the way biscuit's Vm_t ties page-fault
// resolution, TLB shootdown, and the page table together into one
// x86-specific type (vm/as.go).
package vm

import "github.com/ImperishableMe/Nachos/defs"

/// AddressSpace is the strategy interface: the exception entry and the
/// copy engine call through this, never through a concrete page-table
/// type, so the basic (Resident) and demand-paged (invpt.DemandPaged)
/// variants share one call surface.
type AddressSpace interface {
	/// NumPages returns the process's VPN range length.
	NumPages() uint32
	/// CheckValidVpn reports whether vpn is in [0, NumPages()).
	CheckValidVpn(vpn uint32) bool
	/// TranslateVirtualPage resolves vpn to a ppn; it neither reads nor
	/// fills the TLB. In the paging
	/// variant this may allocate a frame and load it from the COFF
	/// image; in the resident variant it is a pure lookup into the
	/// process's own page table.
	TranslateVirtualPage(vpn uint32) (ppn uint32, err defs.Err_t)
	/// MarkAccessed updates the used/dirty bits for vpn after a
	/// successful copy-engine transfer (the used bit always, the dirty
	/// bit only on a write).
	MarkAccessed(vpn uint32, dirty bool)
	/// IsReadOnly reports whether vpn's resolved entry forbids writes.
	/// Must only be called after a successful TranslateVirtualPage.
	IsReadOnly(vpn uint32) bool
}
