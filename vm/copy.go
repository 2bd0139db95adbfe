package vm

import (
	"github.com/ImperishableMe/Nachos/bounds"
	"github.com/ImperishableMe/Nachos/machine"
	"github.com/ImperishableMe/Nachos/mem"
	"github.com/ImperishableMe/Nachos/res"
	"github.com/ImperishableMe/Nachos/ustr"
	"github.com/ImperishableMe/Nachos/util"
)

/// Copier is a safe bulk copy engine between a user virtual-address
/// range and a kernel buffer, page by page, that never aborts the
/// kernel on a bad user address. Grounded
/// on vm/userbuf.go's Userbuf_t._tx bounded per-page loop, generalized
/// from an x86 Vm_t to any AddressSpace strategy (basic or demand-paged)
/// and from a direct-mapped byte slice to machine.Memory's
/// ppn-addressed pages.
type Copier struct {
	AS  AddressSpace
	Mem machine.Memory
}

/// ReadFromUser copies length bytes starting at vaddr in user space
/// into dst[offset:offset+length]. It returns the number of bytes
/// transferred, or -1 if any page in the range is out of range, unmapped,
/// or invalid. A rejected transfer never partially populates dst beyond
/// what's implementation-defined.
func (c *Copier) ReadFromUser(vaddr uint32, dst []byte, offset, length int) int {
	if length < 0 || offset < 0 || offset+length > len(dst) {
		return -1
	}
	n := 0
	for n < length {
		if !res.Resadd_noblock(bounds.Bounds(bounds.B_COPY_TX)) {
			return -1
		}
		cur := vaddr + uint32(n)
		vpn := mem.VPN(cur)
		if !c.AS.CheckValidVpn(vpn) {
			return -1
		}
		ppn, err := c.AS.TranslateVirtualPage(vpn)
		if err != 0 {
			return -1
		}
		voff := mem.Offset(cur)
		page := c.Mem.Page(ppn)
		chunk := util.Min(int(mem.PGSIZE-voff), length-n)
		copy(dst[offset+n:offset+n+chunk], page[voff:uint32(voff)+uint32(chunk)])
		c.AS.MarkAccessed(vpn, false)
		n += chunk
	}
	return n
}

/// WriteToUser copies src[offset:offset+length] into user space at
/// vaddr. Every page touched is validated (range, mapped, not
/// read-only) before any byte is written, because a write spanning a
/// read-only page must write nothing at all, even for the writable
/// pages preceding it. That rules out a single interleaved
/// validate-then-copy loop the way ReadFromUser uses; validation and
/// copying are two separate passes here.
func (c *Copier) WriteToUser(vaddr uint32, src []byte, offset, length int) int {
	if length < 0 || offset < 0 || offset+length > len(src) {
		return -1
	}
	ppns := make([]uint32, 0, length/int(mem.PGSIZE)+2)
	voffs := make([]uint32, 0, cap(ppns))
	vpns := make([]uint32, 0, cap(ppns))
	n := 0
	for n < length {
		if !res.Resadd_noblock(bounds.Bounds(bounds.B_COPY_TX)) {
			return -1
		}
		cur := vaddr + uint32(n)
		vpn := mem.VPN(cur)
		if !c.AS.CheckValidVpn(vpn) {
			return -1
		}
		ppn, err := c.AS.TranslateVirtualPage(vpn)
		if err != 0 {
			return -1
		}
		if c.AS.IsReadOnly(vpn) {
			return -1
		}
		voff := mem.Offset(cur)
		chunk := util.Min(int(mem.PGSIZE-voff), length-n)
		ppns = append(ppns, ppn)
		voffs = append(voffs, voff)
		vpns = append(vpns, vpn)
		n += chunk
	}
	off := 0
	for i, ppn := range ppns {
		page := c.Mem.Page(ppn)
		voff := voffs[i]
		chunk := util.Min(int(mem.PGSIZE-voff), length-off)
		copy(page[voff:uint32(voff)+uint32(chunk)], src[offset+off:offset+off+chunk])
		c.AS.MarkAccessed(vpns[i], true)
		off += chunk
	}
	return length
}

/// ReadCString reads up to maxLen+1 bytes starting at vaddr and returns
/// the prefix up to the first 0 byte. ok is false if no terminator was
/// found within that range. Bytes are returned raw (ustr.Ustr):
/// filenames and argv strings are opaque byte strings, the caller
/// decides encoding.
func (c *Copier) ReadCString(vaddr uint32, maxLen int) (s ustr.Ustr, ok bool) {
	buf := make([]byte, maxLen+1)
	n := c.ReadFromUser(vaddr, buf, 0, maxLen+1)
	if n < 0 {
		return nil, false
	}
	for i := 0; i < n; i++ {
		if buf[i] == 0 {
			return ustr.Ustr(buf[:i]), true
		}
	}
	return nil, false
}
