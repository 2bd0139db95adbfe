package process

import (
	"github.com/ImperishableMe/Nachos/coff"
	"github.com/ImperishableMe/Nachos/defs"
	"github.com/ImperishableMe/Nachos/invpt"
	"github.com/ImperishableMe/Nachos/mem"
	"github.com/ImperishableMe/Nachos/ustr"
	"github.com/ImperishableMe/Nachos/vm"
)

/// load opens the COFF file, validates argument size, computes
/// numPages/initialPC/initialSP, builds the address space (eagerly for
/// the basic variant, lazily for the demand-paged variant), and writes
/// the argv block into the last page.
func (mgr *Manager) load(p *Process, name ustr.Ustr, args []ustr.Ustr) defs.Err_t {
	argSize := 0
	for _, a := range args {
		argSize += 4 + len(a) + 1
	}
	if argSize > int(mem.PGSIZE) {
		return -defs.EINVAL
	}

	img, err := mgr.OpenCOFF(name.String())
	if err != 0 {
		return err
	}

	textPages := uint32(0)
	for i := 0; i < img.NumSections(); i++ {
		textPages += img.Section(i).NumPages
	}
	numPages := textPages + mgr.Ctx.Config.StackPages + 1
	initialSP := (textPages + mgr.Ctx.Config.StackPages) * mem.PGSIZE
	initialPC := img.EntryPoint()

	if mgr.Ctx.Config.Paging {
		if mgr.NewTLB == nil {
			img.Close()
			return -defs.EINVAL
		}
		p.TLB = mgr.NewTLB()
		p.AS = invpt.NewDemandPaged(p.Pid, numPages, textPages, mgr.Ctx.InvTable, mgr.Ctx.Pool, img, mgr.Mem, p.TLB)
	} else {
		pt := vm.NewPageTable(numPages, mgr.Ctx.Pool)
		if lerr := mgr.loadSectionsBasic(pt, img, numPages); lerr != 0 {
			img.Close()
			return lerr
		}
		p.AS = pt
	}

	p.Img = img
	p.NumPages = numPages
	p.InitialPC = initialPC
	p.InitialSP = initialSP
	p.Copier = &vm.Copier{AS: p.AS, Mem: mgr.Mem}

	argvAddr := (numPages - 1) * mem.PGSIZE
	if werr := mgr.writeArgv(p, argvAddr, args); werr != 0 {
		return werr
	}
	p.ArgvAddr = argvAddr
	p.Argc = uint32(len(args))
	return 0
}

/// loadSectionsBasic builds the basic (non-paging) address space:
/// allocate all of the process's frames up front, zero-fill every
/// page, then overwrite section pages from the COFF image and mark
/// read-only sections. Allocation is all-or-nothing: a read failure
/// mid-section unwinds every frame already allocated for this load, so
/// no frame is ever leaked.
func (mgr *Manager) loadSectionsBasic(pt *vm.PageTable, img coff.Executable, numPages uint32) defs.Err_t {
	mgr.Ctx.Disable()
	defer mgr.Ctx.Restore()

	ppns, ok := mgr.Ctx.Pool.AllocN(numPages)
	if !ok {
		return -defs.ENOMEM
	}
	for vpn := uint32(0); vpn < numPages; vpn++ {
		ppn := ppns[vpn]
		mgr.Mem.ZeroPage(ppn)
		pt.Install(vpn, mem.TranslationEntry{Vpn: vpn, Ppn: ppn, Valid: true})
	}
	for i := 0; i < img.NumSections(); i++ {
		s := img.Section(i)
		for pg := uint32(0); pg < s.NumPages; pg++ {
			vpn := s.FirstVPN + pg
			ppn := ppns[vpn]
			if rerr := img.ReadPage(i, pg, mgr.Mem.Page(ppn)); rerr != 0 {
				for _, p := range ppns {
					mgr.Ctx.Pool.Release(p)
				}
				return rerr
			}
			if s.ReadOnly {
				pt.Install(vpn, mem.TranslationEntry{Vpn: vpn, Ppn: ppn, Valid: true, ReadOnly: true})
			}
		}
	}
	return 0
}

/// writeArgv packs the argv pointer array and the strings themselves
/// into a single buffer and writes it to the last page.
func (mgr *Manager) writeArgv(p *Process, argvAddr uint32, args []ustr.Ustr) defs.Err_t {
	header := 4 * len(args)
	total := header
	for _, a := range args {
		total += len(a) + 1
	}
	if total > int(mem.PGSIZE) {
		return -defs.EINVAL
	}
	buf := make([]byte, total)
	strOff := header
	for i, a := range args {
		ptr := argvAddr + uint32(strOff)
		buf[4*i+0] = byte(ptr)
		buf[4*i+1] = byte(ptr >> 8)
		buf[4*i+2] = byte(ptr >> 16)
		buf[4*i+3] = byte(ptr >> 24)
		copy(buf[strOff:], a)
		buf[strOff+len(a)] = 0
		strOff += len(a) + 1
	}
	if n := p.Copier.WriteToUser(argvAddr, buf, 0, len(buf)); n != len(buf) {
		return -defs.EFAULT
	}
	return 0
}
