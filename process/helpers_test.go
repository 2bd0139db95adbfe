package process

import (
	"github.com/ImperishableMe/Nachos/coff"
	"github.com/ImperishableMe/Nachos/defs"
	"github.com/ImperishableMe/Nachos/kernel"
	"github.com/ImperishableMe/Nachos/machine"
)

// fakeExec is a minimal coff.Executable double with no sections: every
// page of the resulting address space is anonymous (stack + argv
// only), which is enough to exercise exec/join/exit lifecycle mechanics
// without needing real program text.
type fakeExec struct {
	entry  uint32
	closed bool
}

func (f *fakeExec) EntryPoint() uint32                                         { return f.entry }
func (f *fakeExec) NumSections() int                                           { return 0 }
func (f *fakeExec) Section(i int) coff.Section                                 { panic("no sections") }
func (f *fakeExec) ReadPage(i int, pageInSection uint32, dst []byte) defs.Err_t { panic("no sections") }
func (f *fakeExec) Close() error                                                { f.closed = true; return nil }

// newTestManager builds a Manager wired entirely to fakes, for the
// basic (non-paging) address-space variant.
func newTestManager(numPhysPages, stackPages uint32, maxProcs int64) *Manager {
	cfg := kernel.Config{NumPhysPages: numPhysPages, StackPages: stackPages, MaxProcs: maxProcs, ConsoleBufSize: 64, Paging: false, TLBSlots: 4}
	ctx := kernel.NewContext(cfg)
	mm := machine.NewFakeMemory(numPhysPages)
	mgr := NewManager(ctx, mm)
	mgr.NewConsole = func() machine.Console { return machine.NewFakeConsole(cfg.ConsoleBufSize) }
	mgr.NewThread = func() machine.KThread { return machine.NewFakeKThread() }
	mgr.OpenCOFF = func(name string) (coff.Executable, defs.Err_t) { return &fakeExec{}, 0 }
	return mgr
}
