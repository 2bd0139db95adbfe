package machine

import (
	"sync"

	"github.com/ImperishableMe/Nachos/mem"
)

/// FakeMemory is an in-process implementation of Memory over a single
/// contiguous byte slice, indexed by physical page number. It is the
/// concrete Memory this repo's tests (and a standalone run) use in
/// place of the real simulated processor's physical memory array.
type FakeMemory struct {
	pages [][]byte
}

/// NewFakeMemory allocates numPhysPages frames of mem.PGSIZE bytes each.
func NewFakeMemory(numPhysPages uint32) *FakeMemory {
	fm := &FakeMemory{pages: make([][]byte, numPhysPages)}
	for i := range fm.pages {
		fm.pages[i] = make([]byte, mem.PGSIZE)
	}
	return fm
}

func (fm *FakeMemory) Page(ppn uint32) []byte {
	return fm.pages[ppn]
}

func (fm *FakeMemory) ZeroPage(ppn uint32) {
	p := fm.pages[ppn]
	for i := range p {
		p[i] = 0
	}
}

/// FakeTLB is a fixed-size slot array implementation of TLB.
type FakeTLB struct {
	slots []mem.TranslationEntry
}

/// NewFakeTLB builds a TLB with n slots, all initially invalid.
func NewFakeTLB(n int) *FakeTLB {
	return &FakeTLB{slots: make([]mem.TranslationEntry, n)}
}

func (t *FakeTLB) NumSlots() int { return len(t.slots) }

func (t *FakeTLB) Read(slot int) mem.TranslationEntry { return t.slots[slot] }

func (t *FakeTLB) Write(slot int, e mem.TranslationEntry) { t.slots[slot] = e }

func (t *FakeTLB) Invalidate() {
	for i := range t.slots {
		t.slots[i] = mem.TranslationEntry{}
	}
}

/// FakeKThread implements KThread with a stock sync.Cond, replacing
/// biscuit's patched-runtime thread-local handle (tinfo/tinfo.go). The
/// wake is latched via the woken flag so a Wake racing ahead of Sleep
/// is not lost, matching the teacher's Killnaps.Cond pattern in spirit.
type FakeKThread struct {
	mu     sync.Mutex
	cond   *sync.Cond
	woken  bool
	finished bool
}

/// NewFakeKThread constructs a ready-to-use thread handle.
func NewFakeKThread() *FakeKThread {
	t := &FakeKThread{}
	t.cond = sync.NewCond(&t.mu)
	return t
}

func (t *FakeKThread) Sleep() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for !t.woken {
		t.cond.Wait()
	}
	t.woken = false
}

func (t *FakeKThread) Wake() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.woken = true
	t.cond.Signal()
}

func (t *FakeKThread) Finish() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.finished = true
}
