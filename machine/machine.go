// Package machine defines the external collaborators this kernel
// treats as out of scope: the simulated processor (registers, TLB
// primitives, physical memory array, exception dispatch, halt) and the
// scheduler's thread primitives (fork, sleep, wake, finish). Everything
// here is an interface the process core calls through; fake.go
// provides the concrete implementation this repo needs to be buildable
// and testable.
package machine

import "github.com/ImperishableMe/Nachos/mem"

/// Registers names the subset of the MIPS register file the process
/// core reads and writes directly.
type Registers struct {
	PC, SP         uint32
	A0, A1, A2, A3 uint32
	V0             uint32
}

/// Memory is the flat simulated physical memory array. It is addressed
/// by physical page number, not by byte address, matching the Frame
/// Pool's unit of allocation.
type Memory interface {
	/// Page returns a mutable view of the bytes backing ppn. The slice
	/// has length mem.PGSIZE.
	Page(ppn uint32) []byte
	/// ZeroPage zero-fills the frame at ppn. Centralizing zero-fill
	/// here (rather than re-zeroing ad hoc at every allocation site)
	/// mirrors the teacher's reusable-zero-page idiom (mem/dmap.go's
	/// Zeropg), adapted to a flat memory model with no direct map.
	ZeroPage(ppn uint32)
}

/// TLB is the small fully-associative, software-refilled translation
/// cache. Slot indices are stable for the lifetime of a process
/// switch; Invalidate clears every slot, the mandatory contract on
/// every context switch.
type TLB interface {
	NumSlots() int
	Read(slot int) mem.TranslationEntry
	Write(slot int, e mem.TranslationEntry)
	Invalidate()
}

/// Console provides the blocking byte streams backing fd 0 (stdin) and
/// fd 1 (stdout). Read blocks until at least one byte is available or
/// the stream is closed; Write blocks until accepted by the consumer.
type Console interface {
	ReadStdin(p []byte) (int, error)
	WriteStdout(p []byte) (int, error)
}

/// Halt stops the simulated processor. It must never return.
type Halt func()

/// KThread is the scheduler's thread handle (fork/sleep/wake/finish),
/// the thread-local "current thread" concept biscuit implements via
/// patched-runtime hooks (runtime.Gptr/Setgptr in tinfo/tinfo.go) that
/// do not exist in stock Go. Here the handle is threaded explicitly
/// instead of fetched from per-goroutine storage.
type KThread interface {
	/// Sleep blocks the calling goroutine until Wake is called on this
	/// same handle. Used only by join; a blocking read from stdin
	/// waits inside Console.ReadStdin instead.
	Sleep()
	/// Wake unblocks a goroutine parked in Sleep. Safe to call before
	/// Sleep (the wake is latched).
	Wake()
	/// Finish marks the calling thread's exit from the scheduler's
	/// point of view. killProcess calls this as its last act.
	Finish()
}
