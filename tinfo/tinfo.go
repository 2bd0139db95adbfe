// Package tinfo tracks per-process thread liveness, adapted from
// tinfo/tinfo.go: Tnote_t and Threadinfo_t are kept as a live-process
// registry for the Debug channel; Current/SetCurrent/ClearCurrent are
// dropped, since they exist only to read a goroutine-local pointer out
// of the runtime's g struct via the patched-runtime hooks
// runtime.Gptr/Setgptr, which stock Go has no equivalent for. The
// original Killnaps/Doom machinery (parking a blocked thread so an
// external killer can wake it) is dropped too: every process in this
// ABI has exactly one kernel-side thread, and that thread is always
// the one that either calls exit() or takes the fault that kills it.
// Nothing ever kills a thread from outside while it sleeps, so there
// is no doomed thread to wake. In this repo a Tnote_t is instead held
// directly as a field on process.Process and passed explicitly to
// whatever needs it, rather than fetched from a goroutine-local slot.
package tinfo

import (
	"sync"

	"github.com/ImperishableMe/Nachos/defs"
)

/// Tnote_t records whether one process's kernel-side thread is still
/// alive.
type Tnote_t struct {
	mu    sync.Mutex
	alive bool
}

/// MkTnote allocates a fresh, live thread note.
func MkTnote() *Tnote_t {
	return &Tnote_t{alive: true}
}

/// Alive reports whether the thread is still alive.
func (t *Tnote_t) Alive() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.alive
}

/// MarkDead records that the thread has finished.
func (t *Tnote_t) MarkDead() {
	t.mu.Lock()
	t.alive = false
	t.mu.Unlock()
}

/// Threadinfo_t tracks every live process's thread note, keyed by pid:
/// a debug-introspection registry, not a scheduling structure.
type Threadinfo_t struct {
	mu    sync.Mutex
	Notes map[defs.Pid_t]*Tnote_t
}

/// Init initializes the thread-info table.
func (t *Threadinfo_t) Init() {
	t.mu.Lock()
	t.Notes = make(map[defs.Pid_t]*Tnote_t)
	t.mu.Unlock()
}

/// Put registers note under pid.
func (t *Threadinfo_t) Put(pid defs.Pid_t, note *Tnote_t) {
	t.mu.Lock()
	t.Notes[pid] = note
	t.mu.Unlock()
}

/// Get looks up the thread note for pid.
func (t *Threadinfo_t) Get(pid defs.Pid_t) (*Tnote_t, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	n, ok := t.Notes[pid]
	return n, ok
}

/// Del removes pid's thread note.
func (t *Threadinfo_t) Del(pid defs.Pid_t) {
	t.mu.Lock()
	delete(t.Notes, pid)
	t.mu.Unlock()
}

/// Len reports how many threads are currently registered.
func (t *Threadinfo_t) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.Notes)
}
