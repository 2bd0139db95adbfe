// Package accnt tracks per-process CPU-time accounting, giving each
// process table entry a notion of elapsed runtime so the kernel's
// per-process debug stats mean something. Adapted from accnt/accnt.go:
// Accnt_t's Userns/Sysns counters, Utadd/Systadd, and Add (merging a
// child's usage into its parent on exit, the way a real wait4/rusage
// would) are kept; Io_time/Sleep_time and the rusage-byte-encoding
// export (Fetch/To_rusage) are dropped, since this core's syscall ABI
// has no getrusage-style call and no separate I/O-wait accounting.
// Time blocked on a console read is simply not counted as system time
// here.
package accnt

import (
	"sync"
	"sync/atomic"
	"time"
)

/// Accnt_t accumulates one process's CPU-time usage. Userns/Sysns are
/// nanosecond counters; the embedded mutex lets Add take a consistent
/// snapshot when merging a child's usage into its parent.
type Accnt_t struct {
	Userns int64
	Sysns  int64
	sync.Mutex
}

/// Utadd adds delta nanoseconds to the user-time counter.
func (a *Accnt_t) Utadd(delta int) {
	atomic.AddInt64(&a.Userns, int64(delta))
}

/// Systadd adds delta nanoseconds to the system-time counter.
func (a *Accnt_t) Systadd(delta int) {
	atomic.AddInt64(&a.Sysns, int64(delta))
}

/// Now returns the current time in nanoseconds since the Unix epoch.
func (a *Accnt_t) Now() int {
	return int(time.Now().UnixNano())
}

/// Finish adds the system time elapsed since inttime to the counter,
/// called once when a process exits to account for its final slice.
func (a *Accnt_t) Finish(inttime int) {
	a.Systadd(a.Now() - inttime)
}

/// Add merges a child's usage into this (the parent's) record, the way
/// killProcess folds an exiting child's accounting into its parent
/// before the child's Process struct is discarded.
func (a *Accnt_t) Add(n *Accnt_t) {
	n.Lock()
	cu, cs := n.Userns, n.Sysns
	n.Unlock()
	a.Lock()
	a.Userns += cu
	a.Sysns += cs
	a.Unlock()
}
