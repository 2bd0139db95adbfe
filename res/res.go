// Package res is the resource-accounting counterpart to bounds,
// reconstructed from call-site usage in vm/userbuf.go
// (res.Resadd_noblock(bounds.Bounds(...))). res's own source was not
// retrieved, only its go.mod. biscuit uses this hook to fail a bounded
// loop with -defs.ENOHEAP rather than block when the kernel's heap
// budget is exhausted; this repo has no separate kernel heap budget
// (the only bounded resource is the Frame Pool, which already reports
// exhaustion on its own Alloc/AllocN path), so Resadd_noblock here is a
// thin, effectively-unlimited accounting layer kept for the idiom: a
// resource-bounded loop always checks forward progress before each
// iteration, so tests can inject exhaustion (SetLimit) without
// threading a fake frame pool through every call site.
package res

import (
	"sync"
	"sync/atomic"

	"github.com/ImperishableMe/Nachos/bounds"
)

var (
	mu    sync.Mutex
	limit int64 = -1 // -1 means unlimited
	used  int64
)

/// SetLimit bounds the total number of reservations Resadd_noblock will
/// grant before refusing; n < 0 removes the limit. Test-only knob for
/// exercising the ENOHEAP path deterministically.
func SetLimit(n int64) {
	mu.Lock()
	defer mu.Unlock()
	limit = n
	used = 0
}

/// Resadd_noblock reserves b.Amount units of the named budget without
/// blocking, returning false if doing so would exceed the configured
/// limit.
func Resadd_noblock(b bounds.Budget_t) bool {
	mu.Lock()
	l := limit
	mu.Unlock()
	if l < 0 {
		return true
	}
	n := atomic.AddInt64(&used, int64(b.Amount))
	return n <= l
}
