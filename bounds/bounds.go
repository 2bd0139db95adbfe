// Package bounds names the resource budgets consumed by the kernel's
// bounded per-iteration loops, reconstructed from call-site usage in
// vm/userbuf.go (bounds.Bounds(bounds.B_USERBUF_T__TX) was retrieved
// with no corresponding bounds/*.go source; only the package's go.mod
// survived retrieval). The budget keys here are this repo's own: the
// User-Memory Copy Engine's per-page transfer loop and the Inverted
// Page Table's per-fault translation loop, the two places this kernel
// allows per-iteration resource exhaustion to surface as defs.ENOHEAP
// instead of blocking forever.
package bounds

/// Btype_t identifies a bounded-loop call site.
type Btype_t int

const (
	/// B_COPY_TX bounds the User-Memory Copy Engine's per-page
	/// transfer loop (readFromUser/writeToUser).
	B_COPY_TX Btype_t = iota
	/// B_TRANSLATE bounds the demand-paged TranslateVirtualPage path,
	/// which may allocate a frame and fault in a page.
	B_TRANSLATE
)

/// Budget_t is the reservation request passed to res.Resadd_noblock.
type Budget_t struct {
	Key    Btype_t
	Amount int
}

/// Bounds returns the standard one-unit-per-iteration budget for key.
func Bounds(key Btype_t) Budget_t {
	return Budget_t{Key: key, Amount: 1}
}
