package caller

import "testing"

func TestDistinctDisabledByDefault(t *testing.T) {
	var dc Distinct_caller_t
	if ok, _ := dc.Distinct(); ok {
		t.Fatalf("Distinct() reported a new call chain while Enabled is false")
	}
	if dc.Len() != 0 {
		t.Fatalf("Len() = %d on a disabled tracker; want 0", dc.Len())
	}
}

func TestDistinctDedupsSameCallChain(t *testing.T) {
	var dc Distinct_caller_t
	dc.Enabled = true

	seenFirst := func() bool { ok, _ := dc.Distinct(); return ok }
	// Both calls go through one call site, so the chain of ancestor
	// callers is identical each time.
	var seen [2]bool
	for i := range seen {
		seen[i] = seenFirst()
	}
	if !seen[0] {
		t.Fatalf("first call from a never-seen chain reported not-distinct")
	}
	if seen[1] {
		t.Fatalf("second call from the same chain reported distinct again")
	}
	if dc.Len() != 1 {
		t.Fatalf("Len() = %d after one distinct chain; want 1", dc.Len())
	}
}

func TestDistinctWhitelistSuppressesReporting(t *testing.T) {
	var dc Distinct_caller_t
	dc.Enabled = true
	dc.Whitel = map[string]bool{"testing.tRunner": true}

	if ok, _ := dc.Distinct(); ok {
		t.Fatalf("Distinct() reported true for a whitelisted caller chain")
	}
	if dc.Len() != 1 {
		t.Fatalf("Len() = %d after a whitelisted call; want 1 (the chain is still recorded as seen)", dc.Len())
	}
}
