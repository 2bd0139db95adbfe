package mem

/// TranslationEntry is a MIPS software-managed TLB entry. The same
/// struct backs a per-process page table entry (vm package), a TLB
/// slot (machine package), and an inverted page table entry (invpt
/// package); their fields mean the same thing in each role.
type TranslationEntry struct {
	Vpn      uint32
	Ppn      uint32
	Valid    bool
	ReadOnly bool
	Used     bool
	Dirty    bool
}
