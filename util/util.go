// Package util contains helper functions used across the kernel.
//
// Trimmed from the teacher's util/util.go: Rounddown/Roundup (byte-range
// to block/page alignment for the block cache and mmap) and Readn/Writen
// (unsafe fixed-width field access into a raw byte slice, used by the
// teacher's on-disk inode and directory-entry formats) have no call site
// here. The only "decode a byte layout" need is coff.go's COFF header,
// which already goes through encoding/binary, and every page-granular
// size in this kernel (numPages, argv's single page) is exact by
// construction rather than needing alignment. Min is kept: the copy
// engine's per-page chunk length is exactly min(bytes left in this
// page, bytes left in the transfer).
package util

// Int is satisfied by all built-in integer types.
type Int interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Min returns the smaller of a and b.
func Min[T Int](a, b T) T {
	if a < b {
		return a
	}
	return b
}
