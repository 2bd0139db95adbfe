// Package coff implements the image loader's executable-format reader.
// The host filesystem and executable format are external collaborators
// consumed via interfaces only; Executable is that interface. A
// concrete implementation is provided here (File) because a complete,
// testable repository needs something real behind the boundary to load
// in tests. Its wire format is standard pedagogical Nachos COFF (a
// small fixed header, N contiguous section headers, each naming a
// first VPN, page count, and read-only flag), implemented fresh with
// encoding/binary in the same struct-read style as kernel/chentry.go's
// ELF header patching, not translated from any retrieved source.
package coff

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/ImperishableMe/Nachos/defs"
)

/// magic identifies this repo's COFF-like executable format.
const magic uint32 = 0x4e4f4646 // "NOFF"

/// Section describes one contiguous range of virtual pages backed by
/// file content.
type Section struct {
	FirstVPN uint32
	NumPages uint32
	ReadOnly bool

	fileOffset uint32
	byteSize   uint32
}

/// Executable is the external COFF reader interface the Image Loader
/// consumes.
type Executable interface {
	EntryPoint() uint32
	NumSections() int
	Section(i int) Section
	/// ReadPage copies the initialized content of the pageInSection'th
	/// page of section i into dst (len(dst) == pageSize); any bytes
	/// beyond the section's byte length are zero-filled, matching a
	/// .bss-style tail within the last page of a section.
	ReadPage(i int, pageInSection uint32, dst []byte) defs.Err_t
	/// Close releases the underlying file.
	Close() error
}

type fileHeader struct {
	Magic       uint32
	EntryPoint  uint32
	NumSections uint32
}

type sectionHeader struct {
	FirstVPN   uint32
	NumPages   uint32
	ReadOnly   uint32
	FileOffset uint32
	ByteSize   uint32
}

/// File is the concrete Executable backed by an *os.File.
type File struct {
	f          *os.File
	entryPoint uint32
	sections   []Section
}

/// Open parses the COFF header and validates section contiguity:
/// missing file is defs.ENOENT, a malformed header or non-contiguous
/// sections is defs.EINVAL.
func Open(path string, pageSize uint32) (*File, defs.Err_t) {
	f, err := os.Open(path)
	if err != nil {
		return nil, -defs.ENOENT
	}
	var hdr fileHeader
	if err := binary.Read(f, binary.LittleEndian, &hdr); err != nil {
		f.Close()
		return nil, -defs.EINVAL
	}
	if hdr.Magic != magic {
		f.Close()
		return nil, -defs.EINVAL
	}
	sections := make([]Section, 0, hdr.NumSections)
	cumulative := uint32(0)
	for i := uint32(0); i < hdr.NumSections; i++ {
		var sh sectionHeader
		if err := binary.Read(f, binary.LittleEndian, &sh); err != nil {
			f.Close()
			return nil, -defs.EINVAL
		}
		if sh.FirstVPN != cumulative {
			f.Close()
			return nil, -defs.EINVAL // fragmented executable
		}
		sections = append(sections, Section{
			FirstVPN:   sh.FirstVPN,
			NumPages:   sh.NumPages,
			ReadOnly:   sh.ReadOnly != 0,
			fileOffset: sh.FileOffset,
			byteSize:   sh.ByteSize,
		})
		cumulative += sh.NumPages
	}
	return &File{f: f, entryPoint: hdr.EntryPoint, sections: sections}, 0
}

func (e *File) EntryPoint() uint32  { return e.entryPoint }
func (e *File) NumSections() int    { return len(e.sections) }
func (e *File) Section(i int) Section { return e.sections[i] }

func (e *File) ReadPage(i int, pageInSection uint32, dst []byte) defs.Err_t {
	if i < 0 || i >= len(e.sections) {
		return -defs.EINVAL
	}
	s := e.sections[i]
	pageByteStart := pageInSection * uint32(len(dst))
	for j := range dst {
		dst[j] = 0
	}
	if pageByteStart >= s.byteSize {
		return 0 // wholly within the .bss-style zero tail
	}
	off := int64(s.fileOffset) + int64(pageByteStart)
	n := s.byteSize - pageByteStart
	if n > uint32(len(dst)) {
		n = uint32(len(dst))
	}
	if _, err := e.f.Seek(off, io.SeekStart); err != nil {
		return -defs.EFAULT
	}
	if _, err := io.ReadFull(e.f, dst[:n]); err != nil && err != io.ErrUnexpectedEOF {
		return -defs.EFAULT
	}
	return 0
}

func (e *File) Close() error { return e.f.Close() }

/// WriteFile is a small authoring helper used by tests to build a
/// synthetic executable, mirroring kernel/chentry.go's
/// use of encoding/binary to write a patched header back out.
func WriteFile(path string, entryPoint uint32, sections []Section, data [][]byte) error {
	if len(sections) != len(data) {
		return fmt.Errorf("coff: %d sections but %d data blocks", len(sections), len(data))
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	hdr := fileHeader{Magic: magic, EntryPoint: entryPoint, NumSections: uint32(len(sections))}
	if err := binary.Write(f, binary.LittleEndian, &hdr); err != nil {
		return err
	}
	offset := uint32(12 + 20*len(sections))
	headers := make([]sectionHeader, len(sections))
	for i, s := range sections {
		ro := uint32(0)
		if s.ReadOnly {
			ro = 1
		}
		headers[i] = sectionHeader{
			FirstVPN: s.FirstVPN, NumPages: s.NumPages, ReadOnly: ro,
			FileOffset: offset, ByteSize: uint32(len(data[i])),
		}
		offset += uint32(len(data[i]))
	}
	for _, h := range headers {
		if err := binary.Write(f, binary.LittleEndian, &h); err != nil {
			return err
		}
	}
	for _, d := range data {
		if _, err := f.Write(d); err != nil {
			return err
		}
	}
	return nil
}
