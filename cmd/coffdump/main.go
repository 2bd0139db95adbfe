// Command coffdump prints the section layout of a Nachos-style COFF
// executable. Adapted from kernel/chentry.go (which patched an ELF
// entry point via debug/elf + encoding/binary): same small
// command-line-tool shape and the same reliance on encoding/binary for
// header parsing, pointed at this repo's coff package instead of ELF.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ImperishableMe/Nachos/coff"
	"github.com/ImperishableMe/Nachos/mem"
)

func usage(me string) {
	fmt.Printf("%s <filename>\n\nPrint the section layout of a COFF executable.\n", me)
	os.Exit(1)
}

func main() {
	if len(os.Args) != 2 {
		usage(os.Args[0])
	}
	f, errt := coff.Open(os.Args[1], mem.PGSIZE)
	if errt != 0 {
		log.Fatalf("open %s: %s", os.Args[1], errt)
	}
	defer f.Close()

	fmt.Printf("entry point: 0x%08x\n", f.EntryPoint())
	for i := 0; i < f.NumSections(); i++ {
		s := f.Section(i)
		fmt.Printf("section %d: firstVPN=%d numPages=%d readOnly=%v\n",
			i, s.FirstVPN, s.NumPages, s.ReadOnly)
	}
}
