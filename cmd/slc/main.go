// Command slc is the Simple Lang compiler driver.
//
//	slc compile prog.sl            writes prog.asm
//	slc compile prog.sl --bin      also writes prog.bin
//	slc tokens prog.sl             prints the token stream
//	slc ast prog.sl [--pp]         prints the syntax tree
//	slc assemble prog.asm          writes prog.bin
//	slc run prog.sl|prog.bin       executes on the A/B machine
//	slc resume state.zip           continues a machine saved with run --snapshot
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
