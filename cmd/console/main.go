package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"simplelang/pkg/compiler"
	"simplelang/pkg/cpu"
	"simplelang/pkg/utils"
)

func main() {
	showAsm := flag.Bool("show-asm", false, "print the generated assembly before running")
	trace := flag.Bool("trace", false, "print one line per executed instruction")
	maxSteps := flag.Int("max-steps", 100000, "stop after this many instructions (0 = no limit)")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: console [-show-asm] [-trace] [-max-steps n] <file.sl>")
		os.Exit(2)
	}

	fullPath, _, err := utils.GetPathInfo(flag.Arg(0))
	if err != nil {
		log.Fatalf("Failed to resolve path: %v", err)
	}
	source, err := utils.ReadSource(fullPath)
	if err != nil {
		log.Fatalf("Failed to read source file: %v", err)
	}

	fmt.Println("Compiling source file:", fullPath)

	res, err := compiler.Compile(source)
	if err != nil {
		log.Fatalf("Compilation failed: %v", err)
	}
	for _, w := range res.Warnings {
		fmt.Fprintln(os.Stderr, "warning:", w)
	}

	if *showAsm {
		fmt.Print("Generated Assembly:\n", res.Assembly())
	}

	vm := cpu.NewCPU()
	if err := vm.Load(res.Code); err != nil {
		log.Fatalf("Load failed: %v", err)
	}
	if *trace {
		vm.Trace = os.Stdout
	}

	if *maxSteps > 0 {
		if err := vm.RunLimit(*maxSteps); errors.Is(err, cpu.ErrStepLimit) {
			log.Fatalf("Program did not halt within %d steps", *maxSteps)
		}
	} else {
		vm.Run()
	}
	if vm.Fault != nil {
		log.Fatalf("Machine fault: %v", vm.Fault)
	}

	fmt.Printf("halted after %d steps: PC=0x%04X A=%d B=%d\n", vm.Steps, vm.PC, vm.Regs[cpu.RegA], vm.Regs[cpu.RegB])
	for _, sym := range res.Symbols {
		fmt.Printf("  %-12s [%3d] = %d\n", sym.Name, sym.Address, vm.Memory[sym.Address])
	}
}
