package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"simplelang/pkg/asm"
	"simplelang/pkg/compiler"
	"simplelang/pkg/cpu"
	"simplelang/pkg/utils"
)

func newAssembleCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "assemble asmFile",
		Short: "Assemble an A/B machine listing into byte code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := args[0]
			source, err := utils.ReadSource(in)
			if err != nil {
				return err
			}
			code, _, err := asm.Assemble(source)
			if err != nil {
				return fmt.Errorf("assembly failed: %w", err)
			}

			output := outPath
			if output == "" {
				output = utils.OutputPath(in, ".bin")
			}
			if err := writeBinary(output, code); err != nil {
				return fmt.Errorf("failed to write binary file %q: %w", output, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "assembled %d bytes -> %s\n", len(code), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output binary path (default: input with .bin extension)")
	return cmd
}

func newRunCmd() *cobra.Command {
	var (
		maxSteps int
		trace    bool
		snapshot string
	)

	cmd := &cobra.Command{
		Use:   "run file",
		Short: "Run a Simple Lang source file or an assembled .bin file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			out := cmd.OutOrStdout()

			var (
				code    []byte
				symbols []compiler.Symbol
			)
			if filepath.Ext(path) == ".bin" {
				data, err := readBinary(path)
				if err != nil {
					return err
				}
				code = data
			} else {
				res, err := compileFile(path, cmd.ErrOrStderr())
				if err != nil {
					return err
				}
				code, symbols = res.Code, res.Symbols
			}

			var traceOut io.Writer
			if trace {
				traceOut = out
			}
			vm := cpu.NewCPU()
			if err := vm.Load(code); err != nil {
				return err
			}
			vm.Trace = traceOut

			runErr := runMachine(vm, maxSteps)
			if snapshot != "" {
				if err := vm.HibernateToFile(snapshot); err != nil {
					return fmt.Errorf("failed to write snapshot %q: %w", snapshot, err)
				}
				fmt.Fprintf(out, "snapshot -> %s\n", snapshot)
			}
			if runErr != nil {
				return fmt.Errorf("run failed for %q: %w", path, runErr)
			}

			printMachine(out, path, vm, symbols)
			return nil
		},
	}

	cmd.Flags().IntVar(&maxSteps, "max-steps", 100000, "give up after this many instructions")
	cmd.Flags().BoolVar(&trace, "trace", false, "print one line per executed instruction")
	cmd.Flags().StringVar(&snapshot, "snapshot", "", "write the final machine state to this archive")
	return cmd
}

func newResumeCmd() *cobra.Command {
	var maxSteps int

	cmd := &cobra.Command{
		Use:   "resume snapshotFile",
		Short: "Continue running a machine saved with run --snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vm := cpu.NewCPU()
			if err := vm.RestoreFromFile(args[0]); err != nil {
				return fmt.Errorf("restore %q: %w", args[0], err)
			}
			if err := runMachine(vm, maxSteps); err != nil {
				return fmt.Errorf("resume failed for %q: %w", args[0], err)
			}
			printMachine(cmd.OutOrStdout(), args[0], vm, nil)
			return nil
		},
	}

	cmd.Flags().IntVar(&maxSteps, "max-steps", 100000, "give up after this many further instructions")
	return cmd
}

func printMachine(out io.Writer, path string, vm *cpu.CPU, symbols []compiler.Symbol) {
	fmt.Fprintf(out, "run complete (%s): steps=%d PC=0x%04X A=%d B=%d\n",
		path, vm.Steps, vm.PC, vm.Regs[cpu.RegA], vm.Regs[cpu.RegB])
	for _, sym := range symbols {
		fmt.Fprintf(out, "  %-12s [%3d] = %d\n", sym.Name, sym.Address, vm.Memory[sym.Address])
	}
}

func writeBinary(path string, data []byte) error {
	return os.WriteFile(path, data, 0o644)
}

func readBinary(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// runMachine runs vm to hlt or until maxSteps instructions have executed.
func runMachine(vm *cpu.CPU, maxSteps int) error {
	if err := vm.RunLimit(maxSteps); err != nil {
		if errors.Is(err, cpu.ErrStepLimit) {
			return fmt.Errorf("no hlt within %d steps: %w", maxSteps, err)
		}
		return err
	}
	return nil
}
