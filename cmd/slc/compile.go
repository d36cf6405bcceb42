package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"simplelang/pkg/utils"
)

func newCompileCmd() *cobra.Command {
	var (
		outPath  string
		toStdout bool
		withBin  bool
	)

	cmd := &cobra.Command{
		Use:   "compile sourceFile",
		Short: "Compile a Simple Lang file to assembly",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := args[0]
			res, err := compileFile(in, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			if toStdout {
				fmt.Fprint(cmd.OutOrStdout(), res.Assembly())
				return nil
			}

			output := outPath
			if output == "" {
				output = utils.OutputPath(in, ".asm")
			}
			if err := os.WriteFile(output, []byte(res.Assembly()), 0o644); err != nil {
				return fmt.Errorf("failed to write assembly file %q: %w", output, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "compiled %d lines -> %s\n", len(res.Lines), output)

			if withBin {
				binPath := utils.OutputPath(output, ".bin")
				if err := writeBinary(binPath, res.Code); err != nil {
					return fmt.Errorf("failed to write binary file %q: %w", binPath, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "assembled %d bytes -> %s\n", len(res.Code), binPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output assembly path (default: input with .asm extension)")
	cmd.Flags().BoolVar(&toStdout, "stdout", false, "print the assembly instead of writing a file")
	cmd.Flags().BoolVar(&withBin, "bin", false, "also write the assembled byte code next to the assembly")
	return cmd
}
