package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"simplelang/pkg/compiler"
	"simplelang/pkg/utils"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "slc",
		Short: "Simple Lang compiler for the A/B register machine",
		Long: `slc compiles Simple Lang programs (integer variables, + and -,
and single-level if statements) into assembly for a two-register machine,
assembles that listing into byte code and can run it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newCompileCmd(),
		newTokensCmd(),
		newASTCmd(),
		newAssembleCmd(),
		newRunCmd(),
		newResumeCmd(),
	)
	return root
}

// compileFile reads and compiles path, reporting warnings on errOut.
func compileFile(path string, errOut io.Writer) (*compiler.Result, error) {
	src, err := utils.ReadSource(path)
	if err != nil {
		return nil, err
	}
	res, err := compiler.Compile(src)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	for _, w := range res.Warnings {
		fmt.Fprintf(errOut, "warning: %s: %s\n", path, w)
	}
	return res, nil
}
