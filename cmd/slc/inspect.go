package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"simplelang/pkg/compiler"
	"simplelang/pkg/utils"
)

func newTokensCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tokens sourceFile",
		Short: "Print the token stream of a source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := utils.ReadSource(args[0])
			if err != nil {
				return err
			}
			tokens := compiler.Lex(src)
			fmt.Fprintf(cmd.OutOrStdout(), "Tokens (%d)\n", len(tokens))
			fmt.Fprint(cmd.OutOrStdout(), compiler.FormatTokens(tokens))
			return nil
		},
	}
}

func newASTCmd() *cobra.Command {
	var usePP bool

	cmd := &cobra.Command{
		Use:   "ast sourceFile",
		Short: "Print the syntax tree of a source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := utils.ReadSource(args[0])
			if err != nil {
				return err
			}
			prog, err := compiler.Parse(compiler.Lex(src), src)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			out := cmd.OutOrStdout()
			if usePP {
				colour := false
				if f, ok := out.(*os.File); ok {
					colour = isatty.IsTerminal(f.Fd())
				}
				compiler.DumpAST(out, prog, colour)
				return nil
			}
			fmt.Fprint(out, compiler.FormatAST(prog))
			return nil
		},
	}

	cmd.Flags().BoolVar(&usePP, "pp", false, "dump the Go structure of the tree instead of the outline")
	return cmd
}
