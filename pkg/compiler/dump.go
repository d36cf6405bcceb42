package compiler

import (
	"fmt"
	"io"
	"strings"

	"github.com/k0kubun/pp/v3"
)

// FormatAST renders n as an indented tree:
//
//	Node Type: assignment
//	Value: x
//	Children: expression
//	  Node Type: number
//	  Value: 5
func FormatAST(n Node) string {
	var sb strings.Builder
	writeNode(&sb, n, 0)
	return sb.String()
}

func writeNode(sb *strings.Builder, n Node, depth int) {
	indent := strings.Repeat(" ", depth)
	if n == nil {
		fmt.Fprintf(sb, "%sNode Type: <nil>\n", indent)
		return
	}
	fmt.Fprintf(sb, "%sNode Type: %s\n", indent, n.Type())
	if v := n.Value(); v != "" {
		fmt.Fprintf(sb, "%sValue: %s\n", indent, v)
	}
	for _, child := range n.Children() {
		fmt.Fprintf(sb, "%sChildren: %s\n", indent, child.Role)
		for _, c := range child.Nodes {
			writeNode(sb, c, depth+2)
		}
	}
}

// FormatTokens renders one token per line.
func FormatTokens(tokens []Token) string {
	var sb strings.Builder
	for _, t := range tokens {
		sb.WriteString(t.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// DumpAST pretty-prints the Go structure of n to w. Colour escapes are
// only used when colour is true.
func DumpAST(w io.Writer, n Node, colour bool) {
	printer := pp.New()
	printer.SetOutput(w)
	printer.SetColoringEnabled(colour)
	printer.Println(n)
}
