package compiler

import (
	"fmt"
	"strings"

	"simplelang/pkg/asm"
)

// Result carries every stage of a successful compilation.
type Result struct {
	Tokens   []Token
	Program  *StatementList
	Symbols  []Symbol
	Lines    []string
	Warnings []string

	// Code is the assembled byte code and SourceMap maps each instruction
	// offset in Code to its 1-based line in Assembly().
	Code      []byte
	SourceMap map[uint16]int
}

// Assembly returns the listing as text, one line per entry plus a final newline.
func (r *Result) Assembly() string {
	return strings.Join(r.Lines, "\n") + "\n"
}

// Compiler runs the whole pipeline. Labels come from one allocator for the
// lifetime of the Compiler, so successive compilations never reuse a label.
type Compiler struct {
	labels *LabelAllocator
}

func NewCompiler() *Compiler {
	return &Compiler{labels: NewLabelAllocator()}
}

// Compile lexes, parses, generates and assembles src with a fresh label
// allocator: the first conditional is always if_true_0 / if_end_1.
func Compile(src string) (*Result, error) {
	return NewCompiler().Compile(src)
}

func (c *Compiler) Compile(src string) (*Result, error) {
	tokens := Lex(src)

	prog, err := Parse(tokens, src)
	if err != nil {
		return nil, err
	}

	syms := NewSymbolTable()
	gen := NewCodeGen(syms, c.labels)
	lines, err := gen.Generate(prog)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Tokens:   tokens,
		Program:  prog,
		Symbols:  syms.Symbols(),
		Lines:    lines,
		Warnings: gen.Warnings(),
	}

	code, sourceMap, err := asm.Assemble(res.Assembly())
	if err != nil {
		return nil, fmt.Errorf("assembly error: %w", err)
	}
	res.Code = code
	res.SourceMap = sourceMap

	return res, nil
}
