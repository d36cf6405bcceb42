package compiler

import (
	"fmt"
	"strconv"
)

// Register is one of the machine's two registers.
type Register string

const (
	RegA Register = "A"
	RegB Register = "B"
)

// maxLiteral is the largest value an 8-bit register can hold.
const maxLiteral = 255

// CodeGen walks an AST and emits assembly lines for the A/B machine.
type CodeGen struct {
	syms     *SymbolTable
	labels   *LabelAllocator
	out      []string
	warnings []string
}

func NewCodeGen(syms *SymbolTable, labels *LabelAllocator) *CodeGen {
	if syms == nil {
		syms = NewSymbolTable()
	}
	if labels == nil {
		labels = NewLabelAllocator()
	}
	return &CodeGen{syms: syms, labels: labels}
}

// Generate is a shorthand for NewCodeGen(syms, labels).Generate(prog).
func Generate(prog *StatementList, syms *SymbolTable, labels *LabelAllocator) ([]string, error) {
	return NewCodeGen(syms, labels).Generate(prog)
}

// Warnings returns the non-fatal diagnostics of the last Generate call.
func (cg *CodeGen) Warnings() []string {
	return cg.warnings
}

func (cg *CodeGen) line(format string, args ...any) {
	cg.out = append(cg.out, fmt.Sprintf(format, args...))
}

func (cg *CodeGen) warn(format string, args ...any) {
	cg.warnings = append(cg.warnings, fmt.Sprintf(format, args...))
}

// Generate emits the .data section for top-level declarations, then the
// .text section for every statement, then hlt. On error nothing is returned.
func (cg *CodeGen) Generate(prog *StatementList) ([]string, error) {
	cg.out = nil
	cg.warnings = nil

	if prog == nil {
		return nil, semanticError("", "no program to generate")
	}

	cg.line(".data")
	cg.line("")
	for _, stmt := range prog.Stmts {
		if decl, ok := stmt.(*Declaration); ok {
			if err := cg.genDeclaration(decl); err != nil {
				return nil, err
			}
		}
	}

	cg.line(".text")
	cg.line("")
	for _, stmt := range prog.Stmts {
		if err := cg.genTopLevel(stmt); err != nil {
			return nil, err
		}
	}
	cg.line("hlt")

	return cg.out, nil
}

func (cg *CodeGen) genTopLevel(stmt Stmt) error {
	switch s := stmt.(type) {
	case *Declaration:
		// Emitted in the data phase; from here on the name may be used.
		cg.syms.Reveal(s.Name)
		return nil
	case *Assignment:
		return cg.genAssignment(s)
	case *Conditional:
		return cg.genConditional(s)
	case *EndOfInput:
		return nil
	default:
		return unsupportedError("", "unsupported statement type: %s", stmt.Type())
	}
}

func (cg *CodeGen) genDeclaration(decl *Declaration) error {
	sym, err := cg.syms.Allocate(decl.Name)
	if err != nil {
		return err
	}
	cg.line("%s = %d", sym.Name, sym.Address)
	return nil
}

// genExpression leaves the value of e in reg. Binary operations always
// compute into A using B for the right operand, so they may only target A
// and their right operand must be a plain term.
func (cg *CodeGen) genExpression(e Expr, reg Register) error {
	switch n := e.(type) {
	case *Number:
		value, err := strconv.Atoi(n.Literal)
		if err != nil || value < 0 {
			return semanticError(n.Literal, "invalid number literal '%s'", n.Literal)
		}
		if value > maxLiteral {
			return semanticError(n.Literal, "literal %s does not fit in an 8-bit register", n.Literal)
		}
		cg.line("ldi %s %s", reg, n.Literal)
		return nil

	case *Identifier:
		if _, ok := cg.syms.Lookup(n.Name); !ok {
			return semanticError(n.Name, "undefined variable '%s'", n.Name)
		}
		cg.line("mov %s M %%%s", reg, n.Name)
		return nil

	case *BinaryOp:
		if n.Left == nil || n.Right == nil {
			return semanticError(n.Op, "binary operation '%s' must have a left and a right operand", n.Op)
		}
		if reg != RegA {
			return unsupportedError(n.Op, "binary operation '%s' cannot be computed into register %s", n.Op, reg)
		}
		if _, ok := n.Right.(*BinaryOp); ok {
			return unsupportedError(n.Op, "nested binary operation as right operand of '%s'", n.Op)
		}

		var mnemonic string
		switch n.Op {
		case "+":
			mnemonic = "add"
		case "-":
			mnemonic = "sub"
		default:
			return unsupportedError(n.Op, "unsupported binary operation: %s", n.Op)
		}

		if err := cg.genExpression(n.Left, RegA); err != nil {
			return err
		}
		if err := cg.genExpression(n.Right, RegB); err != nil {
			return err
		}
		cg.line("%s", mnemonic)
		return nil

	case nil:
		return semanticError("", "missing expression")

	default:
		return unsupportedError("", "unsupported expression type: %s", e.Type())
	}
}

func (cg *CodeGen) genAssignment(a *Assignment) error {
	if _, ok := cg.syms.Lookup(a.Name); !ok {
		return semanticError(a.Name, "undefined variable '%s'", a.Name)
	}
	if a.Expr == nil {
		return semanticError(a.Name, "assignment to '%s' has no expression", a.Name)
	}
	if err := cg.genExpression(a.Expr, RegA); err != nil {
		return err
	}
	cg.line("mov M A %%%s", a.Name)
	return nil
}

// genCondition loads the two sides of c into A and B. The comparison itself
// is done by the je that follows.
func (cg *CodeGen) genCondition(c *Condition) error {
	if c == nil {
		return semanticError("", "conditional has no condition")
	}
	if c.Op != "==" {
		return unsupportedError(c.Op, "unsupported condition operation: %s", c.Op)
	}
	if err := cg.genExpression(c.Left, RegA); err != nil {
		return err
	}
	return cg.genExpression(c.Right, RegB)
}

// genConditional lays out:
//
//	<condition>
//	je %if_true_N
//	jmp %if_end_M
//	if_true_N:
//	<body>
//	if_end_M:
func (cg *CodeGen) genConditional(c *Conditional) error {
	trueLabel := cg.labels.New("if_true")
	endLabel := cg.labels.New("if_end")

	if err := cg.genCondition(c.Cond); err != nil {
		return err
	}
	cg.line("je %%%s", trueLabel)
	cg.line("jmp %%%s", endLabel)

	cg.line("%s:", trueLabel)
	if c.Body == nil {
		return semanticError("", "conditional has no body")
	}
	for _, stmt := range c.Body.Stmts {
		switch s := stmt.(type) {
		case *Assignment:
			if err := cg.genAssignment(s); err != nil {
				return err
			}
		case *Declaration:
			cg.warn("declaration of '%s' inside an if body is ignored", s.Name)
		case *Conditional:
			return unsupportedError("if", "nested conditional inside an if body")
		default:
			return unsupportedError("", "unsupported statement type in body: %s", stmt.Type())
		}
	}
	cg.line("%s:", endLabel)
	return nil
}
