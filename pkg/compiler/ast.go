package compiler

import (
	"fmt"
	"strings"
)

// NodeType names the kind of an AST node.
type NodeType string

const (
	NodeStatementList NodeType = "statement_list"
	NodeDeclaration   NodeType = "declaration"
	NodeAssignment    NodeType = "assignment"
	NodeIdentifier    NodeType = "identifier"
	NodeNumber        NodeType = "number"
	NodeBinaryOp      NodeType = "binary_op"
	NodeCondition     NodeType = "condition"
	NodeConditional   NodeType = "conditional"
	NodeEOF           NodeType = "eof"
)

// Node is implemented by every AST node.
type Node interface {
	Type() NodeType
	// Value is the node's text payload: a name, a literal or an operator.
	Value() string
	// Children lists the node's sub-trees by semantic role.
	Children() []Child
	String() string
}

// Child is one role-labelled group of sub-nodes.
type Child struct {
	Role  string
	Nodes []Node
}

//  Expression nodes

// Expr is implemented by every node that produces a value.
type Expr interface {
	Node
	exprNode()
}

// Identifier is a read of a named variable.
//
//	x = y;
//	    ^  Identifier{Name: "y"}
type Identifier struct {
	Name string
}

func (*Identifier) exprNode()         {}
func (*Identifier) Type() NodeType    { return NodeIdentifier }
func (i *Identifier) Value() string   { return i.Name }
func (*Identifier) Children() []Child { return nil }
func (i *Identifier) String() string  { return i.Name }

// Number is an integer literal kept as its source text.
type Number struct {
	Literal string
}

func (*Number) exprNode()         {}
func (*Number) Type() NodeType    { return NodeNumber }
func (n *Number) Value() string   { return n.Literal }
func (*Number) Children() []Child { return nil }
func (n *Number) String() string  { return n.Literal }

// BinaryOp represents Left Op Right where Op is "+" or "-".
//
//	a + 1
//	^ ^ ^
//	| | |
//	| | Right
//	| Op
//	Left
type BinaryOp struct {
	Op    string
	Left  Expr
	Right Expr
}

func (*BinaryOp) exprNode()       {}
func (*BinaryOp) Type() NodeType  { return NodeBinaryOp }
func (b *BinaryOp) Value() string { return b.Op }
func (b *BinaryOp) Children() []Child {
	return []Child{
		{Role: "left", Nodes: []Node{b.Left}},
		{Role: "right", Nodes: []Node{b.Right}},
	}
}
func (b *BinaryOp) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left, b.Op, b.Right)
}

// Condition is the Left == Right test of a conditional.
type Condition struct {
	Op    string
	Left  Expr
	Right Expr
}

func (*Condition) Type() NodeType  { return NodeCondition }
func (c *Condition) Value() string { return c.Op }
func (c *Condition) Children() []Child {
	return []Child{
		{Role: "left", Nodes: []Node{c.Left}},
		{Role: "right", Nodes: []Node{c.Right}},
	}
}
func (c *Condition) String() string {
	return fmt.Sprintf("%s %s %s", c.Left, c.Op, c.Right)
}

//  Statement nodes

// Stmt is implemented by every node that can appear in a statement list.
type Stmt interface {
	Node
	stmtNode()
}

// StatementList is a program or the body of a conditional.
type StatementList struct {
	Stmts []Stmt
}

func (*StatementList) stmtNode()      {}
func (*StatementList) Type() NodeType { return NodeStatementList }
func (*StatementList) Value() string  { return "" }
func (s *StatementList) Children() []Child {
	nodes := make([]Node, len(s.Stmts))
	for i, st := range s.Stmts {
		nodes[i] = st
	}
	return []Child{{Role: "statements", Nodes: nodes}}
}
func (s *StatementList) String() string {
	parts := make([]string, len(s.Stmts))
	for i, st := range s.Stmts {
		parts[i] = st.String()
	}
	return strings.Join(parts, " ")
}

// Declaration introduces a variable.
//
//	int x;
//	    ^  Declaration{Name: "x"}
type Declaration struct {
	Name string
}

func (*Declaration) stmtNode()         {}
func (*Declaration) Type() NodeType    { return NodeDeclaration }
func (d *Declaration) Value() string   { return d.Name }
func (*Declaration) Children() []Child { return nil }
func (d *Declaration) String() string  { return fmt.Sprintf("int %s;", d.Name) }

// Assignment stores the value of Expr into the variable Name.
type Assignment struct {
	Name string
	Expr Expr
}

func (*Assignment) stmtNode()       {}
func (*Assignment) Type() NodeType  { return NodeAssignment }
func (a *Assignment) Value() string { return a.Name }
func (a *Assignment) Children() []Child {
	if a.Expr == nil {
		return nil
	}
	return []Child{{Role: "expression", Nodes: []Node{a.Expr}}}
}
func (a *Assignment) String() string { return fmt.Sprintf("%s = %s;", a.Name, a.Expr) }

// Conditional is if (Cond) { Body }.
type Conditional struct {
	Cond *Condition
	Body *StatementList
}

func (*Conditional) stmtNode()      {}
func (*Conditional) Type() NodeType { return NodeConditional }
func (*Conditional) Value() string  { return "" }
func (c *Conditional) Children() []Child {
	return []Child{
		{Role: "condition", Nodes: []Node{c.Cond}},
		{Role: "body", Nodes: []Node{c.Body}},
	}
}
func (c *Conditional) String() string {
	return fmt.Sprintf("if (%s) { %s }", c.Cond, c.Body)
}

// EndOfInput marks the end of the top-level statement list.
type EndOfInput struct{}

func (*EndOfInput) stmtNode()         {}
func (*EndOfInput) Type() NodeType    { return NodeEOF }
func (*EndOfInput) Value() string     { return "" }
func (*EndOfInput) Children() []Child { return nil }
func (*EndOfInput) String() string    { return "<eof>" }
