package compiler

import (
	"fmt"
	"strings"
)

const (
	// DataTop is the address given to the first declared variable.
	DataTop = 255
	// DataStride is how far each declaration moves the address counter down.
	DataStride = 2
)

type Symbol struct {
	Name    string
	Address int
	// Visible is false until the text phase reaches the declaration.
	Visible bool
}

// SymbolTable maps variable names to data-segment addresses. It is flat:
// the language has no scopes. Addresses are handed out from DataTop downwards.
type SymbolTable struct {
	symbols map[string]*Symbol
	order   []string
	next    int
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		symbols: make(map[string]*Symbol),
		next:    DataTop,
	}
}

// Allocate reserves the next address for name.
func (s *SymbolTable) Allocate(name string) (Symbol, error) {
	if name == "" {
		return Symbol{}, semanticError(name, "invalid declaration: no variable name")
	}
	if _, exists := s.symbols[name]; exists {
		return Symbol{}, semanticError(name, "variable '%s' is already declared", name)
	}
	if s.next < 0 {
		return Symbol{}, semanticError(name, "data segment exhausted: no address left for '%s'", name)
	}

	sym := &Symbol{Name: name, Address: s.next}
	s.symbols[name] = sym
	s.order = append(s.order, name)
	s.next -= DataStride
	return *sym, nil
}

// Reveal makes an allocated symbol visible to later statements.
func (s *SymbolTable) Reveal(name string) {
	if sym, ok := s.symbols[name]; ok {
		sym.Visible = true
	}
}

// Lookup returns the symbol for name if it is allocated and visible.
func (s *SymbolTable) Lookup(name string) (Symbol, bool) {
	sym, ok := s.symbols[name]
	if !ok || !sym.Visible {
		return Symbol{}, false
	}
	return *sym, true
}

// Symbols returns every allocated symbol in declaration order.
func (s *SymbolTable) Symbols() []Symbol {
	out := make([]Symbol, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, *s.symbols[name])
	}
	return out
}

// NextAddress is the address the next declaration will receive.
func (s *SymbolTable) NextAddress() int {
	return s.next
}

func (s *SymbolTable) String() string {
	var sb strings.Builder
	sb.WriteString("Symbol Table\n")
	for _, sym := range s.Symbols() {
		fmt.Fprintf(&sb, "  %-12s %3d\n", sym.Name, sym.Address)
	}
	return sb.String()
}
