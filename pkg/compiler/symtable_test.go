package compiler

import (
	"errors"
	"strings"
	"testing"
)

func TestSymbolTableAllocate(t *testing.T) {
	st := NewSymbolTable()

	for i, name := range []string{"a", "b", "c"} {
		sym, err := st.Allocate(name)
		if err != nil {
			t.Fatalf("Allocate(%q) failed: %v", name, err)
		}
		if want := DataTop - i*DataStride; sym.Address != want {
			t.Errorf("%s: address = %d, want %d", name, sym.Address, want)
		}
	}
	if got := st.NextAddress(); got != 249 {
		t.Errorf("NextAddress() = %d, want 249", got)
	}

	syms := st.Symbols()
	if len(syms) != 3 || syms[0].Name != "a" || syms[2].Name != "c" {
		t.Errorf("Symbols() not in declaration order: %v", syms)
	}
}

func TestSymbolTableVisibility(t *testing.T) {
	st := NewSymbolTable()
	if _, err := st.Allocate("x"); err != nil {
		t.Fatal(err)
	}

	if _, ok := st.Lookup("x"); ok {
		t.Error("x visible before Reveal")
	}
	st.Reveal("x")
	sym, ok := st.Lookup("x")
	if !ok {
		t.Fatal("x not visible after Reveal")
	}
	if sym.Address != 255 {
		t.Errorf("x address = %d, want 255", sym.Address)
	}

	st.Reveal("missing")
	if _, ok := st.Lookup("missing"); ok {
		t.Error("Reveal created an unallocated symbol")
	}
}

func TestSymbolTableErrors(t *testing.T) {
	st := NewSymbolTable()
	if _, err := st.Allocate("x"); err != nil {
		t.Fatal(err)
	}

	_, err := st.Allocate("x")
	if !errors.Is(err, ErrSemantic) || !strings.Contains(err.Error(), "already declared") {
		t.Errorf("redeclaration: got %v", err)
	}

	_, err = st.Allocate("")
	if !errors.Is(err, ErrSemantic) {
		t.Errorf("empty name: got %v", err)
	}
}

func TestSymbolTableExhaustion(t *testing.T) {
	st := NewSymbolTable()
	// 255, 253, ..., 1 is 128 slots.
	for i := 0; i < 128; i++ {
		if _, err := st.Allocate(varName(i)); err != nil {
			t.Fatalf("allocation %d failed: %v", i, err)
		}
	}
	if got := st.NextAddress(); got != -1 {
		t.Fatalf("NextAddress() = %d, want -1", got)
	}

	_, err := st.Allocate("overflow")
	if !errors.Is(err, ErrSemantic) || !strings.Contains(err.Error(), "data segment exhausted") {
		t.Errorf("exhaustion: got %v", err)
	}
}

func TestSymbolTableString(t *testing.T) {
	st := NewSymbolTable()
	st.Allocate("count")
	got := st.String()
	if !strings.HasPrefix(got, "Symbol Table\n") || !strings.Contains(got, "count") || !strings.Contains(got, "255") {
		t.Errorf("String() = %q", got)
	}
}

// varName returns a distinct letters-only identifier for i.
func varName(i int) string {
	name := "v"
	for {
		name += string(rune('a' + i%26))
		i /= 26
		if i == 0 {
			return name
		}
	}
}
