package main

import (
	"simplelang/pkg/compiler"
	"testing"
)

func TestViewerStepping(t *testing.T) {
	res, err := compiler.Compile("int x;\nx = 5;\n")
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	v, err := NewViewer(res)
	if err != nil {
		t.Fatalf("NewViewer failed: %v", err)
	}
	if v.vars[255] != "x" {
		t.Errorf("vars = %v, want x at 255", v.vars)
	}

	// ldi A 5 is line 6 of the listing.
	if got := v.CurrentLine(); got != 6 {
		t.Errorf("CurrentLine() = %d, want 6", got)
	}
	v.Step()
	if got := v.CurrentLine(); got != 7 {
		t.Errorf("after one step CurrentLine() = %d, want 7", got)
	}

	v.RunBurst(100)
	if v.Status() != "halted" {
		t.Errorf("Status() = %q, want halted", v.Status())
	}
	if v.vm.Memory[255] != 5 {
		t.Errorf("x = %d, want 5", v.vm.Memory[255])
	}

	v.Reset()
	if v.vm.Halted || v.vm.Memory[255] != 0 || v.CurrentLine() != 6 {
		t.Errorf("Reset did not rewind: halted=%v x=%d line=%d", v.vm.Halted, v.vm.Memory[255], v.CurrentLine())
	}
}

func TestViewerFault(t *testing.T) {
	res := &compiler.Result{Code: []byte{0xFF}, SourceMap: map[uint16]int{0: 1}}
	v, err := NewViewer(res)
	if err != nil {
		t.Fatalf("NewViewer failed: %v", err)
	}
	v.Step()
	if got := v.Status(); len(got) < 6 || got[:6] != "FAULT:" {
		t.Errorf("Status() = %q, want FAULT", got)
	}
}
