package main

import (
	"strings"
	"testing"

	"simplelang/pkg/asm"
	"simplelang/pkg/compiler"
	"simplelang/pkg/cpu"
)

const maxSteps = 10000

// compileAndRun compiles src, reassembles its listing independently and runs
// it to hlt, returning the machine and the variable addresses.
func compileAndRun(t *testing.T, src string) (*cpu.CPU, map[string]int) {
	t.Helper()

	res, err := compiler.Compile(src)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	t.Logf("Generated Assembly:\n%s", res.Assembly())

	machineCode, _, err := asm.Assemble(res.Assembly())
	if err != nil {
		t.Fatalf("Assembly failed: %v", err)
	}
	if string(machineCode) != string(res.Code) {
		t.Fatalf("re-assembled code differs from Result.Code")
	}

	vm := cpu.NewCPU()
	if err := vm.Load(machineCode); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := vm.RunLimit(maxSteps); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	addrs := make(map[string]int)
	for _, sym := range res.Symbols {
		addrs[sym.Name] = sym.Address
	}
	return vm, addrs
}

func TestCompilerAndCPU(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   map[string]byte
	}{
		{
			name:   "Store literal",
			source: "int x; x = 5;",
			want:   map[string]byte{"x": 5},
		},
		{
			name:   "Uninitialised variable is zero",
			source: "int x; int y; y = x + 1;",
			want:   map[string]byte{"x": 0, "y": 1},
		},
		{
			name: "Left associativity",
			source: `
int a;
int b;
int c;
int r;
a = 10;
b = 4;
c = 3;
r = a - b + c;
`,
			// (10 - 4) + 3, not 10 - (4 + 3)
			want: map[string]byte{"r": 9},
		},
		{
			name:   "Chained subtraction",
			source: "int r; r = 20 - 5 - 3;",
			want:   map[string]byte{"r": 12},
		},
		{
			name:   "Wraparound",
			source: "int r; int s; r = 250 + 10; s = 3 - 5;",
			want:   map[string]byte{"r": 4, "s": 254},
		},
		{
			name: "Branch taken",
			source: `
int a;
int b;
a = 7;
if (a == 7) {
	b = 1;
}
`,
			want: map[string]byte{"a": 7, "b": 1},
		},
		{
			name: "Branch not taken",
			source: `
int a;
int b;
a = 6;
b = 9;
if (a == 7) {
	b = 1;
	a = 0;
}
`,
			want: map[string]byte{"a": 6, "b": 9},
		},
		{
			name: "Condition with arithmetic on the left",
			source: `
int a;
int hit;
a = 4;
if (a + 1 == 5) { hit = 1; }
if (a - 1 == 5) { hit = 2; }
`,
			want: map[string]byte{"hit": 1},
		},
		{
			name: "Sequential conditionals",
			source: `
int n;
int steps;
n = 2;
if (n == 2) { n = n - 1; steps = steps + 1; }
if (n == 1) { n = n - 1; steps = steps + 1; }
if (n == 1) { steps = 99; }
`,
			want: map[string]byte{"n": 0, "steps": 2},
		},
		{
			name: "Declaration inside body is ignored",
			source: `
int a;
if (a == 0) {
	int unused;
	a = 3;
}
`,
			want: map[string]byte{"a": 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm, addrs := compileAndRun(t, tt.source)
			for name, want := range tt.want {
				addr, ok := addrs[name]
				if !ok {
					t.Fatalf("variable %s was not allocated", name)
				}
				if got := vm.Memory[addr]; got != want {
					t.Errorf("%s = %d, want %d", name, got, want)
				}
			}
		})
	}
}

func TestDataLayout(t *testing.T) {
	_, addrs := compileAndRun(t, "int a; int b; int c; a = 1; b = 2; c = 3;")
	want := map[string]int{"a": 255, "b": 253, "c": 251}
	for name, addr := range want {
		if addrs[name] != addr {
			t.Errorf("%s at %d, want %d", name, addrs[name], addr)
		}
	}
}

func TestRejectedPrograms(t *testing.T) {
	for _, src := range []string{
		"int ;",
		"x 5;",
		"if a == b) { }",
		"int x; x = y;",
		"int a; if (a == b) { }",
		"y = 1;",
	} {
		res, err := compiler.Compile(src)
		if err == nil {
			t.Errorf("Compile(%q) succeeded:\n%s", src, res.Assembly())
			continue
		}
		if res != nil {
			t.Errorf("Compile(%q) returned output with error %v", src, err)
		}
	}
}

func TestTraceFollowsListing(t *testing.T) {
	res, err := compiler.Compile("int a; a = 1; if (a == 1) { a = 2; }")
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	var trace strings.Builder
	vm := cpu.NewCPU()
	if err := vm.Load(res.Code); err != nil {
		t.Fatal(err)
	}
	vm.Trace = &trace
	if err := vm.RunLimit(maxSteps); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// ldi, mov, mov, ldi, je, ldi, mov, hlt: the jmp is skipped.
	lines := strings.Split(strings.TrimSpace(trace.String()), "\n")
	if len(lines) != 8 {
		t.Fatalf("traced %d instructions, want 8:\n%s", len(lines), trace.String())
	}
	for _, line := range lines {
		if strings.Contains(line, "jmp") {
			t.Errorf("jmp executed on the taken branch:\n%s", trace.String())
		}
	}
	if vm.Memory[255] != 2 {
		t.Errorf("a = %d, want 2", vm.Memory[255])
	}
}
