package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const countdown = `int a;
int b;
a = 3;
b = a - 1;
if (b == 2) {
	a = a + b;
}
`

func writeSource(t *testing.T, name, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func TestCompileWritesAssembly(t *testing.T) {
	src := writeSource(t, "prog.sl", "int x;\nx = 5;\n")

	out, _, err := execute(t, "compile", src)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}

	asmPath := strings.TrimSuffix(src, ".sl") + ".asm"
	data, err := os.ReadFile(asmPath)
	if err != nil {
		t.Fatalf("assembly not written: %v", err)
	}
	want := ".data\n\nx = 255\n.text\n\nldi A 5\nmov M A %x\nhlt\n"
	if string(data) != want {
		t.Errorf("assembly = %q, want %q", data, want)
	}
	if !strings.Contains(out, asmPath) {
		t.Errorf("output does not name %s: %q", asmPath, out)
	}
}

func TestCompileStdoutAndBin(t *testing.T) {
	src := writeSource(t, "prog.sl", countdown)

	out, _, err := execute(t, "compile", src, "--stdout")
	if err != nil {
		t.Fatalf("compile --stdout failed: %v", err)
	}
	if !strings.HasPrefix(out, ".data\n") || !strings.Contains(out, "je %if_true_0") {
		t.Errorf("unexpected listing:\n%s", out)
	}

	asmPath := filepath.Join(filepath.Dir(src), "custom.asm")
	if _, _, err := execute(t, "compile", src, "-o", asmPath, "--bin"); err != nil {
		t.Fatalf("compile -o --bin failed: %v", err)
	}
	if _, err := os.Stat(asmPath); err != nil {
		t.Errorf("custom output missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(src), "custom.bin")); err != nil {
		t.Errorf("binary missing: %v", err)
	}
}

func TestCompileReportsErrors(t *testing.T) {
	src := writeSource(t, "bad.sl", "int ;")
	_, _, err := execute(t, "compile", src)
	if err == nil || !strings.Contains(err.Error(), "syntax error") {
		t.Errorf("got %v, want syntax error", err)
	}
	if _, statErr := os.Stat(strings.TrimSuffix(src, ".sl") + ".asm"); statErr == nil {
		t.Error("assembly written for a failed compile")
	}
}

func TestCompileWarnings(t *testing.T) {
	src := writeSource(t, "warn.sl", "int a; if (a == 0) { int b; a = 1; }")
	_, errOut, err := execute(t, "compile", src, "--stdout")
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	if !strings.HasPrefix(errOut, "warning: ") || !strings.Contains(errOut, "'b'") {
		t.Errorf("warnings = %q", errOut)
	}
}

func TestTokensAndAST(t *testing.T) {
	src := writeSource(t, "prog.sl", "int x;")

	out, _, err := execute(t, "tokens", src)
	if err != nil {
		t.Fatalf("tokens failed: %v", err)
	}
	if !strings.HasPrefix(out, "Tokens (4)\n") || !strings.Contains(out, "IDENTIFIER") {
		t.Errorf("tokens output:\n%s", out)
	}

	out, _, err = execute(t, "ast", src)
	if err != nil {
		t.Fatalf("ast failed: %v", err)
	}
	if !strings.Contains(out, "Node Type: declaration\n  Value: x") {
		t.Errorf("ast output:\n%s", out)
	}

	out, _, err = execute(t, "ast", src, "--pp")
	if err != nil {
		t.Fatalf("ast --pp failed: %v", err)
	}
	if !strings.Contains(out, "Declaration") || strings.Contains(out, "\x1b[") {
		t.Errorf("ast --pp output:\n%q", out)
	}
}

func TestRunSource(t *testing.T) {
	src := writeSource(t, "prog.sl", countdown)

	out, _, err := execute(t, "run", src)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	// a = 3, b = 2, branch taken: a = 5.
	if !strings.Contains(out, "a            [255] = 5") || !strings.Contains(out, "b            [253] = 2") {
		t.Errorf("run output:\n%s", out)
	}
}

func TestAssembleAndRunBinary(t *testing.T) {
	src := writeSource(t, "prog.asm", ".data\nx = 10\n.text\nldi A 7\nmov M A %x\nhlt\n")

	if _, _, err := execute(t, "assemble", src); err != nil {
		t.Fatalf("assemble failed: %v", err)
	}
	bin := strings.TrimSuffix(src, ".asm") + ".bin"
	code, err := os.ReadFile(bin)
	if err != nil {
		t.Fatalf("binary not written: %v", err)
	}
	if len(code) != 7 {
		t.Errorf("binary is %d bytes, want 7", len(code))
	}

	out, _, err := execute(t, "run", bin, "--trace")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !strings.Contains(out, "A=7") || !strings.Contains(out, "steps=3") {
		t.Errorf("run output:\n%s", out)
	}
}

func TestRunStepLimit(t *testing.T) {
	src := writeSource(t, "loop.asm", ".text\nloop:\njmp %loop\n")
	if _, _, err := execute(t, "assemble", src); err != nil {
		t.Fatalf("assemble failed: %v", err)
	}
	bin := strings.TrimSuffix(src, ".asm") + ".bin"

	_, _, err := execute(t, "run", bin, "--max-steps", "50")
	if err == nil || !strings.Contains(err.Error(), "no hlt within 50 steps") {
		t.Errorf("got %v, want step limit error", err)
	}
}

const countTo20 = `.data
n = 0
.text
top:
mov A M %n
ldi B 20
je %done
ldi B 1
add
mov M A %n
jmp %top
done:
hlt
`

func TestSnapshotAndResume(t *testing.T) {
	src := writeSource(t, "count.asm", countTo20)
	if _, _, err := execute(t, "assemble", src); err != nil {
		t.Fatalf("assemble failed: %v", err)
	}
	bin := strings.TrimSuffix(src, ".asm") + ".bin"
	snap := filepath.Join(filepath.Dir(src), "state.zip")

	out, _, err := execute(t, "run", bin, "--max-steps", "30", "--snapshot", snap)
	if err == nil {
		t.Fatal("expected the interrupted run to report the step limit")
	}
	if !strings.Contains(out, "snapshot -> "+snap) {
		t.Errorf("run output: %q", out)
	}

	out, _, err = execute(t, "resume", snap)
	if err != nil {
		t.Fatalf("resume failed: %v", err)
	}
	if !strings.Contains(out, "A=20") {
		t.Errorf("resume output: %q", out)
	}

	if _, _, err := execute(t, "resume", filepath.Join(filepath.Dir(src), "missing.zip")); err == nil {
		t.Error("expected error resuming a missing snapshot")
	}
}
