package cpu

import (
	"errors"
	"fmt"
	"io"
)

const (
	OpHLT   byte = 0x00
	OpLDI   byte = 0x01
	OpLOAD  byte = 0x02 // mov R M %sym
	OpSTORE byte = 0x03 // mov M R %sym
	OpADD   byte = 0x04
	OpSUB   byte = 0x05
	OpJE    byte = 0x06
	OpJMP   byte = 0x07
)

const (
	RegA byte = 0
	RegB byte = 1
)

// MemorySize is the number of addressable data cells.
const MemorySize = 256

// MaxProgramSize is the largest program the 16-bit PC can address.
const MaxProgramSize = 65536

var ErrStepLimit = errors.New("step limit reached before hlt")

var opNames = map[byte]string{
	OpHLT:   "hlt",
	OpLDI:   "ldi",
	OpLOAD:  "mov",
	OpSTORE: "mov",
	OpADD:   "add",
	OpSUB:   "sub",
	OpJE:    "je",
	OpJMP:   "jmp",
}

// CPU is the two-register machine targeted by the compiler. Code and data
// live in separate memories: Program is read-only byte code, Memory is the
// data segment addressed by load/store.
type CPU struct {
	Regs [2]byte

	PC uint16

	Memory  [MemorySize]byte
	Program []byte

	Halted bool
	// Fault is set when execution stopped on a malformed instruction.
	Fault error
	Steps int

	// Trace, when non-nil, receives one line per executed instruction.
	Trace io.Writer
}

func NewCPU() *CPU {
	return &CPU{}
}

// Load installs program and clears all machine state.
func (c *CPU) Load(program []byte) error {
	if len(program) > MaxProgramSize {
		return fmt.Errorf("program too large: %d bytes > %d bytes", len(program), MaxProgramSize)
	}
	c.Reset()
	c.Program = append([]byte(nil), program...)
	return nil
}

// Reset clears registers, memory and run state but keeps the loaded program.
func (c *CPU) Reset() {
	c.Regs = [2]byte{}
	c.PC = 0
	c.Memory = [MemorySize]byte{}
	c.Halted = false
	c.Fault = nil
	c.Steps = 0
}

// InstructionLength returns the encoded size in bytes of an opcode.
func InstructionLength(op byte) (uint16, bool) {
	switch op {
	case OpHLT, OpADD, OpSUB:
		return 1, true
	case OpLDI, OpLOAD, OpSTORE, OpJE, OpJMP:
		return 3, true
	}
	return 0, false
}

func (c *CPU) fault(format string, args ...any) {
	c.Fault = fmt.Errorf("pc 0x%04X: "+format, append([]any{c.PC}, args...)...)
	c.Halted = true
}

func (c *CPU) reg(idx byte) *byte {
	if int(idx) >= len(c.Regs) {
		return nil
	}
	return &c.Regs[idx]
}

func (c *CPU) fetch(offset uint16) byte {
	return c.Program[int(c.PC)+int(offset)]
}

// Step executes one instruction.
func (c *CPU) Step() {
	if c.Halted {
		return
	}

	if int(c.PC) >= len(c.Program) {
		c.fault("ran past end of program (%d bytes)", len(c.Program))
		return
	}

	op := c.Program[c.PC]
	length, ok := InstructionLength(op)
	if !ok {
		c.fault("invalid opcode 0x%02X", op)
		return
	}
	if int(c.PC)+int(length) > len(c.Program) {
		c.fault("truncated %s instruction", opNames[op])
		return
	}

	if c.Trace != nil {
		fmt.Fprintf(c.Trace, "%04X  %-4s A=%3d B=%3d\n", c.PC, opNames[op], c.Regs[RegA], c.Regs[RegB])
	}

	next := c.PC + length
	c.Steps++

	switch op {
	case OpHLT:
		c.Halted = true
		return

	case OpLDI:
		r := c.reg(c.fetch(1))
		if r == nil {
			c.fault("invalid register %d", c.fetch(1))
			return
		}
		*r = c.fetch(2)

	case OpLOAD:
		r := c.reg(c.fetch(1))
		if r == nil {
			c.fault("invalid register %d", c.fetch(1))
			return
		}
		*r = c.Memory[c.fetch(2)]

	case OpSTORE:
		r := c.reg(c.fetch(1))
		if r == nil {
			c.fault("invalid register %d", c.fetch(1))
			return
		}
		c.Memory[c.fetch(2)] = *r

	case OpADD:
		c.Regs[RegA] += c.Regs[RegB]

	case OpSUB:
		c.Regs[RegA] -= c.Regs[RegB]

	case OpJE:
		if c.Regs[RegA] == c.Regs[RegB] {
			next = uint16(c.fetch(1)) | uint16(c.fetch(2))<<8
		}

	case OpJMP:
		next = uint16(c.fetch(1)) | uint16(c.fetch(2))<<8
	}

	c.PC = next
}

func (c *CPU) Run() {
	for !c.Halted {
		c.Step()
	}
}

// RunLimit runs until hlt or until max instructions have executed.
func (c *CPU) RunLimit(max int) error {
	for i := 0; i < max; i++ {
		if c.Halted {
			return c.Fault
		}
		c.Step()
	}
	if c.Halted {
		return c.Fault
	}
	return ErrStepLimit
}

// EncodeInstruction builds the byte form of one instruction.
func EncodeInstruction(op byte, operands ...byte) []byte {
	return append([]byte{op}, operands...)
}

// EncodeJump builds a je/jmp instruction with a little-endian target.
func EncodeJump(op byte, target uint16) []byte {
	return []byte{op, byte(target & 0xFF), byte(target >> 8)}
}
