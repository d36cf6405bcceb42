package asm

import (
	"fmt"
	"simplelang/pkg/cpu"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

var zeroOperandOps = map[string]byte{
	"hlt": cpu.OpHLT,
	"add": cpu.OpADD,
	"sub": cpu.OpSUB,
}

var jumpOps = map[string]byte{
	"je":  cpu.OpJE,
	"jmp": cpu.OpJMP,
}

type section int

const (
	sectionNone section = iota
	sectionData
	sectionText
)

type Assembler struct {
	labels  map[string]uint16
	symbols map[string]byte
}

type parsedLine struct {
	lineNo   int
	section  section // set on .data / .text directives
	labels   []string
	mnemonic string
	operands []string
	// data definition: name = address
	dataName string
	dataAddr string
}

// Symbol is a data-segment cell named in the .data section.
type Symbol struct {
	Name    string
	Address byte
}

func NewAssembler() *Assembler {
	return &Assembler{
		labels:  make(map[string]uint16),
		symbols: make(map[string]byte),
	}
}

func Assemble(code string) ([]byte, map[uint16]int, error) {
	return NewAssembler().Assemble(code)
}

func (a *Assembler) Assemble(code string) ([]byte, map[uint16]int, error) {
	lines := strings.Split(code, "\n")

	parsed := make([]parsedLine, 0, len(lines))
	for i, raw := range lines {
		p, err := parseLine(raw, i+1)
		if err != nil {
			return nil, nil, err
		}
		parsed = append(parsed, p)
	}

	if err := a.pass1(parsed); err != nil {
		return nil, nil, err
	}

	return a.pass2(parsed)
}

// Symbols returns the data symbols of the last assembled program ordered by
// descending address, which is the order the compiler allocates them in.
func (a *Assembler) Symbols() []Symbol {
	out := make([]Symbol, 0, len(a.symbols))
	for name, addr := range a.symbols {
		out = append(out, Symbol{Name: name, Address: addr})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Address != out[j].Address {
			return out[i].Address > out[j].Address
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func (a *Assembler) pass1(lines []parsedLine) error {
	var address uint32
	current := sectionNone

	for _, p := range lines {
		if p.section != sectionNone {
			current = p.section
			continue
		}

		if p.dataName != "" {
			if current != sectionData {
				return fmt.Errorf("data definition '%s' outside .data on line %d", p.dataName, p.lineNo)
			}
			if _, exists := a.symbols[p.dataName]; exists {
				return fmt.Errorf("duplicate data symbol '%s' on line %d", p.dataName, p.lineNo)
			}
			addr, err := strconv.ParseUint(p.dataAddr, 10, 8)
			if err != nil {
				return fmt.Errorf("invalid address '%s' for '%s' on line %d", p.dataAddr, p.dataName, p.lineNo)
			}
			a.symbols[p.dataName] = byte(addr)
			continue
		}

		for _, lbl := range p.labels {
			if current != sectionText {
				return fmt.Errorf("label '%s' outside .text on line %d", lbl, p.lineNo)
			}
			if address > 0xFFFF {
				return fmt.Errorf("label '%s' on line %d points past addressable memory", lbl, p.lineNo)
			}
			if _, exists := a.labels[lbl]; exists {
				return fmt.Errorf("duplicate label '%s' on line %d", lbl, p.lineNo)
			}
			a.labels[lbl] = uint16(address)
		}

		if p.mnemonic == "" {
			continue
		}

		if current != sectionText {
			return fmt.Errorf("instruction '%s' outside .text on line %d", p.mnemonic, p.lineNo)
		}

		length, ok := instructionLength(p.mnemonic)
		if !ok {
			return fmt.Errorf("unknown instruction on line %d: %s", p.lineNo, p.mnemonic)
		}

		if address+uint32(length) > cpu.MaxProgramSize {
			return fmt.Errorf("program too large near line %d", p.lineNo)
		}
		address += uint32(length)
	}

	return nil
}

func (a *Assembler) pass2(lines []parsedLine) ([]byte, map[uint16]int, error) {
	program := make([]byte, 0)
	sourceMap := make(map[uint16]int)

	for _, p := range lines {
		if p.mnemonic == "" {
			continue
		}

		lineNo := p.lineNo
		mnemonic := p.mnemonic
		ops := p.operands

		sourceMap[uint16(len(program))] = lineNo

		if opcode, ok := zeroOperandOps[mnemonic]; ok {
			if len(ops) != 0 {
				return nil, nil, fmt.Errorf("%s expects 0 operands on line %d", mnemonic, lineNo)
			}
			program = append(program, cpu.EncodeInstruction(opcode)...)
			continue
		}

		if opcode, ok := jumpOps[mnemonic]; ok {
			if len(ops) != 1 {
				return nil, nil, fmt.Errorf("%s expects 1 operand on line %d", mnemonic, lineNo)
			}
			target, err := a.parseLabelRef(ops[0], lineNo)
			if err != nil {
				return nil, nil, err
			}
			program = append(program, cpu.EncodeJump(opcode, target)...)
			continue
		}

		switch mnemonic {
		case "ldi":
			if len(ops) != 2 {
				return nil, nil, fmt.Errorf("ldi expects 2 operands on line %d", lineNo)
			}
			reg, err := parseRegister(ops[0], lineNo)
			if err != nil {
				return nil, nil, err
			}
			imm, err := parseImmediate(ops[1], lineNo)
			if err != nil {
				return nil, nil, err
			}
			program = append(program, cpu.EncodeInstruction(cpu.OpLDI, reg, imm)...)
			continue

		case "mov":
			// mov R M %sym loads, mov M R %sym stores.
			if len(ops) != 3 {
				return nil, nil, fmt.Errorf("mov expects 3 operands on line %d", lineNo)
			}
			opcode := cpu.OpLOAD
			regOperand := ops[0]
			switch {
			case ops[0] == "M" && ops[1] != "M":
				opcode = cpu.OpSTORE
				regOperand = ops[1]
			case ops[1] == "M" && ops[0] != "M":
			default:
				return nil, nil, fmt.Errorf("mov needs exactly one 'M' operand on line %d", lineNo)
			}
			reg, err := parseRegister(regOperand, lineNo)
			if err != nil {
				return nil, nil, err
			}
			addr, err := a.parseSymbolRef(ops[2], lineNo)
			if err != nil {
				return nil, nil, err
			}
			program = append(program, cpu.EncodeInstruction(opcode, reg, addr)...)
			continue
		}

		return nil, nil, fmt.Errorf("unknown instruction on line %d: %s", lineNo, mnemonic)
	}

	return program, sourceMap, nil
}

func parseLine(raw string, lineNo int) (parsedLine, error) {
	p := parsedLine{lineNo: lineNo}

	line := strings.TrimSpace(stripComments(raw))
	if line == "" {
		return p, nil
	}

	switch line {
	case ".data":
		p.section = sectionData
		return p, nil
	case ".text":
		p.section = sectionText
		return p, nil
	}
	if strings.HasPrefix(line, ".") {
		return p, fmt.Errorf("unknown directive '%s' on line %d", line, lineNo)
	}

	if name, addr, ok := strings.Cut(line, "="); ok {
		name = strings.TrimSpace(name)
		addr = strings.TrimSpace(addr)
		if !isIdentifier(name) {
			return p, fmt.Errorf("invalid data name '%s' on line %d", name, lineNo)
		}
		if addr == "" {
			return p, fmt.Errorf("missing address for '%s' on line %d", name, lineNo)
		}
		p.dataName = name
		p.dataAddr = addr
		return p, nil
	}

	for {
		colon := strings.IndexByte(line, ':')
		if colon <= 0 {
			break
		}

		beforeColon := strings.TrimSpace(line[:colon])
		if strings.ContainsAny(beforeColon, " \t") {
			break
		}

		if !isIdentifier(beforeColon) {
			return p, fmt.Errorf("invalid label '%s' on line %d", beforeColon, lineNo)
		}

		p.labels = append(p.labels, beforeColon)
		line = strings.TrimSpace(line[colon+1:])
		if line == "" {
			return p, nil
		}
	}

	fields := strings.Fields(line)
	if len(fields) == 0 {
		return p, nil
	}

	p.mnemonic = fields[0]
	if len(fields) > 1 {
		p.operands = fields[1:]
	}

	return p, nil
}

func stripComments(line string) string {
	if semicolon := strings.IndexByte(line, ';'); semicolon >= 0 {
		return line[:semicolon]
	}
	return line
}

func parseRegister(token string, lineNo int) (byte, error) {
	switch token {
	case "A":
		return cpu.RegA, nil
	case "B":
		return cpu.RegB, nil
	default:
		return 0, fmt.Errorf("invalid register '%s' on line %d", token, lineNo)
	}
}

func parseImmediate(token string, lineNo int) (byte, error) {
	value, err := strconv.ParseUint(token, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid immediate '%s' on line %d", token, lineNo)
	}
	if value > 0xFF {
		return 0, fmt.Errorf("immediate out of range on line %d: %s", lineNo, token)
	}
	return byte(value), nil
}

func (a *Assembler) parseSymbolRef(token string, lineNo int) (byte, error) {
	name, ok := strings.CutPrefix(token, "%")
	if !ok || !isIdentifier(name) {
		return 0, fmt.Errorf("invalid memory reference '%s' on line %d", token, lineNo)
	}
	addr, ok := a.symbols[name]
	if !ok {
		return 0, fmt.Errorf("undefined data symbol '%s' on line %d", name, lineNo)
	}
	return addr, nil
}

func (a *Assembler) parseLabelRef(token string, lineNo int) (uint16, error) {
	name, ok := strings.CutPrefix(token, "%")
	if !ok || !isIdentifier(name) {
		return 0, fmt.Errorf("invalid label reference '%s' on line %d", token, lineNo)
	}
	addr, ok := a.labels[name]
	if !ok {
		return 0, fmt.Errorf("undefined label '%s' on line %d", name, lineNo)
	}
	return addr, nil
}

// instructionLength returns the byte length of an instruction.
func instructionLength(mnemonic string) (uint16, bool) {
	switch mnemonic {
	case "ldi":
		return cpu.InstructionLength(cpu.OpLDI)
	case "mov":
		return cpu.InstructionLength(cpu.OpLOAD)
	}
	if op, ok := zeroOperandOps[mnemonic]; ok {
		return cpu.InstructionLength(op)
	}
	if op, ok := jumpOps[mnemonic]; ok {
		return cpu.InstructionLength(op)
	}
	return 0, false
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}

	for i, r := range s {
		if i == 0 {
			if !unicode.IsLetter(r) && r != '_' {
				return false
			}
			continue
		}

		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}

	return true
}
