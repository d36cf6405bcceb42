package cpu

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// humanReadableState is the JSON-serializable snapshot of CPU control state.
type humanReadableState struct {
	RegA   byte   `json:"reg_a"`
	RegB   byte   `json:"reg_b"`
	PC     uint16 `json:"pc"`
	Halted bool   `json:"halted"`
	Steps  int    `json:"steps"`
	Fault  string `json:"fault,omitempty"`
}

// HibernateToBytes serialises the machine into an in-memory ZIP archive:
// cpu_state.json, memory.bin (the data segment) and program.bin.
func (c *CPU) HibernateToBytes() ([]byte, error) {
	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)

	state := humanReadableState{
		RegA:   c.Regs[RegA],
		RegB:   c.Regs[RegB],
		PC:     c.PC,
		Halted: c.Halted,
		Steps:  c.Steps,
	}
	if c.Fault != nil {
		state.Fault = c.Fault.Error()
	}

	jsonData, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal cpu_state: %w", err)
	}
	if err := writeZipEntry(zw, "cpu_state.json", jsonData); err != nil {
		return nil, err
	}
	if err := writeZipEntry(zw, "memory.bin", c.Memory[:]); err != nil {
		return nil, err
	}
	if err := writeZipEntry(zw, "program.bin", c.Program); err != nil {
		return nil, err
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close zip: %w", err)
	}
	return buf.Bytes(), nil
}

// RestoreFromBytes applies an archive produced by HibernateToBytes. Trace is
// left untouched. A missing program.bin keeps the loaded program.
func (c *CPU) RestoreFromBytes(data []byte) error {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("open zip: %w", err)
	}

	fileMap := make(map[string]*zip.File, len(r.File))
	for _, f := range r.File {
		fileMap[f.Name] = f
	}

	jsonData, err := readZipEntry(fileMap, "cpu_state.json")
	if err != nil {
		return err
	}
	var state humanReadableState
	if err := json.Unmarshal(jsonData, &state); err != nil {
		return fmt.Errorf("unmarshal cpu_state: %w", err)
	}

	memData, err := readZipEntry(fileMap, "memory.bin")
	if err != nil {
		return err
	}
	if len(memData) != MemorySize {
		return fmt.Errorf("memory.bin is %d bytes, want %d", len(memData), MemorySize)
	}

	if program, err := readZipEntry(fileMap, "program.bin"); err == nil {
		if len(program) > MaxProgramSize {
			return fmt.Errorf("program.bin too large: %d bytes", len(program))
		}
		c.Program = program
	}

	c.Regs[RegA] = state.RegA
	c.Regs[RegB] = state.RegB
	c.PC = state.PC
	c.Halted = state.Halted
	c.Steps = state.Steps
	c.Fault = nil
	if state.Fault != "" {
		c.Fault = errors.New(state.Fault)
	}
	copy(c.Memory[:], memData)

	return nil
}

// HibernateToFile writes the hibernation archive to the given file path.
func (c *CPU) HibernateToFile(path string) error {
	data, err := c.HibernateToBytes()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// RestoreFromFile reads a hibernation archive from the given file path and
// restores the machine state.
func (c *CPU) RestoreFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return c.RestoreFromBytes(data)
}

func writeZipEntry(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("create zip entry %q: %w", name, err)
	}
	_, err = w.Write(data)
	return err
}

func readZipEntry(fileMap map[string]*zip.File, name string) ([]byte, error) {
	f, ok := fileMap[name]
	if !ok {
		return nil, fmt.Errorf("zip entry %q not found", name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open zip entry %q: %w", name, err)
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
