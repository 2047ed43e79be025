// Package assembler translates text assembly for the 16-bit teaching
// processor into flat big-endian object images, two bytes per instruction.
package assembler

import (
	"fmt"
	"strings"

	"sim16/cpu"
)

// Assembler holds the state for the assembly process.
type Assembler struct {
	labels map[string]uint16
}

// New creates a new Assembler instance.
func New() *Assembler {
	return &Assembler{
		labels: make(map[string]uint16),
	}
}

// Assemble runs the two passes over the source: the first assigns every
// instruction a word address and records label positions, the second
// resolves branch displacements and packs each instruction into one word.
func (asm *Assembler) Assemble(src string) ([]byte, error) {
	lines := strings.Split(strings.ReplaceAll(src, "\r\n", "\n"), "\n")

	var nodes []*node
	for i, raw := range lines {
		ns, err := parseLine(raw, i+1)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, ns...)
	}

	// First pass. Addresses are word-indexed so branch displacements line
	// up with the word-indexed program counter.
	pc := uint16(0)
	for _, n := range nodes {
		if n.kind == nodeLabel {
			if _, dup := asm.labels[n.label]; dup {
				return nil, fmt.Errorf("line %d: duplicate label %q", n.line, n.label)
			}
			asm.labels[n.label] = pc
			continue
		}
		n.addr = pc
		pc++
	}

	// Second pass: resolve targets and encode.
	var words []uint16
	for _, n := range nodes {
		if n.kind != nodeInstruction {
			continue
		}
		if n.target != "" {
			addr, ok := asm.labels[n.target]
			if !ok {
				return nil, fmt.Errorf("line %d: undefined label %q", n.line, n.target)
			}
			disp := int(addr) - int(n.addr)
			if disp < -32 || disp > 31 {
				return nil, fmt.Errorf("line %d: branch to %q out of range (%d words)", n.line, n.target, disp)
			}
			n.imm = int8(disp)
		}
		words = append(words, n.encode())
	}

	return cpu.WordsToBytes(words), nil
}
