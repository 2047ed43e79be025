package assembler

import "sim16/cpu"

// nodeKind defines the type of an assembly node.
type nodeKind int

const (
	nodeInstruction nodeKind = iota
	nodeLabel
)

// node represents one parsed element from the assembly source.
type node struct {
	kind  nodeKind
	label string
	line  int

	// Instruction fields.
	op   cpu.Opcode
	mode byte
	reg1 byte
	reg2 byte
	imm  int8

	// target is an unresolved branch label; resolved in the second pass.
	target string
	// addr is the word address assigned in the first pass.
	addr uint16
}

// encode packs the instruction into one word: opcode and mode in the high
// bits, reg1 straddling the byte boundary, then either the second register
// or the 6-bit immediate.
func (n *node) encode() uint16 {
	b0 := byte(n.op)<<5 | n.mode<<2 | n.reg1>>2
	b1 := (n.reg1 & 0x03) << 6
	if n.usesReg2() {
		b1 |= (n.reg2 & 0x0F) << 2
	} else {
		b1 |= byte(n.imm) & 0x3F
	}
	return uint16(b0)<<8 | uint16(b1)
}

// usesReg2 reports whether the low bits carry a register rather than an
// immediate for this opcode/mode.
func (n *node) usesReg2() bool {
	switch n.op {
	case cpu.OPMOVE:
		return n.mode == cpu.MoveMemToReg || n.mode == cpu.MoveRegToMem
	case cpu.OPSHIFT, cpu.OPBRANCH:
		return false
	default:
		return n.mode == cpu.ModeRegister
	}
}
