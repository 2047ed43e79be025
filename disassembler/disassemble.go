// Package disassembler renders object images for the 16-bit teaching
// processor as readable listings. Instructions are a fixed two bytes, so a
// single linear sweep is all it takes.
package disassembler

import (
	"fmt"
	"strings"

	"sim16/cpu"
)

// branchNames indexes branch mnemonics by mode.
var branchNames = [...]string{"jump", "beq", "bne", "blt", "bgt", "ble", "bge"}

// Disassemble renders a flat big-endian object image, one instruction per
// line with its word address and raw encoding.
func Disassemble(code []byte) (string, error) {
	if len(code)%cpu.WordSize != 0 {
		return "", fmt.Errorf("object image has odd length %d", len(code))
	}
	var sb strings.Builder
	for addr, w := range cpu.BytesToWords(code) {
		fmt.Fprintf(&sb, "%04x: %04x\t%s\n", addr, w, DecodeWord(w))
	}
	return sb.String(), nil
}

// DecodeWord renders a single instruction word as assembly text. Undefined
// opcode/mode combinations come back as a data directive with a remark.
func DecodeWord(w uint16) string {
	op := cpu.Opcode(w >> 13)
	mode := byte(w>>10) & 0x07
	reg1 := (byte(w>>8)&0x03)<<2 | byte(w)>>6
	reg2 := (byte(w) >> 2) & 0x0F
	imm := int8(byte(w) & 0x3F)
	if imm&0x20 != 0 {
		imm |= ^int8(0x3F)
	}

	switch op {
	case cpu.OPADD, cpu.OPSUB, cpu.OPAND, cpu.OPOR, cpu.OPXOR:
		switch mode {
		case cpu.ModeImmediate:
			return fmt.Sprintf("%s r%d,#%d", strings.ToLower(op.String()), reg1, imm)
		case cpu.ModeRegister:
			return fmt.Sprintf("%s r%d,r%d", strings.ToLower(op.String()), reg1, reg2)
		}

	case cpu.OPSHIFT:
		switch mode {
		case cpu.ShiftRight:
			return fmt.Sprintf("shift r%d,right", reg1)
		case cpu.ShiftLeft:
			return fmt.Sprintf("shift r%d,left", reg1)
		}

	case cpu.OPMOVE:
		switch mode {
		case cpu.MoveImmToReg:
			return fmt.Sprintf("move r%d,#%d", reg1, imm)
		case cpu.MoveMemToReg:
			return fmt.Sprintf("move r%d,(r%d)", reg1, reg2)
		case cpu.MoveImmToMem:
			return fmt.Sprintf("move (r%d),#%d", reg1, imm)
		case cpu.MoveRegToMem:
			return fmt.Sprintf("move (r%d),r%d", reg1, reg2)
		}

	case cpu.OPBRANCH:
		if mode == cpu.BranchJump {
			return fmt.Sprintf("jump r%d", reg1)
		}
		if int(mode) < len(branchNames) {
			return fmt.Sprintf("%s r%d,#%d", branchNames[mode], reg1, imm)
		}
	}

	return fmt.Sprintf("dc.w $%04x\t; illegal instruction", w)
}
