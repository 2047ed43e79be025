package assembler

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"sim16/cpu"
)

var (
	reRegister = regexp.MustCompile(`(?i)^r(1[0-5]|[0-9])$`)
	reIndirect = regexp.MustCompile(`(?i)^\(r(1[0-5]|[0-9])\)$`)
	reLabel    = regexp.MustCompile(`(?i)^[a-z_][a-z0-9_]*$`)
)

// aluOpcodes maps the two-operand ALU mnemonics to their opcodes.
var aluOpcodes = map[string]cpu.Opcode{
	"add": cpu.OPADD,
	"sub": cpu.OPSUB,
	"and": cpu.OPAND,
	"or":  cpu.OPOR,
	"xor": cpu.OPXOR,
}

// branchModes maps branch mnemonics to the mode field selecting the
// condition. Every condition compares the named register against R0.
var branchModes = map[string]byte{
	"jump": cpu.BranchJump,
	"beq":  cpu.BranchEQ,
	"bne":  cpu.BranchNE,
	"blt":  cpu.BranchLT,
	"bgt":  cpu.BranchGT,
	"ble":  cpu.BranchLE,
	"bge":  cpu.BranchGE,
}

// parseLine strips comments, splits off an optional leading label, and
// parses whatever instruction remains. A line may yield zero, one or two
// nodes.
func parseLine(raw string, num int) ([]*node, error) {
	line := raw
	if i := strings.IndexRune(line, ';'); i != -1 {
		line = line[:i]
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, nil
	}

	var nodes []*node
	if i := strings.IndexRune(line, ':'); i != -1 {
		label := strings.TrimSpace(line[:i])
		if !reLabel.MatchString(label) {
			return nil, fmt.Errorf("line %d: invalid label %q", num, label)
		}
		nodes = append(nodes, &node{kind: nodeLabel, label: strings.ToLower(label), line: num})
		line = strings.TrimSpace(line[i+1:])
		if line == "" {
			return nodes, nil
		}
	}

	n, err := parseInstruction(line, num)
	if err != nil {
		return nil, err
	}
	return append(nodes, n), nil
}

// parseInstruction parses a single mnemonic and its operands.
func parseInstruction(line string, num int) (*node, error) {
	fields := strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	mnemonic := strings.ToLower(fields[0])
	operands := fields[1:]
	n := &node{kind: nodeInstruction, line: num}

	if op, ok := aluOpcodes[mnemonic]; ok {
		if len(operands) != 2 {
			return nil, fmt.Errorf("line %d: %s takes a register and a register or literal", num, mnemonic)
		}
		r1, err := parseRegister(operands[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", num, err)
		}
		n.op = op
		n.reg1 = r1
		if r2, err := parseRegister(operands[1]); err == nil {
			n.mode = cpu.ModeRegister
			n.reg2 = r2
			return n, nil
		}
		imm, err := parseImmediate(operands[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", num, err)
		}
		n.mode = cpu.ModeImmediate
		n.imm = imm
		return n, nil
	}

	if mode, ok := branchModes[mnemonic]; ok {
		return parseBranch(n, mnemonic, mode, operands, num)
	}

	switch mnemonic {
	case "shift":
		if len(operands) != 2 {
			return nil, fmt.Errorf("line %d: shift takes a register and a direction", num)
		}
		r1, err := parseRegister(operands[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", num, err)
		}
		n.op = cpu.OPSHIFT
		n.reg1 = r1
		switch strings.ToLower(operands[1]) {
		case "left", "l":
			n.mode = cpu.ShiftLeft
		case "right", "r":
			n.mode = cpu.ShiftRight
		default:
			return nil, fmt.Errorf("line %d: shift direction must be left or right, got %q", num, operands[1])
		}
		return n, nil

	case "move":
		if len(operands) != 2 {
			return nil, fmt.Errorf("line %d: move takes a destination and a source", num)
		}
		return parseMove(n, operands, num)
	}

	return nil, fmt.Errorf("line %d: unknown mnemonic %q", num, fields[0])
}

// parseMove picks one of the four MOVE modes from the shapes of the
// destination and source operands.
func parseMove(n *node, operands []string, num int) (*node, error) {
	n.op = cpu.OPMOVE

	dstMem := false
	if r, err := parseIndirect(operands[0]); err == nil {
		dstMem = true
		n.reg1 = r
	} else if r, err := parseRegister(operands[0]); err == nil {
		n.reg1 = r
	} else {
		return nil, fmt.Errorf("line %d: invalid move destination %q", num, operands[0])
	}

	if r, err := parseIndirect(operands[1]); err == nil {
		if dstMem {
			return nil, fmt.Errorf("line %d: move cannot go memory to memory", num)
		}
		n.mode = cpu.MoveMemToReg
		n.reg2 = r
		return n, nil
	}
	if r, err := parseRegister(operands[1]); err == nil {
		if !dstMem {
			// No register to register encoding exists; the value would
			// have to pass through memory or a literal.
			return nil, fmt.Errorf("line %d: move source must be a literal or memory when the destination is a register", num)
		}
		n.mode = cpu.MoveRegToMem
		n.reg2 = r
		return n, nil
	}
	imm, err := parseImmediate(operands[1])
	if err != nil {
		return nil, fmt.Errorf("line %d: %w", num, err)
	}
	n.imm = imm
	if dstMem {
		n.mode = cpu.MoveImmToMem
	} else {
		n.mode = cpu.MoveImmToReg
	}
	return n, nil
}

// parseBranch handles jump (one register) and the six conditional branches
// (register plus label or literal displacement).
func parseBranch(n *node, mnemonic string, mode byte, operands []string, num int) (*node, error) {
	n.op = cpu.OPBRANCH
	n.mode = mode

	if mode == cpu.BranchJump {
		if len(operands) != 1 {
			return nil, fmt.Errorf("line %d: jump takes a single register", num)
		}
		r, err := parseRegister(operands[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", num, err)
		}
		n.reg1 = r
		return n, nil
	}

	if len(operands) != 2 {
		return nil, fmt.Errorf("line %d: %s takes a register and a target", num, mnemonic)
	}
	r, err := parseRegister(operands[0])
	if err != nil {
		return nil, fmt.Errorf("line %d: %w", num, err)
	}
	n.reg1 = r
	if reLabel.MatchString(operands[1]) {
		n.target = strings.ToLower(operands[1])
		return n, nil
	}
	imm, err := parseImmediate(operands[1])
	if err != nil {
		return nil, fmt.Errorf("line %d: %w", num, err)
	}
	n.imm = imm
	return n, nil
}

func parseRegister(s string) (byte, error) {
	m := reRegister.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("invalid register %q", s)
	}
	v, _ := strconv.Atoi(m[1])
	return byte(v), nil
}

func parseIndirect(s string) (byte, error) {
	m := reIndirect.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("invalid indirect operand %q", s)
	}
	v, _ := strconv.Atoi(m[1])
	return byte(v), nil
}

// parseImmediate accepts an optional # prefix and any base strconv
// understands, and enforces the 6-bit signed range.
func parseImmediate(s string) (int8, error) {
	v, err := strconv.ParseInt(strings.TrimPrefix(s, "#"), 0, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid operand %q", s)
	}
	if v < -32 || v > 31 {
		return 0, fmt.Errorf("immediate %d does not fit a 6-bit field", v)
	}
	return int8(v), nil
}
