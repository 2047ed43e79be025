package cpu

// Addressing modes for the ALU opcodes (ADD, SUB, AND, OR, XOR). The same
// field doubles as the shift direction for SHIFT and the condition selector
// for BRANCH.
const (
	// ModeImmediate — the second operand is a sign-extended 6-bit literal.
	ModeImmediate = 0
	// ModeRegister — the second operand is a register.
	ModeRegister = 1
)

// Shift directions (SHIFT mode field).
const (
	ShiftRight = 0
	ShiftLeft  = 1
)

// MOVE interprets the mode field as bits. Bit 2 selects a memory
// destination addressed through reg1, bit 0 a memory source addressed
// through reg2; bit 1 is reserved and illegal when set.
const (
	MoveSrcMem   = 0x01
	MoveReserved = 0x02
	MoveDstMem   = 0x04
)

// The four legal MOVE modes the bits combine into.
const (
	// MoveImmToReg — literal into a register.
	MoveImmToReg = 0
	// MoveMemToReg — memory word (address in reg2) into a register.
	MoveMemToReg = 1
	// MoveImmToMem — literal into memory (address in reg1).
	MoveImmToMem = 4
	// MoveRegToMem — register (reg2) into memory (address in reg1).
	MoveRegToMem = 5
)

// BRANCH condition selectors. Conditions compare reg1's register against R0
// as signed values. Mode 7 is reserved and illegal.
const (
	BranchJump = 0
	BranchEQ   = 1
	BranchNE   = 2
	BranchLT   = 3
	BranchGT   = 4
	BranchLE   = 5
	BranchGE   = 6

	branchReserved = 7
)
