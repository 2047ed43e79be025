package cpu

// Opcode is the 3-bit operation field of an instruction.
type Opcode byte

// Opcodes, in encoding order.
const (
	OPADD Opcode = iota
	OPSUB
	OPAND
	OPOR
	OPXOR
	OPSHIFT
	OPMOVE
	OPBRANCH
)

var opcodeNames = [...]string{"ADD", "SUB", "AND", "OR", "XOR", "SHIFT", "MOVE", "BRANCH"}

func (o Opcode) String() string {
	if int(o) < len(opcodeNames) {
		return opcodeNames[o]
	}
	return "???"
}

// Phase identifies one stage of the instruction cycle. The state machine
// always advances to the phase returned by the current handler and loops
// from WriteBack back to Fetch until a terminal phase comes back.
type Phase int

const (
	// PhaseFetch loads the instruction word at the PC into the IR.
	PhaseFetch Phase = iota
	// PhaseDecode validates the opcode/mode combination.
	PhaseDecode
	// PhaseEffectiveAddress loads the MAR for memory-referencing modes.
	PhaseEffectiveAddress
	// PhaseOperandFetch stages the ALU inputs or the MDR.
	PhaseOperandFetch
	// PhaseExecute computes the ALU result.
	PhaseExecute
	// PhaseWriteBack commits the result and advances the PC.
	PhaseWriteBack

	// Terminal phases. Each one halts the simulation; none is a process
	// failure.

	// PhaseIllegalOpcode means the opcode/mode combination is undefined.
	PhaseIllegalOpcode
	// PhaseInfiniteLoop means the branch guard ceiling was exceeded.
	PhaseInfiniteLoop
	// PhaseIllegalAddress means the PC or a data address was out of range.
	PhaseIllegalAddress
)

// Terminal reports whether the phase halts the simulation.
func (p Phase) Terminal() bool {
	return p > PhaseWriteBack
}

var phaseNames = [...]string{
	"FETCH_INSTR", "DECODE_INSTR", "CALCULATE_EA", "FETCH_OPERANDS",
	"EXECUTE_INSTR", "WRITE_BACK", "ILLEGAL_OPCODE", "INFINITE_LOOP",
	"ILLEGAL_ADDRESS",
}

func (p Phase) String() string {
	if p >= 0 && int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "???"
}

const (
	// WordSize is the bytes per word everywhere in the machine.
	WordSize = 2
	// Registers is the size of the general purpose register file.
	Registers = 16
	// MemFiller pre-fills code and data memory; as an instruction byte it
	// decodes to BRANCH with the reserved mode, an illegal opcode.
	MemFiller = 0xFF
	// BranchLimit is the ceiling for the infinite loop guard.
	BranchLimit = 1000000
)
