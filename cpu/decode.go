package cpu

// Instruction word layout, high byte first:
//
//	| 15 13 | 12 10 | 9      6 | 5        0 |
//	| opcode| mode  | reg1     | reg2 or imm|
//
// reg1 straddles the byte boundary; reg2 occupies bits 5..2 and the 6-bit
// immediate bits 5..0 of the low byte, whichever the mode calls for.

func (m *Machine) opcode() Opcode {
	return Opcode(m.IR[0] >> 5)
}

func (m *Machine) mode() byte {
	return (m.IR[0] >> 2) & 0x07
}

func (m *Machine) reg1() byte {
	return (m.IR[0]&0x03)<<2 | m.IR[1]>>6
}

func (m *Machine) reg2() byte {
	return (m.IR[1] >> 2) & 0x0F
}

// literal extracts the sign-extended 6-bit immediate.
func (m *Machine) literal() int8 {
	v := m.IR[1] & 0x3F
	if v&0x20 != 0 {
		v |= 0xC0
	}
	return int8(v)
}

// fetchInstr loads the instruction word at the PC into the IR. The PC is
// not incremented here; that happens at the end of WriteBack.
func (m *Machine) fetchInstr() Phase {
	if int(m.PC) >= m.cfg.CodeWords {
		return PhaseIllegalAddress
	}
	// Routing the word through the MAR/MDR looks redundant when the PC
	// could index Code directly, but it is the path the hardware takes.
	m.MAR = m.PC
	m.MDR = ReadWord(m.Code, int(m.MAR))
	m.IR[0] = byte(m.MDR >> 8)
	m.IR[1] = byte(m.MDR)
	m.tracef("FETCH_INSTR: PC=%04x, IR=%02x%02x", m.PC, m.IR[0], m.IR[1])
	return PhaseDecode
}

// decodeInstr validates the opcode/mode combination and picks the next
// phase. MOVE is the only opcode that needs an effective address.
func (m *Machine) decodeInstr() Phase {
	m.tracef("DECODE_INSTR: IR=%02x%02x, Opcode=%d, Mode=%d", m.IR[0], m.IR[1], m.opcode(), m.mode())

	switch m.opcode() {
	case OPADD, OPSUB, OPAND, OPOR, OPXOR, OPSHIFT:
		if m.mode() > ModeRegister {
			return PhaseIllegalOpcode
		}
	case OPMOVE:
		if m.mode()&MoveReserved != 0 {
			return PhaseIllegalOpcode
		}
		return PhaseEffectiveAddress
	case OPBRANCH:
		if m.mode() == branchReserved {
			return PhaseIllegalOpcode
		}
	default:
		// Unreachable with a 3-bit field, but guarded anyway.
		return PhaseIllegalOpcode
	}
	return PhaseOperandFetch
}
