package cpu

// noRegister marks the EA calculation as a no-op for the current mode.
const noRegister = 0xFF

// calculateEA loads the memory address register for modes that reference
// memory. Only MOVE reaches this phase; either operand may carry the
// address, with the destination side taking priority.
func (m *Machine) calculateEA() Phase {
	reg := byte(noRegister)
	if m.mode()&MoveDstMem != 0 {
		reg = m.reg1()
	} else if m.mode()&MoveSrcMem != 0 {
		reg = m.reg2()
	}
	if reg != noRegister {
		m.MAR = m.R[reg]
	}
	m.tracef("CALCULATE_EA: MAR=%04x, Reg=%d", m.MAR, reg)
	return PhaseOperandFetch
}

// fetchOperands stages the ALU inputs, or for MOVE the memory data
// register, according to the opcode and mode.
func (m *Machine) fetchOperands() Phase {
	next := PhaseExecute

	// Operand 1 is always register contents, except for MOVE where reg1
	// names the destination and nothing is fetched.
	if m.opcode() != OPMOVE {
		m.ALUX = m.R[m.reg1()]
	}

	reg := m.reg2()
	switch m.opcode() {
	case OPADD, OPSUB, OPAND, OPOR, OPXOR:
		if m.mode() == ModeImmediate {
			m.ALUY = uint16(int16(m.literal()))
		} else {
			m.ALUY = m.R[reg]
		}

	case OPMOVE:
		// MOVE skips Execute. The value always travels through the MDR,
		// even for a literal to register transfer.
		next = PhaseWriteBack
		switch {
		case m.mode()&MoveSrcMem == 0:
			m.MDR = uint16(int16(m.literal()))
		case m.mode()&MoveDstMem != 0:
			m.MDR = m.R[reg]
		default:
			v, err := m.Cache.Read(m.MAR)
			if err != nil {
				return PhaseIllegalAddress
			}
			m.MDR = v
		}

	case OPBRANCH:
		// Branches always stage the literal; jumps ignore it.
		m.ALUY = uint16(int16(m.literal()))
	}

	m.tracef("FETCH_OPERANDS: ALU_x=%04x, ALU_y=%04x, MDR=%04x", m.ALUX, m.ALUY, m.MDR)
	return next
}
