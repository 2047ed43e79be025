package cpu

// Run drives the state machine from Fetch until a terminal phase, then
// flushes the cache so the backing store is authoritative for reporting.
func (m *Machine) Run() Phase {
	phase := PhaseFetch
	for !phase.Terminal() {
		phase = m.step(phase)
	}
	m.Cache.FlushAll()
	return phase
}

// step dispatches one phase. Every handler returns the next phase; there is
// no fallthrough and no implicit advance.
func (m *Machine) step(p Phase) Phase {
	switch p {
	case PhaseFetch:
		return m.fetchInstr()
	case PhaseDecode:
		return m.decodeInstr()
	case PhaseEffectiveAddress:
		return m.calculateEA()
	case PhaseOperandFetch:
		return m.fetchOperands()
	case PhaseExecute:
		return m.executeInstr()
	case PhaseWriteBack:
		return m.writeBack()
	}
	return p
}

// executeInstr computes the ALU result from the staged operands.
func (m *Machine) executeInstr() Phase {
	m.tracef("EXECUTE_INSTR: Opcode=%d, ALU_x=%04x, ALU_y=%04x", m.opcode(), m.ALUX, m.ALUY)

	switch m.opcode() {
	case OPADD:
		m.ALUZ = uint16(int16(m.ALUX) + int16(m.ALUY))
	case OPSUB:
		m.ALUZ = uint16(int16(m.ALUX) - int16(m.ALUY))
	case OPAND:
		m.ALUZ = m.ALUX & m.ALUY
	case OPOR:
		m.ALUZ = m.ALUX | m.ALUY
	case OPXOR:
		m.ALUZ = m.ALUX ^ m.ALUY
	case OPSHIFT:
		if m.mode() == ShiftRight {
			m.ALUZ = m.ALUX >> 1
		} else {
			m.ALUZ = m.ALUX << 1
		}
	case OPBRANCH:
		return m.executeBranch()
	}
	return PhaseWriteBack
}

// executeBranch resolves jumps and conditional branches. The result always
// lands in ALUZ so WriteBack can commit the PC unconditionally.
func (m *Machine) executeBranch() Phase {
	if m.mode() == BranchJump {
		m.ALUZ = m.ALUX
		return m.countBranch()
	}

	x := int16(m.ALUX)
	r0 := int16(m.R[0])
	taken := false
	switch m.mode() {
	case BranchEQ:
		taken = x == r0
	case BranchNE:
		taken = x != r0
	case BranchLT:
		taken = x < r0
	case BranchGT:
		taken = x > r0
	case BranchLE:
		taken = x <= r0
	case BranchGE:
		taken = x >= r0
	}
	if !taken {
		// The PC still travels through the ALU for write back.
		m.ALUZ = m.PC
		return PhaseWriteBack
	}
	m.ALUZ = m.PC + m.ALUY - 1
	return m.countBranch()
}

// countBranch feeds the infinite loop guard shared by jumps and taken
// conditional branches.
func (m *Machine) countBranch() Phase {
	m.Branches++
	if m.Branches > BranchLimit {
		return PhaseInfiniteLoop
	}
	return PhaseWriteBack
}

// writeBack commits the result to a register, the PC, or memory, then
// advances the PC.
func (m *Machine) writeBack() Phase {
	next := PhaseFetch
	reg := m.reg1()
	m.tracef("WRITE_BACK: Opcode=%d, ALU_z=%04x, Register=%d", m.opcode(), m.ALUZ, reg)

	switch m.opcode() {
	case OPADD, OPSUB, OPAND, OPOR, OPXOR, OPSHIFT:
		m.R[reg] = m.ALUZ
	case OPBRANCH:
		m.PC = m.ALUZ
	case OPMOVE:
		if m.mode()&MoveDstMem != 0 {
			if err := m.Cache.Write(m.MAR, m.MDR); err != nil {
				next = PhaseIllegalAddress
			}
		} else {
			m.R[reg] = m.MDR
		}
	}

	// The PC advances even when a branch just wrote it; see the Machine
	// doc comment for the consequences.
	m.PC++
	return next
}
