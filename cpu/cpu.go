package cpu

import (
	"fmt"
	"io"
)

// Machine bundles the complete simulator state: internal registers, the
// general purpose register file, code and data memory, the data cache and
// the branch counter. One Machine runs one program; instances share nothing.
//
// The program counter advances once after every WriteBack, including when a
// branch has just written it. A taken conditional branch therefore lands on
// PC+displacement (the displacement math bakes in a matching -1), while an
// unconditional jump lands one word past the register value. This is the
// machine's defined behavior, not an accident to be corrected here.
type Machine struct {
	// PC is the program counter, indexing code memory in words.
	PC uint16
	// MAR stages the memory address between phases.
	MAR uint16
	// MDR stages memory data between phases.
	MDR uint16
	// IR holds the two bytes of the instruction being executed.
	IR [2]byte

	// ALUX and ALUY are the staged ALU inputs, ALUZ the result.
	ALUX uint16
	ALUY uint16
	ALUZ uint16

	// R is the general purpose register file. R0 doubles as the implicit
	// right-hand operand of every conditional branch.
	R [Registers]uint16

	// Code is instruction memory, two bytes per word, big-endian.
	Code []byte
	// Data is the block-organized backing store behind the cache.
	Data *Memory
	// Cache intercepts every data memory access.
	Cache *Cache

	// Branches counts jumps and taken branches toward the loop guard.
	Branches int

	// Trace, when set, receives one line per executed phase.
	Trace io.Writer

	cfg Config
}

// Config fixes the machine geometry for a run.
type Config struct {
	// CodeWords is the instruction memory capacity in words.
	CodeWords int
	// DataWords is the data memory capacity in words.
	DataWords int
	// CacheSlots is the number of cache slots.
	CacheSlots int
	// BlockSize is the number of words per backing block and cache slot.
	BlockSize int
}

// DefaultConfig is the teaching build: 1K words of code and data, one
// eight-word cache slot.
func DefaultConfig() Config {
	return Config{CodeWords: 1024, DataWords: 1024, CacheSlots: 1, BlockSize: 8}
}

// Validate checks the geometry once, before any memory is allocated.
func (c Config) Validate() error {
	if c.CodeWords <= 0 || c.DataWords <= 0 || c.CacheSlots <= 0 || c.BlockSize <= 0 {
		return fmt.Errorf("all config fields must be positive: %+v", c)
	}
	if c.DataWords%c.BlockSize != 0 {
		return fmt.Errorf("block size %d does not divide data capacity %d", c.BlockSize, c.DataWords)
	}
	return nil
}

// New creates a Machine with the given geometry. Code and data memory are
// filled with the 0xFF sentinel so that running off the end of a program
// decodes as an illegal instruction.
func New(cfg Config) (*Machine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	m := &Machine{
		Code: make([]byte, cfg.CodeWords*WordSize),
		Data: NewMemory(cfg.DataWords/cfg.BlockSize, cfg.BlockSize),
		cfg:  cfg,
	}
	for i := range m.Code {
		m.Code[i] = MemFiller
	}
	m.Cache = NewCache(cfg.CacheSlots, cfg.BlockSize, m.Data)
	return m, nil
}

// LoadCode copies a flat big-endian object image into code memory at
// address 0. Anything past the image keeps the sentinel filler.
func (m *Machine) LoadCode(code []byte) {
	copy(m.Code, code)
}

func (m *Machine) tracef(format string, args ...any) {
	if m.Trace == nil {
		return
	}
	fmt.Fprintf(m.Trace, format+"\n", args...)
}
