package cpu

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Memory is the data backing store, organized as fixed-size blocks of words
// so that whole blocks can be staged in and out of the cache.
type Memory struct {
	blockSize int
	blocks    [][]byte
}

// NewMemory creates a sentinel-filled backing store of the given geometry.
func NewMemory(blocks, blockSize int) *Memory {
	m := &Memory{
		blockSize: blockSize,
		blocks:    make([][]byte, blocks),
	}
	for i := range m.blocks {
		m.blocks[i] = make([]byte, blockSize*WordSize)
		for j := range m.blocks[i] {
			m.blocks[i][j] = MemFiller
		}
	}
	return m
}

// Blocks returns the number of backing blocks.
func (m *Memory) Blocks() int {
	return len(m.blocks)
}

// BlockSize returns the words per block.
func (m *Memory) BlockSize() int {
	return m.blockSize
}

// ReadBlock copies the block identified by tag into dst.
func (m *Memory) ReadBlock(tag int, dst []byte) {
	copy(dst, m.blocks[tag])
}

// WriteBlock copies src into the block identified by tag.
func (m *Memory) WriteBlock(tag int, src []byte) {
	copy(m.blocks[tag], src)
}

// Word returns the word at a word address, bypassing the cache. The dump
// and the loaders use it; simulated code never does.
func (m *Memory) Word(addr int) uint16 {
	return ReadWord(m.blocks[addr/m.blockSize], addr%m.blockSize)
}

// SetWord stores a word directly into the backing store.
func (m *Memory) SetWord(addr int, v uint16) {
	WriteWord(m.blocks[addr/m.blockSize], addr%m.blockSize, v)
}

// LoadData fills the backing store from a text stream of packed hexadecimal
// digit pairs, four characters (one word) at a time, block-major. Input
// beyond the data capacity is dropped with a warning; trailing characters
// short of a full word are ignored.
func (m *Machine) LoadData(r io.Reader) error {
	capacity := m.Data.Blocks() * m.Data.BlockSize()
	index := 0
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		for i := 0; i+4 <= len(line); i += 4 {
			if index >= capacity {
				fmt.Fprintln(os.Stderr, "warning: data exceeds allocated memory size")
				return nil
			}
			v, err := strconv.ParseUint(line[i:i+4], 16, 16)
			if err != nil {
				return fmt.Errorf("bad data word %q: %w", line[i:i+4], err)
			}
			m.Data.SetWord(index, uint16(v))
			index++
		}
	}
	return sc.Err()
}

// dumpLineBytes is the number of data bytes rendered per dump line.
const dumpLineBytes = 32

// DumpData writes the backing store as hex words with an ASCII column,
// sixteen words per line. Call it after Run so the cache has been flushed.
func (m *Machine) DumpData(w io.Writer) {
	capacity := m.Data.Blocks() * m.Data.BlockSize()
	text := make([]byte, 0, dumpLineBytes)
	for addr := 0; addr < capacity; addr++ {
		word := m.Data.Word(addr)
		hi, lo := byte(word>>8), byte(word)
		text = append(text, validASCII(hi), validASCII(lo))
		fmt.Fprintf(w, "%02x%02x ", hi, lo)
		if len(text) == dumpLineBytes {
			fmt.Fprintf(w, "\t'%s'\n", text)
			text = text[:0]
		}
	}
}

// validASCII maps unprintable bytes to '.' for the dump's text column.
func validASCII(b byte) byte {
	if b < 0x21 || b > 0x7e {
		return '.'
	}
	return b
}
