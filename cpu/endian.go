package cpu

import (
	"encoding/binary"
)

// Words cross the memory and cache boundary big-endian; registers and the
// ALU hold host-native values. These helpers are the only place the mapping
// happens.

// ReadWord reads the big-endian word at word index i of b.
func ReadWord(b []byte, i int) uint16 {
	return binary.BigEndian.Uint16(b[i*WordSize:])
}

// WriteWord stores v big-endian at word index i of b.
func WriteWord(b []byte, i int, v uint16) {
	binary.BigEndian.PutUint16(b[i*WordSize:], v)
}

// WordsToBytes converts a slice of 16-bit words to a big-endian byte slice.
func WordsToBytes(words []uint16) []byte {
	out := make([]byte, len(words)*WordSize)
	for i, w := range words {
		binary.BigEndian.PutUint16(out[i*WordSize:], w)
	}
	return out
}

// BytesToWords interprets bytes as big-endian 16-bit words.
// If an odd number of bytes is passed, the final byte is padded with 0.
func BytesToWords(b []byte) []uint16 {
	if len(b)%2 != 0 {
		b = append(b, 0)
	}
	out := make([]uint16, len(b)/WordSize)
	for i := range out {
		out[i] = binary.BigEndian.Uint16(b[i*WordSize:])
	}
	return out
}
