package assembler_test

import (
	"encoding/hex"
	"strings"
	"testing"

	"sim16/assembler"
	"sim16/cpu"
)

// assembleAndMatchHex assembles the source and compares the object image
// against the expected hex string.
func assembleAndMatchHex(t *testing.T, src, want string) {
	t.Helper()
	code, err := assembler.New().Assemble(src)
	if err != nil {
		t.Fatalf("assembly failed: %v", err)
	}
	if got := hex.EncodeToString(code); got != want {
		t.Errorf("%q assembled to %s, want %s", src, got, want)
	}
}

func TestEncoding(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"add registers", "add r1, r2", "0448"},
		{"add immediate", "add r1, #5", "0045"},
		{"sub negative immediate", "sub r2, #-1", "20bf"},
		{"and high registers", "and r10, r11", "46ac"},
		{"xor bare immediate", "xor r1, 5", "8045"},
		{"shift left", "shift r3, left", "a4c0"},
		{"shift right short form", "shift r3, r", "a0c0"},
		{"move immediate to register", "move r1, #10", "c04a"},
		{"move memory to register", "move r2, (r3)", "c48c"},
		{"move immediate to memory", "move (r4), #-3", "d13d"},
		{"move register to memory", "move (r5), r6", "d558"},
		{"jump", "jump r7", "e1c0"},
		{"branch literal displacement", "beq r1, #3", "e443"},
		{"branch extreme fields", "bge r15, #-32", "fbe0"},
		{"uppercase mnemonics", "ADD R1, R2", "0448"},
		{"comment only line", "; nothing here\nadd r1, #5", "0045"},
		{"backward label", "loop: add r0, #1\nbne r0, loop", "0001e83f"},
		{"forward label", "beq r1, done\nadd r0, #1\ndone: add r0, #2", "e44200010002"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assembleAndMatchHex(t, tc.src, tc.want)
		})
	}
}

func TestLabelOnOwnLine(t *testing.T) {
	assembleAndMatchHex(t, "loop:\nadd r0, #1\nbne r0, loop", "0001e83f")
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unknown mnemonic", "frobnicate r1, r2"},
		{"register out of range", "add r16, #1"},
		{"immediate too large", "add r1, #32"},
		{"immediate too small", "add r1, #-33"},
		{"move memory to memory", "move (r1), (r2)"},
		{"move register to register", "move r1, r2"},
		{"jump with two operands", "jump r1, r2"},
		{"shift bad direction", "shift r1, up"},
		{"undefined label", "beq r1, nowhere"},
		{"duplicate label", "here:\nhere:\nadd r0, #1"},
		{"invalid label name", "9lives: add r0, #1"},
		{"missing operand", "add r1"},
		{"branch out of range", "beq r1, far\n" + strings.Repeat("add r0, #0\n", 40) + "far: add r0, #0"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := assembler.New().Assemble(tc.src); err == nil {
				t.Errorf("expected an error for %q", tc.src)
			}
		})
	}
}

// TestRoundTrip assembles a small program and runs it: sum the integers 5
// down to 1, store the result through the cache and read it back.
func TestRoundTrip(t *testing.T) {
	src := `
; sum the integers 5..1 into r2
start:  move r1, #5
        move r2, #0
loop:   add r2, r1
        sub r1, #1
        bne r1, loop
        move (r3), r2   ; r3 is zero, so this lands at address 0
        move r4, (r3)   ; read it back through the cache
`
	code, err := assembler.New().Assemble(src)
	if err != nil {
		t.Fatalf("assembly failed: %v", err)
	}

	m, err := cpu.New(cpu.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	m.LoadCode(code)
	if final := m.Run(); final != cpu.PhaseIllegalOpcode {
		t.Fatalf("expected the run to stop on the filler word, got %v", final)
	}

	if m.R[2] != 15 {
		t.Errorf("R2 = %d, want 15", m.R[2])
	}
	if m.R[4] != 15 {
		t.Errorf("R4 = %d, want 15", m.R[4])
	}
	if got := m.Data.Word(0); got != 15 {
		t.Errorf("data[0] = %d, want 15", got)
	}
	if m.Branches != 4 {
		t.Errorf("Branches = %d, want 4", m.Branches)
	}
	if m.Cache.Hits() != 1 || m.Cache.Accesses() != 2 {
		t.Errorf("cache = %d hits of %d accesses, want 1 of 2", m.Cache.Hits(), m.Cache.Accesses())
	}
}
