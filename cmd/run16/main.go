package main

import (
	"fmt"
	"os"

	"sim16/cpu"
)

// run16 loads an object file and a hex data file, runs the simulator to a
// terminal state, and reports cache statistics plus the final data memory.
// A run that ends in a terminal error state is still a successful run; only
// unreadable input files exit non-zero.
func main() {
	if len(os.Args) != 3 {
		fmt.Fprintf(os.Stderr, "Usage: %s <objectfile> <datafile>\n", os.Args[0])
		os.Exit(1)
	}

	m, err := cpu.New(cpu.DefaultConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	code, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading object file: %v\n", err)
		os.Exit(1)
	}
	m.LoadCode(code)

	df, err := os.Open(os.Args[2])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading data file: %v\n", err)
		os.Exit(1)
	}
	err = m.LoadData(df)
	df.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading data file: %v\n", err)
		os.Exit(1)
	}

	switch m.Run() {
	case cpu.PhaseIllegalOpcode:
		fmt.Printf("Illegal instruction %02x%02x detected at address %04x\n\n",
			m.IR[0], m.IR[1], m.PC)
	case cpu.PhaseInfiniteLoop:
		fmt.Printf("Possible infinite loop detected with instruction %02x%02x at address %04x\n\n",
			m.IR[0], m.IR[1], m.PC)
	case cpu.PhaseIllegalAddress:
		fmt.Printf("Illegal address %04x detected with instruction %02x%02x at address %04x\n\n",
			m.MAR, m.IR[0], m.IR[1], m.PC)
	}

	fmt.Printf("There were a total of %d cache hits and %d cache misses, for a hit rate of %.3f.\n\n",
		m.Cache.Hits(), m.Cache.Misses(), m.Cache.HitRate())

	m.DumpData(os.Stdout)
}
