package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"sim16/assembler"
)

func main() {
	if len(os.Args) < 2 || len(os.Args) > 3 {
		fmt.Fprintf(os.Stderr, "Usage: %s <source.asm> [outputfile]\n", os.Args[0])
		os.Exit(1)
	}

	src, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading source file: %v\n", err)
		os.Exit(1)
	}

	code, err := assembler.New().Assemble(string(src))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Assembly error: %v\n", err)
		os.Exit(1)
	}

	out := ""
	if len(os.Args) == 3 {
		out = os.Args[2]
	} else {
		// Default to the source name with a .o extension.
		out = strings.TrimSuffix(os.Args[1], filepath.Ext(os.Args[1])) + ".o"
	}

	if err := os.WriteFile(out, code, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing object file: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Assembly successful. Output written to %s\n", out)
}
