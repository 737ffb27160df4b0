// Command assembler is the two-pass assembler's command-line driver: it
// assembles one or more basenames into object, entries, and externals
// files, exiting non-zero if any of them failed.
package main

import (
	"fmt"
	"os"

	"github.com/tamattias/assembler/internal/assemble"
	"github.com/tamattias/assembler/internal/config"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: assembler <basename> [<basename> ...]")
		return 1
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "assembler: %v\n", err)
		return 1
	}

	if _, allOK := assemble.AssembleFiles(cfg, args); !allOK {
		return 1
	}
	return 0
}
