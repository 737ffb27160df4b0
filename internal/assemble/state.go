// Package assemble implements the first and second passes over an
// expanded source file, the shared state they hand off through, and the
// per-file driver that ties preprocessing and both passes together.
package assemble

import (
	"github.com/tamattias/assembler/internal/config"
	"github.com/tamattias/assembler/internal/encword"
	"github.com/tamattias/assembler/internal/symtab"
)

// codeBase is the absolute word address at which the code segment is
// loaded.
const codeBase = 100

// InstMeta records one encoded instruction for the second pass: where
// its first word landed, how many operands it has, which label (if any)
// each operand referenced, and the source line it came from (so the
// second pass can report diagnostics against the right line).
type InstMeta struct {
	Address        int32
	NumOperands    int
	OperandSymbols [2]string
	Line           int
}

// State is the shared assembly state for a single input file: the two
// segments, the instruction metadata produced by the first pass, the
// symbol table, and the three auxiliary ledgers (data-symbol fix-ups,
// entry points, externals).
type State struct {
	Cfg          *config.Config
	CodeSeg      []encword.Word
	DataSeg      []encword.Word
	Symbols      *symtab.Table
	Instructions []InstMeta

	fixups    symtab.FixupList
	Entries   symtab.EntryList
	Externals symtab.ExternalList
}

// NewState creates an empty shared state ready for a first pass.
func NewState(cfg *config.Config) *State {
	return &State{
		Cfg:     cfg,
		Symbols: symtab.New(),
	}
}

// CodeLen returns the current code segment length.
func (s *State) CodeLen() int32 {
	return int32(len(s.CodeSeg))
}

// DataLen returns the current data segment length.
func (s *State) DataLen() int32 {
	return int32(len(s.DataSeg))
}

func (s *State) capacity() int32 {
	return int32(s.Cfg.Limits.SegmentCapacity)
}
