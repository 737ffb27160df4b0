// Package isa holds the fixed instruction-set catalog: the sixteen
// mnemonics, their opcode/funct pairs, operand counts, and the legal
// addressing modes per operand.
package isa

// AddrMode is a bitmask of legal addressing modes for an operand.
type AddrMode int

const (
	Immediate      AddrMode = 1 << 0
	Direct         AddrMode = 1 << 1
	Index          AddrMode = 1 << 2
	RegisterDirect AddrMode = 1 << 3
)

// All is the bitmask containing every addressing mode.
const All = Immediate | Direct | Index | RegisterDirect

// Index returns the machine-encoding index for a single addressing mode
// flag (not a mask): Immediate=0, Direct=1, Index=2, RegisterDirect=3.
func (m AddrMode) Index() int {
	switch m {
	case Immediate:
		return 0
	case Direct:
		return 1
	case Index:
		return 2
	case RegisterDirect:
		return 3
	default:
		return -1
	}
}

// Desc describes one mnemonic: its opcode/funct pair, operand count, and
// the legal addressing modes for each operand (only the first
// NumOperands entries of AddrModes are meaningful).
type Desc struct {
	Mnemonic    string
	Opcode      int
	Funct       int
	NumOperands int
	AddrModes   [2]AddrMode
}

var catalog = []Desc{
	{"mov", 0, 0, 2, [2]AddrMode{All, All &^ Immediate}},
	{"cmp", 1, 0, 2, [2]AddrMode{All, All}},
	{"add", 2, 10, 2, [2]AddrMode{All, All &^ Immediate}},
	{"sub", 2, 11, 2, [2]AddrMode{All, All &^ Immediate}},
	{"lea", 4, 0, 2, [2]AddrMode{Direct | Index, All &^ Immediate}},
	{"clr", 5, 10, 1, [2]AddrMode{All &^ Immediate}},
	{"not", 5, 11, 1, [2]AddrMode{All &^ Immediate}},
	{"inc", 5, 12, 1, [2]AddrMode{All &^ Immediate}},
	{"dec", 5, 13, 1, [2]AddrMode{All &^ Immediate}},
	{"jmp", 9, 10, 1, [2]AddrMode{Direct | Index}},
	{"bne", 9, 11, 1, [2]AddrMode{Direct | Index}},
	{"jsr", 9, 12, 1, [2]AddrMode{Direct | Index}},
	{"red", 12, 0, 1, [2]AddrMode{All &^ Immediate}},
	{"prn", 13, 0, 1, [2]AddrMode{All}},
	{"rts", 14, 0, 0, [2]AddrMode{}},
	{"stop", 15, 0, 0, [2]AddrMode{}},
}

var byMnemonic = func() map[string]*Desc {
	m := make(map[string]*Desc, len(catalog))
	for i := range catalog {
		m[catalog[i].Mnemonic] = &catalog[i]
	}
	return m
}()

// Find looks up a mnemonic's description. It returns nil if mne names no
// instruction in the catalog.
func Find(mne string) *Desc {
	return byMnemonic[mne]
}
