// Package encword packs and unpacks the four kinds of machine words this
// assembler emits, per the standardized ERA bit layout (E=16, R=17, A=18)
// confirmed against the corrected instruction-set header, not the earlier
// variant where R and A aliased the same bit.
package encword

// Word is a 20-bit machine word held in a wider signed type, matching the
// original tool's "long" word_t.
type Word int32

// ERA flags, orthogonal and individually settable.
type ERA struct {
	External    bool
	Relocatable bool
	Absolute    bool
}

func (e ERA) bits() Word {
	var w Word
	if e.External {
		w |= 1 << 16
	}
	if e.Relocatable {
		w |= 1 << 17
	}
	if e.Absolute {
		w |= 1 << 18
	}
	return w
}

// OpcodeWord builds the first code word of an instruction: a one-hot
// opcode bit plus ERA flags.
func OpcodeWord(opcode int, era ERA) Word {
	return Word(1<<uint(opcode)) | era.bits()
}

// RegFunctWord builds the second code word of an instruction: addressing
// modes and registers for both operand slots, the funct code, and ERA
// flags.
func RegFunctWord(dstMode, dstReg, srcMode, srcReg, funct int, era ERA) Word {
	return (Word(dstMode) & 0x3) |
		((Word(dstReg) & 0xFF) << 2) |
		((Word(srcMode) & 0x3) << 6) |
		((Word(srcReg) & 0xFF) << 8) |
		((Word(funct) & 0xFF) << 12) |
		era.bits()
}

// ExtraWord builds an additional code word carrying an immediate value
// or a resolved symbol's base/offset component, plus ERA flags.
func ExtraWord(value int32, era ERA) Word {
	return (Word(value) & 0xFFFF) | era.bits()
}

// DataWord builds one word of a .data/.string segment; the Absolute flag
// is always set for data words.
func DataWord(datum int32) Word {
	return (Word(datum) & 0xFFFF) | (1 << 18)
}

// Opcode returns the bit position (0-15) of the set opcode bit in a
// first instruction word, mirroring INST_OPCODE's role at the encoding
// layer. The passes do not call it; they carry opcode/funct from
// isa.Desc directly.
func Opcode(w Word) int {
	for i := 0; i < 16; i++ {
		if w&(1<<uint(i)) != 0 {
			return i
		}
	}
	return -1
}
