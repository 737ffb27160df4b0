package assemble

import (
	"fmt"
	"strings"

	"github.com/tamattias/assembler/internal/encword"
)

// ObjectFile renders the ".ob" output: a header giving the code and data
// segment lengths, followed by one line per word in the final address
// space (code segment first, starting at codeBase, then the data
// segment immediately after it), each word split into five hex nibbles
// labeled A (most significant) through E (least significant).
func ObjectFile(state *State) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%d %d\n", state.CodeLen(), state.DataLen())

	addr := int32(codeBase)
	for _, w := range state.CodeSeg {
		writeWordLine(&sb, addr, w)
		addr++
	}
	for _, w := range state.DataSeg {
		writeWordLine(&sb, addr, w)
		addr++
	}

	return sb.String()
}

func writeWordLine(sb *strings.Builder, addr int32, w encword.Word) {
	v := uint32(w)
	fmt.Fprintf(sb, "%04d A%X-B%X-C%X-D%X-E%X\n",
		addr,
		(v>>16)&0xF,
		(v>>12)&0xF,
		(v>>8)&0xF,
		(v>>4)&0xF,
		v&0xF,
	)
}

// EntriesFile renders the ".ent" output, one "<label>,<base_addr>,<offset>"
// line per .entry directive, in the order they were processed.
func EntriesFile(state *State) string {
	var sb strings.Builder
	for _, e := range state.Entries.Entries() {
		fmt.Fprintf(&sb, "%s,%d,%d\n", e.Label, e.BaseAddr, e.Offset)
	}
	return sb.String()
}

// ExternalsFile renders the ".ext" output: for every external reference
// use site, a BASE line then an OFFSET line, emitted in reverse
// resolution order (matching the original tool's head-insertion linked
// list) with a blank line separating distinct use sites but not
// trailing the last one.
func ExternalsFile(state *State) string {
	refs := state.Externals.ReverseEntries()

	var sb strings.Builder
	for i, ref := range refs {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "%s BASE %d\n", ref.Symbol, ref.BaseAddrWord)
		fmt.Fprintf(&sb, "%s OFFSET %d\n", ref.Symbol, ref.OffsetWord)
	}
	return sb.String()
}
