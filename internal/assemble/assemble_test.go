package assemble

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamattias/assembler/internal/config"
	"github.com/tamattias/assembler/internal/macro"
)

func assembleSource(t *testing.T, source string) *State {
	t.Helper()
	cfg := config.DefaultConfig()

	state, errs := FirstPass(cfg, source)
	require.False(t, errs.HasErrors(), "first pass errors: %v", errs)

	errs = SecondPass(state, source)
	require.False(t, errs.HasErrors(), "second pass errors: %v", errs)

	return state
}

func TestEmptyProgramProducesNoWords(t *testing.T) {
	state := assembleSource(t, "\n")
	assert.Equal(t, int32(0), state.CodeLen())
	assert.Equal(t, int32(0), state.DataLen())
}

func TestStopAloneProducesOneCodeWord(t *testing.T) {
	state := assembleSource(t, "\tstop\n")
	require.Equal(t, int32(1), state.CodeLen())
	require.Len(t, state.Instructions, 1)
	assert.Equal(t, 0, state.Instructions[0].NumOperands)
}

func TestLabeledDataDefinesSymbolAtFixedUpAddress(t *testing.T) {
	state := assembleSource(t, "X: .data 5\n")
	assert.Equal(t, int32(1), state.DataLen())

	sym := state.Symbols.Find("X")
	require.NotNil(t, sym)
	assert.Equal(t, int32(codeBase), sym.Address())
}

func TestForwardDirectLabelReferenceProducesFourCodeWords(t *testing.T) {
	source := "MAIN: mov X, r1\nX: .data 7\n"
	state := assembleSource(t, source)

	require.Equal(t, int32(4), state.CodeLen())
	require.Equal(t, int32(1), state.DataLen())

	main := state.Symbols.Find("MAIN")
	require.NotNil(t, main)
	assert.Equal(t, int32(codeBase), main.Address())

	x := state.Symbols.Find("X")
	require.NotNil(t, x)
	assert.Equal(t, int32(codeBase+4), x.Address())
}

func TestExternalReferenceResolvesToExternalExtraWords(t *testing.T) {
	source := ".extern FOO\n\tjmp FOO\n"
	state := assembleSource(t, source)

	require.Equal(t, int32(4), state.CodeLen())
	require.Equal(t, 1, state.Externals.Len())

	refs := state.Externals.ReverseEntries()
	require.Len(t, refs, 1)
	assert.Equal(t, "FOO", refs[0].Symbol)
	assert.Equal(t, int32(codeBase+2), refs[0].BaseAddrWord)
	assert.Equal(t, int32(codeBase+3), refs[0].OffsetWord)

	extFile := ExternalsFile(state)
	assert.Equal(t, "FOO BASE 102\nFOO OFFSET 103\n", extFile)
}

func TestMacroExpansionProducesTwoInstructions(t *testing.T) {
	raw := "macro PRINT1\nprn #1\nendm\nPRINT1\nPRINT1\nstop\n"
	expanded, macroErrs := macro.Preprocess("preprocessor", raw)
	require.False(t, macroErrs.HasErrors())

	cfg := config.DefaultConfig()
	state, errs := FirstPass(cfg, expanded)
	require.False(t, errs.HasErrors(), "%v", errs)

	require.Len(t, state.Instructions, 3)
	assert.Equal(t, 0, state.Instructions[2].NumOperands)
}

func TestEntryDirectiveRecordsBaseAndOffset(t *testing.T) {
	source := "MAIN: stop\n\t.entry MAIN\n"
	state := assembleSource(t, source)

	require.Equal(t, 1, state.Entries.Len())
	entries := state.Entries.Entries()
	assert.Equal(t, "MAIN", entries[0].Label)
	assert.Equal(t, int32(codeBase), entries[0].BaseAddr+entries[0].Offset)
}

func TestLabelLengthBoundary(t *testing.T) {
	cfg := config.DefaultConfig()

	ok := strings.Repeat("A", cfg.Limits.MaxLabelLength)
	_, errs := FirstPass(cfg, ok+": stop\n")
	assert.False(t, errs.HasErrors())

	tooLong := strings.Repeat("A", cfg.Limits.MaxLabelLength+1)
	_, errs = FirstPass(cfg, tooLong+": stop\n")
	assert.True(t, errs.HasErrors())
}

func TestIndexOperandRegisterBounds(t *testing.T) {
	source := "ARR: .data 1, 2, 3\n\tmov ARR[r15], r1\n"
	state := assembleSource(t, source)
	require.Equal(t, int32(4), state.CodeLen())

	_, errs := FirstPass(config.DefaultConfig(), "ARR: .data 1\n\tmov ARR[r16], r1\n")
	assert.True(t, errs.HasErrors())
}

func TestImmediateOperandMagnitude(t *testing.T) {
	state := assembleSource(t, "\tprn #32767\n")
	require.Equal(t, int32(3), state.CodeLen())
}

func TestSegmentCapacityOverflow(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Limits.SegmentCapacity = 2

	var sb strings.Builder
	for i := 0; i < 3; i++ {
		sb.WriteString(".data 1\n")
	}
	_, errs := FirstPass(cfg, sb.String())
	assert.True(t, errs.HasErrors())
}

func TestStrtokSplitCollapsesConsecutiveCommas(t *testing.T) {
	toks := strtokSplit("a,,b, c ,")
	assert.Equal(t, []string{"a", "b", " c "}, toks)
}

func TestObjectFileHeaderAndWordFormat(t *testing.T) {
	state := assembleSource(t, "\tstop\n")
	ob := ObjectFile(state)
	lines := strings.Split(strings.TrimRight(ob, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "1 0", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "0100 "))
}
