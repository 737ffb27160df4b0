package assemble

import (
	"strconv"
	"strings"

	"github.com/tamattias/assembler/internal/diag"
	"github.com/tamattias/assembler/internal/encword"
	"github.com/tamattias/assembler/internal/lex"
)

const passSecond = "secondpass"

// SecondPass resolves every instruction's symbol operands and the
// file's .entry directives against the symbol table FirstPass built. It
// mutates state's CodeSeg in place (filling in the two reserved words
// per resolved direct/index operand) and populates state.Entries and
// state.Externals.
func SecondPass(state *State, source string) *diag.List {
	errs := &diag.List{}

	for _, meta := range state.Instructions {
		completeInstruction(state, meta, errs)
	}

	lineNo := 0
	for _, rawLine := range strings.Split(source, "\n") {
		lineNo++
		field, head := lex.ReadField(rawLine)

		if field != "" && field[0] == ';' {
			if len(field) > 1 && field[1] == '#' {
				if n, err := strconv.Atoi(strings.TrimSpace(field[2:])); err == nil {
					// The next line is source line n.
					lineNo = n - 1
				}
			}
			continue
		}

		if strings.HasSuffix(field, ":") {
			field, head = lex.ReadField(head)
		}

		if field != ".entry" {
			continue
		}

		processEntryDirective(state, lineNo, head, errs)
	}

	return errs
}

// completeInstruction fills the two extra words reserved for a direct or
// index operand's resolved symbol. Per the original tool, the writes
// always land at meta.Address+2 and meta.Address+3 regardless of which
// operand (first or second) carried the label — an instruction with two
// such operands has the second overwrite the first.
func completeInstruction(state *State, meta InstMeta, errs *diag.List) {
	for i := 0; i < meta.NumOperands; i++ {
		label := meta.OperandSymbols[i]
		if label == "" {
			continue
		}

		sym := state.Symbols.Find(label)
		if sym == nil {
			errs.Add(diag.New(passSecond, meta.Line, diag.KindSemantics, "undefined label: %s", label))
			continue
		}

		baseAddrPos := meta.Address + 2
		offsetPos := meta.Address + 3

		if sym.Ext {
			state.CodeSeg[baseAddrPos-codeBase] = encword.ExtraWord(0, encword.ERA{External: true})
			state.CodeSeg[offsetPos-codeBase] = encword.ExtraWord(0, encword.ERA{External: true})
			state.Externals.Insert(label, baseAddrPos, offsetPos)
			continue
		}

		state.CodeSeg[baseAddrPos-codeBase] = encword.ExtraWord(sym.BaseAddr, encword.ERA{Relocatable: true})
		state.CodeSeg[offsetPos-codeBase] = encword.ExtraWord(sym.Offset, encword.ERA{Relocatable: true})
	}
}

func processEntryDirective(state *State, lineNo int, head string, errs *diag.List) {
	name, _ := lex.ReadField(head)
	if name == "" {
		errs.Add(diag.New(passSecond, lineNo, diag.KindSyntax, ".entry directive missing label reference."))
		return
	}

	sym := state.Symbols.Find(name)
	if sym == nil {
		errs.Add(diag.New(passSecond, lineNo, diag.KindSemantics, "entry label %s was never defined.", name))
		return
	}

	state.Entries.Insert(name, sym.BaseAddr, sym.Offset)
}
