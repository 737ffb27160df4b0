package assemble

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tamattias/assembler/internal/config"
	"github.com/tamattias/assembler/internal/diag"
	"github.com/tamattias/assembler/internal/encword"
	"github.com/tamattias/assembler/internal/isa"
	"github.com/tamattias/assembler/internal/lex"
)

const passFirst = "firstpass"

type firstPassState struct {
	ic      int32
	lineNo  int
	labeled bool
	label   string
}

// FirstPass lexes, parses, and partially encodes an expanded source
// file's lines, building the symbol table and laying out both segments.
// It returns the populated State (usable by SecondPass only if the
// returned diagnostics contain no errors) and the diagnostics collected.
func FirstPass(cfg *config.Config, source string) (*State, *diag.List) {
	state := NewState(cfg)
	errs := &diag.List{}

	fp := &firstPassState{ic: codeBase}

	for _, rawLine := range strings.Split(source, "\n") {
		fp.lineNo++
		processFirstPassLine(state, fp, rawLine, errs)
	}

	state.fixups.Apply(fp.ic)

	return state, errs
}

func processFirstPassLine(state *State, fp *firstPassState, rawLine string, errs *diag.List) {
	field, head := lex.ReadField(rawLine)

	if field == "" {
		return
	}

	if field[0] == ';' {
		if len(field) > 1 && field[1] == '#' {
			if n, err := strconv.Atoi(strings.TrimSpace(field[2:])); err == nil {
				// The next line is source line n.
				fp.lineNo = n - 1
			}
		}
		return
	}

	fp.labeled = false
	fp.label = ""

	if strings.HasSuffix(field, ":") {
		label, ok := parseLabelField(state, fp.lineNo, field, errs)
		if !ok {
			return
		}
		fp.labeled = true
		fp.label = label
		field, head = lex.ReadField(head)
	}

	switch {
	case strings.HasPrefix(field, "."):
		processDirective(state, fp, field[1:], head, errs)
	case field != "":
		processInstruction(state, fp, field, head, errs)
	default:
		if fp.labeled {
			defineLabelHere(state, fp, errs)
		}
	}
}

func parseLabelField(state *State, lineNo int, field string, errs *diag.List) (string, bool) {
	name := field[:len(field)-1]

	if name == "" {
		errs.Add(diag.New(passFirst, lineNo, diag.KindSyntax, "label is empty."))
		return "", false
	}
	if len(name) > state.Cfg.Limits.MaxLabelLength {
		errs.Add(diag.New(passFirst, lineNo, diag.KindSyntax,
			"label is too long (max number of characters in a label is %d).", state.Cfg.Limits.MaxLabelLength))
		return "", false
	}
	for _, c := range name {
		if !isAlnum(byte(c)) {
			errs.Add(diag.New(passFirst, lineNo, diag.KindSyntax,
				"invalid character '%c' in label (only alphanumeric characters allowed)", c))
			return "", false
		}
	}
	if state.Symbols.Find(name) != nil {
		errs.Add(diag.New(passFirst, lineNo, diag.KindSyntax, "label %s already defined.", name))
		return "", false
	}

	return name, true
}

func defineLabelHere(state *State, fp *firstPassState, errs *diag.List) {
	if state.Symbols.Define(fp.label, fp.ic, false) == nil {
		errs.Add(diag.New(passFirst, fp.lineNo, diag.KindSyntax, "label %s already defined.", fp.label))
	}
}

func processDirective(state *State, fp *firstPassState, name string, head string, errs *diag.List) {
	switch name {
	case "data":
		processDataDirective(state, fp, head, errs)
	case "string":
		processStringDirective(state, fp, head, errs)
	case "extern":
		processExternDirective(state, fp, head, errs)
	case "entry":
		// Ignored in the first pass.
	default:
		errs.Add(diag.New(passFirst, fp.lineNo, diag.KindSyntax, "unrecognized directive %s", name))
	}
}

func processDataDirective(state *State, fp *firstPassState, head string, errs *diag.List) {
	rest := strings.TrimLeft(head, " \t")
	if lex.IsEOL(firstRune(rest)) {
		errs.Add(diag.New(passFirst, fp.lineNo, diag.KindSyntax, "missing data after data directive."))
		return
	}

	values, ok := parseDataArray(rest)
	if !ok {
		errs.Add(diag.New(passFirst, fp.lineNo, diag.KindSyntax, "invalid data after data directive."))
		return
	}
	if len(values) == 0 {
		errs.Add(diag.New(passFirst, fp.lineNo, diag.KindSyntax, "no data after data directive."))
		return
	}
	if state.DataLen()+int32(len(values)) > state.capacity() {
		errs.Add(diag.New(passFirst, fp.lineNo, diag.KindCapacity, "data overflow; no more room in data segment."))
		return
	}

	for _, v := range values {
		state.DataSeg = append(state.DataSeg, encword.DataWord(v))
	}

	if fp.labeled {
		sym := state.Symbols.Define(fp.label, state.DataLen()-int32(len(values)), false)
		if sym == nil {
			errs.Add(diag.New(passFirst, fp.lineNo, diag.KindSyntax, "label %s already defined.", fp.label))
			return
		}
		state.fixups.Insert(sym)
	}
}

func parseDataArray(rest string) ([]int32, bool) {
	var values []int32
	for _, tok := range strtokSplit(rest) {
		n, ok := lex.ParseNumber(tok)
		if !ok {
			return nil, false
		}
		values = append(values, int32(n))
	}
	return values, true
}

func processStringDirective(state *State, fp *firstPassState, head string, errs *diag.List) {
	rest := strings.TrimLeft(head, " \t")
	if lex.IsEOL(firstRune(rest)) {
		errs.Add(diag.New(passFirst, fp.lineNo, diag.KindSyntax, "missing string data after string directive."))
		return
	}
	if rest[0] != '"' {
		errs.Add(diag.New(passFirst, fp.lineNo, diag.KindSyntax, "string data missing opening double quotes."))
		return
	}

	startAddr := state.DataLen()
	i := 1
	terminated := false
	for i < len(rest) {
		c := rest[i]
		if c == '"' {
			terminated = true
			i++
			break
		}
		if state.DataLen()+1 > state.capacity() {
			errs.Add(diag.New(passFirst, fp.lineNo, diag.KindCapacity, "data overflow; no more room in data segment."))
			return
		}
		state.DataSeg = append(state.DataSeg, encword.DataWord(int32(c)))
		i++
	}

	if !terminated {
		errs.Add(diag.New(passFirst, fp.lineNo, diag.KindSyntax, "string data missing closing double quotes."))
		return
	}

	state.DataSeg = append(state.DataSeg, encword.DataWord(0))

	if fp.labeled {
		sym := state.Symbols.Define(fp.label, startAddr, false)
		if sym == nil {
			errs.Add(diag.New(passFirst, fp.lineNo, diag.KindSyntax, "label %s already defined.", fp.label))
			return
		}
		state.fixups.Insert(sym)
	}
}

func processExternDirective(state *State, fp *firstPassState, head string, errs *diag.List) {
	name, _ := lex.ReadField(head)
	if name == "" {
		errs.Add(diag.New(passFirst, fp.lineNo, diag.KindSyntax, ".extern directive missing label reference."))
		return
	}
	if state.Symbols.Define(name, 0, true) == nil {
		errs.Add(diag.New(passFirst, fp.lineNo, diag.KindSyntax, "label %s already defined.", name))
	}
}

// operand holds one parsed instruction operand.
type operand struct {
	mode  isa.AddrMode
	label string
	value int32 // immediate value, or register number for register/index modes
}

type operandResult int

const (
	operandOK operandResult = iota
	operandBad
	operandEmpty
)

func processInstruction(state *State, fp *firstPassState, mnemonic string, head string, errs *diag.List) {
	desc := isa.Find(mnemonic)
	if desc == nil {
		errs.Add(diag.New(passFirst, fp.lineNo, diag.KindSemantics, "bad instruction mnemonic: %s", mnemonic))
		return
	}

	ops, errMsg := processOperands(head, state.Cfg.Limits.MaxLabelLength)
	if errMsg != "" {
		errs.Add(diag.New(passFirst, fp.lineNo, diag.KindSyntax, "%s", errMsg))
		return
	}

	if desc.NumOperands != len(ops) {
		errs.Add(diag.New(passFirst, fp.lineNo, diag.KindSemantics,
			"incorrect number of operands (expected %d, got %d)", desc.NumOperands, len(ops)))
		return
	}

	if int32(len(state.Instructions)) >= state.capacity() {
		errs.Add(diag.New(passFirst, fp.lineNo, diag.KindCapacity, "too many instructions."))
		return
	}

	meta := InstMeta{Address: fp.ic, NumOperands: desc.NumOperands, Line: fp.lineNo}

	if state.CodeLen() >= state.capacity() {
		errs.Add(diag.New(passFirst, fp.lineNo, diag.KindCapacity, "code segment overflow."))
		return
	}
	state.CodeSeg = append(state.CodeSeg, encword.OpcodeWord(desc.Opcode, encword.ERA{Absolute: true}))
	fp.ic++

	if len(ops) > 0 {
		if state.CodeLen() >= state.capacity() {
			errs.Add(diag.New(passFirst, fp.lineNo, diag.KindCapacity, "code segment overflow."))
			return
		}

		for i, op := range ops {
			if desc.AddrModes[i]&op.mode == 0 {
				errs.Add(diag.New(passFirst, fp.lineNo, diag.KindSemantics,
					"operand %d has invalid addressing mode.", i+1))
				return
			}
			if op.mode == isa.Direct || op.mode == isa.Index {
				meta.OperandSymbols[i] = op.label
			}
		}

		srcReg, dstReg := 0, 0
		dstMode := ops[0].mode
		srcMode := isa.AddrMode(0)
		if len(ops) == 1 {
			if ops[0].mode == isa.Index || ops[0].mode == isa.RegisterDirect {
				dstReg = int(ops[0].value)
			}
		} else {
			dstMode = ops[1].mode
			srcMode = ops[0].mode
			if ops[0].mode == isa.Index || ops[0].mode == isa.RegisterDirect {
				srcReg = int(ops[0].value)
			}
			if ops[1].mode == isa.Index || ops[1].mode == isa.RegisterDirect {
				dstReg = int(ops[1].value)
			}
		}

		state.CodeSeg = append(state.CodeSeg, encword.RegFunctWord(
			dstMode.Index(), dstReg, srcMode.Index(), srcReg, desc.Funct, encword.ERA{Absolute: true}))
		fp.ic++

		if !writeExtraWords(state, fp, ops[0], errs) {
			return
		}
		if len(ops) > 1 {
			if !writeExtraWords(state, fp, ops[1], errs) {
				return
			}
		}
	}

	state.Instructions = append(state.Instructions, meta)

	if fp.labeled {
		if state.Symbols.Define(fp.label, meta.Address, false) == nil {
			errs.Add(diag.New(passFirst, fp.lineNo, diag.KindSyntax, "label %s already defined.", fp.label))
		}
	}
}

func writeExtraWords(state *State, fp *firstPassState, op operand, errs *diag.List) bool {
	switch op.mode {
	case isa.Immediate:
		if state.CodeLen() >= state.capacity() {
			errs.Add(diag.New(passFirst, fp.lineNo, diag.KindCapacity, "code segment overflow."))
			return false
		}
		value := op.value
		if state.Cfg.Numeric.OverflowPolicy == config.OverflowReject && (value < -32768 || value > 32767) {
			errs.Add(diag.New(passFirst, fp.lineNo, diag.KindSemantics,
				"immediate value %d out of range for 16-bit field.", value))
			return false
		}
		state.CodeSeg = append(state.CodeSeg, encword.ExtraWord(value, encword.ERA{Absolute: true}))
		fp.ic++

	case isa.Direct, isa.Index:
		if state.CodeLen()+1 >= state.capacity() {
			errs.Add(diag.New(passFirst, fp.lineNo, diag.KindCapacity, "code segment overflow."))
			return false
		}
		state.CodeSeg = append(state.CodeSeg, 0, 0)
		fp.ic += 2

	case isa.RegisterDirect:
		// No extra words needed, register is encoded in the second word.
	}
	return true
}

func processOperands(head string, maxLabelLen int) ([]operand, string) {
	toks := strtokSplit(head)
	var ops []operand

	for idx, tok := range toks {
		if len(ops) >= 2 {
			return nil, "too many operands."
		}

		result, op, errMsg := parseOperand(tok, maxLabelLen)
		if result == operandBad {
			return nil, errMsg
		}
		if result == operandEmpty {
			if idx != len(toks)-1 {
				return nil, "empty operand before a following operand."
			}
			break
		}

		ops = append(ops, op)
	}

	return ops, ""
}

func parseOperand(tok string, maxLabelLen int) (operandResult, operand, string) {
	s := strings.TrimLeft(tok, " \t")
	if s == "" {
		return operandEmpty, operand{}, ""
	}

	if s[0] == '#' {
		n, ok := lex.ParseNumber(s[1:])
		if !ok {
			return operandBad, operand{}, "could not parse immediate number in operand."
		}
		return operandOK, operand{mode: isa.Immediate, value: int32(n)}, ""
	}

	if s[0] == 'r' {
		if n, ok := lex.ParseNumber(s[1:]); ok {
			return operandOK, operand{mode: isa.RegisterDirect, value: int32(n)}, ""
		}
	}

	pos := 0
	for pos < len(s) && isAlnum(s[pos]) {
		if pos >= maxLabelLen {
			return operandBad, operand{}, "label too long."
		}
		pos++
	}
	label := s[:pos]

	if pos >= len(s) {
		if label == "" {
			return operandBad, operand{}, "label is empty."
		}
		return operandOK, operand{mode: isa.Direct, label: label}, ""
	}

	c := s[pos]
	if c != ' ' && c != '\t' && c != '[' {
		return operandBad, operand{}, fmt.Sprintf("invalid label (non-alphanumeric character: '%c').", c)
	}

	remainder := strings.TrimLeft(s[pos:], " \t")
	if remainder == "" {
		if label == "" {
			return operandBad, operand{}, "label is empty."
		}
		return operandOK, operand{mode: isa.Direct, label: label}, ""
	}
	if remainder[0] != '[' {
		return operandBad, operand{}, "direct addressing operand has extraneous characters."
	}

	reg, ok := parseIndexSubscript(remainder)
	if !ok {
		return operandBad, operand{}, "could not read register value from brackets."
	}
	if reg < 0 || reg > 15 {
		return operandBad, operand{}, fmt.Sprintf("register value out of range: %d (must be between 0 and 15)", reg)
	}

	return operandOK, operand{mode: isa.Index, label: label, value: int32(reg)}, ""
}

func parseIndexSubscript(s string) (int, bool) {
	if len(s) < 4 || s[1] != 'r' {
		return 0, false
	}
	i := 2
	start := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == start || i >= len(s) || s[i] != ']' {
		return 0, false
	}
	n, err := strconv.Atoi(s[start:i])
	if err != nil {
		return 0, false
	}
	return n, true
}

// strtokSplit mimics C's strtok(str, ","): consecutive commas collapse
// without producing empty tokens, and leading/trailing commas are
// ignored. Unlike strtok, a token that is purely whitespace IS preserved
// (comma is the only delimiter), so it reaches parseOperand as an empty
// operand: processOperands reports it when another operand follows it
// and ignores it when it is the last token.
func strtokSplit(s string) []string {
	var toks []string
	i := 0
	for i < len(s) {
		for i < len(s) && s[i] == ',' {
			i++
		}
		if i >= len(s) {
			break
		}
		start := i
		for i < len(s) && s[i] != ',' {
			i++
		}
		toks = append(toks, s[start:i])
	}
	return toks
}

func isAlnum(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func firstRune(s string) rune {
	if s == "" {
		return 0
	}
	return rune(s[0])
}
