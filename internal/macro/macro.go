// Package macro implements the assembler's preprocessor: it expands
// "macro NAME" / "endm" blocks inline wherever NAME is later referenced,
// and returns the expanded source (the driver writes it to the .am file).
// Each macro definition and each expansion is followed by a ";#N"
// line-number-reset marker naming the source line that comes next, so the
// first and second passes can still report errors against the original
// .as source line numbers.
package macro

import (
	"fmt"
	"strings"

	"github.com/tamattias/assembler/internal/diag"
	"github.com/tamattias/assembler/internal/lex"
)

// Table maps macro names to their body lines, substitution-free (this
// assembly language's macros take no parameters).
type Table struct {
	macros map[string][]string
}

// NewTable creates an empty macro table.
func NewTable() *Table {
	return &Table{macros: make(map[string][]string)}
}

// Define records a macro's body. It returns false if name is already
// defined.
func (t *Table) Define(name string, body []string) bool {
	if _, exists := t.macros[name]; exists {
		return false
	}
	t.macros[name] = body
	return true
}

// Lookup returns a macro's body lines and whether it exists.
func (t *Table) Lookup(name string) ([]string, bool) {
	body, ok := t.macros[name]
	return body, ok
}

// Preprocess expands macro/endm blocks in source (one file's lines,
// newline-separated) and returns the expanded text plus any diagnostics.
// A non-nil *diag.List with HasErrors() true means the file should not
// proceed to the first pass.
func Preprocess(pass string, source string) (string, *diag.List) {
	table := NewTable()
	errs := &diag.List{}

	var out strings.Builder
	lines := strings.Split(source, "\n")

	inMacro := false
	var macroName string
	var macroBody []string
	macroStartLine := 0

	for i, rawLine := range lines {
		// strings.Split leaves a trailing empty element whenever source
		// ends in "\n" (true of essentially every real .as file); it is
		// not a line the file actually has, so skip it rather than
		// re-emitting a blank line that wasn't there.
		if i == len(lines)-1 && rawLine == "" {
			continue
		}

		lineNo := i + 1
		field, rest := lex.ReadField(rawLine)

		if inMacro {
			if field == "endm" {
				table.Define(macroName, macroBody)
				inMacro = false
				macroBody = nil
				out.WriteString(fmt.Sprintf(";#%d\n", lineNo+1))
				continue
			}
			macroBody = append(macroBody, rawLine)
			continue
		}

		if field == "macro" {
			name, nameRest := lex.ReadField(rest)
			if name == "" {
				errs.Add(diag.New(pass, lineNo, diag.KindMacro, "macro missing name, ignoring line"))
				continue
			}
			if !lex.IsWhitespaceString(nameRest) {
				errs.Add(diag.New(pass, lineNo, diag.KindMacro, "extraneous text after macro name, ignoring line"))
				continue
			}
			inMacro = true
			macroName = name
			macroStartLine = lineNo
			macroBody = nil
			continue
		}

		if field != "" {
			if body, ok := table.Lookup(field); ok {
				for _, bodyLine := range body {
					out.WriteString(bodyLine)
					out.WriteByte('\n')
				}
				out.WriteString(fmt.Sprintf(";#%d\n", lineNo+1))
				continue
			}
		}

		out.WriteString(rawLine)
		out.WriteByte('\n')
	}

	if inMacro {
		errs.Add(diag.New(pass, macroStartLine, diag.KindMacro, "macro %q missing endm", macroName))
	}

	return out.String(), errs
}
