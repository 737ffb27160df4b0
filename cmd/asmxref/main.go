// Command asmxref is an interactive cross-reference browser for an
// assembled basename: it lists every symbol the symbol table defines
// and, for the selected symbol, every instruction address that refers
// to it.
package main

import (
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/tamattias/assembler/internal/assemble"
	"github.com/tamattias/assembler/internal/config"
	"github.com/tamattias/assembler/internal/macro"
	"github.com/tamattias/assembler/internal/xref"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: asmxref <basename>")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "asmxref: %v\n", err)
		os.Exit(1)
	}

	basename := os.Args[1]
	state, buildErr := buildReportState(cfg, basename)
	if buildErr != nil {
		fmt.Fprintf(os.Stderr, "asmxref: %v\n", buildErr)
		os.Exit(1)
	}

	report := xref.Build(state, state.Symbols.Names())
	if err := run(report); err != nil {
		fmt.Fprintf(os.Stderr, "asmxref: %v\n", err)
		os.Exit(1)
	}
}

// buildReportState runs only the preprocessor and first pass over
// "<basename>.as" — enough to populate the symbol table and instruction
// metadata a Report needs. It never runs the second pass and never
// writes a ".ob"/".ent"/".ext" file: this is a read-only browsing tool,
// not an assembler invocation.
func buildReportState(cfg *config.Config, basename string) (*assemble.State, error) {
	srcPath := basename + ".as"
	raw, err := os.ReadFile(srcPath) // #nosec G304 -- user-supplied assembly source
	if err != nil {
		return nil, fmt.Errorf("could not open %s: %w", srcPath, err)
	}

	expanded, errs := macro.Preprocess("preprocessor", string(raw))
	if errs.HasErrors() {
		return nil, fmt.Errorf("%s", errs.String())
	}

	state, errs := assemble.FirstPass(cfg, expanded)
	if errs.HasErrors() {
		return nil, fmt.Errorf("%s", errs.String())
	}

	return state, nil
}

func run(report *xref.Report) error {
	app := tview.NewApplication()

	symbolList := tview.NewList().ShowSecondaryText(false)
	symbolList.SetBorder(true).SetTitle(" Symbols ")

	detail := tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	detail.SetBorder(true).SetTitle(" References ")

	for i := range report.Entries {
		e := report.Entries[i]
		symbolList.AddItem(e.Name, "", 0, func() {
			showEntry(detail, e)
		})
	}
	if len(report.Entries) > 0 {
		showEntry(detail, report.Entries[0])
	}

	layout := tview.NewFlex().
		AddItem(symbolList, 0, 1, true).
		AddItem(detail, 0, 2, false)

	layout.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEscape || event.Rune() == 'q' {
			app.Stop()
			return nil
		}
		return event
	})

	return app.SetRoot(layout, true).SetFocus(symbolList).Run()
}

func showEntry(detail *tview.TextView, e xref.Entry) {
	detail.Clear()
	kind := "local"
	if e.External {
		kind = "extern"
	}
	fmt.Fprintf(detail, "[yellow]%s[-] (%s)\ndefined at %d\n\n", e.Name, kind, e.Address)
	if len(e.References) == 0 {
		fmt.Fprint(detail, "(not referenced by any instruction)\n")
		return
	}
	for _, ref := range e.References {
		fmt.Fprintf(detail, "  used at %d (operand %d)\n", ref.Address, ref.Operand+1)
	}
}
