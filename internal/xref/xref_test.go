package xref

import (
	"strings"
	"testing"

	"github.com/tamattias/assembler/internal/assemble"
	"github.com/tamattias/assembler/internal/config"
)

func buildState(t *testing.T, source string) *assemble.State {
	t.Helper()
	state, errs := assemble.FirstPass(config.DefaultConfig(), source)
	if errs.HasErrors() {
		t.Fatalf("unexpected first pass errors: %v", errs)
	}
	return state
}

func TestBuildRecordsDefinitionAndReference(t *testing.T) {
	source := "MAIN: mov X, r1\nX: .data 7\n"
	state := buildState(t, source)

	report := Build(state, state.Symbols.Names())

	var x, main *Entry
	for i := range report.Entries {
		switch report.Entries[i].Name {
		case "X":
			x = &report.Entries[i]
		case "MAIN":
			main = &report.Entries[i]
		}
	}

	if x == nil || main == nil {
		t.Fatalf("expected both MAIN and X in report, got %+v", report.Entries)
	}

	if x.External {
		t.Error("X should not be external")
	}
	if len(x.References) != 1 {
		t.Fatalf("expected one reference to X, got %d", len(x.References))
	}
	if x.References[0].Address != main.Address || x.References[0].Operand != 0 {
		t.Errorf("unexpected reference: %+v", x.References[0])
	}
}

func TestBuildMarksExternalSymbols(t *testing.T) {
	source := ".extern FOO\n\tjmp FOO\n"
	state := buildState(t, source)

	report := Build(state, state.Symbols.Names())
	if len(report.Entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(report.Entries))
	}
	if !report.Entries[0].External {
		t.Error("FOO should be marked external")
	}
	if len(report.Entries[0].References) != 1 {
		t.Fatalf("expected one reference to FOO, got %d", len(report.Entries[0].References))
	}
}

func TestBuildSortsEntriesByName(t *testing.T) {
	source := "ZEBRA: stop\nAARDVARK: .data 1\n"
	state := buildState(t, source)

	report := Build(state, state.Symbols.Names())
	if len(report.Entries) != 2 {
		t.Fatalf("expected two entries, got %d", len(report.Entries))
	}
	if report.Entries[0].Name != "AARDVARK" || report.Entries[1].Name != "ZEBRA" {
		t.Errorf("entries not sorted: %+v", report.Entries)
	}
}

func TestBuildSkipsUnknownNames(t *testing.T) {
	source := "MAIN: stop\n"
	state := buildState(t, source)

	report := Build(state, []string{"MAIN", "NOPE"})
	if len(report.Entries) != 1 {
		t.Fatalf("expected only the known symbol, got %+v", report.Entries)
	}
}

func TestReferenceTypeString(t *testing.T) {
	if ReferenceDirect.String() != "direct" {
		t.Errorf("ReferenceDirect.String() = %q", ReferenceDirect.String())
	}
	if ReferenceIndex.String() != "index" {
		t.Errorf("ReferenceIndex.String() = %q", ReferenceIndex.String())
	}
	if ReferenceType(99).String() != "unknown" {
		t.Errorf("unknown ReferenceType.String() = %q", ReferenceType(99).String())
	}
}

func TestReportStringRendersDefinitionsAndUses(t *testing.T) {
	source := "MAIN: mov X, r1\nX: .data 7\n"
	state := buildState(t, source)

	report := Build(state, state.Symbols.Names())
	out := report.String()

	if !strings.Contains(out, "X (local) defined at") {
		t.Errorf("expected X's definition line, got %q", out)
	}
	if !strings.Contains(out, "used at") {
		t.Errorf("expected a use-site line, got %q", out)
	}
}
