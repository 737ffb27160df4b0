package diag

import "testing"

func TestKindString(t *testing.T) {
	cases := map[Kind]string{
		KindIO:        "io",
		KindLex:       "lex",
		KindSyntax:    "syntax",
		KindSemantics: "semantics",
		KindCapacity:  "capacity",
		KindMacro:     "macro",
		Kind(99):      "unknown",
	}
	for kind, want := range cases {
		if got := kind.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", kind, got, want)
		}
	}
}

func TestNewFormatsMessage(t *testing.T) {
	err := New("firstpass", 7, KindSyntax, "label %s already defined.", "FOO")
	if err.Pos.Pass != "firstpass" || err.Pos.Line != 7 {
		t.Errorf("unexpected position: %+v", err.Pos)
	}
	if err.Kind != KindSyntax {
		t.Errorf("Kind = %v, want KindSyntax", err.Kind)
	}
	want := "label FOO already defined."
	if err.Message != want {
		t.Errorf("Message = %q, want %q", err.Message, want)
	}
}

func TestErrorStringFormat(t *testing.T) {
	err := New("secondpass", 12, KindSemantics, "undefined label: %s", "X")
	want := "secondpass: error: line 12: undefined label: X"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestListAddAndHasErrors(t *testing.T) {
	var list List
	if list.HasErrors() {
		t.Fatal("empty list should report no errors")
	}

	list.Add(New("firstpass", 1, KindLex, "bad token"))
	if !list.HasErrors() {
		t.Fatal("expected HasErrors true after Add")
	}
	if len(list.Errors) != 1 {
		t.Fatalf("len(Errors) = %d, want 1", len(list.Errors))
	}
}

func TestListStringEmptyWhenNoErrors(t *testing.T) {
	var list List
	if got := list.String(); got != "" {
		t.Errorf("String() = %q, want empty string", got)
	}
}

func TestListStringOnePerLine(t *testing.T) {
	var list List
	list.Add(New("firstpass", 1, KindLex, "first problem"))
	list.Add(New("firstpass", 2, KindSyntax, "second problem"))

	want := "firstpass: error: line 1: first problem\nfirstpass: error: line 2: second problem\n"
	if got := list.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
