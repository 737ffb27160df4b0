package symtab

import "testing"

func TestDefineAndFind(t *testing.T) {
	tab := New()
	sym := tab.Define("LOOP", 104, false)
	if sym == nil {
		t.Fatal("expected new symbol")
	}
	if sym.BaseAddr != 96 || sym.Offset != 8 {
		t.Errorf("unexpected base/offset: %+v", sym)
	}
	if tab.Find("LOOP") != sym {
		t.Error("expected Find to return the same symbol")
	}
}

func TestDefineDuplicateReturnsNil(t *testing.T) {
	tab := New()
	tab.Define("X", 100, false)
	if tab.Define("X", 200, false) != nil {
		t.Error("expected nil for duplicate definition")
	}
}

func TestFindMissing(t *testing.T) {
	tab := New()
	if tab.Find("NOPE") != nil {
		t.Error("expected nil for undefined symbol")
	}
}

func TestFixupListApply(t *testing.T) {
	tab := New()
	a := tab.Define("A", 0, false)
	b := tab.Define("B", 3, false)

	var fixups FixupList
	fixups.Insert(a)
	fixups.Insert(b)
	fixups.Apply(106) // code segment ends at absolute address 106

	if a.Address() != 106 {
		t.Errorf("expected A at 106, got %d", a.Address())
	}
	if b.Address() != 109 {
		t.Errorf("expected B at 109, got %d", b.Address())
	}
}

func TestExternalListReverseOrder(t *testing.T) {
	var externals ExternalList
	externals.Insert("FIRST", 102, 103)
	externals.Insert("SECOND", 110, 111)

	rev := externals.ReverseEntries()
	if len(rev) != 2 || rev[0].Symbol != "SECOND" || rev[1].Symbol != "FIRST" {
		t.Errorf("unexpected reverse order: %+v", rev)
	}
}

func TestEntryListOrder(t *testing.T) {
	var entries EntryList
	entries.Insert("A", 96, 4)
	entries.Insert("B", 100, 0)
	got := entries.Entries()
	if len(got) != 2 || got[0].Label != "A" || got[1].Label != "B" {
		t.Errorf("unexpected entry order: %+v", got)
	}
}
