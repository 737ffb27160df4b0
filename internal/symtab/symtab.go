// Package symtab implements the assembler's symbol table along with the
// three auxiliary ledgers the passes hand off between each other: the
// pending data-symbol fix-up list, the entry-point list, and the
// external-reference list.
package symtab

import "fmt"

// BaseAddr returns addr rounded down to the nearest multiple of 16.
func BaseAddr(addr int32) int32 {
	return (addr / 16) * 16
}

// Offset returns addr modulo 16.
func Offset(addr int32) int32 {
	return addr % 16
}

// Symbol is one entry in the symbol table.
type Symbol struct {
	Name     string
	BaseAddr int32
	Offset   int32
	Ext      bool
}

// Address reconstructs the symbol's absolute address.
func (s *Symbol) Address() int32 {
	return s.BaseAddr + s.Offset
}

// Table is the assembler's symbol table, keyed by label name.
type Table struct {
	symbols map[string]*Symbol
}

// New creates an empty symbol table.
func New() *Table {
	return &Table{symbols: make(map[string]*Symbol)}
}

// Define creates and inserts a new symbol for name at the given absolute
// address. It returns nil without modifying the table if name is already
// defined — duplicate-label detection is the caller's job, using this nil
// return as the "already exists" signal, the same contract as the
// original tool's symtable_new.
func (t *Table) Define(name string, addr int32, ext bool) *Symbol {
	if _, exists := t.symbols[name]; exists {
		return nil
	}
	sym := &Symbol{
		Name:     name,
		BaseAddr: BaseAddr(addr),
		Offset:   Offset(addr),
		Ext:      ext,
	}
	t.symbols[name] = sym
	return sym
}

// Find looks up a symbol by name. It returns nil if no such symbol
// exists.
func (t *Table) Find(name string) *Symbol {
	return t.symbols[name]
}

// Names returns every defined symbol's name, in no particular order.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.symbols))
	for name := range t.symbols {
		names = append(names, name)
	}
	return names
}

// DataSymbol is a symbol created for a .data/.string label, recorded at
// its data-segment-relative address before the end-of-file fix-up.
type DataSymbol struct {
	Sym *Symbol
}

// FixupList accumulates data symbols awaiting the end-of-first-pass
// address fix-up (their addresses are recorded relative to the start of
// the data segment, then shifted once the final code segment length is
// known).
type FixupList struct {
	entries []*DataSymbol
}

// Insert records sym as needing the fix-up.
func (f *FixupList) Insert(sym *Symbol) {
	f.entries = append(f.entries, &DataSymbol{Sym: sym})
}

// Apply shifts every recorded symbol's address by codeEnd — the absolute
// address immediately past the end of the code segment (that is, 100 +
// code segment length) — turning each data-relative address into its
// final absolute address.
func (f *FixupList) Apply(codeEnd int32) {
	for _, ds := range f.entries {
		newAddr := codeEnd + ds.Sym.Address()
		ds.Sym.BaseAddr = BaseAddr(newAddr)
		ds.Sym.Offset = Offset(newAddr)
	}
}

// EntryPoint names a symbol exported via a .entry directive.
type EntryPoint struct {
	Label    string
	BaseAddr int32
	Offset   int32
}

// EntryList accumulates entry points in the order .entry directives were
// processed during the second pass.
type EntryList struct {
	entries []EntryPoint
}

// Insert records one entry point.
func (l *EntryList) Insert(label string, baseAddr, offset int32) {
	l.entries = append(l.entries, EntryPoint{Label: label, BaseAddr: baseAddr, Offset: offset})
}

// Entries returns the recorded entry points in insertion order.
func (l *EntryList) Entries() []EntryPoint {
	return l.entries
}

// Len reports how many entry points were recorded.
func (l *EntryList) Len() int {
	return len(l.entries)
}

// ExternalRef names one use site of an external symbol: the absolute
// addresses of the two extra words (base-address word, offset word) that
// were written to resolve it.
type ExternalRef struct {
	Symbol       string
	BaseAddrWord int32
	OffsetWord   int32
}

// ExternalList accumulates external-reference use sites. Entries are
// inserted in resolution order during the second pass; emission walks
// them in REVERSE order (most-recently-resolved first), matching the
// original tool's head-insertion linked list.
type ExternalList struct {
	entries []ExternalRef
}

// Insert records one external reference use site.
func (l *ExternalList) Insert(symbol string, baseAddrWord, offsetWord int32) {
	l.entries = append(l.entries, ExternalRef{Symbol: symbol, BaseAddrWord: baseAddrWord, OffsetWord: offsetWord})
}

// ReverseEntries returns the recorded external references in
// reverse-insertion order.
func (l *ExternalList) ReverseEntries() []ExternalRef {
	out := make([]ExternalRef, len(l.entries))
	for i, e := range l.entries {
		out[len(l.entries)-1-i] = e
	}
	return out
}

// Len reports how many external references were recorded.
func (l *ExternalList) Len() int {
	return len(l.entries)
}

func (s *Symbol) String() string {
	return fmt.Sprintf("%s@%d(base=%d,off=%d,ext=%v)", s.Name, s.Address(), s.BaseAddr, s.Offset, s.Ext)
}
