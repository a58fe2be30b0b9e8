package diag

import (
	"testing"

	"solfront/internal/source"
)

func TestCodeIDAndCategory(t *testing.T) {
	tests := []struct {
		code     Code
		id       string
		category string
	}{
		{LexBadNumber, "LEX1004", "LexicalError"},
		{SynCatchOrder, "SYN2007", "SyntaxError"},
		{NamUnresolved, "NAM3001", "NameResolutionError"},
		{InhMissingOverride, "INH4004", "InheritanceError"},
		{TypNoOverload, "TYP5002", "TypeError"},
		{MutMsgValueNonPayable, "MUT6003", "MutabilityError"},
		{VisPrivateVirtual, "VIS7003", "VisibilityError"},
		{LocMappingNotStorage, "LOC8003", "DataLocationError"},
		{PrjImportCycle, "PRJ9002", "ProjectError"},
	}
	for _, tt := range tests {
		if got := tt.code.ID(); got != tt.id {
			t.Errorf("%d.ID() = %q, want %q", tt.code, got, tt.id)
		}
		if got := tt.code.Category(); got != tt.category {
			t.Errorf("%d.Category() = %q, want %q", tt.code, got, tt.category)
		}
		if tt.code.Title() == codeTitles[UnknownCode] {
			t.Errorf("%s has no title", tt.id)
		}
	}
}

func TestBagReporterStampsPhase(t *testing.T) {
	bag := NewBag(0)
	ReportError(BagReporter{Bag: bag, Phase: PhaseTypes}, TypMismatch, source.Span{Start: 1, End: 2}, "boom").
		WithNote(source.Span{Start: 0, End: 1}, "declared here").
		Emit()
	ReportWarning(BagReporter{Bag: bag, Phase: PhaseResolve}, NamShadow, source.Span{}, "shadow").Emit()

	if bag.Len() != 2 {
		t.Fatalf("bag has %d items", bag.Len())
	}
	if d := bag.Items()[0]; d.Phase != PhaseTypes || len(d.Notes) != 1 {
		t.Fatalf("first diagnostic = %+v", d)
	}
	if !bag.HasErrorsIn(PhaseTypes) || bag.HasErrorsIn(PhaseResolve) {
		t.Fatalf("HasErrorsIn mismatch")
	}
	if bag.ErrorCount() != 1 {
		t.Fatalf("ErrorCount = %d", bag.ErrorCount())
	}
}

func TestBagLimitKeepsErrorCount(t *testing.T) {
	bag := NewBag(1)
	r := BagReporter{Bag: bag, Phase: PhaseSema}
	r.Report(NamShadow, SevWarning, source.Span{}, "w", nil)
	r.Report(TypMismatch, SevError, source.Span{}, "e", nil)
	if bag.Len() != 1 {
		t.Fatalf("limit not applied: %d", bag.Len())
	}
	if !bag.HasErrors() {
		t.Fatalf("dropped error must still count")
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(0)
	r := NewDedupReporter(BagReporter{Bag: bag})
	sp := source.Span{Start: 3, End: 4}
	r.Report(TypMismatch, SevError, sp, "same", nil)
	r.Report(TypMismatch, SevError, sp, "same", nil)
	r.Report(TypMismatch, SevError, sp, "other", nil)
	if bag.Len() != 2 {
		t.Fatalf("dedup kept %d items", bag.Len())
	}
}

func TestSortLocatedOrder(t *testing.T) {
	items := []Located{
		{Path: "b.sol", Line: 1, Column: 1, Phase: PhaseLex},
		{Path: "a.sol", Line: 2, Column: 1, Phase: PhaseLex},
		{Path: "a.sol", Line: 1, Column: 5, Phase: PhaseSema},
		{Path: "a.sol", Line: 1, Column: 5, Phase: PhaseParse},
	}
	SortLocated(items)
	want := []struct {
		path  string
		line  uint32
		phase Phase
	}{
		{"a.sol", 1, PhaseParse},
		{"a.sol", 1, PhaseSema},
		{"a.sol", 2, PhaseLex},
		{"b.sol", 1, PhaseLex},
	}
	for i, w := range want {
		if items[i].Path != w.path || items[i].Line != w.line || items[i].Phase != w.phase {
			t.Fatalf("item %d = %+v, want %+v", i, items[i], w)
		}
	}
}

func TestLocate(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("c.sol", "contract C {\n  uint x;\n}\n")
	d := New(SevError, TypMismatch, source.Span{File: id, Start: 20, End: 21}, "bad")
	loc := Locate(fs, d)
	if loc.Path != "c.sol" || loc.Line != 2 || loc.Column != 8 {
		t.Fatalf("Locate = %+v", loc)
	}
}
