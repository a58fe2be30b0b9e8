package sema_test

import (
	"fmt"
	"strings"
	"testing"

	"solfront/internal/ast"
	"solfront/internal/config"
	"solfront/internal/diag"
	"solfront/internal/parser"
	"solfront/internal/sema"
	"solfront/internal/source"
	"solfront/internal/symbols"
	"solfront/internal/types"
)

type checked struct {
	b    *ast.Builder
	syms *symbols.Result
	res  *sema.Result
	bag  *diag.Bag
}

func checkWith(t *testing.T, cfg config.Config, src string) checked {
	t.Helper()
	fs := source.NewFileSet()
	f := fs.Get(fs.AddVirtual("test.sol", src))
	b := ast.NewBuilder(ast.Hints{}, nil)
	bag := diag.NewBag(0)
	pr := parser.ParseFile(f, b, parser.Options{
		Reporter: diag.BagReporter{Bag: bag, Phase: diag.PhaseParse},
		Config:   cfg,
	})
	if pr.Errors > 0 {
		t.Fatalf("syntax errors: %s", summary(bag))
	}
	syms := symbols.Resolve(symbols.Input{
		Builder:         b,
		Files:           []ast.FileID{pr.File},
		Imports:         map[ast.ItemID]ast.FileID{},
		Types:           types.NewInterner(),
		Config:          cfg,
		Reporter:        diag.BagReporter{Bag: bag, Phase: diag.PhaseResolve},
		InheritReporter: diag.BagReporter{Bag: bag, Phase: diag.PhaseInherit},
	})
	if bag.HasErrors() {
		t.Fatalf("resolve errors: %s", summary(bag))
	}
	res := sema.Check(b, sema.Options{
		Reporter:        diag.BagReporter{Bag: bag, Phase: diag.PhaseTypes},
		PassReporter:    diag.BagReporter{Bag: bag, Phase: diag.PhaseSema},
		InheritReporter: diag.BagReporter{Bag: bag, Phase: diag.PhaseInherit},
		Symbols:         syms,
		Config:          cfg,
	})
	return checked{b: b, syms: syms, res: res, bag: bag}
}

func check(t *testing.T, src string) checked {
	t.Helper()
	return checkWith(t, config.Default(), src)
}

// checkOK fails the test on any error.
func checkOK(t *testing.T, src string) checked {
	t.Helper()
	c := check(t, src)
	if c.bag.HasErrors() {
		t.Fatalf("unexpected errors: %s", summary(c.bag))
	}
	return c
}

func summary(bag *diag.Bag) string {
	items := bag.Items()
	if len(items) == 0 {
		return "<none>"
	}
	parts := make([]string, len(items))
	for i, d := range items {
		parts[i] = fmt.Sprintf("%s %s %s", d.Severity, d.Code, d.Message)
	}
	return strings.Join(parts, "; ")
}

func (c checked) find(code diag.Code) (diag.Diagnostic, bool) {
	for _, d := range c.bag.Items() {
		if d.Code == code {
			return d, true
		}
	}
	return diag.Diagnostic{}, false
}

func (c checked) count(code diag.Code) int {
	n := 0
	for _, d := range c.bag.Items() {
		if d.Code == code {
			n++
		}
	}
	return n
}

// expect fails unless a diagnostic with code and severity was reported.
func (c checked) expect(t *testing.T, code diag.Code, sev diag.Severity) diag.Diagnostic {
	t.Helper()
	d, ok := c.find(code)
	if !ok {
		t.Fatalf("expected %s, got %s", code, summary(c.bag))
	}
	if d.Severity != sev {
		t.Fatalf("%s reported as %s, want %s", code, d.Severity, sev)
	}
	return d
}

// text returns the source covered by a diagnostic span.
func (c checked) text(src string, sp source.Span) string {
	if int(sp.End) > len(src) || sp.Start > sp.End {
		return ""
	}
	return src[sp.Start:sp.End]
}

// exprs returns expressions of kind whose name is name in source order:
// identifiers and members match by name, calls by their callee's name.
func (c checked) exprs(kind ast.ExprKind, name string) []ast.ExprID {
	var out []ast.ExprID
	for i := uint32(1); i <= c.b.Exprs.Arena.Len(); i++ {
		id := ast.ExprID(i)
		if c.b.Exprs.Get(id).Kind != kind {
			continue
		}
		if c.exprName(id) == name {
			out = append(out, id)
		}
	}
	return out
}

func (c checked) exprName(id ast.ExprID) string {
	if ident, ok := c.b.Exprs.Ident(id); ok {
		return c.b.Name(ident.Name)
	}
	if m, ok := c.b.Exprs.Member(id); ok {
		return c.b.Name(m.Name)
	}
	if call, ok := c.b.Exprs.Call(id); ok {
		return c.exprName(call.Callee)
	}
	return ""
}

func (c checked) contractOf(sid symbols.SymbolID) string {
	sym := c.syms.Table.Symbols.Get(sid)
	if sym == nil || !sym.Contract.IsValid() {
		return ""
	}
	decl, _ := c.b.Items.Contract(sym.Contract)
	return c.b.Name(decl.Name)
}
