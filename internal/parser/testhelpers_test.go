package parser_test

import (
	"fmt"
	"strings"
	"testing"

	"solfront/internal/ast"
	"solfront/internal/config"
	"solfront/internal/diag"
	"solfront/internal/parser"
	"solfront/internal/source"
)

type parsed struct {
	b    *ast.Builder
	file *ast.File
	bag  *diag.Bag
}

func parseWith(t *testing.T, src string, cfg config.Config) parsed {
	t.Helper()
	fs := source.NewFileSet()
	f := fs.Get(fs.AddVirtual("test.sol", src))
	bag := diag.NewBag(0)
	b := ast.NewBuilder(ast.Hints{}, nil)
	res := parser.ParseFile(f, b, parser.Options{
		Reporter: diag.BagReporter{Bag: bag, Phase: diag.PhaseParse},
		Config:   cfg,
	})
	return parsed{b: b, file: b.Files.Get(res.File), bag: bag}
}

func parse(t *testing.T, src string) parsed {
	t.Helper()
	return parseWith(t, src, config.Default())
}

// parseOK fails the test on any diagnostic.
func parseOK(t *testing.T, src string) parsed {
	t.Helper()
	p := parse(t, src)
	if p.bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics for %q: %s", src, diagnosticsSummary(p.bag))
	}
	return p
}

func diagnosticsSummary(bag *diag.Bag) string {
	diags := bag.Items()
	if len(diags) == 0 {
		return "<none>"
	}
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message)
	}
	return strings.Join(lines, "; ")
}

func hasCode(bag *diag.Bag, code diag.Code) bool {
	for _, d := range bag.Items() {
		if d.Code == code {
			return true
		}
	}
	return false
}

// firstContract returns the first contract declared in the file.
func (p parsed) firstContract(t *testing.T) *ast.ContractDecl {
	t.Helper()
	for _, id := range p.file.Items {
		if c, ok := p.b.Items.Contract(id); ok {
			return c
		}
	}
	t.Fatalf("no contract in file")
	return nil
}

// function finds a function by name inside the first contract.
func (p parsed) function(t *testing.T, name string) *ast.FunctionDecl {
	t.Helper()
	for _, id := range p.firstContract(t).Members {
		if fn, ok := p.b.Items.Function(id); ok && p.b.Name(fn.Name) == name {
			return fn
		}
	}
	t.Fatalf("function %s not found", name)
	return nil
}

// bodyStmts returns the statements of a function body.
func (p parsed) bodyStmts(t *testing.T, fn *ast.FunctionDecl) []ast.StmtID {
	t.Helper()
	blk, ok := p.b.Stmts.Block(fn.Body)
	if !ok {
		t.Fatalf("function has no body")
	}
	return blk.Stmts
}
