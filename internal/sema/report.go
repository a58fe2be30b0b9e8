package sema

import (
	"fmt"

	"solfront/internal/ast"
	"solfront/internal/diag"
	"solfront/internal/source"
	"solfront/internal/symbols"
	"solfront/internal/types"
)

func (tc *typeChecker) report(code diag.Code, span source.Span, format string, args ...any) {
	diag.ReportError(tc.reporter, code, span, fmt.Sprintf(format, args...)).Emit()
}

func (tc *typeChecker) warn(code diag.Code, span source.Span, format string, args ...any) {
	diag.ReportWarning(tc.reporter, code, span, fmt.Sprintf(format, args...)).Emit()
}

// passError reports a mutability, visibility or data location error.
func (tc *typeChecker) passError(code diag.Code, span source.Span, format string, args ...any) *diag.ReportBuilder {
	return diag.ReportError(tc.passRep, code, span, fmt.Sprintf(format, args...))
}

// inheritError reports an override error.
func (tc *typeChecker) inheritError(code diag.Code, span source.Span, format string, args ...any) *diag.ReportBuilder {
	return diag.ReportError(tc.inhRep, code, span, fmt.Sprintf(format, args...))
}

func (tc *typeChecker) exprSpan(id ast.ExprID) source.Span {
	if ex := tc.b.Exprs.Get(id); ex != nil {
		return ex.Span
	}
	return source.Span{}
}

func (tc *typeChecker) typeSpan(id ast.TypeExprID) source.Span {
	if te := tc.b.Types.Get(id); te != nil {
		return te.Span
	}
	return source.Span{}
}

func (tc *typeChecker) itemSpan(id ast.ItemID) source.Span {
	if it := tc.b.Items.Get(id); it != nil {
		return it.Span
	}
	return source.Span{}
}

// label renders a type for messages.
func (tc *typeChecker) label(id types.TypeID) string {
	return tc.types.String(id)
}

func (tc *typeChecker) symbol(id symbols.SymbolID) *symbols.Symbol {
	return tc.table.Symbols.Get(id)
}

func (tc *typeChecker) symbolName(id symbols.SymbolID) string {
	return tc.table.Name(id)
}

func (tc *typeChecker) contractName(c ast.ItemID) string {
	if decl, ok := tc.b.Items.Contract(c); ok {
		return tc.b.Name(decl.Name)
	}
	return "<unknown>"
}

func (tc *typeChecker) contractDecl(c ast.ItemID) *ast.ContractDecl {
	decl, _ := tc.b.Items.Contract(c)
	return decl
}

// walkItems calls fn for every declaration of the unit, descending into
// contracts, with the checker positioned on the item's file and contract.
func (tc *typeChecker) walkItems(fn func(id ast.ItemID, item *ast.Item)) {
	n := tc.b.Files.Arena.Len()
	for i := uint32(1); i <= n; i++ {
		fid := ast.FileID(i)
		file := tc.b.Files.Get(fid)
		if file == nil {
			continue
		}
		tc.file = fid
		for _, id := range file.Items {
			tc.walkItem(id, fn)
		}
	}
	tc.file, tc.contract = ast.NoFileID, ast.NoItemID
}

func (tc *typeChecker) walkItem(id ast.ItemID, fn func(id ast.ItemID, item *ast.Item)) {
	item := tc.b.Items.Get(id)
	if item == nil {
		return
	}
	fn(id, item)
	if c, ok := tc.b.Items.Contract(id); ok {
		prev := tc.contract
		tc.contract = id
		for _, m := range c.Members {
			tc.walkItem(m, fn)
		}
		tc.contract = prev
	}
}
