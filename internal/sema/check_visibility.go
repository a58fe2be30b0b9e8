package sema

import (
	"solfront/internal/ast"
	"solfront/internal/diag"
	"solfront/internal/symbols"
)

// checkVisibility checks declared visibilities and that bodies only use
// members they can see.
func (tc *typeChecker) checkVisibility() {
	tc.walkItems(func(id ast.ItemID, item *ast.Item) {
		switch item.Kind {
		case ast.ItemFunction:
			fn, _ := tc.b.Items.Function(id)
			tc.checkFunctionVisibility(fn)
			if fn.Body.IsValid() {
				tc.checkAccess(fn.Body)
			}
			for _, inv := range fn.Modifiers {
				for _, a := range inv.Args {
					tc.checkAccessExpr(a)
				}
			}
		case ast.ItemModifier:
			m, _ := tc.b.Items.Modifier(id)
			tc.checkAccess(m.Body)
		case ast.ItemVariable:
			v, _ := tc.b.Items.Variable(id)
			if v.Visibility == ast.VisExternal {
				tc.passError(diag.VisStateVarExternal, v.NameSpan, "state variable '%s' cannot be external", tc.b.Name(v.Name)).Emit()
			}
			if v.Value.IsValid() {
				tc.checkAccessExpr(v.Value)
			}
		}
	})
}

func (tc *typeChecker) checkFunctionVisibility(fn *ast.FunctionDecl) {
	label := tc.fnLabel(fn)
	if !tc.contract.IsValid() {
		if fn.Visibility != ast.VisDefault {
			tc.passError(diag.VisFreeFunction, fn.NameSpan, "free function '%s' cannot have a visibility", label).Emit()
		}
		return
	}
	switch fn.Kind {
	case ast.FnConstructor:
		return
	case ast.FnReceive, ast.FnFallback:
		if fn.Visibility != ast.VisExternal {
			tc.passError(diag.VisSpecialMustBeExternal, fn.NameSpan, "%s function must be external", label).Emit()
		}
		return
	}
	switch {
	case fn.Visibility == ast.VisDefault:
		tc.passError(diag.VisMissing, fn.NameSpan, "function '%s' has no visibility", label).
			WithNote(fn.NameSpan, "add one of external, public, internal or private").Emit()
	case tc.contractKind(tc.contract) == ast.ContractInterface && fn.Visibility != ast.VisExternal:
		tc.passError(diag.VisInterfaceNotExternal, fn.NameSpan, "interface function '%s' must be external, not %s", label, fn.Visibility).Emit()
	case fn.Visibility == ast.VisPrivate && fn.Virtual:
		tc.passError(diag.VisPrivateVirtual, fn.NameSpan, "private function '%s' cannot be virtual", label).Emit()
	}
}

func (tc *typeChecker) checkAccess(body ast.StmtID) {
	tc.b.InspectStmt(body, ast.StmtVisitor{Expr: tc.checkAccessExpr})
}

// checkAccessExpr reports private members used outside their contract and
// external functions called without going through a contract value.
func (tc *typeChecker) checkAccessExpr(e ast.ExprID) {
	tc.b.InspectExpr(e, func(x ast.ExprID) bool {
		ex := tc.b.Exprs.Get(x)
		switch ex.Kind {
		case ast.ExprIdent:
			tc.checkPrivate(x, tc.syms.ExprSymbols[x])
		case ast.ExprMember:
			sid, ok := tc.result.MemberSymbols[x]
			if !ok {
				sid = tc.syms.ExprSymbols[x]
			}
			tc.checkPrivate(x, sid)
		case ast.ExprCall:
			call, _ := tc.b.Exprs.Call(x)
			tc.checkInternalCall(x, call.Callee)
		}
		return true
	})
}

func (tc *typeChecker) checkPrivate(x ast.ExprID, sid symbols.SymbolID) {
	sym := tc.symbol(sid)
	if sym == nil || sym.Visibility != ast.VisPrivate || !sym.Contract.IsValid() || sym.Contract == tc.contract {
		return
	}
	tc.passError(diag.VisNotAccessible, tc.exprSpan(x), "%s '%s' is private to '%s'",
		sym.Kind, tc.symbolName(sid), tc.contractName(sym.Contract)).
		WithNote(sym.Span, "declared here").Emit()
}

// checkInternalCall reports `f()` and `super.f()` where f is external.
func (tc *typeChecker) checkInternalCall(call, callee ast.ExprID) {
	c, ok := tc.result.Calls[call]
	if !ok || c.Kind != CallFunction {
		return
	}
	sym := tc.symbol(c.Target)
	if sym == nil || sym.Kind != symbols.SymbolFunction || sym.Visibility != ast.VisExternal {
		return
	}
	internal := false
	switch ex := tc.b.Exprs.Get(callee); ex.Kind {
	case ast.ExprIdent:
		internal = true
	case ast.ExprMember:
		m, _ := tc.b.Exprs.Member(callee)
		internal = tc.table.IsBuiltinNamed(tc.syms.ExprSymbols[m.Target], symbols.SuperName)
	}
	if internal {
		tc.passError(diag.VisExternalCalledInternally, tc.exprSpan(callee),
			"external function '%s' cannot be called internally; use this.%s", tc.symbolName(c.Target), tc.symbolName(c.Target)).Emit()
	}
}
