package sema

import (
	"solfront/internal/ast"
	"solfront/internal/diag"
	"solfront/internal/source"
	"solfront/internal/symbols"
	"solfront/internal/types"
)

// access is an effect of a body on contract state.
type access struct {
	// need is the weakest mutability that permits the access.
	need ast.Mutability
	code diag.Code
	span source.Span
	what string
}

// checkMutability compares what each body does with its declared mutability.
func (tc *typeChecker) checkMutability() {
	modEffects := make(map[ast.ItemID][]access)
	tc.walkItems(func(id ast.ItemID, item *ast.Item) {
		fn, ok := tc.b.Items.Function(id)
		if !ok {
			return
		}
		tc.checkPayable(fn)
		if !fn.Body.IsValid() {
			return
		}
		if tc.externallyCallable(fn) && fn.Mutability != ast.MutPayable && tc.contractKind(tc.contract) != ast.ContractLibrary {
			for _, span := range tc.msgValueUses(fn.Body) {
				tc.passError(diag.MutMsgValueNonPayable, span,
					"msg.value can only be used in payable functions; '%s' is %s", tc.fnLabel(fn), fn.Mutability).Emit()
			}
		}
		tc.checkValueOptions(fn.Body)
		if fn.Kind == ast.FnConstructor || fn.Mutability.Rank() >= ast.MutNonPayable.Rank() {
			return
		}
		for _, a := range tc.accesses(fn.Body) {
			if a.need.Rank() > fn.Mutability.Rank() {
				tc.passError(a.code, a.span, "function '%s' is declared %s but %s", tc.fnLabel(fn), fn.Mutability, a.what).Emit()
			}
		}
		for i, inv := range fn.Modifiers {
			sym := tc.symbol(tc.syms.Modifiers[symbols.ModifierRef{Item: id, Index: i}])
			if sym == nil || sym.Kind != symbols.SymbolModifier {
				continue
			}
			effects, ok := modEffects[sym.Decl.Item]
			if !ok {
				m, _ := tc.b.Items.Modifier(sym.Decl.Item)
				effects = tc.accesses(m.Body)
				modEffects[sym.Decl.Item] = effects
			}
			for _, a := range effects {
				if a.need.Rank() > fn.Mutability.Rank() {
					tc.passError(a.code, inv.Span, "modifier '%s' %s, but function '%s' is declared %s",
						tc.symbolName(tc.syms.Modifiers[symbols.ModifierRef{Item: id, Index: i}]), a.what, tc.fnLabel(fn), fn.Mutability).
						WithNote(a.span, "the modifier accesses state here").Emit()
					break
				}
			}
		}
	})
}

func (tc *typeChecker) fnLabel(fn *ast.FunctionDecl) string {
	switch fn.Kind {
	case ast.FnConstructor, ast.FnReceive, ast.FnFallback:
		return fn.Kind.String()
	}
	return tc.b.Name(fn.Name)
}

// externallyCallable reports functions that can be the entry point of a transaction.
func (tc *typeChecker) externallyCallable(fn *ast.FunctionDecl) bool {
	switch fn.Visibility {
	case ast.VisPublic, ast.VisExternal:
		return true
	case ast.VisDefault:
		return tc.contract.IsValid()
	}
	return false
}

// checkPayable reports payable on functions that cannot receive value.
func (tc *typeChecker) checkPayable(fn *ast.FunctionDecl) {
	if fn.Mutability != ast.MutPayable {
		if fn.Kind == ast.FnReceive {
			tc.passError(diag.MutPayableNotAllowed, fn.NameSpan, "receive function must be payable").Emit()
		}
		return
	}
	switch {
	case !tc.contract.IsValid():
		tc.passError(diag.MutPayableNotAllowed, fn.NameSpan, "free functions cannot be payable").Emit()
	case tc.contractKind(tc.contract) == ast.ContractLibrary:
		tc.passError(diag.MutPayableNotAllowed, fn.NameSpan, "library functions cannot be payable").Emit()
	case fn.Visibility == ast.VisInternal || fn.Visibility == ast.VisPrivate:
		tc.passError(diag.MutPayableNotAllowed, fn.NameSpan, "%s functions cannot be payable", fn.Visibility).Emit()
	}
}

// msgValueUses lists the spans of msg.value in body.
func (tc *typeChecker) msgValueUses(body ast.StmtID) []source.Span {
	var out []source.Span
	tc.inspectBody(body, func(x ast.ExprID) {
		m, ok := tc.b.Exprs.Member(x)
		if !ok {
			return
		}
		if mm, ok := tc.types.MagicMemberOf(tc.result.ExprTypes[m.Target], tc.b.Name(m.Name)); ok && mm.Value {
			out = append(out, tc.exprSpan(x))
		}
	})
	return out
}

// checkValueOptions reports `{value: v}` on calls to non-payable functions.
func (tc *typeChecker) checkValueOptions(body ast.StmtID) {
	tc.inspectBody(body, func(x ast.ExprID) {
		opts, ok := tc.b.Exprs.CallOptions(x)
		if !ok {
			return
		}
		info, ok := tc.types.FnInfo(tc.result.ExprTypes[x])
		if !ok || info.Mutability == ast.MutPayable {
			return
		}
		for i, n := range opts.Names {
			if tc.b.Name(n) == "value" {
				tc.passError(diag.MutValueToNonPayable, opts.Spans[i], "cannot send value to a non-payable function").Emit()
			}
		}
	})
}

// inspectBody calls fn for every expression in body.
func (tc *typeChecker) inspectBody(body ast.StmtID, fn func(ast.ExprID)) {
	tc.b.InspectStmt(body, ast.StmtVisitor{
		Expr: func(e ast.ExprID) {
			tc.b.InspectExpr(e, func(x ast.ExprID) bool {
				fn(x)
				return true
			})
		},
	})
}

// accesses lists the state reads and writes of a body in source order.
func (tc *typeChecker) accesses(body ast.StmtID) []access {
	var out []access
	read := func(x ast.ExprID, what string) {
		out = append(out, access{need: ast.MutView, code: diag.MutStateRead, span: tc.exprSpan(x), what: what})
	}
	write := func(x ast.ExprID, code diag.Code, what string) {
		out = append(out, access{need: ast.MutNonPayable, code: code, span: tc.exprSpan(x), what: what})
	}
	written := make(map[ast.ExprID]bool)

	tc.b.InspectStmt(body, ast.StmtVisitor{
		Stmt: func(s ast.StmtID) bool {
			if st := tc.b.Stmts.Get(s); st != nil && st.Kind == ast.StmtEmit {
				e, _ := tc.b.Stmts.Emit(s)
				write(e.Call, diag.MutStateWrite, "emits an event")
			}
			return true
		},
		Expr: func(e ast.ExprID) {
			tc.b.InspectExpr(e, func(x ast.ExprID) bool {
				if target, ok := tc.writtenExpr(x); ok {
					for _, t := range tc.storageWrites(target) {
						tc.markChain(t, written)
						write(t, diag.MutStateWrite, "modifies state")
					}
				}
				if written[x] {
					return true
				}
				if what, ok := tc.readsState(x); ok {
					read(x, what)
				}
				if c, ok := tc.result.Calls[x]; ok {
					if need, what, ok := tc.callEffect(x, c); ok {
						out = append(out, access{need: need, code: diag.MutCallsLessRestrictive, span: tc.exprSpan(x), what: what})
					}
				}
				if opts, ok := tc.b.Exprs.CallOptions(x); ok {
					for i, n := range opts.Names {
						if tc.b.Name(n) == "value" {
							out = append(out, access{need: ast.MutNonPayable, code: diag.MutStateWrite, span: opts.Spans[i], what: "sends value"})
						}
					}
				}
				return true
			})
		},
	})
	return out
}

// readsState reports expressions whose value comes from contract state or
// the environment.
func (tc *typeChecker) readsState(x ast.ExprID) (string, bool) {
	ex := tc.b.Exprs.Get(x)
	switch ex.Kind {
	case ast.ExprIdent:
		sid := tc.syms.ExprSymbols[x]
		sym := tc.symbol(sid)
		switch {
		case sym == nil:
		case sym.Kind == symbols.SymbolStateVar && sym.Flags&symbols.SymbolFlagConstant == 0:
			return "reads state variable '" + tc.symbolName(sid) + "'", true
		case tc.table.IsBuiltinNamed(sid, symbols.ThisName):
			return "reads 'this'", true
		case sym.Kind == symbols.SymbolLocal || sym.Kind == symbols.SymbolParam:
			t := tc.symbolType(sid)
			if tc.types.IsReference(t) && tc.types.LocationOf(t) == ast.LocStorage {
				return "reads storage through '" + tc.symbolName(sid) + "'", true
			}
		}
	case ast.ExprMember:
		m, _ := tc.b.Exprs.Member(x)
		name := tc.b.Name(m.Name)
		tt := tc.result.ExprTypes[m.Target]
		if mm, ok := tc.types.MagicMemberOf(tt, name); ok && mm.ReadsState {
			return "reads '" + tc.label(tt) + "." + name + "'", true
		}
		if tc.types.KindOf(tt) == types.KindAddress {
			switch name {
			case "balance", "code", "codehash":
				return "reads the " + name + " of an address", true
			}
		}
	}
	return "", false
}

// callEffect returns the mutability call requires of its caller.
func (tc *typeChecker) callEffect(call ast.ExprID, c Call) (ast.Mutability, string, bool) {
	switch c.Kind {
	case CallConversion, CallStructCtor, CallEvent, CallError:
		return 0, "", false
	}
	info, ok := tc.types.FnInfo(c.Type)
	if !ok {
		return 0, "", false
	}
	if info.Kind == types.FnCreation {
		if len(info.Returns) == 1 && tc.types.KindOf(info.Returns[0]) == types.KindContract {
			return ast.MutNonPayable, "creates a contract", true
		}
		return 0, "", false
	}
	if !c.Target.IsValid() {
		// builtin members such as push or transfer
		name, ok := tc.calleeMember(call)
		switch {
		case info.Mutability == ast.MutPure:
			return 0, "", false
		case !ok:
		case info.Mutability == ast.MutView:
			return ast.MutView, "reads state through '" + name + "'", true
		default:
			return ast.MutNonPayable, "modifies state through '" + name + "'", true
		}
	}
	name := "a function"
	if c.Target.IsValid() {
		name = "'" + tc.symbolName(c.Target) + "'"
	}
	switch info.Mutability {
	case ast.MutPure:
		return 0, "", false
	case ast.MutView:
		return ast.MutView, "calls view " + name, true
	}
	return ast.MutNonPayable, "calls state-modifying " + name, true
}

// calleeMember returns the member name of `x.name(...)`.
func (tc *typeChecker) calleeMember(call ast.ExprID) (string, bool) {
	cl, ok := tc.b.Exprs.Call(call)
	if !ok {
		return "", false
	}
	callee := cl.Callee
	if o, ok := tc.b.Exprs.CallOptions(callee); ok {
		callee = o.Callee
	}
	m, ok := tc.b.Exprs.Member(callee)
	if !ok {
		return "", false
	}
	return tc.b.Name(m.Name), true
}

// storageWrites returns the expressions through which an assignment to
// target writes storage.
func (tc *typeChecker) storageWrites(target ast.ExprID) []ast.ExprID {
	if tup, ok := tc.b.Exprs.Tuple(target); ok {
		var out []ast.ExprID
		for _, e := range tup.Elems {
			if e.IsValid() {
				out = append(out, tc.storageWrites(e)...)
			}
		}
		return out
	}
	ex := tc.b.Exprs.Get(target)
	if ex == nil {
		return nil
	}
	var base ast.ExprID
	switch ex.Kind {
	case ast.ExprIdent:
		sym := tc.symbol(tc.syms.ExprSymbols[target])
		if sym != nil && sym.Kind == symbols.SymbolStateVar {
			return []ast.ExprID{target}
		}
		return nil
	case ast.ExprMember:
		m, _ := tc.b.Exprs.Member(target)
		base = m.Target
	case ast.ExprIndex:
		ix, _ := tc.b.Exprs.Index(target)
		base = ix.Target
	default:
		return nil
	}
	bt := tc.result.ExprTypes[base]
	if tc.types.IsReference(bt) && tc.types.LocationOf(bt) == ast.LocStorage {
		return []ast.ExprID{target}
	}
	return nil
}

// markChain marks target and the member and index bases it is reached through.
func (tc *typeChecker) markChain(target ast.ExprID, marks map[ast.ExprID]bool) {
	for target.IsValid() {
		marks[target] = true
		if m, ok := tc.b.Exprs.Member(target); ok {
			target = m.Target
			continue
		}
		if ix, ok := tc.b.Exprs.Index(target); ok {
			target = ix.Target
			continue
		}
		return
	}
}
