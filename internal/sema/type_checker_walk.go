package sema

import (
	"maps"
	"math/big"

	"solfront/internal/ast"
	"solfront/internal/config"
	"solfront/internal/diag"
	"solfront/internal/source"
	"solfront/internal/symbols"
	"solfront/internal/token"
	"solfront/internal/types"
)

// fnContext is the state of the function or modifier body being checked.
type fnContext struct {
	item     ast.ItemID
	decl     *ast.FunctionDecl
	modifier bool
	returns  []types.TypeID
	// named is set when the return parameters have names, so `return;` is allowed.
	named     bool
	unchecked int
	loops     int
	// consts holds the known values of integer locals at the current point.
	consts map[symbols.SymbolID]*big.Int
}

func (tc *typeChecker) checked() bool {
	if tc.fn != nil && tc.fn.unchecked > 0 {
		return false
	}
	return tc.cfg.Has(config.CheckedArithmetic)
}

func (tc *typeChecker) checkBodies() {
	tc.walkItems(func(id ast.ItemID, item *ast.Item) {
		switch item.Kind {
		case ast.ItemContract:
			tc.checkBaseArgs(id)
		case ast.ItemFunction:
			fn, _ := tc.b.Items.Function(id)
			tc.checkFunction(id, fn)
		case ast.ItemModifier:
			m, _ := tc.b.Items.Modifier(id)
			tc.fn = &fnContext{item: id, modifier: true, consts: make(map[symbols.SymbolID]*big.Int)}
			tc.checkStmt(m.Body)
			tc.fn = nil
		case ast.ItemVariable:
			tc.checkStateVar(id)
		}
	})
}

func (tc *typeChecker) checkFunction(id ast.ItemID, fn *ast.FunctionDecl) {
	ctx := &fnContext{item: id, decl: fn, consts: make(map[symbols.SymbolID]*big.Int)}
	if info, ok := tc.types.FnInfo(tc.result.ItemTypes[id]); ok {
		ctx.returns = info.Returns
	}
	tc.fn = ctx
	defer func() { tc.fn = nil }()

	if scope := tc.table.Scopes.Get(tc.syms.FunctionScopes[id]); scope != nil {
		for _, sid := range scope.Symbols {
			sym := tc.symbol(sid)
			if sym == nil || sym.Flags&symbols.SymbolFlagReturn == 0 {
				continue
			}
			ctx.named = true
			// named return variables start out zero
			if tc.types.IsInteger(tc.symbolType(sid)) {
				ctx.consts[sid] = new(big.Int)
			}
		}
	}
	for i, inv := range fn.Modifiers {
		tc.checkModifierInvocation(id, i, inv)
	}
	if fn.Body.IsValid() {
		tc.checkStmt(fn.Body)
	}
}

// checkModifierInvocation types the arguments of a modifier or base
// constructor call in a function header.
func (tc *typeChecker) checkModifierInvocation(fn ast.ItemID, index int, inv ast.ModifierInvocation) {
	sid := tc.syms.Modifiers[symbols.ModifierRef{Item: fn, Index: index}]
	sym := tc.symbol(sid)
	if sym == nil {
		for _, a := range inv.Args {
			tc.typeExpr(a)
		}
		return
	}
	var params []types.TypeID
	switch sym.Kind {
	case symbols.SymbolModifier:
		if info, ok := tc.types.FnInfo(tc.symbolType(sid)); ok {
			params = info.Params
		}
	case symbols.SymbolContract:
		if !inv.HasArgs {
			return
		}
		params = tc.constructorParams(sym.Decl.Item)
	}
	tc.checkArgs(inv.Span, inv.Args, params, "'"+tc.symbolName(sid)+"'")
}

// checkBaseArgs types constructor arguments given in an `is` list.
func (tc *typeChecker) checkBaseArgs(c ast.ItemID) {
	decl := tc.contractDecl(c)
	for _, spec := range decl.Bases {
		if !spec.HasArgs {
			continue
		}
		base, ok := tc.baseNamed(c, spec.Name.Last())
		if !ok {
			for _, a := range spec.Args {
				tc.typeExpr(a)
			}
			continue
		}
		tc.checkArgs(spec.Span, spec.Args, tc.constructorParams(base), "constructor of '"+tc.contractName(base)+"'")
	}
}

func (tc *typeChecker) baseNamed(c ast.ItemID, name source.StringID) (ast.ItemID, bool) {
	for _, base := range tc.syms.Bases[c] {
		if d := tc.contractDecl(base); d != nil && d.Name == name {
			return base, true
		}
	}
	return ast.NoItemID, false
}

// constructor returns the constructor declared directly in c.
func (tc *typeChecker) constructor(c ast.ItemID) (ast.ItemID, *ast.FunctionDecl) {
	decl := tc.contractDecl(c)
	if decl == nil {
		return ast.NoItemID, nil
	}
	for _, m := range decl.Members {
		if fn, ok := tc.b.Items.Function(m); ok && fn.Kind == ast.FnConstructor {
			return m, fn
		}
	}
	return ast.NoItemID, nil
}

func (tc *typeChecker) constructorParams(c ast.ItemID) []types.TypeID {
	id, _ := tc.constructor(c)
	if info, ok := tc.types.FnInfo(tc.result.ItemTypes[id]); ok {
		return info.Params
	}
	return nil
}

// checkArgs types args and converts them to params.
func (tc *typeChecker) checkArgs(span source.Span, args []ast.ExprID, params []types.TypeID, what string) {
	argTypes := make([]types.TypeID, len(args))
	for i, a := range args {
		argTypes[i] = tc.typeExpr(a)
	}
	if len(args) != len(params) {
		tc.report(diag.TypArgCount, span, "%s expects %d arguments, got %d", what, len(params), len(args))
		return
	}
	for i, a := range args {
		tc.coerce(a, argTypes[i], params[i])
	}
}

func (tc *typeChecker) checkStateVar(id ast.ItemID) {
	v, _ := tc.b.Items.Variable(id)
	if v.Constant {
		tc.constValue(id, v.NameSpan)
		return
	}
	if !v.Value.IsValid() {
		return
	}
	target := tc.symbolType(tc.syms.ItemSymbols[id])
	vt := tc.typeExpr(v.Value)
	if tc.coerce(v.Value, vt, target) {
		tc.recordAssignment(v.Value, target, vt)
	}
}

func (tc *typeChecker) checkStmt(id ast.StmtID) {
	st := tc.b.Stmts.Get(id)
	if st == nil {
		return
	}
	switch st.Kind {
	case ast.StmtBlock:
		blk, _ := tc.b.Stmts.Block(id)
		if blk.Unchecked {
			if tc.fn.unchecked > 0 {
				tc.report(diag.TypBadStatement, st.Span, "unchecked blocks cannot be nested")
			}
			tc.fn.unchecked++
			defer func() { tc.fn.unchecked-- }()
		}
		for _, s := range blk.Stmts {
			tc.checkStmt(s)
		}
	case ast.StmtVarDecl:
		tc.checkVarDecl(id)
	case ast.StmtExpr:
		s, _ := tc.b.Stmts.Expr(id)
		tc.typeExpr(s.Expr)
	case ast.StmtIf:
		s, _ := tc.b.Stmts.If(id)
		tc.condition(s.Cond)
		before := maps.Clone(tc.fn.consts)
		tc.checkStmt(s.Then)
		afterThen := tc.fn.consts
		tc.fn.consts = before
		tc.checkStmt(s.Else)
		tc.fn.consts = mergeConsts(afterThen, tc.fn.consts)
	case ast.StmtFor:
		s, _ := tc.b.Stmts.For(id)
		tc.checkStmt(s.Init)
		tc.forgetAssigned(id)
		tc.condition(s.Cond)
		tc.loop(s.Body)
		tc.typeExpr(s.Post)
		tc.forgetAssigned(id)
	case ast.StmtWhile, ast.StmtDoWhile:
		s, _ := tc.b.Stmts.While(id)
		tc.forgetAssigned(id)
		tc.condition(s.Cond)
		tc.loop(s.Body)
		tc.forgetAssigned(id)
	case ast.StmtReturn:
		tc.checkReturn(id, st.Span)
	case ast.StmtBreak, ast.StmtContinue:
		if tc.fn.loops == 0 {
			tc.report(diag.TypLoopControl, st.Span, "break and continue are only allowed inside loops")
		}
	case ast.StmtEmit:
		s, _ := tc.b.Stmts.Emit(id)
		tc.emitting = true
		tc.typeExpr(s.Call)
		tc.emitting = false
	case ast.StmtRevert:
		s, _ := tc.b.Stmts.Revert(id)
		tc.reverting = true
		tc.typeExpr(s.Call)
		tc.reverting = false
	case ast.StmtTry:
		tc.checkTry(id)
	case ast.StmtAssembly:
		// assembly may write any local
		clear(tc.fn.consts)
	case ast.StmtPlaceholder:
		if !tc.fn.modifier {
			tc.report(diag.TypPlaceholderMisuse, st.Span, "'_' is only allowed inside modifiers")
		}
	}
}

func (tc *typeChecker) loop(body ast.StmtID) {
	tc.fn.loops++
	tc.checkStmt(body)
	tc.fn.loops--
}

func (tc *typeChecker) condition(expr ast.ExprID) {
	if !expr.IsValid() {
		return
	}
	t := tc.typeExpr(expr)
	if !tc.types.Convertible(t, tc.builtins.Bool, types.ConvAssign) {
		tc.report(diag.TypConditionNotBool, tc.exprSpan(expr), "condition must be bool, not '%s'", tc.label(t))
	}
}

// mergeConsts keeps the values both branches agree on.
func mergeConsts(a, b map[symbols.SymbolID]*big.Int) map[symbols.SymbolID]*big.Int {
	out := make(map[symbols.SymbolID]*big.Int, len(a))
	for k, v := range a {
		if w, ok := b[k]; ok && v.Cmp(w) == 0 {
			out[k] = v
		}
	}
	return out
}

// forgetAssigned drops the known values of locals written anywhere in a loop.
func (tc *typeChecker) forgetAssigned(loop ast.StmtID) {
	all := false
	tc.b.InspectStmt(loop, ast.StmtVisitor{
		Stmt: func(id ast.StmtID) bool {
			if st := tc.b.Stmts.Get(id); st != nil && st.Kind == ast.StmtAssembly {
				all = true
			}
			return !all
		},
		Expr: func(e ast.ExprID) {
			tc.b.InspectExpr(e, func(x ast.ExprID) bool {
				if target, ok := tc.writtenExpr(x); ok {
					tc.forgetTarget(target)
				}
				return true
			})
		},
	})
	if all {
		clear(tc.fn.consts)
	}
}

// writtenExpr returns the target of an assignment, increment or delete.
func (tc *typeChecker) writtenExpr(x ast.ExprID) (ast.ExprID, bool) {
	if a, ok := tc.b.Exprs.Assign(x); ok {
		return a.Target, true
	}
	if u, ok := tc.b.Exprs.Unary(x); ok {
		switch u.Op {
		case token.PlusPlus, token.MinusMinus, token.KwDelete:
			return u.Operand, true
		}
	}
	return ast.NoExprID, false
}

func (tc *typeChecker) forgetTarget(target ast.ExprID) {
	if tup, ok := tc.b.Exprs.Tuple(target); ok {
		for _, e := range tup.Elems {
			tc.forgetTarget(e)
		}
		return
	}
	if sid, ok := tc.localSymbol(target); ok {
		delete(tc.fn.consts, sid)
	}
}

func (tc *typeChecker) checkVarDecl(id ast.StmtID) {
	d, _ := tc.b.Stmts.VarDecl(id)
	syms := tc.syms.VarSymbols[id]
	vt := types.NoTypeID
	if d.Value.IsValid() {
		vt = tc.typeExpr(d.Value)
	}
	if d.Tuple || len(d.Vars) != 1 {
		tc.checkTupleDecl(d, syms, vt)
		return
	}
	if len(syms) == 0 || !syms[0].IsValid() {
		return
	}
	sid := syms[0]
	t := tc.symbolType(sid)
	if !d.Value.IsValid() {
		if tc.types.IsInteger(t) {
			tc.fn.consts[sid] = new(big.Int)
		}
		return
	}
	if !tc.coerce(d.Value, vt, t) {
		return
	}
	tc.recordAssignment(d.Value, t, vt)
	if v, ok := tc.value(d.Value); ok && tc.types.IsInteger(t) {
		tc.fn.consts[sid] = v
	} else {
		delete(tc.fn.consts, sid)
	}
}

func (tc *typeChecker) checkTupleDecl(d *ast.VarDeclStmt, syms []symbols.SymbolID, vt types.TypeID) {
	if vt == types.NoTypeID || tc.types.IsError(vt) {
		return
	}
	info, ok := tc.types.TupleInfo(vt)
	if !ok || len(info.Elems) != len(d.Vars) {
		n := 1
		if ok {
			n = len(info.Elems)
		}
		tc.report(diag.TypTupleArity, tc.exprSpan(d.Value), "expected %d values, got %d", len(d.Vars), n)
		return
	}
	for i, slot := range d.Vars {
		if slot.Empty() || i >= len(syms) || !syms[i].IsValid() {
			continue
		}
		t := tc.symbolType(syms[i])
		if info.Elems[i] == types.NoTypeID || !tc.types.ImplicitlyConvertible(info.Elems[i], t) {
			tc.report(diag.TypMismatch, slot.Span, "cannot assign '%s' to '%s'", tc.label(info.Elems[i]), tc.label(t))
		}
	}
}

func (tc *typeChecker) checkReturn(id ast.StmtID, span source.Span) {
	r, _ := tc.b.Stmts.Return(id)
	want := tc.fn.returns
	if !r.Value.IsValid() {
		if len(want) > 0 && !tc.fn.named {
			tc.report(diag.TypReturnMismatch, span, "expected %d return values", len(want))
		}
		return
	}
	t := tc.typeExpr(r.Value)
	switch len(want) {
	case 0:
		tc.report(diag.TypReturnMismatch, tc.exprSpan(r.Value), "function does not return values")
	case 1:
		tc.coerceAs(diag.TypReturnMismatch, r.Value, t, want[0])
	default:
		if tc.types.IsError(t) {
			return
		}
		info, ok := tc.types.TupleInfo(t)
		if !ok || len(info.Elems) != len(want) {
			tc.report(diag.TypReturnMismatch, tc.exprSpan(r.Value), "expected %d return values", len(want))
			return
		}
		if tup, ok := tc.b.Exprs.Tuple(r.Value); ok {
			for i, e := range tup.Elems {
				if e.IsValid() {
					tc.coerceAs(diag.TypReturnMismatch, e, info.Elems[i], want[i])
				}
			}
			return
		}
		if !tc.types.ImplicitlyConvertible(t, tc.types.RegisterTuple(want)) {
			tc.report(diag.TypReturnMismatch, tc.exprSpan(r.Value), "cannot return '%s' as '%s'",
				tc.label(t), tc.label(tc.types.RegisterTuple(want)))
		}
	}
}

func (tc *typeChecker) checkTry(id ast.StmtID) {
	s, _ := tc.b.Stmts.Try(id)
	t := tc.typeExpr(s.Call)
	var rets []types.TypeID
	if !tc.types.IsError(t) {
		call, ok := tc.result.Calls[s.Call]
		info, isFn := tc.types.FnInfo(call.Type)
		if !ok || !isFn || info.Kind != types.FnExternal && info.Kind != types.FnCreation {
			tc.report(diag.TypTryNotExternal, tc.exprSpan(s.Call), "try requires an external call or a contract creation")
		} else {
			rets = info.Returns
			if len(s.Returns) > 0 && len(s.Returns) != len(rets) {
				tc.report(diag.TypTupleArity, s.Returns[0].Span, "the call returns %d values, %d declared", len(rets), len(s.Returns))
				rets = nil
			}
		}
	}
	for i, p := range s.Returns {
		pt := tc.paramType(p)
		if i < len(rets) && !tc.types.ImplicitlyConvertible(rets[i], pt) {
			tc.report(diag.TypMismatch, p.Span, "cannot assign '%s' to '%s'", tc.label(rets[i]), tc.label(pt))
		}
	}

	before := maps.Clone(tc.fn.consts)
	tc.checkStmt(s.Body)
	merged := tc.fn.consts
	for _, c := range s.Catches {
		tc.checkCatch(c)
		tc.fn.consts = maps.Clone(before)
		tc.checkStmt(c.Body)
		merged = mergeConsts(merged, tc.fn.consts)
	}
	tc.fn.consts = merged
}

func (tc *typeChecker) paramType(p ast.Param) types.TypeID {
	loc := p.Location
	if loc == ast.LocNone {
		loc = ast.LocMemory
	}
	return tc.resolveType(p.Type, loc)
}

func (tc *typeChecker) checkCatch(c ast.CatchClause) {
	var want []types.TypeID
	var shape string
	switch c.Kind {
	case ast.CatchError:
		want, shape = []types.TypeID{tc.builtins.StringMemory}, "Error(string memory)"
	case ast.CatchPanic:
		want, shape = []types.TypeID{tc.builtins.Uint256}, "Panic(uint256)"
	case ast.CatchRaw:
		if len(c.Params) == 0 {
			return
		}
		want, shape = []types.TypeID{tc.builtins.BytesMemory}, "(bytes memory)"
	}
	if len(c.Params) != len(want) {
		tc.report(diag.TypMismatch, c.Span, "catch clause must have the form %s", shape)
		return
	}
	for i, p := range c.Params {
		if tc.types.StripLocation(tc.paramType(p)) != tc.types.StripLocation(want[i]) {
			tc.report(diag.TypMismatch, p.Span, "catch clause must have the form %s", shape)
		}
	}
}
