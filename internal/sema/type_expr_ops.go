package sema

import (
	"errors"
	"math/big"

	"solfront/internal/ast"
	"solfront/internal/diag"
	"solfront/internal/symbols"
	"solfront/internal/token"
	"solfront/internal/types"
)

func (tc *typeChecker) typeBinary(id ast.ExprID, e *ast.BinaryExpr) types.TypeID {
	l := tc.typeExpr(e.Left)
	r := tc.typeExpr(e.Right)
	if tc.types.IsError(l) || tc.types.IsError(r) {
		return tc.builtins.Error
	}
	if tc.types.IsNumberLiteral(l) && tc.types.IsNumberLiteral(r) {
		return tc.foldLiterals(id, e)
	}
	res, ok := tc.types.BinaryResult(e.Op, l, r)
	if !ok {
		tc.report(diag.TypBadOperator, tc.exprSpan(id), "operator %s is not defined for '%s' and '%s'", e.Op, tc.label(l), tc.label(r))
		return tc.builtins.Error
	}
	if tc.types.IsInteger(res) {
		tc.evalBinary(id, e.Op, e.Left, e.Right, res)
	}
	return res
}

// foldLiterals evaluates an operator over two number literals exactly.
func (tc *typeChecker) foldLiterals(id ast.ExprID, e *ast.BinaryExpr) types.TypeID {
	lv, _ := tc.types.LiteralValue(tc.result.ExprTypes[e.Left])
	rv, _ := tc.types.LiteralValue(tc.result.ExprTypes[e.Right])
	switch e.Op {
	case token.EqEq, token.BangEq, token.Lt, token.LtEq, token.Gt, token.GtEq:
		return tc.builtins.Bool
	}
	out, code, err := types.FoldLiteral(e.Op, lv, rv)
	switch {
	case code == types.PanicDivZero:
		tc.result.Reverts[id] = code
		tc.report(diag.TypDivisionByZero, tc.exprSpan(id), "division by zero")
		return tc.builtins.Error
	case errors.Is(err, types.ErrLiteralTooLarge):
		tc.report(diag.TypBadLiteral, tc.exprSpan(id), "literal value is too large")
		return tc.builtins.Error
	case err != nil:
		tc.report(diag.TypBadOperator, tc.exprSpan(id), "operator %s cannot be applied to %s and %s", e.Op, lv.RatString(), rv.RatString())
		return tc.builtins.Error
	}
	tc.compileTime[id] = true
	if out.IsInt() {
		tc.result.ConstValues[id] = new(big.Int).Set(out.Num())
	}
	return tc.types.LiteralNumber(out)
}

// evalBinary computes the value of an integer operation when both operands
// are known and records provable reverts.
func (tc *typeChecker) evalBinary(id ast.ExprID, op token.Kind, left, right ast.ExprID, res types.TypeID) {
	b, ok := tc.value(right)
	if !ok {
		return
	}
	if (op == token.Slash || op == token.Percent) && b.Sign() == 0 {
		tc.result.Reverts[id] = types.PanicDivZero
		if tc.isCompileTime(right) {
			tc.report(diag.TypDivisionByZero, tc.exprSpan(right), "division by zero")
			return
		}
		tc.warn(diag.TypProvableRevert, tc.exprSpan(right), "divisor is always zero here; the operation reverts")
		return
	}
	a, ok := tc.value(left)
	if !ok {
		return
	}
	rt := tc.types.MustLookup(res)
	v, code := types.EvalInt(op, a, b, rt.Bits, rt.Signed, tc.checked())
	constant := tc.isCompileTime(left) && tc.isCompileTime(right)
	switch {
	case code != types.PanicNone:
		tc.result.Reverts[id] = code
		tc.provableRevert(id, constant, "%s %s %s overflows '%s'", a, op, b, tc.label(res))
	case v != nil:
		tc.result.ConstValues[id] = v
		tc.compileTime[id] = constant
	}
}

// provableRevert reports an operation that always reverts: an error when it
// only involves constants, a warning when a propagated value is involved.
func (tc *typeChecker) provableRevert(id ast.ExprID, constant bool, format string, args ...any) {
	if constant {
		tc.report(diag.TypProvableRevert, tc.exprSpan(id), format, args...)
		return
	}
	tc.warn(diag.TypProvableRevert, tc.exprSpan(id), format, args...)
}

func (tc *typeChecker) typeUnary(id ast.ExprID, u *ast.UnaryExpr) types.TypeID {
	t := tc.typeExpr(u.Operand)
	if u.Op == token.KwDelete {
		tc.checkLValue(u.Operand)
		if tc.types.IsInteger(t) {
			tc.setLocal(u.Operand, new(big.Int))
		} else {
			tc.setLocal(u.Operand, nil)
		}
		return tc.builtins.Unit
	}
	if tc.types.IsError(t) {
		return t
	}
	if tc.types.IsNumberLiteral(t) && (u.Op == token.Minus || u.Op == token.Tilde) {
		return tc.foldUnaryLiteral(id, u.Op, t)
	}
	incDec := u.Op == token.PlusPlus || u.Op == token.MinusMinus
	if incDec {
		tc.checkLValue(u.Operand)
	}
	res, ok := tc.types.UnaryResult(u.Op, t)
	if !ok {
		tc.report(diag.TypBadOperator, tc.exprSpan(id), "unary operator %s is not defined for '%s'", u.Op, tc.label(t))
		return tc.builtins.Error
	}
	if !tc.types.IsInteger(res) {
		return res
	}
	a, known := tc.value(u.Operand)
	if !known {
		if incDec {
			tc.setLocal(u.Operand, nil)
		}
		return res
	}
	rt := tc.types.MustLookup(res)
	v, code := types.EvalUnary(u.Op, a, rt.Bits, rt.Signed, tc.checked())
	if code != types.PanicNone {
		tc.result.Reverts[id] = code
		tc.provableRevert(id, tc.isCompileTime(u.Operand), "%s%s overflows '%s'", u.Op, a, tc.label(res))
		if incDec {
			tc.setLocal(u.Operand, nil)
		}
		return res
	}
	if incDec {
		tc.setLocal(u.Operand, v)
		if u.Postfix {
			tc.result.ConstValues[id] = a
			return res
		}
	}
	tc.result.ConstValues[id] = v
	tc.compileTime[id] = !incDec && tc.isCompileTime(u.Operand)
	return res
}

func (tc *typeChecker) foldUnaryLiteral(id ast.ExprID, op token.Kind, t types.TypeID) types.TypeID {
	v, _ := tc.types.LiteralValue(t)
	out := new(big.Rat)
	if op == token.Minus {
		out.Neg(v)
	} else {
		if !v.IsInt() {
			tc.report(diag.TypBadOperator, tc.exprSpan(id), "operator ~ requires an integer")
			return tc.builtins.Error
		}
		out.SetInt(new(big.Int).Not(v.Num()))
	}
	tc.compileTime[id] = true
	if out.IsInt() {
		tc.result.ConstValues[id] = new(big.Int).Set(out.Num())
	}
	return tc.types.LiteralNumber(out)
}

func (tc *typeChecker) typeAssign(id ast.ExprID, a *ast.AssignExpr) types.TypeID {
	if ex := tc.b.Exprs.Get(a.Target); ex != nil && ex.Kind == ast.ExprTuple && a.Op == token.Assign {
		tup, _ := tc.b.Exprs.Tuple(a.Target)
		return tc.typeDestructure(id, tup, a)
	}
	tt := tc.typeExpr(a.Target)
	vt := tc.typeExpr(a.Value)
	tc.checkLValue(a.Target)
	if tc.types.IsError(tt) || tc.types.IsError(vt) {
		tc.setLocal(a.Target, nil)
		return tc.builtins.Error
	}
	if a.Op == token.Assign {
		if tc.coerce(a.Value, vt, tt) {
			tc.recordAssignment(a.Value, tt, vt)
		}
		if v, ok := tc.value(a.Value); ok && tc.types.IsInteger(tt) {
			tc.setLocal(a.Target, v)
			tc.result.ConstValues[id] = v
		} else {
			tc.setLocal(a.Target, nil)
		}
		return tt
	}

	op, _ := types.CompoundOp(a.Op)
	res, ok := tc.types.BinaryResult(op, tt, vt)
	if !ok || !tc.types.ImplicitlyConvertible(res, tt) {
		tc.report(diag.TypBadOperator, tc.exprSpan(id), "operator %s is not defined for '%s' and '%s'", a.Op, tc.label(tt), tc.label(vt))
		tc.setLocal(a.Target, nil)
		return tc.builtins.Error
	}
	if tc.types.IsInteger(tt) {
		tc.evalBinary(id, op, a.Target, a.Value, tt)
	}
	if v, ok := tc.result.ConstValues[id]; ok {
		tc.setLocal(a.Target, v)
	} else {
		tc.setLocal(a.Target, nil)
	}
	return tt
}

// typeDestructure checks `(a, , b) = expr`.
func (tc *typeChecker) typeDestructure(id ast.ExprID, targets *ast.TupleExpr, a *ast.AssignExpr) types.TypeID {
	vt := tc.typeExpr(a.Value)
	elems := make([]types.TypeID, len(targets.Elems))
	for i, e := range targets.Elems {
		if e.IsValid() {
			elems[i] = tc.typeExpr(e)
			tc.checkLValue(e)
			tc.setLocal(e, nil)
		}
	}
	tc.result.ExprTypes[a.Target] = tc.types.RegisterTuple(elems)
	if tc.types.IsError(vt) {
		return tc.builtins.Unit
	}
	info, ok := tc.types.TupleInfo(vt)
	if !ok || len(info.Elems) != len(elems) {
		n := 1
		if ok {
			n = len(info.Elems)
		}
		tc.report(diag.TypTupleArity, tc.exprSpan(id), "cannot assign %d values to %d components", n, len(elems))
		return tc.builtins.Unit
	}
	values, isLiteral := tc.b.Exprs.Tuple(a.Value)
	for i, e := range targets.Elems {
		if !e.IsValid() {
			continue
		}
		if info.Elems[i] == types.NoTypeID {
			tc.report(diag.TypMismatch, tc.exprSpan(e), "component %d has no value", i+1)
			continue
		}
		if isLiteral && values.Elems[i].IsValid() {
			if tc.coerce(values.Elems[i], info.Elems[i], elems[i]) {
				tc.recordAssignment(values.Elems[i], elems[i], info.Elems[i])
			}
			continue
		}
		if !tc.types.ImplicitlyConvertible(info.Elems[i], elems[i]) {
			tc.report(diag.TypMismatch, tc.exprSpan(e), "cannot assign '%s' to '%s'", tc.label(info.Elems[i]), tc.label(elems[i]))
		}
	}
	return tc.builtins.Unit
}

// checkLValue reports expressions that cannot be assigned to.
func (tc *typeChecker) checkLValue(id ast.ExprID) {
	ex := tc.b.Exprs.Get(id)
	if ex == nil {
		return
	}
	t := tc.result.ExprTypes[id]
	if tc.types.IsError(t) {
		return
	}
	switch ex.Kind {
	case ast.ExprIdent:
		sym := tc.symbol(tc.syms.ExprSymbols[id])
		if sym == nil {
			return
		}
		switch {
		case !sym.Kind.IsVariable():
			tc.report(diag.TypNotLValue, ex.Span, "cannot assign to %s '%s'", sym.Kind, tc.b.Name(sym.Name))
			return
		case sym.Flags&symbols.SymbolFlagConstant != 0:
			tc.report(diag.TypReadOnlyAssign, ex.Span, "cannot assign to constant '%s'", tc.b.Name(sym.Name))
			return
		case sym.Flags&symbols.SymbolFlagImmutable != 0 && !tc.inConstructor():
			tc.report(diag.TypReadOnlyAssign, ex.Span, "immutable '%s' can only be assigned in the constructor", tc.b.Name(sym.Name))
			return
		}
	case ast.ExprMember:
		m, _ := tc.b.Exprs.Member(id)
		switch tc.types.KindOf(tc.result.ExprTypes[m.Target]) {
		case types.KindStruct:
		case types.KindArray, types.KindBytes:
			tc.report(diag.TypNotLValue, ex.Span, "'%s' is read-only", tc.b.Name(m.Name))
			return
		default:
			tc.report(diag.TypNotLValue, ex.Span, "member '%s' cannot be assigned", tc.b.Name(m.Name))
			return
		}
	case ast.ExprIndex:
		ix, _ := tc.b.Exprs.Index(id)
		if tc.types.KindOf(tc.result.ExprTypes[ix.Target]) == types.KindFixedBytes {
			tc.report(diag.TypNotLValue, ex.Span, "fixed-size bytes are read-only")
			return
		}
	case ast.ExprTuple:
		tup, _ := tc.b.Exprs.Tuple(id)
		for _, e := range tup.Elems {
			if e.IsValid() {
				tc.checkLValue(e)
			}
		}
		return
	default:
		tc.report(diag.TypNotLValue, ex.Span, "expression cannot be assigned to")
		return
	}
	if tc.types.KindOf(t) == types.KindMapping {
		tc.report(diag.TypNotLValue, ex.Span, "mappings cannot be assigned to")
	}
}

func (tc *typeChecker) inConstructor() bool {
	return tc.fn != nil && tc.fn.decl != nil && tc.fn.decl.Kind == ast.FnConstructor
}

// localSymbol returns the local or parameter an identifier names.
func (tc *typeChecker) localSymbol(id ast.ExprID) (symbols.SymbolID, bool) {
	if _, ok := tc.b.Exprs.Ident(id); !ok {
		return symbols.NoSymbolID, false
	}
	sid := tc.syms.ExprSymbols[id]
	sym := tc.symbol(sid)
	if sym == nil || sym.Kind != symbols.SymbolLocal && sym.Kind != symbols.SymbolParam {
		return symbols.NoSymbolID, false
	}
	return sid, true
}

// setLocal records the value a local holds after an assignment; nil forgets it.
func (tc *typeChecker) setLocal(target ast.ExprID, v *big.Int) {
	if tc.fn == nil {
		return
	}
	sid, ok := tc.localSymbol(target)
	if !ok {
		return
	}
	if v == nil {
		delete(tc.fn.consts, sid)
		return
	}
	tc.fn.consts[sid] = v
}
