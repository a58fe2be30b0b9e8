package sema

import (
	"math/big"
	"strings"

	"solfront/internal/ast"
	"solfront/internal/diag"
	"solfront/internal/source"
	"solfront/internal/symbols"
	"solfront/internal/token"
	"solfront/internal/types"
)

// typeExpr computes and records the type of an expression. Each expression
// is typed once; later calls return the recorded type.
func (tc *typeChecker) typeExpr(id ast.ExprID) types.TypeID {
	if !id.IsValid() {
		return tc.builtins.Error
	}
	if t, ok := tc.result.ExprTypes[id]; ok {
		return t
	}
	t := tc.computeExpr(id)
	if t == types.NoTypeID {
		t = tc.builtins.Error
	}
	tc.result.ExprTypes[id] = t
	return t
}

func (tc *typeChecker) computeExpr(id ast.ExprID) types.TypeID {
	ex := tc.b.Exprs.Get(id)
	if ex == nil {
		return tc.builtins.Error
	}
	switch ex.Kind {
	case ast.ExprIdent:
		return tc.typeIdent(id)
	case ast.ExprLit:
		lit, _ := tc.b.Exprs.Lit(id)
		return tc.typeLiteral(id, lit)
	case ast.ExprUnary:
		u, _ := tc.b.Exprs.Unary(id)
		return tc.typeUnary(id, u)
	case ast.ExprBinary:
		bin, _ := tc.b.Exprs.Binary(id)
		return tc.typeBinary(id, bin)
	case ast.ExprAssign:
		a, _ := tc.b.Exprs.Assign(id)
		return tc.typeAssign(id, a)
	case ast.ExprConditional:
		c, _ := tc.b.Exprs.Conditional(id)
		return tc.typeConditional(id, c)
	case ast.ExprCall:
		call, _ := tc.b.Exprs.Call(id)
		return tc.typeCall(id, call)
	case ast.ExprCallOptions:
		opts, _ := tc.b.Exprs.CallOptions(id)
		tc.typeExpr(opts.Callee)
		for _, v := range opts.Values {
			tc.typeExpr(v)
		}
		tc.report(diag.TypBadCallOptions, ex.Span, "call options must be followed by a call")
		return tc.builtins.Error
	case ast.ExprMember:
		m, _ := tc.b.Exprs.Member(id)
		return tc.typeMember(id, m)
	case ast.ExprIndex:
		ix, _ := tc.b.Exprs.Index(id)
		return tc.typeIndex(id, ix)
	case ast.ExprSlice:
		s, _ := tc.b.Exprs.Slice(id)
		return tc.typeSlice(id, s)
	case ast.ExprTuple:
		tup, _ := tc.b.Exprs.Tuple(id)
		return tc.typeTuple(id, tup)
	case ast.ExprArray:
		tup, _ := tc.b.Exprs.Tuple(id)
		return tc.typeArrayLiteral(id, tup)
	case ast.ExprNew:
		n, _ := tc.b.Exprs.New(id)
		return tc.typeNew(id, n)
	case ast.ExprTypeName:
		tn, _ := tc.b.Exprs.TypeName(id)
		return tc.types.Intern(types.MakeTypeType(tc.resolveType(tn.Type, ast.LocMemory)))
	case ast.ExprMetaType:
		tn, _ := tc.b.Exprs.MetaType(id)
		target := tc.resolveType(tn.Type, ast.LocNone)
		switch tc.types.KindOf(target) {
		case types.KindInt, types.KindEnum, types.KindContract:
			return tc.types.TypeInfo(target)
		case types.KindError:
			return target
		}
		tc.report(diag.TypNotAType, ex.Span, "type(...) is not supported for '%s'", tc.label(target))
		return tc.builtins.Error
	}
	return tc.builtins.Error
}

func (tc *typeChecker) typeIdent(id ast.ExprID) types.TypeID {
	sid := tc.syms.ExprSymbols[id]
	sym := tc.symbol(sid)
	if sym == nil {
		return tc.builtins.Error
	}
	if ids := tc.visibleOverloads(tc.syms.Overloads[id]); len(ids) > 1 {
		ident, _ := tc.b.Exprs.Ident(id)
		tc.report(diag.TypAmbiguousOverload, tc.exprSpan(id),
			"'%s' is overloaded and must be called to select a declaration", tc.b.Name(ident.Name))
		return tc.builtins.Error
	}
	t := tc.symbolType(sid)
	switch {
	case tc.table.IsBuiltinNamed(sid, symbols.ThisName) && !tc.contract.IsValid():
		tc.report(diag.TypMismatch, tc.exprSpan(id), "'this' is only available inside contracts")
		return tc.builtins.Error
	case sym.Kind == symbols.SymbolStateVar && sym.Flags&symbols.SymbolFlagConstant != 0:
		if v, ok := tc.constValue(sym.Decl.Item, tc.exprSpan(id)); ok {
			tc.result.ConstValues[id] = v
		}
		tc.compileTime[id] = true
	case sym.Kind == symbols.SymbolLocal || sym.Kind == symbols.SymbolParam:
		if tc.fn != nil {
			if v, ok := tc.fn.consts[sid]; ok {
				tc.result.ConstValues[id] = v
			}
		}
	}
	return t
}

func (tc *typeChecker) typeLiteral(id ast.ExprID, lit *ast.LitExpr) types.TypeID {
	switch lit.Kind {
	case token.KwTrue, token.KwFalse:
		return tc.builtins.Bool
	case token.NumberLit, token.RationalLit, token.HexNumberLit:
		unit := ""
		if lit.Unit != source.NoStringID {
			unit = tc.b.Name(lit.Unit)
		}
		v, err := types.ParseNumber(lit.Value, unit)
		if err != nil {
			tc.report(diag.TypBadLiteral, tc.exprSpan(id), "invalid number literal '%s': %v", lit.Raw, err)
			return tc.builtins.Error
		}
		tc.compileTime[id] = true
		if v.IsInt() {
			tc.result.ConstValues[id] = new(big.Int).Set(v.Num())
		}
		return tc.types.LiteralNumber(v)
	case token.StringLit, token.UnicodeStringLit, token.HexStringLit:
		return tc.types.LiteralString(lit.Value)
	case token.AddressLit:
		return tc.builtins.Address
	}
	tc.report(diag.TypBadLiteral, tc.exprSpan(id), "unsupported literal '%s'", lit.Raw)
	return tc.builtins.Error
}

// value returns the integer value of an already typed expression when it is known.
func (tc *typeChecker) value(id ast.ExprID) (*big.Int, bool) {
	if v, ok := tc.result.ConstValues[id]; ok {
		return v, true
	}
	if v, ok := tc.types.LiteralIntValue(tc.result.ExprTypes[id]); ok {
		return v, true
	}
	return nil, false
}

// isCompileTime reports whether the value of id depends only on literals and constants.
func (tc *typeChecker) isCompileTime(id ast.ExprID) bool {
	return tc.compileTime[id] || tc.types.IsNumberLiteral(tc.result.ExprTypes[id])
}

// coerce checks that expr of type from converts implicitly to to and reports
// a mismatch otherwise. Number literals record their value at the target type.
func (tc *typeChecker) coerce(expr ast.ExprID, from, to types.TypeID) bool {
	return tc.coerceAs(diag.TypMismatch, expr, from, to)
}

func (tc *typeChecker) coerceAs(code diag.Code, expr ast.ExprID, from, to types.TypeID) bool {
	if tc.types.Convertible(from, to, types.ConvAssign) || tc.hexLiteralFits(expr, to) {
		if v, ok := tc.types.LiteralIntValue(from); ok && tc.types.IsInteger(to) {
			tc.result.ConstValues[expr] = v
		}
		return true
	}
	if tc.types.IsNumberLiteral(from) && tc.types.IsInteger(to) {
		v, _ := tc.types.LiteralValue(from)
		tc.report(diag.TypLiteralOutOfRange, tc.exprSpan(expr), "literal %s does not fit in '%s'", v.RatString(), tc.label(to))
		return false
	}
	tc.report(code, tc.exprSpan(expr), "cannot convert '%s' to '%s'", tc.label(from), tc.label(to))
	return false
}

// hexLiteralFits allows a hex number with exactly 2N digits where bytesN is expected.
func (tc *typeChecker) hexLiteralFits(expr ast.ExprID, to types.TypeID) bool {
	lit, ok := tc.b.Exprs.Lit(expr)
	if !ok || lit.Kind != token.HexNumberLit || tc.types.KindOf(to) != types.KindFixedBytes {
		return false
	}
	digits := strings.TrimPrefix(strings.TrimPrefix(lit.Value, "0x"), "0X")
	return len(digits) == 2*int(tc.types.MustLookup(to).Bits)
}

// recordAssignment classifies a reference-typed assignment as alias or copy.
func (tc *typeChecker) recordAssignment(valueExpr ast.ExprID, target, value types.TypeID) {
	if !tc.types.IsReference(target) || tc.types.KindOf(target) == types.KindMapping {
		return
	}
	kind := CopyAssignment
	if tc.types.LocationOf(target) == ast.LocStorage && tc.types.LocationOf(value) == ast.LocStorage {
		kind = AliasAssignment
	}
	tc.result.Assignments[valueExpr] = kind
}

func (tc *typeChecker) typeConditional(id ast.ExprID, c *ast.ConditionalExpr) types.TypeID {
	tc.condition(c.Cond)
	a := tc.typeExpr(c.Then)
	b := tc.typeExpr(c.Else)
	t, ok := tc.types.CommonType(a, b, types.ConvAssign)
	if !ok {
		tc.report(diag.TypMismatch, tc.exprSpan(id), "branches have incompatible types '%s' and '%s'", tc.label(a), tc.label(b))
		return tc.builtins.Error
	}
	if tc.types.IsNumberLiteral(t) {
		t = tc.types.Mobile(t)
	}
	return t
}

func (tc *typeChecker) typeTuple(id ast.ExprID, tup *ast.TupleExpr) types.TypeID {
	elems := make([]types.TypeID, len(tup.Elems))
	for i, e := range tup.Elems {
		if e.IsValid() {
			elems[i] = tc.typeExpr(e)
		}
	}
	return tc.types.RegisterTuple(elems)
}

// typeArrayLiteral types `[a, b, c]` as a fixed-size memory array of the
// common mobile type of its elements.
func (tc *typeChecker) typeArrayLiteral(id ast.ExprID, tup *ast.TupleExpr) types.TypeID {
	if len(tup.Elems) == 0 {
		tc.report(diag.TypMismatch, tc.exprSpan(id), "array literals cannot be empty")
		return tc.builtins.Error
	}
	elemTypes := make([]types.TypeID, len(tup.Elems))
	common := types.NoTypeID
	for i, e := range tup.Elems {
		elemTypes[i] = tc.typeExpr(e)
		mobile := tc.types.Mobile(elemTypes[i])
		if tc.types.IsError(mobile) {
			if !tc.types.IsError(elemTypes[i]) {
				tc.report(diag.TypMismatch, tc.exprSpan(e), "'%s' cannot be stored in an array", tc.label(elemTypes[i]))
			}
			return tc.builtins.Error
		}
		if common == types.NoTypeID {
			common = mobile
			continue
		}
		next, ok := tc.types.CommonType(common, mobile, types.ConvAssign)
		if !ok {
			if tc.types.IsInteger(common) && tc.types.IsInteger(mobile) {
				next, ok = tc.widerInt(common, mobile)
			}
			if !ok {
				tc.report(diag.TypMismatch, tc.exprSpan(e), "array element of type '%s' does not match '%s'", tc.label(mobile), tc.label(common))
				return tc.builtins.Error
			}
		}
		common = next
	}
	common = tc.types.WithLocation(common, ast.LocMemory)
	for i, e := range tup.Elems {
		tc.coerce(e, elemTypes[i], common)
	}
	n := uint32(len(tup.Elems))
	return tc.types.Intern(types.MakeArray(common, n, ast.LocMemory))
}

// widerInt joins two integer types of the same signedness.
func (tc *typeChecker) widerInt(a, b types.TypeID) (types.TypeID, bool) {
	ta, tb := tc.types.MustLookup(a), tc.types.MustLookup(b)
	if ta.Signed != tb.Signed {
		return types.NoTypeID, false
	}
	if ta.Bits >= tb.Bits {
		return a, true
	}
	return b, true
}

func (tc *typeChecker) typeIndex(id ast.ExprID, ix *ast.IndexExpr) types.TypeID {
	tt := tc.typeExpr(ix.Target)
	if tc.types.IsError(tt) {
		tc.typeExpr(ix.Index)
		return tt
	}
	target := tc.types.MustLookup(tt)
	if target.Kind == types.KindTypeType {
		elem := target.Elem
		length := types.ArrayDynamic
		if ix.Index.IsValid() {
			n, ok := tc.arrayLength(ix.Index)
			if !ok {
				return tc.builtins.Error
			}
			length = n
		}
		arr := tc.types.Intern(types.MakeArray(tc.types.WithLocation(elem, ast.LocMemory), length, ast.LocMemory))
		return tc.types.Intern(types.MakeTypeType(arr))
	}
	if !ix.Index.IsValid() {
		tc.report(diag.TypNotIndexable, tc.exprSpan(id), "index expression expected")
		return tc.builtins.Error
	}
	it := tc.typeExpr(ix.Index)
	switch target.Kind {
	case types.KindMapping:
		tc.coerce(ix.Index, it, target.Key)
		return target.Elem
	case types.KindArray:
		tc.coerce(ix.Index, it, tc.builtins.Uint256)
		if target.Len != types.ArrayDynamic {
			tc.checkBounds(id, ix.Index, uint64(target.Len))
		}
		return target.Elem
	case types.KindBytes:
		tc.coerce(ix.Index, it, tc.builtins.Uint256)
		return tc.types.Intern(types.MakeFixedBytes(1))
	case types.KindFixedBytes:
		tc.coerce(ix.Index, it, tc.builtins.Uint256)
		tc.checkBounds(id, ix.Index, uint64(target.Bits))
		return tc.types.Intern(types.MakeFixedBytes(1))
	case types.KindString:
		tc.report(diag.TypNotIndexable, tc.exprSpan(id), "strings cannot be indexed; convert to bytes first")
		return tc.builtins.Error
	}
	tc.report(diag.TypNotIndexable, tc.exprSpan(id), "'%s' cannot be indexed", tc.label(tt))
	return tc.builtins.Error
}

// checkBounds reports a known index past the end of a fixed-size sequence.
func (tc *typeChecker) checkBounds(id, index ast.ExprID, length uint64) {
	v, ok := tc.value(index)
	if !ok || v.Sign() < 0 || v.Cmp(new(big.Int).SetUint64(length)) < 0 {
		return
	}
	tc.result.Reverts[id] = types.PanicIndex
	if tc.isCompileTime(index) {
		tc.report(diag.TypIndexOutOfBounds, tc.exprSpan(index), "index %s is out of bounds for length %d", v.String(), length)
		return
	}
	tc.warn(diag.TypIndexOutOfBounds, tc.exprSpan(index), "index is always %s here, out of bounds for length %d", v.String(), length)
}

func (tc *typeChecker) typeSlice(id ast.ExprID, s *ast.SliceExpr) types.TypeID {
	tt := tc.typeExpr(s.Target)
	for _, e := range []ast.ExprID{s.Start, s.End} {
		if e.IsValid() {
			tc.coerce(e, tc.typeExpr(e), tc.builtins.Uint256)
		}
	}
	if tc.types.IsError(tt) {
		return tt
	}
	target := tc.types.MustLookup(tt)
	dynamic := target.Kind == types.KindBytes || target.Kind == types.KindArray && target.Len == types.ArrayDynamic
	if !dynamic {
		tc.report(diag.TypNotIndexable, tc.exprSpan(id), "'%s' cannot be sliced", tc.label(tt))
		return tc.builtins.Error
	}
	if target.Location == ast.LocMemory {
		tc.report(diag.TypNotIndexable, tc.exprSpan(id), "slices are only supported for calldata arrays")
		return tc.builtins.Error
	}
	return tt
}

// typeNew types `new C` and `new T[]` as creation functions.
func (tc *typeChecker) typeNew(id ast.ExprID, n *ast.NewExpr) types.TypeID {
	t := tc.resolveType(n.Type, ast.LocMemory)
	if tc.types.IsError(t) {
		return t
	}
	tt := tc.types.MustLookup(t)
	switch {
	case tt.Kind == types.KindContract:
		info, _ := tc.types.Nominal(t)
		if info.ContractKind != ast.ContractPlain || info.Abstract {
			tc.report(diag.TypAbstractNew, tc.exprSpan(id), "cannot create an instance of %s '%s'", contractNoun(info), info.Name)
			return tc.builtins.Error
		}
		mut := ast.MutNonPayable
		if _, ctor := tc.constructor(info.Decl); ctor != nil && ctor.Mutability == ast.MutPayable {
			mut = ast.MutPayable
		}
		return tc.types.RegisterFn(types.FnInfo{
			Kind:       types.FnCreation,
			Params:     tc.constructorParams(info.Decl),
			Returns:    []types.TypeID{t},
			Mutability: mut,
		})
	case tt.Kind == types.KindBytes, tt.Kind == types.KindString,
		tt.Kind == types.KindArray && tt.Len == types.ArrayDynamic:
		return tc.types.RegisterFn(types.FnInfo{
			Kind:    types.FnCreation,
			Params:  []types.TypeID{tc.builtins.Uint256},
			Returns: []types.TypeID{t},
		})
	}
	tc.report(diag.TypNotCallable, tc.exprSpan(id), "'new' cannot create '%s'", tc.label(t))
	return tc.builtins.Error
}

func contractNoun(info *types.NominalInfo) string {
	switch {
	case info.ContractKind == ast.ContractInterface:
		return "interface"
	case info.ContractKind == ast.ContractLibrary:
		return "library"
	case info.Abstract:
		return "abstract contract"
	}
	return "contract"
}
