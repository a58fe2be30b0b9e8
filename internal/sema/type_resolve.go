package sema

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"solfront/internal/ast"
	"solfront/internal/diag"
	"solfront/internal/types"
)

// resolveType converts a type expression into an interned type. loc is
// applied to reference types; LocNone keeps them location-free, as for
// struct fields and mapping keys.
func (tc *typeChecker) resolveType(id ast.TypeExprID, loc ast.DataLocation) types.TypeID {
	if !id.IsValid() {
		return tc.builtins.Error
	}
	key := typeKey{id: id, loc: loc}
	if t, ok := tc.typeCache[key]; ok {
		return t
	}
	t := tc.buildType(id, loc)
	tc.typeCache[key] = t
	return t
}

func (tc *typeChecker) buildType(id ast.TypeExprID, loc ast.DataLocation) types.TypeID {
	te := tc.b.Types.Get(id)
	if te == nil {
		return tc.builtins.Error
	}
	switch te.Kind {
	case ast.TypeElementary:
		el, _ := tc.b.Types.ElementaryType(id)
		name := tc.b.Name(el.Name)
		t, ok := tc.elementary(name, el.Payable, loc)
		if !ok {
			tc.report(diag.TypNotAType, te.Span, "'%s' is not a supported type", name)
			return tc.builtins.Error
		}
		return t
	case ast.TypeUser:
		sym := tc.symbol(tc.syms.TypeSymbols[id])
		if sym == nil {
			return tc.builtins.Error
		}
		t, ok := tc.result.ItemTypes[sym.Decl.Item]
		if !ok {
			return tc.builtins.Error
		}
		return tc.types.WithLocation(t, loc)
	case ast.TypeMapping:
		m, _ := tc.b.Types.Mapping(id)
		key := tc.resolveType(m.Key, ast.LocNone)
		if !tc.types.IsError(key) && !tc.types.ValidMappingKey(key, tc.cfg.StructMappingKeys) {
			tc.report(diag.TypBadMappingKey, tc.typeSpan(m.Key), "'%s' cannot be used as a mapping key", tc.label(key))
			key = tc.builtins.Error
		}
		return tc.types.Intern(types.MakeMapping(key, tc.resolveType(m.Value, ast.LocStorage)))
	case ast.TypeArray:
		a, _ := tc.b.Types.Array(id)
		elem := tc.resolveType(a.Elem, loc)
		if tc.types.IsError(elem) {
			return elem
		}
		length := types.ArrayDynamic
		if a.Len.IsValid() {
			n, ok := tc.arrayLength(a.Len)
			if !ok {
				return tc.builtins.Error
			}
			length = n
		}
		return tc.types.Intern(types.MakeArray(elem, length, loc))
	case ast.TypeFunction:
		fn, _ := tc.b.Types.Function(id)
		kind := types.FnInternal
		if fn.Visibility == ast.VisExternal {
			kind = types.FnExternal
		}
		return tc.types.RegisterFn(types.FnInfo{
			Kind:       kind,
			Params:     tc.paramTypes(fn.Params, ast.LocMemory),
			Returns:    tc.paramTypes(fn.Returns, ast.LocMemory),
			Mutability: fn.Mutability,
		})
	}
	return tc.builtins.Error
}

// elementary maps a built-in type name to its type.
func (tc *typeChecker) elementary(name string, payable bool, loc ast.DataLocation) (types.TypeID, bool) {
	switch name {
	case "bool":
		return tc.builtins.Bool, true
	case "address":
		if payable {
			return tc.builtins.AddressPayable, true
		}
		return tc.builtins.Address, true
	case "string":
		return tc.types.Intern(types.Type{Kind: types.KindString, Location: loc}), true
	case "bytes":
		return tc.types.Intern(types.Type{Kind: types.KindBytes, Location: loc}), true
	case "uint":
		return tc.builtins.Uint256, true
	case "int":
		return tc.builtins.Int256, true
	case "byte":
		return tc.types.Intern(types.MakeFixedBytes(1)), true
	}
	switch {
	case strings.HasPrefix(name, "uint"):
		if bits, ok := sizeSuffix(name[4:], 8, 256, 8); ok {
			return tc.types.Intern(types.MakeInt(bits, false)), true
		}
	case strings.HasPrefix(name, "int"):
		if bits, ok := sizeSuffix(name[3:], 8, 256, 8); ok {
			return tc.types.Intern(types.MakeInt(bits, true)), true
		}
	case strings.HasPrefix(name, "bytes"):
		if n, ok := sizeSuffix(name[5:], 1, 32, 1); ok {
			return tc.types.Intern(types.MakeFixedBytes(n)), true
		}
	}
	return types.NoTypeID, false
}

func sizeSuffix(s string, lo, hi, step int) (uint16, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n < lo || n > hi || n%step != 0 {
		return 0, false
	}
	return uint16(n), true
}

// arrayLength evaluates the length of T[N]. N must be a positive compile-time
// constant that fits in 32 bits.
func (tc *typeChecker) arrayLength(expr ast.ExprID) (uint32, bool) {
	t := tc.typeExpr(expr)
	if tc.types.IsError(t) {
		return 0, false
	}
	v, ok := tc.result.ConstValues[expr]
	if lit, isLit := tc.types.LiteralIntValue(t); isLit {
		v, ok = lit, true
	}
	if !ok || !tc.compileTime[expr] && !tc.types.IsNumberLiteral(t) {
		tc.report(diag.TypBadArrayLength, tc.exprSpan(expr), "array length must be a constant expression")
		return 0, false
	}
	if v.Sign() <= 0 || v.Cmp(big.NewInt(math.MaxUint32-1)) > 0 {
		tc.report(diag.TypBadArrayLength, tc.exprSpan(expr), "array length %s is out of range", v.String())
		return 0, false
	}
	return uint32(v.Uint64()), true
}
