package sema

import (
	"math/big"

	"solfront/internal/ast"
	"solfront/internal/diag"
	"solfront/internal/symbols"
	"solfront/internal/types"
)

// candidate is one function a member access or identifier may select.
type candidate struct {
	sym symbols.SymbolID
	typ types.TypeID
	// unrelated marks `C.f` where C is neither a library nor a base of the
	// current contract; such a function can be named but not called.
	unrelated bool
}

func (tc *typeChecker) typeMember(id ast.ExprID, m *ast.MemberExpr) types.TypeID {
	cands, t := tc.members(id, m)
	switch len(cands) {
	case 0:
		return t
	case 1:
		if cands[0].sym.IsValid() {
			tc.result.MemberSymbols[id] = cands[0].sym
		}
		return cands[0].typ
	}
	tc.report(diag.TypAmbiguousOverload, m.NameSpan,
		"member '%s' is overloaded and must be called to select a declaration", tc.b.Name(m.Name))
	return tc.builtins.Error
}

// members looks up m. Function members come back as candidates so a call
// can pick an overload; any other member comes back as a type.
func (tc *typeChecker) members(id ast.ExprID, m *ast.MemberExpr) ([]candidate, types.TypeID) {
	tt := tc.typeExpr(m.Target)
	if tc.types.IsError(tt) {
		return nil, tt
	}
	if sid, ok := tc.syms.ExprSymbols[id]; ok {
		return tc.resolvedMember(id, sid, tt)
	}
	name := tc.b.Name(m.Name)
	target := tc.types.MustLookup(tt)

	switch target.Kind {
	case types.KindMagic:
		return nil, tc.magicMember(id, m, tt)
	case types.KindTypeType:
		return tc.staticMember(id, m, target.Elem)
	case types.KindContract:
		if cands, t, ok := tc.instanceMember(m, tt); ok {
			return cands, t
		}
	case types.KindAddress:
		if cands, t, ok := tc.addressMember(m, target); ok {
			return cands, t
		}
	case types.KindStruct:
		if ft, ok := tc.types.FieldType(tt, name); ok {
			return nil, ft
		}
	case types.KindArray, types.KindBytes:
		if cands, t, ok := tc.sequenceMember(id, m, target); ok {
			return cands, t
		}
	case types.KindFixedBytes:
		if name == "length" {
			tc.result.ConstValues[id] = big.NewInt(int64(target.Bits))
			return nil, tc.builtins.Uint8
		}
	case types.KindFunction:
		if t, ok := tc.functionMember(m, tt); ok {
			return nil, t
		}
	}

	if cands := tc.boundFunctions(tt, m); len(cands) > 0 {
		return cands, types.NoTypeID
	}
	tc.report(diag.TypNoMember, m.NameSpan, "'%s' has no member '%s'", tc.label(tt), name)
	return nil, tc.builtins.Error
}

// resolvedMember types members bound during name resolution: `this.f`,
// `super.f`, `C.f` and `Namespace.x`.
func (tc *typeChecker) resolvedMember(id ast.ExprID, sid symbols.SymbolID, tt types.TypeID) ([]candidate, types.TypeID) {
	ids := tc.visibleOverloads(tc.syms.Overloads[id])
	if len(ids) == 0 {
		ids = []symbols.SymbolID{sid}
	}
	target := tc.types.MustLookup(tt)
	var owner types.TypeID
	if target.Kind == types.KindTypeType && tc.types.KindOf(target.Elem) == types.KindContract {
		owner = target.Elem
	}

	cands := make([]candidate, 0, len(ids))
	for _, s := range ids {
		sym := tc.symbol(s)
		if sym == nil {
			continue
		}
		t := tc.symbolType(s)
		c := candidate{sym: s, typ: t}
		switch {
		case target.Kind == types.KindContract:
			switch sym.Kind {
			case symbols.SymbolFunction:
				c.typ = tc.externalType(t)
			case symbols.SymbolStateVar:
				if sym.Visibility != ast.VisPublic {
					tc.report(diag.TypNoMember, tc.exprSpan(id), "state variable '%s' is not public", tc.symbolName(s))
					return nil, tc.builtins.Error
				}
				return nil, tc.types.Getter(t)
			}
		case owner != types.NoTypeID && sym.Kind == symbols.SymbolFunction:
			info, _ := tc.types.Nominal(owner)
			current := tc.result.ItemTypes[tc.contract]
			related := info.ContractKind == ast.ContractLibrary ||
				current != types.NoTypeID && tc.types.IsBaseContract(current, owner)
			c.unrelated = !related
		}
		if !sym.Kind.IsType() && sym.Kind != symbols.SymbolFunction && sym.Kind != symbols.SymbolEvent &&
			sym.Kind != symbols.SymbolError && sym.Kind != symbols.SymbolBuiltin {
			tc.compileTime[id] = sym.Flags&symbols.SymbolFlagConstant != 0
			if tc.compileTime[id] {
				if v, ok := tc.constValue(sym.Decl.Item, tc.exprSpan(id)); ok {
					tc.result.ConstValues[id] = v
				}
			}
			return nil, c.typ
		}
		if sym.Kind.IsType() {
			return nil, c.typ
		}
		cands = append(cands, c)
	}
	if len(cands) == 0 {
		return nil, tc.builtins.Error
	}
	return cands, types.NoTypeID
}

// externalType returns the external view of an internal function type;
// reference parameters are passed from memory.
func (tc *typeChecker) externalType(t types.TypeID) types.TypeID {
	info, ok := tc.types.FnInfo(t)
	if !ok {
		return t
	}
	next := *info
	next.Kind = types.FnExternal
	next.Params = tc.withLocation(info.Params, ast.LocMemory)
	next.Returns = tc.withLocation(info.Returns, ast.LocMemory)
	return tc.types.RegisterFn(next)
}

func (tc *typeChecker) withLocation(ids []types.TypeID, loc ast.DataLocation) []types.TypeID {
	out := make([]types.TypeID, len(ids))
	for i, t := range ids {
		out[i] = tc.types.WithLocation(t, loc)
	}
	return out
}

func (tc *typeChecker) magicMember(id ast.ExprID, m *ast.MemberExpr, tt types.TypeID) types.TypeID {
	target := tc.types.MustLookup(tt)
	switch types.MagicKind(target.Payload) {
	case types.MagicSuper, types.MagicModule:
		// reported during name resolution
		return tc.builtins.Error
	}
	name := tc.b.Name(m.Name)
	mm, ok := tc.types.MagicMemberOf(tt, name)
	if !ok {
		tc.report(diag.TypNoMember, m.NameSpan, "'%s' has no member '%s'", tc.label(tt), name)
		return tc.builtins.Error
	}
	if types.MagicKind(target.Payload) == types.MagicTypeInfo && (name == "min" || name == "max") {
		of := tc.types.MustLookup(target.Elem)
		var v *big.Int
		switch of.Kind {
		case types.KindInt:
			lo, hi := types.IntRange(of.Bits, of.Signed)
			v = hi
			if name == "min" {
				v = lo
			}
		case types.KindEnum:
			info, _ := tc.types.Nominal(target.Elem)
			v = new(big.Int)
			if name == "max" {
				v.SetInt64(int64(len(info.Members) - 1))
			}
		}
		if v != nil {
			tc.result.ConstValues[id] = v
			tc.compileTime[id] = true
		}
	}
	return mm.Type
}

// staticMember types members of a type name: enum values, UDVT wrap and
// unwrap, string.concat and bytes.concat.
func (tc *typeChecker) staticMember(id ast.ExprID, m *ast.MemberExpr, of types.TypeID) ([]candidate, types.TypeID) {
	name := tc.b.Name(m.Name)
	switch tc.types.KindOf(of) {
	case types.KindEnum:
		if idx, ok := tc.types.EnumIndex(of, name); ok {
			tc.result.ConstValues[id] = big.NewInt(int64(idx))
			tc.compileTime[id] = true
			return nil, of
		}
	case types.KindUDVT:
		under := tc.types.Underlying(of)
		switch name {
		case "wrap":
			return nil, tc.types.RegisterFn(types.FnInfo{
				Kind: types.FnBuiltin, Params: []types.TypeID{under}, Returns: []types.TypeID{of}, Mutability: ast.MutPure,
			})
		case "unwrap":
			return nil, tc.types.RegisterFn(types.FnInfo{
				Kind: types.FnBuiltin, Params: []types.TypeID{of}, Returns: []types.TypeID{under}, Mutability: ast.MutPure,
			})
		}
	case types.KindString:
		if name == "concat" {
			return nil, tc.types.RegisterFn(types.FnInfo{
				Kind: types.FnBuiltin, Returns: []types.TypeID{tc.builtins.StringMemory}, Mutability: ast.MutPure, Variadic: true,
			})
		}
	case types.KindBytes:
		if name == "concat" {
			return nil, tc.types.RegisterFn(types.FnInfo{
				Kind: types.FnBuiltin, Returns: []types.TypeID{tc.builtins.BytesMemory}, Mutability: ast.MutPure, Variadic: true,
			})
		}
	}
	tc.report(diag.TypNoMember, m.NameSpan, "type '%s' has no member '%s'", tc.label(of), name)
	return nil, tc.builtins.Error
}

// instanceMember looks up the externally visible members of a contract value.
func (tc *typeChecker) instanceMember(m *ast.MemberExpr, tt types.TypeID) ([]candidate, types.TypeID, bool) {
	info, _ := tc.types.Nominal(tt)
	ids := tc.visibleOverloads(tc.syms.LookupInContract(info.Decl, m.Name))
	var cands []candidate
	for _, s := range ids {
		sym := tc.symbol(s)
		switch {
		case sym == nil:
		case sym.Kind == symbols.SymbolFunction:
			if sym.Visibility == ast.VisPublic || sym.Visibility == ast.VisExternal || sym.Visibility == ast.VisDefault {
				cands = append(cands, candidate{sym: s, typ: tc.externalType(tc.symbolType(s))})
			}
		case sym.Kind == symbols.SymbolStateVar && sym.Visibility == ast.VisPublic:
			return []candidate{{sym: s, typ: tc.types.Getter(tc.symbolType(s))}}, types.NoTypeID, true
		}
	}
	if len(cands) == 0 {
		return nil, types.NoTypeID, false
	}
	return cands, types.NoTypeID, true
}

func (tc *typeChecker) addressMember(m *ast.MemberExpr, addr types.Type) ([]candidate, types.TypeID, bool) {
	b := tc.builtins
	fn := func(kind types.FnKind, mut ast.Mutability, params []types.TypeID, returns ...types.TypeID) []candidate {
		return []candidate{{typ: tc.types.RegisterFn(types.FnInfo{Kind: kind, Params: params, Returns: returns, Mutability: mut})}}
	}
	rawCall := []types.TypeID{b.BytesMemory}
	switch tc.b.Name(m.Name) {
	case "balance":
		return nil, b.Uint256, true
	case "code":
		return nil, b.BytesMemory, true
	case "codehash":
		return nil, b.Bytes32, true
	case "transfer":
		if addr.Payable {
			return fn(types.FnBuiltin, ast.MutNonPayable, []types.TypeID{b.Uint256}), types.NoTypeID, true
		}
	case "send":
		if addr.Payable {
			return fn(types.FnBuiltin, ast.MutNonPayable, []types.TypeID{b.Uint256}, b.Bool), types.NoTypeID, true
		}
	case "call":
		return fn(types.FnExternal, ast.MutPayable, rawCall, b.Bool, b.BytesMemory), types.NoTypeID, true
	case "delegatecall":
		return fn(types.FnExternal, ast.MutNonPayable, rawCall, b.Bool, b.BytesMemory), types.NoTypeID, true
	case "staticcall":
		return fn(types.FnExternal, ast.MutView, rawCall, b.Bool, b.BytesMemory), types.NoTypeID, true
	}
	return nil, types.NoTypeID, false
}

// sequenceMember types length, push and pop of arrays and bytes.
func (tc *typeChecker) sequenceMember(id ast.ExprID, m *ast.MemberExpr, seq types.Type) ([]candidate, types.TypeID, bool) {
	name := tc.b.Name(m.Name)
	if name == "length" {
		if seq.Kind == types.KindArray && seq.Len != types.ArrayDynamic {
			tc.result.ConstValues[id] = big.NewInt(int64(seq.Len))
		}
		return nil, tc.builtins.Uint256, true
	}
	if name != "push" && name != "pop" {
		return nil, types.NoTypeID, false
	}
	dynamic := seq.Kind == types.KindBytes || seq.Len == types.ArrayDynamic
	if !dynamic || seq.Location != ast.LocStorage {
		tc.report(diag.TypNoMember, m.NameSpan, "'%s' is only available on dynamic storage arrays", name)
		return nil, tc.builtins.Error, true
	}
	elem := seq.Elem
	if seq.Kind == types.KindBytes {
		elem = tc.types.Intern(types.MakeFixedBytes(1))
	}
	fn := func(params []types.TypeID, returns ...types.TypeID) candidate {
		return candidate{typ: tc.types.RegisterFn(types.FnInfo{Kind: types.FnBuiltin, Params: params, Returns: returns})}
	}
	if name == "pop" {
		return []candidate{fn(nil)}, types.NoTypeID, true
	}
	return []candidate{fn(nil, elem), fn([]types.TypeID{elem})}, types.NoTypeID, true
}

// functionMember types `f.selector` and `f.address`.
func (tc *typeChecker) functionMember(m *ast.MemberExpr, tt types.TypeID) (types.TypeID, bool) {
	info, _ := tc.types.FnInfo(tt)
	switch tc.b.Name(m.Name) {
	case "selector":
		switch info.Kind {
		case types.FnEvent:
			return tc.builtins.Bytes32, true
		case types.FnInternal, types.FnExternal, types.FnError:
			return tc.builtins.Bytes4, true
		}
	case "address":
		if info.Kind == types.FnExternal {
			return tc.builtins.Address, true
		}
	}
	return types.NoTypeID, false
}

// boundFunctions finds library functions attached to tt with `using for`
// that are visible from the current position and named m.Name.
func (tc *typeChecker) boundFunctions(tt types.TypeID, m *ast.MemberExpr) []candidate {
	if len(tc.syms.Usings) == 0 {
		return nil
	}
	receiver := tc.types.StripLocation(tt)
	seen := make(map[symbols.SymbolID]bool)
	var out []candidate
	for _, u := range tc.syms.Usings {
		if !tc.usingApplies(u) {
			continue
		}
		if u.Target.IsValid() && tc.types.StripLocation(tc.resolveType(u.Target, ast.LocNone)) != receiver {
			continue
		}
		var fns []symbols.SymbolID
		if lib := tc.symbol(u.Library); lib != nil {
			fns = tc.syms.DeclaredIn(lib.Decl.Item, m.Name)
		} else {
			for _, f := range u.Functions {
				if sym := tc.symbol(f); sym != nil && sym.Name == m.Name {
					fns = append(fns, f)
				}
			}
		}
		for _, f := range fns {
			if seen[f] {
				continue
			}
			sym := tc.symbol(f)
			if sym == nil || sym.Kind != symbols.SymbolFunction {
				continue
			}
			info, ok := tc.types.FnInfo(tc.symbolType(f))
			if !ok || len(info.Params) == 0 || !tc.types.ImplicitlyConvertible(tt, info.Params[0]) {
				continue
			}
			seen[f] = true
			out = append(out, candidate{sym: f, typ: tc.types.RegisterFn(types.FnInfo{
				Kind:       types.FnInternal,
				Params:     info.Params[1:],
				Returns:    info.Returns,
				Mutability: info.Mutability,
				Bound:      true,
			})})
		}
	}
	return out
}

// usingApplies reports whether a directive is in effect at the current
// position: global directives everywhere, contract directives inside that
// contract and file directives in that file.
func (tc *typeChecker) usingApplies(u symbols.Using) bool {
	switch {
	case u.Global:
		return true
	case u.Contract.IsValid():
		return u.Contract == tc.contract
	}
	return u.File == tc.file
}
