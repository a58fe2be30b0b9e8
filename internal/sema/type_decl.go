package sema

import (
	"fmt"
	"strings"

	"solfront/internal/ast"
	"solfront/internal/diag"
	"solfront/internal/source"
	"solfront/internal/symbols"
	"solfront/internal/types"
)

// declareTypes registers a nominal type for every contract, struct, enum and
// UDVT, then fills in struct fields, UDVT underlying types and contract ancestors.
func (tc *typeChecker) declareTypes() {
	tc.walkItems(func(id ast.ItemID, item *ast.Item) {
		var t types.TypeID
		switch item.Kind {
		case ast.ItemContract:
			c, _ := tc.b.Items.Contract(id)
			t = tc.types.RegisterContract(tc.b.Name(c.Name), id, c.Kind, c.Abstract)
		case ast.ItemStruct:
			s, _ := tc.b.Items.Struct(id)
			t = tc.types.RegisterStruct(tc.b.Name(s.Name), id)
		case ast.ItemEnum:
			e, _ := tc.b.Items.Enum(id)
			members := make([]string, len(e.Members))
			for i, m := range e.Members {
				members[i] = tc.b.Name(m.Name)
			}
			t = tc.types.RegisterEnum(tc.b.Name(e.Name), id, members)
		case ast.ItemUDVT:
			u, _ := tc.b.Items.UDVT(id)
			t = tc.types.RegisterUDVT(tc.b.Name(u.Name), id)
		default:
			return
		}
		tc.result.ItemTypes[id] = t
		tc.setItemSymbolType(id, tc.types.Intern(types.MakeTypeType(t)))
	})

	for _, c := range tc.syms.Contracts {
		order := tc.syms.Order(c)
		ancestors := make([]types.TypeID, 0, len(order))
		for _, k := range order[1:] {
			if t, ok := tc.result.ItemTypes[k]; ok {
				ancestors = append(ancestors, t)
			}
		}
		tc.types.SetAncestors(tc.result.ItemTypes[c], ancestors)
	}

	var structs []ast.ItemID
	tc.walkItems(func(id ast.ItemID, item *ast.Item) {
		switch item.Kind {
		case ast.ItemStruct:
			s, _ := tc.b.Items.Struct(id)
			fields := make([]types.Field, 0, len(s.Fields))
			for _, f := range s.Fields {
				fields = append(fields, types.Field{Name: tc.b.Name(f.Name), Type: tc.resolveType(f.Type, ast.LocNone)})
			}
			tc.types.SetStructFields(tc.result.ItemTypes[id], fields)
			structs = append(structs, id)
		case ast.ItemUDVT:
			u, _ := tc.b.Items.UDVT(id)
			under := tc.resolveType(u.Underlying, ast.LocNone)
			switch tc.types.KindOf(under) {
			case types.KindInt, types.KindFixedBytes, types.KindAddress, types.KindBool, types.KindError:
				tc.types.SetUnderlying(tc.result.ItemTypes[id], under)
			default:
				tc.report(diag.TypBadUDVT, tc.typeSpan(u.Underlying),
					"the underlying type of '%s' must be an elementary value type, not '%s'", tc.b.Name(u.Name), tc.label(under))
			}
		}
	})

	for _, id := range structs {
		t := tc.result.ItemTypes[id]
		if tc.recursiveStruct(t, t, make(map[types.TypeID]bool)) {
			s, _ := tc.b.Items.Struct(id)
			tc.report(diag.TypNotAType, s.NameSpan, "recursive struct '%s' has no finite size", tc.b.Name(s.Name))
		}
	}
}

// recursiveStruct reports whether root is reachable from t through struct
// fields and fixed-size arrays. Dynamic arrays and mappings break the cycle.
func (tc *typeChecker) recursiveStruct(root, t types.TypeID, seen map[types.TypeID]bool) bool {
	info, ok := tc.types.Nominal(t)
	if !ok || info.Kind != types.KindStruct {
		return false
	}
	if seen[t] {
		return false
	}
	seen[t] = true
	for _, f := range info.Fields {
		ft := f.Type
		for tc.types.KindOf(ft) == types.KindArray {
			arr := tc.types.MustLookup(ft)
			if arr.Len == types.ArrayDynamic {
				ft = types.NoTypeID
				break
			}
			ft = arr.Elem
		}
		if ft == types.NoTypeID {
			continue
		}
		ft = tc.types.StripLocation(ft)
		if ft == root || tc.recursiveStruct(root, ft, seen) {
			return true
		}
	}
	return false
}

// collectSignatures computes the types of functions, modifiers, events,
// errors and state variables before any body is checked.
func (tc *typeChecker) collectSignatures() {
	type dupKey struct {
		owner ast.ItemID
		file  ast.FileID
		name  source.StringID
		sig   string
	}
	seen := make(map[dupKey]ast.ItemID)

	tc.walkItems(func(id ast.ItemID, item *ast.Item) {
		switch item.Kind {
		case ast.ItemFunction:
			fn, _ := tc.b.Items.Function(id)
			t := tc.functionType(fn.Params, fn.Returns, fn.Mutability)
			tc.result.ItemTypes[id] = t
			tc.setItemSymbolType(id, t)
			if fn.Kind != ast.FnRegular {
				return
			}
			key := dupKey{owner: tc.contract, name: fn.Name, sig: tc.paramKey(t)}
			if !tc.contract.IsValid() {
				key.file = tc.file
			}
			if prev, dup := seen[key]; dup {
				prevFn, _ := tc.b.Items.Function(prev)
				diag.ReportError(tc.reporter, diag.TypDuplicateFunction, fn.NameSpan,
					fmt.Sprintf("function '%s' is already declared with the same parameter types", tc.b.Name(fn.Name))).
					WithNote(prevFn.NameSpan, "previous declaration is here").Emit()
				return
			}
			seen[key] = id
		case ast.ItemModifier:
			m, _ := tc.b.Items.Modifier(id)
			t := tc.types.RegisterFn(types.FnInfo{Kind: types.FnInternal, Params: tc.paramTypes(m.Params, ast.LocMemory)})
			tc.result.ItemTypes[id] = t
			tc.setItemSymbolType(id, t)
		case ast.ItemEvent:
			ev, _ := tc.b.Items.Event(id)
			t := tc.types.RegisterFn(types.FnInfo{Kind: types.FnEvent, Params: tc.paramTypes(ev.Params, ast.LocMemory)})
			tc.result.ItemTypes[id] = t
			tc.setItemSymbolType(id, t)
		case ast.ItemError:
			e, _ := tc.b.Items.Error(id)
			t := tc.types.RegisterFn(types.FnInfo{Kind: types.FnError, Params: tc.paramTypes(e.Params, ast.LocMemory)})
			tc.result.ItemTypes[id] = t
			tc.setItemSymbolType(id, t)
		case ast.ItemVariable:
			v, _ := tc.b.Items.Variable(id)
			loc := ast.LocStorage
			if v.Constant {
				loc = ast.LocMemory
			}
			tc.setItemSymbolType(id, tc.resolveType(v.Type, loc))
		}
	})
}

// functionType builds the internal function type of a declaration.
// Reference parameters without a location default to memory.
func (tc *typeChecker) functionType(params, returns []ast.Param, mut ast.Mutability) types.TypeID {
	return tc.types.RegisterFn(types.FnInfo{
		Kind:       types.FnInternal,
		Params:     tc.paramTypes(params, ast.LocMemory),
		Returns:    tc.paramTypes(returns, ast.LocMemory),
		Mutability: mut,
	})
}

func (tc *typeChecker) paramTypes(params []ast.Param, def ast.DataLocation) []types.TypeID {
	out := make([]types.TypeID, len(params))
	for i, p := range params {
		loc := p.Location
		if loc == ast.LocNone {
			loc = def
		}
		out[i] = tc.resolveType(p.Type, loc)
	}
	return out
}

// paramKey renders the location-free parameter list of a function type.
func (tc *typeChecker) paramKey(fn types.TypeID) string {
	info, ok := tc.types.FnInfo(fn)
	if !ok {
		return ""
	}
	var sb strings.Builder
	for i, p := range info.Params {
		if i > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprintf(&sb, "%d", tc.types.StripLocation(p))
	}
	return sb.String()
}

func (tc *typeChecker) setItemSymbolType(id ast.ItemID, t types.TypeID) {
	sid, ok := tc.syms.ItemSymbols[id]
	if !ok {
		return
	}
	tc.result.SymbolTypes[sid] = t
	if sym := tc.symbol(sid); sym != nil {
		sym.Type = t
	}
}

// symbolType returns the type of a symbol, computing it for locals and
// parameters on first use.
func (tc *typeChecker) symbolType(sid symbols.SymbolID) types.TypeID {
	if t, ok := tc.result.SymbolTypes[sid]; ok {
		return t
	}
	sym := tc.symbol(sid)
	if sym == nil {
		return tc.builtins.Error
	}
	var t types.TypeID
	switch sym.Kind {
	case symbols.SymbolLocal, symbols.SymbolParam:
		loc := sym.Location
		if loc == ast.LocNone {
			loc = ast.LocMemory
		}
		t = tc.resolveType(sym.TypeExpr, loc)
	case symbols.SymbolStateVar:
		loc := ast.LocStorage
		if sym.Flags&symbols.SymbolFlagConstant != 0 {
			loc = ast.LocMemory
		}
		t = tc.resolveType(sym.TypeExpr, loc)
	case symbols.SymbolNamespace:
		t = tc.types.Magic(types.MagicModule)
	case symbols.SymbolBuiltin:
		switch tc.table.Name(sid) {
		case symbols.ThisName:
			if ct, ok := tc.result.ItemTypes[tc.contract]; ok {
				return ct
			}
			return tc.builtins.Error
		case symbols.SuperName:
			return tc.types.Magic(types.MagicSuper)
		}
		return sym.Type
	default:
		if it, ok := tc.result.ItemTypes[sym.Decl.Item]; ok {
			t = it
			if sym.Kind.IsType() {
				t = tc.types.Intern(types.MakeTypeType(it))
			}
		} else {
			t = tc.builtins.Error
		}
	}
	tc.result.SymbolTypes[sid] = t
	sym.Type = t
	return t
}
