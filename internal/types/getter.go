package types

import "solfront/internal/ast"

// Getter is the external view function generated for a public state
// variable of type t. Mapping keys and array indexes become parameters;
// structs return their members that are neither mappings nor arrays.
func (in *Interner) Getter(t TypeID) TypeID {
	var params []TypeID
	for {
		tt := in.MustLookup(t)
		if tt.Kind == KindMapping {
			params = append(params, in.WithLocation(tt.Key, ast.LocMemory))
			t = tt.Elem
			continue
		}
		if tt.Kind == KindArray {
			params = append(params, in.Builtins().Uint256)
			t = tt.Elem
			continue
		}
		break
	}
	var returns []TypeID
	if info, ok := in.Nominal(t); ok && info.Kind == KindStruct {
		for _, f := range info.Fields {
			switch in.KindOf(f.Type) {
			case KindMapping, KindArray:
				continue
			}
			returns = append(returns, in.WithLocation(f.Type, ast.LocMemory))
		}
	} else {
		returns = []TypeID{in.WithLocation(t, ast.LocMemory)}
	}
	return in.RegisterFn(FnInfo{
		Kind:       FnExternal,
		Params:     params,
		Returns:    returns,
		Mutability: ast.MutView,
	})
}
