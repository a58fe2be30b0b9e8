package types

import "solfront/internal/ast"

// IsReference reports kinds that need a data location.
func (in *Interner) IsReference(id TypeID) bool {
	switch in.KindOf(id) {
	case KindArray, KindBytes, KindString, KindStruct, KindMapping:
		return true
	}
	return false
}

// LocationOf returns the data location carried by a reference type.
func (in *Interner) LocationOf(id TypeID) ast.DataLocation {
	tt, _ := in.Lookup(id)
	return tt.Location
}

// WithLocation returns id carrying loc. Array elements of reference type
// follow the array. Value types are returned unchanged and mappings stay in storage.
func (in *Interner) WithLocation(id TypeID, loc ast.DataLocation) TypeID {
	tt, ok := in.Lookup(id)
	if !ok || !in.IsReference(id) || tt.Kind == KindMapping || tt.Location == loc {
		return id
	}
	tt.Location = loc
	if tt.Kind == KindArray && in.IsReference(tt.Elem) {
		tt.Elem = in.WithLocation(tt.Elem, loc)
	}
	return in.Intern(tt)
}

// StripLocation returns id with every data location removed.
func (in *Interner) StripLocation(id TypeID) TypeID {
	tt, ok := in.Lookup(id)
	if !ok || !in.IsReference(id) {
		return id
	}
	switch tt.Kind {
	case KindMapping:
		return id
	case KindArray:
		tt.Elem = in.StripLocation(tt.Elem)
	}
	tt.Location = ast.LocNone
	return in.Intern(tt)
}

// ContainsMapping reports whether id is or contains a mapping through arrays and struct fields.
func (in *Interner) ContainsMapping(id TypeID) bool {
	return in.containsMapping(id, make(map[TypeID]bool))
}

func (in *Interner) containsMapping(id TypeID, seen map[TypeID]bool) bool {
	id = in.StripLocation(id)
	if seen[id] {
		return false
	}
	seen[id] = true
	tt, ok := in.Lookup(id)
	if !ok {
		return false
	}
	switch tt.Kind {
	case KindMapping:
		return true
	case KindArray:
		return in.containsMapping(tt.Elem, seen)
	case KindStruct:
		info := in.nominal(id)
		for _, f := range info.Fields {
			if in.containsMapping(f.Type, seen) {
				return true
			}
		}
	}
	return false
}

// ValidMappingKey reports whether key may be used as a mapping key.
// Mappings and dynamic arrays never qualify; structs only when allowStruct is set.
func (in *Interner) ValidMappingKey(key TypeID, allowStruct bool) bool {
	tt, ok := in.Lookup(key)
	if !ok {
		return false
	}
	switch tt.Kind {
	case KindMapping:
		return false
	case KindArray:
		return tt.Len != ArrayDynamic
	case KindStruct:
		return allowStruct
	case KindTuple, KindFunction, KindMagic, KindTypeType, KindModifier:
		return false
	}
	return true
}
