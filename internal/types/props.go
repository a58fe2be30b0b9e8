package types

// IsInteger reports intN and uintN.
func (in *Interner) IsInteger(id TypeID) bool {
	return in.KindOf(id) == KindInt
}

// IsLiteral reports number and string literal types.
func (in *Interner) IsLiteral(id TypeID) bool {
	switch in.KindOf(id) {
	case KindLiteralInt, KindLiteralRational, KindLiteralString:
		return true
	}
	return false
}

// IsNumberLiteral reports integer and rational literal types.
func (in *Interner) IsNumberLiteral(id TypeID) bool {
	k := in.KindOf(id)
	return k == KindLiteralInt || k == KindLiteralRational
}

// IsValueType reports types copied by value.
func (in *Interner) IsValueType(id TypeID) bool {
	switch in.KindOf(id) {
	case KindBool, KindInt, KindFixedBytes, KindAddress, KindEnum, KindContract, KindUDVT, KindFunction:
		return true
	}
	return false
}

// IsDynamic reports types whose ABI encoding has no fixed size.
func (in *Interner) IsDynamic(id TypeID) bool {
	tt, ok := in.Lookup(id)
	if !ok {
		return false
	}
	switch tt.Kind {
	case KindBytes, KindString:
		return true
	case KindArray:
		return tt.Len == ArrayDynamic || in.IsDynamic(tt.Elem)
	case KindStruct:
		info := in.nominal(id)
		for _, f := range info.Fields {
			if in.IsDynamic(f.Type) {
				return true
			}
		}
	case KindTuple:
		info, _ := in.TupleInfo(id)
		for _, e := range info.Elems {
			if in.IsDynamic(e) {
				return true
			}
		}
	}
	return false
}

// Underlying unwraps a UDVT, returning id for every other type.
func (in *Interner) Underlying(id TypeID) TypeID {
	if info := in.nominal(id); info != nil && info.Kind == KindUDVT && info.Underlying != NoTypeID {
		return info.Underlying
	}
	return id
}
