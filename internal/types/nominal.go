package types

import (
	"slices"

	"solfront/internal/ast"
)

// Field is one member of a struct.
type Field struct {
	Name string
	Type TypeID
}

// NominalInfo stores metadata for struct, enum, contract and UDVT types.
type NominalInfo struct {
	Kind Kind
	Name string
	Decl ast.ItemID

	// struct
	Fields []Field
	// enum
	Members []string
	// UDVT
	Underlying TypeID
	// contract
	ContractKind ast.ContractKind
	Abstract     bool
	Ancestors    []TypeID // linearized bases without the contract itself
}

func (in *Interner) registerNominal(kind Kind, name string, decl ast.ItemID) TypeID {
	in.nominals = append(in.nominals, NominalInfo{Kind: kind, Name: name, Decl: decl})
	slot := slotOf(len(in.nominals)-1, "nominal info")
	return in.internRaw(Type{Kind: kind, Payload: slot})
}

// RegisterStruct allocates a struct type slot. Fields are set later.
func (in *Interner) RegisterStruct(name string, decl ast.ItemID) TypeID {
	return in.registerNominal(KindStruct, name, decl)
}

// RegisterEnum allocates an enum type with its members.
func (in *Interner) RegisterEnum(name string, decl ast.ItemID, members []string) TypeID {
	id := in.registerNominal(KindEnum, name, decl)
	in.nominal(id).Members = slices.Clone(members)
	return id
}

// RegisterContract allocates a contract, interface or library type.
func (in *Interner) RegisterContract(name string, decl ast.ItemID, kind ast.ContractKind, abstract bool) TypeID {
	id := in.registerNominal(KindContract, name, decl)
	info := in.nominal(id)
	info.ContractKind = kind
	info.Abstract = abstract
	return id
}

// RegisterUDVT allocates a user-defined value type. The underlying type is set later.
func (in *Interner) RegisterUDVT(name string, decl ast.ItemID) TypeID {
	return in.registerNominal(KindUDVT, name, decl)
}

// SetStructFields stores resolved field types, kept without a data location.
func (in *Interner) SetStructFields(id TypeID, fields []Field) {
	if info := in.nominal(id); info != nil {
		info.Fields = slices.Clone(fields)
	}
}

// SetUnderlying stores the underlying elementary type of a UDVT.
func (in *Interner) SetUnderlying(id, underlying TypeID) {
	if info := in.nominal(id); info != nil {
		info.Underlying = underlying
	}
}

// SetAncestors stores the linearized bases of a contract, most derived first.
func (in *Interner) SetAncestors(id TypeID, ancestors []TypeID) {
	if info := in.nominal(id); info != nil {
		info.Ancestors = slices.Clone(ancestors)
	}
}

// Nominal returns metadata for a nominal TypeID, ignoring its data location.
func (in *Interner) Nominal(id TypeID) (*NominalInfo, bool) {
	info := in.nominal(id)
	return info, info != nil
}

func (in *Interner) nominal(id TypeID) *NominalInfo {
	tt, ok := in.Lookup(id)
	if !ok {
		return nil
	}
	switch tt.Kind {
	case KindStruct, KindEnum, KindContract, KindUDVT:
	default:
		return nil
	}
	if tt.Payload == 0 || int(tt.Payload) >= len(in.nominals) {
		return nil
	}
	return &in.nominals[tt.Payload]
}

// FieldType returns the type of a struct field carrying the struct's location.
func (in *Interner) FieldType(structType TypeID, name string) (TypeID, bool) {
	info := in.nominal(structType)
	if info == nil || info.Kind != KindStruct {
		return NoTypeID, false
	}
	for _, f := range info.Fields {
		if f.Name == name {
			return in.WithLocation(f.Type, in.MustLookup(structType).Location), true
		}
	}
	return NoTypeID, false
}

// EnumIndex returns the ordinal of member in an enum type.
func (in *Interner) EnumIndex(enum TypeID, member string) (int, bool) {
	info := in.nominal(enum)
	if info == nil || info.Kind != KindEnum {
		return 0, false
	}
	i := slices.Index(info.Members, member)
	return i, i >= 0
}

// IsBaseContract reports whether base is derived itself or one of derived's ancestors.
func (in *Interner) IsBaseContract(derived, base TypeID) bool {
	if derived == base {
		return true
	}
	info := in.nominal(derived)
	if info == nil || info.Kind != KindContract {
		return false
	}
	return slices.Contains(info.Ancestors, base)
}
