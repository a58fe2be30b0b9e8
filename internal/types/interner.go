package types

import (
	"fmt"

	"fortio.org/safecast"

	"solfront/internal/ast"
)

// Builtins stores TypeIDs for common elementary types.
type Builtins struct {
	Error          TypeID
	Unit           TypeID // empty tuple, the result of calls returning nothing
	Bool           TypeID
	Uint8          TypeID
	Uint256        TypeID
	Int256         TypeID
	Address        TypeID
	AddressPayable TypeID
	Bytes4         TypeID
	Bytes20        TypeID
	Bytes32        TypeID
	BytesMemory    TypeID
	StringMemory   TypeID
	BytesCalldata  TypeID
}

// Interner provides stable TypeIDs by hashing structural descriptors.
type Interner struct {
	types    []Type
	index    map[Type]TypeID
	builtins Builtins
	nominals []NominalInfo
	fns      []FnInfo
	fnIndex  map[string]uint32
	tuples   []TupleInfo
	tupIndex map[string]uint32
	lits     []literal
	litIndex map[string]uint32
}

// NewInterner constructs an interner seeded with built-in types.
func NewInterner() *Interner {
	in := &Interner{
		index:    make(map[Type]TypeID, 64),
		fnIndex:  make(map[string]uint32),
		tupIndex: make(map[string]uint32),
		litIndex: make(map[string]uint32),
	}
	in.types = append(in.types, Type{}) // reserve 0 for NoTypeID
	in.nominals = append(in.nominals, NominalInfo{})
	in.fns = append(in.fns, FnInfo{})
	in.tuples = append(in.tuples, TupleInfo{})
	in.lits = append(in.lits, literal{})

	in.builtins.Error = in.Intern(Type{Kind: KindError})
	in.builtins.Unit = in.RegisterTuple(nil)
	in.builtins.Bool = in.Intern(Type{Kind: KindBool})
	in.builtins.Uint8 = in.Intern(MakeInt(8, false))
	in.builtins.Uint256 = in.Intern(MakeInt(256, false))
	in.builtins.Int256 = in.Intern(MakeInt(256, true))
	in.builtins.Address = in.Intern(MakeAddress(false))
	in.builtins.AddressPayable = in.Intern(MakeAddress(true))
	in.builtins.Bytes4 = in.Intern(MakeFixedBytes(4))
	in.builtins.Bytes20 = in.Intern(MakeFixedBytes(20))
	in.builtins.Bytes32 = in.Intern(MakeFixedBytes(32))
	in.builtins.BytesMemory = in.Intern(Type{Kind: KindBytes, Location: ast.LocMemory})
	in.builtins.StringMemory = in.Intern(Type{Kind: KindString, Location: ast.LocMemory})
	in.builtins.BytesCalldata = in.Intern(Type{Kind: KindBytes, Location: ast.LocCalldata})
	return in
}

// Builtins returns TypeIDs for elementary types.
func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// Intern ensures the provided descriptor has a stable TypeID.
func (in *Interner) Intern(t Type) TypeID {
	if t.Kind == KindInvalid {
		return NoTypeID
	}
	if id, ok := in.index[t]; ok {
		return id
	}
	return in.internRaw(t)
}

func (in *Interner) internRaw(t Type) TypeID {
	n, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := TypeID(n)
	in.types = append(in.types, t)
	in.index[t] = id
	return id
}

// Lookup returns the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MustLookup panics when id is invalid.
func (in *Interner) MustLookup(id TypeID) Type {
	tt, ok := in.Lookup(id)
	if !ok {
		panic("types: invalid TypeID")
	}
	return tt
}

// KindOf returns the kind of id, KindInvalid for unknown IDs.
func (in *Interner) KindOf(id TypeID) Kind {
	tt, _ := in.Lookup(id)
	return tt.Kind
}

// IsError reports whether id is the error marker.
func (in *Interner) IsError(id TypeID) bool {
	return id == in.builtins.Error
}

func slotOf(n int, what string) uint32 {
	slot, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(fmt.Errorf("%s overflow: %w", what, err))
	}
	return slot
}
