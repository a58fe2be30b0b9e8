package types

import (
	"testing"

	"solfront/internal/ast"
)

func TestInternerDeduplicatesDescriptors(t *testing.T) {
	in := NewInterner()
	a := in.Intern(MakeInt(64, false))
	b := in.Intern(MakeInt(64, false))
	if a != b {
		t.Fatalf("expected identical IDs, got %d and %d", a, b)
	}
	if in.Intern(MakeInt(256, false)) != in.Builtins().Uint256 {
		t.Fatalf("uint256 should be the builtin")
	}
	arr := in.Intern(MakeArray(a, ArrayDynamic, ast.LocMemory))
	if got := in.String(arr); got != "uint64[] memory" {
		t.Fatalf("String = %q", got)
	}
}

func TestNominalTypesNeverEqual(t *testing.T) {
	in := NewInterner()
	s1 := in.RegisterStruct("S", 1)
	s2 := in.RegisterStruct("S", 2)
	fields := []Field{{Name: "a", Type: in.Builtins().Uint256}}
	in.SetStructFields(s1, fields)
	in.SetStructFields(s2, fields)
	if s1 == s2 {
		t.Fatalf("distinct struct declarations must get distinct types")
	}
	if in.ImplicitlyConvertible(s1, s2) {
		t.Fatalf("structurally identical structs must not convert")
	}
	mem := in.WithLocation(s1, ast.LocMemory)
	if mem == s1 || in.StripLocation(mem) != s1 {
		t.Fatalf("location round trip failed")
	}
	ft, ok := in.FieldType(mem, "a")
	if !ok || ft != in.Builtins().Uint256 {
		t.Fatalf("FieldType = %v, %v", ft, ok)
	}
}

func TestFunctionAndTupleInterning(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	f1 := in.RegisterFn(FnInfo{Params: []TypeID{b.Uint256}, Returns: []TypeID{b.Bool}, Mutability: ast.MutView})
	f2 := in.RegisterFn(FnInfo{Params: []TypeID{b.Uint256}, Returns: []TypeID{b.Bool}, Mutability: ast.MutView})
	if f1 != f2 {
		t.Fatalf("identical signatures should intern to one type")
	}
	if got := in.String(f1); got != "function (uint256) view returns (bool)" {
		t.Fatalf("String = %q", got)
	}
	if in.RegisterTuple([]TypeID{b.Bool, b.Address}) != in.RegisterTuple([]TypeID{b.Bool, b.Address}) {
		t.Fatalf("tuples should intern")
	}
	if in.RegisterTuple(nil) != b.Unit {
		t.Fatalf("empty tuple should be Unit")
	}
}

func TestCanonicalExpandsStructsAndUnwrapsUDVT(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	s := in.RegisterStruct("Pair", 1)
	in.SetStructFields(s, []Field{{Name: "a", Type: b.Uint256}, {Name: "who", Type: b.Address}})
	u := in.RegisterUDVT("Price", 2)
	in.SetUnderlying(u, in.Intern(MakeInt(128, false)))
	e := in.RegisterEnum("Color", 3, []string{"Red", "Green"})
	arr := in.Intern(MakeArray(in.WithLocation(s, ast.LocMemory), ArrayDynamic, ast.LocMemory))

	for _, tt := range []struct {
		id   TypeID
		want string
	}{
		{arr, "(uint256,address)[]"},
		{u, "uint128"},
		{e, "uint8"},
		{in.Intern(MakeArray(b.Bytes32, 3, ast.LocCalldata)), "bytes32[3]"},
		{b.AddressPayable, "address"},
	} {
		got, ok := in.Canonical(tt.id)
		if !ok || got != tt.want {
			t.Fatalf("Canonical(%s) = %q, %v; want %q", in.String(tt.id), got, ok, tt.want)
		}
	}
	m := in.Intern(MakeMapping(b.Address, b.Uint256))
	if _, ok := in.Canonical(m); ok {
		t.Fatalf("mappings have no ABI form")
	}
}

func TestMappingKeysAndContainsMapping(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	m := in.Intern(MakeMapping(b.Address, b.Uint256))
	s := in.RegisterStruct("S", 1)
	in.SetStructFields(s, []Field{{Name: "m", Type: m}})
	dyn := in.Intern(MakeArray(b.Uint256, ArrayDynamic, ast.LocNone))

	if in.ValidMappingKey(m, true) || in.ValidMappingKey(dyn, true) {
		t.Fatalf("mapping and dynamic array keys must be rejected")
	}
	if in.ValidMappingKey(s, false) || !in.ValidMappingKey(s, true) {
		t.Fatalf("struct keys follow the flag")
	}
	if !in.ValidMappingKey(in.Intern(Type{Kind: KindString}), false) {
		t.Fatalf("string keys are allowed")
	}
	if !in.ContainsMapping(in.Intern(MakeArray(s, 2, ast.LocStorage))) {
		t.Fatalf("array of struct with mapping contains a mapping")
	}
}
