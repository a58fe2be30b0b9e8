package types

import (
	"math/big"
	"testing"

	"solfront/internal/ast"
	"solfront/internal/token"
)

func TestResolveOverload(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	u8 := in.Intern(MakeInt(8, false))
	cands := []Candidate{
		{Params: []TypeID{u8}},
		{Params: []TypeID{b.Uint256}},
		{Params: []TypeID{b.Address}},
	}
	if i, st, _ := in.ResolveOverload(cands, []TypeID{b.Uint256}); st != OverloadOK || i != 1 {
		t.Fatalf("uint256 arg: got %d %v", i, st)
	}
	if i, st, _ := in.ResolveOverload(cands, []TypeID{u8}); st != OverloadOK || i != 0 {
		t.Fatalf("exact match should win: got %d %v", i, st)
	}
	if _, st, viable := in.ResolveOverload(cands, []TypeID{in.LiteralInt(big.NewInt(50))}); st != OverloadAmbiguous || len(viable) != 2 {
		t.Fatalf("literal fitting two overloads is ambiguous: %v %v", st, viable)
	}
	if i, st, _ := in.ResolveOverload(cands, []TypeID{in.LiteralInt(big.NewInt(300))}); st != OverloadOK || i != 1 {
		t.Fatalf("300 only fits uint256: got %d %v", i, st)
	}
	if _, st, _ := in.ResolveOverload(cands, []TypeID{b.Bool}); st != OverloadNoMatch {
		t.Fatalf("bool matches nothing")
	}
	if _, st, _ := in.ResolveOverload(cands, nil); st != OverloadNoMatch {
		t.Fatalf("arity mismatch matches nothing")
	}
	mem := []Candidate{{Params: []TypeID{b.BytesMemory}}}
	if _, st, _ := in.ResolveOverload(mem, []TypeID{in.Intern(Type{Kind: KindBytes, Location: ast.LocStorage})}); st != OverloadOK {
		t.Fatalf("storage bytes should convert to memory bytes")
	}
}

func TestBinaryResult(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	u8 := in.Intern(MakeInt(8, false))
	i8 := in.Intern(MakeInt(8, true))

	if got, ok := in.BinaryResult(token.Plus, u8, b.Uint256); !ok || got != b.Uint256 {
		t.Fatalf("uint8 + uint256 = %v", got)
	}
	if _, ok := in.BinaryResult(token.Plus, u8, i8); ok {
		t.Fatalf("mixed signedness must be rejected")
	}
	if got, ok := in.BinaryResult(token.Plus, u8, in.LiteralInt(big.NewInt(1))); !ok || got != u8 {
		t.Fatalf("uint8 + 1 = %v", got)
	}
	if _, ok := in.BinaryResult(token.Plus, u8, in.LiteralInt(big.NewInt(300))); ok {
		t.Fatalf("uint8 + 300 must be rejected")
	}
	if got, ok := in.BinaryResult(token.Lt, b.Address, b.AddressPayable); !ok || got != b.Bool {
		t.Fatalf("address comparison = %v", got)
	}
	if _, ok := in.BinaryResult(token.EqEq, in.Intern(MakeFixedBytes(2)), b.Bytes4); ok {
		t.Fatalf("fixed bytes of different size are not comparable")
	}
	if got, ok := in.BinaryResult(token.Shl, u8, b.Uint256); !ok || got != u8 {
		t.Fatalf("shift keeps the left type")
	}
	if _, ok := in.BinaryResult(token.Shl, u8, i8); ok {
		t.Fatalf("signed shift amount must be rejected")
	}
	if _, ok := in.BinaryResult(token.AndAnd, b.Bool, u8); ok {
		t.Fatalf("&& needs bools")
	}
}
