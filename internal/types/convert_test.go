package types

import (
	"math/big"
	"testing"

	"solfront/internal/ast"
)

func TestImplicitConversions(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	u8 := in.Intern(MakeInt(8, false))
	u16 := in.Intern(MakeInt(16, false))
	i16 := in.Intern(MakeInt(16, true))
	b2 := in.Intern(MakeFixedBytes(2))

	tests := []struct {
		name     string
		from, to TypeID
		ctx      ConvContext
		want     bool
	}{
		{"widen unsigned", u8, u16, ConvAssign, true},
		{"narrow unsigned", u16, u8, ConvAssign, false},
		{"across signedness", u8, i16, ConvAssign, false},
		{"bytes widen", b2, b.Bytes4, ConvAssign, true},
		{"bytes widen in comparison", b2, b.Bytes4, ConvCompare, false},
		{"payable to plain", b.AddressPayable, b.Address, ConvAssign, true},
		{"plain to payable", b.Address, b.AddressPayable, ConvAssign, false},
		{"bool to int", b.Bool, u8, ConvAssign, false},
		{"address to uint160", b.Address, in.Intern(MakeInt(160, false)), ConvAssign, false},
		{"memory to calldata", b.BytesMemory, b.BytesCalldata, ConvAssign, false},
		{"calldata to memory", b.BytesCalldata, b.BytesMemory, ConvAssign, true},
	}
	for _, tt := range tests {
		if got := in.Convertible(tt.from, tt.to, tt.ctx); got != tt.want {
			t.Errorf("%s: Convertible(%s, %s) = %v", tt.name, in.String(tt.from), in.String(tt.to), got)
		}
	}
}

func TestLiteralConversionsNeedExactFit(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	u8 := in.Intern(MakeInt(8, false))

	v, err := ParseNumber("2e10", "")
	if err != nil {
		t.Fatalf("ParseNumber: %v", err)
	}
	lit := in.LiteralNumber(v)
	if in.KindOf(lit) != KindLiteralInt {
		t.Fatalf("2e10 should be an integer literal, got %s", in.String(lit))
	}
	if want := big.NewInt(20_000_000_000); v.Num().Cmp(want) != 0 {
		t.Fatalf("2e10 = %s", v.RatString())
	}
	if in.ImplicitlyConvertible(lit, u8) {
		t.Fatalf("2e10 must not fit uint8")
	}
	if !in.ImplicitlyConvertible(lit, b.Uint256) {
		t.Fatalf("2e10 must fit uint256")
	}
	neg := in.LiteralInt(big.NewInt(-1))
	if in.ImplicitlyConvertible(neg, b.Uint256) || !in.ImplicitlyConvertible(neg, b.Int256) {
		t.Fatalf("-1 converts to signed only")
	}
	half, _ := ParseNumber("0.5", "")
	if in.ImplicitlyConvertible(in.LiteralNumber(half), b.Uint256) {
		t.Fatalf("fractions do not convert to integers")
	}
	eth, _ := ParseNumber("1.5", "ether")
	if !eth.IsInt() || eth.Num().String() != "1500000000000000000" {
		t.Fatalf("1.5 ether = %s", eth.RatString())
	}
}

func TestExplicitConversions(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	u160 := in.Intern(MakeInt(160, false))
	i8 := in.Intern(MakeInt(8, true))
	e := in.RegisterEnum("E", 1, []string{"A", "B"})
	u := in.RegisterUDVT("U", 2)
	in.SetUnderlying(u, b.Uint256)
	c := in.RegisterContract("C", 3, ast.ContractPlain, false)

	tests := []struct {
		name     string
		from, to TypeID
		want     bool
	}{
		{"int to int", b.Uint256, i8, true},
		{"address to uint160", b.Address, u160, true},
		{"uint160 to address", u160, b.Address, true},
		{"address to bytes20", b.Address, b.Bytes20, true},
		{"uint256 to address", b.Uint256, b.Address, false},
		{"bytes32 to bytes4", b.Bytes32, b.Bytes4, true},
		{"contract to address", c, b.Address, true},
		{"address to contract", b.Address, c, true},
		{"enum to uint", e, b.Uint8, true},
		{"literal to enum in range", in.LiteralInt(big.NewInt(1)), e, true},
		{"literal to enum out of range", in.LiteralInt(big.NewInt(2)), e, false},
		{"udvt to underlying", u, b.Uint256, false},
		{"bytes to string", b.BytesMemory, b.StringMemory, true},
		{"bool to uint", b.Bool, b.Uint8, false},
	}
	for _, tt := range tests {
		if got := in.ExplicitlyConvertible(tt.from, tt.to); got != tt.want {
			t.Errorf("%s: ExplicitlyConvertible = %v", tt.name, got)
		}
	}
}

func TestMobileType(t *testing.T) {
	in := NewInterner()
	if got := in.String(in.Mobile(in.LiteralInt(big.NewInt(255)))); got != "uint8" {
		t.Fatalf("mobile(255) = %s", got)
	}
	if got := in.String(in.Mobile(in.LiteralInt(big.NewInt(256)))); got != "uint16" {
		t.Fatalf("mobile(256) = %s", got)
	}
	if got := in.String(in.Mobile(in.LiteralInt(big.NewInt(-129)))); got != "int16" {
		t.Fatalf("mobile(-129) = %s", got)
	}
}
