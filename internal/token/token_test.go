package token_test

import (
	"testing"

	"solfront/internal/config"
	"solfront/internal/token"
)

func TestKeywordGating(t *testing.T) {
	tests := []struct {
		word    string
		version config.Version
		want    token.Kind
	}{
		{"unchecked", config.V(0, 8, 0), token.KwUnchecked},
		{"unchecked", config.V(0, 7, 6), token.Ident},
		{"calldata", config.V(0, 4, 26), token.Ident},
		{"calldata", config.V(0, 5, 0), token.KwCalldata},
		{"immutable", config.V(0, 6, 4), token.Ident},
		{"immutable", config.V(0, 6, 5), token.KwImmutable},
		{"contract", config.V(0, 1, 0), token.KwContract},
		{"error", config.V(0, 8, 20), token.Ident},
	}
	for _, tt := range tests {
		got, _ := token.LookupKeyword(tt.word, tt.version)
		if got != tt.want {
			t.Errorf("LookupKeyword(%q, %v) = %v, want %v", tt.word, tt.version, got, tt.want)
		}
	}
}

func TestKindClasses(t *testing.T) {
	if !token.KwTrue.IsKeyword() || token.Ident.IsKeyword() {
		t.Fatalf("keyword range is wrong")
	}
	for _, k := range []token.Kind{token.NumberLit, token.RationalLit, token.AddressLit, token.HexStringLit} {
		if !k.IsLiteral() {
			t.Errorf("%v should be a literal kind", k)
		}
	}
	if token.KwFalse.IsLiteral() {
		t.Errorf("false is a keyword, not a literal kind")
	}
	for _, k := range []token.Kind{token.Assign, token.ShrAssign, token.PercentAssign} {
		if !k.IsAssignOp() {
			t.Errorf("%v should be an assignment operator", k)
		}
	}
	if token.EqEq.IsAssignOp() {
		t.Errorf("== is not an assignment")
	}
}

func TestKindString(t *testing.T) {
	if s := token.KwConstructor.String(); s != "constructor" {
		t.Fatalf("KwConstructor.String() = %q", s)
	}
	if s := token.ShlAssign.String(); s != "<<=" {
		t.Fatalf("ShlAssign.String() = %q", s)
	}
}

func TestElementaryTypeNames(t *testing.T) {
	for _, s := range []string{"uint", "uint8", "int256", "bytes1", "bytes32", "address", "bool", "string", "bytes", "fixed128x18", "ufixed"} {
		if !token.IsElementaryTypeName(s) {
			t.Errorf("%q not recognised", s)
		}
	}
	for _, s := range []string{"uint7", "uint264", "bytes0", "bytes33", "uint08", "int0", "foo", "fixed8x81"} {
		if token.IsElementaryTypeName(s) {
			t.Errorf("%q accepted", s)
		}
	}
}
