package lexer_test

import (
	"testing"

	"solfront/internal/diag"
	"solfront/internal/token"
)

func TestNumberLiterals(t *testing.T) {
	tests := []struct {
		input string
		kind  token.Kind
		value string
	}{
		{"0", token.NumberLit, "0"},
		{"42", token.NumberLit, "42"},
		{"1_234_000", token.NumberLit, "1234000"},
		{"2e10", token.RationalLit, "2e10"},
		{"1.5", token.RationalLit, "1.5"},
		{".5", token.RationalLit, ".5"},
		{"1e-3", token.RationalLit, "1e-3"},
		{"2.5E2", token.RationalLit, "2.5E2"},
		{"1_0.0_1e1_0", token.RationalLit, "10.01e10"},
		{"0xff", token.HexNumberLit, "0xff"},
		{"0xdead_beef", token.HexNumberLit, "0xdeadbeef"},
	}
	for _, tt := range tests {
		toks, rep := lexAll(t, tt.input)
		if len(rep.diagnostics) != 0 {
			t.Errorf("%q: unexpected errors: %s", tt.input, rep.messages())
			continue
		}
		if len(toks) != 1 || toks[0].Kind != tt.kind || toks[0].Value != tt.value {
			t.Errorf("%q: got %v, want %v %q", tt.input, toks, tt.kind, tt.value)
		}
	}
}

func TestMalformedNumbers(t *testing.T) {
	tests := []struct {
		input string
		code  diag.Code
	}{
		{"1__0", diag.LexBadNumber},
		{"100_", diag.LexBadNumber},
		{"1_.5", diag.LexBadNumber},
		{"0x_ff", diag.LexBadNumber},
		{"0x", diag.LexBadNumber},
		{"0123", diag.LexBadNumber},
		{"123abc", diag.LexIdentAfterNumber},
		{"1e", diag.LexIdentAfterNumber},
	}
	for _, tt := range tests {
		_, rep := lexAll(t, tt.input)
		got := rep.codes()
		if len(got) == 0 || got[0] != tt.code {
			t.Errorf("%q: codes = %v, want %v first", tt.input, got, tt.code)
		}
	}
}

func TestMemberAccessOnIntegerIsNotRational(t *testing.T) {
	expectKinds(t, "1.foo", token.NumberLit, token.Dot, token.Ident)
	expectKinds(t, "x = 1 ether;", token.Ident, token.Assign, token.NumberLit, token.Ident, token.Semicolon)
}

func TestAddressLiterals(t *testing.T) {
	const good = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"
	toks, rep := lexAll(t, good)
	if len(rep.diagnostics) != 0 {
		t.Fatalf("valid checksum rejected: %s", rep.messages())
	}
	if toks[0].Kind != token.AddressLit {
		t.Fatalf("kind = %v", toks[0].Kind)
	}

	bad := []string{
		"0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed",  // all lower case
		"0x5AAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",  // one letter flipped
		"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAe",   // 39 digits
		"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed0", // 41 digits
	}
	for _, in := range bad {
		toks, rep := lexAll(t, in)
		if got := rep.codes(); len(got) != 1 || got[0] != diag.LexBadAddressChecksum {
			t.Errorf("%s: codes = %v", in, got)
		}
		if toks[0].Kind != token.AddressLit {
			t.Errorf("%s: lexed as %v, must not fall back to a plain integer", in, toks[0].Kind)
		}
	}
}
