package lexer_test

import (
	"testing"

	"solfront/internal/diag"
	"solfront/internal/token"
)

func TestStringLiterals(t *testing.T) {
	tests := []struct {
		input string
		kind  token.Kind
		value string
	}{
		{`"abc"`, token.StringLit, "abc"},
		{`'single'`, token.StringLit, "single"},
		{`"a\nb\t\\\"q\'"`, token.StringLit, "a\nb\t\\\"q'"},
		{`"\x41\x42"`, token.StringLit, "AB"},
		{`"\u00e9"`, token.StringLit, "é"},
		{"\"line\\\ncontinued\"", token.StringLit, "linecontinued"},
		{`unicode"héllo 👋"`, token.UnicodeStringLit, "héllo 👋"},
		{`hex"00ff"`, token.HexStringLit, "\x00\xff"},
		{`hex'dead_beef'`, token.HexStringLit, "\xde\xad\xbe\xef"},
		{`hex""`, token.HexStringLit, ""},
	}
	for _, tt := range tests {
		toks, rep := lexAll(t, tt.input)
		if len(rep.diagnostics) != 0 {
			t.Errorf("%s: unexpected errors: %s", tt.input, rep.messages())
			continue
		}
		if len(toks) != 1 || toks[0].Kind != tt.kind || toks[0].Value != tt.value {
			t.Errorf("%s: got %v, want %v %q", tt.input, toks, tt.kind, tt.value)
		}
	}
}

func TestMalformedStrings(t *testing.T) {
	tests := []struct {
		input string
		code  diag.Code
	}{
		{`"abc`, diag.LexUnterminatedString},
		{"\"abc\ndef\"", diag.LexUnterminatedString},
		{`"\q"`, diag.LexBadEscape},
		{`"\x4"`, diag.LexBadEscape},
		{`"\u12"`, diag.LexBadEscape},
		{`"héllo"`, diag.LexNonASCIIString},
		{`hex"abc"`, diag.LexBadHexString},
		{`hex"a_bcd"`, diag.LexBadHexString},
		{`hex"ab__cd"`, diag.LexBadHexString},
		{`hex"abcd_"`, diag.LexBadHexString},
		{`hex"zz"`, diag.LexBadHexString},
	}
	for _, tt := range tests {
		_, rep := lexAll(t, tt.input)
		got := rep.codes()
		if len(got) == 0 || got[0] != tt.code {
			t.Errorf("%s: codes = %v, want %v first", tt.input, got, tt.code)
		}
	}
}

func TestUnterminatedStringResyncsAtLineEnd(t *testing.T) {
	toks, _ := lexAll(t, "x = \"oops\ny;")
	if got := kindsOf(toks); len(got) != 5 || got[3] != token.Ident || got[4] != token.Semicolon {
		t.Fatalf("kinds = %v", got)
	}
}

func TestHexAndUnicodeAsIdentifiers(t *testing.T) {
	expectKinds(t, "hex unicode(x)", token.Ident, token.Ident, token.LParen, token.Ident, token.RParen)
}
