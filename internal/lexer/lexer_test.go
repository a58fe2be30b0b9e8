package lexer_test

import (
	"fmt"
	"strings"
	"testing"

	"solfront/internal/config"
	"solfront/internal/diag"
	"solfront/internal/lexer"
	"solfront/internal/source"
	"solfront/internal/token"
)

// testReporter collects everything the lexer reports.
type testReporter struct {
	diagnostics []diag.Diagnostic
}

func (r *testReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note) {
	r.diagnostics = append(r.diagnostics, diag.Diagnostic{
		Severity: sev, Code: code, Message: msg, Primary: primary, Notes: notes,
	})
}

func (r *testReporter) codes() []diag.Code {
	out := make([]diag.Code, 0, len(r.diagnostics))
	for _, d := range r.diagnostics {
		out = append(out, d.Code)
	}
	return out
}

func (r *testReporter) messages() string {
	parts := make([]string, 0, len(r.diagnostics))
	for _, d := range r.diagnostics {
		parts = append(parts, fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message))
	}
	return strings.Join(parts, "; ")
}

func makeTestLexer(input string, version config.Version) (*lexer.Lexer, *testReporter) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.sol", input))
	rep := &testReporter{}
	return lexer.New(file, lexer.Options{Reporter: rep, Version: version}), rep
}

func lexAll(t *testing.T, input string) ([]token.Token, *testReporter) {
	t.Helper()
	lx, rep := makeTestLexer(input, config.DefaultVersion)
	var toks []token.Token
	for {
		tok := lx.Next()
		if tok.Kind == token.EOF {
			return toks, rep
		}
		toks = append(toks, tok)
	}
}

func expectKinds(t *testing.T, input string, want ...token.Kind) {
	t.Helper()
	toks, rep := lexAll(t, input)
	if len(toks) != len(want) {
		t.Fatalf("%q: got %d tokens %v, want %d (errors: %s)", input, len(toks), kindsOf(toks), len(want), rep.messages())
	}
	for i, tok := range toks {
		if tok.Kind != want[i] {
			t.Errorf("%q token %d: got %v (%q), want %v", input, i, tok.Kind, tok.Text, want[i])
		}
	}
}

func kindsOf(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func TestOperatorsAreGreedy(t *testing.T) {
	expectKinds(t, "a <<= b >>= c ** d => e",
		token.Ident, token.ShlAssign, token.Ident, token.ShrAssign, token.Ident,
		token.StarStar, token.Ident, token.FatArrow, token.Ident)
	expectKinds(t, "x++ + --y != z",
		token.Ident, token.PlusPlus, token.Plus, token.MinusMinus, token.Ident, token.BangEq, token.Ident)
}

func TestContractHeader(t *testing.T) {
	expectKinds(t, "abstract contract Token is ERC20, Ownable {",
		token.KwAbstract, token.KwContract, token.Ident, token.KwIs, token.Ident,
		token.Comma, token.Ident, token.LBrace)
}

func TestIdentifiersWithDollarAndUnderscore(t *testing.T) {
	toks, rep := lexAll(t, "$x _y z$9 _")
	if len(rep.diagnostics) != 0 {
		t.Fatalf("unexpected errors: %s", rep.messages())
	}
	for _, tok := range toks {
		if tok.Kind != token.Ident {
			t.Fatalf("%q lexed as %v", tok.Text, tok.Kind)
		}
	}
}

func TestKeywordsFollowConfiguredVersion(t *testing.T) {
	lx, _ := makeTestLexer("unchecked calldata", config.V(0, 7, 6))
	if tok := lx.Next(); tok.Kind != token.Ident {
		t.Fatalf("unchecked before 0.8.0 = %v, want identifier", tok.Kind)
	}
	if tok := lx.Next(); tok.Kind != token.KwCalldata {
		t.Fatalf("calldata at 0.7.6 = %v", tok.Kind)
	}
	lx, _ = makeTestLexer("unchecked", config.V(0, 8, 0))
	if tok := lx.Next(); tok.Kind != token.KwUnchecked {
		t.Fatalf("unchecked at 0.8.0 = %v", tok.Kind)
	}
}

func TestPeekAndReset(t *testing.T) {
	lx, _ := makeTestLexer("uint x;", config.DefaultVersion)
	if p := lx.Peek(); p.Text != "uint" {
		t.Fatalf("Peek = %q", p.Text)
	}
	if n := lx.Next(); n.Text != "uint" {
		t.Fatalf("Next after Peek = %q", n.Text)
	}
	lx.Next()
	lx.Reset()
	if n := lx.Next(); n.Text != "uint" {
		t.Fatalf("Next after Reset = %q", n.Text)
	}
}

func TestDocCommentsAttachToNextToken(t *testing.T) {
	src := "// plain\n/// @notice Hello\n/// world\ncontract C {}\n/** @dev\n * block doc\n */\nfunction f() {}"
	toks, rep := lexAll(t, src)
	if len(rep.diagnostics) != 0 {
		t.Fatalf("unexpected errors: %s", rep.messages())
	}
	if toks[0].Kind != token.KwContract || toks[0].Doc != "@notice Hello\nworld" {
		t.Fatalf("contract doc = %q", toks[0].Doc)
	}
	if toks[1].Doc != "" {
		t.Fatalf("doc leaked to the next token: %q", toks[1].Doc)
	}
	fn := toks[4]
	if fn.Kind != token.KwFunction || fn.Doc != "@dev\nblock doc" {
		t.Fatalf("function doc = %q (%v)", fn.Doc, fn.Kind)
	}
}

func TestUnterminatedBlockComment(t *testing.T) {
	toks, rep := lexAll(t, "a /* never closed")
	if len(toks) != 1 {
		t.Fatalf("tokens = %v", kindsOf(toks))
	}
	if got := rep.codes(); len(got) != 1 || got[0] != diag.LexUnterminatedBlockComment {
		t.Fatalf("codes = %v", got)
	}
}

func TestInvalidCharacterResyncsAtWhitespace(t *testing.T) {
	toks, rep := lexAll(t, "a #bad b")
	if got := kindsOf(toks); len(got) != 3 || got[1] != token.Invalid || got[2] != token.Ident {
		t.Fatalf("kinds = %v", got)
	}
	if toks[1].Text != "#bad" {
		t.Fatalf("invalid token text = %q", toks[1].Text)
	}
	if got := rep.codes(); len(got) != 1 || got[0] != diag.LexUnknownChar {
		t.Fatalf("codes = %v", got)
	}
}

func TestBidiOverrides(t *testing.T) {
	_, rep := lexAll(t, "// \u202e reversed\nx")
	if got := rep.codes(); len(got) != 1 || got[0] != diag.LexBidiOverride {
		t.Fatalf("unbalanced comment: codes = %v", got)
	}
	_, rep = lexAll(t, "// \u202e balanced \u202c\nx")
	if len(rep.diagnostics) != 0 {
		t.Fatalf("balanced comment reported: %s", rep.messages())
	}
	_, rep = lexAll(t, "unicode\"\u2067abc\"")
	if got := rep.codes(); len(got) != 1 || got[0] != diag.LexBidiOverride {
		t.Fatalf("unbalanced isolate in literal: codes = %v", got)
	}
}

func TestInvalidUTF8(t *testing.T) {
	_, rep := lexAll(t, "uint x = 1; // \xff")
	if got := rep.codes(); len(got) == 0 || got[0] != diag.LexInvalidUTF8 {
		t.Fatalf("codes = %v", got)
	}
}
