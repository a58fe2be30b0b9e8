package fuzztests

import (
	"testing"

	"solfront/internal/config"
	"solfront/internal/diag"
	"solfront/internal/lexer"
	"solfront/internal/source"
	"solfront/internal/token"
)

func FuzzLexerTokens(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)
		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.sol", string(input)))

		bag := diag.NewBag(64)
		toks := lexer.Tokenize(file, lexer.Options{
			Reporter: diag.BagReporter{Bag: bag, Phase: diag.PhaseLex},
			Version:  config.Default().Version,
		})
		if len(toks) == 0 || toks[len(toks)-1].Kind != token.EOF {
			t.Fatalf("token stream does not end in EOF for %q", truncateForLog(input, 200))
		}
		var prev uint32
		for _, tok := range toks {
			if tok.Span.Start < prev || tok.Span.End < tok.Span.Start || int(tok.Span.End) > len(file.Content) {
				t.Fatalf("bad token span %v after offset %d", tok.Span, prev)
			}
			prev = tok.Span.End
		}
	})
}
