package fuzztests

import (
	"context"
	"testing"
	"time"

	"solfront/internal/ast"
	"solfront/internal/config"
	"solfront/internal/diag"
	"solfront/internal/driver"
	"solfront/internal/parser"
	"solfront/internal/source"
	"solfront/internal/testkit"
)

// parseTimeout bounds a single parse; exceeding it means error recovery loops.
const parseTimeout = 5 * time.Second

func FuzzParserBuildsAST(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)
		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.sol", string(input)))

		bag := diag.NewBag(128)
		b := ast.NewBuilder(ast.Hints{}, nil)
		res := parser.ParseFile(file, b, parser.Options{
			Reporter:  diag.BagReporter{Bag: bag, Phase: diag.PhaseParse},
			Config:    config.Default(),
			MaxErrors: 128,
		})
		if res.Errors > 0 {
			return
		}
		if err := testkit.CheckSpanInvariants(b, res.File, file); err != nil {
			t.Fatalf("span invariants broken for %q: %v", truncateForLog(input, 200), err)
		}
	})
}

// FuzzParserNoHang runs the parser under a deadline to catch recovery loops.
func FuzzParserNoHang(f *testing.F) {
	addCorpusSeeds(f)
	f.Add([]byte("contract C { function f() public { uint x = 1\nuint y = 2; } }"))
	f.Add([]byte("contract C { function f() public { x + y\nuint z = 3; } }"))
	f.Add([]byte("contract C { function f() { { { { } } } } }"))
	f.Add([]byte("contract { contract { contract"))
	f.Add([]byte("function f( returns ( returns ("))
	f.Add([]byte("contract C is A( , B { modifier m( { _ } }"))

	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)
		ctx, cancel := context.WithTimeout(context.Background(), parseTimeout)
		defer cancel()

		done := make(chan struct{})
		go func() {
			defer close(done)
			fs := source.NewFileSet()
			file := fs.Get(fs.AddVirtual("fuzz.sol", string(input)))
			bag := diag.NewBag(128)
			parser.ParseFile(file, ast.NewBuilder(ast.Hints{}, nil), parser.Options{
				Reporter:  diag.BagReporter{Bag: bag, Phase: diag.PhaseParse},
				Config:    config.Default(),
				MaxErrors: 128,
			})
		}()

		select {
		case <-done:
		case <-ctx.Done():
			t.Fatalf("parser hang detected: parsing took longer than %v\ninput (%d bytes): %q",
				parseTimeout, len(input), truncateForLog(input, 200))
		}
	})
}

// FuzzAnalyze runs the whole pipeline on a unit importing a fixed dependency.
func FuzzAnalyze(f *testing.F) {
	addCorpusSeeds(f)
	const dep = "contract Dep { function v() public pure returns (uint) { return 1; } }\n"
	resolver := driver.MapResolver{"dep.sol": dep}
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)
		res, err := driver.Analyze(context.Background(), []driver.Source{{Path: "fuzz.sol", Text: string(input)}}, driver.Options{
			Config:   config.Default(),
			Resolver: resolver,
			Jobs:     2,
		})
		if err != nil {
			return
		}
		if _, ok := res.Unit("fuzz.sol"); !ok {
			t.Fatalf("no unit for fuzz.sol")
		}
		for _, d := range res.Diagnostics {
			if d.Line == 0 || d.Column == 0 {
				t.Fatalf("unlocated diagnostic %s: %s", d.Code, d.Message)
			}
		}
	})
}
