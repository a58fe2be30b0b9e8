package parser_test

import (
	"testing"

	"solfront/internal/ast"
	"solfront/internal/config"
	"solfront/internal/diag"
	"solfront/internal/parser"
	"solfront/internal/source"
	"solfront/internal/testkit"
)

func TestSpanInvariants(t *testing.T) {
	cases := []string{
		"",
		"pragma solidity ^0.8.0;\n",
		"contract C { uint x; function f(uint a) public returns (uint) { return a + x * 2; } }",
		"library L { struct S { uint a; } function g(S storage s) internal view returns (uint) { return s.a; } }",
		"interface I { event E(address indexed who); error Bad(uint code); function h() external; }\n" +
			"abstract contract A is I { modifier only() { _; } }",
		"uint constant K = 1 << 8;\nfunction free(uint a) pure returns (uint) { return a ** 2; }",
	}
	for _, src := range cases {
		fs := source.NewFileSet()
		f := fs.Get(fs.AddVirtual("spans.sol", src))
		b := ast.NewBuilder(ast.Hints{}, nil)
		bag := diag.NewBag(0)
		res := parser.ParseFile(f, b, parser.Options{
			Reporter: diag.BagReporter{Bag: bag, Phase: diag.PhaseParse},
			Config:   config.Default(),
		})
		if res.Errors != 0 {
			t.Fatalf("%q: unexpected errors: %s", src, diagnosticsSummary(bag))
		}
		if err := testkit.CheckSpanInvariants(b, res.File, f); err != nil {
			t.Fatalf("%q: %v", src, err)
		}
	}
}
