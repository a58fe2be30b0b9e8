package abi_test

import (
	"encoding/hex"
	"testing"

	"solfront/internal/abi"
	"solfront/internal/ast"
	"solfront/internal/config"
	"solfront/internal/diag"
	"solfront/internal/parser"
	"solfront/internal/sema"
	"solfront/internal/source"
	"solfront/internal/symbols"
	"solfront/internal/types"
)

func checkSource(t *testing.T, src string) abi.Input {
	t.Helper()
	cfg := config.Default()
	fs := source.NewFileSet()
	b := ast.NewBuilder(ast.Hints{}, nil)
	bag := diag.NewBag(0)
	pr := parser.ParseFile(fs.Get(fs.AddVirtual("token.sol", src)), b, parser.Options{
		Reporter: diag.BagReporter{Bag: bag, Phase: diag.PhaseParse},
		Config:   cfg,
	})
	syms := symbols.Resolve(symbols.Input{
		Builder:  b,
		Files:    []ast.FileID{pr.File},
		Types:    types.NewInterner(),
		Config:   cfg,
		Reporter: diag.BagReporter{Bag: bag, Phase: diag.PhaseResolve},
	})
	res := sema.Check(b, sema.Options{
		Reporter: diag.BagReporter{Bag: bag, Phase: diag.PhaseTypes},
		Symbols:  syms,
		Config:   cfg,
	})
	if bag.HasErrors() {
		for _, d := range bag.Items() {
			t.Logf("%s %s", d.Code, d.Message)
		}
		t.Fatalf("source does not check")
	}
	return abi.Input{Builder: b, Symbols: syms, Sema: res}
}

func TestSelectors(t *testing.T) {
	tests := []struct {
		sig  string
		want string
	}{
		{"transfer(address,uint256)", "a9059cbb"},
		{"balanceOf(address)", "70a08231"},
		{"totalSupply()", "18160ddd"},
		{"Error(string)", "08c379a0"},
		{"Panic(uint256)", "4e487b71"},
	}
	for _, tt := range tests {
		sel := abi.Selector(tt.sig)
		if got := hex.EncodeToString(sel[:]); got != tt.want {
			t.Errorf("Selector(%q) = %s, want %s", tt.sig, got, tt.want)
		}
	}
}

func TestEventTopic(t *testing.T) {
	const want = "0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef"
	if got := abi.Topic("Transfer(address,address,uint256)").Hex(); got != want {
		t.Fatalf("Topic = %s, want %s", got, want)
	}
}

const token = `
interface IERC20 {
	event Transfer(address indexed from, address indexed to, uint256 value);
	function transfer(address to, uint256 amount) external returns (bool);
	function balanceOf(address who) external view returns (uint256);
}

type Amount is uint128;

contract Token is IERC20 {
	struct Point { uint x; uint y; }
	enum State { Open, Closed }
	error Insufficient(uint256 available, Amount wanted);
	event Anon(uint a) anonymous;

	mapping(address => uint256) public override balanceOf;
	mapping(address => mapping(address => uint)) public allowance;
	uint[] public history;
	State public state;

	function transfer(address to, uint256 amount) external override returns (bool) {
		balanceOf[msg.sender] -= amount;
		balanceOf[to] += amount;
		emit Transfer(msg.sender, to, amount);
		return true;
	}

	function move(Point calldata p, State s, Token other, Amount a, uint8[3] memory xs) public {}

	function helper() internal {}
	function secret() private {}
}
`

func TestSignatures(t *testing.T) {
	in := checkSource(t, token)
	got := make(map[string]abi.Entry)
	for _, e := range abi.Contract(in, "Token") {
		got[e.Kind.String()+" "+e.Signature] = e
	}
	for _, want := range []string{
		"function transfer(address,uint256)",
		"function balanceOf(address)",
		"function allowance(address,address)",
		"function history(uint256)",
		"function state()",
		"function move((uint256,uint256),uint8,address,uint128,uint8[3])",
		"event Transfer(address,address,uint256)",
		"event Anon(uint256)",
		"error Insufficient(uint256,uint128)",
	} {
		if _, ok := got[want]; !ok {
			t.Errorf("missing %s in %v", want, keys(got))
		}
	}
	for _, absent := range []string{"function helper()", "function secret()"} {
		if _, ok := got[absent]; ok {
			t.Errorf("%s is not externally visible", absent)
		}
	}
	if len(got) != 9 {
		t.Errorf("got %d entries, want 9: %v", len(got), keys(got))
	}

	transfer := got["function transfer(address,uint256)"]
	if hex.EncodeToString(transfer.Selector[:]) != "a9059cbb" {
		t.Errorf("transfer selector = %x", transfer.Selector)
	}
	ev := got["event Transfer(address,address,uint256)"]
	if ev.Topic != abi.Topic("Transfer(address,address,uint256)") {
		t.Errorf("Transfer topic = %s", ev.Topic.Hex())
	}
	if anon := got["event Anon(uint256)"]; !anon.Anonymous || anon.Topic != ([32]byte{}) {
		t.Errorf("anonymous event has a topic: %+v", anon)
	}
}

func TestInheritedOnce(t *testing.T) {
	in := checkSource(t, `
	contract A { function f() public virtual {} function g() external {} }
	contract B is A { function f() public override {} }`)
	entries := abi.Contract(in, "B")
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	var f abi.Entry
	for _, e := range entries {
		if e.Name == "f" {
			f = e
		}
	}
	decl, ok := in.Builder.Items.Function(f.Decl)
	if !ok || in.Builder.Name(decl.Name) != "f" {
		t.Fatalf("f has no declaration")
	}
	var inB bool
	bDecl, _ := in.Builder.Items.Contract(in.Symbols.Contracts[1])
	for _, m := range bDecl.Members {
		inB = inB || m == f.Decl
	}
	if !inB {
		t.Fatalf("f should come from the most derived contract")
	}
}

func keys(m map[string]abi.Entry) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
