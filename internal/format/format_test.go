package format_test

import (
	"strings"
	"testing"

	"solfront/internal/ast"
	"solfront/internal/config"
	"solfront/internal/diag"
	"solfront/internal/format"
	"solfront/internal/parser"
	"solfront/internal/source"
)

var seeds = []string{
	`pragma solidity ^0.8.0; import "a.sol"; import {X as Y, Z} from "./b.sol"; import * as M from "m.sol";`,
	`contract A { uint x; function f() public virtual returns (uint) { return x; } }
	 contract B is A { function f() public virtual override returns (uint) { return super.f() + 1; } }`,
	`/// @notice Vault
	 abstract contract V is Ownable(msg.sender) {
	   mapping(address => mapping(uint => bool)) internal seen;
	   event Moved(address indexed from, uint amount) anonymous;
	   error Nope(uint code);
	   struct P { uint a; bytes32[] tags; }
	   enum S { Idle, Busy }
	   modifier gated(uint n) { require(n > 0, "zero"); _; }
	   function g(uint[] calldata xs) external payable gated(xs.length) returns (uint total, bool) {
	     for (uint i = 0; i < xs.length; i++) { total += xs[i]; }
	     unchecked { total = total * 2 ** 3 ** 2; }
	     (uint a, , bool c) = h();
	     (a, total) = (total, a);
	     if (a > 1) return (a, c); else if (a == 0) revert Nope(1); else { emit Moved(msg.sender, a); }
	     do { a--; } while (a > 0);
	     while (true) break;
	     try this.h{gas: 1000}() returns (uint q, bool) { a = q; } catch Error(string memory r) { revert(r); } catch (bytes memory) {}
	     assembly { let v := add(1, 2) }
	     delete seen[msg.sender][a];
	     a = c ? uint(1 ether) : type(uint).max;
	     a = (a + 1) * -(a - 2) - - a;
	     bytes memory s = msg.data[4:];
	     return (total, !c);
	   }
	   function h() public view returns (uint, bool) { return (1, true); }
	 }`,
	`type Price is uint128; using {add} for Price global; function add(Price a, Price b) pure returns (Price) { return Price.wrap(Price.unwrap(a) + Price.unwrap(b)); }`,
	`library L { function inc(uint x) internal pure returns (uint) { return x + 1; } }
	 contract U { using L for uint; function f(uint y) public pure returns (uint) { if (y > 1) if (y > 2) return 3; else return 4; return y.inc(); } }`,
}

func TestRoundTripIsStable(t *testing.T) {
	for i, src := range seeds {
		fs := source.NewFileSet()
		sf := fs.Get(fs.AddVirtual("seed.sol", src))
		ok, msg := format.CheckRoundTrip(sf, config.Default(), format.Options{})
		if !ok {
			t.Fatalf("seed %d: %s", i, msg)
		}
	}
}

func printSource(t *testing.T, src string) string {
	t.Helper()
	fs := source.NewFileSet()
	sf := fs.Get(fs.AddVirtual("x.sol", src))
	bag := diag.NewBag(0)
	b := ast.NewBuilder(ast.Hints{}, nil)
	res := parser.ParseFile(sf, b, parser.Options{Reporter: diag.BagReporter{Bag: bag}, Config: config.Default()})
	if bag.HasErrors() {
		t.Fatalf("parse errors in %q", src)
	}
	out, err := format.File(sf, b, res.File, format.Options{})
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	return string(out)
}

func TestParenthesesFollowPrecedence(t *testing.T) {
	out := printSource(t, "contract C { function f() public { x = (a + b) * c; y = a + (b * c); z = - -a; w = (a ** b) ** c; } }")
	for _, want := range []string{
		"x = (a + b) * c;",
		"y = a + b * c;",
		"z = - -a;",
		"w = (a ** b) ** c;",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestCanonicalLayout(t *testing.T) {
	got := printSource(t, "contract C{uint public x;function f()external view returns(uint){return x;}}")
	want := `contract C {
    uint public x;

    function f() external view returns (uint) {
        return x;
    }
}
`
	if got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestDocCommentsSurvive(t *testing.T) {
	out := printSource(t, "/** @title T\n * @author me */\ncontract T {}")
	if !strings.HasPrefix(out, "/// @title T\n/// @author me\ncontract T {}") {
		t.Fatalf("doc comment not printed:\n%s", out)
	}
}
