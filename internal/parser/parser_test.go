package parser_test

import (
	"testing"

	"solfront/internal/ast"
	"solfront/internal/config"
	"solfront/internal/diag"
	"solfront/internal/token"
)

func TestSourceUnitItems(t *testing.T) {
	src := `
pragma solidity ^0.8.0;
import "a.sol";
import "b.sol" as B;
import * as C from "c.sol";
import {x as y, z} from "d.sol";
uint constant LIMIT = 10;
type Price is uint128;
error Oops(uint code);
event Free(address indexed who);
struct P { uint a; }
enum E { One, Two }
function helper(uint a) pure returns (uint) { return a; }
abstract contract K {}
interface I {}
library L {}
`
	p := parseOK(t, src)
	want := []ast.ItemKind{
		ast.ItemPragma, ast.ItemImport, ast.ItemImport, ast.ItemImport, ast.ItemImport,
		ast.ItemVariable, ast.ItemUDVT, ast.ItemError, ast.ItemEvent, ast.ItemStruct, ast.ItemEnum,
		ast.ItemFunction, ast.ItemContract, ast.ItemContract, ast.ItemContract,
	}
	if len(p.file.Items) != len(want) {
		t.Fatalf("got %d items, want %d", len(p.file.Items), len(want))
	}
	for i, id := range p.file.Items {
		if got := p.b.Items.Get(id).Kind; got != want[i] {
			t.Fatalf("item %d: got %s, want %s", i, got, want[i])
		}
	}

	imp, _ := p.b.Items.Import(p.file.Items[2])
	if imp.Path != "b.sol" || p.b.Name(imp.Alias) != "B" {
		t.Fatalf("alias import = %+v", imp)
	}
	star, _ := p.b.Items.Import(p.file.Items[3])
	if !star.Wildcard || p.b.Name(star.Alias) != "C" || star.Path != "c.sol" {
		t.Fatalf("wildcard import = %+v", star)
	}
	sel, _ := p.b.Items.Import(p.file.Items[4])
	if len(sel.Symbols) != 2 || p.b.Name(sel.Symbols[0].Alias) != "y" || sel.Symbols[1].Alias != 0 {
		t.Fatalf("selective import = %+v", sel)
	}
	k, _ := p.b.Items.Contract(p.file.Items[12])
	if !k.Abstract || k.Kind != ast.ContractPlain {
		t.Fatalf("abstract contract = %+v", k)
	}
}

func TestContractMembers(t *testing.T) {
	src := `
contract D is B(1), C {
    using SafeMath for uint;
    mapping(address => uint) public balances;
    uint immutable start;
    address payable owner;
    event Transfer(address indexed from, address to, uint value) anonymous;
    error Denied(address who);
    modifier onlyOwner() virtual { _; }
    constructor(uint s) B(s) payable { start = s; }
    receive() external payable {}
    fallback(bytes calldata input) external returns (bytes memory) { return input; }
    function f(uint a) public view virtual override(B, C) onlyOwner returns (uint r, bool) {}
    function g() external;
}`
	p := parseOK(t, src)
	c := p.firstContract(t)
	if len(c.Bases) != 2 || !c.Bases[0].HasArgs || c.Bases[1].HasArgs {
		t.Fatalf("bases = %+v", c.Bases)
	}
	if len(c.Members) != 12 {
		t.Fatalf("got %d members, want 12", len(c.Members))
	}

	bal, ok := p.b.Items.Variable(c.Members[1])
	if !ok || bal.Visibility != ast.VisPublic {
		t.Fatalf("balances = %+v", bal)
	}
	if _, ok := p.b.Types.Mapping(bal.Type); !ok {
		t.Fatalf("balances is not a mapping")
	}
	owner, _ := p.b.Items.Variable(c.Members[3])
	if el, ok := p.b.Types.ElementaryType(owner.Type); !ok || !el.Payable {
		t.Fatalf("owner type is not address payable")
	}
	ev, _ := p.b.Items.Event(c.Members[4])
	if !ev.Anonymous || !ev.Params[0].Indexed || ev.Params[1].Indexed {
		t.Fatalf("event = %+v", ev)
	}

	ctor, _ := p.b.Items.Function(c.Members[7])
	if ctor.Kind != ast.FnConstructor || ctor.Mutability != ast.MutPayable || len(ctor.Modifiers) != 1 {
		t.Fatalf("constructor = %+v", ctor)
	}
	fb, _ := p.b.Items.Function(c.Members[9])
	if fb.Kind != ast.FnFallback || fb.Params[0].Location != ast.LocCalldata || len(fb.Returns) != 1 {
		t.Fatalf("fallback = %+v", fb)
	}

	f := p.function(t, "f")
	if f.Visibility != ast.VisPublic || f.Mutability != ast.MutView || !f.Virtual {
		t.Fatalf("f specifiers = %+v", f)
	}
	if !f.Override.Present || len(f.Override.Bases) != 2 || len(f.Modifiers) != 1 || len(f.Returns) != 2 {
		t.Fatalf("f = %+v", f)
	}
	if g := p.function(t, "g"); g.Body.IsValid() {
		t.Fatalf("g should have no body")
	}
}

func TestDuplicateSpecifier(t *testing.T) {
	p := parse(t, `contract C { function f() public external {} }`)
	if !hasCode(p.bag, diag.SynDuplicateSpecifier) {
		t.Fatalf("expected duplicate specifier, got %s", diagnosticsSummary(p.bag))
	}
}

func TestVarDeclVersusExpression(t *testing.T) {
	src := `contract C { function f() public {
    uint x = 1;
    uint[] memory xs;
    S storage s = items[0];
    Lib.T memory t;
    x = 2;
    items[0] = s;
    a.b(c);
    (uint q, , bool r) = g();
    (x, y) = (y, x);
    mapping(uint => uint) storage m = ms;
    uint8(x);
} }`
	p := parseOK(t, src)
	stmts := p.bodyStmts(t, p.function(t, "f"))
	want := []ast.StmtKind{
		ast.StmtVarDecl, ast.StmtVarDecl, ast.StmtVarDecl, ast.StmtVarDecl,
		ast.StmtExpr, ast.StmtExpr, ast.StmtExpr,
		ast.StmtVarDecl, ast.StmtExpr, ast.StmtVarDecl, ast.StmtExpr,
	}
	if len(stmts) != len(want) {
		t.Fatalf("got %d statements, want %d", len(stmts), len(want))
	}
	for i, id := range stmts {
		if got := p.b.Stmts.Get(id).Kind; got != want[i] {
			t.Fatalf("stmt %d: kind %d, want %d", i, got, want[i])
		}
	}
	tuple, _ := p.b.Stmts.VarDecl(stmts[7])
	if !tuple.Tuple || len(tuple.Vars) != 3 || !tuple.Vars[1].Empty() {
		t.Fatalf("tuple decl = %+v", tuple)
	}
	swap, _ := p.b.Stmts.Expr(stmts[8])
	if _, ok := p.b.Exprs.Assign(swap.Expr); !ok {
		t.Fatalf("swap is not an assignment")
	}
}

func TestPrecedence(t *testing.T) {
	p := parseOK(t, `contract C { function f() public { r = a + b * c ** d ** e; } }`)
	stmt, _ := p.b.Stmts.Expr(p.bodyStmts(t, p.function(t, "f"))[0])
	assign, ok := p.b.Exprs.Assign(stmt.Expr)
	if !ok {
		t.Fatalf("not an assignment")
	}
	sum, _ := p.b.Exprs.Binary(assign.Value)
	if sum.Op != token.Plus {
		t.Fatalf("top operator = %s, want +", sum.Op)
	}
	mul, _ := p.b.Exprs.Binary(sum.Right)
	if mul.Op != token.Star {
		t.Fatalf("second operator = %s, want *", mul.Op)
	}
	pow, _ := p.b.Exprs.Binary(mul.Right)
	if pow.Op != token.StarStar {
		t.Fatalf("third operator = %s, want **", pow.Op)
	}
	// ** is right-associative: c ** (d ** e)
	if inner, ok := p.b.Exprs.Binary(pow.Right); !ok || inner.Op != token.StarStar {
		t.Fatalf("** is not right-associative")
	}
}

func TestConditionalAndAssignmentAreRightAssociative(t *testing.T) {
	p := parseOK(t, `contract C { function f() public { a = b = c ? d : e ? f : g; } }`)
	stmt, _ := p.b.Stmts.Expr(p.bodyStmts(t, p.function(t, "f"))[0])
	outer, _ := p.b.Exprs.Assign(stmt.Expr)
	inner, ok := p.b.Exprs.Assign(outer.Value)
	if !ok {
		t.Fatalf("a = (b = ...) expected")
	}
	cond, ok := p.b.Exprs.Conditional(inner.Value)
	if !ok {
		t.Fatalf("conditional expected")
	}
	if _, ok := p.b.Exprs.Conditional(cond.Else); !ok {
		t.Fatalf("else branch should be the nested conditional")
	}
}

func TestPostfixForms(t *testing.T) {
	src := `contract C { function f() public {
    x = a.call{value: 1 ether, gas: 5000}("");
    y = data[2:];
    z = new uint[](3);
    w = type(I).interfaceId;
    v = payable(msg.sender);
    i++;
    u = f({a: 1, b: 2});
    s = "ab" "cd";
} }`
	p := parseOK(t, src)
	stmts := p.bodyStmts(t, p.function(t, "f"))
	value := func(i int) ast.ExprID {
		st, _ := p.b.Stmts.Expr(stmts[i])
		a, ok := p.b.Exprs.Assign(st.Expr)
		if !ok {
			t.Fatalf("stmt %d is not an assignment", i)
		}
		return a.Value
	}
	call, ok := p.b.Exprs.Call(value(0))
	if !ok {
		t.Fatalf("call expected")
	}
	opts, ok := p.b.Exprs.CallOptions(call.Callee)
	if !ok || len(opts.Values) != 2 {
		t.Fatalf("call options expected, got %+v", opts)
	}
	lit, _ := p.b.Exprs.Lit(opts.Values[0])
	if lit == nil || p.b.Name(lit.Unit) != "ether" {
		t.Fatalf("denomination not attached: %+v", lit)
	}
	if sl, ok := p.b.Exprs.Slice(value(1)); !ok || !sl.Start.IsValid() || sl.End.IsValid() {
		t.Fatalf("slice = %+v", sl)
	}
	newCall, _ := p.b.Exprs.Call(value(2))
	if _, ok := p.b.Exprs.New(newCall.Callee); !ok {
		t.Fatalf("new expression expected")
	}
	member, _ := p.b.Exprs.Member(value(3))
	if _, ok := p.b.Exprs.MetaType(member.Target); !ok {
		t.Fatalf("type(I) expected")
	}
	conv, _ := p.b.Exprs.Call(value(4))
	if tn, ok := p.b.Exprs.TypeName(conv.Callee); !ok {
		t.Fatalf("payable conversion expected")
	} else if el, _ := p.b.Types.ElementaryType(tn.Type); !el.Payable {
		t.Fatalf("payable flag missing")
	}
	inc, _ := p.b.Stmts.Expr(stmts[5])
	if u, ok := p.b.Exprs.Unary(inc.Expr); !ok || !u.Postfix {
		t.Fatalf("postfix increment expected")
	}
	named, _ := p.b.Exprs.Call(value(6))
	if !named.Named || len(named.Names) != 2 {
		t.Fatalf("named call = %+v", named)
	}
	str, _ := p.b.Exprs.Lit(value(7))
	if str.Value != "abcd" {
		t.Fatalf("concatenated string = %q", str.Value)
	}
}

func TestTryCatchOrder(t *testing.T) {
	ok := `contract C { function f() public {
    try t.g() returns (uint v) { x = v; }
    catch Error(string memory r) {}
    catch Panic(uint c) {}
    catch (bytes memory d) {}
} }`
	p := parseOK(t, ok)
	tr, found := p.b.Stmts.Try(p.bodyStmts(t, p.function(t, "f"))[0])
	if !found || len(tr.Catches) != 3 || len(tr.Returns) != 1 {
		t.Fatalf("try = %+v", tr)
	}
	if tr.Catches[0].Kind != ast.CatchError || tr.Catches[2].Kind != ast.CatchRaw {
		t.Fatalf("catch kinds = %+v", tr.Catches)
	}

	bad := `contract C { function f() public {
    try t.g() {} catch (bytes memory d) {} catch Error(string memory r) {}
} }`
	p = parse(t, bad)
	if !hasCode(p.bag, diag.SynCatchOrder) {
		t.Fatalf("expected catch order error, got %s", diagnosticsSummary(p.bag))
	}
}

func TestControlFlowAndSpecialStatements(t *testing.T) {
	src := `contract C {
  modifier m() { _; }
  function f() public {
    for (uint i = 0; i < 10; i++) { if (i == 3) continue; else break; }
    while (true) {}
    do { x--; } while (x > 0);
    unchecked { x = x - 1; }
    emit Done(1);
    revert Failed(2);
    revert("plain");
    assembly ("memory-safe") { let a := add(1, 2) if a { a := 0 } }
    return;
  }
}`
	p := parseOK(t, src)
	stmts := p.bodyStmts(t, p.function(t, "f"))
	want := []ast.StmtKind{
		ast.StmtFor, ast.StmtWhile, ast.StmtDoWhile, ast.StmtBlock, ast.StmtEmit,
		ast.StmtRevert, ast.StmtExpr, ast.StmtAssembly, ast.StmtReturn,
	}
	if len(stmts) != len(want) {
		t.Fatalf("got %d statements, want %d", len(stmts), len(want))
	}
	for i, id := range stmts {
		if got := p.b.Stmts.Get(id).Kind; got != want[i] {
			t.Fatalf("stmt %d: kind %d, want %d", i, got, want[i])
		}
	}
	blk, _ := p.b.Stmts.Block(stmts[3])
	if !blk.Unchecked {
		t.Fatalf("unchecked flag missing")
	}
	asm, _ := p.b.Stmts.Assembly(stmts[7])
	if len(asm.Flags) != 1 || asm.Flags[0] != "memory-safe" {
		t.Fatalf("assembly flags = %v", asm.Flags)
	}
}

func TestRecoveryKeepsLaterDeclarations(t *testing.T) {
	src := `contract C {
    function broken() public { uint x = ; x = 1; }
    function fine() public {}
}
contract D {}`
	p := parse(t, src)
	if !hasCode(p.bag, diag.SynExpectExpression) {
		t.Fatalf("expected a syntax error, got %s", diagnosticsSummary(p.bag))
	}
	if len(p.file.Items) != 2 {
		t.Fatalf("got %d top-level items after recovery, want 2", len(p.file.Items))
	}
	broken := p.function(t, "broken")
	if stmts := p.bodyStmts(t, broken); len(stmts) != 1 {
		t.Fatalf("recovery should keep the statement after the error, got %d", len(stmts))
	}
	p.function(t, "fine")
}

func TestPragmaVersionCheck(t *testing.T) {
	p := parseWith(t, "pragma solidity ^0.7.0;", config.MustForVersion("0.8.20"))
	if !hasCode(p.bag, diag.SynPragmaVersion) {
		t.Fatalf("expected pragma version error, got %s", diagnosticsSummary(p.bag))
	}
	pragma, _ := p.b.Items.Pragma(p.file.Items[0])
	if pragma.Value != "^0.7.0" {
		t.Fatalf("pragma value = %q", pragma.Value)
	}

	cfg := config.MustForVersion("0.8.20")
	cfg.CheckPragma = false
	if p := parseWith(t, "pragma solidity ^0.7.0;", cfg); p.bag.Len() != 0 {
		t.Fatalf("disabled check still reported: %s", diagnosticsSummary(p.bag))
	}
	parseOK(t, "pragma solidity >=0.6.0 <0.9.0;")
}

func TestDocCommentAttachesToItem(t *testing.T) {
	p := parseOK(t, "/// @title Vault\ncontract Vault {}")
	if doc := p.b.Items.Get(p.file.Items[0]).Doc; doc == "" {
		t.Fatalf("doc comment not attached")
	}
}

func TestVersionGatedKeywordsParseAsNames(t *testing.T) {
	// before 0.6.0 `virtual` is an ordinary identifier
	p := parseWith(t, "contract C { uint virtual; }", config.MustForVersion("0.5.17"))
	if p.bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", diagnosticsSummary(p.bag))
	}
}
