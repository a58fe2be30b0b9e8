package symbols_test

import (
	"fmt"
	"slices"
	"strings"
	"testing"

	"solfront/internal/ast"
	"solfront/internal/config"
	"solfront/internal/diag"
	"solfront/internal/parser"
	"solfront/internal/source"
	"solfront/internal/symbols"
	"solfront/internal/types"
)

type unit struct {
	b     *ast.Builder
	files map[string]ast.FileID
	res   *symbols.Result
	bag   *diag.Bag
}

// resolveFiles parses the files in the given order and resolves them as one unit.
// Imports are matched by exact path.
func resolveFiles(t *testing.T, cfg config.Config, files ...[2]string) unit {
	t.Helper()
	fs := source.NewFileSet()
	b := ast.NewBuilder(ast.Hints{}, nil)
	bag := diag.NewBag(0)
	u := unit{b: b, files: make(map[string]ast.FileID), bag: bag}
	var order []ast.FileID
	for _, f := range files {
		src := fs.Get(fs.AddVirtual(f[0], f[1]))
		res := parser.ParseFile(src, b, parser.Options{
			Reporter: diag.BagReporter{Bag: bag, Phase: diag.PhaseParse},
			Config:   cfg,
		})
		if res.Errors > 0 {
			t.Fatalf("%s: syntax errors: %s", f[0], summary(bag))
		}
		u.files[f[0]] = res.File
		order = append(order, res.File)
	}
	imports := make(map[ast.ItemID]ast.FileID)
	for _, fid := range order {
		for _, item := range b.Files.Get(fid).Items {
			if imp, ok := b.Items.Import(item); ok {
				if target, ok := u.files[imp.Path]; ok {
					imports[item] = target
				}
			}
		}
	}
	u.res = symbols.Resolve(symbols.Input{
		Builder:         b,
		Files:           order,
		Imports:         imports,
		Types:           types.NewInterner(),
		Config:          cfg,
		Reporter:        diag.BagReporter{Bag: bag, Phase: diag.PhaseResolve},
		InheritReporter: diag.BagReporter{Bag: bag, Phase: diag.PhaseInherit},
	})
	return u
}

func resolveSource(t *testing.T, src string) unit {
	t.Helper()
	return resolveFiles(t, config.Default(), [2]string{"test.sol", src})
}

func summary(bag *diag.Bag) string {
	items := bag.Items()
	if len(items) == 0 {
		return "<none>"
	}
	parts := make([]string, len(items))
	for i, d := range items {
		parts[i] = fmt.Sprintf("%s %s", d.Code, d.Message)
	}
	return strings.Join(parts, "; ")
}

func codes(bag *diag.Bag) []diag.Code {
	var out []diag.Code
	for _, d := range bag.Items() {
		out = append(out, d.Code)
	}
	return out
}

func countCode(bag *diag.Bag, code diag.Code) int {
	n := 0
	for _, d := range bag.Items() {
		if d.Code == code {
			n++
		}
	}
	return n
}

// exprsNamed returns identifier (or member, when member is true) expressions named name in source order.
func (u unit) exprsNamed(name string, member bool) []ast.ExprID {
	var out []ast.ExprID
	for i := uint32(1); i <= u.b.Exprs.Arena.Len(); i++ {
		id := ast.ExprID(i)
		if member {
			if m, ok := u.b.Exprs.Member(id); ok && u.b.Name(m.Name) == name {
				out = append(out, id)
			}
			continue
		}
		if ident, ok := u.b.Exprs.Ident(id); ok && u.b.Name(ident.Name) == name {
			out = append(out, id)
		}
	}
	return out
}

func (u unit) contract(name string) ast.ItemID {
	for _, c := range u.res.Contracts {
		decl, _ := u.b.Items.Contract(c)
		if u.b.Name(decl.Name) == name {
			return c
		}
	}
	return ast.NoItemID
}

func (u unit) names(items []ast.ItemID) []string {
	out := make([]string, len(items))
	for i, c := range items {
		decl, _ := u.b.Items.Contract(c)
		out[i] = u.b.Name(decl.Name)
	}
	return out
}

const diamond = `
contract A { function f() public virtual {} }
contract B is A { function f() public virtual override {} }
contract C is A { function f() public virtual override {} }
contract D is B, C {
    function f() public override(B, C) { super.f(); }
}
`

func TestDiamondLinearizationAndSuper(t *testing.T) {
	u := resolveSource(t, diamond)
	if u.bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", summary(u.bag))
	}
	d := u.contract("D")
	got := u.names(u.res.Linearized[d].Nodes)
	if want := []string{"D", "B", "C", "A"}; !slices.Equal(got, want) {
		t.Fatalf("linearization = %v, want %v", got, want)
	}
	calls := u.exprsNamed("f", true)
	if len(calls) != 1 {
		t.Fatalf("expected one super.f member, got %d", len(calls))
	}
	sym := u.res.Symbol(u.res.ExprSymbols[calls[0]])
	if sym == nil || sym.Contract != u.contract("B") {
		t.Fatalf("super.f should bind to B.f, got %+v", sym)
	}
	b := u.contract("B")
	if target, ok := u.res.SuperTarget(d, b, sym.Name); !ok || target != u.contract("C") {
		t.Fatalf("super from B inside D should reach C")
	}
	decl, _ := u.b.Items.Contract(d)
	if got := u.names(u.res.OverrideBases[decl.Members[0]]); !slices.Equal(got, []string{"B", "C"}) {
		t.Fatalf("override list = %v, want [B C]", got)
	}
}

func TestLocalVisibleOnlyAfterDeclaration(t *testing.T) {
	u := resolveSource(t, `
contract C {
    function f() public pure returns (uint) {
        y = 1;
        uint y = 2;
        return y;
    }
}`)
	if n := countCode(u.bag, diag.NamUnresolved); n != 1 {
		t.Fatalf("expected one unresolved identifier, got %s", summary(u.bag))
	}
	uses := u.exprsNamed("y", false)
	if len(uses) != 2 {
		t.Fatalf("expected two uses of y, got %d", len(uses))
	}
	if _, ok := u.res.ExprSymbols[uses[0]]; ok {
		t.Fatalf("use before declaration must not bind")
	}
	if sym := u.res.Symbol(u.res.ExprSymbols[uses[1]]); sym == nil || sym.Kind != symbols.SymbolLocal {
		t.Fatalf("use after declaration should bind to the local, got %+v", sym)
	}
}

func TestThisMemberAndPlainNameAgree(t *testing.T) {
	u := resolveSource(t, `
contract C {
    uint public x;
    function f() public view returns (uint) { return x + this.x(); }
}`)
	if u.bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", summary(u.bag))
	}
	plain := u.exprsNamed("x", false)
	viaThis := u.exprsNamed("x", true)
	if len(plain) != 1 || len(viaThis) != 1 {
		t.Fatalf("unexpected expression counts %d/%d", len(plain), len(viaThis))
	}
	a, b := u.res.ExprSymbols[plain[0]], u.res.ExprSymbols[viaThis[0]]
	if !a.IsValid() || a != b {
		t.Fatalf("x and this.x bind to %d and %d", a, b)
	}
	if u.res.Symbol(a).Kind != symbols.SymbolStateVar {
		t.Fatalf("x should be a state variable")
	}
}

func TestShadowingStateVariable(t *testing.T) {
	src := `
contract C {
    uint value;
    function f(uint value) public pure returns (uint) { return value; }
}`
	u := resolveSource(t, src)
	items := u.bag.Items()
	if len(items) != 1 || items[0].Code != diag.NamShadowStateVar || items[0].Severity != diag.SevWarning {
		t.Fatalf("expected one shadowing warning, got %s", summary(u.bag))
	}
	// the parameter wins inside the body
	use := u.exprsNamed("value", false)[0]
	if sym := u.res.Symbol(u.res.ExprSymbols[use]); sym.Kind != symbols.SymbolParam {
		t.Fatalf("value should bind to the parameter, got %s", sym.Kind)
	}

	cfg := config.Default()
	cfg.StrictShadowing = true
	strict := resolveFiles(t, cfg, [2]string{"test.sol", src})
	if !strict.bag.HasErrors() || countCode(strict.bag, diag.NamShadowStateVar) != 1 {
		t.Fatalf("strict shadowing should be an error, got %s", summary(strict.bag))
	}
}

func TestNestedBlockShadowIsWarning(t *testing.T) {
	u := resolveSource(t, `
contract C {
    function f() public pure {
        uint a = 1;
        { uint a = 2; a; }
    }
}`)
	if u.bag.HasErrors() || countCode(u.bag, diag.NamShadow) != 1 {
		t.Fatalf("expected one shadow warning, got %s", summary(u.bag))
	}
}

func TestDuplicatesAndOverloads(t *testing.T) {
	u := resolveSource(t, `
contract C {
    uint x;
    uint x;
    function f(uint a) public {}
    function f(address a) public {}
    event E(uint);
    event E(bool);
    function g() public { uint a; uint a; }
}`)
	if n := countCode(u.bag, diag.NamDuplicate); n != 2 {
		t.Fatalf("expected two duplicate declarations, got %s", summary(u.bag))
	}
}

func TestInheritedStateVariableConflict(t *testing.T) {
	u := resolveSource(t, `
contract A { uint x; }
contract B { uint x; }
contract C is A, B {}
contract D is C {}
`)
	if n := countCode(u.bag, diag.NamInheritedConflict); n != 1 {
		t.Fatalf("expected the conflict once, at C: %s", summary(u.bag))
	}
}

func TestPublicStateVariableMayOverrideFunction(t *testing.T) {
	u := resolveSource(t, `
interface I { function x() external view returns (uint); }
contract C is I { uint public override x; }
`)
	if countCode(u.bag, diag.NamInheritedConflict) != 0 {
		t.Fatalf("unexpected conflict: %s", summary(u.bag))
	}
}

func TestImportForms(t *testing.T) {
	u := resolveFiles(t, config.Default(),
		[2]string{"a.sol", `
struct S { uint v; }
contract A {}
`},
		[2]string{"b.sol", `
import "a.sol";
import "a.sol" as M;
import {A as AA, Missing} from "a.sol";
contract B is A {
    M.S s;
    AA other;
    S plain;
}
`})
	if got := codes(u.bag); !slices.Equal(got, []diag.Code{diag.NamImportMissing}) {
		t.Fatalf("expected only the missing import, got %s", summary(u.bag))
	}
	bound := 0
	for _, sid := range u.res.TypeSymbols {
		if sym := u.res.Symbol(sid); sym.Kind == symbols.SymbolStruct || sym.Kind == symbols.SymbolContract {
			bound++
		}
	}
	if bound != 3 {
		t.Fatalf("expected three bound user types, got %d", bound)
	}
	if got := u.names(u.res.Bases[u.contract("B")]); !slices.Equal(got, []string{"A"}) {
		t.Fatalf("bases = %v", got)
	}
}

func TestInheritanceCycle(t *testing.T) {
	u := resolveSource(t, `
contract A is B {}
contract B is A {}
contract D is A {}
`)
	if n := countCode(u.bag, diag.InhCycle); n != 2 {
		t.Fatalf("expected a cycle at A and B, got %s", summary(u.bag))
	}
	if countCode(u.bag, diag.InhBaseFailed) != 1 {
		t.Fatalf("D should report a failed base: %s", summary(u.bag))
	}
	for _, d := range u.bag.Items() {
		if d.Code == diag.InhCycle && d.Phase != diag.PhaseInherit {
			t.Fatalf("cycle reported in phase %s", d.Phase)
		}
	}
	if !u.res.Unlinearized[u.contract("D")] {
		t.Fatalf("D should be marked unlinearized")
	}
}

func TestNotATypeAndNotAContract(t *testing.T) {
	u := resolveSource(t, `
struct S { uint v; }
contract X is S {
    function g() public {}
    g bad;
}
`)
	if countCode(u.bag, diag.NamNotAContract) != 1 || countCode(u.bag, diag.NamNotAType) != 1 {
		t.Fatalf("unexpected diagnostics: %s", summary(u.bag))
	}
}

func TestSuperWithoutTarget(t *testing.T) {
	u := resolveSource(t, `
contract A {}
contract B is A { function f() public { super.f(); } }
`)
	if countCode(u.bag, diag.NamSuperNoTarget) != 1 {
		t.Fatalf("expected super without target, got %s", summary(u.bag))
	}
}

func TestModifierAndBaseConstructorInvocations(t *testing.T) {
	u := resolveSource(t, `
contract A { constructor(uint) {} }
contract B is A {
    uint count;
    modifier only() { _; }
    constructor() A(1) only {}
    function f() public count {}
}
`)
	if countCode(u.bag, diag.NamNotAModifier) != 1 {
		t.Fatalf("expected count to be rejected as a modifier: %s", summary(u.bag))
	}
	b, _ := u.b.Items.Contract(u.contract("B"))
	ctor := b.Members[2]
	base := u.res.Symbol(u.res.Modifiers[symbols.ModifierRef{Item: ctor, Index: 0}])
	mod := u.res.Symbol(u.res.Modifiers[symbols.ModifierRef{Item: ctor, Index: 1}])
	if base == nil || base.Kind != symbols.SymbolContract || mod == nil || mod.Kind != symbols.SymbolModifier {
		t.Fatalf("constructor invocations resolved to %+v and %+v", base, mod)
	}
}

func TestAssemblyScopeSeesLocals(t *testing.T) {
	u := resolveSource(t, `
contract C {
    uint stored;
    function f(uint a) public {
        uint b = a;
        assembly { let c := add(a, b) }
    }
}`)
	if len(u.res.AssemblyScopes) != 1 {
		t.Fatalf("expected one assembly scope, got %d", len(u.res.AssemblyScopes))
	}
	for _, scope := range u.res.AssemblyScopes {
		names := u.res.VisibleNames(scope)
		for _, want := range []string{"C", "a", "b", "f", "stored"} {
			if !slices.Contains(names, want) {
				t.Fatalf("visible names %v lack %q", names, want)
			}
		}
		if slices.Contains(names, "msg") {
			t.Fatalf("builtins must not be listed: %v", names)
		}
	}
}

func TestBuiltinsResolve(t *testing.T) {
	u := resolveSource(t, `
contract C {
    function f(bytes memory data) public payable {
        require(msg.value > 0, "no value");
        keccak256(data);
    }
}`)
	if u.bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", summary(u.bag))
	}
	req := u.exprsNamed("require", false)[0]
	if got := len(u.res.Overloads[req]); got != 2 {
		t.Fatalf("require should have two overloads, got %d", got)
	}
}
