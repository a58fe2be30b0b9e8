package sema_test

import (
	"strings"
	"testing"

	"solfront/internal/ast"
	"solfront/internal/config"
	"solfront/internal/diag"
	"solfront/internal/sema"
	"solfront/internal/types"
)

func TestLiteralOutOfRange(t *testing.T) {
	tests := []struct {
		name string
		decl string
	}{
		{"exponent", "uint8 x = 2e10;"},
		{"just over", "uint8 x = 256;"},
		{"negative into unsigned", "uint x = -1;"},
		{"signed bound", "int8 x = 128;"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := check(t, "contract C { function f() public pure { "+tt.decl+" } }")
			c.expect(t, diag.TypLiteralOutOfRange, diag.SevError)
			if c.res.TypeErrors == 0 {
				t.Fatalf("TypeErrors = 0, want > 0")
			}
		})
	}
}

func TestLiteralInRange(t *testing.T) {
	c := checkOK(t, `contract C {
		function f() public pure returns (uint8, int8) {
			uint8 a = 255;
			int8 b = -128;
			return (a, b);
		}
	}`)
	if c.res.TypeErrors != 0 {
		t.Fatalf("TypeErrors = %d", c.res.TypeErrors)
	}
}

func TestIncrementOverflowChecked(t *testing.T) {
	c := check(t, `contract C {
		function f() public pure returns (uint8) {
			uint8 a = 255;
			a++;
			return a;
		}
	}`)
	c.expect(t, diag.TypProvableRevert, diag.SevWarning)
	if c.bag.HasErrors() {
		t.Fatalf("unexpected errors: %s", summary(c.bag))
	}
	n := 0
	for _, code := range c.res.Reverts {
		if code != types.PanicOverflow {
			t.Fatalf("revert code = %v, want overflow", code)
		}
		n++
	}
	if n != 1 {
		t.Fatalf("got %d reverting expressions, want 1", n)
	}
	// the value after a reverting increment is unknown
	uses := c.exprs(ast.ExprIdent, "a")
	if _, ok := c.res.ConstValues[uses[len(uses)-1]]; ok {
		t.Fatalf("value of a after overflow should be unknown")
	}
}

func TestIncrementWrapsUnchecked(t *testing.T) {
	c := checkOK(t, `contract C {
		function f() public pure returns (uint8) {
			uint8 a = 255;
			unchecked { a++; }
			return a;
		}
	}`)
	if len(c.res.Reverts) != 0 {
		t.Fatalf("unchecked increment recorded a revert")
	}
	if _, ok := c.find(diag.TypProvableRevert); ok {
		t.Fatalf("unexpected provable revert: %s", summary(c.bag))
	}
	uses := c.exprs(ast.ExprIdent, "a")
	v, ok := c.res.ConstValues[uses[len(uses)-1]]
	if !ok || v.Sign() != 0 {
		t.Fatalf("a after wrap = %v (known %t), want 0", v, ok)
	}
}

func TestConstantOverflowIsError(t *testing.T) {
	c := check(t, `contract C {
		uint8 constant X = 255;
		function f() public pure returns (uint8) { return X + 1; }
	}`)
	c.expect(t, diag.TypProvableRevert, diag.SevError)
}

func TestDivisionByZeroLiteral(t *testing.T) {
	c := check(t, `contract C {
		function f(uint a) public pure returns (uint) { return a / 0; }
	}`)
	c.expect(t, diag.TypDivisionByZero, diag.SevError)
	for _, code := range c.res.Reverts {
		if code != types.PanicDivZero {
			t.Fatalf("revert code = %v, want division by zero", code)
		}
	}
}

func TestConstantCycle(t *testing.T) {
	c := check(t, `contract C {
		uint constant A = B + 1;
		uint constant B = A;
	}`)
	c.expect(t, diag.TypNotConstant, diag.SevError)
}

func TestConstantFolding(t *testing.T) {
	c := checkOK(t, `contract C {
		uint constant A = B * 2;
		uint constant B = 21;
		function f() public pure returns (uint) { return A; }
	}`)
	uses := c.exprs(ast.ExprIdent, "A")
	v, ok := c.res.ConstValues[uses[len(uses)-1]]
	if !ok || v.Int64() != 42 {
		t.Fatalf("A = %v (known %t), want 42", v, ok)
	}
}

func TestConstantNeedsCompileTimeValue(t *testing.T) {
	c := check(t, `contract C {
		uint x;
		uint constant A = x;
	}`)
	c.expect(t, diag.TypNotConstant, diag.SevError)
}

func TestOverloadResolution(t *testing.T) {
	const base = `contract C {
		function g(uint8 x) internal pure returns (uint) { return x; }
		function g(string memory s) internal pure returns (uint) { return bytes(s).length; }
		function g(uint8 x, uint8 y) internal pure returns (uint) { return x + y; }
		function h() public pure returns (uint) { return %s; }
	}`
	tests := []struct {
		name   string
		call   string
		code   diag.Code
		params int
	}{
		{"by type", `g("abc")`, 0, 1},
		{"by arity", "g(1, 2)", 0, 2},
		{"no match", "g(true)", diag.TypNoOverload, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := check(t, strings.Replace(base, "%s", tt.call, 1))
			if tt.code != 0 {
				c.expect(t, tt.code, diag.SevError)
				return
			}
			if c.bag.HasErrors() {
				t.Fatalf("unexpected errors: %s", summary(c.bag))
			}
			calls := c.exprs(ast.ExprCall, "g")
			call, ok := c.res.Calls[calls[len(calls)-1]]
			if !ok || call.Kind != sema.CallFunction {
				t.Fatalf("call not resolved: %+v", call)
			}
			info, ok := c.res.Types.FnInfo(call.Type)
			if !ok || len(info.Params) != tt.params {
				t.Fatalf("selected overload has %d params, want %d", len(info.Params), tt.params)
			}
		})
	}
}

func TestOverloadAmbiguous(t *testing.T) {
	c := check(t, `contract C {
		function g(uint8 x) internal pure returns (uint) { return x; }
		function g(uint16 x) internal pure returns (uint) { return x; }
		function h() public pure returns (uint) { return g(1); }
	}`)
	d := c.expect(t, diag.TypAmbiguousOverload, diag.SevError)
	if len(d.Notes) != 2 {
		t.Fatalf("got %d candidate notes, want 2", len(d.Notes))
	}
}

func TestMissingOverride(t *testing.T) {
	c := check(t, `
	contract A { function f() public virtual {} }
	contract B is A { function f() public {} }`)
	c.expect(t, diag.InhMissingOverride, diag.SevError)
}

func TestDiamondNeedsOverride(t *testing.T) {
	const src = `
	contract A { function f() public virtual {} }
	contract B is A { function f() public virtual override {} }
	contract C is A { function f() public virtual override {} }
	contract D is B, C {}`
	c := check(t, src)
	d := c.expect(t, diag.InhMissingOverride, diag.SevError)
	if got := c.text(src, d.Primary); got != "D" {
		t.Fatalf("reported at %q, want the name of D", got)
	}
	if len(d.Notes) != 2 {
		t.Fatalf("got %d notes, want one per base", len(d.Notes))
	}

	checkOK(t, src[:strings.LastIndex(src, "{}")]+
		"{ function f() public override(B, C) {} }")
}

func TestOverrideRules(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code diag.Code
	}{
		{"nothing to override", `contract A { function f() public override {} }`, diag.InhOverridesNothing},
		{"not virtual", `
			contract A { function f() public {} }
			contract B is A { function f() public override {} }`, diag.InhNonVirtualBase},
		{"visibility change", `
			contract A { function f() public virtual {} }
			contract B is A { function f() internal override {} }`, diag.InhOverrideVisibility},
		{"mutability loosened", `
			contract A { function f() public view virtual returns (uint) { return 1; } }
			contract B is A { uint x; function f() public override returns (uint) { x = 1; return x; } }`, diag.InhOverrideMutability},
		{"return type", `
			contract A { function f() public virtual returns (uint) { return 1; } }
			contract B is A { function f() public override returns (int) { return 1; } }`, diag.InhOverrideReturns},
		{"unimplemented", `
			contract A { function f() public virtual; }`, diag.InhMustBeAbstract},
		{"missing base in list", `
			contract A { function f() public virtual {} }
			contract B { function f() public virtual {} }
			contract C is A, B { function f() public override(A) {} }`, diag.InhMissingOverrideBase},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := check(t, tt.src)
			c.expect(t, tt.code, diag.SevError)
		})
	}
}

func TestOverrideAllowed(t *testing.T) {
	checkOK(t, `
	interface I { function f() external view returns (uint); }
	abstract contract A is I { function g() public virtual; }
	contract B is A {
		uint public x;
		function f() external pure override returns (uint) { return 1; }
		function g() public override {}
	}`)
}

func TestImplicitInterfaceOverride(t *testing.T) {
	const src = `
	interface I { function f() external; }
	contract C is I { function f() external {} }`
	checkOK(t, src)
	c := checkWith(t, config.MustForVersion("0.8.0"), src)
	c.expect(t, diag.InhMissingOverride, diag.SevError)
}

func TestSuperDispatch(t *testing.T) {
	c := checkOK(t, `
	contract A { function f() public virtual returns (uint) { return 1; } }
	contract B is A { function f() public virtual override returns (uint) { return super.f() + 1; } }
	contract C is B { function f() public override returns (uint) { return super.f() * 2; } }`)
	calls := c.exprs(ast.ExprCall, "f")
	if len(calls) != 2 {
		t.Fatalf("found %d calls, want 2", len(calls))
	}
	want := []string{"A", "B"}
	for i, id := range calls {
		call, ok := c.res.Calls[id]
		if !ok {
			t.Fatalf("call %d not resolved", i)
		}
		if got := c.contractOf(call.Target); got != want[i] {
			t.Fatalf("super.f() in %s dispatches to %s, want %s", []string{"B", "C"}[i], got, want[i])
		}
	}
}

func TestMutability(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code diag.Code
	}{
		{"view writes", `contract C { uint x; function f() public view { x = 1; } }`, diag.MutStateWrite},
		{"view emits", `contract C { event E(); function f() public view { emit E(); } }`, diag.MutStateWrite},
		{"pure reads", `contract C { uint x; function f() public pure returns (uint) { return x; } }`, diag.MutStateRead},
		{"pure reads block", `contract C { function f() public pure returns (uint) { return block.number; } }`, diag.MutStateRead},
		{"pure reads this", `contract C { function f() public pure returns (address) { return address(this); } }`, diag.MutStateRead},
		{"pure calls view", `contract C {
			uint x;
			function v() public view returns (uint) { return x; }
			function f() public pure returns (uint) { return v(); } }`, diag.MutCallsLessRestrictive},
		{"msg.value non-payable", `contract C { function f() public returns (uint) { return msg.value; } }`, diag.MutMsgValueNonPayable},
		{"payable internal", `contract C { function f() internal payable {} }`, diag.MutPayableNotAllowed},
		{"receive not payable", `contract C { receive() external {} }`, diag.MutPayableNotAllowed},
		{"value to non-payable", `
			contract D { function g() external {} }
			contract C { function f(D d) public payable { d.g{value: 1}(); } }`, diag.MutValueToNonPayable},
		{"modifier writes", `contract C {
			uint x;
			modifier m() { x = 1; _; }
			function f() public view m {} }`, diag.MutStateWrite},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := check(t, tt.src)
			c.expect(t, tt.code, diag.SevError)
		})
	}
}

func TestMutabilityAllowed(t *testing.T) {
	checkOK(t, `contract C {
		uint x;
		mapping(address => uint) balances;
		function v() public view returns (uint) { return x + balances[msg.sender]; }
		function p(uint a) public pure returns (uint) { uint[] memory m = new uint[](a); m[0] = a; return m[0]; }
		function w() public payable { balances[msg.sender] += msg.value; }
		function lib() internal pure returns (uint) { return 1; }
		function q() public pure returns (uint) { return lib(); }
	}`)
}

func TestVisibility(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code diag.Code
	}{
		{"missing", `contract C { function f() {} }`, diag.VisMissing},
		{"interface public", `interface I { function f() public; }`, diag.VisInterfaceNotExternal},
		{"private virtual", `abstract contract C { function f() private virtual; }`, diag.VisPrivateVirtual},
		{"external called internally", `contract C { function e() external {} function f() public { e(); } }`, diag.VisExternalCalledInternally},
		{"private from derived", `
			contract A { uint private x; }
			contract B is A { function f() public view returns (uint) { return x; } }`, diag.VisNotAccessible},
		{"external state variable", `contract C { uint external x; }`, diag.VisStateVarExternal},
		{"fallback public", `contract C { fallback() public {} }`, diag.VisSpecialMustBeExternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := check(t, tt.src)
			c.expect(t, tt.code, diag.SevError)
		})
	}
}

func TestExternalCallThroughThis(t *testing.T) {
	c := checkOK(t, `contract C { function e() external {} function f() public { this.e(); } }`)
	if c.count(diag.VisExternalCalledInternally) != 0 {
		t.Fatalf("this.e() reported as an internal call")
	}
}

func TestDataLocations(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Config
		src  string
		code diag.Code
	}{
		{"local mapping", config.Default(), `contract C { function f() public { mapping(uint => uint) m; } }`, diag.LocMappingNotStorage},
		{"missing on param", config.Default(), `contract C { function f(uint[] x) public {} }`, diag.LocMissing},
		{"missing on local", config.Default(), `contract C { function f() public { bytes b; } }`, diag.LocMissing},
		{"storage param in public", config.Default(), `contract C { function f(uint[] storage x) public {} }`, diag.LocStorageNotInternal},
		{"calldata in internal", config.MustForVersion("0.6.0"), `contract C { function f(uint[] calldata x) internal {} }`, diag.LocCalldataNotExternal},
		{"on value type", config.Default(), `contract C { function f(uint memory x) public {} }`, diag.LocOnValueType},
		{"memory to storage ref", config.Default(), `contract C {
			uint[] a;
			function f() public { uint[] memory m = new uint[](1); uint[] storage s = a; s = m; } }`, diag.LocMemoryToStorageRef},
		{"write into calldata", config.Default(), `contract C { function f(uint[] calldata x) external { x[0] = 1; } }`, diag.LocCalldataAssign},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := checkWith(t, tt.cfg, tt.src)
			c.expect(t, tt.code, diag.SevError)
		})
	}
}

func TestDataLocationsAllowed(t *testing.T) {
	checkOK(t, `
	library L {
		function push(uint[] storage a, uint v) public { a.push(v); }
	}
	contract C {
		uint[] a;
		mapping(uint => uint) m;
		function f(uint[] calldata x) external returns (uint) {
			mapping(uint => uint) storage r = m;
			uint[] storage s = a;
			uint[] memory copy = x;
			r[1] = copy.length;
			return s.length;
		}
		function g(uint[] storage p) internal view returns (uint) { return p.length; }
	}`)
}

func TestPassesSkippedOnTypeErrors(t *testing.T) {
	c := check(t, `contract C {
		uint x;
		function f() public pure returns (uint) { uint8 y = 300; return x; }
	}`)
	c.expect(t, diag.TypLiteralOutOfRange, diag.SevError)
	if c.count(diag.MutStateRead) != 0 {
		t.Fatalf("mutability pass ran despite type errors: %s", summary(c.bag))
	}
}

func TestInheritedCallsPickMostDerived(t *testing.T) {
	const base = `
	contract A { function f() public virtual returns (uint) { return 1; } }
	contract B is A { function f() public virtual override returns (uint) { return 2; } }
	`
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{"bare and this", base + `
			contract C is B {
				function g() public returns (uint) { return f(); }
				function h() public returns (uint) { return this.f(); }
			}`, []string{"B", "B"}},
		{"inside overrider", `
			contract A { function f() public virtual returns (uint) { return 1; } }
			contract B is A {
				function f() public override returns (uint) { return 2; }
				function g() public returns (uint) { return f(); }
				function h() public returns (uint) { return this.f(); }
			}`, []string{"B", "B"}},
		{"contract instance", base + `
			contract X { function g(B b) public returns (uint) { return b.f(); } }`, []string{"B"}},
		{"interface implementation", `
			interface I { function f() external returns (uint); }
			contract B is I {
				function f() external override returns (uint) { return 1; }
				function g() public returns (uint) { return this.f(); }
			}`, []string{"B"}},
		{"diamond super", `
			contract A { function f() public virtual returns (uint) { return 1; } }
			contract B is A { function f() public virtual override returns (uint) { return 2; } }
			contract C is A { function f() public virtual override returns (uint) { return 3; } }
			contract D is B, C { function f() public override(B, C) returns (uint) { return super.f(); } }`, []string{"B"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := checkOK(t, tt.src)
			calls := c.exprs(ast.ExprCall, "f")
			if len(calls) != len(tt.want) {
				t.Fatalf("found %d calls, want %d", len(calls), len(tt.want))
			}
			for i, id := range calls {
				call, ok := c.res.Calls[id]
				if !ok {
					t.Fatalf("call %d not resolved", i)
				}
				if got := c.contractOf(call.Target); got != tt.want[i] {
					t.Fatalf("call %d dispatches to %s, want %s", i, got, tt.want[i])
				}
			}
		})
	}
}

func TestAssignmentKinds(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		value string
		want  sema.AssignmentKind
	}{
		{"storage ref from state", "uint[] storage r = a;", "a", sema.AliasAssignment},
		{"state from state", "a = b;", "b", sema.AliasAssignment},
		{"memory from storage", "uint[] memory m = a;", "a", sema.CopyAssignment},
		{"state from memory", "a = mm;", "mm", sema.CopyAssignment},
		{"memory from memory", "uint[] memory m = mm;", "mm", sema.CopyAssignment},
		{"memory from calldata", "uint[] memory m = cd;", "cd", sema.CopyAssignment},
		{"state from calldata", "a = cd;", "cd", sema.CopyAssignment},
		{"calldata from calldata", "uint[] calldata k = cd;", "cd", sema.CopyAssignment},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := checkOK(t, `contract C {
				uint[] a;
				uint[] b;
				function f(uint[] calldata cd, uint[] memory mm) external { `+tt.body+` }
			}`)
			var kinds []sema.AssignmentKind
			for _, id := range c.exprs(ast.ExprIdent, tt.value) {
				if k, ok := c.res.Assignments[id]; ok {
					kinds = append(kinds, k)
				}
			}
			if len(kinds) != 1 {
				t.Fatalf("got %d classified uses of %s, want 1", len(kinds), tt.value)
			}
			if kinds[0] != tt.want {
				t.Fatalf("assignment from %s classified as %v, want %v", tt.value, kinds[0], tt.want)
			}
		})
	}
}

func TestBuiltinMutationInView(t *testing.T) {
	c := check(t, `contract C { uint[] r; function f() public view { r.push(1); } }`)
	d := c.expect(t, diag.MutCallsLessRestrictive, diag.SevError)
	if !strings.Contains(d.Message, "modifies state through 'push'") {
		t.Fatalf("message %q does not name the member", d.Message)
	}
}
