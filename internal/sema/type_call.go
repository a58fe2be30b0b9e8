package sema

import (
	"math/big"
	"slices"
	"strings"

	"solfront/internal/ast"
	"solfront/internal/diag"
	"solfront/internal/source"
	"solfront/internal/symbols"
	"solfront/internal/types"
)

// typeCall resolves a call to exactly one callable: a function overload, a
// builtin, an explicit conversion, a struct constructor, a creation, an
// event or an error.
func (tc *typeChecker) typeCall(id ast.ExprID, call *ast.CallExpr) types.TypeID {
	emitting, reverting := tc.emitting, tc.reverting
	tc.emitting, tc.reverting = false, false

	callee := call.Callee
	var opts *ast.CallOptionsExpr
	optsID := ast.NoExprID
	if o, ok := tc.b.Exprs.CallOptions(callee); ok {
		opts, optsID = o, callee
		callee = o.Callee
	}

	cands, ct := tc.calleeCandidates(callee)
	args := make([]types.TypeID, len(call.Args))
	failed := false
	for i, a := range call.Args {
		args[i] = tc.typeExpr(a)
		failed = failed || tc.types.IsError(args[i])
	}
	if opts != nil {
		for _, v := range opts.Values {
			tc.typeExpr(v)
		}
	}

	if len(cands) == 0 {
		if tc.types.IsError(ct) {
			return ct
		}
		switch tc.types.KindOf(ct) {
		case types.KindTypeType:
			if opts != nil {
				tc.report(diag.TypBadCallOptions, tc.exprSpan(optsID), "call options are not allowed on conversions")
			}
			return tc.typeConstruction(id, call, ct, args)
		case types.KindFunction:
			cands = []candidate{{sym: tc.syms.ExprSymbols[callee], typ: ct}}
		default:
			tc.report(diag.TypNotCallable, tc.exprSpan(callee), "'%s' is not callable", tc.label(ct))
			return tc.builtins.Error
		}
	}
	if failed {
		return tc.builtins.Error
	}

	chosen, exprs, argTypes, ok := tc.selectOverload(id, call, callee, cands, args)
	if !ok {
		return tc.builtins.Error
	}
	info, _ := tc.types.FnInfo(chosen.typ)
	tc.result.ExprTypes[callee] = chosen.typ
	if _, isMember := tc.b.Exprs.Member(callee); isMember && chosen.sym.IsValid() {
		tc.result.MemberSymbols[callee] = chosen.sym
	}
	if chosen.unrelated {
		tc.report(diag.TypNotCallable, tc.exprSpan(callee),
			"'%s' belongs to an unrelated contract and cannot be called here", tc.symbolName(chosen.sym))
		return tc.builtins.Error
	}
	if !info.Variadic {
		for i, e := range exprs {
			tc.coerce(e, argTypes[i], info.Params[i])
		}
	}

	kind := CallFunction
	switch info.Kind {
	case types.FnBuiltin:
		kind = CallBuiltin
	case types.FnStructCtor:
		kind = CallStructCtor
	case types.FnCreation:
		kind = CallCreation
	case types.FnEvent:
		kind = CallEvent
	case types.FnError:
		kind = CallError
	}
	switch {
	case kind == CallEvent && !emitting:
		tc.report(diag.TypEmitNotEvent, tc.exprSpan(id), "event '%s' can only be used in an emit statement", tc.symbolName(chosen.sym))
	case emitting && kind != CallEvent:
		tc.report(diag.TypEmitNotEvent, tc.exprSpan(callee), "emit requires an event, not a %s", kind)
	case kind == CallError && !reverting:
		tc.report(diag.TypRevertNotError, tc.exprSpan(id), "error '%s' can only be raised with a revert statement", tc.symbolName(chosen.sym))
	case reverting && kind != CallError:
		tc.report(diag.TypRevertNotError, tc.exprSpan(callee), "revert requires an error, not a %s", kind)
	}
	if opts != nil {
		tc.checkCallOptions(optsID, opts, chosen.typ)
	}
	tc.result.Calls[id] = Call{Kind: kind, Target: chosen.sym, Type: chosen.typ}

	if tc.isAbiDecode(callee) {
		return tc.abiDecodeResult(call)
	}
	return tc.types.ReturnType(info)
}

// calleeCandidates returns the overload set a callee names, or its type when
// it names a single thing.
func (tc *typeChecker) calleeCandidates(callee ast.ExprID) ([]candidate, types.TypeID) {
	ex := tc.b.Exprs.Get(callee)
	if ex == nil {
		return nil, tc.builtins.Error
	}
	switch ex.Kind {
	case ast.ExprIdent:
		ids := tc.visibleOverloads(tc.syms.Overloads[callee])
		if len(ids) < 2 {
			break
		}
		cands := make([]candidate, 0, len(ids))
		for _, s := range ids {
			cands = append(cands, candidate{sym: s, typ: tc.symbolType(s)})
		}
		return cands, types.NoTypeID
	case ast.ExprMember:
		if _, typed := tc.result.ExprTypes[callee]; typed {
			break
		}
		m, _ := tc.b.Exprs.Member(callee)
		cands, t := tc.members(callee, m)
		if len(cands) > 0 {
			return cands, types.NoTypeID
		}
		if t == types.NoTypeID {
			t = tc.builtins.Error
		}
		tc.result.ExprTypes[callee] = t
		return nil, t
	}
	return nil, tc.typeExpr(callee)
}

// selectOverload picks the candidate the arguments select. It returns the
// argument expressions and types in parameter order.
func (tc *typeChecker) selectOverload(id ast.ExprID, call *ast.CallExpr, callee ast.ExprID, cands []candidate, args []types.TypeID) (candidate, []ast.ExprID, []types.TypeID, bool) {
	if call.Named {
		return tc.selectNamed(id, call, callee, cands, args)
	}
	list := make([]types.Candidate, len(cands))
	for i, c := range cands {
		if info, ok := tc.types.FnInfo(c.typ); ok {
			list[i] = types.Candidate{Params: info.Params, Variadic: info.Variadic}
		} else {
			// never viable
			list[i] = types.Candidate{Params: make([]types.TypeID, len(args)+1)}
		}
	}
	idx, status, viable := tc.types.ResolveOverload(list, args)
	switch status {
	case types.OverloadOK:
		return cands[idx], call.Args, args, true
	case types.OverloadAmbiguous:
		tc.reportAmbiguous(id, callee, cands, viable)
		return candidate{}, nil, nil, false
	}
	if len(cands) == 1 {
		tc.explainMismatch(id, callee, cands[0], call.Args, args)
		return candidate{}, nil, nil, false
	}
	tc.report(diag.TypNoOverload, tc.exprSpan(id), "no overload of %s accepts arguments (%s)",
		tc.calleeName(callee, cands[0]), tc.typeList(args))
	return candidate{}, nil, nil, false
}

// selectNamed resolves `f({a: x, b: y})`: candidates whose parameter names
// match the argument names exactly are checked with the reordered arguments.
func (tc *typeChecker) selectNamed(id ast.ExprID, call *ast.CallExpr, callee ast.ExprID, cands []candidate, args []types.TypeID) (candidate, []ast.ExprID, []types.TypeID, bool) {
	type shaped struct {
		c     candidate
		exprs []ast.ExprID
		args  []types.TypeID
	}
	var named, viable []shaped
	for _, c := range cands {
		info, ok := tc.types.FnInfo(c.typ)
		if !ok || info.Variadic {
			continue
		}
		exprs, ts, ok := tc.namedArgs(c, info, call, args)
		if !ok {
			continue
		}
		s := shaped{c: c, exprs: exprs, args: ts}
		named = append(named, s)
		if _, st, _ := tc.types.ResolveOverload([]types.Candidate{{Params: info.Params}}, ts); st == types.OverloadOK {
			viable = append(viable, s)
		}
	}
	switch {
	case len(viable) == 1:
		return viable[0].c, viable[0].exprs, viable[0].args, true
	case len(viable) > 1:
		tc.report(diag.TypAmbiguousOverload, tc.exprSpan(id), "call to %s is ambiguous", tc.calleeName(callee, cands[0]))
	case len(named) == 1:
		tc.explainMismatch(id, callee, named[0].c, named[0].exprs, named[0].args)
	default:
		tc.report(diag.TypNoOverload, tc.exprSpan(id), "no declaration of %s has parameters named %s",
			tc.calleeName(callee, cands[0]), tc.nameList(call.Names))
	}
	return candidate{}, nil, nil, false
}

func (tc *typeChecker) namedArgs(c candidate, info *types.FnInfo, call *ast.CallExpr, args []types.TypeID) ([]ast.ExprID, []types.TypeID, bool) {
	names := tc.paramNames(c.sym)
	if info.Bound && len(names) > 0 {
		names = names[1:]
	}
	n := len(info.Params)
	if len(names) != n || len(call.Names) != n {
		return nil, nil, false
	}
	exprs := make([]ast.ExprID, n)
	ts := make([]types.TypeID, n)
	for i, name := range call.Names {
		j := slices.Index(names, name)
		if j < 0 || exprs[j].IsValid() {
			return nil, nil, false
		}
		exprs[j], ts[j] = call.Args[i], args[i]
	}
	return exprs, ts, true
}

// paramNames lists the parameter names of a declaration in order.
func (tc *typeChecker) paramNames(sid symbols.SymbolID) []source.StringID {
	sym := tc.symbol(sid)
	if sym == nil {
		return nil
	}
	var params []ast.Param
	switch sym.Kind {
	case symbols.SymbolFunction:
		fn, _ := tc.b.Items.Function(sym.Decl.Item)
		params = fn.Params
	case symbols.SymbolEvent:
		ev, _ := tc.b.Items.Event(sym.Decl.Item)
		params = ev.Params
	case symbols.SymbolError:
		e, _ := tc.b.Items.Error(sym.Decl.Item)
		params = e.Params
	default:
		return nil
	}
	out := make([]source.StringID, len(params))
	for i, p := range params {
		out[i] = p.Name
	}
	return out
}

// explainMismatch reports why the only candidate does not accept the arguments.
func (tc *typeChecker) explainMismatch(id, callee ast.ExprID, c candidate, exprs []ast.ExprID, args []types.TypeID) {
	info, ok := tc.types.FnInfo(c.typ)
	if !ok {
		tc.report(diag.TypNotCallable, tc.exprSpan(callee), "'%s' is not callable", tc.label(c.typ))
		return
	}
	if len(args) != len(info.Params) {
		tc.report(diag.TypArgCount, tc.exprSpan(id), "%s expects %d arguments, got %d",
			tc.calleeName(callee, c), len(info.Params), len(args))
		return
	}
	for i, e := range exprs {
		tc.coerce(e, args[i], info.Params[i])
	}
}

func (tc *typeChecker) reportAmbiguous(id, callee ast.ExprID, cands []candidate, viable []int) {
	rb := diag.ReportError(tc.reporter, diag.TypAmbiguousOverload, tc.exprSpan(id),
		"call to "+tc.calleeName(callee, cands[0])+" is ambiguous")
	for _, i := range viable {
		if sym := tc.symbol(cands[i].sym); sym != nil && !sym.Span.Empty() {
			rb = rb.WithNote(sym.Span, "candidate "+tc.label(cands[i].typ))
		}
	}
	rb.Emit()
}

func (tc *typeChecker) calleeName(callee ast.ExprID, c candidate) string {
	if c.sym.IsValid() {
		return "'" + tc.symbolName(c.sym) + "'"
	}
	if m, ok := tc.b.Exprs.Member(callee); ok {
		return "'" + tc.b.Name(m.Name) + "'"
	}
	return "function of type '" + tc.label(c.typ) + "'"
}

func (tc *typeChecker) typeList(ts []types.TypeID) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = tc.label(t)
	}
	return strings.Join(parts, ", ")
}

func (tc *typeChecker) nameList(names []source.StringID) string {
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = tc.b.Name(n)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// typeConstruction types `T(x)` where T names a type: a struct constructor or
// an explicit conversion.
func (tc *typeChecker) typeConstruction(id ast.ExprID, call *ast.CallExpr, ct types.TypeID, args []types.TypeID) types.TypeID {
	target := tc.types.MustLookup(ct).Elem
	if tc.types.KindOf(tc.types.StripLocation(target)) == types.KindStruct {
		return tc.typeStructCtor(id, call, tc.types.WithLocation(target, ast.LocMemory), args)
	}
	if call.Named {
		tc.report(diag.TypBadConversion, tc.exprSpan(id), "conversions do not take named arguments")
		return tc.builtins.Error
	}
	if len(args) != 1 {
		tc.report(diag.TypArgCount, tc.exprSpan(id), "conversion to '%s' expects 1 argument, got %d", tc.label(target), len(args))
		return tc.builtins.Error
	}
	arg, from := call.Args[0], args[0]
	if tc.types.IsError(from) {
		return from
	}
	to := target
	if tc.types.IsReference(to) && tc.types.IsReference(from) {
		to = tc.types.WithLocation(to, tc.types.LocationOf(from))
	}
	tc.result.Calls[id] = Call{Kind: CallConversion, Type: to}

	v, known := tc.value(arg)
	if tc.types.KindOf(to) == types.KindEnum && known && tc.types.IsInteger(tc.types.Mobile(from)) {
		info, _ := tc.types.Nominal(to)
		if v.Sign() < 0 || v.Cmp(big.NewInt(int64(len(info.Members)))) >= 0 {
			tc.result.Reverts[id] = types.PanicEnum
			if tc.isCompileTime(arg) {
				tc.report(diag.TypEnumOutOfRange, tc.exprSpan(id), "value %s is out of range for enum '%s' with %d members", v, info.Name, len(info.Members))
				return tc.builtins.Error
			}
			tc.warn(diag.TypEnumOutOfRange, tc.exprSpan(id), "value is always %s here, out of range for enum '%s'", v, info.Name)
			return to
		}
		tc.result.ConstValues[id] = v
		tc.compileTime[id] = tc.isCompileTime(arg)
		return to
	}
	if !tc.types.ExplicitlyConvertible(from, to) {
		tc.report(diag.TypBadConversion, tc.exprSpan(id), "cannot convert '%s' to '%s'", tc.label(from), tc.label(to))
		return tc.builtins.Error
	}
	if known && tc.types.IsInteger(to) {
		tt := tc.types.MustLookup(to)
		tc.result.ConstValues[id] = types.WrapInt(v, tt.Bits, tt.Signed)
		tc.compileTime[id] = tc.isCompileTime(arg)
	}
	return to
}

// typeStructCtor types `S(a, b)` and `S({x: a, y: b})`. Fields holding
// mappings are skipped.
func (tc *typeChecker) typeStructCtor(id ast.ExprID, call *ast.CallExpr, st types.TypeID, args []types.TypeID) types.TypeID {
	info, _ := tc.types.Nominal(st)
	var params []types.TypeID
	var names []string
	for _, f := range info.Fields {
		if tc.types.ContainsMapping(f.Type) {
			continue
		}
		params = append(params, tc.types.WithLocation(f.Type, ast.LocMemory))
		names = append(names, f.Name)
	}
	fnType := tc.types.RegisterFn(types.FnInfo{
		Kind:       types.FnStructCtor,
		Params:     params,
		Returns:    []types.TypeID{st},
		Mutability: ast.MutPure,
	})
	tc.result.Calls[id] = Call{Kind: CallStructCtor, Target: tc.structSymbol(info.Decl), Type: fnType}
	if len(args) != len(params) {
		tc.report(diag.TypArgCount, tc.exprSpan(id), "struct '%s' has %d settable members, got %d arguments", info.Name, len(params), len(args))
		return st
	}
	exprs, ts := call.Args, args
	if call.Named {
		exprs = make([]ast.ExprID, len(params))
		ts = make([]types.TypeID, len(params))
		for i, n := range call.Names {
			j := slices.Index(names, tc.b.Name(n))
			if j < 0 || exprs[j].IsValid() {
				tc.report(diag.TypNoMember, tc.exprSpan(call.Args[i]), "struct '%s' has no settable member '%s'", info.Name, tc.b.Name(n))
				return st
			}
			exprs[j], ts[j] = call.Args[i], args[i]
		}
	}
	for i, e := range exprs {
		if tc.coerce(e, ts[i], params[i]) {
			tc.recordAssignment(e, params[i], ts[i])
		}
	}
	return st
}

func (tc *typeChecker) structSymbol(decl ast.ItemID) symbols.SymbolID {
	return tc.syms.ItemSymbols[decl]
}

// checkCallOptions validates `{value: v, gas: g, salt: s}` on an external
// call or a contract creation.
func (tc *typeChecker) checkCallOptions(optsID ast.ExprID, opts *ast.CallOptionsExpr, fnType types.TypeID) {
	tc.result.ExprTypes[optsID] = fnType
	info, _ := tc.types.FnInfo(fnType)
	creation := info.Kind == types.FnCreation && len(info.Returns) == 1 && tc.types.KindOf(info.Returns[0]) == types.KindContract
	if info.Kind != types.FnExternal && !creation {
		tc.report(diag.TypBadCallOptions, tc.exprSpan(optsID), "call options are only allowed on external calls and contract creation")
		return
	}
	seen := make(map[string]bool, len(opts.Names))
	for i, n := range opts.Names {
		name := tc.b.Name(n)
		if seen[name] {
			tc.report(diag.TypBadCallOptions, opts.Spans[i], "option '%s' is set more than once", name)
			continue
		}
		seen[name] = true
		v := opts.Values[i]
		switch {
		case name == "value", name == "gas" && !creation:
			tc.coerce(v, tc.result.ExprTypes[v], tc.builtins.Uint256)
		case name == "salt" && creation:
			tc.coerce(v, tc.result.ExprTypes[v], tc.builtins.Bytes32)
		default:
			tc.report(diag.TypBadCallOptions, opts.Spans[i], "unknown call option '%s'", name)
		}
	}
}

func (tc *typeChecker) isAbiDecode(callee ast.ExprID) bool {
	m, ok := tc.b.Exprs.Member(callee)
	if !ok || tc.b.Name(m.Name) != "decode" {
		return false
	}
	tt, _ := tc.types.Lookup(tc.result.ExprTypes[m.Target])
	return tt.Kind == types.KindMagic && types.MagicKind(tt.Payload) == types.MagicAbi
}

// abiDecodeResult types `abi.decode(data, (T1, T2))` from its type list.
func (tc *typeChecker) abiDecodeResult(call *ast.CallExpr) types.TypeID {
	if len(call.Args) != 2 {
		tc.report(diag.TypArgCount, tc.exprSpan(call.Callee), "abi.decode expects data and a type list")
		return tc.builtins.Error
	}
	tc.coerce(call.Args[0], tc.result.ExprTypes[call.Args[0]], tc.builtins.BytesMemory)
	elems := []ast.ExprID{call.Args[1]}
	if tup, ok := tc.b.Exprs.Tuple(call.Args[1]); ok {
		elems = tup.Elems
	}
	out := make([]types.TypeID, 0, len(elems))
	for _, e := range elems {
		tt, _ := tc.types.Lookup(tc.result.ExprTypes[e])
		if tt.Kind != types.KindTypeType {
			tc.report(diag.TypNotAType, tc.exprSpan(e), "abi.decode expects type names")
			return tc.builtins.Error
		}
		out = append(out, tc.types.WithLocation(tt.Elem, ast.LocMemory))
	}
	if len(out) == 1 {
		return out[0]
	}
	return tc.types.RegisterTuple(out)
}

// constValue checks the initializer of constant state variable item on first
// use and returns its integer value when it has one. A constant whose
// initializer depends on itself is reported at span.
func (tc *typeChecker) constValue(item ast.ItemID, span source.Span) (*big.Int, bool) {
	v, ok := tc.b.Items.Variable(item)
	if !ok || !v.Constant {
		return nil, false
	}
	switch tc.constState[item] {
	case constDone:
		if !v.Value.IsValid() {
			return nil, false
		}
		return tc.value(v.Value)
	case constEvaluating:
		tc.report(diag.TypNotConstant, span, "constant '%s' is defined in terms of itself", tc.b.Name(v.Name))
		return nil, false
	}
	tc.constState[item] = constEvaluating

	file, contract, fn := tc.file, tc.contract, tc.fn
	emitting, reverting := tc.emitting, tc.reverting
	tc.file, tc.contract, tc.fn = tc.syms.ItemFiles[item], tc.syms.Owners[item], nil
	tc.emitting, tc.reverting = false, false
	tc.checkConstInit(item, v)
	tc.file, tc.contract, tc.fn = file, contract, fn
	tc.emitting, tc.reverting = emitting, reverting

	tc.constState[item] = constDone
	if !v.Value.IsValid() {
		return nil, false
	}
	return tc.value(v.Value)
}

func (tc *typeChecker) checkConstInit(item ast.ItemID, v *ast.VariableDecl) {
	if !v.Value.IsValid() {
		tc.report(diag.TypNotConstant, v.NameSpan, "constant '%s' must be initialized", tc.b.Name(v.Name))
		return
	}
	target := tc.symbolType(tc.syms.ItemSymbols[item])
	vt := tc.typeExpr(v.Value)
	if tc.types.IsError(vt) || tc.types.IsError(target) {
		return
	}
	if !tc.coerce(v.Value, vt, target) {
		return
	}
	if at, ok := tc.runtimeValue(v.Value); ok {
		tc.report(diag.TypNotConstant, at, "initializer of constant '%s' is not a compile-time constant", tc.b.Name(v.Name))
	}
}

// runtimeValue finds the first subexpression of expr that depends on
// variables or on the execution environment.
func (tc *typeChecker) runtimeValue(expr ast.ExprID) (source.Span, bool) {
	var at source.Span
	found := false
	tc.b.InspectExpr(expr, func(x ast.ExprID) bool {
		if found {
			return false
		}
		if sym := tc.symbol(tc.syms.ExprSymbols[x]); sym != nil {
			switch {
			case sym.Kind == symbols.SymbolStateVar && sym.Flags&symbols.SymbolFlagConstant == 0,
				sym.Kind == symbols.SymbolLocal, sym.Kind == symbols.SymbolParam,
				tc.table.IsBuiltinNamed(tc.syms.ExprSymbols[x], symbols.ThisName):
				found = true
			}
		}
		if c, ok := tc.result.Calls[x]; ok && c.Kind != CallConversion && c.Kind != CallStructCtor {
			if info, ok := tc.types.FnInfo(c.Type); ok && info.Mutability != ast.MutPure {
				found = true
			}
		}
		if m, ok := tc.b.Exprs.Member(x); ok {
			if mm, ok := tc.types.MagicMemberOf(tc.result.ExprTypes[m.Target], tc.b.Name(m.Name)); ok && mm.ReadsState {
				found = true
			}
		}
		if found {
			at = tc.exprSpan(x)
		}
		return !found
	})
	return at, found
}

// visibleOverloads drops functions that a declaration earlier in ids
// overrides. ids come most derived first, as contract lookups return them.
func (tc *typeChecker) visibleOverloads(ids []symbols.SymbolID) []symbols.SymbolID {
	if len(ids) < 2 {
		return ids
	}
	out := make([]symbols.SymbolID, 0, len(ids))
	for _, s := range ids {
		if !tc.overriddenIn(out, s) {
			out = append(out, s)
		}
	}
	return out
}

// overriddenIn reports whether a function in kept occupies the slot of s
// from a contract deriving from the one declaring s.
func (tc *typeChecker) overriddenIn(kept []symbols.SymbolID, s symbols.SymbolID) bool {
	sym := tc.symbol(s)
	if sym == nil || sym.Kind != symbols.SymbolFunction || !sym.Contract.IsValid() {
		return false
	}
	key := tc.paramKey(tc.symbolType(s))
	for _, k := range kept {
		ks := tc.symbol(k)
		if ks == nil || ks.Kind != symbols.SymbolFunction || !ks.Contract.IsValid() || ks.Contract == sym.Contract {
			continue
		}
		if !slices.Contains(tc.syms.Order(ks.Contract), sym.Contract) {
			continue
		}
		if tc.paramKey(tc.symbolType(k)) == key {
			return true
		}
	}
	return false
}
