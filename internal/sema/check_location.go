package sema

import (
	"solfront/internal/ast"
	"solfront/internal/config"
	"solfront/internal/diag"
	"solfront/internal/source"
)

// checkDataLocations checks the locations written on parameters, state
// variables and locals, and assignments that would need a different one.
func (tc *typeChecker) checkDataLocations() {
	tc.walkItems(func(id ast.ItemID, item *ast.Item) {
		switch item.Kind {
		case ast.ItemFunction:
			fn, _ := tc.b.Items.Function(id)
			ctx := tc.paramContext(fn)
			for _, p := range fn.Params {
				tc.checkParamLocation(p, ctx)
			}
			for _, p := range fn.Returns {
				tc.checkParamLocation(p, ctx)
			}
			if fn.Body.IsValid() {
				tc.checkBodyLocations(fn.Body)
			}
		case ast.ItemModifier:
			m, _ := tc.b.Items.Modifier(id)
			ctx := paramContext{internal: true, calldata: tc.cfg.Has(config.CalldataAnywhere)}
			for _, p := range m.Params {
				tc.checkParamLocation(p, ctx)
			}
			tc.checkBodyLocations(m.Body)
		case ast.ItemVariable:
			v, _ := tc.b.Items.Variable(id)
			if v.Location != ast.LocNone {
				tc.passError(diag.LocOnStateVariable, tc.typeSpan(v.Type),
					"state variable '%s' cannot have a data location", tc.b.Name(v.Name)).Emit()
			}
			if v.Constant && tc.types.ContainsMapping(tc.resolveType(v.Type, ast.LocNone)) {
				tc.passError(diag.LocMappingNotStorage, tc.typeSpan(v.Type),
					"constant '%s' cannot hold a mapping", tc.b.Name(v.Name)).Emit()
			}
		}
	})
}

// paramContext says which locations the parameters of a function may use.
type paramContext struct {
	// internal allows storage.
	internal bool
	calldata bool
	what     string
}

func (tc *typeChecker) paramContext(fn *ast.FunctionDecl) paramContext {
	library := tc.contractKind(tc.contract) == ast.ContractLibrary
	ctx := paramContext{calldata: tc.cfg.Has(config.CalldataAnywhere), what: fn.Visibility.String()}
	switch fn.Visibility {
	case ast.VisInternal, ast.VisPrivate:
		ctx.internal = true
	case ast.VisDefault:
		ctx.internal = !tc.contract.IsValid()
		ctx.what = "public"
	}
	if library {
		// library functions are called by delegatecall and may take storage references
		ctx.internal = true
	}
	if fn.Visibility == ast.VisExternal {
		ctx.calldata = true
	}
	return ctx
}

func (tc *typeChecker) checkParamLocation(p ast.Param, ctx paramContext) {
	t := tc.resolveType(p.Type, ast.LocNone)
	span := p.Span
	if tc.types.IsError(t) {
		return
	}
	if !tc.types.IsReference(t) {
		if p.Location != ast.LocNone {
			tc.passError(diag.LocOnValueType, span, "data location %s is only allowed on reference types, not '%s'", p.Location, tc.label(t)).Emit()
		}
		return
	}
	if tc.types.ContainsMapping(t) && p.Location != ast.LocStorage {
		tc.passError(diag.LocMappingNotStorage, span, "'%s' contains a mapping and must be in storage", tc.label(t)).Emit()
		return
	}
	switch p.Location {
	case ast.LocNone:
		tc.passError(diag.LocMissing, span, "parameter of type '%s' needs a data location", tc.label(t)).
			WithNote(span, "add memory, calldata or storage").Emit()
	case ast.LocStorage:
		if !ctx.internal {
			tc.passError(diag.LocStorageNotInternal, span, "storage parameters are only allowed in internal, private or library functions, not %s", ctx.what).Emit()
		}
	case ast.LocCalldata:
		if !ctx.calldata {
			tc.passError(diag.LocCalldataNotExternal, span, "calldata parameters are only allowed in external functions").Emit()
		}
	}
}

func (tc *typeChecker) checkBodyLocations(body ast.StmtID) {
	tc.b.InspectStmt(body, ast.StmtVisitor{
		Stmt: func(s ast.StmtID) bool {
			if d, ok := tc.b.Stmts.VarDecl(s); ok {
				tc.checkLocalLocations(d)
			}
			if t, ok := tc.b.Stmts.Try(s); ok {
				ctx := paramContext{internal: true, calldata: tc.cfg.Has(config.CalldataAnywhere)}
				for _, p := range t.Returns {
					tc.checkParamLocation(p, ctx)
				}
				for _, c := range t.Catches {
					for _, p := range c.Params {
						tc.checkParamLocation(p, ctx)
					}
				}
			}
			return true
		},
		Expr: func(e ast.ExprID) {
			tc.b.InspectExpr(e, func(x ast.ExprID) bool {
				switch ex := tc.b.Exprs.Get(x); ex.Kind {
				case ast.ExprAssign:
					a, _ := tc.b.Exprs.Assign(x)
					tc.checkAssignLocation(a)
				case ast.ExprSlice:
					s, _ := tc.b.Exprs.Slice(x)
					if tc.types.LocationOf(tc.result.ExprTypes[s.Target]) == ast.LocStorage {
						tc.passError(diag.LocStorageSlice, ex.Span, "storage arrays cannot be sliced").Emit()
					}
				}
				return true
			})
		},
	})
}

func (tc *typeChecker) checkLocalLocations(d *ast.VarDeclStmt) {
	for _, slot := range d.Vars {
		if slot.Empty() {
			continue
		}
		t := tc.resolveType(slot.Type, ast.LocNone)
		if tc.types.IsError(t) {
			continue
		}
		if !tc.types.IsReference(t) {
			if slot.Location != ast.LocNone {
				tc.passError(diag.LocOnValueType, slot.Span, "data location %s is only allowed on reference types, not '%s'", slot.Location, tc.label(t)).Emit()
			}
			continue
		}
		if tc.types.ContainsMapping(t) && slot.Location != ast.LocStorage {
			tc.passError(diag.LocMappingNotStorage, slot.Span, "local '%s' contains a mapping and must be a storage reference", tc.b.Name(slot.Name)).Emit()
			continue
		}
		if slot.Location == ast.LocNone {
			tc.passError(diag.LocMissing, slot.Span, "local '%s' of type '%s' needs a data location", tc.b.Name(slot.Name), tc.label(t)).
				WithNote(slot.Span, "add memory, calldata or storage").Emit()
			continue
		}
		if d.Tuple || len(d.Vars) != 1 || !d.Value.IsValid() {
			continue
		}
		tc.checkRefInit(slot.Location, slot.Span, d.Value)
	}
}

// checkRefInit checks that a storage or calldata reference is initialised
// from a value living in the same location.
func (tc *typeChecker) checkRefInit(loc ast.DataLocation, span source.Span, value ast.ExprID) {
	vt := tc.result.ExprTypes[value]
	if !tc.types.IsReference(vt) {
		return
	}
	from := tc.types.LocationOf(vt)
	switch {
	case loc == ast.LocStorage && from != ast.LocStorage:
		tc.passError(diag.LocMemoryToStorageRef, tc.exprSpan(value),
			"a storage reference cannot point to a %s value", from).
			WithNote(span, "declared as a storage reference here").Emit()
	case loc == ast.LocCalldata && from != ast.LocCalldata:
		tc.passError(diag.LocCalldataAssign, tc.exprSpan(value),
			"a calldata reference can only be initialized from calldata, not %s", from).Emit()
	}
}

// checkAssignLocation reports writes into calldata and memory values
// assigned to local storage references.
func (tc *typeChecker) checkAssignLocation(a *ast.AssignExpr) {
	tt := tc.result.ExprTypes[a.Target]
	if tc.writesCalldata(a.Target) {
		tc.passError(diag.LocCalldataAssign, tc.exprSpan(a.Target), "calldata is read-only").Emit()
		return
	}
	sid, ok := tc.localSymbol(a.Target)
	if !ok || !tc.types.IsReference(tt) {
		return
	}
	if sym := tc.symbol(sid); sym != nil && (sym.Location == ast.LocStorage || sym.Location == ast.LocCalldata) {
		tc.checkRefInit(sym.Location, sym.Span, a.Value)
	}
}

// writesCalldata reports assignments into an element or member of a calldata value.
func (tc *typeChecker) writesCalldata(target ast.ExprID) bool {
	var base ast.ExprID
	if m, ok := tc.b.Exprs.Member(target); ok {
		base = m.Target
	} else if ix, ok := tc.b.Exprs.Index(target); ok {
		base = ix.Target
	} else {
		return false
	}
	bt := tc.result.ExprTypes[base]
	return tc.types.IsReference(bt) && tc.types.LocationOf(bt) == ast.LocCalldata
}
