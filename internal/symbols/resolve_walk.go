package symbols

import (
	"fmt"
	"strings"

	"solfront/internal/ast"
	"solfront/internal/diag"
	"solfront/internal/source"
)

func (r *Resolver) walkFile(fid ast.FileID) {
	file := r.b.Files.Get(fid)
	if file == nil {
		return
	}
	r.file = fid
	scope := r.res.FileScopes[fid]
	r.Push(scope)
	for _, item := range file.Items {
		r.walkItem(item)
	}
	r.Leave(scope)
}

func (r *Resolver) walkItem(id ast.ItemID) {
	item := r.b.Items.Get(id)
	if item == nil {
		return
	}
	switch item.Kind {
	case ast.ItemContract:
		c, _ := r.b.Items.Contract(id)
		scope := r.res.ContractScopes[id]
		r.Push(scope)
		prev := r.contract
		r.contract = id
		for _, spec := range c.Bases {
			r.resolveExprs(spec.Args)
		}
		for _, m := range c.Members {
			r.walkItem(m)
		}
		r.contract = prev
		r.Leave(scope)
	case ast.ItemFunction:
		r.walkFunction(id)
	case ast.ItemModifier:
		r.walkModifier(id)
	case ast.ItemEvent:
		ev, _ := r.b.Items.Event(id)
		r.resolveParamTypes(ev.Params)
	case ast.ItemError:
		e, _ := r.b.Items.Error(id)
		r.resolveParamTypes(e.Params)
	case ast.ItemVariable:
		v, _ := r.b.Items.Variable(id)
		r.resolveType(v.Type)
		r.resolveOverrideBases(id, v.Override)
		r.resolveExpr(v.Value)
	case ast.ItemStruct:
		s, _ := r.b.Items.Struct(id)
		seen := make(map[source.StringID]source.Span, len(s.Fields))
		for _, f := range s.Fields {
			r.resolveType(f.Type)
			if prev, dup := seen[f.Name]; dup {
				r.reportDuplicate(f.Name, f.NameSpan, prev)
				continue
			}
			seen[f.Name] = f.NameSpan
		}
	case ast.ItemEnum:
		e, _ := r.b.Items.Enum(id)
		seen := make(map[source.StringID]source.Span, len(e.Members))
		for _, m := range e.Members {
			if prev, dup := seen[m.Name]; dup {
				r.reportDuplicate(m.Name, m.Span, prev)
				continue
			}
			seen[m.Name] = m.Span
		}
	case ast.ItemUDVT:
		u, _ := r.b.Items.UDVT(id)
		r.resolveType(u.Underlying)
	case ast.ItemUsing:
		r.walkUsing(id)
	}
}

func (r *Resolver) walkFunction(id ast.ItemID) {
	fn, _ := r.b.Items.Function(id)
	r.resolveOverrideBases(id, fn.Override)
	scope := r.Enter(ScopeFunction, ScopeOwner{File: r.file, Item: id}, r.b.Items.Get(id).Span)
	r.res.FunctionScopes[id] = scope
	owner := SymbolDecl{File: r.file, Item: id}
	r.declareParams(fn.Params, owner, 0)
	r.declareParams(fn.Returns, owner, SymbolFlagReturn)
	for i, inv := range fn.Modifiers {
		r.resolveModifier(ModifierRef{Item: id, Index: i}, inv)
	}
	r.walkBodyInScope(fn.Body)
	r.Leave(scope)
}

func (r *Resolver) walkModifier(id ast.ItemID) {
	m, _ := r.b.Items.Modifier(id)
	r.resolveOverrideBases(id, m.Override)
	scope := r.Enter(ScopeFunction, ScopeOwner{File: r.file, Item: id}, r.b.Items.Get(id).Span)
	r.res.FunctionScopes[id] = scope
	r.declareParams(m.Params, SymbolDecl{File: r.file, Item: id}, 0)
	r.walkBodyInScope(m.Body)
	r.Leave(scope)
}

// resolveModifier binds a header invocation to a modifier or, for
// constructors, to a base contract.
func (r *Resolver) resolveModifier(ref ModifierRef, inv ast.ModifierInvocation) {
	r.resolveExprs(inv.Args)
	sid := r.resolvePath(inv.Name, false)
	sym := r.table.Symbols.Get(sid)
	if sym == nil {
		return
	}
	if sym.Kind != SymbolModifier && sym.Kind != SymbolContract {
		diag.ReportError(r.rep, diag.NamNotAModifier, inv.Name.Span,
			fmt.Sprintf("'%s' is a %s, not a modifier or base constructor", r.pathText(inv.Name), sym.Kind)).Emit()
		return
	}
	r.res.Modifiers[ref] = sid
}

func (r *Resolver) resolveOverrideBases(id ast.ItemID, spec ast.OverrideSpec) {
	if !spec.Present || len(spec.Bases) == 0 {
		return
	}
	bases := make([]ast.ItemID, 0, len(spec.Bases))
	for _, path := range spec.Bases {
		sym := r.table.Symbols.Get(r.resolvePath(path, false))
		if sym == nil {
			continue
		}
		if sym.Kind != SymbolContract {
			diag.ReportError(r.rep, diag.NamNotAContract, path.Span,
				fmt.Sprintf("'%s' in override list is a %s, not a contract", r.pathText(path), sym.Kind)).Emit()
			continue
		}
		bases = append(bases, sym.Decl.Item)
	}
	r.res.OverrideBases[id] = bases
}

func (r *Resolver) walkUsing(id ast.ItemID) {
	u, _ := r.b.Items.Using(id)
	use := Using{Item: id, Contract: r.contract, File: r.file, Target: u.Target, Global: u.Global}
	if len(u.Library.Names) > 0 {
		sid := r.resolvePath(u.Library, false)
		if sym := r.table.Symbols.Get(sid); sym != nil {
			lib, _ := r.b.Items.Contract(sym.Decl.Item)
			if sym.Kind != SymbolContract || lib.Kind != ast.ContractLibrary {
				diag.ReportError(r.rep, diag.NamNotAContract, u.Library.Span,
					fmt.Sprintf("'%s' is not a library", r.pathText(u.Library))).Emit()
			} else {
				use.Library = sid
			}
		}
	}
	for _, path := range u.Functions {
		sid := r.resolvePath(path, false)
		sym := r.table.Symbols.Get(sid)
		if sym == nil {
			continue
		}
		if sym.Kind != SymbolFunction {
			diag.ReportError(r.rep, diag.NamUnresolved, path.Span,
				fmt.Sprintf("'%s' is a %s, not a function", r.pathText(path), sym.Kind)).Emit()
			continue
		}
		use.Functions = append(use.Functions, sid)
	}
	r.resolveType(u.Target)
	r.res.Usings = append(r.res.Usings, use)
}

func (r *Resolver) resolveParamTypes(params []ast.Param) {
	for _, p := range params {
		r.resolveType(p.Type)
	}
}

// resolveType binds the user-defined names inside a type expression.
func (r *Resolver) resolveType(id ast.TypeExprID) {
	te := r.b.Types.Get(id)
	if te == nil {
		return
	}
	switch te.Kind {
	case ast.TypeUser:
		u, _ := r.b.Types.User(id)
		if sid := r.resolvePath(u.Path, true); sid.IsValid() {
			r.res.TypeSymbols[id] = sid
		}
	case ast.TypeMapping:
		m, _ := r.b.Types.Mapping(id)
		r.resolveType(m.Key)
		r.resolveType(m.Value)
	case ast.TypeArray:
		a, _ := r.b.Types.Array(id)
		r.resolveType(a.Elem)
		r.resolveExpr(a.Len)
	case ast.TypeFunction:
		fn, _ := r.b.Types.Function(id)
		r.resolveParamTypes(fn.Params)
		r.resolveParamTypes(fn.Returns)
	}
}

// resolvePath resolves a dotted name. Intermediate segments must be import
// namespaces or contracts. With wantType the last segment must name a type.
func (r *Resolver) resolvePath(path ast.IdentPath, wantType bool) SymbolID {
	if len(path.Names) == 0 {
		return NoSymbolID
	}
	ids := r.LookupAll(path.Names[0])
	if len(ids) == 0 {
		r.unresolved(path.Spans[0], path.Names[0])
		return NoSymbolID
	}
	for i := 1; i < len(path.Names); i++ {
		prev := r.table.Symbols.Get(ids[0])
		name := path.Names[i]
		switch prev.Kind {
		case SymbolNamespace:
			ids = r.table.Scopes.Get(prev.Namespace).NameIndex[name]
		case SymbolContract:
			ids = r.res.LookupInContract(prev.Decl.Item, name)
		default:
			diag.ReportError(r.rep, diag.NamUnresolved, path.Spans[i],
				fmt.Sprintf("'%s' is a %s and has no member '%s'", r.b.Name(path.Names[i-1]), prev.Kind, r.b.Name(name))).Emit()
			return NoSymbolID
		}
		if len(ids) == 0 {
			diag.ReportError(r.rep, diag.NamUnresolved, path.Spans[i],
				fmt.Sprintf("member '%s' not found in '%s'", r.b.Name(name), r.b.Name(path.Names[i-1]))).Emit()
			return NoSymbolID
		}
	}
	sym := r.table.Symbols.Get(ids[0])
	if wantType && !sym.Kind.IsType() {
		diag.ReportError(r.rep, diag.NamNotAType, path.Span,
			fmt.Sprintf("'%s' is a %s, not a type", r.pathText(path), sym.Kind)).Emit()
		return NoSymbolID
	}
	return ids[0]
}

func (r *Resolver) pathText(path ast.IdentPath) string {
	parts := make([]string, len(path.Names))
	for i, n := range path.Names {
		parts[i] = r.b.Name(n)
	}
	return strings.Join(parts, ".")
}

func (r *Resolver) resolveExprs(ids []ast.ExprID) {
	for _, id := range ids {
		r.resolveExpr(id)
	}
}

func (r *Resolver) resolveExpr(id ast.ExprID) {
	ex := r.b.Exprs.Get(id)
	if ex == nil {
		return
	}
	switch ex.Kind {
	case ast.ExprIdent:
		ident, _ := r.b.Exprs.Ident(id)
		ids := r.LookupAll(ident.Name)
		if len(ids) == 0 {
			r.unresolved(ex.Span, ident.Name)
			return
		}
		r.bind(id, ids)
	case ast.ExprMember:
		m, _ := r.b.Exprs.Member(id)
		r.resolveExpr(m.Target)
		r.resolveMember(id, m)
	case ast.ExprNew:
		n, _ := r.b.Exprs.New(id)
		r.resolveType(n.Type)
	case ast.ExprTypeName:
		t, _ := r.b.Exprs.TypeName(id)
		r.resolveType(t.Type)
	case ast.ExprMetaType:
		t, _ := r.b.Exprs.MetaType(id)
		r.resolveType(t.Type)
	default:
		r.resolveExprs(r.b.ExprChildren(nil, id))
	}
}

func (r *Resolver) bind(id ast.ExprID, ids []SymbolID) {
	r.res.ExprSymbols[id] = ids[0]
	if len(ids) > 1 || r.table.Symbols.Get(ids[0]).Kind.overloadable() {
		r.res.Overloads[id] = ids
	}
}

// resolveMember binds `A.x` for import namespaces and contract names,
// `this.x` and `super.x`. Other member accesses depend on types and are left
// to the checker.
func (r *Resolver) resolveMember(id ast.ExprID, m *ast.MemberExpr) {
	target := r.table.Symbols.Get(r.res.ExprSymbols[m.Target])
	if target == nil {
		return
	}
	switch {
	case target.Kind == SymbolNamespace:
		ids := r.table.Scopes.Get(target.Namespace).NameIndex[m.Name]
		if len(ids) == 0 {
			diag.ReportError(r.rep, diag.NamUnresolved, m.NameSpan,
				fmt.Sprintf("member '%s' not found in '%s'", r.b.Name(m.Name), r.b.Name(target.Name))).Emit()
			return
		}
		r.bind(id, ids)
	case target.Kind == SymbolContract:
		if ids := r.res.LookupInContract(target.Decl.Item, m.Name); len(ids) > 0 {
			r.bind(id, ids)
		}
	case target.Flags&SymbolFlagBuiltin != 0 && r.contract.IsValid():
		switch r.b.Name(target.Name) {
		case ThisName:
			if ids := r.res.LookupInContract(r.contract, m.Name); len(ids) > 0 {
				r.bind(id, ids)
			}
		case SuperName:
			if r.res.Unlinearized[r.contract] {
				return
			}
			base, ok := r.res.SuperTarget(r.contract, r.contract, m.Name)
			if !ok {
				diag.ReportError(r.rep, diag.NamSuperNoTarget, m.NameSpan,
					fmt.Sprintf("no base of '%s' declares '%s'", r.contractName(r.contract), r.b.Name(m.Name))).Emit()
				return
			}
			r.bind(id, r.res.LookupInContract(base, m.Name))
		}
	}
}

// walkBodyInScope walks the statements of a body block in the current scope,
// so they share it with the parameters.
func (r *Resolver) walkBodyInScope(body ast.StmtID) {
	if blk, ok := r.b.Stmts.Block(body); ok {
		for _, s := range blk.Stmts {
			r.walkStmt(s)
		}
		return
	}
	r.walkStmt(body)
}

// walkNested walks a branch or loop body in its own scope.
func (r *Resolver) walkNested(id ast.StmtID) {
	st := r.b.Stmts.Get(id)
	if st == nil {
		return
	}
	if st.Kind == ast.StmtBlock {
		r.walkStmt(id)
		return
	}
	scope := r.Enter(ScopeBlock, ScopeOwner{File: r.file, Stmt: id}, st.Span)
	r.walkStmt(id)
	r.Leave(scope)
}

func (r *Resolver) walkStmt(id ast.StmtID) {
	st := r.b.Stmts.Get(id)
	if st == nil {
		return
	}
	switch st.Kind {
	case ast.StmtBlock:
		blk, _ := r.b.Stmts.Block(id)
		scope := r.Enter(ScopeBlock, ScopeOwner{File: r.file, Stmt: id}, st.Span)
		for _, s := range blk.Stmts {
			r.walkStmt(s)
		}
		r.Leave(scope)
	case ast.StmtVarDecl:
		d, _ := r.b.Stmts.VarDecl(id)
		r.resolveExpr(d.Value)
		syms := make([]SymbolID, len(d.Vars))
		for i, slot := range d.Vars {
			if slot.Empty() {
				continue
			}
			r.resolveType(slot.Type)
			syms[i], _ = r.Declare(Symbol{
				Name:     slot.Name,
				Kind:     SymbolLocal,
				Span:     slot.NameSpan,
				Decl:     SymbolDecl{File: r.file, Stmt: id, Index: i},
				Contract: r.contract,
				TypeExpr: slot.Type,
				Location: slot.Location,
			})
		}
		r.res.VarSymbols[id] = syms
	case ast.StmtExpr:
		e, _ := r.b.Stmts.Expr(id)
		r.resolveExpr(e.Expr)
	case ast.StmtIf:
		s, _ := r.b.Stmts.If(id)
		r.resolveExpr(s.Cond)
		r.walkNested(s.Then)
		r.walkNested(s.Else)
	case ast.StmtFor:
		s, _ := r.b.Stmts.For(id)
		scope := r.Enter(ScopeBlock, ScopeOwner{File: r.file, Stmt: id}, st.Span)
		r.walkStmt(s.Init)
		r.resolveExpr(s.Cond)
		r.resolveExpr(s.Post)
		r.walkNested(s.Body)
		r.Leave(scope)
	case ast.StmtWhile, ast.StmtDoWhile:
		s, _ := r.b.Stmts.While(id)
		r.resolveExpr(s.Cond)
		r.walkNested(s.Body)
	case ast.StmtReturn:
		s, _ := r.b.Stmts.Return(id)
		r.resolveExpr(s.Value)
	case ast.StmtEmit:
		s, _ := r.b.Stmts.Emit(id)
		r.resolveExpr(s.Call)
	case ast.StmtRevert:
		s, _ := r.b.Stmts.Revert(id)
		r.resolveExpr(s.Call)
	case ast.StmtTry:
		r.walkTry(id)
	case ast.StmtAssembly:
		r.res.AssemblyScopes[id] = r.CurrentScope()
	}
}

func (r *Resolver) walkTry(id ast.StmtID) {
	s, _ := r.b.Stmts.Try(id)
	r.resolveExpr(s.Call)
	owner := SymbolDecl{File: r.file, Stmt: id}
	scope := r.Enter(ScopeBlock, ScopeOwner{File: r.file, Stmt: id}, r.b.Stmts.Get(id).Span)
	r.declareParams(s.Returns, owner, 0)
	r.walkBodyInScope(s.Body)
	r.Leave(scope)
	for _, c := range s.Catches {
		scope := r.Enter(ScopeBlock, ScopeOwner{File: r.file, Stmt: c.Body}, c.Span)
		r.declareParams(c.Params, owner, 0)
		r.walkBodyInScope(c.Body)
		r.Leave(scope)
	}
}
