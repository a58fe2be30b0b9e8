package symbols

import (
	"solfront/internal/ast"
	"solfront/internal/source"
)

func (r *Resolver) declareFile(fid ast.FileID) {
	file := r.b.Files.Get(fid)
	if file == nil {
		return
	}
	r.file = fid
	scope := r.table.Scopes.New(ScopeFile, r.table.builtin, ScopeOwner{File: fid}, file.Span)
	r.res.FileScopes[fid] = scope
	r.Push(scope)
	for _, item := range file.Items {
		r.declareItem(item)
	}
	r.Leave(scope)
}

func (r *Resolver) declareItem(id ast.ItemID) {
	item := r.b.Items.Get(id)
	if item == nil {
		return
	}
	r.res.ItemFiles[id] = r.file
	if r.contract.IsValid() {
		r.res.Owners[id] = r.contract
	}
	sym := Symbol{
		Decl:       SymbolDecl{File: r.file, Item: id},
		Contract:   r.contract,
		Visibility: ast.VisDefault,
	}
	switch item.Kind {
	case ast.ItemContract:
		c, _ := r.b.Items.Contract(id)
		sym.Name, sym.Span, sym.Kind = c.Name, c.NameSpan, SymbolContract
		r.declareNamed(id, sym)
		r.res.Contracts = append(r.res.Contracts, id)
		scope := r.Enter(ScopeContract, ScopeOwner{File: r.file, Item: id}, item.Span)
		r.res.ContractScopes[id] = scope
		prev := r.contract
		r.contract = id
		for _, m := range c.Members {
			r.declareItem(m)
		}
		r.contract = prev
		r.Leave(scope)
	case ast.ItemFunction:
		fn, _ := r.b.Items.Function(id)
		if fn.Kind != ast.FnRegular {
			return
		}
		sym.Name, sym.Span, sym.Kind, sym.Visibility = fn.Name, fn.NameSpan, SymbolFunction, fn.Visibility
		r.declareNamed(id, sym)
	case ast.ItemModifier:
		m, _ := r.b.Items.Modifier(id)
		sym.Name, sym.Span, sym.Kind = m.Name, m.NameSpan, SymbolModifier
		r.declareNamed(id, sym)
	case ast.ItemEvent:
		ev, _ := r.b.Items.Event(id)
		sym.Name, sym.Span, sym.Kind = ev.Name, ev.NameSpan, SymbolEvent
		r.declareNamed(id, sym)
	case ast.ItemError:
		e, _ := r.b.Items.Error(id)
		sym.Name, sym.Span, sym.Kind = e.Name, e.NameSpan, SymbolError
		r.declareNamed(id, sym)
	case ast.ItemVariable:
		v, _ := r.b.Items.Variable(id)
		sym.Name, sym.Span, sym.Kind = v.Name, v.NameSpan, SymbolStateVar
		sym.Visibility, sym.TypeExpr, sym.Location = v.Visibility, v.Type, v.Location
		if v.Constant {
			sym.Flags |= SymbolFlagConstant
		}
		if v.Immutable {
			sym.Flags |= SymbolFlagImmutable
		}
		r.declareNamed(id, sym)
	case ast.ItemStruct:
		s, _ := r.b.Items.Struct(id)
		sym.Name, sym.Span, sym.Kind = s.Name, s.NameSpan, SymbolStruct
		r.declareNamed(id, sym)
	case ast.ItemEnum:
		e, _ := r.b.Items.Enum(id)
		sym.Name, sym.Span, sym.Kind = e.Name, e.NameSpan, SymbolEnum
		r.declareNamed(id, sym)
	case ast.ItemUDVT:
		u, _ := r.b.Items.UDVT(id)
		sym.Name, sym.Span, sym.Kind = u.Name, u.NameSpan, SymbolUDVT
		r.declareNamed(id, sym)
	}
}

func (r *Resolver) declareNamed(id ast.ItemID, sym Symbol) {
	if sid, ok := r.Declare(sym); ok {
		r.res.ItemSymbols[id] = sid
	}
}

// declareParams binds named parameters in the current scope.
func (r *Resolver) declareParams(params []ast.Param, owner SymbolDecl, flags SymbolFlags) {
	for i, p := range params {
		r.resolveType(p.Type)
		if p.Name == source.NoStringID {
			continue
		}
		decl := owner
		decl.Index = i
		r.Declare(Symbol{
			Name:     p.Name,
			Kind:     SymbolParam,
			Span:     p.NameSpan,
			Flags:    flags,
			Decl:     decl,
			Contract: r.contract,
			TypeExpr: p.Type,
			Location: p.Location,
		})
	}
}
