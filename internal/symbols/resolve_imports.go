package symbols

import (
	"fmt"
	"slices"

	"solfront/internal/ast"
	"solfront/internal/diag"
	"solfront/internal/source"
)

// resolveImports binds the names each import directive of fid brings in.
// Imported files are processed earlier, so their own imports are re-exported.
func (r *Resolver) resolveImports(fid ast.FileID) {
	file := r.b.Files.Get(fid)
	scope := r.table.Scopes.Get(r.res.FileScopes[fid])
	if file == nil || scope == nil {
		return
	}
	r.file = fid
	r.Push(r.res.FileScopes[fid])
	defer r.Leave(r.res.FileScopes[fid])
	for _, item := range file.Items {
		imp, ok := r.b.Items.Import(item)
		if !ok {
			continue
		}
		target, ok := r.in.Imports[item]
		if !ok {
			continue
		}
		targetScope := r.table.Scopes.Get(r.res.FileScopes[target])
		if targetScope == nil {
			continue
		}
		span := r.b.Items.Get(item).Span
		switch {
		case len(imp.Symbols) > 0:
			for _, s := range imp.Symbols {
				ids := targetScope.NameIndex[s.Name]
				if len(ids) == 0 {
					diag.ReportError(r.rep, diag.NamImportMissing, s.Span,
						fmt.Sprintf("declaration '%s' not found in '%s'", r.b.Name(s.Name), imp.Path)).Emit()
					continue
				}
				name := s.Name
				if s.Alias != source.NoStringID {
					name = s.Alias
				}
				r.importAs(scope, name, ids, s.Span)
			}
		case imp.Alias != source.NoStringID:
			if sid, ok := r.Declare(Symbol{
				Name:      imp.Alias,
				Kind:      SymbolNamespace,
				Span:      span,
				Flags:     SymbolFlagImported,
				Decl:      SymbolDecl{File: fid, Item: item},
				Namespace: r.res.FileScopes[target],
			}); ok {
				r.res.ItemSymbols[item] = sid
			}
		default:
			names := make([]source.StringID, 0, len(targetScope.NameIndex))
			for name := range targetScope.NameIndex {
				names = append(names, name)
			}
			slices.Sort(names)
			for _, name := range names {
				r.importAs(scope, name, targetScope.NameIndex[name], span)
			}
		}
	}
}

// importAs makes ids visible as name in the file scope. Re-importing the same
// declaration is a no-op; anything else sharing the name is a duplicate unless
// both sides are function overloads.
func (r *Resolver) importAs(scope *Scope, name source.StringID, ids []SymbolID, span source.Span) {
	existing := scope.NameIndex[name]
	for _, id := range ids {
		if slices.Contains(existing, id) {
			continue
		}
		sym := r.table.Symbols.Get(id)
		clash := false
		for _, prev := range existing {
			other := r.table.Symbols.Get(prev)
			if other.Kind != sym.Kind || !sym.Kind.overloadable() {
				r.reportDuplicate(name, span, other.Span)
				clash = true
				break
			}
		}
		if clash {
			return
		}
		r.table.alias(r.res.FileScopes[r.file], name, id)
		existing = scope.NameIndex[name]
	}
}
