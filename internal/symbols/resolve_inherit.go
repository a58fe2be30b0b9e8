package symbols

import (
	"fmt"
	"strings"

	"solfront/internal/ast"
	"solfront/internal/diag"
	"solfront/internal/inherit"
	"solfront/internal/source"
)

// resolveBases binds every `is` list to contract declarations.
func (r *Resolver) resolveBases() {
	for _, c := range r.res.Contracts {
		decl, _ := r.b.Items.Contract(c)
		r.file = r.res.ItemFiles[c]
		fileScope := r.res.FileScopes[r.file]
		r.Push(fileScope)
		bases := make([]ast.ItemID, 0, len(decl.Bases))
		for _, spec := range decl.Bases {
			sid := r.resolvePath(spec.Name, false)
			sym := r.table.Symbols.Get(sid)
			if sym == nil {
				continue
			}
			if sym.Kind != SymbolContract {
				diag.ReportError(r.rep, diag.NamNotAContract, spec.Name.Span,
					fmt.Sprintf("'%s' is a %s, not a contract", r.pathText(spec.Name), sym.Kind)).Emit()
				continue
			}
			base := sym.Decl.Item
			if msg := r.badBaseKind(decl, base); msg != "" {
				diag.ReportError(r.inh, diag.InhBadBaseKind, spec.Span, msg).Emit()
				continue
			}
			bases = append(bases, base)
		}
		r.Leave(fileScope)
		r.res.Bases[c] = bases
	}
}

func (r *Resolver) badBaseKind(derived *ast.ContractDecl, base ast.ItemID) string {
	bd, _ := r.b.Items.Contract(base)
	switch {
	case derived.Kind == ast.ContractLibrary:
		return "libraries cannot inherit from other contracts"
	case bd.Kind == ast.ContractLibrary:
		return fmt.Sprintf("library '%s' cannot be used as a base", r.b.Name(bd.Name))
	case derived.Kind == ast.ContractInterface && bd.Kind != ast.ContractInterface:
		return "interfaces can only inherit from other interfaces"
	}
	return ""
}

// linearize computes the C3 order of every contract and reports failures at
// the contract they belong to.
func (r *Resolver) linearize() {
	g := inherit.NewGraph[ast.ItemID]()
	for _, c := range r.res.Contracts {
		g.AddNode(c, r.res.Bases[c]...)
	}
	orders, fails := inherit.NewLinearizer(g).All()
	for _, c := range r.res.Contracts {
		if f, ok := fails[c]; ok {
			r.res.Unlinearized[c] = true
			r.reportLinearization(c, f)
			continue
		}
		r.res.Linearized[c] = orders[c]
	}
}

func (r *Resolver) reportLinearization(c ast.ItemID, f *inherit.Failure[ast.ItemID]) {
	decl, _ := r.b.Items.Contract(c)
	span := decl.NameSpan
	name := r.b.Name(decl.Name)
	switch f.Kind {
	case inherit.FailCycle:
		parts := make([]string, 0, len(f.Cycle)+1)
		for _, k := range f.Cycle {
			parts = append(parts, r.contractName(k))
		}
		parts = append(parts, name)
		diag.ReportError(r.inh, diag.InhCycle, span,
			fmt.Sprintf("contract '%s' inherits from itself: %s", name, strings.Join(parts, " -> "))).Emit()
	case inherit.FailDuplicateBase:
		diag.ReportError(r.inh, diag.InhUnlinearizable, span,
			fmt.Sprintf("base '%s' is listed more than once", r.contractName(f.Base))).Emit()
	case inherit.FailBaseFailed:
		diag.ReportError(r.inh, diag.InhBaseFailed, span,
			fmt.Sprintf("base '%s' of '%s' cannot be linearized", r.contractName(f.Base), name)).Emit()
	default:
		diag.ReportError(r.inh, diag.InhUnlinearizable, span,
			fmt.Sprintf("linearization of the inheritance graph of '%s' is impossible", name)).
			WithNote(span, "reorder the base list so more basic contracts come first").Emit()
	}
}

func (r *Resolver) contractName(c ast.ItemID) string {
	decl, ok := r.b.Items.Contract(c)
	if !ok {
		return "?"
	}
	return r.b.Name(decl.Name)
}

// checkInheritedConflicts reports names that a contract inherits from more than
// one declaration where no overriding is possible. Conflicts already present
// in a single base are left to that base.
func (r *Resolver) checkInheritedConflicts() {
	for _, c := range r.res.Contracts {
		order, ok := r.res.Linearized[c]
		if !ok || order.Len() < 2 {
			continue
		}
		byName := make(map[source.StringID][]SymbolID)
		var names []source.StringID
		for _, k := range order.Nodes {
			scope := r.table.Scopes.Get(r.res.ContractScopes[k])
			for _, sid := range scope.Symbols {
				sym := r.table.Symbols.Get(sid)
				if _, seen := byName[sym.Name]; !seen {
					names = append(names, sym.Name)
				}
				byName[sym.Name] = append(byName[sym.Name], sid)
			}
		}
		for _, name := range names {
			ids := byName[name]
			if !r.conflicting(ids) || r.conflictInBase(c, ids) {
				continue
			}
			r.reportConflict(c, name, ids)
		}
	}
}

func (r *Resolver) conflicting(ids []SymbolID) bool {
	owners := make(map[ast.ItemID]struct{})
	kinds := make(map[SymbolKind]int)
	for _, id := range ids {
		sym := r.table.Symbols.Get(id)
		owners[sym.Contract] = struct{}{}
		kinds[sym.Kind]++
	}
	if len(owners) < 2 {
		return false
	}
	if len(kinds) == 1 {
		for k := range kinds {
			// overriding is checked per signature later
			if k == SymbolFunction || k == SymbolEvent || k == SymbolModifier {
				return false
			}
		}
	}
	// a public state variable may override external functions
	if len(kinds) == 2 && kinds[SymbolStateVar] == 1 && kinds[SymbolFunction] > 0 {
		first := r.table.Symbols.Get(ids[0])
		return first.Kind != SymbolStateVar || first.Visibility != ast.VisPublic
	}
	return true
}

func (r *Resolver) conflictInBase(c ast.ItemID, ids []SymbolID) bool {
	for _, base := range r.res.Bases[c] {
		order, ok := r.res.Linearized[base]
		if !ok {
			continue
		}
		all := true
		for _, id := range ids {
			if order.IndexOf(r.table.Symbols.Get(id).Contract) < 0 {
				all = false
				break
			}
		}
		if all {
			return true
		}
	}
	return false
}

func (r *Resolver) reportConflict(c ast.ItemID, name source.StringID, ids []SymbolID) {
	decl, _ := r.b.Items.Contract(c)
	span := decl.NameSpan
	first := r.table.Symbols.Get(ids[0])
	if first.Contract == c {
		span = first.Span
	}
	b := diag.ReportError(r.rep, diag.NamInheritedConflict, span,
		fmt.Sprintf("identifier '%s' is declared by more than one contract inherited by '%s'", r.b.Name(name), r.b.Name(decl.Name)))
	for _, id := range ids {
		if sym := r.table.Symbols.Get(id); sym.Contract != c {
			b = b.WithNote(sym.Span, fmt.Sprintf("%s declared in '%s'", sym.Kind, r.contractName(sym.Contract)))
		}
	}
	b.Emit()
}
