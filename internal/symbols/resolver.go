package symbols

import (
	"fmt"

	"solfront/internal/ast"
	"solfront/internal/diag"
	"solfront/internal/source"
)

// Resolver maintains the scope stack while declarations and bodies are walked.
type Resolver struct {
	b        *ast.Builder
	table    *Table
	res      *Result
	rep      diag.Reporter
	inh      diag.Reporter
	in       Input
	stack    []ScopeID
	file     ast.FileID
	contract ast.ItemID
}

// CurrentScope returns the innermost scope.
func (r *Resolver) CurrentScope() ScopeID {
	if len(r.stack) == 0 {
		return r.table.builtin
	}
	return r.stack[len(r.stack)-1]
}

// Enter allocates a child of the current scope and pushes it.
func (r *Resolver) Enter(kind ScopeKind, owner ScopeOwner, span source.Span) ScopeID {
	id := r.table.Scopes.New(kind, r.CurrentScope(), owner, span)
	r.stack = append(r.stack, id)
	return id
}

// Push re-enters an existing scope.
func (r *Resolver) Push(id ScopeID) {
	r.stack = append(r.stack, id)
}

// Leave pops the current scope; id must match it.
func (r *Resolver) Leave(id ScopeID) {
	if len(r.stack) == 0 || r.stack[len(r.stack)-1] != id {
		panic(fmt.Sprintf("symbols: unbalanced scope leave %d", id))
	}
	r.stack = r.stack[:len(r.stack)-1]
}

// Declare adds sym to the current scope. A name clash inside the scope is
// reported unless both declarations may be overloaded.
func (r *Resolver) Declare(sym Symbol) (SymbolID, bool) {
	scopeID := r.CurrentScope()
	scope := r.table.Scopes.Get(scopeID)
	if scope == nil || sym.Name == source.NoStringID {
		return NoSymbolID, false
	}
	for _, prev := range scope.NameIndex[sym.Name] {
		other := r.table.Symbols.Get(prev)
		if other == nil || (sym.Kind.overloadable() && other.Kind == sym.Kind) {
			continue
		}
		r.reportDuplicate(sym.Name, sym.Span, other.Span)
		return NoSymbolID, false
	}
	if sym.Kind == SymbolLocal || sym.Kind == SymbolParam {
		r.checkShadowing(scope, sym)
	}
	return r.table.add(scopeID, sym), true
}

// LookupAll returns every symbol bound to name in the nearest scope that has one.
// Contract scopes see the members of their linearized bases.
func (r *Resolver) LookupAll(name source.StringID) []SymbolID {
	return r.lookupFrom(r.CurrentScope(), name)
}

// LookupOne returns the first match for name.
func (r *Resolver) LookupOne(name source.StringID) (SymbolID, bool) {
	ids := r.LookupAll(name)
	if len(ids) == 0 {
		return NoSymbolID, false
	}
	return ids[0], true
}

func (r *Resolver) lookupFrom(scopeID ScopeID, name source.StringID) []SymbolID {
	for scopeID.IsValid() {
		scope := r.table.Scopes.Get(scopeID)
		if scope == nil {
			break
		}
		if ids := r.lookupInScope(scope, name); len(ids) > 0 {
			return ids
		}
		scopeID = scope.Parent
	}
	return nil
}

func (r *Resolver) lookupInScope(scope *Scope, name source.StringID) []SymbolID {
	if scope.Kind == ScopeContract {
		return r.res.LookupInContract(scope.Owner.Item, name)
	}
	return scope.NameIndex[name]
}

// checkShadowing warns when a local or parameter hides a declaration of an
// enclosing scope. Hiding a state variable is an error under StrictShadowing.
func (r *Resolver) checkShadowing(scope *Scope, sym Symbol) {
	for id := scope.Parent; id.IsValid(); {
		outer := r.table.Scopes.Get(id)
		if outer == nil {
			return
		}
		ids := r.lookupInScope(outer, sym.Name)
		if len(ids) == 0 {
			id = outer.Parent
			continue
		}
		prev := r.table.Symbols.Get(ids[0])
		name := r.b.Name(sym.Name)
		switch {
		case prev.Kind == SymbolStateVar && outer.Kind == ScopeContract:
			msg := fmt.Sprintf("declaration of '%s' shadows a state variable", name)
			if r.in.Config.StrictShadowing {
				diag.ReportError(r.rep, diag.NamShadowStateVar, sym.Span, msg).WithNote(prev.Span, "state variable declared here").Emit()
			} else {
				diag.ReportWarning(r.rep, diag.NamShadowStateVar, sym.Span, msg).WithNote(prev.Span, "state variable declared here").Emit()
			}
		case prev.Flags&SymbolFlagBuiltin != 0:
			diag.ReportWarning(r.rep, diag.NamShadow, sym.Span, fmt.Sprintf("declaration of '%s' shadows a builtin symbol", name)).Emit()
		default:
			diag.ReportWarning(r.rep, diag.NamShadow, sym.Span, fmt.Sprintf("declaration of '%s' shadows an existing declaration", name)).
				WithNote(prev.Span, "shadowed declaration is here").Emit()
		}
		return
	}
}

func (r *Resolver) reportDuplicate(name source.StringID, span, prev source.Span) {
	b := diag.ReportError(r.rep, diag.NamDuplicate, span, fmt.Sprintf("identifier '%s' already declared", r.b.Name(name)))
	if prev != (source.Span{}) {
		b = b.WithNote(prev, "previous declaration is here")
	}
	b.Emit()
}

func (r *Resolver) unresolved(span source.Span, name source.StringID) {
	diag.ReportError(r.rep, diag.NamUnresolved, span, fmt.Sprintf("undeclared identifier '%s'", r.b.Name(name))).Emit()
}
