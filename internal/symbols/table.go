package symbols

import (
	"fmt"

	"fortio.org/safecast"

	"solfront/internal/source"
	"solfront/internal/types"
)

// Hints provide optional capacity suggestions for the symbol table arenas.
type Hints struct{ Scopes, Symbols uint }

// Table aggregates symbol-related arenas and shared resources.
type Table struct {
	Scopes  *Scopes
	Symbols *Symbols
	Strings *source.Interner
	Types   *types.Interner
	builtin ScopeID
}

// NewTable builds a fresh table and installs the builtin root scope.
// If strings or tys is nil a fresh one is allocated.
func NewTable(h Hints, strings *source.Interner, tys *types.Interner) *Table {
	scopeCap, err := safecast.Conv[uint32](h.Scopes)
	if err != nil {
		panic(fmt.Errorf("scope capacity overflow: %w", err))
	}
	symCap, err := safecast.Conv[uint32](h.Symbols)
	if err != nil {
		panic(fmt.Errorf("symbol capacity overflow: %w", err))
	}
	if strings == nil {
		strings = source.NewInterner()
	}
	if tys == nil {
		tys = types.NewInterner()
	}
	t := &Table{
		Scopes:  NewScopes(scopeCap),
		Symbols: NewSymbols(symCap),
		Strings: strings,
		Types:   tys,
	}
	t.builtin = t.Scopes.New(ScopeBuiltin, NoScopeID, ScopeOwner{}, source.Span{})
	t.installBuiltins()
	return t
}

// BuiltinScope returns the root scope holding the language builtins.
func (t *Table) BuiltinScope() ScopeID { return t.builtin }

// Name returns the text of a symbol's name.
func (t *Table) Name(id SymbolID) string {
	sym := t.Symbols.Get(id)
	if sym == nil {
		return ""
	}
	s, _ := t.Strings.Lookup(sym.Name)
	return s
}

// add installs sym into scope without any checks.
func (t *Table) add(scope ScopeID, sym Symbol) SymbolID {
	sym.Scope = scope
	id := t.Symbols.New(&sym)
	if sc := t.Scopes.Get(scope); sc != nil {
		sc.Symbols = append(sc.Symbols, id)
		sc.NameIndex[sym.Name] = append(sc.NameIndex[sym.Name], id)
	}
	return id
}

// alias makes an existing symbol visible under name in scope.
func (t *Table) alias(scope ScopeID, name source.StringID, id SymbolID) {
	if sc := t.Scopes.Get(scope); sc != nil {
		sc.NameIndex[name] = append(sc.NameIndex[name], id)
	}
}
