package symbols

import (
	"slices"

	"solfront/internal/ast"
	"solfront/internal/config"
	"solfront/internal/diag"
	"solfront/internal/inherit"
	"solfront/internal/source"
	"solfront/internal/types"
)

// Input describes one unit to resolve.
type Input struct {
	Builder *ast.Builder
	// Files lists the unit's files; every imported file precedes its importers.
	Files []ast.FileID
	// Imports maps import directives to the files they load. Directives
	// without an entry were already reported by the driver and are skipped.
	Imports  map[ast.ItemID]ast.FileID
	Types    *types.Interner
	Config   config.Config
	Reporter diag.Reporter
	// InheritReporter receives linearization diagnostics; Reporter is used when nil.
	InheritReporter diag.Reporter
	Hints           Hints
}

// ModifierRef locates one modifier invocation of a function header.
type ModifierRef struct {
	Item  ast.ItemID
	Index int
}

// Using is a resolved `using L for T` directive.
type Using struct {
	Item ast.ItemID
	// Contract is the contract holding the directive, NoItemID at file level.
	Contract  ast.ItemID
	File      ast.FileID
	Library   SymbolID
	Functions []SymbolID
	// Target is NoTypeExprID for `*`.
	Target ast.TypeExprID
	Global bool
}

// Result holds the side tables produced by name resolution. The AST is not modified.
type Result struct {
	Table          *Table
	FileScopes     map[ast.FileID]ScopeID
	ContractScopes map[ast.ItemID]ScopeID
	FunctionScopes map[ast.ItemID]ScopeID
	// ItemSymbols maps named declarations to their symbols.
	ItemSymbols map[ast.ItemID]SymbolID
	// Owners maps contract members to their contract.
	Owners map[ast.ItemID]ast.ItemID
	// ItemFiles maps every declaration to its file.
	ItemFiles map[ast.ItemID]ast.FileID
	// ExprSymbols binds identifiers and member accesses to their first candidate.
	ExprSymbols map[ast.ExprID]SymbolID
	// Overloads lists all candidates where the binding may be overloaded.
	Overloads   map[ast.ExprID][]SymbolID
	TypeSymbols map[ast.TypeExprID]SymbolID
	// VarSymbols lists the symbols of a declaration statement per slot; empty slots hold NoSymbolID.
	VarSymbols map[ast.StmtID][]SymbolID
	// Bases holds the resolved direct bases in written order.
	Bases      map[ast.ItemID][]ast.ItemID
	Linearized map[ast.ItemID]inherit.Order[ast.ItemID]
	// Unlinearized marks contracts whose inheritance graph failed.
	Unlinearized   map[ast.ItemID]bool
	OverrideBases  map[ast.ItemID][]ast.ItemID
	Modifiers      map[ModifierRef]SymbolID
	Usings         []Using
	AssemblyScopes map[ast.StmtID]ScopeID
	// Contracts lists contract declarations in source order.
	Contracts []ast.ItemID
}

func newResult(t *Table) *Result {
	return &Result{
		Table:          t,
		FileScopes:     make(map[ast.FileID]ScopeID),
		ContractScopes: make(map[ast.ItemID]ScopeID),
		FunctionScopes: make(map[ast.ItemID]ScopeID),
		ItemSymbols:    make(map[ast.ItemID]SymbolID),
		Owners:         make(map[ast.ItemID]ast.ItemID),
		ItemFiles:      make(map[ast.ItemID]ast.FileID),
		ExprSymbols:    make(map[ast.ExprID]SymbolID),
		Overloads:      make(map[ast.ExprID][]SymbolID),
		TypeSymbols:    make(map[ast.TypeExprID]SymbolID),
		VarSymbols:     make(map[ast.StmtID][]SymbolID),
		Bases:          make(map[ast.ItemID][]ast.ItemID),
		Linearized:     make(map[ast.ItemID]inherit.Order[ast.ItemID]),
		Unlinearized:   make(map[ast.ItemID]bool),
		OverrideBases:  make(map[ast.ItemID][]ast.ItemID),
		Modifiers:      make(map[ModifierRef]SymbolID),
		AssemblyScopes: make(map[ast.StmtID]ScopeID),
	}
}

// Resolve binds every name of the unit. Declarations of all files are
// collected first, then imports, inheritance and finally bodies.
func Resolve(in Input) *Result {
	if in.Reporter == nil {
		in.Reporter = diag.NopReporter{}
	}
	if in.InheritReporter == nil {
		in.InheritReporter = in.Reporter
	}
	table := NewTable(in.Hints, in.Builder.Strings, in.Types)
	r := &Resolver{
		b:     in.Builder,
		table: table,
		res:   newResult(table),
		rep:   in.Reporter,
		inh:   in.InheritReporter,
		in:    in,
	}
	for _, f := range in.Files {
		r.declareFile(f)
	}
	for _, f := range in.Files {
		r.resolveImports(f)
	}
	r.resolveBases()
	r.linearize()
	r.checkInheritedConflicts()
	for _, f := range in.Files {
		r.walkFile(f)
	}
	return r.res
}

// Symbol returns the symbol for id or nil.
func (res *Result) Symbol(id SymbolID) *Symbol {
	return res.Table.Symbols.Get(id)
}

// Order returns the linearization of c, or just c when it has none.
func (res *Result) Order(c ast.ItemID) []ast.ItemID {
	if o, ok := res.Linearized[c]; ok && o.Len() > 0 {
		return o.Nodes
	}
	return []ast.ItemID{c}
}

// DeclaredIn returns the symbols named name declared directly in contract c.
func (res *Result) DeclaredIn(c ast.ItemID, name source.StringID) []SymbolID {
	scope := res.Table.Scopes.Get(res.ContractScopes[c])
	if scope == nil {
		return nil
	}
	return scope.NameIndex[name]
}

// LookupInContract finds name among the members of c and its ancestors.
// Overloadable members are gathered across the whole order, most derived
// first; any other member shadows everything behind it.
func (res *Result) LookupInContract(c ast.ItemID, name source.StringID) []SymbolID {
	var out []SymbolID
	for _, k := range res.Order(c) {
		ids := res.DeclaredIn(k, name)
		if len(ids) == 0 {
			continue
		}
		if !res.allOverloadable(ids) {
			if len(out) == 0 {
				return ids
			}
			return out
		}
		out = append(out, ids...)
	}
	return out
}

// SuperTarget returns the contract providing `super.name` for code written in
// from when the most derived contract is most.
func (res *Result) SuperTarget(most, from ast.ItemID, name source.StringID) (ast.ItemID, bool) {
	order, ok := res.Linearized[most]
	if !ok {
		return ast.NoItemID, false
	}
	return order.Super(from, func(k ast.ItemID) bool {
		return len(res.DeclaredIn(k, name)) > 0
	})
}

// VisibleNames lists the names reachable from scope, excluding builtins.
func (res *Result) VisibleNames(scope ScopeID) []string {
	seen := make(map[source.StringID]struct{})
	collect := func(sc *Scope) {
		for name := range sc.NameIndex {
			seen[name] = struct{}{}
		}
	}
	for id := scope; id.IsValid(); {
		sc := res.Table.Scopes.Get(id)
		if sc == nil || sc.Kind == ScopeBuiltin {
			break
		}
		if sc.Kind == ScopeContract {
			for _, k := range res.Order(sc.Owner.Item) {
				if base := res.Table.Scopes.Get(res.ContractScopes[k]); base != nil {
					collect(base)
				}
			}
		} else {
			collect(sc)
		}
		id = sc.Parent
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, res.Table.Strings.MustLookup(name))
	}
	slices.Sort(out)
	return out
}

func (res *Result) allOverloadable(ids []SymbolID) bool {
	for _, id := range ids {
		if sym := res.Symbol(id); sym == nil || !sym.Kind.overloadable() {
			return false
		}
	}
	return true
}
