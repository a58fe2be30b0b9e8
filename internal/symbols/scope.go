package symbols

import (
	"solfront/internal/ast"
	"solfront/internal/source"
)

// ScopeKind enumerates supported scope categories.
type ScopeKind uint8

const (
	ScopeInvalid  ScopeKind = iota
	ScopeBuiltin            // root with the language builtins
	ScopeFile               // top-level declarations and imports of one file
	ScopeContract           // members of one contract, interface or library
	ScopeFunction           // parameters of a function or modifier
	ScopeBlock              // block, for-init and catch clauses
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeBuiltin:
		return "builtin"
	case ScopeFile:
		return "file"
	case ScopeContract:
		return "contract"
	case ScopeFunction:
		return "function"
	case ScopeBlock:
		return "block"
	default:
		return "invalid"
	}
}

// ScopeOwner references the AST construct associated with the scope.
type ScopeOwner struct {
	File ast.FileID
	Item ast.ItemID
	Stmt ast.StmtID
}

// Scope models a lexical scope with a parent-child hierarchy.
type Scope struct {
	Kind      ScopeKind
	Parent    ScopeID
	Owner     ScopeOwner
	Span      source.Span
	NameIndex map[source.StringID][]SymbolID
	Symbols   []SymbolID
	Children  []ScopeID
}
