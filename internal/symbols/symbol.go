package symbols

import (
	"solfront/internal/ast"
	"solfront/internal/source"
	"solfront/internal/types"
)

// SymbolKind classifies the semantic meaning of a symbol.
type SymbolKind uint8

const (
	SymbolInvalid SymbolKind = iota
	SymbolContract
	SymbolFunction
	SymbolModifier
	SymbolEvent
	SymbolError
	SymbolStateVar
	SymbolLocal
	SymbolParam
	SymbolStruct
	SymbolEnum
	SymbolUDVT
	// SymbolNamespace is an import alias; Namespace holds the imported file scope.
	SymbolNamespace
	// SymbolBuiltin covers global functions and objects such as require, msg, this and super.
	SymbolBuiltin
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolContract:
		return "contract"
	case SymbolFunction:
		return "function"
	case SymbolModifier:
		return "modifier"
	case SymbolEvent:
		return "event"
	case SymbolError:
		return "error"
	case SymbolStateVar:
		return "state variable"
	case SymbolLocal:
		return "local variable"
	case SymbolParam:
		return "parameter"
	case SymbolStruct:
		return "struct"
	case SymbolEnum:
		return "enum"
	case SymbolUDVT:
		return "user-defined value type"
	case SymbolNamespace:
		return "import namespace"
	case SymbolBuiltin:
		return "builtin"
	default:
		return "invalid"
	}
}

// IsType reports kinds that name a type.
func (k SymbolKind) IsType() bool {
	switch k {
	case SymbolContract, SymbolStruct, SymbolEnum, SymbolUDVT:
		return true
	}
	return false
}

// IsVariable reports kinds that hold a value.
func (k SymbolKind) IsVariable() bool {
	return k == SymbolStateVar || k == SymbolLocal || k == SymbolParam
}

// overloadable kinds may share a name inside one scope.
func (k SymbolKind) overloadable() bool {
	return k == SymbolFunction || k == SymbolEvent || k == SymbolBuiltin
}

// SymbolFlags encode misc attributes for quick checks.
type SymbolFlags uint16

const (
	SymbolFlagBuiltin SymbolFlags = 1 << iota
	SymbolFlagConstant
	SymbolFlagImmutable
	// SymbolFlagReturn marks named return parameters.
	SymbolFlagReturn
	SymbolFlagImported
	// SymbolFlagReverts marks builtins that end control flow, such as require.
	SymbolFlagReverts
)

// Strings returns a slice of textual flag labels.
func (f SymbolFlags) Strings() []string {
	if f == 0 {
		return nil
	}
	labels := make([]string, 0, 4)
	if f&SymbolFlagBuiltin != 0 {
		labels = append(labels, "builtin")
	}
	if f&SymbolFlagConstant != 0 {
		labels = append(labels, "constant")
	}
	if f&SymbolFlagImmutable != 0 {
		labels = append(labels, "immutable")
	}
	if f&SymbolFlagReturn != 0 {
		labels = append(labels, "return")
	}
	if f&SymbolFlagImported != 0 {
		labels = append(labels, "imported")
	}
	if f&SymbolFlagReverts != 0 {
		labels = append(labels, "reverts")
	}
	return labels
}

// SymbolDecl points at the AST origin of a symbol. Index is the parameter or
// tuple slot position for parameters and locals.
type SymbolDecl struct {
	File  ast.FileID
	Item  ast.ItemID
	Stmt  ast.StmtID
	Index int
}

// Symbol describes a named entity available in a scope.
type Symbol struct {
	Name       source.StringID
	Kind       SymbolKind
	Scope      ScopeID
	Span       source.Span
	Flags      SymbolFlags
	Decl       SymbolDecl
	Visibility ast.Visibility
	// Contract is the contract declaring the symbol, NoItemID at file level.
	Contract ast.ItemID
	// TypeExpr and Location describe variables and parameters.
	TypeExpr ast.TypeExprID
	Location ast.DataLocation
	// Namespace is the file scope behind an import alias.
	Namespace ScopeID
	// Type is known up front for builtins and filled in by the checker for declarations.
	Type types.TypeID
}
