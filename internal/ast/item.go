package ast

import (
	"solfront/internal/source"
)

type ItemKind uint8

const (
	ItemPragma ItemKind = iota + 1
	ItemImport
	ItemContract
	ItemFunction
	ItemModifier
	ItemEvent
	ItemError
	ItemVariable
	ItemStruct
	ItemEnum
	ItemUDVT
	ItemUsing
)

func (k ItemKind) String() string {
	switch k {
	case ItemPragma:
		return "pragma"
	case ItemImport:
		return "import"
	case ItemContract:
		return "contract"
	case ItemFunction:
		return "function"
	case ItemModifier:
		return "modifier"
	case ItemEvent:
		return "event"
	case ItemError:
		return "error"
	case ItemVariable:
		return "variable"
	case ItemStruct:
		return "struct"
	case ItemEnum:
		return "enum"
	case ItemUDVT:
		return "user-defined value type"
	case ItemUsing:
		return "using"
	}
	return "invalid"
}

// Item is a declaration; Payload indexes the arena selected by Kind.
type Item struct {
	Kind    ItemKind
	Span    source.Span
	Payload PayloadID
	// Doc is the text of the doc comment directly preceding the item.
	Doc string
}

type Items struct {
	Arena     *Arena[Item]
	Pragmas   *Arena[PragmaDecl]
	Imports   *Arena[ImportDecl]
	Contracts *Arena[ContractDecl]
	Functions *Arena[FunctionDecl]
	Modifiers *Arena[ModifierDecl]
	Events    *Arena[EventDecl]
	Errors    *Arena[ErrorDecl]
	Variables *Arena[VariableDecl]
	Structs   *Arena[StructDecl]
	Enums     *Arena[EnumDecl]
	UDVTs     *Arena[UDVTDecl]
	Usings    *Arena[UsingDecl]
}

func NewItems(capHint uint) *Items {
	small := capHint/8 + 1
	return &Items{
		Arena:     NewArena[Item](capHint),
		Pragmas:   NewArena[PragmaDecl](small),
		Imports:   NewArena[ImportDecl](small),
		Contracts: NewArena[ContractDecl](small),
		Functions: NewArena[FunctionDecl](capHint / 2),
		Modifiers: NewArena[ModifierDecl](small),
		Events:    NewArena[EventDecl](small),
		Errors:    NewArena[ErrorDecl](small),
		Variables: NewArena[VariableDecl](capHint / 2),
		Structs:   NewArena[StructDecl](small),
		Enums:     NewArena[EnumDecl](small),
		UDVTs:     NewArena[UDVTDecl](small),
		Usings:    NewArena[UsingDecl](small),
	}
}

func (i *Items) new(kind ItemKind, span source.Span, payload PayloadID, doc string) ItemID {
	return ItemID(i.Arena.Allocate(Item{Kind: kind, Span: span, Payload: payload, Doc: doc}))
}

func (i *Items) Get(id ItemID) *Item {
	return i.Arena.Get(uint32(id))
}

func (i *Items) payload(id ItemID, kind ItemKind) (PayloadID, bool) {
	item := i.Get(id)
	if item == nil || item.Kind != kind {
		return NoPayloadID, false
	}
	return item.Payload, true
}

type PragmaDecl struct {
	Name      source.StringID
	Value     string
	ValueSpan source.Span
}

func (i *Items) NewPragma(span source.Span, name source.StringID, value string, valueSpan source.Span) ItemID {
	p := i.Pragmas.Allocate(PragmaDecl{Name: name, Value: value, ValueSpan: valueSpan})
	return i.new(ItemPragma, span, PayloadID(p), "")
}

func (i *Items) Pragma(id ItemID) (*PragmaDecl, bool) {
	p, ok := i.payload(id, ItemPragma)
	if !ok {
		return nil, false
	}
	return i.Pragmas.Get(uint32(p)), true
}

type ImportSymbol struct {
	Name  source.StringID
	Alias source.StringID
	Span  source.Span
}

// ImportDecl is an unresolved import request. Wildcard marks `import * as A from "p"`.
type ImportDecl struct {
	Path     string
	PathSpan source.Span
	Alias    source.StringID
	Symbols  []ImportSymbol
	Wildcard bool
}

func (i *Items) NewImport(span source.Span, decl ImportDecl) ItemID {
	p := i.Imports.Allocate(decl)
	return i.new(ItemImport, span, PayloadID(p), "")
}

func (i *Items) Import(id ItemID) (*ImportDecl, bool) {
	p, ok := i.payload(id, ItemImport)
	if !ok {
		return nil, false
	}
	return i.Imports.Get(uint32(p)), true
}

type ContractDecl struct {
	Kind     ContractKind
	Abstract bool
	Name     source.StringID
	NameSpan source.Span
	Bases    []InheritanceSpec
	Members  []ItemID
}

func (i *Items) NewContract(span source.Span, decl ContractDecl, doc string) ItemID {
	p := i.Contracts.Allocate(decl)
	return i.new(ItemContract, span, PayloadID(p), doc)
}

func (i *Items) Contract(id ItemID) (*ContractDecl, bool) {
	p, ok := i.payload(id, ItemContract)
	if !ok {
		return nil, false
	}
	return i.Contracts.Get(uint32(p)), true
}

// FunctionDecl covers regular functions and the constructor, receive and fallback kinds.
// Body is NoStmtID for declarations without implementation.
type FunctionDecl struct {
	Kind       FunctionKind
	Name       source.StringID
	NameSpan   source.Span
	Params     []Param
	Returns    []Param
	Visibility Visibility
	Mutability Mutability
	Virtual    bool
	Override   OverrideSpec
	Modifiers  []ModifierInvocation
	Body       StmtID
	HeaderSpan source.Span
}

func (i *Items) NewFunction(span source.Span, decl FunctionDecl, doc string) ItemID {
	p := i.Functions.Allocate(decl)
	return i.new(ItemFunction, span, PayloadID(p), doc)
}

func (i *Items) Function(id ItemID) (*FunctionDecl, bool) {
	p, ok := i.payload(id, ItemFunction)
	if !ok {
		return nil, false
	}
	return i.Functions.Get(uint32(p)), true
}

type ModifierDecl struct {
	Name     source.StringID
	NameSpan source.Span
	Params   []Param
	Virtual  bool
	Override OverrideSpec
	Body     StmtID
}

func (i *Items) NewModifier(span source.Span, decl ModifierDecl, doc string) ItemID {
	p := i.Modifiers.Allocate(decl)
	return i.new(ItemModifier, span, PayloadID(p), doc)
}

func (i *Items) Modifier(id ItemID) (*ModifierDecl, bool) {
	p, ok := i.payload(id, ItemModifier)
	if !ok {
		return nil, false
	}
	return i.Modifiers.Get(uint32(p)), true
}

type EventDecl struct {
	Name      source.StringID
	NameSpan  source.Span
	Params    []Param
	Anonymous bool
}

func (i *Items) NewEvent(span source.Span, decl EventDecl, doc string) ItemID {
	p := i.Events.Allocate(decl)
	return i.new(ItemEvent, span, PayloadID(p), doc)
}

func (i *Items) Event(id ItemID) (*EventDecl, bool) {
	p, ok := i.payload(id, ItemEvent)
	if !ok {
		return nil, false
	}
	return i.Events.Get(uint32(p)), true
}

type ErrorDecl struct {
	Name     source.StringID
	NameSpan source.Span
	Params   []Param
}

func (i *Items) NewError(span source.Span, decl ErrorDecl, doc string) ItemID {
	p := i.Errors.Allocate(decl)
	return i.new(ItemError, span, PayloadID(p), doc)
}

func (i *Items) Error(id ItemID) (*ErrorDecl, bool) {
	p, ok := i.payload(id, ItemError)
	if !ok {
		return nil, false
	}
	return i.Errors.Get(uint32(p)), true
}

// VariableDecl is a state variable or a file-level constant.
type VariableDecl struct {
	Type       TypeExprID
	Name       source.StringID
	NameSpan   source.Span
	Visibility Visibility
	Constant   bool
	Immutable  bool
	Override   OverrideSpec
	Location   DataLocation
	Value      ExprID
}

func (i *Items) NewVariable(span source.Span, decl VariableDecl, doc string) ItemID {
	p := i.Variables.Allocate(decl)
	return i.new(ItemVariable, span, PayloadID(p), doc)
}

func (i *Items) Variable(id ItemID) (*VariableDecl, bool) {
	p, ok := i.payload(id, ItemVariable)
	if !ok {
		return nil, false
	}
	return i.Variables.Get(uint32(p)), true
}

type StructField struct {
	Type     TypeExprID
	Name     source.StringID
	NameSpan source.Span
	Span     source.Span
}

type StructDecl struct {
	Name     source.StringID
	NameSpan source.Span
	Fields   []StructField
}

func (i *Items) NewStruct(span source.Span, decl StructDecl, doc string) ItemID {
	p := i.Structs.Allocate(decl)
	return i.new(ItemStruct, span, PayloadID(p), doc)
}

func (i *Items) Struct(id ItemID) (*StructDecl, bool) {
	p, ok := i.payload(id, ItemStruct)
	if !ok {
		return nil, false
	}
	return i.Structs.Get(uint32(p)), true
}

type EnumMember struct {
	Name source.StringID
	Span source.Span
}

type EnumDecl struct {
	Name     source.StringID
	NameSpan source.Span
	Members  []EnumMember
}

func (i *Items) NewEnum(span source.Span, decl EnumDecl, doc string) ItemID {
	p := i.Enums.Allocate(decl)
	return i.new(ItemEnum, span, PayloadID(p), doc)
}

func (i *Items) Enum(id ItemID) (*EnumDecl, bool) {
	p, ok := i.payload(id, ItemEnum)
	if !ok {
		return nil, false
	}
	return i.Enums.Get(uint32(p)), true
}

// UDVTDecl is `type Name is Underlying;`.
type UDVTDecl struct {
	Name       source.StringID
	NameSpan   source.Span
	Underlying TypeExprID
}

func (i *Items) NewUDVT(span source.Span, decl UDVTDecl, doc string) ItemID {
	p := i.UDVTs.Allocate(decl)
	return i.new(ItemUDVT, span, PayloadID(p), doc)
}

func (i *Items) UDVT(id ItemID) (*UDVTDecl, bool) {
	p, ok := i.payload(id, ItemUDVT)
	if !ok {
		return nil, false
	}
	return i.UDVTs.Get(uint32(p)), true
}

// UsingDecl is `using L for T;` or `using {f, g} for T global;`.
// Target is NoTypeExprID for `for *`.
type UsingDecl struct {
	Library   IdentPath
	Functions []IdentPath
	Target    TypeExprID
	Global    bool
}

func (i *Items) NewUsing(span source.Span, decl UsingDecl) ItemID {
	p := i.Usings.Allocate(decl)
	return i.new(ItemUsing, span, PayloadID(p), "")
}

func (i *Items) Using(id ItemID) (*UsingDecl, bool) {
	p, ok := i.payload(id, ItemUsing)
	if !ok {
		return nil, false
	}
	return i.Usings.Get(uint32(p)), true
}
