package ast

import (
	"solfront/internal/source"
)

type TypeExprKind uint8

const (
	TypeElementary TypeExprKind = iota + 1
	TypeUser
	TypeMapping
	TypeArray
	TypeFunction
)

type TypeExpr struct {
	Kind    TypeExprKind
	Span    source.Span
	Payload PayloadID
}

type TypeExprs struct {
	Arena      *Arena[TypeExpr]
	Elementary *Arena[ElementaryType]
	Users      *Arena[UserType]
	Mappings   *Arena[MappingType]
	Arrays     *Arena[ArrayType]
	Functions  *Arena[FunctionType]
}

func NewTypeExprs(capHint uint) *TypeExprs {
	small := capHint/8 + 1
	return &TypeExprs{
		Arena:      NewArena[TypeExpr](capHint),
		Elementary: NewArena[ElementaryType](capHint / 2),
		Users:      NewArena[UserType](capHint / 4),
		Mappings:   NewArena[MappingType](small),
		Arrays:     NewArena[ArrayType](small),
		Functions:  NewArena[FunctionType](small),
	}
}

func (t *TypeExprs) new(kind TypeExprKind, span source.Span, payload PayloadID) TypeExprID {
	return TypeExprID(t.Arena.Allocate(TypeExpr{Kind: kind, Span: span, Payload: payload}))
}

func (t *TypeExprs) Get(id TypeExprID) *TypeExpr {
	return t.Arena.Get(uint32(id))
}

func (t *TypeExprs) payload(id TypeExprID, kind TypeExprKind) (PayloadID, bool) {
	te := t.Get(id)
	if te == nil || te.Kind != kind {
		return NoPayloadID, false
	}
	return te.Payload, true
}

// ElementaryType is a built-in type name such as `uint256`, `bytes32` or `address payable`.
type ElementaryType struct {
	Name    source.StringID
	Payable bool
}

func (t *TypeExprs) NewElementary(span source.Span, name source.StringID, payable bool) TypeExprID {
	p := t.Elementary.Allocate(ElementaryType{Name: name, Payable: payable})
	return t.new(TypeElementary, span, PayloadID(p))
}

func (t *TypeExprs) ElementaryType(id TypeExprID) (*ElementaryType, bool) {
	p, ok := t.payload(id, TypeElementary)
	if !ok {
		return nil, false
	}
	return t.Elementary.Get(uint32(p)), true
}

// UserType names a struct, enum, contract or UDVT, possibly qualified.
type UserType struct {
	Path IdentPath
}

func (t *TypeExprs) NewUser(span source.Span, path IdentPath) TypeExprID {
	p := t.Users.Allocate(UserType{Path: path})
	return t.new(TypeUser, span, PayloadID(p))
}

func (t *TypeExprs) User(id TypeExprID) (*UserType, bool) {
	p, ok := t.payload(id, TypeUser)
	if !ok {
		return nil, false
	}
	return t.Users.Get(uint32(p)), true
}

// MappingType is `mapping(K name => V name)`; parameter names are optional.
type MappingType struct {
	Key       TypeExprID
	Value     TypeExprID
	KeyName   source.StringID
	ValueName source.StringID
}

func (t *TypeExprs) NewMapping(span source.Span, m MappingType) TypeExprID {
	p := t.Mappings.Allocate(m)
	return t.new(TypeMapping, span, PayloadID(p))
}

func (t *TypeExprs) Mapping(id TypeExprID) (*MappingType, bool) {
	p, ok := t.payload(id, TypeMapping)
	if !ok {
		return nil, false
	}
	return t.Mappings.Get(uint32(p)), true
}

// ArrayType is `T[]` or `T[N]`; Len is NoExprID for dynamic arrays.
type ArrayType struct {
	Elem TypeExprID
	Len  ExprID
}

func (t *TypeExprs) NewArray(span source.Span, elem TypeExprID, length ExprID) TypeExprID {
	p := t.Arrays.Allocate(ArrayType{Elem: elem, Len: length})
	return t.new(TypeArray, span, PayloadID(p))
}

func (t *TypeExprs) Array(id TypeExprID) (*ArrayType, bool) {
	p, ok := t.payload(id, TypeArray)
	if !ok {
		return nil, false
	}
	return t.Arrays.Get(uint32(p)), true
}

type FunctionType struct {
	Params     []Param
	Returns    []Param
	Visibility Visibility
	Mutability Mutability
}

func (t *TypeExprs) NewFunction(span source.Span, fn FunctionType) TypeExprID {
	p := t.Functions.Allocate(fn)
	return t.new(TypeFunction, span, PayloadID(p))
}

func (t *TypeExprs) Function(id TypeExprID) (*FunctionType, bool) {
	p, ok := t.payload(id, TypeFunction)
	if !ok {
		return nil, false
	}
	return t.Functions.Get(uint32(p)), true
}
