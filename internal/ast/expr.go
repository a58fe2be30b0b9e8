package ast

import (
	"solfront/internal/source"
	"solfront/internal/token"
)

type ExprKind uint8

const (
	ExprIdent ExprKind = iota + 1
	ExprLit
	ExprUnary
	ExprBinary
	ExprAssign
	ExprConditional
	ExprCall
	ExprCallOptions
	ExprMember
	ExprIndex
	ExprSlice
	ExprTuple
	ExprArray
	ExprNew
	ExprTypeName
	ExprMetaType
)

type Expr struct {
	Kind    ExprKind
	Span    source.Span
	Payload PayloadID
}

type Exprs struct {
	Arena        *Arena[Expr]
	Idents       *Arena[IdentExpr]
	Lits         *Arena[LitExpr]
	Unaries      *Arena[UnaryExpr]
	Binaries     *Arena[BinaryExpr]
	Assigns      *Arena[AssignExpr]
	Conditionals *Arena[ConditionalExpr]
	Calls        *Arena[CallExpr]
	CallOpts     *Arena[CallOptionsExpr]
	Members      *Arena[MemberExpr]
	Indexes      *Arena[IndexExpr]
	Slices       *Arena[SliceExpr]
	Tuples       *Arena[TupleExpr]
	News         *Arena[NewExpr]
	TypeNames    *Arena[TypeNameExpr]
}

func NewExprs(capHint uint) *Exprs {
	small := capHint/8 + 1
	return &Exprs{
		Arena:        NewArena[Expr](capHint),
		Idents:       NewArena[IdentExpr](capHint / 2),
		Lits:         NewArena[LitExpr](capHint / 4),
		Unaries:      NewArena[UnaryExpr](small),
		Binaries:     NewArena[BinaryExpr](capHint / 4),
		Assigns:      NewArena[AssignExpr](small),
		Conditionals: NewArena[ConditionalExpr](small),
		Calls:        NewArena[CallExpr](capHint / 4),
		CallOpts:     NewArena[CallOptionsExpr](small),
		Members:      NewArena[MemberExpr](capHint / 4),
		Indexes:      NewArena[IndexExpr](small),
		Slices:       NewArena[SliceExpr](small),
		Tuples:       NewArena[TupleExpr](small),
		News:         NewArena[NewExpr](small),
		TypeNames:    NewArena[TypeNameExpr](small),
	}
}

func (e *Exprs) new(kind ExprKind, span source.Span, payload PayloadID) ExprID {
	return ExprID(e.Arena.Allocate(Expr{Kind: kind, Span: span, Payload: payload}))
}

func (e *Exprs) Get(id ExprID) *Expr {
	return e.Arena.Get(uint32(id))
}

func (e *Exprs) payload(id ExprID, kind ExprKind) (PayloadID, bool) {
	ex := e.Get(id)
	if ex == nil || ex.Kind != kind {
		return NoPayloadID, false
	}
	return ex.Payload, true
}

type IdentExpr struct {
	Name source.StringID
}

func (e *Exprs) NewIdent(span source.Span, name source.StringID) ExprID {
	p := e.Idents.Allocate(IdentExpr{Name: name})
	return e.new(ExprIdent, span, PayloadID(p))
}

func (e *Exprs) Ident(id ExprID) (*IdentExpr, bool) {
	p, ok := e.payload(id, ExprIdent)
	if !ok {
		return nil, false
	}
	return e.Idents.Get(uint32(p)), true
}

// LitExpr is a literal. Kind is the token kind (KwTrue/KwFalse for booleans).
// Value holds the decoded form: digits without separators or the unescaped string.
// Unit is the denomination suffix such as `ether` or `days`.
type LitExpr struct {
	Kind     token.Kind
	Raw      string
	Value    string
	Unit     source.StringID
	UnitSpan source.Span
}

func (e *Exprs) NewLit(span source.Span, lit LitExpr) ExprID {
	p := e.Lits.Allocate(lit)
	return e.new(ExprLit, span, PayloadID(p))
}

func (e *Exprs) Lit(id ExprID) (*LitExpr, bool) {
	p, ok := e.payload(id, ExprLit)
	if !ok {
		return nil, false
	}
	return e.Lits.Get(uint32(p)), true
}

// UnaryExpr covers prefix `! ~ - ++ -- delete` and postfix `++ --`.
type UnaryExpr struct {
	Op      token.Kind
	Operand ExprID
	Postfix bool
}

func (e *Exprs) NewUnary(span source.Span, op token.Kind, operand ExprID, postfix bool) ExprID {
	p := e.Unaries.Allocate(UnaryExpr{Op: op, Operand: operand, Postfix: postfix})
	return e.new(ExprUnary, span, PayloadID(p))
}

func (e *Exprs) Unary(id ExprID) (*UnaryExpr, bool) {
	p, ok := e.payload(id, ExprUnary)
	if !ok {
		return nil, false
	}
	return e.Unaries.Get(uint32(p)), true
}

type BinaryExpr struct {
	Op    token.Kind
	Left  ExprID
	Right ExprID
}

func (e *Exprs) NewBinary(span source.Span, op token.Kind, left, right ExprID) ExprID {
	p := e.Binaries.Allocate(BinaryExpr{Op: op, Left: left, Right: right})
	return e.new(ExprBinary, span, PayloadID(p))
}

func (e *Exprs) Binary(id ExprID) (*BinaryExpr, bool) {
	p, ok := e.payload(id, ExprBinary)
	if !ok {
		return nil, false
	}
	return e.Binaries.Get(uint32(p)), true
}

// AssignExpr is `=` or a compound assignment; Target may be a tuple.
type AssignExpr struct {
	Op     token.Kind
	Target ExprID
	Value  ExprID
}

func (e *Exprs) NewAssign(span source.Span, op token.Kind, target, value ExprID) ExprID {
	p := e.Assigns.Allocate(AssignExpr{Op: op, Target: target, Value: value})
	return e.new(ExprAssign, span, PayloadID(p))
}

func (e *Exprs) Assign(id ExprID) (*AssignExpr, bool) {
	p, ok := e.payload(id, ExprAssign)
	if !ok {
		return nil, false
	}
	return e.Assigns.Get(uint32(p)), true
}

type ConditionalExpr struct {
	Cond ExprID
	Then ExprID
	Else ExprID
}

func (e *Exprs) NewConditional(span source.Span, cond, then, els ExprID) ExprID {
	p := e.Conditionals.Allocate(ConditionalExpr{Cond: cond, Then: then, Else: els})
	return e.new(ExprConditional, span, PayloadID(p))
}

func (e *Exprs) Conditional(id ExprID) (*ConditionalExpr, bool) {
	p, ok := e.payload(id, ExprConditional)
	if !ok {
		return nil, false
	}
	return e.Conditionals.Get(uint32(p)), true
}

// CallExpr is a call; Named is set for `f({a: 1, b: 2})` with Names parallel to Args.
type CallExpr struct {
	Callee ExprID
	Args   []ExprID
	Names  []source.StringID
	Named  bool
}

func (e *Exprs) NewCall(span source.Span, call CallExpr) ExprID {
	p := e.Calls.Allocate(call)
	return e.new(ExprCall, span, PayloadID(p))
}

func (e *Exprs) Call(id ExprID) (*CallExpr, bool) {
	p, ok := e.payload(id, ExprCall)
	if !ok {
		return nil, false
	}
	return e.Calls.Get(uint32(p)), true
}

// CallOptionsExpr is `callee{value: v, gas: g}`.
type CallOptionsExpr struct {
	Callee ExprID
	Names  []source.StringID
	Spans  []source.Span
	Values []ExprID
}

func (e *Exprs) NewCallOptions(span source.Span, opts CallOptionsExpr) ExprID {
	p := e.CallOpts.Allocate(opts)
	return e.new(ExprCallOptions, span, PayloadID(p))
}

func (e *Exprs) CallOptions(id ExprID) (*CallOptionsExpr, bool) {
	p, ok := e.payload(id, ExprCallOptions)
	if !ok {
		return nil, false
	}
	return e.CallOpts.Get(uint32(p)), true
}

type MemberExpr struct {
	Target   ExprID
	Name     source.StringID
	NameSpan source.Span
}

func (e *Exprs) NewMember(span source.Span, target ExprID, name source.StringID, nameSpan source.Span) ExprID {
	p := e.Members.Allocate(MemberExpr{Target: target, Name: name, NameSpan: nameSpan})
	return e.new(ExprMember, span, PayloadID(p))
}

func (e *Exprs) Member(id ExprID) (*MemberExpr, bool) {
	p, ok := e.payload(id, ExprMember)
	if !ok {
		return nil, false
	}
	return e.Members.Get(uint32(p)), true
}

// IndexExpr is `a[i]`; Index is NoExprID for `T[]` used as a type expression.
type IndexExpr struct {
	Target ExprID
	Index  ExprID
}

func (e *Exprs) NewIndex(span source.Span, target, index ExprID) ExprID {
	p := e.Indexes.Allocate(IndexExpr{Target: target, Index: index})
	return e.new(ExprIndex, span, PayloadID(p))
}

func (e *Exprs) Index(id ExprID) (*IndexExpr, bool) {
	p, ok := e.payload(id, ExprIndex)
	if !ok {
		return nil, false
	}
	return e.Indexes.Get(uint32(p)), true
}

// SliceExpr is `a[start:end]` with optional bounds.
type SliceExpr struct {
	Target ExprID
	Start  ExprID
	End    ExprID
}

func (e *Exprs) NewSlice(span source.Span, target, start, end ExprID) ExprID {
	p := e.Slices.Allocate(SliceExpr{Target: target, Start: start, End: end})
	return e.new(ExprSlice, span, PayloadID(p))
}

func (e *Exprs) Slice(id ExprID) (*SliceExpr, bool) {
	p, ok := e.payload(id, ExprSlice)
	if !ok {
		return nil, false
	}
	return e.Slices.Get(uint32(p)), true
}

// TupleExpr is `(a, , b)` or an inline array `[a, b]`; NoExprID marks an empty slot.
type TupleExpr struct {
	Elems []ExprID
}

func (e *Exprs) NewTuple(span source.Span, elems []ExprID) ExprID {
	p := e.Tuples.Allocate(TupleExpr{Elems: elems})
	return e.new(ExprTuple, span, PayloadID(p))
}

func (e *Exprs) NewArray(span source.Span, elems []ExprID) ExprID {
	p := e.Tuples.Allocate(TupleExpr{Elems: elems})
	return e.new(ExprArray, span, PayloadID(p))
}

func (e *Exprs) Tuple(id ExprID) (*TupleExpr, bool) {
	ex := e.Get(id)
	if ex == nil || (ex.Kind != ExprTuple && ex.Kind != ExprArray) {
		return nil, false
	}
	return e.Tuples.Get(uint32(ex.Payload)), true
}

type NewExpr struct {
	Type TypeExprID
}

func (e *Exprs) NewNew(span source.Span, typ TypeExprID) ExprID {
	p := e.News.Allocate(NewExpr{Type: typ})
	return e.new(ExprNew, span, PayloadID(p))
}

func (e *Exprs) New(id ExprID) (*NewExpr, bool) {
	p, ok := e.payload(id, ExprNew)
	if !ok {
		return nil, false
	}
	return e.News.Get(uint32(p)), true
}

// TypeNameExpr is a type in expression position: `uint8(x)`, `payable(a)`, `bytes.concat`
// and the operand of `type(X)`.
type TypeNameExpr struct {
	Type TypeExprID
}

func (e *Exprs) NewTypeName(span source.Span, typ TypeExprID) ExprID {
	p := e.TypeNames.Allocate(TypeNameExpr{Type: typ})
	return e.new(ExprTypeName, span, PayloadID(p))
}

func (e *Exprs) TypeName(id ExprID) (*TypeNameExpr, bool) {
	p, ok := e.payload(id, ExprTypeName)
	if !ok {
		return nil, false
	}
	return e.TypeNames.Get(uint32(p)), true
}

// NewMetaType builds `type(X)`; the payload is shared with TypeNameExpr.
func (e *Exprs) NewMetaType(span source.Span, typ TypeExprID) ExprID {
	p := e.TypeNames.Allocate(TypeNameExpr{Type: typ})
	return e.new(ExprMetaType, span, PayloadID(p))
}

func (e *Exprs) MetaType(id ExprID) (*TypeNameExpr, bool) {
	p, ok := e.payload(id, ExprMetaType)
	if !ok {
		return nil, false
	}
	return e.TypeNames.Get(uint32(p)), true
}
