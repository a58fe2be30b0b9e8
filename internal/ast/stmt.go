package ast

import (
	"solfront/internal/source"
)

type StmtKind uint8

const (
	StmtBlock StmtKind = iota + 1
	StmtVarDecl
	StmtExpr
	StmtIf
	StmtFor
	StmtWhile
	StmtDoWhile
	StmtReturn
	StmtBreak
	StmtContinue
	StmtEmit
	StmtRevert
	StmtTry
	StmtAssembly
	StmtPlaceholder
)

type Stmt struct {
	Kind    StmtKind
	Span    source.Span
	Payload PayloadID
}

type Stmts struct {
	Arena      *Arena[Stmt]
	Blocks     *Arena[BlockStmt]
	VarDecls   *Arena[VarDeclStmt]
	Exprs      *Arena[ExprStmt]
	Ifs        *Arena[IfStmt]
	Fors       *Arena[ForStmt]
	Whiles     *Arena[WhileStmt]
	Returns    *Arena[ReturnStmt]
	Emits      *Arena[EmitStmt]
	Reverts    *Arena[RevertStmt]
	Tries      *Arena[TryStmt]
	Assemblies *Arena[AssemblyBlock]
}

func NewStmts(capHint uint) *Stmts {
	small := capHint/8 + 1
	return &Stmts{
		Arena:      NewArena[Stmt](capHint),
		Blocks:     NewArena[BlockStmt](capHint / 4),
		VarDecls:   NewArena[VarDeclStmt](capHint / 4),
		Exprs:      NewArena[ExprStmt](capHint / 4),
		Ifs:        NewArena[IfStmt](small),
		Fors:       NewArena[ForStmt](small),
		Whiles:     NewArena[WhileStmt](small),
		Returns:    NewArena[ReturnStmt](small),
		Emits:      NewArena[EmitStmt](small),
		Reverts:    NewArena[RevertStmt](small),
		Tries:      NewArena[TryStmt](small),
		Assemblies: NewArena[AssemblyBlock](small),
	}
}

func (s *Stmts) new(kind StmtKind, span source.Span, payload PayloadID) StmtID {
	return StmtID(s.Arena.Allocate(Stmt{Kind: kind, Span: span, Payload: payload}))
}

func (s *Stmts) Get(id StmtID) *Stmt {
	return s.Arena.Get(uint32(id))
}

func (s *Stmts) payload(id StmtID, kind StmtKind) (PayloadID, bool) {
	st := s.Get(id)
	if st == nil || st.Kind != kind {
		return NoPayloadID, false
	}
	return st.Payload, true
}

type BlockStmt struct {
	Stmts     []StmtID
	Unchecked bool
}

func (s *Stmts) NewBlock(span source.Span, stmts []StmtID, unchecked bool) StmtID {
	p := s.Blocks.Allocate(BlockStmt{Stmts: append([]StmtID(nil), stmts...), Unchecked: unchecked})
	return s.new(StmtBlock, span, PayloadID(p))
}

func (s *Stmts) Block(id StmtID) (*BlockStmt, bool) {
	p, ok := s.payload(id, StmtBlock)
	if !ok {
		return nil, false
	}
	return s.Blocks.Get(uint32(p)), true
}

// VarSlot is one declared local; a zero Type marks an empty tuple component.
type VarSlot struct {
	Type     TypeExprID
	Location DataLocation
	Name     source.StringID
	NameSpan source.Span
	Span     source.Span
}

func (v VarSlot) Empty() bool { return !v.Type.IsValid() }

// VarDeclStmt declares one local or destructures a tuple when Tuple is set.
type VarDeclStmt struct {
	Vars  []VarSlot
	Tuple bool
	Value ExprID
}

func (s *Stmts) NewVarDecl(span source.Span, decl VarDeclStmt) StmtID {
	p := s.VarDecls.Allocate(decl)
	return s.new(StmtVarDecl, span, PayloadID(p))
}

func (s *Stmts) VarDecl(id StmtID) (*VarDeclStmt, bool) {
	p, ok := s.payload(id, StmtVarDecl)
	if !ok {
		return nil, false
	}
	return s.VarDecls.Get(uint32(p)), true
}

type ExprStmt struct {
	Expr ExprID
}

func (s *Stmts) NewExpr(span source.Span, expr ExprID) StmtID {
	p := s.Exprs.Allocate(ExprStmt{Expr: expr})
	return s.new(StmtExpr, span, PayloadID(p))
}

func (s *Stmts) Expr(id StmtID) (*ExprStmt, bool) {
	p, ok := s.payload(id, StmtExpr)
	if !ok {
		return nil, false
	}
	return s.Exprs.Get(uint32(p)), true
}

type IfStmt struct {
	Cond ExprID
	Then StmtID
	Else StmtID
}

func (s *Stmts) NewIf(span source.Span, cond ExprID, then, els StmtID) StmtID {
	p := s.Ifs.Allocate(IfStmt{Cond: cond, Then: then, Else: els})
	return s.new(StmtIf, span, PayloadID(p))
}

func (s *Stmts) If(id StmtID) (*IfStmt, bool) {
	p, ok := s.payload(id, StmtIf)
	if !ok {
		return nil, false
	}
	return s.Ifs.Get(uint32(p)), true
}

// ForStmt has optional Init, Cond and Post.
type ForStmt struct {
	Init StmtID
	Cond ExprID
	Post ExprID
	Body StmtID
}

func (s *Stmts) NewFor(span source.Span, st ForStmt) StmtID {
	p := s.Fors.Allocate(st)
	return s.new(StmtFor, span, PayloadID(p))
}

func (s *Stmts) For(id StmtID) (*ForStmt, bool) {
	p, ok := s.payload(id, StmtFor)
	if !ok {
		return nil, false
	}
	return s.Fors.Get(uint32(p)), true
}

// WhileStmt backs both `while` and `do ... while` statements.
type WhileStmt struct {
	Cond ExprID
	Body StmtID
}

func (s *Stmts) NewWhile(span source.Span, cond ExprID, body StmtID, doWhile bool) StmtID {
	p := s.Whiles.Allocate(WhileStmt{Cond: cond, Body: body})
	kind := StmtWhile
	if doWhile {
		kind = StmtDoWhile
	}
	return s.new(kind, span, PayloadID(p))
}

func (s *Stmts) While(id StmtID) (*WhileStmt, bool) {
	st := s.Get(id)
	if st == nil || (st.Kind != StmtWhile && st.Kind != StmtDoWhile) {
		return nil, false
	}
	return s.Whiles.Get(uint32(st.Payload)), true
}

type ReturnStmt struct {
	Value ExprID
}

func (s *Stmts) NewReturn(span source.Span, value ExprID) StmtID {
	p := s.Returns.Allocate(ReturnStmt{Value: value})
	return s.new(StmtReturn, span, PayloadID(p))
}

func (s *Stmts) Return(id StmtID) (*ReturnStmt, bool) {
	p, ok := s.payload(id, StmtReturn)
	if !ok {
		return nil, false
	}
	return s.Returns.Get(uint32(p)), true
}

func (s *Stmts) NewBreak(span source.Span) StmtID {
	return s.new(StmtBreak, span, NoPayloadID)
}

func (s *Stmts) NewContinue(span source.Span) StmtID {
	return s.new(StmtContinue, span, NoPayloadID)
}

func (s *Stmts) NewPlaceholder(span source.Span) StmtID {
	return s.new(StmtPlaceholder, span, NoPayloadID)
}

// EmitStmt holds the event call expression.
type EmitStmt struct {
	Call ExprID
}

func (s *Stmts) NewEmit(span source.Span, call ExprID) StmtID {
	p := s.Emits.Allocate(EmitStmt{Call: call})
	return s.new(StmtEmit, span, PayloadID(p))
}

func (s *Stmts) Emit(id StmtID) (*EmitStmt, bool) {
	p, ok := s.payload(id, StmtEmit)
	if !ok {
		return nil, false
	}
	return s.Emits.Get(uint32(p)), true
}

// RevertStmt is `revert E(args);` with a custom error.
type RevertStmt struct {
	Call ExprID
}

func (s *Stmts) NewRevert(span source.Span, call ExprID) StmtID {
	p := s.Reverts.Allocate(RevertStmt{Call: call})
	return s.new(StmtRevert, span, PayloadID(p))
}

func (s *Stmts) Revert(id StmtID) (*RevertStmt, bool) {
	p, ok := s.payload(id, StmtRevert)
	if !ok {
		return nil, false
	}
	return s.Reverts.Get(uint32(p)), true
}

type CatchKind uint8

const (
	// CatchError is `catch Error(string memory reason)`.
	CatchError CatchKind = iota + 1
	// CatchPanic is `catch Panic(uint code)`.
	CatchPanic
	// CatchRaw is `catch (bytes memory data)` or a bare `catch`.
	CatchRaw
)

type CatchClause struct {
	Kind   CatchKind
	Ident  source.StringID
	Params []Param
	Body   StmtID
	Span   source.Span
}

type TryStmt struct {
	Call    ExprID
	Returns []Param
	Body    StmtID
	Catches []CatchClause
}

func (s *Stmts) NewTry(span source.Span, st TryStmt) StmtID {
	p := s.Tries.Allocate(st)
	return s.new(StmtTry, span, PayloadID(p))
}

func (s *Stmts) Try(id StmtID) (*TryStmt, bool) {
	p, ok := s.payload(id, StmtTry)
	if !ok {
		return nil, false
	}
	return s.Tries.Get(uint32(p)), true
}

// AssemblyBlock is an inline assembly body kept as an opaque span of balanced braces.
// Tokens covers the braces themselves.
type AssemblyBlock struct {
	Dialect string
	Flags   []string
	Tokens  source.Span
}

func (s *Stmts) NewAssembly(span source.Span, block AssemblyBlock) StmtID {
	p := s.Assemblies.Allocate(block)
	return s.new(StmtAssembly, span, PayloadID(p))
}

func (s *Stmts) Assembly(id StmtID) (*AssemblyBlock, bool) {
	p, ok := s.payload(id, StmtAssembly)
	if !ok {
		return nil, false
	}
	return s.Assemblies.Get(uint32(p)), true
}
