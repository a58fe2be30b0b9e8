package ast

import (
	"testing"

	"solfront/internal/source"
	"solfront/internal/token"
)

func TestArenaIndicesStartAtOne(t *testing.T) {
	a := NewArena[int](0)
	if got := a.Get(0); got != nil {
		t.Fatalf("Get(0) = %v, want nil", got)
	}
	id := a.Allocate(7)
	if id != 1 {
		t.Fatalf("first index = %d, want 1", id)
	}
	if v := a.Get(id); v == nil || *v != 7 {
		t.Fatalf("Get(1) = %v", v)
	}
	if a.Get(2) != nil {
		t.Fatalf("out of range Get returned a value")
	}
}

func TestAccessorsCheckKind(t *testing.T) {
	b := NewBuilder(Hints{}, nil)
	sp := source.Span{File: 1, Start: 0, End: 1}
	x := b.Exprs.NewIdent(sp, b.Strings.Intern("x"))
	if _, ok := b.Exprs.Binary(x); ok {
		t.Fatalf("ident accessed as binary")
	}
	if id, ok := b.Exprs.Ident(x); !ok || b.Name(id.Name) != "x" {
		t.Fatalf("ident accessor failed")
	}
	fn := b.Items.NewFunction(sp, FunctionDecl{Name: b.Strings.Intern("f")}, "")
	if _, ok := b.Items.Contract(fn); ok {
		t.Fatalf("function accessed as contract")
	}
}

func TestInspectExprVisitsInOrder(t *testing.T) {
	b := NewBuilder(Hints{}, nil)
	sp := source.Span{File: 1}
	a := b.Exprs.NewIdent(sp, b.Strings.Intern("a"))
	c := b.Exprs.NewIdent(sp, b.Strings.Intern("c"))
	one := b.Exprs.NewLit(sp, LitExpr{Kind: token.NumberLit, Raw: "1", Value: "1"})
	sum := b.Exprs.NewBinary(sp, token.Plus, c, one)
	call := b.Exprs.NewCall(sp, CallExpr{Callee: a, Args: []ExprID{sum}})

	var got []ExprID
	b.InspectExpr(call, func(id ExprID) bool {
		got = append(got, id)
		return true
	})
	want := []ExprID{call, a, sum, c, one}
	if len(got) != len(want) {
		t.Fatalf("visited %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("visited %v, want %v", got, want)
		}
	}
}

func TestInspectStmtSkipsChildren(t *testing.T) {
	b := NewBuilder(Hints{}, nil)
	sp := source.Span{File: 1}
	x := b.Exprs.NewIdent(sp, b.Strings.Intern("x"))
	inner := b.Stmts.NewExpr(sp, x)
	blk := b.Stmts.NewBlock(sp, []StmtID{inner}, true)
	outer := b.Stmts.NewBlock(sp, []StmtID{blk}, false)

	var stmts, exprs int
	b.InspectStmt(outer, StmtVisitor{
		Stmt: func(id StmtID) bool {
			stmts++
			blkData, ok := b.Stmts.Block(id)
			return !ok || !blkData.Unchecked
		},
		Expr: func(ExprID) { exprs++ },
	})
	if stmts != 2 || exprs != 0 {
		t.Fatalf("stmts=%d exprs=%d, want 2 and 0", stmts, exprs)
	}
}
