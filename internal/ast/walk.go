package ast

// ExprChildren appends the direct sub-expressions of id to dst in source order.
// Type expressions are not descended into.
func (b *Builder) ExprChildren(dst []ExprID, id ExprID) []ExprID {
	ex := b.Exprs.Get(id)
	if ex == nil {
		return dst
	}
	push := func(ids ...ExprID) {
		for _, c := range ids {
			if c.IsValid() {
				dst = append(dst, c)
			}
		}
	}
	switch ex.Kind {
	case ExprUnary:
		u, _ := b.Exprs.Unary(id)
		push(u.Operand)
	case ExprBinary:
		bin, _ := b.Exprs.Binary(id)
		push(bin.Left, bin.Right)
	case ExprAssign:
		a, _ := b.Exprs.Assign(id)
		push(a.Target, a.Value)
	case ExprConditional:
		c, _ := b.Exprs.Conditional(id)
		push(c.Cond, c.Then, c.Else)
	case ExprCall:
		c, _ := b.Exprs.Call(id)
		push(c.Callee)
		push(c.Args...)
	case ExprCallOptions:
		c, _ := b.Exprs.CallOptions(id)
		push(c.Callee)
		push(c.Values...)
	case ExprMember:
		m, _ := b.Exprs.Member(id)
		push(m.Target)
	case ExprIndex:
		ix, _ := b.Exprs.Index(id)
		push(ix.Target, ix.Index)
	case ExprSlice:
		s, _ := b.Exprs.Slice(id)
		push(s.Target, s.Start, s.End)
	case ExprTuple, ExprArray:
		t, _ := b.Exprs.Tuple(id)
		push(t.Elems...)
	}
	return dst
}

// InspectExpr calls fn for id and, while fn returns true, for each sub-expression depth first.
func (b *Builder) InspectExpr(id ExprID, fn func(ExprID) bool) {
	if !id.IsValid() || !fn(id) {
		return
	}
	for _, c := range b.ExprChildren(nil, id) {
		b.InspectExpr(c, fn)
	}
}

// StmtVisitor receives statements and the top-level expressions they own.
// Returning false from Stmt skips the statement's children.
type StmtVisitor struct {
	Stmt func(StmtID) bool
	Expr func(ExprID)
}

// InspectStmt walks id and its nested statements in source order.
func (b *Builder) InspectStmt(id StmtID, v StmtVisitor) {
	st := b.Stmts.Get(id)
	if st == nil {
		return
	}
	if v.Stmt != nil && !v.Stmt(id) {
		return
	}
	expr := func(ids ...ExprID) {
		if v.Expr == nil {
			return
		}
		for _, e := range ids {
			if e.IsValid() {
				v.Expr(e)
			}
		}
	}
	switch st.Kind {
	case StmtBlock:
		blk, _ := b.Stmts.Block(id)
		for _, s := range blk.Stmts {
			b.InspectStmt(s, v)
		}
	case StmtVarDecl:
		d, _ := b.Stmts.VarDecl(id)
		expr(d.Value)
	case StmtExpr:
		e, _ := b.Stmts.Expr(id)
		expr(e.Expr)
	case StmtIf:
		s, _ := b.Stmts.If(id)
		expr(s.Cond)
		b.InspectStmt(s.Then, v)
		b.InspectStmt(s.Else, v)
	case StmtFor:
		s, _ := b.Stmts.For(id)
		b.InspectStmt(s.Init, v)
		expr(s.Cond, s.Post)
		b.InspectStmt(s.Body, v)
	case StmtWhile, StmtDoWhile:
		s, _ := b.Stmts.While(id)
		expr(s.Cond)
		b.InspectStmt(s.Body, v)
	case StmtReturn:
		s, _ := b.Stmts.Return(id)
		expr(s.Value)
	case StmtEmit:
		s, _ := b.Stmts.Emit(id)
		expr(s.Call)
	case StmtRevert:
		s, _ := b.Stmts.Revert(id)
		expr(s.Call)
	case StmtTry:
		s, _ := b.Stmts.Try(id)
		expr(s.Call)
		b.InspectStmt(s.Body, v)
		for _, c := range s.Catches {
			b.InspectStmt(c.Body, v)
		}
	}
}
