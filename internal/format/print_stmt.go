package format

import (
	"strings"

	"solfront/internal/ast"
)

// printBlock writes `{ ... }` starting at the current position and leaves the
// cursor right after the closing brace.
func (p *printer) printBlock(id ast.StmtID) {
	blk, ok := p.b.Stmts.Block(id)
	if !ok {
		return
	}
	open := "{"
	if blk.Unchecked {
		open = "unchecked {"
	}
	if len(blk.Stmts) == 0 {
		p.w.WriteString(open + "}")
		return
	}
	p.w.Line(open)
	p.w.Indent()
	for _, s := range blk.Stmts {
		p.printStmt(s)
	}
	p.w.Dedent()
	p.w.WriteString("}")
}

func (p *printer) isBlock(id ast.StmtID) bool {
	st := p.b.Stmts.Get(id)
	return st != nil && st.Kind == ast.StmtBlock
}

// printBody prints a loop or branch body: blocks stay on the header line,
// other statements go on their own indented line.
func (p *printer) printBody(head string, body ast.StmtID) {
	if p.isBlock(body) {
		p.w.WriteString(head + " ")
		p.printBlock(body)
		return
	}
	p.w.Line(head)
	p.w.Indent()
	p.printStmtNoNewline(body)
	p.w.Dedent()
}

func (p *printer) printStmt(id ast.StmtID) {
	p.printStmtNoNewline(id)
	p.w.Newline()
}

func (p *printer) printStmtNoNewline(id ast.StmtID) {
	st := p.b.Stmts.Get(id)
	if st == nil {
		return
	}
	switch st.Kind {
	case ast.StmtBlock:
		p.printBlock(id)
	case ast.StmtVarDecl, ast.StmtExpr:
		p.w.WriteString(p.simpleStmt(id))
	case ast.StmtIf:
		p.printIf(id)
	case ast.StmtFor:
		f, _ := p.b.Stmts.For(id)
		init := ";"
		if f.Init.IsValid() {
			init = p.simpleStmt(f.Init)
		}
		var cond, post string
		if f.Cond.IsValid() {
			cond = " " + p.expr(f.Cond)
		}
		if f.Post.IsValid() {
			post = " " + p.expr(f.Post)
		}
		p.printBody("for ("+init+cond+";"+post+")", f.Body)
	case ast.StmtWhile:
		w, _ := p.b.Stmts.While(id)
		p.printBody("while ("+p.expr(w.Cond)+")", w.Body)
	case ast.StmtDoWhile:
		w, _ := p.b.Stmts.While(id)
		if p.isBlock(w.Body) {
			p.w.WriteString("do ")
			p.printBlock(w.Body)
			p.w.WriteString(" while (" + p.expr(w.Cond) + ");")
			return
		}
		p.w.Line("do")
		p.w.Indent()
		p.printStmt(w.Body)
		p.w.Dedent()
		p.w.WriteString("while (" + p.expr(w.Cond) + ");")
	case ast.StmtReturn:
		r, _ := p.b.Stmts.Return(id)
		if r.Value.IsValid() {
			p.w.WriteString("return " + p.expr(r.Value) + ";")
			return
		}
		p.w.WriteString("return;")
	case ast.StmtBreak:
		p.w.WriteString("break;")
	case ast.StmtContinue:
		p.w.WriteString("continue;")
	case ast.StmtPlaceholder:
		p.w.WriteString("_;")
	case ast.StmtEmit:
		e, _ := p.b.Stmts.Emit(id)
		p.w.WriteString("emit " + p.expr(e.Call) + ";")
	case ast.StmtRevert:
		r, _ := p.b.Stmts.Revert(id)
		p.w.WriteString("revert " + p.expr(r.Call) + ";")
	case ast.StmtTry:
		p.printTry(id)
	case ast.StmtAssembly:
		a, _ := p.b.Stmts.Assembly(id)
		head := "assembly "
		if a.Dialect != "" {
			head += `"` + a.Dialect + `" `
		}
		if len(a.Flags) > 0 {
			head += `("` + strings.Join(a.Flags, `", "`) + `") `
		}
		p.w.WriteString(head)
		p.w.CopySpan(a.Tokens)
	}
}

// simpleStmt renders a variable declaration or expression statement including the `;`.
func (p *printer) simpleStmt(id ast.StmtID) string {
	if e, ok := p.b.Stmts.Expr(id); ok {
		return p.expr(e.Expr) + ";"
	}
	d, ok := p.b.Stmts.VarDecl(id)
	if !ok {
		return ";"
	}
	slots := make([]string, len(d.Vars))
	for i, v := range d.Vars {
		if v.Empty() {
			continue
		}
		s := p.typeExpr(v.Type)
		if v.Location != ast.LocNone {
			s += " " + v.Location.String()
		}
		slots[i] = s + " " + p.b.Name(v.Name)
	}
	lhs := strings.Join(slots, ", ")
	if d.Tuple {
		lhs = "(" + lhs + ")"
	}
	if d.Value.IsValid() {
		return lhs + " = " + p.expr(d.Value) + ";"
	}
	return lhs + ";"
}

func (p *printer) printIf(id ast.StmtID) {
	s, _ := p.b.Stmts.If(id)
	head := "if (" + p.expr(s.Cond) + ")"
	thenBraced := p.isBlock(s.Then)
	if inner := p.b.Stmts.Get(s.Then); s.Else.IsValid() && inner.Kind == ast.StmtIf {
		// braces keep the else bound to this if
		p.w.Line(head + " {")
		p.w.Indent()
		p.printStmt(s.Then)
		p.w.Dedent()
		p.w.WriteString("}")
		thenBraced = true
	} else {
		p.printBody(head, s.Then)
	}
	if !s.Else.IsValid() {
		return
	}
	if thenBraced {
		p.w.WriteString(" ")
	} else {
		p.w.Newline()
	}
	if elseIf := p.b.Stmts.Get(s.Else); elseIf.Kind == ast.StmtIf {
		p.w.WriteString("else ")
		p.printIf(s.Else)
		return
	}
	p.printBody("else", s.Else)
}

func (p *printer) printTry(id ast.StmtID) {
	t, _ := p.b.Stmts.Try(id)
	head := "try " + p.expr(t.Call)
	if len(t.Returns) > 0 {
		head += " returns " + p.params(t.Returns)
	}
	p.w.WriteString(head + " ")
	p.printBlock(t.Body)
	for _, c := range t.Catches {
		clause := " catch "
		if c.Ident != 0 {
			clause += p.b.Name(c.Ident)
		}
		if len(c.Params) > 0 || c.Ident != 0 {
			clause += p.params(c.Params)
		}
		p.w.WriteString(strings.TrimRight(clause, " ") + " ")
		p.printBlock(c.Body)
	}
}
