package parser

import (
	"solfront/internal/ast"
	"solfront/internal/diag"
	"solfront/internal/token"
)

// parseBlock parses `{ stmts }`. It always returns a block node, even when
// statements inside failed and were skipped.
func (p *Parser) parseBlock(unchecked bool) ast.StmtID {
	start := p.pos
	if unchecked {
		p.advance()
	}
	if _, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{'"); !ok {
		return p.arenas.Stmts.NewBlock(p.spanFrom(start), nil, unchecked)
	}
	stmts := make([]ast.StmtID, 0, 8)
	for !p.atAny(token.RBrace, token.EOF) {
		stmtStart := p.pos
		id, ok := p.parseStmt()
		if ok {
			stmts = append(stmts, id)
			continue
		}
		p.resyncStmt(stmtStart)
	}
	p.expect(token.RBrace, diag.SynUnclosedDelimiter, "expected '}' to close block")
	return p.arenas.Stmts.NewBlock(p.spanFrom(start), stmts, unchecked)
}

func (p *Parser) parseStmt() (ast.StmtID, bool) {
	tok := p.peek()
	switch tok.Kind {
	case token.LBrace:
		return p.parseBlock(false), true
	case token.KwUnchecked:
		return p.parseBlock(true), true
	case token.KwIf:
		return p.parseIf()
	case token.KwFor:
		return p.parseFor()
	case token.KwWhile:
		return p.parseWhile()
	case token.KwDo:
		return p.parseDoWhile()
	case token.KwReturn:
		return p.parseReturn()
	case token.KwBreak, token.KwContinue:
		start := p.pos
		p.advance()
		if !p.expectSemicolon() {
			return ast.NoStmtID, false
		}
		if tok.Kind == token.KwBreak {
			return p.arenas.Stmts.NewBreak(p.spanFrom(start)), true
		}
		return p.arenas.Stmts.NewContinue(p.spanFrom(start)), true
	case token.KwEmit:
		return p.parseEmit()
	case token.KwTry:
		return p.parseTry()
	case token.KwAssembly:
		return p.parseAssembly()
	case token.Ident:
		if tok.Text == "_" && p.peekN(1).Kind == token.Semicolon {
			start := p.pos
			p.advance()
			p.advance()
			return p.arenas.Stmts.NewPlaceholder(p.spanFrom(start)), true
		}
		if tok.Text == "revert" && p.peekN(1).Kind == token.Ident {
			return p.parseRevert()
		}
	}
	return p.parseSimpleStmt()
}

// parseSimpleStmt parses a variable declaration or an expression statement,
// both terminated by `;`.
func (p *Parser) parseSimpleStmt() (ast.StmtID, bool) {
	if p.at(token.LParen) && p.isTupleDecl() {
		return p.parseTupleDecl()
	}
	if p.looksLikeType(p.pos) {
		return p.parseVarDecl()
	}
	start := p.pos
	expr, ok := p.parseExpr()
	if !ok {
		return ast.NoStmtID, false
	}
	if !p.expectSemicolon() {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewExpr(p.spanFrom(start), expr), true
}

// isTupleDecl reports whether `(` starts `(T a, , U b) = ...` rather than a tuple expression.
func (p *Parser) isTupleDecl() bool {
	i := p.pos + 1
	for p.tokAt(i).Kind == token.Comma {
		i++
	}
	return p.looksLikeType(i)
}

func (p *Parser) parseVarSlot() (ast.VarSlot, bool) {
	start := p.pos
	typ, ok := p.parseTypeName()
	if !ok {
		return ast.VarSlot{}, false
	}
	slot := ast.VarSlot{Type: typ}
	if p.peek().Kind.IsDataLocation() {
		slot.Location = locationOf(p.advance().Kind)
	}
	if slot.Name, slot.NameSpan, ok = p.expectIdent("variable name"); !ok {
		return slot, false
	}
	slot.Span = p.spanFrom(start)
	return slot, true
}

func (p *Parser) parseVarDecl() (ast.StmtID, bool) {
	start := p.pos
	slot, ok := p.parseVarSlot()
	if !ok {
		return ast.NoStmtID, false
	}
	decl := ast.VarDeclStmt{Vars: []ast.VarSlot{slot}}
	if _, has := p.eat(token.Assign); has {
		if decl.Value, ok = p.parseExpr(); !ok {
			return ast.NoStmtID, false
		}
	}
	if !p.expectSemicolon() {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewVarDecl(p.spanFrom(start), decl), true
}

func (p *Parser) parseTupleDecl() (ast.StmtID, bool) {
	start := p.pos
	p.advance()
	decl := ast.VarDeclStmt{Tuple: true}
	for {
		if p.atAny(token.Comma, token.RParen) {
			decl.Vars = append(decl.Vars, ast.VarSlot{Span: p.diagSpan()})
		} else {
			slot, ok := p.parseVarSlot()
			if !ok {
				return ast.NoStmtID, false
			}
			decl.Vars = append(decl.Vars, slot)
		}
		if _, more := p.eat(token.Comma); !more {
			break
		}
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' after tuple declaration"); !ok {
		return ast.NoStmtID, false
	}
	if _, ok := p.expect(token.Assign, diag.SynBadTupleComponent, "tuple declarations need an initial value"); !ok {
		return ast.NoStmtID, false
	}
	var ok bool
	if decl.Value, ok = p.parseExpr(); !ok {
		return ast.NoStmtID, false
	}
	if !p.expectSemicolon() {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewVarDecl(p.spanFrom(start), decl), true
}

func (p *Parser) parseReturn() (ast.StmtID, bool) {
	start := p.pos
	p.advance()
	value := ast.NoExprID
	if !p.at(token.Semicolon) {
		var ok bool
		if value, ok = p.parseExpr(); !ok {
			return ast.NoStmtID, false
		}
	}
	if !p.expectSemicolon() {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewReturn(p.spanFrom(start), value), true
}

func (p *Parser) parseEmit() (ast.StmtID, bool) {
	start := p.pos
	p.advance()
	call, ok := p.parseExpr()
	if !ok {
		return ast.NoStmtID, false
	}
	if _, isCall := p.arenas.Exprs.Call(call); !isCall {
		p.errAt(diag.SynUnexpectedToken, p.arenas.Exprs.Get(call).Span, "expected event invocation after 'emit'")
	}
	if !p.expectSemicolon() {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewEmit(p.spanFrom(start), call), true
}

func (p *Parser) parseRevert() (ast.StmtID, bool) {
	start := p.pos
	p.advance()
	call, ok := p.parseExpr()
	if !ok {
		return ast.NoStmtID, false
	}
	if _, isCall := p.arenas.Exprs.Call(call); !isCall {
		p.errAt(diag.SynUnexpectedToken, p.arenas.Exprs.Get(call).Span, "expected error invocation after 'revert'")
	}
	if !p.expectSemicolon() {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewRevert(p.spanFrom(start), call), true
}
