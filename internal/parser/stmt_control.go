package parser

import (
	"strings"

	"solfront/internal/ast"
	"solfront/internal/diag"
	"solfront/internal/token"
)

func (p *Parser) parseCondition(what string) (ast.ExprID, bool) {
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after '"+what+"'"); !ok {
		return ast.NoExprID, false
	}
	cond, ok := p.parseExpr()
	if !ok {
		return ast.NoExprID, false
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' after condition"); !ok {
		return ast.NoExprID, false
	}
	return cond, true
}

func (p *Parser) parseIf() (ast.StmtID, bool) {
	start := p.pos
	p.advance()
	cond, ok := p.parseCondition("if")
	if !ok {
		return ast.NoStmtID, false
	}
	then, ok := p.parseStmt()
	if !ok {
		return ast.NoStmtID, false
	}
	els := ast.NoStmtID
	if _, has := p.eat(token.KwElse); has {
		if els, ok = p.parseStmt(); !ok {
			return ast.NoStmtID, false
		}
	}
	return p.arenas.Stmts.NewIf(p.spanFrom(start), cond, then, els), true
}

func (p *Parser) parseFor() (ast.StmtID, bool) {
	start := p.pos
	p.advance()
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after 'for'"); !ok {
		return ast.NoStmtID, false
	}
	var st ast.ForStmt
	var ok bool
	if _, empty := p.eat(token.Semicolon); !empty {
		if st.Init, ok = p.parseSimpleStmt(); !ok {
			return ast.NoStmtID, false
		}
	}
	if !p.at(token.Semicolon) {
		if st.Cond, ok = p.parseExpr(); !ok {
			return ast.NoStmtID, false
		}
	}
	if !p.expectSemicolon() {
		return ast.NoStmtID, false
	}
	if !p.at(token.RParen) {
		if st.Post, ok = p.parseExpr(); !ok {
			return ast.NoStmtID, false
		}
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' after for header"); !ok {
		return ast.NoStmtID, false
	}
	if st.Body, ok = p.parseStmt(); !ok {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewFor(p.spanFrom(start), st), true
}

func (p *Parser) parseWhile() (ast.StmtID, bool) {
	start := p.pos
	p.advance()
	cond, ok := p.parseCondition("while")
	if !ok {
		return ast.NoStmtID, false
	}
	body, ok := p.parseStmt()
	if !ok {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewWhile(p.spanFrom(start), cond, body, false), true
}

func (p *Parser) parseDoWhile() (ast.StmtID, bool) {
	start := p.pos
	p.advance()
	body, ok := p.parseStmt()
	if !ok {
		return ast.NoStmtID, false
	}
	if _, ok := p.expect(token.KwWhile, diag.SynUnexpectedToken, "expected 'while' after do body"); !ok {
		return ast.NoStmtID, false
	}
	cond, ok := p.parseCondition("while")
	if !ok {
		return ast.NoStmtID, false
	}
	if !p.expectSemicolon() {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewWhile(p.spanFrom(start), cond, body, true), true
}

// parseTry parses `try call [returns (...)] {...} catch...`. Catch clauses must
// appear as Error, Panic, then the raw clause, each at most once.
func (p *Parser) parseTry() (ast.StmtID, bool) {
	start := p.pos
	p.advance()
	var st ast.TryStmt
	var ok bool
	if st.Call, ok = p.parseExpr(); !ok {
		return ast.NoStmtID, false
	}
	if _, has := p.eat(token.KwReturns); has {
		if st.Returns, ok = p.parseParamList(paramPlain); !ok {
			return ast.NoStmtID, false
		}
	}
	st.Body = p.parseBlock(false)
	if !p.at(token.KwCatch) {
		p.err(diag.SynUnexpectedToken, "expected at least one 'catch' clause, got "+describe(p.peek()))
		return ast.NoStmtID, false
	}
	last := ast.CatchKind(0)
	for p.at(token.KwCatch) {
		clauseStart := p.pos
		p.advance()
		clause := ast.CatchClause{Kind: ast.CatchRaw}
		if p.at(token.Ident) {
			tok := p.advance()
			clause.Ident = p.intern(tok.Text)
			switch tok.Text {
			case "Error":
				clause.Kind = ast.CatchError
			case "Panic":
				clause.Kind = ast.CatchPanic
			default:
				p.errAt(diag.SynUnexpectedToken, tok.Span, "catch clause must be 'Error', 'Panic' or unnamed, got "+describe(tok))
			}
		}
		if p.at(token.LParen) {
			if clause.Params, ok = p.parseParamList(paramPlain); !ok {
				return ast.NoStmtID, false
			}
		}
		clause.Body = p.parseBlock(false)
		clause.Span = p.spanFrom(clauseStart)
		switch {
		case clause.Kind == last:
			p.errAt(diag.SynCatchOrder, clause.Span, "duplicate "+catchName(clause.Kind)+" clause")
		case clause.Kind < last:
			p.errAt(diag.SynCatchOrder, clause.Span,
				catchName(clause.Kind)+" clause must come before the "+catchName(last)+" clause")
		default:
			last = clause.Kind
		}
		st.Catches = append(st.Catches, clause)
	}
	return p.arenas.Stmts.NewTry(p.spanFrom(start), st), true
}

func catchName(k ast.CatchKind) string {
	switch k {
	case ast.CatchError:
		return "'catch Error'"
	case ast.CatchPanic:
		return "'catch Panic'"
	}
	return "unnamed 'catch'"
}

// parseAssembly keeps the assembly body as an opaque span of balanced braces.
func (p *Parser) parseAssembly() (ast.StmtID, bool) {
	start := p.pos
	p.advance()
	var block ast.AssemblyBlock
	if p.at(token.StringLit) {
		block.Dialect = p.advance().Value
	}
	if _, ok := p.eat(token.LParen); ok {
		for p.at(token.StringLit) {
			block.Flags = append(block.Flags, p.advance().Value)
			if _, more := p.eat(token.Comma); !more {
				break
			}
		}
		if _, ok := p.expect(token.RParen, diag.SynBadAssembly, "expected ')' after assembly flags"); !ok {
			return ast.NoStmtID, false
		}
	}
	if block.Dialect != "" && block.Dialect != "evmasm" {
		p.errAt(diag.SynBadAssembly, p.spanFrom(start), "unknown assembly dialect "+strings.TrimSpace(block.Dialect))
	}
	open := p.pos
	end, ok := p.skipBalanced(open, token.LBrace, token.RBrace)
	if !ok {
		p.err(diag.SynUnclosedDelimiter, "unterminated assembly block")
		return ast.NoStmtID, false
	}
	block.Tokens = p.toks[open].Span.Cover(p.toks[end-1].Span)
	p.pos = end
	p.lastSpan = p.toks[end-1].Span
	return p.arenas.Stmts.NewAssembly(p.spanFrom(start), block), true
}
