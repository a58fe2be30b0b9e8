package parser

import (
	"solfront/internal/ast"
	"solfront/internal/diag"
	"solfront/internal/source"
	"solfront/internal/token"
)

func (p *Parser) parsePostfix() (ast.ExprID, bool) {
	expr, ok := p.parsePrimary()
	if !ok {
		return ast.NoExprID, false
	}
	for {
		start := p.arenas.Exprs.Get(expr).Span
		switch p.peek().Kind {
		case token.LParen:
			if expr, ok = p.parseCall(expr); !ok {
				return ast.NoExprID, false
			}
		case token.LBracket:
			if expr, ok = p.parseIndexOrSlice(expr); !ok {
				return ast.NoExprID, false
			}
		case token.Dot:
			p.advance()
			if !p.at(token.Ident) && !p.peek().Kind.IsKeyword() {
				p.err(diag.SynExpectIdentifier, "expected member name, got "+describe(p.peek()))
				return ast.NoExprID, false
			}
			name := p.advance()
			expr = p.arenas.Exprs.NewMember(start.Cover(name.Span), expr, p.intern(name.Text), name.Span)
		case token.LBrace:
			if !p.atCallOptions() {
				return expr, true
			}
			if expr, ok = p.parseCallOptions(expr); !ok {
				return ast.NoExprID, false
			}
		case token.PlusPlus, token.MinusMinus:
			op := p.advance()
			expr = p.arenas.Exprs.NewUnary(start.Cover(op.Span), op.Kind, expr, true)
		default:
			return expr, true
		}
	}
}

// atCallOptions distinguishes `f{value: 1}` from a block that follows an expression.
func (p *Parser) atCallOptions() bool {
	if p.peekN(1).Kind == token.RBrace {
		return false
	}
	return p.peekN(1).Kind == token.Ident && p.peekN(2).Kind == token.Colon
}

func (p *Parser) parseCall(callee ast.ExprID) (ast.ExprID, bool) {
	p.advance()
	call := ast.CallExpr{Callee: callee}
	if p.at(token.LBrace) {
		call.Named = true
		p.advance()
		for !p.atAny(token.RBrace, token.EOF) {
			name, _, ok := p.expectIdent("argument name")
			if !ok {
				return ast.NoExprID, false
			}
			if _, ok := p.expect(token.Colon, diag.SynUnexpectedToken, "expected ':' after argument name"); !ok {
				return ast.NoExprID, false
			}
			arg, ok := p.parseExpr()
			if !ok {
				return ast.NoExprID, false
			}
			call.Names = append(call.Names, name)
			call.Args = append(call.Args, arg)
			if _, more := p.eat(token.Comma); !more {
				break
			}
		}
		if _, ok := p.expect(token.RBrace, diag.SynUnclosedDelimiter, "expected '}' after named arguments"); !ok {
			return ast.NoExprID, false
		}
	} else {
		for !p.atAny(token.RParen, token.EOF) {
			arg, ok := p.parseExpr()
			if !ok {
				return ast.NoExprID, false
			}
			call.Args = append(call.Args, arg)
			if _, more := p.eat(token.Comma); !more {
				break
			}
		}
	}
	end, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' after arguments")
	if !ok {
		return ast.NoExprID, false
	}
	span := p.arenas.Exprs.Get(callee).Span.Cover(end.Span)
	return p.arenas.Exprs.NewCall(span, call), true
}

func (p *Parser) parseCallOptions(callee ast.ExprID) (ast.ExprID, bool) {
	p.advance()
	opts := ast.CallOptionsExpr{Callee: callee}
	for !p.atAny(token.RBrace, token.EOF) {
		name, sp, ok := p.expectIdent("call option name")
		if !ok {
			return ast.NoExprID, false
		}
		if _, ok := p.expect(token.Colon, diag.SynUnexpectedToken, "expected ':' after call option"); !ok {
			return ast.NoExprID, false
		}
		value, ok := p.parseExpr()
		if !ok {
			return ast.NoExprID, false
		}
		opts.Names = append(opts.Names, name)
		opts.Spans = append(opts.Spans, sp)
		opts.Values = append(opts.Values, value)
		if _, more := p.eat(token.Comma); !more {
			break
		}
	}
	end, ok := p.expect(token.RBrace, diag.SynUnclosedDelimiter, "expected '}' after call options")
	if !ok {
		return ast.NoExprID, false
	}
	span := p.arenas.Exprs.Get(callee).Span.Cover(end.Span)
	return p.arenas.Exprs.NewCallOptions(span, opts), true
}

// parseIndexOrSlice handles `a[i]`, `a[]` (array type in expression position) and `a[s:e]`.
func (p *Parser) parseIndexOrSlice(target ast.ExprID) (ast.ExprID, bool) {
	p.advance()
	var first ast.ExprID
	var ok bool
	if !p.atAny(token.RBracket, token.Colon) {
		if first, ok = p.parseExpr(); !ok {
			return ast.NoExprID, false
		}
	}
	if _, isSlice := p.eat(token.Colon); isSlice {
		var end ast.ExprID
		if !p.at(token.RBracket) {
			if end, ok = p.parseExpr(); !ok {
				return ast.NoExprID, false
			}
		}
		closeTok, ok := p.expect(token.RBracket, diag.SynUnclosedDelimiter, "expected ']' after slice")
		if !ok {
			return ast.NoExprID, false
		}
		return p.arenas.Exprs.NewSlice(p.coverTarget(target, closeTok.Span), target, first, end), true
	}
	closeTok, ok := p.expect(token.RBracket, diag.SynUnclosedDelimiter, "expected ']' after index")
	if !ok {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewIndex(p.coverTarget(target, closeTok.Span), target, first), true
}

func (p *Parser) coverTarget(target ast.ExprID, end source.Span) source.Span {
	return p.arenas.Exprs.Get(target).Span.Cover(end)
}
