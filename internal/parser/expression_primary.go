package parser

import (
	"solfront/internal/ast"
	"solfront/internal/diag"
	"solfront/internal/token"
)

func (p *Parser) parsePrimary() (ast.ExprID, bool) {
	tok := p.peek()
	switch {
	case tok.Kind == token.Ident:
		if token.IsElementaryTypeName(tok.Text) {
			start := p.pos
			typ, ok := p.parseElementaryInExpr()
			if !ok {
				return ast.NoExprID, false
			}
			return p.arenas.Exprs.NewTypeName(p.spanFrom(start), typ), true
		}
		p.advance()
		return p.arenas.Exprs.NewIdent(tok.Span, p.intern(tok.Text)), true
	case tok.Kind == token.KwPayable && p.peekN(1).Kind == token.LParen:
		// payable(x) converts to address payable
		p.advance()
		typ := p.arenas.Types.NewElementary(tok.Span, p.intern("address"), true)
		return p.arenas.Exprs.NewTypeName(tok.Span, typ), true
	case tok.Kind.IsLiteral():
		return p.parseLiteral()
	case tok.Kind == token.KwTrue || tok.Kind == token.KwFalse:
		p.advance()
		return p.arenas.Exprs.NewLit(tok.Span, ast.LitExpr{Kind: tok.Kind, Raw: tok.Text, Value: tok.Text}), true
	case tok.Kind == token.LParen:
		return p.parseTupleExpr()
	case tok.Kind == token.LBracket:
		return p.parseArrayLiteral()
	case tok.Kind == token.KwNew:
		start := p.pos
		p.advance()
		typ, ok := p.parseTypeName()
		if !ok {
			return ast.NoExprID, false
		}
		return p.arenas.Exprs.NewNew(p.spanFrom(start), typ), true
	case tok.Kind == token.KwType && p.peekN(1).Kind == token.LParen:
		start := p.pos
		p.advance()
		p.advance()
		typ, ok := p.parseTypeName()
		if !ok {
			return ast.NoExprID, false
		}
		if _, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' after type"); !ok {
			return ast.NoExprID, false
		}
		return p.arenas.Exprs.NewMetaType(p.spanFrom(start), typ), true
	case tok.Kind == token.KwMapping || tok.Kind == token.KwFunction:
		p.err(diag.SynExpectExpression, describe(tok)+" types cannot be used in expressions")
		return ast.NoExprID, false
	}
	p.err(diag.SynExpectExpression, "expected expression, got "+describe(tok))
	return ast.NoExprID, false
}

// parseElementaryInExpr parses an elementary type name used as a conversion or
// member target. Array suffixes are left to the postfix loop.
func (p *Parser) parseElementaryInExpr() (ast.TypeExprID, bool) {
	start := p.pos
	tok := p.advance()
	payable := false
	if tok.Text == "address" && p.at(token.KwPayable) {
		p.advance()
		payable = true
	}
	return p.arenas.Types.NewElementary(p.spanFrom(start), p.intern(tok.Text), payable), true
}

// parseLiteral builds a literal node. Adjacent string literals are concatenated
// and a number may carry a denomination such as `ether` or `days`.
func (p *Parser) parseLiteral() (ast.ExprID, bool) {
	start := p.pos
	tok := p.advance()
	lit := ast.LitExpr{Kind: tok.Kind, Raw: tok.Text, Value: tok.Value}
	switch {
	case tok.Kind.IsStringLiteral():
		for p.peek().Kind.IsStringLiteral() {
			next := p.advance()
			if next.Kind == token.HexStringLit && lit.Kind != token.HexStringLit ||
				next.Kind != token.HexStringLit && lit.Kind == token.HexStringLit {
				p.errAt(diag.SynUnexpectedToken, next.Span, "hex and regular string literals cannot be concatenated")
			}
			if next.Kind == token.UnicodeStringLit {
				lit.Kind = token.UnicodeStringLit
			}
			lit.Raw += " " + next.Text
			lit.Value += next.Value
		}
	case tok.Kind == token.NumberLit || tok.Kind == token.RationalLit || tok.Kind == token.HexNumberLit:
		if next := p.peek(); next.Kind == token.Ident && token.IsDenomination(next.Text) {
			p.advance()
			lit.Unit = p.intern(next.Text)
			lit.UnitSpan = next.Span
			if tok.Kind == token.HexNumberLit {
				p.errAt(diag.SynUnexpectedToken, next.Span, "hexadecimal numbers cannot have a unit denomination")
			}
		}
	}
	return p.arenas.Exprs.NewLit(p.spanFrom(start), lit), true
}

// parseTupleExpr parses `(e)`, `(a, b)` and tuples with empty slots `(, b)`.
// A single parenthesized expression is returned as the inner expression.
func (p *Parser) parseTupleExpr() (ast.ExprID, bool) {
	start := p.pos
	p.advance()
	if _, ok := p.eat(token.RParen); ok {
		return p.arenas.Exprs.NewTuple(p.spanFrom(start), nil), true
	}
	var elems []ast.ExprID
	commas := 0
	for {
		if p.atAny(token.Comma, token.RParen) {
			elems = append(elems, ast.NoExprID)
		} else {
			e, ok := p.parseExpr()
			if !ok {
				return ast.NoExprID, false
			}
			elems = append(elems, e)
		}
		if _, more := p.eat(token.Comma); !more {
			break
		}
		commas++
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')'"); !ok {
		return ast.NoExprID, false
	}
	if commas == 0 {
		return elems[0], true
	}
	return p.arenas.Exprs.NewTuple(p.spanFrom(start), elems), true
}

func (p *Parser) parseArrayLiteral() (ast.ExprID, bool) {
	start := p.pos
	p.advance()
	var elems []ast.ExprID
	for !p.atAny(token.RBracket, token.EOF) {
		e, ok := p.parseExpr()
		if !ok {
			return ast.NoExprID, false
		}
		elems = append(elems, e)
		if _, more := p.eat(token.Comma); !more {
			break
		}
	}
	if _, ok := p.expect(token.RBracket, diag.SynUnclosedDelimiter, "expected ']' after array literal"); !ok {
		return ast.NoExprID, false
	}
	if len(elems) == 0 {
		p.errAt(diag.SynExpectExpression, p.spanFrom(start), "array literal cannot be empty")
	}
	return p.arenas.Exprs.NewArray(p.spanFrom(start), elems), true
}
