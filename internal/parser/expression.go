package parser

import (
	"solfront/internal/ast"
	"solfront/internal/diag"
	"solfront/internal/token"
)

func (p *Parser) parseExpr() (ast.ExprID, bool) {
	return p.parseAssignment()
}

// parseAssignment is right-associative: `a = b = c` assigns c to b first.
func (p *Parser) parseAssignment() (ast.ExprID, bool) {
	target, ok := p.parseConditional()
	if !ok {
		return ast.NoExprID, false
	}
	if !p.peek().Kind.IsAssignOp() {
		return target, true
	}
	op := p.advance()
	value, ok := p.parseAssignment()
	if !ok {
		return ast.NoExprID, false
	}
	span := p.arenas.Exprs.Get(target).Span.Cover(p.arenas.Exprs.Get(value).Span)
	return p.arenas.Exprs.NewAssign(span, op.Kind, target, value), true
}

func (p *Parser) parseConditional() (ast.ExprID, bool) {
	cond, ok := p.parseBinary(precLogicalOr)
	if !ok {
		return ast.NoExprID, false
	}
	if _, q := p.eat(token.Question); !q {
		return cond, true
	}
	then, ok := p.parseAssignment()
	if !ok {
		return ast.NoExprID, false
	}
	if _, ok := p.expect(token.Colon, diag.SynUnexpectedToken, "expected ':' in conditional expression"); !ok {
		return ast.NoExprID, false
	}
	els, ok := p.parseAssignment()
	if !ok {
		return ast.NoExprID, false
	}
	span := p.arenas.Exprs.Get(cond).Span.Cover(p.arenas.Exprs.Get(els).Span)
	return p.arenas.Exprs.NewConditional(span, cond, then, els), true
}

// parseBinary climbs the binary precedence table from minPrec upwards.
func (p *Parser) parseBinary(minPrec int) (ast.ExprID, bool) {
	left, ok := p.parseUnary()
	if !ok {
		return ast.NoExprID, false
	}
	for {
		prec, right := binaryPrec(p.peek().Kind)
		if prec < minPrec {
			return left, true
		}
		op := p.advance()
		next := prec + 1
		if right {
			next = prec
		}
		rhs, ok := p.parseBinary(next)
		if !ok {
			return ast.NoExprID, false
		}
		span := p.arenas.Exprs.Get(left).Span.Cover(p.arenas.Exprs.Get(rhs).Span)
		left = p.arenas.Exprs.NewBinary(span, op.Kind, left, rhs)
	}
}

func (p *Parser) parseUnary() (ast.ExprID, bool) {
	if isPrefixOp(p.peek().Kind) {
		op := p.advance()
		operand, ok := p.parseUnary()
		if !ok {
			return ast.NoExprID, false
		}
		span := op.Span.Cover(p.arenas.Exprs.Get(operand).Span)
		return p.arenas.Exprs.NewUnary(span, op.Kind, operand, false), true
	}
	if p.at(token.Plus) {
		p.err(diag.SynUnexpectedToken, "unary '+' is not supported")
		p.advance()
		return p.parseUnary()
	}
	return p.parsePostfix()
}
