package parser

import (
	"solfront/internal/ast"
	"solfront/internal/diag"
	"solfront/internal/token"
)

type paramKind uint8

const (
	paramPlain paramKind = iota
	paramEvent
)

// parseParamList parses `( [type [location] [indexed] [name]] {, ...} )`.
func (p *Parser) parseParamList(kind paramKind) ([]ast.Param, bool) {
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '('"); !ok {
		return nil, false
	}
	params := make([]ast.Param, 0, 4)
	for !p.atAny(token.RParen, token.EOF) {
		param, ok := p.parseParam(kind)
		if !ok {
			return nil, false
		}
		params = append(params, param)
		if _, ok := p.eat(token.Comma); !ok {
			break
		}
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' after parameters"); !ok {
		return nil, false
	}
	return params, true
}

func (p *Parser) parseParam(kind paramKind) (ast.Param, bool) {
	start := p.pos
	typ, ok := p.parseTypeName()
	if !ok {
		return ast.Param{}, false
	}
	param := ast.Param{Type: typ}
	for {
		tok := p.peek()
		switch {
		case tok.Kind.IsDataLocation():
			p.advance()
			if param.Location != ast.LocNone {
				p.errAt(diag.SynDuplicateSpecifier, tok.Span, "data location already specified")
			}
			param.Location = locationOf(tok.Kind)
			continue
		case tok.Kind == token.KwIndexed:
			p.advance()
			if kind != paramEvent {
				p.errAt(diag.SynSpecifierNotAllowed, tok.Span, "'indexed' is only allowed on event parameters")
			}
			param.Indexed = true
			continue
		}
		break
	}
	if p.at(token.Ident) {
		tok := p.advance()
		param.Name = p.intern(tok.Text)
		param.NameSpan = tok.Span
	}
	param.Span = p.spanFrom(start)
	return param, true
}

// specifierSet tracks which specifier groups were already written.
type specifierSet struct {
	vis, mut, virtual, override bool
}

func (s *specifierSet) visibility(p *Parser, tok token.Token) {
	if s.vis {
		p.errAt(diag.SynDuplicateSpecifier, tok.Span, "visibility already specified")
	}
	s.vis = true
}

func (s *specifierSet) mutability(p *Parser, tok token.Token) {
	if s.mut {
		p.errAt(diag.SynDuplicateSpecifier, tok.Span, "state mutability already specified")
	}
	s.mut = true
}

func (p *Parser) parseOverrideSpec() (ast.OverrideSpec, bool) {
	start := p.pos
	p.advance()
	spec := ast.OverrideSpec{Present: true}
	if _, ok := p.eat(token.LParen); ok {
		for !p.atAny(token.RParen, token.EOF) {
			path, ok := p.parseIdentPath()
			if !ok {
				return spec, false
			}
			spec.Bases = append(spec.Bases, path)
			if _, ok := p.eat(token.Comma); !ok {
				break
			}
		}
		if _, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' after override list"); !ok {
			return spec, false
		}
	}
	spec.Span = p.spanFrom(start)
	return spec, true
}

// parseCallArgs parses `(args)` for modifier invocations and base specifiers.
func (p *Parser) parseCallArgs() ([]ast.ExprID, bool) {
	p.advance()
	args := make([]ast.ExprID, 0, 2)
	for !p.atAny(token.RParen, token.EOF) {
		arg, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		args = append(args, arg)
		if _, ok := p.eat(token.Comma); !ok {
			break
		}
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' after arguments"); !ok {
		return nil, false
	}
	return args, true
}

// parseFunction handles `function`, `constructor`, `receive` and `fallback` definitions.
func (p *Parser) parseFunction() (ast.ItemID, bool) {
	start := p.pos
	doc := p.peek().Doc
	kw := p.advance()
	var fn ast.FunctionDecl
	switch kw.Kind {
	case token.KwConstructor:
		fn.Kind = ast.FnConstructor
	case token.KwReceive:
		fn.Kind = ast.FnReceive
	case token.KwFallback:
		fn.Kind = ast.FnFallback
	default:
		fn.Kind = ast.FnRegular
		name, sp, ok := p.expectIdent("function name")
		if !ok {
			return ast.NoItemID, false
		}
		fn.Name, fn.NameSpan = name, sp
	}
	if fn.Kind != ast.FnRegular {
		fn.Name, fn.NameSpan = p.intern(kw.Text), kw.Span
	}
	var ok bool
	if fn.Params, ok = p.parseParamList(paramPlain); !ok {
		return ast.NoItemID, false
	}
	if !p.parseFunctionSpecifiers(&fn) {
		return ast.NoItemID, false
	}
	if _, has := p.eat(token.KwReturns); has {
		if fn.Returns, ok = p.parseParamList(paramPlain); !ok {
			return ast.NoItemID, false
		}
	}
	fn.HeaderSpan = p.spanFrom(start)
	if _, semi := p.eat(token.Semicolon); !semi {
		if !p.at(token.LBrace) {
			p.err(diag.SynUnexpectedToken, "expected function body or ';', got "+describe(p.peek()))
			return ast.NoItemID, false
		}
		fn.Body = p.parseBlock(false)
	}
	return p.arenas.Items.NewFunction(p.spanFrom(start), fn, doc), true
}

func (p *Parser) parseFunctionSpecifiers(fn *ast.FunctionDecl) bool {
	var seen specifierSet
	for {
		tok := p.peek()
		switch {
		case tok.Kind.IsVisibility():
			p.advance()
			seen.visibility(p, tok)
			fn.Visibility = visibilityOf(tok.Kind)
		case tok.Kind.IsMutability():
			p.advance()
			seen.mutability(p, tok)
			fn.Mutability = mutabilityOf(tok.Kind)
		case tok.Kind == token.KwVirtual:
			p.advance()
			if seen.virtual {
				p.errAt(diag.SynDuplicateSpecifier, tok.Span, "'virtual' already specified")
			}
			seen.virtual = true
			fn.Virtual = true
		case tok.Kind == token.KwOverride:
			if seen.override {
				p.errAt(diag.SynDuplicateSpecifier, tok.Span, "'override' already specified")
			}
			seen.override = true
			spec, ok := p.parseOverrideSpec()
			if !ok {
				return false
			}
			fn.Override = spec
		case tok.Kind == token.Ident:
			inv, ok := p.parseModifierInvocation()
			if !ok {
				return false
			}
			fn.Modifiers = append(fn.Modifiers, inv)
		default:
			return true
		}
	}
}

func (p *Parser) parseModifierInvocation() (ast.ModifierInvocation, bool) {
	start := p.pos
	path, ok := p.parseIdentPath()
	if !ok {
		return ast.ModifierInvocation{}, false
	}
	inv := ast.ModifierInvocation{Name: path}
	if p.at(token.LParen) {
		inv.HasArgs = true
		if inv.Args, ok = p.parseCallArgs(); !ok {
			return inv, false
		}
	}
	inv.Span = p.spanFrom(start)
	return inv, true
}

func (p *Parser) parseModifier() (ast.ItemID, bool) {
	start := p.pos
	doc := p.peek().Doc
	p.advance()
	var m ast.ModifierDecl
	var ok bool
	if m.Name, m.NameSpan, ok = p.expectIdent("modifier name"); !ok {
		return ast.NoItemID, false
	}
	if p.at(token.LParen) {
		if m.Params, ok = p.parseParamList(paramPlain); !ok {
			return ast.NoItemID, false
		}
	}
	var seen specifierSet
	for {
		tok := p.peek()
		if tok.Kind == token.KwVirtual {
			p.advance()
			if seen.virtual {
				p.errAt(diag.SynDuplicateSpecifier, tok.Span, "'virtual' already specified")
			}
			seen.virtual = true
			m.Virtual = true
			continue
		}
		if tok.Kind == token.KwOverride {
			if seen.override {
				p.errAt(diag.SynDuplicateSpecifier, tok.Span, "'override' already specified")
			}
			seen.override = true
			if m.Override, ok = p.parseOverrideSpec(); !ok {
				return ast.NoItemID, false
			}
			continue
		}
		break
	}
	if _, semi := p.eat(token.Semicolon); !semi {
		if !p.at(token.LBrace) {
			p.err(diag.SynUnexpectedToken, "expected modifier body or ';', got "+describe(p.peek()))
			return ast.NoItemID, false
		}
		m.Body = p.parseBlock(false)
	}
	return p.arenas.Items.NewModifier(p.spanFrom(start), m, doc), true
}

// parseStateVariable parses `type {specifier} name [= value];` at contract or file level.
func (p *Parser) parseStateVariable() (ast.ItemID, bool) {
	start := p.pos
	doc := p.peek().Doc
	typ, ok := p.parseTypeName()
	if !ok {
		return ast.NoItemID, false
	}
	v := ast.VariableDecl{Type: typ}
	var seen specifierSet
	for {
		tok := p.peek()
		switch {
		case tok.Kind.IsVisibility():
			p.advance()
			seen.visibility(p, tok)
			v.Visibility = visibilityOf(tok.Kind)
			continue
		case tok.Kind == token.KwConstant:
			p.advance()
			if v.Constant {
				p.errAt(diag.SynDuplicateSpecifier, tok.Span, "'constant' already specified")
			}
			v.Constant = true
			continue
		case tok.Kind == token.KwImmutable:
			p.advance()
			if v.Immutable {
				p.errAt(diag.SynDuplicateSpecifier, tok.Span, "'immutable' already specified")
			}
			v.Immutable = true
			continue
		case tok.Kind == token.KwOverride:
			if seen.override {
				p.errAt(diag.SynDuplicateSpecifier, tok.Span, "'override' already specified")
			}
			seen.override = true
			if v.Override, ok = p.parseOverrideSpec(); !ok {
				return ast.NoItemID, false
			}
			continue
		case tok.Kind.IsDataLocation():
			p.advance()
			v.Location = locationOf(tok.Kind)
			continue
		}
		break
	}
	if v.Constant && v.Immutable {
		p.errAt(diag.SynDuplicateSpecifier, p.spanFrom(start), "variable cannot be both constant and immutable")
	}
	if v.Name, v.NameSpan, ok = p.expectIdent("variable name"); !ok {
		return ast.NoItemID, false
	}
	if _, has := p.eat(token.Assign); has {
		if v.Value, ok = p.parseExpr(); !ok {
			return ast.NoItemID, false
		}
	}
	if !p.expectSemicolon() {
		return ast.NoItemID, false
	}
	return p.arenas.Items.NewVariable(p.spanFrom(start), v, doc), true
}
