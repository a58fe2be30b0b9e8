package parser

import (
	"solfront/internal/ast"
	"solfront/internal/config"
	"solfront/internal/diag"
	"solfront/internal/source"
	"solfront/internal/token"
)

// parseTypeName parses a type: elementary, user-defined path, mapping or function
// type, followed by any number of array suffixes.
func (p *Parser) parseTypeName() (ast.TypeExprID, bool) {
	start := p.pos
	var (
		id ast.TypeExprID
		ok bool
	)
	switch {
	case p.at(token.KwMapping):
		id, ok = p.parseMappingType()
	case p.at(token.KwFunction):
		id, ok = p.parseFunctionType()
	case p.at(token.Ident) && token.IsElementaryTypeName(p.peek().Text):
		tok := p.advance()
		payable := false
		if tok.Text == "address" && p.at(token.KwPayable) {
			p.advance()
			payable = true
		}
		id, ok = p.arenas.Types.NewElementary(p.spanFrom(start), p.intern(tok.Text), payable), true
	case p.at(token.Ident):
		path, pok := p.parseIdentPath()
		id, ok = p.arenas.Types.NewUser(path.Span, path), pok
	default:
		p.err(diag.SynExpectType, "expected type name, got "+describe(p.peek()))
		return ast.NoTypeExprID, false
	}
	if !ok {
		return ast.NoTypeExprID, false
	}
	for p.at(token.LBracket) {
		p.advance()
		length := ast.NoExprID
		if !p.at(token.RBracket) {
			length, ok = p.parseExpr()
			if !ok {
				return ast.NoTypeExprID, false
			}
		}
		if _, ok := p.expect(token.RBracket, diag.SynUnclosedDelimiter, "expected ']'"); !ok {
			return ast.NoTypeExprID, false
		}
		id = p.arenas.Types.NewArray(p.spanFrom(start), id, length)
	}
	return id, true
}

func (p *Parser) parseIdentPath() (ast.IdentPath, bool) {
	start := p.pos
	var path ast.IdentPath
	for {
		name, sp, ok := p.expectIdent("identifier")
		if !ok {
			return path, false
		}
		path.Names = append(path.Names, name)
		path.Spans = append(path.Spans, sp)
		if !p.at(token.Dot) || p.peekN(1).Kind != token.Ident {
			break
		}
		p.advance()
	}
	path.Span = p.spanFrom(start)
	return path, true
}

func (p *Parser) parseMappingType() (ast.TypeExprID, bool) {
	start := p.pos
	p.advance()
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after mapping"); !ok {
		return ast.NoTypeExprID, false
	}
	var m ast.MappingType
	var ok bool
	if m.Key, ok = p.parseTypeName(); !ok {
		return ast.NoTypeExprID, false
	}
	m.KeyName = p.mappingParamName()
	if _, ok := p.expect(token.FatArrow, diag.SynUnexpectedToken, "expected '=>' in mapping"); !ok {
		return ast.NoTypeExprID, false
	}
	if m.Value, ok = p.parseTypeName(); !ok {
		return ast.NoTypeExprID, false
	}
	m.ValueName = p.mappingParamName()
	if _, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' after mapping"); !ok {
		return ast.NoTypeExprID, false
	}
	return p.arenas.Types.NewMapping(p.spanFrom(start), m), true
}

func (p *Parser) mappingParamName() source.StringID {
	if !p.at(token.Ident) {
		return source.NoStringID
	}
	tok := p.advance()
	if !p.opts.Config.Has(config.NamedMappingParams) {
		p.errAt(diag.SynUnexpectedToken, tok.Span, "named mapping parameters require version "+config.NamedMappingParams.String())
	}
	return p.intern(tok.Text)
}

func (p *Parser) parseFunctionType() (ast.TypeExprID, bool) {
	start := p.pos
	p.advance()
	var fn ast.FunctionType
	var ok bool
	if fn.Params, ok = p.parseParamList(paramPlain); !ok {
		return ast.NoTypeExprID, false
	}
	var seen specifierSet
	for {
		tok := p.peek()
		switch {
		case tok.Kind.IsVisibility():
			p.advance()
			seen.visibility(p, tok)
			fn.Visibility = visibilityOf(tok.Kind)
			continue
		case tok.Kind.IsMutability():
			p.advance()
			seen.mutability(p, tok)
			fn.Mutability = mutabilityOf(tok.Kind)
			continue
		}
		break
	}
	if _, has := p.eat(token.KwReturns); has {
		if fn.Returns, ok = p.parseParamList(paramPlain); !ok {
			return ast.NoTypeExprID, false
		}
	}
	return p.arenas.Types.NewFunction(p.spanFrom(start), fn), true
}

// skipType scans a type name starting at token index i without building nodes.
// It returns the index just past the type.
func (p *Parser) skipType(i int) (int, bool) {
	tok := p.tokAt(i)
	switch tok.Kind {
	case token.KwMapping:
		end, ok := p.skipBalanced(i+1, token.LParen, token.RParen)
		if !ok {
			return i, false
		}
		i = end
	case token.KwFunction:
		end, ok := p.skipBalanced(i+1, token.LParen, token.RParen)
		if !ok {
			return i, false
		}
		i = end
		for k := p.tokAt(i).Kind; k.IsVisibility() || k.IsMutability(); k = p.tokAt(i).Kind {
			i++
		}
		if p.tokAt(i).Kind == token.KwReturns {
			if i, ok = p.skipBalanced(i+1, token.LParen, token.RParen); !ok {
				return i, false
			}
		}
	case token.Ident:
		i++
		if tok.Text == "address" && p.tokAt(i).Kind == token.KwPayable {
			i++
		}
		for p.tokAt(i).Kind == token.Dot && p.tokAt(i+1).Kind == token.Ident {
			i += 2
		}
	default:
		return i, false
	}
	for p.tokAt(i).Kind == token.LBracket {
		end, ok := p.skipBalanced(i, token.LBracket, token.RBracket)
		if !ok {
			return i, false
		}
		i = end
	}
	return i, true
}

// looksLikeType reports whether a variable declaration starts at index i:
// a type followed by a data location or a name.
func (p *Parser) looksLikeType(i int) bool {
	end, ok := p.skipType(i)
	if !ok {
		return false
	}
	next := p.tokAt(end)
	return next.Kind == token.Ident || next.Kind.IsDataLocation() ||
		next.Kind.IsVisibility() || next.Kind == token.KwConstant || next.Kind == token.KwImmutable ||
		next.Kind == token.KwOverride
}

// skipBalanced expects open at i and returns the index after its matching close.
func (p *Parser) skipBalanced(i int, open, closeKind token.Kind) (int, bool) {
	if p.tokAt(i).Kind != open {
		return i, false
	}
	depth := 0
	for ; i < len(p.toks); i++ {
		switch p.toks[i].Kind {
		case open:
			depth++
		case closeKind:
			depth--
			if depth == 0 {
				return i + 1, true
			}
		case token.EOF:
			return i, false
		}
	}
	return i, false
}

func (p *Parser) tokAt(i int) token.Token {
	if i >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[i]
}

func visibilityOf(k token.Kind) ast.Visibility {
	switch k {
	case token.KwPublic:
		return ast.VisPublic
	case token.KwExternal:
		return ast.VisExternal
	case token.KwInternal:
		return ast.VisInternal
	case token.KwPrivate:
		return ast.VisPrivate
	}
	return ast.VisDefault
}

func mutabilityOf(k token.Kind) ast.Mutability {
	switch k {
	case token.KwPure:
		return ast.MutPure
	case token.KwView:
		return ast.MutView
	case token.KwPayable:
		return ast.MutPayable
	}
	return ast.MutNonPayable
}

func locationOf(k token.Kind) ast.DataLocation {
	switch k {
	case token.KwStorage:
		return ast.LocStorage
	case token.KwMemory:
		return ast.LocMemory
	case token.KwCalldata:
		return ast.LocCalldata
	}
	return ast.LocNone
}
