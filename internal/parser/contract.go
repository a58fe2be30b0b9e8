package parser

import (
	"solfront/internal/ast"
	"solfront/internal/diag"
	"solfront/internal/token"
)

func (p *Parser) parseContract() (ast.ItemID, bool) {
	start := p.pos
	doc := p.peek().Doc
	var c ast.ContractDecl
	if _, ok := p.eat(token.KwAbstract); ok {
		c.Abstract = true
		if !p.at(token.KwContract) {
			p.err(diag.SynUnexpectedToken, "expected 'contract' after 'abstract', got "+describe(p.peek()))
			return ast.NoItemID, false
		}
	}
	switch p.advance().Kind {
	case token.KwInterface:
		c.Kind = ast.ContractInterface
	case token.KwLibrary:
		c.Kind = ast.ContractLibrary
	default:
		c.Kind = ast.ContractPlain
	}
	var ok bool
	if c.Name, c.NameSpan, ok = p.expectIdent("contract name"); !ok {
		return ast.NoItemID, false
	}
	if _, is := p.eat(token.KwIs); is {
		for {
			specStart := p.pos
			path, ok := p.parseIdentPath()
			if !ok {
				return ast.NoItemID, false
			}
			spec := ast.InheritanceSpec{Name: path}
			if p.at(token.LParen) {
				spec.HasArgs = true
				if spec.Args, ok = p.parseCallArgs(); !ok {
					return ast.NoItemID, false
				}
			}
			spec.Span = p.spanFrom(specStart)
			c.Bases = append(c.Bases, spec)
			if _, more := p.eat(token.Comma); !more {
				break
			}
		}
	}
	if _, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{' to open contract body"); !ok {
		return ast.NoItemID, false
	}
	for !p.atAny(token.RBrace, token.EOF) {
		memberStart := p.pos
		id, ok := p.parseContractMember()
		if ok {
			c.Members = append(c.Members, id)
			continue
		}
		p.resyncItem(memberStart)
	}
	p.expect(token.RBrace, diag.SynUnclosedDelimiter, "expected '}' to close contract body")
	return p.arenas.Items.NewContract(p.spanFrom(start), c, doc), true
}

func (p *Parser) parseContractMember() (ast.ItemID, bool) {
	tok := p.peek()
	switch tok.Kind {
	case token.KwFunction:
		if p.peekN(1).Kind == token.Ident {
			return p.parseFunction()
		}
	case token.KwConstructor, token.KwReceive, token.KwFallback:
		return p.parseFunction()
	case token.KwModifier:
		return p.parseModifier()
	case token.KwEvent:
		return p.parseEvent()
	case token.KwStruct:
		return p.parseStruct()
	case token.KwEnum:
		return p.parseEnum()
	case token.KwType:
		return p.parseUDVT()
	case token.KwUsing:
		return p.parseUsing()
	case token.Ident:
		if p.atErrorDecl() {
			return p.parseErrorDecl()
		}
	case token.KwPragma, token.KwImport, token.KwContract, token.KwInterface, token.KwLibrary, token.KwAbstract:
		p.err(diag.SynUnexpectedToken, describe(tok)+" is not allowed inside a contract")
		return ast.NoItemID, false
	}
	if p.looksLikeType(p.pos) {
		return p.parseStateVariable()
	}
	p.err(diag.SynUnexpectedToken, "expected contract member, got "+describe(tok))
	return ast.NoItemID, false
}

func (p *Parser) parseStruct() (ast.ItemID, bool) {
	start := p.pos
	doc := p.peek().Doc
	p.advance()
	var s ast.StructDecl
	var ok bool
	if s.Name, s.NameSpan, ok = p.expectIdent("struct name"); !ok {
		return ast.NoItemID, false
	}
	if _, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{' after struct name"); !ok {
		return ast.NoItemID, false
	}
	for !p.atAny(token.RBrace, token.EOF) {
		fieldStart := p.pos
		typ, ok := p.parseTypeName()
		if !ok {
			return ast.NoItemID, false
		}
		f := ast.StructField{Type: typ}
		if f.Name, f.NameSpan, ok = p.expectIdent("field name"); !ok {
			return ast.NoItemID, false
		}
		if !p.expectSemicolon() {
			return ast.NoItemID, false
		}
		f.Span = p.spanFrom(fieldStart)
		s.Fields = append(s.Fields, f)
	}
	if _, ok := p.expect(token.RBrace, diag.SynUnclosedDelimiter, "expected '}' to close struct"); !ok {
		return ast.NoItemID, false
	}
	return p.arenas.Items.NewStruct(p.spanFrom(start), s, doc), true
}

func (p *Parser) parseEnum() (ast.ItemID, bool) {
	start := p.pos
	doc := p.peek().Doc
	p.advance()
	var e ast.EnumDecl
	var ok bool
	if e.Name, e.NameSpan, ok = p.expectIdent("enum name"); !ok {
		return ast.NoItemID, false
	}
	if _, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{' after enum name"); !ok {
		return ast.NoItemID, false
	}
	for !p.atAny(token.RBrace, token.EOF) {
		name, sp, ok := p.expectIdent("enum member")
		if !ok {
			return ast.NoItemID, false
		}
		e.Members = append(e.Members, ast.EnumMember{Name: name, Span: sp})
		if _, more := p.eat(token.Comma); !more {
			break
		}
	}
	if _, ok := p.expect(token.RBrace, diag.SynUnclosedDelimiter, "expected '}' to close enum"); !ok {
		return ast.NoItemID, false
	}
	return p.arenas.Items.NewEnum(p.spanFrom(start), e, doc), true
}

// parseUDVT handles `type Name is underlying;`.
func (p *Parser) parseUDVT() (ast.ItemID, bool) {
	start := p.pos
	doc := p.peek().Doc
	p.advance()
	var u ast.UDVTDecl
	var ok bool
	if u.Name, u.NameSpan, ok = p.expectIdent("type name"); !ok {
		return ast.NoItemID, false
	}
	if _, ok := p.expect(token.KwIs, diag.SynUnexpectedToken, "expected 'is' in type definition"); !ok {
		return ast.NoItemID, false
	}
	if u.Underlying, ok = p.parseTypeName(); !ok {
		return ast.NoItemID, false
	}
	if !p.expectSemicolon() {
		return ast.NoItemID, false
	}
	return p.arenas.Items.NewUDVT(p.spanFrom(start), u, doc), true
}

func (p *Parser) parseEvent() (ast.ItemID, bool) {
	start := p.pos
	doc := p.peek().Doc
	p.advance()
	var e ast.EventDecl
	var ok bool
	if e.Name, e.NameSpan, ok = p.expectIdent("event name"); !ok {
		return ast.NoItemID, false
	}
	if e.Params, ok = p.parseParamList(paramEvent); !ok {
		return ast.NoItemID, false
	}
	if _, anon := p.eat(token.KwAnonymous); anon {
		e.Anonymous = true
	}
	if !p.expectSemicolon() {
		return ast.NoItemID, false
	}
	return p.arenas.Items.NewEvent(p.spanFrom(start), e, doc), true
}

func (p *Parser) parseErrorDecl() (ast.ItemID, bool) {
	start := p.pos
	doc := p.peek().Doc
	p.advance()
	var e ast.ErrorDecl
	var ok bool
	if e.Name, e.NameSpan, ok = p.expectIdent("error name"); !ok {
		return ast.NoItemID, false
	}
	if e.Params, ok = p.parseParamList(paramPlain); !ok {
		return ast.NoItemID, false
	}
	if !p.expectSemicolon() {
		return ast.NoItemID, false
	}
	return p.arenas.Items.NewError(p.spanFrom(start), e, doc), true
}

// parseUsing handles `using L for T;`, `using {f, g} for T;`, `for *` and the `global` suffix.
func (p *Parser) parseUsing() (ast.ItemID, bool) {
	start := p.pos
	p.advance()
	var u ast.UsingDecl
	if _, ok := p.eat(token.LBrace); ok {
		for !p.atAny(token.RBrace, token.EOF) {
			path, ok := p.parseIdentPath()
			if !ok {
				return ast.NoItemID, false
			}
			u.Functions = append(u.Functions, path)
			if _, ok := p.eat(token.KwAs); ok {
				// operator bindings (`as +`) are accepted and ignored
				p.advance()
			}
			if _, more := p.eat(token.Comma); !more {
				break
			}
		}
		if _, ok := p.expect(token.RBrace, diag.SynUnclosedDelimiter, "expected '}' after function list"); !ok {
			return ast.NoItemID, false
		}
	} else {
		path, ok := p.parseIdentPath()
		if !ok {
			return ast.NoItemID, false
		}
		u.Library = path
	}
	if _, ok := p.expect(token.KwFor, diag.SynUnexpectedToken, "expected 'for' in using directive"); !ok {
		return ast.NoItemID, false
	}
	if _, star := p.eat(token.Star); !star {
		typ, ok := p.parseTypeName()
		if !ok {
			return ast.NoItemID, false
		}
		u.Target = typ
	}
	if p.atWord("global") {
		p.advance()
		u.Global = true
	}
	if !p.expectSemicolon() {
		return ast.NoItemID, false
	}
	return p.arenas.Items.NewUsing(p.spanFrom(start), u), true
}
