package parser

import (
	"solfront/internal/ast"
	"solfront/internal/config"
	"solfront/internal/diag"
	"solfront/internal/source"
	"solfront/internal/token"
)

// parsePragma handles `pragma name value...;`. The value is kept as raw source text
// because version numbers like 0.8.0 do not lex as single tokens.
func (p *Parser) parsePragma() (ast.ItemID, bool) {
	start := p.pos
	p.advance()
	if !p.at(token.Ident) && !p.peek().Kind.IsKeyword() {
		p.err(diag.SynBadPragma, "expected pragma name, got "+describe(p.peek()))
		return ast.NoItemID, false
	}
	nameTok := p.advance()
	name := p.intern(nameTok.Text)

	valueStart := p.pos
	for !p.atAny(token.Semicolon, token.EOF) {
		p.advance()
	}
	var value string
	valueSpan := source.ZeroAt(nameTok.Span.File, nameTok.Span.End)
	if p.pos > valueStart {
		valueSpan = p.spanFrom(valueStart)
		value = p.src.Text(valueSpan)
	}
	if !p.expectSemicolon() {
		return ast.NoItemID, false
	}
	id := p.arenas.Items.NewPragma(p.spanFrom(start), name, value, valueSpan)
	if nameTok.Text == "solidity" {
		p.checkVersionPragma(value, valueSpan)
	}
	return id, true
}

func (p *Parser) checkVersionPragma(value string, sp source.Span) {
	c, err := config.ParseConstraint(value)
	if err != nil {
		p.errAt(diag.SynBadPragma, sp, "invalid version pragma: "+err.Error())
		return
	}
	if p.opts.Config.CheckPragma && !c.Allows(p.opts.Config.Version) {
		p.errAt(diag.SynPragmaVersion, sp,
			"source requires compiler version "+c.String()+", configured version is "+p.opts.Config.Version.String())
	}
}

// parseImport accepts the four import forms:
//
//	import "p";
//	import "p" as A;
//	import * as A from "p";
//	import {x as y, z} from "p";
func (p *Parser) parseImport() (ast.ItemID, bool) {
	start := p.pos
	p.advance()
	var decl ast.ImportDecl
	switch {
	case p.at(token.StringLit):
		p.importPath(&decl)
		if _, ok := p.eat(token.KwAs); ok {
			alias, _, ok := p.expectIdent("import alias")
			if !ok {
				return ast.NoItemID, false
			}
			decl.Alias = alias
		}
	case p.at(token.Star):
		p.advance()
		decl.Wildcard = true
		if _, ok := p.expect(token.KwAs, diag.SynBadImport, "expected 'as' after '*'"); !ok {
			return ast.NoItemID, false
		}
		alias, _, ok := p.expectIdent("import alias")
		if !ok {
			return ast.NoItemID, false
		}
		decl.Alias = alias
		if !p.importFrom(&decl) {
			return ast.NoItemID, false
		}
	case p.at(token.LBrace):
		p.advance()
		for !p.atAny(token.RBrace, token.EOF) {
			symStart := p.pos
			name, _, ok := p.expectIdent("imported symbol")
			if !ok {
				return ast.NoItemID, false
			}
			sym := ast.ImportSymbol{Name: name}
			if _, ok := p.eat(token.KwAs); ok {
				alias, _, ok := p.expectIdent("symbol alias")
				if !ok {
					return ast.NoItemID, false
				}
				sym.Alias = alias
			}
			sym.Span = p.spanFrom(symStart)
			decl.Symbols = append(decl.Symbols, sym)
			if _, ok := p.eat(token.Comma); !ok {
				break
			}
		}
		if _, ok := p.expect(token.RBrace, diag.SynUnclosedDelimiter, "expected '}' after import list"); !ok {
			return ast.NoItemID, false
		}
		if len(decl.Symbols) == 0 {
			p.errAt(diag.SynBadImport, p.spanFrom(start), "empty import list")
		}
		if !p.importFrom(&decl) {
			return ast.NoItemID, false
		}
	default:
		p.err(diag.SynBadImport, "expected import path, '*' or '{', got "+describe(p.peek()))
		return ast.NoItemID, false
	}
	if !p.expectSemicolon() {
		return ast.NoItemID, false
	}
	return p.arenas.Items.NewImport(p.spanFrom(start), decl), true
}

func (p *Parser) importFrom(decl *ast.ImportDecl) bool {
	if !p.atWord("from") {
		p.err(diag.SynBadImport, "expected 'from', got "+describe(p.peek()))
		return false
	}
	p.advance()
	if !p.at(token.StringLit) {
		p.err(diag.SynBadImport, "expected import path string, got "+describe(p.peek()))
		return false
	}
	p.importPath(decl)
	return true
}

func (p *Parser) importPath(decl *ast.ImportDecl) {
	tok := p.advance()
	decl.Path = tok.Value
	decl.PathSpan = tok.Span
	if tok.Value == "" {
		p.errAt(diag.SynBadImport, tok.Span, "import path is empty")
	}
}
