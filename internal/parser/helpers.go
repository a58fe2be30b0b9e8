package parser

import (
	"strconv"

	"solfront/internal/diag"
	"solfront/internal/source"
	"solfront/internal/token"
)

func (p *Parser) peek() token.Token {
	return p.peekN(0)
}

// peekN looks n tokens ahead; the stream always ends in EOF.
func (p *Parser) peekN(n int) token.Token {
	i := p.pos + n
	if i >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[i]
}

func (p *Parser) at(k token.Kind) bool {
	return p.peek().Kind == k
}

func (p *Parser) atAny(kinds ...token.Kind) bool {
	return p.peek().Is(kinds...)
}

// atWord reports whether the next token is the identifier text.
func (p *Parser) atWord(text string) bool {
	tok := p.peek()
	return tok.Kind == token.Ident && tok.Text == text
}

func (p *Parser) advance() token.Token {
	tok := p.peek()
	if tok.Kind != token.EOF {
		p.pos++
		p.lastSpan = tok.Span
	}
	return tok
}

func (p *Parser) eat(k token.Kind) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	return token.Token{}, false
}

// diagSpan points at the next token, or just past the last one at end of input.
func (p *Parser) diagSpan() source.Span {
	tok := p.peek()
	if tok.Kind == token.EOF && p.lastSpan.End > 0 {
		return source.ZeroAt(p.lastSpan.File, p.lastSpan.End)
	}
	return tok.Span
}

func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	p.err(code, msg+", got "+describe(p.peek()))
	return token.Token{Kind: token.Invalid, Span: p.diagSpan()}, false
}

func (p *Parser) expectSemicolon() bool {
	_, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';'")
	return ok
}

func (p *Parser) expectIdent(what string) (source.StringID, source.Span, bool) {
	if p.at(token.Ident) {
		tok := p.advance()
		return p.arenas.Strings.Intern(tok.Text), tok.Span, true
	}
	p.err(diag.SynExpectIdentifier, "expected "+what+", got "+describe(p.peek()))
	return source.NoStringID, p.diagSpan(), false
}

func (p *Parser) err(code diag.Code, msg string) {
	p.errAt(code, p.diagSpan(), msg)
}

func (p *Parser) errAt(code diag.Code, sp source.Span, msg string) {
	p.report(code, diag.SevError, sp, msg)
}

func (p *Parser) warnAt(code diag.Code, sp source.Span, msg string) {
	p.report(code, diag.SevWarning, sp, msg)
}

func (p *Parser) report(code diag.Code, sev diag.Severity, sp source.Span, msg string) {
	if sev == diag.SevError {
		p.errors++
		if p.opts.MaxErrors != 0 && p.errors > p.opts.MaxErrors {
			return
		}
	}
	p.opts.Reporter.Report(code, sev, sp, msg, nil)
}

// spanFrom covers the tokens from index start up to the last consumed token.
func (p *Parser) spanFrom(start int) source.Span {
	first := p.toks[start].Span
	if p.pos <= start {
		return source.ZeroAt(first.File, first.Start)
	}
	return first.Cover(p.toks[p.pos-1].Span)
}

func (p *Parser) intern(s string) source.StringID {
	return p.arenas.Strings.Intern(s)
}

func describe(tok token.Token) string {
	switch {
	case tok.Kind == token.EOF:
		return "end of file"
	case tok.Text != "":
		return strconv.Quote(tok.Text)
	}
	return tok.Kind.String()
}
