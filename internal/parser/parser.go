// Package parser builds the AST of one source file from its token stream.
package parser

import (
	"solfront/internal/ast"
	"solfront/internal/config"
	"solfront/internal/diag"
	"solfront/internal/lexer"
	"solfront/internal/source"
	"solfront/internal/token"
)

type Options struct {
	Reporter diag.Reporter
	Config   config.Config
	// MaxErrors stops reporting after this many syntax errors; zero means unlimited.
	MaxErrors uint
}

type Result struct {
	File   ast.FileID
	Errors uint
}

// Parser holds the state for one file. The token stream is materialized up front
// so declarations and expressions can be told apart with arbitrary lookahead.
type Parser struct {
	toks     []token.Token
	pos      int
	src      *source.File
	arenas   *ast.Builder
	file     ast.FileID
	opts     Options
	errors   uint
	lastSpan source.Span
}

// ParseFile lexes and parses file, reporting lexical and syntax diagnostics to opts.Reporter.
func ParseFile(file *source.File, arenas *ast.Builder, opts Options) Result {
	toks := lexer.Tokenize(file, lexer.Options{Reporter: opts.Reporter, Version: opts.Config.Version})
	return ParseTokens(file, toks, arenas, opts)
}

// ParseTokens parses an already lexed token stream ending in EOF.
func ParseTokens(file *source.File, toks []token.Token, arenas *ast.Builder, opts Options) Result {
	// Invalid tokens were already reported by the lexer.
	kept := make([]token.Token, 0, len(toks))
	for _, tok := range toks {
		if tok.Kind != token.Invalid {
			kept = append(kept, tok)
		}
	}
	toks = kept
	if len(toks) == 0 || toks[len(toks)-1].Kind != token.EOF {
		end := source.ZeroAt(file.ID, uint32(len(file.Content)))
		toks = append(toks, token.Token{Kind: token.EOF, Span: end})
	}
	if opts.Reporter == nil {
		opts.Reporter = diag.NopReporter{}
	}
	p := Parser{
		toks:     toks,
		src:      file,
		arenas:   arenas,
		opts:     opts,
		lastSpan: source.ZeroAt(file.ID, 0),
	}
	p.file = arenas.NewFile(file.ID, file.Path, source.Span{File: file.ID, Start: 0, End: uint32(len(file.Content))})
	p.parseItems()
	return Result{File: p.file, Errors: p.errors}
}

func (p *Parser) parseItems() {
	for !p.at(token.EOF) {
		start := p.pos
		id, ok := p.parseSourceUnitItem()
		if ok {
			p.arenas.PushItem(p.file, id)
			continue
		}
		p.resyncItem(start)
	}
}

// parseSourceUnitItem dispatches on the first token of a top-level declaration.
func (p *Parser) parseSourceUnitItem() (ast.ItemID, bool) {
	tok := p.peek()
	switch tok.Kind {
	case token.KwPragma:
		return p.parsePragma()
	case token.KwImport:
		return p.parseImport()
	case token.KwAbstract, token.KwContract, token.KwInterface, token.KwLibrary:
		return p.parseContract()
	case token.KwFunction:
		if p.peekN(1).Kind == token.Ident {
			return p.parseFunction()
		}
	case token.KwStruct:
		return p.parseStruct()
	case token.KwEnum:
		return p.parseEnum()
	case token.KwType:
		return p.parseUDVT()
	case token.KwEvent:
		return p.parseEvent()
	case token.KwUsing:
		return p.parseUsing()
	case token.Ident:
		if p.atErrorDecl() {
			return p.parseErrorDecl()
		}
	}
	if p.looksLikeType(p.pos) {
		id, ok := p.parseStateVariable()
		if ok {
			if v, _ := p.arenas.Items.Variable(id); !v.Constant {
				p.errAt(diag.SynSpecifierNotAllowed, p.arenas.Items.Get(id).Span,
					"file-level variables must be constant")
			}
		}
		return id, ok
	}
	p.err(diag.SynUnexpectedToken, "expected pragma, import or declaration, got "+describe(tok))
	return ast.NoItemID, false
}

// atErrorDecl reports whether the contextual word `error` starts an error definition.
func (p *Parser) atErrorDecl() bool {
	return p.peek().Text == "error" && p.peekN(1).Kind == token.Ident && p.peekN(2).Kind == token.LParen
}

func isItemStarter(k token.Kind) bool {
	switch k {
	case token.KwPragma, token.KwImport, token.KwAbstract, token.KwContract, token.KwInterface,
		token.KwLibrary, token.KwFunction, token.KwStruct, token.KwEnum, token.KwEvent,
		token.KwUsing, token.KwModifier, token.KwConstructor, token.KwReceive, token.KwFallback:
		return true
	}
	return false
}

// resyncItem skips to the end of the broken declaration: past a `;` at nesting depth zero,
// past the `}` that closes a brace opened after start, or to the next declaration keyword.
func (p *Parser) resyncItem(start int) {
	if p.pos == start {
		p.advance()
	}
	depth := 0
	for !p.at(token.EOF) {
		switch p.peek().Kind {
		case token.LBrace:
			depth++
		case token.RBrace:
			if depth == 0 {
				return
			}
			depth--
			if depth == 0 {
				p.advance()
				return
			}
		case token.Semicolon:
			if depth == 0 {
				p.advance()
				return
			}
		default:
			if depth == 0 && isItemStarter(p.peek().Kind) {
				return
			}
		}
		p.advance()
	}
}

// resyncStmt skips to just past the next `;` or balancing `}` of the current block.
// A `}` closing the enclosing block is left for the caller.
func (p *Parser) resyncStmt(start int) {
	if p.pos == start && !p.at(token.RBrace) {
		p.advance()
	}
	depth := 0
	for !p.at(token.EOF) {
		switch p.peek().Kind {
		case token.LBrace:
			depth++
		case token.RBrace:
			if depth == 0 {
				return
			}
			depth--
			if depth == 0 {
				p.advance()
				return
			}
		case token.Semicolon:
			if depth == 0 {
				p.advance()
				return
			}
		}
		p.advance()
	}
}
