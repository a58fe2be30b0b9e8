package lexer

import (
	"unicode/utf8"

	"solfront/internal/diag"
	"solfront/internal/source"
	"solfront/internal/token"
)

// Lexer turns one file into a lazy token stream. It never stops on errors:
// malformed input is reported and skipped up to the next whitespace.
type Lexer struct {
	file    *source.File
	cursor  Cursor
	opts    Options
	look    *token.Token
	hold    []token.Trivia
	checked bool
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
	}
}

// Next returns the next significant token with its leading trivia attached.
// After EOF it keeps returning EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}
	if !lx.checked {
		lx.checked = true
		lx.checkEncoding()
	}

	lx.collectLeadingTrivia()
	if lx.cursor.EOF() {
		return token.Token{Kind: token.EOF, Span: lx.emptySpan()}
	}

	ch := lx.cursor.Peek()
	var tok token.Token
	switch {
	case isIdentStartByte(ch):
		tok = lx.scanIdentOrKeyword()
	case isDec(ch):
		tok = lx.scanNumber()
	case ch == '.' && isDec(lx.cursor.PeekAt(1)):
		tok = lx.scanNumber()
	case ch == '"' || ch == '\'':
		tok = lx.scanString(plainString)
	case ch >= utf8.RuneSelf:
		tok = lx.scanInvalid("character not allowed outside string literals and comments")
	default:
		tok = lx.scanOperatorOrPunct()
	}

	tok.Leading = lx.hold
	tok.Doc = docText(lx.hold)
	lx.hold = nil
	return tok
}

// Peek returns the next token without consuming it.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

// Reset rewinds to the start of the file. Diagnostics are reported again on re-lexing.
func (lx *Lexer) Reset() {
	lx.cursor.Reset(0)
	lx.look = nil
	lx.hold = nil
	lx.checked = false
}

// Tokenize lexes the whole file; the last token is EOF.
func Tokenize(file *source.File, opts Options) []token.Token {
	lx := New(file, opts)
	out := make([]token.Token, 0, len(file.Content)/4+1)
	for {
		tok := lx.Next()
		out = append(out, tok)
		if tok.Kind == token.EOF {
			return out
		}
	}
}

func (lx *Lexer) emptySpan() source.Span {
	return source.ZeroAt(lx.file.ID, lx.cursor.Off)
}

func (lx *Lexer) text(sp source.Span) string {
	return string(lx.file.Content[sp.Start:sp.End])
}

func (lx *Lexer) checkEncoding() {
	content := lx.file.Content
	if utf8.Valid(content) {
		return
	}
	for i := 0; i < len(content); {
		r, size := utf8.DecodeRune(content[i:])
		if r == utf8.RuneError && size <= 1 {
			sp := source.Span{File: lx.file.ID, Start: uint32(i), End: uint32(i + 1)}
			lx.errLex(diag.LexInvalidUTF8, sp, "source is not valid UTF-8")
			return
		}
		i += size
	}
}

// scanInvalid reports the current character and skips to the next whitespace.
func (lx *Lexer) scanInvalid(msg string) token.Token {
	start := lx.cursor.Mark()
	for !lx.cursor.EOF() && !isSpace(lx.cursor.Peek()) {
		lx.bumpRune()
	}
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnknownChar, sp, msg)
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
}
