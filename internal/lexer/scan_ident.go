package lexer

import (
	"solfront/internal/token"
)

// scanIdentOrKeyword reads [A-Za-z_$][A-Za-z0-9_$]*. The words hex and unicode
// directly followed by a quote start prefixed string literals.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()
	for !lx.cursor.EOF() && isIdentContinueByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	text := lx.text(sp)

	if q := lx.cursor.Peek(); q == '"' || q == '\'' {
		switch text {
		case "hex":
			lx.cursor.Reset(start)
			return lx.scanHexString()
		case "unicode":
			return lx.scanStringFrom(start, unicodeString)
		}
	}

	kind, _ := token.LookupKeyword(text, lx.opts.Version)
	return token.Token{Kind: kind, Span: sp, Text: text}
}
