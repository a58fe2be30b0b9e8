package lexer

import (
	"strings"
	"unicode/utf8"

	"solfront/internal/diag"
	"solfront/internal/token"
)

type stringMode uint8

const (
	plainString stringMode = iota
	unicodeString
)

func (lx *Lexer) scanString(mode stringMode) token.Token {
	return lx.scanStringFrom(lx.cursor.Mark(), mode)
}

// scanStringFrom reads a quoted literal whose opening quote is at the cursor;
// start may precede it to include a prefix. Value receives the unescaped bytes.
// A newline or EOF ends the literal with an error.
func (lx *Lexer) scanStringFrom(start Mark, mode stringMode) token.Token {
	kind := token.StringLit
	if mode == unicodeString {
		kind = token.UnicodeStringLit
	}
	quote := lx.cursor.Bump()
	var val strings.Builder
	nonASCII := false

	for {
		if lx.cursor.EOF() || lx.cursor.Peek() == '\n' {
			sp := lx.cursor.SpanFrom(start)
			lx.errLex(diag.LexUnterminatedString, sp, "unterminated string literal")
			return token.Token{Kind: kind, Span: sp, Text: lx.text(sp), Value: val.String()}
		}
		b := lx.cursor.Peek()
		if b == quote {
			lx.cursor.Bump()
			break
		}
		if b == '\\' {
			lx.scanEscape(&val)
			continue
		}
		if b >= utf8.RuneSelf {
			r, size := lx.peekRune()
			if mode == plainString && !nonASCII {
				nonASCII = true
				runeSpan := lx.cursor.SpanFrom(lx.cursor.Mark())
				runeSpan.End += uint32(size)
				lx.errLex(diag.LexNonASCIIString, runeSpan,
					"invalid character in string; non-ASCII text needs a unicode\"...\" literal")
			}
			val.WriteRune(r)
			lx.bumpRune()
			continue
		}
		val.WriteByte(lx.cursor.Bump())
	}

	sp := lx.cursor.SpanFrom(start)
	text := lx.text(sp)
	if mode == unicodeString && !bidiBalanced(text) {
		lx.errLex(diag.LexBidiOverride, sp, "unbalanced bidirectional override in string literal")
	}
	return token.Token{Kind: kind, Span: sp, Text: text, Value: val.String()}
}

// scanEscape decodes one escape sequence starting at '\'.
func (lx *Lexer) scanEscape(val *strings.Builder) {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	c := lx.cursor.Bump()
	switch c {
	case 'n':
		val.WriteByte('\n')
	case 't':
		val.WriteByte('\t')
	case 'r':
		val.WriteByte('\r')
	case '\\', '\'', '"':
		val.WriteByte(c)
	case '\n':
		// line continuation
	case 'x':
		if !isHex(lx.cursor.Peek()) || !isHex(lx.cursor.PeekAt(1)) {
			lx.errLex(diag.LexBadEscape, lx.cursor.SpanFrom(start), `\x escape needs two hex digits`)
			return
		}
		hi, lo := lx.cursor.Bump(), lx.cursor.Bump()
		val.WriteByte(hexVal(hi)<<4 | hexVal(lo))
	case 'u':
		var r rune
		for i := 0; i < 4; i++ {
			h := lx.cursor.Peek()
			if !isHex(h) {
				lx.errLex(diag.LexBadEscape, lx.cursor.SpanFrom(start), `\u escape needs four hex digits`)
				return
			}
			lx.cursor.Bump()
			r = r<<4 | rune(hexVal(h))
		}
		val.WriteRune(r)
	default:
		if c >= utf8.RuneSelf {
			lx.cursor.Off--
			lx.bumpRune()
		}
		sp := lx.cursor.SpanFrom(start)
		lx.errLex(diag.LexBadEscape, sp, "invalid escape sequence "+lx.text(sp))
	}
}

// scanHexString reads hex"…" (or hex'…'): pairs of hex digits with an optional
// single '_' between pairs.
func (lx *Lexer) scanHexString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Off += uint32(len("hex"))
	quote := lx.cursor.Bump()
	var val []byte
	digits := 0
	bad := false
	var pending byte
	lastUnderscore := false

	for {
		if lx.cursor.EOF() || lx.cursor.Peek() == '\n' {
			sp := lx.cursor.SpanFrom(start)
			lx.errLex(diag.LexUnterminatedString, sp, "unterminated hex string literal")
			return token.Token{Kind: token.HexStringLit, Span: sp, Text: lx.text(sp), Value: string(val)}
		}
		b := lx.cursor.Bump()
		if b == quote {
			break
		}
		switch {
		case isHex(b):
			if digits%2 == 0 {
				pending = hexVal(b)
			} else {
				val = append(val, pending<<4|hexVal(b))
			}
			digits++
			lastUnderscore = false
		case b == '_' && digits > 0 && digits%2 == 0 && !lastUnderscore:
			lastUnderscore = true
		default:
			bad = true
		}
	}
	sp := lx.cursor.SpanFrom(start)
	if bad || digits%2 != 0 || lastUnderscore {
		lx.errLex(diag.LexBadHexString, sp, "hex string must contain pairs of hex digits, optionally separated by '_'")
	}
	return token.Token{Kind: token.HexStringLit, Span: sp, Text: lx.text(sp), Value: string(val)}
}

func hexVal(b byte) byte {
	switch {
	case b >= '0' && b <= '9':
		return b - '0'
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10
	default:
		return b - 'A' + 10
	}
}
