package lexer

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"solfront/internal/diag"
	"solfront/internal/token"
)

// scanNumber reads decimal integers, rationals (1.5, .5, 2e10, 1e-3) and
// 0x-prefixed hex numbers or address literals.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	if lx.cursor.Peek() == '0' && lx.cursor.PeekAt(1) == 'x' {
		return lx.scanHexNumber()
	}

	kind := token.NumberLit
	var segments []string
	intPart := lx.scanDigitRun(isDec)
	segments = append(segments, intPart)

	if lx.cursor.Peek() == '.' && isDec(lx.cursor.PeekAt(1)) {
		lx.cursor.Bump()
		segments = append(segments, lx.scanDigitRun(isDec))
		kind = token.RationalLit
	}
	if e := lx.cursor.Peek(); e == 'e' || e == 'E' {
		next := lx.cursor.PeekAt(1)
		if isDec(next) || (next == '-' && isDec(lx.cursor.PeekAt(2))) {
			lx.cursor.Bump()
			lx.cursor.Eat('-')
			segments = append(segments, lx.scanDigitRun(isDec))
			kind = token.RationalLit
		}
	}

	sp := lx.cursor.SpanFrom(start)
	text := lx.text(sp)
	for _, seg := range segments {
		if !validUnderscores(seg) {
			lx.errLex(diag.LexBadNumber, sp, "invalid use of '_' in number literal "+text)
			break
		}
	}
	if kind == token.NumberLit {
		digits := strings.ReplaceAll(intPart, "_", "")
		if len(digits) > 1 && digits[0] == '0' {
			lx.errLex(diag.LexBadNumber, sp, "octal-looking number literal "+text+" is not allowed")
		}
	}
	if tok, bad := lx.identAfterNumber(start); bad {
		return tok
	}
	return token.Token{Kind: kind, Span: sp, Text: text, Value: strings.ReplaceAll(text, "_", "")}
}

func (lx *Lexer) scanHexNumber() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Off += 2
	digits := lx.scanDigitRun(isHex)
	sp := lx.cursor.SpanFrom(start)
	text := lx.text(sp)

	if digits == "" {
		lx.errLex(diag.LexBadNumber, sp, "hex number literal without digits")
	} else if !validUnderscores(digits) {
		lx.errLex(diag.LexBadNumber, sp, "invalid use of '_' in number literal "+text)
	}
	if tok, bad := lx.identAfterNumber(start); bad {
		return tok
	}

	n := len(digits)
	if !strings.Contains(digits, "_") && n >= 39 && n <= 41 {
		if n == 40 {
			if want := common.HexToAddress(text).Hex(); want != text {
				lx.errLex(diag.LexBadAddressChecksum, sp,
					"address literal "+text+" does not pass the checksum test; correct checksummed address is "+want)
			}
		} else {
			lx.errLex(diag.LexBadAddressChecksum, sp,
				"address literal "+text+" must have exactly 40 hex digits")
		}
		return token.Token{Kind: token.AddressLit, Span: sp, Text: text, Value: text}
	}
	return token.Token{Kind: token.HexNumberLit, Span: sp, Text: text, Value: strings.ReplaceAll(text, "_", "")}
}

// scanDigitRun consumes digits accepted by ok plus '_' separators.
func (lx *Lexer) scanDigitRun(ok func(byte) bool) string {
	start := lx.cursor.Off
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if !ok(b) && b != '_' {
			break
		}
		lx.cursor.Bump()
	}
	return string(lx.file.Content[start:lx.cursor.Off])
}

// identAfterNumber rejects 123abc: the identifier tail is swallowed into one invalid token.
func (lx *Lexer) identAfterNumber(start Mark) (token.Token, bool) {
	if !isIdentStartByte(lx.cursor.Peek()) {
		return token.Token{}, false
	}
	for !lx.cursor.EOF() && isIdentContinueByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexIdentAfterNumber, sp, "identifier-start is not allowed at the end of a number")
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}, true
}

// validUnderscores: '_' only between two digits.
func validUnderscores(seg string) bool {
	if seg == "" {
		return true
	}
	if seg[0] == '_' || seg[len(seg)-1] == '_' {
		return false
	}
	return !strings.Contains(seg, "__")
}
