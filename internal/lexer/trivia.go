package lexer

import (
	"strings"

	"solfront/internal/diag"
	"solfront/internal/token"
)

// collectLeadingTrivia gathers whitespace and comments before the next token.
// Runs of spaces and of newlines are coalesced.
func (lx *Lexer) collectLeadingTrivia() {
	lx.hold = lx.hold[:0]
	for !lx.cursor.EOF() {
		start := lx.cursor.Mark()
		b := lx.cursor.Peek()

		switch {
		case b == ' ' || b == '\t' || b == '\r' || b == '\f' || b == '\v':
			for {
				b2 := lx.cursor.Peek()
				if b2 != ' ' && b2 != '\t' && b2 != '\r' && b2 != '\f' && b2 != '\v' {
					break
				}
				lx.cursor.Bump()
			}
			lx.pushTrivia(token.TriviaSpace, start)
			continue
		case b == '\n':
			for lx.cursor.Peek() == '\n' {
				lx.cursor.Bump()
			}
			lx.pushTrivia(token.TriviaNewline, start)
			continue
		case b == '/' && lx.scanComment():
			continue
		}
		return
	}
}

func (lx *Lexer) pushTrivia(kind token.TriviaKind, start Mark) {
	sp := lx.cursor.SpanFrom(start)
	lx.hold = append(lx.hold, token.Trivia{Kind: kind, Span: sp, Text: lx.text(sp)})
}

// scanComment handles //, ///, /* */ and /** */. Block comments do not nest.
func (lx *Lexer) scanComment() bool {
	start := lx.cursor.Mark()
	switch lx.cursor.PeekAt(1) {
	case '/':
		lx.cursor.Off += 2
		kind := token.TriviaLineComment
		if lx.cursor.Peek() == '/' && lx.cursor.PeekAt(1) != '/' {
			kind = token.TriviaDocLine
		}
		for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
			lx.cursor.Bump()
		}
		lx.pushTrivia(kind, start)
	case '*':
		lx.cursor.Off += 2
		kind := token.TriviaBlockComment
		if lx.cursor.Peek() == '*' && lx.cursor.PeekAt(1) != '/' {
			kind = token.TriviaDocBlock
		}
		closed := false
		for !lx.cursor.EOF() {
			if lx.try2('*', '/') {
				closed = true
				break
			}
			lx.cursor.Bump()
		}
		if !closed {
			lx.errLex(diag.LexUnterminatedBlockComment, lx.cursor.SpanFrom(start), "unterminated block comment")
		}
		lx.pushTrivia(kind, start)
	default:
		return false
	}
	tr := lx.hold[len(lx.hold)-1]
	if !bidiBalanced(tr.Text) {
		lx.errLex(diag.LexBidiOverride, tr.Span, "unbalanced bidirectional override in comment")
	}
	return true
}

// docText joins the doc comments in trivia, stripped of their markers.
func docText(trivia []token.Trivia) string {
	var parts []string
	for _, tr := range trivia {
		switch tr.Kind {
		case token.TriviaDocLine:
			parts = append(parts, strings.TrimSpace(strings.TrimPrefix(tr.Text, "///")))
		case token.TriviaDocBlock:
			body := strings.TrimSuffix(strings.TrimPrefix(tr.Text, "/**"), "*/")
			for _, line := range strings.Split(body, "\n") {
				line = strings.TrimSpace(line)
				line = strings.TrimSpace(strings.TrimPrefix(line, "*"))
				if line != "" {
					parts = append(parts, line)
				}
			}
		}
	}
	return strings.Join(parts, "\n")
}
