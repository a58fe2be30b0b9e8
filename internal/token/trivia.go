package token

import "solfront/internal/source"

type TriviaKind uint8

const (
	TriviaSpace TriviaKind = iota
	TriviaNewline
	TriviaLineComment
	TriviaBlockComment
	TriviaDocLine
	TriviaDocBlock
)

type Trivia struct {
	Kind TriviaKind
	Span source.Span
	Text string
}

// IsDoc reports documentation comments.
func (t Trivia) IsDoc() bool {
	return t.Kind == TriviaDocLine || t.Kind == TriviaDocBlock
}

func (k TriviaKind) String() string {
	switch k {
	case TriviaSpace:
		return "space"
	case TriviaNewline:
		return "newline"
	case TriviaLineComment:
		return "line_comment"
	case TriviaBlockComment:
		return "block_comment"
	case TriviaDocLine:
		return "doc_line"
	case TriviaDocBlock:
		return "doc_block"
	}
	return "unknown"
}
