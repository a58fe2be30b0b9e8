package token

import (
	"solfront/internal/source"
)

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Value   string
	Leading []Trivia
	// Doc is the text of the doc comments (/// or /** */) directly preceding the token.
	Doc string
}

// Is reports whether the token has one of the kinds.
func (t Token) Is(kinds ...Kind) bool {
	for _, k := range kinds {
		if t.Kind == k {
			return true
		}
	}
	return false
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }
