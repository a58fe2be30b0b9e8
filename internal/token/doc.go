// Package token defines lexical token kinds and trivia.
// Invariants:
//   - Token.Text is the exact source slice covered by Token.Span.
//   - Token.Value holds the decoded payload of literals (digits without `_`,
//     unescaped string bytes); it is empty for other tokens.
//   - Elementary type names (uint256, address, bytes32, ...) are identifiers.
//     The parser and the type layer recognise them, not the lexer.
//   - Contextual words (error, revert, from, global) are identifiers.
package token
