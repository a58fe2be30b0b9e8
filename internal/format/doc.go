// Package format prints a parsed file back to canonical source text.
//
// The printer works purely from the AST: ordinary comments are dropped, doc
// comments are re-emitted as `///` lines and inline assembly bodies are copied
// verbatim from the source. Printing a re-parsed printout yields the same text.
package format
