// Package fuzztests holds fuzz harnesses for the front end. They feed
// arbitrary bytes through the lexer, the parser and the full driver to catch
// panics, hangs and span corruption.
package fuzztests
