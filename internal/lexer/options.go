package lexer

import (
	"solfront/internal/config"
	"solfront/internal/diag"
	"solfront/internal/source"
)

type Options struct {
	// Reporter may be nil; errors are then dropped but lexing continues.
	Reporter diag.Reporter
	// Version gates keywords. The zero Version reserves only ungated words.
	Version config.Version
}

func (lx *Lexer) errLex(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(code, diag.SevError, sp, msg, nil)
	}
}
