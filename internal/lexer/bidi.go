package lexer

import (
	"golang.org/x/text/unicode/bidi"
)

// bidiBalanced reports whether every embedding/override opened in s is closed
// by PDF and every isolate by PDI, with no stray closers.
func bidiBalanced(s string) bool {
	embed, isolate := 0, 0
	for _, r := range s {
		if r < 0x200E {
			continue
		}
		p, _ := bidi.LookupRune(r)
		switch p.Class() {
		case bidi.LRE, bidi.RLE, bidi.LRO, bidi.RLO:
			embed++
		case bidi.PDF:
			if embed == 0 {
				return false
			}
			embed--
		case bidi.LRI, bidi.RLI, bidi.FSI:
			isolate++
		case bidi.PDI:
			if isolate == 0 {
				return false
			}
			isolate--
		}
	}
	return embed == 0 && isolate == 0
}
