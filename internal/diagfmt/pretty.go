package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"solfront/internal/diag"
	"solfront/internal/source"
)

// SourceLookup returns the file registered under path, or nil when its text
// is not available.
type SourceLookup func(path string) *source.File

// FileSetLookup looks paths up in fs.
func FileSetLookup(fs *source.FileSet) SourceLookup {
	return func(path string) *source.File {
		if fs == nil {
			return nil
		}
		id, ok := fs.Lookup(path)
		if !ok {
			return nil
		}
		return fs.Get(id)
	}
}

type palette struct {
	err, warn, note, gutter, caret *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		note:   color.New(color.FgCyan),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgGreen, color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.note, p.gutter, p.caret} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Pretty renders the diagnostics of bag, which should be sorted:
//
//	<path>:<line>:<col>: ERROR <CODE>: <message>
//
// followed by the source line with the primary span underlined and, when
// requested, the notes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) error {
	return PrettyLocated(w, diag.LocateAll(fs, bag), FileSetLookup(fs), opts)
}

// PrettyLocated renders located diagnostics; lookup may be nil, in which
// case no source lines are shown.
func PrettyLocated(w io.Writer, items []diag.Located, lookup SourceLookup, opts PrettyOpts) error {
	p := newPalette(opts.Color)
	var sb strings.Builder
	for _, d := range items {
		sev := p.warn
		if d.Severity >= diag.SevError {
			sev = p.err
		}
		fmt.Fprintf(&sb, "%s:%d:%d: %s %s: %s\n",
			formatPath(d.Path, opts.PathMode), d.Line, d.Column,
			sev.Sprint(strings.ToUpper(d.Severity.String())), d.Code.ID(), d.Message)
		if lookup != nil {
			if f := lookup(d.Path); f != nil {
				writeSnippet(&sb, f, d, opts.Context, p)
			}
		}
		if opts.ShowNotes {
			for _, n := range d.Notes {
				fmt.Fprintf(&sb, "  %s %s:%d:%d: %s\n", p.note.Sprint("note:"),
					formatPath(n.Path, opts.PathMode), n.Line, n.Column, n.Message)
			}
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// writeSnippet prints the primary line with up to ctx lines around it and
// underlines the span. Spans running past the line are cut at its end.
func writeSnippet(sb *strings.Builder, f *source.File, d diag.Located, ctx int, p palette) {
	if d.Line == 0 {
		return
	}
	ctx = max(ctx, 0)
	first := max(int(d.Line)-ctx, 1)
	last := min(int(d.Line)+ctx, len(f.LineIdx)+1)
	width := len(fmt.Sprint(last))
	for ln := first; ln <= last; ln++ {
		text := f.Line(uint32(ln))
		fmt.Fprintf(sb, "%s %s\n", p.gutter.Sprintf("%*d |", width, ln), text)
		if ln != int(d.Line) {
			continue
		}
		start := min(int(d.Column)-1, len(text))
		end := len(text)
		if d.EndLine == d.Line {
			end = min(int(d.EndCol)-1, len(text))
		}
		end = max(end, start)
		marker := "^" + strings.Repeat("~", max(runewidth.StringWidth(text[start:end])-1, 0))
		fmt.Fprintf(sb, "%s %s%s\n", p.gutter.Sprintf("%*s |", width, ""), pad(text[:start]), p.caret.Sprint(marker))
	}
}

// pad returns blanks as wide as prefix, keeping its tabs so the caret lines
// up with the source.
func pad(prefix string) string {
	var sb strings.Builder
	for _, r := range prefix {
		if r == '\t' {
			sb.WriteByte('\t')
			continue
		}
		sb.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	return sb.String()
}
