package format

import (
	"strings"

	"solfront/internal/source"
)

// Writer accumulates formatted output line by line with indentation.
type Writer struct {
	sf          *source.File
	opt         Options
	buf         []byte
	indentLevel int
	atLineStart bool
}

func NewWriter(sf *source.File, opt Options) *Writer {
	size := 0
	if sf != nil {
		size = len(sf.Content)
	}
	return &Writer{
		sf:          sf,
		opt:         opt.withDefaults(),
		buf:         make([]byte, 0, size),
		atLineStart: true,
	}
}

func (w *Writer) Bytes() []byte {
	return w.buf
}

func (w *Writer) writeIndent() {
	if !w.atLineStart {
		return
	}
	if w.opt.UseTabs {
		for range w.indentLevel {
			w.buf = append(w.buf, '\t')
		}
	} else {
		for range w.indentLevel * w.opt.IndentWidth {
			w.buf = append(w.buf, ' ')
		}
	}
	w.atLineStart = false
}

// WriteString writes s; embedded newlines are copied as is without re-indenting.
func (w *Writer) WriteString(s string) {
	if s == "" {
		return
	}
	w.writeIndent()
	w.buf = append(w.buf, s...)
	w.atLineStart = s[len(s)-1] == '\n'
}

func (w *Writer) Newline() {
	w.buf = append(w.buf, '\n')
	w.atLineStart = true
}

// Line writes s followed by a newline.
func (w *Writer) Line(s string) {
	w.WriteString(s)
	w.Newline()
}

// BlankLine emits an empty line unless the output already ends with one.
func (w *Writer) BlankLine() {
	if len(w.buf) == 0 || strings.HasSuffix(string(w.buf[max(0, len(w.buf)-2):]), "\n\n") {
		return
	}
	if !w.atLineStart {
		w.Newline()
	}
	w.Newline()
}

func (w *Writer) Indent() { w.indentLevel++ }

func (w *Writer) Dedent() {
	if w.indentLevel > 0 {
		w.indentLevel--
	}
}

// CopySpan writes the original source text of sp.
func (w *Writer) CopySpan(sp source.Span) {
	if w.sf == nil {
		return
	}
	w.WriteString(w.sf.Text(sp))
}
