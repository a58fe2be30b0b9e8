package diag

import (
	"sort"

	"solfront/internal/source"
)

// Located is a diagnostic with its span resolved to a path and a 1-based position.
// It is the output record handed to hosts and the unit of the diagnostics cache.
type Located struct {
	Severity Severity      `msgpack:"sev" json:"severity"`
	Code     Code          `msgpack:"code" json:"code"`
	Phase    Phase         `msgpack:"phase" json:"phase"`
	Message  string        `msgpack:"msg" json:"message"`
	Path     string        `msgpack:"path" json:"path"`
	Line     uint32        `msgpack:"line" json:"line"`
	Column   uint32        `msgpack:"col" json:"column"`
	EndLine  uint32        `msgpack:"eline" json:"end_line"`
	EndCol   uint32        `msgpack:"ecol" json:"end_column"`
	Notes    []LocatedNote `msgpack:"notes,omitempty" json:"notes,omitempty"`
}

type LocatedNote struct {
	Message string `msgpack:"msg" json:"message"`
	Path    string `msgpack:"path" json:"path"`
	Line    uint32 `msgpack:"line" json:"line"`
	Column  uint32 `msgpack:"col" json:"column"`
}

// Locate resolves d against fs.
func Locate(fs *source.FileSet, d Diagnostic) Located {
	start, end := fs.Resolve(d.Primary)
	out := Located{
		Severity: d.Severity,
		Code:     d.Code,
		Phase:    d.Phase,
		Message:  d.Message,
		Path:     fs.Get(d.Primary.File).Path,
		Line:     start.Line,
		Column:   start.Col,
		EndLine:  end.Line,
		EndCol:   end.Col,
	}
	for _, n := range d.Notes {
		pos, _ := fs.Resolve(n.Span)
		out.Notes = append(out.Notes, LocatedNote{
			Message: n.Msg,
			Path:    fs.Get(n.Span.File).Path,
			Line:    pos.Line,
			Column:  pos.Col,
		})
	}
	return out
}

// LocateAll resolves every diagnostic in the bag.
func LocateAll(fs *source.FileSet, b *Bag) []Located {
	out := make([]Located, 0, b.Len())
	for _, d := range b.Items() {
		out = append(out, Locate(fs, d))
	}
	return out
}

// SortLocated orders by path, line, column, phase, then code and message
// so merged output does not depend on worker scheduling.
func SortLocated(items []Located) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		if a.Phase != b.Phase {
			return a.Phase < b.Phase
		}
		if a.Code != b.Code {
			return a.Code < b.Code
		}
		return a.Message < b.Message
	})
}

// IsFatal reports whether the record is an error.
func (l Located) IsFatal() bool {
	return l.Severity >= SevError
}
