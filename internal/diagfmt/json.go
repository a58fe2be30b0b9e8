package diagfmt

import (
	"encoding/json"
	"io"

	"solfront/internal/diag"
	"solfront/internal/source"
)

// LocationJSON is a 1-based source position.
type LocationJSON struct {
	File      string `json:"file"`
	StartLine uint32 `json:"start_line"`
	StartCol  uint32 `json:"start_col"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

type NoteJSON struct {
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

type DiagnosticJSON struct {
	Severity string       `json:"severity"`
	Code     string       `json:"code"`
	Category string       `json:"category"`
	Phase    string       `json:"phase"`
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
	Notes    []NoteJSON   `json:"notes,omitempty"`
}

// DiagnosticsOutput is the root JSON object.
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
	Errors      int              `json:"errors"`
}

// BuildDiagnosticsOutput converts located diagnostics without encoding them.
func BuildDiagnosticsOutput(items []diag.Located, opts JSONOpts) DiagnosticsOutput {
	n := len(items)
	if opts.Max > 0 && opts.Max < n {
		n = opts.Max
	}
	out := DiagnosticsOutput{Diagnostics: make([]DiagnosticJSON, 0, n)}
	for _, d := range items[:n] {
		dj := DiagnosticJSON{
			Severity: d.Severity.String(),
			Code:     d.Code.ID(),
			Category: d.Code.Category(),
			Phase:    d.Phase.String(),
			Message:  d.Message,
			Location: LocationJSON{
				File:      formatPath(d.Path, opts.PathMode),
				StartLine: d.Line,
				StartCol:  d.Column,
				EndLine:   d.EndLine,
				EndCol:    d.EndCol,
			},
		}
		if opts.IncludeNotes {
			for _, note := range d.Notes {
				dj.Notes = append(dj.Notes, NoteJSON{
					Message: note.Message,
					Location: LocationJSON{
						File:      formatPath(note.Path, opts.PathMode),
						StartLine: note.Line,
						StartCol:  note.Column,
					},
				})
			}
		}
		if d.IsFatal() {
			out.Errors++
		}
		out.Diagnostics = append(out.Diagnostics, dj)
	}
	out.Count = len(out.Diagnostics)
	return out
}

// JSON writes the diagnostics of bag as an indented JSON document.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	return JSONLocated(w, diag.LocateAll(fs, bag), opts)
}

func JSONLocated(w io.Writer, items []diag.Located, opts JSONOpts) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildDiagnosticsOutput(items, opts))
}
