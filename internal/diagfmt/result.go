package diagfmt

import (
	"io"

	"solfront/internal/driver"
	"solfront/internal/source"
)

// ResultLookup serves the text of every unit of res that still holds its
// file set. Cached units have none.
func ResultLookup(res *driver.Result) SourceLookup {
	return func(path string) *source.File {
		u, ok := res.Unit(path)
		if !ok || u.FileSet == nil {
			return nil
		}
		return FileSetLookup(u.FileSet)(path)
	}
}

// PrettyResult renders the merged diagnostics of an analysis batch.
func PrettyResult(w io.Writer, res *driver.Result, opts PrettyOpts) error {
	return PrettyLocated(w, res.Diagnostics, ResultLookup(res), opts)
}

func JSONResult(w io.Writer, res *driver.Result, opts JSONOpts) error {
	return JSONLocated(w, res.Diagnostics, opts)
}
