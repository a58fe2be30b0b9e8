package diagfmt

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto prints paths as given, shortening long absolute ones to
	// their base name.
	PathModeAuto PathMode = iota
	PathModeAsIs
	PathModeBasename
)

// PrettyOpts configures human-readable output.
type PrettyOpts struct {
	Color bool
	// Context is the number of source lines shown around the primary line.
	Context   int
	PathMode  PathMode
	ShowNotes bool
}

// JSONOpts configures JSON output.
type JSONOpts struct {
	PathMode PathMode
	// Max truncates the output; zero keeps everything.
	Max          int
	IncludeNotes bool
}
