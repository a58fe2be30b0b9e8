package source

type (
	// FileID uniquely identifies a source file within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about a source file.
	FileFlags uint8
)

const (
	// FileVirtual marks text handed over by the host rather than read by the session.
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
)

// File captures metadata and content for a single source file.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol represents a human-readable position in a source file.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based
}

// Text returns the source text covered by span, clamped to the file.
func (f *File) Text(span Span) string {
	n := uint32(len(f.Content))
	start, end := span.Start, span.End
	if start > n {
		start = n
	}
	if end > n {
		end = n
	}
	if end < start {
		end = start
	}
	return string(f.Content[start:end])
}

// Line returns the text of the given 1-based line without its newline.
func (f *File) Line(lineNum uint32) string {
	if lineNum == 0 {
		return ""
	}
	n := uint32(len(f.Content))
	lines := uint32(len(f.LineIdx))

	var start uint32
	switch {
	case lineNum == 1:
		start = 0
	case lineNum-2 < lines:
		start = f.LineIdx[lineNum-2] + 1
	default:
		return ""
	}
	end := n
	if lineNum-1 < lines {
		end = f.LineIdx[lineNum-1]
	}
	if start > n {
		return ""
	}
	return string(f.Content[start:end])
}
