package ast

import (
	"solfront/internal/source"
)

// File is a parsed source unit: pragmas, imports and top-level declarations in source order.
type File struct {
	Span   source.Span
	Source source.FileID
	Path   string
	Items  []ItemID
}

type Files struct {
	Arena *Arena[File]
}

func NewFiles(capHint uint) *Files {
	return &Files{Arena: NewArena[File](capHint)}
}

func (f *Files) New(src source.FileID, path string, sp source.Span) FileID {
	return FileID(f.Arena.Allocate(File{Span: sp, Source: src, Path: path, Items: make([]ItemID, 0, 8)}))
}

func (f *Files) Get(id FileID) *File {
	return f.Arena.Get(uint32(id))
}
