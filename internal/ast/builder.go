package ast

import (
	"solfront/internal/source"
)

type Hints struct{ Files, Items, Stmts, Exprs, Types uint }

// Builder owns every arena of one analysis unit. Nodes are appended by the
// parser and never modified afterwards; later phases annotate through side tables.
type Builder struct {
	Files   *Files
	Items   *Items
	Stmts   *Stmts
	Exprs   *Exprs
	Types   *TypeExprs
	Strings *source.Interner
}

func NewBuilder(hints Hints, strings *source.Interner) *Builder {
	if hints.Files == 0 {
		hints.Files = 1 << 3
	}
	if hints.Items == 0 {
		hints.Items = 1 << 7
	}
	if hints.Stmts == 0 {
		hints.Stmts = 1 << 8
	}
	if hints.Exprs == 0 {
		hints.Exprs = 1 << 9
	}
	if hints.Types == 0 {
		hints.Types = 1 << 7
	}
	if strings == nil {
		strings = source.NewInterner()
	}
	return &Builder{
		Files:   NewFiles(hints.Files),
		Items:   NewItems(hints.Items),
		Stmts:   NewStmts(hints.Stmts),
		Exprs:   NewExprs(hints.Exprs),
		Types:   NewTypeExprs(hints.Types),
		Strings: strings,
	}
}

func (b *Builder) NewFile(src source.FileID, path string, sp source.Span) FileID {
	return b.Files.New(src, path, sp)
}

func (b *Builder) PushItem(file FileID, item ItemID) {
	f := b.Files.Get(file)
	f.Items = append(f.Items, item)
}

// Name resolves an interned identifier.
func (b *Builder) Name(id source.StringID) string {
	return b.Strings.MustLookup(id)
}
