// Package testkit holds checks shared by parser and fuzz tests.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"solfront/internal/ast"
	"solfront/internal/source"
)

// CheckSpanInvariants verifies the spans of a parsed file:
// the file span lies within the content, every item and contract member is
// non-empty and nested in its parent, and every expression of the file stays
// inside the content.
func CheckSpanInvariants(b *ast.Builder, fileID ast.FileID, sf *source.File) error {
	if b == nil || sf == nil {
		return fmt.Errorf("nil builder or file")
	}
	f := b.Files.Get(fileID)
	if f == nil {
		return fmt.Errorf("file node %d not found", fileID)
	}
	if f.Span.File != sf.ID {
		return fmt.Errorf("file span points to different file id: got=%d want=%d", f.Span.File, sf.ID)
	}
	size, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if f.Span.Start > f.Span.End || f.Span.End > size {
		return fmt.Errorf("file span %v outside content of %d bytes", f.Span, size)
	}
	for _, it := range f.Items {
		if err := checkItem(b, it, f.Span); err != nil {
			return err
		}
	}
	for i := uint32(1); i <= b.Exprs.Arena.Len(); i++ {
		sp := b.Exprs.Get(ast.ExprID(i)).Span
		if sp.File != sf.ID {
			continue
		}
		if sp.Start > sp.End || sp.End > size {
			return fmt.Errorf("expression %d span %v outside content of %d bytes", i, sp, size)
		}
	}
	return nil
}

func checkItem(b *ast.Builder, id ast.ItemID, parent source.Span) error {
	item := b.Items.Get(id)
	if item == nil {
		return fmt.Errorf("nil item for id=%d", id)
	}
	sp := item.Span
	if sp.End <= sp.Start {
		return fmt.Errorf("empty %s span: %v", item.Kind, sp)
	}
	if sp.File != parent.File {
		return fmt.Errorf("item span file mismatch: got=%d want=%d", sp.File, parent.File)
	}
	if sp.Start < parent.Start || sp.End > parent.End {
		return fmt.Errorf("%s span %v is outside %v", item.Kind, sp, parent)
	}
	if item.Kind != ast.ItemContract {
		return nil
	}
	c, _ := b.Items.Contract(id)
	for _, m := range c.Members {
		if err := checkItem(b, m, sp); err != nil {
			return err
		}
	}
	return nil
}
