package format

import (
	"errors"
	"fmt"

	"solfront/internal/ast"
	"solfront/internal/config"
	"solfront/internal/diag"
	"solfront/internal/parser"
	"solfront/internal/source"
)

type Options struct {
	IndentWidth int
	UseTabs     bool
	// DropDoc omits doc comments from the output.
	DropDoc bool
}

func (o Options) withDefaults() Options {
	if o.IndentWidth == 0 {
		o.IndentWidth = 4
	}
	return o
}

type printer struct {
	b   *ast.Builder
	w   *Writer
	opt Options
}

// File prints file fid of builder b. sf supplies the text of assembly blocks.
func File(sf *source.File, b *ast.Builder, fid ast.FileID, opt Options) ([]byte, error) {
	if sf == nil {
		return nil, errors.New("format: nil source file")
	}
	if b == nil {
		return nil, errors.New("format: nil builder")
	}
	file := b.Files.Get(fid)
	if file == nil {
		return nil, errors.New("format: missing ast file")
	}
	opt = opt.withDefaults()
	p := printer{b: b, w: NewWriter(sf, opt), opt: opt}
	for i, id := range file.Items {
		if i > 0 && p.needsBlankLine(file.Items[i-1], id) {
			p.w.BlankLine()
		}
		p.printItem(id)
	}
	return p.w.Bytes(), nil
}

// needsBlankLine separates declarations except runs of pragmas, imports or
// simple members such as state variables and events.
func (p *printer) needsBlankLine(prev, next ast.ItemID) bool {
	a, b := p.b.Items.Get(prev).Kind, p.b.Items.Get(next).Kind
	if a != b {
		return true
	}
	switch a {
	case ast.ItemPragma, ast.ItemImport, ast.ItemVariable, ast.ItemEvent, ast.ItemError, ast.ItemUsing, ast.ItemUDVT:
		return false
	}
	return true
}

// CheckRoundTrip parses sf, prints it, re-parses the printout and prints again.
// It fails when either parse reports errors or the two printouts differ.
func CheckRoundTrip(sf *source.File, cfg config.Config, opt Options) (ok bool, msg string) {
	first, err := parseAndPrint(sf, cfg, opt)
	if err != nil {
		return false, "fmt-check: " + err.Error()
	}
	fs := source.NewFileSet()
	again := fs.Get(fs.Add(sf.Path, first, 0))
	second, err := parseAndPrint(again, cfg, opt)
	if err != nil {
		return false, "fmt-check: reparse: " + err.Error()
	}
	if string(first) != string(second) {
		return false, "fmt-check: printout changed after round-trip"
	}
	return true, "fmt-check: OK"
}

func parseAndPrint(sf *source.File, cfg config.Config, opt Options) ([]byte, error) {
	bag := diag.NewBag(0)
	b := ast.NewBuilder(ast.Hints{}, nil)
	res := parser.ParseFile(sf, b, parser.Options{Reporter: diag.BagReporter{Bag: bag, Phase: diag.PhaseParse}, Config: cfg})
	if bag.HasErrors() {
		for _, d := range bag.Items() {
			if d.IsFatal() {
				return nil, fmt.Errorf("%d parse errors, first: %s", bag.ErrorCount(), d.Message)
			}
		}
	}
	return File(sf, b, res.File, opt)
}
