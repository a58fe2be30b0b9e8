package driver

import (
	"context"
	"errors"
	"fmt"

	"solfront/internal/ast"
	"solfront/internal/diag"
	"solfront/internal/driver/dag"
	"solfront/internal/lexer"
	"solfront/internal/observ"
	"solfront/internal/parser"
	"solfront/internal/sema"
	"solfront/internal/source"
	"solfront/internal/symbols"
	"solfront/internal/trace"
	"solfront/internal/types"
)

// analyze runs the pipeline for one file. The file and its transitive
// imports are parsed into a fresh builder; only diagnostics located in the
// file itself are kept. deps holds the units of earlier batches.
func (s *session) analyze(ctx context.Context, id dag.NodeID, deps []*Unit) *Unit {
	path := s.idx.IDToName[id]
	e := s.files[path]
	ctx, span := trace.Child(ctx, trace.ScopeUnit, path)
	defer span.End("")

	closure := s.graph.Closure(id)
	key := s.unitKey(closure)
	if u, ok := s.cached(ctx, key, e); ok {
		span.WithExtra("cache", "hit")
		return u
	}

	var timer *observ.Timer
	if s.opts.Timings {
		timer = observ.NewTimer()
	}
	cfg := s.opts.Config
	u := &Unit{
		Path:    path,
		Imports: e.importPaths(),
		FileSet: source.NewFileSet(),
		Builder: ast.NewBuilder(ast.Hints{}, nil),
	}
	bag := diag.NewBag(cfg.MaxDiagnostics)
	lexRep := diag.BagReporter{Bag: bag, Phase: diag.PhaseLex}
	parseRep := diag.BagReporter{Bag: bag, Phase: diag.PhaseParse}

	// dependencies first, the unit's own file last
	files := make([]ast.FileID, 0, len(closure))
	byPath := make(map[string]ast.FileID, len(closure))
	var own *source.File
	_, parse := trace.Child(ctx, trace.ScopePass, "parse")
	pt := timer.Begin("parse")
	for _, n := range closure {
		fe := s.files[s.idx.IDToName[n]]
		f := u.FileSet.Get(u.FileSet.AddVirtual(fe.path, fe.text))
		toks := lexer.Tokenize(f, lexer.Options{Reporter: lexRep, Version: cfg.Version})
		res := parser.ParseTokens(f, toks, u.Builder, parser.Options{Reporter: parseRep, Config: cfg})
		files = append(files, res.File)
		byPath[fe.path] = res.File
		if n == id {
			own = f
			u.File = res.File
		}
	}
	timer.End(pt, fmt.Sprintf("files=%d", len(files)))
	parse.End("")

	finish := func() *Unit {
		bag.OnlyFile(own.ID)
		bag.Sort()
		u.Diagnostics = diag.LocateAll(u.FileSet, bag)
		u.Failed = u.Failed || bag.HasErrors()
		if timer != nil {
			r := timer.Report()
			u.Timings = &r
		}
		s.store(ctx, key, u)
		return u
	}
	if !s.checkImports(u, byPath, deps, diag.BagReporter{Bag: bag, Phase: diag.PhaseProject}) {
		u.Failed = true
		return finish()
	}
	if bag.HasErrorsIn(diag.PhaseLex) || bag.HasErrorsIn(diag.PhaseParse) {
		return finish()
	}

	imports := make(map[ast.ItemID]ast.FileID)
	for _, fid := range files {
		for _, item := range u.Builder.Files.Get(fid).Items {
			if imp, ok := u.Builder.Items.Import(item); ok {
				if target, ok := byPath[imp.Path]; ok && target != fid {
					imports[item] = target
				}
			}
		}
	}

	_, resolve := trace.Child(ctx, trace.ScopePass, "resolve")
	rt := timer.Begin("resolve")
	u.Symbols = symbols.Resolve(symbols.Input{
		Builder:         u.Builder,
		Files:           files,
		Imports:         imports,
		Types:           types.NewInterner(),
		Config:          cfg,
		Reporter:        diag.BagReporter{Bag: bag, Phase: diag.PhaseResolve},
		InheritReporter: diag.BagReporter{Bag: bag, Phase: diag.PhaseInherit},
	})
	timer.End(rt, fmt.Sprintf("symbols=%d", u.Symbols.Table.Symbols.Len()))
	resolve.End("")
	if bag.HasErrors() {
		return finish()
	}

	ct := timer.Begin("check")
	u.Sema = sema.Check(u.Builder, sema.Options{
		Reporter:        diag.BagReporter{Bag: bag, Phase: diag.PhaseTypes},
		PassReporter:    diag.BagReporter{Bag: bag, Phase: diag.PhaseSema},
		InheritReporter: diag.BagReporter{Bag: bag, Phase: diag.PhaseInherit},
		Symbols:         u.Symbols,
		Config:          cfg,
		Tracer:          trace.FromContext(ctx),
		Parent:          trace.Parent(ctx),
	})
	timer.End(ct, fmt.Sprintf("type_errors=%d", u.Sema.TypeErrors))
	return finish()
}

// checkImports reports imports of the unit's own file that could not be
// loaded and imports of units that failed. It returns false if any was found.
func (s *session) checkImports(u *Unit, byPath map[string]ast.FileID, deps []*Unit, rep diag.Reporter) bool {
	ok := true
	reported := make(map[string]bool)
	for _, item := range u.Builder.Files.Get(u.File).Items {
		imp, isImport := u.Builder.Items.Import(item)
		if !isImport || reported[imp.Path] {
			continue
		}
		if err, missing := s.missing[imp.Path]; missing {
			reported[imp.Path] = true
			ok = false
			if errors.Is(err, ErrNotFound) {
				diag.ReportError(rep, diag.PrjImportNotFound, imp.PathSpan,
					fmt.Sprintf("source %q not found", imp.Path)).Emit()
			} else {
				diag.ReportError(rep, diag.PrjResolverFailed, imp.PathSpan,
					fmt.Sprintf("cannot load %q: %v", imp.Path, err)).Emit()
			}
			continue
		}
		if _, loaded := byPath[imp.Path]; !loaded || imp.Path == u.Path {
			continue
		}
		dep := deps[s.idx.NameToID[imp.Path]]
		if dep == nil || !dep.Failed {
			continue
		}
		reported[imp.Path] = true
		ok = false
		b := diag.ReportError(rep, diag.PrjDependencyFailed, imp.PathSpan,
			fmt.Sprintf("imported source %q has errors", imp.Path))
		if first := firstError(dep.Diagnostics); first != nil {
			b.WithNote(imp.PathSpan, fmt.Sprintf("first error: %s:%d:%d: %s", first.Path, first.Line, first.Column, first.Message))
		}
		b.Emit()
	}
	return ok
}

func firstError(items []diag.Located) *diag.Located {
	for i := range items {
		if items[i].IsFatal() {
			return &items[i]
		}
	}
	return nil
}
