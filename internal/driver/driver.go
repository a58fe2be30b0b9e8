// Package driver analyses a batch of source units: it discovers their
// imports, orders them by the import graph and runs lexing, parsing, name
// resolution and checking on parallel workers.
package driver

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/singleflight"

	"solfront/internal/abi"
	"solfront/internal/ast"
	"solfront/internal/config"
	"solfront/internal/diag"
	"solfront/internal/observ"
	"solfront/internal/sema"
	"solfront/internal/source"
	"solfront/internal/symbols"
	"solfront/internal/trace"
)

var (
	// ErrNotFound is returned by a Resolver for paths it does not know.
	ErrNotFound = errors.New("source not found")
	// ErrImportCycle aborts a batch whose imports form a cycle.
	ErrImportCycle = errors.New("import cycle")
)

// Source is one root unit handed to Analyze.
type Source struct {
	Path string
	Text string
}

// Resolver loads the text of an imported path. from is the path of the
// importing unit. It must be safe for concurrent use.
type Resolver interface {
	Resolve(ctx context.Context, path, from string) (string, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(ctx context.Context, path, from string) (string, error)

func (f ResolverFunc) Resolve(ctx context.Context, path, from string) (string, error) {
	return f(ctx, path, from)
}

// MapResolver serves imports from memory.
type MapResolver map[string]string

func (m MapResolver) Resolve(_ context.Context, path, _ string) (string, error) {
	if text, ok := m[path]; ok {
		return text, nil
	}
	return "", fmt.Errorf("%q: %w", path, ErrNotFound)
}

type Options struct {
	Config config.Config
	// Resolver loads imports that are not among the roots. A nil Resolver
	// treats every such import as not found.
	Resolver Resolver
	// Jobs bounds the number of units analysed at once; zero means GOMAXPROCS.
	Jobs int
	// Cache, when set, reuses diagnostics of units whose text, imports and
	// configuration are unchanged. A unit served from the cache has no AST,
	// symbols or checker results, so its ABI and AssemblyBlocks are empty;
	// leave Cache nil when those are needed.
	Cache *Cache
	// Tracer defaults to the tracer carried by the context.
	Tracer trace.Tracer
	// Timings records per-phase durations on every analysed unit.
	Timings bool
}

// Unit is the outcome of analysing one file against its imports.
type Unit struct {
	Path string
	// Imports lists the paths the unit imports, in source order.
	Imports []string
	// Diagnostics are those whose primary span lies in this unit, sorted.
	Diagnostics []diag.Located
	// Failed is set when a fatal diagnostic stopped the unit early or any
	// error was reported.
	Failed bool
	// Cached units carry diagnostics only: Builder, Symbols and Sema are nil.
	Cached bool

	FileSet *source.FileSet
	Builder *ast.Builder
	File    ast.FileID
	Symbols *symbols.Result
	Sema    *sema.Result
	Timings *observ.Report
}

// AssemblyBlock is an inline assembly body together with the scope whose
// names are visible inside it.
type AssemblyBlock struct {
	Stmt  ast.StmtID
	Block *ast.AssemblyBlock
	Text  string
	Scope symbols.ScopeID
}

// AssemblyBlocks lists the assembly blocks of the unit's own file in source
// order. It returns nil for Cached units.
func (u *Unit) AssemblyBlocks() []AssemblyBlock {
	if u == nil || u.Builder == nil || u.Symbols == nil {
		return nil
	}
	src := u.FileSet.Get(u.Builder.Files.Get(u.File).Source)
	var out []AssemblyBlock
	for i := uint32(1); i <= u.Builder.Stmts.Arena.Len(); i++ {
		id := ast.StmtID(i)
		blk, ok := u.Builder.Stmts.Assembly(id)
		if !ok {
			continue
		}
		span := u.Builder.Stmts.Get(id).Span
		if span.File != src.ID {
			continue
		}
		out = append(out, AssemblyBlock{
			Stmt:  id,
			Block: blk,
			Text:  src.Text(blk.Tokens),
			Scope: u.Symbols.AssemblyScopes[id],
		})
	}
	return out
}

// ABI returns the external interface of the contracts visible in the unit.
// It returns nil for Cached units, which keep no checker results.
func (u *Unit) ABI() []abi.Entry {
	if u == nil || u.Sema == nil {
		return nil
	}
	return abi.Signatures(abi.Input{Builder: u.Builder, Symbols: u.Symbols, Sema: u.Sema})
}

type Result struct {
	// Units are sorted by path.
	Units []*Unit
	// Diagnostics merges the diagnostics of every unit, sorted by path,
	// line, column and phase.
	Diagnostics []diag.Located
	// Partial is set when the context was cancelled before every unit ran.
	Partial bool
}

// Unit returns the unit analysed under path.
func (r *Result) Unit(path string) (*Unit, bool) {
	for _, u := range r.Units {
		if u.Path == path {
			return u, true
		}
	}
	return nil, false
}

// HasErrors reports whether any unit produced an error.
func (r *Result) HasErrors() bool {
	for _, d := range r.Diagnostics {
		if d.Severity >= diag.SevError {
			return true
		}
	}
	return false
}

// Analyze runs the front end over sources and everything they import.
// Language problems are reported as diagnostics; the returned error is
// non-nil only when imports form a cycle, in which case it wraps
// ErrImportCycle and the result still carries the cycle diagnostics.
func Analyze(ctx context.Context, sources []Source, opts Options) (*Result, error) {
	if opts.Jobs <= 0 {
		opts.Jobs = runtime.GOMAXPROCS(0)
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = trace.FromContext(ctx)
	}
	ctx = trace.WithTracer(ctx, tracer)
	ctx, span := trace.Child(ctx, trace.ScopeDriver, "analyze")
	defer span.End("")

	s := &session{
		opts:  opts,
		files: make(map[string]*fileEntry),
		sf:    new(singleflight.Group),
	}
	if err := s.discover(ctx, sources); err != nil {
		return nil, err
	}
	graph, err := s.plan()
	if err != nil {
		return s.result(), err
	}
	s.run(ctx, graph)
	return s.result(), nil
}
