package driver

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"solfront/internal/ast"
	"solfront/internal/diag"
	"solfront/internal/driver/dag"
	"solfront/internal/lexer"
	"solfront/internal/parser"
	"solfront/internal/source"
	"solfront/internal/trace"
)

// fileEntry is one file known to the session, loaded either from the roots
// or through the resolver.
type fileEntry struct {
	path string
	text string
	// fs holds the file alone, parsed once to find its imports.
	fs      *source.FileSet
	imports []dag.Import
}

type session struct {
	opts Options
	sf   *singleflight.Group

	mu    sync.Mutex
	files map[string]*fileEntry
	// missing records resolver failures by path.
	missing map[string]error

	idx   dag.Index
	graph dag.Graph
	units []*Unit
	// partial is set once a unit is skipped because of cancellation.
	partial bool
}

// discover loads the roots and follows imports breadth first until every
// reachable path is either loaded or known to be missing.
func (s *session) discover(ctx context.Context, sources []Source) error {
	ctx, span := trace.Child(ctx, trace.ScopePass, "discover")
	defer span.End("")

	s.missing = make(map[string]error)
	var frontier []*fileEntry
	for _, src := range sources {
		if src.Path == "" {
			return errors.New("driver: source with empty path")
		}
		e := s.scan(src.Path, src.Text)
		if _, dup := s.files[src.Path]; !dup {
			frontier = append(frontier, e)
		}
		s.files[src.Path] = e
	}
	for len(frontier) > 0 {
		if ctx.Err() != nil {
			return nil
		}
		frontier = s.expand(ctx, frontier)
	}
	span.WithExtra("files", fmt.Sprint(len(s.files)))
	return nil
}

// expand resolves the unknown imports of frontier concurrently and returns
// the newly loaded files. Every importing edge issues its own request so the
// resolver sees each importer; requests for one path share a single call.
func (s *session) expand(ctx context.Context, frontier []*fileEntry) []*fileEntry {
	type request struct{ path, from string }
	var reqs []request
	seen := make(map[request]bool)
	for _, e := range frontier {
		for _, imp := range e.imports {
			if _, ok := s.files[imp.Path]; ok {
				continue
			}
			if _, ok := s.missing[imp.Path]; ok {
				continue
			}
			r := request{path: imp.Path, from: e.path}
			if !seen[r] {
				seen[r] = true
				reqs = append(reqs, r)
			}
		}
	}
	if len(reqs) == 0 {
		return nil
	}

	fresh := make(map[string]*fileEntry)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(s.opts.Jobs, len(reqs)))
	for _, r := range reqs {
		g.Go(func() error {
			text, err := s.load(gctx, r.path, r.from)
			s.mu.Lock()
			if _, done := fresh[r.path]; done {
				s.mu.Unlock()
				return nil
			}
			if err != nil {
				if _, ok := s.missing[r.path]; !ok {
					s.missing[r.path] = err
				}
				s.mu.Unlock()
				return nil
			}
			fresh[r.path] = nil
			s.mu.Unlock()

			e := s.scan(r.path, text)
			s.mu.Lock()
			fresh[r.path] = e
			delete(s.missing, r.path)
			s.mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	paths := make([]string, 0, len(fresh))
	for p := range fresh {
		paths = append(paths, p)
	}
	slices.Sort(paths)
	next := make([]*fileEntry, 0, len(paths))
	for _, p := range paths {
		s.files[p] = fresh[p]
		next = append(next, fresh[p])
	}
	return next
}

// load asks the resolver for path; concurrent requests for the same path
// share one call.
func (s *session) load(ctx context.Context, path, from string) (string, error) {
	if s.opts.Resolver == nil {
		return "", fmt.Errorf("%q: %w", path, ErrNotFound)
	}
	v, err, _ := s.sf.Do(path, func() (any, error) {
		return s.opts.Resolver.Resolve(ctx, path, from)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// scan parses text on its own and records the import directives.
func (s *session) scan(path, text string) *fileEntry {
	e := &fileEntry{path: path, text: text, fs: source.NewFileSet()}
	f := e.fs.Get(e.fs.AddVirtual(path, text))
	b := ast.NewBuilder(ast.Hints{}, nil)
	toks := lexer.Tokenize(f, lexer.Options{Version: s.opts.Config.Version})
	res := parser.ParseTokens(f, toks, b, parser.Options{Config: s.opts.Config})
	for _, item := range b.Files.Get(res.File).Items {
		if imp, ok := b.Items.Import(item); ok && imp.Path != "" {
			e.imports = append(e.imports, dag.Import{Path: imp.Path, Span: imp.PathSpan})
		}
	}
	return e
}

// plan orders the loaded files. A cycle fails the batch: every file on the
// reported cycle gets a diagnostic at the import that closes it.
func (s *session) plan() (*dag.Topo, error) {
	nodes := make([]dag.Node, 0, len(s.files))
	for _, e := range s.files {
		nodes = append(nodes, dag.Node{Path: e.path, Imports: e.imports})
	}
	s.idx = dag.BuildIndex(nodes)
	s.graph = dag.BuildGraph(s.idx, nodes)
	topo := dag.ToposortKahn(s.graph)
	if !topo.Cyclic {
		return topo, nil
	}

	cycle := dag.CyclePath(s.graph, topo)
	names := make([]string, len(cycle))
	for i, id := range cycle {
		names[i] = s.idx.IDToName[id]
	}
	summary := strings.Join(names, " -> ")
	for i := 0; i+1 < len(cycle); i++ {
		e := s.files[names[i]]
		d := diag.New(diag.SevError, diag.PrjImportCycle, e.importSpan(names[i+1]),
			fmt.Sprintf("import cycle: %s", summary))
		d.Phase = diag.PhaseProject
		s.units = append(s.units, &Unit{
			Path:        e.path,
			Imports:     e.importPaths(),
			Diagnostics: []diag.Located{diag.Locate(e.fs, d)},
			Failed:      true,
		})
	}
	return topo, fmt.Errorf("%w: %s", ErrImportCycle, summary)
}

func (e *fileEntry) importSpan(path string) source.Span {
	for _, imp := range e.imports {
		if imp.Path == path {
			return imp.Span
		}
	}
	return source.Span{}
}

func (e *fileEntry) importPaths() []string {
	out := make([]string, 0, len(e.imports))
	for _, imp := range e.imports {
		if !slices.Contains(out, imp.Path) {
			out = append(out, imp.Path)
		}
	}
	return out
}

func (s *session) result() *Result {
	res := &Result{Partial: s.partial}
	for _, u := range s.units {
		if u == nil {
			continue
		}
		res.Units = append(res.Units, u)
		res.Diagnostics = append(res.Diagnostics, u.Diagnostics...)
	}
	slices.SortFunc(res.Units, func(a, b *Unit) int { return strings.Compare(a.Path, b.Path) })
	diag.SortLocated(res.Diagnostics)
	return res
}
