package driver

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"solfront/internal/driver/dag"
	"solfront/internal/trace"
)

// run analyses topo's batches in order. Units of one batch do not import
// each other and run on up to Options.Jobs workers; a batch starts once the
// previous one is done so every unit sees the outcome of its dependencies.
func (s *session) run(ctx context.Context, topo *dag.Topo) {
	done := make([]*Unit, len(s.idx.IDToName))
	for bi, batch := range topo.Batches {
		if ctx.Err() != nil {
			s.partial = true
			break
		}
		bctx, span := trace.Child(ctx, trace.ScopeDriver, fmt.Sprintf("batch %d", bi))
		span.WithExtra("units", fmt.Sprint(len(batch)))

		g := new(errgroup.Group)
		g.SetLimit(min(s.opts.Jobs, len(batch)))
		for _, id := range batch {
			g.Go(func() error {
				if bctx.Err() != nil {
					return nil
				}
				// each goroutine writes its own slot
				done[id] = s.analyze(bctx, id, done)
				return nil
			})
		}
		_ = g.Wait()
		span.End("")

		for _, id := range batch {
			if done[id] == nil {
				s.partial = true
				continue
			}
			s.units = append(s.units, done[id])
		}
	}
}
