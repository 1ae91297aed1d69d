package bundler

import (
	"context"
	"errors"
	"path/filepath"

	"golang.org/x/sync/errgroup"
)

// BuildDriver runs the build phase: build_start, a recursive resolve ->
// load -> transform -> parse -> analyze_deps walk seeded from
// config.Input's entries, and build_end. Recursion fans out through an
// errgroup.Group shared by every task, so the first error anywhere cancels
// the rest (first-error-wins, later errors dropped), matching the original
// compiler's rayon-pool-plus-mpsc-channel design.
type BuildDriver struct {
	cc *CompilationContext
}

// NewBuildDriver returns a driver over cc.
func NewBuildDriver(cc *CompilationContext) *BuildDriver {
	return &BuildDriver{cc: cc}
}

// Run executes the full build phase.
func (d *BuildDriver) Run(ctx context.Context) error {
	if err := d.cc.Plugins.BuildStart(ctx, d.cc); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, source := range d.cc.Config.Input {
		source := source
		g.Go(func() error {
			return d.resolveAndBuild(gctx, g, source, "", ResolveEntry, 0)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	return d.cc.Plugins.BuildEnd(ctx, d.cc)
}

// resolveAndBuild resolves source (from importer, under kind) to a module
// id, then ensures that module is built (dedup via ModuleGraph.Claim),
// recording the dependency edge unless this is a root entry (importer ==
// ""). A failed build aborts the claim so any other task waiting on the
// same id is released instead of blocking forever.
func (d *BuildDriver) resolveAndBuild(ctx context.Context, g *errgroup.Group, source, importer string, kind ResolveKind, order int) error {
	base := importer
	if base == "" {
		base = d.cc.Config.Root
	} else {
		base = filepath.Dir(FulfillRootPrefix(d.cc.Config.Root, importer))
	}

	res, err := d.cc.Plugins.Resolve(ctx, d.cc, ResolveParams{Source: source, Importer: importer, Kind: kind})
	if err != nil {
		return NewResolveError(source, base, err)
	}
	if res == nil {
		return NewResolveError(source, base, errors.New("no plugin resolved this specifier"))
	}
	id := res.ID

	winner, ready := d.cc.Graph.Claim(id)
	if !winner {
		select {
		case <-ready:
		case <-ctx.Done():
			return ctx.Err()
		}
		if !d.cc.Graph.HasModule(id) {
			// The winner aborted (its build failed); that failure is
			// already propagating through the errgroup.
			return nil
		}
		if importer != "" {
			if err := d.cc.Graph.AddEdge(importer, id, source, kind, order); err != nil {
				return err
			}
		}
		return nil
	}

	m, deps, err := d.buildModule(ctx, id)
	if err != nil {
		d.cc.Graph.Abort(id)
		return err
	}
	d.cc.Graph.Finish(m)
	if importer == "" {
		d.cc.Graph.MarkEntry(id)
	} else {
		if err := d.cc.Graph.AddEdge(importer, id, source, kind, order); err != nil {
			return err
		}
	}

	for i, dep := range deps {
		i, dep := i, dep
		g.Go(func() error {
			return d.resolveAndBuild(ctx, g, dep.Specifier, id, dep.Kind, i)
		})
	}
	return nil
}

// buildModule runs load -> transform -> parse -> analyze_deps for id,
// without touching the graph (the caller installs the result via
// ModuleGraph.Finish once it has won the Claim).
func (d *BuildDriver) buildModule(ctx context.Context, id string) (*Module, []Dep, error) {
	loaded, err := d.cc.Plugins.Load(ctx, d.cc, id)
	if err != nil {
		return nil, nil, NewLoadError(id, err)
	}
	if loaded == nil {
		return nil, nil, NewLoadError(id, errors.New("no plugin loaded this module"))
	}

	transformed, err := d.cc.Plugins.Transform(ctx, d.cc, id, TransformResult{
		Content: loaded.Content,
		Kind:    loaded.Kind,
	})
	if err != nil {
		return nil, nil, NewLoadError(id, err)
	}

	m := NewModule(id, transformed.Kind)
	m.Content = transformed.Content

	if err := d.cc.Plugins.Parse(ctx, d.cc, m); err != nil {
		return nil, nil, NewLoadError(id, err)
	}

	deps, err := d.cc.Plugins.AnalyzeDeps(ctx, d.cc, m)
	if err != nil {
		return nil, nil, NewLoadError(id, err)
	}

	return m, deps, nil
}
