package bundler

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// GenerateDriver runs the generate phase: generate_start, analyze the built
// module graph into ModuleGroups, merge those groups' modules into
// ResourcePots, render and generate resources for every pot concurrently,
// write all resources to disk (serial), then generate_end.
type GenerateDriver struct {
	cc *CompilationContext
}

// NewGenerateDriver returns a driver over cc.
func NewGenerateDriver(cc *CompilationContext) *GenerateDriver {
	return &GenerateDriver{cc: cc}
}

// Run executes the full generate phase.
func (d *GenerateDriver) Run(ctx context.Context) error {
	if err := d.cc.Plugins.GenerateStart(ctx, d.cc); err != nil {
		return err
	}

	groups, err := d.cc.Plugins.AnalyzeModuleGraph(ctx, d.cc, d.cc.Graph)
	if err != nil {
		return err
	}
	d.cc.SetModuleGroups(groups)

	pots, err := d.cc.Plugins.MergeModules(ctx, d.cc, d.cc.Graph, groups)
	if err != nil {
		return err
	}
	d.cc.SetResourcePots(pots)

	g, gctx := errgroup.WithContext(ctx)
	for _, potID := range pots.SortedIDs() {
		pot := pots[potID]
		g.Go(func() error {
			if err := d.cc.Plugins.RenderResourcePot(gctx, d.cc, pot); err != nil {
				return err
			}
			resources, err := d.cc.Plugins.GenerateResources(gctx, d.cc, pot)
			if err != nil {
				return err
			}
			d.cc.AddResources(pot.ID, resources)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if err := d.cc.Plugins.WriteResources(ctx, d.cc); err != nil {
		return err
	}

	return d.cc.Plugins.GenerateEnd(ctx, d.cc)
}
