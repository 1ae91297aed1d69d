package bundler

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"
)

// PluginContainer holds the ordered list of registered plugins and
// dispatches each pipeline hook across them using one of three strategies:
//
//   - first-wins: plugins run in order; the first to return a non-nil
//     result short-circuits the rest.
//   - serial: every plugin runs in order, each seeing the previous
//     plugin's (possibly mutated) output.
//   - parallel: every plugin runs concurrently; the first error cancels the
//     rest and is returned, later errors are dropped.
type PluginContainer struct {
	Plugins []Plugin
}

// NewPluginContainer returns a container over plugins, sorted ascending by
// Priority (stable, so equal-priority plugins keep their registration
// order), matching §4.1's "lower runs first" rule.
func NewPluginContainer(plugins ...Plugin) *PluginContainer {
	sorted := append([]Plugin(nil), plugins...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Priority() < sorted[j].Priority() })
	return &PluginContainer{Plugins: sorted}
}

// Config runs every plugin's Config hook in order (serial mutation): each
// plugin may mutate cfg before the next one sees it.
func (c *PluginContainer) Config(ctx context.Context, cfg *Config) error {
	for _, p := range c.Plugins {
		if err := p.Config(ctx, cfg); err != nil {
			return err
		}
	}
	return nil
}

// BuildStart notifies every plugin concurrently.
func (c *PluginContainer) BuildStart(ctx context.Context, cc *CompilationContext) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, p := range c.Plugins {
		p := p
		g.Go(func() error { return p.BuildStart(gctx, cc) })
	}
	return g.Wait()
}

// Resolve runs plugins in order, returning the first non-nil result.
func (c *PluginContainer) Resolve(ctx context.Context, cc *CompilationContext, params ResolveParams) (*ResolveResult, error) {
	for _, p := range c.Plugins {
		res, err := p.Resolve(ctx, cc, params)
		if err != nil {
			return nil, err
		}
		if res != nil {
			return res, nil
		}
	}
	return nil, nil
}

// Load runs plugins in order, returning the first non-nil result.
func (c *PluginContainer) Load(ctx context.Context, cc *CompilationContext, id string) (*LoadResult, error) {
	for _, p := range c.Plugins {
		res, err := p.Load(ctx, cc, id)
		if err != nil {
			return nil, err
		}
		if res != nil {
			return res, nil
		}
	}
	return nil, nil
}

// Transform runs every plugin in order; each may override Content/Kind and
// append to SourceMapChain, seeing the accumulated result of every earlier
// plugin.
func (c *PluginContainer) Transform(ctx context.Context, cc *CompilationContext, id string, in TransformResult) (TransformResult, error) {
	acc := in
	for _, p := range c.Plugins {
		out, err := p.Transform(ctx, cc, id, acc)
		if err != nil {
			return acc, err
		}
		if out != nil {
			acc = *out
		}
	}
	return acc, nil
}

// Parse runs plugins in order; the first one to populate m.Meta wins and
// stops the walk.
func (c *PluginContainer) Parse(ctx context.Context, cc *CompilationContext, m *Module) error {
	for _, p := range c.Plugins {
		if err := p.Parse(ctx, cc, m); err != nil {
			return err
		}
		if m.Meta != nil {
			return nil
		}
	}
	return nil
}

// AnalyzeDeps runs plugins in order, returning the first non-nil result.
func (c *PluginContainer) AnalyzeDeps(ctx context.Context, cc *CompilationContext, m *Module) ([]Dep, error) {
	for _, p := range c.Plugins {
		deps, err := p.AnalyzeDeps(ctx, cc, m)
		if err != nil {
			return nil, err
		}
		if deps != nil {
			return deps, nil
		}
	}
	return nil, nil
}

// BuildEnd notifies every plugin concurrently.
func (c *PluginContainer) BuildEnd(ctx context.Context, cc *CompilationContext) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, p := range c.Plugins {
		p := p
		g.Go(func() error { return p.BuildEnd(gctx, cc) })
	}
	return g.Wait()
}

// GenerateStart notifies every plugin concurrently.
func (c *PluginContainer) GenerateStart(ctx context.Context, cc *CompilationContext) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, p := range c.Plugins {
		p := p
		g.Go(func() error { return p.GenerateStart(gctx, cc) })
	}
	return g.Wait()
}

// AnalyzeModuleGraph runs plugins in order, returning the first non-nil
// result. Exactly one plugin is expected to implement this hook.
func (c *PluginContainer) AnalyzeModuleGraph(ctx context.Context, cc *CompilationContext, g *ModuleGraph) (ModuleGroupMap, error) {
	for _, p := range c.Plugins {
		groups, err := p.AnalyzeModuleGraph(ctx, cc, g)
		if err != nil {
			return nil, err
		}
		if groups != nil {
			return groups, nil
		}
	}
	return nil, NewGenericError("no plugin implemented analyze_module_graph")
}

// MergeModules runs plugins in order, returning the first non-nil result.
func (c *PluginContainer) MergeModules(ctx context.Context, cc *CompilationContext, g *ModuleGraph, groups ModuleGroupMap) (ResourcePotMap, error) {
	for _, p := range c.Plugins {
		pots, err := p.MergeModules(ctx, cc, g, groups)
		if err != nil {
			return nil, err
		}
		if pots != nil {
			return pots, nil
		}
	}
	return nil, NewGenericError("no plugin implemented merge_modules")
}

// RenderResourcePot runs plugins in order; the first to claim the pot (by
// returning a nil error after setting pot.Meta) stops the walk. A plugin
// that doesn't handle this pot's kind should leave pot.Meta nil and return
// nil.
func (c *PluginContainer) RenderResourcePot(ctx context.Context, cc *CompilationContext, pot *ResourcePot) error {
	for _, p := range c.Plugins {
		if err := p.RenderResourcePot(ctx, cc, pot); err != nil {
			return err
		}
		if pot.Meta != nil {
			return nil
		}
	}
	return nil
}

// GenerateResources runs plugins in order, returning the first non-nil
// result.
func (c *PluginContainer) GenerateResources(ctx context.Context, cc *CompilationContext, pot *ResourcePot) ([]*Resource, error) {
	for _, p := range c.Plugins {
		res, err := p.GenerateResources(ctx, cc, pot)
		if err != nil {
			return nil, err
		}
		if res != nil {
			return res, nil
		}
	}
	return nil, nil
}

// WriteResources runs every plugin in order (serial): several plugins may
// each have their own side effects (rewriting HTML content in-memory,
// flushing resources to disk).
func (c *PluginContainer) WriteResources(ctx context.Context, cc *CompilationContext) error {
	for _, p := range c.Plugins {
		if err := p.WriteResources(ctx, cc); err != nil {
			return err
		}
	}
	return nil
}

// GenerateEnd notifies every plugin concurrently.
func (c *PluginContainer) GenerateEnd(ctx context.Context, cc *CompilationContext) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, p := range c.Plugins {
		p := p
		g.Go(func() error { return p.GenerateEnd(gctx, cc) })
	}
	return g.Wait()
}
