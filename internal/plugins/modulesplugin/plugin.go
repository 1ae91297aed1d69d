// Package modulesplugin implements the built-in "modules" plugin: the two
// hooks that turn a finished module graph into module groups and resource
// pots. It carries no asset-kind knowledge of its own; it wraps the pure
// graph/group/pot algorithms bundler already exposes as package functions.
package modulesplugin

import (
	"context"

	"github.com/Codpoe/toy-bundler/internal/bundler"
)

// Plugin wires bundler.AnalyzeModuleGraph and bundler.MergeModules in as the
// analyze_module_graph / merge_modules hooks, as a standalone plugin rather
// than folding them into one of the asset-specific plugins.
type Plugin struct {
	bundler.Base
}

// New returns the built-in modules plugin.
func New() *Plugin {
	return &Plugin{Base: bundler.Base{PluginName: "ToyPluginModules"}}
}

func (p *Plugin) AnalyzeModuleGraph(_ context.Context, _ *bundler.CompilationContext, g *bundler.ModuleGraph) (bundler.ModuleGroupMap, error) {
	return bundler.AnalyzeModuleGraph(g), nil
}

func (p *Plugin) MergeModules(_ context.Context, _ *bundler.CompilationContext, g *bundler.ModuleGraph, groups bundler.ModuleGroupMap) (bundler.ResourcePotMap, error) {
	return bundler.MergeModules(g, groups), nil
}
