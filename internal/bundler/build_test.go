package bundler

import (
	"context"
	"errors"
	"testing"
)

// resolveIDPlugin mimics a real resolver: every specifier resolves to a
// "root:"-prefixed module id, and "./missing" never resolves, so the
// resulting ResolveError reflects real module-id shapes rather than the
// bare table keys newFakeCompiler's fakePlugin uses.
type resolveIDPlugin struct {
	Base
}

func (p *resolveIDPlugin) Resolve(_ context.Context, _ *CompilationContext, params ResolveParams) (*ResolveResult, error) {
	if params.Source == "./missing" {
		return nil, nil
	}
	return &ResolveResult{ID: "root:" + params.Source}, nil
}

func (p *resolveIDPlugin) Load(_ context.Context, _ *CompilationContext, id string) (*LoadResult, error) {
	return &LoadResult{Content: id, Kind: KindJs}, nil
}

func (p *resolveIDPlugin) AnalyzeDeps(_ context.Context, _ *CompilationContext, m *Module) ([]Dep, error) {
	if m.ID == "root:pkg/index.js" {
		return []Dep{{Specifier: "./missing", Kind: ResolveImport}}, nil
	}
	return nil, nil
}

func (p *resolveIDPlugin) AnalyzeModuleGraph(_ context.Context, _ *CompilationContext, g *ModuleGraph) (ModuleGroupMap, error) {
	return AnalyzeModuleGraph(g), nil
}

func (p *resolveIDPlugin) MergeModules(_ context.Context, _ *CompilationContext, g *ModuleGraph, groups ModuleGroupMap) (ResourcePotMap, error) {
	return MergeModules(g, groups), nil
}

// TestResolveErrorBaseIsImporterDirectory reproduces entry pkg/index.js
// importing "./missing": the resulting ResolveError.Base must be the
// importer's directory ("/repo/pkg"), not its module id
// ("root:pkg/index.js").
func TestResolveErrorBaseIsImporterDirectory(t *testing.T) {
	cfg := &Config{Input: map[string]string{"main": "pkg/index.js"}, Root: "/repo"}
	c, err := New(context.Background(), cfg, &resolveIDPlugin{Base: Base{PluginName: "resolveID"}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	runErr := c.Run(context.Background())
	if runErr == nil {
		t.Fatal("expected an error")
	}
	var ce *CompileError
	if !errors.As(runErr, &ce) {
		t.Fatalf("expected *CompileError, got %T: %v", runErr, runErr)
	}
	if ce.Kind != ErrResolve {
		t.Fatalf("expected ErrResolve, got %v", ce.Kind)
	}
	if ce.Base != "/repo/pkg" {
		t.Fatalf("expected Base %q, got %q", "/repo/pkg", ce.Base)
	}
	if ce.Src != "./missing" {
		t.Fatalf("expected Src %q, got %q", "./missing", ce.Src)
	}
}
