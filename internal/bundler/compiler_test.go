package bundler

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"
)

// fakeModule is one entry in a tiny in-memory source tree used to drive the
// compiler core end-to-end without any real filesystem or language plugin.
type fakeModule struct {
	kind ModuleKind
	deps []Dep
}

type fakePotMeta struct{ BaseResourcePotMeta }

// fakePlugin resolves every specifier to itself (so "id" == "specifier"),
// loads content from an in-memory table, and renders each pot to a resource
// listing its module ids, joined by ",".
type fakePlugin struct {
	Base
	sources  map[string]fakeModule
	failLoad map[string]bool
}

func (p *fakePlugin) Resolve(_ context.Context, _ *CompilationContext, params ResolveParams) (*ResolveResult, error) {
	if _, ok := p.sources[params.Source]; !ok {
		return nil, nil
	}
	return &ResolveResult{ID: params.Source}, nil
}

func (p *fakePlugin) Load(_ context.Context, _ *CompilationContext, id string) (*LoadResult, error) {
	if p.failLoad[id] {
		return nil, errors.New("fake load failure")
	}
	m, ok := p.sources[id]
	if !ok {
		return nil, nil
	}
	return &LoadResult{Content: id, Kind: m.kind}, nil
}

func (p *fakePlugin) AnalyzeDeps(_ context.Context, _ *CompilationContext, m *Module) ([]Dep, error) {
	return p.sources[m.ID].deps, nil
}

func (p *fakePlugin) AnalyzeModuleGraph(_ context.Context, _ *CompilationContext, g *ModuleGraph) (ModuleGroupMap, error) {
	return AnalyzeModuleGraph(g), nil
}

func (p *fakePlugin) MergeModules(_ context.Context, _ *CompilationContext, g *ModuleGraph, groups ModuleGroupMap) (ResourcePotMap, error) {
	return MergeModules(g, groups), nil
}

func (p *fakePlugin) RenderResourcePot(_ context.Context, _ *CompilationContext, pot *ResourcePot) error {
	pot.Meta = fakePotMeta{}
	return nil
}

func (p *fakePlugin) GenerateResources(_ context.Context, _ *CompilationContext, pot *ResourcePot) ([]*Resource, error) {
	ids := append([]string(nil), pot.ModuleIDOrder...)
	sort.Strings(ids)
	return []*Resource{{
		Name:    pot.ID + ".out",
		Content: []byte(strings.Join(ids, ",")),
		Kind:    ResourceCustom,
	}}, nil
}

func newFakeCompiler(t *testing.T, input map[string]string, sources map[string]fakeModule) *Compiler {
	t.Helper()
	return newFakeCompilerWithFailures(t, input, sources, nil)
}

func newFakeCompilerWithFailures(t *testing.T, input map[string]string, sources map[string]fakeModule, failLoad map[string]bool) *Compiler {
	t.Helper()
	cfg := &Config{Input: input, Root: "/repo"}
	c, err := New(context.Background(), cfg, &fakePlugin{Base: Base{PluginName: "fake"}, sources: sources, failLoad: failLoad})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestCompilerBasicBuild(t *testing.T) {
	sources := map[string]fakeModule{
		"a": {kind: KindJs, deps: []Dep{{Specifier: "b", Kind: ResolveImport}}},
		"b": {kind: KindJs},
	}
	c := newFakeCompiler(t, map[string]string{"main": "a"}, sources)
	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	ids := c.Context().Graph.AllModuleIDs()
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Fatalf("unexpected module ids: %v", ids)
	}
	deps := c.Context().Graph.Dependencies("a")
	if len(deps) != 1 || deps[0].TargetID != "b" {
		t.Fatalf("expected edge a->b, got %v", deps)
	}
}

func TestCompilerDynamicImportCreatesTwoGroupsAndPots(t *testing.T) {
	sources := map[string]fakeModule{
		"a": {kind: KindJs, deps: []Dep{{Specifier: "d", Kind: ResolveDynamicImport}}},
		"d": {kind: KindJs},
	}
	c := newFakeCompiler(t, map[string]string{"main": "a"}, sources)
	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	groups := c.Context().ModuleGroups()
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups (a, d), got %d: %v", len(groups), groups.SortedIDs())
	}
	pots := c.Context().ResourcePots()
	if len(pots) != 2 {
		t.Fatalf("expected 2 js pots, got %d", len(pots))
	}
	resources := c.Context().Resources()
	if len(resources) != 2 {
		t.Fatalf("expected 2 resources emitted, one per pot, got %d", len(resources))
	}
}

func TestCompilerResolveFailureSurfacesAsResolveError(t *testing.T) {
	sources := map[string]fakeModule{
		"a": {kind: KindJs, deps: []Dep{{Specifier: "missing", Kind: ResolveImport}}},
	}
	c := newFakeCompiler(t, map[string]string{"main": "a"}, sources)
	err := c.Run(context.Background())
	if err == nil {
		t.Fatal("expected an error")
	}
	var ce *CompileError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *CompileError, got %T: %v", err, err)
	}
	if ce.Kind != ErrResolve {
		t.Fatalf("expected ErrResolve, got %v", ce.Kind)
	}
	if ce.Base == "a" {
		t.Fatalf("Base should be the importer's directory, not its module id %q", ce.Base)
	}
	if len(c.Context().Resources()) != 0 {
		t.Fatal("no resources should have been generated after a build-phase error")
	}
}

func TestCompilerSelfImportCycle(t *testing.T) {
	sources := map[string]fakeModule{
		"a": {kind: KindJs, deps: []Dep{{Specifier: "a", Kind: ResolveImport}}},
	}
	c := newFakeCompiler(t, map[string]string{"main": "a"}, sources)
	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	deps := c.Context().Graph.Dependencies("a")
	if len(deps) != 1 || deps[0].TargetID != "a" {
		t.Fatalf("expected one self-edge on a, got %v", deps)
	}
}

// TestCompilerSharedFailingDependencyDoesNotDeadlock reproduces entry ->
// {a, b}, a -> c, b -> c, where c fails to load. Whichever of a/b's tasks
// loses the claim on c must be released (not block forever on a channel
// the winner never closes) so Run returns the first error instead of
// hanging.
func TestCompilerSharedFailingDependencyDoesNotDeadlock(t *testing.T) {
	sources := map[string]fakeModule{
		"main": {kind: KindJs, deps: []Dep{
			{Specifier: "a", Kind: ResolveImport},
			{Specifier: "b", Kind: ResolveImport},
		}},
		"a": {kind: KindJs, deps: []Dep{{Specifier: "c", Kind: ResolveImport}}},
		"b": {kind: KindJs, deps: []Dep{{Specifier: "c", Kind: ResolveImport}}},
		"c": {kind: KindJs},
	}
	c := newFakeCompilerWithFailures(t, map[string]string{"main": "main"}, sources, map[string]bool{"c": true})

	done := make(chan error, 1)
	go func() { done <- c.Run(context.Background()) }()

	select {
	case err := <-done:
		if err == nil {
			t.Fatal("expected an error from the failing load of c")
		}
		var ce *CompileError
		if !errors.As(err, &ce) || ce.Kind != ErrLoad {
			t.Fatalf("expected *CompileError{Kind: ErrLoad}, got %T: %v", err, err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run deadlocked instead of returning the load error")
	}
}

func TestCompilerMutualCycle(t *testing.T) {
	sources := map[string]fakeModule{
		"a": {kind: KindJs, deps: []Dep{{Specifier: "b", Kind: ResolveImport}}},
		"b": {kind: KindJs, deps: []Dep{{Specifier: "a", Kind: ResolveImport}}},
	}
	c := newFakeCompiler(t, map[string]string{"main": "a"}, sources)
	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run should tolerate a<->b cycle: %v", err)
	}
	ids := c.Context().Graph.AllModuleIDs()
	if len(ids) != 2 {
		t.Fatalf("expected exactly 2 modules despite the cycle, got %v", ids)
	}
}
