package bundler

import "context"

// ResolveParams is the input to a plugin's Resolve hook.
type ResolveParams struct {
	Source   string
	Importer string
	Kind     ResolveKind
}

// ResolveResult is a plugin's successful Resolve hook output.
type ResolveResult struct {
	ID string
}

// LoadResult is a plugin's successful Load hook output.
type LoadResult struct {
	Content string
	Kind    ModuleKind
}

// TransformResult is a plugin's Transform hook output; plugins run in
// serial and may each override Content/Kind and append to SourceMapChain.
type TransformResult struct {
	Content        string
	Kind           ModuleKind
	SourceMapChain []string
}

// Dep is one dependency discovered by AnalyzeDeps: a specifier plus the
// ResolveKind it was found under.
type Dep struct {
	Specifier string
	Kind      ResolveKind
}

// DefaultPluginPriority is the priority a plugin gets when it does not set
// PluginPriority explicitly; plugins run in ascending priority order, so
// lower values run earlier.
const DefaultPluginPriority = 100

// Plugin is the full hook surface a compiler plugin may implement. Plugins
// embed Base and override only the hooks they care about; Base's no-op
// implementations let the container skip hooks a plugin doesn't provide.
type Plugin interface {
	Name() string
	Priority() int

	Config(ctx context.Context, cfg *Config) error
	BuildStart(ctx context.Context, cc *CompilationContext) error

	Resolve(ctx context.Context, cc *CompilationContext, p ResolveParams) (*ResolveResult, error)
	Load(ctx context.Context, cc *CompilationContext, id string) (*LoadResult, error)
	Transform(ctx context.Context, cc *CompilationContext, id string, in TransformResult) (*TransformResult, error)
	Parse(ctx context.Context, cc *CompilationContext, m *Module) error
	AnalyzeDeps(ctx context.Context, cc *CompilationContext, m *Module) ([]Dep, error)

	BuildEnd(ctx context.Context, cc *CompilationContext) error

	GenerateStart(ctx context.Context, cc *CompilationContext) error
	AnalyzeModuleGraph(ctx context.Context, cc *CompilationContext, g *ModuleGraph) (ModuleGroupMap, error)
	MergeModules(ctx context.Context, cc *CompilationContext, g *ModuleGraph, groups ModuleGroupMap) (ResourcePotMap, error)
	RenderResourcePot(ctx context.Context, cc *CompilationContext, pot *ResourcePot) error
	GenerateResources(ctx context.Context, cc *CompilationContext, pot *ResourcePot) ([]*Resource, error)
	WriteResources(ctx context.Context, cc *CompilationContext) error
	GenerateEnd(ctx context.Context, cc *CompilationContext) error
}

// Base is embedded by concrete plugins to provide no-op defaults for every
// hook; a plugin overrides only the methods it implements.
type Base struct {
	PluginName string
	// PluginPriority orders this plugin within a hook dispatch (lower runs
	// first); zero means DefaultPluginPriority.
	PluginPriority int
}

func (b Base) Name() string { return b.PluginName }

func (b Base) Priority() int {
	if b.PluginPriority == 0 {
		return DefaultPluginPriority
	}
	return b.PluginPriority
}

func (Base) Config(context.Context, *Config) error { return nil }
func (Base) BuildStart(context.Context, *CompilationContext) error { return nil }

func (Base) Resolve(context.Context, *CompilationContext, ResolveParams) (*ResolveResult, error) {
	return nil, nil
}
func (Base) Load(context.Context, *CompilationContext, string) (*LoadResult, error) {
	return nil, nil
}
func (Base) Transform(_ context.Context, _ *CompilationContext, _ string, in TransformResult) (*TransformResult, error) {
	return &in, nil
}
func (Base) Parse(context.Context, *CompilationContext, *Module) error { return nil }
func (Base) AnalyzeDeps(context.Context, *CompilationContext, *Module) ([]Dep, error) {
	return nil, nil
}

func (Base) BuildEnd(context.Context, *CompilationContext) error { return nil }

func (Base) GenerateStart(context.Context, *CompilationContext) error { return nil }
func (Base) AnalyzeModuleGraph(context.Context, *CompilationContext, *ModuleGraph) (ModuleGroupMap, error) {
	return nil, nil
}
func (Base) MergeModules(context.Context, *CompilationContext, *ModuleGraph, ModuleGroupMap) (ResourcePotMap, error) {
	return nil, nil
}
func (Base) RenderResourcePot(context.Context, *CompilationContext, *ResourcePot) error { return nil }
func (Base) GenerateResources(context.Context, *CompilationContext, *ResourcePot) ([]*Resource, error) {
	return nil, nil
}
func (Base) WriteResources(context.Context, *CompilationContext) error { return nil }
func (Base) GenerateEnd(context.Context, *CompilationContext) error    { return nil }
