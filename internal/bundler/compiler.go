package bundler

import "context"

// Compiler is the package's single public entrypoint: it wires a Config and
// a set of Plugins into a CompilationContext and runs the build phase
// followed by the generate phase.
type Compiler struct {
	cc *CompilationContext
}

// New constructs a Compiler, running every plugin's Config hook
// immediately.
func New(ctx context.Context, cfg *Config, plugins ...Plugin) (*Compiler, error) {
	cc, err := NewCompilationContext(ctx, cfg, NewPluginContainer(plugins...))
	if err != nil {
		return nil, err
	}
	return &Compiler{cc: cc}, nil
}

// Context returns the compiler's CompilationContext, for callers that need
// to inspect the resulting graph/pots/resources after Run.
func (c *Compiler) Context() *CompilationContext { return c.cc }

// Run executes the build phase followed by the generate phase.
func (c *Compiler) Run(ctx context.Context) error {
	if err := NewBuildDriver(c.cc).Run(ctx); err != nil {
		return err
	}
	return NewGenerateDriver(c.cc).Run(ctx)
}
