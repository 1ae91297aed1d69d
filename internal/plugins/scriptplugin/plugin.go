// Package scriptplugin implements the built-in script plugin: it loads
// JS/JSX/TS/TSX modules, strips TS/JSX syntax down to plain ESM with
// esbuild's Transform API (a single-file transform, not a full bundling
// pass), scans the result for import/export declarations with the jsast
// package, and renders a group's JS modules into one wrapped,
// runtime-bootstrapped bundle.
package scriptplugin

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/evanw/esbuild/pkg/api"

	"github.com/Codpoe/toy-bundler/internal/bundler"
	"github.com/Codpoe/toy-bundler/internal/plugins/scriptplugin/jsast"
)

// Meta is the parsed payload a script Module carries: the jsast scan of its
// (already TS/JSX-stripped) content.
type Meta struct {
	bundler.BaseMeta
	Program *jsast.Program
}

// loaders maps each script ModuleKind to the esbuild loader that strips it
// down to plain ESM; css/html/asset loading belongs to the other built-in
// plugins.
var loaders = map[bundler.ModuleKind]api.Loader{
	bundler.KindJs:  api.LoaderJS,
	bundler.KindJsx: api.LoaderJSX,
	bundler.KindTs:  api.LoaderTS,
	bundler.KindTsx: api.LoaderTSX,
}

// Plugin is the built-in script plugin.
type Plugin struct {
	bundler.Base
}

// New returns the built-in script plugin.
func New() *Plugin {
	return &Plugin{Base: bundler.Base{PluginName: "ToyPluginScript"}}
}

// Load reads id's content off disk if it names a script-kind module; other
// kinds are left for the plugin that owns them.
func (p *Plugin) Load(_ context.Context, cc *bundler.CompilationContext, id string) (*bundler.LoadResult, error) {
	kind := bundler.ModuleKindFromFilePath(id)
	if !kind.IsScript() {
		return nil, nil
	}
	path := bundler.FulfillRootPrefix(cc.Config.Root, id)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &bundler.LoadResult{Content: string(data), Kind: kind}, nil
}

// Transform strips TS/JSX syntax with esbuild's Transform API, applying
// cc.Config.Define, and normalizes the result to plain KindJs; non-script
// content is passed through untouched, mirroring transpile.go's single-file
// api.Transform call.
func (p *Plugin) Transform(_ context.Context, cc *bundler.CompilationContext, id string, in bundler.TransformResult) (*bundler.TransformResult, error) {
	loader, ok := loaders[in.Kind]
	if !ok {
		return &in, nil
	}

	result := api.Transform(in.Content, api.TransformOptions{
		Loader:     loader,
		Format:     api.FormatESModule,
		Target:     api.ESNext,
		JSX:        api.JSXAutomatic,
		Define:     cc.Config.Define,
		Sourcefile: bundler.StripRootPrefix(id),
		Sourcemap:  api.SourceMapNone,
	})
	if len(result.Errors) > 0 {
		msgs := make([]string, 0, len(result.Errors))
		for _, e := range result.Errors {
			msgs = append(msgs, e.Text)
		}
		return nil, fmt.Errorf("transform %q: %s", id, strings.Join(msgs, "; "))
	}

	return &bundler.TransformResult{Content: string(result.Code), Kind: bundler.KindJs}, nil
}

// Parse scans m's (already-transformed, plain-ESM) content into a
// jsast.Program and stores it as m.Meta.
func (p *Plugin) Parse(_ context.Context, _ *bundler.CompilationContext, m *bundler.Module) error {
	if !m.Kind.IsScript() {
		return nil
	}
	m.Meta = &Meta{Program: jsast.Scan(m.Content, m.ID)}
	return nil
}

// AnalyzeDeps walks m's scanned Program for every import/re-export source
// and dynamic import() literal, tagging each with the ResolveKind the build
// driver needs to decide whether it starts a new module group. CSS-suffixed
// import sources are still real build dependencies (the stylesheet must end
// up in the module graph and its group's resource pot) even though §4.7
// excludes them from ESM lowering.
func (p *Plugin) AnalyzeDeps(_ context.Context, _ *bundler.CompilationContext, m *bundler.Module) ([]bundler.Dep, error) {
	meta, ok := m.Meta.(*Meta)
	if !ok {
		return nil, nil
	}

	var deps []bundler.Dep
	seen := map[string]bool{}
	add := func(source string, kind bundler.ResolveKind) {
		key := fmt.Sprintf("%d:%s", kind, source)
		if seen[key] {
			return
		}
		seen[key] = true
		deps = append(deps, bundler.Dep{Specifier: source, Kind: kind})
	}

	for _, stmt := range meta.Program.Statements {
		switch stmt.Kind {
		case jsast.StmtImport:
			if stmt.Import != nil {
				add(stmt.Import.Source, bundler.ResolveImport)
			}
		case jsast.StmtExportNamed:
			if stmt.ExportNamed != nil && stmt.ExportNamed.Import != nil {
				add(stmt.ExportNamed.Import.Source, bundler.ResolveImport)
			}
		case jsast.StmtExportAll:
			if stmt.ExportAll != nil && stmt.ExportAll.Import != nil {
				add(stmt.ExportAll.Import.Source, bundler.ResolveImport)
			}
		}
	}
	for _, source := range meta.Program.DynamicImports {
		add(source, bundler.ResolveDynamicImport)
	}

	return deps, nil
}
