// Package cssplugin implements the built-in CSS plugin: it parses
// stylesheets with aymerick/douceur (pulled in along the same dependency
// chain nathan-coates-wikilite uses for its sanitizer's CSS handling),
// walks @import rules for dependencies, and concatenates + prints the
// merged sheet for each CSS resource pot in module order.
package cssplugin

import (
	"context"
	"os"
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
	cssscanner "github.com/gorilla/css/scanner"

	"github.com/Codpoe/toy-bundler/internal/bundler"
)

// Meta is the parsed payload a CSS Module carries.
type Meta struct {
	bundler.BaseMeta
	Sheet *css.Stylesheet
}

// PotMeta is the rendered payload a CSS ResourcePot carries.
type PotMeta struct {
	bundler.BaseResourcePotMeta
	Code string
}

// Plugin is the built-in CSS plugin.
type Plugin struct {
	bundler.Base
}

// New returns the built-in CSS plugin.
func New() *Plugin {
	return &Plugin{Base: bundler.Base{PluginName: "ToyPluginCss"}}
}

// Load reads id's content off disk if it names a CSS module.
func (p *Plugin) Load(_ context.Context, cc *bundler.CompilationContext, id string) (*bundler.LoadResult, error) {
	kind := bundler.ModuleKindFromFilePath(id)
	if !kind.IsStyle() {
		return nil, nil
	}
	path := bundler.FulfillRootPrefix(cc.Config.Root, id)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &bundler.LoadResult{Content: string(data), Kind: kind}, nil
}

// Parse parses m's content into a douceur stylesheet.
func (p *Plugin) Parse(_ context.Context, _ *bundler.CompilationContext, m *bundler.Module) error {
	if !m.Kind.IsStyle() {
		return nil
	}
	sheet, err := parser.Parse(m.Content)
	if err != nil {
		return err
	}
	m.Meta = &Meta{Sheet: sheet}
	return nil
}

// AnalyzeDeps walks m's top-level @import rules for dependencies, and
// visits url(...) tokens inside declaration values without surfacing them
// as deps — a documented no-op; see SPEC_FULL.md §C.2.
func (p *Plugin) AnalyzeDeps(_ context.Context, _ *bundler.CompilationContext, m *bundler.Module) ([]bundler.Dep, error) {
	meta, ok := m.Meta.(*Meta)
	if !ok {
		return nil, nil
	}

	var deps []bundler.Dep
	for _, rule := range meta.Sheet.Rules {
		if rule.Kind != css.AtRule || !strings.EqualFold(strings.TrimPrefix(rule.Name, "@"), "import") {
			continue
		}
		if source := importSource(rule.Prelude); source != "" {
			deps = append(deps, bundler.Dep{Specifier: source, Kind: bundler.ResolveCssAtImport})
		}
	}
	visitURLTokens(m.Content)
	return deps, nil
}

// RenderResourcePot concatenates each constituent module's stylesheet, in
// pot.ModuleIDOrder, dropping @import rules from the final text (their
// content was pulled in by the module graph, not by the browser).
func (p *Plugin) RenderResourcePot(_ context.Context, cc *bundler.CompilationContext, pot *bundler.ResourcePot) error {
	if pot.Kind != bundler.PotCss {
		return nil
	}

	var b strings.Builder
	for _, moduleID := range pot.ModuleIDOrder {
		m := cc.Graph.Module(moduleID)
		if m == nil {
			continue
		}
		meta, ok := m.Meta.(*Meta)
		if !ok {
			continue
		}
		for _, rule := range meta.Sheet.Rules {
			if rule.Kind == css.AtRule && strings.EqualFold(strings.TrimPrefix(rule.Name, "@"), "import") {
				continue
			}
			b.WriteString(rule.String())
			b.WriteByte('\n')
		}
	}
	pot.Meta = &PotMeta{Code: b.String()}
	return nil
}

// GenerateResources prints the rendered code into a single CSS resource.
func (p *Plugin) GenerateResources(_ context.Context, _ *bundler.CompilationContext, pot *bundler.ResourcePot) ([]*bundler.Resource, error) {
	meta, ok := pot.Meta.(*PotMeta)
	if !ok {
		return nil, nil
	}
	return []*bundler.Resource{{
		Name:    cssResourceName(pot.ID),
		Kind:    bundler.ResourceCSS,
		Content: []byte(meta.Code),
	}}, nil
}

// importSource extracts the quoted or url(...)-wrapped string out of an
// @import prelude, e.g. `"./base.css"` or `url(./base.css)`.
func importSource(prelude string) string {
	s := strings.TrimSpace(prelude)
	if strings.HasPrefix(s, "url(") && strings.HasSuffix(s, ")") {
		s = strings.TrimSuffix(strings.TrimPrefix(s, "url("), ")")
	}
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `"'`)
	return s
}

// visitURLTokens tokenizes content with gorilla/css/scanner and looks for
// url(...) tokens. It deliberately does nothing with what it finds; the
// hook point exists for a future plugin rather than inventing asset
// rewriting (SPEC_FULL.md §C.2).
func visitURLTokens(content string) {
	s := cssscanner.New(content)
	for {
		tok := s.Next()
		if tok.Type == cssscanner.TokenEOF || tok.Type == cssscanner.TokenError {
			return
		}
		if tok.Type == cssscanner.TokenURI {
			_ = tok.Value // TODO: surface as a CssUrl dep once asset rewriting exists.
		}
	}
}

// cssResourceName derives an output filename from the pot's seed module id.
func cssResourceName(moduleID string) string {
	stripped := bundler.StripRootPrefix(moduleID)
	if i := strings.LastIndexByte(stripped, '/'); i >= 0 {
		stripped = stripped[i+1:]
	}
	if i := strings.LastIndexByte(stripped, '.'); i >= 0 {
		stripped = stripped[:i]
	}
	return stripped + ".css"
}
