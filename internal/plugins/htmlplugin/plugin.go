// Package htmlplugin implements the built-in HTML plugin: it parses entry
// HTML documents with golang.org/x/net/html (the same collaborator the
// CSS/JS plugins' own parser choices were grounded on, via its place in
// nathan-coates-wikilite's dependency chain), discovers <script src> and
// <link href> dependencies, and, at write time, injects the resources its
// sibling CSS/JS pots produced back into the document.
package htmlplugin

import (
	"context"
	"os"
	"strings"

	"golang.org/x/net/html"

	"github.com/Codpoe/toy-bundler/internal/bundler"
)

// Meta is the parsed payload an HTML Module carries.
type Meta struct {
	bundler.BaseMeta
	Doc *html.Node
}

// PotMeta is the payload an HTML ResourcePot carries between
// RenderResourcePot and WriteResources: the single constituent module's
// parsed document, not yet code-generated (§4.6: "code is emitted only in
// write_resources after dependency resources are known").
type PotMeta struct {
	bundler.BaseResourcePotMeta
	ModuleID string
	Doc      *html.Node
}

// Plugin is the built-in HTML plugin.
type Plugin struct {
	bundler.Base
}

// New returns the built-in HTML plugin.
func New() *Plugin {
	return &Plugin{Base: bundler.Base{PluginName: "ToyPluginHtml"}}
}

// Load reads id's content off disk if it names an HTML module.
func (p *Plugin) Load(_ context.Context, cc *bundler.CompilationContext, id string) (*bundler.LoadResult, error) {
	kind := bundler.ModuleKindFromFilePath(id)
	if !kind.IsHTML() {
		return nil, nil
	}
	path := bundler.FulfillRootPrefix(cc.Config.Root, id)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &bundler.LoadResult{Content: string(data), Kind: kind}, nil
}

// Parse parses m's content into an html.Node tree and stores it as m.Meta.
func (p *Plugin) Parse(_ context.Context, _ *bundler.CompilationContext, m *bundler.Module) error {
	if !m.Kind.IsHTML() {
		return nil
	}
	doc, err := html.Parse(strings.NewReader(m.Content))
	if err != nil {
		return err
	}
	m.Meta = &Meta{Doc: doc}
	return nil
}

// AnalyzeDeps walks m's parsed document for <script src="..."> and
// <link rel="stylesheet" href="..."> elements; remote URLs (an explicit
// scheme, or a protocol-relative "//...") are left alone since the
// built-in resolver only understands relative/bare/absolute filesystem
// specifiers.
func (p *Plugin) AnalyzeDeps(_ context.Context, _ *bundler.CompilationContext, m *bundler.Module) ([]bundler.Dep, error) {
	meta, ok := m.Meta.(*Meta)
	if !ok {
		return nil, nil
	}

	var deps []bundler.Dep
	walk(meta.Doc, func(n *html.Node) {
		if n.Type != html.ElementNode {
			return
		}
		switch n.Data {
		case "script":
			if src, ok := attr(n, "src"); ok && isLocalSpecifier(src) {
				deps = append(deps, bundler.Dep{Specifier: src, Kind: bundler.ResolveScriptSrc})
			}
		case "link":
			if rel, _ := attr(n, "rel"); rel == "stylesheet" {
				if href, ok := attr(n, "href"); ok && isLocalSpecifier(href) {
					deps = append(deps, bundler.Dep{Specifier: href, Kind: bundler.ResolveLinkHref})
				}
			}
		}
	})
	return deps, nil
}

// RenderResourcePot implements §4.6's HTML pot rule: exactly one
// constituent module, or it's an error. The document itself isn't
// code-generated here; WriteResources does that once sibling resources
// exist to inject.
func (p *Plugin) RenderResourcePot(_ context.Context, cc *bundler.CompilationContext, pot *bundler.ResourcePot) error {
	if pot.Kind != bundler.PotHtml {
		return nil
	}
	if len(pot.ModuleIDOrder) != 1 {
		return bundler.NewGenericError("html resource pot %q must contain exactly one module, got %d", pot.ID, len(pot.ModuleIDOrder))
	}
	moduleID := pot.ModuleIDOrder[0]
	m := cc.Graph.Module(moduleID)
	if m == nil {
		return bundler.NewGenericError("html resource pot %q: module %q not found", pot.ID, moduleID)
	}
	meta, ok := m.Meta.(*Meta)
	if !ok {
		return bundler.NewGenericError("html resource pot %q: module %q has no parsed document", pot.ID, moduleID)
	}
	pot.Meta = &PotMeta{ModuleID: moduleID, Doc: meta.Doc}
	return nil
}

// GenerateResources returns a placeholder, unemitted HTML resource: its
// content is filled in by WriteResources once sibling resources are known.
func (p *Plugin) GenerateResources(_ context.Context, _ *bundler.CompilationContext, pot *bundler.ResourcePot) ([]*bundler.Resource, error) {
	meta, ok := pot.Meta.(*PotMeta)
	if !ok {
		return nil, nil
	}
	return []*bundler.Resource{{
		Name: htmlResourceName(meta.ModuleID),
		Kind: bundler.ResourceHTML,
	}}, nil
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func isLocalSpecifier(s string) bool {
	return s != "" && !strings.Contains(s, "://") && !strings.HasPrefix(s, "//")
}

func walk(n *html.Node, visit func(*html.Node)) {
	if n == nil {
		return
	}
	visit(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

// htmlResourceName derives an output filename from the HTML module's
// stripped id: its final path segment, unchanged (already .html/.htm).
func htmlResourceName(moduleID string) string {
	stripped := bundler.StripRootPrefix(moduleID)
	if i := strings.LastIndexByte(stripped, '/'); i >= 0 {
		return stripped[i+1:]
	}
	return stripped
}
