package cssplugin

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Codpoe/toy-bundler/internal/bundler"
)

func parseModule(t *testing.T, id, content string) *bundler.Module {
	t.Helper()
	m := bundler.NewModule(id, bundler.KindCss)
	m.Content = content
	p := New()
	require.NoError(t, p.Parse(context.Background(), nil, m))
	return m
}

func TestAnalyzeDepsFindsAtImport(t *testing.T) {
	m := parseModule(t, "root:index.css", `@import "./base.css";
body { color: red; }`)

	p := New()
	deps, err := p.AnalyzeDeps(context.Background(), nil, m)
	require.NoError(t, err)
	require.Len(t, deps, 1)
	assert.Equal(t, "./base.css", deps[0].Specifier)
	assert.Equal(t, bundler.ResolveCssAtImport, deps[0].Kind)
}

func TestAnalyzeDepsIgnoresURLTokens(t *testing.T) {
	m := parseModule(t, "root:index.css", `.icon { background: url(./icon.png); }`)

	p := New()
	deps, err := p.AnalyzeDeps(context.Background(), nil, m)
	require.NoError(t, err)
	assert.Empty(t, deps, "url() tokens should not be surfaced as deps")
}

func TestRenderResourcePotConcatenatesInModuleOrderAndDropsImports(t *testing.T) {
	g := bundler.NewModuleGraph()
	index := parseModule(t, "root:index.css", `@import "./base.css";
body { color: red; }`)
	base := parseModule(t, "root:base.css", `h1 { color: blue; }`)
	g.AddModule(index)
	g.AddModule(base)

	pot := bundler.NewResourcePot("root:index.css", bundler.PotCss, "root:index.css")
	pot.AddModule(index.ID)
	pot.AddModule(base.ID)

	cc := &bundler.CompilationContext{Graph: g}
	p := New()
	require.NoError(t, p.RenderResourcePot(context.Background(), cc, pot))

	meta, ok := pot.Meta.(*PotMeta)
	require.True(t, ok, "expected *PotMeta, got %T", pot.Meta)
	assert.NotContains(t, meta.Code, "@import")

	bodyIdx := strings.Index(meta.Code, "color: red")
	h1Idx := strings.Index(meta.Code, "color: blue")
	require.NotEqual(t, -1, bodyIdx)
	require.NotEqual(t, -1, h1Idx)
	assert.Less(t, bodyIdx, h1Idx, "index's rules should render before base's")

	resources, err := p.GenerateResources(context.Background(), cc, pot)
	require.NoError(t, err)
	require.Len(t, resources, 1)
	assert.Equal(t, "index.css", resources[0].Name)
}

func TestRenderResourcePotIgnoresNonCssPots(t *testing.T) {
	pot := bundler.NewResourcePot("root:a.js", bundler.PotJs, "root:a.js")
	p := New()
	require.NoError(t, p.RenderResourcePot(context.Background(), &bundler.CompilationContext{}, pot))
	assert.Nil(t, pot.Meta)
}

func TestImportSourceHandlesQuotedAndURLForms(t *testing.T) {
	tests := map[string]string{
		`"./base.css"`:    "./base.css",
		`'./base.css'`:    "./base.css",
		`url(./base.css)`: "./base.css",
	}
	for in, want := range tests {
		assert.Equal(t, want, importSource(in), "importSource(%q)", in)
	}
}

