package scriptplugin

import (
	"strings"
	"testing"

	"github.com/Codpoe/toy-bundler/internal/bundler"
	"github.com/Codpoe/toy-bundler/internal/plugins/scriptplugin/jsast"
)

func newModule(t *testing.T, g *bundler.ModuleGraph, id, content string) *bundler.Module {
	t.Helper()
	m := bundler.NewModule(id, bundler.KindJs)
	m.Content = content
	m.Meta = &Meta{Program: jsast.Scan(content, id)}
	g.AddModule(m)
	return m
}

func TestLowerModuleBasicImport(t *testing.T) {
	g := bundler.NewModuleGraph()
	a := newModule(t, g, "root:a.js", `import { x } from './b';
console.log(x);
`)
	newModule(t, g, "root:b.js", `export const x = 1;
`)
	if err := g.AddEdge("root:a.js", "root:b.js", "./b", bundler.ResolveImport, 0); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}

	out, err := lowerModule(a, g)
	if err != nil {
		t.Fatalf("lowerModule: %v", err)
	}
	if !strings.Contains(out, `const { x } = __toyRequire__("root:b.js");`) {
		t.Fatalf("missing lowered import, got:\n%s", out)
	}
	if !strings.Contains(out, "console.log(x);") {
		t.Fatalf("missing retained body, got:\n%s", out)
	}
	if !strings.Contains(out, "__toyModule__.exports = {};") {
		t.Fatalf("missing trailing empty exports assignment, got:\n%s", out)
	}
}

func TestLowerModuleSkipsCSSImport(t *testing.T) {
	g := bundler.NewModuleGraph()
	a := newModule(t, g, "root:a.js", `import './style.css';
console.log('ok');
`)
	newModule(t, g, "root:style.css", ``)
	if err := g.AddEdge("root:a.js", "root:style.css", "./style.css", bundler.ResolveImport, 0); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}

	out, err := lowerModule(a, g)
	if err != nil {
		t.Fatalf("lowerModule: %v", err)
	}
	if strings.Contains(out, "__toyRequire__") {
		t.Fatalf("expected no lowered import for a CSS-suffixed source, got:\n%s", out)
	}
	if !strings.Contains(out, "console.log('ok');") {
		t.Fatalf("missing retained body, got:\n%s", out)
	}
}

func TestLowerModuleNamedExportsAndDefault(t *testing.T) {
	g := bundler.NewModuleGraph()
	a := newModule(t, g, "root:a.js", `export const y = 2;
export default function helper() {}
`)

	out, err := lowerModule(a, g)
	if err != nil {
		t.Fatalf("lowerModule: %v", err)
	}
	if !strings.Contains(out, "const y = 2;") {
		t.Fatalf("expected retained const declaration, got:\n%s", out)
	}
	if !strings.Contains(out, "function helper() {}") {
		t.Fatalf("expected retained named function, got:\n%s", out)
	}
	if !strings.Contains(out, "y: y") || !strings.Contains(out, "default: helper") {
		t.Fatalf("expected exports object with y and default entries, got:\n%s", out)
	}
}

func TestLowerModuleReexportAndExportAllSpread(t *testing.T) {
	g := bundler.NewModuleGraph()
	a := newModule(t, g, "root:a.js", `export { x } from './b';
export * from './c';
`)
	newModule(t, g, "root:b.js", `export const x = 1;`)
	newModule(t, g, "root:c.js", `export const y = 2;`)
	if err := g.AddEdge("root:a.js", "root:b.js", "./b", bundler.ResolveImport, 0); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	if err := g.AddEdge("root:a.js", "root:c.js", "./c", bundler.ResolveImport, 1); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}

	out, err := lowerModule(a, g)
	if err != nil {
		t.Fatalf("lowerModule: %v", err)
	}
	if !strings.Contains(out, `__toyRequire__("root:b.js")`) || !strings.Contains(out, `__toyRequire__("root:c.js")`) {
		t.Fatalf("expected synthetic imports for both re-exported sources, got:\n%s", out)
	}
	if !strings.Contains(out, "...") {
		t.Fatalf("expected a spread entry for export * from, got:\n%s", out)
	}
}

func TestWrapModuleShape(t *testing.T) {
	out := wrapModule("body();\n")
	if !strings.HasPrefix(out, "function(__toyModule__, __toyRequire__, __toyDynamicRequire__) {") {
		t.Fatalf("unexpected wrapper prefix: %s", out)
	}
}
