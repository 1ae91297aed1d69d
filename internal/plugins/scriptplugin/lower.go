package scriptplugin

import (
	"fmt"
	"strings"

	"github.com/Codpoe/toy-bundler/internal/bundler"
	"github.com/Codpoe/toy-bundler/internal/plugins/scriptplugin/jsast"
)

// kv is one entry of a lowered import/export object (imported/exported name
// to local binding), kept as an ordered slice rather than a map so codegen
// is deterministic.
type kv struct{ key, value string }

// toyImport is one `const { <k>: <v>, … } = __toyRequire__("<resolvedID>");`
// statement collected while walking a module's declarations.
type toyImport struct {
	resolvedID string
	entries    []kv
}

// toyExport accumulates every binding that ends up in the trailing
// `__toyModule__.exports = { … }` object, plus any namespace locals that
// must be spread into it (`export * from`).
type toyExport struct {
	entries      []kv
	spreadLocals []string
}

// lowerModule rewrites m's ESM declarations into the wrapped call-site form
// §4.7 describes: ToyImport statements up front (resolved against m's own
// outgoing graph edges), the module's retained non-ESM body in between, and
// a single trailing exports assignment. CSS-suffixed import sources are
// skipped entirely — they're side-effect-only at bundle time, already
// pulled into the module graph by AnalyzeDeps but never lowered.
func lowerModule(m *bundler.Module, g *bundler.ModuleGraph) (string, error) {
	meta, ok := m.Meta.(*Meta)
	if !ok || meta.Program == nil {
		return m.Content, nil
	}

	resolved := map[string]string{}
	for _, dep := range g.Dependencies(m.ID) {
		resolved[dep.Edge.Source] = dep.TargetID
	}

	var imports []toyImport
	var body []string
	export := toyExport{}

	addImport := func(decl *jsast.ImportDecl) error {
		if decl == nil {
			return nil
		}
		if strings.HasSuffix(decl.Source, ".css") {
			return nil
		}
		id, ok := resolved[decl.Source]
		if !ok {
			return fmt.Errorf("lower %q: no resolved edge for import source %q", m.ID, decl.Source)
		}
		entries := make([]kv, 0, len(decl.Specifiers))
		for _, spec := range decl.Specifiers {
			entries = append(entries, kv{key: spec.Imported, value: spec.Local})
		}
		imports = append(imports, toyImport{resolvedID: id, entries: entries})
		return nil
	}

	for _, stmt := range meta.Program.Statements {
		switch stmt.Kind {
		case jsast.StmtImport:
			if err := addImport(stmt.Import); err != nil {
				return "", err
			}
		case jsast.StmtExportNamed:
			decl := stmt.ExportNamed
			if decl == nil {
				continue
			}
			if err := addImport(decl.Import); err != nil {
				return "", err
			}
			if decl.Retained != "" {
				body = append(body, decl.Retained)
			}
			for _, spec := range decl.Specifiers {
				export.entries = append(export.entries, kv{key: spec.Exported, value: spec.Local})
			}
		case jsast.StmtExportAll:
			decl := stmt.ExportAll
			if decl == nil {
				continue
			}
			if err := addImport(decl.Import); err != nil {
				return "", err
			}
			if decl.Exported != "" {
				export.entries = append(export.entries, kv{key: decl.Exported, value: decl.Local})
			} else {
				export.spreadLocals = append(export.spreadLocals, decl.Local)
			}
		case jsast.StmtExportDefault:
			decl := stmt.ExportDefault
			if decl == nil {
				continue
			}
			if decl.Retained != "" {
				body = append(body, decl.Retained)
			}
			export.entries = append(export.entries, kv{key: "default", value: decl.ExportedLocal})
		default:
			if stmt.Raw != "" {
				body = append(body, stmt.Raw)
			}
		}
	}

	var out strings.Builder
	for _, imp := range imports {
		out.WriteString("const ")
		out.WriteString(renderObjectPattern(imp.entries))
		out.WriteString(" = __toyRequire__(\"")
		out.WriteString(imp.resolvedID)
		out.WriteString("\");\n")
	}
	for _, b := range body {
		out.WriteString(b)
		out.WriteString("\n")
	}
	out.WriteString("__toyModule__.exports = ")
	out.WriteString(renderExportsObject(export))
	out.WriteString(";\n")

	return out.String(), nil
}

// renderObjectPattern renders `{ a: b, c: d }` for a destructuring import
// binding; a bare local whose name matches the imported key renders as
// shorthand (`{ a }`). The namespace key "*" (§4.7's `*->nsLocal` entry)
// isn't a valid bare identifier in an object pattern, so it's quoted —
// __toyRequire__ stamps that key onto every module's exports as a
// self-reference (see runtime.go) specifically so this destructures the
// whole namespace.
func renderObjectPattern(entries []kv) string {
	if len(entries) == 0 {
		return "{}"
	}
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		key := e.key
		if !isIdentifierKey(key) {
			key = fmt.Sprintf("%q", key)
		}
		if key == e.value {
			parts = append(parts, e.value)
		} else {
			parts = append(parts, fmt.Sprintf("%s: %s", key, e.value))
		}
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

func isIdentifierKey(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		isAlpha := c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
		isDigit := c >= '0' && c <= '9'
		if i == 0 && !isAlpha {
			return false
		}
		if i > 0 && !isAlpha && !isDigit {
			return false
		}
	}
	return true
}

// renderExportsObject renders the trailing `{ a: b, …, ...ns }` exports
// object literal.
func renderExportsObject(e toyExport) string {
	if len(e.entries) == 0 && len(e.spreadLocals) == 0 {
		return "{}"
	}
	parts := make([]string, 0, len(e.entries)+len(e.spreadLocals))
	for _, kv := range e.entries {
		parts = append(parts, fmt.Sprintf("%s: %s", kv.key, kv.value))
	}
	for _, local := range e.spreadLocals {
		parts = append(parts, "..."+local)
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

// wrapModule wraps a module's lowered body in the call-site shape §4.6 step
// 1 describes.
func wrapModule(body string) string {
	return "function(__toyModule__, __toyRequire__, __toyDynamicRequire__) {\n" + body + "}"
}
