package jsast

import (
	"strconv"
	"strings"
)

// parseDecl turns the raw text of one classified top-level declaration into
// its structured Statement form. fileID/counter thread the fresh-local
// naming scheme through to whichever case needs it.
func parseDecl(kind declKind, text, fileID string, counter *int) Statement {
	switch kind {
	case kindTypeOnly:
		// Type-only imports/exports carry no runtime value; drop entirely.
		return Statement{Kind: StmtOther, Raw: ""}
	case kindImport:
		return Statement{Kind: StmtImport, Import: parseImport(text)}
	case kindExportNamed:
		return Statement{Kind: StmtExportNamed, ExportNamed: parseExportNamed(text, fileID, counter)}
	case kindExportAll:
		return Statement{Kind: StmtExportAll, ExportAll: parseExportAll(text)}
	case kindExportVar:
		return Statement{Kind: StmtExportNamed, ExportNamed: parseExportVar(text)}
	case kindExportFunc, kindExportClass:
		return Statement{Kind: StmtExportNamed, ExportNamed: parseExportDecl(text)}
	case kindExportDefaultFunc, kindExportDefaultClass:
		return Statement{Kind: StmtExportDefault, ExportDefault: parseExportDefaultDecl(text, fileID, counter)}
	case kindExportDefaultExpr:
		return Statement{Kind: StmtExportDefault, ExportDefault: parseExportDefaultExpr(text, fileID, counter)}
	default:
		return Statement{Kind: StmtOther, Raw: text}
	}
}

// parseImport parses `import <clause> from 'source';` (and the bare
// `import 'source';` side-effect form) into an ImportDecl.
func parseImport(text string) *ImportDecl {
	body := strings.TrimSuffix(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(text), "import")), ";")
	source, clause, ok := splitFromSource(body)
	if !ok {
		// Bare side-effect import: `import 'source'`.
		return &ImportDecl{Source: unquote(strings.TrimSpace(body))}
	}

	decl := &ImportDecl{Source: source}
	clause = strings.TrimSpace(clause)
	if clause == "" {
		return decl
	}

	for _, part := range splitTopLevel(clause, ',') {
		part = strings.TrimSpace(part)
		part = strings.TrimPrefix(part, "type ")
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		switch {
		case strings.HasPrefix(part, "* as "):
			decl.Specifiers = append(decl.Specifiers, ImportSpecifier{Imported: "*", Local: strings.TrimSpace(strings.TrimPrefix(part, "* as "))})
		case strings.HasPrefix(part, "{"):
			inner := strings.TrimSuffix(strings.TrimPrefix(part, "{"), "}")
			for _, spec := range splitTopLevel(inner, ',') {
				spec = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(spec), "type "))
				if spec == "" {
					continue
				}
				imported, local := splitAsClause(spec)
				decl.Specifiers = append(decl.Specifiers, ImportSpecifier{Imported: imported, Local: local})
			}
		default:
			// Default import; may be followed by `, { ... }` already split
			// above as a separate top-level part.
			decl.Specifiers = append(decl.Specifiers, ImportSpecifier{Imported: "default", Local: part})
		}
	}
	return decl
}

// splitFromSource splits "<clause> from 'source'" into (source, clause).
// ok is false when there's no ` from ` clause at all (bare side-effect
// import).
func splitFromSource(body string) (source, clause string, ok bool) {
	idx := lastTopLevelFrom(body)
	if idx < 0 {
		return "", body, false
	}
	clause = strings.TrimSpace(body[:idx])
	source = unquote(strings.TrimSpace(body[idx+len(" from "):]))
	return source, clause, true
}

func lastTopLevelFrom(s string) int {
	depth := 0
	inStr := byte(0)
	last := -1
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inStr != 0 {
			if c == '\\' {
				i++
			} else if c == inStr {
				inStr = 0
			}
			continue
		}
		switch c {
		case '\'', '"', '`':
			inStr = c
		case '{', '(', '[':
			depth++
		case '}', ')', ']':
			depth--
		default:
			if depth == 0 && strings.HasPrefix(s[i:], " from ") {
				last = i
			}
		}
	}
	return last
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		if (s[0] == '\'' && s[len(s)-1] == '\'') || (s[0] == '"' && s[len(s)-1] == '"') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

func splitAsClause(spec string) (imported, local string) {
	if idx := topLevelIndex(spec, ' '); idx >= 0 && strings.Contains(spec, " as ") {
		parts := strings.SplitN(spec, " as ", 2)
		return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	}
	name := strings.TrimSpace(spec)
	return name, name
}

// parseExportNamed parses `export { a, b as c } [from 'source'];`.
func parseExportNamed(text, fileID string, counter *int) *ExportNamedDecl {
	body := strings.TrimSuffix(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(text), "export")), ";")
	source, clause, hasFrom := splitFromSource(body)

	inner := strings.TrimSpace(clause)
	inner = strings.TrimSuffix(strings.TrimPrefix(inner, "{"), "}")

	decl := &ExportNamedDecl{}
	var importSpecs []ImportSpecifier
	for _, spec := range splitTopLevel(inner, ',') {
		spec = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(spec), "type "))
		if spec == "" {
			continue
		}
		local, exported := splitAsClause(spec)
		if hasFrom {
			// Re-export: the "local" name is only meaningful as the
			// synthetic import's binding, so bind it to a fresh local.
			*counter++
			importLocal := freshLocalName(fileID, *counter)
			importSpecs = append(importSpecs, ImportSpecifier{Imported: local, Local: importLocal})
			decl.Specifiers = append(decl.Specifiers, ExportSpecifier{Local: importLocal, Exported: exported})
		} else {
			decl.Specifiers = append(decl.Specifiers, ExportSpecifier{Local: local, Exported: exported})
		}
	}
	if hasFrom {
		decl.Import = &ImportDecl{Source: source, Specifiers: importSpecs}
	}
	return decl
}

// parseExportAll parses `export * from 'source';` and
// `export * as name from 'source';`. Both forms need a namespace local to
// spread into the trailing exports object, so both bind one, whether or not
// the source names it with "as".
func parseExportAll(text string) *ExportAllDecl {
	body := strings.TrimSuffix(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(text), "export")), ";")
	source, clause, _ := splitFromSource(body)
	clause = strings.TrimSpace(strings.TrimPrefix(clause, "*"))

	decl := &ExportAllDecl{Local: "_ns_" + slug(source)}
	if strings.HasPrefix(clause, "as ") {
		decl.Exported = strings.TrimSpace(strings.TrimPrefix(clause, "as "))
	}
	decl.Import = &ImportDecl{Source: source, Specifiers: []ImportSpecifier{{Imported: "*", Local: decl.Local}}}
	return decl
}

// parseExportVar parses `export const/let/var <bindings> = ...;`, retaining
// the declaration (with "export " stripped) and extracting every bound
// name as a same-name export specifier.
func parseExportVar(text string) *ExportNamedDecl {
	retained := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(text), "export"))
	retained = strings.TrimSpace(retained)

	kwEnd := strings.IndexByte(retained, ' ')
	if kwEnd < 0 {
		return &ExportNamedDecl{Retained: retained}
	}
	rest := retained[kwEnd+1:]

	var names []string
	for _, decl := range splitTopLevel(rest, ',') {
		decl = strings.TrimSpace(decl)
		if idx := topLevelIndex(decl, '='); idx >= 0 {
			names = append(names, extractBindingNames(decl[:idx])...)
		} else {
			names = append(names, extractBindingNames(decl)...)
		}
	}

	out := &ExportNamedDecl{Retained: retained}
	for _, name := range names {
		if name == "" {
			continue
		}
		out.Specifiers = append(out.Specifiers, ExportSpecifier{Local: name, Exported: name})
	}
	return out
}

// parseExportDecl parses `export function foo(...) {...}` and
// `export class Foo {...}`, retaining the declaration and exporting its name.
func parseExportDecl(text string) *ExportNamedDecl {
	retained := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(text), "export"))
	name := declName(retained)
	out := &ExportNamedDecl{Retained: retained}
	if name != "" {
		out.Specifiers = []ExportSpecifier{{Local: name, Exported: name}}
	}
	return out
}

// declName extracts the bound name from a `function foo(...)` /
// `async function foo(...)` / `class Foo ...` header.
func declName(decl string) string {
	decl = strings.TrimSpace(decl)
	decl = strings.TrimPrefix(decl, "async ")
	decl = strings.TrimSpace(decl)
	switch {
	case strings.HasPrefix(decl, "function*"):
		return firstIdentifier(decl[len("function*"):])
	case strings.HasPrefix(decl, "function"):
		return firstIdentifier(decl[len("function"):])
	case strings.HasPrefix(decl, "class"):
		return firstIdentifier(decl[len("class"):])
	}
	return ""
}

// parseExportDefaultDecl handles `export default function ...` / `export
// default class ...`. When the declaration has a name, retain it verbatim
// (the export lowering needs a live binding to point `default` at — the
// declaration can't simply be dropped, unlike an unused name-less
// expression) and export that name; anonymous declarations fall back to
// the same fresh-local treatment as any other default expression.
func parseExportDefaultDecl(text, fileID string, counter *int) *ExportDefaultDecl {
	body := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(text), "export"))
	body = strings.TrimSpace(strings.TrimPrefix(body, "default"))
	body = strings.TrimSpace(body)

	if name := declName(body); name != "" {
		return &ExportDefaultDecl{ExportedLocal: name, Retained: body}
	}
	return defaultExprDecl(body, fileID, counter)
}

// parseExportDefaultExpr handles `export default <expr>;`: a bare
// identifier needs no new binding; anything else gets a fresh local.
func parseExportDefaultExpr(text, fileID string, counter *int) *ExportDefaultDecl {
	body := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(text), "export"))
	body = strings.TrimSpace(strings.TrimPrefix(body, "default"))
	body = strings.TrimSuffix(strings.TrimSpace(body), ";")
	return defaultExprDecl(body, fileID, counter)
}

// defaultExprDecl builds the ExportDefaultDecl for a defaulted expression
// with no existing identifier to bind `default` to. counter is the calling
// Scan's own per-file fresh-local counter (see freshLocalName).
func defaultExprDecl(expr, fileID string, counter *int) *ExportDefaultDecl {
	expr = strings.TrimSuffix(strings.TrimSpace(expr), ";")
	if name := firstIdentifier(expr); name != "" && name == expr {
		return &ExportDefaultDecl{ExportedLocal: name}
	}
	*counter++
	local := freshLocalName(fileID, *counter)
	return &ExportDefaultDecl{
		ExportedLocal: local,
		Retained:      "const " + local + " = " + expr + ";",
	}
}

// freshLocalName builds the `_<slug>$toy<N>` fresh-local form §4.7 uses
// whenever a default export's value has no existing identifier to point at,
// and for the synthetic import binding of each `export { ... } from`
// specifier.
func freshLocalName(stem string, n int) string {
	return "_" + slug(stem) + "$toy" + strconv.Itoa(n)
}
