// Package jsast implements a declaration-level ESM scanner: it tokenizes
// just enough of a JS/TS/JSX/TSX source file to find the boundaries of
// import/export statements and their specifiers, leaving the rest of the
// source as opaque byte spans. It is not a general-purpose JS parser.
//
// No available Go library exposes a reusable, mutable ESM-statement AST
// standalone from a full bundler (esbuild's own AST lives in an unexported
// internal package). This scanner is hand-rolled, restricted to
// brace/paren/bracket/quote-depth tracking sufficient to find declaration
// boundaries, generalized to survive nested braces and string literals and
// to extract the full import/export specifier shape the wrapped-form
// lowering in ../lower.go needs.
package jsast

// ImportSpecifier is one binding introduced by an import declaration:
// Imported is "default", "*" (namespace) or a named export; Local is the
// name it's bound to in this module.
type ImportSpecifier struct {
	Imported string
	Local    string
}

// ImportDecl is a lowered view of `import ... from 'source'` (including the
// synthetic imports introduced by re-export forms).
type ImportDecl struct {
	Source     string
	Specifiers []ImportSpecifier
}

// ExportSpecifier is one binding re-exported by a named-export statement:
// Local is the name in this module (or the synthetic import-local for
// re-exports), Exported is the external name.
type ExportSpecifier struct {
	Local    string
	Exported string
}

// ExportNamedDecl is a lowered view of `export { ... } [from 'source']` or
// `export const/function/class ...`.
type ExportNamedDecl struct {
	// Import is non-nil when this export re-exports from another module
	// (`export { a } from './a'`); the synthetic import that must be
	// emitted alongside it.
	Import *ImportDecl
	// Specifiers holds every bound name this statement exports, Local ==
	// Exported for inline declarations (`export const foo = 1`).
	Specifiers []ExportSpecifier
	// Retained is the declaration text to keep in the module body, with
	// the leading "export " stripped (empty for pure re-exports).
	Retained string
}

// ExportAllDecl is a lowered view of `export * from 'source'` and
// `export * as name from 'source'`.
type ExportAllDecl struct {
	Import *ImportDecl
	// Exported is "" for a bare `export * from`, the bound name otherwise.
	Exported string
	Local    string
}

// ExportDefaultDecl is a lowered view of `export default ...`, already
// reduced to one of the three §4.7 cases.
type ExportDefaultDecl struct {
	// ExportedLocal is the name bound to the `default` export key once
	// lowering is done (either an existing identifier, a retained
	// function/class's name, or a freshly introduced local).
	ExportedLocal string
	// Retained is non-empty when a declaration must stay in the module
	// body (a named function/class, or a fresh `const _x$toyN = expr;`).
	Retained string
}

// StatementKind classifies one top-level Statement.
type StatementKind int

const (
	StmtOther StatementKind = iota
	StmtImport
	StmtExportNamed
	StmtExportAll
	StmtExportDefault
)

// Statement is one top-level construct in program order. Non-module
// statements carry their exact original source in Raw; module
// declarations carry their lowered, structured form instead and are
// removed from the body (replaced by Retained text, if any).
type Statement struct {
	Kind StatementKind
	Raw  string

	Import        *ImportDecl
	ExportNamed   *ExportNamedDecl
	ExportAll     *ExportAllDecl
	ExportDefault *ExportDefaultDecl
}

// Program is the scanned module: its statements in source order, plus
// every dynamic `import()` source literal found anywhere in the file (they
// don't need to be at statement level, so they're collected separately).
type Program struct {
	Statements     []Statement
	DynamicImports []string
}
