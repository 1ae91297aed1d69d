package bundler

import (
	"path/filepath"
	"strings"
)

// ModuleKind classifies a module by the file extension it was resolved
// from.
type ModuleKind int

const (
	KindHtml ModuleKind = iota
	KindCss
	KindJs
	KindJsx
	KindTs
	KindTsx
	KindAsset
	KindCustom
)

// ModuleKindFromExt derives a ModuleKind from a file extension (with or
// without the leading dot).
func ModuleKindFromExt(ext string) ModuleKind {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "html", "htm":
		return KindHtml
	case "css":
		return KindCss
	case "js", "mjs", "cjs":
		return KindJs
	case "jsx":
		return KindJsx
	case "ts", "mts", "cts":
		return KindTs
	case "tsx":
		return KindTsx
	default:
		return KindAsset
	}
}

// ModuleKindFromFilePath derives a ModuleKind from a full file path.
func ModuleKindFromFilePath(path string) ModuleKind {
	return ModuleKindFromExt(filepath.Ext(path))
}

// IsHTML reports whether k is the HTML module kind.
func (k ModuleKind) IsHTML() bool { return k == KindHtml }

// IsStyle reports whether k is the CSS module kind.
func (k ModuleKind) IsStyle() bool { return k == KindCss }

// IsScript reports whether k is one of the script-family kinds.
func (k ModuleKind) IsScript() bool {
	switch k {
	case KindJs, KindJsx, KindTs, KindTsx:
		return true
	default:
		return false
	}
}

// ResolveKind describes how a dependency specifier was discovered, and
// determines whether it starts a new module group (only DynamicImport
// does).
type ResolveKind int

const (
	ResolveEntry ResolveKind = iota
	ResolveImport
	ResolveDynamicImport
	ResolveRequire
	ResolveCssAtImport
	ResolveCssUrl
	ResolveScriptSrc
	ResolveLinkHref
	ResolveCustom
)

// ModuleMeta is an opaque per-kind payload attached to a Module (the parsed
// AST/content produced by the parse hook). Concrete plugins store their own
// payload type and type-assert it back out; ModuleMeta itself carries no
// behavior.
type ModuleMeta interface {
	isModuleMeta()
}

// BaseMeta can be embedded by plugin-specific meta types to satisfy
// ModuleMeta without boilerplate.
type BaseMeta struct{}

func (BaseMeta) isModuleMeta() {}

// Module is a single resolved, loaded (and, once parsed, analyzed) unit in
// the module graph.
type Module struct {
	ID      string
	Kind    ModuleKind
	Content string
	Meta    ModuleMeta

	// ModuleGroups records which module groups this module has been placed
	// into by AnalyzeModuleGraph.
	ModuleGroups map[string]struct{}
}

// NewModule constructs a Module with its ModuleGroups set initialized.
func NewModule(id string, kind ModuleKind) *Module {
	return &Module{
		ID:           id,
		Kind:         kind,
		ModuleGroups: map[string]struct{}{},
	}
}

const rootPrefix = "root:"

// StripRootPrefix removes the "root:" module-id prefix, if present,
// returning the path relative to config.Root.
func StripRootPrefix(id string) string {
	return strings.TrimPrefix(id, rootPrefix)
}

// FulfillRootPrefix resolves a module id back to an absolute filesystem
// path: ids beginning with "root:" are rejoined onto root, others are
// returned unchanged (e.g. ids representing bare package specifiers that
// were resolved outside of root).
func FulfillRootPrefix(root, id string) string {
	if rel, ok := strings.CutPrefix(id, rootPrefix); ok {
		return filepath.Join(root, rel)
	}
	return id
}

// ToModuleID rewrites an absolute path under root into the "root:"-prefixed
// module id form; paths outside root are left verbatim.
func ToModuleID(root, absPath string) string {
	rel, err := filepath.Rel(root, absPath)
	if err != nil || strings.HasPrefix(rel, "..") {
		return absPath
	}
	return rootPrefix + filepath.ToSlash(rel)
}

// SplitQuery splits a specifier at its first "?", returning the bare id and
// the raw query string (without the leading "?"). If there is no "?" the
// query is empty.
func SplitQuery(specifier string) (id, query string) {
	if i := strings.IndexByte(specifier, '?'); i >= 0 {
		return specifier[:i], specifier[i+1:]
	}
	return specifier, ""
}

// ParseQuery parses a query string of "&"-separated "key" or "key=value"
// pairs into a map; a bare key with no "=" maps to the empty string.
func ParseQuery(query string) map[string]string {
	result := map[string]string{}
	if query == "" {
		return result
	}
	for _, part := range strings.Split(query, "&") {
		if part == "" {
			continue
		}
		if i := strings.IndexByte(part, '='); i >= 0 {
			result[part[:i]] = part[i+1:]
		} else {
			result[part] = ""
		}
	}
	return result
}
