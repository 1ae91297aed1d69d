// Package resolveplugin implements the built-in resolve plugin: it turns a
// specifier plus an importer into a module id ("root:"-relative for files
// under the project root, the absolute path otherwise), the way a
// Node-style resolver does (relative/absolute paths, extension probing,
// package.json main-field lookup, directory index fallback).
//
// A full build pass would normally hand this job to a standalone
// path-resolution library (esbuild's internal resolver is the usual
// candidate), but that resolver isn't reachable outside of a full
// api.Build() call, and no available Go library ships an equivalent
// standalone resolver. This hook is therefore hand-written against
// os/path/filepath, following the familiar Node-resolution algorithm shape:
// extensions, main_fields, main_files, directory index.
package resolveplugin

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/Codpoe/toy-bundler/internal/bundler"
)

// Plugin is the built-in resolve plugin.
type Plugin struct {
	bundler.Base
	Options bundler.ResolveOptions
}

// New returns a resolve plugin configured with opts.
func New(opts bundler.ResolveOptions) *Plugin {
	return &Plugin{Base: bundler.Base{PluginName: "ToyPluginResolve"}, Options: opts}
}

// Resolve implements the resolve hook: split the query string off source,
// resolve the bare specifier against base (the importer's directory, or
// cc.Config.Root for entries), then rewrite the resulting absolute path
// into a module id.
func (p *Plugin) Resolve(_ context.Context, cc *bundler.CompilationContext, params bundler.ResolveParams) (*bundler.ResolveResult, error) {
	src, _ := bundler.SplitQuery(params.Source)

	base := params.Importer
	if base == "" {
		base = cc.Config.Root
	} else {
		base = filepath.Dir(bundler.FulfillRootPrefix(cc.Config.Root, base))
	}

	abs, err := resolveID(src, base, p.Options)
	if err != nil {
		return nil, err
	}

	return &bundler.ResolveResult{ID: bundler.ToModuleID(cc.Config.Root, abs)}, nil
}

// resolveID resolves src (a bare specifier, relative path, or absolute
// path) against base, the way Node's module resolution does: try the path
// verbatim, then (if it names a directory) a package.json main_fields
// lookup followed by each main_file with each extension, or (if it does
// not exist) the path with each configured extension appended.
func resolveID(src, base string, opts bundler.ResolveOptions) (string, error) {
	var candidateBase string
	switch {
	case filepath.IsAbs(src):
		candidateBase = filepath.Clean(src)
	case strings.HasPrefix(src, ".") || strings.HasPrefix(src, string(filepath.Separator)):
		candidateBase = filepath.Join(base, src)
	default:
		// Bare specifier: walk up from base looking for a node_modules dir
		// that contains it, the way Node resolution does.
		found, err := resolveBareSpecifier(src, base, opts)
		if err != nil {
			return "", err
		}
		return found, nil
	}

	if resolved, ok := resolveFileOrDir(candidateBase, opts); ok {
		return resolved, nil
	}
	return "", errors.New("no such file or directory")
}

func resolveBareSpecifier(src, base string, opts bundler.ResolveOptions) (string, error) {
	dir := base
	for {
		candidate := filepath.Join(dir, "node_modules", src)
		if resolved, ok := resolveFileOrDir(candidate, opts); ok {
			return resolved, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", errors.New("package not found in any node_modules")
}

// resolveFileOrDir tries path verbatim; if path is a directory it tries
// package.json main_fields and main_files+ext, and if path does not exist
// it tries path+ext.
func resolveFileOrDir(path string, opts bundler.ResolveOptions) (string, bool) {
	if info, err := os.Stat(path); err == nil {
		if !info.IsDir() {
			return path, true
		}
		if resolved, ok := resolveDir(path, opts); ok {
			return resolved, true
		}
		return "", false
	}

	for _, ext := range opts.Extensions {
		candidate := path + ext
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
	}
	return "", false
}

// resolveDir resolves a directory specifier via its package.json
// main_fields, falling back to main_files+extension (e.g. "index.js").
func resolveDir(dir string, opts bundler.ResolveOptions) (string, bool) {
	if pkgMain, ok := readPackageMain(dir, opts.MainFields); ok {
		resolved := filepath.Join(dir, pkgMain)
		if info, err := os.Stat(resolved); err == nil && !info.IsDir() {
			return resolved, true
		}
		for _, ext := range opts.Extensions {
			candidate := resolved + ext
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate, true
			}
		}
	}

	for _, mainFile := range opts.MainFiles {
		candidate := filepath.Join(dir, mainFile)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
		for _, ext := range opts.Extensions {
			withExt := candidate + ext
			if info, err := os.Stat(withExt); err == nil && !info.IsDir() {
				return withExt, true
			}
		}
	}
	return "", false
}

// readPackageMain reads dir/package.json and returns the first populated
// field named in mainFields, in order.
func readPackageMain(dir string, mainFields []string) (string, bool) {
	data, err := os.ReadFile(filepath.Join(dir, "package.json"))
	if err != nil {
		return "", false
	}
	var pkg map[string]any
	if err := json.Unmarshal(data, &pkg); err != nil {
		return "", false
	}
	for _, field := range mainFields {
		if v, ok := pkg[field]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s, true
			}
		}
	}
	return "", false
}
