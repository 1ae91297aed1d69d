// Package bundler implements the plugin-driven compilation pipeline: module
// graph construction, module-group partitioning, resource-pot merging and
// the build/generate drivers that sequence plugin hooks over them.
package bundler

import (
	"os"
	"path/filepath"
)

// ResolveOptions controls how bare and relative specifiers are turned into
// module ids by the resolve plugin.
type ResolveOptions struct {
	Extensions []string
	MainFields []string
	MainFiles  []string
}

// OutputConfig controls where generated resources are written.
type OutputConfig struct {
	Dir string
}

// Config is the compilation's top-level configuration, populated from CLI
// flags and/or a YAML file and then handed to every plugin's Config hook.
type Config struct {
	Root    string
	Input   map[string]string
	Output  OutputConfig
	Resolve ResolveOptions

	// Define holds build-time substitution values (e.g. "process.env.NODE_ENV"
	// -> "\"production\""), applied by the script plugin's Transform hook.
	Define map[string]string
}

// DefaultConfig returns a Config with the same defaults as the original
// compiler: root is the working directory, a single "main" entry pointing at
// ./index.html, output to ./dist, and browser-oriented module resolution.
func DefaultConfig() *Config {
	root, err := os.Getwd()
	if err != nil {
		root = "."
	}
	return &Config{
		Root: root,
		Input: map[string]string{
			"main": "./index.html",
		},
		Output: OutputConfig{
			Dir: "./dist",
		},
		Resolve: ResolveOptions{
			Extensions: []string{".js", ".jsx", ".ts", ".tsx"},
			MainFields: []string{"browser", "module", "main"},
			MainFiles:  []string{"index"},
		},
		Define: map[string]string{},
	}
}

// AbsOutputDir resolves the configured output directory relative to root.
func (c *Config) AbsOutputDir() string {
	if filepath.IsAbs(c.Output.Dir) {
		return c.Output.Dir
	}
	return filepath.Join(c.Root, c.Output.Dir)
}
