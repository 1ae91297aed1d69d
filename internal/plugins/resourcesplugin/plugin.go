// Package resourcesplugin implements the built-in resources plugin: the
// last stop in write_resources, it clears and recreates the configured
// output directory and writes every known resource's content to disk.
package resourcesplugin

import (
	"context"
	"os"
	"path/filepath"

	"github.com/Codpoe/toy-bundler/internal/bundler"
)

// writePriority runs after every other built-in plugin's WriteResources
// hook (htmlplugin's sibling-resource injection in particular), so the
// bytes this plugin writes reflect the final, injected content.
const writePriority = 900

// Plugin is the built-in resources plugin.
type Plugin struct {
	bundler.Base
}

// New returns the built-in resources plugin.
func New() *Plugin {
	return &Plugin{Base: bundler.Base{PluginName: "ToyPluginResources", PluginPriority: writePriority}}
}

// WriteResources recreates the configured output directory and writes every
// resource's content underneath it, marking each Emitted.
func (p *Plugin) WriteResources(_ context.Context, cc *bundler.CompilationContext) error {
	outDir := cc.Config.AbsOutputDir()

	// Ensure the directory exists, wipe it, then ensure it exists again so
	// it's present both before and after the clear.
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	if err := os.RemoveAll(outDir); err != nil {
		return err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	for _, r := range cc.Resources() {
		dest := filepath.Join(outDir, r.Name)
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(dest, r.Content, 0o644); err != nil {
			return err
		}
		r.Emitted = true
	}

	return nil
}
